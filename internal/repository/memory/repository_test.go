package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/repository/memory"
)

func testRoom(roomNumber string, floor int, status models.Status) *models.Room {
	return &models.Room{
		RoomNumber:    roomNumber,
		Floor:         floor,
		Building:      "Main Building",
		Type:          "Seminar Room",
		Capacity:      20,
		CurrentStatus: status,
		Schedule:      []models.TimeSlot{},
		LastUpdated:   time.Now(),
	}
}

func TestSaveAndGetRoom(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	room := testRoom("101", 1, models.StatusFree)
	require.NoError(t, repo.SaveRoom(ctx, room))

	got, err := repo.GetRoom(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, "101", got.RoomNumber)
	assert.Equal(t, models.StatusFree, got.CurrentStatus)
}

func TestGetRoomNotFound(t *testing.T) {
	repo := memory.NewRepository()

	_, err := repo.GetRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, memory.ErrNotFound)
}

func TestSaveRoomOverwrites(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRoom(ctx, testRoom("101", 1, models.StatusFree)))
	require.NoError(t, repo.SaveRoom(ctx, testRoom("101", 1, models.StatusOccupied)))

	got, err := repo.GetRoom(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, got.CurrentStatus)

	count, err := repo.CountRooms(ctx, models.RoomFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordsAreIsolatedFromCallers(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	room := testRoom("101", 1, models.StatusFree)
	room.Schedule = []models.TimeSlot{{StartTime: "09:00", EndTime: "10:00", Status: models.StatusOccupied}}
	require.NoError(t, repo.SaveRoom(ctx, room))

	// Mutating the saved value must not affect the stored record
	room.CurrentStatus = models.StatusMaintenance
	room.Schedule[0].Status = models.StatusReserved

	got, err := repo.GetRoom(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFree, got.CurrentStatus)
	assert.Equal(t, models.StatusOccupied, got.Schedule[0].Status)

	// Mutating a retrieved value must not affect the stored record either
	got.CurrentStatus = models.StatusMaintenance

	again, err := repo.GetRoom(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFree, again.CurrentStatus)
}

func TestListRoomsSortedAndFiltered(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRoom(ctx, testRoom("201", 2, models.StatusFree)))
	require.NoError(t, repo.SaveRoom(ctx, testRoom("G01", 0, models.StatusOccupied)))
	require.NoError(t, repo.SaveRoom(ctx, testRoom("102", 1, models.StatusFree)))
	require.NoError(t, repo.SaveRoom(ctx, testRoom("101", 1, models.StatusFree)))

	rooms, err := repo.ListRooms(ctx, models.RoomFilter{})
	require.NoError(t, err)
	require.Len(t, rooms, 4)

	// Sorted by floor, then room number
	assert.Equal(t, "G01", rooms[0].RoomNumber)
	assert.Equal(t, "101", rooms[1].RoomNumber)
	assert.Equal(t, "102", rooms[2].RoomNumber)
	assert.Equal(t, "201", rooms[3].RoomNumber)

	floor1 := 1
	filtered, err := repo.ListRooms(ctx, models.RoomFilter{Floor: &floor1})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	occupied, err := repo.ListRooms(ctx, models.RoomFilter{Status: models.StatusOccupied})
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, "G01", occupied[0].RoomNumber)
}

func TestDeleteRoom(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRoom(ctx, testRoom("101", 1, models.StatusFree)))
	require.NoError(t, repo.DeleteRoom(ctx, "101"))

	_, err := repo.GetRoom(ctx, "101")
	assert.ErrorIs(t, err, memory.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteRoom(ctx, "101"), memory.ErrNotFound)
}

func TestCountRooms(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	count, err := repo.CountRooms(ctx, models.RoomFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repo.SaveRoom(ctx, testRoom("101", 1, models.StatusFree)))
	require.NoError(t, repo.SaveRoom(ctx, testRoom("201", 2, models.StatusOccupied)))

	count, err = repo.CountRooms(ctx, models.RoomFilter{Status: models.StatusOccupied})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
