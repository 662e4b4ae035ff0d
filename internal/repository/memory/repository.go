// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/navikt/roomboard/internal/models"
)

// ErrNotFound is returned when a requested room is not found
var ErrNotFound = errors.New("room not found")

// Repository implements the repository interface with in-memory storage.
// Records are copied on the way in and out so callers can mutate their
// rooms freely; the mutex gives per-record write atomicity.
type Repository struct {
	rooms map[string]*models.Room
	mu    sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms: make(map[string]*models.Room),
	}
}

// copyRoom returns a deep copy of a room record
func copyRoom(room *models.Room) *models.Room {
	clone := *room
	clone.Schedule = make([]models.TimeSlot, len(room.Schedule))
	copy(clone.Schedule, room.Schedule)
	if room.UpdatedBy != nil {
		ref := *room.UpdatedBy
		clone.UpdatedBy = &ref
	}
	for i := range clone.Schedule {
		if clone.Schedule[i].ReservedBy != nil {
			ref := *clone.Schedule[i].ReservedBy
			clone.Schedule[i].ReservedBy = &ref
		}
	}
	return &clone
}

// SaveRoom stores a room record, overwriting any existing record with the
// same room number.
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.RoomNumber] = copyRoom(room)
	return nil
}

// GetRoom retrieves a room by its room number
func (r *Repository) GetRoom(ctx context.Context, roomNumber string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoom(room), nil
}

// ListRooms returns all rooms matching the filter, sorted by floor and
// room number.
func (r *Repository) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if filter.Matches(room) {
			rooms = append(rooms, copyRoom(room))
		}
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})

	return rooms, nil
}

// DeleteRoom removes a room by its room number
func (r *Repository) DeleteRoom(ctx context.Context, roomNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomNumber]; !ok {
		return ErrNotFound
	}
	delete(r.rooms, roomNumber)
	return nil
}

// CountRooms counts the rooms matching the filter
func (r *Repository) CountRooms(ctx context.Context, filter models.RoomFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, room := range r.rooms {
		if filter.Matches(room) {
			count++
		}
	}
	return count, nil
}
