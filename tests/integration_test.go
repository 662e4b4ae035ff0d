package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/roomboard/internal/api"
	"github.com/navikt/roomboard/internal/auth"
	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/config"
	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/repository/memory"
	"github.com/navikt/roomboard/internal/service"
)

// setupEngine wires the full stack the way main does, minus the network
func setupEngine(t *testing.T) (*http.ServeMux, *broadcast.Registry, *service.RoomService, *auth.Gatekeeper) {
	t.Helper()

	repo := memory.NewRepository()
	registry := broadcast.NewRegistry()
	svc := service.NewRoomService(repo, registry)

	gatekeeper := auth.NewGatekeeper(config.AuthConfig{
		JWTSecret: "integration-secret",
		TokenTTL:  time.Hour,
		Issuer:    "roomboard-test",
	}, nil)

	return api.SetupRoutes(svc, gatekeeper), registry, svc, gatekeeper
}

func issueToken(t *testing.T, gatekeeper *auth.Gatekeeper, role models.Role) string {
	t.Helper()
	token, err := gatekeeper.IssueToken(&models.Identity{
		ID: "u1", Username: "admin1", FirstName: "Ada", LastName: "Admin", Role: role,
	})
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)
	return recorder
}

// TestStatusUpdateFlow drives a status change through the HTTP API and
// verifies the broadcast side effects a connected client would see.
func TestStatusUpdateFlow(t *testing.T) {
	mux, registry, svc, gatekeeper := setupEngine(t)
	adminToken := issueToken(t, gatekeeper, models.RoleAdmin)

	require.NoError(t, svc.SeedDefaultRooms(context.Background()))

	// A board subscribed to everything and one scoped to floor 3
	global := registry.Subscribe("board-global", models.TopicAll)
	floor3 := registry.Subscribe("board-floor3")
	registry.Join("board-floor3", models.FloorTopic(3))

	recorder := doJSON(t, mux, http.MethodPatch, "/api/rooms/admin/101/status", adminToken, map[string]string{
		"status": "occupied",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	// The global subscriber sees the floor-1 update, the floor-3 board
	// does not.
	select {
	case event := <-global.C:
		assert.Equal(t, models.EventRoomStatusUpdate, event.Name)
		data, ok := event.Data.(models.RoomStatusEvent)
		require.True(t, ok)
		assert.Equal(t, "101", data.RoomNumber)
		assert.Equal(t, models.StatusOccupied, data.Status)
	default:
		t.Fatal("expected a broadcast on the global subscription")
	}

	select {
	case event := <-floor3.C:
		t.Fatalf("floor-3 board should not receive floor-1 events, got %s", event.Name)
	default:
	}

	// The change is visible through the read API
	recorder = doJSON(t, mux, http.MethodGet, "/api/rooms/101", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var room models.Room
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&room))
	assert.Equal(t, models.StatusOccupied, room.CurrentStatus)
}

// TestBulkUpdateFlow verifies partial-failure isolation end to end
func TestBulkUpdateFlow(t *testing.T) {
	mux, registry, svc, gatekeeper := setupEngine(t)
	adminToken := issueToken(t, gatekeeper, models.RoleAdmin)

	require.NoError(t, svc.SeedDefaultRooms(context.Background()))
	sub := registry.Subscribe("board", models.TopicAll)

	recorder := doJSON(t, mux, http.MethodPatch, "/api/rooms/admin/bulk-update", adminToken, map[string]interface{}{
		"updates": []map[string]string{
			{"roomNumber": "101", "status": "occupied"},
			{"roomNumber": "DOES_NOT_EXIST", "status": "occupied"},
			{"roomNumber": "102", "status": "reserved"},
		},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Message    string                `json:"message"`
		Successful []service.BulkSuccess `json:"successful"`
		Errors     []service.BulkError   `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))

	assert.Equal(t, "Bulk update completed. 2 successful, 1 failed.", body.Message)
	assert.Len(t, body.Successful, 2)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Room not found", body.Errors[0].Error)

	// One broadcast per successful entry, none for the failed one
	broadcasts := 0
	for {
		select {
		case <-sub.C:
			broadcasts++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 2, broadcasts)
}

// TestRoomLifecycleFlow covers create, schedule write and delete
func TestRoomLifecycleFlow(t *testing.T) {
	mux, registry, _, gatekeeper := setupEngine(t)
	adminToken := issueToken(t, gatekeeper, models.RoleAdmin)
	studentToken := issueToken(t, gatekeeper, models.RoleStudent)

	sub := registry.Subscribe("board", models.TopicAll)

	recorder := doJSON(t, mux, http.MethodPost, "/api/rooms/admin", adminToken, map[string]interface{}{
		"roomNumber": "401",
		"floor":      4,
		"type":       "Seminar Room",
		"capacity":   25,
		"equipment":  "Whiteboard",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	event := <-sub.C
	assert.Equal(t, models.EventRoomCreated, event.Name)

	// Students can read but not mutate
	recorder = doJSON(t, mux, http.MethodGet, "/api/rooms/401", studentToken, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, mux, http.MethodDelete, "/api/rooms/admin/401", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// Admin writes a reservation slot and then removes the room
	recorder = doJSON(t, mux, http.MethodPatch, "/api/rooms/admin/401/status", adminToken, map[string]string{
		"status":    "reserved",
		"startTime": "09:00",
		"endTime":   "10:30",
		"purpose":   "Project meeting",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, mux, http.MethodGet, "/api/rooms/401/schedule", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var scheduleBody struct {
		Schedule []models.TimeSlot `json:"schedule"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&scheduleBody))
	require.Len(t, scheduleBody.Schedule, 1)
	assert.Equal(t, "Project meeting", scheduleBody.Schedule[0].Purpose)
	require.NotNil(t, scheduleBody.Schedule[0].ReservedBy)
	assert.Equal(t, "admin1", scheduleBody.Schedule[0].ReservedBy.Username)

	recorder = doJSON(t, mux, http.MethodDelete, "/api/rooms/admin/401", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, mux, http.MethodGet, "/api/rooms/401", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
