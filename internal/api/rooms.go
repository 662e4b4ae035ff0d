package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/service"
	"github.com/navikt/roomboard/internal/utils"
)

// RoomHandler handles HTTP requests for room management
type RoomHandler struct {
	service *service.RoomService
}

// NewRoomHandler creates a new room handler with the given service
func NewRoomHandler(svc *service.RoomService) *RoomHandler {
	return &RoomHandler{
		service: svc,
	}
}

// ServeHTTP routes room requests.
//
// Path formats:
//
//	/api/rooms                               GET list
//	/api/rooms/{roomNumber}                  GET detail
//	/api/rooms/{roomNumber}/schedule         GET schedule
//	/api/rooms/admin                         POST create
//	/api/rooms/admin/stats                   GET statistics
//	/api/rooms/admin/bulk-update             PATCH bulk status update
//	/api/rooms/admin/{roomNumber}            PUT update / DELETE remove
//	/api/rooms/admin/{roomNumber}/status     PATCH status update
func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Set common headers
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/api/rooms")
	path = strings.Trim(path, "/")
	parts := []string{}
	if path != "" {
		parts = strings.Split(path, "/")
	}

	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.listRooms(w, r)
	case len(parts) >= 1 && parts[0] == "admin":
		h.serveAdmin(w, r, parts[1:])
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getRoom(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "schedule" && r.Method == http.MethodGet:
		h.getSchedule(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

// serveAdmin routes the admin sub-tree; the service enforces the admin role
func (h *RoomHandler) serveAdmin(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.createRoom(w, r)
	case len(parts) == 1 && parts[0] == "stats" && r.Method == http.MethodGet:
		h.getStats(w, r)
	case len(parts) == 1 && parts[0] == "bulk-update" && r.Method == http.MethodPatch:
		h.bulkUpdate(w, r)
	case len(parts) == 1 && r.Method == http.MethodPut:
		h.updateRoom(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.deleteRoom(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPatch:
		h.updateStatus(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

// listRooms handles GET /api/rooms with optional floor/building/type/status filters
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	filter := models.RoomFilter{}

	if raw := r.URL.Query().Get("floor"); raw != "" {
		if floor, err := strconv.Atoi(raw); err == nil {
			filter.Floor = &floor
		}
	}
	if building := strings.TrimSpace(r.URL.Query().Get("building")); building != "" {
		filter.Building = building
	}
	if roomType := strings.TrimSpace(r.URL.Query().Get("type")); roomType != "" {
		filter.Type = roomType
	}
	if status := models.Status(r.URL.Query().Get("status")); status.IsValid() {
		filter.Status = status
	}

	rooms, err := h.service.ListRooms(r.Context(), filter)
	if err != nil {
		h.writeError(w, err, "Error retrieving rooms")
		return
	}

	json.NewEncoder(w).Encode(rooms)
}

// getRoom handles GET /api/rooms/{roomNumber}
func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request, roomNumber string) {
	room, err := h.service.GetRoom(r.Context(), roomNumber)
	if err != nil {
		h.writeError(w, err, "Error retrieving room")
		return
	}

	json.NewEncoder(w).Encode(room)
}

// getSchedule handles GET /api/rooms/{roomNumber}/schedule
func (h *RoomHandler) getSchedule(w http.ResponseWriter, r *http.Request, roomNumber string) {
	schedule, err := h.service.GetSchedule(r.Context(), roomNumber)
	if err != nil {
		h.writeError(w, err, "Error retrieving schedule")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"roomNumber": roomNumber,
		"date":       date,
		"schedule":   schedule,
	})
}

// createRoom handles POST /api/rooms/admin
func (h *RoomHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var input service.CreateRoomInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	room, err := h.service.CreateRoom(r.Context(), input, identityFrom(r))
	if err != nil {
		h.writeError(w, err, "Error creating room")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Room created successfully",
		"room":    room,
	})
}

// updateRoom handles PUT /api/rooms/admin/{roomNumber}
func (h *RoomHandler) updateRoom(w http.ResponseWriter, r *http.Request, roomNumber string) {
	var input service.UpdateRoomInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	room, err := h.service.UpdateRoomInfo(r.Context(), roomNumber, input, identityFrom(r))
	if err != nil {
		h.writeError(w, err, "Error updating room")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// deleteRoom handles DELETE /api/rooms/admin/{roomNumber}
func (h *RoomHandler) deleteRoom(w http.ResponseWriter, r *http.Request, roomNumber string) {
	if err := h.service.DeleteRoom(r.Context(), roomNumber, identityFrom(r)); err != nil {
		h.writeError(w, err, "Error deleting room")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"message": "Room deleted successfully",
	})
}

// updateStatus handles PATCH /api/rooms/admin/{roomNumber}/status
func (h *RoomHandler) updateStatus(w http.ResponseWriter, r *http.Request, roomNumber string) {
	var update service.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	update.RoomNumber = roomNumber

	event, err := h.service.UpdateStatus(r.Context(), update, identityFrom(r))
	if err != nil {
		h.writeError(w, err, "Error updating room status")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Room status updated successfully",
		"room": map[string]interface{}{
			"roomNumber":    event.RoomNumber,
			"currentStatus": event.Status,
			"lastUpdated":   event.LastUpdated,
		},
	})
}

// bulkUpdate handles PATCH /api/rooms/admin/bulk-update
func (h *RoomHandler) bulkUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Updates []service.StatusUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "Updates must be an array", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := h.service.ApplyBatch(r.Context(), body.Updates, identityFrom(r))
	if err != nil {
		h.writeError(w, err, "Error in bulk update")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": fmt.Sprintf("Bulk update completed. %d successful, %d failed.",
			len(result.Successful), len(result.Errors)),
		"successful": result.Successful,
		"errors":     result.Errors,
	})
}

// getStats handles GET /api/rooms/admin/stats
func (h *RoomHandler) getStats(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)
	if identity == nil || !identity.IsAdmin() {
		jsonError(w, "Admin access required", http.StatusForbidden)
		return
	}

	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.writeError(w, err, "Error retrieving room stats")
		return
	}

	json.NewEncoder(w).Encode(stats)
}

// writeError maps service errors onto HTTP responses. Unexpected errors
// are logged server-side and surfaced as a generic failure.
func (h *RoomHandler) writeError(w http.ResponseWriter, err error, logContext string) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		jsonError(w, "Room not found", http.StatusNotFound)
	case errors.Is(err, service.ErrRoomExists):
		jsonError(w, "Room with this number already exists", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidStatus):
		jsonError(w, "Invalid status", http.StatusBadRequest)
	case errors.Is(err, service.ErrValidation):
		jsonError(w, "Invalid input", http.StatusBadRequest)
	case errors.Is(err, service.ErrForbidden):
		jsonError(w, "Admin access required", http.StatusForbidden)
	default:
		log.Printf("%s: %v", utils.SanitizeLogString(logContext), err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// jsonError writes a JSON error body with the given status code
func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
