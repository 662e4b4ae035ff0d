package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/navikt/roomboard/internal/auth"
	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/service"
	"github.com/navikt/roomboard/internal/utils"
)

// Handler upgrades authenticated requests to websocket connections and
// dispatches real-time room commands.
type Handler struct {
	service    *service.RoomService
	gatekeeper *auth.Gatekeeper
	registry   *broadcast.Registry
	upgrader   websocket.Upgrader
}

// NewHandler creates a websocket handler wired to the engine
func NewHandler(svc *service.RoomService, gatekeeper *auth.Gatekeeper, registry *broadcast.Registry) *Handler {
	return &Handler{
		service:    svc,
		gatekeeper: gatekeeper,
		registry:   registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the campus web app on other origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP authenticates the connection before upgrading. The bearer
// token travels in the "token" query parameter or the Authorization
// header; an invalid credential is rejected before any subscription or
// room state is touched.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}

	identity, err := h.gatekeeper.Authenticate(token)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	clientID := uuid.New().String()

	// Every connection receives the global update stream; floor topics
	// are joined on demand.
	sub := h.registry.Subscribe(clientID, models.TopicAll)
	c := newClient(clientID, identity, conn, sub)

	log.Printf("ws: user %s connected (%s)", utils.SanitizeLogString(identity.Username), clientID)

	c.emit(models.EventUserConnected, map[string]interface{}{
		"userId":   identity.ID,
		"username": identity.Username,
		"role":     identity.Role,
		"name":     identity.DisplayName(),
	})

	go c.writePump()
	go h.readPump(c)
}

// readPump consumes commands until the peer disconnects, then tears the
// subscription down so no timer or channel outlives the connection.
func (h *Handler) readPump(c *client) {
	defer func() {
		h.registry.Unsubscribe(c.id)
		c.close()
		log.Printf("ws: user %s disconnected (%s)", utils.SanitizeLogString(c.identity.Username), c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error for client %s: %v", c.id, err)
			}
			return
		}
		h.dispatch(c, msg)
	}
}

// dispatch routes one inbound command
func (h *Handler) dispatch(c *client, msg inboundMessage) {
	switch msg.Action {
	case "getRoomStatus":
		h.handleGetRoomStatus(c, msg.Data)
	case "updateRoomStatus":
		h.handleUpdateRoomStatus(c, msg.Data)
	case "bulkUpdateRoomStatus":
		h.handleBulkUpdate(c, msg.Data)
	case "joinFloor":
		h.handleJoinFloor(c, msg.Data)
	case "leaveFloor":
		h.handleLeaveFloor(c, msg.Data)
	default:
		c.emitError("Unknown action")
	}
}

func (h *Handler) handleGetRoomStatus(c *client, data json.RawMessage) {
	var req struct {
		RoomNumber string `json:"roomNumber"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.RoomNumber == "" {
		c.emitError("Room number is required")
		return
	}

	status, err := h.service.GetRoomStatus(c.ctx, req.RoomNumber)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.emitError("Room not found")
		} else {
			log.Printf("ws: error fetching room status: %v", err)
			c.emitError("Error fetching room status")
		}
		return
	}

	c.emit("roomStatus", status)
}

func (h *Handler) handleUpdateRoomStatus(c *client, data json.RawMessage) {
	var update service.StatusUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		c.emitError("Invalid update payload")
		return
	}

	event, err := h.service.UpdateStatus(c.ctx, update, c.identity)
	if err != nil {
		c.emitError(updateErrorMessage(err))
		return
	}

	// The broadcast to other subscribers happens in the service; confirm
	// directly to the admin who made the change.
	c.emit("updateConfirmed", map[string]interface{}{
		"roomNumber": event.RoomNumber,
		"status":     event.Status,
	})
}

func (h *Handler) handleBulkUpdate(c *client, data json.RawMessage) {
	var updates []service.StatusUpdate
	if err := json.Unmarshal(data, &updates); err != nil {
		c.emitError("Invalid bulk update payload")
		return
	}

	result, err := h.service.ApplyBatch(c.ctx, updates, c.identity)
	if err != nil {
		c.emitError(updateErrorMessage(err))
		return
	}

	c.emit(models.EventBulkUpdateCompleted, map[string]interface{}{
		"results": result.Successful,
		"errors":  result.Errors,
	})
}

func (h *Handler) handleJoinFloor(c *client, data json.RawMessage) {
	floor, ok := parseFloor(data)
	if !ok {
		c.emitError("Invalid floor")
		return
	}

	h.registry.Join(c.id, models.FloorTopic(floor))
	c.emit("floorJoined", map[string]int{"floor": floor})
}

func (h *Handler) handleLeaveFloor(c *client, data json.RawMessage) {
	floor, ok := parseFloor(data)
	if !ok {
		c.emitError("Invalid floor")
		return
	}

	h.registry.Leave(c.id, models.FloorTopic(floor))
	c.emit("floorLeft", map[string]int{"floor": floor})
}

// parseFloor accepts either a bare number or a {"floor": n} object
func parseFloor(data json.RawMessage) (int, bool) {
	var floor int
	if err := json.Unmarshal(data, &floor); err == nil {
		return floor, true
	}

	var req struct {
		Floor *int `json:"floor"`
	}
	if err := json.Unmarshal(data, &req); err == nil && req.Floor != nil {
		return *req.Floor, true
	}
	return 0, false
}

// updateErrorMessage maps engine errors to real-time error payloads
func updateErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return "Unauthorized - Admin access required"
	case errors.Is(err, service.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, service.ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, service.ErrValidation):
		return "Invalid update payload"
	default:
		log.Printf("ws: error updating room status: %v", err)
		return "Error updating room status"
	}
}

// bearerToken extracts the credential from the Authorization header
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
