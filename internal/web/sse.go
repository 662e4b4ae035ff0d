// Package web serves the browser-facing event stream. Status boards in
// hallways and the campus web app subscribe here instead of opening a
// websocket.
package web

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/google/uuid"

	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/service"
)

// heartbeatInterval keeps proxies from timing out idle streams
const heartbeatInterval = 5 * time.Second

// SSEManager streams room events to connected clients over server-sent
// events. Each connection gets its own broadcast subscription, so a
// stalled client never blocks the registry or other clients.
type SSEManager struct {
	service  *service.RoomService
	registry *broadcast.Registry
}

// NewSSEManager creates a server-sent events manager wired to the
// broadcast registry
func NewSSEManager(svc *service.RoomService, registry *broadcast.Registry) *SSEManager {
	return &SSEManager{
		service:  svc,
		registry: registry,
	}
}

// ServeHTTP implements the http.Handler interface for SSE connections.
// Authentication happens in front of this handler; by the time it runs
// the caller holds a valid identity. An optional "floor" query parameter
// scopes the stream to one floor's topic in addition to the global
// stream.
func (sm *SSEManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// CORS header so the stream works from the campus web app
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx proxy buffering

	topics := []string{models.TopicAll}
	if floor := r.URL.Query().Get("floor"); floor != "" {
		n, err := strconv.Atoi(floor)
		if err != nil {
			http.Error(w, "Invalid floor", http.StatusBadRequest)
			return
		}
		topics = append(topics, models.FloorTopic(n))
	}

	clientID := uuid.New().String()
	sub := sm.registry.Subscribe(clientID, topics...)
	defer sm.registry.Unsubscribe(clientID)

	log.Printf("sse: client connected: %s from %s", clientID, r.RemoteAddr)
	defer log.Printf("sse: client disconnected: %s", clientID)

	// Retry directive so browsers reconnect quickly after a drop
	fmt.Fprintf(w, "retry: 5000\n")
	sse.Encode(w, sse.Event{
		Event: "connected",
		Data:  map[string]string{"id": clientID},
	})

	// New clients get the current board state up front instead of
	// waiting for the next periodic snapshot.
	if snapshot, err := sm.service.Snapshot(r.Context()); err == nil {
		sse.Encode(w, sse.Event{
			Event: models.EventPeriodicStatusUpdate,
			Data:  snapshot,
		})
	} else {
		log.Printf("sse: initial snapshot failed for client %s: %v", clientID, err)
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	done := r.Context().Done()

	for {
		select {
		case <-done:
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := sse.Encode(w, sse.Event{Event: event.Name, Data: event.Data}); err != nil {
				log.Printf("sse: write failed for client %s: %v", clientID, err)
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			// Comment line as a lightweight ping
			if _, err := fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().Format(time.RFC3339)); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
