package api

import (
	"net/http"

	"github.com/navikt/roomboard/internal/auth"
	"github.com/navikt/roomboard/internal/service"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(svc *service.RoomService, gatekeeper *auth.Gatekeeper) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler)

	// Room management endpoints; every route requires a valid identity
	roomHandler := RequireAuth(gatekeeper, NewRoomHandler(svc))
	mux.Handle("/api/rooms", roomHandler)
	mux.Handle("/api/rooms/", roomHandler)

	return mux
}
