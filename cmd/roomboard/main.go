package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/navikt/roomboard/internal/api"
	"github.com/navikt/roomboard/internal/auth"
	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/config"
	"github.com/navikt/roomboard/internal/repository"
	"github.com/navikt/roomboard/internal/service"
	"github.com/navikt/roomboard/internal/web"
	"github.com/navikt/roomboard/internal/ws"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	serverConfig := config.GetServerConfig()
	authConfig := config.GetAuthConfig()
	redisConfig := config.GetRedisConfig()

	if authConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(redisConfig)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	// Check if we're using a Redis repository, and if so, close it properly on exit
	if redisRepo, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := redisRepo.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}()
	}

	// The registry fans room events out to websocket and SSE subscribers
	registry := broadcast.NewRegistry()

	roomService := service.NewRoomService(repo, registry)
	gatekeeper := auth.NewGatekeeper(authConfig, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if serverConfig.SeedRooms {
		if err := roomService.SeedDefaultRooms(ctx); err != nil {
			log.Fatalf("Failed to seed rooms: %v", err)
		}
	}

	// Periodic full-status snapshots keep late joiners and slow clients
	// in sync
	pusher := service.NewStatusPusher(roomService, registry, serverConfig.PushInterval)
	pusher.Start(ctx)

	// Set up API routes
	mux := api.SetupRoutes(roomService, gatekeeper)

	// Real-time endpoints; the event stream carries room state, so it
	// requires a valid identity just like the websocket channel
	mux.Handle("/ws", ws.NewHandler(roomService, gatekeeper, registry))
	mux.Handle("/events", api.RequireAuth(gatekeeper, web.NewSSEManager(roomService, registry)))

	// Configure the HTTP server
	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE and websocket connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Printf("Starting roomboard server on port %s", serverConfig.Port)
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until a signal is received or an error occurs
	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)

	case <-shutdown:
		log.Println("Shutting down server...")

		// Stop the pusher and release broadcast subscribers first
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Doesn't block if there are no connections, but will otherwise
		// wait until the timeout deadline.
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			log.Fatalf("Error shutting down server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}
