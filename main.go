package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trop3n/event-management-board/internal/api"
	"github.com/trop3n/event-management-board/internal/config"
	"github.com/trop3n/event-management-board/internal/database"
	"github.com/trop3n/event-management-board/internal/logger"
	"github.com/trop3n/event-management-board/internal/monitoring"
	"github.com/trop3n/event-management-board/internal/services"
	"github.com/trop3n/event-management-board/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, cfg.TrackedRooms)
	syncService := services.NewSyncService(db, cfg.UpstreamAPIURL, cfg.UpstreamBearerToken, cfg.TrackedRooms)

	// Set up and run the background sync scheduler, if configured
	var scheduler *monitoring.SyncScheduler
	if cfg.SyncCron != "" {
		scheduler, err = monitoring.NewSyncScheduler(cfg.SyncCron, syncService, hub)
		if err != nil {
			log.Fatalf("Invalid SYNC_CRON expression: %v", err)
		}
		go scheduler.Run()
	}

	// Set up router
	router := api.NewRouter(hub, userService, eventService, syncService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
