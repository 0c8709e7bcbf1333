package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/trop3n/event-management-board/internal/api/handlers"
	"github.com/trop3n/event-management-board/internal/auth"
	"github.com/trop3n/event-management-board/internal/services"
	"github.com/trop3n/event-management-board/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, userService services.UserServiceProvider, eventService services.EventServiceProvider, syncService services.SyncServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService, hub)
	syncHandler := handlers.NewSyncHandler(syncService, hub)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/auth/me", userHandler.GetMe)

			// WebSocket connection for board refresh hints
			r.Get("/ws", wsHandler.Serve)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.GetAll)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", eventHandler.Get)
					r.Post("/notes", eventHandler.AddNote)
					r.Put("/notes/{noteId}", eventHandler.UpdateNote)
					r.Delete("/notes/{noteId}", eventHandler.DeleteNote)
					r.Post("/assignments", eventHandler.AddAssignment)
					r.Put("/assignments/{assignmentId}", eventHandler.UpdateAssignment)
					r.Delete("/assignments/{assignmentId}", eventHandler.DeleteAssignment)
				})
			})

			r.Route("/sync", func(r chi.Router) {
				r.Post("/events", syncHandler.SyncEvents)
				r.Get("/rooms", syncHandler.GetRooms)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.GetAll)
				r.Get("/{id}", userHandler.Get)
			})
		})
	})

	return r
}
