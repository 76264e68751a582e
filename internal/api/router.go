package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avasquez/recordshelf-be/internal/api/handlers"
	"github.com/avasquez/recordshelf-be/internal/auth"
	"github.com/avasquez/recordshelf-be/internal/musicsearch"
	"github.com/avasquez/recordshelf-be/internal/services"
	"github.com/avasquez/recordshelf-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	sessions *auth.Manager,
	userService services.UserServiceProvider,
	collectionService services.CollectionServiceProvider,
	searcher musicsearch.Searcher,
	corsOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the browser frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, sessions)
	collectionHandler := handlers.NewCollectionHandler(collectionService, hub)
	searchHandler := handlers.NewSearchHandler(searcher)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/user", userHandler.Register)
		r.Get("/user", userHandler.List)
		r.Get("/search", searchHandler.Search)
		r.Post("/auth/login", userHandler.Login)
		r.Post("/auth/logout", userHandler.Logout)

		// Session-guarded endpoints
		r.Group(func(r chi.Router) {
			r.Use(sessions.Middleware())

			r.Get("/me", userHandler.Me)
			r.Get("/ws", wsHandler.Serve)

			r.Route("/user/{userId}", func(r chi.Router) {
				r.Patch("/", collectionHandler.Patch)
				r.Delete("/", collectionHandler.Delete)
			})
		})
	})

	return r
}
