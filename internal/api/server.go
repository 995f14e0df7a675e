// Package api provides the HTTP API server and handlers for the Shelfmark application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfmarkapp/shelfmark-server/internal/sse"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	sseHandler      *sse.Handler
	router          *chi.Mux
	api             huma.API
	authRateLimiter *RateLimiter
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, sseManager *sse.Manager, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("Shelfmark API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	sseHandler := sse.NewHandler(sseManager, logger, func(r *http.Request) string {
		return getUsername(r.Context())
	})

	s := &Server{
		store:           st,
		services:        services,
		sseHandler:      sseHandler,
		router:          router,
		api:             humaAPI,
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
		logger:          logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerSearchRoutes()
	s.registerBookRoutes()
	s.registerRecentsRoutes()

	// Streaming endpoints use chi directly: covers write raw image bytes
	// and the event stream holds the connection open.
	router.Get("/api/v1/books/{id}/cover", s.handleServeBookCover)
	router.Get("/api/v1/recents/{id}/cover", s.handleServeRecentCover)
	router.Get("/api/v1/events", sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
