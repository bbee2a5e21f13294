package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"trustguard/internal/api/handlers"
	apimiddleware "trustguard/internal/api/middleware"
	"trustguard/internal/config"
	"trustguard/internal/infrastructure/cache"
	"trustguard/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)

		// Public stats
		pub.Get("/api/v1/stats", r.handlers.Stats.Get)
	})

	// API v1 routes (authenticated)
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.APIKeyAuth(r.config.Auth))

		// Message analysis
		api.Post("/check/message", r.handlers.Messages.Check)
		api.Get("/history", r.handlers.Messages.History)
		api.Post("/messages/{id}/feedback", r.handlers.Messages.Feedback)

		// Entity directory
		api.Route("/entities", func(entities chi.Router) {
			entities.Get("/check", r.handlers.Entities.Check)
			entities.Get("/{id}", r.handlers.Entities.Get)
			entities.Get("/{id}/reports", r.handlers.Entities.Reports)
			entities.Get("/{id}/related", r.handlers.Entities.Related)
		})

		// Report submission
		api.Post("/reports", r.handlers.Reports.Create)

		// Admin endpoints
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(apimiddleware.AdminAuth())

			admin.Get("/stats", r.handlers.Admin.Stats)
			admin.Get("/reports", r.handlers.Admin.ListReports)
			admin.Post("/reports/{id}/verify", r.handlers.Admin.VerifyReport)
			admin.Post("/reports/{id}/spam", r.handlers.Admin.SpamReport)
		})
	})

	return router
}
