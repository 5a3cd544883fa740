package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pageinsights-api/internal/handler"
	"pageinsights-api/internal/middleware"
)

// Config holds the configuration for creating a router.
type Config struct {
	ProfileHandler *handler.ProfileHandler
	AdminHandler   *handler.AdminHandler
	HealthHandler  *handler.HealthHandler
	Logger         *zap.Logger
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.HealthHandler != nil {
			r.Get("/health", cfg.HealthHandler.Health)
			r.Get("/ready", cfg.HealthHandler.Ready)
		}

		if cfg.ProfileHandler != nil {
			r.Route("/profiles", func(r chi.Router) {
				// The search route must be registered before the
				// {profile_id} wildcard would otherwise capture it.
				r.Get("/search", cfg.ProfileHandler.Search)
				r.Route("/{profile_id}", func(r chi.Router) {
					r.Get("/", cfg.ProfileHandler.GetProfile)
					r.Get("/posts", cfg.ProfileHandler.GetPosts)
					r.Get("/followers", cfg.ProfileHandler.GetFollowers)
					r.Get("/summary", cfg.ProfileHandler.GetSummary)
				})
			})
		}

		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", cfg.AdminHandler.GetStats)
				r.Delete("/cache/profiles/{profile_id}", cfg.AdminHandler.InvalidateProfileCache)
				r.Delete("/cache/search", cfg.AdminHandler.InvalidateSearchCache)
			})
		}
	})

	return r
}
