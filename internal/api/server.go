package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/gameday/internal/api/handler"
	"github.com/albapepper/gameday/internal/cache"
	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
	"github.com/albapepper/gameday/internal/history"
	"github.com/albapepper/gameday/internal/telemetry"
	"github.com/albapepper/gameday/internal/tracker"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(cfg *config.Config, client *espn.Client, store *tracker.Store, appCache *cache.Cache, hist *history.Store) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(cfg, client, store, appCache, hist)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	// Swagger UI over the embedded OpenAPI document.
	r.Get("/docs/doc.json", serveOpenAPIDoc)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/score", h.GetScore)
		r.Get("/schedule", h.GetSchedule)
		r.Get("/nextgame", h.GetNextGame)
		r.Get("/history", h.GetHistory)
		r.Get("/news", h.GetNews)
		r.Get("/news/status", h.GetNewsStatus)
	})

	return r
}
