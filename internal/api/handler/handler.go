// Package handler provides HTTP handlers for the query API. Scoreboard
// endpoints re-fetch the feed on demand (through the TTL cache) — they never
// read or mutate the watcher's tracked-event state.
package handler

import (
	"net/http"
	"time"

	"github.com/albapepper/gameday/internal/api/respond"
	"github.com/albapepper/gameday/internal/cache"
	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
	"github.com/albapepper/gameday/internal/external"
	"github.com/albapepper/gameday/internal/history"
	"github.com/albapepper/gameday/internal/tracker"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	cfg     *config.Config
	client  *espn.Client
	matcher tracker.Matcher
	store   *tracker.Store
	cache   *cache.Cache
	history *history.Store
	news    *external.NewsService
}

// New creates a Handler with shared dependencies. hist may be nil.
func New(cfg *config.Config, client *espn.Client, store *tracker.Store, c *cache.Cache, hist *history.Store) *Handler {
	return &Handler{
		cfg:     cfg,
		client:  client,
		matcher: tracker.NewMatcher(cfg.School, cfg.Aliases...),
		store:   store,
		cache:   c,
		history: hist,
		news:    external.NewNewsService(cfg.School),
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	sports := make([]string, 0, len(h.cfg.Sports))
	for _, s := range h.cfg.Sports {
		sports = append(sports, s.Name)
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Gameday API",
		"version": "1.0.0",
		"status":  "running",
		"school":  h.cfg.School,
		"sports":  sports,
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"tracked_events": h.store.Len(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies history-store connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if !h.history.Enabled() {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "disabled",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.history.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "History store check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
