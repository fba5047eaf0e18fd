package handler

import (
	"net/http"
	"strconv"

	"github.com/albapepper/gameday/internal/api/respond"
)

// GetNews returns recent news articles about the school.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	articles, err := h.news.SchoolNews(limit)
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "NEWS_ERROR", "News feed unavailable")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"school":   h.cfg.School,
		"count":    len(articles),
		"articles": articles,
	})
}

// GetNewsStatus returns news service status.
func (h *Handler) GetNewsStatus(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.news.Status())
}
