package handler

import (
	"net/http"
	"strconv"

	"github.com/albapepper/gameday/internal/api/respond"
)

// GetHistory returns recently delivered alerts, newest first. Responds 503
// when the history store is not configured.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if !h.history.Enabled() {
		respond.WriteError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED",
			"Alert history requires DATABASE_URL")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "HISTORY_ERROR",
			"Failed to query alert history")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"count":  len(entries),
		"alerts": entries,
	})
}
