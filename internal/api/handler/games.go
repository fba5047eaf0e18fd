package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/albapepper/gameday/internal/api/respond"
	"github.com/albapepper/gameday/internal/cache"
	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
)

// --------------------------------------------------------------------------
// Response shapes
// --------------------------------------------------------------------------

// ScoreLine is one competitor's line in a game response.
type ScoreLine struct {
	Team     string `json:"team"`
	Score    string `json:"score"`
	HomeAway string `json:"home_away,omitempty"`
}

// Game is one game of the school's, as reported by the live feed.
type Game struct {
	EventID   string      `json:"event_id"`
	Matchup   string      `json:"matchup"`
	Status    string      `json:"status"`
	StartTime time.Time   `json:"start_time"`
	Lines     []ScoreLine `json:"lines,omitempty"`
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

// GetScore returns current score lines for the school's games in one sport.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	h.serveGames(w, r, "score", cache.TTLScoreboard, func(games []Game) interface{} {
		return games
	})
}

// GetSchedule returns the school's upcoming games for one sport.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	h.serveGames(w, r, "schedule", cache.TTLSchedule, func(games []Game) interface{} {
		upcoming := make([]Game, 0, len(games))
		for _, g := range games {
			if g.StartTime.After(now) {
				g.Lines = nil // scores are meaningless before tipoff
				upcoming = append(upcoming, g)
			}
		}
		sort.Slice(upcoming, func(i, j int) bool {
			return upcoming[i].StartTime.Before(upcoming[j].StartTime)
		})
		return upcoming
	})
}

// GetNextGame returns the school's next upcoming game for one sport.
func (h *Handler) GetNextGame(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	h.serveGames(w, r, "nextgame", cache.TTLSchedule, func(games []Game) interface{} {
		var next *Game
		for i := range games {
			g := games[i]
			if !g.StartTime.After(now) {
				continue
			}
			if next == nil || g.StartTime.Before(next.StartTime) {
				next = &g
			}
		}
		if next == nil {
			return nil
		}
		next.Lines = nil
		return next
	})
}

// serveGames resolves the sport, fetches (or serves cached) matched games,
// applies shape, and writes the response with ETag handling.
func (h *Handler) serveGames(w http.ResponseWriter, r *http.Request, view string, ttl time.Duration, shape func([]Game) interface{}) {
	sportName := r.URL.Query().Get("sport")
	sport, ok := h.cfg.FindSport(sportName)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "UNKNOWN_SPORT",
			fmt.Sprintf("Sport %q is not configured", sportName))
		return
	}

	cacheKey := fmt.Sprintf("%s:%s", view, sport.Name)
	if data, etag, hit := h.cache.Get(cacheKey); hit {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	games, err := h.fetchGames(r, sport)
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "FEED_ERROR", "Scoreboard feed unavailable")
		return
	}

	payload := map[string]interface{}{
		"sport":  sport.Name,
		"school": h.cfg.School,
		view:     shape(games),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_ERROR", "Failed to encode response")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// fetchGames pulls the sport's scoreboard and keeps only the school's games.
func (h *Handler) fetchGames(r *http.Request, sport config.SportFeed) ([]Game, error) {
	sb, err := h.client.FetchScoreboard(r.Context(), sport.ScoreboardURL)
	if err != nil {
		return nil, err
	}

	var games []Game
	for _, ev := range sb.Events {
		if !h.matcher.MatchesEvent(ev) {
			continue
		}
		games = append(games, toGame(ev))
	}
	return games, nil
}

func toGame(ev espn.Event) Game {
	g := Game{
		EventID:   ev.ID,
		Matchup:   ev.Matchup(),
		StartTime: ev.StartTime(),
	}
	if comp, ok := ev.Competition(); ok {
		g.Status = comp.Status.Type.Description
		for _, c := range comp.Competitors {
			score := c.Score
			if score == "" {
				score = "0"
			}
			g.Lines = append(g.Lines, ScoreLine{
				Team:     c.Team.DisplayName,
				Score:    score,
				HomeAway: c.HomeAway,
			})
		}
	}
	return g
}
