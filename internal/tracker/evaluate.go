package tracker

import (
	"strconv"
	"time"

	"github.com/albapepper/gameday/internal/espn"
)

// Evaluator runs the per-event notification state machine against the Store.
type Evaluator struct {
	store  *Store
	window time.Duration // pre-game alert window

	now func() time.Time // overridable in tests
}

// NewEvaluator creates an evaluator with the given pre-game window.
func NewEvaluator(store *Store, preGameWindow time.Duration) *Evaluator {
	return &Evaluator{
		store:  store,
		window: preGameWindow,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate compares one freshly fetched event (and its summary, which may be
// nil when the summary fetch failed) against the remembered state for that
// event id, and returns the alerts that are due, in emission order: scoring
// updates first, then the pre-game alert, then the final-score alert.
//
// The fresh observation is committed to the store before returning,
// whether or not any alert fired.
func (e *Evaluator) Evaluate(sport string, ev espn.Event, sum *espn.Summary) []Alert {
	tracked, release := e.store.Acquire(ev.ID, sport)
	defer release()

	tracked.Sport = sport
	if start := ev.StartTime(); !start.IsZero() {
		tracked.StartTime = start
	}

	var alerts []Alert

	// Scoring plays: trust append-only growth, re-emit everything on shrink.
	if sum != nil {
		for _, play := range DiffPlays(tracked.Plays, sum.ScoringPlays) {
			alerts = append(alerts, Alert{
				Kind:    KindScoringUpdate,
				Sport:   sport,
				EventID: ev.ID,
				Play:    play,
			})
		}
		tracked.Plays = sum.ScoringPlays
	}

	state := classifyEvent(ev)

	// Pre-game alert: once per event, only while scheduled, only inside the
	// window. A start already in the past never triggers it, so stale or
	// replayed data cannot announce a game that is underway.
	if state == StateScheduled && !tracked.PreGameNotified && !tracked.StartTime.IsZero() {
		until := tracked.StartTime.Sub(e.now())
		if until > 0 && until <= e.window {
			alerts = append(alerts, Alert{
				Kind:           KindPreGameAlert,
				Sport:          sport,
				EventID:        ev.ID,
				MinutesToStart: int(until.Minutes()),
				StartTime:      tracked.StartTime,
				Matchup:        ev.Matchup(),
			})
			tracked.PreGameNotified = true
		}
	}

	// Final alert: once per event, the first time Final is observed. The
	// previous state is irrelevant — a missed poll jumping Unknown→Final
	// must still fire.
	if state == StateFinal {
		if tracked.FinalSince.IsZero() {
			tracked.FinalSince = e.now()
		}
		if !tracked.FinalNotified {
			alerts = append(alerts, Alert{
				Kind:    KindFinalScore,
				Sport:   sport,
				EventID: ev.ID,
				Final:   finalScores(ev, sum),
				Matchup: ev.Matchup(),
			})
			tracked.FinalNotified = true
		}
	}

	// Record the classified state unconditionally.
	tracked.State = state

	return alerts
}

// classifyEvent maps the event's raw status strings to a canonical state,
// preferring the short state token over the verbose name and description.
func classifyEvent(ev espn.Event) GameState {
	comp, ok := ev.Competition()
	if !ok {
		return StateUnknown
	}
	t := comp.Status.Type
	return ClassifyState(t.State, t.Name, t.Description)
}

// finalScores builds the final competitor/score set, preferring the summary
// header and falling back to the scoreboard competitors. Absent scores show
// as "0" rather than failing the alert.
func finalScores(ev espn.Event, sum *espn.Summary) []FinalScore {
	competitors := sum.Competitors()
	if len(competitors) == 0 {
		if comp, ok := ev.Competition(); ok {
			competitors = comp.Competitors
		}
	}

	finals := make([]FinalScore, 0, len(competitors))
	best, bestIdx := -1, -1
	for i, c := range competitors {
		score := c.Score
		if score == "" {
			score = "0"
		}
		finals = append(finals, FinalScore{Team: c.Team.DisplayName, Score: score})
		if n, err := strconv.Atoi(score); err == nil && n > best {
			best, bestIdx = n, i
		} else if err == nil && n == best {
			bestIdx = -1 // tie: no winner flag
		}
	}
	if bestIdx >= 0 {
		finals[bestIdx].Winner = true
	}
	return finals
}
