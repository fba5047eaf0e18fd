// Package tracker decides, for each game the school plays, which
// notifications are due on a given poll: new scoring plays, entry into the
// pre-game window, and the transition to a final score.
//
// Pipeline per event: diff scoring plays → classify status → check one-shot
// pre-game / final flags → commit the fresh observation. Each alert kind
// fires at most once per event per process run; the Store's per-event guard
// keeps that true even if the same event is ever evaluated concurrently.
package tracker

import (
	"time"

	"github.com/albapepper/gameday/internal/espn"
)

// --------------------------------------------------------------------------
// Game states
// --------------------------------------------------------------------------

// GameState is the coarse lifecycle state of a tracked event.
type GameState string

const (
	StateScheduled GameState = "scheduled"
	StateLive      GameState = "live"
	StateFinal     GameState = "final"
	StateUnknown   GameState = "unknown"
)

// --------------------------------------------------------------------------
// Alerts
// --------------------------------------------------------------------------

// Kind discriminates alert payloads.
type Kind string

const (
	KindScoringUpdate  Kind = "scoring_update"
	KindPreGameAlert   Kind = "pregame_alert"
	KindFinalScore     Kind = "final_score"
	KindScheduleDigest Kind = "schedule_digest"
)

// FinalScore is one competitor's final line.
type FinalScore struct {
	Team   string
	Score  string
	Winner bool
}

// DigestGame is one entry in a morning schedule digest.
type DigestGame struct {
	Sport     string
	Matchup   string
	StartTime time.Time
}

// Alert is one unit of output for the delivery layer. Kind decides which of
// the payload fields are set. Alerts are ephemeral; nothing retains them
// after dispatch.
type Alert struct {
	Kind    Kind
	Sport   string
	EventID string

	// KindScoringUpdate
	Play espn.ScoringPlay

	// KindPreGameAlert
	MinutesToStart int
	StartTime      time.Time
	Matchup        string

	// KindFinalScore
	Final []FinalScore

	// KindScheduleDigest
	Games []DigestGame
}

// --------------------------------------------------------------------------
// Tracked events
// --------------------------------------------------------------------------

// TrackedEvent is the remembered observation for one event id. Created the
// first time an id is seen, updated on every poll that returns it, owned
// exclusively by the Store.
type TrackedEvent struct {
	ID        string
	Sport     string
	Plays     []espn.ScoringPlay
	State     GameState
	StartTime time.Time

	// One-shot notification flags. Once set they are never cleared for the
	// lifetime of the process: at most one alert of each kind per event.
	PreGameNotified bool
	FinalNotified   bool

	LastSeen   time.Time
	FinalSince time.Time // first time State was observed Final; zero until then
}
