package espn

import "time"

// --------------------------------------------------------------------------
// Scoreboard document
// --------------------------------------------------------------------------

// Scoreboard is the top-level scoreboard response for one sport.
type Scoreboard struct {
	Events []Event `json:"events"`
}

// Event is one game on the scoreboard. The event id is the provider-assigned
// identity used everywhere downstream.
type Event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"` // ISO-8601
	Name         string        `json:"name"`
	Competitions []Competition `json:"competitions"`
}

// Competition holds the competitor list and status for an event. Scoreboard
// events carry exactly one competition in practice.
type Competition struct {
	Competitors []Competitor `json:"competitors"`
	Status      Status       `json:"status"`
}

// Competitor is one side of a game. Score arrives as a string; absent fields
// decode to zero values rather than erroring.
type Competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     Team   `json:"team"`
}

// Team identifies a competitor's team.
type Team struct {
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
}

// Status wraps the provider's status taxonomy.
type Status struct {
	Type StatusType `json:"type"`
}

// StatusType carries the raw status strings. State is the coarse provider
// value ("pre", "in", "post"); Name is the verbose variant
// ("STATUS_SCHEDULED", "STATUS_FINAL", ...).
type StatusType struct {
	State       string `json:"state"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Detail      string `json:"detail"`
	Completed   bool   `json:"completed"`
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// Competition returns the event's first competition and whether one exists.
func (e Event) Competition() (Competition, bool) {
	if len(e.Competitions) == 0 {
		return Competition{}, false
	}
	return e.Competitions[0], true
}

// StartTime parses the event's ISO-8601 date. Returns the zero time when the
// field is absent or malformed.
func (e Event) StartTime() time.Time {
	if e.Date == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z"} {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Matchup renders "Away vs Home" from the competitor list.
func (e Event) Matchup() string {
	comp, ok := e.Competition()
	if !ok {
		return e.Name
	}
	out := ""
	for _, c := range comp.Competitors {
		if c.Team.DisplayName == "" {
			continue
		}
		if out != "" {
			out += " vs "
		}
		out += c.Team.DisplayName
	}
	if out == "" {
		return e.Name
	}
	return out
}
