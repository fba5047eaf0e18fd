package espn

// --------------------------------------------------------------------------
// Summary document
// --------------------------------------------------------------------------

// Summary is the per-event detail document. Only the pieces the watcher
// consumes are modeled; the real document is far larger.
type Summary struct {
	ScoringPlays []ScoringPlay `json:"scoringPlays"`
	Header       SummaryHeader `json:"header"`
}

// SummaryHeader mirrors the summary's header block, which carries the
// authoritative competitor list and scores.
type SummaryHeader struct {
	Competitions []Competition `json:"competitions"`
}

// ScoringPlay is one play from the summary's ordered scoring-play list.
// The feed only appends to this list for a given event; it is never
// reordered or rewritten mid-game.
//
// All fields are comparable so play sequences can be diffed with ==.
type ScoringPlay struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Team      Team   `json:"team"`
	AwayScore int    `json:"awayScore"`
	HomeScore int    `json:"homeScore"`
}

// Competitors returns the summary's competitor list, empty when the header
// block is missing.
func (s *Summary) Competitors() []Competitor {
	if s == nil || len(s.Header.Competitions) == 0 {
		return nil
	}
	return s.Header.Competitions[0].Competitors
}
