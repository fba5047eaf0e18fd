package tracker

import "strings"

// stateTable maps normalized provider status tokens to canonical states.
// ESPN uses short state tokens ("pre"/"in"/"post") on the scoreboard and
// verbose names ("STATUS_SCHEDULED", "STATUS_FINAL", ...) in the status
// type; both spellings appear here.
var stateTable = map[string]GameState{
	"pre":         StateScheduled,
	"scheduled":   StateScheduled,
	"in":          StateLive,
	"in_progress": StateLive,
	"halftime":    StateLive,
	"end_period":  StateLive,
	"live":        StateLive,
	"post":        StateFinal,
	"final":       StateFinal,
	"completed":   StateFinal,
	"complete":    StateFinal,
	"full_time":   StateFinal,
}

// ClassifyState maps raw provider status strings onto a canonical state.
// Candidates are tried in order (typically state token first, then the
// verbose name); the first recognized one wins. Anything unrecognized is
// StateUnknown.
func ClassifyState(candidates ...string) GameState {
	for _, raw := range candidates {
		token := normalizeStatus(raw)
		if token == "" {
			continue
		}
		if st, ok := stateTable[token]; ok {
			return st
		}
	}
	return StateUnknown
}

func normalizeStatus(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.TrimPrefix(token, "status_")
	token = strings.ReplaceAll(token, "-", "_")
	return token
}
