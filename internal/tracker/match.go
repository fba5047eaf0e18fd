package tracker

import (
	"strings"

	"github.com/albapepper/gameday/internal/espn"
)

// Matcher decides whether the tracked school participates in an event, by
// case-insensitive substring match of the school's canonical name and any
// configured aliases (mascot, abbreviation) against competitor display names.
type Matcher struct {
	needles []string
}

// NewMatcher builds a matcher for a school name plus aliases. Empty names
// and aliases are dropped.
func NewMatcher(school string, aliases ...string) Matcher {
	var needles []string
	for _, n := range append([]string{school}, aliases...) {
		if n = strings.TrimSpace(n); n != "" {
			needles = append(needles, strings.ToLower(n))
		}
	}
	return Matcher{needles: needles}
}

// MatchesTeam reports whether a single competitor display name is the
// tracked school. A missing name never matches and is not an error.
func (m Matcher) MatchesTeam(displayName string) bool {
	if displayName == "" {
		return false
	}
	name := strings.ToLower(displayName)
	for _, needle := range m.needles {
		if strings.Contains(name, needle) {
			return true
		}
	}
	return false
}

// MatchesEvent reports whether any competitor in the event is the school.
func (m Matcher) MatchesEvent(ev espn.Event) bool {
	comp, ok := ev.Competition()
	if !ok {
		return false
	}
	for _, c := range comp.Competitors {
		if m.MatchesTeam(c.Team.DisplayName) {
			return true
		}
	}
	return false
}
