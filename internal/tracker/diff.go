package tracker

import (
	"slices"

	"github.com/albapepper/gameday/internal/espn"
)

// DiffPlays returns the scoring plays in fresh that have not been notified
// yet, given the previously stored sequence old.
//
// The feed's play list for an event only grows by appending, so when fresh
// is at least as long as old the new plays are exactly fresh[len(old):] —
// overlapping entries are not deep-compared.
//
// When fresh is shorter than old the feed has reset or truncated. The whole
// fresh sequence is treated as unseen and re-emitted: a duplicate
// notification is preferred over silently dropping a play.
func DiffPlays(old, fresh []espn.ScoringPlay) []espn.ScoringPlay {
	if slices.Equal(old, fresh) {
		return nil
	}
	if len(fresh) < len(old) {
		return fresh
	}
	return fresh[len(old):]
}
