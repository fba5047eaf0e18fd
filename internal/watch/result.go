package watch

import (
	"fmt"
	"time"
)

// CycleResult tracks the outcome of one polling cycle.
type CycleResult struct {
	SportsPolled  int
	SportsFailed  int
	EventsMatched int
	Alerts        int
	Duration      time.Duration
	Errors        []string
}

// Summary returns a human-readable summary.
func (r *CycleResult) Summary() string {
	return fmt.Sprintf("sports=%d failed=%d matched=%d alerts=%d dur=%s",
		r.SportsPolled, r.SportsFailed, r.EventsMatched, r.Alerts,
		r.Duration.Round(time.Millisecond))
}
