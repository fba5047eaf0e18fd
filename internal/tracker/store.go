package tracker

import (
	"sync"
	"time"
)

// Store owns all TrackedEvent state. Access goes through Acquire, which
// hands out the event under a per-id exclusive guard, so two evaluations of
// the same event id can never race on the one-shot flags. Distinct ids are
// independent and may be evaluated concurrently.
type Store struct {
	mu      sync.Mutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	mu sync.Mutex
	ev *TrackedEvent
}

// NewStore creates an empty event store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*storeEntry)}
}

// Acquire returns the tracked event for id, creating it on first sight, with
// its guard held. The caller must invoke release when done mutating; until
// then no other caller can evaluate the same id.
func (s *Store) Acquire(id, sport string) (ev *TrackedEvent, release func()) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if !ok {
		entry = &storeEntry{ev: &TrackedEvent{
			ID:    id,
			Sport: sport,
			State: StateUnknown,
		}}
		s.entries[id] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	entry.ev.LastSeen = time.Now().UTC()
	return entry.ev, entry.mu.Unlock
}

// Len returns the number of tracked events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// EvictFinished removes events that have been final for longer than
// retention, so the store stays bounded across a long season instead of
// accumulating every event id ever seen. Returns the number evicted.
func (s *Store) EvictFinished(retention time.Duration) int {
	cutoff := time.Now().UTC().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		entry.mu.Lock()
		done := entry.ev.State == StateFinal &&
			!entry.ev.FinalSince.IsZero() &&
			entry.ev.FinalSince.Before(cutoff)
		entry.mu.Unlock()

		if done {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}
