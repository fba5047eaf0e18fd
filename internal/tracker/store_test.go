package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	convey.Convey("Given an empty store", t, func() {
		s := NewStore()

		convey.Convey("Acquire creates an event on first sight", func() {
			ev, release := s.Acquire("401", "Basketball")
			convey.So(ev.ID, convey.ShouldEqual, "401")
			convey.So(ev.State, convey.ShouldEqual, StateUnknown)
			convey.So(ev.LastSeen.IsZero(), convey.ShouldBeFalse)
			release()

			convey.So(s.Len(), convey.ShouldEqual, 1)

			convey.Convey("And returns the same event on later acquires", func() {
				ev2, release2 := s.Acquire("401", "Basketball")
				convey.So(ev2, convey.ShouldPointTo, ev)
				release2()
				convey.So(s.Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("Concurrent acquires of one id serialize on the flags", func() {
			var wg sync.WaitGroup
			fired := 0
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ev, release := s.Acquire("401", "Basketball")
					if !ev.FinalNotified {
						ev.FinalNotified = true
						fired++
					}
					release()
				}()
			}
			wg.Wait()
			convey.So(fired, convey.ShouldEqual, 1)
		})
	})
}

func TestStoreEvictFinished(t *testing.T) {
	convey.Convey("Given a store with mixed event states", t, func() {
		s := NewStore()

		mark := func(id string, state GameState, finalSince time.Time) {
			ev, release := s.Acquire(id, "Basketball")
			ev.State = state
			ev.FinalSince = finalSince
			release()
		}

		mark("old-final", StateFinal, time.Now().UTC().Add(-72*time.Hour))
		mark("fresh-final", StateFinal, time.Now().UTC().Add(-1*time.Hour))
		mark("live", StateLive, time.Time{})
		mark("scheduled", StateScheduled, time.Time{})

		convey.Convey("Eviction removes only long-final events", func() {
			n := s.EvictFinished(48 * time.Hour)
			convey.So(n, convey.ShouldEqual, 1)
			convey.So(s.Len(), convey.ShouldEqual, 3)

			convey.Convey("And an evicted id starts over if seen again", func() {
				ev, release := s.Acquire("old-final", "Basketball")
				convey.So(ev.State, convey.ShouldEqual, StateUnknown)
				convey.So(ev.FinalNotified, convey.ShouldBeFalse)
				release()
			})
		})
	})
}
