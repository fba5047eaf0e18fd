package tracker

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/gameday/internal/espn"
)

// fixedEvaluator pins the evaluator clock so window math is deterministic.
func fixedEvaluator(store *Store, window time.Duration, now time.Time) *Evaluator {
	e := NewEvaluator(store, window)
	e.now = func() time.Time { return now }
	return e
}

func statusEvent(id, state string, start time.Time, teams ...string) espn.Event {
	var competitors []espn.Competitor
	for _, name := range teams {
		competitors = append(competitors, espn.Competitor{Team: espn.Team{DisplayName: name}})
	}
	ev := espn.Event{
		ID: id,
		Competitions: []espn.Competition{{
			Competitors: competitors,
			Status:      espn.Status{Type: espn.StatusType{State: state}},
		}},
	}
	if !start.IsZero() {
		ev.Date = start.UTC().Format(time.RFC3339)
	}
	return ev
}

func summaryWith(plays ...espn.ScoringPlay) *espn.Summary {
	return &espn.Summary{ScoringPlays: plays}
}

func kinds(alerts []Alert) []Kind {
	out := make([]Kind, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Kind)
	}
	return out
}

func TestEvaluateScoringUpdates(t *testing.T) {
	convey.Convey("Given a live game being polled", t, func() {
		now := time.Date(2026, 2, 7, 19, 30, 0, 0, time.UTC)
		e := fixedEvaluator(NewStore(), 30*time.Minute, now)
		ev := statusEvent("401", "in", time.Time{}, "South Carolina", "Clemson")

		convey.Convey("The first poll emits every scoring play", func() {
			alerts := e.Evaluate("Basketball", ev, summaryWith(play("1", "Layup"), play("2", "Three")))
			convey.So(kinds(alerts), convey.ShouldResemble, []Kind{KindScoringUpdate, KindScoringUpdate})
			convey.So(alerts[0].Play.ID, convey.ShouldEqual, "1")
			convey.So(alerts[1].Play.ID, convey.ShouldEqual, "2")

			convey.Convey("And a poll with the same plays emits nothing", func() {
				again := e.Evaluate("Basketball", ev, summaryWith(play("1", "Layup"), play("2", "Three")))
				convey.So(again, convey.ShouldBeEmpty)
			})

			convey.Convey("And a poll with one more play emits only the new one", func() {
				more := e.Evaluate("Basketball", ev, summaryWith(play("1", "Layup"), play("2", "Three"), play("3", "Dunk")))
				convey.So(more, convey.ShouldHaveLength, 1)
				convey.So(more[0].Play.ID, convey.ShouldEqual, "3")
			})

			convey.Convey("And a shrunken play list is re-emitted in full", func() {
				reset := e.Evaluate("Basketball", ev, summaryWith(play("1", "Layup")))
				convey.So(reset, convey.ShouldHaveLength, 1)
				convey.So(reset[0].Play.ID, convey.ShouldEqual, "1")
			})
		})

		convey.Convey("A nil summary leaves remembered plays untouched", func() {
			e.Evaluate("Basketball", ev, summaryWith(play("1", "Layup")))
			convey.So(e.Evaluate("Basketball", ev, nil), convey.ShouldBeEmpty)

			alerts := e.Evaluate("Basketball", ev, summaryWith(play("1", "Layup"), play("2", "Three")))
			convey.So(alerts, convey.ShouldHaveLength, 1)
			convey.So(alerts[0].Play.ID, convey.ShouldEqual, "2")
		})
	})
}

func TestEvaluatePreGameAlert(t *testing.T) {
	convey.Convey("Given a 30 minute pre-game window", t, func() {
		now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

		convey.Convey("A game starting inside the window alerts once", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			ev := statusEvent("401", "pre", now.Add(29*time.Minute), "South Carolina", "Clemson")

			alerts := e.Evaluate("Basketball", ev, nil)
			convey.So(kinds(alerts), convey.ShouldResemble, []Kind{KindPreGameAlert})
			convey.So(alerts[0].MinutesToStart, convey.ShouldEqual, 29)
			convey.So(alerts[0].Matchup, convey.ShouldEqual, "South Carolina vs Clemson")

			convey.Convey("And never again for the same event", func() {
				convey.So(e.Evaluate("Basketball", ev, nil), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("A game starting beyond the window stays quiet", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			ev := statusEvent("401", "pre", now.Add(31*time.Minute), "South Carolina", "Clemson")
			convey.So(e.Evaluate("Basketball", ev, nil), convey.ShouldBeEmpty)
		})

		convey.Convey("A start time already in the past stays quiet", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			ev := statusEvent("401", "pre", now.Add(-5*time.Minute), "South Carolina", "Clemson")
			convey.So(e.Evaluate("Basketball", ev, nil), convey.ShouldBeEmpty)
		})

		convey.Convey("A game no longer scheduled stays quiet", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			ev := statusEvent("401", "in", now.Add(10*time.Minute), "South Carolina", "Clemson")
			convey.So(e.Evaluate("Basketball", ev, nil), convey.ShouldBeEmpty)
		})

		convey.Convey("A missing start time stays quiet", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			ev := statusEvent("401", "pre", time.Time{}, "South Carolina", "Clemson")
			convey.So(e.Evaluate("Basketball", ev, nil), convey.ShouldBeEmpty)
		})
	})
}

func TestEvaluateFinalScore(t *testing.T) {
	convey.Convey("Given a game that finishes", t, func() {
		now := time.Date(2026, 2, 7, 21, 0, 0, 0, time.UTC)

		finalEvent := func(scores ...string) espn.Event {
			ev := statusEvent("401", "post", time.Time{})
			ev.Competitions[0].Competitors = []espn.Competitor{
				{Team: espn.Team{DisplayName: "South Carolina"}, Score: scores[0]},
				{Team: espn.Team{DisplayName: "Clemson"}, Score: scores[1]},
			}
			return ev
		}

		convey.Convey("The first Final observation alerts with scores and winner", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			alerts := e.Evaluate("Basketball", finalEvent("70", "65"), nil)

			convey.So(kinds(alerts), convey.ShouldResemble, []Kind{KindFinalScore})
			convey.So(alerts[0].Final, convey.ShouldHaveLength, 2)
			convey.So(alerts[0].Final[0].Team, convey.ShouldEqual, "South Carolina")
			convey.So(alerts[0].Final[0].Winner, convey.ShouldBeTrue)
			convey.So(alerts[0].Final[1].Winner, convey.ShouldBeFalse)

			convey.Convey("And later Final observations stay quiet", func() {
				convey.So(e.Evaluate("Basketball", finalEvent("70", "65"), nil), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("A jump straight from unknown to Final still alerts", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			ev := finalEvent("21", "28")
			alerts := e.Evaluate("Football", ev, nil)
			convey.So(kinds(alerts), convey.ShouldResemble, []Kind{KindFinalScore})
		})

		convey.Convey("A tie flags no winner", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			alerts := e.Evaluate("Basketball", finalEvent("70", "70"), nil)
			convey.So(alerts[0].Final[0].Winner, convey.ShouldBeFalse)
			convey.So(alerts[0].Final[1].Winner, convey.ShouldBeFalse)
		})

		convey.Convey("Missing scores render as zero instead of failing", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			alerts := e.Evaluate("Basketball", finalEvent("", "55"), nil)
			convey.So(alerts[0].Final[0].Score, convey.ShouldEqual, "0")
			convey.So(alerts[0].Final[1].Winner, convey.ShouldBeTrue)
		})

		convey.Convey("Summary header scores win over scoreboard scores", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			sum := &espn.Summary{Header: espn.SummaryHeader{Competitions: []espn.Competition{{
				Competitors: []espn.Competitor{
					{Team: espn.Team{DisplayName: "South Carolina"}, Score: "72"},
					{Team: espn.Team{DisplayName: "Clemson"}, Score: "65"},
				},
			}}}}
			alerts := e.Evaluate("Basketball", finalEvent("70", "65"), sum)
			convey.So(alerts[0].Final[0].Score, convey.ShouldEqual, "72")
		})

		convey.Convey("Final plays plus final status emit scoring first, then final", func() {
			e := fixedEvaluator(NewStore(), 30*time.Minute, now)
			alerts := e.Evaluate("Basketball", finalEvent("70", "65"), summaryWith(play("9", "Buzzer beater")))
			convey.So(kinds(alerts), convey.ShouldResemble, []Kind{KindScoringUpdate, KindFinalScore})
		})
	})
}

func TestEvaluateStateCommit(t *testing.T) {
	convey.Convey("Every observation commits the classified state", t, func() {
		now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
		store := NewStore()
		e := fixedEvaluator(store, 30*time.Minute, now)

		e.Evaluate("Basketball", statusEvent("401", "weird", time.Time{}, "South Carolina"), nil)
		ev, release := store.Acquire("401", "Basketball")
		convey.So(ev.State, convey.ShouldEqual, StateUnknown)
		release()

		e.Evaluate("Basketball", statusEvent("401", "in", time.Time{}, "South Carolina"), nil)
		ev, release = store.Acquire("401", "Basketball")
		convey.So(ev.State, convey.ShouldEqual, StateLive)
		release()
	})
}
