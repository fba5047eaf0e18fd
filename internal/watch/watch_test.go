package watch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
	"github.com/albapepper/gameday/internal/notify"
	"github.com/albapepper/gameday/internal/tracker"
)

// captureChannel records every alert the dispatcher hands it.
type captureChannel struct {
	alerts []tracker.Alert
}

func (c *captureChannel) Name() string       { return "capture" }
func (c *captureChannel) IsConfigured() bool { return true }
func (c *captureChannel) Send(ctx context.Context, a tracker.Alert) error {
	c.alerts = append(c.alerts, a)
	return nil
}

func scoreboardJSON(eventID, school, state string, plays int) string {
	return fmt.Sprintf(`{
		"events": [{
			"id": %q,
			"date": "2026-02-07T23:00Z",
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "score": "70", "team": {"displayName": %q}},
					{"homeAway": "away", "score": "65", "team": {"displayName": "Clemson Tigers"}}
				],
				"status": {"type": {"state": %q}}
			}]
		}]
	}`, eventID, school, state)
}

func summaryJSON(plays int) string {
	doc := `{"scoringPlays": [`
	for i := 0; i < plays; i++ {
		if i > 0 {
			doc += ","
		}
		doc += fmt.Sprintf(`{"id": "%d", "text": "Play %d"}`, i+1, i+1)
	}
	return doc + `]}`
}

func feedServer(scoreboard string, summary string, scoreboardFails bool, summaryFails bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/scoreboard":
			if scoreboardFails {
				http.Error(w, "upstream down", http.StatusInternalServerError)
				return
			}
			w.Write([]byte(scoreboard))
		case "/summary":
			if summaryFails {
				http.Error(w, "upstream down", http.StatusInternalServerError)
				return
			}
			w.Write([]byte(summary))
		default:
			http.NotFound(w, r)
		}
	}))
}

func testWatcher(sports []config.SportFeed, capture *captureChannel) *Watcher {
	cfg := &config.Config{
		School:                "South Carolina",
		Aliases:               []string{"Gamecocks"},
		Sports:                sports,
		PollInterval:          time.Minute,
		PreGameWindow:         30 * time.Minute,
		FeedRequestsPerMinute: 6000,
		FeedTimeout:           5 * time.Second,
	}
	client := espn.NewClient(cfg.FeedRequestsPerMinute, cfg.FeedTimeout, nil)
	dispatcher := notify.NewDispatcher(cfg, nil)
	dispatcher.Register(capture)
	return New(cfg, client, tracker.NewStore(), dispatcher, nil, nil)
}

func TestCycleFailureIsolation(t *testing.T) {
	convey.Convey("Given one broken and one healthy sport feed", t, func() {
		broken := feedServer("", "", true, false)
		defer broken.Close()
		healthy := feedServer(
			scoreboardJSON("401", "South Carolina Gamecocks", "in", 1),
			summaryJSON(1), false, false)
		defer healthy.Close()

		capture := &captureChannel{}
		w := testWatcher([]config.SportFeed{
			{Name: "Basketball", ScoreboardURL: broken.URL + "/scoreboard"},
			{Name: "Baseball", ScoreboardURL: healthy.URL + "/scoreboard"},
		}, capture)

		result := w.Cycle(context.Background())

		convey.Convey("The broken sport is reported failed", func() {
			convey.So(result.SportsPolled, convey.ShouldEqual, 2)
			convey.So(result.SportsFailed, convey.ShouldEqual, 1)
			convey.So(result.Errors, convey.ShouldHaveLength, 1)
		})

		convey.Convey("The healthy sport's alerts still go out", func() {
			convey.So(result.EventsMatched, convey.ShouldEqual, 1)
			convey.So(capture.alerts, convey.ShouldHaveLength, 1)
			convey.So(capture.alerts[0].Kind, convey.ShouldEqual, tracker.KindScoringUpdate)
			convey.So(capture.alerts[0].Sport, convey.ShouldEqual, "Baseball")
		})
	})
}

func TestCycleSummaryFailureSkipsEvent(t *testing.T) {
	convey.Convey("Given a feed whose summary endpoint is down", t, func() {
		srv := feedServer(
			scoreboardJSON("401", "South Carolina Gamecocks", "in", 0),
			"", false, true)
		defer srv.Close()

		capture := &captureChannel{}
		w := testWatcher([]config.SportFeed{
			{Name: "Basketball", ScoreboardURL: srv.URL + "/scoreboard"},
		}, capture)

		result := w.Cycle(context.Background())

		convey.Convey("The event is skipped this cycle, not fatal", func() {
			convey.So(result.SportsFailed, convey.ShouldEqual, 0)
			convey.So(result.EventsMatched, convey.ShouldEqual, 1)
			convey.So(result.Errors, convey.ShouldHaveLength, 1)
			convey.So(capture.alerts, convey.ShouldBeEmpty)
		})
	})
}

func TestCycleIgnoresOtherSchools(t *testing.T) {
	convey.Convey("Given a scoreboard with no games of the school's", t, func() {
		srv := feedServer(
			scoreboardJSON("401", "Duke Blue Devils", "in", 1),
			summaryJSON(1), false, false)
		defer srv.Close()

		capture := &captureChannel{}
		w := testWatcher([]config.SportFeed{
			{Name: "Basketball", ScoreboardURL: srv.URL + "/scoreboard"},
		}, capture)

		result := w.Cycle(context.Background())

		convey.So(result.EventsMatched, convey.ShouldEqual, 0)
		convey.So(capture.alerts, convey.ShouldBeEmpty)
	})
}

func TestCycleAlertOrdering(t *testing.T) {
	convey.Convey("Given several sports with due alerts", t, func() {
		var servers []*httptest.Server
		var sports []config.SportFeed
		for i := 0; i < 4; i++ {
			srv := feedServer(
				scoreboardJSON(fmt.Sprintf("40%d", i), "South Carolina Gamecocks", "in", 1),
				summaryJSON(1), false, false)
			servers = append(servers, srv)
			sports = append(sports, config.SportFeed{
				Name:          fmt.Sprintf("Sport%d", i),
				ScoreboardURL: srv.URL + "/scoreboard",
			})
		}
		defer func() {
			for _, s := range servers {
				s.Close()
			}
		}()

		capture := &captureChannel{}
		w := testWatcher(sports, capture)

		w.Cycle(context.Background())

		convey.Convey("Alerts arrive in sport config order despite concurrent fetches", func() {
			convey.So(capture.alerts, convey.ShouldHaveLength, 4)
			for i, a := range capture.alerts {
				convey.So(a.Sport, convey.ShouldEqual, fmt.Sprintf("Sport%d", i))
			}
		})
	})
}

func TestCycleRepeatPollsStayQuiet(t *testing.T) {
	convey.Convey("Given an unchanged feed polled twice", t, func() {
		srv := feedServer(
			scoreboardJSON("401", "South Carolina Gamecocks", "in", 2),
			summaryJSON(2), false, false)
		defer srv.Close()

		capture := &captureChannel{}
		w := testWatcher([]config.SportFeed{
			{Name: "Basketball", ScoreboardURL: srv.URL + "/scoreboard"},
		}, capture)

		first := w.Cycle(context.Background())
		second := w.Cycle(context.Background())

		convey.So(first.Alerts, convey.ShouldEqual, 2)
		convey.So(second.Alerts, convey.ShouldEqual, 0)
		convey.So(capture.alerts, convey.ShouldHaveLength, 2)
	})
}
