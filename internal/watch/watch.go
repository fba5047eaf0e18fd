// Package watch drives the polling loop: once per interval it reads every
// configured sport's scoreboard, runs the school's games through the tracker
// state machine, and hands the resulting alerts to the dispatcher in order.
//
// Cycles never overlap. Fetches run concurrently across sports; evaluation
// order is still sport config order, then feed order within a sport, so
// alert ordering is deterministic. One sport's failure never blocks another.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
	"github.com/albapepper/gameday/internal/history"
	"github.com/albapepper/gameday/internal/notify"
	"github.com/albapepper/gameday/internal/telemetry"
	"github.com/albapepper/gameday/internal/tracker"
)

const defaultWorkers = 4

// Watcher owns one polling pipeline: feed client, tracker store, dispatcher.
type Watcher struct {
	cfg        *config.Config
	client     *espn.Client
	store      *tracker.Store
	eval       *tracker.Evaluator
	matcher    tracker.Matcher
	dispatcher *notify.Dispatcher
	history    *history.Store
	logger     *slog.Logger
	workers    int

	cycleMu sync.Mutex
}

// New assembles a Watcher. history may be nil (logging of delivered alerts
// disabled).
func New(cfg *config.Config, client *espn.Client, store *tracker.Store, dispatcher *notify.Dispatcher, hist *history.Store, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:        cfg,
		client:     client,
		store:      store,
		eval:       tracker.NewEvaluator(store, cfg.PreGameWindow),
		matcher:    tracker.NewMatcher(cfg.School, cfg.Aliases...),
		dispatcher: dispatcher,
		history:    hist,
		logger:     logger,
		workers:    defaultWorkers,
	}
}

// Start runs the poll loop until ctx is cancelled. Intended to be called
// with `go`. The first cycle runs immediately; later cycles on the ticker.
func (w *Watcher) Start(ctx context.Context) {
	w.logger.Info("Watcher started",
		"school", w.cfg.School,
		"sports", len(w.cfg.Sports),
		"interval", w.cfg.PollInterval,
		"pregame_window", w.cfg.PreGameWindow)

	w.runCycle(ctx)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.runCycle(ctx)
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return
		}
	}
}

// runCycle executes one cycle unless the previous one is still in flight,
// in which case the tick is skipped rather than queued.
func (w *Watcher) runCycle(ctx context.Context) {
	if !w.cycleMu.TryLock() {
		telemetry.CyclesSkipped.Inc()
		w.logger.Warn("Cycle still in flight; skipping tick")
		return
	}
	defer w.cycleMu.Unlock()

	result := w.Cycle(ctx)
	telemetry.CyclesTotal.Inc()
	telemetry.TrackedEvents.Set(float64(w.store.Len()))

	if result.Alerts > 0 || len(result.Errors) > 0 {
		w.logger.Info("Cycle complete", "summary", result.Summary())
	} else {
		w.logger.Debug("Cycle complete", "summary", result.Summary())
	}
}

// Cycle polls every configured sport once and dispatches any due alerts,
// returning counters for logging and tests. Exported so a digest job or a
// test can drive a single cycle without the ticker.
func (w *Watcher) Cycle(ctx context.Context) CycleResult {
	start := time.Now()
	outcomes := make([]sportOutcome, len(w.cfg.Sports))

	// Bounded worker pool across sports; each worker fetches and evaluates
	// one sport at a time. Event state is keyed per id, so cross-sport
	// concurrency cannot race a TrackedEvent.
	workers := w.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(w.cfg.Sports) {
		workers = len(w.cfg.Sports)
	}

	ch := make(chan int, len(w.cfg.Sports))
	for i := range w.cfg.Sports {
		ch <- i
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range ch {
				outcomes[idx] = w.pollSport(ctx, w.cfg.Sports[idx])
			}
		}()
	}
	wg.Wait()

	// Combine in sport config order so alert ordering is stable.
	result := CycleResult{SportsPolled: len(w.cfg.Sports)}
	var alerts []tracker.Alert
	for _, out := range outcomes {
		alerts = append(alerts, out.alerts...)
		result.EventsMatched += out.matched
		result.Errors = append(result.Errors, out.errors...)
		if out.failed {
			result.SportsFailed++
		}
	}
	result.Alerts = len(alerts)

	for _, a := range alerts {
		telemetry.AlertsEmitted.WithLabelValues(string(a.Kind)).Inc()
	}

	w.dispatcher.NotifyAll(ctx, alerts)

	if w.history.Enabled() && len(alerts) > 0 {
		if err := w.history.Record(ctx, alerts); err != nil {
			w.logger.Warn("Failed to record alert history", "error", err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

type sportOutcome struct {
	alerts  []tracker.Alert
	matched int
	errors  []string
	failed  bool
}

// pollSport fetches one sport's scoreboard and evaluates every event the
// school plays in. A scoreboard failure abandons the sport for this cycle; a
// summary failure skips just that event. Either way the next cycle retries
// naturally.
func (w *Watcher) pollSport(ctx context.Context, sport config.SportFeed) sportOutcome {
	var out sportOutcome

	sb, err := w.client.FetchScoreboard(ctx, sport.ScoreboardURL)
	if err != nil {
		telemetry.FeedErrors.WithLabelValues("scoreboard").Inc()
		w.logger.Warn("Scoreboard fetch failed", "sport", sport.Name, "error", err)
		out.errors = append(out.errors, fmt.Sprintf("%s: %v", sport.Name, err))
		out.failed = true
		return out
	}

	for _, ev := range sb.Events {
		if !w.matcher.MatchesEvent(ev) {
			continue
		}
		out.matched++

		sum, err := w.client.FetchSummary(ctx, sport.ScoreboardURL, ev.ID)
		if err != nil {
			telemetry.FeedErrors.WithLabelValues("summary").Inc()
			w.logger.Warn("Summary fetch failed",
				"sport", sport.Name, "event_id", ev.ID, "error", err)
			out.errors = append(out.errors, fmt.Sprintf("%s event %s: %v", sport.Name, ev.ID, err))
			continue
		}

		out.alerts = append(out.alerts, w.eval.Evaluate(sport.Name, ev, sum)...)
	}
	return out
}
