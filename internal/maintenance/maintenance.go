// Package maintenance runs the scheduled background jobs that sit outside
// the poll loop: the morning schedule digest, tracker store eviction, and
// alert-history retention.
package maintenance

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
	"github.com/albapepper/gameday/internal/history"
	"github.com/albapepper/gameday/internal/notify"
	"github.com/albapepper/gameday/internal/tracker"
)

const (
	evictSpec = "@every 1h"
	purgeSpec = "@daily"

	historyRetention = 30 * 24 * time.Hour
	digestTimeout    = 30 * time.Second
)

// Jobs owns the cron scheduler and the dependencies its tasks use.
type Jobs struct {
	cfg        *config.Config
	client     *espn.Client
	matcher    tracker.Matcher
	store      *tracker.Store
	dispatcher *notify.Dispatcher
	history    *history.Store
	logger     *slog.Logger
	cron       *cron.Cron
}

// New assembles the job set. history may be nil.
func New(cfg *config.Config, client *espn.Client, store *tracker.Store, dispatcher *notify.Dispatcher, hist *history.Store, logger *slog.Logger) *Jobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Jobs{
		cfg:        cfg,
		client:     client,
		matcher:    tracker.NewMatcher(cfg.School, cfg.Aliases...),
		store:      store,
		dispatcher: dispatcher,
		history:    hist,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start registers the jobs and runs the scheduler until ctx is cancelled.
// Intended to be called with `go`.
func (j *Jobs) Start(ctx context.Context) {
	if j.cfg.DigestCron != "" {
		if _, err := j.cron.AddFunc(j.cfg.DigestCron, func() { j.runDigest(ctx) }); err != nil {
			j.logger.Error("Invalid digest cron spec; digest disabled",
				"spec", j.cfg.DigestCron, "error", err)
		}
	}
	j.cron.AddFunc(evictSpec, func() { j.runEviction() })
	j.cron.AddFunc(purgeSpec, func() { j.runPurge(ctx) })

	j.cron.Start()
	j.logger.Info("Maintenance jobs started",
		"digest", j.cfg.DigestCron,
		"store_retention", j.cfg.StoreRetention)

	<-ctx.Done()
	<-j.cron.Stop().Done()
	j.logger.Info("Maintenance jobs stopped")
}

// --------------------------------------------------------------------------
// Tasks
// --------------------------------------------------------------------------

// runDigest builds the day's schedule digest and sends it as one alert.
// Days with no games send nothing.
func (j *Jobs) runDigest(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, digestTimeout)
	defer cancel()

	games := j.collectToday(ctx)
	if len(games) == 0 {
		j.logger.Debug("Schedule digest: no games today")
		return
	}

	sort.Slice(games, func(a, b int) bool {
		return games[a].StartTime.Before(games[b].StartTime)
	})

	j.logger.Info("Schedule digest", "games", len(games))
	j.dispatcher.Notify(ctx, tracker.Alert{
		Kind:  tracker.KindScheduleDigest,
		Games: games,
	})
}

// collectToday reads every sport's scoreboard and returns the school's games
// that start today, local time. A failed feed drops that sport from the
// digest rather than cancelling it.
func (j *Jobs) collectToday(ctx context.Context) []tracker.DigestGame {
	now := time.Now()
	var games []tracker.DigestGame

	for _, sport := range j.cfg.Sports {
		sb, err := j.client.FetchScoreboard(ctx, sport.ScoreboardURL)
		if err != nil {
			j.logger.Warn("Schedule digest: scoreboard fetch failed",
				"sport", sport.Name, "error", err)
			continue
		}
		for _, ev := range sb.Events {
			if !j.matcher.MatchesEvent(ev) {
				continue
			}
			start := ev.StartTime()
			if start.IsZero() || !sameDay(start.Local(), now) {
				continue
			}
			games = append(games, tracker.DigestGame{
				Sport:     sport.Name,
				Matchup:   ev.Matchup(),
				StartTime: start,
			})
		}
	}
	return games
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// runEviction drops long-final events from the tracker store.
func (j *Jobs) runEviction() {
	if n := j.store.EvictFinished(j.cfg.StoreRetention); n > 0 {
		j.logger.Info("Evicted finished events", "count", n)
	}
}

// runPurge trims the alert-history table.
func (j *Jobs) runPurge(ctx context.Context) {
	if !j.history.Enabled() {
		return
	}
	n, err := j.history.Purge(ctx, historyRetention)
	if err != nil {
		j.logger.Warn("History purge failed", "error", err)
	} else if n > 0 {
		j.logger.Info("Purged old alert history", "count", n)
	}
}
