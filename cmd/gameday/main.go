// Command gameday watches a school's live scoreboards and posts game alerts.
//
// Usage:
//
//	gameday watch
//	gameday score --sport Basketball
//	gameday schedule
//	gameday nextgame --sport Baseball
//	gameday history --limit 10
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/gameday/internal/api"
	"github.com/albapepper/gameday/internal/cache"
	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/espn"
	"github.com/albapepper/gameday/internal/history"
	"github.com/albapepper/gameday/internal/maintenance"
	"github.com/albapepper/gameday/internal/notify"
	"github.com/albapepper/gameday/internal/tracker"
	"github.com/albapepper/gameday/internal/watch"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "gameday",
		Short: "School scoreboard watcher and query CLI",
	}

	root.AddCommand(watchCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(nextGameCmd())
	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// --------------------------------------------------------------------------
// watch command
// --------------------------------------------------------------------------

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the poll loop, alert delivery, and query API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg.Debug)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			// Optional alert-history store
			hist, err := history.Open(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer hist.Close()
			if !hist.Enabled() {
				logger.Info("Alert history disabled (no DATABASE_URL)")
			}

			client := espn.NewClient(cfg.FeedRequestsPerMinute, cfg.FeedTimeout, logger)
			store := tracker.NewStore()
			appCache := cache.New(cfg.CacheEnabled)

			dispatcher := notify.NewDispatcher(cfg, logger)
			if !dispatcher.IsAnyConfigured() {
				logger.Warn("No delivery channels configured; alerts will only be logged")
			}

			watcher := watch.New(cfg, client, store, dispatcher, hist, logger)
			go watcher.Start(ctx)

			jobs := maintenance.New(cfg, client, store, dispatcher, hist, logger)
			go jobs.Start(ctx)

			router := api.NewRouter(cfg, client, store, appCache, hist)
			addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				logger.Info("Starting Gameday API",
					"addr", addr,
					"school", cfg.School,
					"environment", cfg.Environment,
					"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Server failed", "error", err)
					os.Exit(1)
				}
			}()

			<-ctx.Done()
			logger.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", "error", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// score command
// --------------------------------------------------------------------------

func scoreCmd() *cobra.Command {
	var sportName string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print current scores for the school's games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(sportName, func(ctx context.Context, cfg *config.Config, events []espn.Event) error {
				if len(events) == 0 {
					fmt.Printf("No games found for %s right now.\n", cfg.School)
					return nil
				}
				for _, ev := range events {
					comp, ok := ev.Competition()
					if !ok {
						continue
					}
					fmt.Printf("%s — %s\n", ev.Matchup(), comp.Status.Type.Description)
					for _, c := range comp.Competitors {
						score := c.Score
						if score == "" {
							score = "0"
						}
						fmt.Printf("  %-30s %s\n", c.Team.DisplayName, score)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sportName, "sport", "", "Configured sport name (default: first configured)")
	return cmd
}

// --------------------------------------------------------------------------
// schedule command
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var sportName string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the school's upcoming games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(sportName, func(ctx context.Context, cfg *config.Config, events []espn.Event) error {
				upcoming := upcomingEvents(events)
				if len(upcoming) == 0 {
					fmt.Printf("No upcoming games found for %s.\n", cfg.School)
					return nil
				}
				for _, ev := range upcoming {
					fmt.Printf("%s — %s\n",
						ev.StartTime().Local().Format("Mon Jan 2 3:04 PM"), ev.Matchup())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sportName, "sport", "", "Configured sport name (default: first configured)")
	return cmd
}

// --------------------------------------------------------------------------
// nextgame command
// --------------------------------------------------------------------------

func nextGameCmd() *cobra.Command {
	var sportName string
	cmd := &cobra.Command{
		Use:   "nextgame",
		Short: "Print the school's next upcoming game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(sportName, func(ctx context.Context, cfg *config.Config, events []espn.Event) error {
				upcoming := upcomingEvents(events)
				if len(upcoming) == 0 {
					fmt.Printf("No upcoming games found for %s.\n", cfg.School)
					return nil
				}
				next := upcoming[0]
				fmt.Printf("Next game: %s\n%s\n",
					next.Matchup(), next.StartTime().Local().Format("Monday, January 2 at 3:04 PM"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sportName, "sport", "", "Configured sport name (default: first configured)")
	return cmd
}

// --------------------------------------------------------------------------
// history command
// --------------------------------------------------------------------------

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recently delivered alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg.Debug)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			hist, err := history.Open(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer hist.Close()
			if !hist.Enabled() {
				return fmt.Errorf("alert history requires DATABASE_URL")
			}

			entries, err := hist.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No alerts delivered yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  [%s] %s\n", e.SentAt.Local().Format("Jan 2 15:04"), e.Kind, e.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum alerts to show")
	return cmd
}

// --------------------------------------------------------------------------
// Shared query setup
// --------------------------------------------------------------------------

// runQuery handles config loading, feed fetch, and school filtering for the
// one-shot commands.
func runQuery(sportName string, fn func(ctx context.Context, cfg *config.Config, events []espn.Event) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sport, ok := cfg.FindSport(sportName)
	if !ok {
		return fmt.Errorf("sport %q is not configured", sportName)
	}

	client := espn.NewClient(cfg.FeedRequestsPerMinute, cfg.FeedTimeout, logger)
	sb, err := client.FetchScoreboard(ctx, sport.ScoreboardURL)
	if err != nil {
		return fmt.Errorf("fetch %s scoreboard: %w", sport.Name, err)
	}

	matcher := tracker.NewMatcher(cfg.School, cfg.Aliases...)
	var events []espn.Event
	for _, ev := range sb.Events {
		if matcher.MatchesEvent(ev) {
			events = append(events, ev)
		}
	}
	return fn(ctx, cfg, events)
}

// upcomingEvents filters to future games, soonest first.
func upcomingEvents(events []espn.Event) []espn.Event {
	now := time.Now()
	var upcoming []espn.Event
	for _, ev := range events {
		if start := ev.StartTime(); !start.IsZero() && start.After(now) {
			upcoming = append(upcoming, ev)
		}
	}
	sort.Slice(upcoming, func(a, b int) bool {
		return upcoming[a].StartTime().Before(upcoming[b].StartTime())
	})
	return upcoming
}
