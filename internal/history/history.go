// Package history keeps an optional Postgres log of delivered alerts,
// serving the `history` command and the /api/v1/history endpoint.
//
// Nil-safe: without DATABASE_URL, Open returns nil and every method is a
// no-op. The log is diagnostics, not a delivery ledger — it does not make
// alerts exactly-once across restarts.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/notify"
	"github.com/albapepper/gameday/internal/tracker"
)

// Store wraps a pgxpool for the alert log.
type Store struct {
	pool *pgxpool.Pool
}

// Entry is one logged alert.
type Entry struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Sport   string    `json:"sport"`
	EventID string    `json:"event_id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Open creates and validates the store. Returns (nil, nil) when
// cfg.DatabaseURL is empty — history disabled.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Alert history store connected",
		"min_conns", cfg.DBPoolMinConns, "max_conns", cfg.DBPoolMaxConns)
	return &Store{pool: pool}, nil
}

// Enabled reports whether the store is active.
func (s *Store) Enabled() bool { return s != nil && s.pool != nil }

// Close releases the pool.
func (s *Store) Close() {
	if s.Enabled() {
		s.pool.Close()
	}
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if !s.Enabled() {
		return fmt.Errorf("history store disabled")
	}
	var n int
	return s.pool.QueryRow(ctx, "health_check").Scan(&n)
}

// Record persists a batch of delivered alerts.
func (s *Store) Record(ctx context.Context, alerts []tracker.Alert) error {
	if !s.Enabled() {
		return nil
	}
	for _, a := range alerts {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO alert_history (id, kind, sport, event_id, title, body, sent_at)
			VALUES ($1,$2,$3,$4,$5,$6,NOW())`,
			uuid.NewString(), string(a.Kind), a.Sport, a.EventID,
			notify.Title(a), notify.Body(a),
		)
		if err != nil {
			return fmt.Errorf("insert alert history: %w", err)
		}
	}
	return nil
}

// Recent returns the most recently delivered alerts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("history store disabled")
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, "recent_alerts", limit)
	if err != nil {
		return nil, fmt.Errorf("query alert history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Sport, &e.EventID, &e.Title, &e.Body, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan alert history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge removes entries older than retention. Returns rows removed.
func (s *Store) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM alert_history WHERE sent_at < NOW() - $1::interval`,
		fmt.Sprintf("%d hours", int(retention.Hours())))
	if err != nil {
		return 0, fmt.Errorf("purge alert history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS alert_history (
			id       UUID PRIMARY KEY,
			kind     TEXT NOT NULL,
			sport    TEXT NOT NULL,
			event_id TEXT NOT NULL,
			title    TEXT NOT NULL,
			body     TEXT NOT NULL DEFAULT '',
			sent_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure alert_history schema: %w", err)
	}
	_, err = pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_alert_history_sent_at ON alert_history (sent_at DESC)`)
	if err != nil {
		return fmt.Errorf("ensure alert_history index: %w", err)
	}
	return nil
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check":  "SELECT 1",
		"recent_alerts": "SELECT id, kind, sport, event_id, title, body, sent_at FROM alert_history ORDER BY sent_at DESC LIMIT $1",
	}
	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
