// Package config provides centralized configuration loaded from environment
// variables. Shared by the watch daemon and the one-shot query commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Sport feeds
// --------------------------------------------------------------------------

// SportFeed pairs a display name with its scoreboard endpoint.
type SportFeed struct {
	Name          string
	ScoreboardURL string
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// School
	School  string
	Aliases []string

	// Feeds
	Sports                []SportFeed
	PollInterval          time.Duration
	PreGameWindow         time.Duration
	FeedRequestsPerMinute int
	FeedTimeout           time.Duration

	// Delivery channels
	DiscordWebhookURL string
	SlackWebhookURL   string
	WebhookURL        string
	WebhookSecret     string

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// History store (optional)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Maintenance
	DigestCron     string // cron spec for the morning schedule digest; empty disables
	StoreRetention time.Duration

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
// A missing school name or empty sport list is a startup error; everything
// else degrades to a default or disables the feature.
func Load() (*Config, error) {
	school := envOr("GAMEDAY_SCHOOL", "")
	if school == "" {
		return nil, fmt.Errorf("GAMEDAY_SCHOOL must be set")
	}

	sports, err := parseSports(envOr("GAMEDAY_SPORTS", ""))
	if err != nil {
		return nil, err
	}
	if len(sports) == 0 {
		return nil, fmt.Errorf("GAMEDAY_SPORTS must list at least one sport (\"Name=URL;Name=URL\")")
	}

	return &Config{
		School:  school,
		Aliases: envList("GAMEDAY_ALIASES", nil),

		Sports:                sports,
		PollInterval:          time.Duration(envInt("GAMEDAY_POLL_INTERVAL", 60)) * time.Second,
		PreGameWindow:         time.Duration(envInt("GAMEDAY_PREGAME_MINUTES", 30)) * time.Minute,
		FeedRequestsPerMinute: envInt("GAMEDAY_FEED_RPM", 60),
		FeedTimeout:           time.Duration(envInt("GAMEDAY_FEED_TIMEOUT_SECONDS", 15)) * time.Second,

		DiscordWebhookURL: envOr("DISCORD_WEBHOOK_URL", ""),
		SlackWebhookURL:   envOr("SLACK_WEBHOOK_URL", ""),
		WebhookURL:        envOr("NOTIFY_WEBHOOK_URL", ""),
		WebhookSecret:     envOr("NOTIFY_WEBHOOK_SECRET", ""),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("GAMEDAY_DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		DigestCron:     envOr("GAMEDAY_DIGEST_CRON", "0 8 * * *"),
		StoreRetention: time.Duration(envInt("GAMEDAY_STORE_RETENTION_HOURS", 48)) * time.Hour,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// FindSport returns the feed whose name matches (case-insensitive), or the
// first configured feed when name is empty.
func (c *Config) FindSport(name string) (SportFeed, bool) {
	if name == "" {
		return c.Sports[0], true
	}
	for _, s := range c.Sports {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SportFeed{}, false
}

// parseSports parses "Name=URL;Name=URL" into feed pairs.
func parseSports(raw string) ([]SportFeed, error) {
	if raw == "" {
		return nil, nil
	}
	var feeds []SportFeed
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, url, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("invalid GAMEDAY_SPORTS entry %q (want \"Name=URL\")", part)
		}
		feeds = append(feeds, SportFeed{
			Name:          strings.TrimSpace(name),
			ScoreboardURL: strings.TrimSpace(url),
		})
	}
	return feeds, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
