// Package notify renders tracker alerts into chat messages and fans them out
// to the configured webhook channels (Discord, Slack, generic JSON).
//
// Send failures are logged, never returned: one dead webhook must not block
// the poll loop or the other channels.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/gameday/internal/config"
	"github.com/albapepper/gameday/internal/tracker"
)

const sendTimeout = 5 * time.Second

// Channel is implemented by each delivery provider.
type Channel interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, alert tracker.Alert) error
}

// Dispatcher fans alerts out to all configured channels, preserving the
// order alerts are handed to it.
type Dispatcher struct {
	channels []Channel
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher from the given config. Only channels
// with IsConfigured() == true are active.
func NewDispatcher(cfg *config.Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{logger: logger}
	for _, ch := range []Channel{
		NewDiscord(cfg.DiscordWebhookURL, cfg.School),
		NewSlack(cfg.SlackWebhookURL),
		NewWebhook(cfg.WebhookURL, cfg.WebhookSecret),
	} {
		d.Register(ch)
	}
	return d
}

// Register adds a channel if it is configured.
func (d *Dispatcher) Register(ch Channel) {
	if ch.IsConfigured() {
		d.channels = append(d.channels, ch)
	}
}

// IsAnyConfigured returns true if at least one channel is ready to send.
func (d *Dispatcher) IsAnyConfigured() bool {
	return len(d.channels) > 0
}

// Notify sends one alert to every configured channel. Errors are logged and
// swallowed.
func (d *Dispatcher) Notify(ctx context.Context, alert tracker.Alert) {
	for _, ch := range d.channels {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := ch.Send(sendCtx, alert)
		cancel()
		if err != nil {
			d.logger.Warn("notify: channel send failed",
				"channel", ch.Name(), "kind", alert.Kind, "event_id", alert.EventID, "error", err)
		}
	}
}

// NotifyAll sends an ordered batch of alerts.
func (d *Dispatcher) NotifyAll(ctx context.Context, alerts []tracker.Alert) {
	for _, a := range alerts {
		d.Notify(ctx, a)
	}
}
