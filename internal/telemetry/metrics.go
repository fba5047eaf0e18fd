// Package telemetry exposes Prometheus metrics for the watch loop and the
// delivery layer. Metrics register on the default registry; the handler is
// mounted on the API router at /metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CyclesTotal counts completed polling cycles.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameday_cycles_total",
		Help: "Completed polling cycles.",
	})

	// CyclesSkipped counts ticks skipped because the previous cycle was
	// still in flight.
	CyclesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameday_cycles_skipped_total",
		Help: "Poll ticks skipped due to an overlapping cycle.",
	})

	// FeedErrors counts failed feed fetches by stage (scoreboard, summary).
	FeedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameday_feed_errors_total",
		Help: "Failed feed fetches by stage.",
	}, []string{"stage"})

	// AlertsEmitted counts alerts produced by the tracker, by kind.
	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameday_alerts_emitted_total",
		Help: "Alerts emitted by the tracker, by kind.",
	}, []string{"kind"})

	// TrackedEvents reports the current size of the event store.
	TrackedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameday_tracked_events",
		Help: "Events currently held in the tracker store.",
	})
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
