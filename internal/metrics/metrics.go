// Package metrics holds the process's prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors for the fetcher and the monitoring loop.
type Metrics struct {
	APIRequests        *prometheus.CounterVec
	RateLimitDelays    prometheus.Counter
	RateLimitDelayTime prometheus.Counter
	CyclesRun          prometheus.Counter
	CycleErrors        prometheus.Counter
	MatchesProcessed   prometheus.Counter
	MatchesSkipped     *prometheus.CounterVec
	TelemetryEvents    prometheus.Counter
}

// New registers the tracker's collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pubg_api_requests_total",
			Help: "Upstream API requests by outcome.",
		}, []string{"outcome"}),
		RateLimitDelays: factory.NewCounter(prometheus.CounterOpts{
			Name: "pubg_api_rate_limit_delays_total",
			Help: "Times a request waited on the local token bucket.",
		}),
		RateLimitDelayTime: factory.NewCounter(prometheus.CounterOpts{
			Name: "pubg_api_rate_limit_delay_seconds_total",
			Help: "Total seconds spent waiting on the local token bucket.",
		}),
		CyclesRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "monitor_cycles_total",
			Help: "Monitoring cycles started.",
		}),
		CycleErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "monitor_cycle_errors_total",
			Help: "Monitoring cycles that ended with an error.",
		}),
		MatchesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "monitor_matches_processed_total",
			Help: "Matches summarized, delivered, and marked processed.",
		}),
		MatchesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_matches_skipped_total",
			Help: "Matches skipped this cycle by reason; they are retried next cycle.",
		}, []string{"reason"}),
		TelemetryEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "monitor_telemetry_events_total",
			Help: "Correlated kill/knock events extracted from telemetry.",
		}),
	}
}

// APIRequest implements pubgapi.Metrics.
func (m *Metrics) APIRequest(outcome string) {
	m.APIRequests.WithLabelValues(outcome).Inc()
}

// RateLimitDelay implements pubgapi.Metrics.
func (m *Metrics) RateLimitDelay(d time.Duration) {
	m.RateLimitDelays.Inc()
	m.RateLimitDelayTime.Add(d.Seconds())
}
