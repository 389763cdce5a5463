package bridge

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type bridgeMetrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	eventDuration  prometheus.Histogram
	patchesSent    prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

var (
	globalMetrics     *bridgeMetrics
	globalMetricsOnce sync.Once
)

func metrics() *bridgeMetrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = &bridgeMetrics{
			activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "loom", Subsystem: "bridge", Name: "active_sessions",
				Help: "Connected WebSocket sessions.",
			}),
			sessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "bridge", Name: "sessions_total",
				Help: "Sessions accepted since start.",
			}),
			eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "bridge", Name: "events_total",
				Help: "Client events processed, by result.",
			}, []string{"result"}),
			eventDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "loom", Subsystem: "bridge", Name: "event_duration_seconds",
				Help:    "Event dispatch plus re-render duration.",
				Buckets: prometheus.DefBuckets,
			}),
			patchesSent: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "bridge", Name: "patches_sent_total",
				Help: "Patches sent to clients.",
			}),
			wsErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "bridge", Name: "websocket_errors_total",
				Help: "WebSocket errors by type.",
			}, []string{"type"}),
		}
	})
	return globalMetrics
}
