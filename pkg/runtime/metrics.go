package runtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// runtimeMetrics holds the Prometheus instruments for the rendering core.
// Registered once on the default registerer; all RenderingContexts share
// them.
type runtimeMetrics struct {
	rendersTotal     prometheus.Counter
	componentRenders prometheus.Counter
	effectsRun       prometheus.Counter
	effectErrors     prometheus.Counter
	skippedRenders   prometheus.Counter
	activeRoots      prometheus.Gauge
}

var (
	globalMetrics     *runtimeMetrics
	globalMetricsOnce sync.Once
)

func metrics() *runtimeMetrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = &runtimeMetrics{
			rendersTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "runtime", Name: "renders_total",
				Help: "Root reconciliation passes completed.",
			}),
			componentRenders: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "runtime", Name: "component_renders_total",
				Help: "Component function executions.",
			}),
			effectsRun: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "runtime", Name: "effects_run_total",
				Help: "Effect bodies executed by the scheduler.",
			}),
			effectErrors: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "runtime", Name: "effect_errors_total",
				Help: "Panics recovered from effect bodies and cleanups.",
			}),
			skippedRenders: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "loom", Subsystem: "runtime", Name: "skipped_rerenders_total",
				Help: "State updates dropped because the owning root could not be resolved.",
			}),
			activeRoots: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "loom", Subsystem: "runtime", Name: "active_roots",
				Help: "Containers with a mounted tree.",
			}),
		}
	})
	return globalMetrics
}
