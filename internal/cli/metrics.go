package cli

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobatlas/jobatlas/pkg/observability"
)

var (
	metricsOnce sync.Once
	metrics     *observability.Metrics
)

// engineMetrics returns the process-wide expansion counters, registered with
// the default Prometheus registry on first use. The registry rejects
// duplicate registration, so every engine built in this process shares one
// set of counters.
func engineMetrics() *observability.Metrics {
	metricsOnce.Do(func() {
		metrics = observability.New(prometheus.DefaultRegisterer)
	})
	return metrics
}
