// Package observability exposes Prometheus metrics for expansion runs. The
// metrics attach to the engine through domain.Hooks, so the scheduler stays
// free of any metrics dependency.
package observability

import (
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the expansion counters.
type Metrics struct {
	generations      *prometheus.CounterVec
	generationErrors *prometheus.CounterVec
	droppedLines     *prometheus.CounterVec
	nodesCreated     *prometheus.CounterVec
	nodesCompleted   *prometheus.CounterVec
}

// New creates the metrics and registers them with the given registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobatlas_generations_total",
			Help: "Generation requests sent, by step.",
		}, []string{"step"}),
		generationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobatlas_generation_errors_total",
			Help: "Generation requests that failed or returned no text, by step.",
		}, []string{"step"}),
		droppedLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobatlas_parse_dropped_lines_total",
			Help: "Numbered output lines the parser could not match, by step.",
		}, []string{"step"}),
		nodesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobatlas_nodes_created_total",
			Help: "Tree nodes created, by kind.",
		}, []string{"kind"}),
		nodesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobatlas_nodes_completed_total",
			Help: "Tree nodes marked complete, by kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.generations, m.generationErrors, m.droppedLines, m.nodesCreated, m.nodesCompleted)
	}
	return m
}

// Hooks returns the lifecycle callbacks that feed these counters.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnGenerate: func(stepID string) {
			m.generations.WithLabelValues(stepID).Inc()
		},
		OnGenerateError: func(stepID string) {
			m.generationErrors.WithLabelValues(stepID).Inc()
		},
		OnParseDropped: func(stepID string, lines int) {
			m.droppedLines.WithLabelValues(stepID).Add(float64(lines))
		},
		OnNodeCreated: func(kind domain.Kind) {
			m.nodesCreated.WithLabelValues(string(kind)).Inc()
		},
		OnNodeComplete: func(kind domain.Kind) {
			m.nodesCompleted.WithLabelValues(string(kind)).Inc()
		},
	}
}
