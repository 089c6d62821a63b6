package observability

import (
	"context"
	"errors"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of triage_runs_total.
const (
	OutcomeOK        = "ok"
	OutcomeNode      = "node_error"
	OutcomeRouting   = "routing_error"
	OutcomeExecution = "execution_error"
	OutcomeOther     = "error"
)

// Metrics records node visits, node latency and run outcomes.
type Metrics struct {
	nodeVisits   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	nodeErrors   *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node_id"},
		),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_node_duration_seconds",
				Help:    "Duration of node transforms, collaborator calls included",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"node_id"},
		),
		nodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_node_errors_total",
				Help: "Total number of node visits that aborted the run",
			},
			[]string{"node_id"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_runs_total",
				Help: "Total number of completed runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "triage_run_duration_seconds",
				Help:    "End to end duration of runs",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.nodeVisits, m.nodeDuration, m.nodeErrors, m.runs, m.runDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.nodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			m.nodeDuration.WithLabelValues(e.NodeID).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.nodeErrors.WithLabelValues(e.NodeID).Inc()
			}
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			m.runs.WithLabelValues(Outcome(e.Err)).Inc()
			m.runDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Outcome classifies a run error into a metric label.
func Outcome(err error) string {
	var (
		nodeErr    *domain.NodeExecutionError
		routingErr *domain.RoutingError
		execErr    *domain.ExecutionError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &nodeErr):
		return OutcomeNode
	case errors.As(err, &routingErr):
		return OutcomeRouting
	case errors.As(err, &execErr):
		return OutcomeExecution
	}
	return OutcomeOther
}
