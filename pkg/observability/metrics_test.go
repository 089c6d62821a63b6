package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: "categorize"})
	hooks.OnNodeLeave(ctx, &domain.NodeEvent{NodeID: "categorize", Duration: 20 * time.Millisecond})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: "analyzeSentiment"})
	hooks.OnNodeLeave(ctx, &domain.NodeEvent{NodeID: "analyzeSentiment", Err: errors.New("boom")})
	hooks.OnRunComplete(ctx, &domain.RunEvent{Err: &domain.NodeExecutionError{NodeID: "analyzeSentiment"}})

	count, err := testutil.GatherAndCount(reg, "triage_node_visits_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	expected := `
# HELP triage_runs_total Total number of completed runs by outcome
# TYPE triage_runs_total counter
triage_runs_total{outcome="node_error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "triage_runs_total"))

	errorsExpected := `
# HELP triage_node_errors_total Total number of node visits that aborted the run
# TYPE triage_node_errors_total counter
triage_node_errors_total{node_id="analyzeSentiment"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(errorsExpected), "triage_node_errors_total"))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, observability.OutcomeOK, observability.Outcome(nil))
	assert.Equal(t, observability.OutcomeNode, observability.Outcome(&domain.NodeExecutionError{}))
	assert.Equal(t, observability.OutcomeRouting, observability.Outcome(&domain.RoutingError{}))
	assert.Equal(t, observability.OutcomeExecution, observability.Outcome(&domain.ExecutionError{}))
	assert.Equal(t, observability.OutcomeOther, observability.Outcome(errors.New("x")))
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.AuditHooks(logger)

	hooks.OnNodeLeave(context.Background(), &domain.NodeEvent{
		EventBase: domain.EventBase{RunID: "r1"},
		NodeID:    "categorize",
		Changes:   domain.Update{domain.FieldCategory: "Billing"},
		Next:      "analyzeSentiment",
	})
	hooks.OnRunComplete(context.Background(), &domain.RunEvent{
		EventBase: domain.EventBase{RunID: "r1"},
		Path:      []string{"categorize"},
	})

	out := buf.String()
	assert.Contains(t, out, "category=Billing")
	assert.Contains(t, out, "next=analyzeSentiment")
	assert.Contains(t, out, "outcome=ok")
}
