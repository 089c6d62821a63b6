package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/triage/internal/runtime"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(f domain.Field, v string) domain.Transform {
	return func(context.Context, domain.State) (domain.Update, error) {
		return domain.Update{f: v}, nil
	}
}

func fail(err error) domain.Transform {
	return func(context.Context, domain.State) (domain.Update, error) {
		return nil, err
	}
}

// branchGraph routes on the category written by "classify".
func branchGraph(t *testing.T, category string) *domain.Graph {
	t.Helper()
	g, err := dsl.New().
		AddNode("classify", set(domain.FieldCategory, category), dsl.Writes(domain.FieldCategory)).
		AddNode("a", set(domain.FieldResponse, "from a")).
		AddNode("b", set(domain.FieldResponse, "from b")).
		AddConditionalEdge("classify", func(s domain.State) string { return s.Category }, map[string]string{
			"a": "a",
			"b": "b",
		}).
		AddEdge("a", domain.End).
		AddEdge("b", domain.End).
		SetEntry("classify").
		Compile()
	require.NoError(t, err)
	return g
}

func TestExecutor_LinearRun(t *testing.T) {
	g, err := dsl.New().
		AddNode("first", set(domain.FieldCategory, "x")).
		AddNode("second", set(domain.FieldSentiment, "y")).
		AddEdge("first", "second").
		AddEdge("second", domain.End).
		SetEntry("first").
		Compile()
	require.NoError(t, err)

	exec := runtime.NewExecutor(runtime.WithRunIDGenerator(func() string { return "run-1" }))
	res, err := exec.Run(context.Background(), g, domain.NewState("hello"))
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, []string{"first", "second"}, res.Path)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, domain.State{Query: "hello", Category: "x", Sentiment: "y"}, res.State)
}

func TestExecutor_ConditionalRouting(t *testing.T) {
	exec := runtime.NewExecutor()

	res, err := exec.Run(context.Background(), branchGraph(t, "b"), domain.NewState("q"))
	require.NoError(t, err)
	assert.Equal(t, []string{"classify", "b"}, res.Path)
	assert.Equal(t, "from b", res.State.Response)
	assert.True(t, res.Visited("b"))
	assert.False(t, res.Visited("a"))
}

func TestExecutor_UnmappedLabelFailsLoud(t *testing.T) {
	exec := runtime.NewExecutor()

	res, err := exec.Run(context.Background(), branchGraph(t, "zzz"), domain.NewState("q"))
	assert.Nil(t, res)

	var routing *domain.RoutingError
	require.ErrorAs(t, err, &routing)
	assert.Equal(t, "classify", routing.NodeID)
	assert.Equal(t, "zzz", routing.Label)
}

func TestExecutor_RouterPanic(t *testing.T) {
	g, err := dsl.New().
		AddNode("classify", set(domain.FieldCategory, "x"), dsl.Writes(domain.FieldCategory)).
		AddNode("a", set(domain.FieldResponse, "from a")).
		AddConditionalEdge("classify", func(domain.State) string { panic("router bug") }, map[string]string{"a": "a"}).
		AddEdge("a", domain.End).
		SetEntry("classify").
		Compile()
	require.NoError(t, err)

	var runErr error
	exec := runtime.NewExecutor(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) { runErr = e.Err },
	}))

	var res *domain.Result
	require.NotPanics(t, func() {
		res, err = exec.Run(context.Background(), g, domain.NewState("q"))
	})
	assert.Nil(t, res)

	var nodeErr *domain.NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "classify", nodeErr.NodeID)

	var panicErr *runtime.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "router bug", panicErr.Value)
	assert.Equal(t, err, runErr)
}

func TestExecutor_StepBound(t *testing.T) {
	// Router never picks the exit, so the run cycles until the bound trips.
	g, err := dsl.New().
		AddNode("a", set(domain.FieldCategory, "loop")).
		AddNode("b", set(domain.FieldSentiment, "loop")).
		AddEdge("a", "b").
		AddConditionalEdge("b", func(domain.State) string { return "again" }, map[string]string{
			"again": "a",
			"done":  domain.End,
		}).
		SetEntry("a").
		Compile()
	require.NoError(t, err)

	_, err = runtime.NewExecutor().Run(context.Background(), g, domain.NewState("q"))

	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.ReasonStepBound, execErr.Reason)
	assert.Equal(t, 3, execErr.Steps)
}

func TestExecutor_NodeFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		transform domain.Transform
		opts      []dsl.NodeOption
		check     func(t *testing.T, cause error)
	}{
		{
			name:      "transform error",
			transform: fail(boom),
			check: func(t *testing.T, cause error) {
				assert.ErrorIs(t, cause, boom)
			},
		},
		{
			name:      "write to query",
			transform: set(domain.FieldQuery, "overwrite"),
			check: func(t *testing.T, cause error) {
				var ro *domain.ReadOnlyFieldError
				assert.ErrorAs(t, cause, &ro)
			},
		},
		{
			name:      "unknown field",
			transform: set(domain.Field("mood"), "x"),
			check: func(t *testing.T, cause error) {
				var unknown *domain.UnknownFieldError
				assert.ErrorAs(t, cause, &unknown)
			},
		},
		{
			name:      "undeclared field",
			transform: set(domain.FieldResponse, "x"),
			opts:      []dsl.NodeOption{dsl.Writes(domain.FieldCategory)},
			check: func(t *testing.T, cause error) {
				var undeclared *domain.UndeclaredFieldError
				require.ErrorAs(t, cause, &undeclared)
				assert.Equal(t, domain.FieldResponse, undeclared.Field)
			},
		},
		{
			name: "panic",
			transform: func(context.Context, domain.State) (domain.Update, error) {
				panic("kaboom")
			},
			check: func(t *testing.T, cause error) {
				var p *runtime.PanicError
				require.ErrorAs(t, cause, &p)
				assert.Equal(t, "kaboom", p.Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := dsl.New().
				AddNode("n", tt.transform, tt.opts...).
				AddEdge("n", domain.End).
				SetEntry("n").
				Compile()
			require.NoError(t, err)

			res, err := runtime.NewExecutor().Run(context.Background(), g, domain.NewState("q"))
			assert.Nil(t, res)

			var nodeErr *domain.NodeExecutionError
			require.ErrorAs(t, err, &nodeErr)
			assert.Equal(t, "n", nodeErr.NodeID)
			tt.check(t, nodeErr.Cause)
		})
	}
}

func TestExecutor_NodeTimeout(t *testing.T) {
	slow := func(ctx context.Context, _ domain.State) (domain.Update, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return domain.Update{domain.FieldResponse: "late"}, nil
		}
	}

	t.Run("executor default", func(t *testing.T) {
		g, err := dsl.New().AddNode("slow", slow).AddEdge("slow", domain.End).SetEntry("slow").Compile()
		require.NoError(t, err)

		exec := runtime.NewExecutor(runtime.WithNodeTimeout(10 * time.Millisecond))
		_, err = exec.Run(context.Background(), g, domain.NewState("q"))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("node override", func(t *testing.T) {
		g, err := dsl.New().
			AddNode("slow", slow, dsl.WithNodeTimeout(10*time.Millisecond)).
			AddEdge("slow", domain.End).
			SetEntry("slow").
			Compile()
		require.NoError(t, err)

		_, err = runtime.NewExecutor().Run(context.Background(), g, domain.NewState("q"))
		var nodeErr *domain.NodeExecutionError
		require.ErrorAs(t, err, &nodeErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestExecutor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g, err := dsl.New().
		AddNode("first", func(context.Context, domain.State) (domain.Update, error) {
			cancel()
			return domain.Update{domain.FieldCategory: "x"}, nil
		}).
		AddNode("second", set(domain.FieldResponse, "never")).
		AddEdge("first", "second").
		AddEdge("second", domain.End).
		SetEntry("first").
		Compile()
	require.NoError(t, err)

	res, err := runtime.NewExecutor().Run(ctx, g, domain.NewState("q"))
	assert.Nil(t, res)

	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.ReasonCanceled, execErr.Reason)
	assert.Equal(t, 1, execErr.Steps)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_LifecycleHooks(t *testing.T) {
	var (
		entered  []string
		left     []string
		changes  []domain.Update
		complete *domain.RunEvent
	)
	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			entered = append(entered, e.NodeID)
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			left = append(left, e.NodeID+"->"+e.Next)
			changes = append(changes, e.Changes)
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			complete = e
		},
	}

	exec := runtime.NewExecutor(runtime.WithLifecycleHooks(hooks))
	_, err := exec.Run(context.Background(), branchGraph(t, "a"), domain.NewState("q"))
	require.NoError(t, err)

	assert.Equal(t, []string{"classify", "a"}, entered)
	assert.Equal(t, []string{"classify->a", "a->" + domain.End}, left)
	assert.Equal(t, []domain.Update{
		{domain.FieldCategory: "a"},
		{domain.FieldResponse: "from a"},
	}, changes)

	require.NotNil(t, complete)
	assert.NoError(t, complete.Err)
	assert.Equal(t, []string{"classify", "a"}, complete.Path)
}

func TestExecutor_LifecycleHooksOnFailure(t *testing.T) {
	var leaveErr, runErr error
	hooks := domain.LifecycleHooks{
		OnNodeLeave:   func(_ context.Context, e *domain.NodeEvent) { leaveErr = e.Err },
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) { runErr = e.Err },
	}

	exec := runtime.NewExecutor(runtime.WithLifecycleHooks(hooks))
	_, err := exec.Run(context.Background(), branchGraph(t, "nope"), domain.NewState("q"))
	require.Error(t, err)

	var routing *domain.RoutingError
	assert.ErrorAs(t, leaveErr, &routing)
	assert.Equal(t, err, runErr)
}

func TestExecutor_SharedGraphConcurrentRuns(t *testing.T) {
	g, err := dsl.New().
		AddNode("echo", func(_ context.Context, s domain.State) (domain.Update, error) {
			return domain.Update{domain.FieldResponse: "re: " + s.Query}, nil
		}).
		AddEdge("echo", domain.End).
		SetEntry("echo").
		Compile()
	require.NoError(t, err)

	exec := runtime.NewExecutor()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := fmt.Sprintf("q%d", i)
			res, err := exec.Run(context.Background(), g, domain.NewState(q))
			if assert.NoError(t, err) {
				assert.Equal(t, "re: "+q, res.State.Response)
			}
		}()
	}
	wg.Wait()
}

func TestExecutor_NilGraph(t *testing.T) {
	_, err := runtime.NewExecutor().Run(context.Background(), nil, domain.NewState("q"))
	assert.ErrorIs(t, err, runtime.ErrNilGraph)
}
