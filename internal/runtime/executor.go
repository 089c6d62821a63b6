package runtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/google/uuid"
)

// ErrNilGraph is returned when Run is called without a compiled graph.
var ErrNilGraph = errors.New("runtime: nil graph")

// Executor is the state machine runner.
// It holds no per-run data and may be shared by concurrent runs.
type Executor struct {
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	nodeTimeout time.Duration
	newRunID    func() string
}

// Option configures the Executor.
type Option func(*Executor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
// Repeated calls chain the hooks in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = e.hooks.Chain(hooks)
	}
}

// WithNodeTimeout bounds every node that declares no timeout of its own.
// Zero disables the bound.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.nodeTimeout = d
	}
}

// WithRunIDGenerator replaces the uuid based run id source.
func WithRunIDGenerator(gen func() string) Option {
	return func(e *Executor) {
		if gen != nil {
			e.newRunID = gen
		}
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		logger:   slog.New(slog.DiscardHandler),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run threads initial through g until the terminal sentinel is reached.
//
// On failure only the error is returned, never a partially filled state.
// The error is one of *domain.NodeExecutionError, *domain.RoutingError or
// *domain.ExecutionError. Panics in transforms and routers surface as
// *domain.NodeExecutionError wrapping a *PanicError.
func (e *Executor) Run(ctx context.Context, g *domain.Graph, initial domain.State) (*domain.Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	exec := newExecution(e.newRunID(), g.Entry(), initial)
	logger := e.logger.With("run_id", exec.runID)
	bound := g.Len() + 1

	for exec.current != domain.End {
		if err := ctx.Err(); err != nil {
			return nil, e.fail(ctx, logger, exec, &domain.ExecutionError{Reason: domain.ReasonCanceled, Steps: exec.steps, Err: err})
		}
		if exec.steps >= bound {
			return nil, e.fail(ctx, logger, exec, &domain.ExecutionError{Reason: domain.ReasonStepBound, Steps: exec.steps})
		}

		node, ok := g.Node(exec.current)
		if !ok {
			err := &domain.ExecutionError{Reason: "unknown node " + exec.current, Steps: exec.steps}
			return nil, e.fail(ctx, logger, exec, err)
		}

		next, err := e.step(ctx, logger, g, exec, node)
		if err != nil {
			return nil, e.fail(ctx, logger, exec, err)
		}
		exec.current = next
	}

	result := exec.result()
	logger.DebugContext(ctx, "run complete", "steps", result.Steps, "path", result.Path)
	e.emitRunComplete(ctx, exec, nil)
	return result, nil
}

// step executes one node and returns the id of its successor.
func (e *Executor) step(ctx context.Context, logger *slog.Logger, g *domain.Graph, exec *execution, node domain.Node) (string, error) {
	exec.visit(node.ID)
	started := time.Now()

	logger.DebugContext(ctx, "node enter", "node_id", node.ID, "step", exec.steps)
	e.emitNodeEnter(ctx, exec, node.ID)

	leave := &domain.NodeEvent{NodeID: node.ID, Step: exec.steps}
	defer func() {
		leave.Duration = time.Since(started)
		logger.DebugContext(ctx, "node leave", "node_id", node.ID, "next", leave.Next, "duration", leave.Duration)
		e.emitNodeLeave(ctx, exec, leave)
	}()

	update, err := e.invoke(ctx, node, exec.state)
	if err != nil {
		leave.Err = &domain.NodeExecutionError{NodeID: node.ID, Cause: err}
		return "", leave.Err
	}

	for f := range update {
		if f.Valid() && f != domain.FieldQuery && !node.MayWrite(f) {
			leave.Err = &domain.NodeExecutionError{NodeID: node.ID, Cause: &domain.UndeclaredFieldError{NodeID: node.ID, Field: f}}
			return "", leave.Err
		}
	}

	merged, err := exec.state.Merge(update)
	if err != nil {
		leave.Err = &domain.NodeExecutionError{NodeID: node.ID, Cause: err}
		return "", leave.Err
	}
	leave.Changes = domain.Diff(exec.state, merged)
	exec.state = merged

	next, err := resolveNext(g, node.ID, exec.state)
	if err != nil {
		leave.Err = err
		return "", err
	}
	leave.Next = next
	return next, nil
}

// invoke calls the node transform under its timeout, turning panics into errors.
func (e *Executor) invoke(ctx context.Context, node domain.Node, state domain.State) (update domain.Update, err error) {
	timeout := node.Timeout
	if timeout == 0 {
		timeout = e.nodeTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{NodeID: node.ID, Value: r}
		}
	}()

	return node.Transform(ctx, state)
}

// resolveNext follows the unconditional edge of id, or asks its router.
func resolveNext(g *domain.Graph, id string, state domain.State) (string, error) {
	if to, ok := g.Edge(id); ok {
		return to, nil
	}
	branch, ok := g.Branch(id)
	if !ok {
		return "", &domain.ExecutionError{Reason: "node " + id + " has no outgoing edge"}
	}
	label, err := route(id, branch.Router, state)
	if err != nil {
		return "", &domain.NodeExecutionError{NodeID: id, Cause: err}
	}
	to, ok := branch.Resolve(label)
	if !ok {
		return "", &domain.RoutingError{NodeID: id, Label: label}
	}
	return to, nil
}

// route calls a router, turning panics into errors like invoke does for transforms.
func route(id string, router domain.Router, state domain.State) (label string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{NodeID: id, Value: r}
		}
	}()
	return router(state), nil
}

func (e *Executor) fail(ctx context.Context, logger *slog.Logger, exec *execution, err error) error {
	logger.WarnContext(ctx, "run failed", "node_id", exec.current, "steps", exec.steps, "error", err)
	e.emitRunComplete(ctx, exec, err)
	return err
}
