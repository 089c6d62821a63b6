package triage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/triage/internal/runtime"
	loamAdapter "github.com/aretw0/triage/pkg/adapters/loam"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/aretw0/triage/pkg/support"
)

// ErrEmptyQuery is returned by Triage for a query that is blank after sanitation.
var ErrEmptyQuery = runner.ErrEmptyQuery

// Engine is the high-level entry point for the triage library.
// It wraps the internal runtime and the compiled support graph.
type Engine struct {
	executor    *runtime.Executor
	graph       *domain.Graph
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	nodeTimeout time.Duration
	prompts     map[string]string
	loader      ports.PromptLoader
	promptDir   string
	sanitizer   *runner.Sanitizer
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls chain.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Chain(hooks)
	}
}

// WithNodeTimeout bounds every collaborator call. Zero disables the bound.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.nodeTimeout = d
	}
}

// WithPrompts overrides prompt templates by node id.
// It is applied after any WithPromptLoader or WithPromptDir source.
func WithPrompts(prompts map[string]string) Option {
	return func(e *Engine) {
		e.prompts = prompts
	}
}

// WithPromptLoader injects a custom prompt source.
func WithPromptLoader(l ports.PromptLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithPromptDir loads prompt overrides from a directory of Markdown documents (Loam).
func WithPromptDir(dir string) Option {
	return func(e *Engine) {
		e.promptDir = dir
	}
}

// WithMaxInputSize caps the query length accepted by Triage, in bytes.
// Non-positive values keep runner.DefaultMaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.sanitizer = runner.NewSanitizer(runner.WithMaxInputSize(n))
	}
}

// New compiles the triage workflow around the given collaborator.
// Configuration problems (bad prompts, invalid graph) are reported here, never mid-run.
func New(c ports.Completer, opts ...Option) (*Engine, error) {
	return NewContext(context.Background(), c, opts...)
}

// NewContext is New with a context for loading prompts.
func NewContext(ctx context.Context, c ports.Completer, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.DiscardHandler)
	}
	if eng.sanitizer == nil {
		eng.sanitizer = runner.NewSanitizer()
	}

	if eng.loader == nil && eng.promptDir != "" {
		l, err := loamAdapter.Open(eng.promptDir)
		if err != nil {
			return nil, fmt.Errorf("prompt dir: %w", err)
		}
		eng.loader = l
	}

	var graphOpts []support.Option
	if eng.loader != nil {
		loaded, err := eng.loader.LoadPrompts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load prompts: %w", err)
		}
		graphOpts = append(graphOpts, support.WithPrompts(loaded))
	}
	if len(eng.prompts) > 0 {
		graphOpts = append(graphOpts, support.WithPrompts(eng.prompts))
	}
	if eng.nodeTimeout > 0 {
		graphOpts = append(graphOpts, support.WithNodeTimeout(eng.nodeTimeout))
	}

	graph, err := support.NewGraph(c, graphOpts...)
	if err != nil {
		return nil, err
	}
	for _, w := range graph.Warnings() {
		eng.logger.Warn("graph warning", "warning", w)
	}
	eng.graph = graph

	eng.executor = runtime.NewExecutor(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

// Graph returns the compiled workflow.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// Execute runs the workflow from an arbitrary initial state and returns the final state.
func (e *Engine) Execute(ctx context.Context, initial domain.State) (domain.State, error) {
	res, err := e.executor.Run(ctx, e.graph, initial)
	if err != nil {
		return domain.State{}, err
	}
	return res.State, nil
}

// Triage sanitizes a single query, runs it and returns the final state together
// with the visited path. Blank, oversized or malformed queries never reach the collaborator.
func (e *Engine) Triage(ctx context.Context, query string) (*domain.Result, error) {
	clean, err := e.sanitizer.Sanitize(query)
	if err != nil {
		return nil, err
	}
	return e.executor.Run(ctx, e.graph, domain.NewState(clean))
}

var _ ports.Triager = (*Engine)(nil)
