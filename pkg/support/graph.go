package support

import (
	"errors"
	"time"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/dsl"
	"github.com/aretw0/triage/pkg/ports"
)

// ErrNilCompleter is returned by NewGraph without a collaborator.
var ErrNilCompleter = errors.New("support: nil completer")

type config struct {
	prompts     Prompts
	nodeTimeout time.Duration
}

// Option configures the workflow.
type Option func(*config)

// WithPrompts overrides built-in prompt templates by node id.
func WithPrompts(overrides map[string]string) Option {
	return func(c *config) {
		c.prompts = c.prompts.Merge(overrides)
	}
}

// WithNodeTimeout bounds every collaborator call.
func WithNodeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.nodeTimeout = d
	}
}

// NewGraph compiles the triage workflow around c.
func NewGraph(c ports.Completer, opts ...Option) (*domain.Graph, error) {
	if c == nil {
		return nil, ErrNilCompleter
	}

	cfg := &config{prompts: DefaultPrompts()}
	for _, opt := range opts {
		opt(cfg)
	}

	tmpl, err := cfg.prompts.parse()
	if err != nil {
		return nil, err
	}

	var nodeOpts []dsl.NodeOption
	if cfg.nodeTimeout > 0 {
		nodeOpts = append(nodeOpts, dsl.WithNodeTimeout(cfg.nodeTimeout))
	}

	b := dsl.New()
	for _, n := range []struct {
		id    string
		field domain.Field
	}{
		{NodeCategorize, domain.FieldCategory},
		{NodeAnalyzeSentiment, domain.FieldSentiment},
		{NodeHandleTechnical, domain.FieldResponse},
		{NodeHandleBilling, domain.FieldResponse},
		{NodeHandleGeneral, domain.FieldResponse},
	} {
		b.AddNode(n.id, complete(c, tmpl[n.id], n.field), append(nodeOpts, dsl.Writes(n.field))...)
	}
	b.AddNode(NodeEscalate, escalate, dsl.Writes(domain.FieldResponse))

	b.AddEdge(NodeCategorize, NodeAnalyzeSentiment).
		AddConditionalEdge(NodeAnalyzeSentiment, Route, map[string]string{
			NodeEscalate:        NodeEscalate,
			NodeHandleTechnical: NodeHandleTechnical,
			NodeHandleBilling:   NodeHandleBilling,
			NodeHandleGeneral:   NodeHandleGeneral,
		}, dsl.WithDefault(NodeHandleGeneral))

	for _, id := range []string{NodeHandleTechnical, NodeHandleBilling, NodeHandleGeneral, NodeEscalate} {
		b.AddEdge(id, domain.End)
	}

	return b.SetEntry(NodeCategorize).Compile()
}
