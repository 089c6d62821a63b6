package dsl

import (
	"fmt"
	"maps"

	"github.com/aretw0/triage/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes    map[string]domain.Node
	order    []string
	edges    map[string][]string
	branches map[string][]domain.ConditionalEdge
	entry    string
	errs     []error
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes:    make(map[string]domain.Node),
		edges:    make(map[string][]string),
		branches: make(map[string][]domain.ConditionalEdge),
	}
}

// AddNode registers a node under a unique id.
func (b *Builder) AddNode(id string, transform domain.Transform, opts ...NodeOption) *Builder {
	switch {
	case id == "":
		b.errs = append(b.errs, &domain.InvalidNodeError{Reason: "id must not be empty"})
		return b
	case id == domain.End:
		b.errs = append(b.errs, &domain.InvalidNodeError{NodeID: id, Reason: "id is reserved for the terminal sentinel"})
		return b
	case transform == nil:
		b.errs = append(b.errs, &domain.InvalidNodeError{NodeID: id, Reason: "transform must not be nil"})
		return b
	}
	if _, exists := b.nodes[id]; exists {
		b.errs = append(b.errs, &domain.DuplicateNodeError{NodeID: id})
		return b
	}

	node := domain.Node{ID: id, Transform: transform}
	for _, opt := range opts {
		opt(&node)
	}
	for _, f := range node.Writes {
		if !f.Valid() || f == domain.FieldQuery {
			b.errs = append(b.errs, &domain.InvalidNodeError{NodeID: id, Reason: fmt.Sprintf("cannot declare write to %q", f)})
		}
	}

	b.nodes[id] = node
	b.order = append(b.order, id)
	return b
}

// AddEdge adds an unconditional transition. to may be domain.End.
func (b *Builder) AddEdge(from, to string) *Builder {
	ok := b.requireNode(from, "edge source")
	ok = b.requireTarget(to, fmt.Sprintf("edge from %s", from)) && ok
	if ok {
		b.edges[from] = append(b.edges[from], to)
	}
	return b
}

// AddConditionalEdge adds a runtime branch: router's label is looked up in routes.
// Targets may be domain.End.
func (b *Builder) AddConditionalEdge(from string, router domain.Router, routes map[string]string, opts ...BranchOption) *Builder {
	ok := b.requireNode(from, "conditional edge source")
	if router == nil {
		b.errs = append(b.errs, &domain.InvalidNodeError{NodeID: from, Reason: "router must not be nil"})
		ok = false
	}
	if len(routes) == 0 {
		b.errs = append(b.errs, &domain.EmptyMappingError{NodeID: from})
		ok = false
	}

	branch := domain.ConditionalEdge{From: from, Router: router, Routes: maps.Clone(routes)}
	if to, ok := branch.Routes[Default]; ok {
		branch.DefaultRoute = to
		delete(branch.Routes, Default)
	}
	for _, opt := range opts {
		opt(&branch)
	}

	for _, label := range sortedKeys(branch.Routes) {
		ok = b.requireTarget(branch.Routes[label], fmt.Sprintf("route %q from %s", label, from)) && ok
	}
	if branch.DefaultRoute != "" {
		ok = b.requireTarget(branch.DefaultRoute, fmt.Sprintf("default route from %s", from)) && ok
	}

	if ok {
		b.branches[from] = append(b.branches[from], branch)
	}
	return b
}

// SetEntry selects the first node of every run.
func (b *Builder) SetEntry(id string) *Builder {
	if b.requireNode(id, "entry point") {
		b.entry = id
	}
	return b
}

func (b *Builder) requireNode(id, ref string) bool {
	if _, ok := b.nodes[id]; !ok {
		b.errs = append(b.errs, &domain.UnknownNodeError{NodeID: id, Ref: ref})
		return false
	}
	return true
}

func (b *Builder) requireTarget(id, ref string) bool {
	if id == domain.End {
		return true
	}
	return b.requireNode(id, ref)
}
