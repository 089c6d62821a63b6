package dsl

import (
	"slices"
	"sort"

	"github.com/aretw0/triage/pkg/domain"
)

// Compile validates the accumulated definition and freezes it into an immutable Graph.
//
// Every violation recorded by earlier builder calls is reported together with those
// found here, wrapped in a single *domain.ConfigurationError. Non-fatal findings are
// attached to the graph and exposed through Graph.Warnings.
func (b *Builder) Compile() (*domain.Graph, error) {
	errs := slices.Clone(b.errs)

	if b.entry == "" {
		errs = append(errs, &domain.MissingEntryError{})
	}

	var (
		edges    []domain.Edge
		branches []domain.ConditionalEdge
		warnings []error
	)
	for _, id := range b.order {
		plain, cond := b.edges[id], b.branches[id]
		switch {
		case len(plain)+len(cond) == 0:
			errs = append(errs, &domain.MissingEdgeError{NodeID: id})
		case len(plain)+len(cond) > 1:
			errs = append(errs, &domain.ConflictingEdgeError{NodeID: id})
		case len(plain) == 1:
			edges = append(edges, domain.Edge{From: id, To: plain[0]})
		default:
			branches = append(branches, cond[0])
			if cond[0].DefaultRoute == "" {
				warnings = append(warnings, &domain.NoDefaultRouteWarning{NodeID: id})
			}
		}
	}

	// Topology checks only make sense on a well-formed edge set.
	if len(errs) == 0 {
		reachable := b.reachableFrom(b.entry)
		canEnd := b.reachesEnd()
		for _, id := range b.order {
			if !reachable[id] {
				warnings = append(warnings, &domain.UnreachableNodeWarning{NodeID: id})
				continue
			}
			if !canEnd[id] {
				errs = append(errs, &domain.NoPathToEndError{NodeID: id})
			}
		}
	}

	if len(errs) > 0 {
		return nil, &domain.ConfigurationError{Errors: errs}
	}

	nodes := make([]domain.Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id])
	}

	return domain.NewGraph(domain.GraphDefinition{
		Entry:    b.entry,
		Nodes:    nodes,
		Edges:    edges,
		Branches: branches,
		Warnings: warnings,
	}), nil
}

// successors lists every target a node can transition to, End included.
func (b *Builder) successors(id string) []string {
	out := slices.Clone(b.edges[id])
	for _, c := range b.branches[id] {
		out = append(out, c.Targets()...)
	}
	return out
}

func (b *Builder) reachableFrom(entry string) map[string]bool {
	seen := map[string]bool{entry: true}
	queue := []string{entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range b.successors(id) {
			if next == domain.End || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// reachesEnd computes, by fixpoint, the set of nodes with at least one path to End.
func (b *Builder) reachesEnd() map[string]bool {
	ok := make(map[string]bool, len(b.order))
	for changed := true; changed; {
		changed = false
		for _, id := range b.order {
			if ok[id] {
				continue
			}
			for _, next := range b.successors(id) {
				if next == domain.End || ok[next] {
					ok[id] = true
					changed = true
					break
				}
			}
		}
	}
	return ok
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
