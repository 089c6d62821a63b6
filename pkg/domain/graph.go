package domain

import "slices"

// GraphDefinition is the validated input of NewGraph.
// It is produced by the dsl compiler; callers build graphs through dsl.Builder.
type GraphDefinition struct {
	Entry    string
	Nodes    []Node
	Edges    []Edge
	Branches []ConditionalEdge
	Warnings []error
}

// Graph is the compiled, immutable workflow topology.
// It is safe for concurrent use by any number of runs.
type Graph struct {
	entry    string
	order    []string
	nodes    map[string]Node
	edges    map[string]string
	branches map[string]ConditionalEdge
	warnings []error
}

// NewGraph freezes a definition into a Graph. It performs no validation.
func NewGraph(def GraphDefinition) *Graph {
	g := &Graph{
		entry:    def.Entry,
		order:    make([]string, 0, len(def.Nodes)),
		nodes:    make(map[string]Node, len(def.Nodes)),
		edges:    make(map[string]string, len(def.Edges)),
		branches: make(map[string]ConditionalEdge, len(def.Branches)),
		warnings: slices.Clone(def.Warnings),
	}
	for _, n := range def.Nodes {
		n.Writes = slices.Clone(n.Writes)
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	for _, e := range def.Edges {
		g.edges[e.From] = e.To
	}
	for _, b := range def.Branches {
		g.branches[b.From] = b.clone()
	}
	return g
}

// Entry returns the id of the first node of every run.
func (g *Graph) Entry() string {
	return g.entry
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Node returns the node registered under id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if ok {
		n.Writes = slices.Clone(n.Writes)
	}
	return n, ok
}

// Nodes returns all nodes in registration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		n, _ := g.Node(id)
		out = append(out, n)
	}
	return out
}

// Edge returns the unconditional successor of id, if it has one.
func (g *Graph) Edge(id string) (string, bool) {
	to, ok := g.edges[id]
	return to, ok
}

// Branch returns the conditional edge leaving id, if it has one.
func (g *Graph) Branch(id string) (ConditionalEdge, bool) {
	b, ok := g.branches[id]
	if !ok {
		return ConditionalEdge{}, false
	}
	return b.clone(), true
}

// Edges returns the unconditional edges in node registration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, id := range g.order {
		if to, ok := g.edges[id]; ok {
			out = append(out, Edge{From: id, To: to})
		}
	}
	return out
}

// Branches returns the conditional edges in node registration order.
func (g *Graph) Branches() []ConditionalEdge {
	out := make([]ConditionalEdge, 0, len(g.branches))
	for _, id := range g.order {
		if b, ok := g.branches[id]; ok {
			out = append(out, b.clone())
		}
	}
	return out
}

// Warnings returns the non-fatal findings recorded at compile time.
func (g *Graph) Warnings() []error {
	return slices.Clone(g.warnings)
}
