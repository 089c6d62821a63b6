package domain

import "maps"

// End is the terminal sentinel. It is a valid edge target but never a node.
const End = "__end__"

// Router inspects the accumulated state and returns a label.
// Routers must be pure: the executor may call them exactly once per visit.
type Router func(state State) string

// Edge is an unconditional link between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ConditionalEdge selects the successor of From at runtime.
// The Router's label is looked up in Routes; DefaultRoute, when set, catches
// every label that has no mapping.
type ConditionalEdge struct {
	From         string            `json:"from"`
	Router       Router            `json:"-"`
	Routes       map[string]string `json:"routes"`
	DefaultRoute string            `json:"default,omitempty"`
}

// Resolve maps a router label to the target node.
func (c ConditionalEdge) Resolve(label string) (string, bool) {
	if to, ok := c.Routes[label]; ok {
		return to, true
	}
	if c.DefaultRoute != "" {
		return c.DefaultRoute, true
	}
	return "", false
}

// Targets returns every node the edge can lead to, including the default route.
func (c ConditionalEdge) Targets() []string {
	targets := make([]string, 0, len(c.Routes)+1)
	for _, to := range c.Routes {
		targets = append(targets, to)
	}
	if c.DefaultRoute != "" {
		targets = append(targets, c.DefaultRoute)
	}
	return targets
}

func (c ConditionalEdge) clone() ConditionalEdge {
	c.Routes = maps.Clone(c.Routes)
	return c
}
