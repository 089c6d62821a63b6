package dsl

import (
	"time"

	"github.com/aretw0/triage/pkg/domain"
)

// NodeOption configures a node at registration time.
type NodeOption func(*domain.Node)

// Writes declares the only fields the node may set.
// The executor rejects any other field the node returns.
func Writes(fields ...domain.Field) NodeOption {
	return func(n *domain.Node) {
		n.Writes = append(n.Writes, fields...)
	}
}

// WithNodeTimeout bounds a single invocation of the node's transform.
func WithNodeTimeout(d time.Duration) NodeOption {
	return func(n *domain.Node) {
		n.Timeout = d
	}
}

// BranchOption configures a conditional edge.
type BranchOption func(*domain.ConditionalEdge)

// Default is the catch-all label. A route mapped under Default receives every
// label that has no mapping of its own.
const Default = "*"

// WithDefault routes every label missing from the mapping to target.
func WithDefault(target string) BranchOption {
	return func(c *domain.ConditionalEdge) {
		c.DefaultRoute = target
	}
}
