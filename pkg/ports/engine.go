package ports

import (
	"context"

	"github.com/aretw0/triage/pkg/domain"
)

// Triager is the primary interface used by adapters (e.g., HTTP, MCP) to run queries.
type Triager interface {
	// Triage runs query through the workflow and returns the final state and visited path.
	Triage(ctx context.Context, query string) (*domain.Result, error)

	// Graph returns the compiled workflow for introspection.
	Graph() *domain.Graph
}
