package ports

import "context"

// PromptLoader defines how prompt templates are retrieved.
// This allows the storage layer (Loam, Memory) to be decoupled from the workflow.
type PromptLoader interface {
	// LoadPrompts returns templates keyed by node id. Nodes absent from the map keep
	// their built-in prompt.
	LoadPrompts(ctx context.Context) (map[string]string, error)
}
