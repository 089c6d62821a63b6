package memory

import (
	"context"
	"maps"
)

// Loader implements ports.PromptLoader using an in-memory map.
type Loader struct {
	prompts map[string]string
}

// NewLoader creates a new Loader with the provided templates keyed by node id.
func NewLoader(prompts map[string]string) *Loader {
	return &Loader{prompts: maps.Clone(prompts)}
}

// LoadPrompts returns a copy of the templates.
func (l *Loader) LoadPrompts(context.Context) (map[string]string, error) {
	return maps.Clone(l.prompts), nil
}
