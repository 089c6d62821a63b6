package domain

import (
	"context"
	"slices"
	"time"
)

// Transform derives a partial update from the current state.
// The state is passed by value; a transform signals its result only through the
// returned Update.
type Transform func(ctx context.Context, state State) (Update, error)

// Node represents a named processing step in the graph.
type Node struct {
	ID        string
	Transform Transform

	// Writes declares the fields this node may set. Empty means any known field.
	Writes []Field

	// Timeout bounds a single invocation of Transform. Zero falls back to the
	// executor default.
	Timeout time.Duration
}

// MayWrite reports whether the node declared f as one of its outputs.
func (n Node) MayWrite(f Field) bool {
	return len(n.Writes) == 0 || slices.Contains(n.Writes, f)
}
