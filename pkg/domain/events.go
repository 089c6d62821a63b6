package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter   EventType = "node_enter"
	EventNodeLeave   EventType = "node_leave"
	EventRunComplete EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// NodeEvent represents entry into or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Step   int    `json:"step"`

	// Set on leave only.
	Duration time.Duration `json:"duration,omitempty"`
	Changes  Update        `json:"changes,omitempty"`
	Next     string        `json:"next,omitempty"`
	Err      error         `json:"-"`
}

// RunEvent is emitted once per run, on success or failure.
type RunEvent struct {
	EventBase
	Path     []string      `json:"path"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the run's goroutine and must not block.
type LifecycleHooks struct {
	OnNodeEnter   func(context.Context, *NodeEvent)
	OnNodeLeave   func(context.Context, *NodeEvent)
	OnRunComplete func(context.Context, *RunEvent)
}

// Chain returns hooks that call h first and then next.
func (h LifecycleHooks) Chain(next LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:   chainHook(h.OnNodeEnter, next.OnNodeEnter),
		OnNodeLeave:   chainHook(h.OnNodeLeave, next.OnNodeLeave),
		OnRunComplete: chainHook(h.OnRunComplete, next.OnRunComplete),
	}
}

func chainHook[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}
