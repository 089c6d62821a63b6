package runtime

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/triage/pkg/domain"
)

// PanicError reports a node transform that panicked.
type PanicError struct {
	NodeID string
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("node %q panicked: %v", e.NodeID, e.Value)
}

func (e *Executor) base(exec *execution, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: exec.runID}
}

func (e *Executor) emitNodeEnter(ctx context.Context, exec *execution, nodeID string) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: e.base(exec, domain.EventNodeEnter),
		NodeID:    nodeID,
		Step:      exec.steps,
	})
}

func (e *Executor) emitNodeLeave(ctx context.Context, exec *execution, ev *domain.NodeEvent) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	ev.EventBase = e.base(exec, domain.EventNodeLeave)
	e.hooks.OnNodeLeave(ctx, ev)
}

func (e *Executor) emitRunComplete(ctx context.Context, exec *execution, err error) {
	if e.hooks.OnRunComplete == nil {
		return
	}
	e.hooks.OnRunComplete(ctx, &domain.RunEvent{
		EventBase: e.base(exec, domain.EventRunComplete),
		Path:      slices.Clone(exec.path),
		Duration:  time.Since(exec.started),
		Err:       err,
	})
}
