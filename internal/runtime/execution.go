package runtime

import (
	"slices"
	"time"

	"github.com/aretw0/triage/pkg/domain"
)

// execution is the per-run working set. It is never shared between runs.
type execution struct {
	runID   string
	started time.Time
	current string
	state   domain.State
	steps   int
	path    []string
}

func newExecution(runID, entry string, initial domain.State) *execution {
	return &execution{
		runID:   runID,
		started: time.Now(),
		current: entry,
		state:   initial,
	}
}

func (x *execution) visit(id string) {
	x.steps++
	x.path = append(x.path, id)
}

func (x *execution) result() *domain.Result {
	return &domain.Result{
		RunID: x.runID,
		State: x.state,
		Path:  slices.Clone(x.path),
		Steps: x.steps,
	}
}
