package runner

import (
	"context"

	"github.com/aretw0/triage/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Input reads the next query. It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// Output presents a finished run.
	Output(ctx context.Context, res *domain.Result) error

	// Failure presents a run that did not finish. The session continues afterwards.
	Failure(ctx context.Context, err error) error

	// SystemOutput presents a meta-message to the user (e.g. banners, status updates).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
