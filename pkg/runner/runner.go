package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
)

// Runner handles the query loop using the provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger
	// Greeting is shown once before the first read. Empty shows nothing.
	Greeting string
	// Sanitizer cleans every query before it is answered.
	Sanitizer *Sanitizer
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithGreeting sets the message shown when the loop starts.
func WithGreeting(msg string) Option {
	return func(r *Runner) {
		r.Greeting = msg
	}
}

// WithSanitizer replaces the default query sanitizer.
func WithSanitizer(s *Sanitizer) Option {
	return func(r *Runner) {
		r.Sanitizer = s
	}
}

// New creates a Runner reading text from Stdin.
func New(opts ...Option) *Runner {
	r := &Runner{
		Logger:    slog.New(slog.DiscardHandler),
		Sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

var exitCommands = map[string]bool{"exit": true, "quit": true, "q": true}

// Run reads and answers queries until the input ends, the user types an exit
// command or ctx is canceled. Failed runs are reported and the loop continues.
func (r *Runner) Run(ctx context.Context, t ports.Triager) error {
	if r.Greeting != "" {
		if err := r.Handler.SystemOutput(ctx, r.Greeting); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if exitCommands[strings.ToLower(line)] {
			return nil
		}
		if line == "" {
			continue
		}

		if err := r.Once(ctx, t, line); err != nil {
			return err
		}
	}
}

// Once sanitizes and answers a single query.
// It returns an error only when the handler cannot write; run failures are presented.
func (r *Runner) Once(ctx context.Context, t ports.Triager, query string) error {
	res, err := r.triage(ctx, t, query)
	if err != nil {
		r.Logger.WarnContext(ctx, "query failed", "error", err)
		if werr := r.Handler.Failure(ctx, err); werr != nil {
			return fmt.Errorf("output error: %w", werr)
		}
		return nil
	}
	if err := r.Handler.Output(ctx, res); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) triage(ctx context.Context, t ports.Triager, query string) (*domain.Result, error) {
	clean, err := r.Sanitizer.Sanitize(query)
	if err != nil {
		return nil, err
	}
	return t.Triage(ctx, clean)
}
