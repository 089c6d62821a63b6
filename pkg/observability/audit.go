package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/triage/pkg/domain"
)

// AuditOption configures AuditHooks.
type AuditOption func(*auditor)

type auditor struct {
	logger   *slog.Logger
	redactor *Redactor
}

// WithRedactor masks logged classifier text and error messages.
func WithRedactor(r *Redactor) AuditOption {
	return func(a *auditor) {
		a.redactor = r
	}
}

// AuditHooks logs every transition at Info level.
// The executor already logs at Debug; these hooks are meant for long-running servers
// where each triage decision should leave a trace.
func AuditHooks(logger *slog.Logger, opts ...AuditOption) domain.LifecycleHooks {
	a := &auditor{logger: logger}
	for _, opt := range opts {
		opt(a)
	}

	return domain.LifecycleHooks{
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			attrs := []any{"run_id", e.RunID, "node_id", e.NodeID, "step", e.Step, "duration", e.Duration}
			if e.Err != nil {
				a.logger.WarnContext(ctx, "node failed", append(attrs, "error", a.redactor.Redact(e.Err.Error()))...)
				return
			}
			for field, value := range e.Changes {
				if field == domain.FieldCategory || field == domain.FieldSentiment {
					attrs = append(attrs, string(field), a.redactor.Redact(value))
				}
			}
			a.logger.InfoContext(ctx, "node done", append(attrs, "next", e.Next)...)
		},
		OnRunComplete: func(ctx context.Context, e *domain.RunEvent) {
			a.logger.InfoContext(ctx, "run complete",
				"run_id", e.RunID,
				"path", e.Path,
				"duration", e.Duration,
				"outcome", Outcome(e.Err),
			)
		},
	}
}
