package support

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
)

// Node ids of the triage workflow. They double as the router's labels.
const (
	NodeCategorize       = "categorize"
	NodeAnalyzeSentiment = "analyzeSentiment"
	NodeHandleTechnical  = "handleTechnical"
	NodeHandleBilling    = "handleBilling"
	NodeHandleGeneral    = "handleGeneral"
	NodeEscalate         = "escalate"
)

// EscalationMessage is the fixed response of the escalate node.
const EscalationMessage = "This query has been escalated to a human agent due to its negative sentiment"

// ErrEmptyCompletion is returned when the collaborator answers with blank text.
var ErrEmptyCompletion = errors.New("empty completion")

type promptData struct {
	Query string
}

// complete renders tmpl for state and asks c for a single completion.
func complete(c ports.Completer, tmpl *template.Template, field domain.Field) domain.Transform {
	return func(ctx context.Context, state domain.State) (domain.Update, error) {
		var prompt strings.Builder
		if err := tmpl.Execute(&prompt, promptData{Query: state.Query}); err != nil {
			return nil, fmt.Errorf("render prompt: %w", err)
		}

		text, err := c.Complete(ctx, prompt.String())
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, ErrEmptyCompletion
		}
		return domain.Update{field: text}, nil
	}
}

func escalate(context.Context, domain.State) (domain.Update, error) {
	return domain.Update{domain.FieldResponse: EscalationMessage}, nil
}
