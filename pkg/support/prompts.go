package support

import (
	"fmt"
	"maps"
	"slices"
	"text/template"
)

// Prompts maps the id of a node that calls the collaborator to its prompt template.
// Templates use text/template syntax with a single variable, {{.Query}}.
type Prompts map[string]string

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		NodeCategorize:       "Categorize the following customer query into one of these categories: Technical, Billing, General. Query: {{.Query}}",
		NodeAnalyzeSentiment: "Analyze the sentiment of the following customer query. Respond with either 'Positive', 'Neutral', or 'Negative'. Query: {{.Query}}",
		NodeHandleTechnical:  "Provide a technical support response to the following query: {{.Query}}",
		NodeHandleBilling:    "Provide a billing support response to the following query: {{.Query}}",
		NodeHandleGeneral:    "Provide a general support response to the following query: {{.Query}}",
	}
}

// Merge returns a copy of p with overrides applied. Blank overrides are ignored.
func (p Prompts) Merge(overrides map[string]string) Prompts {
	out := maps.Clone(p)
	for id, text := range overrides {
		if text != "" {
			out[id] = text
		}
	}
	return out
}

// UnknownPromptError reports a template for a node that takes no prompt.
type UnknownPromptError struct {
	NodeID string
}

func (e *UnknownPromptError) Error() string {
	return fmt.Sprintf("no prompted node named %q", e.NodeID)
}

// parse compiles every template, failing on the first broken or missing one.
func (p Prompts) parse() (map[string]*template.Template, error) {
	defaults := DefaultPrompts()
	for _, id := range slices.Sorted(maps.Keys(p)) {
		if _, ok := defaults[id]; !ok {
			return nil, &UnknownPromptError{NodeID: id}
		}
	}

	out := make(map[string]*template.Template, len(defaults))
	for _, id := range slices.Sorted(maps.Keys(defaults)) {
		text, ok := p[id]
		if !ok {
			text = defaults[id]
		}
		tmpl, err := template.New(id).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", id, err)
		}
		out[id] = tmpl
	}
	return out, nil
}
