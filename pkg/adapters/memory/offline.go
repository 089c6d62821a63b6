package memory

import (
	"context"
	"strings"
)

var (
	technicalWords = []string{"crash", "error", "bug", "login", "install", "password", "app", "broken"}
	billingWords   = []string{"bill", "charge", "invoice", "refund", "payment", "price", "subscription"}
	negativeWords  = []string{"angry", "terrible", "awful", "worst", "hate", "unacceptable", "furious", "disappointed"}
	positiveWords  = []string{"thanks", "thank", "great", "love", "awesome", "happy"}
)

// Offline implements ports.Completer with keyword heuristics.
// It lets the workflow run end to end without network access.
type Offline struct{}

// Complete answers classification prompts by keyword and response prompts with a canned reply.
func (Offline) Complete(_ context.Context, prompt string) (string, error) {
	query := prompt
	if i := strings.LastIndex(prompt, ":"); i >= 0 {
		query = prompt[i+1:]
	}
	query = strings.ToLower(query)

	switch {
	case strings.HasPrefix(prompt, "Categorize"):
		switch {
		case containsAny(query, technicalWords):
			return "Technical", nil
		case containsAny(query, billingWords):
			return "Billing", nil
		}
		return "General", nil
	case strings.HasPrefix(prompt, "Analyze the sentiment"):
		switch {
		case containsAny(query, negativeWords):
			return "Negative", nil
		case containsAny(query, positiveWords):
			return "Positive", nil
		}
		return "Neutral", nil
	}
	return "Thanks for reaching out. An offline assistant received your request: " + strings.TrimSpace(query), nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
