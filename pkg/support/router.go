package support

import "github.com/aretw0/triage/pkg/domain"

// Route picks the response node for a classified state.
// A negative sentiment overrides the category.
func Route(state domain.State) string {
	if ParseSentiment(state.Sentiment) == domain.SentimentNegative {
		return NodeEscalate
	}
	category, _ := ParseCategory(state.Category)
	switch category {
	case domain.CategoryTechnical:
		return NodeHandleTechnical
	case domain.CategoryBilling:
		return NodeHandleBilling
	}
	return NodeHandleGeneral
}
