package support

import (
	"strings"
	"unicode"

	"github.com/aretw0/triage/pkg/domain"
)

// ParseCategory extracts a category from free classifier text.
// The text is case-folded and split into words; the first word naming a known
// category wins. Text naming none yields CategoryGeneral and false.
func ParseCategory(text string) (domain.Category, bool) {
	for _, w := range words(text) {
		for _, c := range domain.Categories {
			if w == strings.ToLower(string(c)) {
				return c, true
			}
		}
	}
	return domain.CategoryGeneral, false
}

// ParseSentiment extracts a sentiment from free classifier text the same way
// ParseCategory does. Text naming none yields SentimentUnknown.
func ParseSentiment(text string) domain.Sentiment {
	for _, w := range words(text) {
		for _, s := range domain.Sentiments {
			if w == strings.ToLower(string(s)) {
				return s
			}
		}
	}
	return domain.SentimentUnknown
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(strings.TrimSpace(text)), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
