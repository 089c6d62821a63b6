package observability

import (
	"regexp"
)

// Mask replaces every redacted span.
const Mask = "***"

// DefaultRedactPatterns match e-mail addresses and card-like digit runs.
var DefaultRedactPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\b(?:\d[ \-]?){12,18}\d\b`,
}

// Redactor masks sensitive substrings before they reach the logs.
// The zero value leaves text unchanged.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles the given patterns.
func NewRedactor(patterns ...string) (*Redactor, error) {
	r := &Redactor{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// DefaultRedactor masks DefaultRedactPatterns.
func DefaultRedactor() *Redactor {
	r, err := NewRedactor(DefaultRedactPatterns...)
	if err != nil {
		panic(err)
	}
	return r
}

// Redact returns s with every match replaced by Mask.
func (r *Redactor) Redact(s string) string {
	if r == nil {
		return s
	}
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
