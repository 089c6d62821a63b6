package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds a query in bytes when no limit is configured.
const DefaultMaxInputSize = 4096

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrInputTooLarge = errors.New("query exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("query contains invalid UTF-8 sequences")
)

// Sanitizer normalizes untrusted queries before they reach the workflow.
// It is immutable and safe for concurrent use.
type Sanitizer struct {
	maxSize int
}

// SanitizerOption configures a Sanitizer.
type SanitizerOption func(*Sanitizer)

// WithMaxInputSize caps the raw query length in bytes. Non-positive values keep the default.
func WithMaxInputSize(n int) SanitizerOption {
	return func(s *Sanitizer) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewSanitizer creates a Sanitizer.
func NewSanitizer(opts ...SanitizerOption) *Sanitizer {
	s := &Sanitizer{maxSize: DefaultMaxInputSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxSize returns the configured byte limit.
func (s *Sanitizer) MaxSize() int {
	return s.maxSize
}

// Sanitize returns the query with control characters removed and surrounding
// whitespace trimmed. Oversized input is rejected rather than truncated, and a
// query with nothing left after cleaning is ErrEmptyQuery.
// A nil Sanitizer applies the defaults.
func (s *Sanitizer) Sanitize(query string) (string, error) {
	limit := DefaultMaxInputSize
	if s != nil {
		limit = s.maxSize
	}

	if len(query) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(query), limit)
	}
	if !utf8.ValidString(query) {
		return "", ErrInvalidUTF8
	}

	// ESC, NUL, BEL and friends would poison logs and terminals.
	clean := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !isSafeControl(r) {
			return -1
		}
		return r
	}, query))

	if clean == "" {
		return "", ErrEmptyQuery
	}
	return clean, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
