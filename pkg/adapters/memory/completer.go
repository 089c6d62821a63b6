package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/triage/pkg/ports"
)

// Static implements ports.Completer with a fixed answer.
type Static struct {
	Text string
	Err  error
}

// Complete returns the configured text or error.
func (s Static) Complete(context.Context, string) (string, error) {
	return s.Text, s.Err
}

// Rule answers every prompt containing Match.
type Rule struct {
	Match string
	Reply string
	Err   error
}

// Script implements ports.Completer by scanning rules in order.
// A prompt no rule matches is answered with Fallback, or fails when Fallback is empty.
type Script struct {
	Rules    []Rule
	Fallback string
}

// Complete returns the reply of the first matching rule.
func (s Script) Complete(_ context.Context, prompt string) (string, error) {
	for _, r := range s.Rules {
		if strings.Contains(prompt, r.Match) {
			return r.Reply, r.Err
		}
	}
	if s.Fallback != "" {
		return s.Fallback, nil
	}
	return "", fmt.Errorf("memory: no scripted reply for prompt %q", prompt)
}

// Recorder wraps a Completer and keeps every prompt it forwards.
// Safe for concurrent use.
type Recorder struct {
	next ports.Completer

	mu      sync.Mutex
	prompts []string
}

// NewRecorder creates a Recorder in front of next.
func NewRecorder(next ports.Completer) *Recorder {
	return &Recorder{next: next}
}

// Complete records prompt and delegates to the wrapped Completer.
func (r *Recorder) Complete(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	r.mu.Unlock()
	return r.next.Complete(ctx, prompt)
}

// Prompts returns the recorded prompts in call order.
func (r *Recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

// Calls returns the number of forwarded prompts.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prompts)
}
