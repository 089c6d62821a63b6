// Package openai implements ports.Completer on top of any OpenAI compatible chat
// completion API. The defaults target Groq.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

var (
	// ErrMissingCredential is returned by the first Complete call made without an API key.
	ErrMissingCredential = errors.New("openai: missing API key")
	// ErrNoChoices is returned when the API answers without any completion.
	ErrNoChoices = errors.New("openai: no completion choices returned")
)

// Config selects the endpoint and sampling parameters.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// Completer sends each prompt as a single user message.
type Completer struct {
	client      *oai.Client
	apiKey      string
	model       string
	temperature float64
}

// New creates a Completer. A missing key is not an error here; it is reported
// when the first prompt is sent.
func New(cfg Config, opts ...option.RequestOption) *Completer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}

	return &Completer{
		client:      oai.NewClient(append(reqOpts, opts...)...),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Model returns the configured model name.
func (c *Completer) Model() string {
	return c.model
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Messages: oai.F([]oai.ChatCompletionMessageParamUnion{
			oai.UserMessage(prompt),
		}),
		Model:       oai.F(oai.ChatModel(c.model)),
		Temperature: oai.F(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", c.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
