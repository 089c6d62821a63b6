package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/triage/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Each input line is either a JSON object {"query": "..."}, a JSON string, or raw text.
// Each result is written as one Response object; failures as {"error": "..."}.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

type jsonRequest struct {
	Query string `json:"query"`
}

type jsonError struct {
	Error string `json:"error"`
}

type jsonSystem struct {
	Message string `json:"message"`
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var req jsonRequest
	if err := json.Unmarshal([]byte(text), &req); err == nil {
		return req.Query, nil
	}

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}

	// Fallback: plain text
	return text, nil
}

func (h *JSONHandler) Output(ctx context.Context, res *domain.Result) error {
	return h.Encoder.Encode(NewResponse(res))
}

func (h *JSONHandler) Failure(ctx context.Context, err error) error {
	return h.Encoder.Encode(jsonError{Error: err.Error()})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(jsonSystem{Message: msg})
}
