package runner

import (
	"fmt"

	"github.com/aretw0/triage/pkg/domain"
)

// Response is the wire shape of a finished run shared by the JSON front ends.
type Response struct {
	RunID     string   `json:"run_id,omitempty"`
	Query     string   `json:"query"`
	Category  string   `json:"category"`
	Sentiment string   `json:"sentiment"`
	Response  string   `json:"response"`
	Path      []string `json:"path"`
}

// NewResponse flattens a result.
func NewResponse(res *domain.Result) Response {
	return Response{
		RunID:     res.RunID,
		Query:     res.State.Query,
		Category:  res.State.Category,
		Sentiment: res.State.Sentiment,
		Response:  res.State.Response,
		Path:      res.Path,
	}
}

// FormatMarkdown renders the classified state as the answer card shown to users.
func FormatMarkdown(s domain.State) string {
	return fmt.Sprintf("**Category:** %s\n\n**Sentiment:** %s\n\n**Response:** %s", s.Category, s.Sentiment, s.Response)
}
