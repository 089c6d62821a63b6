package domain

// Field names one slot of the State record.
type Field string

const (
	// FieldQuery is the caller-supplied input. It is set once, before the run starts.
	FieldQuery Field = "query"
	// FieldCategory holds the classified category of the query.
	FieldCategory Field = "category"
	// FieldSentiment holds the classified sentiment of the query.
	FieldSentiment Field = "sentiment"
	// FieldResponse holds the text returned to the customer.
	FieldResponse Field = "response"
)

// Fields lists every known field in declaration order.
var Fields = []Field{FieldQuery, FieldCategory, FieldSentiment, FieldResponse}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	switch f {
	case FieldQuery, FieldCategory, FieldSentiment, FieldResponse:
		return true
	}
	return false
}

// State is the record threaded through a run.
// Nodes never mutate it in place; they return an Update which the executor merges.
type State struct {
	Query     string `json:"query" yaml:"query"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Sentiment string `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	Response  string `json:"response,omitempty" yaml:"response,omitempty"`
}

// NewState creates the initial state of a run for the given query.
func NewState(query string) State {
	return State{Query: query}
}

// Get returns the value stored under f.
func (s State) Get(f Field) (string, bool) {
	switch f {
	case FieldQuery:
		return s.Query, true
	case FieldCategory:
		return s.Category, true
	case FieldSentiment:
		return s.Sentiment, true
	case FieldResponse:
		return s.Response, true
	}
	return "", false
}

func (s *State) set(f Field, value string) {
	switch f {
	case FieldQuery:
		s.Query = value
	case FieldCategory:
		s.Category = value
	case FieldSentiment:
		s.Sentiment = value
	case FieldResponse:
		s.Response = value
	}
}

// Update is the partial state returned by a node.
// It contains only the fields the node sets or changes.
type Update map[Field]string

// Merge returns a copy of s with u applied on top of it (later write wins).
// Unknown fields and writes to the input field are rejected and s is returned unchanged.
func (s State) Merge(u Update) (State, error) {
	for f := range u {
		if !f.Valid() {
			return s, &UnknownFieldError{Field: f}
		}
		if f == FieldQuery {
			return s, &ReadOnlyFieldError{Field: f}
		}
	}

	next := s
	for _, f := range Fields {
		if v, ok := u[f]; ok {
			next.set(f, v)
		}
	}
	return next, nil
}
