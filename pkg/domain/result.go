package domain

// Result is the outcome of a successful run.
type Result struct {
	RunID string   `json:"run_id"`
	State State    `json:"state"`
	Path  []string `json:"path"`
	Steps int      `json:"steps"`
}

// Visited reports whether the run passed through nodeID.
func (r *Result) Visited(nodeID string) bool {
	for _, id := range r.Path {
		if id == nodeID {
			return true
		}
	}
	return false
}
