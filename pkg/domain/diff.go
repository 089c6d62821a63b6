package domain

// Diff returns the fields whose values differ between oldState and newState,
// carrying the new values. An empty Update means nothing changed.
func Diff(oldState, newState State) Update {
	changes := make(Update)
	for _, f := range Fields {
		before, _ := oldState.Get(f)
		after, _ := newState.Get(f)
		if before != after {
			changes[f] = after
		}
	}
	return changes
}
