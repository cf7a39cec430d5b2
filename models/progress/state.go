package progress

// StateKey namespaces every persisted progress document.
const StateKey = "matematica_avance_v1"

// State holds which courses are taken ("cursadas") and passed ("aprobadas").
// Entries set to false are kept so exported documents match what was toggled.
type State struct {
	Taken  map[int]bool `json:"cursadas"`
	Passed map[int]bool `json:"aprobadas"`
}

// NewState returns an empty state.
func NewState() State {
	return State{Taken: map[int]bool{}, Passed: map[int]bool{}}
}

// Normalize replaces nil maps with empty ones.
func (s State) Normalize() State {
	if s.Taken == nil {
		s.Taken = map[int]bool{}
	}
	if s.Passed == nil {
		s.Passed = map[int]bool{}
	}
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := NewState()
	for id, v := range s.Taken {
		out.Taken[id] = v
	}
	for id, v := range s.Passed {
		out.Passed[id] = v
	}
	return out
}

// Equal reports whether both states hold the same entries.
func (s State) Equal(o State) bool {
	return equalFlags(s.Taken, o.Taken) && equalFlags(s.Passed, o.Passed)
}

func equalFlags(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id, v := range a {
		w, ok := b[id]
		if !ok || w != v {
			return false
		}
	}
	return true
}
