package progress

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects which checkbox a toggle refers to.
type Kind string

const (
	KindTaken Kind = "cursada"
	KindFinal Kind = "final"
)

// ErrUnknownKind is returned for toggles that are neither "cursada" nor "final".
var ErrUnknownKind = errors.New("unknown toggle kind")

// ParseKind accepts the wire names plus their English aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cursada", "taken":
		return KindTaken, nil
	case "final", "passed":
		return KindFinal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Toggle is the only command that mutates a State.
type Toggle struct {
	CourseID int  `json:"id"`
	Kind     Kind `json:"kind"`
	Value    bool `json:"value"`
}

// Apply runs the toggle against s in place.
// Unchecking "cursada" also clears the final, and checking the final marks the course as taken.
func (s *State) Apply(t Toggle) error {
	*s = s.Normalize()

	switch t.Kind {
	case KindTaken:
		s.Taken[t.CourseID] = t.Value
		if !t.Value {
			s.Passed[t.CourseID] = false
		}
	case KindFinal:
		s.Passed[t.CourseID] = t.Value
		if t.Value {
			s.Taken[t.CourseID] = true
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, t.Kind)
	}
	return nil
}
