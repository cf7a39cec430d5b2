package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ExportFilename is the name offered for downloaded progress documents.
const ExportFilename = "progreso_materias.json"

// ErrMissingField is returned when an imported document lacks "cursadas" or "aprobadas".
var ErrMissingField = errors.New("el archivo no tiene el formato correcto")

// ParseError reports a progress document that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "error al leer el archivo JSON: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Encode serializes the state as the persisted document.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s.Normalize())
}

// Decode parses a persisted document. Any failure is a *ParseError.
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, &ParseError{Err: err}
	}
	return s.Normalize(), nil
}

// Import parses a user supplied document. Both "cursadas" and "aprobadas" must be
// present; entry values are read loosely so documents written by older versions load.
func Import(data []byte) (State, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, &ParseError{Err: err}
	}

	taken, ok := field(doc, "cursadas")
	if !ok {
		return State{}, fmt.Errorf("%w: falta \"cursadas\"", ErrMissingField)
	}
	passed, ok := field(doc, "aprobadas")
	if !ok {
		return State{}, fmt.Errorf("%w: falta \"aprobadas\"", ErrMissingField)
	}
	return State{Taken: looseFlags(taken), Passed: looseFlags(passed)}, nil
}

// field returns the decoded value of name when it is present and truthy.
func field(doc map[string]json.RawMessage, name string) (any, bool) {
	raw, ok := doc[name]
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || !truthy(v) {
		return nil, false
	}
	return v, true
}

// looseFlags reads an object of id -> value. Anything other than an object gives no entries,
// keys that are not integers are dropped, and values follow JSON truthiness
// (false, null, 0 and "" are false).
func looseFlags(v any) map[int]bool {
	entries, _ := v.(map[string]any)
	out := make(map[int]bool, len(entries))
	for key, v := range entries {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out[id] = truthy(v)
	}
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}
