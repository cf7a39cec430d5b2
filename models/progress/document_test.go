package progress

import (
	"errors"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	states := []State{
		NewState(),
		{Taken: map[int]bool{1: true, 2: true, 3: false}, Passed: map[int]bool{1: true, 3: false}},
		{Taken: map[int]bool{10: true}, Passed: map[int]bool{}},
	}
	for i, s := range states {
		data, err := Encode(s)
		if err != nil {
			t.Fatalf("state %d: Encode: %v", i, err)
		}
		got, err := Import(data)
		if err != nil {
			t.Fatalf("state %d: Import: %v", i, err)
		}
		if !got.Equal(s) {
			t.Fatalf("state %d: got %+v, want %+v", i, got, s)
		}
	}
}

func TestEncodeUsesWireKeys(t *testing.T) {
	data, err := Encode(State{Taken: map[int]bool{1: true}})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"cursadas":{"1":true},"aprobadas":{}}`; got != want {
		t.Fatalf("Encode = %s, want %s", got, want)
	}
}

func TestImportMissingField(t *testing.T) {
	for _, doc := range []string{
		`{"cursadas": {"1": true}}`,
		`{"aprobadas": {}}`,
		`{"cursadas": {}, "aprobadas": null}`,
		`{"cursadas": false, "aprobadas": {}}`,
		`{"cursadas": {}, "aprobadas": ""}`,
		`{}`,
	} {
		if _, err := Import([]byte(doc)); !errors.Is(err, ErrMissingField) {
			t.Errorf("Import(%s) err = %v, want ErrMissingField", doc, err)
		}
	}
}

func TestImportParseError(t *testing.T) {
	var perr *ParseError
	for _, doc := range []string{`not json`, `[1,2]`, `{"cursadas": {}, "aprobadas": {}`} {
		if _, err := Import([]byte(doc)); !errors.As(err, &perr) {
			t.Errorf("Import(%s) err = %v, want *ParseError", doc, err)
		}
	}
}

func TestImportIsLenient(t *testing.T) {
	s, err := Import([]byte(`{"cursadas": {"1": 1, "2": "", "x": true}, "aprobadas": {"1": "yes", "3": null}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Taken[1] || s.Taken[2] || len(s.Taken) != 2 {
		t.Fatalf("taken = %v", s.Taken)
	}
	if !s.Passed[1] || s.Passed[3] {
		t.Fatalf("passed = %v", s.Passed)
	}
}

func TestImportTruthyNonObjectFields(t *testing.T) {
	for _, doc := range []string{
		`{"cursadas": [], "aprobadas": {}}`,
		`{"cursadas": true, "aprobadas": "si"}`,
		`{"cursadas": 1, "aprobadas": [1, 2]}`,
	} {
		s, err := Import([]byte(doc))
		if err != nil {
			t.Fatalf("Import(%s): %v", doc, err)
		}
		if len(s.Taken) != 0 || len(s.Passed) != 0 || s.Taken == nil || s.Passed == nil {
			t.Fatalf("Import(%s) = %+v, want empty state", doc, s)
		}
	}
}

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(`{"cursadas": {"4": true}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Taken[4] || s.Passed == nil {
		t.Fatalf("got %+v", s)
	}

	var perr *ParseError
	if _, err := Decode([]byte(`{`)); !errors.As(err, &perr) {
		t.Fatalf("err = %v", err)
	}
}
