package progress

import (
	"errors"
	"testing"

	"materias-progress-backend/models/catalog"
)

func scenarioCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Course{
		{ID: 1, Name: "Uno", Year: 1},
		{ID: 2, Name: "Dos", Year: 1, Prerequisites: catalog.Prerequisites{RequiresTaken: []int{1}, RequiresPassed: []int{1}}},
	})
}

func mustApply(t *testing.T, s *State, cmd Toggle) {
	t.Helper()
	if err := s.Apply(cmd); err != nil {
		t.Fatalf("Apply(%+v): %v", cmd, err)
	}
}

func TestEmptyEnrollRequirementsAlwaysEnroll(t *testing.T) {
	c := catalog.Course{ID: 7}
	states := []State{
		NewState(),
		{Taken: map[int]bool{1: true}, Passed: map[int]bool{7: true}},
		{},
	}
	for i, s := range states {
		if !Evaluate(c, s).CanEnroll {
			t.Fatalf("state %d: course without prerequisites not enrollable", i)
		}
	}
}

func TestPassedPrerequisiteCountsForEnroll(t *testing.T) {
	c := catalog.Course{ID: 2, Prerequisites: catalog.Prerequisites{RequiresTaken: []int{1}}}
	s := State{Taken: map[int]bool{}, Passed: map[int]bool{1: true}}
	if !Evaluate(c, s).CanEnroll {
		t.Fatal("a passed prerequisite should satisfy the enroll requirement")
	}
}

func TestScenario(t *testing.T) {
	cat := scenarioCatalog()
	c1, _ := cat.Get(1)
	c2, _ := cat.Get(2)
	s := NewState()

	if !Evaluate(c1, s).CanEnroll || Evaluate(c2, s).CanEnroll {
		t.Fatalf("empty store: c1=%+v c2=%+v", Evaluate(c1, s), Evaluate(c2, s))
	}

	mustApply(t, &s, Toggle{CourseID: 1, Kind: KindTaken, Value: true})
	st2 := Evaluate(c2, s)
	if !st2.CanEnroll || st2.CanSitFinal {
		t.Fatalf("after taking 1: c2=%+v", st2)
	}

	mustApply(t, &s, Toggle{CourseID: 1, Kind: KindFinal, Value: true})
	if Evaluate(c2, s).CanSitFinal {
		t.Fatal("course 2 must be taken before its final")
	}
	mustApply(t, &s, Toggle{CourseID: 2, Kind: KindTaken, Value: true})
	if !Evaluate(c2, s).CanSitFinal {
		t.Fatal("course 2 final should be available once taken and 1 passed")
	}
}

func priorStates() []State {
	return []State{
		NewState(),
		{},
		{Taken: map[int]bool{5: true}, Passed: map[int]bool{5: true}},
		{Taken: map[int]bool{5: false}, Passed: map[int]bool{5: true}},
		{Taken: map[int]bool{5: true}, Passed: map[int]bool{5: false}},
	}
}

func TestFinalImpliesTaken(t *testing.T) {
	for i, prior := range priorStates() {
		s := prior.Clone()
		mustApply(t, &s, Toggle{CourseID: 5, Kind: KindFinal, Value: true})
		if !s.Taken[5] || !s.Passed[5] {
			t.Fatalf("state %d: %+v", i, s)
		}
	}
}

func TestUntakeClearsPassed(t *testing.T) {
	for i, prior := range priorStates() {
		s := prior.Clone()
		mustApply(t, &s, Toggle{CourseID: 5, Kind: KindTaken, Value: false})
		if s.Taken[5] || s.Passed[5] {
			t.Fatalf("state %d: %+v", i, s)
		}
	}
}

func TestUnpassKeepsTaken(t *testing.T) {
	s := State{Taken: map[int]bool{5: true}, Passed: map[int]bool{5: true}}
	mustApply(t, &s, Toggle{CourseID: 5, Kind: KindFinal, Value: false})
	if !s.Taken[5] || s.Passed[5] {
		t.Fatalf("got %+v", s)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	s := NewState()
	err := s.Apply(Toggle{CourseID: 1, Kind: "x", Value: true})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"cursada": KindTaken, "taken": KindTaken, " Final ": KindFinal, "passed": KindFinal} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("aprobada?"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v", err)
	}
}

func TestPercentMonotonic(t *testing.T) {
	for total := 1; total <= 40; total++ {
		prev := -1
		for passed := 0; passed <= total; passed++ {
			p := Percent(passed, total)
			if p < prev {
				t.Fatalf("total=%d passed=%d: %d < %d", total, passed, p, prev)
			}
			prev = p
		}
		if prev != 100 {
			t.Fatalf("total=%d: all passed gives %d", total, prev)
		}
	}
}

func TestBandMessage(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{0, MessageBaseline},
		{24, MessageBaseline},
		{25, MessageTierA},
		{49, MessageTierA},
		{50, MessageTierB},
		{74, MessageTierB},
		{75, MessageTierC},
		{99, MessageTierC},
		{100, MessageComplete},
	}
	for _, c := range cases {
		if got := BandMessage(c.pct); got != c.want {
			t.Errorf("BandMessage(%d) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestSummarizeQuarter(t *testing.T) {
	cat := catalog.New([]catalog.Course{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
	s := State{Taken: map[int]bool{1: true}, Passed: map[int]bool{1: true, 2: false}}

	sum, ok := Summarize(cat, s)
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.Passed != 1 || sum.Total != 4 || sum.Percent != 25 || sum.Message != MessageTierA {
		t.Fatalf("got %+v", sum)
	}
	want := "1/4 Materias (25%) • " + MessageTierA
	if sum.Text != want {
		t.Fatalf("Text = %q, want %q", sum.Text, want)
	}
}

func TestSummarizeCountsIdsOutsideCatalog(t *testing.T) {
	cat := catalog.New([]catalog.Course{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})

	sum, _ := Summarize(cat, State{Passed: map[int]bool{1: true, 9: true}})
	if sum.Passed != 2 || sum.Percent != 50 || sum.Message != MessageTierB {
		t.Fatalf("got %+v", sum)
	}

	all := map[int]bool{}
	for id := 1; id <= 6; id++ {
		all[id] = true
	}
	sum, _ = Summarize(cat, State{Passed: all})
	if sum.Passed != 6 || sum.Percent != 100 || sum.Message != MessageComplete {
		t.Fatalf("got %+v", sum)
	}
}

func TestSummarizeEmptyCatalog(t *testing.T) {
	if _, ok := Summarize(catalog.New(nil), NewState()); ok {
		t.Fatal("empty catalog should have no summary")
	}
}
