package views

import (
	"testing"

	"materias-progress-backend/models/catalog"
	"materias-progress-backend/models/progress"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Course{
		{ID: 4, Name: "Cuatro", Year: 2, Prerequisites: catalog.Prerequisites{RequiresTaken: []int{2}}},
		{ID: 1, Name: "Uno", Year: 1},
		{ID: 3, Name: "Tres", Year: 10},
		{ID: 2, Name: "Dos", Year: 1, Prerequisites: catalog.Prerequisites{RequiresTaken: []int{1}, RequiresPassed: []int{1}}},
	})
}

func TestChecklistGroupsByYear(t *testing.T) {
	sections := BuildChecklist(testCatalog(), progress.NewState())
	if len(sections) != 3 {
		t.Fatalf("got %d sections", len(sections))
	}
	wantYears := []int{1, 2, 10}
	for i, y := range wantYears {
		if sections[i].Year != y {
			t.Fatalf("section %d year = %d, want %d", i, sections[i].Year, y)
		}
	}
	if sections[0].Title != "1 Año" {
		t.Fatalf("title = %q", sections[0].Title)
	}
	first := sections[0].Cards
	if len(first) != 2 || first[0].ID != 1 || first[1].ID != 2 {
		t.Fatalf("year 1 cards = %+v", first)
	}
	if first[0].Blocked || !first[1].Blocked || !first[1].EnrollDisabled {
		t.Fatalf("blocked flags wrong: %+v", first)
	}
	if first[1].Class != "materia-card bloqueada" {
		t.Fatalf("class = %q", first[1].Class)
	}
}

func TestChecklistCheckboxes(t *testing.T) {
	s := progress.State{Taken: map[int]bool{}, Passed: map[int]bool{1: true}}
	card := BuildChecklist(testCatalog(), s)[0].Cards[0]
	if !card.EnrollChecked || !card.FinalChecked {
		t.Fatalf("passed course should show both boxes checked: %+v", card)
	}
	if card.Class != "materia-card habilitada aprobada-full" {
		t.Fatalf("class = %q", card.Class)
	}
	// final is disabled because the course was never marked taken
	if !card.FinalDisabled {
		t.Fatalf("final should be disabled: %+v", card)
	}
}

func TestMatrixClasses(t *testing.T) {
	s := progress.State{
		Taken:  map[int]bool{1: true, 2: true},
		Passed: map[int]bool{1: true},
	}
	cells := BuildMatrix(testCatalog(), s)
	want := map[int]string{1: CellPassed, 2: CellTaken, 3: CellAvailable, 4: CellAvailable}
	if len(cells) != 4 {
		t.Fatalf("got %d cells", len(cells))
	}
	for i, c := range cells {
		if c.ID != i+1 {
			t.Fatalf("cell %d id = %d", i, c.ID)
		}
		if c.Class != want[c.ID] {
			t.Errorf("cell %d class = %q, want %q", c.ID, c.Class, want[c.ID])
		}
	}

	cells = BuildMatrix(testCatalog(), progress.NewState())
	if cells[3].Class != CellBlocked {
		t.Fatalf("course 4 should be blocked, got %q", cells[3].Class)
	}
}

func TestProgressBar(t *testing.T) {
	bar := BuildProgressBar(testCatalog(), progress.State{Passed: map[int]bool{1: true, 2: true}})
	if !bar.Visible || bar.Width != 50 || bar.Summary.Message != progress.MessageTierB {
		t.Fatalf("got %+v", bar)
	}
	if BuildProgressBar(catalog.New(nil), progress.NewState()).Visible {
		t.Fatal("empty catalog should hide the bar")
	}
}

func TestDashboard(t *testing.T) {
	d := BuildDashboard(testCatalog(), progress.NewState())
	if len(d.Checklist) != 3 || len(d.Matrix) != 4 || !d.Progress.Visible || d.Progress.Width != 0 {
		t.Fatalf("got %+v", d)
	}
}
