// Package views projects the catalog and a progress state into the data the page renders.
package views

import (
	"strconv"

	"materias-progress-backend/models/catalog"
	"materias-progress-backend/models/progress"
)

// Card is one course row of the checklist.
type Card struct {
	ID             int             `json:"id"`
	Name           string          `json:"nombre"`
	Status         progress.Status `json:"status"`
	Class          string          `json:"class"`
	Blocked        bool            `json:"blocked"`
	EnrollChecked  bool            `json:"enrollChecked"`
	EnrollDisabled bool            `json:"enrollDisabled"`
	FinalChecked   bool            `json:"finalChecked"`
	FinalDisabled  bool            `json:"finalDisabled"`
}

// Section groups the cards of one year.
type Section struct {
	Year  int    `json:"anio"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// Cell is one square of the matrix.
type Cell struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Class string `json:"class"`
}

// ProgressBar drives the bar width and the note under it.
type ProgressBar struct {
	Visible bool             `json:"visible"`
	Width   int              `json:"width"`
	Summary progress.Summary `json:"summary"`
}

// Dashboard is every view recomputed from scratch after a change.
type Dashboard struct {
	Progress  ProgressBar `json:"progress"`
	Checklist []Section   `json:"checklist"`
	Matrix    []Cell      `json:"matrix"`
}

// Matrix cell classes.
const (
	CellPassed    = "aprobada"
	CellTaken     = "cursada"
	CellBlocked   = "bloqueada"
	CellAvailable = "habilitada"
)

// BuildChecklist groups courses by year in ascending order, keeping id order inside a year.
func BuildChecklist(cat *catalog.Catalog, s progress.State) []Section {
	byYear := make(map[int][]Card)
	for _, c := range cat.Courses() {
		byYear[c.Year] = append(byYear[c.Year], card(c, s))
	}

	sections := make([]Section, 0, len(byYear))
	for _, year := range cat.Years() {
		sections = append(sections, Section{
			Year:  year,
			Title: yearTitle(year),
			Cards: byYear[year],
		})
	}
	return sections
}

func card(c catalog.Course, s progress.State) Card {
	st := progress.Evaluate(c, s)

	class := "materia-card habilitada"
	if !st.CanEnroll {
		class = "materia-card bloqueada"
	}
	if st.IsPassed {
		class += " aprobada-full"
	}

	return Card{
		ID:             c.ID,
		Name:           c.Name,
		Status:         st,
		Class:          class,
		Blocked:        !st.CanEnroll,
		EnrollChecked:  st.IsTaken || st.IsPassed,
		EnrollDisabled: !st.CanEnroll,
		FinalChecked:   st.IsPassed,
		FinalDisabled:  !st.CanSitFinal,
	}
}

func yearTitle(year int) string {
	return strconv.Itoa(year) + " Año"
}

// BuildMatrix returns one cell per course in id order.
func BuildMatrix(cat *catalog.Catalog, s progress.State) []Cell {
	courses := cat.Courses()
	cells := make([]Cell, 0, len(courses))
	for _, c := range courses {
		st := progress.Evaluate(c, s)
		class := CellAvailable
		switch {
		case st.IsPassed:
			class = CellPassed
		case st.IsTaken:
			class = CellTaken
		case !st.CanEnroll:
			class = CellBlocked
		}
		cells = append(cells, Cell{ID: c.ID, Name: c.Name, Class: class})
	}
	return cells
}

// BuildProgressBar is hidden for an empty catalog.
func BuildProgressBar(cat *catalog.Catalog, s progress.State) ProgressBar {
	sum, ok := progress.Summarize(cat, s)
	if !ok {
		return ProgressBar{}
	}
	return ProgressBar{Visible: true, Width: sum.Percent, Summary: sum}
}

// BuildDashboard recomputes every view.
func BuildDashboard(cat *catalog.Catalog, s progress.State) Dashboard {
	return Dashboard{
		Progress:  BuildProgressBar(cat, s),
		Checklist: BuildChecklist(cat, s),
		Matrix:    BuildMatrix(cat, s),
	}
}
