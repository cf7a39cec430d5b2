package catalog

import (
	"encoding/json"
	"sort"
)

// Prerequisites lists the courses a course depends on.
type Prerequisites struct {
	RequiresTaken  []int `json:"requiresCursada,omitempty"`   // cursada (o aprobada) para poder cursar
	RequiresPassed []int `json:"requiresAcreditar,omitempty"` // aprobadas para poder rendir el final
}

// Course is one "materia" of the study plan.
type Course struct {
	ID            int           `json:"id"`
	Name          string        `json:"nombre"`
	Year          int           `json:"anio"`
	Prerequisites Prerequisites `json:"prerrequisitos"`
}

// Catalog is the immutable, id-ordered list of courses loaded at boot.
type Catalog struct {
	courses []Course
	index   map[int]int
}

// New builds a catalog sorted ascending by id. The input slice is copied.
func New(courses []Course) *Catalog {
	sorted := make([]Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	index := make(map[int]int, len(sorted))
	for i, c := range sorted {
		index[c.ID] = i
	}
	return &Catalog{courses: sorted, index: index}
}

// Courses returns a copy of the ordered course list.
func (c *Catalog) Courses() []Course {
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Len returns the number of courses.
func (c *Catalog) Len() int { return len(c.courses) }

// Get looks a course up by id.
func (c *Catalog) Get(id int) (Course, bool) {
	i, ok := c.index[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

// Years returns the distinct years in ascending order.
func (c *Catalog) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, course := range c.courses {
		if !seen[course.Year] {
			seen[course.Year] = true
			years = append(years, course.Year)
		}
	}
	sort.Ints(years)
	return years
}

// MarshalJSON writes the catalog in the same shape it was loaded from.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Courses []Course `json:"materias"`
	}{Courses: c.courses})
}
