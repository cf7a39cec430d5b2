package progress

import "materias-progress-backend/models/catalog"

// Status is what the UI needs to know about one course.
type Status struct {
	IsTaken     bool `json:"isTaken"`
	IsPassed    bool `json:"isPassed"`
	CanEnroll   bool `json:"canEnroll"`
	CanSitFinal bool `json:"canSitFinal"`
}

// Evaluate derives the status of a course from the current state.
// A course is enrollable when every enroll prerequisite is taken or passed,
// and its final is available once it is taken and every final prerequisite is passed.
func Evaluate(c catalog.Course, s State) Status {
	st := Status{
		IsTaken:   s.Taken[c.ID],
		IsPassed:  s.Passed[c.ID],
		CanEnroll: true,
	}

	for _, id := range c.Prerequisites.RequiresTaken {
		if !s.Taken[id] && !s.Passed[id] {
			st.CanEnroll = false
			break
		}
	}

	st.CanSitFinal = st.IsTaken
	if st.CanSitFinal {
		for _, id := range c.Prerequisites.RequiresPassed {
			if !s.Passed[id] {
				st.CanSitFinal = false
				break
			}
		}
	}
	return st
}
