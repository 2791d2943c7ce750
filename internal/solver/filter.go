package solver

import "github.com/deptsched/timetable-api/internal/models"

// CandidateFilter computes the admissible instructor and room sets for a
// session. Eligibility is fixed for the whole run: it depends only on roster
// data, never on current availability.
type CandidateFilter struct {
	instructors  []models.Instructor
	lectureRooms []models.Room
	labRooms     []models.Room
}

// NewCandidateFilter indexes the roster for per-session candidate lookups.
func NewCandidateFilter(instructors []models.Instructor, rooms []models.Room) *CandidateFilter {
	f := &CandidateFilter{instructors: instructors}
	for _, r := range rooms {
		switch r.Kind {
		case models.RoomKindLab:
			f.labRooms = append(f.labRooms, r)
		default:
			f.lectureRooms = append(f.lectureRooms, r)
		}
	}
	return f
}

// EligibleInstructors returns instructors qualified for the session's course
// whose role category matches the session type. Lectures require the
// professor category; labs require the assistant category.
func (f *CandidateFilter) EligibleInstructors(s models.Session) []models.Instructor {
	want := models.RoleCategoryProfessor
	if s.Type == models.SessionLab {
		want = models.RoleCategoryAssistant
	}

	var eligible []models.Instructor
	for _, inst := range f.instructors {
		if inst.RoleCategory != want {
			continue
		}
		if !inst.Qualified(s.CourseID) {
			continue
		}
		eligible = append(eligible, inst)
	}
	return eligible
}

// EligibleRooms returns rooms whose kind matches the session type.
func (f *CandidateFilter) EligibleRooms(s models.Session) []models.Room {
	if s.Type == models.SessionLab {
		return f.labRooms
	}
	return f.lectureRooms
}
