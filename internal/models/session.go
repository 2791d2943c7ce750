package models

// SessionType distinguishes lecture and lab sessions.
type SessionType string

const (
	SessionLecture SessionType = "Lecture"
	SessionLab     SessionType = "Lab"
)

// Session is the unit of work for the assignment engine: one lecture for a
// whole group, or one lab for a single section.
type Session struct {
	Group        string      `json:"group"`
	Sections     []string    `json:"sections"`
	CourseID     string      `json:"course_id"`
	Type         SessionType `json:"session_type"`
	VariableName string      `json:"variable_name"`
}
