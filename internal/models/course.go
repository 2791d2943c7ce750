package models

import "strings"

// Course describes what kinds of sessions a course produces. Type is the raw
// roster text, e.g. "Lecture + Lab".
type Course struct {
	ID    string `db:"id" json:"id"`
	Title string `db:"title" json:"title,omitempty"`
	Type  string `db:"type" json:"type"`
}

// HasLecture reports whether the course needs a lecture session per group.
func (c Course) HasLecture() bool {
	return strings.Contains(strings.ToLower(c.Type), "lecture")
}

// HasLab reports whether the course needs a lab session per section.
func (c Course) HasLab() bool {
	return strings.Contains(strings.ToLower(c.Type), "lab")
}
