package models

import (
	"strings"

	"github.com/lib/pq"
)

// RoleCategory is the resolved teaching role used for session eligibility.
// It is computed once when roster data is loaded; the solver never inspects
// the raw role text.
type RoleCategory string

const (
	// RoleCategoryProfessor marks instructors eligible for lecture sessions.
	RoleCategoryProfessor RoleCategory = "PROFESSOR"
	// RoleCategoryAssistant marks instructors eligible for lab sessions.
	RoleCategoryAssistant RoleCategory = "ASSISTANT"
	// RoleCategoryOther marks instructors eligible for nothing.
	RoleCategoryOther RoleCategory = "OTHER"
)

// ResolveRoleCategory maps free-text roles onto a category. An assistant-type
// role wins over a professor-type one, so "Assistant Professor" resolves to
// the assistant category and is never lecture-eligible.
func ResolveRoleCategory(role string) RoleCategory {
	if strings.Contains(role, "Assistant") {
		return RoleCategoryAssistant
	}
	if strings.Contains(role, "Professor") {
		return RoleCategoryProfessor
	}
	return RoleCategoryOther
}

// Instructor is a member of the teaching staff. Name is the unique roster key.
type Instructor struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Role             string         `db:"role" json:"role"`
	RoleCategory     RoleCategory   `db:"role_category" json:"role_category"`
	QualifiedCourses pq.StringArray `db:"qualified_courses" json:"qualified_courses"`
	// BlockedDay is a soft scheduling preference, lowercased day name or empty.
	BlockedDay string `db:"blocked_day" json:"blocked_day,omitempty"`
}

// Qualified reports whether the instructor may teach the given course code.
func (i Instructor) Qualified(courseID string) bool {
	for _, c := range i.QualifiedCourses {
		if c == courseID {
			return true
		}
	}
	return false
}
