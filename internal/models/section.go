package models

import "github.com/lib/pq"

// Section is an atomic student sub-group. Each section belongs to exactly one
// group; the group shares lecture sessions while labs stay per-section.
type Section struct {
	ID        string         `db:"id" json:"id"`
	GroupName string         `db:"group_name" json:"group_name"`
	Courses   pq.StringArray `db:"courses" json:"courses"`
}

// Group is a named cluster of sections sharing lectures.
type Group struct {
	Name     string   `json:"name"`
	Sections []string `json:"sections"`
}
