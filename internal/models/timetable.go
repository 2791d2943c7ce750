package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SolverRunStatus represents lifecycle phases of a generated timetable.
type SolverRunStatus string

const (
	SolverRunStatusDraft     SolverRunStatus = "DRAFT"
	SolverRunStatusPublished SolverRunStatus = "PUBLISHED"
)

// SolverRun captures one versioned execution of the assignment engine for a term.
type SolverRun struct {
	ID        string          `db:"id" json:"id"`
	TermID    string          `db:"term_id" json:"term_id"`
	Version   int             `db:"version" json:"version"`
	Seed      int64           `db:"seed" json:"seed"`
	Status    SolverRunStatus `db:"status" json:"status"`
	Assigned  int             `db:"assigned" json:"assigned"`
	Failed    int             `db:"failed" json:"failed"`
	Meta      types.JSONText  `db:"meta" json:"meta"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TimetableEntry is one materialized row of the generated timetable: a single
// section sitting a single committed session.
type TimetableEntry struct {
	ID         string      `db:"id" json:"id"`
	RunID      string      `db:"run_id" json:"run_id"`
	SectionID  string      `db:"section_id" json:"section_id"`
	CourseID   string      `db:"course_id" json:"course_id"`
	Type       SessionType `db:"session_type" json:"session_type"`
	Instructor string      `db:"instructor" json:"instructor"`
	Room       string      `db:"room" json:"room"`
	TimeSlotID string      `db:"time_slot_id" json:"time_slot_id"`
	Day        string      `db:"day" json:"day"`
	StartTime  string      `db:"start_time" json:"start_time"`
	EndTime    string      `db:"end_time" json:"end_time"`
}

// Placement failure reasons, per session.
const (
	FailureNoInstructor  = "no qualified instructor"
	FailureNoCombination = "no valid combination found"
)

// PlacementFailure records a session the engine could not place. Failures are
// data, not errors: a run with failures still returns its committed placements.
type PlacementFailure struct {
	ID           string      `db:"id" json:"-"`
	RunID        string      `db:"run_id" json:"-"`
	VariableName string      `db:"variable_name" json:"session"`
	CourseID     string      `db:"course_id" json:"course_id"`
	Type         SessionType `db:"session_type" json:"session_type"`
	Reason       string      `db:"reason" json:"reason"`
}
