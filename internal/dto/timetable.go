package dto

import "github.com/deptsched/timetable-api/internal/models"

// GenerateTimetableRequest asks the solver to build a timetable for a term.
type GenerateTimetableRequest struct {
	TermID string `json:"termId" validate:"required"`
	// Seed overrides the configured RNG seed for reproducible runs.
	Seed *int64 `json:"seed" validate:"omitempty"`
}

// TimetableRunResponse returns a run with its materialized rows and failures.
type TimetableRunResponse struct {
	Run       models.SolverRun          `json:"run"`
	Entries   []models.TimetableEntry   `json:"entries"`
	Failures  []models.PlacementFailure `json:"failures"`
	GroupDays map[string][]string       `json:"group_days,omitempty"`
}

// ImportRosterRequest points the importer at a CSV drop directory. An empty
// Dir uses the configured default.
type ImportRosterRequest struct {
	Dir string `json:"dir"`
}

// ImportRosterResponse summarises an import.
type ImportRosterResponse struct {
	Instructors int `json:"instructors"`
	Rooms       int `json:"rooms"`
	TimeSlots   int `json:"time_slots"`
	Courses     int `json:"courses"`
	Sections    int `json:"sections"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
