package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/deptsched/timetable-api/internal/models"
)

// RunRepository persists versioned solver runs with their timetable entries
// and placement failures.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs the repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a run assigning the next version for its term.
func (r *RunRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, run *models.SolverRun) error {
	if run == nil {
		return fmt.Errorf("run payload is nil")
	}
	if run.TermID == "" {
		return fmt.Errorf("term_id is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.SolverRunStatusDraft
	}
	if len(run.Meta) == 0 {
		run.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_runs WHERE term_id = $1`
	if err := sqlx.GetContext(ctx, target, &run.Version, nextVersionQuery, run.TermID); err != nil {
		return fmt.Errorf("compute next run version: %w", err)
	}

	const insertQuery = `
INSERT INTO timetable_runs (id, term_id, version, seed, status, assigned, failed, meta, created_at, updated_at)
VALUES (:id, :term_id, :version, :seed, :status, :assigned, :failed, :meta, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, run); err != nil {
		return fmt.Errorf("insert timetable run: %w", err)
	}
	return nil
}

// InsertEntries stores the materialized rows of a run, preserving row order.
func (r *RunRepository) InsertEntries(ctx context.Context, exec sqlx.ExtContext, runID string, entries []models.TimetableEntry) error {
	target := r.exec(exec)
	const insertQuery = `
INSERT INTO timetable_entries (id, run_id, row_order, section_id, course_id, session_type, instructor, room, time_slot_id, day, start_time, end_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := target.ExecContext(ctx, insertQuery,
			id, runID, i, e.SectionID, e.CourseID, e.Type, e.Instructor, e.Room, e.TimeSlotID, e.Day, e.StartTime, e.EndTime,
		); err != nil {
			return fmt.Errorf("insert timetable entry %d: %w", i, err)
		}
	}
	return nil
}

// InsertFailures stores the placement failures of a run.
func (r *RunRepository) InsertFailures(ctx context.Context, exec sqlx.ExtContext, runID string, failures []models.PlacementFailure) error {
	target := r.exec(exec)
	const insertQuery = `
INSERT INTO placement_failures (id, run_id, variable_name, course_id, session_type, reason)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, f := range failures {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := target.ExecContext(ctx, insertQuery,
			id, runID, f.VariableName, f.CourseID, f.Type, f.Reason,
		); err != nil {
			return fmt.Errorf("insert placement failure %s: %w", f.VariableName, err)
		}
	}
	return nil
}

// ListByTerm returns all run versions for a term, newest first.
func (r *RunRepository) ListByTerm(ctx context.Context, termID string) ([]models.SolverRun, error) {
	const query = `SELECT id, term_id, version, seed, status, assigned, failed, meta, created_at, updated_at
FROM timetable_runs WHERE term_id = $1 ORDER BY version DESC`
	var runs []models.SolverRun
	if err := r.db.SelectContext(ctx, &runs, query, termID); err != nil {
		return nil, fmt.Errorf("list timetable runs: %w", err)
	}
	return runs, nil
}

// FindByID loads a run by its identifier.
func (r *RunRepository) FindByID(ctx context.Context, id string) (*models.SolverRun, error) {
	const query = `SELECT id, term_id, version, seed, status, assigned, failed, meta, created_at, updated_at
FROM timetable_runs WHERE id = $1`
	var run models.SolverRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListEntries returns the materialized rows of a run in stored order.
func (r *RunRepository) ListEntries(ctx context.Context, runID string) ([]models.TimetableEntry, error) {
	const query = `SELECT id, run_id, section_id, course_id, session_type, instructor, room, time_slot_id, day, start_time, end_time
FROM timetable_entries WHERE run_id = $1 ORDER BY row_order`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, runID); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// ListFailures returns the placement failures of a run.
func (r *RunRepository) ListFailures(ctx context.Context, runID string) ([]models.PlacementFailure, error) {
	const query = `SELECT id, run_id, variable_name, course_id, session_type, reason
FROM placement_failures WHERE run_id = $1 ORDER BY variable_name`
	var failures []models.PlacementFailure
	if err := r.db.SelectContext(ctx, &failures, query, runID); err != nil {
		return nil, fmt.Errorf("list placement failures: %w", err)
	}
	return failures, nil
}

// Delete removes a run and its dependents.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetable_runs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
