package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/deptsched/timetable-api/internal/models"
)

// InstructorRepository persists the resolved instructor roster.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs the repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// ReplaceAll swaps the stored roster for the provided one inside the given
// transaction. Imports are whole-table: partial updates are not supported.
func (r *InstructorRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, instructors []models.Instructor) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM instructors`); err != nil {
		return fmt.Errorf("clear instructors: %w", err)
	}

	const insertQuery = `
INSERT INTO instructors (id, name, role, role_category, qualified_courses, blocked_day)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, inst := range instructors {
		id := inst.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insertQuery,
			id, inst.Name, inst.Role, inst.RoleCategory, pq.Array([]string(inst.QualifiedCourses)), inst.BlockedDay,
		); err != nil {
			return fmt.Errorf("insert instructor %s: %w", inst.Name, err)
		}
	}
	return nil
}

// List returns the stored roster in name order.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT id, name, role, role_category, qualified_courses, blocked_day
FROM instructors ORDER BY name`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}
