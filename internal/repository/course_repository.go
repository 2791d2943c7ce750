package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/deptsched/timetable-api/internal/models"
)

// CourseRepository persists the course catalogue.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ReplaceAll swaps the stored courses inside the given transaction.
func (r *CourseRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, courses []models.Course) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("clear courses: %w", err)
	}

	const insertQuery = `INSERT INTO courses (id, title, type) VALUES (:id, :title, :type)`
	for _, course := range courses {
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, course); err != nil {
			return fmt.Errorf("insert course %s: %w", course.ID, err)
		}
	}
	return nil
}

// List returns the stored courses in id order.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, title, type FROM courses ORDER BY id`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
