package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/deptsched/timetable-api/internal/models"
)

// SectionRepository persists sections with their derived group membership.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ReplaceAll swaps the stored sections inside the given transaction.
func (r *SectionRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, sections []models.Section) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return fmt.Errorf("clear sections: %w", err)
	}

	const insertQuery = `INSERT INTO sections (id, group_name, courses) VALUES ($1, $2, $3)`
	for _, section := range sections {
		if _, err := tx.ExecContext(ctx, insertQuery,
			section.ID, section.GroupName, pq.Array([]string(section.Courses)),
		); err != nil {
			return fmt.Errorf("insert section %s: %w", section.ID, err)
		}
	}
	return nil
}

// List returns the stored sections in id order.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	const query = `SELECT id, group_name, courses FROM sections ORDER BY id`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}
