package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/deptsched/timetable-api/internal/models"
)

// TimeSlotRepository persists the scheduling grid.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs the repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ReplaceAll swaps the stored timeslots inside the given transaction.
// Position preserves the roster table order the day-spread heuristic needs.
func (r *TimeSlotRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, slots []models.TimeSlot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM time_slots`); err != nil {
		return fmt.Errorf("clear time slots: %w", err)
	}

	const insertQuery = `
INSERT INTO time_slots (id, day, start_time, end_time, position)
VALUES (:id, :day, :start_time, :end_time, :position)`
	for _, slot := range slots {
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, slot); err != nil {
			return fmt.Errorf("insert time slot %s: %w", slot.ID, err)
		}
	}
	return nil
}

// List returns the stored timeslots in table order.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, day, start_time, end_time, position FROM time_slots ORDER BY position`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}
