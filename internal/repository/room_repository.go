package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/deptsched/timetable-api/internal/models"
)

// RoomRepository persists the room roster.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ReplaceAll swaps the stored rooms inside the given transaction.
func (r *RoomRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, rooms []models.Room) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}

	const insertQuery = `INSERT INTO rooms (id, type, kind) VALUES (:id, :type, :kind)`
	for _, room := range rooms {
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, room); err != nil {
			return fmt.Errorf("insert room %s: %w", room.ID, err)
		}
	}
	return nil
}

// List returns the stored rooms in id order.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, type, kind FROM rooms ORDER BY id`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
