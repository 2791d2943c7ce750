package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_runs WHERE term_id = $1")).
		WithArgs("2026-1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_runs")).
		WithArgs(sqlmock.AnyArg(), "2026-1", 3, int64(42), string(models.SolverRunStatusDraft), 10, 2, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.SolverRun{
		TermID:   "2026-1",
		Seed:     42,
		Assigned: 10,
		Failed:   2,
		Meta:     types.JSONText(`{"group_days":{}}`),
	}
	err := repo.CreateVersioned(context.Background(), nil, run)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Version)
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryInsertEntriesPreservesOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	entries := []models.TimetableEntry{
		{SectionID: "S1_L1", CourseID: "CS101", Type: models.SessionLecture, Instructor: "Dr. Salem", Room: "H1", TimeSlotID: "T1", Day: "Sunday", StartTime: "08:00", EndTime: "09:30"},
		{SectionID: "S2_L1", CourseID: "CS101", Type: models.SessionLecture, Instructor: "Dr. Salem", Room: "H1", TimeSlotID: "T1", Day: "Sunday", StartTime: "08:00", EndTime: "09:30"},
	}

	for i, e := range entries {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
			WithArgs(sqlmock.AnyArg(), "run-1", i, e.SectionID, e.CourseID, string(e.Type), e.Instructor, e.Room, e.TimeSlotID, e.Day, e.StartTime, e.EndTime).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	require.NoError(t, repo.InsertEntries(context.Background(), nil, "run-1", entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListByTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	rows := sqlmock.NewRows([]string{"id", "term_id", "version", "seed", "status", "assigned", "failed", "meta", "created_at", "updated_at"}).
		AddRow("run-2", "2026-1", 2, int64(7), string(models.SolverRunStatusDraft), 12, 0, types.JSONText(`{}`), time.Now(), time.Now()).
		AddRow("run-1", "2026-1", 1, int64(1), string(models.SolverRunStatusDraft), 11, 1, types.JSONText(`{}`), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, term_id, version, seed, status, assigned, failed, meta, created_at, updated_at").
		WithArgs("2026-1").
		WillReturnRows(rows)

	runs, err := repo.ListByTerm(context.Background(), "2026-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_runs WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryInsertFailures(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO placement_failures")).
		WithArgs(sqlmock.AnyArg(), "run-1", "G2_CS102_LEC", "CS102", string(models.SessionLecture), models.FailureNoCombination).
		WillReturnResult(sqlmock.NewResult(1, 1))

	failures := []models.PlacementFailure{
		{VariableName: "G2_CS102_LEC", CourseID: "CS102", Type: models.SessionLecture, Reason: models.FailureNoCombination},
	}
	require.NoError(t, repo.InsertFailures(context.Background(), nil, "run-1", failures))
	assert.NoError(t, mock.ExpectationsWereMet())
}
