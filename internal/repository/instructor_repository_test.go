package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/models"
)

func TestInstructorRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM instructors")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO instructors")).
		WithArgs(sqlmock.AnyArg(), "Dr. Salem", "Professor", string(models.RoleCategoryProfessor), sqlmock.AnyArg(), "monday").
		WillReturnResult(sqlmock.NewResult(1, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)

	instructors := []models.Instructor{
		{
			Name:             "Dr. Salem",
			Role:             "Professor",
			RoleCategory:     models.RoleCategoryProfessor,
			QualifiedCourses: []string{"CS101"},
			BlockedDay:       "monday",
		},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), tx, instructors))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "role", "role_category", "qualified_courses", "blocked_day"}).
		AddRow("i-1", "Dr. Salem", "Professor", string(models.RoleCategoryProfessor), "{CS101,CS102}", "").
		AddRow("i-2", "Eng. Mona", "Teaching Assistant", string(models.RoleCategoryAssistant), "{CS101}", "monday")
	mock.ExpectQuery("SELECT id, name, role, role_category, qualified_courses, blocked_day").
		WillReturnRows(rows)

	instructors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, instructors, 2)
	assert.True(t, instructors[0].Qualified("CS102"))
	assert.Equal(t, "monday", instructors[1].BlockedDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}
