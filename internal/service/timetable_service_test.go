package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type fakeRoster struct {
	instructors []models.Instructor
	rooms       []models.Room
	slots       []models.TimeSlot
	courses     []models.Course
	sections    []models.Section
}

type fakeInstructorReader struct{ r *fakeRoster }
type fakeRoomReader struct{ r *fakeRoster }
type fakeTimeSlotReader struct{ r *fakeRoster }
type fakeCourseReader struct{ r *fakeRoster }
type fakeSectionReader struct{ r *fakeRoster }

func (f fakeInstructorReader) List(context.Context) ([]models.Instructor, error) {
	return f.r.instructors, nil
}
func (f fakeRoomReader) List(context.Context) ([]models.Room, error)       { return f.r.rooms, nil }
func (f fakeTimeSlotReader) List(context.Context) ([]models.TimeSlot, error) {
	return f.r.slots, nil
}
func (f fakeCourseReader) List(context.Context) ([]models.Course, error)   { return f.r.courses, nil }
func (f fakeSectionReader) List(context.Context) ([]models.Section, error) { return f.r.sections, nil }

type fakeRunRepo struct {
	created  *models.SolverRun
	entries  []models.TimetableEntry
	failures []models.PlacementFailure
	runs     map[string]*models.SolverRun
	deleted  []string
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*models.SolverRun)}
}

func (f *fakeRunRepo) CreateVersioned(_ context.Context, _ sqlx.ExtContext, run *models.SolverRun) error {
	run.ID = "run-1"
	run.Version = 1
	f.created = run
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) InsertEntries(_ context.Context, _ sqlx.ExtContext, _ string, entries []models.TimetableEntry) error {
	f.entries = entries
	return nil
}

func (f *fakeRunRepo) InsertFailures(_ context.Context, _ sqlx.ExtContext, _ string, failures []models.PlacementFailure) error {
	f.failures = failures
	return nil
}

func (f *fakeRunRepo) ListByTerm(_ context.Context, termID string) ([]models.SolverRun, error) {
	var out []models.SolverRun
	for _, run := range f.runs {
		if run.TermID == termID {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (f *fakeRunRepo) FindByID(_ context.Context, id string) (*models.SolverRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return run, nil
}

func (f *fakeRunRepo) ListEntries(context.Context, string) ([]models.TimetableEntry, error) {
	return f.entries, nil
}

func (f *fakeRunRepo) ListFailures(context.Context, string) ([]models.PlacementFailure, error) {
	return f.failures, nil
}

func (f *fakeRunRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.runs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.runs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newTxProvider(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func schedulableRoster() *fakeRoster {
	return &fakeRoster{
		instructors: []models.Instructor{
			{Name: "Dr. Salem", Role: "Professor", RoleCategory: models.RoleCategoryProfessor, QualifiedCourses: []string{"CS101"}},
			{Name: "Eng. Mona", Role: "Teaching Assistant", RoleCategory: models.RoleCategoryAssistant, QualifiedCourses: []string{"CS101"}},
		},
		rooms: []models.Room{
			{ID: "H1", Type: "Lecture Hall", Kind: models.RoomKindLecture},
			{ID: "LB1", Type: "Lab", Kind: models.RoomKindLab},
		},
		slots: []models.TimeSlot{
			{ID: "T1", Day: "Sunday", StartTime: "08:00", EndTime: "09:30", Position: 0},
			{ID: "T2", Day: "Monday", StartTime: "08:00", EndTime: "09:30", Position: 1},
		},
		courses:  []models.Course{{ID: "CS101", Title: "Intro", Type: "Lecture & Lab"}},
		sections: []models.Section{{ID: "S1_L1", GroupName: "L1_G1", Courses: []string{"CS101"}}},
	}
}

func newTestService(t *testing.T, roster *fakeRoster, repo *fakeRunRepo) (*TimetableService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTxProvider(t)
	svc := NewTimetableService(
		fakeInstructorReader{roster}, fakeRoomReader{roster}, fakeTimeSlotReader{roster},
		fakeCourseReader{roster}, fakeSectionReader{roster},
		repo, db, nil, nil, nil, nil,
		TimetableConfig{Seed: 7},
	)
	return svc, mock
}

func TestGeneratePersistsVersionedRun(t *testing.T) {
	repo := newFakeRunRepo()
	svc, mock := newTestService(t, schedulableRoster(), repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "2026-1"})
	require.NoError(t, err)

	// One lecture plus one lab for the single section.
	assert.Equal(t, 2, res.Run.Assigned)
	assert.Equal(t, 0, res.Run.Failed)
	assert.Equal(t, int64(7), res.Run.Seed)
	assert.Len(t, res.Entries, 2)
	assert.Empty(t, res.Failures)
	assert.Contains(t, res.GroupDays, "L1_G1")

	require.NotNil(t, repo.created)
	assert.Equal(t, "2026-1", repo.created.TermID)
	assert.Len(t, repo.entries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateSeedOverrideWins(t *testing.T) {
	repo := newFakeRunRepo()
	svc, mock := newTestService(t, schedulableRoster(), repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	seed := int64(1234)
	res, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "2026-1", Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, seed, res.Run.Seed)
}

func TestGenerateRequiresTerm(t *testing.T) {
	svc, _ := newTestService(t, schedulableRoster(), newFakeRunRepo())

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateFailsOnEmptyRoster(t *testing.T) {
	roster := schedulableRoster()
	roster.instructors = nil
	svc, _ := newTestService(t, roster, newFakeRunRepo())

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "2026-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestGenerateEmptyResultNotPersisted(t *testing.T) {
	roster := schedulableRoster()
	// Nobody is qualified for the only course, so nothing can be placed.
	roster.instructors = []models.Instructor{
		{Name: "Dr. Salem", Role: "Professor", RoleCategory: models.RoleCategoryProfessor, QualifiedCourses: []string{"MA201"}},
	}
	repo := newFakeRunRepo()
	svc, _ := newTestService(t, roster, repo)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{TermID: "2026-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyResult.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestGetRunNotFound(t *testing.T) {
	svc, _ := newTestService(t, schedulableRoster(), newFakeRunRepo())

	_, err := svc.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListRunsRequiresTerm(t *testing.T) {
	svc, _ := newTestService(t, schedulableRoster(), newFakeRunRepo())

	_, err := svc.ListRuns(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteRun(t *testing.T) {
	repo := newFakeRunRepo()
	repo.runs["run-1"] = &models.SolverRun{ID: "run-1", TermID: "2026-1"}
	svc, _ := newTestService(t, schedulableRoster(), repo)

	require.NoError(t, svc.DeleteRun(context.Background(), "run-1"))
	assert.Equal(t, []string{"run-1"}, repo.deleted)

	err := svc.DeleteRun(context.Background(), "run-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
