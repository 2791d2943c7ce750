package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type stubRunFetcher struct {
	res *dto.TimetableRunResponse
	err error
}

func (s stubRunFetcher) GetRun(context.Context, string) (*dto.TimetableRunResponse, error) {
	return s.res, s.err
}

func exportableRun() *dto.TimetableRunResponse {
	return &dto.TimetableRunResponse{
		Run: models.SolverRun{ID: "run-1", TermID: "2026-1", Version: 2},
		Entries: []models.TimetableEntry{
			{SectionID: "S1_L1", CourseID: "CS101", Type: models.SessionLecture, Instructor: "Dr. Salem", Room: "H1", TimeSlotID: "T1", Day: "Sunday", StartTime: "08:00", EndTime: "09:30"},
		},
	}
}

func TestExportRunCSV(t *testing.T) {
	svc := NewExportService(stubRunFetcher{res: exportableRun()}, nil, nil, "Department Timetable", nil)

	res, err := svc.ExportRun(context.Background(), "run-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "timetable_2026-1_v2.csv", res.Filename)

	body := string(res.Payload)
	assert.True(t, strings.HasPrefix(body, "Section,Course,Type,Instructor,Room,Slot,Day,Start,End"))
	assert.Contains(t, body, "S1_L1,CS101,Lecture,Dr. Salem,H1,T1,Sunday,08:00,09:30")
}

func TestExportRunPDF(t *testing.T) {
	svc := NewExportService(stubRunFetcher{res: exportableRun()}, nil, nil, "Department Timetable", nil)

	res, err := svc.ExportRun(context.Background(), "run-1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, "timetable_2026-1_v2.pdf", res.Filename)
	assert.True(t, strings.HasPrefix(string(res.Payload), "%PDF"))
}

func TestExportRunUnsupportedFormat(t *testing.T) {
	svc := NewExportService(stubRunFetcher{res: exportableRun()}, nil, nil, "", nil)

	_, err := svc.ExportRun(context.Background(), "run-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportRunPropagatesNotFound(t *testing.T) {
	svc := NewExportService(stubRunFetcher{err: appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")}, nil, nil, "", nil)

	_, err := svc.ExportRun(context.Background(), "missing", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
