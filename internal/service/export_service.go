package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
	"github.com/deptsched/timetable-api/pkg/export"
)

// Export formats accepted by the run export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type runFetcher interface {
	GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered timetable ready for download.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders stored runs into downloadable documents.
type ExportService struct {
	runs     runFetcher
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	pdfTitle string
}

// NewExportService constructs an ExportService.
func NewExportService(runs runFetcher, csv csvRenderer, pdf pdfRenderer, pdfTitle string, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{runs: runs, csv: csv, pdf: pdf, logger: logger, pdfTitle: pdfTitle}
}

// ExportRun renders one run into the requested format.
func (s *ExportService) ExportRun(ctx context.Context, runID, format string) (*ExportResult, error) {
	run, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	dataset := timetableDataset(run.Entries)

	switch strings.ToLower(format) {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Payload:     payload,
			ContentType: "text/csv",
			Filename:    exportFilename(run.Run, ExportFormatCSV),
		}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("%s - %s v%d", s.pdfTitle, run.Run.TermID, run.Run.Version)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Payload:     payload,
			ContentType: "application/pdf",
			Filename:    exportFilename(run.Run, ExportFormatPDF),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func timetableDataset(entries []models.TimetableEntry) export.Dataset {
	headers := []string{"Section", "Course", "Type", "Instructor", "Room", "Slot", "Day", "Start", "End"}
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"Section":    e.SectionID,
			"Course":     e.CourseID,
			"Type":       string(e.Type),
			"Instructor": e.Instructor,
			"Room":       e.Room,
			"Slot":       e.TimeSlotID,
			"Day":        e.Day,
			"Start":      e.StartTime,
			"End":        e.EndTime,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func exportFilename(run models.SolverRun, format string) string {
	term := strings.NewReplacer(" ", "_", "/", "-").Replace(run.TermID)
	return fmt.Sprintf("timetable_%s_v%d.%s", term, run.Version, format)
}
