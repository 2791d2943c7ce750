package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/loader"
	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type instructorStore interface {
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, instructors []models.Instructor) error
	List(ctx context.Context) ([]models.Instructor, error)
}

type roomStore interface {
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, rooms []models.Room) error
	List(ctx context.Context) ([]models.Room, error)
}

type timeSlotStore interface {
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, slots []models.TimeSlot) error
	List(ctx context.Context) ([]models.TimeSlot, error)
}

type courseStore interface {
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, courses []models.Course) error
	List(ctx context.Context) ([]models.Course, error)
}

type sectionStore interface {
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, sections []models.Section) error
	List(ctx context.Context) ([]models.Section, error)
}

type rosterLoader func(dir string) (*loader.Roster, error)

// RosterService imports CSV roster drops and serves the stored roster tables.
type RosterService struct {
	instructors instructorStore
	rooms       roomStore
	timeSlots   timeSlotStore
	courses     courseStore
	sections    sectionStore
	tx          txProvider
	load        rosterLoader
	logger      *zap.Logger
	importDir   string
}

// NewRosterService wires roster dependencies.
func NewRosterService(
	instructors instructorStore,
	rooms roomStore,
	timeSlots timeSlotStore,
	courses courseStore,
	sections sectionStore,
	tx txProvider,
	logger *zap.Logger,
	importDir string,
) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		instructors: instructors,
		rooms:       rooms,
		timeSlots:   timeSlots,
		courses:     courses,
		sections:    sections,
		tx:          tx,
		load:        loader.LoadRoster,
		logger:      logger,
		importDir:   importDir,
	}
}

// Import reads the CSV tables from the drop directory and replaces every
// stored roster table in a single transaction.
func (s *RosterService) Import(ctx context.Context, req dto.ImportRosterRequest) (*dto.ImportRosterResponse, error) {
	dir := req.Dir
	if dir == "" {
		dir = s.importDir
	}

	roster, err := s.load(dir)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.instructors.ReplaceAll(ctx, tx, roster.Instructors); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store instructors")
	}
	if err := s.rooms.ReplaceAll(ctx, tx, roster.Rooms); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store rooms")
	}
	if err := s.timeSlots.ReplaceAll(ctx, tx, roster.TimeSlots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store time slots")
	}
	if err := s.courses.ReplaceAll(ctx, tx, roster.Courses); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store courses")
	}
	if err := s.sections.ReplaceAll(ctx, tx, roster.Sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store sections")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit roster import")
	}

	s.logger.Info("roster imported",
		zap.String("dir", dir),
		zap.Int("instructors", len(roster.Instructors)),
		zap.Int("rooms", len(roster.Rooms)),
		zap.Int("time_slots", len(roster.TimeSlots)),
		zap.Int("courses", len(roster.Courses)),
		zap.Int("sections", len(roster.Sections)),
	)

	return &dto.ImportRosterResponse{
		Instructors: len(roster.Instructors),
		Rooms:       len(roster.Rooms),
		TimeSlots:   len(roster.TimeSlots),
		Courses:     len(roster.Courses),
		Sections:    len(roster.Sections),
	}, nil
}

// ListInstructors returns the stored instructors.
func (s *RosterService) ListInstructors(ctx context.Context) ([]models.Instructor, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// ListRooms returns the stored rooms.
func (s *RosterService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// ListTimeSlots returns the stored time slots in table order.
func (s *RosterService) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.timeSlots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	return slots, nil
}
