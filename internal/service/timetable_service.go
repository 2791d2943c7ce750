package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/loader"
	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/solver"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type instructorReader interface {
	List(ctx context.Context) ([]models.Instructor, error)
}

type roomReader interface {
	List(ctx context.Context) ([]models.Room, error)
}

type timeSlotReader interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
}

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
}

type sectionReader interface {
	List(ctx context.Context) ([]models.Section, error)
}

type runRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, run *models.SolverRun) error
	InsertEntries(ctx context.Context, exec sqlx.ExtContext, runID string, entries []models.TimetableEntry) error
	InsertFailures(ctx context.Context, exec sqlx.ExtContext, runID string, failures []models.PlacementFailure) error
	ListByTerm(ctx context.Context, termID string) ([]models.SolverRun, error)
	FindByID(ctx context.Context, id string) (*models.SolverRun, error)
	ListEntries(ctx context.Context, runID string) ([]models.TimetableEntry, error)
	ListFailures(ctx context.Context, runID string) ([]models.PlacementFailure, error)
	Delete(ctx context.Context, id string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type solverMetrics interface {
	ObserveSolverRun(outcome string, assigned, failed int, duration time.Duration)
}

// TimetableConfig tunes timetable generation.
type TimetableConfig struct {
	// Seed fixes the engine RNG when non-zero; zero draws a fresh seed per run.
	Seed        int64
	CacheTTL    time.Duration
	MaxSessions int
}

// TimetableService runs the assignment engine over the stored roster and
// manages the resulting versioned runs.
type TimetableService struct {
	instructors instructorReader
	rooms       roomReader
	timeSlots   timeSlotReader
	courses     courseReader
	sections    sectionReader
	runs        runRepository
	tx          txProvider
	cache       *redis.Client
	metrics     solverMetrics
	validator   *validator.Validate
	logger      *zap.Logger
	config      TimetableConfig
}

// NewTimetableService wires solver dependencies. The cache and metrics
// collaborators are optional.
func NewTimetableService(
	instructors instructorReader,
	rooms roomReader,
	timeSlots timeSlotReader,
	courses courseReader,
	sections sectionReader,
	runs runRepository,
	tx txProvider,
	cache *redis.Client,
	metrics solverMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 2048
	}
	return &TimetableService{
		instructors: instructors,
		rooms:       rooms,
		timeSlots:   timeSlots,
		courses:     courses,
		sections:    sections,
		runs:        runs,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		config:      cfg,
	}
}

func latestRunCacheKey(termID string) string {
	return fmt.Sprintf("timetable:latest:%s", termID)
}

// Generate loads the stored roster, runs the engine and persists a new
// versioned run with its rows and failures in one transaction.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableRunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	started := time.Now()

	roster, err := s.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := loader.BuildSessions(roster.Courses, roster.Sections, roster.Groups)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "roster produced no sessions to schedule")
	}
	if len(sessions) > s.config.MaxSessions {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("roster produces %d sessions, limit is %d", len(sessions), s.config.MaxSessions))
	}

	seed := s.resolveSeed(req.Seed)
	engine := solver.NewEngine(roster.Instructors, roster.Rooms, roster.TimeSlots, seed, s.logger)
	result := engine.Solve(sessions)

	if result.Assigned() == 0 {
		if s.metrics != nil {
			s.metrics.ObserveSolverRun("empty", 0, len(result.Failures), time.Since(started))
		}
		return nil, appErrors.Clone(appErrors.ErrEmptyResult, "")
	}

	entries := solver.Materialize(result, roster.TimeSlots)
	groupDays := s.collectGroupDays(engine, roster.Groups)

	meta, err := json.Marshal(map[string]interface{}{"group_days": groupDays})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode run metadata")
	}

	run := &models.SolverRun{
		TermID:   req.TermID,
		Seed:     seed,
		Status:   models.SolverRunStatusDraft,
		Assigned: result.Assigned(),
		Failed:   len(result.Failures),
		Meta:     types.JSONText(meta),
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.runs.CreateVersioned(ctx, tx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist run")
	}
	if err := s.runs.InsertEntries(ctx, tx, run.ID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable rows")
	}
	if err := s.runs.InsertFailures(ctx, tx, run.ID, result.Failures); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist placement failures")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit run")
	}

	s.cacheLatestRun(ctx, run)

	if s.metrics != nil {
		s.metrics.ObserveSolverRun("ok", run.Assigned, run.Failed, time.Since(started))
	}
	s.logger.Info("timetable generated",
		zap.String("run_id", run.ID),
		zap.String("term_id", run.TermID),
		zap.Int("version", run.Version),
		zap.Int64("seed", run.Seed),
		zap.Int("assigned", run.Assigned),
		zap.Int("failed", run.Failed),
	)

	return &dto.TimetableRunResponse{
		Run:       *run,
		Entries:   entries,
		Failures:  result.Failures,
		GroupDays: groupDays,
	}, nil
}

// ListRuns returns every run version for a term, newest first.
func (s *TimetableService) ListRuns(ctx context.Context, termID string) ([]models.SolverRun, error) {
	if termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}
	runs, err := s.runs.ListByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list runs")
	}
	return runs, nil
}

// GetRun loads a run with its rows and failures.
func (s *TimetableService) GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}
	entries, err := s.runs.ListEntries(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable rows")
	}
	failures, err := s.runs.ListFailures(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placement failures")
	}
	return &dto.TimetableRunResponse{Run: *run, Entries: entries, Failures: failures}, nil
}

// DeleteRun removes a run and drops the latest-run cache entry for its term.
func (s *TimetableService) DeleteRun(ctx context.Context, id string) error {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete run")
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, latestRunCacheKey(run.TermID)).Err(); err != nil {
			s.logger.Warn("failed to drop latest-run cache", zap.Error(err))
		}
	}
	return nil
}

func (s *TimetableService) loadRoster(ctx context.Context) (*loader.Roster, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	slots, err := s.timeSlots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}

	// An absent roster table is fatal before any scheduling starts.
	switch {
	case len(instructors) == 0:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "no instructors loaded; import the roster first")
	case len(rooms) == 0:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "no rooms loaded; import the roster first")
	case len(slots) == 0:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "no time slots loaded; import the roster first")
	case len(courses) == 0:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "no courses loaded; import the roster first")
	case len(sections) == 0:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "no sections loaded; import the roster first")
	}

	groups := groupsFromSections(sections)

	return &loader.Roster{
		Instructors: instructors,
		Rooms:       rooms,
		TimeSlots:   slots,
		Courses:     courses,
		Sections:    sections,
		Groups:      groups,
	}, nil
}

func (s *TimetableService) resolveSeed(override *int64) int64 {
	if override != nil {
		return *override
	}
	if s.config.Seed != 0 {
		return s.config.Seed
	}
	return time.Now().UnixNano()
}

func (s *TimetableService) collectGroupDays(engine *solver.Engine, groups []models.Group) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, g := range groups {
		if days := engine.GroupDays(g.Name); len(days) > 0 {
			out[g.Name] = days
		}
	}
	return out
}

// cacheLatestRun is best effort; a cache outage never fails a run.
func (s *TimetableService) cacheLatestRun(ctx context.Context, run *models.SolverRun) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(run)
	if err != nil {
		s.logger.Warn("failed to encode run for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, latestRunCacheKey(run.TermID), payload, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache latest run", zap.Error(err))
	}
}

// groupsFromSections rebuilds the group list from stored sections, preserving
// section order within each group.
func groupsFromSections(sections []models.Section) []models.Group {
	index := make(map[string]int)
	var groups []models.Group
	for _, section := range sections {
		i, ok := index[section.GroupName]
		if !ok {
			i = len(groups)
			index[section.GroupName] = i
			groups = append(groups, models.Group{Name: section.GroupName})
		}
		groups[i].Sections = append(groups[i].Sections, section.ID)
	}
	return groups
}
