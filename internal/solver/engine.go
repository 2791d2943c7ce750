package solver

import (
	"math/rand"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/models"
)

// Placement is a committed (instructor, room, timeslot) triple.
type Placement struct {
	Instructor string `json:"instructor"`
	Room       string `json:"room"`
	TimeSlotID string `json:"time_slot_id"`
}

// Result collects everything a run produced. Sessions holds the processed
// sessions in priority order; Assignments maps variable names to committed
// placements; Failures lists the sessions that could not be placed.
type Result struct {
	Sessions    []models.Session
	Assignments map[string]Placement
	Failures    []models.PlacementFailure
}

// Assigned returns the number of committed sessions.
func (r Result) Assigned() int { return len(r.Assignments) }

// Engine runs the greedy first-fit assignment. It owns all mutable state for
// the duration of a run and is not safe for reuse across runs.
type Engine struct {
	filter  *CandidateFilter
	spread  *DaySpread
	tracker *Tracker
	rng     *rand.Rand
	logger  *zap.Logger
}

// NewEngine builds an engine over the resolved roster. The seed fixes the
// instructor/room shuffle order so runs are reproducible.
func NewEngine(instructors []models.Instructor, rooms []models.Room, slots []models.TimeSlot, seed int64, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		filter:  NewCandidateFilter(instructors, rooms),
		spread:  NewDaySpread(slots),
		tracker: NewTracker(),
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
	}
}

// SortSessions orders sessions hardest-first: lectures before labs, then by
// descending covered-section count. The sort is stable so equal sessions keep
// their input order.
func SortSessions(sessions []models.Session) []models.Session {
	sorted := make([]models.Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := sorted[i].Type == models.SessionLecture, sorted[j].Type == models.SessionLecture
		if li != lj {
			return li
		}
		return len(sorted[i].Sections) > len(sorted[j].Sections)
	})
	return sorted
}

// Solve processes every session exactly once, committing the first feasible
// combination or recording a failure. Earlier commits are never revisited, so
// a greedy early choice can starve a later session.
func (e *Engine) Solve(sessions []models.Session) Result {
	res := Result{
		Sessions:    SortSessions(sessions),
		Assignments: make(map[string]Placement, len(sessions)),
	}

	for _, session := range res.Sessions {
		instructors := e.filter.EligibleInstructors(session)
		if len(instructors) == 0 {
			res.Failures = append(res.Failures, models.PlacementFailure{
				VariableName: session.VariableName,
				CourseID:     session.CourseID,
				Type:         session.Type,
				Reason:       models.FailureNoInstructor,
			})
			continue
		}

		rooms := e.filter.EligibleRooms(session)
		slots := e.spread.OrderedSlots(session.Group)

		instructors = e.shuffledInstructors(instructors)
		rooms = e.shuffledRooms(rooms)

		placed := e.place(session, instructors, rooms, slots, &res, true)
		if !placed {
			// The blocked-day preference is soft: when honoring it leaves no
			// feasible combination, retry the same search order without it.
			placed = e.place(session, instructors, rooms, slots, &res, false)
		}
		if !placed {
			res.Failures = append(res.Failures, models.PlacementFailure{
				VariableName: session.VariableName,
				CourseID:     session.CourseID,
				Type:         session.Type,
				Reason:       models.FailureNoCombination,
			})
		}
	}

	e.logger.Debug("solver run finished",
		zap.Int("sessions", len(res.Sessions)),
		zap.Int("assigned", len(res.Assignments)),
		zap.Int("failed", len(res.Failures)),
	)
	return res
}

// place walks instructor × timeslot × room and commits the first combination
// that passes every check.
func (e *Engine) place(session models.Session, instructors []models.Instructor, rooms []models.Room, slots []models.TimeSlot, res *Result, honorPrefs bool) bool {
	for _, inst := range instructors {
		for _, slot := range slots {
			// Soft preference: skip the slot for this instructor only.
			if honorPrefs && inst.BlockedDay != "" && strings.Contains(strings.ToLower(slot.Day), inst.BlockedDay) {
				continue
			}
			if !e.tracker.InstructorFree(inst.Name, slot.ID) {
				continue
			}
			if !e.tracker.SectionsFree(session.Sections, slot.ID) {
				continue
			}
			for _, room := range rooms {
				if !e.tracker.RoomFree(room.ID, slot.ID) {
					continue
				}
				e.tracker.Commit(inst.Name, room.ID, session.Sections, slot.ID)
				e.spread.MarkUsed(session.Group, slot.Day)
				res.Assignments[session.VariableName] = Placement{
					Instructor: inst.Name,
					Room:       room.ID,
					TimeSlotID: slot.ID,
				}
				return true
			}
		}
	}
	return false
}

// GroupDays exposes the day-spread usage for run metadata.
func (e *Engine) GroupDays(group string) []string {
	return e.spread.DaysUsed(group)
}

func (e *Engine) shuffledInstructors(in []models.Instructor) []models.Instructor {
	out := make([]models.Instructor, len(in))
	copy(out, in)
	e.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (e *Engine) shuffledRooms(in []models.Room) []models.Room {
	out := make([]models.Room, len(in))
	copy(out, in)
	e.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
