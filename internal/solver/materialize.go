package solver

import "github.com/deptsched/timetable-api/internal/models"

// Materialize expands committed assignments into one timetable row per
// covered section. Row order follows the result's priority-sorted session
// order, then section order within a session. Sessions without a committed
// placement emit nothing. The expansion is pure: running it twice over the
// same result yields identical rows.
func Materialize(res Result, slots []models.TimeSlot) []models.TimetableEntry {
	slotByID := make(map[string]models.TimeSlot, len(slots))
	for _, s := range slots {
		slotByID[s.ID] = s
	}

	var rows []models.TimetableEntry
	for _, session := range res.Sessions {
		placement, ok := res.Assignments[session.VariableName]
		if !ok {
			continue
		}
		slot := slotByID[placement.TimeSlotID]
		for _, sectionID := range session.Sections {
			rows = append(rows, models.TimetableEntry{
				SectionID:  sectionID,
				CourseID:   session.CourseID,
				Type:       session.Type,
				Instructor: placement.Instructor,
				Room:       placement.Room,
				TimeSlotID: placement.TimeSlotID,
				Day:        slot.Day,
				StartTime:  slot.StartTime,
				EndTime:    slot.EndTime,
			})
		}
	}
	return rows
}
