package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/models"
)

func TestMaterializeExpandsPerSection(t *testing.T) {
	instructors, rooms, slots, sessions := cohortRoster()
	res := NewEngine(instructors, rooms, slots, 42, nil).Solve(sessions)

	rows := Materialize(res, slots)

	// 3 lecture rows (one per section) + 3 lab rows.
	require.Len(t, rows, 6)

	lectureRows := rows[:3]
	for i, row := range lectureRows {
		assert.Equal(t, res.Sessions[0].Sections[i], row.SectionID)
		assert.Equal(t, models.SessionLecture, row.Type)
		assert.Equal(t, lectureRows[0].TimeSlotID, row.TimeSlotID)
		assert.Equal(t, lectureRows[0].Room, row.Room)
		assert.Equal(t, lectureRows[0].Instructor, row.Instructor)
		assert.NotEmpty(t, row.Day)
		assert.NotEmpty(t, row.StartTime)
		assert.NotEmpty(t, row.EndTime)
	}

	for _, row := range rows[3:] {
		assert.Equal(t, models.SessionLab, row.Type)
	}
}

func TestMaterializeSkipsUncommittedSessions(t *testing.T) {
	slots := []models.TimeSlot{slot("T1", "Sunday", "08:00", "09:30", 0)}
	res := Result{
		Sessions: []models.Session{
			{Group: "G1", Sections: []string{"S1"}, CourseID: "CS101", Type: models.SessionLecture, VariableName: "placed"},
			{Group: "G2", Sections: []string{"S2"}, CourseID: "CS102", Type: models.SessionLecture, VariableName: "unplaced"},
		},
		Assignments: map[string]Placement{
			"placed": {Instructor: "Dr. Salem", Room: "H1", TimeSlotID: "T1"},
		},
	}

	rows := Materialize(res, slots)

	require.Len(t, rows, 1)
	assert.Equal(t, "S1", rows[0].SectionID)
	assert.Equal(t, "Sunday", rows[0].Day)
	assert.Equal(t, "08:00", rows[0].StartTime)
	assert.Equal(t, "09:30", rows[0].EndTime)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	instructors, rooms, slots, sessions := cohortRoster()
	res := NewEngine(instructors, rooms, slots, 42, nil).Solve(sessions)

	first := Materialize(res, slots)
	second := Materialize(res, slots)

	assert.Equal(t, first, second)
}
