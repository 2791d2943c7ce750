package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/models"
)

func spreadSlots() []models.TimeSlot {
	return []models.TimeSlot{
		slot("SUN1", "Sunday", "08:00", "09:30", 0),
		slot("MON1", "Monday", "08:00", "09:30", 1),
		slot("MON2", "Monday", "09:45", "11:15", 2),
		slot("TUE1", "Tuesday", "08:00", "09:30", 3),
	}
}

func ids(slots []models.TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}

func TestOrderedSlotsPrefersFreshDays(t *testing.T) {
	spread := NewDaySpread(spreadSlots())
	spread.MarkUsed("G1", "Monday")

	ordered := spread.OrderedSlots("G1")

	// Fresh days in weekday order first, then the used Monday slots in table order.
	assert.Equal(t, []string{"SUN1", "TUE1", "MON1", "MON2"}, ids(ordered))
}

func TestOrderedSlotsFreshGroupFollowsWeekdayOrder(t *testing.T) {
	spread := NewDaySpread(spreadSlots())

	ordered := spread.OrderedSlots("G1")

	assert.Equal(t, []string{"SUN1", "MON1", "MON2", "TUE1"}, ids(ordered))
}

func TestOrderedSlotsCollapsesWhenAllDaysUsed(t *testing.T) {
	spread := NewDaySpread(spreadSlots())
	for _, day := range models.Weekdays {
		spread.MarkUsed("G1", day)
	}

	ordered := spread.OrderedSlots("G1")

	require.Len(t, ordered, 4)
	assert.Equal(t, []string{"SUN1", "MON1", "MON2", "TUE1"}, ids(ordered))
}

func TestOrderedSlotsNeverDropsSlots(t *testing.T) {
	spread := NewDaySpread(spreadSlots())
	spread.MarkUsed("G1", "Sunday")
	spread.MarkUsed("G1", "Monday")
	spread.MarkUsed("G1", "Tuesday")

	ordered := spread.OrderedSlots("G1")

	assert.Len(t, ordered, 4, "ordering is advisory, no slot may be excluded")
}

func TestDaysUsedIsPerGroup(t *testing.T) {
	spread := NewDaySpread(spreadSlots())
	spread.MarkUsed("G1", "Monday")
	spread.MarkUsed("G2", "Tuesday")

	assert.Equal(t, []string{"Monday"}, spread.DaysUsed("G1"))
	assert.Equal(t, []string{"Tuesday"}, spread.DaysUsed("G2"))
	assert.Empty(t, spread.DaysUsed("G3"))
}
