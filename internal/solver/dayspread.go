package solver

import (
	"sort"

	"github.com/deptsched/timetable-api/internal/models"
)

// DaySpread biases the timeslot search order so each group's sessions spread
// across the week. The ordering is advisory: it never excludes a slot.
type DaySpread struct {
	slots []models.TimeSlot
	byDay map[string][]models.TimeSlot
	used  map[string]map[string]struct{}
}

// NewDaySpread indexes the timeslot table. Slot order within a day follows
// the table order.
func NewDaySpread(slots []models.TimeSlot) *DaySpread {
	d := &DaySpread{
		slots: slots,
		byDay: make(map[string][]models.TimeSlot),
		used:  make(map[string]map[string]struct{}),
	}
	for _, s := range slots {
		d.byDay[s.Day] = append(d.byDay[s.Day], s)
	}
	return d
}

// OrderedSlots returns all timeslots, slots on days the group has not used
// yet first (in fixed weekday order), then the rest in table order. Once the
// group has touched every weekday the preference collapses to the plain
// weekday-ordered list.
func (d *DaySpread) OrderedSlots(group string) []models.TimeSlot {
	usedDays := d.used[group]

	var freshDays []string
	for _, day := range models.Weekdays {
		if _, ok := usedDays[day]; !ok {
			freshDays = append(freshDays, day)
		}
	}
	if len(freshDays) == 0 {
		freshDays = append(freshDays, models.Weekdays...)
	}

	ordered := make([]models.TimeSlot, 0, len(d.slots))
	seen := make(map[string]struct{}, len(d.slots))
	for _, day := range freshDays {
		for _, s := range d.byDay[day] {
			if _, ok := seen[s.ID]; ok {
				continue
			}
			seen[s.ID] = struct{}{}
			ordered = append(ordered, s)
		}
	}
	for _, s := range d.slots {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		ordered = append(ordered, s)
	}
	return ordered
}

// MarkUsed records that the group now occupies the given day.
func (d *DaySpread) MarkUsed(group, day string) {
	set, ok := d.used[group]
	if !ok {
		set = make(map[string]struct{})
		d.used[group] = set
	}
	set[day] = struct{}{}
}

// DaysUsed returns the sorted days a group occupies, for run metadata.
func (d *DaySpread) DaysUsed(group string) []string {
	set := d.used[group]
	days := make([]string, 0, len(set))
	for day := range set {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
