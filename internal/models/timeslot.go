package models

// Weekdays is the fixed teaching week, in scheduling order.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

// KnownWeekday reports whether day is part of the teaching week.
func KnownWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// TimeSlot is one cell of the scheduling grid. Position preserves the roster
// table order, which the day-spread heuristic depends on.
type TimeSlot struct {
	ID        string `db:"id" json:"id"`
	Day       string `db:"day" json:"day"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Position  int    `db:"position" json:"position"`
}
