package solver

// Tracker holds the occupied-timeslot sets for instructors, rooms and
// sections. Sets only grow during a run; the engine is the single writer.
type Tracker struct {
	instructors map[string]map[string]struct{}
	rooms       map[string]map[string]struct{}
	sections    map[string]map[string]struct{}
}

// NewTracker returns an empty availability tracker.
func NewTracker() *Tracker {
	return &Tracker{
		instructors: make(map[string]map[string]struct{}),
		rooms:       make(map[string]map[string]struct{}),
		sections:    make(map[string]map[string]struct{}),
	}
}

// InstructorFree reports whether the instructor is unoccupied at the slot.
func (t *Tracker) InstructorFree(name, slotID string) bool {
	_, busy := t.instructors[name][slotID]
	return !busy
}

// RoomFree reports whether the room is unoccupied at the slot.
func (t *Tracker) RoomFree(roomID, slotID string) bool {
	_, busy := t.rooms[roomID][slotID]
	return !busy
}

// SectionsFree reports whether every listed section is unoccupied at the slot.
func (t *Tracker) SectionsFree(sectionIDs []string, slotID string) bool {
	for _, id := range sectionIDs {
		if _, busy := t.sections[id][slotID]; busy {
			return false
		}
	}
	return true
}

// Commit marks the slot occupied for the instructor, the room and every
// covered section in one step. Callers must have verified availability first;
// the commit itself never partially applies.
func (t *Tracker) Commit(instructor, roomID string, sectionIDs []string, slotID string) {
	occupy(t.instructors, instructor, slotID)
	occupy(t.rooms, roomID, slotID)
	for _, id := range sectionIDs {
		occupy(t.sections, id, slotID)
	}
}

// InstructorLoad returns the number of slots occupied for an instructor.
func (t *Tracker) InstructorLoad(name string) int {
	return len(t.instructors[name])
}

func occupy(m map[string]map[string]struct{}, key, slotID string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[slotID] = struct{}{}
}
