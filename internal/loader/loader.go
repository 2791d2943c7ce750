// Package loader shapes roster CSV tables into the resolved domain model the
// solver consumes. All free-text resolution (role categories, room kinds,
// blocked-day preferences, course code casing) happens here, once.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

// CSV table file names expected in the import directory.
const (
	InstructorsFile = "Instructors.csv"
	RoomsFile       = "Rooms.csv"
	TimeSlotsFile   = "TimeSlots.csv"
	CoursesFile     = "Courses.csv"
	SectionsFile    = "Sections.csv"
)

// InstructorRecord mirrors one row of Instructors.csv.
type InstructorRecord struct {
	Name             string `csv:"Name"`
	Role             string `csv:"Role"`
	QualifiedCourses string `csv:"QualifiedCourses"`
	PreferredSlots   string `csv:"PreferredSlots"`
}

// RoomRecord mirrors one row of Rooms.csv.
type RoomRecord struct {
	RoomID string `csv:"RoomID"`
	Type   string `csv:"Type"`
}

// TimeSlotRecord mirrors one row of TimeSlots.csv.
type TimeSlotRecord struct {
	TimeSlotID string `csv:"TimeSlotID"`
	Day        string `csv:"Day"`
	StartTime  string `csv:"StartTime"`
	EndTime    string `csv:"EndTime"`
}

// CourseRecord mirrors one row of Courses.csv.
type CourseRecord struct {
	CourseID string `csv:"CourseID"`
	Title    string `csv:"CourseName"`
	Type     string `csv:"Type"`
}

// SectionRecord mirrors one row of Sections.csv.
type SectionRecord struct {
	SectionID string `csv:"SectionID"`
	Courses   string `csv:"Courses"`
}

// Roster is the fully resolved input of one solver run.
type Roster struct {
	Instructors []models.Instructor
	Rooms       []models.Room
	TimeSlots   []models.TimeSlot
	Courses     []models.Course
	Sections    []models.Section
	Groups      []models.Group
}

// LoadRoster reads and resolves every roster table from dir. A missing or
// unreadable table is fatal: the run aborts before any scheduling starts.
func LoadRoster(dir string) (*Roster, error) {
	var (
		instructorRecs []*InstructorRecord
		roomRecs       []*RoomRecord
		slotRecs       []*TimeSlotRecord
		courseRecs     []*CourseRecord
		sectionRecs    []*SectionRecord
	)

	if err := readTable(dir, InstructorsFile, &instructorRecs); err != nil {
		return nil, err
	}
	if err := readTable(dir, RoomsFile, &roomRecs); err != nil {
		return nil, err
	}
	if err := readTable(dir, TimeSlotsFile, &slotRecs); err != nil {
		return nil, err
	}
	if err := readTable(dir, CoursesFile, &courseRecs); err != nil {
		return nil, err
	}
	if err := readTable(dir, SectionsFile, &sectionRecs); err != nil {
		return nil, err
	}

	roster := &Roster{}

	for _, rec := range instructorRecs {
		roster.Instructors = append(roster.Instructors, ResolveInstructor(*rec))
	}
	for _, rec := range roomRecs {
		room, ok := ResolveRoom(*rec)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidInput,
				fmt.Sprintf("room %s has unrecognized type %q", rec.RoomID, rec.Type))
		}
		roster.Rooms = append(roster.Rooms, room)
	}
	for i, rec := range slotRecs {
		roster.TimeSlots = append(roster.TimeSlots, models.TimeSlot{
			ID:        rec.TimeSlotID,
			Day:       rec.Day,
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
			Position:  i,
		})
	}
	for _, rec := range courseRecs {
		roster.Courses = append(roster.Courses, models.Course{
			ID:    strings.ToUpper(strings.TrimSpace(rec.CourseID)),
			Title: rec.Title,
			Type:  rec.Type,
		})
	}

	roster.Groups = DeriveGroups()
	sectionToGroup := SectionGroupIndex(roster.Groups)
	for _, rec := range sectionRecs {
		group, ok := sectionToGroup[rec.SectionID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidInput,
				fmt.Sprintf("section %s does not belong to any group", rec.SectionID))
		}
		roster.Sections = append(roster.Sections, models.Section{
			ID:        rec.SectionID,
			GroupName: group,
			Courses:   SplitCourseList(rec.Courses),
		})
	}

	return roster, nil
}

func readTable(dir, name string, out interface{}) error {
	path := filepath.Join(dir, name)
	file, err := os.Open(path)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status,
			fmt.Sprintf("missing roster table %s", name))
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status,
			fmt.Sprintf("malformed roster table %s", name))
	}
	return nil
}

// ResolveInstructor maps a raw roster row onto the domain model, resolving
// the role category and the soft blocked-day preference.
func ResolveInstructor(rec InstructorRecord) models.Instructor {
	return models.Instructor{
		Name:             rec.Name,
		Role:             rec.Role,
		RoleCategory:     models.ResolveRoleCategory(rec.Role),
		QualifiedCourses: SplitCourseList(rec.QualifiedCourses),
		BlockedDay:       ParseBlockedDay(rec.PreferredSlots),
	}
}

// ResolveRoom maps a raw room row onto the domain model.
func ResolveRoom(rec RoomRecord) (models.Room, bool) {
	kind, ok := models.ResolveRoomKind(rec.Type)
	if !ok {
		return models.Room{}, false
	}
	return models.Room{ID: rec.RoomID, Type: rec.Type, Kind: kind}, true
}

// ParseBlockedDay extracts the soft "not on <day>" preference from free text.
// The returned day is lowercased; absence of the phrase means no preference.
func ParseBlockedDay(pref string) string {
	lowered := strings.ToLower(pref)
	idx := strings.LastIndex(lowered, "not on")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(lowered[idx+len("not on"):])
}

// SplitCourseList parses a comma-separated course code list, trimming and
// uppercasing each code.
func SplitCourseList(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.ToUpper(strings.TrimSpace(part))
		if trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
}
