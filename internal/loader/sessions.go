package loader

import (
	"fmt"

	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

// BuildSessions expands sections × courses into the session list the engine
// schedules: one lecture per (group, course), deduplicated across the group's
// sections, and one lab per section. A course reference that cannot be
// resolved is fatal.
func BuildSessions(courses []models.Course, sections []models.Section, groups []models.Group) ([]models.Session, error) {
	courseByID := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	groupSections := make(map[string][]string, len(groups))
	for _, g := range groups {
		groupSections[g.Name] = g.Sections
	}

	var sessions []models.Session
	lecturesDone := make(map[string]struct{})

	for _, section := range sections {
		if section.GroupName == "" {
			return nil, appErrors.Clone(appErrors.ErrInvalidInput,
				fmt.Sprintf("section %s has no group", section.ID))
		}
		for _, courseID := range section.Courses {
			course, ok := courseByID[courseID]
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrInvalidInput,
					fmt.Sprintf("section %s references unknown course %s", section.ID, courseID))
			}

			if course.HasLecture() {
				key := section.GroupName + "|" + courseID
				if _, done := lecturesDone[key]; !done {
					sessions = append(sessions, models.Session{
						Group:        section.GroupName,
						Sections:     groupSections[section.GroupName],
						CourseID:     courseID,
						Type:         models.SessionLecture,
						VariableName: fmt.Sprintf("%s_%s_LEC", section.GroupName, courseID),
					})
					lecturesDone[key] = struct{}{}
				}
			}

			if course.HasLab() {
				sessions = append(sessions, models.Session{
					Group:        section.GroupName,
					Sections:     []string{section.ID},
					CourseID:     courseID,
					Type:         models.SessionLab,
					VariableName: fmt.Sprintf("%s_%s_LAB", section.ID, courseID),
				})
			}
		}
	}

	return sessions, nil
}
