package loader

import (
	"fmt"

	"github.com/deptsched/timetable-api/internal/models"
)

// DeriveGroups returns the department's fixed section clustering. Sections in
// a group share lecture sessions but keep independent labs. Levels 1 and 2
// are clustered into cohorts of three sections; levels 3 and 4 are clustered
// by track token.
func DeriveGroups() []models.Group {
	var groups []models.Group

	// Level 1: 12 sections, four groups of three.
	for i := 0; i < 4; i++ {
		var sections []string
		for j := i * 3; j < (i+1)*3; j++ {
			sections = append(sections, fmt.Sprintf("S%d_L1", j+1))
		}
		groups = append(groups, models.Group{Name: fmt.Sprintf("L1_G%d", i+1), Sections: sections})
	}

	// Level 2: 9 sections, three groups of three.
	for i := 0; i < 3; i++ {
		var sections []string
		for j := i * 3; j < (i+1)*3; j++ {
			sections = append(sections, fmt.Sprintf("S%d_L2", j+1))
		}
		groups = append(groups, models.Group{Name: fmt.Sprintf("L2_G%d", i+1), Sections: sections})
	}

	// Levels 3 and 4 cluster by track.
	tracks := map[string]int{"AID": 4, "CNC": 4, "CSC": 1, "BIF": 1}
	for _, level := range []int{3, 4} {
		for _, track := range []string{"AID", "CNC", "CSC", "BIF"} {
			var sections []string
			for j := 1; j <= tracks[track]; j++ {
				sections = append(sections, fmt.Sprintf("S%d_%s_L%d", j, track, level))
			}
			groups = append(groups, models.Group{Name: fmt.Sprintf("L%d_%s", level, track), Sections: sections})
		}
	}

	return groups
}

// SectionGroupIndex builds the reverse section-to-group lookup.
func SectionGroupIndex(groups []models.Group) map[string]string {
	index := make(map[string]string)
	for _, g := range groups {
		for _, s := range g.Sections {
			index[s] = g.Name
		}
	}
	return index
}
