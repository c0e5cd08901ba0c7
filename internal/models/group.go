package models

import "strconv"

// DefaultGroupKey is the sentinel key for notes with no project reference.
const DefaultGroupKey = "default"

// ProjectGroup is a transient, display-only grouping of notes by project.
// It is rebuilt from the note list on every render and never persisted.
type ProjectGroup struct {
	Key     string
	Project string
	Notes   []Note
}

// GroupByProject groups notes by their project in a single pass over the
// input. Notes without a project land under DefaultGroupKey. The first note
// seen for a key establishes the group's project name; groups appear in
// first-encounter order and each group keeps its notes in input order.
//
// The function is pure: same input, same output, no retained state.
func GroupByProject(notes []Note) []ProjectGroup {
	groups := make([]ProjectGroup, 0)
	index := make(map[string]int)

	for _, note := range notes {
		key := DefaultGroupKey
		if note.ProjectID != nil {
			key = strconv.FormatInt(*note.ProjectID, 10)
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ProjectGroup{Key: key, Project: note.Project})
		}
		groups[i].Notes = append(groups[i].Notes, note)
	}

	return groups
}

// AllPublic reports whether every note in the group is public. Used by the
// project-level visibility checkbox state.
func (g *ProjectGroup) AllPublic() bool {
	for _, n := range g.Notes {
		if !n.IsPublic {
			return false
		}
	}
	return true
}
