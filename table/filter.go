package table

import "sort"

// SongChoices returns the sorted distinct non-missing song names, the
// values a user may filter on. It is nil when there is no name column.
func (t *Table) SongChoices() []string {
	names, missing := t.Strings(ColName)
	if names == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	choices := make([]string, 0)
	for i, n := range names {
		if missing[i] {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		choices = append(choices, n)
	}
	sort.Strings(choices)
	return choices
}

// Filter returns the rows whose name equals selection.
//
// An empty selection or AllSongs returns t itself. So does a table
// without a name column: there is nothing to filter on.
func (t *Table) Filter(selection string) *Table {
	if selection == "" || selection == AllSongs {
		return t
	}
	names, missing := t.Strings(ColName)
	if names == nil {
		return t
	}

	rows := make([]int, 0)
	for i, n := range names {
		if !missing[i] && n == selection {
			rows = append(rows, i)
		}
	}

	return &Table{df: t.df.Subset(rows)}
}
