// Package layout assigns side-by-side columns to overlapping calendar items
// so a day view can render them next to each other instead of stacked.
package layout

import (
	"sort"

	"dayplan-cli/internal/interval"
)

// MaxColumns caps how many columns an overlap group may spread across.
// Beyond this the day view becomes unreadably narrow, so additional items
// stack into the last column instead.
const MaxColumns = 3

// Item is a calendar entry (event or scheduled task) for a single day.
type Item struct {
	ID       string
	Interval interval.Interval
}

// Placement is the column assignment for one item.
// Column is 0-based; Columns is the width divisor for the item's overlap
// group. Callers derive fractional width (1/Columns) and horizontal offset
// (Column/Columns) from it.
type Placement struct {
	Column  int
	Columns int
}

// Compute assigns a Placement to every item.
//
// Items are swept in start order. An item joins the current overlap group when
// its start lies strictly before the end of any member (transitive overlap via
// group membership); touching at a boundary starts a new group. This is a full
// recompute: call it again whenever the day's item set changes.
func Compute(items []Item) map[string]Placement {
	out := make(map[string]Placement, len(items))
	if len(items) == 0 {
		return out
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Interval.Start < sorted[j].Interval.Start
	})

	group := []Item{sorted[0]}
	groupEnd := sorted[0].Interval.End

	flush := func() {
		cols := len(group)
		if cols > MaxColumns {
			cols = MaxColumns
		}
		for i, it := range group {
			col := i
			if col > cols-1 {
				// Overflow items stack into the last column rather than
				// growing the group wider. Not a true interval-graph
				// coloring; see MaxColumns.
				col = cols - 1
			}
			out[it.ID] = Placement{Column: col, Columns: cols}
		}
	}

	for _, it := range sorted[1:] {
		if it.Interval.Start < groupEnd {
			group = append(group, it)
			if it.Interval.End > groupEnd {
				groupEnd = it.Interval.End
			}
			continue
		}
		flush()
		group = []Item{it}
		groupEnd = it.Interval.End
	}
	flush()

	return out
}
