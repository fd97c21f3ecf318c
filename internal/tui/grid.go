package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dayplan-cli/internal/agenda"
	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/layout"
)

// gridRowMinutes is the vertical resolution of the day grid. One rendered
// row covers this many minutes.
const gridRowMinutes = interval.SlotMinutes

type gridOptions struct {
	From       int
	To         int
	SelectedID string
	PlanWindow *interval.Interval
	Width      int
}

// renderDayGrid draws the agenda items for one day as a time grid. Items
// that overlap are laid out side by side in the columns the layout engine
// assigned them.
func renderDayGrid(items []agenda.Item, opts gridOptions) string {
	labelWidth := 6
	laneGap := 1
	lanes := layout.MaxColumns
	laneWidth := (opts.Width - labelWidth - lanes*laneGap) / lanes
	if laneWidth < 4 {
		laneWidth = 4
	}

	var b strings.Builder
	for rowStart := opts.From; rowStart < opts.To; rowStart += gridRowMinutes {
		if rowStart > opts.From {
			b.WriteString("\n")
		}

		label := "      "
		if rowStart%60 == 0 {
			label = interval.FormatClock(rowStart) + " "
		}
		inPlan := opts.PlanWindow != nil &&
			rowStart >= opts.PlanWindow.Start && rowStart < opts.PlanWindow.End
		if inPlan {
			b.WriteString(stylePlanWin.Render(label))
		} else {
			b.WriteString(styleHour.Render(label))
		}

		for lane := 0; lane < lanes; lane++ {
			b.WriteString(strings.Repeat(" ", laneGap))
			b.WriteString(renderCell(items, rowStart, lane, laneWidth, opts.SelectedID, inPlan))
		}
	}
	return b.String()
}

// renderCell draws one lane cell for the row starting at rowStart. An item
// occupies the cell when the row falls inside its interval and the lane
// matches its assigned column. Items in groups narrower than the full lane
// count stretch across the unused trailing lanes.
func renderCell(items []agenda.Item, rowStart, lane, width int, selectedID string, inPlan bool) string {
	for _, it := range items {
		if rowStart < it.Start || rowStart >= it.End {
			continue
		}
		occupies := it.Column == lane ||
			(it.Column == it.Columns-1 && lane >= it.Columns)
		if !occupies {
			continue
		}

		var text string
		if rowStart < it.Start+gridRowMinutes {
			text = truncate(it.Title, width)
		} else {
			text = "│" + truncate("", width-1)
		}
		st := cellStyle(it, selectedID)
		return st.Render(pad(text, width))
	}

	blank := pad("", width)
	if inPlan {
		return stylePlanWin.Render(blank)
	}
	return blank
}

func cellStyle(it agenda.Item, selectedID string) lipgloss.Style {
	if it.ID == selectedID {
		return styleSelected
	}
	if it.Kind == agenda.KindEvent {
		return styleEvent
	}
	return styleTask
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
