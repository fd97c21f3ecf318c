// Package interval provides minute-of-day time ranges and the free-slot
// computation shared by the planner and the agenda views.
//
// All values are integer minutes since local midnight; there is no sub-minute
// precision and no timezone awareness here. Callers resolve dates and clock
// strings into this coordinate space first.
package interval

import (
	"fmt"
	"regexp"
	"sort"
)

const (
	// SlotMinutes is the selection granularity of the planning UI. Window
	// anchors are quantized to this grid; the engine itself accepts any
	// minute values.
	SlotMinutes = 15

	MinutesPerDay = 24 * 60
)

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func New(start, end int) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval has positive extent.
func (iv Interval) Valid() bool {
	return iv.Start < iv.End
}

func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// Overlaps reports whether the two intervals strictly overlap.
// Touching at a boundary (a.End == b.Start) is not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether other lies fully within iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Clip truncates iv to bounds. The second return is false when the two do not
// overlap at all (the clipped interval would be empty).
func (iv Interval) Clip(bounds Interval) (Interval, bool) {
	out := iv
	if out.Start < bounds.Start {
		out.Start = bounds.Start
	}
	if out.End > bounds.End {
		out.End = bounds.End
	}
	if !out.Valid() {
		return Interval{}, false
	}
	return out, true
}

var reClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	var h, min int
	fmt.Sscanf(m[1], "%d", &h)
	fmt.Sscanf(m[2], "%d", &min)
	if h < 0 || h > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	return h*60 + min, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
// Minute 1440 renders as "24:00" so day-end boundaries stay printable.
func FormatClock(mins int) string {
	if mins < 0 {
		mins = 0
	}
	if mins > MinutesPerDay {
		mins = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// SnapDown rounds mins down to the nearest multiple of slot.
func SnapDown(mins, slot int) int {
	if slot <= 0 {
		return mins
	}
	if mins < 0 {
		return 0
	}
	return mins - mins%slot
}

// SnapUp rounds mins up to the nearest multiple of slot.
func SnapUp(mins, slot int) int {
	if slot <= 0 {
		return mins
	}
	if mins < 0 {
		return 0
	}
	if r := mins % slot; r != 0 {
		return mins + slot - r
	}
	return mins
}

// FreeSlots returns the maximal gaps inside bounds not covered by any occupied
// interval, in ascending order.
//
// Occupied intervals are clipped to bounds first; entries outside bounds are
// ignored. Overlapping occupied intervals are handled by the cursor sweep (the
// cursor only ever moves forward). An invalid bounds yields nil, and an empty
// occupied set yields the whole bounds as one slot.
func FreeSlots(occupied []Interval, bounds Interval) []Interval {
	if !bounds.Valid() {
		return nil
	}

	clipped := make([]Interval, 0, len(occupied))
	for _, oc := range occupied {
		if c, ok := oc.Clip(bounds); ok {
			clipped = append(clipped, c)
		}
	}
	sort.SliceStable(clipped, func(i, j int) bool { return clipped[i].Start < clipped[j].Start })

	var free []Interval
	cursor := bounds.Start
	for _, oc := range clipped {
		if cursor < oc.Start {
			free = append(free, Interval{Start: cursor, End: oc.Start})
		}
		if oc.End > cursor {
			cursor = oc.End
		}
	}
	if cursor < bounds.End {
		free = append(free, Interval{Start: cursor, End: bounds.End})
	}
	return free
}
