// Package plan schedules unplanned tasks into the free gaps of a day window.
//
// The engine is a pure function of its arguments: candidates in, placements
// out. Strategy selection lives on a per-session Registry rather than in
// package state so independent planning sessions never interfere.
package plan

import (
	"sort"

	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"
)

// Candidate is a task offered to the scheduler for one specific day.
// DateMatched is computed by the caller: true when the task's due or scheduled
// date equals the day being planned.
type Candidate struct {
	Task        model.Task
	DateMatched bool
}

// Placement assigns a candidate task a concrete [Start, End) inside the
// planning window. End-Start always equals the task's effective duration.
type Placement struct {
	Task  model.Task
	Start int
	End   int
}

func (p Placement) Interval() interval.Interval {
	return interval.New(p.Start, p.End)
}

// Strategy decides which candidates to place and where. Implementations must
// be pure: no retained state between calls, so concurrent sessions are safe.
type Strategy interface {
	Schedule(cands []Candidate, occupied []interval.Interval, window interval.Interval) []Placement
}

// Rank orders candidates for placement:
//
//  1. date-matched tasks before the rest (same-day urgency wins),
//  2. then shorter effective duration (quick wins before one large task
//     starves many small ones),
//  3. then higher priority.
//
// The sort is stable, so fully tied candidates keep their input order.
// The input slice is not modified.
func Rank(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DateMatched != b.DateMatched {
			return a.DateMatched
		}
		da, db := a.Task.EffectiveDuration(), b.Task.EffectiveDuration()
		if da != db {
			return da < db
		}
		return a.Task.EffectivePriority() > b.Task.EffectivePriority()
	})
	return out
}

// greedyStrategy is the default policy: rank, then a single forward pass over
// the free slots. A task that does not fit the remaining space of the current
// slot is skipped for good, even if a later slot could hold it. That is a
// deliberate trade of packing quality for predictability; callers surface
// "scheduled N of M" instead of reshuffling.
type greedyStrategy struct{}

func (greedyStrategy) Schedule(cands []Candidate, occupied []interval.Interval, window interval.Interval) []Placement {
	slots := interval.FreeSlots(occupied, window)
	if len(slots) == 0 {
		return nil
	}

	ranked := Rank(cands)

	var out []Placement
	slotIdx := 0
	cursor := slots[0].Start
	for _, c := range ranked {
		dur := c.Task.EffectiveDuration()
		if dur > slots[slotIdx].End-cursor {
			continue // skipped, never retried in a later slot
		}
		out = append(out, Placement{Task: c.Task, Start: cursor, End: cursor + dur})
		cursor += dur
		if cursor >= slots[slotIdx].End {
			slotIdx++
			if slotIdx >= len(slots) {
				break
			}
			cursor = slots[slotIdx].Start
		}
	}
	return out
}
