package plan

import (
	"testing"

	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"
)

func cand(id string, duration, priority int, matched bool) Candidate {
	return Candidate{
		Task:        model.Task{ID: id, Title: id, DurationMinutes: duration, Priority: priority},
		DateMatched: matched,
	}
}

func schedule(cands []Candidate, occupied []interval.Interval, window interval.Interval) []Placement {
	return NewRegistry().Active().Schedule(cands, occupied, window)
}

func TestRankOrder(t *testing.T) {
	// Date-match first, then shorter duration, then higher priority.
	a := cand("a", 60, 2, false)
	b := cand("b", 30, 1, true)
	c := cand("c", 30, 4, false)

	ranked := Rank([]Candidate{a, b, c})
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if ranked[i].Task.ID != id {
			t.Fatalf("rank %d: expected %s, got %s", i, id, ranked[i].Task.ID)
		}
	}
}

func TestRankStableOnFullTie(t *testing.T) {
	cands := []Candidate{cand("x", 30, 2, false), cand("y", 30, 2, false), cand("z", 30, 2, false)}
	ranked := Rank(cands)
	for i, id := range []string{"x", "y", "z"} {
		if ranked[i].Task.ID != id {
			t.Fatalf("tie order not preserved: got %s at %d", ranked[i].Task.ID, i)
		}
	}
}

func TestRankDefaultDuration(t *testing.T) {
	// Zero duration normalizes to 30 and ranks accordingly.
	a := cand("a", 0, 1, false)  // effective 30
	b := cand("b", 45, 4, false) // longer despite higher priority
	ranked := Rank([]Candidate{b, a})
	if ranked[0].Task.ID != "a" {
		t.Fatalf("expected defaulted 30-minute task first, got %s", ranked[0].Task.ID)
	}
}

func TestScheduleEmptyInputs(t *testing.T) {
	if got := schedule(nil, nil, interval.New(0, 60)); len(got) != 0 {
		t.Fatalf("expected no placements, got %v", got)
	}
	if got := schedule([]Candidate{cand("a", 30, 4, false)}, nil, interval.New(60, 60)); len(got) != 0 {
		t.Fatalf("expected no placements for empty window, got %v", got)
	}
	if got := schedule([]Candidate{cand("a", 30, 4, false)}, []interval.Interval{{Start: 0, End: 120}}, interval.New(0, 120)); len(got) != 0 {
		t.Fatalf("expected no placements for fully occupied window, got %v", got)
	}
}

func TestScheduleGreedySkip(t *testing.T) {
	// One 45-minute slot; a 60-minute task is skipped outright, the
	// 20-minute one still lands.
	cands := []Candidate{cand("big", 60, 4, true), cand("small", 20, 4, true)}
	got := schedule(cands, []interval.Interval{{Start: 45, End: 1440}}, interval.New(0, 1440))
	if len(got) != 1 {
		t.Fatalf("expected exactly one placement, got %d: %v", len(got), got)
	}
	if got[0].Task.ID != "small" || got[0].Start != 0 || got[0].End != 20 {
		t.Fatalf("expected small at [0,20), got %+v", got[0])
	}
}

func TestScheduleSkippedTaskNotRetriedInLaterSlot(t *testing.T) {
	// The end-to-end scenario: task2 (90m) does not fit what is left of the
	// first slot and is never reconsidered, even though the second slot
	// (600-720) could hold it.
	task1 := cand("1", 30, 4, true)
	task2 := cand("2", 90, 4, false)
	occupied := []interval.Interval{{Start: 540, End: 600}}

	got := schedule([]Candidate{task1, task2}, occupied, interval.New(480, 720))
	if len(got) != 1 {
		t.Fatalf("expected exactly one placement, got %d: %v", len(got), got)
	}
	if got[0].Task.ID != "1" || got[0].Start != 480 || got[0].End != 510 {
		t.Fatalf("expected task 1 at [480,510), got %+v", got[0])
	}
}

func TestScheduleAdvancesAcrossSlots(t *testing.T) {
	// Two 30-minute slots separated by a meeting: both tasks land, the
	// second one in the second slot.
	cands := []Candidate{cand("a", 30, 4, true), cand("b", 30, 4, true)}
	occupied := []interval.Interval{{Start: 510, End: 600}}

	got := schedule(cands, occupied, interval.New(480, 630))
	if len(got) != 2 {
		t.Fatalf("expected two placements, got %v", got)
	}
	if got[0].Start != 480 || got[0].End != 510 {
		t.Fatalf("first placement: expected [480,510), got %+v", got[0])
	}
	if got[1].Start != 600 || got[1].End != 630 {
		t.Fatalf("second placement: expected [600,630), got %+v", got[1])
	}
}

func TestScheduleInvariants(t *testing.T) {
	cands := []Candidate{
		cand("a", 25, 3, true),
		cand("b", 0, 2, false), // defaults to 30
		cand("c", 120, 4, false),
		cand("d", 15, 1, true),
		cand("e", 45, 4, false),
	}
	occupied := []interval.Interval{{Start: 540, End: 600}, {Start: 660, End: 690}}
	window := interval.New(480, 780)

	got := schedule(cands, occupied, window)
	if len(got) == 0 {
		t.Fatalf("expected some placements")
	}

	byID := map[string]model.Task{}
	for _, c := range cands {
		byID[c.Task.ID] = c.Task
	}
	for i, p := range got {
		// Containment.
		if p.Start < window.Start || p.End > window.End {
			t.Fatalf("placement %v outside window %v", p, window)
		}
		// Duration preservation (with default applied).
		if p.End-p.Start != byID[p.Task.ID].EffectiveDuration() {
			t.Fatalf("placement %v does not preserve duration", p)
		}
		// No overlap with occupied intervals.
		for _, oc := range occupied {
			if p.Interval().Overlaps(oc) {
				t.Fatalf("placement %v overlaps occupied %v", p, oc)
			}
		}
		// No overlap between placements.
		for _, q := range got[i+1:] {
			if p.Interval().Overlaps(q.Interval()) {
				t.Fatalf("placements %v and %v overlap", p, q)
			}
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.ActiveName() != DefaultStrategy {
		t.Fatalf("expected %q active, got %q", DefaultStrategy, r.ActiveName())
	}
	if err := r.Use("nope"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
	if r.ActiveName() != DefaultStrategy {
		t.Fatalf("failed Use must not change the active strategy")
	}

	r.Register("noop", noopStrategy{})
	if err := r.Use("noop"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ActiveName() != "noop" {
		t.Fatalf("expected noop active, got %q", r.ActiveName())
	}
	got := r.Active().Schedule([]Candidate{cand("a", 30, 4, true)}, nil, interval.New(0, 60))
	if len(got) != 0 {
		t.Fatalf("noop strategy should place nothing, got %v", got)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "greedy" || names[1] != "noop" {
		t.Fatalf("unexpected names: %v", names)
	}
}

type noopStrategy struct{}

func (noopStrategy) Schedule([]Candidate, []interval.Interval, interval.Interval) []Placement {
	return nil
}
