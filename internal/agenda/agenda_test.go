package agenda

import (
	"context"
	"testing"
	"time"

	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/plan"
	"dayplan-cli/internal/store"
)

const day = "2026-03-02"

func ptr(s string) *string { return &s }

func testDB() *store.DB {
	now := time.Now().UTC()
	return &store.DB{
		Tasks: []model.Task{
			{ID: "task-matched", Title: "Prep slides", DurationMinutes: 30, Priority: 4,
				When: &model.DateTime{Date: day}, CreatedAt: now, UpdatedAt: now},
			{ID: "task-long", Title: "Deep work", DurationMinutes: 90, Priority: 4,
				CreatedAt: now, UpdatedAt: now},
			{ID: "task-done", Title: "Old", Done: true, CreatedAt: now, UpdatedAt: now},
			{ID: "task-sched", Title: "Review", DurationMinutes: 30,
				When: &model.DateTime{Date: day, Time: ptr("10:30")}, CreatedAt: now, UpdatedAt: now},
		},
		Events: []model.Event{
			{ID: "event-standup", Title: "Standup", Date: day, StartMinutes: 540, EndMinutes: 600},
			{ID: "event-other", Title: "Elsewhere", Date: "2026-03-03", StartMinutes: 540, EndMinutes: 600},
		},
	}
}

func TestBuildDay(t *testing.T) {
	items := BuildDay(testDB(), day)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %+v", items)
	}
	// Standup 09:00-10:00, scheduled task 10:30-11:00: no overlap, full width.
	if items[0].ID != "event-standup" || items[0].Columns != 1 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].ID != "task-sched" || items[1].Start != 630 || items[1].End != 660 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestBuildDayOverlapColumns(t *testing.T) {
	db := testDB()
	db.UpsertEvent(model.Event{ID: "event-clash", Title: "1:1", Date: day, StartMinutes: 570, EndMinutes: 630})
	items := BuildDay(db, day)
	byID := map[string]Item{}
	for _, it := range items {
		byID[it.ID] = it
	}
	if byID["event-standup"].Columns != 2 || byID["event-clash"].Columns != 2 {
		t.Fatalf("overlapping items should split into 2 columns: %+v", items)
	}
	if byID["event-standup"].Column == byID["event-clash"].Column {
		t.Fatalf("overlapping items share a column: %+v", items)
	}
}

func TestCandidates(t *testing.T) {
	cands := Candidates(testDB(), day, "")
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", cands)
	}
	matched := map[string]bool{}
	for _, c := range cands {
		matched[c.Task.ID] = c.DateMatched
	}
	if !matched["task-matched"] || matched["task-long"] {
		t.Fatalf("DateMatched wrong: %+v", matched)
	}
}

func TestCandidatesClarityFilter(t *testing.T) {
	db := testDB()
	db.UpsertTask(model.Task{ID: "task-deep", Title: "Think", Clarity: model.ClarityDeepFocus})
	cands := Candidates(db, day, model.ClarityDeepFocus)
	if len(cands) != 1 || cands[0].Task.ID != "task-deep" {
		t.Fatalf("clarity filter wrong: %+v", cands)
	}
}

func TestRunPlanEndToEnd(t *testing.T) {
	// The canonical scenario: 8:00-12:00 window, 9:00-10:00 occupied.
	// The matched 30-minute task lands at 8:00; the 90-minute task does not
	// fit the rest of slot one and is skipped outright, not deferred.
	db := testDB()
	db.RemoveTask("task-sched") // keep the window to one occupied interval

	s := store.Store{Dir: t.TempDir()}
	res, err := RunPlan(context.Background(), s, db, plan.NewRegistry(), day, interval.New(480, 720), "", false)
	if err != nil {
		t.Fatalf("RunPlan: %v", err)
	}
	if res.Candidates != 2 {
		t.Fatalf("expected 2 candidates, got %d", res.Candidates)
	}
	if len(res.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %+v", res.Placements)
	}
	p := res.Placements[0]
	if p.TaskID != "task-matched" || p.Start != 480 || p.End != 510 || p.From != "08:00" || p.To != "08:30" {
		t.Fatalf("unexpected placement: %+v", p)
	}
	if res.Applied {
		t.Fatalf("dry run must not be marked applied")
	}
	// Dry run leaves the task untouched.
	tk, _ := db.FindTask("task-matched")
	if tk.Scheduled() {
		t.Fatalf("dry run mutated the task: %+v", tk)
	}
}

func TestRunPlanApply(t *testing.T) {
	db := testDB()
	db.RemoveTask("task-sched")

	ctx := context.Background()
	s := store.Store{Dir: t.TempDir()}
	if err := s.Save(ctx, db); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	res, err := RunPlan(ctx, s, db, plan.NewRegistry(), day, interval.New(480, 720), "", true)
	if err != nil {
		t.Fatalf("RunPlan: %v", err)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}

	// In-memory state and persisted state both carry the placement.
	tk, _ := db.FindTask("task-matched")
	if !tk.Scheduled() || *tk.When.Time != "08:00" {
		t.Fatalf("placement not applied in memory: %+v", tk)
	}
	reloaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rt, _ := reloaded.FindTask("task-matched")
	if !rt.Scheduled() || rt.When.Date != day || *rt.When.Time != "08:00" {
		t.Fatalf("placement not persisted: %+v", rt)
	}
	// The skipped task stays unscheduled.
	lt, _ := reloaded.FindTask("task-long")
	if lt.Scheduled() {
		t.Fatalf("skipped task should stay unscheduled: %+v", lt)
	}
}
