package store

import (
	"context"
	"testing"
	"time"

	"dayplan-cli/internal/model"
)

func ptr(s string) *string { return &s }

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	now := time.Now().UTC().Truncate(time.Millisecond)
	st := &DB{
		Tasks: []model.Task{
			{ID: "task-aaaaaaaa", Title: "Write report", DurationMinutes: 60, Priority: 3, Clarity: model.ClarityDeepFocus, CreatedAt: now, UpdatedAt: now},
			{ID: "task-bbbbbbbb", Title: "Quick call", Priority: 4, When: &model.DateTime{Date: "2026-03-02", Time: ptr("09:00")}, CreatedAt: now, UpdatedAt: now},
		},
		Events: []model.Event{
			{ID: "event-cccccccc", Title: "Standup", Date: "2026-03-02", StartMinutes: 540, EndMinutes: 555, CreatedAt: now},
		},
	}
	if err := s.Save(ctx, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tasks) != 2 || len(got.Events) != 1 {
		t.Fatalf("unexpected counts: %d tasks, %d events", len(got.Tasks), len(got.Events))
	}
	tk, ok := got.FindTask("task-bbbbbbbb")
	if !ok {
		t.Fatalf("task-bbbbbbbb not found")
	}
	if !tk.Scheduled() || tk.When.Date != "2026-03-02" || *tk.When.Time != "09:00" {
		t.Fatalf("schedule not preserved: %+v", tk.When)
	}
	ev, ok := got.FindEvent("event-cccccccc")
	if !ok || ev.StartMinutes != 540 || ev.EndMinutes != 555 {
		t.Fatalf("event not preserved: %+v", ev)
	}
}

func TestLoadEmptyWorkspace(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tasks) != 0 || len(got.Events) != 0 {
		t.Fatalf("expected empty state, got %+v", got)
	}
}

func TestSaveTaskIndependent(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	now := time.Now().UTC()
	a := model.Task{ID: "task-aaaaaaaa", Title: "A", Priority: 4, CreatedAt: now, UpdatedAt: now}
	b := model.Task{ID: "task-bbbbbbbb", Title: "B", Priority: 4, CreatedAt: now, UpdatedAt: now}
	if err := s.Save(ctx, &DB{Tasks: []model.Task{a, b}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Persist a placement on a single task; the other row must be untouched.
	a.When = &model.DateTime{Date: "2026-03-02", Time: ptr("08:00")}
	if err := s.SaveTask(ctx, a); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	// Idempotent by id: saving again is a no-op overwrite, not a duplicate.
	if err := s.SaveTask(ctx, a); err != nil {
		t.Fatalf("SaveTask (repeat): %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got.Tasks))
	}
	ga, _ := got.FindTask("task-aaaaaaaa")
	if !ga.Scheduled() {
		t.Fatalf("placement not persisted: %+v", ga)
	}
	gb, _ := got.FindTask("task-bbbbbbbb")
	if gb.Scheduled() {
		t.Fatalf("unrelated task gained a schedule: %+v", gb)
	}
}

func TestDBHelpers(t *testing.T) {
	db := &DB{}
	db.UpsertTask(model.Task{ID: "task-x", Title: "one"})
	db.UpsertTask(model.Task{ID: "task-x", Title: "two"})
	if len(db.Tasks) != 1 || db.Tasks[0].Title != "two" {
		t.Fatalf("upsert should replace: %+v", db.Tasks)
	}
	if !db.RemoveTask("task-x") || db.RemoveTask("task-x") {
		t.Fatalf("remove semantics wrong")
	}

	db.UpsertEvent(model.Event{ID: "event-b", Date: "2026-03-02", StartMinutes: 600, EndMinutes: 660})
	db.UpsertEvent(model.Event{ID: "event-a", Date: "2026-03-02", StartMinutes: 540, EndMinutes: 555})
	db.UpsertEvent(model.Event{ID: "event-c", Date: "2026-03-03", StartMinutes: 500, EndMinutes: 530})
	on := db.EventsOn("2026-03-02")
	if len(on) != 2 || on[0].ID != "event-a" || on[1].ID != "event-b" {
		t.Fatalf("EventsOn wrong: %+v", on)
	}

	db.UpsertTask(model.Task{ID: "task-s", When: &model.DateTime{Date: "2026-03-02", Time: ptr("10:00")}})
	db.UpsertTask(model.Task{ID: "task-r", When: &model.DateTime{Date: "2026-03-02", Time: ptr("08:30")}})
	db.UpsertTask(model.Task{ID: "task-u", When: &model.DateTime{Date: "2026-03-02"}}) // date-only, not scheduled
	sched := db.TasksScheduledOn("2026-03-02")
	if len(sched) != 2 || sched[0].ID != "task-r" || sched[1].ID != "task-s" {
		t.Fatalf("TasksScheduledOn wrong: %+v", sched)
	}
}

func TestNewIDs(t *testing.T) {
	db := &DB{}
	id, err := NewTaskID(db)
	if err != nil {
		t.Fatalf("NewTaskID: %v", err)
	}
	if len(id) != len("task-")+8 || id[:5] != "task-" {
		t.Fatalf("unexpected id shape: %q", id)
	}
	eid, err := NewEventID(db)
	if err != nil {
		t.Fatalf("NewEventID: %v", err)
	}
	if eid[:6] != "event-" {
		t.Fatalf("unexpected id shape: %q", eid)
	}
}
