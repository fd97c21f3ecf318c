// Package agenda assembles one day's calendar view and feeds the planner.
// It is the orchestration boundary between the store and the pure engines in
// internal/layout and internal/plan.
package agenda

import (
	"context"
	"sort"

	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/layout"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/plan"
	"dayplan-cli/internal/store"
)

const (
	KindEvent = "event"
	KindTask  = "task"
)

// Item is one entry of a day view: a calendar event or a scheduled task,
// annotated with its overlap-column placement.
type Item struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"` // event|task
	Start   int    `json:"startMinutes"`
	End     int    `json:"endMinutes"`
	Column  int    `json:"column"`
	Columns int    `json:"columns"`
}

func (it Item) Interval() interval.Interval {
	return interval.New(it.Start, it.End)
}

// BuildDay collects the events and scheduled tasks for date and computes the
// overlap-column layout. Items are returned in start order.
func BuildDay(db *store.DB, date string) []Item {
	var items []Item
	for _, e := range db.EventsOn(date) {
		if e.StartMinutes >= e.EndMinutes {
			continue
		}
		items = append(items, Item{
			ID: e.ID, Title: e.Title, Kind: KindEvent,
			Start: e.StartMinutes, End: e.EndMinutes,
		})
	}
	for _, t := range db.TasksScheduledOn(date) {
		start, err := interval.ParseClock(*t.When.Time)
		if err != nil {
			continue
		}
		items = append(items, Item{
			ID: t.ID, Title: t.Title, Kind: KindTask,
			Start: start, End: start + t.EffectiveDuration(),
		})
	}

	lay := make([]layout.Item, 0, len(items))
	for _, it := range items {
		lay = append(lay, layout.Item{ID: it.ID, Interval: it.Interval()})
	}
	placements := layout.Compute(lay)
	for i := range items {
		p := placements[items[i].ID]
		items[i].Column = p.Column
		items[i].Columns = p.Columns
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Start < items[j].Start })
	return items
}

// Occupied returns the day's committed intervals (events plus already
// scheduled tasks), unsorted; the planner sorts and clips them itself.
func Occupied(db *store.DB, date string) []interval.Interval {
	var out []interval.Interval
	for _, it := range BuildDay(db, date) {
		out = append(out, it.Interval())
	}
	return out
}

// Candidates returns the open, unscheduled tasks eligible for planning on
// date. clarity narrows by mental effort when non-empty; DateMatched is
// resolved here so the scheduler never has to look at dates.
func Candidates(db *store.DB, date string, clarity model.Clarity) []plan.Candidate {
	var out []plan.Candidate
	for _, t := range db.Tasks {
		if t.Done || t.Scheduled() {
			continue
		}
		if clarity != "" && t.Clarity != clarity {
			continue
		}
		out = append(out, plan.Candidate{
			Task:        t,
			DateMatched: t.When != nil && t.When.Date == date,
		})
	}
	return out
}

// PlanResult is the outcome of one planning run.
type PlanResult struct {
	Date       string           `json:"date"`
	Window     PlanWindow       `json:"window"`
	Strategy   string           `json:"strategy"`
	Candidates int              `json:"candidates"`
	Placements []PlanPlacement  `json:"placements"`
	Applied    bool             `json:"applied"`
	Failures   []PlacementError `json:"failures,omitempty"`
}

type PlanWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PlanPlacement mirrors plan.Placement with display-friendly times.
type PlanPlacement struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
	Start  int    `json:"startMinutes"`
	End    int    `json:"endMinutes"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// PlacementError records one task whose placement could not be persisted.
// Other placements are unaffected.
type PlacementError struct {
	TaskID string `json:"taskId"`
	Err    string `json:"error"`
}

// RunPlan schedules candidates into the window with the registry's active
// strategy and, when apply is set, persists each placement independently
// through the store. A persistence failure on one task never rolls back the
// others; it is reported in Failures instead.
func RunPlan(ctx context.Context, s store.Store, db *store.DB, reg *plan.Registry, date string, window interval.Interval, clarity model.Clarity, apply bool) (PlanResult, error) {
	cands := Candidates(db, date, clarity)
	placements := reg.Active().Schedule(cands, Occupied(db, date), window)

	res := PlanResult{
		Date:       date,
		Window:     PlanWindow{From: interval.FormatClock(window.Start), To: interval.FormatClock(window.End)},
		Strategy:   reg.ActiveName(),
		Candidates: len(cands),
		Applied:    apply,
		Placements: make([]PlanPlacement, 0, len(placements)),
	}
	for _, p := range placements {
		res.Placements = append(res.Placements, PlanPlacement{
			TaskID: p.Task.ID,
			Title:  p.Task.Title,
			Start:  p.Start,
			End:    p.End,
			From:   interval.FormatClock(p.Start),
			To:     interval.FormatClock(p.End),
		})
	}
	if !apply {
		return res, nil
	}

	for _, p := range placements {
		t := p.Task
		hm := interval.FormatClock(p.Start)
		t.When = &model.DateTime{Date: date, Time: &hm}
		t.DurationMinutes = p.End - p.Start
		if err := s.SaveTask(ctx, t); err != nil {
			res.Failures = append(res.Failures, PlacementError{TaskID: t.ID, Err: err.Error()})
			continue
		}
		db.UpsertTask(t)
	}
	return res, nil
}
