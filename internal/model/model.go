package model

import "time"

// Clarity describes the mental effort a task needs. It is used for filtering
// candidates before planning; the scheduler itself never looks at it.
type Clarity string

const (
	ClarityLowEffort Clarity = "low-effort"
	ClarityNormal    Clarity = "normal"
	ClarityDeepFocus Clarity = "deep-focus"
)

const (
	// DefaultDurationMinutes is applied when a task has no usable duration.
	DefaultDurationMinutes = 30

	PriorityMin = 1
	PriorityMax = 4
)

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// DurationMinutes may be zero/negative for tasks captured without an
	// estimate; use EffectiveDuration for scheduling math.
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Priority        int     `json:"priority"` // 1..4, 4 = highest
	Clarity         Clarity `json:"clarity,omitempty"`

	// When is the task's due or scheduled date, optionally with a start time.
	When *DateTime `json:"when,omitempty"`

	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EffectiveDuration returns the task's duration with the permissive default
// applied. Task data originates from a UI the user directly controls, so a
// missing or nonsensical estimate is normalized rather than rejected.
func (t Task) EffectiveDuration() int {
	if t.DurationMinutes <= 0 {
		return DefaultDurationMinutes
	}
	return t.DurationMinutes
}

// EffectivePriority clamps the priority into [PriorityMin, PriorityMax],
// defaulting to the highest when unset.
func (t Task) EffectivePriority() int {
	if t.Priority < PriorityMin || t.Priority > PriorityMax {
		return PriorityMax
	}
	return t.Priority
}

// Scheduled reports whether the task has a concrete date and start time.
func (t Task) Scheduled() bool {
	return t.When != nil && t.When.Date != "" && t.When.Time != nil
}

// Event is a fixed calendar commitment. Unlike tasks, events always span a
// concrete [Start, End) in minutes since local midnight of Date.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Date         string    `json:"date"` // YYYY-MM-DD
	StartMinutes int       `json:"startMinutes"`
	EndMinutes   int       `json:"endMinutes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DateTime represents an optional time attached to a date.
// If Time is nil, the value is date-only (no time semantics).
type DateTime struct {
	Date string  `json:"date"`           // YYYY-MM-DD
	Time *string `json:"time,omitempty"` // HH:MM
}

// ValidClarity reports whether s is one of the known clarity levels.
func ValidClarity(s Clarity) bool {
	switch s {
	case ClarityLowEffort, ClarityNormal, ClarityDeepFocus:
		return true
	}
	return false
}
