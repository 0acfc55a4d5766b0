package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaskType is the tagged-union discriminant for the four task variants.
type TaskType string

const (
	TypeDeadlineProject TaskType = "deadline_project"
	TypeWeeklyBudget    TaskType = "weekly_budget"
	TypeDailyRitual     TaskType = "daily_ritual"
	TypeOpenEnded       TaskType = "open_ended"
)

func (t TaskType) Valid() bool {
	switch t {
	case TypeDeadlineProject, TypeWeeklyBudget, TypeDailyRitual, TypeOpenEnded:
		return true
	}
	return false
}

// TaskStatus is the task lifecycle state.
type TaskStatus string

const (
	StatusActive   TaskStatus = "active"
	StatusPaused   TaskStatus = "paused"
	StatusComplete TaskStatus = "complete"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusComplete:
		return true
	}
	return false
}

const (
	DefaultMinChunkMinutes = 25
	DefaultMaxChunkMinutes = 180
	DefaultRitualMinutes   = 15
)

// Task is the single wire representation of all four task variants. The
// fields that only apply to one or two variants are pointers so they stay
// absent from serialized output (and round-trip) when not in use; the
// type-specific *behavior* (urgency scoring, progress application) is never
// reached by comparing the Type string directly — it goes through Variant(),
// which returns one of the TaskVariant implementations below.
type Task struct {
	ID       string     `yaml:"id" json:"id"`
	Title    string     `yaml:"title" json:"title"`
	Type     TaskType   `yaml:"type" json:"type"`
	Priority int        `yaml:"priority" json:"priority"`
	Status   TaskStatus `yaml:"status" json:"status"`

	RemainingHours *decimal.Decimal `yaml:"remaining_hours,omitempty" json:"remaining_hours,omitempty"`
	Deadline       *string          `yaml:"deadline,omitempty" json:"deadline,omitempty"`

	TargetHoursPerWeek *decimal.Decimal `yaml:"target_hours_per_week,omitempty" json:"target_hours_per_week,omitempty"`
	HoursThisWeek      *decimal.Decimal `yaml:"hours_this_week,omitempty" json:"hours_this_week,omitempty"`

	EstimatedMinutesPerDay *int `yaml:"estimated_minutes_per_day,omitempty" json:"estimated_minutes_per_day,omitempty"`

	MinChunkMinutes int    `yaml:"min_chunk_minutes" json:"min_chunk_minutes"`
	MaxChunkMinutes int    `yaml:"max_chunk_minutes" json:"max_chunk_minutes"`
	Notes           string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ApplyDefaults fills the scheduling-hint defaults when absent (zero value).
func (t *Task) ApplyDefaults() {
	if t.MinChunkMinutes == 0 {
		t.MinChunkMinutes = DefaultMinChunkMinutes
	}
	if t.MaxChunkMinutes == 0 {
		t.MaxChunkMinutes = DefaultMaxChunkMinutes
	}
}

// Validate checks the rules from the task store's validation contract:
// id/title/type required, type and status must be valid enum members,
// priority in [1,10] when set.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task: id is required")
	}
	if t.Title == "" {
		return fmt.Errorf("task: title is required")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("task %s: invalid type %q", t.ID, t.Type)
	}
	if t.Status != "" && !t.Status.Valid() {
		return fmt.Errorf("task %s: invalid status %q", t.ID, t.Status)
	}
	if t.Priority != 0 && (t.Priority < 1 || t.Priority > 10) {
		return fmt.Errorf("task %s: priority %d out of range [1,10]", t.ID, t.Priority)
	}
	return nil
}

// TaskVariant is the interface each of the four task kinds implements, so
// callers that need type-specific behavior never switch on the Type string
// themselves.
type TaskVariant interface {
	// UrgencyBoost returns the type-specific addend to urgency_score.
	UrgencyBoost(today time.Time) float64
	// DailyDemandMinutes returns how many minutes of this task the
	// scheduler should try to place on a single day.
	DailyDemandMinutes() int
	// ApplyProgress records m completed minutes against the task,
	// returning true if any field changed.
	ApplyProgress(m int) bool
}

// Variant dispatches t to its concrete TaskVariant implementation based on
// Type. Unknown/open_ended tasks get the zero-behavior variant.
func (t *Task) Variant() TaskVariant {
	switch t.Type {
	case TypeDeadlineProject:
		return deadlineProject{t}
	case TypeWeeklyBudget:
		return weeklyBudget{t}
	case TypeDailyRitual:
		return dailyRitual{t}
	default:
		return openEnded{t}
	}
}

type deadlineProject struct{ t *Task }

func (v deadlineProject) daysUntilDeadline(today time.Time) (int, bool) {
	if v.t.Deadline == nil || *v.t.Deadline == "" {
		return 0, false
	}
	d, err := time.Parse("2006-01-02", *v.t.Deadline)
	if err != nil {
		return 0, false
	}
	days := int(d.Sub(today).Hours() / 24)
	return days, true
}

func (v deadlineProject) UrgencyBoost(today time.Time) float64 {
	remaining := 0.0
	if v.t.RemainingHours != nil {
		remaining, _ = v.t.RemainingHours.Float64()
	}
	if days, ok := v.daysUntilDeadline(today); ok {
		denom := float64(days)
		if denom < 1 {
			denom = 1
		}
		return (remaining / denom) * 5
	}
	if remaining > 0 {
		return 2
	}
	return 0
}

func (v deadlineProject) DailyDemandMinutes() int {
	v.t.ApplyDefaults()
	return v.t.MaxChunkMinutes
}

func (v deadlineProject) ApplyProgress(m int) bool {
	if v.t.RemainingHours == nil {
		return false
	}
	delta := decimal.NewFromFloat(float64(m) / 60)
	updated := v.t.RemainingHours.Sub(delta)
	if updated.IsNegative() {
		updated = decimal.Zero
	}
	v.t.RemainingHours = &updated
	if updated.IsZero() {
		v.t.Status = StatusComplete
	}
	return true
}

type weeklyBudget struct{ t *Task }

func (v weeklyBudget) UrgencyBoost(time.Time) float64 {
	if v.t.TargetHoursPerWeek == nil || v.t.TargetHoursPerWeek.IsZero() {
		return 0
	}
	hoursThisWeek := decimal.Zero
	if v.t.HoursThisWeek != nil {
		hoursThisWeek = *v.t.HoursThisWeek
	}
	remaining := v.t.TargetHoursPerWeek.Sub(hoursThisWeek)
	boost := remaining.Div(*v.t.TargetHoursPerWeek).Mul(decimal.NewFromInt(3))
	f, _ := boost.Float64()
	if f < 0 {
		f = 0
	}
	return f
}

func (v weeklyBudget) DailyDemandMinutes() int {
	v.t.ApplyDefaults()
	target := decimal.Zero
	if v.t.TargetHoursPerWeek != nil {
		target = *v.t.TargetHoursPerWeek
	}
	hoursThisWeek := decimal.Zero
	if v.t.HoursThisWeek != nil {
		hoursThisWeek = *v.t.HoursThisWeek
	}
	remainingMin := target.Sub(hoursThisWeek).Mul(decimal.NewFromInt(60))
	third, _ := remainingMin.Div(decimal.NewFromInt(3)).Float64()
	demand := int(third)
	if demand < v.t.MinChunkMinutes {
		demand = v.t.MinChunkMinutes
	}
	if demand > v.t.MaxChunkMinutes {
		demand = v.t.MaxChunkMinutes
	}
	return demand
}

func (v weeklyBudget) ApplyProgress(m int) bool {
	if v.t.HoursThisWeek == nil {
		zero := decimal.Zero
		v.t.HoursThisWeek = &zero
	}
	updated := v.t.HoursThisWeek.Add(decimal.NewFromFloat(float64(m) / 60))
	v.t.HoursThisWeek = &updated
	return true
}

type dailyRitual struct{ t *Task }

func (v dailyRitual) UrgencyBoost(time.Time) float64 { return 1 }

func (v dailyRitual) DailyDemandMinutes() int {
	if v.t.EstimatedMinutesPerDay != nil && *v.t.EstimatedMinutesPerDay > 0 {
		return *v.t.EstimatedMinutesPerDay
	}
	return DefaultRitualMinutes
}

func (v dailyRitual) ApplyProgress(int) bool { return false }

type openEnded struct{ t *Task }

func (v openEnded) UrgencyBoost(time.Time) float64 { return 0 }

func (v openEnded) DailyDemandMinutes() int {
	v.t.ApplyDefaults()
	return v.t.MinChunkMinutes
}

func (v openEnded) ApplyProgress(int) bool { return false }
