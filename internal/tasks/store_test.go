package tasks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
)

func dec(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestApplyProgressFromLabelDeadlineProject(t *testing.T) {
	tf := entities.TasksFile{Tasks: []entities.Task{
		{ID: "paper", Title: "Deadline paper", Type: entities.TypeDeadlineProject, RemainingHours: dec(10)},
	}}
	id, changed := ApplyProgressFromLabel(&tf, "Deadline paper: write 2h")
	require.True(t, changed)
	assert.Equal(t, "paper", id)
	f, _ := tf.Tasks[0].RemainingHours.Float64()
	assert.InDelta(t, 8.0, f, 0.0001)
}

func TestApplyProgressFromLabelNoMatch(t *testing.T) {
	tf := entities.TasksFile{}
	id, changed := ApplyProgressFromLabel(&tf, "Unrelated item 10m")
	assert.False(t, changed)
	assert.Empty(t, id)
}

func TestApplyProgressFromLabelDefaultsMinutes(t *testing.T) {
	est := 20
	tf := entities.TasksFile{Tasks: []entities.Task{
		{ID: "ritual", Title: "Daily maintenance", Type: entities.TypeDailyRitual, EstimatedMinutesPerDay: &est},
	}}
	_, changed := ApplyProgressFromLabel(&tf, "Daily maintenance")
	assert.False(t, changed) // daily_ritual never has a numeric update
}

// 2024-01-01 is a Monday; used as the anchor for weekday-dependent tests.
func TestResetWeeklyBudgetsIfDue(t *testing.T) {
	tf := entities.TasksFile{WeekStart: entities.Mon, Tasks: []entities.Task{
		{ID: "read", Type: entities.TypeWeeklyBudget, TargetHoursPerWeek: dec(5), HoursThisWeek: dec(3)},
	}}
	state := entities.State{WeekStartDate: "2023-12-18"} // 14 days before the Monday below
	monday := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	changed := ResetWeeklyBudgetsIfDue(&tf, &state, monday)
	require.True(t, changed)
	f, _ := tf.Tasks[0].HoursThisWeek.Float64()
	assert.Equal(t, 0.0, f)
	assert.Equal(t, "2024-01-01", state.WeekStartDate)
}

func TestResetWeeklyBudgetsSkipsWhenRecent(t *testing.T) {
	tf := entities.TasksFile{WeekStart: entities.Mon, Tasks: []entities.Task{
		{ID: "read", Type: entities.TypeWeeklyBudget, TargetHoursPerWeek: dec(5), HoursThisWeek: dec(3)},
	}}
	state := entities.State{WeekStartDate: "2024-01-01"}
	sameMonday := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	changed := ResetWeeklyBudgetsIfDue(&tf, &state, sameMonday)
	assert.False(t, changed)
}

func TestResetWeeklyBudgetsBackfillsWhenUnsetAndNotStartDay(t *testing.T) {
	tf := entities.TasksFile{WeekStart: entities.Mon}
	state := entities.State{}
	wednesday := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	changed := ResetWeeklyBudgetsIfDue(&tf, &state, wednesday)
	assert.False(t, changed)
	assert.Equal(t, "2024-01-01", state.WeekStartDate)
}

func TestUrgencyScoreSortOrder(t *testing.T) {
	today := time.Now()
	tasks := []entities.Task{
		{ID: "a", Priority: 3, Type: entities.TypeOpenEnded},
		{ID: "b", Priority: 8, Type: entities.TypeOpenEnded},
	}
	scoreA := UrgencyScore(&tasks[0], today)
	scoreB := UrgencyScore(&tasks[1], today)
	assert.Greater(t, scoreB, scoreA)
}
