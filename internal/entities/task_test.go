package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestDeadlineProjectProgressCompletesAtZero(t *testing.T) {
	task := Task{ID: "t1", Title: "Paper", Type: TypeDeadlineProject, RemainingHours: decPtr(10)}

	changed := task.Variant().ApplyProgress(120) // 2h
	require.True(t, changed)
	f, _ := task.RemainingHours.Float64()
	assert.InDelta(t, 8.0, f, 0.0001)
	assert.Equal(t, TaskStatus(""), task.Status)

	task.Variant().ApplyProgress(8 * 60)
	f, _ = task.RemainingHours.Float64()
	assert.InDelta(t, 0, f, 0.0001)
	assert.Equal(t, StatusComplete, task.Status)
}

func TestDeadlineProjectProgressClampsAtZero(t *testing.T) {
	task := Task{ID: "t1", Title: "Paper", Type: TypeDeadlineProject, RemainingHours: decPtr(1)}
	task.Variant().ApplyProgress(180)
	f, _ := task.RemainingHours.Float64()
	assert.Equal(t, 0.0, f)
	assert.Equal(t, StatusComplete, task.Status)
}

func TestWeeklyBudgetProgressAccumulates(t *testing.T) {
	task := Task{ID: "t2", Title: "Reading", Type: TypeWeeklyBudget, TargetHoursPerWeek: decPtr(5), HoursThisWeek: decPtr(1)}
	task.Variant().ApplyProgress(60)
	f, _ := task.HoursThisWeek.Float64()
	assert.InDelta(t, 2.0, f, 0.0001)
}

func TestDailyRitualHasNoNumericUpdate(t *testing.T) {
	task := Task{ID: "t3", Title: "Stretch", Type: TypeDailyRitual}
	changed := task.Variant().ApplyProgress(20)
	assert.False(t, changed)
}

func TestUrgencyBoostDailyRitual(t *testing.T) {
	task := Task{ID: "t3", Title: "Stretch", Type: TypeDailyRitual}
	assert.Equal(t, 1.0, task.Variant().UrgencyBoost(time.Now()))
}
