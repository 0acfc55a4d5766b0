package scheduler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
)

func mustRange(s string) entities.TimeRange {
	r, err := entities.ParseTimeRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func TestAvailableSlotsSubtractsRoutines(t *testing.T) {
	profile := entities.Profile{
		WorkBlocks:     []entities.TimeRange{mustRange("09:00-17:00")},
		FixedRoutines:  map[string]entities.FixedRoutine{"lunch": {Window: mustRange("12:00-13:00")}},
	}
	date := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC) // Monday
	slots := AvailableSlots(profile, date)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00-12:00", slots[0].String())
	assert.Equal(t, "13:00-17:00", slots[1].String())
}

func TestAvailableSlotsDropsShortSlots(t *testing.T) {
	profile := entities.Profile{
		WorkBlocks:    []entities.TimeRange{mustRange("09:00-09:08")},
	}
	date := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, AvailableSlots(profile, date))
}

func TestGenerateCarryoverScenario(t *testing.T) {
	// Scenario 4: one 09:00-10:00 work block, two equal-priority deadline
	// tasks with min_chunk=60/max_chunk=180; the higher-scoring one wins
	// the slot, the other is carried over.
	profile := entities.Profile{WorkBlocks: []entities.TimeRange{mustRange("09:00-10:00")}}
	date := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)

	dec := func(f float64) *decimal.Decimal { d := decimal.NewFromFloat(f); return &d }
	taskA := entities.Task{ID: "a", Title: "Task A", Type: entities.TypeDeadlineProject, Priority: 5, MinChunkMinutes: 60, MaxChunkMinutes: 180, RemainingHours: dec(10)}
	taskB := entities.Task{ID: "b", Title: "Task B", Type: entities.TypeDeadlineProject, Priority: 5, MinChunkMinutes: 60, MaxChunkMinutes: 180, RemainingHours: dec(5)}

	sched := Generate(profile, []entities.Task{taskA, taskB}, date)

	taskBlockCount := 0
	for _, b := range sched.Blocks {
		if b.BlockType == entities.BlockTask {
			taskBlockCount++
		}
	}
	assert.Equal(t, 1, taskBlockCount)
	require.Len(t, sched.UnscheduledTasks, 1)
}

func TestRenderPlanSections(t *testing.T) {
	sched := entities.DaySchedule{
		Date: "2026-07-31",
		Blocks: []entities.ScheduledBlock{
			{Start: 540, End: 600, TaskID: "a", TaskTitle: "Write paper", DurationMinutes: 60, BlockType: entities.BlockTask},
		},
		UnscheduledTasks: []string{"b"},
	}
	out := RenderPlan(sched, map[string]entities.Task{"b": {Title: "Read book"}})
	assert.Contains(t, out, "# Plan — 2026-07-31")
	assert.Contains(t, out, "## Top priorities")
	assert.Contains(t, out, "- Write paper")
	assert.Contains(t, out, "## Schedule")
	assert.Contains(t, out, "09:00–10:00 Write paper [60m]")
	assert.Contains(t, out, "## Minimum viable day")
	assert.Contains(t, out, "- [ ] Write paper 60m")
	assert.Contains(t, out, "## Carryover")
	assert.Contains(t, out, "- Read book")
}
