// Package agentcontext builds the aggregated snapshot written to
// agent_context.json: state + analytics, the top-5 urgent tasks, weekly
// budget progress, and a fixed set of rule-based suggestions.
package agentcontext

import (
	"fmt"
	"sort"
	"time"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
)

// Builder assembles and persists agent_context.json.
type Builder struct {
	ws workspace.Workspace
}

// New returns a Builder bound to ws.
func New(ws workspace.Workspace) *Builder {
	return &Builder{ws: ws}
}

// Build assembles the AgentContext from the current state/analytics/tasks.
func Build(state entities.State, analyticsSummary entities.AnalyticsSummary, activeTasks []entities.Task, today time.Time) entities.AgentContext {
	ctx := entities.AgentContext{
		GeneratedAt: today.Format(time.RFC3339),
		State: entities.StateSnapshot{
			Streak:              state.Streak,
			LastRating:          state.LastRating,
			TotalDaysTracked:    analyticsSummary.TotalDaysTracked,
			Rolling7DayAvg:      analyticsSummary.Rolling7DayAvg,
			Rolling30DayAvg:     analyticsSummary.Rolling30DayAvg,
			CompletionByWeekday: analyticsSummary.CompletionByWeekday,
		},
	}

	ctx.UrgentTasks = topUrgentTasks(activeTasks, today, 5)
	ctx.BudgetProgress = budgetProgress(activeTasks)
	ctx.Suggestions = buildSuggestions(analyticsSummary, state, activeTasks, today)
	return ctx
}

func topUrgentTasks(activeTasks []entities.Task, today time.Time, n int) []entities.UrgentTask {
	sorted := append([]entities.Task(nil), activeTasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return tasks.UrgencyScore(&sorted[i], today) > tasks.UrgencyScore(&sorted[j], today)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]entities.UrgentTask, 0, len(sorted))
	for i := range sorted {
		out = append(out, entities.UrgentTask{ID: sorted[i].ID, Title: sorted[i].Title, UrgencyScore: tasks.UrgencyScore(&sorted[i], today)})
	}
	return out
}

func budgetProgress(activeTasks []entities.Task) []entities.BudgetProgress {
	var out []entities.BudgetProgress
	for i := range activeTasks {
		t := &activeTasks[i]
		if t.Type != entities.TypeWeeklyBudget || t.TargetHoursPerWeek == nil || t.TargetHoursPerWeek.IsZero() {
			continue
		}
		target, _ := t.TargetHoursPerWeek.Float64()
		actual := 0.0
		if t.HoursThisWeek != nil {
			actual, _ = t.HoursThisWeek.Float64()
		}
		remaining := target - actual
		out = append(out, entities.BudgetProgress{
			TaskID: t.ID, Title: t.Title,
			TargetHours: target, ActualHours: actual, RemainingHours: remaining,
			ProgressPct: safeDiv(actual, target) * 100,
		})
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func buildSuggestions(summary entities.AnalyticsSummary, state entities.State, activeTasks []entities.Task, today time.Time) []entities.Suggestion {
	var out []entities.Suggestion

	if summary.Rolling7DayAvg > 0 && summary.Rolling7DayAvg < 0.5 {
		out = append(out, entities.Suggestion{
			Kind: "difficulty_adjustment", Severity: "high",
			Message: "Completion has dropped below half over the last week — consider lightening the plan.",
		})
	}

	if len(summary.BestTimeBlocks) > 0 && len(activeTasks) > 0 {
		top := topUrgentTasks(activeTasks, today, 1)
		if len(top) > 0 {
			days := summary.BestTimeBlocks
			if len(days) > 2 {
				days = days[:2]
			}
			out = append(out, entities.Suggestion{
				Kind: "scheduling", Severity: "low",
				Message: fmt.Sprintf("%s tends to go best on %v — consider scheduling it then.", top[0].Title, days),
			})
		}
	}

	for i, skipped := range summary.MostSkippedTasks {
		if i >= 3 {
			break
		}
		out = append(out, entities.Suggestion{
			Kind: "skip_warning", Severity: "medium",
			Message: fmt.Sprintf("%q has been skipped often (skip rate %.0f%%).", skipped.Label, skipped.SkipRate*100),
		})
	}

	todayWeekday := weekdayTagOf(today)
	if rate, ok := summary.CompletionByWeekday[string(todayWeekday)]; ok && rate < 0.4 {
		out = append(out, entities.Suggestion{
			Kind: "weekday_warning", Severity: "medium",
			Message: fmt.Sprintf("%ss have historically had a low completion rate (%.0f%%).", todayWeekday, rate*100),
		})
	}

	if state.LastRating == entities.RatingBad && summary.RecoverySuccessRate > 0.6 {
		out = append(out, entities.Suggestion{
			Kind: "recovery_suggestion", Severity: "low",
			Message: "Recovery mode has worked well before — consider using it today.",
		})
	}

	return out
}

func weekdayTagOf(d time.Time) entities.Weekday {
	tags := []entities.Weekday{entities.Mon, entities.Tue, entities.Wed, entities.Thu, entities.Fri, entities.Sat, entities.Sun}
	return tags[(int(d.Weekday())+6)%7]
}

// Refresh builds and atomically persists agent_context.json.
func (b *Builder) Refresh(state entities.State, analyticsSummary entities.AnalyticsSummary, activeTasks []entities.Task, today time.Time) (entities.AgentContext, error) {
	ctx := Build(state, analyticsSummary, activeTasks, today)
	if err := fileio.WriteJSON(b.ws.AgentContextPath(), ctx); err != nil {
		return entities.AgentContext{}, err
	}
	return ctx, nil
}

// Load reads the last-written agent_context.json.
func (b *Builder) Load() (entities.AgentContext, error) {
	var ctx entities.AgentContext
	if err := fileio.ReadJSON(b.ws.AgentContextPath(), &ctx); err != nil {
		return entities.AgentContext{}, err
	}
	return ctx, nil
}
