// Package finalize orchestrates the end-of-day transition: rating, streak,
// history, the reflection entry, task progress, analytics, agent context,
// and hooks — idempotent per day, with stages 1-5 fatal and 6-10 best-effort.
package finalize

import (
	"context"
	"strings"
	"time"

	"github.com/dayplan/planner/internal/agentcontext"
	"github.com/dayplan/planner/internal/analytics"
	"github.com/dayplan/planner/internal/apierr"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/hooks"
	"github.com/dayplan/planner/internal/planparser"
	"github.com/dayplan/planner/internal/rating"
	"github.com/dayplan/planner/internal/reflections"
	"github.com/dayplan/planner/internal/statestore"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

// Result is the pipeline's return value, mirroring the public API's
// {ok, reason, day, rating, streak, task_updates} contract.
type Result struct {
	OK              bool
	Reason          string
	AlreadyFinalized bool
	Day             string
	Rating          entities.Rating
	Streak          int
	TaskUpdates     int
}

// Pipeline wires together the stores finalization touches.
type Pipeline struct {
	ws        workspace.Workspace
	taskStore *tasks.Store
	hookDisp  *hooks.Dispatcher
	log       logger.Logger
}

// New returns a Pipeline bound to ws.
func New(ws workspace.Workspace, taskStore *tasks.Store, hookDisp *hooks.Dispatcher, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{ws: ws, taskStore: taskStore, hookDisp: hookDisp, log: log}
}

// Run executes the finalization pipeline for "today" as defined by now.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Result, error) {
	today := now.Format("2006-01-02")

	// Stage 1: load & gate.
	var draft entities.CheckinDraft
	if err := fileio.ReadJSON(p.ws.CheckinDraftPath(), &draft); err != nil {
		return Result{}, apierr.New(apierr.KindIO, "finalize.Run", err)
	}
	if draft.Day != today {
		return Result{OK: false, Reason: "no-draft-for-today", Day: today}, nil
	}
	state, err := statestore.Load(p.ws)
	if err != nil {
		return Result{}, apierr.New(apierr.KindIO, "finalize.Run", err)
	}
	if state.LastFinalizedDate == today {
		return Result{OK: true, AlreadyFinalized: true, Day: today, Rating: state.LastRating, Streak: state.Streak}, nil
	}

	// Stage 2: detect plan change.
	planText, err := fileio.ReadText(p.ws.PlanPath())
	if err != nil {
		return Result{}, apierr.New(apierr.KindIO, "finalize.Run", err)
	}
	prevText, err := fileio.ReadText(p.ws.PlanPrevPath())
	if err != nil {
		return Result{}, apierr.New(apierr.KindIO, "finalize.Run", err)
	}
	planChanged := strings.TrimSpace(planText) != strings.TrimSpace(prevText)
	if !fileio.Exists(p.ws.PlanPrevPath()) && strings.TrimSpace(planText) != "" {
		planChanged = true
	}

	// Stage 3: compute rating & streak.
	done, total, doneLabels, minutes, anyTimed := summarizeDraft(draft)
	r := rating.Rate(done, total, draft.Reflection, anyTimed)
	if draft.Mode == entities.ModeRecovery && r == entities.RatingBad {
		if done >= 1 || len(strings.TrimSpace(draft.Reflection)) >= 30 {
			r = entities.RatingFair
		}
	}
	counts := rating.StreakCounts(done, draft.Reflection, planChanged)
	newStreak := state.Streak
	if counts && state.LastStreakDate != today {
		if state.LastStreakDate != "" {
			last, err := time.ParseInLocation("2006-01-02", state.LastStreakDate, now.Location())
			gap := 2 // treat unparsable as a broken streak
			if err == nil {
				gap = int(now.Sub(last).Hours() / 24)
			}
			if gap <= 1 {
				newStreak++
			} else {
				newStreak = 1
			}
		} else {
			newStreak = 1
		}
		state.LastStreakDate = today
	}

	summaryText := rating.Summarize(today, r, doneLabels, minutes, draft.Reflection)

	// Stage 4: build & prepend reflection.
	notes := map[string]string{}
	for _, item := range draft.Items {
		if item.Done && strings.TrimSpace(item.Comment) != "" {
			notes[item.Label] = item.Comment
		}
	}
	entry := reflections.BuildEntry(reflections.EntryInput{
		Day: today, Timestamp: now.Format("2006-01-02T15:04"),
		Rating: r, Mode: draft.Mode, Done: doneLabels, Notes: notes,
		Reflection: draft.Reflection, Summary: summaryText,
	})
	if err := reflections.New(p.ws).Prepend(entry); err != nil {
		return Result{}, apierr.New(apierr.KindIO, "finalize.Run", err)
	}

	// Stage 5: update state.
	state.Streak = newStreak
	state.LastRating = r
	state.LastMode = draft.Mode
	state.LastSummary = summaryText
	state.LastFinalizedDate = today
	state.PushHistory(entities.HistoryEntry{Day: today, Rating: r, Mode: draft.Mode, StreakCounted: counts, DoneCount: done, Total: total})
	if err := statestore.Save(p.ws, state); err != nil {
		return Result{}, apierr.New(apierr.KindIO, "finalize.Run", err)
	}

	// Stage 6: process task progress (best-effort).
	taskUpdates := p.processTaskProgress(ctx, draft, &state, now)

	// Stage 7: refresh analytics (best-effort).
	if _, err := analytics.New(p.ws).Refresh(state.History); err != nil {
		p.log.Warn("finalize: analytics refresh failed", "error", err)
	}

	// Stage 8: emit agent context (best-effort).
	p.emitAgentContext(state, now)

	// Stage 9: dispatch post_finalize hooks (best-effort, never fatal).
	if p.hookDisp != nil {
		p.hookDisp.Dispatch(ctx, hooks.PostFinalize, map[string]interface{}{
			"day": today, "rating": r, "streak": newStreak,
		})
	}

	// Stage 10: clear draft.
	cleared := entities.CheckinDraft{Day: today, UpdatedAt: now.Format(time.RFC3339), Items: map[string]entities.CheckinItem{}}
	if err := fileio.WriteJSON(p.ws.CheckinDraftPath(), cleared); err != nil {
		p.log.Warn("finalize: failed to clear draft", "error", err)
	}

	return Result{OK: true, Day: today, Rating: r, Streak: newStreak, TaskUpdates: taskUpdates}, nil
}

func summarizeDraft(draft entities.CheckinDraft) (done, total int, doneLabels []string, minutes int, anyTimed bool) {
	total = len(draft.Items)
	for _, item := range draft.Items {
		if item.Done {
			done++
			doneLabels = append(doneLabels, item.Label)
			m := planparser.DurationMinutes(item.Label)
			minutes += m
			if m > 0 {
				anyTimed = true
			}
		}
	}
	return
}

func (p *Pipeline) processTaskProgress(ctx context.Context, draft entities.CheckinDraft, state *entities.State, now time.Time) int {
	if p.taskStore == nil {
		return 0
	}
	tf, err := p.taskStore.Load()
	if err != nil {
		p.log.Warn("finalize: failed to load tasks", "error", err)
		return 0
	}

	prevWeekStart := state.WeekStartDate
	budgetsReset := tasks.ResetWeeklyBudgetsIfDue(&tf, state, now)
	stateChanged := state.WeekStartDate != prevWeekStart
	updates := 0
	for _, item := range draft.Items {
		if !item.Done {
			continue
		}
		id, changed := tasks.ApplyProgressFromLabel(&tf, item.Label)
		if changed {
			updates++
			if t := tf.FindActive(id); t != nil && t.Status == entities.StatusComplete {
				p.archiveCompleted(ctx, &tf, t)
			}
		}
	}

	if updates > 0 || budgetsReset || stateChanged {
		if err := p.taskStore.Save(tf); err != nil {
			p.log.Warn("finalize: failed to save task progress", "error", err)
			return updates
		}
		if stateChanged {
			if err := statestore.Save(p.ws, *state); err != nil {
				p.log.Warn("finalize: failed to persist weekly reset", "error", err)
			}
		}
	}
	return updates
}

func (p *Pipeline) archiveCompleted(ctx context.Context, tf *entities.TasksFile, t *entities.Task) {
	archived := *t
	for i := range tf.Tasks {
		if tf.Tasks[i].ID == archived.ID {
			tf.Tasks = append(tf.Tasks[:i], tf.Tasks[i+1:]...)
			break
		}
	}
	tf.Archived = append(tf.Archived, archived)
	if p.hookDisp != nil {
		p.hookDisp.Dispatch(ctx, hooks.OnTaskComplete, hooks.ContextForTask(&archived))
	}
}

func (p *Pipeline) emitAgentContext(state entities.State, now time.Time) {
	summary, err := analytics.New(p.ws).Load()
	if err != nil {
		p.log.Warn("finalize: failed to load analytics for agent context", "error", err)
		return
	}
	var active []entities.Task
	if p.taskStore != nil {
		if tf, err := p.taskStore.Load(); err == nil {
			active = tf.Tasks
		}
	}
	if _, err := agentcontext.New(p.ws).Refresh(state, summary, active, now); err != nil {
		p.log.Warn("finalize: failed to emit agent context", "error", err)
	}
}
