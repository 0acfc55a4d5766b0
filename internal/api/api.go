// Package api is the single public entry point embedding applications use:
// one facade wiring the workspace's stores and engines together, every
// method a small value-in/value-out operation per spec.
package api

import (
	"context"
	"time"

	"github.com/dayplan/planner/internal/agentcontext"
	"github.com/dayplan/planner/internal/analytics"
	"github.com/dayplan/planner/internal/apierr"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/finalize"
	"github.com/dayplan/planner/internal/focus"
	"github.com/dayplan/planner/internal/hooks"
	"github.com/dayplan/planner/internal/reflections"
	"github.com/dayplan/planner/internal/scheduler"
	"github.com/dayplan/planner/internal/statestore"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

// Engine is the facade every transport (CLI, daemon, HTTP server) drives.
type Engine struct {
	ws        workspace.Workspace
	tasks     *tasks.Store
	reflect   *reflections.Log
	analytics *analytics.Engine
	scheduler *scheduler.Scheduler
	focus     *focus.Manager
	agentCtx  *agentcontext.Builder
	hooks     *hooks.Dispatcher
	finalize  *finalize.Pipeline
	log       logger.Logger
}

// New builds an Engine bound to ws, wiring every lower-level package it
// composes.
func New(ws workspace.Workspace, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	taskStore := tasks.New(ws, log)
	hookDisp := hooks.New(ws, log)
	return &Engine{
		ws:        ws,
		tasks:     taskStore,
		reflect:   reflections.New(ws),
		analytics: analytics.New(ws),
		scheduler: scheduler.New(ws),
		focus:     focus.New(ws, taskStore, log),
		agentCtx:  agentcontext.New(ws),
		hooks:     hookDisp,
		finalize:  finalize.New(ws, taskStore, hookDisp, log),
		log:       log,
	}
}

// GetProfile returns profile.yaml, defaulting when absent.
func (e *Engine) GetProfile() (entities.Profile, error) {
	p := entities.DefaultProfile()
	if err := fileio.ReadYAML(e.ws.ProfilePath(), &p); err != nil {
		return entities.Profile{}, err
	}
	return p, nil
}

// UpdateProfile overwrites profile.yaml atomically.
func (e *Engine) UpdateProfile(p entities.Profile) error {
	return fileio.WriteYAML(e.ws.ProfilePath(), p)
}

// ListTasks returns active tasks sorted by urgency_score, as of now.
func (e *Engine) ListTasks(now time.Time) ([]entities.Task, error) {
	return e.tasks.List(now)
}

// CreateTask adds a task, auto-assigning an id when blank.
func (e *Engine) CreateTask(t entities.Task) (entities.Task, error) {
	return e.tasks.Create(t)
}

// UpdateTask applies patch to the task with id.
func (e *Engine) UpdateTask(id string, patch tasks.Patch) (entities.Task, error) {
	return e.tasks.Update(id, patch)
}

// DeleteTask removes the task with id, archiving it when archive is true.
func (e *Engine) DeleteTask(id string, archive bool) error {
	return e.tasks.Delete(id, archive)
}

// SavePlan backs up the current plan.md to plan_prev.md, then writes text
// as the new plan.md.
func (e *Engine) SavePlan(text string) error {
	return e.scheduler.SavePlan(text)
}

// GeneratePlan builds today's (or date's, if given) schedule from the
// profile and active tasks, renders it to markdown, and persists it,
// dispatching pre/post_plan_generate hooks around the work.
func (e *Engine) GeneratePlan(ctx context.Context, date time.Time) (entities.DaySchedule, error) {
	e.hooks.Dispatch(ctx, hooks.PrePlanGenerate, map[string]interface{}{"date": date.Format("2006-01-02")})

	profile, err := e.GetProfile()
	if err != nil {
		return entities.DaySchedule{}, err
	}
	active, err := e.tasks.List(date)
	if err != nil {
		return entities.DaySchedule{}, err
	}
	sched := scheduler.Generate(profile, active, date)

	byID := make(map[string]entities.Task, len(active))
	for _, t := range active {
		byID[t.ID] = t
	}
	if err := e.scheduler.SavePlan(scheduler.RenderPlan(sched, byID)); err != nil {
		return entities.DaySchedule{}, err
	}

	e.hooks.Dispatch(ctx, hooks.PostPlanGenerate, map[string]interface{}{
		"date": date.Format("2006-01-02"), "scheduled": len(sched.Blocks), "carryover": len(sched.UnscheduledTasks),
	})
	return sched, nil
}

// SaveCheckinDraft persists today's in-progress checkin. Per the open-
// question resolution in §9, a day other than today is rejected at this
// boundary rather than silently coerced.
func (e *Engine) SaveCheckinDraft(day string, mode entities.CheckinMode, items map[string]entities.CheckinItem, reflection string, now time.Time) (entities.CheckinDraft, error) {
	today := now.Format("2006-01-02")
	if day != today {
		return entities.CheckinDraft{}, apierr.Newf(apierr.KindValidation, "api.SaveCheckinDraft", "day %q is not today (%q)", day, today)
	}
	draft := entities.CheckinDraft{
		Day: today, UpdatedAt: now.Format(time.RFC3339),
		Mode: mode, Items: items, Reflection: reflection,
	}
	if draft.Items == nil {
		draft.Items = map[string]entities.CheckinItem{}
	}
	if err := fileio.WriteJSON(e.ws.CheckinDraftPath(), draft); err != nil {
		return entities.CheckinDraft{}, err
	}
	return draft, nil
}

// GetCheckinDraft returns the current draft, or a fresh one for today if
// the persisted draft belongs to a different day.
func (e *Engine) GetCheckinDraft(now time.Time) (entities.CheckinDraft, error) {
	var draft entities.CheckinDraft
	if err := fileio.ReadJSON(e.ws.CheckinDraftPath(), &draft); err != nil {
		return entities.CheckinDraft{}, err
	}
	today := now.Format("2006-01-02")
	if draft.Day != today {
		return entities.FreshDraft(today, now.Format(time.RFC3339)), nil
	}
	return draft, nil
}

// FinalizeDay runs the end-of-day pipeline for now.
func (e *Engine) FinalizeDay(ctx context.Context, now time.Time) (finalize.Result, error) {
	return e.finalize.Run(ctx, now)
}

// GetAnalytics returns the last-written analytics.json.
func (e *Engine) GetAnalytics() (entities.AnalyticsSummary, error) {
	return e.analytics.Load()
}

// RefreshAnalytics recomputes analytics.json from reflections.md and state
// history.
func (e *Engine) RefreshAnalytics() (entities.AnalyticsSummary, error) {
	state, err := statestore.Load(e.ws)
	if err != nil {
		return entities.AnalyticsSummary{}, err
	}
	return e.analytics.Refresh(state.History)
}

// GetRecentReflections returns the n most recent reflection log entries,
// newest first.
func (e *Engine) GetRecentReflections(n int) ([]entities.ReflectionRecord, error) {
	text, err := e.reflect.Read()
	if err != nil {
		return nil, err
	}
	records := analytics.ParseReflections(text)
	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records, nil
}

// FocusStart begins a focus session, dispatching on_focus_start.
func (e *Engine) FocusStart(ctx context.Context, taskID, label string, minutes int, now time.Time) (entities.FocusSession, error) {
	session, err := e.focus.Start(taskID, label, minutes, now)
	if err != nil {
		return entities.FocusSession{}, err
	}
	e.hooks.Dispatch(ctx, hooks.OnFocusStart, map[string]interface{}{"task_id": taskID, "label": label})
	return session, nil
}

// FocusStop ends the active session, dispatching on_focus_stop.
func (e *Engine) FocusStop(ctx context.Context, completed bool, notes string, now time.Time) (entities.FocusSession, error) {
	session, err := e.focus.Stop(completed, notes, now)
	if err != nil {
		return entities.FocusSession{}, err
	}
	e.hooks.Dispatch(ctx, hooks.OnFocusStop, map[string]interface{}{"task_id": session.TaskID, "completed": completed})
	return session, nil
}

// FocusInterrupt increments the active session's interruption count; a
// no-op when idle.
func (e *Engine) FocusInterrupt() (*entities.FocusSession, error) {
	return e.focus.Interrupt()
}

// FocusCurrent returns the active session, or nil when idle.
func (e *Engine) FocusCurrent() (*entities.FocusSession, error) {
	state, err := e.focus.Load()
	if err != nil {
		return nil, err
	}
	return state.ActiveSession, nil
}

// ListHooks returns hooks.yaml's parsed lifecycle-point bindings.
func (e *Engine) ListHooks() (hooks.Config, error) {
	return e.hooks.Load()
}

// GetState returns the persisted aggregate state.
func (e *Engine) GetState() (entities.State, error) {
	return statestore.Load(e.ws)
}

// GetAgentContext returns the last-emitted agent_context.json.
func (e *Engine) GetAgentContext() (entities.AgentContext, error) {
	return e.agentCtx.Load()
}
