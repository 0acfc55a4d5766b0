// Package focus implements the single-active-session focus state machine:
// start/stop/interrupt, with progress auto-logged against the matching task
// on stop.
package focus

import (
	"time"

	"github.com/dayplan/planner/internal/apierr"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

// Manager loads/saves focus.json and runs the state machine.
type Manager struct {
	ws    workspace.Workspace
	tasks *tasks.Store
	log   logger.Logger
}

// New returns a Manager bound to ws, applying progress through store.
func New(ws workspace.Workspace, store *tasks.Store, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{ws: ws, tasks: store, log: log}
}

// Load reads focus.json, defaulting to entities.DefaultFocusState() when
// absent.
func (m *Manager) Load() (entities.FocusState, error) {
	s := entities.DefaultFocusState()
	if err := fileio.ReadJSON(m.ws.FocusPath(), &s); err != nil {
		return entities.FocusState{}, err
	}
	if s.History == nil {
		s.History = []entities.FocusSession{}
	}
	return s, nil
}

func (m *Manager) save(s entities.FocusState) error {
	return fileio.WriteJSON(m.ws.FocusPath(), s)
}

// Start begins a new session; fails with Conflict if one is already active.
func (m *Manager) Start(taskID, label string, minutes int, now time.Time) (entities.FocusSession, error) {
	state, err := m.Load()
	if err != nil {
		return entities.FocusSession{}, err
	}
	if state.ActiveSession != nil {
		return entities.FocusSession{}, apierr.Newf(apierr.KindConflict, "focus.Start", "a focus session is already active")
	}
	session := entities.FocusSession{
		TaskID:         taskID,
		TaskLabel:      label,
		StartedAt:      now.Format(time.RFC3339),
		PlannedMinutes: minutes,
	}
	state.ActiveSession = &session
	if err := m.save(state); err != nil {
		return entities.FocusSession{}, err
	}
	return session, nil
}

// Stop ends the active session, persists it to history, and best-effort
// applies its elapsed minutes to the matched task (failures there are
// silent, per §4.9).
func (m *Manager) Stop(completed bool, notes string, now time.Time) (entities.FocusSession, error) {
	state, err := m.Load()
	if err != nil {
		return entities.FocusSession{}, err
	}
	if state.ActiveSession == nil {
		return entities.FocusSession{}, apierr.Newf(apierr.KindConflict, "focus.Stop", "no focus session is active")
	}
	session := *state.ActiveSession
	started, perr := time.Parse(time.RFC3339, session.StartedAt)
	elapsed := 0.0
	if perr == nil {
		elapsed = now.Sub(started).Minutes()
	}
	endedAt := now.Format(time.RFC3339)
	session.EndedAt = &endedAt
	session.ElapsedMinutes = roundToOneDecimal(elapsed)
	session.Completed = completed
	session.Notes = notes

	state.ActiveSession = nil
	state.History = append(state.History, session)
	if err := m.save(state); err != nil {
		return entities.FocusSession{}, err
	}

	m.applyProgress(session)
	return session, nil
}

func (m *Manager) applyProgress(session entities.FocusSession) {
	if m.tasks == nil {
		return
	}
	tf, err := m.tasks.Load()
	if err != nil {
		m.log.Warn("focus: failed to load tasks for auto-log", "error", err)
		return
	}
	t := tf.FindActive(session.TaskID)
	if t == nil {
		return
	}
	minutes := int(session.ElapsedMinutes + 0.5)
	if t.Variant().ApplyProgress(minutes) {
		if err := m.tasks.Save(tf); err != nil {
			m.log.Warn("focus: failed to save task progress", "error", err)
		}
	}
}

// Interrupt increments the active session's interruption count; a no-op
// when idle.
func (m *Manager) Interrupt() (*entities.FocusSession, error) {
	state, err := m.Load()
	if err != nil {
		return nil, err
	}
	if state.ActiveSession == nil {
		return nil, nil
	}
	state.ActiveSession.Interruptions++
	if err := m.save(state); err != nil {
		return nil, err
	}
	return state.ActiveSession, nil
}

func roundToOneDecimal(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}

// Stats summarizes focus sessions started within the last n days.
type Stats struct {
	SessionCount    int
	TotalMinutes    float64
	MeanMinutes     float64
	Interruptions   int
	CompletionRate  float64
}

// StatsOverLastNDays computes Stats over the session history, counting only
// sessions started within the trailing n-day window ending at now.
func StatsOverLastNDays(history []entities.FocusSession, n int, now time.Time) Stats {
	cutoff := now.AddDate(0, 0, -n)
	var stats Stats
	var completed int
	for _, s := range history {
		started, err := time.Parse(time.RFC3339, s.StartedAt)
		if err != nil || started.Before(cutoff) {
			continue
		}
		stats.SessionCount++
		stats.TotalMinutes += s.ElapsedMinutes
		stats.Interruptions += s.Interruptions
		if s.Completed {
			completed++
		}
	}
	if stats.SessionCount > 0 {
		stats.MeanMinutes = stats.TotalMinutes / float64(stats.SessionCount)
		stats.CompletionRate = float64(completed) / float64(stats.SessionCount)
	}
	return stats
}
