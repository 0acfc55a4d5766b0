// Package workspace resolves the engine's one piece of process-wide
// context: where the workspace root lives, what timezone the user is in,
// and what "today" means. Per the design note against implicit globals,
// a Workspace value is constructed at an entry point and threaded down
// explicitly from there: once per CLI invocation, and once at startup for
// planner-serve and planner-daemon, which keep that root and timezone for
// the life of the process.
package workspace

import (
	"os"
	"path/filepath"
	"time"
)

// RootEnvVar is the environment variable that overrides the workspace root.
const RootEnvVar = "PLANNER_ROOT"

// defaultRootSuffix is appended to the user's home directory when
// PLANNER_ROOT is unset.
const defaultRootSuffix = "planner"

// Workspace carries the resolved root directory and the user's clock.
type Workspace struct {
	Root     string
	Location *time.Location
}

// New resolves the workspace root from PLANNER_ROOT (or ~/planner) and
// loads the given IANA timezone name (falling back to UTC on an empty
// name or an unrecognized zone, matching the profile's documented default).
func New(timezone string) (Workspace, error) {
	root, err := resolveRoot()
	if err != nil {
		return Workspace{}, err
	}
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	return Workspace{Root: root, Location: loc}, nil
}

func resolveRoot() (string, error) {
	if v := os.Getenv(RootEnvVar); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultRootSuffix), nil
}

// Now returns the current instant in the workspace's timezone.
func (w Workspace) Now() time.Time {
	return time.Now().In(w.Location)
}

// Today returns today's date in the workspace's timezone as YYYY-MM-DD.
func (w Workspace) Today() string {
	return w.Now().Format("2006-01-02")
}

// Planner directory and derived file paths, matching the layout in §3/§6.

func (w Workspace) plannerDir() string     { return filepath.Join(w.Root, "planner") }
func (w Workspace) latestDir() string      { return filepath.Join(w.plannerDir(), "latest") }
func (w Workspace) reflectionsDir() string { return filepath.Join(w.Root, "reflections") }

func (w Workspace) ProfilePath() string       { return filepath.Join(w.plannerDir(), "profile.yaml") }
func (w Workspace) TasksPath() string         { return filepath.Join(w.plannerDir(), "tasks.yaml") }
func (w Workspace) StatePath() string         { return filepath.Join(w.plannerDir(), "state.json") }
func (w Workspace) AnalyticsPath() string     { return filepath.Join(w.plannerDir(), "analytics.json") }
func (w Workspace) AgentContextPath() string  { return filepath.Join(w.plannerDir(), "agent_context.json") }
func (w Workspace) HooksPath() string         { return filepath.Join(w.plannerDir(), "hooks.yaml") }
func (w Workspace) PlanPath() string          { return filepath.Join(w.latestDir(), "plan.md") }
func (w Workspace) PlanPrevPath() string      { return filepath.Join(w.latestDir(), "plan_prev.md") }
func (w Workspace) CheckinDraftPath() string  { return filepath.Join(w.latestDir(), "checkin_draft.json") }
func (w Workspace) FocusPath() string         { return filepath.Join(w.latestDir(), "focus.json") }
func (w Workspace) ReflectionsPath() string   { return filepath.Join(w.reflectionsDir(), "reflections.md") }

// EnsureDirs creates the planner/, planner/latest/, and reflections/
// directories if they do not already exist. Called once at startup by each
// entry point before any file operation.
func (w Workspace) EnsureDirs() error {
	for _, dir := range []string{w.plannerDir(), w.latestDir(), w.reflectionsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
