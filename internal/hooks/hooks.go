// Package hooks dispatches configured shell commands at lifecycle points,
// feeding each one a JSON context over stdin and never letting a failing
// hook propagate to its caller.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

// Point is one of the lifecycle points hooks.yaml can bind to.
type Point string

const (
	PrePlanGenerate  Point = "pre_plan_generate"
	PostPlanGenerate Point = "post_plan_generate"
	PreFinalize      Point = "pre_finalize"
	PostFinalize     Point = "post_finalize"
	OnFocusStart     Point = "on_focus_start"
	OnFocusStop      Point = "on_focus_stop"
	OnTaskComplete   Point = "on_task_complete"
)

const (
	defaultTimeout  = 30 * time.Second
	maxCapturedBytes = 4096
)

// Hook is one configured command; Command can be given as a bare YAML
// scalar string (UnmarshalYAML handles both forms).
type Hook struct {
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"-"`
}

type hookYAML struct {
	Command string `yaml:"command"`
	Timeout *int   `yaml:"timeout"` // seconds
}

// UnmarshalYAML accepts either a bare command string or a
// {command, timeout} mapping.
func (h *Hook) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		h.Command = s
		h.Timeout = defaultTimeout
		return nil
	}
	var m hookYAML
	if err := unmarshal(&m); err != nil {
		return err
	}
	h.Command = m.Command
	h.Timeout = defaultTimeout
	if m.Timeout != nil {
		h.Timeout = time.Duration(*m.Timeout) * time.Second
	}
	return nil
}

// Config is the parsed hooks.yaml: lifecycle point -> ordered hook list.
type Config map[Point][]Hook

// Result is one hook invocation's outcome; it is always returned, never an
// error, so a failing hook can never block its caller.
type Result struct {
	Command    string `json:"command"`
	HookPoint  Point  `json:"hook_point"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Error      string `json:"error,omitempty"`
	InvocationID string `json:"invocation_id"`
}

// Dispatcher loads hooks.yaml and invokes hooks against a workspace.
type Dispatcher struct {
	ws  workspace.Workspace
	log logger.Logger
}

// New returns a Dispatcher bound to ws.
func New(ws workspace.Workspace, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{ws: ws, log: log}
}

// Load reads hooks.yaml, defaulting to an empty configuration when absent
// (hooks.yaml is documented as optional).
func (d *Dispatcher) Load() (Config, error) {
	cfg := Config{}
	if err := fileio.ReadYAML(d.ws.HooksPath(), &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dispatch runs every hook bound to point, in order, with ctxData marshaled
// to JSON and fed over stdin. Results are always returned; failures never
// become a Go error.
func (d *Dispatcher) Dispatch(ctx context.Context, point Point, ctxData map[string]interface{}) []Result {
	cfg, err := d.Load()
	if err != nil {
		d.log.Warn("hooks: failed to load hooks.yaml", "error", err)
		return nil
	}
	hooksForPoint := cfg[point]
	if len(hooksForPoint) == 0 {
		return nil
	}

	if ctxData == nil {
		ctxData = map[string]interface{}{}
	}
	ctxData["hook_point"] = point

	results := make([]Result, 0, len(hooksForPoint))
	for _, h := range hooksForPoint {
		results = append(results, d.run(ctx, point, h, ctxData))
	}
	return results
}

func (d *Dispatcher) run(ctx context.Context, point Point, h Hook, ctxData map[string]interface{}) Result {
	invocationID := uuid.NewString()
	ctxData["invocation_id"] = invocationID

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := Result{Command: h.Command, HookPoint: point, InvocationID: invocationID}

	payload, err := json.Marshal(ctxData)
	if err != nil {
		result.ExitCode = -1
		result.Error = err.Error()
		return result
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", h.Command)
	cmd.Dir = d.ws.Root
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.log.Info("hooks: dispatching", "point", point, "command", h.Command, "invocation_id", invocationID)

	err = cmd.Run()
	result.Stdout = truncate(stdout.String())
	result.Stderr = truncate(stderr.String())

	if runCtx.Err() == context.DeadlineExceeded {
		result.ExitCode = -1
		result.Error = "timed out after " + timeout.String()
		d.log.Warn("hooks: timed out", "command", h.Command, "invocation_id", invocationID)
		return result
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Error = err.Error()
		}
		d.log.Warn("hooks: failed", "command", h.Command, "error", err)
		return result
	}
	return result
}

func truncate(s string) string {
	if len(s) <= maxCapturedBytes {
		return s
	}
	return s[:maxCapturedBytes]
}

// ContextForTask builds the minimal context map for task-completion hooks.
func ContextForTask(t *entities.Task) map[string]interface{} {
	if t == nil {
		return nil
	}
	return map[string]interface{}{
		"task_id": t.ID,
		"title":   t.Title,
		"status":  t.Status,
	}
}
