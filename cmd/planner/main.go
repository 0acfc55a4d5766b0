// Command planner is the CLI transport over the engine: generate today's
// plan, finalize the day, and inspect tasks/analytics/focus sessions. It
// has no command for recording a checkin draft. It is a thin presentation
// layer — all behavior lives in internal/api.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dayplan/planner/internal/api"
	"github.com/dayplan/planner/internal/apierr"
	"github.com/dayplan/planner/internal/appconfig"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

var (
	cfgPath string
	verbose bool
	noColor bool

	cfg appconfig.Config
	ws  workspace.Workspace
	log logger.Logger
	eng *api.Engine
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "A single-user, file-backed daily planning engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initEngine()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.toml (defaults embedded when absent)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newGenerateCmd(),
		newFinalizeCmd(),
		newTasksCmd(),
		newAnalyticsCmd(),
		newFocusCmd(),
		newReflectionsCmd(),
		newAgentContextCmd(),
		newHooksCmd(),
	)
	return root
}

func initEngine() error {
	loaded, err := appconfig.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if noColor {
		color.NoColor = true
	} else if !cfg.General.ColorOutput {
		color.NoColor = true
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	log = logger.NewDefaultLogger("planner", level)

	w, err := resolveWorkspace()
	if err != nil {
		return fmt.Errorf("resolving workspace: %w", err)
	}
	ws = w
	eng = api.New(ws, log)
	return nil
}

// resolveWorkspace loads the workspace root first under UTC (profile.yaml's
// own path does not depend on timezone), reads its configured timezone, and
// rebuilds the workspace in that zone.
func resolveWorkspace() (workspace.Workspace, error) {
	probe, err := workspace.New("")
	if err != nil {
		return workspace.Workspace{}, err
	}
	if err := probe.EnsureDirs(); err != nil {
		return workspace.Workspace{}, fmt.Errorf("preparing workspace: %w", err)
	}
	profile := entities.DefaultProfile()
	if err := fileio.ReadYAML(probe.ProfilePath(), &profile); err != nil {
		return workspace.Workspace{}, err
	}
	return workspace.New(profile.Timezone)
}

// fail prints err in the style matching its apierr.Kind (when it has one)
// and returns it so callers can `return fail(err)` directly from a RunE.
func fail(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case apierr.Is(err, apierr.KindNotFound):
		errorColor.Fprintf(os.Stderr, "not found: %v\n", err)
	case apierr.Is(err, apierr.KindValidation):
		errorColor.Fprintf(os.Stderr, "invalid: %v\n", err)
	case apierr.Is(err, apierr.KindConflict):
		errorColor.Fprintf(os.Stderr, "conflict: %v\n", err)
	default:
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}
