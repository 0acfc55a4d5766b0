// Command planner-daemon runs the engine unattended: it generates the day's
// plan and finalizes the previous one on a cron schedule, and watches
// profile.yaml/checkin_draft.json so edits to either are picked up without
// a restart.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/dayplan/planner/internal/api"
	"github.com/dayplan/planner/internal/appconfig"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

var (
	configFile = flag.String("config", "", "path to config.toml")
	logLevel   = flag.String("log-level", "", "override config's general.log_level")
	version    = flag.Bool("version", false, "show version information and exit")
)

const daemonVersion = "0.1.0"

func main() {
	flag.Parse()
	if *version {
		fmt.Printf("planner-daemon %s\n", daemonVersion)
		os.Exit(0)
	}

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	level := cfg.General.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logger.NewDefaultLogger("planner-daemon", level)

	ws, err := resolveWorkspace()
	if err != nil {
		log.Error("resolving workspace failed", "error", err)
		os.Exit(1)
	}
	eng := api.New(ws, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := newDaemon(eng, ws, cfg, log)
	if err := d.run(ctx); err != nil {
		log.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("planner-daemon stopped")
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

type daemonTask struct {
	eng *api.Engine
	ws  workspace.Workspace
	cfg appconfig.Config
	log logger.Logger
}

func newDaemon(eng *api.Engine, ws workspace.Workspace, cfg appconfig.Config, log logger.Logger) *daemonTask {
	return &daemonTask{eng: eng, ws: ws, cfg: cfg, log: log}
}

func (d *daemonTask) run(ctx context.Context) error {
	c := cron.New()

	generateCron := d.cfg.Daemon.GenerateCron
	if generateCron == "" {
		generateCron = d.deliveryCron()
	}
	if _, err := c.AddFunc(generateCron, func() { d.generate(ctx) }); err != nil {
		return fmt.Errorf("scheduling generate_plan at %q: %w", generateCron, err)
	}
	if _, err := c.AddFunc(d.cfg.Daemon.FinalizeCron, func() { d.finalize(ctx) }); err != nil {
		return fmt.Errorf("scheduling finalize_day at %q: %w", d.cfg.Daemon.FinalizeCron, err)
	}
	d.log.Info("daemon schedule configured", "generate_cron", generateCron, "finalize_cron", d.cfg.Daemon.FinalizeCron)
	c.Start()
	defer c.Stop()

	watcher, err := d.startWatcher(ctx)
	if err != nil {
		d.log.Warn("file watcher failed to start, continuing on cron alone", "error", err)
	} else {
		defer watcher.Close()
	}

	<-ctx.Done()
	return nil
}

// deliveryCron falls back to profile.yaml's daily_plan_delivery_time,
// converted to an every-day cron expression, when no explicit override is
// configured.
func (d *daemonTask) deliveryCron() string {
	profile, err := d.eng.GetProfile()
	if err != nil {
		d.log.Warn("could not read profile for delivery time, defaulting to 06:30", "error", err)
		return "30 6 * * *"
	}
	var hh, mm int
	if _, err := fmt.Sscanf(profile.DailyPlanDeliveryTime, "%d:%d", &hh, &mm); err != nil {
		return "30 6 * * *"
	}
	return fmt.Sprintf("%d %d * * *", mm, hh)
}

func (d *daemonTask) generate(ctx context.Context) {
	now := d.ws.Now()
	sched, err := d.eng.GeneratePlan(ctx, now)
	if err != nil {
		d.log.Error("generate_plan failed", "error", err)
		return
	}
	d.log.Info("generate_plan completed", "date", sched.Date, "blocks", len(sched.Blocks))
}

func (d *daemonTask) finalize(ctx context.Context) {
	now := d.ws.Now()
	result, err := d.eng.FinalizeDay(ctx, now)
	if err != nil {
		d.log.Error("finalize_day failed", "error", err)
		return
	}
	if !result.OK {
		d.log.Info("finalize_day skipped", "reason", result.Reason)
		return
	}
	d.log.Info("finalize_day completed", "day", result.Day, "rating", result.Rating, "streak", result.Streak)
}

// startWatcher watches profile.yaml and checkin_draft.json for edits,
// debouncing rapid writes, and logs a reload notice — the daemon always
// re-reads these files from disk on its next tick, so the watcher exists to
// make operators aware a live edit took effect, not to trigger extra work.
func (d *daemonTask) startWatcher(ctx context.Context) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range []string{d.ws.ProfilePath(), d.ws.CheckinDraftPath()} {
		if err := watcher.Add(p); err != nil {
			d.log.Warn("not watching file (may not exist yet)", "path", p, "error", err)
		}
	}

	debounce := d.cfg.Daemon.WatchDebounce.Duration
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	pending := map[string]time.Time{}

	go func() {
		ticker := time.NewTicker(debounce)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					pending[event.Name] = time.Now()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.log.Warn("watcher error", "error", err)
			case <-ticker.C:
				now := time.Now()
				for path, at := range pending {
					if now.Sub(at) >= debounce {
						d.log.Info("workspace file changed", "path", path)
						delete(pending, path)
					}
				}
			}
		}
	}()
	return watcher, nil
}
