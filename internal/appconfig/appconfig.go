// Package appconfig loads the CLI/daemon-level TOML configuration — logging
// verbosity, output styling, and the daemon's cron/watch cadence — distinct
// from the domain's YAML/JSON workspace files under internal/entities.
package appconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration unmarshals TOML strings like "30s" or "5m" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// General holds logging and output preferences shared by every transport.
type General struct {
	LogLevel    string `toml:"log_level"`
	ColorOutput bool   `toml:"color_output"`
}

// Daemon configures planner-daemon's scheduling.
type Daemon struct {
	GenerateCron  string   `toml:"generate_cron"`  // falls back to profile.daily_plan_delivery_time when empty
	FinalizeCron  string   `toml:"finalize_cron"`
	WatchDebounce Duration `toml:"watch_debounce"`
}

// Serve configures planner-serve's HTTP bind address.
type Serve struct {
	Bind string `toml:"bind"`
}

// Config is the root app-level configuration.
type Config struct {
	General General `toml:"general"`
	Daemon  Daemon  `toml:"daemon"`
	Serve   Serve   `toml:"serve"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		General: General{LogLevel: "info", ColorOutput: true},
		Daemon: Daemon{
			FinalizeCron:  "0 22 * * *",
			WatchDebounce: Duration{Duration: 2 * time.Second},
		},
		Serve: Serve{Bind: "127.0.0.1:8787"},
	}
}

// Load reads and validates a TOML configuration file at path, defaulting
// fields left unset. A missing file is not an error — Default() is used.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.Daemon.FinalizeCron == "" {
		cfg.Daemon.FinalizeCron = "0 22 * * *"
	}
	if cfg.Daemon.WatchDebounce.Duration == 0 {
		cfg.Daemon.WatchDebounce.Duration = 2 * time.Second
	}
	if cfg.Serve.Bind == "" {
		cfg.Serve.Bind = "127.0.0.1:8787"
	}
}

func validate(cfg Config) error {
	switch cfg.General.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("general.log_level must be one of debug, info, warn, error, got %q", cfg.General.LogLevel)
	}
	if cfg.Daemon.WatchDebounce.Duration < 0 {
		return fmt.Errorf("daemon.watch_debounce cannot be negative")
	}
	return nil
}
