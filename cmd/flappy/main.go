// flappy is a side-scrolling obstacle game whose body carries a distance
// scanner. Rounds can be played in the terminal or a desktop window, flown by
// an autopilot, simulated headless and recorded to SQLite.
//
// Usage:
//
//	flappy play              - Play a round (terminal by default)
//	flappy simulate          - Run autopilot episodes without a display
//	flappy runs              - Browse recorded runs
//	flappy frontends         - List available front-ends
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.flappy/config.yaml, ./configs/flappy.yaml)
//	--seed <value>      - Obstacle RNG seed (0 = random based on time)
//	--fps <rate>        - Frames per second
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thxaman/flappy-lidar/internal/config"

	// Import front-ends to register them
	_ "github.com/thxaman/flappy-lidar/internal/platform/headless"
	_ "github.com/thxaman/flappy-lidar/internal/platform/tui"
	_ "github.com/thxaman/flappy-lidar/internal/platform/window"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagFPS      int
	flagLogLevel string

	// cfg is the resolved configuration, set before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy LIDAR - a side-scroller with a distance scanner",
	Long: `Flappy LIDAR is a side-scrolling obstacle game. The body falls under
gravity, jumps on command and carries a scanner that measures the distance to
the nearest surface along a fan of rays.

Available commands:
  play       - Play in the terminal or a desktop window
  simulate   - Run autopilot episodes headless
  runs       - Browse recorded runs
  frontends  - List available front-ends

Examples:
  flappy play
  flappy play --frontend window --record ~/.flappy/runs.db
  flappy simulate --episodes 20 --record runs.db
  flappy runs --limit 50`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frames per second")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(frontendsCmd)
}

// loadConfig resolves the configuration: file, then environment, then flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&loaded); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		loaded.Seed = flagSeed
	}
	if flags.Changed("fps") {
		loaded.TickRate = flagFPS
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// seed returns the configured seed, or one from the clock when it is zero.
func seed() int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// newLogger builds the process logger. When quiet is set and no log file is
// configured, output is discarded so it cannot tear the terminal UI.
func newLogger(quiet bool) (*log.Logger, io.Closer, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	switch {
	case cfg.Log.File != "":
		path := expandHome(cfg.Log.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log: create directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log: open %s: %w", path, err)
		}
		w, closer = f, f
	case quiet:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "flappy",
		Level:           level,
	})
	return logger, closer, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
