package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thxaman/flappy-lidar/internal/agent"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
	"github.com/thxaman/flappy-lidar/internal/platform/headless"
	"github.com/thxaman/flappy-lidar/internal/platform/tui"
	"github.com/thxaman/flappy-lidar/internal/registry"
	"github.com/thxaman/flappy-lidar/internal/storage"
	"github.com/thxaman/flappy-lidar/internal/telemetry"
)

var (
	flagFrontend  string
	flagAutopilot bool
	flagRecord    string
	flagClip      string
	flagBody      string
	flagNoScan    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the game in the chosen front-end.

Controls:
  Space/Up/W   - Start a round / jump
  Q/Esc        - Quit
  Ctrl+S       - Screenshot (terminal only)

Examples:
  flappy play
  flappy play --frontend window
  flappy play --autopilot --seed 42
  flappy play --record ~/.flappy/runs.db --clip ray`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagFrontend, "frontend", "", "Front-end to play in (see 'flappy frontends')")
	playCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Let the autopilot fly")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record runs to this SQLite database")
	playCmd.Flags().StringVar(&flagClip, "clip", "", "Scanner clip mode: legacy or ray")
	playCmd.Flags().StringVar(&flagBody, "body", "", "Collision body: mask or rect")
	playCmd.Flags().BoolVar(&flagNoScan, "no-scan", false, "Disable the distance scanner")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if flagFrontend != "" {
		cfg.Frontend = flagFrontend
	}
	if flagRecord != "" {
		cfg.Record.Path = flagRecord
	}
	if flagClip != "" {
		cfg.Scanner.Clip = flagClip
	}
	if flagBody != "" {
		cfg.Collision.Body = flagBody
	}
	if flagNoScan {
		cfg.Scanner.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !registry.Exists(cfg.Frontend) {
		return fmt.Errorf("unknown frontend %q; run 'flappy frontends' to see available front-ends", cfg.Frontend)
	}
	frontend, err := registry.Create(cfg.Frontend)
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg.Frontend == tui.Name)
	if err != nil {
		return err
	}
	defer closer.Close()

	clip, err := cfg.ClipMode()
	if err != nil {
		return err
	}
	s := seed()
	game := flappy.New(gameOptions(s, clip))

	session := &registry.Session{
		Game:     game,
		TickRate: cfg.TickRate,
		Scale:    cfg.Window.Scale,
		Logger:   logger,
		LogScan:  cfg.Scanner.LogSamples,
	}

	source := telemetry.SourcePlayer
	if flagAutopilot || cfg.Frontend == headless.Name {
		session.Pilot = agent.New(true)
		source = telemetry.SourceAutopilot
	}

	if cfg.Record.Path != "" {
		store, err := storage.Open(cfg.Record.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		rec := telemetry.New(store, telemetry.Options{
			Source: source,
			Clip:   clip.String(),
			Seed:   s,
			Every:  cfg.Record.Every,
		}, logger)
		session.Observe = rec.Observe
		defer func() {
			rec.Close(game.Score(), game.Ticks())
			if n := rec.Failures(); n > 0 {
				fmt.Fprintf(os.Stderr, "Warning: %d telemetry writes failed; see the log for details\n", n)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "frontend", frontend.Name(), "seed", s, "clip", clip, "autopilot", session.Pilot != nil)
	if err := frontend.Run(ctx, session); err != nil {
		return fmt.Errorf("%s: %w", frontend.Name(), err)
	}
	logger.Info("stopped", "rounds", game.Round(), "score", game.Score())
	return nil
}

// gameOptions builds game options from the resolved configuration.
func gameOptions(seed int64, clip lidar.ClipMode) flappy.Options {
	opts := flappy.Options{
		Seed:     seed,
		RectBody: cfg.RectBody(),
	}
	if cfg.Scanner.Enabled {
		opts.Scanner = flappy.DefaultScanner(clip)
	}
	return opts
}
