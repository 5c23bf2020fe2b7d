package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thxaman/flappy-lidar/internal/agent"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/platform/headless"
	"github.com/thxaman/flappy-lidar/internal/registry"
	"github.com/thxaman/flappy-lidar/internal/storage"
	"github.com/thxaman/flappy-lidar/internal/telemetry"
)

var (
	flagEpisodes int
	flagMaxTicks int
	flagSimStore string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run autopilot episodes without a display",
	Long: `Fly episodes with the autopilot at a fixed timestep, as fast as the
machine allows. Episode i uses seed+i, so a run of episodes is reproducible
from its seed.

Examples:
  flappy simulate
  flappy simulate --episodes 100 --max-ticks 36000 --seed 7
  flappy simulate --record runs.db`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagEpisodes, "episodes", 10, "Number of episodes")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 60*60*5, "Tick limit per episode (0 = none)")
	simulateCmd.Flags().StringVar(&flagSimStore, "record", "", "Record episodes to this SQLite database")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if flagEpisodes < 1 {
		return fmt.Errorf("--episodes must be at least 1, got %d", flagEpisodes)
	}
	if flagSimStore != "" {
		cfg.Record.Path = flagSimStore
	}

	logger, closer, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	clip, err := cfg.ClipMode()
	if err != nil {
		return err
	}

	var store *storage.Store
	if cfg.Record.Path != "" {
		store, err = storage.Open(cfg.Record.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := seed()
	pilot := agent.New(true)
	episodes := make([]headless.Episode, 0, flagEpisodes)

	fmt.Printf("Simulating %d episodes (seed %d, clip %s)\n\n", flagEpisodes, base, clip)
	fmt.Printf("  %-7s  %-12s  %-6s  %-8s  %s\n", "Episode", "Seed", "Score", "Ticks", "End")
	fmt.Printf("  %-7s  %-12s  %-6s  %-8s  %s\n", "-------", "----", "-----", "-----", "---")

	game := flappy.New(gameOptions(base, clip))
	for i := range flagEpisodes {
		epSeed := base + int64(i)
		game.Reseed(epSeed)
		session := &registry.Session{
			Game:     game,
			TickRate: flappy.TickRate,
			Pilot:    pilot,
			Logger:   logger,
			LogScan:  cfg.Scanner.LogSamples,
		}

		var rec *telemetry.Recorder
		if store != nil {
			rec = telemetry.New(store, telemetry.Options{
				Source: telemetry.SourceSimulate,
				Clip:   clip.String(),
				Seed:   epSeed,
				Every:  cfg.Record.Every,
			}, logger)
			session.Observe = rec.Observe
		}

		ep, err := headless.Fly(ctx, session, flagMaxTicks)
		if rec != nil {
			rec.Close(game.Score(), game.Ticks())
		}
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nInterrupted.")
				break
			}
			return err
		}

		end := ep.Cause.String()
		if ep.CutOff {
			end = "tick limit"
		}
		fmt.Printf("  %-7d  %-12d  %-6d  %-8d  %s\n", i+1, epSeed, ep.Score, ep.Ticks, end)
		episodes = append(episodes, ep)
	}

	printSummary(episodes)
	return nil
}

// printSummary prints the best and mean score over the episodes.
func printSummary(episodes []headless.Episode) {
	if len(episodes) == 0 {
		return
	}

	best, total, cutOff := 0, 0, 0
	for _, ep := range episodes {
		best = max(best, ep.Score)
		total += ep.Score
		if ep.CutOff {
			cutOff++
		}
	}

	fmt.Println()
	fmt.Printf("Best score: %d  Mean score: %.1f  Reached tick limit: %d/%d\n",
		best, float64(total)/float64(len(episodes)), cutOff, len(episodes))
}
