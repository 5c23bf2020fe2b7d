package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thxaman/flappy-lidar/internal/platform/tui"
	"github.com/thxaman/flappy-lidar/internal/storage"
)

var (
	flagLimit   int
	flagPlain   bool
	flagRunsDB  string
	flagClear   bool
	flagShow    int64
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse recorded runs",
	Long: `Show the most recent recorded runs with summary statistics.

Examples:
  flappy runs
  flappy runs --limit 50 --plain
  flappy runs --db ~/.flappy/runs.db
  flappy runs --show 12`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the interactive browser")
	runsCmd.Flags().StringVar(&flagRunsDB, "db", "", "Database to read (default: record.path from config)")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded run")
	runsCmd.Flags().Int64Var(&flagShow, "show", 0, "Print the recorded frames of one run")
}

func runRuns(_ *cobra.Command, _ []string) error {
	path := cfg.Record.Path
	if flagRunsDB != "" {
		path = flagRunsDB
	}
	if path == "" {
		return fmt.Errorf("no database configured; pass --db or set record.path")
	}

	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Recorded runs deleted.")
		return nil
	}

	if flagShow != 0 {
		return showRun(store, flagShow)
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	if !flagPlain {
		return tui.RunRunsBrowser(runs, stats)
	}

	fmt.Println("Recorded runs -", tui.StatsLine(stats))
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	cols := tui.RunColumns()
	for _, c := range cols {
		fmt.Printf("  %-*s", c.Width, c.Title)
	}
	fmt.Println()
	for _, row := range tui.RunRows(runs) {
		for i, cell := range row {
			fmt.Printf("  %-*s", cols[i].Width, cell)
		}
		fmt.Println()
	}
	return nil
}

// showRun prints one run and its sampled frames with their scan distances.
func showRun(store *storage.Store, id int64) error {
	run, err := store.RunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}

	end := run.Cause
	if !run.Finished {
		end = "unfinished"
	}
	fmt.Printf("Run %d - %s, seed %d, clip %s\n", run.ID, run.Source, run.Seed, run.Clip)
	fmt.Printf("Score %d after %d ticks (%s)\n\n", run.Score, run.Ticks, end)

	frames, err := store.Frames(id)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		fmt.Println("No frames recorded.")
		return nil
	}

	fmt.Printf("  %-6s  %-7s  %-6s  %-4s  %-3s  %s\n", "Tick", "Y", "Vel", "Jump", "Obs", "Scan")
	fmt.Printf("  %-6s  %-7s  %-6s  %-4s  %-3s  %s\n", "----", "-", "---", "----", "---", "----")
	for _, f := range frames {
		jump := ""
		if f.Jumped {
			jump = "yes"
		}
		fmt.Printf("  %-6d  %-7.1f  %-6.1f  %-4s  %-3d  %s\n",
			f.Tick, f.BodyY, f.Velocity, jump, f.Obstacles, scanLine(f.Scan))
	}
	return nil
}

// scanLine formats stored scan samples as "angle=distance" pairs.
func scanLine(scan []storage.ScanSample) string {
	parts := make([]string, len(scan))
	for i, sm := range scan {
		parts[i] = fmt.Sprintf("%d=%.0f", sm.Angle, sm.Distance)
	}
	return strings.Join(parts, " ")
}
