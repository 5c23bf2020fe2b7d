package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.BeginRun(Run{Seed: 1, Source: "player", Clip: "legacy"})
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	run, err := store.RunByID(id)
	if err != nil || run == nil {
		t.Fatalf("RunByID() after reopen = %v, %v", run, err)
	}
}

func TestStoreRunLifecycle(t *testing.T) {
	store := openTestStore(t)

	id, err := store.BeginRun(Run{Seed: 42, Source: "autopilot", Clip: "ray"})
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil {
		t.Fatal("RunByID() = nil, expected the new run")
	}
	if run.Finished || run.Seed != 42 || run.Source != "autopilot" || run.Clip != "ray" {
		t.Errorf("new run = %+v", run)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt was not set")
	}

	if err := store.FinishRun(id, 7, 455, "obstacle"); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	run, err = store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if !run.Finished || run.Score != 7 || run.Ticks != 455 || run.Cause != "obstacle" {
		t.Errorf("finished run = %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt was not set")
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	run, err := store.RunByID(99)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run != nil {
		t.Errorf("RunByID() = %+v, expected nil", run)
	}

	if err := store.FinishRun(99, 1, 1, "ground"); err == nil {
		t.Error("FinishRun() on a missing run should fail")
	}
}

func TestStoreFrames(t *testing.T) {
	store := openTestStore(t)

	id, err := store.BeginRun(Run{Seed: 1, Source: "simulate", Clip: "legacy"})
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}

	frames := []Frame{
		{Tick: 6, BodyY: 272.1, Velocity: 1.2, Obstacles: 0, Scan: []ScanSample{
			{Angle: 0, Distance: 156, HitX: 100, HitY: 425, Kind: "ground"},
			{Angle: 90, Distance: 500, HitX: 600, HitY: 269, Kind: "range"},
		}},
		{Tick: 12, BodyY: 270, Velocity: -3.8, Jumped: true, Obstacles: 2},
	}
	if err := store.SaveFrames(id, frames); err != nil {
		t.Fatalf("SaveFrames() failed: %v", err)
	}
	if frames[0].ID == 0 || frames[0].RunID != id {
		t.Errorf("SaveFrames() did not fill IDs: %+v", frames[0])
	}

	got, err := store.Frames(id)
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Frames() returned %d frames, expected 2", len(got))
	}
	if got[0].Tick != 6 || got[1].Tick != 12 {
		t.Errorf("frame ticks = %d, %d, expected 6, 12", got[0].Tick, got[1].Tick)
	}
	if !got[1].Jumped || got[1].Obstacles != 2 || got[1].Velocity != -3.8 {
		t.Errorf("second frame = %+v", got[1])
	}
	if len(got[0].Scan) != 2 || len(got[1].Scan) != 0 {
		t.Fatalf("scan lengths = %d, %d, expected 2, 0", len(got[0].Scan), len(got[1].Scan))
	}
	if got[0].Scan[0] != frames[0].Scan[0] || got[0].Scan[1] != frames[0].Scan[1] {
		t.Errorf("scan = %+v, expected %+v", got[0].Scan, frames[0].Scan)
	}

	if err := store.SaveFrames(id, nil); err != nil {
		t.Errorf("SaveFrames(nil) failed: %v", err)
	}
}

func TestStoreSaveFramesUnknownRun(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveFrames(123, []Frame{{Tick: 1}})
	if err == nil {
		t.Fatal("SaveFrames() for a missing run should fail")
	}

	frames, err := store.Frames(123)
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("failed transaction left %d frames", len(frames))
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 25; i++ {
		if _, err := store.BeginRun(Run{Seed: int64(i), Source: "simulate", Clip: "legacy"}); err != nil {
			t.Fatalf("BeginRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 5 {
		t.Fatalf("RecentRuns(5) returned %d runs", len(runs))
	}
	for i, r := range runs {
		if r.Seed != int64(24-i) {
			t.Errorf("runs[%d].Seed = %d, expected %d (newest first)", i, r.Seed, 24-i)
		}
	}

	// Default limit
	runs, err = store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("Expected 20 runs, got %d", len(runs))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || stats.BestScore != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty Stats() = %+v", stats)
	}

	results := []struct {
		score, ticks int
	}{
		{3, 200}, {9, 560}, {6, 380},
	}
	for _, r := range results {
		id, err := store.BeginRun(Run{Source: "player", Clip: "legacy"})
		if err != nil {
			t.Fatalf("BeginRun() failed: %v", err)
		}
		if err := store.FinishRun(id, r.score, r.ticks, "ground"); err != nil {
			t.Fatalf("FinishRun() failed: %v", err)
		}
	}
	// Unfinished runs are not counted.
	if _, err := store.BeginRun(Run{Source: "player", Clip: "legacy"}); err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.BestScore != 9 || stats.AvgScore != 6 || stats.TotalTicks != 1140 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not set")
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	id, err := store.BeginRun(Run{Source: "player", Clip: "legacy"})
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
	if err := store.SaveFrames(id, []Frame{{Tick: 1, Scan: []ScanSample{{Angle: 0, Kind: "range"}}}}); err != nil {
		t.Fatalf("SaveFrames() failed: %v", err)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	frames, err := store.Frames(id)
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("Expected frames to be deleted with their run, got %d", len(frames))
	}
}
