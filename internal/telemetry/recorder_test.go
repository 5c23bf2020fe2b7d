package telemetry

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
	"github.com/thxaman/flappy-lidar/internal/storage"
)

type memSink struct {
	runs     map[int64]*storage.Run
	frames   map[int64][]storage.Frame
	nextID   int64
	failSave bool
}

func newMemSink() *memSink {
	return &memSink{runs: map[int64]*storage.Run{}, frames: map[int64][]storage.Frame{}}
}

func (m *memSink) BeginRun(r storage.Run) (int64, error) {
	m.nextID++
	r.ID = m.nextID
	m.runs[r.ID] = &r
	return r.ID, nil
}

func (m *memSink) FinishRun(id int64, score, ticks int, cause string) error {
	r, ok := m.runs[id]
	if !ok {
		return errors.New("no such run")
	}
	r.Score, r.Ticks, r.Cause, r.Finished = score, ticks, cause, true
	return nil
}

func (m *memSink) SaveFrames(runID int64, frames []storage.Frame) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.frames[runID] = append(m.frames[runID], frames...)
	return nil
}

func jump() flappy.Input {
	in := flappy.Input{Frame: core.NewInputFrame()}
	in.Frame.Set(core.ActionJump)
	return in
}

func idle() flappy.Input {
	return flappy.Input{Frame: core.NewInputFrame()}
}

// playUntilDeath starts a round and lets the body fall to the ground.
func playUntilDeath(t *testing.T, g *flappy.Game, rec *Recorder) {
	t.Helper()
	res := g.Step(jump())
	rec.Observe(res, g.Snapshot())
	for i := 0; i < 500 && !res.Died; i++ {
		res = g.Step(idle())
		rec.Observe(res, g.Snapshot())
	}
	if !res.Died {
		t.Fatal("round never ended")
	}
}

func TestRecorderRecordsRound(t *testing.T) {
	sink := newMemSink()
	g := flappy.New(flappy.Options{Seed: 1, Scanner: flappy.DefaultScanner(lidar.ClipLegacy)})
	rec := New(sink, Options{Source: SourceSimulate, Clip: "legacy", Seed: 1, Every: 5}, nil)

	playUntilDeath(t, g, rec)

	run := sink.runs[rec.RunID()]
	if run == nil || !run.Finished {
		t.Fatalf("run = %+v, expected a finished run", run)
	}
	if run.Cause != "ground" || run.Ticks != g.Ticks() || run.Source != SourceSimulate {
		t.Errorf("run = %+v", run)
	}

	frames := sink.frames[rec.RunID()]
	if len(frames) < 2 {
		t.Fatalf("recorded %d frames, expected several", len(frames))
	}
	for i := 1; i < len(frames)-1; i++ {
		if frames[i].Tick-frames[i-1].Tick != 5 {
			t.Errorf("frames %d and %d are %d ticks apart, expected 5", i-1, i, frames[i].Tick-frames[i-1].Tick)
		}
	}
	if last := frames[len(frames)-1]; last.Tick != g.Ticks() {
		t.Errorf("last frame tick = %d, expected the death tick %d", last.Tick, g.Ticks())
	}
	if len(frames[0].Scan) != 19 {
		t.Errorf("first frame has %d scan samples, expected 19", len(frames[0].Scan))
	}
}

func TestRecorderSeparateRounds(t *testing.T) {
	sink := newMemSink()
	g := flappy.New(flappy.Options{Seed: 2})
	rec := New(sink, Options{Source: SourcePlayer, Every: 10}, nil)

	playUntilDeath(t, g, rec)
	first := rec.RunID()

	// Frames after game over do not belong to any run.
	for i := 0; i < 20; i++ {
		rec.Observe(g.Step(idle()), g.Snapshot())
	}

	playUntilDeath(t, g, rec)
	if rec.RunID() == first {
		t.Fatal("second round reused the first run")
	}
	if len(sink.runs) != 2 {
		t.Errorf("recorded %d runs, expected 2", len(sink.runs))
	}
	for id, run := range sink.runs {
		if !run.Finished {
			t.Errorf("run %d is unfinished", id)
		}
	}
}

func TestRecorderCloseAbandonsRun(t *testing.T) {
	sink := newMemSink()
	g := flappy.New(flappy.Options{Seed: 3})
	rec := New(sink, Options{Source: SourcePlayer}, nil)

	rec.Observe(g.Step(jump()), g.Snapshot())
	rec.Observe(g.Step(idle()), g.Snapshot())
	rec.Close(g.Score(), g.Ticks())

	run := sink.runs[rec.RunID()]
	if run == nil || !run.Finished || run.Cause != CauseQuit || run.Ticks != 2 {
		t.Errorf("run = %+v, expected an abandoned run of 2 ticks", run)
	}

	// A second Close is a no-op.
	rec.Close(0, 0)
	if run.Ticks != 2 {
		t.Errorf("second Close() changed the run: %+v", run)
	}
}

func TestRecorderSurvivesFailures(t *testing.T) {
	sink := newMemSink()
	sink.failSave = true
	g := flappy.New(flappy.Options{Seed: 4})
	rec := New(sink, Options{Source: SourcePlayer, Flush: 2}, nil)

	playUntilDeath(t, g, rec)

	if rec.Failures() == 0 {
		t.Error("Failures() = 0, expected failed saves to be counted")
	}
	if run := sink.runs[rec.RunID()]; run == nil || !run.Finished {
		t.Errorf("run = %+v, expected the run to finish despite failed saves", run)
	}
}

func TestRecorderWithStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := flappy.New(flappy.Options{Seed: 5, Scanner: flappy.DefaultScanner(lidar.ClipRay)})
	rec := New(store, Options{Source: SourceAutopilot, Clip: "ray", Seed: 5, Every: 3, Flush: 4}, nil)
	playUntilDeath(t, g, rec)

	run, err := store.RunByID(rec.RunID())
	if err != nil || run == nil {
		t.Fatalf("RunByID() = %v, %v", run, err)
	}
	if !run.Finished || run.Cause != "ground" || run.Clip != "ray" {
		t.Errorf("stored run = %+v", run)
	}

	frames, err := store.Frames(rec.RunID())
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("no frames stored")
	}
	if len(frames[0].Scan) != 19 {
		t.Errorf("first stored frame has %d scan samples, expected 19", len(frames[0].Scan))
	}
	if rec.Failures() != 0 {
		t.Errorf("Failures() = %d, expected 0", rec.Failures())
	}
}
