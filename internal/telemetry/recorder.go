// Package telemetry records rounds of play into a run store: one run per
// round, with frames of body state and the scan taken at each recorded frame.
package telemetry

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/storage"
)

// Sources of play.
const (
	SourcePlayer    = "player"
	SourceAutopilot = "autopilot"
	SourceSimulate  = "simulate"
)

// CauseQuit marks a round that was abandoned before it ended.
const CauseQuit = "quit"

// Sink stores runs. *storage.Store implements it.
type Sink interface {
	BeginRun(r storage.Run) (int64, error)
	FinishRun(id int64, score, ticks int, cause string) error
	SaveFrames(runID int64, frames []storage.Frame) error
}

var _ Sink = (*storage.Store)(nil)

// Options configure a Recorder.
type Options struct {
	Source string
	Clip   string
	Seed   int64
	Every  int // Record one frame every Every ticks; jumps are always recorded
	Flush  int // Buffered frames written per transaction
}

// Recorder turns game steps into stored runs. Storage failures are logged and
// counted; they never interrupt play.
type Recorder struct {
	sink   Sink
	opts   Options
	logger *log.Logger

	runID    int64
	active   bool
	nextTick int
	buf      []storage.Frame
	failures int
}

// New creates a recorder. A nil logger discards log output.
func New(sink Sink, opts Options, logger *log.Logger) *Recorder {
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.Flush < 1 {
		opts.Flush = 64
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		sink:   sink,
		opts:   opts,
		logger: logger,
		buf:    make([]storage.Frame, 0, opts.Flush),
	}
}

// Observe consumes the result of one Step and the snapshot taken after it.
func (r *Recorder) Observe(res flappy.StepResult, snap flappy.Snapshot) {
	if res.Started {
		r.begin()
	}
	if !r.active {
		return
	}

	if res.Ticks > 0 && (res.Jumped || res.Died || snap.Ticks >= r.nextTick) {
		r.buf = append(r.buf, frameOf(res, snap))
		r.nextTick = snap.Ticks + r.opts.Every
		if len(r.buf) >= r.opts.Flush {
			r.flush()
		}
	}

	if res.Died {
		r.finish(snap.Score, snap.Ticks, snap.Cause.String())
	}
}

// Close finishes an unfinished run as abandoned at the given score and ticks.
func (r *Recorder) Close(score, ticks int) {
	if r.active {
		r.finish(score, ticks, CauseQuit)
	}
}

// RunID returns the ID of the current or last run, or 0 if none was started.
func (r *Recorder) RunID() int64 {
	return r.runID
}

// Failures returns the number of storage operations that failed.
func (r *Recorder) Failures() int {
	return r.failures
}

func (r *Recorder) begin() {
	if r.active {
		r.finish(0, 0, CauseQuit)
	}
	id, err := r.sink.BeginRun(storage.Run{
		Seed:   r.opts.Seed,
		Source: r.opts.Source,
		Clip:   r.opts.Clip,
	})
	if err != nil {
		r.fail("failed to begin run", err)
		return
	}
	r.runID = id
	r.active = true
	r.nextTick = 0
	r.buf = r.buf[:0]
	r.logger.Debug("run started", "run", id, "source", r.opts.Source)
}

func (r *Recorder) finish(score, ticks int, cause string) {
	r.flush()
	if err := r.sink.FinishRun(r.runID, score, ticks, cause); err != nil {
		r.fail("failed to finish run", err)
	} else {
		r.logger.Info("run recorded", "run", r.runID, "score", score, "ticks", ticks, "cause", cause)
	}
	r.active = false
}

func (r *Recorder) flush() {
	if len(r.buf) == 0 {
		return
	}
	if err := r.sink.SaveFrames(r.runID, r.buf); err != nil {
		r.fail("failed to save frames", err)
	}
	r.buf = r.buf[:0]
}

func (r *Recorder) fail(msg string, err error) {
	r.failures++
	r.logger.Warn(msg, "run", r.runID, "err", err)
}

// frameOf converts a snapshot into a stored frame.
func frameOf(res flappy.StepResult, snap flappy.Snapshot) storage.Frame {
	f := storage.Frame{
		Tick:      snap.Ticks,
		BodyY:     snap.Body.Center.Y,
		Velocity:  snap.Body.Velocity,
		Jumped:    res.Jumped,
		Obstacles: len(snap.Obstacles),
	}
	for _, sm := range snap.Scan {
		// SQLite stores NaN as NULL; readings without a finite hit are dropped.
		if !sm.Hit.IsFinite() {
			continue
		}
		f.Scan = append(f.Scan, storage.ScanSample{
			Angle:    sm.Angle,
			Distance: sm.Distance,
			HitX:     sm.Hit.X,
			HitY:     sm.Hit.Y,
			Kind:     sm.Kind.String(),
		})
	}
	return f
}
