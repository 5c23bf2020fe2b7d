// Package flappy implements the side-scrolling obstacle game: a falling body
// that jumps on command, scrolling obstacles, collision and the round state
// machine. Rendering and input plumbing live in the platform packages.
package flappy

import (
	"iter"
	"time"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/lidar"
)

// World constants.
const (
	ScreenWidth      = 800
	ScreenHeight     = 538
	GroundY          = 425 // Ground line; reaching it ends the round
	CeilingY         = 0   // Ceiling line; reaching it ends the round
	TickRate         = 60  // Simulation ticks per second
	MaxTicksPerFrame = 5   // Ticks simulated for one frame at most; the rest is dropped
)

// SpawnInterval is the time between obstacle spawns while playing.
const SpawnInterval = 1200 * time.Millisecond

// TickDuration is the simulated time covered by one tick.
const TickDuration = time.Second / TickRate

// spawnTicks is SpawnInterval expressed in ticks.
const spawnTicks = int(SpawnInterval * TickRate / time.Second)

// State is the round state.
type State int

const (
	Start State = iota
	Playing
	GameOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case GameOver:
		return "game over"
	default:
		return "start"
	}
}

// Input is what the front-end hands the game once per frame.
type Input struct {
	Frame   core.InputFrame
	Elapsed time.Duration // Time since the previous frame; zero means one tick
}

// StepResult reports what happened during one Step.
type StepResult struct {
	State   State
	Score   int
	Ticks   int   // Ticks simulated during this frame
	Jumped  bool  // A jump impulse was applied
	Spawned int   // Obstacles added during this frame
	Died    bool  // The round ended during this frame
	Cause   Cause // Why the round ended, when Died is set
	Started bool  // A new round began during this frame
	Quit    bool  // The player asked to leave
}

// Options configure a Game.
type Options struct {
	Seed int64
	// RectBody makes collision use the body's bounding box instead of its
	// pixel mask.
	RectBody bool
	// Scanner casts the distance rays while playing. Nil disables scanning.
	Scanner *lidar.Scanner
}

// DefaultScanner returns a scanner with the standard fan for this world.
func DefaultScanner(clip lidar.ClipMode) *lidar.Scanner {
	cfg := lidar.DefaultConfig(CeilingY, GroundY)
	cfg.Clip = clip
	return lidar.MustNew(cfg)
}

// Game is the simulation context. It owns the body, the obstacle field, the
// clocks and the current scan; front-ends drive it through Step and read it
// through Snapshot.
type Game struct {
	body    *Body
	field   *Field
	scanner *lidar.Scanner

	state State
	score int
	cause Cause
	round int

	acc        time.Duration // Unsimulated frame time
	activeTick int           // Ticks since the round started
	spawnTick  int           // Ticks since the last spawn

	scan []lidar.Sample
}

// New creates a game in the Start state.
func New(opts Options) *Game {
	return &Game{
		body:    NewBody(opts.RectBody),
		field:   NewField(opts.Seed),
		scanner: opts.Scanner,
		state:   Start,
	}
}

// Step consumes one frame of input and elapsed time.
func (g *Game) Step(in Input) StepResult {
	res := StepResult{}

	if in.Frame.Has(core.ActionQuit) {
		res.Quit = true
		res.State = g.state
		res.Score = g.score
		return res
	}

	if in.Frame.Has(core.ActionJump) {
		switch g.state {
		case Start, GameOver:
			g.resetRound()
			g.state = Playing
			res.Started = true
		case Playing:
			g.body.Jump()
			res.Jumped = true
		}
	}

	if g.state == Playing {
		n := g.ticksFor(in.Elapsed)
		for i := 0; i < n && g.state == Playing; i++ {
			spawned, outcome := g.tick()
			res.Ticks++
			res.Spawned += spawned
			if outcome == Dead {
				g.state = GameOver
				res.Died = true
				res.Cause = g.cause
			}
		}
	} else {
		g.acc = 0
	}

	if g.state == Playing && g.scanner != nil {
		g.scan = g.scanner.Collect(g.body.Center(), g.field.Rects())
	} else {
		g.scan = nil
	}

	res.State = g.state
	res.Score = g.score
	return res
}

// ticksFor adds elapsed to the accumulator and returns how many ticks are due.
func (g *Game) ticksFor(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 1
	}
	g.acc += elapsed
	n := int(g.acc / TickDuration)
	if n > MaxTicksPerFrame {
		g.acc = 0
		return MaxTicksPerFrame
	}
	g.acc -= time.Duration(n) * TickDuration
	return n
}

// tick advances a playing round by one tick.
func (g *Game) tick() (int, Outcome) {
	spawned := 0
	g.spawnTick++
	if g.spawnTick >= spawnTicks {
		g.spawnTick = 0
		spawned = len(g.field.Spawn())
	}

	g.body.Integrate(1)
	g.field.Update()

	g.activeTick++
	g.score = g.activeTick / TickRate

	outcome, cause := Check(g.body, g.field.Rects())
	if outcome == Dead {
		g.cause = cause
	}
	return spawned, outcome
}

// resetRound puts the body at its spawn point and restarts the clocks. The
// obstacle RNG carries on so each round gets new layouts.
func (g *Game) resetRound() {
	g.body.Reset()
	g.field.Reset()
	g.score = 0
	g.cause = CauseNone
	g.acc = 0
	g.activeTick = 0
	g.spawnTick = 0
	g.scan = nil
	g.round++
}

// Reseed returns the game to the Start state and restarts the obstacle RNG.
func (g *Game) Reseed(seed int64) {
	g.resetRound()
	g.round = 0
	g.field.Reseed(seed)
	g.state = Start
}

// State returns the current state.
func (g *Game) State() State {
	return g.state
}

// Score returns the whole seconds survived in the current or last round.
func (g *Game) Score() int {
	return g.score
}

// Round returns the number of rounds started.
func (g *Game) Round() int {
	return g.round
}

// Ticks returns the ticks simulated in the current or last round.
func (g *Game) Ticks() int {
	return g.activeTick
}

// Cause returns why the last round ended.
func (g *Game) Cause() Cause {
	return g.cause
}

// Body returns the player body.
func (g *Game) Body() *Body {
	return g.body
}

// Field returns the obstacle field.
func (g *Game) Field() *Field {
	return g.field
}

// Scan casts the scanner's rays from the body against the live obstacles. The
// sequence is empty unless the game is playing with a scanner.
func (g *Game) Scan() iter.Seq[lidar.Sample] {
	if g.state != Playing || g.scanner == nil {
		return func(func(lidar.Sample) bool) {}
	}
	return g.scanner.Scan(g.body.Center(), g.field.Rects())
}

// Samples returns the scan computed at the end of the last Step.
func (g *Game) Samples() []lidar.Sample {
	return g.scan
}
