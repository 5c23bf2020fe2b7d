// Package registry provides a global registry for front-end factories.
// Front-ends register themselves in init() functions, allowing the command
// line to discover and start them without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
)

// Frontend is the interface every display and input layer implements.
// Front-ends own the frame loop; the game itself holds no I/O.
type Frontend interface {
	// Name returns the identifier used on the command line (e.g., "tui").
	Name() string

	// Description returns a one-line summary for listings.
	Description() string

	// Run plays the session until the player quits or ctx is cancelled.
	Run(ctx context.Context, s *Session) error
}

// Pilot chooses inputs in place of a human player.
type Pilot interface {
	Act(snap flappy.Snapshot) core.InputFrame
}

// Observer is notified after every step, e.g. to record telemetry.
type Observer func(res flappy.StepResult, snap flappy.Snapshot)

// Session is everything a front-end needs to play one game.
type Session struct {
	Game     *flappy.Game
	TickRate int         // Frames per second the front-end aims for
	Scale    float64     // Window size relative to the world, for pixel front-ends
	Pilot    Pilot       // Optional; overrides jump input when set
	Observe  Observer    // Optional
	Logger   *log.Logger // Optional; nil discards
	LogScan  bool        // Log every scan at debug level
}

// FrameInterval returns the time between frames for the session's tick rate.
func (s *Session) FrameInterval() time.Duration {
	if s.TickRate <= 0 {
		return flappy.TickDuration
	}
	return time.Second / time.Duration(s.TickRate)
}

// Log returns the session logger, never nil.
func (s *Session) Log() *log.Logger {
	if s.Logger == nil {
		s.Logger = log.New(io.Discard)
	}
	return s.Logger
}

// Advance runs one frame: it merges pilot input with the player's, steps the
// game and notifies the observer. Quit always comes from the player.
func (s *Session) Advance(in core.InputFrame, elapsed time.Duration) flappy.StepResult {
	if s.Pilot != nil {
		quit := in.Has(core.ActionQuit)
		in = s.Pilot.Act(s.Game.Snapshot())
		if quit {
			in.Set(core.ActionQuit)
		}
	}

	res := s.Game.Step(flappy.Input{Frame: in, Elapsed: elapsed})

	logger := s.Log()
	switch {
	case res.Started:
		logger.Info("round started", "round", s.Game.Round())
	case res.Died:
		logger.Info("round over", "round", s.Game.Round(), "score", res.Score, "cause", res.Cause)
	}
	if s.LogScan && res.State == flappy.Playing {
		logger.Debug("scan", "tick", s.Game.Ticks(), "distances", lidar.Format(s.Game.Samples()))
	}

	if s.Observe != nil {
		s.Observe(res, s.Game.Snapshot())
	}
	return res
}

// Info contains metadata about a registered front-end.
type Info struct {
	Name        string
	Description string
}

// Factory is a function that creates a new front-end.
type Factory func() Frontend

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a front-end factory to the registry.
// Typically called from a front-end's init() function.
// Panics if a front-end with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: frontend %q already registered", name))
	}

	factories[name] = f

	// Get description by creating a temporary instance
	descriptions[name] = f().Description()
}

// List returns information about all registered front-ends, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name := range factories {
		result = append(result, Info{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a front-end by name.
// Returns an error if the name is not registered.
func Create(name string) (Frontend, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown frontend %q", name)
	}

	return f(), nil
}

// Exists checks if a front-end with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
