// Package lidar casts a fan of distance rays from a point against the world
// bounds and a set of obstacle rectangles.
package lidar

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/thxaman/flappy-lidar/internal/core"
)

// Scanner defaults.
const (
	DefaultRange     = 500 // Ray length in world units
	DefaultMaxAngle  = 180 // Last angle of the fan, inclusive
	DefaultAngleStep = 10  // Degrees between consecutive rays
)

// ClipMode selects how a ray that leaves the world is shortened.
type ClipMode int

const (
	// ClipLegacy replaces only the endpoint's y with the boundary and keeps its
	// x, so the reported distance can exceed the distance along the ray.
	ClipLegacy ClipMode = iota
	// ClipRay moves the endpoint back along the ray to where it meets the
	// boundary.
	ClipRay
)

// String returns the mode name used in configuration.
func (m ClipMode) String() string {
	if m == ClipRay {
		return "ray"
	}
	return "legacy"
}

// ParseClipMode converts a configuration value to a ClipMode.
func ParseClipMode(s string) (ClipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return ClipLegacy, nil
	case "ray":
		return ClipRay, nil
	default:
		return ClipLegacy, fmt.Errorf("unknown clip mode %q (want legacy or ray)", s)
	}
}

// HitKind tells what ended a ray.
type HitKind int

const (
	HitNone     HitKind = iota // Origin or geometry was not finite; no reading
	HitRange                   // Nothing within range
	HitGround                  // Clipped at the ground line
	HitCeiling                 // Clipped at the ceiling line
	HitObstacle                // Stopped by an obstacle edge
)

// String returns the hit kind name.
func (k HitKind) String() string {
	switch k {
	case HitRange:
		return "range"
	case HitGround:
		return "ground"
	case HitCeiling:
		return "ceiling"
	case HitObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

// Sample is the reading of a single ray.
type Sample struct {
	Angle    int      // Degrees; 0 points straight down, 90 right, 180 up
	Distance float64  // Distance from the origin to Hit
	Hit      core.Vec // Where the ray stopped
	Kind     HitKind
}

// Config describes the ray fan and the world it is cast into.
type Config struct {
	Range     float64
	MaxAngle  int
	AngleStep int
	Ceiling   float64 // Smallest valid y
	Ground    float64 // Largest valid y
	Clip      ClipMode
}

// DefaultConfig returns the standard fan for a world bounded by ceiling and
// ground.
func DefaultConfig(ceiling, ground float64) Config {
	return Config{
		Range:     DefaultRange,
		MaxAngle:  DefaultMaxAngle,
		AngleStep: DefaultAngleStep,
		Ceiling:   ceiling,
		Ground:    ground,
		Clip:      ClipLegacy,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if !(c.Range > 0) || math.IsInf(c.Range, 0) {
		return fmt.Errorf("range must be positive and finite, got %v", c.Range)
	}
	if c.AngleStep <= 0 {
		return fmt.Errorf("angle step must be positive, got %d", c.AngleStep)
	}
	if c.MaxAngle < 0 {
		return fmt.Errorf("max angle must not be negative, got %d", c.MaxAngle)
	}
	if c.Ceiling > c.Ground {
		return fmt.Errorf("ceiling %v is below ground %v", c.Ceiling, c.Ground)
	}
	return nil
}

// Scanner casts the configured fan of rays. It holds no per-scan state and is
// safe for concurrent use.
type Scanner struct {
	cfg Config
}

// New creates a scanner.
func New(cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("lidar config: %w", err)
	}
	return &Scanner{cfg: cfg}, nil
}

// Config returns the scanner's configuration.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Angles returns every ray angle in ascending order.
func (s *Scanner) Angles() []int {
	angles := make([]int, 0, s.cfg.MaxAngle/s.cfg.AngleStep+1)
	for a := 0; a <= s.cfg.MaxAngle; a += s.cfg.AngleStep {
		angles = append(angles, a)
	}
	return angles
}

// Scan yields one sample per angle, in ascending angle order. The obstacles
// slice is read, not retained past the iteration, and the sequence may be
// ranged over more than once.
func (s *Scanner) Scan(origin core.Vec, obstacles []core.Rect) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		ix := newIndex(obstacles)
		for a := 0; a <= s.cfg.MaxAngle; a += s.cfg.AngleStep {
			if !yield(s.cast(origin, a, ix)) {
				return
			}
		}
	}
}

// Collect runs a full scan and returns the samples in angle order.
func (s *Scanner) Collect(origin core.Vec, obstacles []core.Rect) []Sample {
	samples := make([]Sample, 0, s.cfg.MaxAngle/s.cfg.AngleStep+1)
	for sm := range s.Scan(origin, obstacles) {
		samples = append(samples, sm)
	}
	return samples
}

// cast measures a single ray.
func (s *Scanner) cast(origin core.Vec, angle int, ix *index) Sample {
	end := origin.Project(float64(angle), s.cfg.Range)
	if !origin.IsFinite() || !end.IsFinite() {
		return Sample{Angle: angle, Distance: s.cfg.Range, Hit: origin, Kind: HitNone}
	}

	sm := Sample{Angle: angle, Distance: s.cfg.Range, Hit: end, Kind: HitRange}
	switch {
	case end.Y > s.cfg.Ground:
		sm.Hit = s.clip(origin, end, s.cfg.Ground)
		sm.Kind = HitGround
	case end.Y < s.cfg.Ceiling:
		sm.Hit = s.clip(origin, end, s.cfg.Ceiling)
		sm.Kind = HitCeiling
	}
	if sm.Kind != HitRange {
		sm.Distance = origin.Dist(sm.Hit)
	}

	// The legacy clip can move the endpoint off the ray, so obstacle tests use
	// the clipped segment actually reported rather than the original ray.
	// ClipLine gives both entry and exit against the whole rectangle, which
	// covers an origin inside an obstacle where a per-edge test would miss.
	ray := core.Seg(origin, sm.Hit)
	for _, r := range ix.query(ray.Bounds()) {
		enter, exit, ok := r.ClipLine(ray.A, ray.B)
		if !ok {
			continue
		}
		for _, p := range [2]core.Vec{enter, exit} {
			if !p.IsFinite() {
				continue
			}
			if d := origin.Dist(p); d < sm.Distance {
				sm.Distance = d
				sm.Hit = p
				sm.Kind = HitObstacle
			}
		}
	}
	return sm
}

// clip moves end onto the horizontal line y according to the clip mode.
func (s *Scanner) clip(origin, end core.Vec, y float64) core.Vec {
	if s.cfg.Clip == ClipRay {
		t := (y - origin.Y) / (end.Y - origin.Y)
		return origin.Add(end.Sub(origin).Scale(t))
	}
	return core.V(end.X, y)
}

// Distances maps each sample's angle to its distance.
func Distances(samples iter.Seq[Sample]) map[int]float64 {
	out := make(map[int]float64)
	for sm := range samples {
		out[sm.Angle] = sm.Distance
	}
	return out
}

// MustNew is like New but panics on an invalid configuration. It is meant for
// configurations built from constants.
func MustNew(cfg Config) *Scanner {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Format renders samples as a compact "angle=distance" table, one entry per
// sample in order.
func Format(samples []Sample) string {
	var sb strings.Builder
	for i, sm := range samples {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d=%.0f", sm.Angle, sm.Distance)
	}
	return sb.String()
}
