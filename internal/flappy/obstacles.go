package flappy

import (
	"math/rand"

	"github.com/thxaman/flappy-lidar/internal/core"
)

// Obstacle constants.
const (
	ObstacleSpeed  = 5   // Leftward movement per tick
	ObstacleGap    = 140 // Vertical gap between the facing edges of a pair
	ObstacleWidth  = 52  // Obstacle sprite width
	ObstacleHeight = 320 // Obstacle sprite height
	SpawnOffset    = 50  // Distance right of the screen edge where obstacles appear
)

// Anchor ranges, inclusive. The inverted-only range is a fixed literal and is
// not derived from ObstacleGap.
var (
	bottomAnchorRange   = anchorRange{min: 220, max: 350}
	invertedAnchorRange = anchorRange{min: 120, max: 320}
)

// Orientation tells which way an obstacle points.
type Orientation int

const (
	Upright  Orientation = iota // Rises from below; anchored at its top edge
	Inverted                    // Hangs from above; anchored at its bottom edge
)

// String returns the orientation name.
func (o Orientation) String() string {
	if o == Inverted {
		return "inverted"
	}
	return "upright"
}

// Obstacle is a rectangle scrolling leftward across the world.
type Obstacle struct {
	Rect        core.Rect
	Orientation Orientation
}

// newObstacle places an obstacle horizontally centred on x. Upright obstacles
// put their top edge on anchor, inverted ones their bottom edge.
func newObstacle(x, anchor float64, o Orientation) Obstacle {
	y := anchor
	if o == Inverted {
		y = anchor - ObstacleHeight
	}
	return Obstacle{
		Rect:        core.NewRect(x-ObstacleWidth/2, y, ObstacleWidth, ObstacleHeight),
		Orientation: o,
	}
}

// Anchor returns the edge the obstacle was placed by: the top edge for upright
// obstacles and the bottom edge for inverted ones.
func (o Obstacle) Anchor() float64 {
	if o.Orientation == Inverted {
		return o.Rect.Bottom()
	}
	return o.Rect.Y
}

type anchorRange struct {
	min, max int
}

func (r anchorRange) draw(rng *rand.Rand) float64 {
	return float64(r.min + rng.Intn(r.max-r.min+1))
}

// pattern is one of the closed set of spawn layouts. The unexported method
// keeps the set sealed to this package.
type pattern interface {
	emit(rng *rand.Rand, x float64) []Obstacle
}

// pairPattern emits an upright obstacle and an inverted one separated by gap.
type pairPattern struct {
	bottom anchorRange
	gap    float64
}

func (p pairPattern) emit(rng *rand.Rand, x float64) []Obstacle {
	b := p.bottom.draw(rng)
	return []Obstacle{
		newObstacle(x, b, Upright),
		newObstacle(x, b-p.gap, Inverted),
	}
}

// uprightPattern emits a single upright obstacle.
type uprightPattern struct {
	bottom anchorRange
}

func (p uprightPattern) emit(rng *rand.Rand, x float64) []Obstacle {
	return []Obstacle{newObstacle(x, p.bottom.draw(rng), Upright)}
}

// invertedPattern emits a single inverted obstacle.
type invertedPattern struct {
	top anchorRange
}

func (p invertedPattern) emit(rng *rand.Rand, x float64) []Obstacle {
	return []Obstacle{newObstacle(x, p.top.draw(rng), Inverted)}
}

// spawnPatterns are drawn with equal probability.
var spawnPatterns = [...]pattern{
	pairPattern{bottom: bottomAnchorRange, gap: ObstacleGap},
	uprightPattern{bottom: bottomAnchorRange},
	invertedPattern{top: invertedAnchorRange},
}

// Field owns the live obstacles: spawning, scrolling and retiring them.
type Field struct {
	live   *core.Arena[Obstacle]
	rng    *rand.Rand
	spawnX float64
}

// NewField creates an empty obstacle field with the given RNG seed.
func NewField(seed int64) *Field {
	return &Field{
		live:   core.NewArena[Obstacle](8),
		rng:    rand.New(rand.NewSource(seed)),
		spawnX: ScreenWidth + SpawnOffset,
	}
}

// Reset removes every obstacle. The RNG keeps its sequence so consecutive
// rounds see different layouts.
func (f *Field) Reset() {
	f.live.Clear()
}

// Reseed restarts the RNG sequence.
func (f *Field) Reseed(seed int64) {
	f.rng = rand.New(rand.NewSource(seed))
}

// Spawn adds the obstacles of one randomly chosen pattern and returns them.
func (f *Field) Spawn() []Obstacle {
	p := spawnPatterns[f.rng.Intn(len(spawnPatterns))]
	obs := p.emit(f.rng, f.spawnX)
	for _, o := range obs {
		f.live.Insert(o)
	}
	return obs
}

// Update scrolls every obstacle left by ObstacleSpeed and retires those whose
// right edge has passed the left screen boundary. Returns the number retired.
func (f *Field) Update() int {
	retired := 0
	for h, o := range f.live.All() {
		o.Rect.X -= ObstacleSpeed
		if o.Rect.Right() < 0 {
			f.live.Remove(h)
			retired++
		}
	}
	return retired
}

// Len returns the number of live obstacles.
func (f *Field) Len() int {
	return f.live.Len()
}

// Obstacles returns a copy of the live obstacles in stable order.
func (f *Field) Obstacles() []Obstacle {
	return f.live.Values()
}

// Rects returns the rectangles of the live obstacles in stable order.
func (f *Field) Rects() []core.Rect {
	rects := make([]core.Rect, 0, f.live.Len())
	for _, o := range f.live.All() {
		rects = append(rects, o.Rect)
	}
	return rects
}

// insert adds an obstacle directly; used to build scenes.
func (f *Field) insert(o Obstacle) {
	f.live.Insert(o)
}
