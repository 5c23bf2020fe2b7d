// Package core provides fundamental types and utilities shared by the simulation
// and its front-ends. It contains no external dependencies (especially no Bubble
// Tea or Ebiten) to keep game logic pure and testable.
package core

import "math"

// epsilon is the tolerance used when deciding whether a cross product is zero.
const epsilon = 1e-9

// Vec is a point or direction in world space. Y grows downward.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

// Scale returns v multiplied by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{v.X * f, v.Y * f}
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Project returns the point at distance length from v along the direction
// given by angle degrees, where 0 points straight down (+Y) and 90 points
// right (+X).
func (v Vec) Project(angleDeg, length float64) Vec {
	rad := angleDeg * math.Pi / 180
	return Vec{
		X: v.X + length*math.Sin(rad),
		Y: v.Y + length*math.Cos(rad),
	}
}

// Segment is a line segment from A to B.
type Segment struct {
	A, B Vec
}

// Seg is shorthand for Segment{A: a, B: b}.
func Seg(a, b Vec) Segment {
	return Segment{A: a, B: b}
}

// Len returns the segment length.
func (s Segment) Len() float64 {
	return s.A.Dist(s.B)
}

// Bounds returns the axis-aligned bounding box of the segment.
func (s Segment) Bounds() Rect {
	minX, maxX := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
	minY, maxY := math.Min(s.A.Y, s.B.Y), math.Max(s.A.Y, s.B.Y)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// IntersectSegments returns the single point where p and q cross.
// Collinear or parallel segments report no intersection, as do segments whose
// supporting lines cross outside either segment.
func IntersectSegments(p, q Segment) (Vec, bool) {
	r := p.B.Sub(p.A)
	s := q.B.Sub(q.A)
	rxs := r.Cross(s)
	if math.Abs(rxs) < epsilon {
		return Vec{}, false
	}

	qp := q.A.Sub(p.A)
	t := qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec{}, false
	}

	pt := p.A.Add(r.Scale(t))
	if !pt.IsFinite() {
		return Vec{}, false
	}
	return pt, true
}

// Rect is an axis-aligned rectangle in world space with its origin at the
// top-left corner.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromCenter creates a rectangle of size w×h centred on c.
func RectFromCenter(c Vec, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Contains returns true if p lies inside or on the border of r.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Overlaps reports whether r and o share at least one point.
// Rectangles that only touch along an edge or corner overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.X > o.Right() || o.X > r.Right() {
		return false
	}
	if r.Y > o.Bottom() || o.Y > r.Bottom() {
		return false
	}
	return true
}

// ClipLine clips the segment a→b against r using the Liang–Barsky algorithm.
// It returns the points where the segment enters and leaves the rectangle,
// ordered from a towards b. ok is false if the segment misses r entirely.
func (r Rect) ClipLine(a, b Vec) (enter, exit Vec, ok bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0

	edges := [4]struct{ p, q float64 }{
		{-d.X, a.X - r.X},
		{d.X, r.Right() - a.X},
		{-d.Y, a.Y - r.Y},
		{d.Y, r.Bottom() - a.Y},
	}
	for _, e := range edges {
		if e.p == 0 {
			if e.q < 0 {
				return Vec{}, Vec{}, false // parallel and outside
			}
			continue
		}
		t := e.q / e.p
		if e.p < 0 {
			if t > t1 {
				return Vec{}, Vec{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return Vec{}, Vec{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	enter = a.Add(d.Scale(t0))
	exit = a.Add(d.Scale(t1))
	if !enter.IsFinite() || !exit.IsFinite() {
		return Vec{}, Vec{}, false
	}
	return enter, exit, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
