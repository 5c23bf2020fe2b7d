package core

import "math"

// Shape is anything that occupies space and can be tested against another
// shape for overlap. Rect is the conservative implementation; Mask refines it
// to pixel granularity.
type Shape interface {
	// Bounds returns the axis-aligned bounding box of the shape.
	Bounds() Rect
	// Intersects reports whether the shape shares at least one point with other.
	Intersects(other Shape) bool
}

// Bounds returns r itself.
func (r Rect) Bounds() Rect {
	return r
}

// Intersects implements Shape. Masks are tested at pixel granularity, any
// other shape by its bounding box.
func (r Rect) Intersects(other Shape) bool {
	switch o := other.(type) {
	case Rect:
		return r.Overlaps(o)
	case *Mask:
		return o.intersectsRect(r)
	default:
		return r.Overlaps(other.Bounds())
	}
}

// Mask is a bitmap shape. A set pixel (i, j) covers the unit square whose
// top-left corner is (X+i, Y+j).
type Mask struct {
	X, Y float64 // Top-left corner position
	w, h int
	bits []bool
}

// NewMask creates an empty w×h mask at the origin.
func NewMask(w, h int) *Mask {
	return &Mask{w: w, h: h, bits: make([]bool, w*h)}
}

// EllipseMask creates a w×h mask whose set pixels fill the inscribed ellipse.
func EllipseMask(w, h int) *Mask {
	m := NewMask(w, h)
	rx, ry := float64(w)/2, float64(h)/2
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			dx := (float64(i) + 0.5 - rx) / rx
			dy := (float64(j) + 0.5 - ry) / ry
			if dx*dx+dy*dy <= 1 {
				m.Set(i, j, true)
			}
		}
	}
	return m
}

// Size returns the mask dimensions in pixels.
func (m *Mask) Size() (int, int) {
	return m.w, m.h
}

// Set changes pixel (i, j). Out-of-range pixels are ignored.
func (m *Mask) Set(i, j int, on bool) {
	if i < 0 || i >= m.w || j < 0 || j >= m.h {
		return
	}
	m.bits[j*m.w+i] = on
}

// Get returns pixel (i, j). Out-of-range pixels are unset.
func (m *Mask) Get(i, j int) bool {
	if i < 0 || i >= m.w || j < 0 || j >= m.h {
		return false
	}
	return m.bits[j*m.w+i]
}

// At returns a copy of the mask header positioned with its top-left corner at
// p. Pixel data is shared.
func (m *Mask) At(p Vec) *Mask {
	c := *m
	c.X, c.Y = p.X, p.Y
	return &c
}

// CenteredAt returns the mask positioned so that its centre lies on c.
func (m *Mask) CenteredAt(c Vec) *Mask {
	return m.At(Vec{c.X - float64(m.w)/2, c.Y - float64(m.h)/2})
}

// Bounds implements Shape.
func (m *Mask) Bounds() Rect {
	return Rect{X: m.X, Y: m.Y, W: float64(m.w), H: float64(m.h)}
}

// Intersects implements Shape.
func (m *Mask) Intersects(other Shape) bool {
	switch o := other.(type) {
	case Rect:
		return m.intersectsRect(o)
	case *Mask:
		return m.intersectsMask(o)
	default:
		return m.intersectsRect(other.Bounds())
	}
}

// intersectsRect reports whether any set pixel overlaps r.
func (m *Mask) intersectsRect(r Rect) bool {
	if m.w == 0 || m.h == 0 || !m.Bounds().Overlaps(r) {
		return false
	}

	// Only pixels whose unit square can touch r need testing.
	i0 := Clamp(int(math.Floor(r.X-m.X))-1, 0, m.w-1)
	i1 := Clamp(int(math.Ceil(r.Right()-m.X)), 0, m.w-1)
	j0 := Clamp(int(math.Floor(r.Y-m.Y))-1, 0, m.h-1)
	j1 := Clamp(int(math.Ceil(r.Bottom()-m.Y)), 0, m.h-1)

	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			if !m.bits[j*m.w+i] {
				continue
			}
			px := Rect{X: m.X + float64(i), Y: m.Y + float64(j), W: 1, H: 1}
			if px.Overlaps(r) {
				return true
			}
		}
	}
	return false
}

// intersectsMask reports whether the two masks share a set pixel. Positions
// are rounded to whole pixels before comparing.
func (m *Mask) intersectsMask(o *Mask) bool {
	dx := int(math.Round(o.X - m.X))
	dy := int(math.Round(o.Y - m.Y))

	i0, i1 := Max(0, dx), Min(m.w, dx+o.w)
	j0, j1 := Max(0, dy), Min(m.h, dy+o.h)
	for j := j0; j < j1; j++ {
		for i := i0; i < i1; i++ {
			if m.bits[j*m.w+i] && o.bits[(j-dy)*o.w+(i-dx)] {
				return true
			}
		}
	}
	return false
}
