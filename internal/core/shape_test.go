package core

import "testing"

func TestEllipseMask(t *testing.T) {
	m := EllipseMask(34, 24)

	w, h := m.Size()
	if w != 34 || h != 24 {
		t.Fatalf("Size() = (%d, %d), expected (34, 24)", w, h)
	}
	if !m.Get(17, 12) {
		t.Error("Centre pixel should be set")
	}
	if m.Get(0, 0) || m.Get(33, 0) || m.Get(0, 23) || m.Get(33, 23) {
		t.Error("Corner pixels should be clear")
	}
	if !m.Get(0, 12) || !m.Get(17, 0) {
		t.Error("Edge midpoints should be set")
	}
}

func TestMaskIntersectsRect(t *testing.T) {
	m := EllipseMask(20, 20).At(V(0, 0))

	tests := []struct {
		name     string
		r        Rect
		expected bool
	}{
		{"covers centre", NewRect(8, 8, 4, 4), true},
		{"inside bounds but only corner", NewRect(0, 0, 2, 2), false},
		{"outside bounds", NewRect(30, 30, 5, 5), false},
		{"touches left edge pixel", NewRect(-5, 9, 5, 2), true},
		{"full cover", NewRect(-10, -10, 40, 40), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Intersects(tc.r); got != tc.expected {
				t.Errorf("Mask.Intersects(%v) = %v, expected %v", tc.r, got, tc.expected)
			}
			if got := tc.r.Intersects(m); got != tc.expected {
				t.Errorf("Rect.Intersects(mask) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestMaskIntersectsMask(t *testing.T) {
	a := EllipseMask(10, 10).At(V(0, 0))

	tests := []struct {
		name     string
		pos      Vec
		expected bool
	}{
		{"same place", V(0, 0), true},
		{"half overlap", V(5, 0), true},
		{"corners only", V(8, 8), false},
		{"far away", V(50, 50), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := EllipseMask(10, 10).At(tc.pos)
			if got := a.Intersects(b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := b.Intersects(a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestMaskCenteredAt(t *testing.T) {
	m := NewMask(34, 24).CenteredAt(V(100, 269))
	if b := m.Bounds(); b != NewRect(83, 257, 34, 24) {
		t.Errorf("Bounds() = %v, expected {83 257 34 24}", b)
	}
}

func TestEmptyMaskNeverIntersects(t *testing.T) {
	m := NewMask(0, 0)
	if m.Intersects(NewRect(-1, -1, 2, 2)) {
		t.Error("Zero-sized mask should not intersect anything")
	}
}
