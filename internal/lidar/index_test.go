package lidar

import (
	"math"
	"testing"

	"github.com/thxaman/flappy-lidar/internal/core"
)

func TestIndexQuery(t *testing.T) {
	rects := []core.Rect{
		core.NewRect(0, 0, 10, 10),
		core.NewRect(100, 0, 10, 10),
		core.NewRect(0, 100, 10, 10),
		core.NewRect(math.NaN(), 0, 10, 10),
	}
	ix := newIndex(rects)
	if ix.size != 3 {
		t.Fatalf("size = %d, expected 3 (NaN rect skipped)", ix.size)
	}

	tests := []struct {
		name  string
		area  core.Rect
		count int
	}{
		{"first only", core.NewRect(5, 5, 1, 1), 1},
		{"top row", core.NewRect(0, 5, 105, 1), 2},
		{"everything", core.NewRect(-1, -1, 200, 200), 3},
		{"empty space", core.NewRect(40, 40, 10, 10), 0},
		{"vertical line", core.NewRect(5, -20, 0, 200), 2},
		{"touching right edge", core.NewRect(10, 0, 0, 50), 1},
		{"touching corner", core.NewRect(110, 10, 5, 5), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(ix.query(tc.area)); got != tc.count {
				t.Errorf("query(%v) found %d, expected %d", tc.area, got, tc.count)
			}
		})
	}
}

func TestIndexEmpty(t *testing.T) {
	ix := newIndex(nil)
	if got := ix.query(core.NewRect(0, 0, 100, 100)); len(got) != 0 {
		t.Errorf("query() on empty index = %v", got)
	}
}
