package lidar

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/thxaman/flappy-lidar/internal/core"
)

// minExtent keeps degenerate boxes (vertical or horizontal rays, zero-width
// rectangles) acceptable to the R-tree, which rejects non-positive lengths.
const minExtent = 1e-6

// queryMargin widens every query box. The R-tree overlap test is strict, so
// without it a ray running along an obstacle edge never reaches ClipLine.
const queryMargin = 0.005

// entry adapts an obstacle rectangle to rtreego.Spatial.
type entry struct {
	rect core.Rect
	bb   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return e.bb
}

// index is a broadphase over the obstacle rectangles of one scan.
type index struct {
	tree *rtreego.Rtree
	size int
}

// newIndex bulk-inserts every finite rectangle into a fresh R-tree.
func newIndex(rects []core.Rect) *index {
	ix := &index{tree: rtreego.NewTree(2, 2, 8)}
	for _, r := range rects {
		bb, ok := toBox(r)
		if !ok {
			continue
		}
		ix.tree.Insert(&entry{rect: r, bb: bb})
		ix.size++
	}
	return ix
}

// query returns the rectangles whose boxes intersect or touch area.
func (ix *index) query(area core.Rect) []core.Rect {
	if ix.size == 0 {
		return nil
	}
	bb, ok := toBox(core.NewRect(
		area.X-queryMargin, area.Y-queryMargin,
		area.W+2*queryMargin, area.H+2*queryMargin,
	))
	if !ok {
		return nil
	}

	found := ix.tree.SearchIntersect(bb)
	rects := make([]core.Rect, 0, len(found))
	for _, s := range found {
		rects = append(rects, s.(*entry).rect)
	}
	return rects
}

func toBox(r core.Rect) (rtreego.Rect, bool) {
	if !r.Center().IsFinite() || math.IsNaN(r.W) || math.IsNaN(r.H) {
		return rtreego.Rect{}, false
	}
	bb, err := rtreego.NewRect(
		rtreego.Point{r.X, r.Y},
		[]float64{math.Max(r.W, minExtent), math.Max(r.H, minExtent)},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return bb, true
}
