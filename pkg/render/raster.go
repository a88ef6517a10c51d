package render

import (
	"math"

	"github.com/taigrr/ember/pkg/math3d"
)

// bounds is an inclusive pixel rectangle.
type bounds struct {
	minX, minY, maxX, maxY int
}

// empty reports whether the rectangle covers no pixels.
func (b bounds) empty() bool {
	return b.minX > b.maxX || b.minY > b.maxY
}

// triangleBounds returns the pixel box covering three raster points,
// clamped to the target.
func triangleBounds(p0, p1, p2 math3d.Vec2, width, height int) bounds {
	return bounds{
		minX: int(math.Max(0, math.Floor(min(p0.X, p1.X, p2.X)))),
		minY: int(math.Max(0, math.Floor(min(p0.Y, p1.Y, p2.Y)))),
		maxX: int(math.Min(float64(width-1), math.Ceil(max(p0.X, p1.X, p2.X)))),
		maxY: int(math.Min(float64(height-1), math.Ceil(max(p0.Y, p1.Y, p2.Y)))),
	}
}

// edgeSetup holds a triangle normalized to positive orientation, ready for
// per-pixel inside tests.
//
// Coverage follows the top-left rule: a sample exactly on an edge belongs
// to the triangle only when that edge is a top edge (horizontal with the
// interior below) or a left edge (interior to its right). Two triangles
// sharing an edge therefore never both cover a sample on it.
type edgeSetup struct {
	p       [3]math3d.Vec2
	slot    [3]int // slot[i] is the caller's vertex index for p[i]
	invArea float64
	topLeft [3]bool // topLeft[i] describes the edge opposite p[i]
}

// newEdgeSetup prepares edges for raster points p0, p1, p2 whose signed
// area is area. Negative-area triangles have p1 and p2 swapped so the edge
// functions are positive inside.
func newEdgeSetup(p0, p1, p2 math3d.Vec2, area float64) edgeSetup {
	s := edgeSetup{
		p:    [3]math3d.Vec2{p0, p1, p2},
		slot: [3]int{0, 1, 2},
	}
	if area < 0 {
		s.p[1], s.p[2] = s.p[2], s.p[1]
		s.slot[1], s.slot[2] = 2, 1
		area = -area
	}
	s.invArea = 1 / area
	for i := range 3 {
		a, b := s.p[(i+1)%3], s.p[(i+2)%3]
		s.topLeft[i] = isTopLeft(b.Sub(a))
	}
	return s
}

// isTopLeft classifies a directed edge of a positively oriented triangle
// in y-down raster space.
func isTopLeft(d math3d.Vec2) bool {
	return d.Y < 0 || (d.Y == 0 && d.X > 0)
}

// weights returns the barycentric weights of sample q in the caller's
// vertex order, and whether q is covered.
func (s *edgeSetup) weights(q math3d.Vec2) ([3]float64, bool) {
	var w [3]float64
	for i := range 3 {
		a, b := s.p[(i+1)%3], s.p[(i+2)%3]
		e := b.Sub(a).Cross(q.Sub(a))
		if e < 0 || (e == 0 && !s.topLeft[i]) {
			return w, false
		}
		w[s.slot[i]] = e * s.invArea
	}
	return w, true
}
