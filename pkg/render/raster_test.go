package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
)

func TestIsTopLeft(t *testing.T) {
	tests := []struct {
		name string
		d    math3d.Vec2
		want bool
	}{
		{"top edge", math3d.V2(10, 0), true},
		{"bottom edge", math3d.V2(-10, 0), false},
		{"left edge", math3d.V2(0, -10), true},
		{"right edge", math3d.V2(0, 10), false},
		{"rising diagonal", math3d.V2(5, -5), true},
		{"falling diagonal", math3d.V2(-5, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTopLeft(tt.d); got != tt.want {
				t.Errorf("isTopLeft(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestTriangleBounds(t *testing.T) {
	tests := []struct {
		name       string
		p0, p1, p2 math3d.Vec2
		want       bounds
	}{
		{"inside", math3d.V2(10.2, 20.7), math3d.V2(30.5, 5.1), math3d.V2(15, 40.9), bounds{10, 5, 31, 41}},
		{"clamped", math3d.V2(-20, -5), math3d.V2(150, 50), math3d.V2(50, 130), bounds{0, 0, 99, 99}},
		{"off screen", math3d.V2(120, 10), math3d.V2(150, 50), math3d.V2(130, 30), bounds{120, 10, 99, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := triangleBounds(tt.p0, tt.p1, tt.p2, 100, 100)
			if got != tt.want {
				t.Errorf("triangleBounds = %+v, want %+v", got, tt.want)
			}
		})
	}

	if !(bounds{120, 10, 99, 50}).empty() {
		t.Error("box with minX > maxX should be empty")
	}
}

func TestEdgeWeights(t *testing.T) {
	p0, p1, p2 := math3d.V2(0, 0), math3d.V2(10, 0), math3d.V2(0, 10)
	area := p1.Sub(p0).Cross(p2.Sub(p0))

	for _, order := range []struct {
		name       string
		a, b, c    math3d.Vec2
		signedArea float64
	}{
		{"clockwise", p0, p1, p2, area},
		{"counter-clockwise", p0, p2, p1, -area},
	} {
		t.Run(order.name, func(t *testing.T) {
			s := newEdgeSetup(order.a, order.b, order.c, order.signedArea)

			w, inside := s.weights(math3d.V2(2, 3))
			if !inside {
				t.Fatal("interior sample reported outside")
			}
			if sum := w[0] + w[1] + w[2]; math.Abs(sum-1) > 1e-12 {
				t.Errorf("weights sum to %v, want 1", sum)
			}
			// Weights reconstruct the sample in the caller's order.
			q := order.a.Scale(w[0]).Add(order.b.Scale(w[1])).Add(order.c.Scale(w[2]))
			if math.Abs(q.X-2) > 1e-12 || math.Abs(q.Y-3) > 1e-12 {
				t.Errorf("reconstructed %v, want (2, 3)", q)
			}

			if _, inside := s.weights(math3d.V2(8, 8)); inside {
				t.Error("exterior sample reported inside")
			}
			// On the top edge: covered. On the hypotenuse: not.
			if _, inside := s.weights(math3d.V2(5, 0)); !inside {
				t.Error("sample on top edge should be covered")
			}
			if _, inside := s.weights(math3d.V2(5, 5)); inside {
				t.Error("sample on the bottom-right edge should not be covered")
			}
		})
	}
}

func TestPerspectiveWeights(t *testing.T) {
	v0 := &TransformedVertex{Position: math3d.V4(0, 0, 0.5, 1)}
	v1 := &TransformedVertex{Position: math3d.V4(0, 0, 0.5, 0.5)}
	v2 := &TransformedVertex{Position: math3d.V4(0, 0, 0.5, 0.25)}

	k := perspectiveWeights([3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, v0, v1, v2)
	want := [3]float64{4.0 / 7, 2.0 / 7, 1.0 / 7}
	for i := range k {
		if math.Abs(k[i]-want[i]) > 1e-12 {
			t.Errorf("k[%d] = %v, want %v", i, k[i], want[i])
		}
	}

	if z := interpolateDepth([3]float64{0.5, 0.5, 0}, 0.2, 0.8, 1); math.Abs(z-0.32) > 1e-12 {
		t.Errorf("interpolateDepth = %v, want 0.32", z)
	}
}

func TestInterpolateUVAtVertices(t *testing.T) {
	v0 := &TransformedVertex{Position: math3d.V4(0, 0, 0.2, 1), UV: math3d.V2(0, 0)}
	v1 := &TransformedVertex{Position: math3d.V4(0, 0, 0.5, 0.3), UV: math3d.V2(1, 0.25)}
	v2 := &TransformedVertex{Position: math3d.V4(0, 0, 0.9, 0.05), UV: math3d.V2(0.4, 1)}

	tests := []struct {
		name string
		w    [3]float64
		want math3d.Vec2
	}{
		{"first vertex", [3]float64{1, 0, 0}, v0.UV},
		{"second vertex", [3]float64{0, 1, 0}, v1.UV},
		{"third vertex", [3]float64{0, 0, 1}, v2.UV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Fragment
			interpolateUV(&f, perspectiveWeights(tt.w, v0, v1, v2), v0, v1, v2)
			if math.Abs(f.UV.X-tt.want.X) > 1e-12 || math.Abs(f.UV.Y-tt.want.Y) > 1e-12 {
				t.Errorf("UV = %v, want %v", f.UV, tt.want)
			}
		})
	}
}

func TestInterpolateDepthNearPlane(t *testing.T) {
	tests := []struct {
		name string
		w    [3]float64
		want float64
	}{
		{"opposite edge", [3]float64{0, 0.5, 0.5}, 0.5},
		{"at the vertex", [3]float64{1, 0, 0}, 0},
		{"interior", [3]float64{0.25, 0.5, 0.25}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := interpolateDepth(tt.w, 0, 0.5, 0.5)
			if math.IsNaN(z) || math.Abs(z-tt.want) > 1e-12 {
				t.Errorf("interpolateDepth = %v, want %v", z, tt.want)
			}
		})
	}
}

func TestEdgeWeightsCoverCleanly(t *testing.T) {
	const size = 64
	rng := rand.New(rand.NewPCG(7, 11))
	point := func() math3d.Vec2 {
		return math3d.V2(rng.Float64()*size*1.2-size*0.1, rng.Float64()*size*1.2-size*0.1)
	}

	covered := 0
	for range 500 {
		p0, p1, p2 := point(), point(), point()
		area := p1.Sub(p0).Cross(p2.Sub(p0))
		if math.Abs(area) < 1 {
			continue
		}
		s := newEdgeSetup(p0, p1, p2, area)
		b := triangleBounds(p0, p1, p2, size, size)

		for y := b.minY; y <= b.maxY; y++ {
			for x := b.minX; x <= b.maxX; x++ {
				w, inside := s.weights(math3d.V2(float64(x)+0.5, float64(y)+0.5))
				if !inside {
					continue
				}
				covered++
				if w[0] < 0 || w[1] < 0 || w[2] < 0 {
					t.Fatalf("negative weights %v at (%d, %d) for %v %v %v", w, x, y, p0, p1, p2)
				}
				if sum := w[0] + w[1] + w[2]; math.Abs(sum-1) > 1e-9 {
					t.Fatalf("weights sum to %v at (%d, %d) for %v %v %v", sum, x, y, p0, p1, p2)
				}
			}
		}
	}
	if covered == 0 {
		t.Fatal("no pixels covered")
	}
}

func TestPrimitiveAssembly(t *testing.T) {
	indices := []uint32{0, 1, 2, 3, 4}
	tests := []struct {
		name  string
		topo  models.Topology
		count int
		last  primitive
	}{
		{"list", models.TriangleList, 1, primitive{0, 1, 2, false}},
		{"strip", models.TriangleStrip, 3, primitive{2, 3, 4, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := primitiveCount(tt.topo, len(indices))
			if n != tt.count {
				t.Fatalf("primitiveCount = %d, want %d", n, tt.count)
			}
			if got := primitiveAt(indices, tt.topo, n-1); got != tt.last {
				t.Errorf("last primitive = %+v, want %+v", got, tt.last)
			}
		})
	}

	if p := primitiveAt(indices, models.TriangleStrip, 1); !p.flip {
		t.Error("odd strip triangle should be flipped")
	}
	if n := primitiveCount(models.TriangleStrip, 1); n != 0 {
		t.Errorf("short strip count = %d, want 0", n)
	}
}

func TestNDCToRaster(t *testing.T) {
	tests := []struct {
		ndc  math3d.Vec2
		want math3d.Vec2
	}{
		{math3d.V2(-1, 1), math3d.V2(0, 0)},
		{math3d.V2(1, -1), math3d.V2(200, 100)},
		{math3d.V2(0, 0), math3d.V2(100, 50)},
		{math3d.V2(-0.5, -0.5), math3d.V2(50, 75)},
	}

	for _, tt := range tests {
		if got := ndcToRaster(tt.ndc, 200, 100); got != tt.want {
			t.Errorf("ndcToRaster(%v) = %v, want %v", tt.ndc, got, tt.want)
		}
	}
}
