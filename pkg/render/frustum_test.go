package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/ember/pkg/math3d"
)

func testFrustum(near, far float64) Frustum {
	proj := math3d.PerspectiveLH(math.Pi/3, 16.0/9.0, near, far)
	view := math3d.Identity() // Camera at origin looking down +Z
	return NewFrustumFromMatrix(proj.Mul(view))
}

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if c := box.Center(); c != (math3d.Vec3{}) {
		t.Errorf("center = %v, want (0, 0, 0)", c)
	}
	if s := box.Size(); s != math3d.V3(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", s)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside Y", math3d.V3(5, -1, 5), false},
		{"outside Z", math3d.V3(5, 5, 15), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
		if got.Min != math3d.V3(9, 19, 29) || got.Max != math3d.V3(11, 21, 31) {
			t.Errorf("translated = %v..%v, want (9,19,29)..(11,21,31)", got.Min, got.Max)
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(math3d.Scale(math3d.V3(2, 2, 2)))
		if got.Min != math3d.V3(-2, -2, -2) || got.Max != math3d.V3(2, 2, 2) {
			t.Errorf("scaled = %v..%v, want (-2,-2,-2)..(2,2,2)", got.Min, got.Max)
		}
	})

	t.Run("rotation grows bounds", func(t *testing.T) {
		got := box.Transform(math3d.RotateY(math.Pi / 4))
		want := math.Sqrt2
		if math.Abs(got.Max.X-want) > 1e-9 || math.Abs(got.Min.Z+want) > 1e-9 {
			t.Errorf("rotated = %v..%v, want x/z extent %v", got.Min, got.Max, want)
		}
	})
}

func TestFrustumPlanesNormalized(t *testing.T) {
	frustum := testFrustum(0.1, 100)
	for i, plane := range frustum.Planes {
		if math.Abs(plane.Normal.Len()-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, plane.Normal.Len())
		}
	}
}

func TestFrustumNearFarPlanes(t *testing.T) {
	frustum := testFrustum(0.1, 100)

	near := frustum.Planes[FrustumNear]
	if math.Abs(near.DistanceToPoint(math3d.V3(0, 0, 0.1))) > 1e-6 {
		t.Errorf("near plane does not pass through z=0.1")
	}
	far := frustum.Planes[FrustumFar]
	if math.Abs(far.DistanceToPoint(math3d.V3(0, 0, 100))) > 1e-6 {
		t.Errorf("far plane does not pass through z=100")
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	frustum := testFrustum(0.1, 100)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, 1), true},
		{"center mid", math3d.V3(0, 0, 50), true},
		{"center far", math3d.V3(0, 0, 99), true},
		{"behind camera", math3d.V3(0, 0, -1), false},
		{"too far", math3d.V3(0, 0, 200), false},
		{"too close", math3d.V3(0, 0, 0.01), false},
		{"left of view", math3d.V3(-100, 0, 10), false},
		{"above view", math3d.V3(0, 100, 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	frustum := testFrustum(1, 100)

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), true},
		{"crosses near plane", NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, 120), math3d.V3(1, 1, 150)), false},
		{"far to the right", NewAABB(math3d.V3(100, -1, 5), math3d.V3(110, 1, 10)), false},
		{"contains frustum", NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumFromCamera(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, -50), 45, 1)
	frustum := NewFrustumFromMatrix(cam.ViewProjectionMatrix())

	if !frustum.ContainsPoint(math3d.V3(0, 0, 0)) {
		t.Error("origin should be visible from the default camera")
	}
	if frustum.ContainsPoint(math3d.V3(0, 0, -60)) {
		t.Error("point behind the camera should not be visible")
	}

	cam.Rotate(0, math.Pi/2) // Now facing +X
	frustum = NewFrustumFromMatrix(cam.ViewProjectionMatrix())
	if !frustum.ContainsPoint(math3d.V3(10, 0, -50)) {
		t.Error("point along +X should be visible after turning right")
	}
	if frustum.ContainsPoint(math3d.V3(0, 0, 0)) {
		t.Error("origin should be outside the view after turning right")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	frustum := testFrustum(0.1, 1000)
	box := NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10))

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	cam := NewCamera(math3d.V3(0, 10, -20), 45, 16.0/9.0)
	viewProj := cam.ViewProjectionMatrix()

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

// BenchmarkCullingScenario culls a field of unit boxes, roughly half of
// them in view.
func BenchmarkCullingScenario(b *testing.B) {
	cam := NewCamera(math3d.V3(0, 10, -20), 45, 16.0/9.0)
	frustum := NewFrustumFromMatrix(cam.ViewProjectionMatrix())

	rng := rand.New(rand.NewSource(42))
	local := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	transforms := make([]math3d.Mat4, 100)
	for i := range transforms {
		x := rng.Float64()*100 - 50
		y := rng.Float64() * 10
		z := rng.Float64()*100 - 50
		transforms[i] = math3d.Translate(math3d.V3(x, y, z))
	}

	for b.Loop() {
		visible := 0
		for _, m := range transforms {
			if frustum.IntersectAABB(local.Transform(m)) {
				visible++
			}
		}
		_ = visible
	}
}
