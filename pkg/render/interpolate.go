package render

import "github.com/taigrr/ember/pkg/math3d"

// Fragment is a covered pixel with interpolated attributes.
type Fragment struct {
	X, Y    int
	Depth   float64
	UV      math3d.Vec2
	Normal  math3d.Vec3
	Tangent math3d.Vec3
	ViewDir math3d.Vec3
}

// interpolateDepth blends the vertices' NDC depth with barycentric
// weights w as 1 / (w0/z0 + w1/z1 + w2/z2). Zero-weight terms are
// skipped so a vertex on the near plane (z = 0) does not turn the
// opposite edge into 0/0.
func interpolateDepth(w [3]float64, z0, z1, z2 float64) float64 {
	var sum float64
	for i, z := range [3]float64{z0, z1, z2} {
		if w[i] != 0 {
			sum += w[i] / z
		}
	}
	return 1 / sum
}

// perspectiveWeights turns screen-space barycentric weights into
// weights for perspective-correct attribute interpolation using each
// vertex's stored 1/w.
func perspectiveWeights(w [3]float64, v0, v1, v2 *TransformedVertex) [3]float64 {
	k := [3]float64{w[0] * v0.Position.W, w[1] * v1.Position.W, w[2] * v2.Position.W}
	inv := 1 / (k[0] + k[1] + k[2])
	return [3]float64{k[0] * inv, k[1] * inv, k[2] * inv}
}

func lerp2(k [3]float64, a, b, c math3d.Vec2) math3d.Vec2 {
	return a.Scale(k[0]).Add(b.Scale(k[1])).Add(c.Scale(k[2]))
}

func lerp3(k [3]float64, a, b, c math3d.Vec3) math3d.Vec3 {
	return a.Scale(k[0]).Add(b.Scale(k[1])).Add(c.Scale(k[2]))
}

// interpolateUV fills f.UV.
func interpolateUV(f *Fragment, k [3]float64, v0, v1, v2 *TransformedVertex) {
	f.UV = lerp2(k, v0.UV, v1.UV, v2.UV)
}

// interpolateLit fills UV plus the renormalized lighting vectors.
func interpolateLit(f *Fragment, k [3]float64, v0, v1, v2 *TransformedVertex) {
	interpolateUV(f, k, v0, v1, v2)
	f.Normal = lerp3(k, v0.Normal, v1.Normal, v2.Normal).Normalize()
	f.Tangent = lerp3(k, v0.Tangent, v1.Tangent, v2.Tangent).Normalize()
	f.ViewDir = lerp3(k, v0.ViewDir, v1.ViewDir, v2.ViewDir).Normalize()
}
