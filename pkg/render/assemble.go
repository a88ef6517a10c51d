package render

import "github.com/taigrr/ember/pkg/models"

// primitive is one assembled triangle. flip marks odd strip triangles,
// whose stored order is the reverse of the strip's winding.
type primitive struct {
	i0, i1, i2 uint32
	flip       bool
}

// primitiveCount returns how many triangles an index list of length n
// yields under topology.
func primitiveCount(topology models.Topology, n int) int {
	if topology == models.TriangleStrip {
		return max(n-2, 0)
	}
	return n / 3
}

// primitiveAt returns triangle k. Lists step by three indices, strips by
// one.
func primitiveAt(indices []uint32, topology models.Topology, k int) primitive {
	if topology == models.TriangleStrip {
		return primitive{indices[k], indices[k+1], indices[k+2], k%2 == 1}
	}
	return primitive{indices[3*k], indices[3*k+1], indices[3*k+2], false}
}

// rejection explains why a triangle was dropped before rasterization.
type rejection int

const (
	accepted rejection = iota
	rejectDepth
	rejectDegenerate
	rejectFacing
)

// classify runs the per-triangle tests in order: depth range, repeated
// indices, then facing. It also returns the raw signed raster area,
// twice the triangle's area with the stored vertex order.
func classify(p primitive, vs []TransformedVertex, mode CullMode) (rejection, float64) {
	v0, v1, v2 := vs[p.i0].Position, vs[p.i1].Position, vs[p.i2].Position
	if !inDepthRange(v0.Z) || !inDepthRange(v1.Z) || !inDepthRange(v2.Z) {
		return rejectDepth, 0
	}
	if p.i0 == p.i1 || p.i1 == p.i2 || p.i0 == p.i2 {
		return rejectDegenerate, 0
	}

	area := v1.XY().Sub(v0.XY()).Cross(v2.XY().Sub(v0.XY()))
	if area == 0 {
		return rejectDegenerate, 0
	}

	facing := area
	if p.flip {
		facing = -facing
	}
	switch mode {
	case BackFaceCulling:
		if facing < 0 {
			return rejectFacing, area
		}
	case FrontFaceCulling:
		if facing > 0 {
			return rejectFacing, area
		}
	}
	return accepted, area
}

// inDepthRange reports whether an NDC z lies between the near and far
// planes. A whole triangle is dropped when any vertex fails; there is no
// clipping.
func inDepthRange(z float64) bool {
	return z >= 0 && z <= 1
}
