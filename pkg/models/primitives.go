package models

import "github.com/taigrr/ember/pkg/math3d"

// NewCube builds an axis-aligned cube centered on the origin as a
// triangle list. Each face has its own four vertices so normals, tangents
// and texture coordinates stay flat per face.
func NewCube(size float64) *Mesh {
	h := size / 2
	faces := []struct {
		normal, up math3d.Vec3
	}{
		{math3d.V3(0, 0, -1), math3d.Up()},
		{math3d.V3(0, 0, 1), math3d.Up()},
		{math3d.V3(1, 0, 0), math3d.Up()},
		{math3d.V3(-1, 0, 0), math3d.Up()},
		{math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
		{math3d.V3(0, -1, 0), math3d.V3(0, 0, -1)},
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		// Right as seen from outside, looking back along -normal
		right := f.up.Cross(f.normal.Negate())
		center := f.normal.Scale(h)
		r := right.Scale(h)
		u := f.up.Scale(h)

		base := uint32(len(vertices))
		corners := []struct {
			pos math3d.Vec3
			uv  math3d.Vec2
		}{
			{center.Sub(r).Add(u), math3d.V2(0, 0)},
			{center.Add(r).Add(u), math3d.V2(1, 0)},
			{center.Add(r).Sub(u), math3d.V2(1, 1)},
			{center.Sub(r).Sub(u), math3d.V2(0, 1)},
		}
		for _, c := range corners {
			vertices = append(vertices, Vertex{
				Position: c.pos,
				UV:       c.uv,
				Normal:   f.normal,
				Tangent:  right,
			})
		}
		// Clockwise from outside
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return NewMesh("cube", vertices, indices, TriangleList)
}

// NewBillboardStrip builds a flat vertical band facing -Z as a triangle
// strip of segments quads. V runs from 0 at the top edge to 1 at the
// bottom.
func NewBillboardStrip(width, height float64, segments int) *Mesh {
	segments = max(segments, 1)
	vertices := make([]Vertex, 0, 2*(segments+1))
	indices := make([]uint32, 0, 2*(segments+1))

	normal := math3d.V3(0, 0, -1)
	for i := range segments + 1 {
		s := float64(i) / float64(segments)
		x := -width/2 + s*width
		// Bottom then top keeps even triangles clockwise toward -Z
		vertices = append(vertices,
			Vertex{Position: math3d.V3(x, -height/2, 0), UV: math3d.V2(s, 1), Normal: normal, Tangent: math3d.Right()},
			Vertex{Position: math3d.V3(x, height/2, 0), UV: math3d.V2(s, 0), Normal: normal, Tangent: math3d.Right()},
		)
		indices = append(indices, uint32(2*i), uint32(2*i+1))
	}

	return NewMesh("billboard", vertices, indices, TriangleStrip)
}
