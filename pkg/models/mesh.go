// Package models holds the geometry buffers consumed by the rasterizer and
// the loaders that fill them from glTF and OBJ files or procedurally.
package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/ember/pkg/math3d"
)

var (
	// ErrNoGeometry is returned when a source holds no triangle data.
	ErrNoGeometry = errors.New("no triangle geometry")
	// ErrIndexRange is returned when an index points past the vertex array.
	ErrIndexRange = errors.New("index out of range")
)

// Topology describes how an index list forms triangles.
type Topology int

const (
	// TriangleList reads every three indices as one triangle.
	TriangleList Topology = iota
	// TriangleStrip reads each index after the first two as a new
	// triangle with the two before it. Odd triangles have reversed winding.
	TriangleStrip
)

func (t Topology) String() string {
	switch t {
	case TriangleList:
		return "list"
	case TriangleStrip:
		return "strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology parses "list" or "strip".
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "list", "triangle_list":
		return TriangleList, nil
	case "strip", "triangle_strip":
		return TriangleStrip, nil
	}
	return 0, fmt.Errorf("unknown topology %q", s)
}

// Vertex holds the attributes of one mesh vertex in object space.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3
	Tangent  math3d.Vec3
}

// Material carries the textures a loader found alongside the geometry.
type Material struct {
	Name      string
	BaseColor [4]float64  // RGBA in 0-1 range
	BaseMap   image.Image // Optional base color texture
}

// Mesh is an indexed geometry buffer. Vertices are never modified by
// rendering.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Topology Topology

	// Bounding box (calculated on construction)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates a mesh and computes its bounds.
func NewMesh(name string, vertices []Vertex, indices []uint32, topology Topology) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Topology: topology,
	}
	m.CalculateBounds()
	return m
}

// Validate reports out-of-range indices.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh %q index %d = %d, %d vertices: %w", m.Name, i, idx, n, ErrIndexRange)
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles the index list describes,
// degenerate strip joints included.
func (m *Mesh) TriangleCount() int {
	switch m.Topology {
	case TriangleStrip:
		return max(len(m.Indices)-2, 0)
	default:
		return len(m.Indices) / 3
	}
}

// ForEachTriangle calls fn with the indices of every triangle, with odd
// strip triangles re-wound so all triangles share one orientation.
// Triangles that repeat an index are skipped.
func (m *Mesh) ForEachTriangle(fn func(i0, i1, i2 uint32)) {
	idx := m.Indices
	switch m.Topology {
	case TriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			a, b, c := idx[i], idx[i+1], idx[i+2]
			if i%2 == 1 {
				b, c = c, b
			}
			if a == b || b == c || a == c {
				continue
			}
			fn(a, b, c)
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := idx[i], idx[i+1], idx[i+2]
			if a == b || b == c || a == c {
				continue
			}
			fn(a, b, c)
		}
	}
}

// CalculateSmoothNormals replaces vertex normals with the area-weighted
// average of adjacent face normals. Faces wound clockwise when seen from
// outside produce outward normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}

	m.ForEachTriangle(func(i0, i1, i2 uint32) {
		p0 := m.Vertices[i0].Position
		n := m.Vertices[i1].Position.Sub(p0).Cross(m.Vertices[i2].Position.Sub(p0))
		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(n)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(n)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(n)
	})

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// CalculateTangents derives per-vertex tangents (the object-space
// direction of increasing U) from positions and texture coordinates.
// Normals must already be set. Triangles with no UV area are skipped and
// vertices left without a tangent get an arbitrary one perpendicular to
// their normal.
func (m *Mesh) CalculateTangents() {
	for i := range m.Vertices {
		m.Vertices[i].Tangent = math3d.Vec3{}
	}

	m.ForEachTriangle(func(i0, i1, i2 uint32) {
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		d1 := v1.UV.Sub(v0.UV)
		d2 := v2.UV.Sub(v0.UV)

		det := d1.Cross(d2)
		if det == 0 {
			return
		}
		t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(1 / det)

		m.Vertices[i0].Tangent = m.Vertices[i0].Tangent.Add(t)
		m.Vertices[i1].Tangent = m.Vertices[i1].Tangent.Add(t)
		m.Vertices[i2].Tangent = m.Vertices[i2].Tangent.Add(t)
	})

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		// Gram-Schmidt against the normal
		t := m.Vertices[i].Tangent
		t = t.Sub(n.Scale(n.Dot(t)))
		if t.LenSq() < 1e-12 {
			axis := math3d.Right()
			if n.X > 0.9 || n.X < -0.9 {
				axis = math3d.Up()
			}
			t = axis.Sub(n.Scale(n.Dot(axis)))
		}
		m.Vertices[i].Tangent = t.Normalize()
	}
}

// Transform applies mat to every vertex. Normals and tangents use the
// upper 3x3 and are renormalized.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulPoint(v.Position)
		v.Normal = mat.MulDir(v.Normal).Normalize()
		v.Tangent = mat.MulDir(v.Tangent).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Indices:   make([]uint32, len(m.Indices)),
		Topology:  m.Topology,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}
