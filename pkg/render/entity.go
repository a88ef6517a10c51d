package render

import (
	"fmt"

	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
)

// Entity is a mesh placed in the world with a material. It owns the
// scratch buffer its vertex stage writes into, sized once per mesh and
// reused every frame.
type Entity struct {
	Name     string
	Mesh     *models.Mesh
	Material Material
	World    math3d.Mat4
	Visible  bool

	scratch []TransformedVertex
}

// NewEntity creates a visible entity at the origin. The mesh indices are
// validated here so rendering never has to.
func NewEntity(name string, mesh *models.Mesh, mat Material) (*Entity, error) {
	if mesh == nil || mat == nil {
		return nil, fmt.Errorf("entity %q: mesh and material are required", name)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("entity %q: %w", name, err)
	}
	return &Entity{
		Name:     name,
		Mesh:     mesh,
		Material: mat,
		World:    math3d.Identity(),
		Visible:  true,
		scratch:  make([]TransformedVertex, len(mesh.Vertices)),
	}, nil
}

// RotateY applies a rotation about the world Y axis on top of the
// current world matrix.
func (e *Entity) RotateY(angle float64) {
	e.World = math3d.RotateY(angle).Mul(e.World)
}

// Translate moves the entity in world space.
func (e *Entity) Translate(v math3d.Vec3) {
	e.World = math3d.Translate(v).Mul(e.World)
}

// Bounds returns the world-space bounding box.
func (e *Entity) Bounds() AABB {
	return NewAABB(e.Mesh.BoundsMin, e.Mesh.BoundsMax).Transform(e.World)
}

// SoftwareRender draws the entity into fb, testing against and updating
// depth. The caller clears both buffers; they must share dimensions.
func (e *Entity) SoftwareRender(fb *Framebuffer, depth *DepthBuffer, cam CameraMatrices, opts Options) FrameStats {
	var stats FrameStats
	if len(e.Mesh.Vertices) == 0 || fb.Width == 0 || fb.Height == 0 {
		return stats
	}
	if len(e.scratch) != len(e.Mesh.Vertices) {
		e.scratch = make([]TransformedVertex, len(e.Mesh.Vertices))
	}
	stats.EntitiesDrawn = 1

	wvp := cam.ProjectionMatrix().Mul(cam.ViewMatrix()).Mul(e.World)
	eye := cam.InverseViewMatrix().Translation()
	e.Material.transform(e.scratch, e.Mesh.Vertices, e.World, wvp, eye)
	rasterSpace(e.scratch, fb.Width, fb.Height)

	cull := e.Material.cullMode(opts)
	n := primitiveCount(e.Mesh.Topology, len(e.Mesh.Indices))
	for k := range n {
		stats.Triangles++
		p := primitiveAt(e.Mesh.Indices, e.Mesh.Topology, k)

		result, area := classify(p, e.scratch, cull)
		switch result {
		case rejectDepth:
			stats.DepthRejected++
			continue
		case rejectDegenerate:
			stats.Degenerate++
			continue
		case rejectFacing:
			stats.FacingCulled++
			continue
		}

		stats.Rasterized++
		e.rasterize(fb, depth, p, area, opts, &stats)
	}
	return stats
}

// rasterize walks the triangle's bounding box and shades every covered
// pixel that passes the material's depth test.
func (e *Entity) rasterize(fb *Framebuffer, depth *DepthBuffer, p primitive, area float64, opts Options, stats *FrameStats) {
	v0, v1, v2 := &e.scratch[p.i0], &e.scratch[p.i1], &e.scratch[p.i2]
	bb := triangleBounds(v0.Position.XY(), v1.Position.XY(), v2.Position.XY(), fb.Width, fb.Height)
	if bb.empty() {
		return
	}

	if opts.ShowBoundingBox {
		for y := bb.minY; y <= bb.maxY; y++ {
			row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
			for x := bb.minX; x <= bb.maxX; x++ {
				row[x] = BoundingBoxColor
			}
		}
		stats.BoundingBoxFills += (bb.maxX - bb.minX + 1) * (bb.maxY - bb.minY + 1)
		return
	}

	edges := newEdgeSetup(v0.Position.XY(), v1.Position.XY(), v2.Position.XY(), area)
	var frag Fragment
	for y := bb.minY; y <= bb.maxY; y++ {
		for x := bb.minX; x <= bb.maxX; x++ {
			w, inside := edges.weights(math3d.V2(float64(x)+0.5, float64(y)+0.5))
			if !inside {
				continue
			}

			z := interpolateDepth(w, v0.Position.Z, v1.Position.Z, v2.Position.Z)
			if !e.Material.depthTest(&depth.Values[y*depth.Width+x], z, opts) {
				continue
			}

			frag.X, frag.Y, frag.Depth = x, y, z
			e.Material.interpolate(&frag, perspectiveWeights(w, v0, v1, v2), v0, v1, v2)
			e.Material.shade(fb, &frag, opts)
			stats.FragmentsShaded++
		}
	}
}
