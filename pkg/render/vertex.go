package render

import (
	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
)

// TransformedVertex is a vertex after the vertex stage.
//
// Position holds NDC x, y and z with W = 1/clip w. After rasterSpace runs,
// X and Y are raster coordinates instead; Z and W are kept.
type TransformedVertex struct {
	Position math3d.Vec4
	UV       math3d.Vec2
	Normal   math3d.Vec3 // World space, unit length
	Tangent  math3d.Vec3 // World space, unit length
	ViewDir  math3d.Vec3 // From the camera to the vertex, world space
}

// transformPositions runs the shared part of the vertex stage: clip
// position, perspective divide and texture coordinates.
func transformPositions(dst []TransformedVertex, src []models.Vertex, wvp math3d.Mat4) {
	for i := range src {
		dst[i].Position = wvp.MulVec4(math3d.Point(src[i].Position)).Project()
		dst[i].UV = src[i].UV
	}
}

// transformLighting adds the world-space attributes lit materials need.
func transformLighting(dst []TransformedVertex, src []models.Vertex, world math3d.Mat4, eye math3d.Vec3) {
	for i := range src {
		v := &src[i]
		dst[i].Normal = world.MulDir(v.Normal).Normalize()
		dst[i].Tangent = world.MulDir(v.Tangent).Normalize()
		dst[i].ViewDir = world.MulPoint(v.Position).Sub(eye)
	}
}

// ndcToRaster maps NDC x, y in [-1, 1] to pixel space with y pointing
// down.
func ndcToRaster(ndc math3d.Vec2, width, height int) math3d.Vec2 {
	return math3d.V2(
		0.5*(ndc.X+1)*float64(width),
		0.5*(1-ndc.Y)*float64(height),
	)
}

// rasterSpace converts every vertex from NDC to raster x, y in place.
func rasterSpace(vs []TransformedVertex, width, height int) {
	for i := range vs {
		p := ndcToRaster(vs[i].Position.XY(), width, height)
		vs[i].Position.X, vs[i].Position.Y = p.X, p.Y
	}
}
