package render

import (
	"image/color"
	"slices"

	"github.com/taigrr/ember/pkg/math3d"
)

// DepthRemapFloor is the depth mapped to black by the depth view.
// Perspective depth crowds near 1, so only the last half percent of the
// range is spread over the gray ramp.
const DepthRemapFloor = 0.995

// Renderer draws entities with the software pipeline. It keeps no
// per-frame state of its own; everything it writes goes to the target
// buffers.
type Renderer struct {
	// FrustumCulling skips entities whose world bounds lie entirely
	// outside the view frustum.
	FrustumCulling bool

	order []*Entity
}

// NewRenderer creates a renderer with frustum culling enabled.
func NewRenderer() *Renderer {
	return &Renderer{FrustumCulling: true}
}

// Render is the software entry point. It clears depth to +Inf and the
// pixel buffer to background, draws every opaque entity before any
// transparent one (otherwise in the given order), and finally replaces
// the image with a depth visualization when opts.ShowDepth is set.
// fb and depth must have the same dimensions.
func (r *Renderer) Render(fb *Framebuffer, depth *DepthBuffer, cam CameraMatrices, opts Options, background ColorRGB, entities ...*Entity) FrameStats {
	if depth.Width != fb.Width || depth.Height != fb.Height {
		depth.Resize(fb.Width, fb.Height)
	}
	depth.Clear()
	fb.Clear(background.RGBA())

	r.order = append(r.order[:0], entities...)
	slices.SortStableFunc(r.order, func(a, b *Entity) int {
		return materialPass(a.Material) - materialPass(b.Material)
	})

	var frustum Frustum
	if r.FrustumCulling {
		frustum = NewFrustumFromMatrix(cam.ProjectionMatrix().Mul(cam.ViewMatrix()))
	}

	var stats FrameStats
	for _, e := range r.order {
		if e == nil || !e.Visible {
			continue
		}
		if r.FrustumCulling && !frustum.IntersectAABB(e.Bounds()) {
			stats.EntitiesCulled++
			continue
		}
		stats.Add(e.SoftwareRender(fb, depth, cam, opts))
	}

	if opts.ShowDepth {
		VisualizeDepth(fb, depth)
	}

	Logger().Debug("frame rendered", "stats", stats, "mode", opts.RenderMode, "cull", opts.CullMode)
	return stats
}

// materialPass orders opaque materials before transparent ones.
func materialPass(m Material) int {
	if _, ok := m.(*TransparentMaterial); ok {
		return 1
	}
	return 0
}

// VisualizeDepth overwrites fb with a gray ramp of the depth buffer:
// depths at or below DepthRemapFloor are black, the far plane and empty
// pixels are white.
func VisualizeDepth(fb *Framebuffer, depth *DepthBuffer) {
	n := min(len(fb.Pixels), len(depth.Values))
	for i := range n {
		g := uint8(255 * math3d.Remap(depth.Values[i], DepthRemapFloor))
		fb.Pixels[i] = color.RGBA{g, g, g, 255}
	}
}
