package render

import "log/slog"

// FrameStats counts what happened to geometry during a frame.
type FrameStats struct {
	EntitiesDrawn    int // Entities that reached the vertex stage
	EntitiesCulled   int // Entities entirely outside the view frustum
	Triangles        int // Triangles assembled
	DepthRejected    int // Triangles with a vertex outside the depth range
	Degenerate       int // Triangles with repeated indices or no area
	FacingCulled     int // Triangles removed by the cull mode
	Rasterized       int // Triangles that reached the rasterizer
	FragmentsShaded  int // Pixels a material wrote
	BoundingBoxFills int // Pixels written by the bounding box view
}

// Add accumulates o into s.
func (s *FrameStats) Add(o FrameStats) {
	s.EntitiesDrawn += o.EntitiesDrawn
	s.EntitiesCulled += o.EntitiesCulled
	s.Triangles += o.Triangles
	s.DepthRejected += o.DepthRejected
	s.Degenerate += o.Degenerate
	s.FacingCulled += o.FacingCulled
	s.Rasterized += o.Rasterized
	s.FragmentsShaded += o.FragmentsShaded
	s.BoundingBoxFills += o.BoundingBoxFills
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("entities", s.EntitiesDrawn),
		slog.Int("entities_culled", s.EntitiesCulled),
		slog.Int("triangles", s.Triangles),
		slog.Int("depth_rejected", s.DepthRejected),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("facing_culled", s.FacingCulled),
		slog.Int("rasterized", s.Rasterized),
		slog.Int("fragments", s.FragmentsShaded),
	)
}
