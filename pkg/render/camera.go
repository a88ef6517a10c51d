package render

import (
	"math"

	"github.com/taigrr/ember/pkg/math3d"
)

// CameraMatrices is what the renderer needs from a camera.
type CameraMatrices interface {
	ViewMatrix() math3d.Mat4
	InverseViewMatrix() math3d.Mat4
	ProjectionMatrix() math3d.Mat4
}

// Camera is a left-handed perspective camera. With zero yaw and pitch it
// looks down +Z.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (radians)
	Pitch float64 // Positive looks up
	Yaw   float64 // Positive turns toward +X

	// Projection parameters
	FOV         float64 // Vertical field of view in degrees
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	// Cached matrices (computed on demand)
	viewMatrix    math3d.Mat4
	invViewMatrix math3d.Mat4
	projMatrix    math3d.Mat4
	viewDirty     bool
	projDirty     bool
}

var _ CameraMatrices = (*Camera)(nil)

// NewCamera creates a camera at origin with a vertical field of view in
// degrees. Near and far default to 0.1 and 100.
func NewCamera(origin math3d.Vec3, fovDegrees, aspect float64) *Camera {
	return &Camera{
		Position:    origin,
		FOV:         fovDegrees,
		AspectRatio: aspect,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(fovDegrees float64) {
	c.FOV = fovDegrees
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the horizontal right vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the camera up vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Forward().Cross(c.Right())
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.updateView()
	return c.viewMatrix
}

// InverseViewMatrix returns the camera-to-world matrix. Its translation
// is the camera position.
func (c *Camera) InverseViewMatrix() math3d.Mat4 {
	c.updateView()
	return c.invViewMatrix
}

// ProjectionMatrix returns the projection matrix, mapping visible depth
// to NDC z in [0, 1].
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.PerspectiveLH(math3d.Radians(c.FOV), c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

func (c *Camera) updateView() {
	if !c.viewDirty {
		return
	}
	fwd := c.Forward()
	up := c.Up()
	c.viewMatrix = math3d.LookAtLH(c.Position, fwd, up)
	c.invViewMatrix = math3d.LookToLH(c.Position, fwd, up)
	c.viewDirty = false
}

// MoveForward moves the camera along its view direction.
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
	c.viewDirty = true
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.viewDirty = true
}

// MoveUp moves the camera along world up.
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
	c.viewDirty = true
}

// Rotate turns the camera by the given angles in radians.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw

	// Clamp pitch to avoid gimbal lock issues
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math3d.Clamp(c.Pitch, -maxPitch, maxPitch)

	c.viewDirty = true
}

// WorldToScreen projects a world point to raster coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.Point(worldPos))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.Project()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < 0 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	p := ndcToRaster(ndc.XY(), screenWidth, screenHeight)
	return p.X, p.Y, ndc.Z, true
}
