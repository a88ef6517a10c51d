// Package scene assembles the vehicle and fire entities and owns the
// interactive state around them: toggles, rotation and the camera.
package scene

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/ember/internal/config"
	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
	"github.com/taigrr/ember/pkg/render"
)

// Scene is a vehicle with a fire effect sharing one world rotation.
type Scene struct {
	Vehicle *render.Entity
	Fire    *render.Entity
	Camera  *render.Camera
	Options render.Options

	uniformBackground bool
	printFPS          bool

	rotating bool
	spin     spin

	renderer *render.Renderer
	log      *slog.Logger
}

// spin eases the rotation speed toward its target with a critically
// damped spring so toggling rotation does not snap. The spring is rebuilt
// whenever the frame time changes, so easing follows wall time rather than
// frame count.
type spin struct {
	spring   harmonica.Spring
	step     float64 // Time step the spring was built for
	maxSpeed float64 // Radians per second
	speed    float64
	accel    float64
	angle    float64
}

// Spring tuning for the rotation speed.
const (
	spinFrequency = 6.0
	spinDamping   = 1.0
)

func newSpin(fps int, degreesPerSecond float64) spin {
	step := harmonica.FPS(fps)
	return spin{
		spring:   harmonica.NewSpring(step, spinFrequency, spinDamping),
		step:     step,
		maxSpeed: math3d.Radians(degreesPerSecond),
	}
}

// update advances dt seconds and returns the angle turned.
func (s *spin) update(on bool, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if dt != s.step {
		s.spring = harmonica.NewSpring(dt, spinFrequency, spinDamping)
		s.step = dt
	}
	target := 0.0
	if on {
		target = s.maxSpeed
	}
	s.speed, s.accel = s.spring.Update(s.speed, s.accel, target)
	delta := s.speed * dt
	s.angle += delta
	return delta
}

// New builds the scene for a width x height target. Missing or broken
// assets are replaced with procedural ones. A nil logger discards.
func New(cfg config.Config, width, height int, log *slog.Logger) (*Scene, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vehicle, err := newVehicle(cfg, log)
	if err != nil {
		return nil, err
	}
	fire, err := newFire(cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Vehicle:           vehicle,
		Fire:              fire,
		Camera:            cfg.NewCamera(width, height),
		Options:           cfg.RenderOptions(),
		uniformBackground: cfg.Render.UniformBackground,
		printFPS:          cfg.Render.PrintFPS,
		rotating:          cfg.Render.Rotate,
		spin:              newSpin(cfg.FPS, cfg.RotationSpeed),
		renderer:          render.NewRenderer(),
		log:               log,
	}
	log.Info("scene built",
		"vehicle_triangles", vehicle.Mesh.TriangleCount(),
		"fire_triangles", fire.Mesh.TriangleCount(),
		"mode", s.Options.RenderMode, "cull", s.Options.CullMode)
	return s, nil
}

func newVehicle(cfg config.Config, log *slog.Logger) (*render.Entity, error) {
	textures := textureLoader{log: log, maxSize: cfg.MaxTextureSize}
	mesh, embedded := vehicleMesh(log, cfg.Vehicle.Model)

	diffuse := textures.load("vehicle diffuse", cfg.Vehicle.Diffuse, nil)
	if diffuse == nil && embedded != nil {
		log.Info("using embedded base color texture", "path", cfg.Vehicle.Model)
		diffuse = textures.limit("vehicle diffuse", render.TextureFromImage(embedded))
	}
	if diffuse == nil {
		diffuse = fallbackDiffuse()
	}

	mat := render.NewOpaqueMaterial(
		diffuse,
		textures.load("vehicle normal", cfg.Vehicle.Normal, render.NewFlatNormalTexture()),
		textures.load("vehicle specular", cfg.Vehicle.Specular, fallbackSpecular()),
		textures.load("vehicle glossiness", cfg.Vehicle.Glossiness, fallbackGlossiness()),
	)
	e, err := render.NewEntity("vehicle", mesh, mat)
	if err != nil {
		return nil, fmt.Errorf("build vehicle: %w", err)
	}
	return e, nil
}

// vehicleMesh loads the vehicle model. glTF models also return their
// embedded base color image, if any.
func vehicleMesh(log *slog.Logger, path string) (*models.Mesh, image.Image) {
	if !isGLTF(path) {
		return meshOrFallback(log, "vehicle", path, fallbackVehicle), nil
	}
	mesh, mat, err := models.LoadGLBWithTextures(path)
	if err != nil {
		log.Warn("mesh unavailable, using fallback", "role", "vehicle", "path", path, "error", err)
		return fallbackVehicle(), nil
	}
	log.Info("mesh loaded", "role", "vehicle", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(), "topology", mesh.Topology)
	if mat == nil {
		return mesh, nil
	}
	return mesh, mat.BaseMap
}

func newFire(cfg config.Config, log *slog.Logger) (*render.Entity, error) {
	textures := textureLoader{log: log, maxSize: cfg.MaxTextureSize}
	mesh := meshOrFallback(log, "fire", cfg.Fire.Model, fallbackFire)
	if cfg.Fire.Topology != "" {
		topo, err := models.ParseTopology(cfg.Fire.Topology)
		if err != nil {
			return nil, fmt.Errorf("build fire: %w", err)
		}
		mesh.Topology = topo
	}

	mat := render.NewTransparentMaterial(textures.load("fire diffuse", cfg.Fire.Diffuse, fallbackFlame()))
	mat.WriteDepth = cfg.Fire.WriteDepth

	e, err := render.NewEntity("fire", mesh, mat)
	if err != nil {
		return nil, fmt.Errorf("build fire: %w", err)
	}
	e.Visible = cfg.Fire.Visible
	return e, nil
}

// Update advances the rotation by dt seconds.
func (s *Scene) Update(dt float64) {
	delta := s.spin.update(s.rotating, dt)
	if delta == 0 {
		return
	}
	s.Vehicle.RotateY(delta)
	s.Fire.RotateY(delta)
}

// Angle returns the accumulated rotation in radians.
func (s *Scene) Angle() float64 {
	return s.spin.angle
}

// Background returns the clear color for the current toggles.
func (s *Scene) Background() render.ColorRGB {
	if s.uniformBackground {
		return render.BackgroundUniform
	}
	return render.BackgroundSoftware
}

// Resize updates the camera for a new target size.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Camera.SetAspectRatio(float64(width) / float64(height))
}

// Render draws one frame into fb and depth.
func (s *Scene) Render(fb *render.Framebuffer, depth *render.DepthBuffer) render.FrameStats {
	return s.renderer.Render(fb, depth, s.Camera, s.Options, s.Background(), s.Vehicle, s.Fire)
}

// PrintFPS reports whether frame rates should be printed.
func (s *Scene) PrintFPS() bool {
	return s.printFPS
}

// Rotating reports whether rotation is switched on.
func (s *Scene) Rotating() bool {
	return s.rotating
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// ToggleRotation starts or stops the spin.
func (s *Scene) ToggleRotation() {
	s.rotating = !s.rotating
	s.log.Info("rotation", "state", onOff(s.rotating))
}

// ToggleFire shows or hides the fire effect.
func (s *Scene) ToggleFire() {
	s.Fire.Visible = !s.Fire.Visible
	s.log.Info("fire", "state", onOff(s.Fire.Visible))
}

// CycleRenderMode steps through the shading modes.
func (s *Scene) CycleRenderMode() {
	s.Options.RenderMode = s.Options.RenderMode.Next()
	s.log.Info("shading", "mode", s.Options.RenderMode)
}

// ToggleNormalMap switches normal mapping.
func (s *Scene) ToggleNormalMap() {
	s.Options.UseNormalMap = !s.Options.UseNormalMap
	s.log.Info("normal map", "state", onOff(s.Options.UseNormalMap))
}

// ToggleDepth switches the depth buffer view.
func (s *Scene) ToggleDepth() {
	s.Options.ShowDepth = !s.Options.ShowDepth
	s.log.Info("depth buffer view", "state", onOff(s.Options.ShowDepth))
}

// ToggleBoundingBox switches the bounding box view.
func (s *Scene) ToggleBoundingBox() {
	s.Options.ShowBoundingBox = !s.Options.ShowBoundingBox
	s.log.Info("bounding box view", "state", onOff(s.Options.ShowBoundingBox))
}

// CycleCullMode steps through the cull modes. The fire ignores it.
func (s *Scene) CycleCullMode() {
	s.Options.CullMode = s.Options.CullMode.Next()
	s.log.Info("cull mode", "mode", s.Options.CullMode)
}

// ToggleUniformBackground switches between the two clear colors.
func (s *Scene) ToggleUniformBackground() {
	s.uniformBackground = !s.uniformBackground
	s.log.Info("uniform background", "state", onOff(s.uniformBackground))
}

// TogglePrintFPS switches frame rate printing.
func (s *Scene) TogglePrintFPS() {
	s.printFPS = !s.printFPS
	s.log.Info("print fps", "state", onOff(s.printFPS))
}
