package scene

import (
	"bytes"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/ember/internal/config"
	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
	"github.com/taigrr/ember/pkg/render"
)

func newTestScene(t *testing.T, cfg config.Config) (*Scene, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := New(cfg, 64, 48, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, &logs
}

func TestNewFallbackScene(t *testing.T) {
	s, _ := newTestScene(t, config.Default())

	if s.Vehicle.Mesh.Topology != models.TriangleList {
		t.Errorf("vehicle topology = %v, want list", s.Vehicle.Mesh.Topology)
	}
	if s.Fire.Mesh.Topology != models.TriangleStrip {
		t.Errorf("fire topology = %v, want strip", s.Fire.Mesh.Topology)
	}
	if _, ok := s.Fire.Material.(*render.TransparentMaterial); !ok {
		t.Errorf("fire material = %T, want transparent", s.Fire.Material)
	}
	if !s.Fire.Visible {
		t.Error("fire should start visible")
	}
	if s.Background() != render.BackgroundSoftware {
		t.Errorf("background = %v", s.Background())
	}
}

func TestRender(t *testing.T) {
	s, _ := newTestScene(t, config.Default())
	fb := render.NewFramebuffer(64, 48)
	depth := render.NewDepthBuffer(64, 48)

	stats := s.Render(fb, depth)
	if stats.EntitiesDrawn != 2 {
		t.Errorf("EntitiesDrawn = %d, want 2", stats.EntitiesDrawn)
	}
	if stats.FragmentsShaded == 0 {
		t.Error("nothing was shaded")
	}
	if got := fb.GetPixel(32, 30); got == render.BackgroundSoftware.RGBA() {
		t.Error("vehicle should cover the centre")
	}
	if got := fb.GetPixel(0, 47); got != render.BackgroundSoftware.RGBA() {
		t.Errorf("corner = %v, want background", got)
	}

	s.ToggleFire()
	stats = s.Render(fb, depth)
	if stats.EntitiesDrawn != 1 {
		t.Errorf("with fire hidden EntitiesDrawn = %d, want 1", stats.EntitiesDrawn)
	}
}

func TestRotation(t *testing.T) {
	s, _ := newTestScene(t, config.Default())
	const dt = 1.0 / 60

	for range 180 {
		s.Update(dt)
	}
	if s.Angle() <= 0 {
		t.Fatalf("angle = %v, want positive", s.Angle())
	}
	if want := math3d.Radians(45); math.Abs(s.spin.speed-want) > 0.01*want {
		t.Errorf("speed = %v, want about %v", s.spin.speed, want)
	}
	if s.Vehicle.World != s.Fire.World {
		t.Error("vehicle and fire should share the world rotation")
	}

	s.ToggleRotation()
	for range 300 {
		s.Update(dt)
	}
	if math.Abs(s.spin.speed) > 1e-3 {
		t.Errorf("speed after stopping = %v, want about 0", s.spin.speed)
	}
	angle := s.Angle()
	s.Update(dt)
	if math.Abs(s.Angle()-angle) > 1e-4 {
		t.Error("scene still turning after rotation stopped")
	}
}

func TestSpinFollowsFrameTime(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		dt     float64
	}{
		{"matching rate", 60, 1.0 / 60},
		{"half rate", 30, 1.0 / 30},
		{"uneven", 24, 1.0 / 24},
	}

	want := newSpin(60, 45)
	for range 120 {
		want.update(true, 1.0/120)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := newSpin(60, 45)
			for range tt.frames {
				sp.update(true, tt.dt)
			}
			// One second of easing regardless of how it was sliced.
			if math.Abs(sp.speed-want.speed) > 1e-6 {
				t.Errorf("speed after 1s = %v, want %v", sp.speed, want.speed)
			}
		})
	}

	sp := newSpin(60, 45)
	if d := sp.update(true, 0); d != 0 || sp.speed != 0 {
		t.Errorf("zero dt turned %v at speed %v", d, sp.speed)
	}
}

func TestRotationDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Rotate = false
	s, _ := newTestScene(t, cfg)

	for range 10 {
		s.Update(1.0 / 60)
	}
	if s.Angle() != 0 || s.Vehicle.World != math3d.Identity() {
		t.Errorf("angle = %v, want no rotation", s.Angle())
	}
}

func TestToggles(t *testing.T) {
	s, logs := newTestScene(t, config.Default())

	s.CycleRenderMode()
	if s.Options.RenderMode != render.ObservedArea {
		t.Errorf("render mode = %v", s.Options.RenderMode)
	}
	s.CycleCullMode()
	if s.Options.CullMode != render.FrontFaceCulling {
		t.Errorf("cull mode = %v", s.Options.CullMode)
	}
	s.ToggleNormalMap()
	if s.Options.UseNormalMap {
		t.Error("normal map should be off")
	}
	s.ToggleDepth()
	s.ToggleBoundingBox()
	if !s.Options.ShowDepth || !s.Options.ShowBoundingBox {
		t.Errorf("debug views = %+v", s.Options)
	}
	s.ToggleUniformBackground()
	if s.Background() != render.BackgroundUniform {
		t.Errorf("background = %v, want uniform", s.Background())
	}
	s.TogglePrintFPS()
	if !s.PrintFPS() {
		t.Error("print fps should be on")
	}
	s.ToggleRotation()
	if s.Rotating() {
		t.Error("rotation should be off")
	}

	for _, want := range []string{"mode=observed_area", "mode=front", "normal map", "state=off"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %q:\n%s", want, logs.String())
		}
	}
}

func TestMissingAssetsFallBack(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Vehicle.Model = filepath.Join(dir, "vehicle.obj")
	cfg.Vehicle.Diffuse = filepath.Join(dir, "diffuse.png")
	cfg.Fire.Model = filepath.Join(dir, "fire.glb")

	s, logs := newTestScene(t, cfg)
	if s.Vehicle.Mesh.Name != "cube" {
		t.Errorf("vehicle mesh = %q, want fallback cube", s.Vehicle.Mesh.Name)
	}
	if s.Fire.Mesh.Name != "fire" {
		t.Errorf("fire mesh = %q, want fallback", s.Fire.Mesh.Name)
	}
	if n := strings.Count(logs.String(), "using fallback"); n != 3 {
		t.Errorf("logged %d fallbacks, want 3:\n%s", n, logs.String())
	}
}

func TestLoadsOBJVehicle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	obj := "v -5 -5 0\nv 0 5 0\nv 5 -5 0\nvt 0 1\nvt 0.5 0\nvt 1 1\nf 1/1 2/2 3/3\n"
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Vehicle.Model = path
	cfg.Fire.Topology = "list"

	s, _ := newTestScene(t, cfg)
	if got := s.Vehicle.Mesh.TriangleCount(); got != 1 {
		t.Errorf("triangles = %d, want 1", got)
	}
	if s.Fire.Mesh.Topology != models.TriangleList {
		t.Errorf("fire topology = %v, want list override", s.Fire.Mesh.Topology)
	}
}

func TestTextureLimit(t *testing.T) {
	l := textureLoader{log: slog.New(slog.DiscardHandler), maxSize: 16}
	tex := l.limit("test", render.NewTexture(64, 32))
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("limited to %dx%d, want 16x8", tex.Width, tex.Height)
	}

	small := render.NewTexture(8, 8)
	if got := l.limit("test", small); got != small {
		t.Error("small texture should be returned as is")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Mode = "bogus"
	if _, err := New(cfg, 64, 48, nil); err == nil {
		t.Error("expected error for invalid config")
	}
}
