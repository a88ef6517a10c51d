package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ember.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.CameraOrigin() != math3d.V3(0, 0, -50) {
		t.Errorf("camera origin = %v", cfg.CameraOrigin())
	}
	if got := cfg.RenderOptions(); got != render.DefaultOptions() {
		t.Errorf("RenderOptions = %+v, want defaults", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != Default().Width {
		t.Errorf("Width = %d, want default", cfg.Width)
	}

	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
width: 320
height: 200
camera:
  origin: [0, 5, -30]
  fov: 60
render:
  mode: specular
  cull: none
  normal_map: false
  depth: true
fire:
  visible: false
  topology: strip
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.CameraOrigin() != math3d.V3(0, 5, -30) || cfg.Camera.FOV != 60 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Camera.Far != 100 || cfg.FPS != 60 {
		t.Errorf("defaults lost: far=%v fps=%d", cfg.Camera.Far, cfg.FPS)
	}
	if cfg.Fire.Visible {
		t.Error("fire.visible should be false")
	}

	opts := cfg.RenderOptions()
	want := render.Options{RenderMode: render.Specular, CullMode: render.NoCulling, ShowDepth: true}
	if opts != want {
		t.Errorf("RenderOptions = %+v, want %+v", opts, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"malformed yaml", "width: [", false},
		{"negative width", "width: -1", true},
		{"bad fov", "camera: {fov: 200}", true},
		{"far before near", "camera: {near: 5, far: 1}", true},
		{"unknown mode", "render: {mode: wireframe}", true},
		{"unknown cull", "render: {cull: sideways}", true},
		{"unknown topology", "fire: {topology: fan}", true},
		{"negative texture size", "max_texture_size: -4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}
}

func TestNewCamera(t *testing.T) {
	cfg := Default()
	cfg.Camera.Near, cfg.Camera.Far = 1, 10

	cam := cfg.NewCamera(200, 100)
	if cam.AspectRatio != 2 {
		t.Errorf("aspect = %v, want 2", cam.AspectRatio)
	}
	if cam.Near != 1 || cam.Far != 10 {
		t.Errorf("clip planes = %v..%v", cam.Near, cam.Far)
	}
	if cam.Position != math3d.V3(0, 0, -50) {
		t.Errorf("position = %v", cam.Position)
	}
}
