// Package config loads the viewer configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
	"github.com/taigrr/ember/pkg/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full viewer configuration. Zero-value fields in a loaded
// file keep their defaults.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`

	Camera  CameraConfig  `yaml:"camera"`
	Vehicle VehicleConfig `yaml:"vehicle"`
	Fire    FireConfig    `yaml:"fire"`
	Render  RenderConfig  `yaml:"render"`

	// RotationSpeed is the scene's spin in degrees per second.
	RotationSpeed float64 `yaml:"rotation_speed"`
	// MaxTextureSize downsizes larger textures on load. Zero keeps them.
	MaxTextureSize int `yaml:"max_texture_size"`
}

// CameraConfig places the camera.
type CameraConfig struct {
	Origin [3]float64 `yaml:"origin"`
	FOV    float64    `yaml:"fov"` // Vertical, degrees
	Near   float64    `yaml:"near"`
	Far    float64    `yaml:"far"`
}

// VehicleConfig names the opaque mesh and its texture maps. Empty paths
// fall back to procedural assets.
type VehicleConfig struct {
	Model      string `yaml:"model"`
	Diffuse    string `yaml:"diffuse"`
	Normal     string `yaml:"normal"`
	Specular   string `yaml:"specular"`
	Glossiness string `yaml:"glossiness"`
}

// FireConfig names the transparent mesh and its texture.
type FireConfig struct {
	Model      string `yaml:"model"`
	Diffuse    string `yaml:"diffuse"`
	Visible    bool   `yaml:"visible"`
	WriteDepth bool   `yaml:"write_depth"`
	Topology   string `yaml:"topology"` // Overrides the loaded topology when set
}

// RenderConfig holds the initial toggle states.
type RenderConfig struct {
	Mode              string `yaml:"mode"`
	Cull              string `yaml:"cull"`
	NormalMap         bool   `yaml:"normal_map"`
	BoundingBox       bool   `yaml:"bounding_box"`
	Depth             bool   `yaml:"depth"`
	UniformBackground bool   `yaml:"uniform_background"`
	Rotate            bool   `yaml:"rotate"`
	PrintFPS          bool   `yaml:"print_fps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:  640,
		Height: 480,
		FPS:    60,
		Camera: CameraConfig{
			Origin: [3]float64{0, 0, -50},
			FOV:    45,
			Near:   0.1,
			Far:    100,
		},
		Fire: FireConfig{Visible: true},
		Render: RenderConfig{
			Mode:      render.Combined.String(),
			Cull:      render.BackFaceCulling.String(),
			NormalMap: true,
			Rotate:    true,
		},
		RotationSpeed: 45,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enum names.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip planes %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.MaxTextureSize < 0:
		return fmt.Errorf("%w: max_texture_size %d", ErrInvalid, c.MaxTextureSize)
	}
	if _, err := render.ParseRenderMode(c.Render.Mode); err != nil {
		return fmt.Errorf("%w: render.mode: %v", ErrInvalid, err)
	}
	if _, err := render.ParseCullMode(c.Render.Cull); err != nil {
		return fmt.Errorf("%w: render.cull: %v", ErrInvalid, err)
	}
	if c.Fire.Topology != "" {
		if _, err := models.ParseTopology(c.Fire.Topology); err != nil {
			return fmt.Errorf("%w: fire.topology: %v", ErrInvalid, err)
		}
	}
	return nil
}

// RenderOptions converts the render section. Call Validate first; bad
// names fall back to the defaults.
func (c Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	if m, err := render.ParseRenderMode(c.Render.Mode); err == nil {
		opts.RenderMode = m
	}
	if m, err := render.ParseCullMode(c.Render.Cull); err == nil {
		opts.CullMode = m
	}
	opts.UseNormalMap = c.Render.NormalMap
	opts.ShowBoundingBox = c.Render.BoundingBox
	opts.ShowDepth = c.Render.Depth
	return opts
}

// CameraOrigin returns the configured camera position.
func (c Config) CameraOrigin() math3d.Vec3 {
	o := c.Camera.Origin
	return math3d.V3(o[0], o[1], o[2])
}

// NewCamera builds the configured camera for a width x height target.
func (c Config) NewCamera(width, height int) *render.Camera {
	cam := render.NewCamera(c.CameraOrigin(), c.Camera.FOV, float64(width)/float64(height))
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	return cam
}
