package render

import (
	"fmt"

	"github.com/taigrr/ember/pkg/math3d"
)

// RenderMode selects which lighting term the opaque material outputs.
type RenderMode int

const (
	// Combined outputs observedArea * (diffuse + specular + ambient).
	Combined RenderMode = iota
	// ObservedArea outputs the Lambert cosine as gray.
	ObservedArea
	// Diffuse outputs observedArea * diffuse.
	Diffuse
	// Specular outputs observedArea * specular.
	Specular
)

var renderModeNames = [...]string{"combined", "observed_area", "diffuse", "specular"}

func (m RenderMode) String() string {
	if m < 0 || int(m) >= len(renderModeNames) {
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
	return renderModeNames[m]
}

// Next cycles Combined, ObservedArea, Diffuse, Specular.
func (m RenderMode) Next() RenderMode {
	return (m + 1) % RenderMode(len(renderModeNames))
}

// ParseRenderMode parses the String form of a render mode.
func ParseRenderMode(s string) (RenderMode, error) {
	for i, name := range renderModeNames {
		if s == name {
			return RenderMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

// CullMode selects which triangle facing is discarded.
type CullMode int

const (
	// BackFaceCulling discards triangles with negative screen area.
	BackFaceCulling CullMode = iota
	// FrontFaceCulling discards triangles with positive screen area.
	FrontFaceCulling
	// NoCulling keeps both.
	NoCulling
)

var cullModeNames = [...]string{"back", "front", "none"}

func (m CullMode) String() string {
	if m < 0 || int(m) >= len(cullModeNames) {
		return fmt.Sprintf("CullMode(%d)", int(m))
	}
	return cullModeNames[m]
}

// Next cycles back, front, none.
func (m CullMode) Next() CullMode {
	return (m + 1) % CullMode(len(cullModeNames))
}

// ParseCullMode parses the String form of a cull mode.
func ParseCullMode(s string) (CullMode, error) {
	for i, name := range cullModeNames {
		if s == name {
			return CullMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cull mode %q", s)
}

// Options is the per-frame render configuration. It is passed by value
// into every render call and never modified by the renderer.
type Options struct {
	RenderMode      RenderMode
	CullMode        CullMode // Applies to opaque materials
	UseNormalMap    bool
	ShowBoundingBox bool
	ShowDepth       bool
}

// DefaultOptions returns combined shading, back-face culling and normal
// mapping with both debug views off.
func DefaultOptions() Options {
	return Options{
		RenderMode:   Combined,
		CullMode:     BackFaceCulling,
		UseNormalMap: true,
	}
}

// Light is a single directional light plus a constant ambient term.
type Light struct {
	Direction math3d.Vec3 // Direction the light travels, unit length
	Intensity float64
	Shininess float64 // Specular exponent, scaled by the glossiness map
	Ambient   ColorRGB
}

// DefaultLight returns the scene light.
func DefaultLight() Light {
	return Light{
		Direction: math3d.V3(0.577, -0.577, 0.577),
		Intensity: 7,
		Shininess: 25,
		Ambient:   Gray(0.025),
	}
}
