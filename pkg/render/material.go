package render

import (
	"math"

	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
)

// Material shades the fragments of one entity. The set is closed: the
// only implementations are *OpaqueMaterial and *TransparentMaterial.
type Material interface {
	// cullMode picks the facing test for this material.
	cullMode(opts Options) CullMode
	// transform runs the vertex stage into dst, which has len(src).
	transform(dst []TransformedVertex, src []models.Vertex, world, wvp math3d.Mat4, eye math3d.Vec3)
	// depthTest decides whether a fragment at depth z gets shaded,
	// updating the stored depth as the material requires.
	depthTest(stored *float64, z float64, opts Options) bool
	// interpolate fills the attributes the material reads.
	interpolate(f *Fragment, k [3]float64, v0, v1, v2 *TransformedVertex)
	// shade writes the fragment's final color into fb.
	shade(fb *Framebuffer, f *Fragment, opts Options)
}

// OpaqueMaterial is a normal-mapped Phong material.
type OpaqueMaterial struct {
	Diffuse    Sampler
	Normal     Sampler // Tangent-space normals remapped to [0, 1]
	Specular   Sampler
	Glossiness Sampler // Red channel scales the light's shininess
	Light      Light
}

// NewOpaqueMaterial creates an opaque material lit by DefaultLight.
// A nil sampler is replaced with a neutral one.
func NewOpaqueMaterial(diffuse, normal, specular, glossiness Sampler) *OpaqueMaterial {
	if diffuse == nil {
		diffuse = NewSolidTexture(color8(255, 255, 255, 255))
	}
	if normal == nil {
		normal = NewFlatNormalTexture()
	}
	if specular == nil {
		specular = NewSolidTexture(color8(0, 0, 0, 255))
	}
	if glossiness == nil {
		glossiness = NewSolidTexture(color8(255, 255, 255, 255))
	}
	return &OpaqueMaterial{
		Diffuse:    diffuse,
		Normal:     normal,
		Specular:   specular,
		Glossiness: glossiness,
		Light:      DefaultLight(),
	}
}

func (m *OpaqueMaterial) cullMode(opts Options) CullMode {
	return opts.CullMode
}

func (m *OpaqueMaterial) transform(dst []TransformedVertex, src []models.Vertex, world, wvp math3d.Mat4, eye math3d.Vec3) {
	transformPositions(dst, src, wvp)
	transformLighting(dst, src, world, eye)
}

// Opaque fragments write depth before the show-depth check so the depth
// view reflects them.
func (m *OpaqueMaterial) depthTest(stored *float64, z float64, opts Options) bool {
	if !(z < *stored) {
		return false
	}
	*stored = z
	return !opts.ShowDepth
}

func (m *OpaqueMaterial) interpolate(f *Fragment, k [3]float64, v0, v1, v2 *TransformedVertex) {
	interpolateLit(f, k, v0, v1, v2)
}

func (m *OpaqueMaterial) shade(fb *Framebuffer, f *Fragment, opts Options) {
	fb.Pixels[f.Y*fb.Width+f.X] = m.Shade(f, opts).RGBA()
}

// Shade computes the lit color of a fragment. Channels are capped at 1.
func (m *OpaqueMaterial) Shade(f *Fragment, opts Options) ColorRGB {
	normal := f.Normal
	if opts.UseNormalMap {
		s := m.Normal.SampleRGB(f.UV)
		ts := math3d.V3(2*s.R-1, 2*s.G-1, 2*s.B-1)
		bitangent := f.Normal.Cross(f.Tangent)
		normal = f.Tangent.Scale(ts.X).
			Add(bitangent.Scale(ts.Y)).
			Add(f.Normal.Scale(ts.Z)).
			Normalize()
	}

	toLight := m.Light.Direction.Negate()
	observedArea := normal.Dot(toLight)
	if observedArea <= 0 {
		if opts.RenderMode == Combined {
			return m.Light.Ambient.MaxToOne()
		}
		return ColorRGB{}
	}

	var c ColorRGB
	switch opts.RenderMode {
	case ObservedArea:
		c = Gray(observedArea)
	case Diffuse:
		c = m.diffuse(f.UV).Scale(observedArea)
	case Specular:
		c = m.specular(f, normal, toLight).Scale(observedArea)
	default:
		c = m.diffuse(f.UV).
			Add(m.specular(f, normal, toLight)).
			Add(m.Light.Ambient).
			Scale(observedArea)
	}
	return c.MaxToOne()
}

// diffuse is Lambertian radiance.
func (m *OpaqueMaterial) diffuse(uv math3d.Vec2) ColorRGB {
	return m.Diffuse.SampleRGB(uv).Scale(m.Light.Intensity / math.Pi)
}

// specular is the Phong lobe: the light reflected about the normal,
// compared against the view direction.
func (m *OpaqueMaterial) specular(f *Fragment, normal, toLight math3d.Vec3) ColorRGB {
	reflected := toLight.Sub(normal.Scale(2 * math.Max(normal.Dot(toLight), 0)))
	cos := math.Max(reflected.Dot(f.ViewDir), 0)
	exp := m.Light.Shininess * m.Glossiness.SampleRGB(f.UV).R
	return m.Specular.SampleRGB(f.UV).Scale(math.Pow(cos, exp)).Clamp()
}

// TransparentMaterial alpha-composites its diffuse texture over what is
// already in the pixel buffer. It never culls.
type TransparentMaterial struct {
	Diffuse Sampler
	// WriteDepth lets visible transparent fragments occlude later ones.
	// Off by default so overlapping layers all blend.
	WriteDepth bool
}

// NewTransparentMaterial creates a transparent material.
func NewTransparentMaterial(diffuse Sampler) *TransparentMaterial {
	if diffuse == nil {
		diffuse = NewSolidTexture(color8(255, 255, 255, 128))
	}
	return &TransparentMaterial{Diffuse: diffuse}
}

func (m *TransparentMaterial) cullMode(Options) CullMode {
	return NoCulling
}

func (m *TransparentMaterial) transform(dst []TransformedVertex, src []models.Vertex, _, wvp math3d.Mat4, _ math3d.Vec3) {
	transformPositions(dst, src, wvp)
}

// Transparent fragments are depth tested, but the show-depth view skips
// them before any depth write.
func (m *TransparentMaterial) depthTest(stored *float64, z float64, opts Options) bool {
	if !(z < *stored) || opts.ShowDepth {
		return false
	}
	if m.WriteDepth {
		*stored = z
	}
	return true
}

func (m *TransparentMaterial) interpolate(f *Fragment, k [3]float64, v0, v1, v2 *TransformedVertex) {
	interpolateUV(f, k, v0, v1, v2)
}

func (m *TransparentMaterial) shade(fb *Framebuffer, f *Fragment, _ Options) {
	idx := f.Y*fb.Width + f.X
	existing := FromRGBA(fb.Pixels[idx])
	fb.Pixels[idx] = m.Blend(f.UV, existing).RGBA()
}

// Blend composites the sample at uv over existing.
func (m *TransparentMaterial) Blend(uv math3d.Vec2, existing ColorRGB) ColorRGB {
	rgb, a := m.Diffuse.SampleRGBA(uv)
	return Composite(rgb, a, existing)
}

// Composite returns src*alpha + dst*(1-alpha), clamped.
func Composite(src ColorRGB, alpha float64, dst ColorRGB) ColorRGB {
	return src.Scale(alpha).Add(dst.Scale(1 - alpha)).Clamp()
}
