package render

import (
	"image/color"
	"math"
)

// ColorRGB is a linear floating-point color. Shading works in this space
// and only quantizes when writing the pixel buffer.
type ColorRGB struct {
	R, G, B float64
}

// Gray returns a color with all channels set to v.
func Gray(v float64) ColorRGB {
	return ColorRGB{v, v, v}
}

// Add returns the channel-wise sum.
func (c ColorRGB) Add(o ColorRGB) ColorRGB {
	return ColorRGB{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the channel-wise product.
func (c ColorRGB) Mul(o ColorRGB) ColorRGB {
	return ColorRGB{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale multiplies every channel by s.
func (c ColorRGB) Scale(s float64) ColorRGB {
	return ColorRGB{c.R * s, c.G * s, c.B * s}
}

// MaxToOne caps each channel at 1 independently. Hue is not preserved.
func (c ColorRGB) MaxToOne() ColorRGB {
	return ColorRGB{math.Min(c.R, 1), math.Min(c.G, 1), math.Min(c.B, 1)}
}

// Clamp limits each channel to [0, 1].
func (c ColorRGB) Clamp() ColorRGB {
	return ColorRGB{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// RGBA quantizes to 8 bits per channel by truncation, fully opaque.
func (c ColorRGB) RGBA() color.RGBA {
	c = c.Clamp()
	return color.RGBA{uint8(c.R * 255), uint8(c.G * 255), uint8(c.B * 255), 255}
}

// FromRGBA converts an 8-bit color to floating point, dropping alpha.
func FromRGBA(c color.RGBA) ColorRGB {
	return ColorRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Backgrounds and debug colors
var (
	// BackgroundSoftware is the clear color of the software path.
	BackgroundSoftware = Gray(0.39)
	// BackgroundUniform is the shared clear color when the uniform
	// background toggle is on.
	BackgroundUniform = Gray(0.1)
	// BoundingBoxColor marks covered bounding boxes in debug mode.
	BoundingBoxColor = color.RGBA{255, 255, 255, 255}
)

func color8(r, g, b, a uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
