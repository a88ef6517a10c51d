package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/taigrr/ember/pkg/math3d"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Sampler looks up texture colors at UV coordinates. UVs outside [0,1]
// are clamped; V = 0 is the top row.
type Sampler interface {
	SampleRGB(uv math3d.Vec2) ColorRGB
	SampleRGBA(uv math3d.Vec2) (ColorRGB, float64)
}

// Texture is a nearest-neighbor sampled image with straight
// (non-premultiplied) alpha.
type Texture struct {
	Width  int
	Height int
	Pixels []color.NRGBA // Row-major pixel data
}

var _ Sampler = (*Texture)(nil)

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]color.NRGBA, width*height),
	}
}

// NewSolidTexture creates a 1x1 texture.
func NewSolidTexture(c color.NRGBA) *Texture {
	tex := NewTexture(1, 1)
	tex.Pixels[0] = c
	return tex
}

// NewFlatNormalTexture creates a normal map that leaves normals unchanged.
func NewFlatNormalTexture() *Texture {
	return NewSolidTexture(color.NRGBA{128, 128, 255, 255})
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 color.NRGBA) *Texture {
	tex := NewTexture(width, height)
	checkSize = max(checkSize, 1)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewVerticalGradientTexture blends from top to bottom, alpha included.
func NewVerticalGradientTexture(width, height int, top, bottom color.NRGBA) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		c := color.NRGBA{
			R: lerp8(top.R, bottom.R, t),
			G: lerp8(top.G, bottom.G, t),
			B: lerp8(top.B, bottom.B, t),
			A: lerp8(top.A, bottom.A, t),
		}
		for x := range width {
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// LoadTexture loads a texture from a PNG, JPEG, BMP, TIFF or WebP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, xdraw.Src)
	}

	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			tex.Pixels[y*tex.Width+x] = nrgba.NRGBAAt(x, y)
		}
	}
	return tex
}

// Resized returns a copy scaled to width x height with Catmull-Rom
// filtering.
func (t *Texture) Resized(width, height int) *Texture {
	src := t.image()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return TextureFromImage(dst)
}

func (t *Texture) image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		img.SetNRGBA(i%t.Width, i/t.Width, c)
	}
	return img
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// texel returns the nearest texel to uv after clamping.
func (t *Texture) texel(uv math3d.Vec2) color.NRGBA {
	if len(t.Pixels) == 0 {
		return color.NRGBA{}
	}
	u := math3d.Saturate(uv.X)
	v := math3d.Saturate(uv.Y)

	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// SampleRGB returns the color at uv with channels in [0, 1].
func (t *Texture) SampleRGB(uv math3d.Vec2) ColorRGB {
	c := t.texel(uv)
	return ColorRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// SampleRGBA returns the color and alpha at uv, all in [0, 1].
func (t *Texture) SampleRGBA(uv math3d.Vec2) (ColorRGB, float64) {
	c := t.texel(uv)
	return ColorRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}, float64(c.A) / 255
}
