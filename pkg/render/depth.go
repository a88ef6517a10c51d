package render

import "math"

// DepthBuffer holds one depth value per pixel. It is sized once and
// cleared to +Inf at the start of every frame.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64 // Row-major, same layout as Framebuffer.Pixels
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Resize changes the dimensions and clears the buffer.
func (d *DepthBuffer) Resize(width, height int) {
	n := width * height
	if cap(d.Values) >= n {
		d.Values = d.Values[:n]
	} else {
		d.Values = make([]float64, n)
	}
	d.Width, d.Height = width, height
	d.Clear()
}

// Clear resets every value to +Inf.
func (d *DepthBuffer) Clear() {
	n := len(d.Values)
	if n == 0 {
		return
	}
	// Copy-doubling for faster clearing
	d.Values[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(d.Values[i:], d.Values[:i])
	}
}

// At returns the depth at (x, y), or +Inf when out of range.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return math.Inf(1)
	}
	return d.Values[y*d.Width+x]
}

// Set stores z at (x, y). Out of range writes are ignored.
func (d *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return
	}
	d.Values[y*d.Width+x] = z
}
