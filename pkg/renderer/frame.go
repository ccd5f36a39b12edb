package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-raycaster/pkg/core"
)

// Frame is a rendered image as linear colors, row-major with the top row first
type Frame struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the color of pixel (x, y), with y = 0 at the top
func (f *Frame) At(x, y int) core.Color {
	return f.Pixels[y*f.Width+x]
}

// RGB8 returns the pixels as a flat sequence of 8-bit RGB triples
func (f *Frame) RGB8() []byte {
	buf := make([]byte, 0, len(f.Pixels)*3)
	for _, c := range f.Pixels {
		r, g, b := c.RGB8()
		buf = append(buf, r, g, b)
	}
	return buf
}

// Image converts the frame to an opaque RGBA image
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, c := range f.Pixels {
		r, g, b := c.RGB8()
		img.SetRGBA(i%f.Width, i/f.Width, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return img
}
