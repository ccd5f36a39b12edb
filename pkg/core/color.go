package core

import "math"

// Color is a linear RGB triple. Channels are conventionally in [0,1]
// but are not bounded until clamped.
type Color struct {
	R, G, B Scalar
}

// Black is the zero color.
var Black = Color{}

// NewColor creates a new Color
func NewColor(r, g, b Scalar) Color {
	return Color{R: r, G: g, B: b}
}

// Gray returns a color with all three channels set to a
func Gray(a Scalar) Color {
	return Color{a, a, a}
}

// FromVec3 reinterprets a vector as a color
func FromVec3(v Vec3) Color {
	return Color{v.X, v.Y, v.Z}
}

// FromVec3Clamped reinterprets a vector as a color clamped to [0,1]
func FromVec3Clamped(v Vec3) Color {
	return FromVec3(v).Clamped()
}

// FromRGB8 converts 8-bit channels to a color in [0,1]
func FromRGB8(r, g, b uint8) Color {
	return Color{Scalar(r) / 255, Scalar(g) / 255, Scalar(b) / 255}
}

// Add returns the channel-wise sum
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the channel-wise difference
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply scales every channel by s
func (c Color) Multiply(s Scalar) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// MultiplyColor returns the channel-wise product
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Divide divides every channel by s
func (c Color) Divide(s Scalar) Color {
	return Color{c.R / s, c.G / s, c.B / s}
}

// DivideColor returns the channel-wise quotient
func (c Color) DivideColor(other Color) Color {
	return Color{c.R / other.R, c.G / other.G, c.B / other.B}
}

// Mix linearly interpolates from c (alpha=0) to other (alpha=1)
func (c Color) Mix(other Color, alpha Scalar) Color {
	return c.Multiply(1 - alpha).Add(other.Multiply(alpha))
}

// Clamped returns the color with every channel clamped to [0,1]
func (c Color) Clamped() Color {
	return Color{Clamp(c.R, 0, 1), Clamp(c.G, 0, 1), Clamp(c.B, 0, 1)}
}

// IsFinite reports whether no channel is NaN or infinite
func (c Color) IsFinite() bool {
	return IsFinite(c.R) && IsFinite(c.G) && IsFinite(c.B)
}

// Luminance returns the Rec. 709 relative luminance
func (c Color) Luminance() Scalar {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// RGB8 converts the color to 8-bit channels: round(clamp(c,0,1) * 255)
func (c Color) RGB8() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

func toByte(channel Scalar) uint8 {
	return uint8(math.Round(float64(Clamp(channel, 0, 1)) * 255))
}
