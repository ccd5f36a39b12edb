package scene

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

const gridSize = 5

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(core.Scalar(r), core.Scalar(g), core.Scalar(blue)).Clamped()
}

// NewMaterialGridScene lays out a grid of spheres: roughness increases down
// the rows and metallic increases across the columns, each column a new hue
func NewMaterialGridScene() (*Scene, error) {
	camera, err := renderer.NewFPSCamera(core.NewVec3(0, 0, 16), core.QuatIdentity(), core.Radians(40), 1)
	if err != nil {
		return nil, err
	}

	s := newScene("material-grid", camera, 800, 800)
	s.LightDirection = core.NewVec3(-0.5, 1, 1).Normalize()
	s.Background = core.Gray(0.02)

	const spacing = 2.2
	offset := core.Scalar(spacing * (gridSize - 1) / 2.0)

	for row := 0; row < gridSize; row++ {
		roughness := core.Scalar(row) / (gridSize - 1)
		for col := 0; col < gridSize; col++ {
			metallic := core.Scalar(col) / (gridSize - 1)
			albedo := oklchToRGB(0.7, 0.15, float64(col)*360.0/gridSize)

			mat, err := material.NewMaterial(roughness, metallic, albedo)
			if err != nil {
				return nil, err
			}
			center := core.NewVec3(
				core.Scalar(col)*spacing-offset,
				offset-core.Scalar(row)*spacing,
				0,
			)
			if err := s.AddSphere(center, 0.9, mat); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
