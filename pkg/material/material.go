package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-raycaster/pkg/core"
	"go.uber.org/multierr"
)

// ErrInvalidMaterial is wrapped by every material validation error
var ErrInvalidMaterial = errors.New("invalid material")

// Material is a physically-based surface description evaluated with a
// Cook-Torrance microfacet BRDF. A Material is immutable once built and is
// shared by pointer between every primitive that uses it.
type Material struct {
	Roughness     core.Scalar // 0 = perfectly smooth, 1 = fully rough
	Metallic      core.Scalar // 0 = dielectric, 1 = metal
	Albedo        core.Color  // Base surface color
	Reflectance   core.Color
	Transmittance core.Color
	IOR           core.Scalar // Index of refraction of the medium
	FresnelIOR    core.Scalar // Index used to derive base reflectance F0
}

// Option configures optional material fields
type Option func(*Material)

// WithReflectance sets the reflectance color
func WithReflectance(c core.Color) Option {
	return func(m *Material) { m.Reflectance = c }
}

// WithTransmittance sets the transmittance color
func WithTransmittance(c core.Color) Option {
	return func(m *Material) { m.Transmittance = c }
}

// WithIOR sets the index of refraction
func WithIOR(ior core.Scalar) Option {
	return func(m *Material) { m.IOR = ior }
}

// WithFresnelIOR sets the index used for the Fresnel base reflectance
func WithFresnelIOR(ior core.Scalar) Option {
	return func(m *Material) { m.FresnelIOR = ior }
}

// NewMaterial creates a validated material
func NewMaterial(roughness, metallic core.Scalar, albedo core.Color, opts ...Option) (*Material, error) {
	m := &Material{
		Roughness:     roughness,
		Metallic:      metallic,
		Albedo:        albedo,
		Reflectance:   core.Gray(1),
		Transmittance: core.Black,
		IOR:           1.0,
		FresnelIOR:    1.5,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Default returns a mid-rough gray dielectric
func Default() *Material {
	return &Material{
		Roughness:     0.5,
		Metallic:      0,
		Albedo:        core.Gray(0.8),
		Reflectance:   core.Gray(1),
		Transmittance: core.Black,
		IOR:           1.0,
		FresnelIOR:    1.5,
	}
}

// Validate reports every out-of-range field
func (m *Material) Validate() error {
	var err error
	if !inUnitRange(m.Roughness) {
		err = multierr.Append(err, fmt.Errorf("%w: roughness %v outside [0,1]", ErrInvalidMaterial, m.Roughness))
	}
	if !inUnitRange(m.Metallic) {
		err = multierr.Append(err, fmt.Errorf("%w: metallic %v outside [0,1]", ErrInvalidMaterial, m.Metallic))
	}
	if !nonNegative(m.Albedo) {
		err = multierr.Append(err, fmt.Errorf("%w: albedo %v must be finite and non-negative", ErrInvalidMaterial, m.Albedo))
	}
	if !nonNegative(m.Reflectance) {
		err = multierr.Append(err, fmt.Errorf("%w: reflectance %v must be finite and non-negative", ErrInvalidMaterial, m.Reflectance))
	}
	if !nonNegative(m.Transmittance) {
		err = multierr.Append(err, fmt.Errorf("%w: transmittance %v must be finite and non-negative", ErrInvalidMaterial, m.Transmittance))
	}
	if !(m.IOR > 0) || !core.IsFinite(m.IOR) {
		err = multierr.Append(err, fmt.Errorf("%w: ior %v must be positive", ErrInvalidMaterial, m.IOR))
	}
	if !(m.FresnelIOR > 0) || !core.IsFinite(m.FresnelIOR) {
		err = multierr.Append(err, fmt.Errorf("%w: fresnel ior %v must be positive", ErrInvalidMaterial, m.FresnelIOR))
	}
	return err
}

// BaseReflectance returns F0: the dielectric reflectance at normal incidence
// blended toward the albedo by the metallic factor
func (m *Material) BaseReflectance() core.Color {
	r := (1 - m.FresnelIOR) / (1 + m.FresnelIOR)
	return core.Gray(r*r).Mix(m.Albedo, m.Metallic)
}

func (m *Material) String() string {
	return fmt.Sprintf("Material{roughness=%.3g metallic=%.3g albedo=(%.3g,%.3g,%.3g)}",
		m.Roughness, m.Metallic, m.Albedo.R, m.Albedo.G, m.Albedo.B)
}

func inUnitRange(v core.Scalar) bool {
	return v >= 0 && v <= 1
}

func nonNegative(c core.Color) bool {
	return c.IsFinite() && c.R >= 0 && c.G >= 0 && c.B >= 0
}
