package material

import "github.com/df07/go-raycaster/pkg/core"

// minAlphaSq keeps the GGX distribution finite for perfectly smooth surfaces
const minAlphaSq core.Scalar = 1e-6

// Shade returns the radiance leaving the surface toward the ray origin, lit by a
// single directional light. normal and dirToLight must be unit vectors.
//
// Surfaces facing away from the light are black. The specular lobe is only
// evaluated when the viewer is on the same side as the normal, and every
// channel of the result is finite and within [0,1].
func (m *Material) Shade(ray core.Ray, normal, dirToLight core.Vec3) core.Color {
	noL := normal.Dot(dirToLight)
	if !(noL > 0) {
		return core.Black
	}

	viewDir := ray.Direction.Negate()
	noV := normal.Dot(viewDir)

	diffuse := m.Albedo.Multiply((1 - m.Metallic) / core.Pi)

	specular := core.Black
	if noV > 0 {
		half := dirToLight.Add(viewDir).Normalize()
		noH := normal.Dot(half)
		voH := core.Clamp(viewDir.Dot(half), 0, 1)

		d := DistributionGGX(noH, m.Roughness)
		g := GeometrySmith(noL, noV, m.Roughness)
		f := FresnelSchlick(voH, m.BaseReflectance())

		denominator := max(4*noL*noV, core.Epsilon)
		specular = f.Multiply(d * g / denominator)
	}

	radiance := diffuse.Add(specular).Multiply(core.Clamp(noL, 0, 1))
	return sanitize(radiance)
}

// DistributionGGX is the Trowbridge-Reitz normal distribution term D.
// Half vectors below the surface (noH <= 0) contribute nothing.
func DistributionGGX(noH, roughness core.Scalar) core.Scalar {
	if noH <= 0 {
		return 0
	}
	alpha := roughness * roughness
	alphaSq := max(alpha*alpha, minAlphaSq)
	t := noH*noH*(alphaSq-1) + 1
	return alphaSq / (core.Pi * t * t)
}

// GeometrySchlickGGX is the Schlick-GGX masking term for one direction
func GeometrySchlickGGX(noX, roughness core.Scalar) core.Scalar {
	k := (roughness + 1) * (roughness + 1) / 8
	return noX / (noX*(1-k) + k)
}

// GeometrySmith combines light and view masking into the separable G term
func GeometrySmith(noL, noV, roughness core.Scalar) core.Scalar {
	return GeometrySchlickGGX(noL, roughness) * GeometrySchlickGGX(noV, roughness)
}

// FresnelSchlick approximates Fresnel reflectance: F0 + (1-F0)(1-voH)^5
func FresnelSchlick(voH core.Scalar, f0 core.Color) core.Color {
	w := core.Pow(1-core.Clamp(voH, 0, 1), 5)
	return f0.Add(core.Gray(1).Subtract(f0).Multiply(w))
}

func sanitize(c core.Color) core.Color {
	return core.Color{R: finiteOrZero(c.R), G: finiteOrZero(c.G), B: finiteOrZero(c.B)}.Clamped()
}

func finiteOrZero(v core.Scalar) core.Scalar {
	if !core.IsFinite(v) {
		return 0
	}
	return v
}
