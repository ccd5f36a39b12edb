package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

var (
	// ErrInvalidRadius is returned for spheres with a non-positive radius
	ErrInvalidRadius = errors.New("sphere radius must be positive")
	// ErrNilMaterial is returned when a primitive is built without a material
	ErrNilMaterial = errors.New("primitive material must not be nil")
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   core.Scalar
	Material *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius core.Scalar, mat *material.Material) (*Sphere, error) {
	if !(radius > 0) || !core.IsFinite(radius) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	if mat == nil {
		return nil, ErrNilMaterial
	}
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}, nil
}

// NearestIntersection returns the smallest non-negative root of the ray-sphere
// quadratic. Rays starting inside the sphere report the exit point.
func (s *Sphere) NearestIntersection(ray core.Ray) (Hit, bool) {
	// Work in sphere-local space; a = dot(d, d) = 1 for a unit direction
	origin := ray.Origin.Subtract(s.Center)
	b := origin.Dot(ray.Direction.Multiply(2))
	c := origin.LengthSquared() - s.Radius*s.Radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return Hit{}, false
	}

	sqrtD := core.Sqrt(discriminant)
	t1 := (-b + sqrtD) / 2
	t2 := (-b - sqrtD) / 2
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	var dist core.Scalar
	switch {
	case t1 >= 0:
		dist = t1
	case t2 >= 0:
		dist = t2
	default:
		// Sphere is entirely behind the ray origin
		return Hit{}, false
	}

	return Hit{
		Distance: dist,
		Normal:   ray.At(dist).Subtract(s.Center).Normalize(),
		Material: s.Material,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
