package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Hit describes a ray-primitive intersection
type Hit struct {
	Distance core.Scalar        // Distance along the ray, always >= 0
	Normal   core.Vec3          // Unit outward surface normal
	Material *material.Material // Shared with the primitive that was hit
}

// Point returns the world-space hit location for the ray that produced it
func (h Hit) Point(ray core.Ray) core.Vec3 {
	return ray.At(h.Distance)
}
