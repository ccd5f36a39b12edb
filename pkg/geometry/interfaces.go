package geometry

import "github.com/df07/go-raycaster/pkg/core"

// Primitive is any shape that can be intersected by a ray.
//
// NearestIntersection returns the closest hit at a non-negative distance
// along the ray. The ray direction must be unit length; this is not checked.
type Primitive interface {
	NearestIntersection(ray core.Ray) (Hit, bool)
	BoundingBox() AABB
}
