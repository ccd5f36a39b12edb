package geometry

import "github.com/df07/go-raycaster/pkg/core"

// World is an unordered collection of primitives resolved by linear scan
type World struct {
	primitives []Primitive
}

// NewWorld creates a world containing the given primitives
func NewWorld(primitives ...Primitive) *World {
	w := &World{}
	for _, p := range primitives {
		w.Add(p)
	}
	return w
}

// Add appends a primitive. Nil primitives are ignored.
func (w *World) Add(p Primitive) {
	if p == nil {
		return
	}
	w.primitives = append(w.primitives, p)
}

// Len returns the number of primitives
func (w *World) Len() int {
	return len(w.primitives)
}

// Primitives returns a copy of the primitive list
func (w *World) Primitives() []Primitive {
	return append([]Primitive(nil), w.primitives...)
}

// Bounds returns the box enclosing every primitive, or false for an empty world
func (w *World) Bounds() (AABB, bool) {
	if len(w.primitives) == 0 {
		return AABB{}, false
	}
	box := w.primitives[0].BoundingBox()
	for _, p := range w.primitives[1:] {
		box = box.Union(p.BoundingBox())
	}
	return box, true
}

// Cast returns the nearest hit across all primitives. On equal distances the
// primitive added first wins.
func (w *World) Cast(ray core.Ray) (Hit, bool) {
	var nearest Hit
	found := false
	for _, p := range w.primitives {
		hit, ok := p.NearestIntersection(ray)
		if !ok {
			continue
		}
		if !found || hit.Distance < nearest.Distance {
			nearest = hit
			found = true
		}
	}
	return nearest, found
}
