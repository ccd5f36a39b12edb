package core

// Canonical world axes. The camera looks down Forward (-Z) with Up (+Y)
// and Right (+X), matching the OpenGL right-handed convention.
var (
	Origin   = Vec3{0, 0, 0}
	Right    = Vec3{1, 0, 0}
	Left     = Vec3{-1, 0, 0}
	Up       = Vec3{0, 1, 0}
	Down     = Vec3{0, -1, 0}
	Forward  = Vec3{0, 0, -1}
	Backward = Vec3{0, 0, 1}
)
