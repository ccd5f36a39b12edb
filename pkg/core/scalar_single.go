//go:build single

package core

import "github.com/go-gl/mathgl/mgl32"

// Scalar is the floating-point precision used by all geometry, camera and
// shading math. This file is selected by the "single" build tag.
type Scalar = float32

// Epsilon is the comparison tolerance for the active precision.
const Epsilon Scalar = 1e-6

// Quat is a rotation quaternion (W + V).
type Quat = mgl32.Quat

// Mat4 is a column-major homogeneous 4x4 matrix.
type Mat4 = mgl32.Mat4

type mglVec3 = mgl32.Vec3

func quatIdent() Quat                            { return mgl32.QuatIdent() }
func quatRotate(angle Scalar, axis mglVec3) Quat { return mgl32.QuatRotate(angle, axis) }
func mat4ToQuat(m Mat4) Quat                     { return mgl32.Mat4ToQuat(m) }
func translate3D(x, y, z Scalar) Mat4            { return mgl32.Translate3D(x, y, z) }
