//go:build !single

package core

import "github.com/go-gl/mathgl/mgl64"

// Scalar is the floating-point precision used by all geometry, camera and
// shading math. Build with the "single" tag to switch to float32.
type Scalar = float64

// Epsilon is the comparison tolerance for the active precision.
const Epsilon Scalar = 1e-9

// Quat is a rotation quaternion (W + V).
type Quat = mgl64.Quat

// Mat4 is a column-major homogeneous 4x4 matrix.
type Mat4 = mgl64.Mat4

type mglVec3 = mgl64.Vec3

func quatIdent() Quat                            { return mgl64.QuatIdent() }
func quatRotate(angle Scalar, axis mglVec3) Quat { return mgl64.QuatRotate(angle, axis) }
func mat4ToQuat(m Mat4) Quat                     { return mgl64.Mat4ToQuat(m) }
func translate3D(x, y, z Scalar) Mat4            { return mgl64.Translate3D(x, y, z) }
