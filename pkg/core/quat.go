package core

import "errors"

// ErrDegenerateDirection is returned when a look direction is zero or
// parallel to the requested up vector.
var ErrDegenerateDirection = errors.New("degenerate look direction")

// QuatIdentity returns the identity rotation
func QuatIdentity() Quat {
	return quatIdent()
}

// QuatAxisAngle returns a counterclockwise rotation of angle radians about axis.
// The axis is normalized first.
func QuatAxisAngle(angle Scalar, axis Vec3) Quat {
	return quatRotate(angle, axis.Normalize().mgl()).Normalize()
}

// RotateVec rotates v by the quaternion q
func RotateVec(q Quat, v Vec3) Vec3 {
	return fromMGL(q.Rotate(v.mgl()))
}

// QuatToMat4 returns the homogeneous rotation matrix of q
func QuatToMat4(q Quat) Mat4 {
	return q.Mat4()
}

// TranslateMat4 returns m multiplied by a translation of v (m · T(v))
func TranslateMat4(m Mat4, v Vec3) Mat4 {
	return m.Mul4(translate3D(v.X, v.Y, v.Z))
}

// MatColumn returns the xyz part of column i of m
func MatColumn(m Mat4, i int) Vec3 {
	return fromMGL(m.Col(i).Vec3())
}

// QuatLookRotation returns the orientation whose Forward axis points along dir
// and whose Up axis lies in the plane spanned by dir and up.
func QuatLookRotation(dir, up Vec3) (Quat, error) {
	forward := dir.Normalize()
	if forward.IsZero() {
		return QuatIdentity(), ErrDegenerateDirection
	}
	right := forward.Cross(up)
	if right.Length() < Epsilon {
		return QuatIdentity(), ErrDegenerateDirection
	}
	right = right.Normalize()
	trueUp := right.Cross(forward)
	back := forward.Negate()

	basis := Mat4{
		right.X, right.Y, right.Z, 0,
		trueUp.X, trueUp.Y, trueUp.Z, 0,
		back.X, back.Y, back.Z, 0,
		0, 0, 0, 1,
	}
	return mat4ToQuat(basis).Normalize(), nil
}
