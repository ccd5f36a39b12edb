package core

import "math"

// Pi at the active precision.
const Pi Scalar = math.Pi

// Sqrt returns the square root of x.
func Sqrt(x Scalar) Scalar {
	return Scalar(math.Sqrt(float64(x)))
}

// Tan returns the tangent of the radian argument x.
func Tan(x Scalar) Scalar {
	return Scalar(math.Tan(float64(x)))
}

// Pow returns x**y.
func Pow(x, y Scalar) Scalar {
	return Scalar(math.Pow(float64(x), float64(y)))
}

// Abs returns the absolute value of x.
func Abs(x Scalar) Scalar {
	return Scalar(math.Abs(float64(x)))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi Scalar) Scalar {
	return max(lo, min(hi, x))
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x Scalar) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Radians converts degrees to radians.
func Radians(degrees Scalar) Scalar {
	return degrees * Pi / 180
}
