package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-raycaster/pkg/core"
)

var (
	// ErrInvalidFOV is returned for a vertical field of view outside (0, pi)
	ErrInvalidFOV = errors.New("field of view must be in (0, pi) radians")
	// ErrInvalidAspect is returned for a non-positive aspect ratio
	ErrInvalidAspect = errors.New("aspect ratio must be positive")
	// ErrInvalidYawAxis is returned for a zero-length fixed yaw axis
	ErrInvalidYawAxis = errors.New("yaw axis must have non-zero length")
)

// viewCache holds the view matrix derived from position and orientation.
// When stale, matrix is the last value built and must not be read for axes.
type viewCache struct {
	matrix core.Mat4
	stale  bool
}

// Camera is a perspective camera positioned by a point and a unit quaternion.
// The camera looks down its local -Z axis with +Y up.
//
// Every mutator marks the cached view matrix stale; UpdateView rebuilds it.
// Axis queries stay correct in both states. A Camera must not be mutated while
// a render that uses it is running; renders take a Snapshot.
type Camera struct {
	position     core.Vec3
	orientation  core.Quat
	fixedYawAxis *core.Vec3
	view         viewCache
	fov          core.Scalar // Vertical field of view in radians
	aspect       core.Scalar // Width / height
}

// CameraOption configures optional camera settings
type CameraOption func(*Camera) error

// WithFixedYawAxis makes Yaw rotate about axis instead of the camera's local up
func WithFixedYawAxis(axis core.Vec3) CameraOption {
	return func(c *Camera) error {
		return c.SetYawAxis(&axis)
	}
}

// NewCamera creates a camera with a fresh view matrix
func NewCamera(position core.Vec3, orientation core.Quat, fov, aspect core.Scalar, opts ...CameraOption) (*Camera, error) {
	if err := validateProjection(fov, aspect); err != nil {
		return nil, err
	}
	c := &Camera{
		position:    position,
		orientation: orientation.Normalize(),
		fov:         fov,
		aspect:      aspect,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.view.stale = true
	c.UpdateView()
	return c, nil
}

// NewFPSCamera creates a camera that always yaws about the world up axis
func NewFPSCamera(position core.Vec3, orientation core.Quat, fov, aspect core.Scalar) (*Camera, error) {
	return NewCamera(position, orientation, fov, aspect, WithFixedYawAxis(core.Up))
}

// DefaultCamera returns a camera at the origin looking down -Z with a fixed
// up yaw axis, a 60 degree vertical field of view and a 16:9 aspect ratio
func DefaultCamera() *Camera {
	c, err := NewFPSCamera(core.Origin, core.QuatIdentity(), core.Radians(60), 16.0/9.0)
	if err != nil {
		panic(err)
	}
	return c
}

func validateProjection(fov, aspect core.Scalar) error {
	if !(fov > 0 && fov < core.Pi) {
		return fmt.Errorf("%w: got %v", ErrInvalidFOV, fov)
	}
	if !(aspect > 0) || !core.IsFinite(aspect) {
		return fmt.Errorf("%w: got %v", ErrInvalidAspect, aspect)
	}
	return nil
}

// PrimaryRay returns the ray through normalized screen coordinates (x, y) in
// [-1,1]x[-1,1], where (0,0) is the screen center and (-1,-1) the bottom left.
// It uses position and orientation directly, never the cached view matrix.
func (c *Camera) PrimaryRay(x, y core.Scalar) core.Ray {
	return c.Snapshot().PrimaryRay(x, y)
}

// Snapshot captures the camera state needed to generate primary rays
func (c *Camera) Snapshot() RayGenerator {
	return RayGenerator{
		position:    c.position,
		orientation: c.orientation,
		tanHalfFOV:  core.Tan(c.fov / 2),
		aspect:      c.aspect,
	}
}

// Position returns the camera position
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// Orientation returns the camera orientation
func (c *Camera) Orientation() core.Quat {
	return c.orientation
}

// FOV returns the vertical field of view in radians
func (c *Camera) FOV() core.Scalar {
	return c.fov
}

// Aspect returns the width / height ratio
func (c *Camera) Aspect() core.Scalar {
	return c.aspect
}

// SetProjection replaces the field of view and aspect ratio
func (c *Camera) SetProjection(fov, aspect core.Scalar) error {
	if err := validateProjection(fov, aspect); err != nil {
		return err
	}
	c.fov = fov
	c.aspect = aspect
	return nil
}

// SetPosition moves the camera to p
func (c *Camera) SetPosition(p core.Vec3) {
	c.position = p
	c.InvalidateView()
}

// MoveGlobal translates the camera by a world-space offset
func (c *Camera) MoveGlobal(offset core.Vec3) {
	c.SetPosition(c.position.Add(offset))
}

// MoveRelative translates the camera by an offset in its own local frame
func (c *Camera) MoveRelative(offset core.Vec3) {
	c.SetPosition(c.position.Add(core.RotateVec(c.orientation, offset)))
}

// SetOrientation replaces the orientation
func (c *Camera) SetOrientation(q core.Quat) {
	c.orientation = q.Normalize()
	c.InvalidateView()
}

// Rotate applies q on top of the current orientation
func (c *Camera) Rotate(q core.Quat) {
	c.SetOrientation(q.Mul(c.orientation))
}

// Pitch rotates counterclockwise by angle radians about the local right axis
func (c *Camera) Pitch(angle core.Scalar) {
	c.Rotate(core.QuatAxisAngle(angle, c.Right()))
}

// Yaw rotates counterclockwise by angle radians about the yaw axis
func (c *Camera) Yaw(angle core.Scalar) {
	c.Rotate(core.QuatAxisAngle(angle, c.YawAxis()))
}

// Roll rotates counterclockwise by angle radians about the view direction
func (c *Camera) Roll(angle core.Scalar) {
	c.Rotate(core.QuatAxisAngle(angle, c.Direction()))
}

// SetDirection points the camera along dir, keeping the yaw axis as up
func (c *Camera) SetDirection(dir core.Vec3) error {
	q, err := core.QuatLookRotation(dir, c.YawAxis())
	if err != nil {
		return fmt.Errorf("set direction %v: %w", dir, err)
	}
	c.SetOrientation(q)
	return nil
}

// LookAt points the camera at target
func (c *Camera) LookAt(target core.Vec3) error {
	return c.SetDirection(target.Subtract(c.position))
}

// YawAxis returns the fixed yaw axis if one is set, otherwise the local up axis
func (c *Camera) YawAxis() core.Vec3 {
	if c.fixedYawAxis != nil {
		return *c.fixedYawAxis
	}
	return c.Up()
}

// SetYawAxis fixes the yaw axis, or releases it when axis is nil
func (c *Camera) SetYawAxis(axis *core.Vec3) error {
	if axis == nil {
		c.fixedYawAxis = nil
		return nil
	}
	if axis.Length() < core.Epsilon {
		return ErrInvalidYawAxis
	}
	normalized := axis.Normalize()
	c.fixedYawAxis = &normalized
	return nil
}

// HasFixedYawAxis reports whether yaw uses a fixed axis
func (c *Camera) HasFixedYawAxis() bool {
	return c.fixedYawAxis != nil
}

// InvalidateView marks the cached view matrix stale
func (c *Camera) InvalidateView() {
	c.view.stale = true
}

// IsViewStale reports whether the view matrix needs rebuilding
func (c *Camera) IsViewStale() bool {
	return c.view.stale
}

// UpdateView rebuilds the view matrix if it is stale
func (c *Camera) UpdateView() {
	if !c.view.stale {
		return
	}
	c.view.matrix = core.TranslateMat4(core.QuatToMat4(c.orientation), c.position)
	c.view.stale = false
}

// View returns the view matrix, rebuilding it first if needed
func (c *Camera) View() core.Mat4 {
	c.UpdateView()
	return c.view.matrix
}

// Right returns the camera's local +X axis in world space
func (c *Camera) Right() core.Vec3 {
	if !c.view.stale {
		return core.MatColumn(c.view.matrix, 0)
	}
	return core.RotateVec(c.orientation, core.Right)
}

// Up returns the camera's local +Y axis in world space
func (c *Camera) Up() core.Vec3 {
	if !c.view.stale {
		return core.MatColumn(c.view.matrix, 1)
	}
	return core.RotateVec(c.orientation, core.Up)
}

// Direction returns the camera's viewing direction (local -Z) in world space
func (c *Camera) Direction() core.Vec3 {
	if !c.view.stale {
		return core.MatColumn(c.view.matrix, 2).Negate()
	}
	return core.RotateVec(c.orientation, core.Forward)
}

// RayGenerator is an immutable copy of the camera state used by render
// workers. It is safe for concurrent use.
type RayGenerator struct {
	position    core.Vec3
	orientation core.Quat
	tanHalfFOV  core.Scalar
	aspect      core.Scalar
}

// PrimaryRay returns the ray through normalized screen coordinates (x, y)
func (g RayGenerator) PrimaryRay(x, y core.Scalar) core.Ray {
	local := core.NewVec3(x*g.aspect*g.tanHalfFOV, y*g.tanHalfFOV, -1).Normalize()
	return core.NewRay(g.position, core.RotateVec(g.orientation, local))
}
