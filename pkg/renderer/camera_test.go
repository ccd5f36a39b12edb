package renderer

import (
	"errors"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
)

const tolerance core.Scalar = 1e-5

func assertVec(t *testing.T, label string, got, expected core.Vec3) {
	t.Helper()
	if !got.ApproxEqual(expected, tolerance) {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}

// axesBothWays reads the axes through the stale path and then the fresh path
func axesBothWays(c *Camera) (stale, fresh [3]core.Vec3) {
	c.InvalidateView()
	stale = [3]core.Vec3{c.Right(), c.Up(), c.Direction()}
	c.UpdateView()
	fresh = [3]core.Vec3{c.Right(), c.Up(), c.Direction()}
	return stale, fresh
}

func TestCamera_AxisConsistency(t *testing.T) {
	c := DefaultCamera()
	if c.IsViewStale() {
		t.Fatal("Expected fresh view after construction")
	}
	assertVec(t, "right", c.Right(), core.Right)
	assertVec(t, "up", c.Up(), core.Up)
	assertVec(t, "direction", c.Direction(), core.Forward)

	steps := []struct {
		name   string
		mutate func(*Camera)
	}{
		{"pitch", func(c *Camera) { c.Pitch(0.3) }},
		{"yaw", func(c *Camera) { c.Yaw(-1.2) }},
		{"roll", func(c *Camera) { c.Roll(2.5) }},
		{"move", func(c *Camera) { c.MoveRelative(core.NewVec3(1, 2, 3)) }},
		{"rotate", func(c *Camera) { c.Rotate(core.QuatAxisAngle(0.7, core.NewVec3(1, 1, 0))) }},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			step.mutate(c)
			if !c.IsViewStale() {
				t.Fatal("Expected mutator to mark the view stale")
			}
			stale, fresh := axesBothWays(c)
			for i := range stale {
				assertVec(t, "axis", fresh[i], stale[i])
			}
			// The axes stay orthonormal
			if core.Abs(fresh[0].Dot(fresh[1])) > tolerance || core.Abs(fresh[0].Dot(fresh[2])) > tolerance {
				t.Errorf("Axes not orthogonal: %v", fresh)
			}
			assertVec(t, "right x up", fresh[0].Cross(fresh[1]), fresh[2].Negate())
		})
	}
}

func TestCamera_FixedYawAxis(t *testing.T) {
	c := DefaultCamera()

	c.Pitch(-core.Pi / 2)
	assertVec(t, "direction after pitch", c.Direction(), core.Down)
	assertVec(t, "up after pitch", c.Up(), core.Forward)

	c.Yaw(core.Pi)
	c.UpdateView()

	assertVec(t, "yaw axis", c.YawAxis(), core.Up)
	assertVec(t, "right", c.Right(), core.Left)
	assertVec(t, "up", c.Up(), core.Backward)
	assertVec(t, "direction", c.Direction(), core.Down)
}

func TestCamera_FreeYawAxisTracksUp(t *testing.T) {
	c, err := NewCamera(core.Origin, core.QuatIdentity(), core.Radians(60), 16.0/9.0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.HasFixedYawAxis() {
		t.Fatal("Expected a free yaw axis")
	}

	c.Pitch(-core.Pi / 2)
	assertVec(t, "yaw axis after pitch", c.YawAxis(), core.Forward)

	c.Yaw(core.Pi)
	c.UpdateView()

	assertVec(t, "yaw axis", c.YawAxis(), c.Up())
	assertVec(t, "right", c.Right(), core.Left)
	assertVec(t, "up", c.Up(), core.Forward)
	assertVec(t, "direction", c.Direction(), core.Up)
}

func TestCamera_PrimaryRayCenter(t *testing.T) {
	c := DefaultCamera()
	ray := c.PrimaryRay(0, 0)
	assertVec(t, "origin", ray.Origin, c.Position())
	assertVec(t, "direction", ray.Direction, c.Direction())

	c.SetPosition(core.NewVec3(3, -1, 2))
	c.Yaw(0.8)
	c.Pitch(0.4)
	ray = c.PrimaryRay(0, 0)
	assertVec(t, "moved origin", ray.Origin, core.NewVec3(3, -1, 2))
	assertVec(t, "rotated direction", ray.Direction, c.Direction())
}

func TestCamera_PrimaryRayIgnoresStaleCache(t *testing.T) {
	c := DefaultCamera()
	c.Yaw(core.Pi / 2)
	if !c.IsViewStale() {
		t.Fatal("Expected stale view")
	}
	// Yawing left by 90 degrees turns -Z into -X
	assertVec(t, "direction", c.PrimaryRay(0, 0).Direction, core.Left)
}

func TestCamera_PrimaryRayCorners(t *testing.T) {
	fov := core.Radians(90)
	c, err := NewCamera(core.Origin, core.QuatIdentity(), fov, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		x, y     core.Scalar
		expected core.Vec3
	}{
		{"Top", 0, 1, core.NewVec3(0, 1, -1).Normalize()},
		{"Bottom left", -1, -1, core.NewVec3(-2, -1, -1).Normalize()},
		{"Right edge", 1, 0, core.NewVec3(2, 0, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec(t, "direction", c.PrimaryRay(tt.x, tt.y).Direction, tt.expected)
		})
	}
}

func TestCamera_SnapshotMatchesCamera(t *testing.T) {
	c := DefaultCamera()
	c.MoveGlobal(core.NewVec3(0.5, 0.25, 4))
	c.Roll(0.3)
	gen := c.Snapshot()

	for _, p := range [][2]core.Scalar{{0, 0}, {-1, 1}, {0.3, -0.7}} {
		if gen.PrimaryRay(p[0], p[1]) != c.PrimaryRay(p[0], p[1]) {
			t.Errorf("Snapshot ray differs at %v", p)
		}
	}

	c.Yaw(1)
	if gen.PrimaryRay(0, 0) == c.PrimaryRay(0, 0) {
		t.Error("Snapshot should not follow later camera changes")
	}
}

func TestCamera_ViewMatrix(t *testing.T) {
	c := DefaultCamera()
	c.SetPosition(core.NewVec3(1, 2, 3))
	c.Yaw(core.Pi / 2)

	m := c.View()
	if c.IsViewStale() {
		t.Fatal("View should rebuild the cache")
	}
	// Translation column holds R * position
	expected := core.RotateVec(c.Orientation(), core.NewVec3(1, 2, 3))
	assertVec(t, "translation", core.MatColumn(m, 3), expected)

	c.UpdateView()
	if c.View() != m {
		t.Error("UpdateView on a fresh cache should be a no-op")
	}
}

func TestCamera_LookAt(t *testing.T) {
	c := DefaultCamera()
	c.SetPosition(core.NewVec3(0, 0, 5))

	if err := c.LookAt(core.NewVec3(5, 0, 5)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertVec(t, "direction", c.Direction(), core.Right)
	assertVec(t, "up", c.Up(), core.Up)

	if err := c.SetDirection(core.NewVec3(0, 1, -1)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertVec(t, "direction", c.Direction(), core.NewVec3(0, 1, -1).Normalize())

	if err := c.LookAt(c.Position()); !errors.Is(err, core.ErrDegenerateDirection) {
		t.Errorf("Expected ErrDegenerateDirection, got %v", err)
	}
	if err := c.SetDirection(core.Up); !errors.Is(err, core.ErrDegenerateDirection) {
		t.Errorf("Expected ErrDegenerateDirection for direction along yaw axis, got %v", err)
	}
}

func TestNewCamera_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fov    core.Scalar
		aspect core.Scalar
		opts   []CameraOption
		err    error
	}{
		{"Zero FOV", 0, 1, nil, ErrInvalidFOV},
		{"Straight angle FOV", core.Pi, 1, nil, ErrInvalidFOV},
		{"Zero aspect", 1, 0, nil, ErrInvalidAspect},
		{"Negative aspect", 1, -2, nil, ErrInvalidAspect},
		{"Zero yaw axis", 1, 1, []CameraOption{WithFixedYawAxis(core.Origin)}, ErrInvalidYawAxis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCamera(core.Origin, core.QuatIdentity(), tt.fov, tt.aspect, tt.opts...)
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestCamera_SetYawAxis(t *testing.T) {
	c := DefaultCamera()
	axis := core.NewVec3(0, 0, 5)
	if err := c.SetYawAxis(&axis); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertVec(t, "normalized axis", c.YawAxis(), core.Backward)

	if err := c.SetYawAxis(nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.HasFixedYawAxis() {
		t.Error("Expected yaw axis to be released")
	}

	if err := c.SetProjection(0, 1); !errors.Is(err, ErrInvalidFOV) {
		t.Errorf("Expected ErrInvalidFOV, got %v", err)
	}
	if err := c.SetProjection(1, 1.5); err != nil || c.FOV() != 1 || c.Aspect() != 1.5 {
		t.Errorf("SetProjection failed: %v", err)
	}
}
