package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
	"go.uber.org/multierr"
)

func TestBuiltinScenes_RenderSomething(t *testing.T) {
	for _, info := range BuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Load(info.ID)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Fatal("Expected primitives")
			}
			if err := s.Resize(48, 27); err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			screen, err := s.NewScreen(renderer.WithStrategy(renderer.Sequential))
			if err != nil {
				t.Fatalf("NewScreen failed: %v", err)
			}
			_, stats := screen.Render(s.Camera, s.World)
			if stats.Hits == 0 {
				t.Error("Expected the camera to see the scene")
			}
		})
	}
}

func TestSphereCastScene(t *testing.T) {
	s, err := NewSphereCastScene()
	if err != nil {
		t.Fatalf("NewSphereCastScene failed: %v", err)
	}
	if s.Width != 1920 || s.Height != 1080 {
		t.Errorf("Expected 1920x1080, got %dx%d", s.Width, s.Height)
	}
	if s.Camera.Position() != core.NewVec3(0, 0, 2) {
		t.Errorf("Unexpected camera position %v", s.Camera.Position())
	}
	if !s.Camera.Direction().ApproxEqual(core.Forward, 1e-6) {
		t.Errorf("Expected camera looking down -Z, got %v", s.Camera.Direction())
	}
}

func TestScene_ResizeUpdatesAspect(t *testing.T) {
	s, _ := NewDefaultScene()
	if err := s.Resize(400, 400); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if s.Camera.Aspect() != 1 {
		t.Errorf("Expected aspect 1, got %v", s.Camera.Aspect())
	}
	if err := s.Resize(0, 10); !errors.Is(err, renderer.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestMaterialGridScene(t *testing.T) {
	s, err := NewMaterialGridScene()
	if err != nil {
		t.Fatalf("NewMaterialGridScene failed: %v", err)
	}
	if s.GetPrimitiveCount() != gridSize*gridSize {
		t.Errorf("Expected %d spheres, got %d", gridSize*gridSize, s.GetPrimitiveCount())
	}
	bounds, _ := s.World.Bounds()
	if !bounds.Center().ApproxEqual(core.Origin, 1e-6) {
		t.Errorf("Expected grid centered on the origin, got %v", bounds.Center())
	}
}

func TestOklchToRGB_InRange(t *testing.T) {
	for h := 0.0; h < 360; h += 30 {
		c := oklchToRGB(0.7, 0.15, h)
		if c != c.Clamped() {
			t.Errorf("Hue %v produced out of range color %v", h, c)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewFromDescription(t *testing.T) {
	desc := &loaders.SceneDescription{
		Camera: loaders.CameraDescription{
			Position: loaders.Vec3{0, 0, 5},
			LookAt:   &loaders.Vec3{0, 0, 0},
			FOV:      45,
		},
		Render: loaders.RenderDescription{
			Width:          200,
			Height:         100,
			LightDirection: &loaders.Vec3{0, 3, 0},
			Background:     &loaders.Vec3{0.1, 0.2, 0.3},
		},
		Materials: map[string]loaders.MaterialDescription{
			"shiny": {Preset: "gold", Roughness: ptr(0.05)},
			"matte": {Albedo: &loaders.Vec3{0.2, 0.4, 0.6}},
		},
		Spheres: []loaders.SphereDescription{
			{Center: loaders.Vec3{0, 0, 0}, Radius: 1, Material: "shiny"},
			{Center: loaders.Vec3{2, 0, 0}, Radius: 0.5, Material: "matte"},
			{Center: loaders.Vec3{-2, 0, 0}, Radius: 0.5},
		},
	}

	s, err := NewFromDescription("test", desc)
	if err != nil {
		t.Fatalf("NewFromDescription failed: %v", err)
	}

	if s.Width != 200 || s.Height != 100 || s.Camera.Aspect() != 2 {
		t.Errorf("Unexpected size %dx%d aspect %v", s.Width, s.Height, s.Camera.Aspect())
	}
	if s.LightDirection != core.Up {
		t.Errorf("Expected normalized light direction, got %v", s.LightDirection)
	}
	if s.Background != core.NewColor(0.1, 0.2, 0.3) {
		t.Errorf("Unexpected background %v", s.Background)
	}
	if !s.Camera.HasFixedYawAxis() {
		t.Error("Expected a fixed yaw axis by default")
	}

	hit, ok := s.World.Cast(core.NewRay(core.NewVec3(0, 0, 5), core.Forward))
	if !ok {
		t.Fatal("Expected the center sphere to be hit")
	}
	if hit.Material.Metallic != 1 || hit.Material.Roughness != 0.05 {
		t.Errorf("Expected gold with overridden roughness, got %v", hit.Material)
	}

	gold, _ := material.Preset("gold")
	if hit.Material.Albedo != gold.Albedo {
		t.Errorf("Expected preset albedo to be kept, got %v", hit.Material.Albedo)
	}
}

func TestNewFromDescription_Defaults(t *testing.T) {
	desc := &loaders.SceneDescription{
		Camera: loaders.CameraDescription{
			Position: loaders.Vec3{0, 0, 3},
			FreeYaw:  true,
		},
	}
	s, err := NewFromDescription("empty", desc)
	if err != nil {
		t.Fatalf("NewFromDescription failed: %v", err)
	}
	if s.Width != DefaultWidth || s.Height != DefaultHeight {
		t.Errorf("Expected default size, got %dx%d", s.Width, s.Height)
	}
	if s.Camera.HasFixedYawAxis() {
		t.Error("Expected free yaw")
	}
	if core.Abs(s.Camera.FOV()-core.Radians(DefaultFOV)) > 1e-6 {
		t.Errorf("Expected default fov, got %v", s.Camera.FOV())
	}
	if s.GetPrimitiveCount() != 0 {
		t.Errorf("Expected empty world, got %d primitives", s.GetPrimitiveCount())
	}
}

func TestNewFromDescription_FramesWorld(t *testing.T) {
	tests := []struct {
		name      string
		camera    loaders.CameraDescription
		direction core.Vec3
	}{
		{
			name:      "No look_at aims at the sphere center",
			camera:    loaders.CameraDescription{Position: loaders.Vec3{0, 0, 5}},
			direction: core.NewVec3(3, 0, -5).Normalize(),
		},
		{
			name:      "Explicit direction wins",
			camera:    loaders.CameraDescription{Position: loaders.Vec3{0, 0, 5}, Direction: &loaders.Vec3{0, 0, -1}},
			direction: core.Forward,
		},
		{
			name:      "Center straight below keeps orientation",
			camera:    loaders.CameraDescription{Position: loaders.Vec3{3, 8, 0}},
			direction: core.Forward,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := &loaders.SceneDescription{
				Camera: tt.camera,
				Spheres: []loaders.SphereDescription{
					{Center: loaders.Vec3{2, 0, 0}, Radius: 1},
					{Center: loaders.Vec3{4, 0, 0}, Radius: 1},
				},
			}
			s, err := NewFromDescription("framed", desc)
			if err != nil {
				t.Fatalf("NewFromDescription failed: %v", err)
			}
			if d := s.Camera.Direction(); !d.ApproxEqual(tt.direction, 1e-6) {
				t.Errorf("Expected direction %v, got %v", tt.direction, d)
			}
		})
	}
}

func TestScene_ExtentAndLogFields(t *testing.T) {
	s := newScene("extent", renderer.DefaultCamera(), 64, 36)
	if _, _, ok := s.Extent(); ok {
		t.Error("Expected no extent for an empty world")
	}
	if s.FrameWorld() {
		t.Error("Expected an empty world not to be framed")
	}
	if fields := s.LogFields(64, 36); len(fields) != 4 {
		t.Errorf("Expected 4 fields for an empty world, got %d", len(fields))
	}

	if err := s.AddSphere(core.NewVec3(0, 0, -4), 1, material.Default()); err != nil {
		t.Fatalf("AddSphere failed: %v", err)
	}
	center, radius, ok := s.Extent()
	if !ok {
		t.Fatal("Expected an extent")
	}
	if center != core.NewVec3(0, 0, -4) {
		t.Errorf("Expected center (0,0,-4), got %v", center)
	}
	if core.Abs(radius-core.Sqrt(3)) > 1e-6 {
		t.Errorf("Expected radius sqrt(3), got %v", radius)
	}
	if !s.FrameWorld() {
		t.Error("Expected the world to be framed")
	}

	fields := s.LogFields(64, 36)
	if len(fields) != 6 || fields[4].Key != "center" || fields[5].Key != "radius" {
		t.Errorf("Expected center and radius fields, got %v", fields)
	}
}

func TestNewFromDescription_ReportsAllErrors(t *testing.T) {
	desc := &loaders.SceneDescription{
		Camera: loaders.CameraDescription{
			Position: loaders.Vec3{0, 0, 3},
			FOV:      200,
		},
		Materials: map[string]loaders.MaterialDescription{
			"bad": {Roughness: ptr(2.0)},
		},
		Spheres: []loaders.SphereDescription{
			{Radius: -1},
			{Radius: 1, Material: "missing"},
			{Radius: 1, Material: "bad"},
		},
	}

	_, err := NewFromDescription("broken", desc)
	if err == nil {
		t.Fatal("Expected error")
	}

	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Errorf("Expected 4 errors, got %d: %v", len(errs), err)
	}
	if !errors.Is(err, renderer.ErrInvalidFOV) {
		t.Error("Expected invalid fov error")
	}
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Error("Expected unknown material error")
	}
	if !errors.Is(err, material.ErrInvalidMaterial) {
		t.Error("Expected invalid material error")
	}
	if !strings.Contains(err.Error(), "sphere 0") {
		t.Errorf("Expected sphere index in message, got %v", err)
	}
}
