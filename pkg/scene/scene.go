package scene

import (
	"fmt"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
	"go.uber.org/zap"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	World          *geometry.World
	Width          int        // Default image width
	Height         int        // Default image height
	LightDirection core.Vec3  // Direction toward the light
	Background     core.Color // Color of rays that hit nothing

	// autoAspect keeps the camera aspect ratio equal to Width / Height
	autoAspect bool
}

func newScene(name string, camera *renderer.Camera, width, height int) *Scene {
	return &Scene{
		Name:           name,
		Camera:         camera,
		World:          geometry.NewWorld(),
		Width:          width,
		Height:         height,
		LightDirection: core.NewVec3(1, 1, 1).Normalize(),
		Background:     core.Black,
		autoAspect:     true,
	}
}

// AddSphere adds a sphere with the given material to the world
func (s *Scene) AddSphere(center core.Vec3, radius core.Scalar, mat *material.Material) error {
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	s.World.Add(sphere)
	return nil
}

// Resize changes the output size. The camera aspect ratio follows unless the
// scene fixed it explicitly.
func (s *Scene) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", renderer.ErrInvalidSize, width, height)
	}
	s.Width = width
	s.Height = height
	if s.autoAspect {
		return s.Camera.SetProjection(s.Camera.FOV(), core.Scalar(width)/core.Scalar(height))
	}
	return nil
}

// NewScreen creates a screen at the scene size with the scene light and
// background. Later options override them.
func (s *Scene) NewScreen(opts ...renderer.Option) (*renderer.Screen, error) {
	base := []renderer.Option{
		renderer.WithLightDirection(s.LightDirection),
		renderer.WithBackground(s.Background),
	}
	return renderer.NewScreen(s.Width, s.Height, append(base, opts...)...)
}

// Extent returns the center and enclosing radius of the world, or false when
// the world is empty
func (s *Scene) Extent() (core.Vec3, core.Scalar, bool) {
	bounds, ok := s.World.Bounds()
	if !ok {
		return core.Vec3{}, 0, false
	}
	return bounds.Center(), bounds.Radius(), true
}

// FrameWorld turns the camera toward the center of the world bounds and
// reports whether it did. An empty world, or a center the camera cannot look
// at, leaves the orientation as is.
func (s *Scene) FrameWorld() bool {
	center, _, ok := s.Extent()
	if !ok {
		return false
	}
	return s.Camera.LookAt(center) == nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// LogFields describes the scene for a render log entry at the given size
func (s *Scene) LogFields(width, height int) []zap.Field {
	fields := []zap.Field{
		zap.String("scene", s.Name),
		zap.Int("primitives", s.GetPrimitiveCount()),
		zap.Int("width", width),
		zap.Int("height", height),
	}
	if center, radius, ok := s.Extent(); ok {
		fields = append(fields,
			zap.Float64s("center", []float64{float64(center.X), float64(center.Y), float64(center.Z)}),
			zap.Float64("radius", float64(radius)))
	}
	return fields
}
