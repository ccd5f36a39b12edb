package scene

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// builtinScene pairs listing metadata with a constructor
type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "spherecast",
			Name:        "Sphere Cast",
			DisplayName: "Sphere Cast",
			Description: "A single unit sphere seen from two units away",
		},
		build: NewSphereCastScene,
	},
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Metal and dielectric spheres resting on a large ground sphere",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "material-grid",
			Name:        "Material Grid",
			DisplayName: "Material Grid",
			Description: "Roughness by metallic chart of colored spheres",
		},
		build: NewMaterialGridScene,
	},
}

// NewSphereCastScene renders a unit sphere at the origin from (0,0,2) at 1920x1080
func NewSphereCastScene() (*Scene, error) {
	camera, err := renderer.NewFPSCamera(core.NewVec3(0, 0, 2), core.QuatIdentity(), core.Radians(60), 16.0/9.0)
	if err != nil {
		return nil, err
	}

	s := newScene("spherecast", camera, 1920, 1080)
	if err := s.AddSphere(core.Origin, 1, material.Default()); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene() (*Scene, error) {
	camera, err := renderer.NewFPSCamera(core.NewVec3(0, 0.75, 3), core.QuatIdentity(), core.Radians(40), 16.0/9.0)
	if err != nil {
		return nil, err
	}
	if err := camera.LookAt(core.NewVec3(0, 0.5, -1)); err != nil {
		return nil, err
	}

	s := newScene("default", camera, 800, 450)
	s.Background = core.NewColor(0.05, 0.07, 0.1)

	ground, err := material.NewMaterial(0.9, 0, core.NewColor(0.48, 0.48, 0))
	if err != nil {
		return nil, err
	}
	blue, err := material.NewMaterial(0.4, 0, core.NewColor(0.1, 0.2, 0.5))
	if err != nil {
		return nil, err
	}
	gold, err := material.Preset("gold")
	if err != nil {
		return nil, err
	}
	chrome, err := material.Preset("chrome")
	if err != nil {
		return nil, err
	}
	plastic, err := material.Preset("plastic")
	if err != nil {
		return nil, err
	}

	spheres := []struct {
		center core.Vec3
		radius core.Scalar
		mat    *material.Material
	}{
		{core.NewVec3(0, -100, -1), 100, ground},
		{core.NewVec3(0, 0.5, -1), 0.5, blue},
		{core.NewVec3(-1, 0.5, -1), 0.5, gold},
		{core.NewVec3(1, 0.5, -1), 0.5, chrome},
		{core.NewVec3(0.45, 0.15, -0.2), 0.15, plastic},
	}
	for _, sp := range spheres {
		if err := s.AddSphere(sp.center, sp.radius, sp.mat); err != nil {
			return nil, err
		}
	}
	return s, nil
}
