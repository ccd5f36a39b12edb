package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
	"go.uber.org/multierr"
)

// Defaults for fields a scene description leaves out
const (
	DefaultWidth  = 800
	DefaultHeight = 450
	DefaultFOV    = 60.0 // degrees
)

// ErrUnknownMaterial is returned when a sphere names a material that is not defined
var ErrUnknownMaterial = errors.New("unknown material")

// NewFromDescription builds a scene from a parsed description. Every problem
// in the description is reported, not just the first.
func NewFromDescription(name string, desc *loaders.SceneDescription) (*Scene, error) {
	var errs error

	width, height := desc.Render.Width, desc.Render.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if width < 0 || height < 0 {
		errs = multierr.Append(errs, fmt.Errorf("render: %w: %dx%d", renderer.ErrInvalidSize, width, height))
	}

	camera, err := buildCamera(desc.Camera, width, height)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("camera: %w", err))
	}

	materials := make(map[string]*material.Material, len(desc.Materials))
	for matName, md := range desc.Materials {
		m, err := buildMaterial(md)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("material %q: %w", matName, err))
			continue
		}
		materials[matName] = m
	}

	s := newScene(name, camera, width, height)
	s.autoAspect = desc.Camera.Aspect == 0

	if desc.Render.LightDirection != nil {
		s.LightDirection = toVec3(*desc.Render.LightDirection).Normalize()
		if s.LightDirection.IsZero() {
			errs = multierr.Append(errs, fmt.Errorf("render: %w", renderer.ErrInvalidLight))
		}
	}
	if desc.Render.Background != nil {
		s.Background = core.FromVec3(toVec3(*desc.Render.Background))
	}

	defaultMaterial := material.Default()
	for i, sd := range desc.Spheres {
		mat := defaultMaterial
		if sd.Material != "" {
			m, ok := materials[sd.Material]
			if !ok {
				if _, defined := desc.Materials[sd.Material]; !defined {
					errs = multierr.Append(errs, fmt.Errorf("sphere %d: %w: %q", i, ErrUnknownMaterial, sd.Material))
				}
				continue
			}
			mat = m
		}
		if err := s.AddSphere(toVec3(sd.Center), core.Scalar(sd.Radius), mat); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sphere %d: %w", i, err))
		}
	}

	if errs != nil {
		return nil, errs
	}
	if desc.Camera.LookAt == nil && desc.Camera.Direction == nil {
		s.FrameWorld()
	}
	return s, nil
}

func buildCamera(cd loaders.CameraDescription, width, height int) (*renderer.Camera, error) {
	fov := cd.FOV
	if fov == 0 {
		fov = DefaultFOV
	}
	aspect := core.Scalar(cd.Aspect)
	if aspect == 0 && height > 0 {
		aspect = core.Scalar(width) / core.Scalar(height)
	}

	var opts []renderer.CameraOption
	switch {
	case cd.FixedYawAxis != nil:
		opts = append(opts, renderer.WithFixedYawAxis(toVec3(*cd.FixedYawAxis)))
	case !cd.FreeYaw:
		opts = append(opts, renderer.WithFixedYawAxis(core.Up))
	}

	camera, err := renderer.NewCamera(toVec3(cd.Position), core.QuatIdentity(), core.Radians(core.Scalar(fov)), aspect, opts...)
	if err != nil {
		return nil, err
	}

	switch {
	case cd.LookAt != nil:
		err = camera.LookAt(toVec3(*cd.LookAt))
	case cd.Direction != nil:
		err = camera.SetDirection(toVec3(*cd.Direction))
	}
	if err != nil {
		return nil, err
	}
	return camera, nil
}

func buildMaterial(md loaders.MaterialDescription) (*material.Material, error) {
	base := material.Default()
	if md.Preset != "" {
		p, err := material.Preset(md.Preset)
		if err != nil {
			return nil, err
		}
		base = p
	}

	m := *base
	if md.Roughness != nil {
		m.Roughness = core.Scalar(*md.Roughness)
	}
	if md.Metallic != nil {
		m.Metallic = core.Scalar(*md.Metallic)
	}
	if md.Albedo != nil {
		m.Albedo = core.FromVec3(toVec3(*md.Albedo))
	}
	if md.Reflectance != nil {
		m.Reflectance = core.FromVec3(toVec3(*md.Reflectance))
	}
	if md.Transmittance != nil {
		m.Transmittance = core.FromVec3(toVec3(*md.Transmittance))
	}
	if md.IOR != nil {
		m.IOR = core.Scalar(*md.IOR)
	}
	if md.FresnelIOR != nil {
		m.FresnelIOR = core.Scalar(*md.FresnelIOR)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func toVec3(v loaders.Vec3) core.Vec3 {
	return core.NewVec3(core.Scalar(v[0]), core.Scalar(v[1]), core.Scalar(v[2]))
}
