package material

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-raycaster/pkg/core"
)

// ErrUnknownPreset is returned by Preset for names that are not registered
var ErrUnknownPreset = errors.New("unknown material preset")

// Named materials: two dielectrics (plastic, rubber) and four metals whose
// albedo is the measured base color in linear RGB
var presets = map[string]Material{
	"plastic": {Roughness: 0.3, Metallic: 0, Albedo: core.NewColor(0.8, 0.1, 0.1)},
	"rubber":  {Roughness: 0.9, Metallic: 0, Albedo: core.Gray(0.15)},
	"gold":    {Roughness: 0.25, Metallic: 1, Albedo: core.NewColor(1.0, 0.766, 0.336)},
	"silver":  {Roughness: 0.2, Metallic: 1, Albedo: core.NewColor(0.972, 0.960, 0.915)},
	"copper":  {Roughness: 0.3, Metallic: 1, Albedo: core.NewColor(0.955, 0.637, 0.538)},
	"chrome":  {Roughness: 0.05, Metallic: 1, Albedo: core.NewColor(0.550, 0.556, 0.554)},
}

// Preset returns a new material for a registered preset name
func Preset(name string) (*Material, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return NewMaterial(p.Roughness, p.Metallic, p.Albedo)
}

// PresetNames returns the registered preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
