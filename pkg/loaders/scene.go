package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScenePath is returned for scene files outside the allowed locations
var ErrInvalidScenePath = errors.New("invalid scene path")

// Vec3 is a YAML [x, y, z] triple
type Vec3 [3]float64

// SceneDescription is the parsed form of a YAML scene file
type SceneDescription struct {
	Camera    CameraDescription              `yaml:"camera"`
	Render    RenderDescription              `yaml:"render,omitempty"`
	Materials map[string]MaterialDescription `yaml:"materials,omitempty"`
	Spheres   []SphereDescription            `yaml:"spheres"`
}

// CameraDescription positions the camera. LookAt takes precedence over Direction.
// With neither set the camera turns toward the center of the spheres.
type CameraDescription struct {
	Position     Vec3    `yaml:"position"`
	LookAt       *Vec3   `yaml:"look_at,omitempty"`
	Direction    *Vec3   `yaml:"direction,omitempty"`
	FOV          float64 `yaml:"fov,omitempty"`    // Vertical field of view in degrees
	Aspect       float64 `yaml:"aspect,omitempty"` // Defaults to width / height
	FixedYawAxis *Vec3   `yaml:"fixed_yaw_axis,omitempty"`
	FreeYaw      bool    `yaml:"free_yaw,omitempty"` // Yaw about the local up axis
}

// RenderDescription holds per-scene render defaults
type RenderDescription struct {
	Width          int   `yaml:"width,omitempty"`
	Height         int   `yaml:"height,omitempty"`
	LightDirection *Vec3 `yaml:"light_direction,omitempty"`
	Background     *Vec3 `yaml:"background,omitempty"`
}

// MaterialDescription is either a preset, explicit values, or a preset with
// overrides. Unset fields keep the preset (or default material) value.
type MaterialDescription struct {
	Preset        string   `yaml:"preset,omitempty"`
	Roughness     *float64 `yaml:"roughness,omitempty"`
	Metallic      *float64 `yaml:"metallic,omitempty"`
	Albedo        *Vec3    `yaml:"albedo,omitempty"`
	Reflectance   *Vec3    `yaml:"reflectance,omitempty"`
	Transmittance *Vec3    `yaml:"transmittance,omitempty"`
	IOR           *float64 `yaml:"ior,omitempty"`
	FresnelIOR    *float64 `yaml:"fresnel_ior,omitempty"`
}

// SphereDescription places one sphere. An empty material uses the default.
type SphereDescription struct {
	Center   Vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material,omitempty"`
}

// ParseScene parses YAML scene content from an io.Reader. Unknown keys are errors.
func ParseScene(reader io.Reader) (*SceneDescription, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var desc SceneDescription
	if err := decoder.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene description")
		}
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return &desc, nil
}

// LoadScene loads and parses a YAML scene file
func LoadScene(filename string) (*SceneDescription, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	return ParseScene(file)
}

// MarshalScene encodes a description back to YAML
func MarshalScene(desc *SceneDescription) ([]byte, error) {
	return yaml.Marshal(desc)
}

// validateFilePath only admits .yaml files under a scenes/ directory or the
// temp directory. The path is cleaned first so "scenes/../x" is rejected.
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidScenePath)
	}
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("%w: null bytes not allowed", ErrInvalidScenePath)
	}

	cleanPath := filepath.ToSlash(filepath.Clean(filename))
	if len(cleanPath) > 512 {
		return fmt.Errorf("%w: maximum 512 characters allowed", ErrInvalidScenePath)
	}

	inScenes := strings.HasPrefix(cleanPath, "scenes/") || strings.Contains(cleanPath, "/scenes/")
	inTemp := strings.HasPrefix(cleanPath, filepath.ToSlash(os.TempDir()))
	if !inScenes && !inTemp {
		return fmt.Errorf("%w: file must be in a scenes/ directory", ErrInvalidScenePath)
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: only .yaml files are allowed", ErrInvalidScenePath)
	}
	return nil
}
