// Package config handles raycaster configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// ErrInvalidConfig marks a configuration value that fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all raycaster settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds scene and screen settings. Zero width or height keeps
// the scene's own resolution.
type RenderConfig struct {
	Scene          string      `yaml:"scene"`
	Width          int         `yaml:"width"`
	Height         int         `yaml:"height"`
	Strategy       string      `yaml:"strategy"`
	Workers        int         `yaml:"workers"`
	ChunkSize      int         `yaml:"chunk_size"`
	LightDirection *[3]float64 `yaml:"light_direction,omitempty"`
	Background     *[3]float64 `yaml:"background,omitempty"`
}

// OutputConfig holds image output settings
type OutputConfig struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format"`    // empty means derive from the path extension
	Compare   string `yaml:"compare"`   // reference image to diff against
	Tolerance int    `yaml:"tolerance"` // per-channel difference ignored by compare
}

// ServerConfig holds web front end settings.
type ServerConfig struct {
	Port      int `yaml:"port"`
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Scene:     "default",
			Strategy:  renderer.Parallel.String(),
			ChunkSize: renderer.DefaultChunkSize,
		},
		Output: OutputConfig{
			Path:      "output/render.png",
			Tolerance: 1,
		},
		Server: ServerConfig{
			Port:      8080,
			MaxWidth:  3840,
			MaxHeight: 2160,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var err error

	if c.Render.Width < 0 || c.Render.Height < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: render size %dx%d is negative", ErrInvalidConfig, c.Render.Width, c.Render.Height))
	}
	if _, perr := renderer.ParseStrategy(c.Render.Strategy); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %w", ErrInvalidConfig, perr))
	}
	if c.Render.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Render.Workers))
	}
	if c.Render.ChunkSize < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: chunk_size %d is negative", ErrInvalidConfig, c.Render.ChunkSize))
	}
	if d := c.Render.LightDirection; d != nil && d[0] == 0 && d[1] == 0 && d[2] == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %w", ErrInvalidConfig, renderer.ErrInvalidLight))
	}
	if c.Output.Format != "" {
		if _, ferr := loaders.ParseFormat(c.Output.Format); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %w", ErrInvalidConfig, ferr))
		}
	} else if c.Output.Path != "" {
		if _, ferr := loaders.FormatFromPath(c.Output.Path); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: output path: %w", ErrInvalidConfig, ferr))
		}
	}
	if c.Output.Tolerance < 0 || c.Output.Tolerance > 255 {
		err = multierr.Append(err, fmt.Errorf("%w: tolerance %d outside [0, 255]", ErrInvalidConfig, c.Output.Tolerance))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Server.Port))
	}
	if c.Server.MaxWidth <= 0 || c.Server.MaxHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: server max size %dx%d", ErrInvalidConfig, c.Server.MaxWidth, c.Server.MaxHeight))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Logging.Level))
	}

	return err
}

// ScreenOptions converts the render section into renderer options
func (c *Config) ScreenOptions() ([]renderer.Option, error) {
	strategy, err := renderer.ParseStrategy(c.Render.Strategy)
	if err != nil {
		return nil, err
	}

	opts := []renderer.Option{
		renderer.WithStrategy(strategy),
		renderer.WithWorkers(c.Render.Workers),
	}
	if c.Render.ChunkSize > 0 {
		opts = append(opts, renderer.WithChunkSize(c.Render.ChunkSize))
	}
	if d := c.Render.LightDirection; d != nil {
		opts = append(opts, renderer.WithLightDirection(toVec3(*d)))
	}
	if b := c.Render.Background; b != nil {
		opts = append(opts, renderer.WithBackground(core.FromVec3Clamped(toVec3(*b))))
	}
	return opts, nil
}

func toVec3(v [3]float64) core.Vec3 {
	return core.NewVec3(core.Scalar(v[0]), core.Scalar(v[1]), core.Scalar(v[2]))
}
