package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of pixels handed to a worker at a time
const DefaultChunkSize = 4096

var (
	// ErrInvalidSize is returned for a screen without positive dimensions
	ErrInvalidSize = errors.New("screen width and height must be positive")
	// ErrInvalidLight is returned for a zero-length light direction
	ErrInvalidLight = errors.New("light direction must have non-zero length")
	// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names
	ErrUnknownStrategy = errors.New("unknown render strategy")
)

// Strategy selects how pixels are scheduled
type Strategy int

const (
	// Sequential renders every pixel on the calling goroutine
	Sequential Strategy = iota
	// Parallel splits the pixels into chunks rendered by a worker pool
	Parallel
)

func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts "sequential" or "parallel" to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequential", "seq":
		return Sequential, nil
	case "parallel", "par", "":
		return Parallel, nil
	default:
		return Sequential, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Screen drives the per-pixel render loop
type Screen struct {
	Width  int
	Height int

	strategy   Strategy
	workers    int
	chunkSize  int
	light      core.Vec3
	background core.Color
	logger     *zap.Logger
}

// Option configures a Screen
type Option func(*Screen)

// WithStrategy selects sequential or parallel rendering
func WithStrategy(s Strategy) Option {
	return func(sc *Screen) { sc.strategy = s }
}

// WithWorkers sets the parallel worker count; non-positive means one per CPU
func WithWorkers(n int) Option {
	return func(sc *Screen) { sc.workers = n }
}

// WithChunkSize sets the number of pixels per parallel chunk
func WithChunkSize(n int) Option {
	return func(sc *Screen) { sc.chunkSize = n }
}

// WithLightDirection sets the direction toward the light. It is normalized.
func WithLightDirection(dir core.Vec3) Option {
	return func(sc *Screen) { sc.light = dir.Normalize() }
}

// WithBackground sets the color of pixels whose ray hits nothing
func WithBackground(c core.Color) Option {
	return func(sc *Screen) { sc.background = c }
}

// WithLogger sets the logger used for render progress
func WithLogger(logger *zap.Logger) Option {
	return func(sc *Screen) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// NewScreen creates a screen of width x height pixels
func NewScreen(width, height int, opts ...Option) (*Screen, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	s := &Screen{
		Width:      width,
		Height:     height,
		strategy:   Parallel,
		chunkSize:  DefaultChunkSize,
		light:      core.NewVec3(1, 1, 1).Normalize(),
		background: core.Black,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.light.IsZero() {
		return nil, ErrInvalidLight
	}
	if s.chunkSize <= 0 {
		s.chunkSize = DefaultChunkSize
	}
	return s, nil
}

// Strategy returns the configured execution strategy
func (s *Screen) Strategy() Strategy {
	return s.strategy
}

// LightDirection returns the unit direction toward the light
func (s *Screen) LightDirection() core.Vec3 {
	return s.light
}

// Render draws the world as seen by camera. Both strategies produce
// identical frames.
func (s *Screen) Render(camera *Camera, world *geometry.World) (*Frame, RenderStats) {
	frame, stats, _ := s.RenderContext(context.Background(), camera, world)
	return frame, stats
}

// RenderContext is Render with cancellation. The context is only checked
// between chunks; a canceled render returns the partial frame and ctx.Err().
func (s *Screen) RenderContext(ctx context.Context, camera *Camera, world *geometry.World) (*Frame, RenderStats, error) {
	gen := camera.Snapshot()
	frame := NewFrame(s.Width, s.Height)
	hits := make([]bool, len(frame.Pixels))
	chunks := NewChunks(len(frame.Pixels), s.chunkSize)

	workers := 1
	if s.strategy == Parallel {
		workers = NewWorkerPool(s.workers).NumWorkers()
	}

	s.logger.Debug("render started",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Stringer("strategy", s.strategy),
		zap.Int("workers", workers),
		zap.Int("chunks", len(chunks)),
		zap.Int("primitives", world.Len()),
	)

	start := time.Now()
	renderChunk := func(c Chunk) error {
		for i := c.Start; i < c.End; i++ {
			frame.Pixels[i], hits[i] = s.shadePixel(gen, world, i)
		}
		return nil
	}

	var err error
	switch s.strategy {
	case Parallel:
		err = NewWorkerPool(workers).Run(ctx, chunks, renderChunk)
	default:
		for _, c := range chunks {
			if err = ctx.Err(); err != nil {
				break
			}
			_ = renderChunk(c)
		}
	}
	elapsed := time.Since(start)

	stats := computeStats(frame, hits)
	stats.Strategy = s.strategy
	stats.Workers = workers
	stats.Chunks = len(chunks)
	stats.Elapsed = elapsed

	if err != nil {
		s.logger.Warn("render canceled", zap.Error(err), zap.Duration("elapsed", elapsed))
		return frame, stats, err
	}

	s.logger.Info("render finished",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Stringer("strategy", s.strategy),
		zap.Int("workers", workers),
		zap.Int("hits", stats.Hits),
		zap.Float64("coverage", stats.Coverage),
		zap.Duration("elapsed", elapsed),
	)
	return frame, stats, nil
}

// ScreenCoords maps a pixel to the normalized screen coordinates of its center.
// Row 0 is the top of the screen.
func (s *Screen) ScreenCoords(px, py int) (x, y core.Scalar) {
	dx := 2 / core.Scalar(s.Width)
	dy := 2 / core.Scalar(s.Height)
	x = -1 + dx/2 + core.Scalar(px)*dx
	y = 1 - dy/2 - core.Scalar(py)*dy
	return x, y
}

// PixelSample is the full result of tracing a single pixel
type PixelSample struct {
	X, Y  core.Scalar   // Normalized screen coordinates of the pixel center
	Ray   core.Ray      // Primary ray
	Hit   *geometry.Hit // Nil when the ray hits nothing
	Color core.Color    // Shaded color
}

// Trace shades the single pixel (px, py) with the same math as Render
func (s *Screen) Trace(camera *Camera, world *geometry.World, px, py int) PixelSample {
	x, y := s.ScreenCoords(px, py)
	ray := camera.PrimaryRay(x, y)
	sample := PixelSample{X: x, Y: y, Ray: ray}
	hit, ok := world.Cast(ray)
	if ok {
		sample.Hit = &hit
	}
	sample.Color = s.shade(ray, hit, ok)
	return sample
}

// shadePixel depends only on its index and read-only inputs
func (s *Screen) shadePixel(gen RayGenerator, world *geometry.World, i int) (core.Color, bool) {
	x, y := s.ScreenCoords(i%s.Width, i/s.Width)
	ray := gen.PrimaryRay(x, y)
	hit, ok := world.Cast(ray)
	return s.shade(ray, hit, ok), ok
}

func (s *Screen) shade(ray core.Ray, hit geometry.Hit, ok bool) core.Color {
	if !ok {
		return s.background
	}
	return hit.Material.Shade(ray, hit.Normal, s.light)
}
