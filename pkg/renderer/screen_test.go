package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/material"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testWorld(t *testing.T) *geometry.World {
	t.Helper()
	gold, _ := material.Preset("gold")
	plastic, _ := material.Preset("plastic")

	specs := []struct {
		center core.Vec3
		radius core.Scalar
		mat    *material.Material
	}{
		{core.Origin, 1, material.Default()},
		{core.NewVec3(1.5, 0.5, -1), 0.6, gold},
		{core.NewVec3(-1.2, -0.4, 0.5), 0.4, plastic},
		{core.NewVec3(0, -101, 0), 100, material.Default()},
	}

	world := geometry.NewWorld()
	for _, sp := range specs {
		s, err := geometry.NewSphere(sp.center, sp.radius, sp.mat)
		if err != nil {
			t.Fatalf("NewSphere failed: %v", err)
		}
		world.Add(s)
	}
	return world
}

func testCamera(t *testing.T, aspect core.Scalar) *Camera {
	t.Helper()
	c, err := NewFPSCamera(core.NewVec3(0.3, 0.4, 4), core.QuatIdentity(), core.Radians(60), aspect)
	if err != nil {
		t.Fatalf("NewFPSCamera failed: %v", err)
	}
	if err := c.LookAt(core.Origin); err != nil {
		t.Fatalf("LookAt failed: %v", err)
	}
	return c
}

func TestScreen_SequentialAndParallelIdentical(t *testing.T) {
	const width, height = 37, 23
	world := testWorld(t)
	camera := testCamera(t, core.Scalar(width)/core.Scalar(height))

	seq, err := NewScreen(width, height, WithStrategy(Sequential))
	if err != nil {
		t.Fatalf("NewScreen failed: %v", err)
	}
	reference, refStats := seq.Render(camera, world)
	if refStats.Hits == 0 || refStats.Hits == refStats.TotalPixels {
		t.Fatalf("Expected a mix of hits and misses, got %d of %d", refStats.Hits, refStats.TotalPixels)
	}

	for _, workers := range []int{1, 2, 3, 8} {
		for _, chunk := range []int{1, 7, 64, width * height * 2} {
			t.Run(fmt.Sprintf("workers=%d chunk=%d", workers, chunk), func(t *testing.T) {
				par, err := NewScreen(width, height, WithStrategy(Parallel), WithWorkers(workers), WithChunkSize(chunk))
				if err != nil {
					t.Fatalf("NewScreen failed: %v", err)
				}
				frame, stats := par.Render(camera, world)

				if !slices.Equal(frame.Pixels, reference.Pixels) {
					t.Error("Parallel frame differs from sequential frame")
				}
				if !bytes.Equal(frame.RGB8(), reference.RGB8()) {
					t.Error("Parallel RGB8 buffer differs from sequential buffer")
				}
				if stats.Hits != refStats.Hits || stats.AverageLuminance != refStats.AverageLuminance {
					t.Errorf("Stats differ: %+v vs %+v", stats, refStats)
				}
			})
		}
	}
}

func TestScreen_RenderTwiceIsDeterministic(t *testing.T) {
	world := testWorld(t)
	camera := testCamera(t, 1)
	screen, _ := NewScreen(16, 16)

	a, _ := screen.Render(camera, world)
	b, _ := screen.Render(camera, world)
	if !slices.Equal(a.Pixels, b.Pixels) {
		t.Error("Expected identical frames from repeated renders")
	}
}

func TestScreen_ScreenCoords(t *testing.T) {
	screen, _ := NewScreen(4, 2)

	tests := []struct {
		px, py int
		x, y   core.Scalar
	}{
		{0, 0, -0.75, 0.5},
		{3, 0, 0.75, 0.5},
		{0, 1, -0.75, -0.5},
		{2, 1, 0.25, -0.5},
	}

	for _, tt := range tests {
		x, y := screen.ScreenCoords(tt.px, tt.py)
		if core.Abs(x-tt.x) > tolerance || core.Abs(y-tt.y) > tolerance {
			t.Errorf("Pixel (%d,%d): expected (%v,%v), got (%v,%v)", tt.px, tt.py, tt.x, tt.y, x, y)
		}
	}
}

func TestScreen_SphereCast(t *testing.T) {
	sphere, _ := geometry.NewSphere(core.Origin, 1, material.Default())
	world := geometry.NewWorld(sphere)
	camera := DefaultCamera()
	camera.SetPosition(core.NewVec3(0, 0, 2))

	background := core.NewColor(0.1, 0.2, 0.3)
	screen, _ := NewScreen(64, 36, WithBackground(background))
	frame, stats := screen.Render(camera, world)

	if c := frame.At(0, 0); c != background {
		t.Errorf("Expected corner to show background %v, got %v", background, c)
	}
	if c := frame.At(32, 18); c.Luminance() <= 0 || c == background {
		t.Errorf("Expected lit sphere at the center, got %v", c)
	}
	if stats.Coverage <= 0 || stats.Coverage >= 1 {
		t.Errorf("Expected partial coverage, got %v", stats.Coverage)
	}
}

func TestScreen_TopRowFirst(t *testing.T) {
	sphere, _ := geometry.NewSphere(core.NewVec3(0, 1, 0), 0.4, material.Default())
	world := geometry.NewWorld(sphere)
	camera, _ := NewFPSCamera(core.NewVec3(0, 0, 3), core.QuatIdentity(), core.Radians(60), 1)

	screen, _ := NewScreen(32, 32, WithStrategy(Sequential))
	frame, _ := screen.Render(camera, world)

	var top, bottom int
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			if frame.At(x, y) == core.Black {
				continue
			}
			if y < frame.Height/2 {
				top++
			} else {
				bottom++
			}
		}
	}
	if top == 0 || bottom != 0 {
		t.Errorf("Expected sphere above the horizon only, got top=%d bottom=%d", top, bottom)
	}
}

func TestScreen_TraceMatchesRender(t *testing.T) {
	world := testWorld(t)
	camera := testCamera(t, 2)
	screen, _ := NewScreen(20, 10)
	frame, _ := screen.Render(camera, world)

	for _, p := range [][2]int{{0, 0}, {10, 5}, {19, 9}, {7, 3}} {
		sample := screen.Trace(camera, world, p[0], p[1])
		if sample.Color != frame.At(p[0], p[1]) {
			t.Errorf("Pixel %v: trace %v differs from render %v", p, sample.Color, frame.At(p[0], p[1]))
		}
	}
	if sample := screen.Trace(camera, world, 10, 5); sample.Hit == nil {
		t.Error("Expected the center pixel to hit the scene")
	}
}

func TestScreen_RenderContextCanceled(t *testing.T) {
	world := testWorld(t)
	camera := testCamera(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, strategy := range []Strategy{Sequential, Parallel} {
		t.Run(strategy.String(), func(t *testing.T) {
			screen, _ := NewScreen(8, 8, WithStrategy(strategy), WithChunkSize(8))
			_, stats, err := screen.RenderContext(ctx, camera, world)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Expected context.Canceled, got %v", err)
			}
			if stats.Hits != 0 {
				t.Errorf("Expected no pixels rendered, got %d hits", stats.Hits)
			}
		})
	}
}

func TestScreen_Logging(t *testing.T) {
	observed, logs := observer.New(zap.DebugLevel)
	screen, err := NewScreen(8, 4, WithLogger(zap.New(observed)))
	if err != nil {
		t.Fatalf("NewScreen failed: %v", err)
	}
	_, stats := screen.Render(DefaultCamera(), testWorld(t))

	if logs.FilterMessage("render started").Len() != 1 {
		t.Error("Expected a render started entry")
	}
	finished := logs.FilterMessage("render finished").All()
	if len(finished) != 1 {
		t.Fatalf("Expected one render finished entry, got %d", len(finished))
	}
	fields := finished[0].ContextMap()
	if fields["hits"] != int64(stats.Hits) {
		t.Errorf("Expected hits field %d, got %v", stats.Hits, fields["hits"])
	}
	if fields["strategy"] != "parallel" {
		t.Errorf("Expected strategy field parallel, got %v", fields["strategy"])
	}
}

func TestNewScreen_Validation(t *testing.T) {
	if _, err := NewScreen(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewScreen(10, -1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewScreen(10, 10, WithLightDirection(core.Origin)); !errors.Is(err, ErrInvalidLight) {
		t.Errorf("Expected ErrInvalidLight, got %v", err)
	}

	screen, _ := NewScreen(10, 10, WithLightDirection(core.NewVec3(0, 5, 0)))
	if screen.LightDirection() != core.Up {
		t.Errorf("Expected normalized light direction, got %v", screen.LightDirection())
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input    string
		expected Strategy
		wantErr  bool
	}{
		{"sequential", Sequential, false},
		{"Parallel", Parallel, false},
		{" seq ", Sequential, false},
		{"", Parallel, false},
		{"gpu", Sequential, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q): unexpected error state %v", tt.input, err)
			continue
		}
		if !tt.wantErr && got != tt.expected {
			t.Errorf("ParseStrategy(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}
