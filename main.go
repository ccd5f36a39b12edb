package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/df07/go-raycaster/internal/config"
	"github.com/df07/go-raycaster/internal/logger"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// errImagesDiffer is returned when -compare finds pixels outside tolerance
var errImagesDiffer = errors.New("render differs from reference image")

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	help := fs.Bool("help", false, "Show help information")
	list := fs.Bool("list", false, "List available scenes and exit")
	_ = fs.Parse(os.Args[1:])

	if *help {
		fmt.Println("Go Raycaster")
		fmt.Println("Usage: raycaster [options]")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Scenes: run with -list to see built-in and YAML scenes")
		return
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Sugar.Debugw("configuration loaded",
		"scene", cfg.Render.Scene,
		"strategy", cfg.Render.Strategy,
		"workers", cfg.Render.Workers,
		"output", cfg.Output.Path)

	if *list {
		if err := printScenes(os.Stdout); err != nil {
			logger.Error("failed to list scenes", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := run(ctx, cfg, logger.Log)
	if err != nil {
		code := reportFailure(cfg.Render.Scene, err)
		logger.Sync()
		os.Exit(code)
	}

	fmt.Printf("Rendered %dx%d in %v (%.0f pixels/s, %s, %d workers)\n",
		stats.Width, stats.Height, stats.Elapsed, stats.PixelsPerSecond(), stats.Strategy, stats.Workers)
	fmt.Printf("Coverage %.1f%%, average luminance %.4f\n", stats.Coverage*100, stats.AverageLuminance)
	fmt.Printf("Render saved as %s\n", cfg.Output.Path)
}

// reportFailure logs a failed render and returns the process exit code.
// Interrupted renders are a warning, not an error.
func reportFailure(sceneName string, err error) int {
	if errors.Is(err, context.Canceled) {
		logger.Warn("render canceled", zap.String("scene", sceneName))
		return 130
	}
	logger.Error("render failed", zap.String("scene", sceneName), zap.Error(err))
	return 1
}

// run renders the configured scene, writes the image and optionally compares
// it against a reference
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) (renderer.RenderStats, error) {
	selected, err := createScene(cfg.Render.Scene)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	width, height := selected.Width, selected.Height
	if cfg.Render.Width > 0 {
		width = cfg.Render.Width
	}
	if cfg.Render.Height > 0 {
		height = cfg.Render.Height
	}
	if err := selected.Resize(width, height); err != nil {
		return renderer.RenderStats{}, err
	}

	opts, err := cfg.ScreenOptions()
	if err != nil {
		return renderer.RenderStats{}, err
	}
	opts = append(opts, renderer.WithLogger(log.Named("screen")))

	screen, err := selected.NewScreen(opts...)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	log.Info("rendering scene", selected.LogFields(width, height)...)

	frame, stats, err := screen.RenderContext(ctx, selected.Camera, selected.World)
	if err != nil {
		return stats, err
	}

	img := frame.Image()
	if err := writeImage(cfg.Output.Path, cfg.Output.Format, img); err != nil {
		return stats, err
	}

	if cfg.Output.Compare != "" {
		differing, err := compareWithReference(img, cfg.Output.Compare, uint8(cfg.Output.Tolerance))
		if err != nil {
			return stats, err
		}
		log.Info("compared with reference",
			zap.String("reference", cfg.Output.Compare),
			zap.Int("differing_pixels", differing))
		if differing > 0 {
			return stats, fmt.Errorf("%w: %d pixels", errImagesDiffer, differing)
		}
	}

	return stats, nil
}

// createScene resolves a scene name: a built-in ID, "yaml:<name>" for a
// discovered scene, or a path to a YAML scene file
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return scene.LoadYAML(name)
	}
	return scene.Load(name)
}

// writeImage saves img to path. An empty format derives it from the extension.
func writeImage(path, format string, img image.Image) error {
	if format == "" {
		return loaders.SaveImage(path, img)
	}

	f, err := loaders.ParseFormat(format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := loaders.EncodeImage(file, img, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// compareWithReference counts pixels that differ from the reference image
func compareWithReference(img image.Image, referencePath string, tolerance uint8) (int, error) {
	reference, err := loaders.DecodeImageFile(referencePath)
	if err != nil {
		return 0, err
	}
	return loaders.CountDifferingPixels(img, reference, tolerance)
}

// printScenes writes the scene catalogue grouped the way /api/scenes reports it
func printScenes(w io.Writer) error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}
