package renderer

import (
	"image"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
)

// RenderStats contains statistics about a finished render
type RenderStats struct {
	Width            int
	Height           int
	TotalPixels      int
	Hits             int           // Pixels whose primary ray hit a primitive
	Coverage         float64       // Hits / TotalPixels
	AverageLuminance float64       // Mean luminance of the clamped pixel colors
	Strategy         Strategy      // Execution strategy used
	Workers          int           // Goroutines used (1 for sequential)
	Chunks           int           // Chunks dispatched
	Elapsed          time.Duration // Wall time of the render
}

// PixelsPerSecond returns the render throughput
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Elapsed.Seconds()
}

func computeStats(frame *Frame, hits []bool) RenderStats {
	stats := RenderStats{
		Width:       frame.Width,
		Height:      frame.Height,
		TotalPixels: len(frame.Pixels),
	}
	if stats.TotalPixels == 0 {
		return stats
	}

	var luminance core.Scalar
	for i, c := range frame.Pixels {
		if hits[i] {
			stats.Hits++
		}
		luminance += c.Clamped().Luminance()
	}

	stats.Coverage = float64(stats.Hits) / float64(stats.TotalPixels)
	stats.AverageLuminance = float64(luminance) / float64(stats.TotalPixels)
	return stats
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an 8-bit image
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewColor(core.Scalar(r)/0xffff, core.Scalar(g)/0xffff, core.Scalar(b)/0xffff)
			sum += float64(c.Luminance())
		}
	}
	return sum / float64(total)
}
