package renderer

import (
	"time"

	"github.com/df07/go-loom/pkg/summary"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	Shards          int           // Number of independent shards
	SamplesPerPixel int           // Samples folded into every pixel, resume included
	RaysTraced      int64         // Primary rays traced by this render
	Elapsed         time.Duration // Wall time so far
}

// RaysPerSecond returns the primary ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.RaysTraced) / s.Elapsed.Seconds()
}

// CalculateAverageLuminance returns the mean luminance of the summary's
// per-pixel averages
func CalculateAverageLuminance(s *summary.ImageSummary) float64 {
	if s.Width == 0 || s.Height == 0 {
		return 0
	}
	total := 0.0
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			total += s.Mean(x, y).Luminance()
		}
	}
	return total / float64(s.Width*s.Height)
}
