package summary

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// toByte maps a display value in [0, 1] to 0-255 with the 255.99 scale
func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, 255.99*v)))
}

// displayColor is the gamma-2 encoded mean of pixel (x, y)
func (s *ImageSummary) displayColor(x, y int) core.Vec3 {
	mean := s.Mean(x, y)
	return core.NewVec3(
		math.Sqrt(math.Max(0, mean.X)),
		math.Sqrt(math.Max(0, mean.Y)),
		math.Sqrt(math.Max(0, mean.Z)),
	)
}

// Image returns the gamma-2 encoded image, top row first
func (s *ImageSummary) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		row := s.Height - 1 - y
		for x := 0; x < s.Width; x++ {
			c := s.displayColor(x, y)
			img.SetRGBA(x, row, color.RGBA{R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z), A: 255})
		}
	}
	return img
}

// WritePNG encodes Image as PNG
func (s *ImageSummary) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.Image()); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// WritePPM writes a plain-text P3 image, gamma-2 encoded, top row first
func (s *ImageSummary) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", s.Width, s.Height)
	for y := s.Height - 1; y >= 0; y-- {
		for x := 0; x < s.Width; x++ {
			c := s.displayColor(x, y)
			fmt.Fprintf(bw, "%d %d %d\n", toByte(c.X), toByte(c.Y), toByte(c.Z))
		}
	}
	return bw.Flush()
}

// WriteRaw dumps linear mean radiance as text for offline tone mapping: a
// "width height" line, then one "r g b" line per pixel, top row first
func (s *ImageSummary) WriteRaw(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", s.Width, s.Height)
	for y := s.Height - 1; y >= 0; y-- {
		for x := 0; x < s.Width; x++ {
			c := s.Mean(x, y)
			fmt.Fprintf(bw, "%g %g %g\n", c.X, c.Y, c.Z)
		}
	}
	return bw.Flush()
}
