package summary

import (
	"image"
	"image/color"
	"math"
)

const (
	// DefaultKey is the middle-grey key value of the Reinhard operator
	DefaultKey = 0.18
	// luminanceFloor keeps log-luminance finite for black pixels
	luminanceFloor = 0.001
)

// ToneMapReinhard applies Reinhard's global operator to the mean image and
// returns it linearly encoded, top row first. key scales the log-average
// luminance; white is the smallest luminance mapped to pure white, and a
// value <= 0 selects the brightest pixel.
func (s *ImageSummary) ToneMapReinhard(key, white float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	n := s.Width * s.Height
	if n == 0 {
		return img
	}

	lw := make([][]float64, s.Height)
	logSum, maxLum := 0.0, 0.0
	for y := range lw {
		lw[y] = make([]float64, s.Width)
		for x := range lw[y] {
			l := s.Mean(x, y).Luminance() + luminanceFloor
			lw[y][x] = l
			logSum += math.Log(l)
			maxLum = math.Max(maxLum, l)
		}
	}
	if white <= 0 {
		white = maxLum
	}
	logAverage := math.Exp(logSum / float64(n))

	for y := 0; y < s.Height; y++ {
		row := s.Height - 1 - y
		for x := 0; x < s.Width; x++ {
			l := key / logAverage * lw[y][x]
			ld := l * (1 + l/(white*white)) / (1 + l)
			c := s.Mean(x, y).Multiply(ld / lw[y][x])
			img.SetRGBA(x, row, color.RGBA{
				R: linearByte(c.X),
				G: linearByte(c.Y),
				B: linearByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

func linearByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(1, v)) * 255)
}
