// Package summary holds the per-pixel accumulation buffer that render shards
// fill and that checkpoints, resumed renders and the combine tool merge.
package summary

import (
	"errors"
	"fmt"

	"github.com/df07/go-loom/pkg/core"
)

// ErrDimensionMismatch is returned when merging summaries of different shapes
var ErrDimensionMismatch = errors.New("summary dimensions do not match")

// ImageSummary is a grid of running radiance sums plus the number of full
// passes folded into every pixel. Data[y][x] has y=0 at the bottom row.
type ImageSummary struct {
	Width   int
	Height  int
	Samples int
	Data    [][]core.Vec3
}

// New creates an empty summary
func New(width, height int) *ImageSummary {
	data := make([][]core.Vec3, height)
	for y := range data {
		data[y] = make([]core.Vec3, width)
	}
	return &ImageSummary{Width: width, Height: height, Data: data}
}

// Add accumulates one radiance sample into pixel (x, y)
func (s *ImageSummary) Add(x, y int, radiance core.Vec3) {
	s.Data[y][x] = s.Data[y][x].Add(radiance)
}

// CompletePass records that every pixel received one more sample
func (s *ImageSummary) CompletePass() {
	s.Samples++
}

// Mean returns the average radiance of pixel (x, y), black before any pass
func (s *ImageSummary) Mean(x, y int) core.Vec3 {
	if s.Samples == 0 {
		return core.Vec3{}
	}
	return s.Data[y][x].Multiply(1 / float64(s.Samples))
}

// Clone returns a deep copy
func (s *ImageSummary) Clone() *ImageSummary {
	clone := &ImageSummary{Width: s.Width, Height: s.Height, Samples: s.Samples}
	clone.Data = make([][]core.Vec3, len(s.Data))
	for y, row := range s.Data {
		clone.Data[y] = append([]core.Vec3(nil), row...)
	}
	return clone
}

// checkShape verifies that the declared size matches the data layout
func (s *ImageSummary) checkShape() error {
	if len(s.Data) != s.Height {
		return fmt.Errorf("%w: %d rows for height %d", ErrDimensionMismatch, len(s.Data), s.Height)
	}
	for y, row := range s.Data {
		if len(row) != s.Width {
			return fmt.Errorf("%w: row %d has %d pixels for width %d", ErrDimensionMismatch, y, len(row), s.Width)
		}
	}
	return nil
}

// Merge returns the pixel-wise sum of a and b with their sample counts
// added. Neither input is modified. Summaries of different shape, or with
// rows inconsistent with their declared size, are rejected.
func Merge(a, b *ImageSummary) (*ImageSummary, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	if err := a.checkShape(); err != nil {
		return nil, err
	}
	if err := b.checkShape(); err != nil {
		return nil, err
	}

	merged := New(a.Width, a.Height)
	merged.Samples = a.Samples + b.Samples
	for y := range merged.Data {
		rowA, rowB, out := a.Data[y], b.Data[y], merged.Data[y]
		for x := range out {
			out[x] = rowA[x].Add(rowB[x])
		}
	}
	return merged, nil
}

// MergeAll folds summaries left to right. The order is part of the result:
// the same inputs in the same order give bit-identical sums.
func MergeAll(summaries ...*ImageSummary) (*ImageSummary, error) {
	if len(summaries) == 0 {
		return nil, errors.New("no summaries to merge")
	}
	result := summaries[0].Clone()
	if err := result.checkShape(); err != nil {
		return nil, err
	}
	for i, next := range summaries[1:] {
		merged, err := Merge(result, next)
		if err != nil {
			return nil, fmt.Errorf("merging summary %d: %w", i+1, err)
		}
		result = merged
	}
	return result, nil
}

// Subsample averages factor×factor blocks into one pixel. Partial blocks at
// the right and top edges are dropped. The sample count is unchanged, so
// Mean of the result is the block average of Mean.
func (s *ImageSummary) Subsample(factor int) *ImageSummary {
	if factor <= 1 {
		return s.Clone()
	}
	out := New(s.Width/factor, s.Height/factor)
	out.Samples = s.Samples
	scale := 1 / float64(factor*factor)
	for y := range out.Data {
		for x := range out.Data[y] {
			sum := core.Vec3{}
			for j := y * factor; j < (y+1)*factor; j++ {
				for i := x * factor; i < (x+1)*factor; i++ {
					sum = sum.Add(s.Data[j][i])
				}
			}
			out.Data[y][x] = sum.Multiply(scale)
		}
	}
	return out
}
