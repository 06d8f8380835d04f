package summary

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-loom/pkg/core"
)

// randomSummary fills a summary with seeded noise as if from `samples` passes
func randomSummary(width, height, samples int, seed int64) *ImageSummary {
	sampler := core.NewSeededSampler(seed)
	s := New(width, height)
	for pass := 0; pass < samples; pass++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				s.Add(x, y, sampler.Get3D().Multiply(3))
			}
		}
		s.CompletePass()
	}
	return s
}

func summariesClose(t *testing.T, got, want *ImageSummary, tol float64) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height || got.Samples != want.Samples {
		t.Fatalf("shape %dx%d/%d, want %dx%d/%d", got.Width, got.Height, got.Samples, want.Width, want.Height, want.Samples)
	}
	for y := range want.Data {
		for x := range want.Data[y] {
			if got.Data[y][x].Subtract(want.Data[y][x]).Length() > tol {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got.Data[y][x], want.Data[y][x])
			}
		}
	}
}

func mustMerge(t *testing.T, a, b *ImageSummary) *ImageSummary {
	t.Helper()
	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return merged
}

func TestMerge_AssociativeCommutative(t *testing.T) {
	a := randomSummary(7, 5, 3, 1)
	b := randomSummary(7, 5, 2, 2)
	c := randomSummary(7, 5, 4, 3)

	abc := mustMerge(t, mustMerge(t, a, b), c)
	aBc := mustMerge(t, a, mustMerge(t, b, c))
	acb := mustMerge(t, mustMerge(t, a, c), b)
	cba := mustMerge(t, c, mustMerge(t, b, a))

	if abc.Samples != 9 {
		t.Errorf("merged samples = %d, want 9", abc.Samples)
	}
	summariesClose(t, aBc, abc, 1e-12)
	summariesClose(t, acb, abc, 1e-12)
	summariesClose(t, cba, abc, 1e-12)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	a := randomSummary(3, 2, 1, 1)
	b := randomSummary(3, 2, 1, 2)
	aCopy, bCopy := a.Clone(), b.Clone()

	mustMerge(t, a, b)
	summariesClose(t, a, aCopy, 0)
	summariesClose(t, b, bCopy, 0)
}

func TestMerge_EmptyIsIdentity(t *testing.T) {
	a := randomSummary(4, 4, 2, 5)
	merged := mustMerge(t, a, New(4, 4))
	summariesClose(t, merged, a, 0)
}

func TestMerge_DimensionMismatch(t *testing.T) {
	ragged := New(3, 2)
	ragged.Data[1] = ragged.Data[1][:2]
	short := New(3, 2)
	short.Data = short.Data[:1]

	tests := []struct {
		name string
		a, b *ImageSummary
	}{
		{"width", New(3, 2), New(4, 2)},
		{"height", New(3, 2), New(3, 3)},
		{"ragged row", New(3, 2), ragged},
		{"missing row", short, New(3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Merge(tt.a, tt.b)
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Errorf("err = %v, want ErrDimensionMismatch", err)
			}
			if merged != nil {
				t.Error("expected no result on mismatch")
			}
		})
	}
}

func TestMergeAll(t *testing.T) {
	a := randomSummary(5, 3, 1, 1)
	b := randomSummary(5, 3, 2, 2)
	c := randomSummary(5, 3, 3, 3)

	all, err := MergeAll(a, b, c)
	if err != nil {
		t.Fatalf("MergeAll: %v", err)
	}
	// Same inputs in the same order must match bit for bit
	summariesClose(t, all, mustMerge(t, mustMerge(t, a, b), c), 0)

	if _, err := MergeAll(); err == nil {
		t.Error("expected error merging nothing")
	}
	if _, err := MergeAll(a, New(2, 2)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestMean(t *testing.T) {
	s := New(1, 1)
	if s.Mean(0, 0) != (core.Vec3{}) {
		t.Error("mean before any pass should be black")
	}
	s.Add(0, 0, core.NewVec3(1, 2, 3))
	s.CompletePass()
	s.Add(0, 0, core.NewVec3(3, 2, 1))
	s.CompletePass()
	if got := s.Mean(0, 0); got != core.NewVec3(2, 2, 2) {
		t.Errorf("mean = %v, want (2,2,2)", got)
	}
}

func TestSubsample(t *testing.T) {
	s := New(5, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			s.Add(x, y, core.NewVec3(float64(x), float64(y), 1))
		}
	}
	s.CompletePass()

	sub := s.Subsample(2)
	if sub.Width != 2 || sub.Height != 2 || sub.Samples != 1 {
		t.Fatalf("subsampled shape %dx%d/%d, want 2x2/1", sub.Width, sub.Height, sub.Samples)
	}
	// Block (1, 1) covers x in {2,3} and y in {2,3}
	if got, want := sub.Mean(1, 1), core.NewVec3(2.5, 2.5, 1); math.Abs(got.Subtract(want).Length()) > 1e-12 {
		t.Errorf("block mean = %v, want %v", got, want)
	}
}
