package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/integrator"
	"github.com/df07/go-loom/pkg/lights"
	"github.com/df07/go-loom/pkg/material"
	"github.com/df07/go-loom/pkg/summary"
)

// testWorld is a ground sphere, a small light and a metal sphere
func testWorld() (*integrator.World, *geometry.Camera) {
	objects := []geometry.Hitable{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, 3, 0), 0.5, material.NewEmitter(core.NewVec3(8, 8, 8))),
		geometry.NewSphere(core.NewVec3(1.5, 1, 0), 1, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0)),
	}
	world := &integrator.World{
		Lights:     lights.NewLightSet(geometry.CollectLights(objects)),
		Background: lights.Sky{},
		Root:       geometry.BuildBVH(objects, core.NewSeededSampler(1)),
	}
	camera := geometry.NewCamera(geometry.CameraConfig{
		LookFrom:  core.NewVec3(0, 2, 8),
		LookAt:    core.NewVec3(0, 1, 0),
		VUp:       core.NewVec3(0, 1, 0),
		VFov:      40,
		Aspect:    2,
		FocusDist: 8,
	})
	return world, camera
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 20
	cfg.Height = 10
	cfg.Samples = 4
	cfg.Shards = 2
	cfg.Seed = 7
	return cfg
}

func mustRender(t *testing.T, cfg Config, onCheckpoint CheckpointFunc) (*summary.ImageSummary, RenderStats) {
	t.Helper()
	world, camera := testWorld()
	result, stats, err := Render(context.Background(), world, camera, cfg, core.NopLogger{}, onCheckpoint)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return result, stats
}

func identical(t *testing.T, a, b *summary.ImageSummary) {
	t.Helper()
	if a.Width != b.Width || a.Height != b.Height || a.Samples != b.Samples {
		t.Fatalf("shapes differ: %dx%d/%d vs %dx%d/%d", a.Width, a.Height, a.Samples, b.Width, b.Height, b.Samples)
	}
	for y := range a.Data {
		for x := range a.Data[y] {
			if a.Data[y][x] != b.Data[y][x] {
				t.Fatalf("pixel (%d, %d) differs: %v vs %v", x, y, a.Data[y][x], b.Data[y][x])
			}
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	first, stats := mustRender(t, smallConfig(), nil)
	second, _ := mustRender(t, smallConfig(), nil)
	identical(t, first, second)

	if stats.SamplesPerPixel != 4 || stats.RaysTraced != 4*20*10 {
		t.Errorf("stats = %+v, want 4 samples and 800 rays", stats)
	}
	if CalculateAverageLuminance(first) <= 0 {
		t.Error("lit scene rendered black")
	}

	other := smallConfig()
	other.Seed = 8
	third, _ := mustRender(t, other, nil)
	same := true
	for y := range third.Data {
		for x := range third.Data[y] {
			same = same && third.Data[y][x] == first.Data[y][x]
		}
	}
	if same {
		t.Error("a different seed produced the same image")
	}
}

func TestRender_CheckpointIntervalDoesNotChangeResult(t *testing.T) {
	cfg := smallConfig()
	whole, _ := mustRender(t, cfg, nil)

	cfg.CheckpointInterval = 1
	var seen []int
	stepped, _ := mustRender(t, cfg, func(merged *summary.ImageSummary, stats RenderStats) error {
		seen = append(seen, merged.Samples)
		return nil
	})
	identical(t, whole, stepped)

	want := []int{2, 4} // two shards, two passes each
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Errorf("checkpoint sample counts = %v, want %v", seen, want)
	}
}

func TestRender_SampleCountIndependentOfShards(t *testing.T) {
	for _, shards := range []int{1, 2, 3, 8} {
		cfg := smallConfig()
		cfg.Samples = 5
		cfg.Shards = shards
		result, stats := mustRender(t, cfg, nil)
		if result.Samples != 5 {
			t.Errorf("shards=%d: %d samples per pixel, want 5", shards, result.Samples)
		}
		if stats.Shards != min(shards, 5) {
			t.Errorf("shards=%d: used %d shards", shards, stats.Shards)
		}
	}
}

func TestRender_Resume(t *testing.T) {
	previous, _ := mustRender(t, smallConfig(), nil)

	cfg := smallConfig()
	cfg.Seed = 100
	cfg.Resume = previous
	resumed, _ := mustRender(t, cfg, nil)
	if resumed.Samples != 8 {
		t.Errorf("resumed render has %d samples, want 8", resumed.Samples)
	}

	cfg.Resume = summary.New(3, 3)
	world, camera := testWorld()
	if _, _, err := Render(context.Background(), world, camera, cfg, nil, nil); !errors.Is(err, summary.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestRender_Cancelled(t *testing.T) {
	world, camera := testWorld()

	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, _, err := Render(ctx, world, camera, smallConfig(), nil, nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if result == nil || result.Samples != 0 {
			t.Errorf("expected an empty partial result, got %+v", result)
		}
	})

	t.Run("after first checkpoint", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cfg := smallConfig()
		cfg.CheckpointInterval = 1
		result, _, err := Render(ctx, world, camera, cfg, nil, func(*summary.ImageSummary, RenderStats) error {
			cancel()
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if result.Samples != 2 {
			t.Errorf("partial result has %d samples, want the first round's 2", result.Samples)
		}
	})
}

func TestRender_CheckpointError(t *testing.T) {
	boom := errors.New("disk full")
	world, camera := testWorld()
	_, _, err := Render(context.Background(), world, camera, smallConfig(), nil, func(*summary.ImageSummary, RenderStats) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped checkpoint error", err)
	}
}
