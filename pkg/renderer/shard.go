package renderer

import (
	"context"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/integrator"
	"github.com/df07/go-loom/pkg/summary"
)

// Shard is one independent sample stream with its own full-size buffer.
// Only the worker currently holding its task touches it.
type Shard struct {
	ID        int
	Summary   *summary.ImageSummary
	Sampler   core.Sampler
	Remaining int // Passes still owed
}

// NewShard creates shard id seeded with seed+id
func NewShard(id, width, height int, seed int64, passes int) *Shard {
	return &Shard{
		ID:        id,
		Summary:   summary.New(width, height),
		Sampler:   core.NewSeededSampler(seed + int64(id)),
		Remaining: passes,
	}
}

// shardRenderer traces full-frame passes; it holds only shared, read-only state
type shardRenderer struct {
	world      *integrator.World
	camera     *geometry.Camera
	integrator integrator.Integrator
	width      int
	height     int
}

// renderPasses renders up to passes full frames into shard, stopping between
// passes when ctx is done. It returns the number of passes completed.
func (r *shardRenderer) renderPasses(ctx context.Context, shard *Shard, passes int) (int, error) {
	for pass := 0; pass < passes; pass++ {
		if err := ctx.Err(); err != nil {
			return pass, err
		}
		r.renderPass(shard)
	}
	return passes, nil
}

// renderPass adds one jittered sample to every pixel, bottom row first
func (r *shardRenderer) renderPass(shard *Shard) {
	sampler := shard.Sampler
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			u := (float64(x) + sampler.Get1D()) / float64(r.width)
			v := (float64(y) + sampler.Get1D()) / float64(r.height)
			ray := r.camera.GetRay(u, v, sampler)
			shard.Summary.Add(x, y, r.integrator.RayColor(ray, r.world, sampler))
		}
	}
	shard.Summary.CompletePass()
}
