package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/integrator"
	"github.com/df07/go-loom/pkg/summary"
)

// CheckpointFunc receives the merged result after every round. The summary
// is freshly allocated and may be kept.
type CheckpointFunc func(merged *summary.ImageSummary, stats RenderStats) error

// Render path traces world through camera. Samples are split across shards,
// each with its own seeded sampler and buffer, and rendered in rounds of
// CheckpointInterval passes. After every round the shards are merged in
// shard order, behind cfg.Resume, and handed to onCheckpoint.
//
// The result depends only on cfg, not on scheduling. When ctx is cancelled
// the merge of all completed passes is returned together with ctx.Err().
func Render(ctx context.Context, world *integrator.World, camera *geometry.Camera, cfg Config, logger core.Logger, onCheckpoint CheckpointFunc) (*summary.ImageSummary, RenderStats, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	host, err := DetectHost()
	if err != nil {
		logger.Printf("host detection incomplete: %v", err)
	}
	cfg, err = cfg.resolve(camera.Config().Aspect, host)
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid render config: %w", err)
	}

	width, height := cfg.Width, cfg.Height
	if need := bufferBytes(width, height) * uint64(cfg.Shards+2); host.AvailableMemory > 0 && need > host.AvailableMemory {
		logger.Printf("warning: %d shards of %dx%d need %d MiB, only %d MiB available",
			cfg.Shards, width, height, need>>20, host.AvailableMemory>>20)
	}

	shards := make([]*Shard, cfg.Shards)
	for k := range shards {
		shards[k] = NewShard(k, width, height, cfg.Seed, cfg.shardPasses(k))
	}

	r := &shardRenderer{
		world:      world,
		camera:     camera,
		integrator: integrator.NewPathTracer(cfg.MaxBounces, cfg.TMin),
		width:      width,
		height:     height,
	}
	pool := NewWorkerPool(ctx, r, min(cfg.Shards, max(1, host.LogicalCores)), cfg.Shards)
	pool.Start()
	defer pool.Stop()

	logger.Printf("rendering %dx%d at %d samples per pixel: %d shards on %d workers, seed %d",
		width, height, cfg.Samples, cfg.Shards, pool.GetNumWorkers(), cfg.Seed)

	start := time.Now()
	stats := RenderStats{Width: width, Height: height, Shards: cfg.Shards}
	var merged *summary.ImageSummary

	for round := 1; ; round++ {
		submitted := 0
		for k, shard := range shards {
			if shard.Remaining == 0 {
				continue
			}
			pool.SubmitTask(ShardTask{TaskID: k, Shard: shard, Passes: min(cfg.CheckpointInterval, shard.Remaining)})
			submitted++
		}
		if submitted == 0 {
			break
		}

		var renderErr error
		for i := 0; i < submitted; i++ {
			result, ok := pool.GetResult()
			if !ok {
				return nil, stats, errors.New("worker pool closed unexpectedly")
			}
			shards[result.TaskID].Remaining -= result.Passes
			stats.RaysTraced += int64(result.Passes) * int64(width*height)
			if result.Error != nil && renderErr == nil {
				renderErr = result.Error
			}
		}

		merged, err = mergeShards(cfg.Resume, shards)
		if err != nil {
			return nil, stats, err
		}
		stats.SamplesPerPixel = merged.Samples
		stats.Elapsed = time.Since(start)

		if renderErr != nil {
			logger.Printf("render stopped at %d samples per pixel: %v", merged.Samples, renderErr)
			return merged, stats, renderErr
		}
		logger.Printf("round %d: %d samples per pixel after %v", round, merged.Samples, stats.Elapsed.Round(time.Millisecond))

		if onCheckpoint != nil {
			if err := onCheckpoint(merged, stats); err != nil {
				return merged, stats, fmt.Errorf("checkpoint after round %d: %w", round, err)
			}
		}
	}

	logger.Printf("render finished in %v: %.0f rays/s, average luminance %.4f",
		stats.Elapsed.Round(time.Millisecond), stats.RaysPerSecond(), CalculateAverageLuminance(merged))
	return merged, stats, nil
}

// mergeShards folds resume (if any) and then every shard in index order
func mergeShards(resume *summary.ImageSummary, shards []*Shard) (*summary.ImageSummary, error) {
	parts := make([]*summary.ImageSummary, 0, len(shards)+1)
	if resume != nil {
		parts = append(parts, resume)
	}
	for _, shard := range shards {
		parts = append(parts, shard.Summary)
	}
	return summary.MergeAll(parts...)
}
