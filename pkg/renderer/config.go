package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-loom/pkg/integrator"
	"github.com/df07/go-loom/pkg/summary"
)

// DefaultShards is the default number of sample streams. It is fixed rather
// than taken from the host so a seed renders the same image on any machine.
const DefaultShards = 8

// Config contains configuration for a render
type Config struct {
	Width              int     // Image width; 0 derives it from Height and the camera aspect
	Height             int     // Image height
	Samples            int     // Total samples per pixel across all shards
	Shards             int     // Independent sample streams; 0 = logical CPU count (host dependent)
	CheckpointInterval int     // Samples per shard between checkpoints; 0 = only at the end
	Seed               int64   // Shard k is seeded with Seed+k
	MaxBounces         int     // Path length cap
	TMin               float64 // Ray epsilon against self-intersection

	// Resume, when set, is merged ahead of the new shards so a render can
	// continue from an earlier checkpoint of the same size
	Resume *summary.ImageSummary
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:              0,
		Height:             100,
		Samples:            64,
		Shards:             DefaultShards,
		CheckpointInterval: 0,
		Seed:               42,
		MaxBounces:         integrator.DefaultMaxBounces,
		TMin:               integrator.DefaultTMin,
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	switch {
	case c.Width < 0:
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	case c.Height <= 0:
		return fmt.Errorf("height must be positive, got %d", c.Height)
	case c.Samples <= 0:
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	case c.Shards < 0:
		return fmt.Errorf("shards must not be negative, got %d", c.Shards)
	case c.CheckpointInterval < 0:
		return fmt.Errorf("checkpoint interval must not be negative, got %d", c.CheckpointInterval)
	case c.MaxBounces < 1:
		return fmt.Errorf("max bounces must be at least 1, got %d", c.MaxBounces)
	case c.TMin <= 0 || math.IsNaN(c.TMin):
		return errors.New("ray epsilon must be positive")
	}
	return nil
}

// resolve fills in the derived settings: width from aspect, shard count from
// the host, and never more shards than samples
func (c Config) resolve(aspect float64, host HostInfo) (Config, error) {
	if err := c.Validate(); err != nil {
		return c, err
	}
	if c.Width == 0 {
		c.Width = int(math.Round(float64(c.Height) * aspect))
		if c.Width <= 0 {
			return c, fmt.Errorf("camera aspect %g gives no pixels at height %d", aspect, c.Height)
		}
	}
	if c.Shards == 0 {
		c.Shards = max(1, host.LogicalCores)
	}
	c.Shards = min(c.Shards, c.Samples)
	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = c.Samples
	}
	if c.Resume != nil && (c.Resume.Width != c.Width || c.Resume.Height != c.Height) {
		return c, fmt.Errorf("%w: resuming %dx%d into a %dx%d render",
			summary.ErrDimensionMismatch, c.Resume.Width, c.Resume.Height, c.Width, c.Height)
	}
	return c, nil
}

// shardPasses splits the total samples across shards; the first
// Samples%Shards shards take one extra
func (c Config) shardPasses(shard int) int {
	passes := c.Samples / c.Shards
	if shard < c.Samples%c.Shards {
		passes++
	}
	return passes
}
