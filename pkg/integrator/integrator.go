package integrator

import (
	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/lights"
)

// World is everything an integrator needs to shade a ray. It is immutable
// during a render and shared by all shards.
type World struct {
	Root       geometry.Hitable    // BVH root over every object
	Lights     lights.LightSampler // Analytic lights; may be empty
	Background lights.Background   // Radiance of escaping rays
}

// hasLights reports whether direct light sampling is possible
func (w *World) hasLights() bool {
	return w.Lights != nil && w.Lights.Len() > 0
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. The sampler is
	// owned by the calling shard.
	RayColor(ray core.Ray, world *World, sampler core.Sampler) core.Vec3
}
