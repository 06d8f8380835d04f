package lights

import "github.com/df07/go-loom/pkg/core"

// Background is the closed family of radiance functions seen by rays that
// escape the scene: Sky, OverheadLight and Constant. Radiance takes a unit
// direction and has no state.
type Background interface {
	Radiance(direction core.Vec3) core.Vec3

	sealed()
}

// LightSampler picks directions toward the scene's analytic lights and
// reports the density of any direction under that same strategy.
//
// Densities are relative to the hemisphere-normalized measure dω/2π used by
// material BSDFs, so the two can be summed directly in the MIS weight.
type LightSampler interface {
	// Sample returns a direction from point toward one light; false when
	// there is nothing to sample
	Sample(point, normal core.Vec3, sampler core.Sampler) (core.Vec3, bool)

	// Density returns the density of drawing direction from point, zero for
	// directions below the hemisphere of normal
	Density(point, normal, direction core.Vec3) float64

	// Len returns the number of lights
	Len() int
}
