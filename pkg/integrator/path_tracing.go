package integrator

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

const (
	// DefaultMaxBounces truncates paths; the last bounce returns its
	// attenuation unshaded, a known bias in exchange for bounded work
	DefaultMaxBounces = 50
	// DefaultTMin keeps a bounced ray from re-hitting its own surface
	DefaultTMin = 1e-4

	// minAttenuation ends paths that can no longer contribute visibly
	minAttenuation = 1e-8
	// minDensity treats a combined MIS density below it as zero
	minDensity = 1e-12
	// lightSampleProbability is the chance of sampling a light rather than
	// the material in the one-sample MIS step
	lightSampleProbability = 0.5
)

// PathTracer is an iterative unidirectional path tracer with one-sample
// multiple importance sampling between lights and materials
type PathTracer struct {
	MaxBounces int
	TMin       float64
}

// NewPathTracer creates a path tracer with the given bounce cap and epsilon
func NewPathTracer(maxBounces int, tMin float64) *PathTracer {
	return &PathTracer{MaxBounces: maxBounces, TMin: tMin}
}

// RayColor traces ray through the world until it escapes, is absorbed, hits
// an emitter, fades out, or runs out of bounces
func (pt *PathTracer) RayColor(ray core.Ray, world *World, sampler core.Sampler) core.Vec3 {
	attenuation := core.NewVec3(1, 1, 1)

	for bounce := 0; bounce < pt.MaxBounces; bounce++ {
		hit, isHit := world.Root.Hit(ray, pt.TMin, math.MaxFloat64)
		if !isHit {
			return world.Background.Radiance(ray.Direction.Normalize()).MultiplyVec(attenuation)
		}
		if attenuation.Length() < minAttenuation {
			return core.Vec3{}
		}

		var next material.Scatter
		if hit.Material.WantsImportanceSampling() && world.hasLights() {
			next = pt.sampleMIS(ray, hit, world, sampler)
		} else {
			next = hit.Material.Scatter(ray, hit, sampler)
		}

		switch next.Kind {
		case material.Bounce:
			attenuation = attenuation.MultiplyVec(next.Attenuation)
			ray = next.Ray
		case material.Emit:
			return next.Emission.MultiplyVec(attenuation)
		default:
			return core.Vec3{}
		}
	}

	return attenuation
}

// sampleMIS picks the next direction from either a light or the material,
// each with probability 1/2, and weights it with the balance heuristic.
//
// Both densities are relative to dω/2π and Albedo is π·f·cosθ, so the
// one-sample estimator albedo·2·w/p_chosen with w = p_chosen/(p_light+p_bsdf)
// picks up a further factor 2 from the measure and reduces to
// albedo·4/(p_light+p_bsdf).
func (pt *PathTracer) sampleMIS(ray core.Ray, hit *material.HitRecord, world *World, sampler core.Sampler) material.Scatter {
	normal := core.FaceForward(hit.Normal, ray.Direction)

	var direction core.Vec3
	if sampler.Get1D() < lightSampleProbability {
		d, ok := world.Lights.Sample(hit.Point, normal, sampler)
		if !ok {
			return material.Absorbed()
		}
		direction = d
	} else {
		scatter := hit.Material.Scatter(ray, hit, sampler)
		if scatter.Kind != material.Bounce {
			return scatter
		}
		direction = scatter.Ray.Direction.Normalize()
	}

	out := core.NewRay(hit.Point, direction)
	lightDensity := world.Lights.Density(hit.Point, normal, direction)
	bsdfDensity := hit.Material.BSDF(ray, out, hit.Normal)
	total := lightDensity + bsdfDensity
	if total < minDensity {
		return material.Absorbed()
	}

	albedo := hit.Material.Albedo(ray, out, hit.Normal)
	return material.Bounced(albedo.Multiply(4/total), out)
}
