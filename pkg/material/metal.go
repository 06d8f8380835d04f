package material

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// Metal represents a mirror-like reflective material
type Metal struct {
	Color    core.Vec3 // Reflectance tint
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material; fuzzness is clamped to [0, 1]
func NewMetal(color core.Vec3, fuzzness float64) *Metal {
	return &Metal{
		Color:    color,
		Fuzzness: math.Max(0.0, math.Min(fuzzness, 1.0)),
	}
}

// Scatter reflects the incoming direction about the normal. Reflections
// pointing into the surface are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)
	if m.Fuzzness > 0 {
		fuzz := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(m.Fuzzness * math.Cbrt(sampler.Get1D()))
		reflected = reflected.Add(fuzz)
	}
	if reflected.Dot(hit.Normal) <= 0 {
		return Absorbed()
	}
	return Bounced(m.Color, core.NewRay(hit.Point, reflected))
}

// BSDF is always 0: a mirror's delta distribution has no pointwise density
func (m *Metal) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	return 0
}

// Albedo returns the reflectance tint
func (m *Metal) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	return m.Color
}

func (m *Metal) WantsImportanceSampling() bool { return false }
func (m *Metal) IsEmitter() bool { return false }
func (m *Metal) sealed() {}
