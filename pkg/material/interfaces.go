package material

import (
	"github.com/df07/go-loom/pkg/core"
)

// HitRecord contains information about a ray-object intersection.
// Normal is the unit geometric normal (outward for closed surfaces, winding
// order for triangles); materials decide for themselves how to treat the
// side the ray arrived from.
type HitRecord struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection, equal to ray.At(T)
	Normal   core.Vec3 // Unit surface normal
	Material Material  // Material of the hit object, owned by the scene
}

// ScatterKind tags the outcome of Material.Scatter
type ScatterKind int

const (
	// Absorb terminates the path with no contribution
	Absorb ScatterKind = iota
	// Bounce continues the path along Ray, weighted by Attenuation
	Bounce
	// Emit terminates the path with Emission radiance
	Emit
)

func (k ScatterKind) String() string {
	switch k {
	case Bounce:
		return "bounce"
	case Emit:
		return "emit"
	default:
		return "absorb"
	}
}

// Scatter is the result of sampling a material. Only the fields relevant to
// Kind are meaningful.
type Scatter struct {
	Kind        ScatterKind
	Attenuation core.Vec3 // Bounce only
	Ray         core.Ray  // Bounce only
	Emission    core.Vec3 // Emit only
}

// Bounced builds a Bounce result
func Bounced(attenuation core.Vec3, ray core.Ray) Scatter {
	return Scatter{Kind: Bounce, Attenuation: attenuation, Ray: ray}
}

// Emitted builds an Emit result
func Emitted(radiance core.Vec3) Scatter {
	return Scatter{Kind: Emit, Emission: radiance}
}

// Absorbed builds an Absorb result
func Absorbed() Scatter {
	return Scatter{Kind: Absorb}
}

// Material is the closed family of surface scattering models.
//
// BSDF returns the density of Scatter's outgoing direction relative to the
// hemisphere-normalized measure dω/2π, so the expectation of 1/BSDF over
// directions drawn by Scatter is 1 (Lambertian: 2cosθ). It is exactly 0
// outside the valid hemisphere. Albedo returns π·f·cosθ for the outgoing
// direction, i.e. the reflectance weight that pairs with BSDF: a direction
// drawn with density p is weighted by 2·Albedo/p.
//
// BSDF and Albedo are only meaningful when WantsImportanceSampling is true.
type Material interface {
	Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter
	BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64
	Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3
	WantsImportanceSampling() bool
	IsEmitter() bool

	sealed()
}
