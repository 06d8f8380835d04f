package material

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter chooses between reflection and refraction with Schlick's
// approximation of the Fresnel term
func (d *Dielectric) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	unitDirection := rayIn.Direction.Normalize()
	reflected := unitDirection.Reflect(hit.Normal)

	// Determine if we're entering or exiting the material
	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	if unitDirection.Dot(hit.Normal) > 0 {
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.RefractiveIndex
		cosine = d.RefractiveIndex * unitDirection.Dot(hit.Normal)
	} else {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.RefractiveIndex
		cosine = -unitDirection.Dot(hit.Normal)
	}

	// Total internal reflection always reflects
	reflectProb := 1.0
	refracted, ok := unitDirection.Refract(outwardNormal, niOverNt)
	if ok {
		reflectProb = Reflectance(cosine, d.RefractiveIndex)
	}

	if sampler.Get1D() < reflectProb {
		return Bounced(attenuation, core.NewRay(hit.Point, reflected))
	}
	return Bounced(attenuation, core.NewRay(hit.Point, refracted))
}

// BSDF is always 0 for the delta reflection/refraction lobes
func (d *Dielectric) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	return 0
}

// Albedo is white: glass does not tint
func (d *Dielectric) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}

func (d *Dielectric) WantsImportanceSampling() bool { return false }
func (d *Dielectric) IsEmitter() bool { return false }
func (d *Dielectric) sealed() {}

// Reflectance calculates Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractiveIndex float64) float64 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
