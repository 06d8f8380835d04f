package material

import (
	"github.com/df07/go-loom/pkg/core"
)

// Emitter is an isotropic light source. It terminates every path that hits it.
type Emitter struct {
	Emission core.Vec3
}

// NewEmitter creates a new emissive material
func NewEmitter(emission core.Vec3) *Emitter {
	return &Emitter{Emission: emission}
}

// Scatter always emits
func (e *Emitter) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	return Emitted(e.Emission)
}

// BSDF panics: an emitter has no scattering distribution
func (e *Emitter) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	panic("material: BSDF evaluated on an emitter")
}

// Albedo panics: an emitter has no reflectance
func (e *Emitter) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	panic("material: albedo evaluated on an emitter")
}

func (e *Emitter) WantsImportanceSampling() bool { return false }
func (e *Emitter) IsEmitter() bool { return true }
func (e *Emitter) sealed() {}
