package material

import (
	"github.com/df07/go-loom/pkg/core"
)

// Mixture probabilistically chooses between two materials.
// Sub-materials are shared, immutable values.
type Mixture struct {
	Material1 Material
	Material2 Material
	U         float64 // 0.0 = all Material1, 1.0 = all Material2
}

// NewMixture creates a new mixture material
func NewMixture(material1, material2 Material, u float64) *Mixture {
	return &Mixture{
		Material1: material1,
		Material2: material2,
		U:         u,
	}
}

// Scatter flips a coin weighted by U and delegates to the chosen material
func (m *Mixture) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	if sampler.Get1D() > m.U {
		return m.Material1.Scatter(rayIn, hit, sampler)
	}
	return m.Material2.Scatter(rayIn, hit, sampler)
}

// BSDF is the U-weighted blend of both densities
func (m *Mixture) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	b1 := m.Material1.BSDF(rayIn, rayOut, normal)
	b2 := m.Material2.BSDF(rayIn, rayOut, normal)
	return b1*(1-m.U) + b2*m.U
}

// Albedo is the U-weighted blend of both albedos
func (m *Mixture) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	a1 := m.Material1.Albedo(rayIn, rayOut, normal)
	a2 := m.Material2.Albedo(rayIn, rayOut, normal)
	return a1.Multiply(1 - m.U).Add(a2.Multiply(m.U))
}

// WantsImportanceSampling requires both materials to support it
func (m *Mixture) WantsImportanceSampling() bool {
	return m.Material1.WantsImportanceSampling() && m.Material2.WantsImportanceSampling()
}

// IsEmitter is true if either material emits
func (m *Mixture) IsEmitter() bool {
	return m.Material1.IsEmitter() || m.Material2.IsEmitter()
}

func (m *Mixture) sealed() {}
