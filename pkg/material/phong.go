package material

import (
	"github.com/df07/go-loom/pkg/core"
)

// Phong is a legacy glossy material that blends a mirror direction with a
// diffuse one. Glossiness 0 is a mirror, 1 is fully diffuse.
type Phong struct {
	Color      core.Vec3
	Glossiness float64
}

// NewPhong creates a new phong material
func NewPhong(color core.Vec3, glossiness float64) *Phong {
	return &Phong{Color: color, Glossiness: glossiness}
}

// Scatter interpolates between the reflected and a diffuse direction
func (p *Phong) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)
	diffuse := core.SampleCosineAbout(hit.Normal, sampler.Get2D())
	direction := reflected.Lerp(diffuse, p.Glossiness)
	if direction.Dot(hit.Normal) <= 0 {
		return Absorbed()
	}
	return Bounced(p.Color, core.NewRay(hit.Point, direction))
}

// BSDF is 0: the blended lobe has no closed-form density
func (p *Phong) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	return 0
}

// Albedo returns the tint
func (p *Phong) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	return p.Color
}

func (p *Phong) WantsImportanceSampling() bool { return false }
func (p *Phong) IsEmitter() bool { return false }
func (p *Phong) sealed() {}
