package material

import (
	"github.com/df07/go-loom/pkg/core"
)

// Lambertian represents a perfectly diffuse, two-sided material
type Lambertian struct {
	Color core.Vec3 // Diffuse reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(color core.Vec3) *Lambertian {
	return &Lambertian{Color: color}
}

// Scatter draws a cosine-weighted direction about the normal facing the
// incoming ray
func (l *Lambertian) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	normal := core.FaceForward(hit.Normal, rayIn.Direction)
	direction := core.SampleCosineAbout(normal, sampler.Get2D())
	return Bounced(l.Color, core.NewRay(hit.Point, direction))
}

// BSDF returns 2cosθ on the incoming side and 0 elsewhere
func (l *Lambertian) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	cosTheta := lambertCosine(rayIn, rayOut, normal)
	if cosTheta <= 0 {
		return 0
	}
	return 2 * cosTheta
}

// Albedo returns the diffuse color scaled by cosθ
func (l *Lambertian) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	cosTheta := lambertCosine(rayIn, rayOut, normal)
	if cosTheta <= 0 {
		return core.Vec3{}
	}
	return l.Color.Multiply(cosTheta)
}

func (l *Lambertian) WantsImportanceSampling() bool { return true }
func (l *Lambertian) IsEmitter() bool { return false }
func (l *Lambertian) sealed() {}

// lambertCosine is the cosine between the outgoing direction and the normal
// turned toward the side the incoming ray came from
func lambertCosine(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	n := core.FaceForward(normal, rayIn.Direction)
	return rayOut.Direction.Normalize().Dot(n)
}
