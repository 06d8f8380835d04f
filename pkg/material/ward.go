package material

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// wardEpsilon is the smallest cosine treated as above the surface
const wardEpsilon = 1e-8

// Ward is the isotropic Ward glossy reflection model. RhoS is the specular
// reflectance and Alpha the surface roughness (standard deviation of the
// microfacet slope).
type Ward struct {
	Color core.Vec3 // Specular tint
	RhoS  float64
	Alpha float64
}

// NewWard creates a new Ward material
func NewWard(color core.Vec3, rhoS, alpha float64) *Ward {
	return &Ward{Color: color, RhoS: rhoS, Alpha: alpha}
}

// Scatter samples a half-vector from the Ward distribution and reflects the
// incoming direction about it
func (w *Ward) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) Scatter {
	n := core.FaceForward(hit.Normal, rayIn.Direction)
	i := rayIn.Direction.Normalize().Negate()
	if i.Dot(n) <= wardEpsilon {
		return Absorbed()
	}

	// 1-u keeps the logarithm finite
	u, v := sampler.Get1D(), sampler.Get1D()
	thetaH := math.Atan(w.Alpha * math.Sqrt(-math.Log(1-u)))
	phiH := 2 * math.Pi * v

	tangent, _ := core.TangentSpace(n)
	h := core.RotateAbout(core.RotateAbout(n, tangent, thetaH), n, phiH)
	o := h.Multiply(2 * i.Dot(h)).Subtract(i)
	if o.Dot(n) <= wardEpsilon {
		return Absorbed()
	}

	rayOut := core.NewRay(hit.Point, o)
	density := w.BSDF(rayIn, rayOut, hit.Normal)
	if density <= 0 {
		return Absorbed()
	}
	return Bounced(w.Albedo(rayIn, rayOut, hit.Normal).Multiply(2/density), rayOut)
}

// BSDF returns the density of the reflected direction produced by Scatter
func (w *Ward) BSDF(rayIn, rayOut core.Ray, normal core.Vec3) float64 {
	g, ok := w.geometry(rayIn, rayOut, normal)
	if !ok {
		return 0
	}
	a2 := w.Alpha * w.Alpha
	cosH := g.h.Dot(g.n)
	halfDensity := math.Exp(g.exponent) / (math.Pi * a2 * cosH * cosH * cosH)
	return 2 * math.Pi * halfDensity / (4 * g.h.Dot(g.o))
}

// Albedo returns π·f·cosθo tinted by Color
func (w *Ward) Albedo(rayIn, rayOut core.Ray, normal core.Vec3) core.Vec3 {
	g, ok := w.geometry(rayIn, rayOut, normal)
	if !ok {
		return core.Vec3{}
	}
	a2 := w.Alpha * w.Alpha
	f := w.RhoS / (4 * math.Pi * a2 * math.Sqrt(g.cosI*g.cosO)) * math.Exp(g.exponent)
	return w.Color.Multiply(math.Pi * f * g.cosO)
}

func (w *Ward) WantsImportanceSampling() bool { return true }
func (w *Ward) IsEmitter() bool { return false }
func (w *Ward) sealed() {}

type wardGeometry struct {
	n, o, h    core.Vec3
	cosI, cosO float64
	exponent   float64 // -((h·x/α)² + (h·y/α)²) / (h·n)²
}

func (w *Ward) geometry(rayIn, rayOut core.Ray, normal core.Vec3) (wardGeometry, bool) {
	n := core.FaceForward(normal, rayIn.Direction)
	i := rayIn.Direction.Normalize().Negate()
	o := rayOut.Direction.Normalize()
	cosI, cosO := i.Dot(n), o.Dot(n)
	if cosI <= wardEpsilon || cosO <= wardEpsilon {
		return wardGeometry{}, false
	}

	h := i.Lerp(o, 0.5).Normalize()
	hn := h.Dot(n)
	if hn <= 0 {
		return wardGeometry{}, false
	}
	x, y := core.TangentSpace(n)
	hx, hy := h.Dot(x)/w.Alpha, h.Dot(y)/w.Alpha
	return wardGeometry{
		n:        n,
		o:        o,
		h:        h,
		cosI:     cosI,
		cosO:     cosO,
		exponent: -(hx*hx + hy*hy) / (hn * hn),
	}, true
}
