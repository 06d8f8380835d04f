package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// unitTolerance is how far a normal's length may stray from 1
const unitTolerance = 1e-6

// Disc is a flat circular sampling target: the stand-in shape a light box
// is projected to before sampling
type Disc struct {
	Center core.Vec3
	Normal core.Vec3 // Unit normal
	Radius float64
	u, v   core.Vec3 // Orthonormal basis of the disc plane
}

// NewDisc creates a disc. It panics when normal is not unit length: callers
// always build the normal by normalizing, so anything else is a bug.
func NewDisc(center, normal core.Vec3, radius float64) Disc {
	if math.Abs(normal.Length()-1) > unitTolerance {
		panic(fmt.Sprintf("lights: disc normal %v is not unit length", normal))
	}
	u, v := core.TangentSpace(normal)
	return Disc{
		Center: center,
		Normal: normal,
		Radius: radius,
		u:      u,
		v:      v,
	}
}

// Area returns πr²
func (d Disc) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// Plane returns the plane the disc lies in
func (d Disc) Plane() Plane {
	return NewPlane(d.Center, d.Normal)
}

// Sample maps a uniform 2D sample to a uniformly distributed point on the disc
func (d Disc) Sample(sample core.Vec2) core.Vec3 {
	p := core.SamplePointInUnitDisk(sample).Multiply(d.Radius)
	return d.Center.Add(d.u.Multiply(p.X)).Add(d.v.Multiply(p.Y))
}

// Contains reports whether a point of the disc plane lies within the radius
func (d Disc) Contains(point core.Vec3) bool {
	return point.Subtract(d.Center).LengthSquared() <= d.Radius*d.Radius
}

// SolidAngleDensity returns the solid-angle density of reaching the disc
// along direction from origin when points are drawn uniformly by Sample.
// Directions that miss the disc have density 0.
func (d Disc) SolidAngleDensity(origin, direction core.Vec3) float64 {
	if d.Radius <= 0 {
		return 0
	}
	direction = direction.Normalize()
	t, ok := d.Plane().Intersect(core.NewRay(origin, direction))
	if !ok || !d.Contains(origin.Add(direction.Multiply(t))) {
		return 0
	}
	cosine := math.Abs(direction.Dot(d.Normal))
	if cosine < planeEpsilon {
		return 0
	}
	return t * t / (d.Area() * cosine)
}
