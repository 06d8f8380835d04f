package lights

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// planeEpsilon rejects rays running parallel to a plane
const planeEpsilon = 1e-12

// Plane is an infinite plane through Point with unit Normal
type Plane struct {
	Point  core.Vec3
	Normal core.Vec3
}

// NewPlane creates a plane through point with the given unit normal
func NewPlane(point, normal core.Vec3) Plane {
	return Plane{Point: point, Normal: normal}
}

// Intersect returns the ray parameter where the ray crosses the plane.
// Rays parallel to the plane, and crossings at or behind the origin, miss.
func (p Plane) Intersect(ray core.Ray) (float64, bool) {
	denom := p.Normal.Dot(ray.Direction)
	if math.Abs(denom) < planeEpsilon {
		return 0, false
	}
	t := p.Normal.Dot(p.Point.Subtract(ray.Origin)) / denom
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// SignedDistance returns the distance of point above the plane along Normal
func (p Plane) SignedDistance(point core.Vec3) float64 {
	return point.Subtract(p.Point).Dot(p.Normal)
}
