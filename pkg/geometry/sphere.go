package geometry

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

// Sphere represents a sphere. A negative radius flips the normal inward,
// which is how hollow glass shells are built.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant <= 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Nearest root first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	return &material.HitRecord{
		T:        root,
		Point:    point,
		Normal:   point.Subtract(s.Center).Divide(s.Radius),
		Material: s.material,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := math.Abs(s.Radius)
	radiusVec := core.NewVec3(r, r, r)
	return core.NewAABB(
		s.Center.Subtract(radiusVec),
		s.Center.Add(radiusVec),
	)
}

// ImportanceDistribution is the bounding box
func (s *Sphere) ImportanceDistribution() core.AABB {
	return s.BoundingBox()
}

// Material returns the sphere's material
func (s *Sphere) Material() material.Material {
	return s.material
}

func (s *Sphere) sealed() {}
