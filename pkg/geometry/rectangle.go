package geometry

import (
	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

// Rectangle is a parallelogram spanned by Right and Up from BottomLeft.
// Its normal is unit(Right × Up).
type Rectangle struct {
	BottomLeft core.Vec3
	Right      core.Vec3
	Up         core.Vec3
	normal     core.Vec3
	material   material.Material
}

// NewRectangle creates a new rectangle
func NewRectangle(bottomLeft, right, up core.Vec3, mat material.Material) *Rectangle {
	return &Rectangle{
		BottomLeft: bottomLeft,
		Right:      right,
		Up:         up,
		normal:     right.Cross(up).Normalize(),
		material:   mat,
	}
}

// Hit solves BottomLeft + α·Right + β·Up = origin + γ·direction with
// Cramer's rule and accepts α, β in (0, 1) and γ in (tMin, tMax)
func (r *Rectangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	d := ray.Direction
	delta := core.Det3(r.Right, r.Up, d)
	if delta == 0 {
		// Ray parallel to the plane
		return nil, false
	}

	ob := ray.Origin.Subtract(r.BottomLeft)
	alpha := core.Det3(ob, r.Up, d) / delta
	if alpha <= 0 || alpha >= 1 {
		return nil, false
	}
	beta := core.Det3(r.Right, ob, d) / delta
	if beta <= 0 || beta >= 1 {
		return nil, false
	}
	gamma := -core.Det3(r.Right, r.Up, ob) / delta
	if gamma <= tMin || gamma >= tMax {
		return nil, false
	}

	return &material.HitRecord{
		T:        gamma,
		Point:    ray.At(gamma),
		Normal:   r.normal,
		Material: r.material,
	}, true
}

// BoundingBox returns the box of the four corners, thickened along any flat axis
func (r *Rectangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		r.BottomLeft,
		r.BottomLeft.Add(r.Right),
		r.BottomLeft.Add(r.Up),
		r.BottomLeft.Add(r.Right).Add(r.Up),
	).Pad(flatPadding)
}

// ImportanceDistribution is the bounding box
func (r *Rectangle) ImportanceDistribution() core.AABB {
	return r.BoundingBox()
}

// Material returns the rectangle's material
func (r *Rectangle) Material() material.Material {
	return r.material
}

func (r *Rectangle) sealed() {}
