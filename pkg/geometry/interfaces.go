package geometry

import (
	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

// Hitable is the closed family of objects a ray can be intersected with:
// Sphere, Rectangle, TriangleMesh, HitableList and BVHNode.
type Hitable interface {
	// Hit returns the closest intersection with t in (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	// BoundingBox returns a finite box containing the object
	BoundingBox() core.AABB
	// ImportanceDistribution returns the region light sampling should aim
	// at. Aggregates panic: they have no meaningful single region.
	ImportanceDistribution() core.AABB

	sealed()
}

// Surface is a primitive with a single material
type Surface interface {
	Hitable
	Material() material.Material
}

// flatPadding thickens the boxes of flat primitives
const flatPadding = 1e-4
