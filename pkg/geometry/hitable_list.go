package geometry

import (
	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

// HitableList is a flat collection scanned linearly. It is both a scene
// container and the leaf of the BVH.
type HitableList struct {
	Objects []Hitable
}

// NewHitableList creates a list over objects
func NewHitableList(objects ...Hitable) *HitableList {
	return &HitableList{Objects: objects}
}

// Hit returns the closest hit among all objects, shrinking tMax as it goes
func (l *HitableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all object boxes
func (l *HitableList) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for _, object := range l.Objects {
		box = box.Union(object.BoundingBox())
	}
	return box
}

// ImportanceDistribution panics: a list is not a light shape
func (l *HitableList) ImportanceDistribution() core.AABB {
	panic("geometry: importance distribution requested from a hitable list")
}

func (l *HitableList) sealed() {}
