package geometry

import (
	"sort"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

// leafThreshold: at or below this many objects a linear scan beats traversal
const leafThreshold = 32

// BVHNode is an internal node of the bounding volume hierarchy
type BVHNode struct {
	box   core.AABB
	Left  Hitable
	Right Hitable
}

// BuildBVH consumes objects and returns a single Hitable over all of them:
// a HitableList for small inputs, otherwise a tree split at the median of a
// randomly chosen axis. The slice is reordered in place and must not be
// reused by the caller. Panics on an empty slice.
func BuildBVH(objects []Hitable, sampler core.Sampler) Hitable {
	if len(objects) == 0 {
		panic("geometry: cannot build a BVH over zero objects")
	}
	return buildBVH(objects, sampler)
}

func buildBVH(objects []Hitable, sampler core.Sampler) Hitable {
	if len(objects) <= leafThreshold {
		return NewHitableList(objects...)
	}

	axis := sampler.IntRange(0, 3)
	sortByBoxMin(objects, axis)

	mid := len(objects) / 2
	left := buildBVH(objects[:mid], sampler)
	right := buildBVH(objects[mid:], sampler)
	return &BVHNode{
		box:   left.BoundingBox().Union(right.BoundingBox()),
		Left:  left,
		Right: right,
	}
}

// sortByBoxMin orders objects by the minimum of their bounding box on axis
func sortByBoxMin(objects []Hitable, axis int) {
	type keyed struct {
		key    float64
		object Hitable
	}
	entries := make([]keyed, len(objects))
	for i, object := range objects {
		entries[i] = keyed{object.BoundingBox().Min.Axis(axis), object}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	for i, entry := range entries {
		objects[i] = entry.object
	}
}

// Hit prunes on the node box, then tests both children and keeps the closer hit
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)
	rightHit, hitRight := n.Right.Hit(ray, tMin, tMax)

	switch {
	case hitLeft && hitRight:
		if leftHit.T < rightHit.T {
			return leftHit, true
		}
		return rightHit, true
	case hitLeft:
		return leftHit, true
	case hitRight:
		return rightHit, true
	default:
		return nil, false
	}
}

// BoundingBox returns the union of the children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.box
}

// ImportanceDistribution panics: an aggregate has no light shape
func (n *BVHNode) ImportanceDistribution() core.AABB {
	panic("geometry: importance distribution requested from a BVH node")
}

func (n *BVHNode) sealed() {}

// bvhStats summarizes tree shape for tests
type bvhStats struct {
	internalNodes int
	leaves        int
	maxDepth      int
	maxLeafSize   int
}

func getStats(h Hitable, depth int, stats *bvhStats) {
	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}
	switch node := h.(type) {
	case *BVHNode:
		stats.internalNodes++
		getStats(node.Left, depth+1, stats)
		getStats(node.Right, depth+1, stats)
	case *HitableList:
		stats.leaves++
		stats.maxLeafSize = max(stats.maxLeafSize, len(node.Objects))
	}
}
