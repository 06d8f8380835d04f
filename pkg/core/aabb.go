package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the identity box for Union: any real box unioned
// with it yields that box.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box.Update(point)
	}
	return box
}

// ffmin and ffmax drop a NaN operand in favour of the other one, which keeps
// the slab test well defined when the origin sits exactly on a slab plane of a
// zero direction component (0 * Inf).
func ffmin(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func ffmax(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Hit tests if a ray overlaps the box within [tMin, tMax] using the slab
// method. A zero direction component is not special-cased: 1/0 yields a
// signed infinity and the per-axis interval becomes either everything or
// nothing, which is the correct answer for a ray parallel to that slab.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)
		t0 := (aabb.Min.Axis(axis) - origin) * invD
		t1 := (aabb.Max.Axis(axis) - origin) * invD

		lo := ffmin(t0, t1)
		hi := ffmax(t0, t1)
		tMin = ffmax(lo, tMin)
		tMax = ffmin(hi, tMax)
		if tMax <= tMin {
			return false
		}
	}
	return true
}

// Update expands the box in place to contain point
func (aabb *AABB) Update(point Vec3) {
	aabb.Min = Vec3{min(aabb.Min.X, point.X), min(aabb.Min.Y, point.Y), min(aabb.Min.Z, point.Z)}
	aabb.Max = Vec3{max(aabb.Max.X, point.X), max(aabb.Max.Y, point.Y), max(aabb.Max.Z, point.Z)}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Pad returns the box widened to at least delta along every axis, so flat
// primitives still produce a box the slab test can hit
func (aabb AABB) Pad(delta float64) AABB {
	padded := aabb
	for axis := 0; axis < 3; axis++ {
		if aabb.Max.Axis(axis)-aabb.Min.Axis(axis) >= delta {
			continue
		}
		half := delta / 2
		switch axis {
		case 0:
			padded.Min.X -= half
			padded.Max.X += half
		case 1:
			padded.Min.Y -= half
			padded.Max.Y += half
		default:
			padded.Min.Z -= half
			padded.Max.Z += half
		}
	}
	return padded
}

// Corners returns the eight corner points of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		corner := aabb.Min
		if i&1 != 0 {
			corner.X = aabb.Max.X
		}
		if i&2 != 0 {
			corner.Y = aabb.Max.Y
		}
		if i&4 != 0 {
			corner.Z = aabb.Max.Z
		}
		corners[i] = corner
	}
	return corners
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Contains reports whether point lies inside or on the box
func (aabb AABB) Contains(point Vec3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}
