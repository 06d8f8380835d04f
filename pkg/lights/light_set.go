package lights

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// LightSet samples directions toward a fixed list of light boxes. A light is
// chosen uniformly, its box projected to a disc around the shading point, and
// a point on that disc drawn uniformly. It is immutable and shared by all
// render shards.
type LightSet struct {
	boxes []core.AABB
}

// NewLightSet creates a light set over the importance regions of emitters
func NewLightSet(boxes []core.AABB) *LightSet {
	return &LightSet{boxes: append([]core.AABB(nil), boxes...)}
}

// Len returns the number of lights
func (ls *LightSet) Len() int {
	return len(ls.boxes)
}

// Boxes returns the light boxes
func (ls *LightSet) Boxes() []core.AABB {
	return ls.boxes
}

// Sample draws a unit direction from point toward a uniformly chosen light
func (ls *LightSet) Sample(point, normal core.Vec3, sampler core.Sampler) (core.Vec3, bool) {
	if len(ls.boxes) == 0 {
		return core.Vec3{}, false
	}
	box := ls.boxes[sampler.IntRange(0, len(ls.boxes))]
	disc := ProjectBox(point, box, normal)
	target := disc.Sample(sampler.Get2D())
	direction := target.Subtract(point).Normalize()
	if direction.LengthSquared() == 0 {
		return core.Vec3{}, false
	}
	return direction, true
}

// Density returns the density of Sample producing direction, relative to
// dω/2π: the mean over lights of each disc's solid-angle density, times 2π.
// Directions at or below the surface have density 0.
func (ls *LightSet) Density(point, normal, direction core.Vec3) float64 {
	if len(ls.boxes) == 0 || direction.Dot(normal) <= 0 {
		return 0
	}
	total := 0.0
	for _, box := range ls.boxes {
		total += ProjectBox(point, box, normal).SolidAngleDensity(point, direction)
	}
	return 2 * math.Pi * total / float64(len(ls.boxes))
}
