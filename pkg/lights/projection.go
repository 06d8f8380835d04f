package lights

import (
	"math"

	"github.com/df07/go-loom/pkg/core"
)

// maxDiscAngle caps the angular radius of a projected disc so its radius
// tan(angle) stays finite when the shading point is inside or beside a box
var maxDiscAngle = 85 * math.Pi / 180

// ProjectBox projects a light's bounding box onto a disc tangent to the unit
// sphere around point. The disc axis is the mean direction to the eight box
// corners and its angular radius the largest corner deviation from that
// axis. The result is a cheap bounding cone, not the exact silhouette.
// fallback (unit) is used as the axis when the corner directions cancel out.
func ProjectBox(point core.Vec3, box core.AABB, fallback core.Vec3) Disc {
	corners := box.Corners()
	var directions [8]core.Vec3
	sum := core.Vec3{}
	for i, corner := range corners {
		directions[i] = corner.Subtract(point).Normalize()
		sum = sum.Add(directions[i])
	}

	axis := fallback
	if sum.Length() > 1e-9 {
		axis = sum.Normalize()
	}

	maxAngle := 0.0
	for _, direction := range directions {
		cosine := math.Max(-1, math.Min(1, direction.Dot(axis)))
		maxAngle = math.Max(maxAngle, math.Acos(cosine))
	}
	maxAngle = math.Min(maxAngle, maxDiscAngle)

	return NewDisc(point.Add(axis), axis, math.Tan(maxAngle))
}
