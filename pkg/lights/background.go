package lights

import "github.com/df07/go-loom/pkg/core"

// Sky is the white-to-blue vertical gradient
type Sky struct{}

var (
	skyHorizon = core.NewVec3(1, 1, 1)
	skyZenith  = core.NewVec3(0.5, 0.7, 1.0)
)

// Radiance blends from white at the nadir to pale blue at the zenith
func (Sky) Radiance(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Y + 1)
	return skyHorizon.Lerp(skyZenith, t)
}

func (Sky) sealed() {}

// OverheadLight is a white wash from above and darkness below the horizon
type OverheadLight struct{}

// Radiance returns (y, y, y) for upward directions and black otherwise
func (OverheadLight) Radiance(direction core.Vec3) core.Vec3 {
	if direction.Y <= 0 {
		return core.Vec3{}
	}
	return core.NewVec3(direction.Y, direction.Y, direction.Y)
}

func (OverheadLight) sealed() {}

// Constant returns the same color in every direction
type Constant struct {
	Color core.Vec3
}

// NewConstant creates a constant background
func NewConstant(color core.Vec3) Constant {
	return Constant{Color: color}
}

// Radiance returns the constant color
func (c Constant) Radiance(direction core.Vec3) core.Vec3 {
	return c.Color
}

func (c Constant) sealed() {}
