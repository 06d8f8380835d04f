package core

import (
	"math"
	"math/rand"
)

// Vec2 holds a pair of sample values
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides random sampling for rendering algorithms.
// Each render shard owns its own Sampler; implementations are not safe for
// concurrent use.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
	// IntRange returns a uniformly distributed integer in [lo, hi)
	IntRange(lo, hi int) int
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own stream seeded from seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// IntRange returns a random int in [lo, hi). Panics if hi <= lo.
func (r *RandomSampler) IntRange(lo, hi int) int {
	return lo + r.random.Intn(hi-lo)
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	// Apply concentric mapping to point
	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// SampleCosineAbout returns a cosine-distributed unit direction about the unit
// normal n by offsetting n with a uniform point on the unit sphere.
func SampleCosineAbout(n Vec3, sample Vec2) Vec3 {
	direction := n.Add(SampleOnUnitSphere(sample))
	if direction.LengthSquared() < 1e-12 {
		return n
	}
	return direction.Normalize()
}

// tangentEpsilon is the shortest cross product accepted as a tangent
const tangentEpsilon = 1e-6

// TangentSpace builds an orthonormal pair (u, v) perpendicular to the unit
// normal n. The tangent is n×X, falling back to n×Y and then n×Z when the
// normal is (nearly) parallel to the candidate axis.
func TangentSpace(n Vec3) (Vec3, Vec3) {
	axes := [3]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	var u Vec3
	for _, axis := range axes {
		u = n.Cross(axis)
		if u.Length() > tangentEpsilon {
			break
		}
	}
	u = u.Normalize()
	return u, n.Cross(u)
}
