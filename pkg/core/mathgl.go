package core

import "github.com/go-gl/mathgl/mgl64"

// ToMgl converts a Vec3 to its mathgl representation
func ToMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMgl converts a mathgl vector back to a Vec3
func FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// RotateAbout rotates v by angle radians around the unit axis
func RotateAbout(v, axis Vec3, angle float64) Vec3 {
	return FromMgl(mgl64.QuatRotate(angle, ToMgl(axis)).Rotate(ToMgl(v)))
}

// Det3 returns the determinant of the 3x3 matrix with columns a, b, c
func Det3(a, b, c Vec3) float64 {
	return mgl64.Mat3FromCols(ToMgl(a), ToMgl(b), ToMgl(c)).Det()
}
