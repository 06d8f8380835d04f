package core

import (
	"math"
	"testing"
)

func TestAABB_Hit_Slabs(t *testing.T) {
	box := NewAABB(NewVec3(1, 1, 1), NewVec3(2, 2, 2))
	origin := NewVec3(1.5, 1.5, 0)

	tests := []struct {
		name      string
		direction Vec3
		tMin      float64
		tMax      float64
		expected  bool
	}{
		{"straight through", NewVec3(0, 0, 1), 1e-4, 1e20, true},
		{"interval ends before box", NewVec3(0, 0, 1), 1e-4, 0.5, false},
		{"oblique miss", NewVec3(1.6, 0, 1), 1e-4, 1e20, false},
		{"pointing away", NewVec3(0, 0, -1), 1e-4, 1e20, false},
		{"interval starts after box", NewVec3(0, 0, 1), 2.5, 1e20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewRay(origin, tt.direction)
			if got := box.Hit(ray, tt.tMin, tt.tMax); got != tt.expected {
				t.Errorf("Hit = %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestAABB_Hit_ZeroDirectionComponents(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"parallel inside slab", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"parallel outside slab", NewRay(NewVec3(3, 0, -5), NewVec3(0, 0, 1)), false},
		{"origin on slab plane", NewRay(NewVec3(1, 0, -5), NewVec3(0, 0, 1)), true},
		{"negative zero component", NewRay(NewVec3(0, 0, -5), NewVec3(math.Copysign(0, -1), 0, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 1e-4, 1e20); got != tt.expected {
				t.Errorf("Hit = %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestAABB_EmptyIsUnionIdentity(t *testing.T) {
	box := NewAABB(NewVec3(-1, 2, 3), NewVec3(4, 5, 6))
	if got := EmptyAABB().Union(box); got != box {
		t.Errorf("Empty ∪ box = %v, want %v", got, box)
	}
	if got := box.Union(EmptyAABB()); got != box {
		t.Errorf("box ∪ Empty = %v, want %v", got, box)
	}
	if EmptyAABB().IsValid() {
		t.Error("empty box should not be valid")
	}
}

func TestAABB_Update(t *testing.T) {
	box := EmptyAABB()
	box.Update(NewVec3(1, 2, 3))
	box.Update(NewVec3(-1, 5, 0))

	want := NewAABB(NewVec3(-1, 2, 0), NewVec3(1, 5, 3))
	if box != want {
		t.Errorf("Update gave %v, want %v", box, want)
	}
	if got := NewAABBFromPoints(NewVec3(1, 2, 3), NewVec3(-1, 5, 0)); got != want {
		t.Errorf("NewAABBFromPoints gave %v, want %v", got, want)
	}
}

func TestAABB_Corners(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	seen := make(map[Vec3]bool)
	for _, corner := range box.Corners() {
		if !box.Contains(corner) {
			t.Errorf("corner %v outside box", corner)
		}
		seen[corner] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct corners, got %d", len(seen))
	}
}

func TestAABB_PadFlatBox(t *testing.T) {
	flat := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 0))
	ray := NewRay(NewVec3(0.5, 0.5, -1), NewVec3(0, 0, 1))
	if flat.Hit(ray, 1e-4, 1e20) {
		t.Error("a zero-thickness box has an empty slab interval")
	}
	padded := flat.Pad(1e-4)
	if !padded.Hit(ray, 1e-4, 1e20) {
		t.Error("padded box should be hit")
	}
	if padded.Min.X != 0 || padded.Max.X != 1 {
		t.Errorf("thick axes should be untouched, got %v", padded)
	}
}
