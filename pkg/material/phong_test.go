package material

import (
	"math"
	"testing"

	"github.com/df07/go-loom/pkg/core"
)

func TestPhong_Scatter(t *testing.T) {
	color := core.NewVec3(0.7, 0.6, 0.5)
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := &HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}
	mirror := core.NewVec3(0, 1, -1).Normalize()

	tests := []struct {
		name       string
		glossiness float64
		minCosine  float64 // lower bound on dot(direction, mirror)
	}{
		{"mirror", 0, 1 - 1e-9},
		{"glossy", 0.2, 0.5},
		{"diffuse", 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phong := NewPhong(color, tt.glossiness)
			sampler := core.NewSeededSampler(42)
			for i := 0; i < 1000; i++ {
				result := phong.Scatter(rayIn, hit, sampler)
				if result.Kind == Absorb {
					continue
				}
				if result.Kind != Bounce {
					t.Fatalf("Expected bounce, got %v", result.Kind)
				}
				if result.Attenuation != color {
					t.Fatalf("Expected attenuation %v, got %v", color, result.Attenuation)
				}
				direction := result.Ray.Direction.Normalize()
				if direction.Dot(hit.Normal) <= 0 {
					t.Fatalf("Scattered direction %v points into the surface", direction)
				}
				if cos := direction.Dot(mirror); cos < tt.minCosine {
					t.Fatalf("Direction %v is %.3f from the mirror direction, want at least %.3f", direction, cos, tt.minCosine)
				}
			}
		})
	}
}

func TestPhong_AbsorbsFromInside(t *testing.T) {
	phong := NewPhong(core.NewVec3(1, 1, 1), 0)
	rayIn := core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))
	hit := &HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}

	if result := phong.Scatter(rayIn, hit, core.NewSeededSampler(1)); result.Kind != Absorb {
		t.Errorf("Expected absorb for a ray leaving through the surface, got %v", result.Kind)
	}
}

func TestPhong_Flags(t *testing.T) {
	phong := NewPhong(core.NewVec3(1, 1, 1), 0.5)
	if phong.WantsImportanceSampling() {
		t.Error("Phong has no closed-form density and should not request importance sampling")
	}
	if phong.IsEmitter() {
		t.Error("Phong is not an emitter")
	}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if bsdf := phong.BSDF(ray, ray, core.NewVec3(0, 1, 0)); math.Abs(bsdf) > 0 {
		t.Errorf("Expected zero BSDF, got %v", bsdf)
	}
}
