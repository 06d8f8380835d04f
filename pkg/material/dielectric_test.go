package material

import (
	"math"
	"testing"

	"github.com/df07/go-loom/pkg/core"
)

func TestDielectric_WhiteAttenuation(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewSeededSampler(42)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))
	hit := &HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0), T: 1, Material: glass}

	for i := 0; i < 50; i++ {
		scatter := glass.Scatter(ray, hit, sampler)
		if scatter.Kind != Bounce {
			t.Fatalf("Dielectric should always bounce, got %v", scatter.Kind)
		}
		if scatter.Attenuation != core.NewVec3(1, 1, 1) {
			t.Errorf("Expected white attenuation, got %v", scatter.Attenuation)
		}
	}
}

func TestDielectric_ReflectsAndRefracts(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewSeededSampler(3)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))
	hit := &HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0)}

	reflected, refracted := 0, 0
	for i := 0; i < 2000; i++ {
		scatter := glass.Scatter(ray, hit, sampler)
		if scatter.Ray.Direction.Y > 0 {
			reflected++
		} else {
			refracted++
		}
	}
	if reflected == 0 || refracted == 0 {
		t.Errorf("Expected both lobes, got %d reflected, %d refracted", reflected, refracted)
	}
	if reflected > refracted {
		t.Errorf("At 45 degrees refraction should dominate (%d vs %d)", reflected, refracted)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewSeededSampler(5)
	// Leaving the glass at a grazing angle, past the critical angle
	ray := core.NewRay(core.Vec3{}, core.NewVec3(1, 0.2, 0))
	hit := &HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0)}

	for i := 0; i < 100; i++ {
		scatter := glass.Scatter(ray, hit, sampler)
		if scatter.Ray.Direction.Y >= 0 {
			t.Fatalf("Expected total internal reflection, got %v", scatter.Ray.Direction)
		}
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence on glass: ((1-1.5)/(1+1.5))^2 = 0.04
	if got := Reflectance(1, 1.5); math.Abs(got-0.04) > 1e-12 {
		t.Errorf("Reflectance(1, 1.5) = %f, want 0.04", got)
	}
	if got := Reflectance(0, 1.5); math.Abs(got-1) > 1e-12 {
		t.Errorf("Reflectance(0, 1.5) = %f, want 1", got)
	}
}
