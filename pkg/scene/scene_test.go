package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/material"
)

func TestBuiltins_Compile(t *testing.T) {
	tests := []struct {
		name   string
		lights int
	}{
		{"default", 1},
		{"cornell", 1},
		{"spheres", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Builtin(tt.name)
			if err != nil {
				t.Fatalf("Builtin(%q): %v", tt.name, err)
			}
			world, camera, err := s.Compile(1)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if camera == nil || world.Root == nil || world.Background == nil {
				t.Fatal("Compile returned an incomplete world")
			}
			if got := world.Lights.Len(); got != tt.lights {
				t.Errorf("Expected %d lights, got %d", tt.lights, got)
			}
		})
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	if _, err := Builtin("teapot"); err == nil {
		t.Error("Expected error for unknown built-in scene")
	}
}

func TestBuiltin_FreshCopies(t *testing.T) {
	a, _ := Builtin("spheres")
	b, _ := Builtin("spheres")
	if len(a.Objects) != len(b.Objects) {
		t.Fatalf("Object counts differ: %d vs %d", len(a.Objects), len(b.Objects))
	}
	if &a.Objects[0] == &b.Objects[0] {
		t.Error("Builtin returned a shared object slice")
	}
	for i := range a.Objects {
		if a.Objects[i].BoundingBox() != b.Objects[i].BoundingBox() {
			t.Fatalf("Object %d differs between builds", i)
		}
	}
}

func TestCompile_DefaultSceneGeometry(t *testing.T) {
	world, _, err := NewDefaultScene().Compile(3)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 3, 5), core.NewVec3(0, 0, -1))
	hit, ok := world.Root.Hit(ray, 1e-4, 1e20)
	if !ok {
		t.Fatal("Expected to hit the light")
	}
	if _, isEmitter := hit.Material.(*material.Emitter); !isEmitter {
		t.Errorf("Hit material = %T, want *material.Emitter", hit.Material)
	}
	if diff := hit.T - 4.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Hit t = %v, want 4.5", hit.T)
	}
}

func TestCompile_EmptyScene(t *testing.T) {
	_, _, err := (&Scene{}).Compile(1)
	if !errors.Is(err, ErrEmptyScene) {
		t.Errorf("Expected ErrEmptyScene, got %v", err)
	}
}

func TestCompile_LeavesSceneUntouched(t *testing.T) {
	s := NewSpheresScene()
	before := make([]geometry.Hitable, len(s.Objects))
	copy(before, s.Objects)

	if _, _, err := s.Compile(9); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for i := range before {
		if s.Objects[i] != before[i] {
			t.Fatalf("Object %d moved during compilation", i)
		}
	}
}

func TestGetPrimitiveCount(t *testing.T) {
	mesh, err := geometry.NewTriangleMesh(
		[]core.Vec3{{X: 0}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		[]int{0, 1, 2, 1, 3, 2},
		material.NewLambertian(core.NewVec3(1, 1, 1)),
		core.NewSeededSampler(1),
	)
	if err != nil {
		t.Fatal(err)
	}
	lambert := material.NewLambertian(core.NewVec3(1, 1, 1))
	s := &Scene{Objects: []geometry.Hitable{
		mesh,
		geometry.NewHitableList(
			geometry.NewSphere(core.NewVec3(0, 0, 0), 1, lambert),
			geometry.NewSphere(core.NewVec3(3, 0, 0), 1, lambert),
		),
		geometry.NewSphere(core.NewVec3(6, 0, 0), 1, lambert),
	}}

	if got := s.GetPrimitiveCount(); got != 5 {
		t.Errorf("GetPrimitiveCount() = %d, want 5", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	doc := `{
		"background": {"class": "constant", "object": {"color": [1,1,1]}},
		"camera": {"look_from": [0,0,5], "look_at": [0,0,0], "vup": [0,1,0],
			"vfov": 30, "aspect": 1.5, "aperture": 0, "focus_dist": 5},
		"object_list": [
			{"class": "sphere", "object": {"center": [0,0,0], "radius": 1,
				"material": {"class": "emitter", "object": {"emission": [2,2,2]}}}}
		]
	}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path, 1, core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.CameraConfig.Aspect != 1.5 || len(s.Objects) != 1 {
		t.Errorf("Unexpected scene: %+v", s)
	}
	world, _, err := s.Compile(1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if world.Lights.Len() != 1 {
		t.Errorf("Expected 1 light, got %d", world.Lights.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), 1, core.NopLogger{}); err == nil {
		t.Error("Expected error for a missing file")
	}
}
