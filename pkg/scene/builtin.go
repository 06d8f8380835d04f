package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/lights"
	"github.com/df07/go-loom/pkg/material"
)

var builtins = map[string]struct {
	description string
	build       func() *Scene
}{
	"default": {"Ground, a small spherical light and a mirror sphere", NewDefaultScene},
	"cornell": {"Cornell box with a ceiling light, a mirror and a glass sphere", NewCornellScene},
	"spheres": {"Field of random diffuse, metal and glass spheres under the sky", NewSpheresScene},
}

// Builtin returns a fresh copy of the named built-in scene
func Builtin(name string) (*Scene, error) {
	entry, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in scene %q (have %v)", name, BuiltinNames())
	}
	return entry.build(), nil
}

// BuiltinNames lists the built-in scenes in alphabetical order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDefaultScene creates a large diffuse ground sphere lit by a small
// emissive sphere, with a mirror sphere beside the light
func NewDefaultScene() *Scene {
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	light := material.NewEmitter(core.NewVec3(8, 8, 8))
	mirror := material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0)

	return &Scene{
		CameraConfig: geometry.CameraConfig{
			LookFrom:  core.NewVec3(0, 2, 8),
			LookAt:    core.NewVec3(0, 1, 0),
			VUp:       core.NewVec3(0, 1, 0),
			VFov:      40,
			Aspect:    2,
			FocusDist: 8,
		},
		Background: lights.Sky{},
		Objects: []geometry.Hitable{
			geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
			geometry.NewSphere(core.NewVec3(0, 3, 0), 0.5, light),
			geometry.NewSphere(core.NewVec3(1.5, 1, 0), 1, mirror),
		},
	}
}

// NewCornellScene creates a 2x2x2 box open toward the camera, lit only by a
// square emitter just below the ceiling
func NewCornellScene() *Scene {
	white := material.NewLambertian(core.NewVec3(0.725, 0.71, 0.68))
	red := material.NewLambertian(core.NewVec3(0.63, 0.065, 0.05))
	green := material.NewLambertian(core.NewVec3(0.14, 0.45, 0.091))
	light := material.NewEmitter(core.NewVec3(15, 15, 15))

	x := core.NewVec3(2, 0, 0)
	y := core.NewVec3(0, 2, 0)
	z := core.NewVec3(0, 0, 2)
	corner := core.NewVec3(-1, 0, -1)

	walls := geometry.NewHitableList(
		geometry.NewRectangle(corner, x, z, white),        // floor
		geometry.NewRectangle(corner.Add(y), x, z, white), // ceiling
		geometry.NewRectangle(corner, x, y, white),        // back
		geometry.NewRectangle(corner, z, y, red),          // left
		geometry.NewRectangle(corner.Add(x), z, y, green), // right
	)

	return &Scene{
		CameraConfig: geometry.CameraConfig{
			LookFrom:  core.NewVec3(0, 1, 5),
			LookAt:    core.NewVec3(0, 1, -1),
			VUp:       core.NewVec3(0, 1, 0),
			VFov:      29,
			Aspect:    1,
			FocusDist: 5,
		},
		Background: lights.NewConstant(core.Vec3{}),
		Objects: []geometry.Hitable{
			walls,
			geometry.NewRectangle(core.NewVec3(-0.25, 1.98, -0.25), core.NewVec3(0.5, 0, 0), core.NewVec3(0, 0, 0.5), light),
			geometry.NewSphere(core.NewVec3(-0.4, 0.4, -0.3), 0.4, material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.05)),
			geometry.NewSphere(core.NewVec3(0.45, 0.3, 0.3), 0.3, material.NewDielectric(1.5)),
		},
	}
}

// NewSpheresScene creates a ground sphere covered by a grid of small
// randomly chosen spheres around three large ones. The layout is fixed.
func NewSpheresScene() *Scene {
	random := core.NewSeededSampler(2)

	objects := []geometry.Hitable{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	}

	for a := -5; a < 5; a++ {
		for b := -5; b < 5; b++ {
			center := core.NewVec3(float64(a)+0.9*random.Get1D(), 0.2, float64(b)+0.9*random.Get1D())
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch choice := random.Get1D(); {
			case choice < 0.7:
				mat = material.NewLambertian(random.Get3D().MultiplyVec(random.Get3D()))
			case choice < 0.9:
				mat = material.NewMetal(random.Get3D().Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5)), 0.5*random.Get1D())
			default:
				mat = material.NewDielectric(1.5)
			}
			objects = append(objects, geometry.NewSphere(center, 0.2, mat))
		}
	}

	return &Scene{
		CameraConfig: geometry.CameraConfig{
			LookFrom:  core.NewVec3(13, 2, 3),
			LookAt:    core.NewVec3(0, 0, 0),
			VUp:       core.NewVec3(0, 1, 0),
			VFov:      20,
			Aspect:    1.5,
			Aperture:  0.1,
			FocusDist: 10,
		},
		Background: lights.Sky{},
		Objects:    objects,
	}
}
