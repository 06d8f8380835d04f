package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/integrator"
	"github.com/df07/go-loom/pkg/lights"
	"github.com/df07/go-loom/pkg/loaders"
)

// ErrEmptyScene is returned when compiling a scene without objects
var ErrEmptyScene = errors.New("scene has no objects")

// Scene contains all the elements needed for rendering
type Scene struct {
	CameraConfig geometry.CameraConfig
	Background   lights.Background
	Objects      []geometry.Hitable // Top-level objects, in document order
}

// LoadFile reads a JSON scene document. Seed drives mesh BVH construction.
func LoadFile(path string, seed int64, logger core.Logger) (*Scene, error) {
	doc, err := loaders.LoadScene(path, seed, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return &Scene{
		CameraConfig: doc.Camera,
		Background:   doc.Background,
		Objects:      doc.Objects,
	}, nil
}

// Compile collects the light regions, builds the top-level BVH and the
// camera. The scene itself is left untouched.
func (s *Scene) Compile(seed int64) (*integrator.World, *geometry.Camera, error) {
	if len(s.Objects) == 0 {
		return nil, nil, ErrEmptyScene
	}

	background := s.Background
	if background == nil {
		background = lights.Sky{}
	}

	objects := make([]geometry.Hitable, len(s.Objects))
	copy(objects, s.Objects)

	world := &integrator.World{
		Lights:     lights.NewLightSet(geometry.CollectLights(objects)),
		Background: background,
		Root:       geometry.BuildBVH(objects, core.NewSeededSampler(seed)),
	}
	return world, geometry.NewCamera(s.CameraConfig), nil
}

// GetPrimitiveCount returns the total number of primitives, counting every
// mesh triangle and descending into hitable lists
func (s *Scene) GetPrimitiveCount() int {
	return countPrimitives(s.Objects)
}

func countPrimitives(objects []geometry.Hitable) int {
	count := 0
	for _, object := range objects {
		switch obj := object.(type) {
		case *geometry.TriangleMesh:
			count += obj.TriangleCount()
		case *geometry.HitableList:
			count += countPrimitives(obj.Objects)
		default:
			count++
		}
	}
	return count
}
