package geometry

import (
	"github.com/df07/go-loom/pkg/core"
)

// CollectLights returns the importance distributions of every emissive
// surface among objects, descending into hitable lists
func CollectLights(objects []Hitable) []core.AABB {
	var lights []core.AABB
	for _, object := range objects {
		switch o := object.(type) {
		case *HitableList:
			lights = append(lights, CollectLights(o.Objects)...)
		case Surface:
			if o.Material() != nil && o.Material().IsEmitter() {
				lights = append(lights, o.ImportanceDistribution())
			}
		}
	}
	return lights
}
