package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/material"
	"github.com/df07/go-loom/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

func vec3JSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vec3JSON(m.Color)
		return "lambertian", properties
	case *material.Metal:
		properties["albedo"] = vec3JSON(m.Color)
		properties["fuzz"] = m.Fuzzness
		return "metal", properties
	case *material.Dielectric:
		properties["refractionIndex"] = m.RefractiveIndex
		return "dielectric", properties
	case *material.Emitter:
		properties["emission"] = vec3JSON(m.Emission)
		return "emitter", properties
	case *material.Ward:
		properties["albedo"] = vec3JSON(m.Color)
		properties["rhoS"] = m.RhoS
		properties["alpha"] = m.Alpha
		return "ward", properties
	case *material.Phong:
		properties["albedo"] = vec3JSON(m.Color)
		properties["glossiness"] = m.Glossiness
		return "phong", properties
	case *material.Mixture:
		first, firstProps := extractMaterialInfo(m.Material1)
		second, secondProps := extractMaterialInfo(m.Material2)
		properties["u"] = m.U
		properties["mat1"] = map[string]interface{}{"type": first, "properties": firstProps}
		properties["mat2"] = map[string]interface{}{"type": second, "properties": secondProps}
		return "mixture", properties
	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(object geometry.Hitable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3JSON(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	case *geometry.Rectangle:
		properties["bottomLeft"] = vec3JSON(geom.BottomLeft)
		properties["right"] = vec3JSON(geom.Right)
		properties["up"] = vec3JSON(geom.Up)
		return "rectangle", properties
	case *geometry.TriangleMesh:
		properties["vertexCount"] = len(geom.Vertices)
		properties["triangleCount"] = geom.TriangleCount()
		return "triangle_mesh", properties
	default:
		return "unknown", properties
	}
}

// flatten expands hitable lists into their primitives
func flatten(objects []geometry.Hitable) []geometry.Hitable {
	var out []geometry.Hitable
	for _, object := range objects {
		if list, ok := object.(*geometry.HitableList); ok {
			out = append(out, flatten(list.Objects)...)
			continue
		}
		out = append(out, object)
	}
	return out
}

// inspectPixel casts a ray through the center of pixel (x, y), counted from
// the top-left corner, and describes the closest primitive it hits
func inspectPixel(sceneObj *scene.Scene, width, height, x, y int) InspectResponse {
	camera := geometry.NewCamera(sceneObj.CameraConfig)
	s := (float64(x) + 0.5) / float64(width)
	t := (float64(height-1-y) + 0.5) / float64(height)
	ray := camera.GetRay(s, t, core.NewSeededSampler(0))

	var closest geometry.Hitable
	var record *material.HitRecord
	tMax := math.Inf(1)
	for _, object := range flatten(sceneObj.Objects) {
		if hit, ok := object.Hit(ray, 1e-4, tMax); ok {
			closest, record, tMax = object, hit, hit.T
		}
	}
	if closest == nil {
		return InspectResponse{Hit: false}
	}

	materialType, materialProps := extractMaterialInfo(record.Material)
	geometryType, geometryProps := extractGeometryInfo(closest)
	return InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3JSON(record.Point),
		Normal:       vec3JSON(record.Normal),
		Distance:     record.T,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(req.Scene, req.Seed, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	width := req.Width
	if width == 0 {
		width = int(math.Round(float64(req.Height) * sceneObj.CameraConfig.Aspect))
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Pixel coordinates out of bounds for %dx%d", width, req.Height),
		})
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, width, req.Height, pixelX, pixelY))
}
