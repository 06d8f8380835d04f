package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/geometry"
	"github.com/df07/go-loom/pkg/lights"
	"github.com/df07/go-loom/pkg/material"
)

var (
	// ErrUnknownClass is returned for a tagged value whose class the decoder
	// does not know
	ErrUnknownClass = errors.New("unknown class")
	// ErrMissingField is returned when a required field is absent
	ErrMissingField = errors.New("missing field")
	// ErrOutOfRange is returned for a parameter outside its valid range
	ErrOutOfRange = errors.New("out of range")
)

// SceneDocument is a decoded scene file. Every object is fully constructed;
// a document that fails to decode never yields a partial scene.
type SceneDocument struct {
	Camera     geometry.CameraConfig
	Background lights.Background
	Objects    []geometry.Hitable
}

// SceneDecoder turns JSON scene documents into scene objects
type SceneDecoder struct {
	BaseDir string      // Directory mesh file names are resolved against
	Logger  core.Logger // Receives mesh load summaries
	Seed    int64       // Seeds mesh BVH construction

	sampler core.Sampler
}

// LoadScene decodes a scene file; mesh files are resolved relative to it
func LoadScene(filename string, seed int64, logger core.Logger) (*SceneDocument, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	decoder := &SceneDecoder{
		BaseDir: filepath.Dir(filename),
		Logger:  logger,
		Seed:    seed,
	}
	doc, err := decoder.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}

// tagged is the {"class": ..., "object": ...} envelope used for materials,
// hitables and non-builtin backgrounds
type tagged struct {
	Class  string          `json:"class"`
	Object json.RawMessage `json:"object"`
}

// jsonVec3 is a JSON array of exactly three numbers
type jsonVec3 core.Vec3

func (v *jsonVec3) UnmarshalJSON(data []byte) error {
	var xs []float64
	if err := json.Unmarshal(data, &xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("vector has %d components, want 3", len(xs))
	}
	*v = jsonVec3{X: xs[0], Y: xs[1], Z: xs[2]}
	return nil
}

func vec(v *jsonVec3) core.Vec3 {
	return core.Vec3(*v)
}

// require reports the first absent field among name/present pairs
func require(fields ...any) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if present, _ := fields[i+1].(bool); !present {
			return fmt.Errorf("%w %q", ErrMissingField, fields[i])
		}
	}
	return nil
}

// Decode reads one scene document
func (d *SceneDecoder) Decode(r io.Reader) (*SceneDocument, error) {
	if d.Logger == nil {
		d.Logger = core.NopLogger{}
	}
	d.sampler = core.NewSeededSampler(d.Seed)

	// name and description are display metadata read by scene discovery
	var raw struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Background  json.RawMessage   `json:"background"`
		Camera      json.RawMessage   `json:"camera"`
		ObjectList  []json.RawMessage `json:"object_list"`
	}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	if err := require("background", raw.Background != nil, "camera", raw.Camera != nil, "object_list", raw.ObjectList != nil); err != nil {
		return nil, err
	}
	if len(raw.ObjectList) == 0 {
		return nil, fmt.Errorf("object_list is empty")
	}

	background, err := d.background(raw.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	camera, err := d.camera(raw.Camera)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	doc := &SceneDocument{Camera: camera, Background: background}
	for i, item := range raw.ObjectList {
		object, err := d.hitable(item)
		if err != nil {
			return nil, fmt.Errorf("object_list[%d]: %w", i, err)
		}
		doc.Objects = append(doc.Objects, object)
	}
	return doc, nil
}

func (d *SceneDecoder) camera(data json.RawMessage) (geometry.CameraConfig, error) {
	var c struct {
		LookFrom  *jsonVec3 `json:"look_from"`
		LookAt    *jsonVec3 `json:"look_at"`
		VUp       *jsonVec3 `json:"vup"`
		VFov      *float64  `json:"vfov"`
		Aspect    *float64  `json:"aspect"`
		Aperture  *float64  `json:"aperture"`
		FocusDist *float64  `json:"focus_dist"`
	}
	if err := decodeStrict(data, &c); err != nil {
		return geometry.CameraConfig{}, err
	}
	if err := require(
		"look_from", c.LookFrom != nil, "look_at", c.LookAt != nil, "vup", c.VUp != nil,
		"vfov", c.VFov != nil, "aspect", c.Aspect != nil,
		"aperture", c.Aperture != nil, "focus_dist", c.FocusDist != nil,
	); err != nil {
		return geometry.CameraConfig{}, err
	}
	if *c.Aspect <= 0 {
		return geometry.CameraConfig{}, fmt.Errorf("aspect must be positive, got %v", *c.Aspect)
	}
	return geometry.CameraConfig{
		LookFrom:  vec(c.LookFrom),
		LookAt:    vec(c.LookAt),
		VUp:       vec(c.VUp),
		VFov:      *c.VFov,
		Aspect:    *c.Aspect,
		Aperture:  *c.Aperture,
		FocusDist: *c.FocusDist,
	}, nil
}

func (d *SceneDecoder) background(data json.RawMessage) (lights.Background, error) {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "sky":
			return lights.Sky{}, nil
		case "overhead_light":
			return lights.OverheadLight{}, nil
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownClass, name)
		}
	}

	var t tagged
	if err := decodeStrict(data, &t); err != nil {
		return nil, err
	}
	switch t.Class {
	case "constant":
		var c struct {
			Color *jsonVec3 `json:"color"`
		}
		if err := decodeStrict(t.Object, &c); err != nil {
			return nil, err
		}
		if err := require("color", c.Color != nil); err != nil {
			return nil, err
		}
		return lights.NewConstant(vec(c.Color)), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownClass, t.Class)
	}
}

func (d *SceneDecoder) hitable(data json.RawMessage) (geometry.Hitable, error) {
	var t tagged
	if err := decodeStrict(data, &t); err != nil {
		return nil, err
	}
	if t.Object == nil {
		return nil, fmt.Errorf("%s: %w %q", t.Class, ErrMissingField, "object")
	}

	switch t.Class {
	case "sphere":
		var s struct {
			Center   *jsonVec3       `json:"center"`
			Radius   *float64        `json:"radius"`
			Material json.RawMessage `json:"material"`
		}
		if err := decodeStrict(t.Object, &s); err != nil {
			return nil, fmt.Errorf("sphere: %w", err)
		}
		if err := require("center", s.Center != nil, "radius", s.Radius != nil, "material", s.Material != nil); err != nil {
			return nil, fmt.Errorf("sphere: %w", err)
		}
		mat, err := d.material(s.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere: %w", err)
		}
		return geometry.NewSphere(vec(s.Center), *s.Radius, mat), nil

	case "rectangle":
		var r struct {
			BottomLeft *jsonVec3       `json:"bottom_left"`
			Right      *jsonVec3       `json:"right"`
			Up         *jsonVec3       `json:"up"`
			Material   json.RawMessage `json:"material"`
		}
		if err := decodeStrict(t.Object, &r); err != nil {
			return nil, fmt.Errorf("rectangle: %w", err)
		}
		if err := require("bottom_left", r.BottomLeft != nil, "right", r.Right != nil, "up", r.Up != nil, "material", r.Material != nil); err != nil {
			return nil, fmt.Errorf("rectangle: %w", err)
		}
		mat, err := d.material(r.Material)
		if err != nil {
			return nil, fmt.Errorf("rectangle: %w", err)
		}
		return geometry.NewRectangle(vec(r.BottomLeft), vec(r.Right), vec(r.Up), mat), nil

	case "hitable_list":
		items, err := listItems(t.Object)
		if err != nil {
			return nil, fmt.Errorf("hitable_list: %w", err)
		}
		objects := make([]geometry.Hitable, 0, len(items))
		for i, item := range items {
			object, err := d.hitable(item)
			if err != nil {
				return nil, fmt.Errorf("hitable_list[%d]: %w", i, err)
			}
			objects = append(objects, object)
		}
		return geometry.NewHitableList(objects...), nil

	case "triangle_mesh":
		var m struct {
			FileName *string         `json:"file_name"`
			Material json.RawMessage `json:"material"`
		}
		if err := decodeStrict(t.Object, &m); err != nil {
			return nil, fmt.Errorf("triangle_mesh: %w", err)
		}
		if err := require("file_name", m.FileName != nil, "material", m.Material != nil); err != nil {
			return nil, fmt.Errorf("triangle_mesh: %w", err)
		}
		mat, err := d.material(m.Material)
		if err != nil {
			return nil, fmt.Errorf("triangle_mesh: %w", err)
		}
		path := *m.FileName
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.BaseDir, path)
		}
		data, err := LoadMesh(path, d.Logger)
		if err != nil {
			return nil, fmt.Errorf("triangle_mesh: %w", err)
		}
		mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Indices, mat, d.sampler)
		if err != nil {
			return nil, fmt.Errorf("triangle_mesh %s: %w", path, err)
		}
		return mesh, nil

	default:
		return nil, fmt.Errorf("hitable: %w %q", ErrUnknownClass, t.Class)
	}
}

// listItems accepts both a bare array and {"list": [...]}
func listItems(data json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		List []json.RawMessage `json:"list"`
	}
	if err := decodeStrict(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.List == nil {
		return nil, fmt.Errorf("%w %q", ErrMissingField, "list")
	}
	return wrapped.List, nil
}

func (d *SceneDecoder) material(data json.RawMessage) (material.Material, error) {
	var t tagged
	if err := decodeStrict(data, &t); err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}
	if t.Object == nil {
		return nil, fmt.Errorf("material %s: %w %q", t.Class, ErrMissingField, "object")
	}

	mat, err := d.materialObject(t.Class, t.Object)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", t.Class, err)
	}
	return mat, nil
}

func (d *SceneDecoder) materialObject(class string, object json.RawMessage) (material.Material, error) {
	switch class {
	case "lambertian":
		var m struct {
			Albedo *jsonVec3 `json:"albedo"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("albedo", m.Albedo != nil); err != nil {
			return nil, err
		}
		return material.NewLambertian(vec(m.Albedo)), nil

	case "metal":
		var m struct {
			Albedo *jsonVec3 `json:"albedo"`
			Fuzz   float64   `json:"fuzz"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("albedo", m.Albedo != nil); err != nil {
			return nil, err
		}
		return material.NewMetal(vec(m.Albedo), m.Fuzz), nil

	case "dielectric":
		var m struct {
			RefractionIndex *float64 `json:"refraction_index"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("refraction_index", m.RefractionIndex != nil); err != nil {
			return nil, err
		}
		if !(*m.RefractionIndex > 0) {
			return nil, fmt.Errorf("refraction_index %v must be positive: %w", *m.RefractionIndex, ErrOutOfRange)
		}
		return material.NewDielectric(*m.RefractionIndex), nil

	case "emitter":
		var m struct {
			Emission *jsonVec3 `json:"emission"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("emission", m.Emission != nil); err != nil {
			return nil, err
		}
		return material.NewEmitter(vec(m.Emission)), nil

	case "ward":
		var m struct {
			Albedo *jsonVec3 `json:"albedo"`
			RhoS   *float64  `json:"rho_s"`
			Alpha  *float64  `json:"alpha"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("albedo", m.Albedo != nil, "rho_s", m.RhoS != nil, "alpha", m.Alpha != nil); err != nil {
			return nil, err
		}
		if !(*m.Alpha > 0) {
			return nil, fmt.Errorf("alpha %v must be positive: %w", *m.Alpha, ErrOutOfRange)
		}
		if err := unitInterval("rho_s", *m.RhoS); err != nil {
			return nil, err
		}
		return material.NewWard(vec(m.Albedo), *m.RhoS, *m.Alpha), nil

	case "phong":
		var m struct {
			Albedo     *jsonVec3 `json:"albedo"`
			Glossiness *float64  `json:"glossiness"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("albedo", m.Albedo != nil, "glossiness", m.Glossiness != nil); err != nil {
			return nil, err
		}
		if err := unitInterval("glossiness", *m.Glossiness); err != nil {
			return nil, err
		}
		return material.NewPhong(vec(m.Albedo), *m.Glossiness), nil

	case "mixture":
		var m struct {
			Mat1 json.RawMessage `json:"mat_1"`
			Mat2 json.RawMessage `json:"mat_2"`
			U    *float64        `json:"u"`
		}
		if err := decodeStrict(object, &m); err != nil {
			return nil, err
		}
		if err := require("mat_1", m.Mat1 != nil, "mat_2", m.Mat2 != nil, "u", m.U != nil); err != nil {
			return nil, err
		}
		if err := unitInterval("u", *m.U); err != nil {
			return nil, err
		}
		first, err := d.material(m.Mat1)
		if err != nil {
			return nil, fmt.Errorf("mat_1: %w", err)
		}
		second, err := d.material(m.Mat2)
		if err != nil {
			return nil, fmt.Errorf("mat_2: %w", err)
		}
		return material.NewMixture(first, second, *m.U), nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownClass, class)
	}
}

// unitInterval rejects values outside [0, 1], NaN included
func unitInterval(name string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%s %v must be in [0, 1]: %w", name, v, ErrOutOfRange)
	}
	return nil
}

// decodeStrict unmarshals an object, rejecting unknown keys so typos in a
// scene file are reported instead of silently ignored
func decodeStrict(data json.RawMessage, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
