package loaders

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-loom/pkg/core"
)

// MeshData is an indexed triangle list: triangle i uses the vertices at
// Indices[3i], Indices[3i+1] and Indices[3i+2]
type MeshData struct {
	Vertices []core.Vec3
	Indices  []int
}

// TriangleCount returns the number of triangles described by Indices
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that the indices form whole triangles over existing vertices
func (m *MeshData) Validate() error {
	if len(m.Indices) == 0 {
		return fmt.Errorf("mesh has no triangles")
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, index := range m.Indices {
		if index < 0 || index >= len(m.Vertices) {
			return fmt.Errorf("mesh index %d at position %d out of range [0, %d)", index, i, len(m.Vertices))
		}
	}
	return nil
}

// addFace fans a convex polygon out into triangles sharing its first vertex
func (m *MeshData) addFace(face []int) {
	for t := 1; t+1 < len(face); t++ {
		m.Indices = append(m.Indices, face[0], face[t], face[t+1])
	}
}

// LoadMesh loads a triangle mesh, choosing the decoder from the file
// extension: .json, .obj or .ply
func LoadMesh(filename string, logger core.Logger) (*MeshData, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ply":
		return LoadPLY(filename, logger)
	case ".obj":
		return loadWith(filename, "OBJ", ReadOBJ, logger)
	case ".json":
		return loadWith(filename, "JSON", ReadJSONMesh, logger)
	default:
		return nil, fmt.Errorf("unsupported mesh file %s", filename)
	}
}

func loadWith(filename, kind string, decode func(io.Reader) (*MeshData, error), logger core.Logger) (*MeshData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", kind, err)
	}
	defer file.Close()

	mesh, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Printf("Loaded %s mesh %s: %d vertices, %d triangles in %v",
		kind, filename, len(mesh.Vertices), mesh.TriangleCount(), time.Since(startTime))
	return mesh, nil
}

// ReadJSONMesh decodes {"vertices": [[x,y,z], ...], "indices": [...]}
func ReadJSONMesh(r io.Reader) (*MeshData, error) {
	var doc struct {
		Vertices [][]float64 `json:"vertices"`
		Indices  []int       `json:"indices"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode mesh: %w", err)
	}
	if doc.Vertices == nil || doc.Indices == nil {
		return nil, fmt.Errorf("mesh needs both vertices and indices")
	}

	mesh := &MeshData{
		Vertices: make([]core.Vec3, 0, len(doc.Vertices)),
		Indices:  doc.Indices,
	}
	for i, v := range doc.Vertices {
		if len(v) != 3 {
			return nil, fmt.Errorf("vertex %d has %d components, want 3", i, len(v))
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(v[0], v[1], v[2]))
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// ReadOBJ decodes the "v" and "f" statements of a Wavefront OBJ stream.
// Face indices are 1-based; negative indices count back from the most
// recent vertex. Texture and normal references ("1/2/3") are ignored, as
// are all other statements.
func ReadOBJ(r io.Reader) (*MeshData, error) {
	mesh := &MeshData{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var face []int
	for lineNo := 1; scanner.Scan(); lineNo++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var xyz [3]float64
			for i := range xyz {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate %q", lineNo, fields[i+1])
				}
				xyz[i] = value
			}
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(xyz[0], xyz[1], xyz[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face = face[:0]
			for _, field := range fields[1:] {
				ref, _, _ := strings.Cut(field, "/")
				index, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid face index %q", lineNo, field)
				}
				switch {
				case index > 0:
					index--
				case index < 0:
					index += len(mesh.Vertices)
				default:
					return nil, fmt.Errorf("line %d: face index 0 is not valid", lineNo)
				}
				face = append(face, index)
			}
			mesh.addFace(face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ: %w", err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}
