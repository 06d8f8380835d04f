package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-loom/pkg/core"
)

func TestReadOBJ(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		indices []int
	}{
		{
			name:    "triangle",
			input:   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			indices: []int{0, 1, 2},
		},
		{
			name:    "quad fans out",
			input:   "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n",
			indices: []int{0, 1, 2, 0, 2, 3},
		},
		{
			name:    "negative indices",
			input:   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n",
			indices: []int{0, 1, 2},
		},
		{
			name:    "texture and normal references",
			input:   "# comment\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3//1\n",
			indices: []int{0, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ReadOBJ(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadOBJ failed: %v", err)
			}
			if len(mesh.Indices) != len(tt.indices) {
				t.Fatalf("Indices = %v, want %v", mesh.Indices, tt.indices)
			}
			for i := range tt.indices {
				if mesh.Indices[i] != tt.indices[i] {
					t.Fatalf("Indices = %v, want %v", mesh.Indices, tt.indices)
				}
			}
		})
	}
}

func TestReadOBJ_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero index":        "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"out of range":      "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"short vertex":      "v 0 0\n",
		"bad coordinate":    "v 0 zero 0\n",
		"two vertex face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"no faces":          "v 0 0 0\n",
		"negative too far":  "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 -2 -1\n",
		"non numeric index": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(input)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestReadJSONMesh(t *testing.T) {
	mesh, err := ReadJSONMesh(strings.NewReader(`{"vertices": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}`))
	if err != nil {
		t.Fatalf("ReadJSONMesh failed: %v", err)
	}
	if len(mesh.Vertices) != 3 || mesh.TriangleCount() != 1 {
		t.Errorf("Got %d vertices and %d triangles", len(mesh.Vertices), mesh.TriangleCount())
	}
	if mesh.Vertices[1] != core.NewVec3(1, 0, 0) {
		t.Errorf("Vertex 1 = %v", mesh.Vertices[1])
	}

	invalid := map[string]string{
		"missing indices":  `{"vertices": [[0,0,0]]}`,
		"two components":   `{"vertices": [[0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}`,
		"partial triangle": `{"vertices": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1]}`,
		"index too large":  `{"vertices": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,3]}`,
		"not json":         `vertices`,
	}
	for name, input := range invalid {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadJSONMesh(strings.NewReader(input)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadMesh_ByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tri.obj":  "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
		"tri.json": `{"vertices": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}`,
		"tri.ply":  "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		t.Run(name, func(t *testing.T) {
			mesh, err := LoadMesh(path, core.NopLogger{})
			if err != nil {
				t.Fatalf("LoadMesh failed: %v", err)
			}
			if mesh.TriangleCount() != 1 {
				t.Errorf("Expected 1 triangle, got %d", mesh.TriangleCount())
			}
		})
	}

	if _, err := LoadMesh(filepath.Join(dir, "tri.stl"), core.NopLogger{}); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
