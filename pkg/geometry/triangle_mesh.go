package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/material"
)

// triangleEpsilon rejects rays parallel to a triangle and hits at the origin
const triangleEpsilon = 1e-7

// TriangleMesh is an indexed triangle list with its own BVH over triangle
// indices, so leaves are tested without per-triangle interface dispatch
type TriangleMesh struct {
	Vertices []core.Vec3
	Indices  []int // three per triangle
	root     *meshNode
	material material.Material
}

// meshNode is an internal node (left and right set) or a leaf (triangles set)
type meshNode struct {
	box       core.AABB
	left      *meshNode
	right     *meshNode
	triangles []int
}

// NewTriangleMesh validates the index buffer and builds the mesh BVH
func NewTriangleMesh(vertices []core.Vec3, indices []int, mat material.Material, sampler core.Sampler) (*TriangleMesh, error) {
	if len(indices) == 0 {
		return nil, errors.New("triangle mesh has no triangles")
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("triangle mesh index count %d is not a multiple of 3", len(indices))
	}
	for i, index := range indices {
		if index < 0 || index >= len(vertices) {
			return nil, fmt.Errorf("triangle mesh index %d at position %d out of range [0, %d)", index, i, len(vertices))
		}
	}

	mesh := &TriangleMesh{
		Vertices: vertices,
		Indices:  indices,
		material: mat,
	}
	triangles := make([]int, len(indices)/3)
	for i := range triangles {
		triangles[i] = i
	}
	mesh.root = mesh.build(triangles, sampler)
	return mesh, nil
}

// TriangleCount returns the number of triangles in the mesh
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *TriangleMesh) corners(tri int) (core.Vec3, core.Vec3, core.Vec3) {
	return m.Vertices[m.Indices[3*tri]], m.Vertices[m.Indices[3*tri+1]], m.Vertices[m.Indices[3*tri+2]]
}

func (m *TriangleMesh) triangleBox(tri int) core.AABB {
	v0, v1, v2 := m.corners(tri)
	return core.NewAABBFromPoints(v0, v1, v2).Pad(flatPadding)
}

func (m *TriangleMesh) build(triangles []int, sampler core.Sampler) *meshNode {
	if len(triangles) <= leafThreshold {
		box := core.EmptyAABB()
		for _, tri := range triangles {
			box = box.Union(m.triangleBox(tri))
		}
		return &meshNode{box: box, triangles: triangles}
	}

	axis := sampler.IntRange(0, 3)
	type keyed struct {
		key float64
		tri int
	}
	entries := make([]keyed, len(triangles))
	for i, tri := range triangles {
		entries[i] = keyed{m.triangleBox(tri).Min.Axis(axis), tri}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	for i, entry := range entries {
		triangles[i] = entry.tri
	}

	mid := len(triangles) / 2
	left := m.build(triangles[:mid], sampler)
	right := m.build(triangles[mid:], sampler)
	return &meshNode{
		box:   left.box.Union(right.box),
		left:  left,
		right: right,
	}
}

// Hit returns the closest triangle hit
func (m *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	tri, t, ok := m.hitNode(m.root, ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	v0, v1, v2 := m.corners(tri)
	return &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Normal:   v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		Material: m.material,
	}, true
}

func (m *TriangleMesh) hitNode(node *meshNode, ray core.Ray, tMin, tMax float64) (int, float64, bool) {
	if !node.box.Hit(ray, tMin, tMax) {
		return 0, 0, false
	}

	if node.left == nil {
		closest, closestT, found := 0, tMax, false
		for _, tri := range node.triangles {
			if t, ok := m.hitTriangle(tri, ray, tMin, closestT); ok {
				closest, closestT, found = tri, t, true
			}
		}
		return closest, closestT, found
	}

	lTri, lT, lOk := m.hitNode(node.left, ray, tMin, tMax)
	rTri, rT, rOk := m.hitNode(node.right, ray, tMin, tMax)
	switch {
	case lOk && rOk:
		if lT < rT {
			return lTri, lT, true
		}
		return rTri, rT, true
	case lOk:
		return lTri, lT, true
	default:
		return rTri, rT, rOk
	}
}

// hitTriangle is the Möller–Trumbore test; t must lie in [tMin, tMax]
func (m *TriangleMesh) hitTriangle(tri int, ray core.Ray, tMin, tMax float64) (float64, bool) {
	v0, v1, v2 := m.corners(tri)
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < triangleEpsilon {
		return 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= triangleEpsilon || t < tMin || t > tMax {
		return 0, false
	}
	return t, true
}

// BoundingBox returns the box of the whole mesh
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.root.box
}

// ImportanceDistribution is the bounding box
func (m *TriangleMesh) ImportanceDistribution() core.AABB {
	return m.BoundingBox()
}

// Material returns the mesh material
func (m *TriangleMesh) Material() material.Material {
	return m.material
}

func (m *TriangleMesh) sealed() {}
