// Package planet builds cube-sphere planet meshes from layered noise and keeps
// them in sync with their generation parameters.
package planet

import "github.com/Faultbox/planetgen/pkg/math"

// Mesh is one face's triangle list. Every triangle owns its three vertices
// so it can carry a flat normal; Indices is the identity sequence over them.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32

	// GridVertices is the vertex count before per-triangle duplication.
	GridVertices int

	Bounds Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// VertexCount returns the number of (duplicated) vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three corners of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c math.Vec3) {
	i := 3 * t
	return m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
}

// Surface is one complete, immutable generation of a planet: the parameters
// it was built from and the six resulting face meshes. Planets publish a new
// Surface as a whole, never face by face.
type Surface struct {
	Version uint64
	Params  Params
	Meshes  [FaceCount]*Mesh
}

// Mesh returns the mesh of face f.
func (s *Surface) Mesh(f Face) *Mesh {
	if !f.Valid() {
		return nil
	}
	return s.Meshes[f]
}

// TriangleCount returns the triangle total over all faces.
func (s *Surface) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		if m != nil {
			n += m.TriangleCount()
		}
	}
	return n
}

func emptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

func (b *Bounds) extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}
