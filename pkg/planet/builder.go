package planet

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/planetgen/pkg/math"
	"github.com/Faultbox/planetgen/pkg/noise"
)

// maxIndices is the largest index list a face may produce; indices are uint32.
const maxIndices = gomath.MaxUint32

// BuildFaceMesh generates the mesh of the cube face whose outward axis is up.
// A nil field samples seeded simplex noise from params.Seed. The result only
// depends on the arguments, so faces can be built concurrently.
func BuildFaceMesh(params Params, up math.Vec3, field noise.Field) (*Mesh, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if n := 3 * params.Triangles(); n > maxIndices {
		return nil, fmt.Errorf("%w: resolution %d needs %d indices", ErrBuildFailed, params.Resolution, n)
	}
	if field == nil {
		field = noise.NewSimplex(params.Seed)
	}

	res := params.Resolution
	axisA := up.YZX()
	axisB := up.Cross(axisA)

	grid := make([]math.Vec3, res*res)
	triangles := make([]uint32, 0, 3*params.Triangles())

	step := float32(res - 1)
	for y := range res {
		for x := range res {
			i := x + y*res
			px := float32(x) / step
			py := float32(y) / step

			pointOnCube := up.
				Add(axisA.Scale((px - 0.5) * 2)).
				Add(axisB.Scale((py - 0.5) * 2))
			pointOnSphere := pointOnCube.Normalize()

			elevation := params.elevation(pointOnSphere, field)
			grid[i] = pointOnSphere.Scale(1 + elevation)

			if x != res-1 && y != res-1 {
				triangles = append(triangles,
					i, i+res+1, i+res,
					i, i+1, i+res+1,
				)
			}
		}
	}

	mesh := flatten(grid, triangles)
	mesh.GridVertices = len(grid)
	return mesh, nil
}

// elevation sums the noise octaves at a point on the unit sphere and scales
// the result by Strength.
func (p Params) elevation(pointOnSphere math.Vec3, field noise.Field) float32 {
	var value float32
	frequency := p.BaseRoughness
	amplitude := float32(1)
	for range p.Layers {
		v := field.Sample(pointOnSphere.Scale(frequency).Add(p.Center))
		value += v * 0.5 * amplitude
		frequency *= p.Roughness
		amplitude *= p.Persistence
	}
	return value * p.Strength
}

// flatten expands an indexed triangle list so every triangle has its own
// three vertices sharing the triangle's face normal.
func flatten(grid []math.Vec3, triangles []uint32) *Mesh {
	n := len(triangles)
	mesh := &Mesh{
		Positions: make([]math.Vec3, n),
		Normals:   make([]math.Vec3, n),
		Indices:   make([]uint32, n),
		Bounds:    emptyBounds(),
	}

	for t := 0; t < n; t += 3 {
		a := grid[triangles[t]]
		b := grid[triangles[t+1]]
		c := grid[triangles[t+2]]
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()

		for k, p := range [3]math.Vec3{a, b, c} {
			mesh.Positions[t+k] = p
			mesh.Normals[t+k] = normal
			mesh.Indices[t+k] = uint32(t + k)
			mesh.Bounds.extend(p)
		}
	}
	return mesh
}

// BuildFaces builds all six faces from one parameter snapshot, sharing a
// single noise field.
func BuildFaces(params Params) ([FaceCount]*Mesh, error) {
	var meshes [FaceCount]*Mesh
	if err := params.Validate(); err != nil {
		return meshes, err
	}

	field := noise.NewSimplex(params.Seed)
	for _, face := range Faces {
		m, err := BuildFaceMesh(params, face.Orientation(), field)
		if err != nil {
			return [FaceCount]*Mesh{}, fmt.Errorf("face %s: %w", face, err)
		}
		meshes[face] = m
	}
	return meshes, nil
}
