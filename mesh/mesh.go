// Package mesh holds an indexed triangle surface: vertex positions and faces that reference them
// by index, plus the per-vertex face incidence needed by the spatial index.
package mesh

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/meshoctree/spatialmath"
)

// VertexID indexes Mesh vertices.
type VertexID int32

// FaceID indexes Mesh faces.
type FaceID int32

// Face is a triangle given by three vertex indices.
type Face [3]VertexID

// Has reports whether v is a corner of the face.
func (f Face) Has(v VertexID) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

// Mesh is an immutable triangle surface. Vertices and faces are stored in arenas and referenced
// by their index everywhere else.
type Mesh struct {
	vertices []r3.Vector
	faces    []Face
	incident [][]FaceID

	min, max r3.Vector
}

// New validates faces against vertices and builds the incidence lists. The slices are owned by the
// mesh afterwards.
func New(vertices []r3.Vector, faces []Face) (*Mesh, error) {
	m := &Mesh{
		vertices: vertices,
		faces:    faces,
		incident: make([][]FaceID, len(vertices)),
		min:      r3.Vector{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		max:      r3.Vector{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
	for i, f := range faces {
		for _, v := range f {
			if v < 0 || int(v) >= len(vertices) {
				return nil, errors.Errorf("face %d references vertex %d but the mesh has %d vertices", i, v, len(vertices))
			}
		}
		for j, v := range f {
			// repeated corners
			if (j >= 1 && f[0] == v) || (j == 2 && f[1] == v) {
				continue
			}
			m.incident[v] = append(m.incident[v], FaceID(i))
		}
	}
	for _, v := range vertices {
		m.min = r3.Vector{X: math.Min(m.min.X, v.X), Y: math.Min(m.min.Y, v.Y), Z: math.Min(m.min.Z, v.Z)}
		m.max = r3.Vector{X: math.Max(m.max.X, v.X), Y: math.Max(m.max.Y, v.Y), Z: math.Max(m.max.Z, v.Z)}
	}
	return m, nil
}

// FromTriangles builds a mesh from free standing triangles, welding corners with identical
// positions into one vertex. Triangles that collapse after welding are dropped.
func FromTriangles(triangles [][3]r3.Vector) (*Mesh, error) {
	vertices := make([]r3.Vector, 0, len(triangles))
	faces := make([]Face, 0, len(triangles))
	indexMap := make(map[r3.Vector]VertexID, len(triangles))
	for _, tri := range triangles {
		var f Face
		for j, p := range tri {
			id, ok := indexMap[p]
			if !ok {
				id = VertexID(len(vertices))
				indexMap[p] = id
				vertices = append(vertices, p)
			}
			f[j] = id
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		faces = append(faces, f)
	}
	return New(vertices, faces)
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// Vertex returns the position of vertex v.
func (m *Mesh) Vertex(v VertexID) r3.Vector {
	return m.vertices[v]
}

// Face returns the corners of face f.
func (m *Mesh) Face(f FaceID) Face {
	return m.faces[f]
}

// FacesOfVertex returns the faces that have v as a corner. The slice must not be modified.
func (m *Mesh) FacesOfVertex(v VertexID) []FaceID {
	return m.incident[v]
}

// FaceCenter returns the center of gravity of face f.
func (m *Mesh) FaceCenter(f FaceID) r3.Vector {
	face := m.faces[f]
	return m.vertices[face[0]].Add(m.vertices[face[1]]).Add(m.vertices[face[2]]).Mul(1. / 3.)
}

// Triangle returns the geometry of face f.
func (m *Mesh) Triangle(f FaceID) *spatialmath.Triangle {
	face := m.faces[f]
	return spatialmath.NewTriangle(m.vertices[face[0]], m.vertices[face[1]], m.vertices[face[2]])
}

// Bounds returns the smallest and largest coordinates over all vertices. An empty mesh returns
// two zero vectors.
func (m *Mesh) Bounds() (r3.Vector, r3.Vector) {
	if len(m.vertices) == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	return m.min, m.max
}
