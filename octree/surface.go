package octree

import (
	"github.com/golang/geo/r3"

	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/spatialmath"
)

// Surface is the read-only view of a triangle mesh the index is built from. *mesh.Mesh implements
// it.
type Surface interface {
	NumVertices() int
	NumFaces() int
	Vertex(v mesh.VertexID) r3.Vector
	Face(f mesh.FaceID) mesh.Face
	FacesOfVertex(v mesh.VertexID) []mesh.FaceID
	FaceCenter(f mesh.FaceID) r3.Vector
}

var _ Surface = (*mesh.Mesh)(nil)

func triangleOf(s Surface, f mesh.FaceID) *spatialmath.Triangle {
	face := s.Face(f)
	return spatialmath.NewTriangle(s.Vertex(face[0]), s.Vertex(face[1]), s.Vertex(face[2]))
}

// boundingCube returns a cube around all vertices, padded so that no vertex sits on its boundary.
func boundingCube(s Surface) spatialmath.Cube {
	if s.NumVertices() == 0 {
		return spatialmath.NewCube(r3.Vector{}, 1)
	}
	lo := s.Vertex(0)
	hi := lo
	for v := 1; v < s.NumVertices(); v++ {
		p := s.Vertex(mesh.VertexID(v))
		lo = r3.Vector{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = r3.Vector{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	size := hi.Sub(lo)
	edge := max(size.X, size.Y, size.Z)
	if edge == 0 {
		edge = 1
	}
	return spatialmath.NewCube(lo.Add(hi).Mul(0.5), edge*(1+boundsPadding))
}
