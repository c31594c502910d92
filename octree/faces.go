package octree

import (
	"go.viam.com/meshoctree/mesh"
)

// IncompleteFace records a face registered in a leaf whose cube does not fully contain it.
type IncompleteFace struct {
	Face mesh.FaceID
	Node NodeID
}

// buildFaceTree copies the shape of vt and registers every face in each leaf that holds one of its
// vertices. Faces that stick out of such a leaf are returned for correction.
func buildFaceTree(s Surface, vt *VertexTree) (*FaceTree, []IncompleteFace) {
	ft := mirror[mesh.FaceID](vt)
	p := faceTreePopulator{surface: s, vertices: vt, faces: ft}
	return ft, p.populate(ft.Root())
}

type faceTreePopulator struct {
	surface  Surface
	vertices *VertexTree
	faces    *FaceTree
}

func (p *faceTreePopulator) populate(id NodeID) []IncompleteFace {
	vnode := p.vertices.Node(id)
	fnode := p.faces.Node(id)
	if !vnode.IsLeaf() {
		var incomplete []IncompleteFace
		for _, child := range fnode.children {
			incomplete = append(incomplete, p.populate(child)...)
		}
		return incomplete
	}

	var incomplete []IncompleteFace
	for _, v := range vnode.Elements() {
		for _, f := range p.surface.FacesOfVertex(v) {
			if !fnode.insert(f) {
				continue
			}
			if !fnode.cube.ContainsTriangle(triangleOf(p.surface, f)) {
				incomplete = append(incomplete, IncompleteFace{Face: f, Node: id})
			}
		}
	}
	return incomplete
}
