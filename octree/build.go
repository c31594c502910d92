package octree

import (
	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/spatialmath"
)

// VertexTree indexes mesh vertices.
type VertexTree = Tree[mesh.VertexID]

// FaceTree indexes mesh faces. It has the shape of the VertexTree it was mirrored from.
type FaceTree = Tree[mesh.FaceID]

// vertexTreeBuilder subdivides a root cell until every leaf holds at most MaxVerticesPerLeaf
// vertices, the leaf is at the maximum depth, or its cell reached the minimum size.
type vertexTreeBuilder struct {
	surface Surface
	cfg     Config
	tree    *VertexTree
}

func (b *vertexTreeBuilder) expand(id NodeID, vertices []mesh.VertexID) {
	node := b.tree.Node(id)
	if len(vertices) <= b.cfg.MaxVerticesPerLeaf ||
		node.depth >= b.cfg.maxDepth() ||
		node.cube.HalfScale <= b.cfg.MinHalfScale {
		for _, v := range vertices {
			node.insert(v)
		}
		return
	}

	b.tree.split(id)
	node = b.tree.Node(id)

	var buckets [8][]mesh.VertexID
	for _, v := range vertices {
		p := b.surface.Vertex(v)
		for nr, child := range node.children {
			if !b.tree.Node(child).cube.ContainsPoint(p) {
				continue
			}
			buckets[nr] = append(buckets[nr], v)
			if !b.cfg.CopyBorderElements {
				break
			}
		}
	}
	children := node.children
	for nr, child := range children {
		b.expand(child, buckets[nr])
	}
}

func buildVertexTree(s Surface, cfg Config, root spatialmath.Cube) *VertexTree {
	vertices := make([]mesh.VertexID, s.NumVertices())
	for i := range vertices {
		vertices[i] = mesh.VertexID(i)
	}
	b := &vertexTreeBuilder{surface: s, cfg: cfg, tree: newTree[mesh.VertexID](root)}
	b.expand(b.tree.Root(), vertices)
	return b.tree
}
