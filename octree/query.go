package octree

import (
	"container/heap"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/spatialmath"
)

// LeafContaining returns the vertex tree leaf whose cube holds p, the first one in octant order on
// shared boundaries. It returns NoNode for points outside the root cube.
func (idx *Index) LeafContaining(p r3.Vector) NodeID {
	id := idx.vertices.Root()
	if !idx.vertices.Node(id).cube.ContainsPoint(p) {
		return NoNode
	}
	for {
		node := idx.vertices.Node(id)
		if node.IsLeaf() {
			return id
		}
		next := NoNode
		for _, child := range node.children {
			if idx.vertices.Node(child).cube.ContainsPoint(p) {
				next = child
				break
			}
		}
		if next == NoNode {
			return id
		}
		id = next
	}
}

// NearestVertex returns the vertex closest to p and its distance. Cells are visited in order of
// their distance to p, so the result is exact. ok is false for an empty mesh.
func (idx *Index) NearestVertex(p r3.Vector) (v mesh.VertexID, dist float64, ok bool) {
	best := math.Inf(1)
	queue := &cellQueue{{id: idx.vertices.Root(), dist2: idx.vertices.Node(idx.vertices.Root()).cube.SquaredDistanceToPoint(p)}}
	for queue.Len() > 0 {
		cell := heap.Pop(queue).(cellDistance)
		if cell.dist2 > best {
			break
		}
		node := idx.vertices.Node(cell.id)
		if node.IsLeaf() {
			for _, candidate := range node.Elements() {
				if d := idx.surface.Vertex(candidate).Sub(p).Norm2(); d < best || (d == best && candidate < v) {
					best, v, ok = d, candidate, true
				}
			}
			continue
		}
		for _, child := range node.children {
			if d := idx.vertices.Node(child).cube.SquaredDistanceToPoint(p); d <= best {
				heap.Push(queue, cellDistance{id: child, dist2: d})
			}
		}
	}
	if !ok {
		return 0, 0, false
	}
	return v, math.Sqrt(best), true
}

type cellDistance struct {
	id    NodeID
	dist2 float64
}

// cellQueue is a min heap of cells by squared distance.
type cellQueue []cellDistance

func (q cellQueue) Len() int           { return len(q) }
func (q cellQueue) Less(i, j int) bool { return q[i].dist2 < q[j].dist2 }
func (q cellQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *cellQueue) Push(x any) {
	*q = append(*q, x.(cellDistance))
}

func (q *cellQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ClassifyPrism sorts the vertex tree leaves that are not disjoint from prism into those inside it
// and those crossing its boundary. Subtrees are pruned as soon as their cube is classified.
func (idx *Index) ClassifyPrism(prism *spatialmath.TriangularPrism) (contained, intersecting []NodeID) {
	idx.vertices.Walk(idx.vertices.Root(), func(id NodeID, n *Node[mesh.VertexID]) bool {
		switch n.cube.ClassifyPrism(prism) {
		case spatialmath.Disjoint:
			return false
		case spatialmath.Contained:
			contained = append(contained, idx.vertices.LeavesOf(id)...)
			return false
		case spatialmath.Intersecting:
			if n.IsLeaf() {
				intersecting = append(intersecting, id)
			}
		}
		return true
	})
	return contained, intersecting
}

// VerticesInPrism returns every vertex inside prism. Vertices of contained leaves are taken as they
// are, those of crossing leaves are tested one by one.
func (idx *Index) VerticesInPrism(prism *spatialmath.TriangularPrism) []mesh.VertexID {
	contained, intersecting := idx.ClassifyPrism(prism)
	seen := make(map[mesh.VertexID]struct{})
	var out []mesh.VertexID
	add := func(v mesh.VertexID) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, id := range contained {
		for _, v := range idx.vertices.Node(id).Elements() {
			add(v)
		}
	}
	for _, id := range intersecting {
		for _, v := range idx.vertices.Node(id).Elements() {
			if prism.ContainsPoint(idx.surface.Vertex(v)) {
				add(v)
			}
		}
	}
	return out
}

// NodesOfFace returns the face tree leaves among within that hold f. A nil within searches every
// leaf.
func (idx *Index) NodesOfFace(f mesh.FaceID, within []NodeID) []NodeID {
	return idx.faces.NodesHolding(f, within)
}

// NodesOfVertex returns the vertex tree leaves among within that hold v. A nil within searches every
// leaf.
func (idx *Index) NodesOfVertex(v mesh.VertexID, within []NodeID) []NodeID {
	return idx.vertices.NodesHolding(v, within)
}
