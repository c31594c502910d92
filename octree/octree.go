// Package octree implements a dual octree over a triangle mesh: a vertex tree built by recursive
// subdivision and a face tree with the same shape whose leaves hold every face touching their cube.
// The face tree supports self-intersection detection over leaf contents.
package octree

import (
	"go.viam.com/meshoctree/spatialmath"
)

// Each node in the octree is either an internal node which links to eight children, an empty leaf
// or a leaf that holds elements (vertices in the vertex tree, faces in the face tree).
const (
	InternalNode = NodeType(iota)
	LeafNodeEmpty
	LeafNodeFilled
)

// NodeType represents the possible types of nodes in an octree.
type NodeType uint8

func (nt NodeType) String() string {
	switch nt {
	case InternalNode:
		return "internal"
	case LeafNodeEmpty:
		return "empty leaf"
	case LeafNodeFilled:
		return "filled leaf"
	default:
		return "unknown"
	}
}

// NodeID indexes the node arena of a Tree. The root is always 0.
type NodeID int32

// NoNode is the NodeID of a missing parent or child.
const NoNode NodeID = -1

// Node is one cell of a Tree. Children are only set on internal nodes and always come as a full set
// of eight, ordered by octant.
type Node[E comparable] struct {
	cube     spatialmath.Cube
	parent   NodeID
	children [8]NodeID
	octant   int8
	depth    int
	elements elementSet[E]
}

// Cube returns the node's cell.
func (n *Node[E]) Cube() spatialmath.Cube {
	return n.cube
}

// Parent returns NoNode for the root.
func (n *Node[E]) Parent() NodeID {
	return n.parent
}

// Child returns octant nr of an internal node and NoNode for leaves.
func (n *Node[E]) Child(nr int) NodeID {
	return n.children[nr]
}

// Octant is the position of the node in its parent, or -1 for the root.
func (n *Node[E]) Octant() int {
	return int(n.octant)
}

// Depth is 0 for the root.
func (n *Node[E]) Depth() int {
	return n.depth
}

// Type returns the NodeType.
func (n *Node[E]) Type() NodeType {
	switch {
	case !n.IsLeaf():
		return InternalNode
	case len(n.elements.items) == 0:
		return LeafNodeEmpty
	default:
		return LeafNodeFilled
	}
}

// IsLeaf reports whether the node has no children. Children are never added or removed once a tree
// is built, so this is safe to call while leaves are being filled.
func (n *Node[E]) IsLeaf() bool {
	return n.children[0] == NoNode
}

// Elements returns the leaf payload. The slice must not be modified.
func (n *Node[E]) Elements() []E {
	return n.elements.items
}

// Len returns the number of elements held.
func (n *Node[E]) Len() int {
	return len(n.elements.items)
}

// Has reports whether e is held by the node.
func (n *Node[E]) Has(e E) bool {
	return n.elements.contains(e)
}

// insert adds e to a leaf and reports whether it was new.
func (n *Node[E]) insert(e E) bool {
	return n.elements.insert(e)
}

// Tree is an arena of nodes. Nodes refer to each other by NodeID and own elements only by value of
// their identifiers, which index the mesh.
type Tree[E comparable] struct {
	nodes    []Node[E]
	maxDepth int
}

func newTree[E comparable](root spatialmath.Cube) *Tree[E] {
	t := &Tree[E]{}
	t.nodes = append(t.nodes, Node[E]{
		cube:     root,
		parent:   NoNode,
		children: noChildren,
		octant:   -1,
	})
	return t
}

var noChildren = [8]NodeID{NoNode, NoNode, NoNode, NoNode, NoNode, NoNode, NoNode, NoNode}

// Root returns the id of the root node.
func (t *Tree[E]) Root() NodeID {
	return 0
}

// Node returns the node with the given id. The pointer is only valid until the tree grows.
func (t *Tree[E]) Node(id NodeID) *Node[E] {
	return &t.nodes[id]
}

// Size returns the number of nodes.
func (t *Tree[E]) Size() int {
	return len(t.nodes)
}

// MaxDepth returns the deepest level that holds a node.
func (t *Tree[E]) MaxDepth() int {
	return t.maxDepth
}

// split turns leaf id into an internal node with eight empty children.
func (t *Tree[E]) split(id NodeID) {
	parent := t.nodes[id]
	first := NodeID(len(t.nodes))
	for nr := 0; nr < 8; nr++ {
		t.nodes = append(t.nodes, Node[E]{
			cube:     parent.cube.Child(nr),
			parent:   id,
			children: noChildren,
			octant:   int8(nr),
			depth:    parent.depth + 1,
		})
		t.nodes[id].children[nr] = first + NodeID(nr)
	}
	t.nodes[id].elements = elementSet[E]{}
	if parent.depth+1 > t.maxDepth {
		t.maxDepth = parent.depth + 1
	}
}

// mirror returns a tree with the same shape and cubes as t and no elements.
func mirror[F, E comparable](t *Tree[E]) *Tree[F] {
	out := &Tree[F]{nodes: make([]Node[F], len(t.nodes)), maxDepth: t.maxDepth}
	for i := range t.nodes {
		src := &t.nodes[i]
		out.nodes[i] = Node[F]{
			cube:     src.cube,
			parent:   src.parent,
			children: src.children,
			octant:   src.octant,
			depth:    src.depth,
		}
	}
	return out
}

// Walk visits the subtree under id depth first, parents before children in octant order. Returning
// false from visit skips the node's children.
func (t *Tree[E]) Walk(id NodeID, visit func(id NodeID, n *Node[E]) bool) {
	n := &t.nodes[id]
	if !visit(id, n) || n.IsLeaf() {
		return
	}
	for _, child := range n.children {
		t.Walk(child, visit)
	}
}

// Leaves returns every leaf of the tree.
func (t *Tree[E]) Leaves() []NodeID {
	return t.LeavesOf(t.Root())
}

// LeavesOf returns the leaves under id, id itself when it is a leaf.
func (t *Tree[E]) LeavesOf(id NodeID) []NodeID {
	var leaves []NodeID
	t.Walk(id, func(id NodeID, n *Node[E]) bool {
		if n.IsLeaf() {
			leaves = append(leaves, id)
		}
		return true
	})
	return leaves
}

// NodesAtDepth returns all nodes, internal or not, at the given depth.
func (t *Tree[E]) NodesAtDepth(depth int) []NodeID {
	var ids []NodeID
	t.Walk(t.Root(), func(id NodeID, n *Node[E]) bool {
		if n.depth == depth {
			ids = append(ids, id)
			return false
		}
		return true
	})
	return ids
}

// LeavesAtDepth returns the leaves at the given depth.
func (t *Tree[E]) LeavesAtDepth(depth int) []NodeID {
	var ids []NodeID
	for _, id := range t.NodesAtDepth(depth) {
		if t.nodes[id].IsLeaf() {
			ids = append(ids, id)
		}
	}
	return ids
}

// NodesHolding returns the leaves among within that hold e. A nil within searches all leaves.
func (t *Tree[E]) NodesHolding(e E, within []NodeID) []NodeID {
	if within == nil {
		within = t.Leaves()
	}
	var ids []NodeID
	for _, id := range within {
		if t.nodes[id].elements.contains(e) {
			ids = append(ids, id)
		}
	}
	return ids
}
