package octree

import (
	"context"
	"time"

	"github.com/samber/lo"

	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/utils"
)

// FacePair is two faces whose triangles intersect, with A < B.
type FacePair struct {
	A, B mesh.FaceID
}

func newFacePair(a, b mesh.FaceID) FacePair {
	if b < a {
		a, b = b, a
	}
	return FacePair{A: a, B: b}
}

// SelfIntersections tests every pair of faces that share a face tree leaf and returns the pairs that
// intersect. Leaves are processed in batches of the configured worker count and progress is called
// after each batch with the number of leaves done.
//
// A pair held by several leaves is reported once per leaf. Use UniquePairs for a set.
func (idx *Index) SelfIntersections(ctx context.Context, progress utils.BatchDoneFunc) ([]FacePair, error) {
	start := time.Now()
	leaves := idx.faces.Leaves()

	var pairs []FacePair
	err := utils.RunBatches(len(leaves), idx.cfg.Workers, func(i int) error {
		faces := idx.faces.Node(leaves[i]).Elements()
		for a := 0; a < len(faces); a++ {
			for b := a + 1; b < len(faces); b++ {
				if !idx.facesIntersect(faces[a], faces[b]) {
					continue
				}
				idx.mu.Lock()
				pairs = append(pairs, newFacePair(faces[a], faces[b]))
				idx.mu.Unlock()
			}
		}
		idx.metrics.recordLeaf()
		return nil
	}, progress)
	if err != nil {
		return nil, err
	}

	idx.metrics.recordIntersections(len(pairs))
	idx.logger.CDebugw(ctx, "self intersection test done",
		"index", idx.ID, "leaves", len(leaves), "pairs", len(pairs), "took", time.Since(start))
	return pairs, nil
}

// facesIntersect is the triangle-triangle test made aware of shared corners, which would otherwise
// always count as touching.
func (idx *Index) facesIntersect(a, b mesh.FaceID) bool {
	fa, fb := idx.surface.Face(a), idx.surface.Face(b)
	var shared []mesh.VertexID
	for _, v := range fa {
		if fb.Has(v) && !lo.Contains(shared, v) {
			shared = append(shared, v)
		}
	}

	triA, triB := triangleOf(idx.surface, a), triangleOf(idx.surface, b)
	switch len(shared) {
	case 0:
		return triA.IntersectsTriangle(triB)
	case 1:
		// Only the edges opposite the common corner can cross the other face.
		a0, a1, okA := oppositeEdge(fa, shared[0])
		b0, b1, okB := oppositeEdge(fb, shared[0])
		if !okA || !okB {
			return false
		}
		return triB.IntersectsSegment(idx.surface.Vertex(a0), idx.surface.Vertex(a1)) ||
			triA.IntersectsSegment(idx.surface.Vertex(b0), idx.surface.Vertex(b1))
	case 2:
		apex, ok := remainingCorner(fb, shared)
		if !ok {
			return false
		}
		return triA.OverlapsAcrossEdge(idx.surface.Vertex(shared[0]), idx.surface.Vertex(shared[1]), idx.surface.Vertex(apex))
	default:
		// the same triangle twice
		return true
	}
}

// oppositeEdge returns the two corners of f other than v. Faces with repeated corners have none.
func oppositeEdge(f mesh.Face, v mesh.VertexID) (mesh.VertexID, mesh.VertexID, bool) {
	rest := lo.Without(f[:], v)
	if len(rest) != 2 || rest[0] == rest[1] {
		return 0, 0, false
	}
	return rest[0], rest[1], true
}

func remainingCorner(f mesh.Face, shared []mesh.VertexID) (mesh.VertexID, bool) {
	rest := lo.Without(f[:], shared...)
	if len(rest) != 1 {
		return 0, false
	}
	return rest[0], true
}

// UniquePairs drops repeated pairs, keeping the first occurrence of each.
func UniquePairs(pairs []FacePair) []FacePair {
	return lo.Uniq(lo.Map(pairs, func(p FacePair, _ int) FacePair {
		return newFacePair(p.A, p.B)
	}))
}
