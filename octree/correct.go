package octree

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"

	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/spatialmath"
	"go.viam.com/meshoctree/utils"
)

// CorrectionStats summarizes one correction pass.
type CorrectionStats struct {
	// Records is the number of distinct incomplete-face records processed.
	Records int
	Faces   int
	// ResolvedByNeighbors counts faces already covered by two neighbouring sibling leaves.
	ResolvedByNeighbors int
	AncestorSearches    int
	// RootFallbacks counts ancestor searches that reached the root without finding a cube that
	// contains the face.
	RootFallbacks int
	// Insertions counts faces newly registered in a leaf.
	Insertions int
}

// CorrectIncompleteFaces registers every face of records in each face tree leaf whose cube
// intersects it. Records are deduplicated first and their order does not matter. Running it again
// on the same records inserts nothing.
func (idx *Index) CorrectIncompleteFaces(
	ctx context.Context,
	records []IncompleteFace,
	progress utils.BatchDoneFunc,
) (CorrectionStats, error) {
	records = slices.Clone(records)
	slices.SortFunc(records, func(a, b IncompleteFace) int {
		if c := cmp.Compare(a.Face, b.Face); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	records = slices.Compact(records)

	stats := CorrectionStats{Records: len(records)}
	var pending []IncompleteFace
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) && records[end].Face == records[start].Face {
			end++
		}
		run := records[start:end]
		start = end

		stats.Faces++
		if idx.coveredByNeighbors(run) {
			stats.ResolvedByNeighbors++
			idx.metrics.recordCorrection(correctionNeighbors)
			continue
		}
		if len(run) > 3 {
			idx.logger.CDebugw(ctx, "face flagged in more than three leaves", "face", run[0].Face, "leaves", len(run))
		}
		pending = append(pending, run...)
	}
	stats.AncestorSearches = len(pending)

	var insertions, rootFallbacks atomic.Int64
	err := utils.RunBatches(len(pending), idx.cfg.Workers, func(i int) error {
		rec := pending[i]
		tri := triangleOf(idx.surface, rec.Face)
		ancestor, contained := idx.containingAncestor(rec.Node, tri)
		if contained {
			idx.metrics.recordCorrection(correctionAncestor)
		} else {
			rootFallbacks.Add(1)
			idx.metrics.recordCorrection(correctionRoot)
			idx.logger.CDebugw(ctx, "ancestor search reached the root without containment",
				"face", rec.Face, "node", rec.Node)
		}
		insertions.Add(int64(idx.redescend(ancestor, rec.Face, tri)))
		return nil
	}, progress)

	stats.Insertions = int(insertions.Load())
	stats.RootFallbacks = int(rootFallbacks.Load())
	idx.metrics.recordInsertions(stats.Insertions)
	return stats, err
}

// coveredByNeighbors reports whether the face of run lies in exactly two sibling leaves that share a
// cube face, with all three corners inside their union.
func (idx *Index) coveredByNeighbors(run []IncompleteFace) bool {
	if len(run) != 2 {
		return false
	}
	a, b := idx.faces.Node(run[0].Node), idx.faces.Node(run[1].Node)
	if a.parent == NoNode || a.parent != b.parent || !spatialmath.OctantsAreNeighbors(a.Octant(), b.Octant()) {
		return false
	}
	face := idx.surface.Face(run[0].Face)
	for _, v := range face {
		p := idx.surface.Vertex(v)
		if !a.cube.ContainsPoint(p) && !b.cube.ContainsPoint(p) {
			return false
		}
	}
	return true
}

// containingAncestor walks up from id to the first node whose cube contains tri. The root is
// returned when no node does, along with false.
func (idx *Index) containingAncestor(id NodeID, tri *spatialmath.Triangle) (NodeID, bool) {
	for {
		node := idx.faces.Node(id)
		if node.cube.ContainsTriangle(tri) {
			return id, true
		}
		if node.parent == NoNode {
			return id, false
		}
		id = node.parent
	}
}

// redescend registers f in every leaf under id whose cube intersects tri and returns the number of
// leaves it was new to. Only the insertion itself takes the lock.
func (idx *Index) redescend(id NodeID, f mesh.FaceID, tri *spatialmath.Triangle) int {
	node := idx.faces.Node(id)
	if node.IsLeaf() {
		idx.mu.Lock()
		defer idx.mu.Unlock()
		if node.insert(f) {
			return 1
		}
		return 0
	}
	inserted := 0
	for _, child := range node.children {
		if idx.faces.Node(child).cube.IntersectsTriangle(tri) {
			inserted += idx.redescend(child, f, tri)
		}
	}
	return inserted
}

// IncompleteFaces lists the face tree leaves holding a face their cube does not fully contain. After
// construction these are the border faces that correction already spread to all touched leaves.
func (idx *Index) IncompleteFaces() []IncompleteFace {
	var records []IncompleteFace
	for _, id := range idx.faces.Leaves() {
		node := idx.faces.Node(id)
		for _, f := range node.Elements() {
			if !node.cube.ContainsTriangle(triangleOf(idx.surface, f)) {
				records = append(records, IncompleteFace{Face: f, Node: id})
			}
		}
	}
	return records
}
