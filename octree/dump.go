package octree

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DumpInfo renders a table with one row per level: node, leaf and filled leaf counts and how many
// vertex and face references the leaves of that level hold.
func (idx *Index) DumpInfo() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("index %s", idx.ID))
	t.AppendHeader(table.Row{"Depth", "Nodes", "Leaves", "Filled", "Vertices", "Faces"})
	var nodes, leaves, filled, vertices, faces int
	for depth := 0; depth <= idx.vertices.MaxDepth(); depth++ {
		var levelLeaves, levelFilled, levelVertices, levelFaces int
		ids := idx.vertices.NodesAtDepth(depth)
		for _, id := range ids {
			vnode := idx.vertices.Node(id)
			if !vnode.IsLeaf() {
				continue
			}
			levelLeaves++
			if vnode.Type() == LeafNodeFilled {
				levelFilled++
			}
			levelVertices += vnode.Len()
			levelFaces += idx.faces.Node(id).Len()
		}
		t.AppendRow(table.Row{depth, len(ids), levelLeaves, levelFilled, levelVertices, levelFaces})
		nodes += len(ids)
		leaves += levelLeaves
		filled += levelFilled
		vertices += levelVertices
		faces += levelFaces
	}
	t.AppendFooter(table.Row{"Total", nodes, leaves, filled, vertices, faces})
	return t.Render()
}

// OccupancyStats summarizes how many elements filled leaves hold.
type OccupancyStats struct {
	Mean, Median, StdDev, P95, Max float64
}

// Stats holds the occupancy of the filled leaves of both trees.
type Stats struct {
	FilledLeaves int
	Vertices     OccupancyStats
	Faces        OccupancyStats
}

// Stats computes the leaf occupancy of both trees. An index without filled leaves has zero stats.
func (idx *Index) Stats() (Stats, error) {
	var vertexCounts, faceCounts stats.Float64Data
	for _, id := range idx.vertices.Leaves() {
		vnode := idx.vertices.Node(id)
		fnode := idx.faces.Node(id)
		if vnode.Len() == 0 && fnode.Len() == 0 {
			continue
		}
		vertexCounts = append(vertexCounts, float64(vnode.Len()))
		faceCounts = append(faceCounts, float64(fnode.Len()))
	}
	out := Stats{FilledLeaves: len(vertexCounts)}
	if len(vertexCounts) == 0 {
		return out, nil
	}
	var err error
	if out.Vertices, err = occupancy(vertexCounts); err != nil {
		return Stats{}, errors.Wrap(err, "vertex occupancy")
	}
	if out.Faces, err = occupancy(faceCounts); err != nil {
		return Stats{}, errors.Wrap(err, "face occupancy")
	}
	return out, nil
}

func occupancy(counts stats.Float64Data) (OccupancyStats, error) {
	mean, err1 := counts.Mean()
	median, err2 := counts.Median()
	stdDev, err3 := counts.StandardDeviation()
	p95, err4 := counts.PercentileNearestRank(95)
	maxCount, err5 := counts.Max()
	if err := multierr.Combine(err1, err2, err3, err4, err5); err != nil {
		return OccupancyStats{}, err
	}
	return OccupancyStats{Mean: mean, Median: median, StdDev: stdDev, P95: p95, Max: maxCount}, nil
}
