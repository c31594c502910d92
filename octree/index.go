package octree

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/meshoctree/logging"
	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/spatialmath"
	"go.viam.com/meshoctree/utils"
)

// Index is the pair of octrees built over one mesh snapshot. It is rebuilt from scratch whenever
// the mesh changes.
type Index struct {
	// ID tells indexes apart in logs.
	ID uuid.UUID

	logger  logging.Logger
	cfg     Config
	metrics *Metrics
	surface Surface

	vertices *VertexTree
	faces    *FaceTree

	// mu guards the face sets of face tree leaves while correcting, and pair results while testing
	// for self intersections.
	mu sync.Mutex

	correctionProgress utils.BatchDoneFunc
	stats              BuildStats
}

// BuildStats describes a finished build.
type BuildStats struct {
	Vertices        int
	Faces           int
	Nodes           int
	MaxDepth        int
	IncompleteFaces int
	Correction      CorrectionStats
	Took            time.Duration
}

// Option adjusts an Index before it is built.
type Option func(*Index)

// WithMetrics reports build and pass metrics to m.
func WithMetrics(m *Metrics) Option {
	return func(idx *Index) {
		idx.metrics = m
	}
}

// WithCorrectionProgress is called after every batch of the correction pass.
func WithCorrectionProgress(progress utils.BatchDoneFunc) Option {
	return func(idx *Index) {
		idx.correctionProgress = progress
	}
}

// New builds the vertex tree of s, mirrors it into the face tree and corrects faces that straddle
// leaf boundaries.
func New(ctx context.Context, s Surface, cfg Config, logger logging.Logger, opts ...Option) (*Index, error) {
	if err := cfg.Validate("index"); err != nil {
		return nil, err
	}

	root := boundingCube(s)
	if cfg.EdgeLength > 0 {
		root = spatialmath.NewCube(cfg.Center, cfg.EdgeLength)
		for v := 0; v < s.NumVertices(); v++ {
			if p := s.Vertex(mesh.VertexID(v)); !root.ContainsPoint(p) {
				return nil, errors.Errorf("vertex %d at %v is outside the octree %v", v, p, root)
			}
		}
	}
	for f := 0; f < s.NumFaces(); f++ {
		for _, v := range s.Face(mesh.FaceID(f)) {
			if v < 0 || int(v) >= s.NumVertices() {
				return nil, errors.Errorf("face %d references unknown vertex %d", f, v)
			}
		}
	}

	idx := &Index{
		ID:      uuid.New(),
		logger:  logger,
		cfg:     cfg,
		surface: s,
	}
	for _, opt := range opts {
		opt(idx)
	}

	start := time.Now()
	idx.vertices = buildVertexTree(s, cfg, root)
	faces, incomplete := buildFaceTree(s, idx.vertices)
	idx.faces = faces
	logger.CDebugw(ctx, "octrees built",
		"index", idx.ID, "root", root, "nodes", idx.vertices.Size(), "depth", idx.vertices.MaxDepth(),
		"incomplete", len(incomplete))

	correction, err := idx.CorrectIncompleteFaces(ctx, incomplete, idx.correctionProgress)
	if err != nil {
		return nil, errors.Wrap(err, "correcting incomplete faces")
	}

	idx.stats = BuildStats{
		Vertices:        s.NumVertices(),
		Faces:           s.NumFaces(),
		Nodes:           idx.vertices.Size(),
		MaxDepth:        idx.vertices.MaxDepth(),
		IncompleteFaces: len(incomplete),
		Correction:      correction,
		Took:            time.Since(start),
	}
	idx.metrics.recordBuild(idx.stats.Took, len(incomplete))
	if correction.RootFallbacks > 0 {
		logger.CDebugw(ctx, "some faces are not contained by any node",
			"index", idx.ID, "faces", correction.RootFallbacks)
	}
	logger.Infow("mesh index ready",
		"index", idx.ID,
		"vertices", idx.stats.Vertices,
		"faces", idx.stats.Faces,
		"nodes", idx.stats.Nodes,
		"depth", idx.stats.MaxDepth,
		"incomplete", idx.stats.IncompleteFaces,
		"inserted", correction.Insertions,
		"took", idx.stats.Took)
	return idx, nil
}

// Config returns the configuration the index was built with.
func (idx *Index) Config() Config {
	return idx.cfg
}

// BuildStats returns what happened while building.
func (idx *Index) BuildStats() BuildStats {
	return idx.stats
}

// Vertices returns the vertex tree.
func (idx *Index) Vertices() *VertexTree {
	return idx.vertices
}

// Faces returns the face tree.
func (idx *Index) Faces() *FaceTree {
	return idx.faces
}
