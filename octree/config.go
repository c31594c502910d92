package octree

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

const (
	// DefaultMaxVerticesPerLeaf is the leaf capacity used when none is configured.
	DefaultMaxVerticesPerLeaf = 32
	// DefaultMaxDepth bounds subdivision when none is configured.
	DefaultMaxDepth = 16

	// Padding applied to a bounding cube derived from the mesh, relative to its edge length.
	boundsPadding = 0.01
)

// Config describes how an Index subdivides space.
type Config struct {
	// MaxVerticesPerLeaf is the most vertices a leaf above MaxDepth may hold.
	MaxVerticesPerLeaf int `json:"max_vertices_per_leaf" yaml:"max_vertices_per_leaf"`
	// MaxDepth is the deepest level a node may be split into. Zero means DefaultMaxDepth.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// CopyBorderElements inserts a vertex on a cell boundary into every cell that contains it
	// instead of only the first one in octant order. Complete self-intersection results need it.
	CopyBorderElements bool `json:"copy_border_elements" yaml:"copy_border_elements"`
	// MinHalfScale stops subdivision of cells that are already this small.
	MinHalfScale float64 `json:"min_half_scale,omitempty" yaml:"min_half_scale,omitempty"`
	// Workers sizes the pool of the parallel passes. Zero means twice the CPU count.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Center and EdgeLength fix the root cube. A zero EdgeLength derives the root from the mesh
	// bounds, otherwise every vertex must lie inside the given cube.
	Center     r3.Vector `json:"center" yaml:"center"`
	EdgeLength float64   `json:"edge_length,omitempty" yaml:"edge_length,omitempty"`
}

// DefaultConfig returns the configuration used for self-intersection detection.
func DefaultConfig() Config {
	return Config{
		MaxVerticesPerLeaf: DefaultMaxVerticesPerLeaf,
		MaxDepth:           DefaultMaxDepth,
		CopyBorderElements: true,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.MaxVerticesPerLeaf == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "max_vertices_per_leaf")
	}
	if cfg.MaxVerticesPerLeaf < 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("max_vertices_per_leaf must be positive, got %d", cfg.MaxVerticesPerLeaf))
	}
	if cfg.MaxDepth < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("max_depth must not be negative, got %d", cfg.MaxDepth))
	}
	if cfg.MinHalfScale < 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("min_half_scale must not be negative, got %.4f", cfg.MinHalfScale))
	}
	if cfg.Workers < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("workers must not be negative, got %d", cfg.Workers))
	}
	if cfg.EdgeLength < 0 || math.IsNaN(cfg.EdgeLength) || math.IsInf(cfg.EdgeLength, 0) {
		return goutils.NewConfigValidationError(path, errors.Errorf("invalid edge length (%.2f) for octree", cfg.EdgeLength))
	}
	return nil
}

// maxDepth treats zero as the default.
func (cfg *Config) maxDepth() int {
	if cfg.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return cfg.MaxDepth
}
