package main

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"go.viam.com/meshoctree/config"
	"go.viam.com/meshoctree/logging"
	"go.viam.com/meshoctree/mesh"
	"go.viam.com/meshoctree/octree"
)

const (
	// Flags.
	flagConfig    = "config"
	flagDebug     = "debug"
	flagQuiet     = "quiet"
	flagOBJ       = "obj"
	flagIcosphere = "icosphere"
	flagSDFSphere = "sdf-sphere"
	flagSDFCells  = "sdf-cells"
	flagPoint     = "point"
	flagLimit     = "limit"
)

type runner struct {
	logger logging.Logger
	cfg    *config.Config
}

func newApp() *cli.App {
	r := &runner{}
	return &cli.App{
		Name:  "meshoctree",
		Usage: "index triangle meshes with a dual octree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load index configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagQuiet,
				Usage: "do not show progress bars",
			},
			&cli.StringFlag{
				Name:  flagOBJ,
				Usage: "read the mesh from a Wavefront OBJ `FILE`",
			},
			&cli.IntFlag{
				Name:  flagIcosphere,
				Value: 2,
				Usage: "use a unit icosphere with this many subdivisions when no other mesh is given",
			},
			&cli.Float64Flag{
				Name:  flagSDFSphere,
				Usage: "use a marching cubes sphere of this `RADIUS`",
			},
			&cli.IntFlag{
				Name:  flagSDFCells,
				Value: mesh.DefaultSDFCells,
				Usage: "marching cubes cells along the longest side",
			},
		},
		Before: r.before,
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print the per level node counts and leaf occupancy",
				Action: r.info,
			},
			{
				Name:  "selfintersect",
				Usage: "list the pairs of faces that intersect each other",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagLimit,
						Value: 20,
						Usage: "print at most this many pairs",
					},
				},
				Action: r.selfIntersect,
			},
			{
				Name:  "nearest",
				Usage: "find the vertex closest to a point",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagPoint,
						Usage:    "query point as `X,Y,Z`",
						Required: true,
					},
				},
				Action: r.nearest,
			},
		},
	}
}

func (r *runner) before(c *cli.Context) error {
	r.cfg = config.Default()
	if path := c.String(flagConfig); path != "" {
		cfg, err := config.Read(path)
		if err != nil {
			return errors.Wrapf(err, "reading config %q", path)
		}
		r.cfg = cfg
	}

	if c.Bool(flagDebug) {
		r.logger = logging.NewDebugLogger("meshoctree")
	} else {
		r.logger = logging.NewLogger("meshoctree")
		r.logger.SetLevel(r.cfg.LogLevel)
	}
	return nil
}

func (r *runner) loadMesh(c *cli.Context) (*mesh.Mesh, error) {
	switch {
	case c.IsSet(flagOBJ):
		return mesh.NewFromFile(c.String(flagOBJ))
	case c.IsSet(flagSDFSphere):
		return mesh.Sphere(c.Float64(flagSDFSphere), c.Int(flagSDFCells))
	default:
		if c.Int(flagIcosphere) < 0 {
			return nil, errors.Errorf("invalid subdivision count %d", c.Int(flagIcosphere))
		}
		return mesh.Icosphere(1, c.Int(flagIcosphere)), nil
	}
}

func (r *runner) buildIndex(c *cli.Context) (*mesh.Mesh, *octree.Index, error) {
	m, err := r.loadMesh(c)
	if err != nil {
		return nil, nil, err
	}
	bar := r.progressBar(c, "correcting incomplete faces")
	defer bar.stop()
	idx, err := octree.New(c.Context, m, r.cfg.Index, r.logger, octree.WithCorrectionProgress(bar.update))
	if err != nil {
		return nil, nil, err
	}
	return m, idx, nil
}

func (r *runner) info(c *cli.Context) error {
	m, idx, err := r.buildIndex(c)
	if err != nil {
		return err
	}
	out := c.App.Writer
	fmt.Fprintf(out, "%d vertices, %d faces\n", m.NumVertices(), m.NumFaces())
	fmt.Fprintln(out, idx.DumpInfo())

	stats, err := idx.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "filled leaves: %d\n", stats.FilledLeaves)
	fmt.Fprintf(out, "vertices per leaf: mean %.2f median %.1f p95 %.1f max %.0f\n",
		stats.Vertices.Mean, stats.Vertices.Median, stats.Vertices.P95, stats.Vertices.Max)
	fmt.Fprintf(out, "faces per leaf: mean %.2f median %.1f p95 %.1f max %.0f\n",
		stats.Faces.Mean, stats.Faces.Median, stats.Faces.P95, stats.Faces.Max)
	return nil
}

func (r *runner) selfIntersect(c *cli.Context) error {
	_, idx, err := r.buildIndex(c)
	if err != nil {
		return err
	}

	bar := r.progressBar(c, "testing leaves")
	pairs, err := idx.SelfIntersections(c.Context, bar.update)
	bar.stop()
	if err != nil {
		return err
	}

	unique := octree.UniquePairs(pairs)
	out := c.App.Writer
	fmt.Fprintf(out, "%d intersecting pairs\n", len(unique))
	for i, pair := range unique {
		if i == c.Int(flagLimit) {
			fmt.Fprintf(out, "... %d more\n", len(unique)-i)
			break
		}
		fmt.Fprintf(out, "%d %d\n", pair.A, pair.B)
	}
	return nil
}

func (r *runner) nearest(c *cli.Context) error {
	p, err := parsePoint(c.String(flagPoint))
	if err != nil {
		return err
	}
	m, idx, err := r.buildIndex(c)
	if err != nil {
		return err
	}
	v, dist, ok := idx.NearestVertex(p)
	if !ok {
		return errors.New("the mesh has no vertices")
	}
	pos := m.Vertex(v)
	fmt.Fprintf(c.App.Writer, "vertex %d at (%g, %g, %g), distance %g\n", v, pos.X, pos.Y, pos.Z, dist)
	return nil
}

func parsePoint(s string) (r3.Vector, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vector{}, errors.Errorf("point %q must have three comma separated coordinates", s)
	}
	var coords [3]float64
	for i, part := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%g", &coords[i]); err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid coordinate %q", part)
		}
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// progress feeds a pass progress callback into a terminal progress bar.
type progress struct {
	bar  *pterm.ProgressbarPrinter
	done int
}

func (r *runner) progressBar(c *cli.Context, title string) *progress {
	if c.Bool(flagQuiet) {
		return &progress{}
	}
	return &progress{bar: pterm.DefaultProgressbar.WithTitle(title)}
}

func (p *progress) update(done, total int) {
	if p.bar == nil {
		return
	}
	if !p.bar.IsActive {
		bar, err := p.bar.WithTotal(total).Start()
		if err != nil {
			p.bar = nil
			return
		}
		p.bar = bar
	}
	p.bar.Add(done - p.done)
	p.done = done
}

func (p *progress) stop() {
	if p.bar == nil || !p.bar.IsActive {
		return
	}
	if _, err := p.bar.Stop(); err != nil {
		pterm.Error.Println(err)
	}
}
