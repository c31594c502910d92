package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// cubeEpsilon is the slack allowed when deciding whether a point lies in a cube. Points on a shared
// face therefore belong to both cubes.
const cubeEpsilon = 1e-9

// Ordered list of cube corner directions. The order also numbers the octants of a cube: child nr of a
// cube is the sub-cube that has corner nr of its parent as one of its own corners.
var octantSigns = [8]r3.Vector{
	{1, 1, 1},
	{-1, 1, 1},
	{1, -1, 1},
	{-1, -1, 1},
	{1, 1, -1},
	{1, -1, -1},
	{-1, 1, -1},
	{-1, -1, -1},
}

// For every octant, the three octants of the same parent that share a face with it.
var octantNeighbors = [8][3]int{
	{1, 2, 4},
	{0, 3, 6},
	{3, 0, 5},
	{2, 1, 7},
	{6, 5, 0},
	{7, 4, 2},
	{4, 7, 1},
	{5, 6, 3},
}

// The 12 edges of a cube, as pairs of corner indices that differ in exactly one sign.
var cubeEdgeIndices = [12][2]int{
	{0, 1}, {0, 2}, {0, 4},
	{1, 3}, {1, 6},
	{2, 3}, {2, 5},
	{3, 7},
	{4, 5}, {4, 6},
	{5, 7},
	{6, 7},
}

var cubeAxes = [3]r3.Vector{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// OctantsAreNeighbors reports whether two octants of one parent share a face.
func OctantsAreNeighbors(a, b int) bool {
	if a < 0 || a > 7 {
		return false
	}
	for _, n := range octantNeighbors[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Cube is an axis aligned cube given by its center and half its edge length.
type Cube struct {
	Center    r3.Vector
	HalfScale float64
}

// NewCube returns the cube centered at center with the given edge length.
func NewCube(center r3.Vector, edgeLength float64) Cube {
	return Cube{Center: center, HalfScale: edgeLength / 2}
}

func (c Cube) String() string {
	return fmt.Sprintf("cube{center: %v, half: %g}", c.Center, c.HalfScale)
}

// EdgeLength returns the full edge length.
func (c Cube) EdgeLength() float64 {
	return 2 * c.HalfScale
}

// Vertex returns corner nr, 0..7.
func (c Cube) Vertex(nr int) r3.Vector {
	return c.Center.Add(octantSigns[nr].Mul(c.HalfScale))
}

// Vertices returns all eight corners in octant order.
func (c Cube) Vertices() [8]r3.Vector {
	var ret [8]r3.Vector
	for i := range ret {
		ret[i] = c.Vertex(i)
	}
	return ret
}

// Child returns octant nr: the cube of half the scale centered halfway towards corner nr.
func (c Cube) Child(nr int) Cube {
	half := c.HalfScale / 2
	return Cube{Center: c.Center.Add(octantSigns[nr].Mul(half)), HalfScale: half}
}

// Min returns the corner with the smallest coordinates.
func (c Cube) Min() r3.Vector {
	return c.Vertex(7)
}

// Max returns the corner with the largest coordinates.
func (c Cube) Max() r3.Vector {
	return c.Vertex(0)
}

// ContainsPoint reports whether p lies in the closed cube.
func (c Cube) ContainsPoint(p r3.Vector) bool {
	d := p.Sub(c.Center).Abs()
	limit := c.HalfScale + cubeEpsilon
	return d.X <= limit && d.Y <= limit && d.Z <= limit
}

// ContainsTriangle reports whether all of tri lies in the cube.
func (c Cube) ContainsTriangle(tri *Triangle) bool {
	for _, p := range tri.Points() {
		if !c.ContainsPoint(p) {
			return false
		}
	}
	return true
}

// SquaredDistanceToPoint is zero inside the cube and the squared euclidean distance to its surface
// outside.
func (c Cube) SquaredDistanceToPoint(p r3.Vector) float64 {
	d := p.Sub(c.Center).Abs()
	dx := math.Max(0, d.X-c.HalfScale)
	dy := math.Max(0, d.Y-c.HalfScale)
	dz := math.Max(0, d.Z-c.HalfScale)
	return dx*dx + dy*dy + dz*dz
}

// IntersectsTriangle reports whether tri and the closed cube share a point, using the separating axis
// test over the triangle normal, the three cube axes and the nine edge cross products.
func (c Cube) IntersectsTriangle(tri *Triangle) bool {
	v0 := tri.p0.Sub(c.Center)
	v1 := tri.p1.Sub(c.Center)
	v2 := tri.p2.Sub(c.Center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	if normal := f0.Cross(f1); normal.Norm2() > 0 {
		if c.separates(normal, v0, v1, v2) {
			return false
		}
	}
	for _, axis := range cubeAxes {
		if c.separates(axis, v0, v1, v2) {
			return false
		}
	}
	for _, u := range cubeAxes {
		for _, f := range [3]r3.Vector{f0, f1, f2} {
			axis := u.Cross(f)
			if axis.Norm2() == 0 {
				continue
			}
			if c.separates(axis, v0, v1, v2) {
				return false
			}
		}
	}
	return true
}

// separates reports whether the projections of the cube and of the triangle (given relative to the
// cube center) onto axis are disjoint.
func (c Cube) separates(axis, v0, v1, v2 r3.Vector) bool {
	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)
	triMin := math.Min(math.Min(p0, p1), p2)
	triMax := math.Max(math.Max(p0, p1), p2)

	a := axis.Abs()
	r := c.HalfScale*(a.X+a.Y+a.Z) + cubeEpsilon*axis.Norm()
	return triMax < -r || triMin > r
}

// RelativePosition classifies a cube against a query volume.
type RelativePosition int

const (
	// Disjoint means no point of the cube is in the volume.
	Disjoint RelativePosition = iota
	// Intersecting means part, but not all, of the cube is in the volume.
	Intersecting
	// Contained means the whole cube is in the volume.
	Contained
)

func (rp RelativePosition) String() string {
	switch rp {
	case Disjoint:
		return "disjoint"
	case Intersecting:
		return "intersecting"
	case Contained:
		return "contained"
	default:
		return fmt.Sprintf("RelativePosition(%d)", int(rp))
	}
}

// ClassifyPrism returns where the cube lies relative to the (unbounded) prism.
func (c Cube) ClassifyPrism(prism *TriangularPrism) RelativePosition {
	corners := c.Vertices()
	inside := 0
	for _, v := range corners {
		if prism.ContainsPoint(v) {
			inside++
		}
	}
	if inside == len(corners) {
		return Contained
	}
	if inside > 0 {
		return Intersecting
	}

	// No corner is inside, the cube can still be pierced by a side plane or a lateral edge line.
	for _, e := range cubeEdgeIndices {
		a, b := corners[e[0]], corners[e[1]]
		for k := range prism.normals {
			da := prism.signedDistance(k, a)
			db := prism.signedDistance(k, b)
			if da*db >= 0 {
				continue
			}
			if prism.ContainsPoint(a.Add(b.Sub(a).Mul(da / (da - db)))) {
				return Intersecting
			}
		}
	}
	for k := range prism.normals {
		j := (k + 1) % len(prism.normals)
		origin, dir, ok := prism.edgeLine(k, j)
		if !ok {
			continue
		}
		tMin, tMax, hit := c.clipLine(origin, dir)
		if !hit {
			continue
		}
		third := (k + 2) % len(prism.normals)
		if prism.signedDistance(third, origin.Add(dir.Mul(tMin))) <= floatEpsilon ||
			prism.signedDistance(third, origin.Add(dir.Mul(tMax))) <= floatEpsilon {
			return Intersecting
		}
	}
	return Disjoint
}

// clipLine intersects the line origin + t*dir with the cube and returns the parameter range inside.
func (c Cube) clipLine(origin, dir r3.Vector) (float64, float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	lo := c.Min()
	hi := c.Max()
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	l := [3]float64{lo.X, lo.Y, lo.Z}
	h := [3]float64{hi.X, hi.Y, hi.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < floatEpsilon {
			if o[i] < l[i]-cubeEpsilon || o[i] > h[i]+cubeEpsilon {
				return 0, 0, false
			}
			continue
		}
		t0 := (l[i] - o[i]) / d[i]
		t1 := (h[i] - o[i]) / d[i]
		t0, t1 = orderedPair(t0, t1)
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	if math.IsInf(tMin, 0) || math.IsInf(tMax, 0) {
		// Only possible for a zero direction, which callers never pass.
		return 0, 0, false
	}
	return tMin, tMax, true
}
