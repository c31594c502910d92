// Package spatialmath defines the geometric primitives used by the mesh index: triangles,
// axis aligned cubes and triangular prisms, with the containment and intersection predicates
// between them.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// floatEpsilon is the tolerance for signed plane distances and barycentric coordinates.
const floatEpsilon = 1e-9

// PlaneNormal returns the unit normal of the plane through three points, following the right hand
// rule on p0->p1->p2. Collinear points give the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// ClosestPointSegmentPoint returns the point on the segment [segStart, segEnd] closest to pt.
func ClosestPointSegmentPoint(segStart, segEnd, pt r3.Vector) r3.Vector {
	segVec := segEnd.Sub(segStart)
	lenSq := segVec.Norm2()
	if lenSq == 0 {
		return segStart
	}
	t := math.Max(0, math.Min(1, pt.Sub(segStart).Dot(segVec)/lenSq))
	return segStart.Add(segVec.Mul(t))
}

// dominantAxis returns the index (0=x, 1=y, 2=z) of the largest magnitude component.
func dominantAxis(v r3.Vector) int {
	a := v.Abs()
	switch {
	case a.X >= a.Y && a.X >= a.Z:
		return 0
	case a.Y >= a.Z:
		return 1
	default:
		return 2
	}
}

// project2D drops one coordinate of v.
func project2D(v r3.Vector, drop int) (float64, float64) {
	switch drop {
	case 0:
		return v.Y, v.Z
	case 1:
		return v.X, v.Z
	default:
		return v.X, v.Y
	}
}

func orient2D(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func onSegment2D(ax, ay, bx, by, px, py float64) bool {
	return math.Min(ax, bx)-floatEpsilon <= px && px <= math.Max(ax, bx)+floatEpsilon &&
		math.Min(ay, by)-floatEpsilon <= py && py <= math.Max(ay, by)+floatEpsilon
}

// segmentsIntersectCoplanar tests two segments that lie in a common plane whose normal is n.
func segmentsIntersectCoplanar(a0, a1, b0, b1, n r3.Vector) bool {
	drop := dominantAxis(n)
	ax, ay := project2D(a0, drop)
	bx, by := project2D(a1, drop)
	cx, cy := project2D(b0, drop)
	dx, dy := project2D(b1, drop)

	d1 := orient2D(cx, cy, dx, dy, ax, ay)
	d2 := orient2D(cx, cy, dx, dy, bx, by)
	d3 := orient2D(ax, ay, bx, by, cx, cy)
	d4 := orient2D(ax, ay, bx, by, dx, dy)

	if ((d1 > floatEpsilon && d2 < -floatEpsilon) || (d1 < -floatEpsilon && d2 > floatEpsilon)) &&
		((d3 > floatEpsilon && d4 < -floatEpsilon) || (d3 < -floatEpsilon && d4 > floatEpsilon)) {
		return true
	}
	switch {
	case math.Abs(d1) <= floatEpsilon && onSegment2D(cx, cy, dx, dy, ax, ay):
		return true
	case math.Abs(d2) <= floatEpsilon && onSegment2D(cx, cy, dx, dy, bx, by):
		return true
	case math.Abs(d3) <= floatEpsilon && onSegment2D(ax, ay, bx, by, cx, cy):
		return true
	case math.Abs(d4) <= floatEpsilon && onSegment2D(ax, ay, bx, by, dx, dy):
		return true
	}
	return false
}
