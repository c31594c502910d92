package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Triangle is three points and the unit normal that follows their winding. A degenerate triangle
// (collinear or repeated points) has a zero normal.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a Triangle from its three corners.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the corners in construction order.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal, or the zero vector for a degenerate triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the surface area.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the center of gravity.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// IsDegenerate reports whether the triangle has no well defined plane.
func (t *Triangle) IsDegenerate() bool {
	return t.normal.Norm2() == 0
}

func (t *Triangle) edges() [3][2]r3.Vector {
	return [3][2]r3.Vector{{t.p0, t.p1}, {t.p1, t.p2}, {t.p2, t.p0}}
}

// ClosestPointToPoint takes a point, and returns the closest point on the triangle to the given point.
func (t *Triangle) ClosestPointToPoint(point r3.Vector) r3.Vector {
	closestPtInside, inside := t.ClosestInsidePoint(point)
	if inside {
		return closestPtInside
	}

	// Outside the prism over the triangle the closest point lies on an edge.
	closestPt := ClosestPointSegmentPoint(t.p0, t.p1, point)
	bestDist := point.Sub(closestPt).Norm2()

	newPt := ClosestPointSegmentPoint(t.p1, t.p2, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		closestPt = newPt
		bestDist = newDist
	}

	newPt = ClosestPointSegmentPoint(t.p2, t.p0, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		return newPt
	}
	return closestPt
}

// ClosestInsidePoint returns the projection of point onto the triangle's plane and whether that
// projection falls inside the triangle.
func (t *Triangle) ClosestInsidePoint(point r3.Vector) (r3.Vector, bool) {
	eps := 1e-6

	// Q = p0 + u * e0 + v * e1 is inside when 0 <= u, 0 <= v and u + v <= 1.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := point.Sub(t.p0)
	// The determinant is 0 only for a degenerate triangle.
	det := (a*c - b*b)
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+eps) && (u <= 1+eps) && (0 <= v+eps) && (v <= 1+eps) && (u+v <= 1+eps)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

// ContainsPoint reports whether pt lies in the triangle's plane and within its edges, boundary
// included. Degenerate triangles contain nothing.
func (t *Triangle) ContainsPoint(pt r3.Vector) bool {
	if t.IsDegenerate() || math.Abs(t.normal.Dot(pt.Sub(t.p0))) > floatEpsilon {
		return false
	}
	for _, e := range t.edges() {
		// Scaled by the edge length so the tolerance is a distance.
		edge := e[1].Sub(e[0])
		if edge.Cross(pt.Sub(e[0])).Dot(t.normal) < -floatEpsilon*edge.Norm() {
			return false
		}
	}
	return true
}

// IntersectsPlane determines if the triangle intersects with a plane defined by a point and normal vector.
// Returns true if the triangle intersects with or lies on the plane.
func (t *Triangle) IntersectsPlane(planePt, planeNormal r3.Vector) bool {
	d0 := planeNormal.Dot(t.p0.Sub(planePt))
	d1 := planeNormal.Dot(t.p1.Sub(planePt))
	d2 := planeNormal.Dot(t.p2.Sub(planePt))

	// All corners strictly on one side.
	if (d0 > floatEpsilon && d1 > floatEpsilon && d2 > floatEpsilon) ||
		(d0 < -floatEpsilon && d1 < -floatEpsilon && d2 < -floatEpsilon) {
		return false
	}
	return true
}

// TrianglePlaneIntersectingSegment determines the line segment where a triangle intersects with a plane.
// Returns the two points defining the intersection line segment and whether an intersection exists.
// If the triangle only touches the plane at a point, both returned points will be the same.
// If the triangle lies in the plane, it returns two points representing the longest edge of the triangle.
func (t *Triangle) TrianglePlaneIntersectingSegment(planePt, planeNormal r3.Vector) (r3.Vector, r3.Vector, bool) {
	if !t.IntersectsPlane(planePt, planeNormal) {
		return r3.Vector{}, r3.Vector{}, false
	}

	dists := [3]float64{
		planeNormal.Dot(t.p0.Sub(planePt)),
		planeNormal.Dot(t.p1.Sub(planePt)),
		planeNormal.Dot(t.p2.Sub(planePt)),
	}

	if math.Abs(dists[0]) < floatEpsilon && math.Abs(dists[1]) < floatEpsilon && math.Abs(dists[2]) < floatEpsilon {
		e1 := t.p1.Sub(t.p0).Norm2()
		e2 := t.p2.Sub(t.p1).Norm2()
		e3 := t.p0.Sub(t.p2).Norm2()
		if e1 >= e2 && e1 >= e3 {
			return t.p0, t.p1, true
		} else if e2 >= e1 && e2 >= e3 {
			return t.p1, t.p2, true
		}
		return t.p2, t.p0, true
	}

	edges := t.edges()
	intersections := make([]r3.Vector, 0, 3)
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if dists[i]*dists[j] < 0 {
			frac := dists[i] / (dists[i] - dists[j])
			edge := edges[i]
			intersections = append(intersections, edge[0].Add(edge[1].Sub(edge[0]).Mul(frac)))
		} else if math.Abs(dists[i]) < floatEpsilon {
			// Corner on the plane.
			intersections = append(intersections, edges[i][0])
		}
	}

	switch len(intersections) {
	case 0:
		return r3.Vector{}, r3.Vector{}, false
	case 1:
		return intersections[0], intersections[0], true
	default:
		return intersections[0], intersections[1], true
	}
}

// IntersectsSegment reports whether the closed segment [segStart, segEnd] touches the triangle.
func (t *Triangle) IntersectsSegment(segStart, segEnd r3.Vector) bool {
	if t.IsDegenerate() {
		return false
	}
	da := t.normal.Dot(segStart.Sub(t.p0))
	db := t.normal.Dot(segEnd.Sub(t.p0))
	if (da > floatEpsilon && db > floatEpsilon) || (da < -floatEpsilon && db < -floatEpsilon) {
		return false
	}

	if math.Abs(da) <= floatEpsilon && math.Abs(db) <= floatEpsilon {
		if t.ContainsPoint(segStart) || t.ContainsPoint(segEnd) {
			return true
		}
		for _, e := range t.edges() {
			if segmentsIntersectCoplanar(segStart, segEnd, e[0], e[1], t.normal) {
				return true
			}
		}
		return false
	}

	var hit r3.Vector
	switch {
	case math.Abs(da) <= floatEpsilon:
		hit = segStart
	case math.Abs(db) <= floatEpsilon:
		hit = segEnd
	default:
		hit = segStart.Add(segEnd.Sub(segStart).Mul(da / (da - db)))
	}
	return t.ContainsPoint(hit)
}

// IntersectsTriangle reports whether two triangles share at least one point. Touching counts as
// intersecting. A degenerate triangle is tested as its edges.
func (t *Triangle) IntersectsTriangle(other *Triangle) bool {
	switch {
	case t.IsDegenerate() && other.IsDegenerate():
		return false
	case t.IsDegenerate():
		return other.intersectsAnyEdgeOf(t)
	case other.IsDegenerate():
		return t.intersectsAnyEdgeOf(other)
	}

	if !other.IntersectsPlane(t.p0, t.normal) || !t.IntersectsPlane(other.p0, other.normal) {
		return false
	}

	if t.isCoplanarWith(other) {
		return t.intersectsAnyEdgeOf(other) || other.ContainsPoint(t.p0)
	}

	// Both intersection segments lie on the line shared by the two planes. The triangles meet iff
	// the segments overlap along that line.
	a0, a1, okA := t.TrianglePlaneIntersectingSegment(other.p0, other.normal)
	b0, b1, okB := other.TrianglePlaneIntersectingSegment(t.p0, t.normal)
	if !okA || !okB {
		return false
	}
	dir := t.normal.Cross(other.normal)
	minA, maxA := orderedPair(a0.Dot(dir), a1.Dot(dir))
	minB, maxB := orderedPair(b0.Dot(dir), b1.Dot(dir))
	return math.Max(minA, minB) <= math.Min(maxA, maxB)+floatEpsilon
}

func (t *Triangle) intersectsAnyEdgeOf(other *Triangle) bool {
	for _, e := range other.edges() {
		if t.IntersectsSegment(e[0], e[1]) {
			return true
		}
	}
	return false
}

func (t *Triangle) isCoplanarWith(other *Triangle) bool {
	for _, p := range other.Points() {
		if math.Abs(t.normal.Dot(p.Sub(t.p0))) > floatEpsilon {
			return false
		}
	}
	return true
}

func orderedPair(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// OverlapsAcrossEdge reports whether the triangle formed by the edge (edgeStart, edgeEnd) of t and
// apex lies in t's plane on the same side of that edge as t. Two faces sharing an edge only overlap
// in that folded configuration.
func (t *Triangle) OverlapsAcrossEdge(edgeStart, edgeEnd, apex r3.Vector) bool {
	if t.IsDegenerate() || math.Abs(t.normal.Dot(apex.Sub(edgeStart))) > floatEpsilon {
		return false
	}
	edge := edgeEnd.Sub(edgeStart)
	own := edge.Cross(t.Centroid().Sub(edgeStart)).Dot(t.normal)
	other := edge.Cross(apex.Sub(edgeStart)).Dot(t.normal)
	if math.Abs(other) <= floatEpsilon*edge.Norm() {
		return false
	}
	return own*other > 0
}
