package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBasicTriangleFunctions(t *testing.T) {
	expectedPts := []r3.Vector{{0, 0, 0}, {0, 3, 0}, {3, 0, 0}}
	tri := NewTriangle(expectedPts[0], expectedPts[1], expectedPts[2])

	expectedNormal := r3.Vector{0, 0, 1}
	expectedArea := 4.5
	expectedCentroid := r3.Vector{1, 1, 0}

	t.Run("constructor", func(t *testing.T) {
		test.That(t, tri.Points(), test.ShouldResemble, expectedPts)
		// the cross product of the normal with what is expected should result in nothing
		test.That(t, tri.Normal().Cross(expectedNormal), test.ShouldResemble, r3.Vector{})
		test.That(t, tri.IsDegenerate(), test.ShouldBeFalse)
	})

	t.Run("area", func(t *testing.T) {
		test.That(t, tri.Area(), test.ShouldEqual, expectedArea)
	})

	t.Run("centroid", func(t *testing.T) {
		test.That(t, tri.Centroid(), test.ShouldResemble, expectedCentroid)
	})

	t.Run("closest triangle inside point", func(t *testing.T) {
		// interior
		closestPoint, isInside := tri.ClosestInsidePoint(r3.Vector{1, 1, 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{1, 1, 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// above edge
		closestPoint, isInside = tri.ClosestInsidePoint(r3.Vector{2, 0, 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{2, 0, 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// outside (obtuse with triangle)
		_, isInside = tri.ClosestInsidePoint(r3.Vector{1, -1, 1})
		test.That(t, isInside, test.ShouldBeFalse)

		// outside (straight with triangle)
		_, isInside = tri.ClosestInsidePoint(r3.Vector{0, 4, 0})
		test.That(t, isInside, test.ShouldBeFalse)
	})

	t.Run("closest triangle point", func(t *testing.T) {
		test.That(t, tri.ClosestPointToPoint(r3.Vector{1, 1, 1}), test.ShouldResemble, r3.Vector{1, 1, 0})
		// closest point is on an edge
		test.That(t, tri.ClosestPointToPoint(r3.Vector{3, 2, 1}), test.ShouldResemble, r3.Vector{2, 1, 0})
		// closest point is a corner
		test.That(t, tri.ClosestPointToPoint(r3.Vector{-1, -1, 1}), test.ShouldResemble, r3.Vector{0, 0, 0})
	})

	t.Run("contains point", func(t *testing.T) {
		test.That(t, tri.ContainsPoint(r3.Vector{1, 1, 0}), test.ShouldBeTrue)
		test.That(t, tri.ContainsPoint(r3.Vector{0, 0, 0}), test.ShouldBeTrue)
		test.That(t, tri.ContainsPoint(r3.Vector{1.5, 1.5, 0}), test.ShouldBeTrue)
		test.That(t, tri.ContainsPoint(r3.Vector{2, 2, 0}), test.ShouldBeFalse)
		test.That(t, tri.ContainsPoint(r3.Vector{1, 1, 0.1}), test.ShouldBeFalse)
		test.That(t, tri.ContainsPoint(r3.Vector{-0.1, 1, 0}), test.ShouldBeFalse)
	})
}

func TestTrianglePlane(t *testing.T) {
	tri := NewTriangle(r3.Vector{0, 0, -1}, r3.Vector{2, 0, 1}, r3.Vector{0, 2, 1})

	t.Run("crossing", func(t *testing.T) {
		test.That(t, tri.IntersectsPlane(r3.Vector{}, r3.Vector{0, 0, 1}), test.ShouldBeTrue)
		p0, p1, ok := tri.TrianglePlaneIntersectingSegment(r3.Vector{}, r3.Vector{0, 0, 1})
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, p0.Z, test.ShouldAlmostEqual, 0)
		test.That(t, p1.Z, test.ShouldAlmostEqual, 0)
		test.That(t, p0.Sub(p1).Norm(), test.ShouldAlmostEqual, r3.Vector{1, -1, 0}.Norm())
	})

	t.Run("missing", func(t *testing.T) {
		test.That(t, tri.IntersectsPlane(r3.Vector{0, 0, 5}, r3.Vector{0, 0, 1}), test.ShouldBeFalse)
		_, _, ok := tri.TrianglePlaneIntersectingSegment(r3.Vector{0, 0, 5}, r3.Vector{0, 0, 1})
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("touching a corner", func(t *testing.T) {
		p0, p1, ok := tri.TrianglePlaneIntersectingSegment(r3.Vector{0, 0, -1}, r3.Vector{0, 0, 1})
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, p0, test.ShouldResemble, r3.Vector{0, 0, -1})
		test.That(t, p1, test.ShouldResemble, p0)
	})

	t.Run("in plane", func(t *testing.T) {
		flat := NewTriangle(r3.Vector{0, 0, 0}, r3.Vector{4, 0, 0}, r3.Vector{0, 1, 0})
		p0, p1, ok := flat.TrianglePlaneIntersectingSegment(r3.Vector{}, r3.Vector{0, 0, 1})
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, p0, test.ShouldResemble, r3.Vector{4, 0, 0})
		test.That(t, p1, test.ShouldResemble, r3.Vector{0, 1, 0})
	})
}

func TestTriangleSegment(t *testing.T) {
	tri := NewTriangle(r3.Vector{0, 0, 0}, r3.Vector{3, 0, 0}, r3.Vector{0, 3, 0})

	test.That(t, tri.IntersectsSegment(r3.Vector{1, 1, -1}, r3.Vector{1, 1, 1}), test.ShouldBeTrue)
	test.That(t, tri.IntersectsSegment(r3.Vector{1, 1, 0}, r3.Vector{1, 1, 1}), test.ShouldBeTrue)
	test.That(t, tri.IntersectsSegment(r3.Vector{1, 1, 0.5}, r3.Vector{1, 1, 1}), test.ShouldBeFalse)
	test.That(t, tri.IntersectsSegment(r3.Vector{5, 5, -1}, r3.Vector{5, 5, 1}), test.ShouldBeFalse)

	// coplanar
	test.That(t, tri.IntersectsSegment(r3.Vector{-1, 1, 0}, r3.Vector{1, 1, 0}), test.ShouldBeTrue)
	test.That(t, tri.IntersectsSegment(r3.Vector{-1, 1, 0}, r3.Vector{4, 1, 0}), test.ShouldBeTrue)
	test.That(t, tri.IntersectsSegment(r3.Vector{-1, -1, 0}, r3.Vector{-1, 5, 0}), test.ShouldBeFalse)

	degenerate := NewTriangle(r3.Vector{0, 0, 0}, r3.Vector{1, 1, 1}, r3.Vector{2, 2, 2})
	test.That(t, degenerate.IsDegenerate(), test.ShouldBeTrue)
	test.That(t, degenerate.IntersectsSegment(r3.Vector{1, 0, 0}, r3.Vector{0, 1, 0}), test.ShouldBeFalse)
}

func TestTriangleTriangleIntersection(t *testing.T) {
	base := NewTriangle(r3.Vector{0, 0, 0}, r3.Vector{4, 0, 0}, r3.Vector{0, 4, 0})

	t.Run("crossing", func(t *testing.T) {
		other := NewTriangle(r3.Vector{1, 1, -1}, r3.Vector{1, 1, 1}, r3.Vector{1, -3, 0})
		test.That(t, base.IntersectsTriangle(other), test.ShouldBeTrue)
		test.That(t, other.IntersectsTriangle(base), test.ShouldBeTrue)
	})

	t.Run("piercing through the middle", func(t *testing.T) {
		other := NewTriangle(r3.Vector{1, 1, -1}, r3.Vector{1.5, 1, 1}, r3.Vector{1, 1.5, 1})
		test.That(t, base.IntersectsTriangle(other), test.ShouldBeTrue)
	})

	t.Run("plane crossed outside the triangle", func(t *testing.T) {
		other := NewTriangle(r3.Vector{5, 5, -1}, r3.Vector{5, 6, 1}, r3.Vector{6, 5, 1})
		test.That(t, base.IntersectsTriangle(other), test.ShouldBeFalse)
		test.That(t, other.IntersectsTriangle(base), test.ShouldBeFalse)
	})

	t.Run("parallel", func(t *testing.T) {
		other := NewTriangle(r3.Vector{0, 0, 1}, r3.Vector{4, 0, 1}, r3.Vector{0, 4, 1})
		test.That(t, base.IntersectsTriangle(other), test.ShouldBeFalse)
	})

	t.Run("line of planes hits only one", func(t *testing.T) {
		// Crosses z=0 along x=3.5 for y in [-2,2], which only overlaps base for y <= 0.5.
		// A second one that sits beyond the hypotenuse must miss.
		other := NewTriangle(r3.Vector{3.5, -2, -1}, r3.Vector{3.5, 2, -1}, r3.Vector{3.5, 0, 1})
		test.That(t, base.IntersectsTriangle(other), test.ShouldBeTrue)
		beyond := NewTriangle(r3.Vector{3.5, 1, -1}, r3.Vector{3.5, 3, -1}, r3.Vector{3.5, 2, 1})
		test.That(t, base.IntersectsTriangle(beyond), test.ShouldBeFalse)
	})

	t.Run("coplanar", func(t *testing.T) {
		overlapping := NewTriangle(r3.Vector{1, 1, 0}, r3.Vector{5, 1, 0}, r3.Vector{1, 5, 0})
		test.That(t, base.IntersectsTriangle(overlapping), test.ShouldBeTrue)

		inside := NewTriangle(r3.Vector{0.5, 0.5, 0}, r3.Vector{1, 0.5, 0}, r3.Vector{0.5, 1, 0})
		test.That(t, base.IntersectsTriangle(inside), test.ShouldBeTrue)
		test.That(t, inside.IntersectsTriangle(base), test.ShouldBeTrue)

		apart := NewTriangle(r3.Vector{5, 5, 0}, r3.Vector{6, 5, 0}, r3.Vector{5, 6, 0})
		test.That(t, base.IntersectsTriangle(apart), test.ShouldBeFalse)
	})

	t.Run("degenerate", func(t *testing.T) {
		needle := NewTriangle(r3.Vector{1, 1, -1}, r3.Vector{1, 1, 1}, r3.Vector{1, 1, 0})
		test.That(t, needle.IsDegenerate(), test.ShouldBeTrue)
		test.That(t, base.IntersectsTriangle(needle), test.ShouldBeTrue)
		test.That(t, needle.IntersectsTriangle(base), test.ShouldBeTrue)
		test.That(t, needle.IntersectsTriangle(needle), test.ShouldBeFalse)
	})
}

func TestTriangleOverlapsAcrossEdge(t *testing.T) {
	tri := NewTriangle(r3.Vector{0, 0, 0}, r3.Vector{4, 0, 0}, r3.Vector{0, 4, 0})
	u, v := r3.Vector{0, 0, 0}, r3.Vector{4, 0, 0}

	test.That(t, tri.OverlapsAcrossEdge(u, v, r3.Vector{3, 3, 0}), test.ShouldBeTrue)
	// mirrored to the other side, a regular flat neighbour
	test.That(t, tri.OverlapsAcrossEdge(u, v, r3.Vector{2, -3, 0}), test.ShouldBeFalse)
	// bent out of the plane
	test.That(t, tri.OverlapsAcrossEdge(u, v, r3.Vector{2, 2, 1}), test.ShouldBeFalse)
	// collapsed onto the edge
	test.That(t, tri.OverlapsAcrossEdge(u, v, r3.Vector{2, 0, 0}), test.ShouldBeFalse)
}
