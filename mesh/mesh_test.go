package mesh

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNew(t *testing.T) {
	t.Run("incidence", func(t *testing.T) {
		m, err := New([]r3.Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, []Face{{0, 1, 2}, {1, 3, 2}})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.NumVertices(), test.ShouldEqual, 4)
		test.That(t, m.NumFaces(), test.ShouldEqual, 2)
		test.That(t, m.FacesOfVertex(0), test.ShouldResemble, []FaceID{0})
		test.That(t, m.FacesOfVertex(1), test.ShouldResemble, []FaceID{0, 1})
		test.That(t, m.FacesOfVertex(2), test.ShouldResemble, []FaceID{0, 1})
		test.That(t, m.FacesOfVertex(3), test.ShouldResemble, []FaceID{1})
		test.That(t, m.Face(1), test.ShouldResemble, Face{1, 3, 2})
		test.That(t, m.Face(1).Has(3), test.ShouldBeTrue)
		test.That(t, m.Face(1).Has(0), test.ShouldBeFalse)

		minPt, maxPt := m.Bounds()
		test.That(t, minPt, test.ShouldResemble, r3.Vector{0, 0, 0})
		test.That(t, maxPt, test.ShouldResemble, r3.Vector{1, 1, 0})

		center := m.FaceCenter(0)
		test.That(t, center.X, test.ShouldAlmostEqual, 1./3.)
		test.That(t, center.Y, test.ShouldAlmostEqual, 1./3.)
		test.That(t, m.Triangle(0).Area(), test.ShouldAlmostEqual, 0.5)
	})

	t.Run("repeated corner", func(t *testing.T) {
		m, err := New([]r3.Vector{{0, 0, 0}, {1, 0, 0}}, []Face{{0, 1, 1}})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.FacesOfVertex(1), test.ShouldResemble, []FaceID{0})
		test.That(t, m.Triangle(0).IsDegenerate(), test.ShouldBeTrue)
	})

	t.Run("bad index", func(t *testing.T) {
		_, err := New([]r3.Vector{{0, 0, 0}}, []Face{{0, 1, 2}})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "references vertex 1")
	})

	t.Run("empty", func(t *testing.T) {
		m, err := New(nil, nil)
		test.That(t, err, test.ShouldBeNil)
		minPt, maxPt := m.Bounds()
		test.That(t, minPt, test.ShouldResemble, r3.Vector{})
		test.That(t, maxPt, test.ShouldResemble, r3.Vector{})
	})
}

func TestFromTriangles(t *testing.T) {
	m, err := FromTriangles([][3]r3.Vector{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		{{2, 2, 2}, {2, 2, 2}, {3, 3, 3}},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.NumFaces(), test.ShouldEqual, 2)
	// the collapsed triangle still contributed its two distinct positions
	test.That(t, m.NumVertices(), test.ShouldEqual, 6)
	test.That(t, m.FacesOfVertex(1), test.ShouldResemble, []FaceID{0, 1})
}

func TestIcosphere(t *testing.T) {
	ico := Icosahedron(2)
	test.That(t, ico.NumVertices(), test.ShouldEqual, 12)
	test.That(t, ico.NumFaces(), test.ShouldEqual, 20)
	for v := 0; v < ico.NumVertices(); v++ {
		test.That(t, ico.Vertex(VertexID(v)).Norm(), test.ShouldAlmostEqual, 2)
		test.That(t, len(ico.FacesOfVertex(VertexID(v))), test.ShouldEqual, 5)
	}
	for f := 0; f < ico.NumFaces(); f++ {
		// outward winding
		test.That(t, ico.Triangle(FaceID(f)).Normal().Dot(ico.FaceCenter(FaceID(f))), test.ShouldBeGreaterThan, 0)
	}

	for n, expected := range []struct{ vertices, faces int }{{12, 20}, {42, 80}, {162, 320}} {
		sphere := Icosphere(1, n)
		test.That(t, sphere.NumVertices(), test.ShouldEqual, expected.vertices)
		test.That(t, sphere.NumFaces(), test.ShouldEqual, expected.faces)
	}

	sphere := Icosphere(1, 2)
	for v := 0; v < sphere.NumVertices(); v++ {
		test.That(t, math.Abs(sphere.Vertex(VertexID(v)).Norm()-1), test.ShouldBeLessThan, 1e-12)
	}
}

func TestCrossingTriangles(t *testing.T) {
	m := CrossingTriangles()
	test.That(t, m.NumFaces(), test.ShouldEqual, 2)
	test.That(t, m.Triangle(0).IntersectsTriangle(m.Triangle(1)), test.ShouldBeTrue)
}

func TestOBJ(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		in := strings.NewReader(`# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0 1.0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
f -4 -2 -1`)
		m, err := ReadOBJ(in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.NumVertices(), test.ShouldEqual, 4)
		test.That(t, m.NumFaces(), test.ShouldEqual, 3)
		test.That(t, m.Face(0), test.ShouldResemble, Face{0, 1, 2})
		test.That(t, m.Face(1), test.ShouldResemble, Face{0, 2, 3})
		test.That(t, m.Face(2), test.ShouldResemble, Face{0, 2, 3})
	})

	t.Run("round trip", func(t *testing.T) {
		ico := Icosahedron(1)
		var buf bytes.Buffer
		test.That(t, WriteOBJ(ico, &buf), test.ShouldBeNil)
		m, err := ReadOBJ(&buf)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.NumVertices(), test.ShouldEqual, ico.NumVertices())
		test.That(t, m.NumFaces(), test.ShouldEqual, ico.NumFaces())
		test.That(t, m.Vertex(7), test.ShouldResemble, ico.Vertex(7))
		test.That(t, m.Face(13), test.ShouldResemble, ico.Face(13))
	})

	for _, tc := range []struct {
		name, input, msg string
	}{
		{"short vertex", "v 1 2\n", "line 1"},
		{"bad coordinate", "v 1 2 x\n", "invalid vertex coordinate"},
		{"forward reference", "v 0 0 0\nf 1 2 3\n", "not yet defined"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "index 0"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tc.input))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.msg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFromFile("/does/not/exist.obj")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestFromSDF(t *testing.T) {
	m, err := Sphere(1, 24)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.NumFaces(), test.ShouldBeGreaterThan, 100)
	for v := 0; v < m.NumVertices(); v++ {
		test.That(t, math.Abs(m.Vertex(VertexID(v)).Norm()-1), test.ShouldBeLessThan, 0.1)
	}
	test.That(t, m.NumVertices(), test.ShouldBeLessThanOrEqualTo, 3*m.NumFaces())

	_, err = FromSDF(nil, 10)
	test.That(t, err, test.ShouldNotBeNil)
}
