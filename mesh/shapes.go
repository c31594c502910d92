package mesh

import (
	"math"

	"github.com/golang/geo/r3"
)

var phi = (1 + math.Sqrt(5)) / 2

// Corners of a regular icosahedron with edge length 2.
var icosahedronVertices = [12]r3.Vector{
	{-1, phi, 0},
	{1, phi, 0},
	{-1, -phi, 0},
	{1, -phi, 0},
	{0, -1, phi},
	{0, 1, phi},
	{0, -1, -phi},
	{0, 1, -phi},
	{phi, 0, -1},
	{phi, 0, 1},
	{-phi, 0, -1},
	{-phi, 0, 1},
}

// Faces of the icosahedron, wound counter clockwise seen from outside.
var icosahedronFaces = [20]Face{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Icosahedron returns a regular icosahedron centered at the origin with all vertices at the given
// distance from it.
func Icosahedron(radius float64) *Mesh {
	return Icosphere(radius, 0)
}

// Icosphere returns an icosahedron whose faces were split in four the given number of times, with
// every new vertex pushed out onto the sphere. It has 10*4^n+2 vertices and 20*4^n faces.
func Icosphere(radius float64, subdivisions int) *Mesh {
	vertices := make([]r3.Vector, 0, len(icosahedronVertices))
	for _, v := range icosahedronVertices {
		vertices = append(vertices, v.Normalize().Mul(radius))
	}
	faces := icosahedronFaces[:]

	for i := 0; i < subdivisions; i++ {
		midpoints := make(map[[2]VertexID]VertexID, 3*len(faces)/2)
		midpoint := func(a, b VertexID) VertexID {
			key := [2]VertexID{a, b}
			if a > b {
				key = [2]VertexID{b, a}
			}
			if id, ok := midpoints[key]; ok {
				return id
			}
			id := VertexID(len(vertices))
			vertices = append(vertices, vertices[a].Add(vertices[b]).Normalize().Mul(radius))
			midpoints[key] = id
			return id
		}

		next := make([]Face, 0, 4*len(faces))
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				Face{f[0], ab, ca},
				Face{f[1], bc, ab},
				Face{f[2], ca, bc},
				Face{ab, bc, ca},
			)
		}
		faces = next
	}

	m, err := New(vertices, append([]Face(nil), faces...))
	if err != nil {
		// every index above is generated in range
		panic(err)
	}
	return m
}

// CrossingTriangles returns two triangles without shared vertices that pierce each other.
func CrossingTriangles() *Mesh {
	m, err := New([]r3.Vector{
		{0, 0, 0}, {4, 0, 0}, {0, 4, 0},
		{1, 1, -1}, {1, 1, 1}, {1, -3, 0},
	}, []Face{{0, 1, 2}, {3, 4, 5}})
	if err != nil {
		panic(err)
	}
	return m
}
