package mesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// DefaultSDFCells is the marching cubes resolution used when FromSDF is given a non-positive one.
const DefaultSDFCells = 64

// FromSDF tessellates the surface of a signed distance field with uniform marching cubes and
// welds the resulting triangle soup into an indexed mesh.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if s == nil {
		return nil, errors.New("no signed distance field given")
	}
	if cells <= 0 {
		cells = DefaultSDFCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	soup := make([][3]r3.Vector, 0, len(triangles))
	for _, tri := range triangles {
		var corners [3]r3.Vector
		for j := 0; j < 3; j++ {
			v := tri[j]
			corners[j] = r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
		}
		soup = append(soup, corners)
	}
	return FromTriangles(soup)
}

// Sphere returns a marching cubes tessellation of a sphere around the origin.
func Sphere(radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, err
	}
	return FromSDF(s, cells)
}
