package spatialmath

import (
	"github.com/golang/geo/r3"
)

// TriangularPrism is a selection volume bounded by three side planes. It is built from six points
// given as near/far pairs (0,1), (2,3) and (4,5), each pair spanning one lateral edge. The near and
// far caps do not bound the volume: membership only depends on the side planes.
type TriangularPrism struct {
	vertices [6]r3.Vector
	normals  [3]r3.Vector
	offsets  [3]float64
}

// NewTriangularPrism builds the prism and orients its side planes outwards. Side k passes through
// lateral edge k and the near point of lateral edge k+1.
func NewTriangularPrism(vertices [6]r3.Vector) *TriangularPrism {
	prism := &TriangularPrism{vertices: vertices}

	var centroid r3.Vector
	for _, v := range vertices {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1. / 6.)

	for k := 0; k < 3; k++ {
		near, far := vertices[2*k], vertices[2*k+1]
		next := vertices[(2*k+2)%6]
		n := PlaneNormal(near, far, next)
		if n.Dot(centroid.Sub(near)) > 0 {
			n = n.Mul(-1)
		}
		prism.normals[k] = n
		prism.offsets[k] = n.Dot(near)
	}
	return prism
}

// Vertices returns the six defining points.
func (p *TriangularPrism) Vertices() [6]r3.Vector {
	return p.vertices
}

// signedDistance is negative on the inner side of side plane k.
func (p *TriangularPrism) signedDistance(k int, pt r3.Vector) float64 {
	return p.normals[k].Dot(pt) - p.offsets[k]
}

// ContainsPoint reports whether pt is on the inner side of all three side planes, boundary included.
func (p *TriangularPrism) ContainsPoint(pt r3.Vector) bool {
	for k := range p.normals {
		if p.signedDistance(k, pt) > floatEpsilon {
			return false
		}
	}
	return true
}

// edgeLine returns the line shared by side planes j and k as a point and a unit direction. Parallel
// planes have no such line.
func (p *TriangularPrism) edgeLine(j, k int) (r3.Vector, r3.Vector, bool) {
	n1, n2 := p.normals[j], p.normals[k]
	u := n1.Cross(n2)
	uu := u.Norm2()
	if uu < floatEpsilon {
		return r3.Vector{}, r3.Vector{}, false
	}
	origin := n2.Cross(u).Mul(p.offsets[j]).Add(u.Cross(n1).Mul(p.offsets[k])).Mul(1 / uu)
	return origin, u.Normalize(), true
}
