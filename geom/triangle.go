// Package geom implements point-to-triangle distance queries used to
// rasterize a polygon mesh into a voxel grid. The closest-point algorithm is
// David Eberly's (Geometric Tools) minimum distance between a point and a
// solid triangle, the same formulation used by BIH-based mesh distance
// queries.
package geom

import "gonum.org/v1/gonum/spatial/r3"

// TriToPointDistSqr returns the squared distance from p to the closest point
// on the solid triangle (a,b,c). Degenerate (zero-area) triangles still
// return a finite, non-negative value: the formulas below only divide by
// quantities derived from the edge Gram matrix, and a degenerate triangle
// simply collapses the closest point onto one of its edges or vertices.
func TriToPointDistSqr(a, b, c, p r3.Vec) float64 {
	distSqr, _, _ := closestTriPointParams(a, b, c, p)
	return distSqr
}

// ClosestTriPoint returns the squared distance from p to the closest point on
// solid triangle (a,b,c), along with the barycentric weights (u,v) such that
// the closest point equals u*a + v*b + (1-u-v)*c.
func ClosestTriPoint(a, b, c, p r3.Vec) (distSqr, u, v float64) {
	distSqr, s, t := closestTriPointParams(a, b, c, p)
	// s,t are coefficients on edge0=(b-a), edge1=(c-a): closest = a + s*edge0 + t*edge1
	// closest = (1-s-t)*a + s*b + t*c, so in the (u,v,1-u-v) convention on (a,b,c):
	u = 1 - s - t
	v = s
	return distSqr, u, v
}

// closestTriPointParams returns the squared distance and the (s,t) triangle
// parametrization (closest = a + s*edge0 + t*edge1) of the closest point.
func closestTriPointParams(a, b, c, p r3.Vec) (distSqr, s, t float64) {
	diff := r3.Sub(p, a)
	edge0 := r3.Sub(b, a)
	edge1 := r3.Sub(c, a)

	a00 := r3.Dot(edge0, edge0)
	a01 := r3.Dot(edge0, edge1)
	a11 := r3.Dot(edge1, edge1)
	b0 := -r3.Dot(diff, edge0)
	b1 := -r3.Dot(diff, edge1)

	f00 := b0
	f10 := b0 + a00
	f01 := b0 + a01

	var p0, p1, pt [2]float64
	var dt1, h0, h1 float64

	switch {
	case f00 >= 0:
		if f01 >= 0 {
			pt = getMinEdge02(a11, b1)
		} else {
			p0[0], p0[1] = 0, f00/(f00-f01)
			p1[0], p1[1] = f01/(f01-f10), 1-f01/(f01-f10)
			dt1 = p1[1] - p0[1]
			h0 = dt1 * (a11*p0[1] + b1)
			if h0 >= 0 {
				pt = getMinEdge02(a11, b1)
			} else {
				h1 = dt1 * (a01*p1[0] + a11*p1[1] + b1)
				if h1 <= 0 {
					pt = getMinEdge12(a01, a11, b1, f10, f01)
				} else {
					pt = getMinInterior(p0, h0, p1, h1)
				}
			}
		}
	case f01 <= 0:
		if f10 <= 0 {
			pt = getMinEdge12(a01, a11, b1, f10, f01)
		} else {
			p0[0], p0[1] = f00/(f00-f10), 0
			p1[0] = f01 / (f01 - f10)
			p1[1] = 1 - p1[0]
			h0 = p1[1] * (a01*p0[0] + b1)
			if h0 >= 0 {
				pt = p0
			} else {
				h1 = p1[1] * (a01*p1[0] + a11*p1[1] + b1)
				if h1 <= 0 {
					pt = getMinEdge12(a01, a11, b1, f10, f01)
				} else {
					pt = getMinInterior(p0, h0, p1, h1)
				}
			}
		}
	case f10 <= 0:
		p0[0], p0[1] = 0, f00/(f00-f01)
		p1[0] = f01 / (f01 - f10)
		p1[1] = 1 - p1[0]
		dt1 = p1[1] - p0[1]
		h0 = dt1 * (a11*p0[1] + b1)
		if h0 >= 0 {
			pt = getMinEdge02(a11, b1)
		} else {
			h1 = dt1 * (a01*p1[0] + a11*p1[1] + b1)
			if h1 <= 0 {
				pt = getMinEdge12(a01, a11, b1, f10, f01)
			} else {
				pt = getMinInterior(p0, h0, p1, h1)
			}
		}
	default:
		p0[0], p0[1] = f00/(f00-f10), 0
		p1[0], p1[1] = 0, f00/(f00-f01)
		h0 = p1[1] * (a01*p0[0] + b1)
		if h0 >= 0 {
			pt = p0
		} else {
			h1 = p1[1] * (a11*p1[1] + b1)
			if h1 <= 0 {
				pt = getMinEdge02(a11, b1)
			} else {
				pt = getMinInterior(p0, h0, p1, h1)
			}
		}
	}

	closest := r3.Add(a, r3.Add(r3.Scale(pt[0], edge0), r3.Scale(pt[1], edge1)))
	return r3.Norm2(r3.Sub(p, closest)), pt[0], pt[1]
}

func getMinEdge02(a11, b1 float64) (p [2]float64) {
	p[0] = 0
	switch {
	case b1 >= 0:
		p[1] = 0
	case a11+b1 <= 0:
		p[1] = 1
	default:
		p[1] = -b1 / a11
	}
	return p
}

func getMinEdge12(a01, a11, b1, f10, f01 float64) (p [2]float64) {
	h0 := a01 + b1 - f10
	if h0 >= 0 {
		p[1] = 0
	} else {
		h1 := a11 + b1 - f01
		if h1 <= 0 {
			p[1] = 1
		} else {
			p[1] = h0 / (h0 - h1)
		}
	}
	p[0] = 1 - p[1]
	return p
}

func getMinInterior(p0 [2]float64, h0 float64, p1 [2]float64, h1 float64) (p [2]float64) {
	z := h0 / (h0 - h1)
	omz := 1 - z
	p[0] = omz*p0[0] + z*p1[0]
	p[1] = omz*p0[1] + z*p1[1]
	return p
}

// TriToPointDistSqrQuad returns the minimum squared distance from p to a quad
// polygon, triangulated as (v0,v1,v2) and (v0,v3,v2), taking the closer of
// the two triangulations.
func TriToPointDistSqrQuad(v0, v1, v2, v3, p r3.Vec) float64 {
	d0 := TriToPointDistSqr(v0, v1, v2, p)
	d1 := TriToPointDistSqr(v0, v3, v2, p)
	if d1 < d0 {
		return d1
	}
	return d0
}

// ClosestQuadPoint is the barycentric-returning counterpart of
// TriToPointDistSqrQuad: it tries both triangulations of the quad and keeps
// the closer one, reporting which triangle (0 or 1) won.
func ClosestQuadPoint(v0, v1, v2, v3, p r3.Vec) (distSqr, u, v float64, triangle int) {
	d0, u0, v0w := ClosestTriPoint(v0, v1, v2, p)
	d1, u1, v1w := ClosestTriPoint(v0, v3, v2, p)
	if d1 < d0 {
		return d1, u1, v1w, 1
	}
	return d0, u0, v0w, 0
}
