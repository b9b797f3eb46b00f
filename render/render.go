package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer reads a triangle mesh in fixed-size chunks, io.Reader style.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a triangle described by three vertices in 3D space.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the triangle's face normal using the right-hand rule
// over V[0]->V[1]->V[2].
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Bounds returns the axis aligned bounding box of the triangle.
func (t Triangle3) Bounds() r3.Box {
	min, max := t.V[0], t.V[0]
	for _, v := range t.V[1:] {
		min = r3.Vec{X: minF(min.X, v.X), Y: minF(min.Y, v.Y), Z: minF(min.Z, v.Z)}
		max = r3.Vec{X: maxF(max.X, v.X), Y: maxF(max.Y, v.Y), Z: maxF(max.Z, v.Z)}
	}
	return r3.Box{Min: min, Max: max}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
