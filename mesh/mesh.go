// Package mesh defines the polygon soup input to the mesh-to-volume
// pipeline: a shared-vertex point list plus per-polygon vertex indices,
// supporting both triangles and quads the way OpenVDB's MeshToVolume does.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/meshvol/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// InvalidIndex marks the fourth slot of Polys as unused, i.e. the polygon is
// a triangle rather than a quad.
const InvalidIndex = -1

// Mesh is a shared-vertex polygon mesh. Polys holds one entry per polygon;
// a triangle stores its three vertex indices in [0:3] and InvalidIndex in
// [3], a quad uses all four slots. Quads are split into two triangles
// (0,1,2) and (0,3,2) wherever the pipeline needs pure triangles, matching
// the winding the distance evaluation (evalVoxel, geom.ClosestQuadPoint)
// uses for the quad's second half.
type Mesh struct {
	Points []r3.Vec
	Polys  [][4]int
}

// New builds a Mesh from points and polygon index arrays, without
// validating. Use Validate before handing the mesh to the conversion
// pipeline.
func New(points []r3.Vec, polys [][4]int) *Mesh {
	return &Mesh{Points: points, Polys: polys}
}

// IsQuad reports whether poly index i names a quad rather than a triangle.
func (m *Mesh) IsQuad(i int) bool {
	return m.Polys[i][3] != InvalidIndex
}

// TriCount returns the number of triangles the mesh decomposes into,
// counting each quad as two.
func (m *Mesh) TriCount() int {
	n := 0
	for i := range m.Polys {
		if m.IsQuad(i) {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Triangle returns the three corner positions of triangle index i within
// poly p; i is 0 for a triangle's only face, or 0/1 selecting which half of
// a quad's diagonal split. The second half is ordered (v0,v3,v2), matching
// the winding geom.ClosestQuadPoint/evalVoxel use for the same split.
func (m *Mesh) Triangle(p, i int) (a, b, c r3.Vec) {
	poly := m.Polys[p]
	if i == 0 {
		return m.Points[poly[0]], m.Points[poly[1]], m.Points[poly[2]]
	}
	return m.Points[poly[0]], m.Points[poly[3]], m.Points[poly[2]]
}

// ErrDegenerateMesh is returned by Validate when fewer than 3 of a
// polygon's four index slots hold a vertex index (slots holding
// InvalidIndex do not count). Repeated indices each count.
var ErrDegenerateMesh = errors.New("mesh: polygon has fewer than 3 valid vertices")

// Validate checks every polygon's indices other than InvalidIndex are within
// [0,len(Points)) and that each polygon has at least three of them. Polygons
// with repeated, coincident or collinear vertices are accepted. It returns
// the first problem found, wrapped with the offending polygon index.
func (m *Mesh) Validate() error {
	n := len(m.Points)
	for pi, poly := range m.Polys {
		valid := 0
		for k := 0; k < 4; k++ {
			idx := poly[k]
			if idx == InvalidIndex {
				continue
			}
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh: polygon %d: vertex index %d out of range [0,%d)", pi, idx, n)
			}
			valid++
		}
		if valid < 3 {
			return fmt.Errorf("%w: polygon %d has %d valid vertices", ErrDegenerateMesh, pi, valid)
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all points. ok is false
// for an empty mesh.
func (m *Mesh) Bounds() (min, max r3.Vec, ok bool) {
	if len(m.Points) == 0 {
		return min, max, false
	}
	min, max = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return min, max, true
}

// FromTriangles builds a shared-vertex Mesh from a triangle soup by welding
// coincident vertices, the inverse of the splitting ToTriangles does.
// Vertices are considered coincident when they hash to the same quantized
// grid cell of the given weld tolerance.
func FromTriangles(tris []render.Triangle3, tol float64) *Mesh {
	if tol <= 0 {
		tol = 1e-9
	}
	type key [3]int64
	quant := func(v r3.Vec) key {
		return key{
			int64(math.Round(v.X / tol)),
			int64(math.Round(v.Y / tol)),
			int64(math.Round(v.Z / tol)),
		}
	}
	index := make(map[key]int)
	var points []r3.Vec
	lookup := func(v r3.Vec) int {
		k := quant(v)
		if idx, ok := index[k]; ok {
			return idx
		}
		idx := len(points)
		points = append(points, v)
		index[k] = idx
		return idx
	}
	polys := make([][4]int, 0, len(tris))
	for _, tri := range tris {
		i0 := lookup(tri.V[0])
		i1 := lookup(tri.V[1])
		i2 := lookup(tri.V[2])
		if i0 == i1 || i1 == i2 || i0 == i2 {
			continue
		}
		polys = append(polys, [4]int{i0, i1, i2, InvalidIndex})
	}
	return &Mesh{Points: points, Polys: polys}
}

// ToTriangles flattens the mesh into a triangle soup suitable for a
// render.Renderer, splitting every quad along its (0,2) diagonal.
func (m *Mesh) ToTriangles() []render.Triangle3 {
	out := make([]render.Triangle3, 0, m.TriCount())
	for pi := range m.Polys {
		a, b, c := m.Triangle(pi, 0)
		out = append(out, render.Triangle3{V: [3]r3.Vec{a, b, c}})
		if m.IsQuad(pi) {
			a, b, c = m.Triangle(pi, 1)
			out = append(out, render.Triangle3{V: [3]r3.Vec{a, b, c}})
		}
	}
	return out
}
