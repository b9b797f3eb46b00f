package render

import (
	"io"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/voxgrid"
	"gonum.org/v1/gonum/spatial/r3"
)

// ShellRenderer emits a voxelSize cube of triangles for every narrow-band voxel
// that sits on the sign boundary: active, at or below zero, with at least
// one 6-neighbor strictly above zero. It implements Renderer the same
// chunked, io.Reader-style way stlReader consumes an underlying source, so
// a grid can be written out with WriteSTL/CreateSTL without the caller
// materializing every cube triangle up front.
type ShellRenderer struct {
	tris []Triangle3
	pos  int
}

// NewShellRenderer precomputes the boundary voxel shell of dist (in world
// units, scaled by voxelSize) as a triangle mesh.
func NewShellRenderer(dist *voxgrid.Tree[float64], voxelSize float64) *ShellRenderer {
	r := &ShellRenderer{}
	dist.ForEachActive(func(ijk csg.V3i, v float64) {
		if v > 0 {
			return
		}
		onBoundary := false
		for i := 0; i < 6; i++ {
			n := ijk.Add(faceNeighbors[i])
			if nv, on := dist.ProbeValue(n); on && nv > 0 {
				onBoundary = true
				break
			}
		}
		if !onBoundary {
			return
		}
		r.tris = append(r.tris, cubeTriangles(ijk, voxelSize)...)
	})
	return r
}

// ReadTriangles copies up to len(t) precomputed triangles into t, io.Reader
// style: it returns io.EOF once every triangle has been delivered.
func (r *ShellRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if r.pos >= len(r.tris) {
		return 0, io.EOF
	}
	n := copy(t, r.tris[r.pos:])
	r.pos += n
	return n, nil
}

// TriangleCount returns the total number of triangles the renderer will
// deliver.
func (r *ShellRenderer) TriangleCount() int { return len(r.tris) }

var faceNeighbors = [6]csg.V3i{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// cubeTriangles returns the 12 triangles of a voxelSize-sided cube centered
// at ijk's world-space position.
func cubeTriangles(ijk csg.V3i, voxelSize float64) []Triangle3 {
	h := voxelSize / 2
	c := r3.Scale(voxelSize, ijk.ToV3())
	corner := func(dx, dy, dz float64) r3.Vec {
		return r3.Add(c, r3.Vec{X: dx * h, Y: dy * h, Z: dz * h})
	}
	v := [8]r3.Vec{
		corner(-1, -1, -1), corner(1, -1, -1), corner(1, 1, -1), corner(-1, 1, -1),
		corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1),
	}
	quad := func(a, b, c, d int) []Triangle3 {
		return []Triangle3{
			{V: [3]r3.Vec{v[a], v[b], v[c]}},
			{V: [3]r3.Vec{v[a], v[c], v[d]}},
		}
	}
	out := make([]Triangle3, 0, 12)
	out = append(out, quad(0, 3, 2, 1)...) // -Z
	out = append(out, quad(4, 5, 6, 7)...) // +Z
	out = append(out, quad(0, 1, 5, 4)...) // -Y
	out = append(out, quad(3, 7, 6, 2)...) // +Y
	out = append(out, quad(0, 4, 7, 3)...) // -X
	out = append(out, quad(1, 2, 6, 5)...) // +X
	return out
}
