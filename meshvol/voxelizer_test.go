package meshvol

import (
	"math"
	"testing"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func triangleMesh() *mesh.Mesh {
	pts := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 0, Y: 10, Z: 0},
	}
	return mesh.New(pts, [][4]int{{0, 1, 2, mesh.InvalidIndex}})
}

func TestVoxelizeMarksIntersectingVoxel(t *testing.T) {
	m := triangleMesh()
	g := Voxelize(m, Config{})
	// (1,1,0) lies on the hypotenuse plane x+y=10? no: distance from
	// (1,1,0) to the triangle's interior is 0 since it's inside the
	// triangle in the z=0 plane; it must be active and intersecting.
	ijk := ijkAt(1, 1, 0)
	if !g.Intersect.IsValueOn(ijk) {
		t.Fatal("voxel at (1,1,0), interior to the triangle, must be marked intersecting")
	}
	v, on := g.SqrDist.ProbeValue(ijk)
	if !on {
		t.Fatal("expected active voxel")
	}
	if math.Abs(v) > 1e-6 {
		t.Fatalf("expected near-zero squared distance at interior point, got %v", v)
	}
}

func TestVoxelizeFarVoxelUnset(t *testing.T) {
	m := triangleMesh()
	g := Voxelize(m, Config{})
	ijk := ijkAt(1000, 1000, 1000)
	if _, on := g.SqrDist.ProbeValue(ijk); on {
		t.Fatal("voxel far from the triangle must not be touched by rasterization")
	}
}

func TestCombineGridsIsCommutative(t *testing.T) {
	pts := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 0, Y: 10, Z: 0},
		{X: 20, Y: 0, Z: 0}, {X: 30, Y: 0, Z: 0}, {X: 20, Y: 10, Z: 0},
	}
	polyA := mesh.New(pts, [][4]int{{0, 1, 2, mesh.InvalidIndex}})
	polyB := mesh.New(pts, [][4]int{{3, 4, 5, mesh.InvalidIndex}})

	a := Voxelize(polyA, Config{})
	b := Voxelize(polyB, Config{})

	lhs := newWorkingGrids()
	combineGrids(lhs, a)
	combineGrids(lhs, b)

	rhs := newWorkingGrids()
	combineGrids(rhs, b)
	combineGrids(rhs, a)

	if lhs.SqrDist.ActiveCount() != rhs.SqrDist.ActiveCount() {
		t.Fatalf("combine order changed active count: %d vs %d", lhs.SqrDist.ActiveCount(), rhs.SqrDist.ActiveCount())
	}
	mismatch := false
	lhs.SqrDist.ForEachActive(func(ijk csg.V3i, v float64) {
		rv, on := rhs.SqrDist.ProbeValue(ijk)
		if !on || rv != v {
			mismatch = true
		}
	})
	if mismatch {
		t.Fatal("combine must be order-independent")
	}
}

func ijkAt(x, y, z int) csg.V3i {
	return csg.V3i{x, y, z}
}
