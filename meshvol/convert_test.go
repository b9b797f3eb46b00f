package meshvol

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestConvertEmptyPolygonList(t *testing.T) {
	m := mesh.New(nil, nil)
	res, err := ConvertToLevelSet(m, 1, 3, 3, Config{})
	if err != nil {
		t.Fatalf("empty polygon list must not error, got %v", err)
	}
	if res.Dist != nil && res.Dist.ActiveCount() != 0 {
		t.Fatal("empty polygon list must produce no active voxels")
	}
}

func TestConvertInvalidMesh(t *testing.T) {
	m := mesh.New([]r3.Vec{{}, {}}, [][4]int{{0, 1, 5, mesh.InvalidIndex}})
	_, err := ConvertToLevelSet(m, 1, 3, 3, Config{})
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestConvertUnsignedNonNegative(t *testing.T) {
	m := triangleMesh()
	res, err := ConvertToUnsignedDistanceField(m, 1, 3, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := false
	res.Dist.ForEachActive(func(_ csg.V3i, v float64) {
		if v < 0 {
			bad = true
		}
	})
	if bad {
		t.Fatal("UDF mode must yield non-negative distances everywhere")
	}
}

func TestConvertSingleTriangleUDF(t *testing.T) {
	m := triangleMesh()
	res, err := ConvertToUnsignedDistanceField(m, 1, 3, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	near := res.Dist.GetValue(ijkAt(1, 1, 0))
	if near > 0.2 {
		t.Fatalf("distance at a point inside the triangle should be near zero, got %v", near)
	}
	edgeDist := res.Dist.GetValue(ijkAt(0, 0, 5))
	if math.Abs(edgeDist-5) > 1.0 {
		t.Fatalf("distance at (0,0,5) should be close to 5, got %v", edgeDist)
	}
}

func TestConvertInterruptedReturnsError(t *testing.T) {
	m := triangleMesh()
	_, err := ConvertToLevelSet(m, 1, 3, 3, Config{Interrupter: alwaysInterrupt{}})
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
}

type alwaysInterrupt struct{}

func (alwaysInterrupt) WasInterrupted() bool { return true }

func TestConvertFlippedWindingTetrahedron(t *testing.T) {
	pts := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
		{X: 0, Y: 4, Z: 0},
		{X: 0, Y: 0, Z: 4},
	}
	// face (0,1,2) has opposite winding from the other three faces.
	polys := [][4]int{
		{0, 1, 2, mesh.InvalidIndex},
		{0, 1, 3, mesh.InvalidIndex},
		{1, 2, 3, mesh.InvalidIndex},
		{2, 0, 3, mesh.InvalidIndex},
	}
	m := mesh.New(pts, polys)
	res, err := ConvertToLevelSet(m, 1, 3, 3, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	centroid := ijkAt(1, 1, 1)
	v, on := res.Dist.ProbeValue(centroid)
	if !on {
		t.Skip("centroid voxel not active at this resolution")
	}
	if v >= 0 {
		t.Fatalf("tetrahedron centroid should read inside (negative) regardless of one face's winding, got %v", v)
	}
}

func TestSignSweepsClampedToAtLeastOne(t *testing.T) {
	c := Config{SignSweeps: -5}
	if got := c.signSweeps(); got != 1 {
		t.Fatalf("signSweeps() = %d, want 1 (max(-5,1) per corrected clamp)", got)
	}
	c = Config{SignSweeps: 4}
	if got := c.signSweeps(); got != 4 {
		t.Fatalf("signSweeps() = %d, want 4", got)
	}
}
