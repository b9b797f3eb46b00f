package mesh

import (
	"errors"
	"testing"

	"github.com/soypat/meshvol/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func cubeMesh() *Mesh {
	pts := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	polys := [][4]int{
		{0, 1, 2, 3}, // bottom quad
		{4, 7, 6, 5}, // top quad
		{0, 4, 5, 1},
		{1, 5, 6, 2},
		{2, 6, 7, 3},
		{3, 7, 4, 0},
	}
	return New(pts, polys)
}

func TestValidateAcceptsCube(t *testing.T) {
	m := cubeMesh()
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsOutOfRangeIndex(t *testing.T) {
	m := New([]r3.Vec{{}, {}, {}}, [][4]int{{0, 1, 5, InvalidIndex}})
	if err := m.Validate(); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestValidateRejectsDegenerate(t *testing.T) {
	m := New([]r3.Vec{{}, {}}, [][4]int{{0, 1, InvalidIndex, InvalidIndex}})
	err := m.Validate()
	if !errors.Is(err, ErrDegenerateMesh) {
		t.Fatalf("expected ErrDegenerateMesh, got %v", err)
	}
}

func TestTriCountCountsQuadsTwice(t *testing.T) {
	m := cubeMesh()
	if got := m.TriCount(); got != 12 {
		t.Fatalf("TriCount = %d, want 12", got)
	}
}

func TestBoundsUnitCube(t *testing.T) {
	m := cubeMesh()
	min, max, ok := m.Bounds()
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := r3.Vec{X: 0, Y: 0, Z: 0}
	if min != want {
		t.Fatalf("min = %v, want %v", min, want)
	}
	want = r3.Vec{X: 1, Y: 1, Z: 1}
	if max != want {
		t.Fatalf("max = %v, want %v", max, want)
	}
}

func TestFromTrianglesWeldsSharedVertices(t *testing.T) {
	m := cubeMesh()
	tris := m.ToTriangles()
	welded := FromTriangles(tris, 1e-6)
	if len(welded.Points) != 8 {
		t.Fatalf("welded point count = %d, want 8", len(welded.Points))
	}
	if len(welded.Polys) != len(tris) {
		t.Fatalf("welded poly count = %d, want %d", len(welded.Polys), len(tris))
	}
}

func TestToTrianglesSplitsQuad(t *testing.T) {
	m := New(
		[]r3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}},
		[][4]int{{0, 1, 2, 3}},
	)
	tris := m.ToTriangles()
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles from quad, got %d", len(tris))
	}
}

func TestFromTrianglesDropsDegenerateTriangle(t *testing.T) {
	tris := []render.Triangle3{
		{V: [3]r3.Vec{{X: 0}, {X: 0}, {X: 1}}},
	}
	welded := FromTriangles(tris, 1e-6)
	if len(welded.Polys) != 0 {
		t.Fatalf("expected degenerate triangle to be dropped, got %d polys", len(welded.Polys))
	}
}
