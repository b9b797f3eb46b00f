package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriToPointDistSqrAboveCentroid(t *testing.T) {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 10, Y: 0, Z: 0}
	c := r3.Vec{X: 0, Y: 10, Z: 0}
	p := r3.Vec{X: 1, Y: 1, Z: 5}
	got := TriToPointDistSqr(a, b, c, p)
	want := 25.0 // directly above the triangle interior, so only Z separates p.
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %g want %g", got, want)
	}
}

func TestTriToPointDistSqrBeyondVertex(t *testing.T) {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 10, Y: 0, Z: 0}
	c := r3.Vec{X: 0, Y: 10, Z: 0}
	p := r3.Vec{X: -3, Y: -4, Z: 0}
	got := TriToPointDistSqr(a, b, c, p)
	want := 9.0 + 16.0 // closest point is vertex a.
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %g want %g", got, want)
	}
}

func TestTriToPointDistSqrOffEdge(t *testing.T) {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 10, Y: 0, Z: 0}
	c := r3.Vec{X: 0, Y: 10, Z: 0}
	p := r3.Vec{X: 5, Y: -2, Z: 0}
	got := TriToPointDistSqr(a, b, c, p)
	want := 4.0 // closest point on edge a-b is (5,0,0).
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %g want %g", got, want)
	}
}

func TestTriToPointDistSqrDegenerate(t *testing.T) {
	// Zero-area triangle (collinear vertices) must still return a finite,
	// non-negative distance rather than NaN/Inf.
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 5, Y: 0, Z: 0}
	c := r3.Vec{X: 10, Y: 0, Z: 0}
	p := r3.Vec{X: 5, Y: 3, Z: 0}
	got := TriToPointDistSqr(a, b, c, p)
	if math.IsNaN(got) || math.IsInf(got, 0) || got < 0 {
		t.Fatalf("degenerate triangle produced invalid distance: %v", got)
	}
	if math.Abs(got-9) > 1e-6 {
		t.Errorf("got %g want 9", got)
	}
}

func TestClosestTriPointBarycentricRoundTrip(t *testing.T) {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 4, Y: 0, Z: 0}
	c := r3.Vec{X: 0, Y: 4, Z: 0}
	p := r3.Vec{X: 1, Y: 1, Z: 3}
	distSqr, u, v := ClosestTriPoint(a, b, c, p)
	w := 1 - u - v
	reconstructed := r3.Add(r3.Scale(u, a), r3.Add(r3.Scale(v, b), r3.Scale(w, c)))
	gotDistSqr := r3.Norm2(r3.Sub(p, reconstructed))
	if math.Abs(gotDistSqr-distSqr) > 1e-9 {
		t.Errorf("barycentric reconstruction distance %g does not match reported %g", gotDistSqr, distSqr)
	}
	if math.Abs(distSqr-9) > 1e-9 {
		t.Errorf("got %g want 9", distSqr)
	}
}

func TestTriToPointDistSqrQuad(t *testing.T) {
	v0 := r3.Vec{X: 0, Y: 0, Z: 0}
	v1 := r3.Vec{X: 10, Y: 0, Z: 0}
	v2 := r3.Vec{X: 10, Y: 10, Z: 0}
	v3 := r3.Vec{X: 0, Y: 10, Z: 0}
	p := r3.Vec{X: 5, Y: 5, Z: 2}
	got := TriToPointDistSqrQuad(v0, v1, v2, v3, p)
	want := 4.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %g want %g", got, want)
	}
}
