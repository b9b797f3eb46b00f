/*

Integer 3D vector, the index-space coordinate type voxgrid and meshvol
key every leaf and voxel lookup by.

*/

package csg

import "gonum.org/v1/gonum/spatial/r3"

// V3i is a 3D integer vector.
type V3i [3]int

// ToV3 converts V3i (integer) to r3.Vec (float).
func (a V3i) ToV3() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// Add adds two vectors. Return v = a + b.
func (a V3i) Add(b V3i) V3i {
	return V3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub subtracts two vectors. Return v = a - b.
func (a V3i) Sub(b V3i) V3i {
	return V3i{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Eq reports whether two vectors are component-wise equal.
func (a V3i) Eq(b V3i) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}

// MaxElem returns the component-wise maximum of two vectors.
func (a V3i) MaxElem(b V3i) V3i {
	return V3i{maxInt(a[0], b[0]), maxInt(a[1], b[1]), maxInt(a[2], b[2])}
}

// MinElem returns the component-wise minimum of two vectors.
func (a V3i) MinElem(b V3i) V3i {
	return V3i{minInt(a[0], b[0]), minInt(a[1], b[1]), minInt(a[2], b[2])}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
