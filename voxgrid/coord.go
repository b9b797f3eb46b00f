package voxgrid

import "github.com/soypat/meshvol/csg"

// LeafDim is the side length, in voxels, of a single leaf tile. OpenVDB-style
// sparse trees favor powers of two for cheap masking; 8 keeps leaves small
// enough that narrow bands around thin mesh features don't waste much
// memory on unused voxels within a leaf.
const LeafDim = 8

const leafVoxelCount = LeafDim * LeafDim * LeafDim

// COORD_OFFSETS is the canonical 26-neighbor offset table. The first 6
// entries are the face-axial neighbors (±X,±Y,±Z); entries 0..17 are the 18
// face+edge neighbors; all 26 are face+edge+corner. Index 3 is +Y and index
// 5 is +Z, matching the contour tracer's backtrack probes.
var COORD_OFFSETS = [26]csg.V3i{
	{-1, 0, 0}, {1, 0, 0}, // 0,1: -X,+X
	{0, -1, 0}, {0, 1, 0}, // 2,3: -Y,+Y
	{0, 0, -1}, {0, 0, 1}, // 4,5: -Z,+Z

	{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}, {1, 1, 0}, // 6..9: XY edges
	{-1, 0, -1}, {1, 0, -1}, {-1, 0, 1}, {1, 0, 1}, // 10..13: XZ edges
	{0, -1, -1}, {0, 1, -1}, {0, -1, 1}, {0, 1, 1}, // 14..17: YZ edges

	{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, // 18..21: corners z-1
	{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1}, // 22..25: corners z+1
}

// InvalidIndex is the sentinel value for "no polygon" in a PrimIndex grid.
const InvalidIndex int32 = -1

// floorDiv divides a by b rounding towards negative infinity, required for
// leaf-coordinate bucketing since mesh-space voxel coordinates may be
// negative.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// leafOrigin returns the voxel-space origin of the leaf containing ijk.
func leafOrigin(ijk csg.V3i) csg.V3i {
	return csg.V3i{
		floorDiv(ijk[0], LeafDim) * LeafDim,
		floorDiv(ijk[1], LeafDim) * LeafDim,
		floorDiv(ijk[2], LeafDim) * LeafDim,
	}
}

// localIndex returns the linear index of ijk within its leaf, given the
// leaf's origin.
func localIndex(ijk, origin csg.V3i) int {
	lx := ijk[0] - origin[0]
	ly := ijk[1] - origin[1]
	lz := ijk[2] - origin[2]
	return (lx*LeafDim+ly)*LeafDim + lz
}

// StepTable returns stepSize[d] = side length in voxels of an internal tile
// at depth d, for d in [0,maxDepth]. stepSize[0] is a single voxel (1) and
// each subsequent depth doubles the leaf dimension, mirroring how the
// contour tracer strides across whole empty tiles instead of voxel by
// voxel.
func StepTable(maxDepth int) []int {
	steps := make([]int, maxDepth+1)
	steps[0] = 1
	side := LeafDim
	for d := 1; d <= maxDepth; d++ {
		steps[d] = side
		side *= 2
	}
	return steps
}
