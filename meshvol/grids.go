package meshvol

import (
	"math"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/voxgrid"
)

// Grids is the working triple of sparse trees threaded through the
// pipeline: SqrDist carries the (possibly negated, possibly signed)
// distance value, PrimIndex the closest polygon id, Intersect the
// boundary mask. Intersect is dropped before dilation; PrimIndex is
// dropped at the end unless the caller asked to keep it.
type Grids struct {
	SqrDist   *voxgrid.Tree[float64]
	PrimIndex *voxgrid.Tree[int32]
	Intersect *voxgrid.Tree[bool]
}

// newWorkingGrids returns an empty Grids set in the voxelizer's initial
// working state: SqrDist holds negated squared distances with background
// +inf (so any finite evaluated distance improves on it).
func newWorkingGrids() *Grids {
	return &Grids{
		SqrDist:   voxgrid.NewTree[float64](math.Inf(1)),
		PrimIndex: voxgrid.NewTree[int32](voxgrid.InvalidIndex),
		Intersect: voxgrid.NewTree[bool](false),
	}
}

// combineGrids merges src into dst following the voxelizer's left-biased
// combine rule: for each active src voxel with stored value r (a negated
// squared distance), keep both SqrDist and PrimIndex from src only if r's
// magnitude is strictly smaller than dst's current value. Intersect is
// merged by set union.
func combineGrids(dst, src *Grids) {
	src.SqrDist.ForEachActive(func(ijk csg.V3i, srcVal float64) {
		dstVal, on := dst.SqrDist.ProbeValue(ijk)
		if !on || math.Abs(srcVal) < math.Abs(dstVal) {
			dst.SqrDist.SetValue(ijk, srcVal)
			dst.PrimIndex.SetValue(ijk, src.PrimIndex.GetValue(ijk))
		}
	})
	voxgrid.TopologyUnion(dst.Intersect, src.Intersect)
}
