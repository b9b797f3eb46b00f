package meshvol

import (
	"math"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/voxgrid"
)

// Renormalize smooths bumps left by overlapping geometry with one upwind
// step of the eikonal equation |grad phi| = 1, applied via an
// offset/renorm/min/offset-back sequence so the zero crossing doesn't move
// net. Per-leaf scratch buffers (from a LeafManager) hold the renormalized
// candidate before the min merge, matching the narrow-band dilation's
// leaf-local write discipline.
func Renormalize(g *Grids, voxelSize, cfl float64) {
	const offsetFrac = 0.8
	offset := offsetFrac * voxelSize
	dt := cfl * voxelSize

	lm := voxgrid.NewLeafManager(g.SqrDist)
	for i := 0; i < lm.NumLeaves(); i++ {
		origin, leaf := lm.Leaf(i)
		scratch := lm.Scratch(i)
		leaf.ForEachActive(func(ijk csg.V3i, v float64) {
			idx := leafLocalIndex(ijk, origin)
			phi := v - offset
			grad := upwindGradient(g.SqrDist, ijk)
			s := phi / math.Sqrt(phi*phi+grad*grad)
			renormed := phi - dt*s*(grad/voxelSize-1)
			scratch[idx] = math.Min(phi, renormed) + offset
		})
	}
	for i := 0; i < lm.NumLeaves(); i++ {
		origin, leaf := lm.Leaf(i)
		scratch := lm.Scratch(i)
		leaf.ForEachActive(func(ijk csg.V3i, _ float64) {
			idx := leafLocalIndex(ijk, origin)
			g.SqrDist.SetValue(ijk, scratch[idx])
		})
	}
}

// upwindGradient returns the magnitude of the first-order upwind difference
// vector at ijk, in the tree's value units and not divided by the voxel
// size (Renormalize applies that division): for each axis, the forward or
// backward difference with the larger magnitude (the one pointing away from
// the surface) contributes its square.
func upwindGradient(t *voxgrid.Tree[float64], ijk csg.V3i) float64 {
	center := t.GetValue(ijk)
	sumSq := 0.0
	axes := [3]csg.V3i{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for _, ax := range axes {
		fwd := t.GetValue(ijk.Add(ax)) - center
		bwd := center - t.GetValue(ijk.Sub(ax))
		d := math.Max(math.Abs(fwd), math.Abs(bwd))
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}

func leafLocalIndex(ijk, origin csg.V3i) int {
	lx := ijk[0] - origin[0]
	ly := ijk[1] - origin[1]
	lz := ijk[2] - origin[2]
	return (lx*voxgrid.LeafDim+ly)*voxgrid.LeafDim + lz
}

// Trim deactivates voxels whose magnitude falls outside the requested
// band, used only when the band is tight (either side under 3 voxels),
// where dilation and renormalization error could otherwise leave stray
// values beyond the intended narrow band.
func Trim(g *Grids, exBand, inBand float64) {
	var toClear []csg.V3i
	g.SqrDist.ForEachActive(func(ijk csg.V3i, v float64) {
		if v >= 0 && v > exBand {
			toClear = append(toClear, ijk)
		} else if v < 0 && -v > inBand {
			toClear = append(toClear, ijk)
		}
	})
	for _, ijk := range toClear {
		v := g.SqrDist.GetValue(ijk)
		if v >= 0 {
			g.SqrDist.SetValueOff(ijk, exBand)
		} else {
			g.SqrDist.SetValueOff(ijk, -inBand)
		}
		g.PrimIndex.SetValueOff(ijk, voxgrid.InvalidIndex)
	}
}

// NeedsTrim reports whether the band is tight enough that Trim should run,
// per the narrow-band convention that dilation error only needs explicit
// clipping below three voxels of slack.
func NeedsTrim(exBand, inBand float64) bool {
	const tightBand = 3.0
	return exBand < tightBand || inBand < tightBand
}

// Prune drops leaves left with no active voxels after trimming.
func Prune(g *Grids) {
	voxgrid.PruneInactive(g.SqrDist)
	voxgrid.PruneInactive(g.PrimIndex)
}
