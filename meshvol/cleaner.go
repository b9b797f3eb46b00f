package meshvol

import (
	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/voxgrid"
)

// CleanIntersectingVoxels deactivates voxels marked in Intersect that have
// no 26-neighbor with a positive (outside) Dist value: these were spurious
// markers left by a self-intersecting patch rather than genuine surface
// crossings.
func CleanIntersectingVoxels(g *Grids) {
	var toClear []csg.V3i
	g.Intersect.ForEachActive(func(ijk csg.V3i, _ bool) {
		for _, off := range voxgrid.COORD_OFFSETS {
			v, on := g.SqrDist.ProbeValue(ijk.Add(off))
			if on && v > 0 {
				return
			}
		}
		toClear = append(toClear, ijk)
	})
	for _, ijk := range toClear {
		g.Intersect.SetValue(ijk, false)
		g.SqrDist.SetValueOff(ijk, g.SqrDist.Background())
		g.PrimIndex.SetValueOff(ijk, voxgrid.InvalidIndex)
	}
}

// CleanShellVoxels handles interior voxels not marked in Intersect: if none
// of their 18 face+edge neighbors are in Intersect, they're isolated and
// get deactivated; otherwise they're clamped to at least the half-diagonal
// distance, guaranteeing the interior-marked shell stays a consistent
// minimum distance from the boundary.
func CleanShellVoxels(g *Grids) {
	var toClear []csg.V3i
	var toClamp []csg.V3i
	g.SqrDist.ForEachActive(func(ijk csg.V3i, v float64) {
		if v > 0 || g.Intersect.IsValueOn(ijk) {
			return
		}
		hasIntersectNeighbor := false
		for i := 0; i < 18; i++ {
			if g.Intersect.IsValueOn(ijk.Add(voxgrid.COORD_OFFSETS[i])) {
				hasIntersectNeighbor = true
				break
			}
		}
		if !hasIntersectNeighbor {
			toClear = append(toClear, ijk)
		} else if v > -halfDiagSqr {
			toClamp = append(toClamp, ijk)
		}
	})
	for _, ijk := range toClear {
		g.SqrDist.SetValueOff(ijk, g.SqrDist.Background())
		g.PrimIndex.SetValueOff(ijk, voxgrid.InvalidIndex)
	}
	for _, ijk := range toClamp {
		g.SqrDist.SetValue(ijk, -halfDiagSqr)
	}
}
