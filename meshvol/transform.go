package meshvol

import (
	"math"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/voxgrid"
)

// SqrtAndScale replaces every active SqrDist value v with
// sign(v)*voxelSize*sqrt(|v|), converting the working (negated) squared
// distance into a true signed world-space distance. In UDF mode the sign
// is forced positive.
func SqrtAndScale(g *Grids, voxelSize float64, signed bool) {
	g.SqrDist.ForEachActive(func(ijk csg.V3i, v float64) {
		d := voxelSize * math.Sqrt(math.Abs(v))
		if signed && v < 0 {
			d = -d
		}
		g.SqrDist.SetValue(ijk, d)
	})
}

// VoxelSign assigns signed background values to inactive voxels: +exBand
// if the voxel currently reads non-negative, -inBand otherwise, then swaps
// the tree's background to +exBand so that all future unset lookups read
// exterior. Only meaningful after SignedFloodFill has settled each
// inactive voxel's side.
func VoxelSign(g *Grids, exBand, inBand float64) {
	g.SqrDist.ForEachLeaf(func(origin csg.V3i, leaf *voxgrid.Leaf[float64]) {
		for x := 0; x < voxgrid.LeafDim; x++ {
			for y := 0; y < voxgrid.LeafDim; y++ {
				for z := 0; z < voxgrid.LeafDim; z++ {
					ijk := csg.V3i{origin[0] + x, origin[1] + y, origin[2] + z}
					v, on := g.SqrDist.ProbeValue(ijk)
					if on {
						continue
					}
					if v >= 0 {
						g.SqrDist.SetValueOff(ijk, exBand)
					} else {
						g.SqrDist.SetValueOff(ijk, -inBand)
					}
				}
			}
		}
	})
	g.SqrDist.SetBackground(exBand)
}

// SignedFloodFill fills inactive voxels within materialized leaves with the
// background value matching their enclosing side, using the nearest active
// voxel's sign as determined by a multi-source BFS. See
// voxgrid.SignedFloodFillMaterialized for why this only covers materialized
// leaves rather than implicit background tiles.
func SignedFloodFill(g *Grids, insideBG, outsideBG float64) {
	voxgrid.SignedFloodFillMaterialized(g.SqrDist, insideBG, outsideBG)
}
