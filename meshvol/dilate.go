package meshvol

import (
	"math"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/geom"
	"github.com/soypat/meshvol/mesh"
	"github.com/soypat/meshvol/voxgrid"
)

// ExpandNB grows the narrow band outward by repeatedly dilating a boolean
// mask of Dist's topology by one voxel and, for each newly active mask
// voxel, computing its exact distance to the primitive identified by its
// closest already-active 18-neighbor. A voxel only survives into Dist if
// the resulting distance still falls inside the requested band on its
// side; otherwise the mask drops it. Iterates until the mask stabilizes
// empty or a bound on iteration count (derived from the band width) is
// reached.
func ExpandNB(g *Grids, m *mesh.Mesh, voxelSize, exBand, inBand float64, cfg Config) {
	interrupted := cfg.interrupter()
	mask := voxgrid.NewTree[bool](false)
	g.SqrDist.ForEachActive(func(ijk csg.V3i, _ float64) {
		mask.SetValue(ijk, true)
	})

	maxIters := int(math.Ceil(math.Max(exBand, inBand)/float64(voxgrid.LeafDim))) + 1
	for iter := 0; iter < maxIters; iter++ {
		if interrupted.WasInterrupted() {
			return
		}
		dilated := voxgrid.DilateActive26(mask)
		newly := voxgrid.NewlyActive(g.SqrDist, dilated)
		if len(newly) == 0 {
			return
		}
		preallocateLeaves(g.SqrDist, newly)
		preallocateLeaves32(g.PrimIndex, newly)

		nextMask := voxgrid.NewTree[bool](false)
		mask.ForEachActive(func(ijk csg.V3i, _ bool) {
			nextMask.SetValue(ijk, true)
		})

		for _, mv := range newly {
			bestDist := math.Inf(1)
			bestPrim := voxgrid.InvalidIndex
			for i := 0; i < 18; i++ {
				n := mv.Add(voxgrid.COORD_OFFSETS[i])
				v, on := g.SqrDist.ProbeValue(n)
				if !on {
					continue
				}
				if math.Abs(v) < bestDist {
					bestDist = math.Abs(v)
					bestPrim = g.PrimIndex.GetValue(n)
				}
			}
			if bestPrim == voxgrid.InvalidIndex {
				continue
			}
			d := exactVoxelDistance(m, bestPrim, mv) * voxelSize

			cur, _ := g.SqrDist.ProbeValue(mv)
			inside := cur < 0
			switch {
			case !inside && d < exBand:
				g.SqrDist.SetValue(mv, d)
				g.PrimIndex.SetValue(mv, bestPrim)
				nextMask.SetValue(mv, true)
			case inside && d < inBand:
				g.SqrDist.SetValue(mv, -d)
				g.PrimIndex.SetValue(mv, bestPrim)
				nextMask.SetValue(mv, true)
			}
		}
		mask = nextMask
	}
}

// exactVoxelDistance computes the true index-space distance (not squared)
// from mv's voxel center to polygon prim.
func exactVoxelDistance(m *mesh.Mesh, prim int32, mv csg.V3i) float64 {
	poly := m.Polys[prim]
	center := mv.ToV3()
	v0 := m.Points[poly[0]]
	v1 := m.Points[poly[1]]
	v2 := m.Points[poly[2]]
	if poly[3] == mesh.InvalidIndex {
		return math.Sqrt(geom.TriToPointDistSqr(v0, v1, v2, center))
	}
	v3 := m.Points[poly[3]]
	return math.Sqrt(geom.TriToPointDistSqrQuad(v0, v1, v2, v3, center))
}

// preallocateLeaves materializes the leaves containing ijks in t without
// marking anything active, so the per-voxel write loop that follows never
// triggers a map insertion (and can safely run once dilation work is
// parallelized across leaves without racing on the tree's leaf map).
func preallocateLeaves(t *voxgrid.Tree[float64], ijks []csg.V3i) {
	for _, ijk := range ijks {
		t.TouchLeaf(ijk)
	}
}

func preallocateLeaves32(t *voxgrid.Tree[int32], ijks []csg.V3i) {
	for _, ijk := range ijks {
		t.TouchLeaf(ijk)
	}
}
