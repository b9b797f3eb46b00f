package meshvol

import (
	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/geom"
	"github.com/soypat/meshvol/mesh"
	"github.com/soypat/meshvol/voxgrid"
	"gonum.org/v1/gonum/spatial/r3"
)

// ResolveIntersectingVoxelSign disambiguates voxels left marked inside
// (Dist < 0) in Intersect by comparing the direction from each one's
// closest mesh point to its own center against the same direction computed
// for non-intersecting, already-outside neighbors. Agreement (positive dot
// product) flips the voxel to outside.
func ResolveIntersectingVoxelSign(g *Grids, m *mesh.Mesh) {
	var toFlip []csg.V3i
	g.Intersect.ForEachActive(func(ijk csg.V3i, _ bool) {
		v, on := g.SqrDist.ProbeValue(ijk)
		if !on || v >= 0 {
			return
		}
		dir, ok := closestPointDirection(g, m, ijk)
		if !ok {
			return
		}
		for _, off := range voxgrid.COORD_OFFSETS {
			n := ijk.Add(off)
			if g.Intersect.IsValueOn(n) {
				continue
			}
			nv, on := g.SqrDist.ProbeValue(n)
			if !on || nv < 0 {
				continue
			}
			ndir, ok := closestPointDirection(g, m, n)
			if !ok {
				continue
			}
			if r3.Dot(dir, ndir) > 0 {
				toFlip = append(toFlip, ijk)
				return
			}
		}
	})
	for _, ijk := range toFlip {
		v := g.SqrDist.GetValue(ijk)
		g.SqrDist.SetValue(ijk, -v)
	}
}

// closestPointDirection returns the unit vector from ijk's closest point on
// its recorded polygon to the voxel center, trying both triangulations of a
// quad and keeping the closer one.
func closestPointDirection(g *Grids, m *mesh.Mesh, ijk csg.V3i) (r3.Vec, bool) {
	pidx, on := g.PrimIndex.ProbeValue(ijk)
	if !on || pidx == voxgrid.InvalidIndex {
		return r3.Vec{}, false
	}
	poly := m.Polys[pidx]
	center := ijk.ToV3()
	v0 := m.Points[poly[0]]
	v1 := m.Points[poly[1]]
	v2 := m.Points[poly[2]]
	var closest r3.Vec
	if poly[3] == mesh.InvalidIndex {
		_, u, v := geom.ClosestTriPoint(v0, v1, v2, center)
		closest = baryPoint(v0, v1, v2, u, v)
	} else {
		v3 := m.Points[poly[3]]
		_, u, v, triangle := geom.ClosestQuadPoint(v0, v1, v2, v3, center)
		if triangle == 0 {
			closest = baryPoint(v0, v1, v2, u, v)
		} else {
			closest = baryPoint(v0, v3, v2, u, v)
		}
	}
	dir := r3.Sub(center, closest)
	n := r3.Norm(dir)
	if n == 0 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, dir), true
}

func baryPoint(a, b, c r3.Vec, u, v float64) r3.Vec {
	w := 1 - u - v
	return r3.Add(r3.Add(r3.Scale(u, a), r3.Scale(v, b)), r3.Scale(w, c))
}
