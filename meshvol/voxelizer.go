package meshvol

import (
	"math"
	"runtime"
	"sync"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/geom"
	"github.com/soypat/meshvol/mesh"
	"github.com/soypat/meshvol/voxgrid"
	"gonum.org/v1/gonum/spatial/r3"
)

// shortEdgeThreshold is the index-space span below which a polygon is
// rasterized with a seed flood-fill from a queue of individual voxels;
// above it a leaf-buffered sweep is used instead so that a handful of huge
// polygons don't force millions of individual queue entries. Any monotone
// threshold works; 200 matches the scale at which per-voxel queuing starts
// to dominate runtime in practice.
const shortEdgeThreshold = 200.0

// Voxelize rasterizes m's polygons into SqrDist/PrimIndex/Intersect grids,
// partitioning the polygon range across goroutines and folding their
// per-worker grids one by one into a single result with combineGrids.
// Returns early with whatever was produced so
// far if cfg's Interrupter fires.
func Voxelize(m *mesh.Mesh, cfg Config) *Grids {
	n := len(m.Polys)
	if n == 0 {
		return newWorkingGrids()
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	results := make([]*Grids, workers)
	var wg sync.WaitGroup
	interrupted := cfg.interrupter()
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			results[w] = voxelizeRange(m, lo, hi, interrupted)
		}(w, lo, hi)
	}
	wg.Wait()

	out := newWorkingGrids()
	for _, g := range results {
		if g == nil {
			continue
		}
		combineGrids(out, g)
	}
	return out
}

// voxelizeRange rasterizes polygons [lo,hi) of m into a fresh Grids set
// owned entirely by the calling goroutine.
func voxelizeRange(m *mesh.Mesh, lo, hi int, interrupted Interrupter) *Grids {
	g := newWorkingGrids()
	lastPrim := voxgrid.NewAccessor(voxgrid.NewTree[int32](voxgrid.InvalidIndex))
	for p := lo; p < hi; p++ {
		if interrupted.WasInterrupted() {
			return g
		}
		rasterizePolygon(g, lastPrim, m, p)
	}
	return g
}

func rasterizePolygon(g *Grids, lastPrim *voxgrid.Accessor[int32], m *mesh.Mesh, p int) {
	poly := m.Polys[p]
	isQuad := poly[3] != mesh.InvalidIndex
	v0 := m.Points[poly[0]]
	v1 := m.Points[poly[1]]
	v2 := m.Points[poly[2]]
	var v3 r3.Vec
	if isQuad {
		v3 = m.Points[poly[3]]
	}

	span := edgeSpan(m, p)
	pidx := int32(p)
	if span < shortEdgeThreshold {
		seeds := []csg.V3i{nearestVoxel(v0), nearestVoxel(v1), nearestVoxel(v2)}
		if isQuad {
			seeds = append(seeds, nearestVoxel(v3))
		}
		floodFillSeeded(g, lastPrim, pidx, v0, v1, v2, v3, isQuad, seeds)
	} else {
		floodFillLeafBuffered(g, lastPrim, pidx, v0, v1, v2, v3, isQuad, nearestVoxel(v0))
	}
}

// edgeSpan returns the Chebyshev extent of polygon p's bounding box: the
// largest absolute difference between any two vertices along a single
// coordinate axis. Used to pick the short- vs long-edge rasterization path.
func edgeSpan(m *mesh.Mesh, p int) float64 {
	poly := m.Polys[p]
	min := m.Points[poly[0]]
	max := min
	for k := 1; k < 4; k++ {
		idx := poly[k]
		if idx == mesh.InvalidIndex {
			continue
		}
		v := m.Points[idx]
		min = r3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = r3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	d := r3.Sub(max, min)
	return math.Max(math.Abs(d.X), math.Max(math.Abs(d.Y), math.Abs(d.Z)))
}

func nearestVoxel(v r3.Vec) csg.V3i {
	return csg.V3i{
		int(math.Round(v.X)),
		int(math.Round(v.Y)),
		int(math.Round(v.Z)),
	}
}

// floorToLeaf rounds ijk down to the leaf-aligned origin containing it,
// matching voxgrid's internal leaf bucketing so the leaf-buffered flood
// fill's queue entries line up with whole voxgrid.LeafDim^3 blocks.
func floorToLeaf(ijk csg.V3i) csg.V3i {
	floor := func(a int) int {
		q := a / voxgrid.LeafDim
		if a%voxgrid.LeafDim != 0 && a < 0 {
			q--
		}
		return q * voxgrid.LeafDim
	}
	return csg.V3i{floor(ijk[0]), floor(ijk[1]), floor(ijk[2])}
}

// evalVoxel computes the squared distance from ijk's voxel center to
// polygon pidx (triangle v0,v1,v2, and if isQuad also v0,v3,v2, taking the
// minimum) and, if it strictly improves on what's currently stored at ijk,
// writes SqrDist(ijk) = -dist and PrimIndex(ijk) = pidx. Returns whether
// ijk is an intersecting voxel (dist < halfDiagSqr).
func evalVoxel(g *Grids, ijk csg.V3i, pidx int32, v0, v1, v2, v3 r3.Vec, isQuad bool) bool {
	center := ijk.ToV3()
	dist := geom.TriToPointDistSqr(v0, v1, v2, center)
	if isQuad {
		dist2 := geom.TriToPointDistSqr(v0, v3, v2, center)
		if dist2 < dist {
			dist = dist2
		}
	}
	cur, on := g.SqrDist.ProbeValue(ijk)
	if !on || dist < math.Abs(cur) {
		g.SqrDist.SetValue(ijk, -dist)
		g.PrimIndex.SetValue(ijk, pidx)
	}
	return dist < halfDiagSqr
}

// floodFillSeeded rasterizes a polygon whose edges are all short: a plain
// deque-driven flood fill seeded at the nearest-voxel of each vertex.
func floodFillSeeded(g *Grids, lastPrim *voxgrid.Accessor[int32], pidx int32, v0, v1, v2, v3 r3.Vec, isQuad bool, seeds []csg.V3i) {
	var queue []csg.V3i
	for _, s := range seeds {
		lastPrim.SetValue(s, pidx)
	}
	enqueueIfIntersecting(g, lastPrim, pidx, v0, v1, v2, v3, isQuad, seeds, &queue)
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		var next []csg.V3i
		for _, off := range voxgrid.COORD_OFFSETS {
			n := cur.Add(off)
			if lastPrim.GetValue(n) == pidx {
				continue
			}
			lastPrim.SetValue(n, pidx)
			if evalVoxel(g, n, pidx, v0, v1, v2, v3, isQuad) {
				g.Intersect.SetValue(n, true)
				next = append(next, n)
			}
		}
		queue = append(queue, next...)
	}
}

// enqueueIfIntersecting evaluates the seed voxels themselves (they are not
// reached by the neighbor-expansion loop), marks them in Intersect when
// they qualify and appends those to queue.
func enqueueIfIntersecting(g *Grids, lastPrim *voxgrid.Accessor[int32], pidx int32, v0, v1, v2, v3 r3.Vec, isQuad bool, seeds []csg.V3i, queue *[]csg.V3i) {
	for _, s := range seeds {
		if evalVoxel(g, s, pidx, v0, v1, v2, v3, isQuad) {
			g.Intersect.SetValue(s, true)
			*queue = append(*queue, s)
		}
	}
}

// floodFillLeafBuffered rasterizes a polygon with at least one long edge.
// Instead of a per-voxel queue it walks whole leaves: a leaf is visited if
// any of its voxels might be within reach of the polygon, and every voxel
// in a freshly visited leaf is evaluated at once. This amortizes queue
// overhead across LeafDim^3 voxels for polygons that would otherwise flood
// an enormous number of individual cells.
func floodFillLeafBuffered(g *Grids, lastPrim *voxgrid.Accessor[int32], pidx int32, v0, v1, v2, v3 r3.Vec, isQuad bool, seed csg.V3i) {
	visited := voxgrid.NewTree[bool](false)
	seed = floorToLeaf(seed)
	queue := []csg.V3i{seed}
	visited.SetValue(seed, true)
	for len(queue) > 0 {
		leafOrig := queue[0]
		queue = queue[1:]
		anyIntersecting := false
		for x := 0; x < voxgrid.LeafDim; x++ {
			for y := 0; y < voxgrid.LeafDim; y++ {
				for z := 0; z < voxgrid.LeafDim; z++ {
					ijk := csg.V3i{leafOrig[0] + x, leafOrig[1] + y, leafOrig[2] + z}
					if lastPrim.GetValue(ijk) == pidx {
						continue
					}
					lastPrim.SetValue(ijk, pidx)
					if evalVoxel(g, ijk, pidx, v0, v1, v2, v3, isQuad) {
						g.Intersect.SetValue(ijk, true)
						anyIntersecting = true
					}
				}
			}
		}
		if !anyIntersecting {
			continue
		}
		for _, off := range [6]csg.V3i{{-voxgrid.LeafDim, 0, 0}, {voxgrid.LeafDim, 0, 0}, {0, -voxgrid.LeafDim, 0}, {0, voxgrid.LeafDim, 0}, {0, 0, -voxgrid.LeafDim}, {0, 0, voxgrid.LeafDim}} {
			n := leafOrig.Add(off)
			if !visited.IsValueOn(n) {
				visited.SetValue(n, true)
				queue = append(queue, n)
			}
		}
	}
}
