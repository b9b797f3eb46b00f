package meshvol

import "github.com/soypat/meshvol/csg"

// PropagateSign repairs local sign inconsistencies the per-slice contour
// tracer leaves behind near concave features: wherever an inside-marked
// (negative) active voxel has a 6-neighbor already marked outside
// (positive), it floods outward from the negative voxel, flipping every
// negative active voxel it reaches to positive, and never crosses a voxel
// marked in Intersect. Runs single-threaded: the flood fill has an
// irregular, data-dependent walk order that doesn't partition into
// independent ranges the way the tracer's x-slices do.
func PropagateSign(g *Grids, cfg Config) {
	interrupted := cfg.interrupter()
	visited := make(map[csg.V3i]bool)

	var seeds []csg.V3i
	g.SqrDist.ForEachActive(func(ijk csg.V3i, v float64) {
		if v >= 0 || g.Intersect.IsValueOn(ijk) {
			return
		}
		for i := 0; i < 6; i++ {
			n := ijk.Add(sixNeighbors[i])
			nv, on := g.SqrDist.ProbeValue(n)
			if on && nv > 0 {
				seeds = append(seeds, ijk)
				return
			}
		}
	})

	for _, seed := range seeds {
		if interrupted.WasInterrupted() {
			return
		}
		if visited[seed] {
			continue
		}
		floodOutward(g, seed, visited)
	}
}

func floodOutward(g *Grids, seed csg.V3i, visited map[csg.V3i]bool) {
	queue := []csg.V3i{seed}
	visited[seed] = true
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		v, on := g.SqrDist.ProbeValue(cur)
		if !on || v >= 0 {
			continue
		}
		g.SqrDist.SetValue(cur, -v)
		for i := 0; i < 6; i++ {
			n := cur.Add(sixNeighbors[i])
			if visited[n] || g.Intersect.IsValueOn(n) {
				continue
			}
			nv, on := g.SqrDist.ProbeValue(n)
			if !on || nv >= 0 {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
}

var sixNeighbors = [6]csg.V3i{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}
