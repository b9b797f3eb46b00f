package meshvol

import (
	"runtime"
	"sync"

	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/voxgrid"
)

// TraceContours performs the slice-wise sign-painting sweep: for every
// x=const slice of g.SqrDist's active bounding box it walks y then z,
// using Intersect voxels as boundaries and flipping the sign of the
// negated working distances between two boundary crossings so they read
// as "outside". Slices are independent and run in parallel, partitioned
// into leaf-aligned x-blocks so that no two goroutines ever touch the same
// leaf (a leaf spans LeafDim consecutive x values, so splitting work any
// finer would race on the same leaf's arrays).
func TraceContours(g *Grids, cfg Config) {
	min, max, ok := g.SqrDist.ActiveBBox()
	if !ok {
		return
	}
	interrupted := cfg.interrupter()
	maxDepth := 4
	steps := voxgrid.StepTable(maxDepth)

	blockStart := floorToLeaf(min)[0]
	blocks := make(chan int)
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bx := range blocks {
				for x := bx; x < bx+voxgrid.LeafDim && x <= max[0]; x++ {
					if interrupted.WasInterrupted() {
						return
					}
					traceSlice(g, x, min, max, steps)
				}
			}
		}()
	}
	for bx := blockStart; bx <= max[0]; bx += voxgrid.LeafDim {
		if interrupted.WasInterrupted() {
			break
		}
		blocks <- bx
	}
	close(blocks)
	wg.Wait()
}

// adaptiveStride returns how far the sweep may jump from ijk along the
// current axis without skipping a materialized voxel: the step size of the
// deepest empty internal tile containing ijk, or 1 if ijk's leaf exists.
func adaptiveStride(g *Grids, ijk csg.V3i, steps []int) int {
	if _, ok := g.SqrDist.ProbeLeaf(ijk); ok {
		return 1
	}
	return steps[len(steps)-1]
}

func traceSlice(g *Grids, x int, min, max csg.V3i, steps []int) {
	for y := min[1]; y <= max[1]; y += adaptiveStride(g, csg.V3i{x, y, min[2]}, steps) {
		lastVoxelWasOut := false
		lastK := min[2]
		for z := min[2]; z <= max[2]; z += adaptiveStride(g, csg.V3i{x, y, z}, steps) {
			ijk := csg.V3i{x, y, z}
			v, on := g.SqrDist.ProbeValue(ijk)
			if !on {
				continue
			}
			if g.Intersect.IsValueOn(ijk) {
				lastK = z
				lastVoxelWasOut = false
				continue
			}
			if lastVoxelWasOut {
				if v < 0 {
					g.SqrDist.SetValue(ijk, -v)
				}
				continue
			}
			yNeighbor := ijk.Add(voxgrid.COORD_OFFSETS[3])
			zNeighbor := ijk.Add(voxgrid.COORD_OFFSETS[5])
			yv, yOn := g.SqrDist.ProbeValue(yNeighbor)
			zv, zOn := g.SqrDist.ProbeValue(zNeighbor)
			if (yOn && yv > 0) || (zOn && zv > 0) {
				lastVoxelWasOut = true
				if v < 0 {
					g.SqrDist.SetValue(ijk, -v)
				}
				backtrack(g, x, y, z, lastK)
			}
		}
	}
}

// backtrack walks down z from z0 to lastK, flipping every negative active
// voxel to positive until it hits a voxel marked in Intersect.
func backtrack(g *Grids, x, y, z0, lastK int) {
	for z := z0; z >= lastK; z-- {
		ijk := csg.V3i{x, y, z}
		if g.Intersect.IsValueOn(ijk) {
			return
		}
		v, on := g.SqrDist.ProbeValue(ijk)
		if !on {
			continue
		}
		if v < 0 {
			g.SqrDist.SetValue(ijk, -v)
		}
	}
}
