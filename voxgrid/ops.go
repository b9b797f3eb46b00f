package voxgrid

import "github.com/soypat/meshvol/csg"

// Merge combines src into dst: for every active voxel in src, if the
// corresponding dst voxel is inactive it is overwritten outright, otherwise
// combine decides the resulting value. combine's second argument is always
// the value already in dst, the third the incoming src value; it returns
// the value to keep. This is left-biased: ties (combine returning the dst
// value) keep dst untouched, which also makes repeated merges of a
// commutative combine rule order-independent.
func Merge[T any](dst, src *Tree[T], combine func(dstVal, srcVal T) T) {
	src.ForEachActive(func(ijk csg.V3i, srcVal T) {
		dstVal, on := dst.ProbeValue(ijk)
		if !on {
			dst.SetValue(ijk, srcVal)
			return
		}
		dst.SetValue(ijk, combine(dstVal, srcVal))
	})
}

// TopologyUnion activates every voxel active in src within dst, without
// touching values already active in dst. Newly activated voxels take the
// corresponding src value. Used to merge Intersect masks by set union.
func TopologyUnion[T any](dst, src *Tree[T]) {
	src.ForEachActive(func(ijk csg.V3i, srcVal T) {
		if !dst.IsValueOn(ijk) {
			dst.SetValue(ijk, srcVal)
		}
	})
}

// PruneInactive drops leaves that have no active voxels, reclaiming memory
// for regions the pipeline touched but never ultimately activated (e.g.
// leaves pre-allocated by ExpandNB's preallocation step that ended up
// empty).
func PruneInactive[T any](t *Tree[T]) {
	for origin, leaf := range t.leaves {
		if leaf.onCount == 0 {
			delete(t.leaves, origin)
		}
	}
}

// DilateActive26 returns a new bool tree whose active set is src's active
// set plus every 26-neighbor of an active src voxel.
func DilateActive26(src *Tree[bool]) *Tree[bool] {
	dst := NewTree[bool](false)
	src.ForEachActive(func(ijk csg.V3i, _ bool) {
		dst.SetValue(ijk, true)
		for _, off := range COORD_OFFSETS {
			dst.SetValue(ijk.Add(off), true)
		}
	})
	return dst
}

// NewlyActive returns the voxels active in mask but not active in existing,
// i.e. the voxel shell ExpandNB must evaluate this iteration.
func NewlyActive(existing *Tree[float64], mask *Tree[bool]) []csg.V3i {
	var out []csg.V3i
	mask.ForEachActive(func(ijk csg.V3i, _ bool) {
		if !existing.IsValueOn(ijk) {
			out = append(out, ijk)
		}
	})
	return out
}

// SignedFloodFillMaterialized assigns a sign-consistent background value to
// inactive voxels that lie within already-materialized leaves (for example
// the voxels of a leaf the voxelizer only partly filled, or voxels a
// cleaner deactivated). It runs a multi-source BFS seeded from every active
// voxel, propagating along 6-connectivity through materialized leaves, and
// writes insideBG/outsideBG to each inactive voxel it reaches depending on
// which side the nearest active voxel assigned. Inactive voxels the BFS
// does not reach keep their values.
//
// This differs from OpenVDB's signedFloodFill, which additionally walks
// implicit background tiles spanning the whole (conceptually infinite) tree
// to flip entire untouched subtrees; our tree never materializes untouched
// space in the first place; ExpandNB is solely responsible for growing the
// materialized region, so there is nothing left for a tile-level flood to
// do once the voxel-level fill below has run.
func SignedFloodFillMaterialized(t *Tree[float64], insideBG, outsideBG float64) {
	type item struct {
		ijk   csg.V3i
		inside bool
	}
	visited := make(map[csg.V3i]bool)
	var queue []item
	t.ForEachActive(func(ijk csg.V3i, v float64) {
		visited[ijk] = true
		queue = append(queue, item{ijk, v < 0})
	})
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := 0; i < 6; i++ {
			n := cur.ijk.Add(COORD_OFFSETS[i])
			leaf, ok := t.ProbeLeaf(n)
			if !ok || visited[n] {
				continue
			}
			idx := localIndex(n, leaf.origin)
			if leaf.active[idx] {
				visited[n] = true
				continue
			}
			visited[n] = true
			if cur.inside {
				leaf.values[idx] = insideBG
			} else {
				leaf.values[idx] = outsideBG
			}
			queue = append(queue, item{n, cur.inside})
		}
	}
}

// Accessor caches the last leaf it touched, avoiding a map lookup on
// repeated accesses to the same leaf -- the pattern the original tree's
// ValueAccessor uses for locality when a worker walks a polygon's nearby
// voxels. Re-deriving from the tree directly (ProbeValue/SetValue) is
// always correct, only slower.
type Accessor[T any] struct {
	tree      *Tree[T]
	lastOrig  csg.V3i
	lastLeaf  *Leaf[T]
	lastValid bool
}

// NewAccessor returns an accessor over t.
func NewAccessor[T any](t *Tree[T]) *Accessor[T] {
	return &Accessor[T]{tree: t}
}

func (a *Accessor[T]) leafFor(ijk csg.V3i, touch bool) *Leaf[T] {
	origin := leafOrigin(ijk)
	if a.lastValid && a.lastOrig == origin {
		return a.lastLeaf
	}
	var leaf *Leaf[T]
	var ok bool
	if touch {
		leaf = a.tree.TouchLeaf(ijk)
		ok = true
	} else {
		leaf, ok = a.tree.ProbeLeaf(ijk)
	}
	if ok {
		a.lastOrig, a.lastLeaf, a.lastValid = origin, leaf, true
	} else {
		a.lastValid = false
	}
	return leaf
}

// ProbeValue returns the value and active state at ijk.
func (a *Accessor[T]) ProbeValue(ijk csg.V3i) (T, bool) {
	leaf := a.leafFor(ijk, false)
	if leaf == nil {
		return a.tree.background, false
	}
	i := localIndex(ijk, leaf.origin)
	return leaf.values[i], leaf.active[i]
}

// GetValue returns the value at ijk, or the tree's background.
func (a *Accessor[T]) GetValue(ijk csg.V3i) T {
	v, _ := a.ProbeValue(ijk)
	return v
}

// SetValue writes v at ijk and marks it active.
func (a *Accessor[T]) SetValue(ijk csg.V3i, v T) {
	leaf := a.leafFor(ijk, true)
	i := localIndex(ijk, leaf.origin)
	if !leaf.active[i] {
		leaf.onCount++
	}
	leaf.active[i] = true
	leaf.values[i] = v
}

// LeafManager materializes the set of leaves of a tree into a stable,
// indexable slice and hands out per-leaf scratch buffers, so that a
// parallel pass (e.g. Renormalize) can own leaf i's scratch slot without
// any worker writing into another's.
type LeafManager[T any] struct {
	origins []csg.V3i
	leaves  []*Leaf[T]
	scratch [][]float64
}

// NewLeafManager snapshots t's current leaves.
func NewLeafManager[T any](t *Tree[T]) *LeafManager[T] {
	lm := &LeafManager[T]{
		origins: make([]csg.V3i, 0, len(t.leaves)),
		leaves:  make([]*Leaf[T], 0, len(t.leaves)),
	}
	for origin, leaf := range t.leaves {
		lm.origins = append(lm.origins, origin)
		lm.leaves = append(lm.leaves, leaf)
	}
	lm.scratch = make([][]float64, len(lm.leaves))
	return lm
}

// NumLeaves returns the number of leaves captured at construction time.
func (lm *LeafManager[T]) NumLeaves() int { return len(lm.leaves) }

// Leaf returns the origin and leaf at index i.
func (lm *LeafManager[T]) Leaf(i int) (csg.V3i, *Leaf[T]) {
	return lm.origins[i], lm.leaves[i]
}

// Scratch returns leaf i's scratch buffer, allocating it on first use.
func (lm *LeafManager[T]) Scratch(i int) []float64 {
	if lm.scratch[i] == nil {
		lm.scratch[i] = make([]float64, leafVoxelCount)
	}
	return lm.scratch[i]
}
