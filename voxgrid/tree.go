// Package voxgrid implements the sparse, leaf-blocked voxel tree that the
// mesh-to-volume pipeline rasterizes and dilates into. OpenVDB provides this
// data structure as an external dependency to the original algorithm; this
// package is a small from-scratch replacement sized for narrow-band
// conversion rather than general-purpose sparse volumes.
package voxgrid

import "github.com/soypat/meshvol/csg"

// Leaf is the finest uniform block of the tree: a dense LeafDim^3 array of
// values plus an active mask. A voxel that was never written keeps the
// tree's background value and reads as inactive.
type Leaf[T any] struct {
	origin  csg.V3i
	values  [leafVoxelCount]T
	active  [leafVoxelCount]bool
	onCount int
}

// Origin returns the voxel-space coordinate of the leaf's minimum corner.
func (l *Leaf[T]) Origin() csg.V3i { return l.origin }

// OnCount returns the number of active voxels in the leaf.
func (l *Leaf[T]) OnCount() int { return l.onCount }

// ForEachActive calls fn for every active voxel in the leaf, in linear
// storage order.
func (l *Leaf[T]) ForEachActive(fn func(ijk csg.V3i, v T)) {
	if l.onCount == 0 {
		return
	}
	idx := 0
	for x := 0; x < LeafDim; x++ {
		for y := 0; y < LeafDim; y++ {
			for z := 0; z < LeafDim; z++ {
				if l.active[idx] {
					fn(csg.V3i{l.origin[0] + x, l.origin[1] + y, l.origin[2] + z}, l.values[idx])
				}
				idx++
			}
		}
	}
}

// Tree is a sparse grid of values of type T, addressed by integer voxel
// coordinate and backed by a map of Leaf blocks. Voxels outside any
// materialized leaf read as the tree's background value and are inactive.
type Tree[T any] struct {
	background T
	leaves     map[csg.V3i]*Leaf[T]
}

// NewTree returns an empty tree with the given background value, the value
// every unset voxel reads as.
func NewTree[T any](background T) *Tree[T] {
	return &Tree[T]{background: background, leaves: make(map[csg.V3i]*Leaf[T])}
}

// Background returns the tree's background value.
func (t *Tree[T]) Background() T { return t.background }

// SetBackground replaces the background value, e.g. when swapping from +inf
// to a signed exterior band value after sign assignment.
func (t *Tree[T]) SetBackground(bg T) { t.background = bg }

// LeafCount returns the number of materialized leaves.
func (t *Tree[T]) LeafCount() int { return len(t.leaves) }

// TouchLeaf materializes (if absent) and returns the leaf containing ijk.
func (t *Tree[T]) TouchLeaf(ijk csg.V3i) *Leaf[T] {
	origin := leafOrigin(ijk)
	leaf, ok := t.leaves[origin]
	if !ok {
		leaf = &Leaf[T]{origin: origin}
		for i := range leaf.values {
			leaf.values[i] = t.background
		}
		t.leaves[origin] = leaf
	}
	return leaf
}

// ProbeLeaf returns the leaf containing ijk, if materialized.
func (t *Tree[T]) ProbeLeaf(ijk csg.V3i) (*Leaf[T], bool) {
	leaf, ok := t.leaves[leafOrigin(ijk)]
	return leaf, ok
}

// GetValue returns the value at ijk, or the background value if unset.
func (t *Tree[T]) GetValue(ijk csg.V3i) T {
	v, _ := t.ProbeValue(ijk)
	return v
}

// ProbeValue returns the value at ijk and whether it is active.
func (t *Tree[T]) ProbeValue(ijk csg.V3i) (T, bool) {
	leaf, ok := t.leaves[leafOrigin(ijk)]
	if !ok {
		return t.background, false
	}
	i := localIndex(ijk, leaf.origin)
	return leaf.values[i], leaf.active[i]
}

// IsValueOn reports whether ijk is active.
func (t *Tree[T]) IsValueOn(ijk csg.V3i) bool {
	_, on := t.ProbeValue(ijk)
	return on
}

// SetValue writes v at ijk and marks it active, materializing the leaf if
// necessary.
func (t *Tree[T]) SetValue(ijk csg.V3i, v T) {
	leaf := t.TouchLeaf(ijk)
	i := localIndex(ijk, leaf.origin)
	if !leaf.active[i] {
		leaf.onCount++
	}
	leaf.active[i] = true
	leaf.values[i] = v
}

// SetValueOff writes v at ijk but marks it inactive. Used to deposit a
// signed background value without claiming the voxel as part of the active
// surface.
func (t *Tree[T]) SetValueOff(ijk csg.V3i, v T) {
	leaf := t.TouchLeaf(ijk)
	i := localIndex(ijk, leaf.origin)
	if leaf.active[i] {
		leaf.onCount--
	}
	leaf.active[i] = false
	leaf.values[i] = v
}

// SetActiveState toggles the active flag at ijk without touching its value.
func (t *Tree[T]) SetActiveState(ijk csg.V3i, on bool) {
	leaf := t.TouchLeaf(ijk)
	i := localIndex(ijk, leaf.origin)
	if leaf.active[i] != on {
		if on {
			leaf.onCount++
		} else {
			leaf.onCount--
		}
	}
	leaf.active[i] = on
}

// ForEachLeaf calls fn once per materialized leaf. Iteration order is not
// stable across calls; use LeafManager when a stable, indexable order is
// needed (e.g. for per-leaf scratch buffers).
func (t *Tree[T]) ForEachLeaf(fn func(origin csg.V3i, leaf *Leaf[T])) {
	for origin, leaf := range t.leaves {
		fn(origin, leaf)
	}
}

// ForEachActive calls fn once per active voxel across the whole tree.
func (t *Tree[T]) ForEachActive(fn func(ijk csg.V3i, v T)) {
	for _, leaf := range t.leaves {
		leaf.ForEachActive(fn)
	}
}

// ActiveCount returns the total number of active voxels in the tree.
func (t *Tree[T]) ActiveCount() int {
	n := 0
	for _, leaf := range t.leaves {
		n += leaf.onCount
	}
	return n
}

// ActiveBBox returns the bounding box (inclusive) of all active voxels. ok
// is false if the tree has no active voxels.
func (t *Tree[T]) ActiveBBox() (min, max csg.V3i, ok bool) {
	first := true
	t.ForEachActive(func(ijk csg.V3i, _ T) {
		if first {
			min, max = ijk, ijk
			first = false
			return
		}
		min = min.MinElem(ijk)
		max = max.MaxElem(ijk)
	})
	return min, max, !first
}
