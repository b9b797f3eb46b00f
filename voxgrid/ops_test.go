package voxgrid

import (
	"testing"

	"github.com/soypat/meshvol/csg"
)

func TestMergeKeepsCloserDistance(t *testing.T) {
	dst := NewTree[float64](1e9)
	src := NewTree[float64](1e9)
	ijk := csg.V3i{1, 2, 3}
	dst.SetValue(ijk, 3.0)
	src.SetValue(ijk, 1.5)
	closer := func(a, b float64) float64 {
		if b < a {
			return b
		}
		return a
	}
	Merge(dst, src, closer)
	if v := dst.GetValue(ijk); v != 1.5 {
		t.Fatalf("Merge kept %v, want 1.5", v)
	}
}

func TestMergeActivatesNewVoxel(t *testing.T) {
	dst := NewTree[float64](1e9)
	src := NewTree[float64](1e9)
	ijk := csg.V3i{1, 1, 1}
	src.SetValue(ijk, 2.0)
	Merge(dst, src, func(a, b float64) float64 { return a })
	if v, on := dst.ProbeValue(ijk); !on || v != 2.0 {
		t.Fatalf("Merge must copy src voxel absent in dst, got %v %v", v, on)
	}
}

func TestTopologyUnionPreservesExisting(t *testing.T) {
	dst := NewTree[int](0)
	src := NewTree[int](0)
	ijk := csg.V3i{0, 0, 0}
	dst.SetValue(ijk, 9)
	src.SetValue(ijk, 1)
	TopologyUnion(dst, src)
	if v := dst.GetValue(ijk); v != 9 {
		t.Fatalf("TopologyUnion overwrote existing dst value, got %v", v)
	}
}

func TestPruneInactiveDropsEmptyLeaf(t *testing.T) {
	tree := NewTree[float64](0)
	ijk := csg.V3i{0, 0, 0}
	tree.SetValue(ijk, 5)
	tree.SetValueOff(ijk, 0) // deactivates, leaf stays materialized but empty
	if tree.LeafCount() != 1 {
		t.Fatalf("expected leaf to remain materialized, got %d", tree.LeafCount())
	}
	PruneInactive(tree)
	if tree.LeafCount() != 0 {
		t.Fatalf("PruneInactive must drop leaves with zero active voxels, got %d", tree.LeafCount())
	}
}

func TestDilateActive26(t *testing.T) {
	src := NewTree[bool](false)
	src.SetValue(csg.V3i{0, 0, 0}, true)
	dst := DilateActive26(src)
	for _, off := range COORD_OFFSETS {
		if !dst.IsValueOn(off) {
			t.Fatalf("dilation missed neighbor %v", off)
		}
	}
	if !dst.IsValueOn(csg.V3i{0, 0, 0}) {
		t.Fatal("dilation must keep the source voxel active")
	}
	if dst.IsValueOn(csg.V3i{2, 0, 0}) {
		t.Fatal("dilation must not reach beyond one ring")
	}
}

func TestSignedFloodFillMaterialized(t *testing.T) {
	tree := NewTree[float64](1e9)
	tree.SetValue(csg.V3i{0, 0, 0}, -0.5)
	tree.SetValue(csg.V3i{5, 0, 0}, 0.5)
	// touch an inactive voxel between them so it has a value to overwrite
	tree.TouchLeaf(csg.V3i{2, 0, 0})
	SignedFloodFillMaterialized(tree, -3.0, 3.0)
	v, on := tree.ProbeValue(csg.V3i{1, 0, 0})
	if on {
		t.Fatal("flood fill must not activate voxels")
	}
	if v != -3.0 {
		t.Fatalf("voxel adjacent to inside seed got %v, want insideBG -3.0", v)
	}
}

func TestLeafManagerScratchIsolation(t *testing.T) {
	tree := NewTree[float64](0)
	tree.SetValue(csg.V3i{0, 0, 0}, 1)
	tree.SetValue(csg.V3i{8, 0, 0}, 2)
	lm := NewLeafManager(tree)
	if lm.NumLeaves() != 2 {
		t.Fatalf("expected 2 leaves, got %d", lm.NumLeaves())
	}
	s0 := lm.Scratch(0)
	s1 := lm.Scratch(1)
	s0[0] = 42
	if s1[0] == 42 {
		t.Fatal("scratch buffers must be independent per leaf")
	}
}

func TestAccessorMatchesTree(t *testing.T) {
	tree := NewTree[float64](9)
	acc := NewAccessor(tree)
	acc.SetValue(csg.V3i{4, 4, 4}, 1.0)
	acc.SetValue(csg.V3i{4, 4, 5}, 2.0)
	if v := tree.GetValue(csg.V3i{4, 4, 4}); v != 1.0 {
		t.Fatalf("tree sees %v via accessor write, want 1.0", v)
	}
	if v := acc.GetValue(csg.V3i{100, 100, 100}); v != 9 {
		t.Fatalf("accessor background mismatch, got %v", v)
	}
}
