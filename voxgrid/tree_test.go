package voxgrid

import (
	"testing"

	"github.com/soypat/meshvol/csg"
)

func TestTreeSetGet(t *testing.T) {
	tree := NewTree[float64](1e9)
	ijk := csg.V3i{3, -5, 100}
	if v, on := tree.ProbeValue(ijk); on || v != 1e9 {
		t.Fatalf("expected background, unset voxel, got %v %v", v, on)
	}
	tree.SetValue(ijk, 1.5)
	v, on := tree.ProbeValue(ijk)
	if !on || v != 1.5 {
		t.Fatalf("got %v %v, want 1.5 true", v, on)
	}
	if tree.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1", tree.ActiveCount())
	}
}

func TestTreeNegativeCoords(t *testing.T) {
	tree := NewTree[int](0)
	coords := []csg.V3i{{-1, -1, -1}, {-8, -8, -8}, {-9, -9, -9}, {0, 0, 0}, {7, 7, 7}}
	for i, c := range coords {
		tree.SetValue(c, i+1)
	}
	for i, c := range coords {
		v, on := tree.ProbeValue(c)
		if !on || v != i+1 {
			t.Fatalf("coord %v: got %v %v, want %v true", c, v, on, i+1)
		}
	}
}

func TestLeafBucketing(t *testing.T) {
	tree := NewTree[bool](false)
	tree.SetValue(csg.V3i{0, 0, 0}, true)
	tree.SetValue(csg.V3i{7, 7, 7}, true)
	if tree.LeafCount() != 1 {
		t.Fatalf("expected single leaf for coords within same block, got %d", tree.LeafCount())
	}
	tree.SetValue(csg.V3i{8, 0, 0}, true)
	if tree.LeafCount() != 2 {
		t.Fatalf("expected second leaf once crossing block boundary, got %d", tree.LeafCount())
	}
}

func TestSetValueOffDoesNotActivate(t *testing.T) {
	tree := NewTree[float64](0)
	ijk := csg.V3i{1, 1, 1}
	tree.SetValueOff(ijk, 42)
	v, on := tree.ProbeValue(ijk)
	if on {
		t.Fatalf("SetValueOff must not activate voxel")
	}
	if v != 42 {
		t.Fatalf("SetValueOff must still store the value, got %v", v)
	}
}

func TestActiveBBox(t *testing.T) {
	tree := NewTree[bool](false)
	if _, _, ok := tree.ActiveBBox(); ok {
		t.Fatal("empty tree must report ok=false")
	}
	pts := []csg.V3i{{-3, 0, 5}, {10, -2, 1}, {0, 0, 0}}
	for _, p := range pts {
		tree.SetValue(p, true)
	}
	min, max, ok := tree.ActiveBBox()
	if !ok {
		t.Fatal("expected ok=true")
	}
	wantMin := csg.V3i{-3, -2, 0}
	wantMax := csg.V3i{10, 0, 5}
	if !min.Eq(wantMin) || !max.Eq(wantMax) {
		t.Fatalf("bbox = [%v,%v], want [%v,%v]", min, max, wantMin, wantMax)
	}
}

func TestForEachActiveCoversAllLeaves(t *testing.T) {
	tree := NewTree[int](0)
	want := map[csg.V3i]int{
		{0, 0, 0}:    1,
		{8, 0, 0}:    2,
		{0, 8, 0}:    3,
		{-8, -8, -8}: 4,
	}
	for k, v := range want {
		tree.SetValue(k, v)
	}
	got := map[csg.V3i]int{}
	tree.ForEachActive(func(ijk csg.V3i, v int) {
		got[ijk] = v
	})
	if len(got) != len(want) {
		t.Fatalf("got %d active voxels, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("voxel %v = %d, want %d", k, got[k], v)
		}
	}
}
