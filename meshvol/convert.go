package meshvol

import (
	"github.com/soypat/meshvol/csg"
	"github.com/soypat/meshvol/mesh"
	"github.com/soypat/meshvol/voxgrid"
)

// Result is the output of a conversion run: the finalized distance grid,
// and optionally (if Config.Flags requests it) the closest-primitive index
// grid.
type Result struct {
	VoxelSize float64
	ExBand    float64 // world units
	InBand    float64 // world units
	Dist      *voxgrid.Tree[float64]
	PrimIndex *voxgrid.Tree[int32] // nil unless GenPrimIndexGrid was set
}

// DistGrid returns the result's distance grid.
func (r *Result) DistGrid() *voxgrid.Tree[float64] { return r.Dist }

// IndexGrid returns the result's closest-primitive-index grid, or nil if
// it was not requested via GenPrimIndexGrid.
func (r *Result) IndexGrid() *voxgrid.Tree[int32] { return r.PrimIndex }

// ConvertToLevelSet runs the full signed narrow-band pipeline over m,
// producing a signed distance field. voxelSize is in world units; exBand
// and inBand are in voxel units and are each clamped to at least
// 1+1e-7 before being scaled to world units.
func ConvertToLevelSet(m *mesh.Mesh, voxelSize, exBand, inBand float64, cfg Config) (*Result, error) {
	return convert(m, voxelSize, exBand, inBand, true, cfg)
}

// ConvertToUnsignedDistanceField runs the pipeline skipping every
// sign-related stage (contour tracing, sign propagation, intersecting
// voxel sign resolution); the interior band is forced to zero.
func ConvertToUnsignedDistanceField(m *mesh.Mesh, voxelSize, exBand float64, cfg Config) (*Result, error) {
	return convert(m, voxelSize, exBand, 0, false, cfg)
}

func convert(m *mesh.Mesh, voxelSize, exBand, inBand float64, signed bool, cfg Config) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, &InvalidInputError{Msg: err.Error()}
	}
	if len(m.Polys) == 0 {
		return &Result{VoxelSize: voxelSize}, nil
	}
	interrupted := cfg.interrupter()

	exBandVox := clampBand(exBand)
	var inBandVox float64
	if signed {
		inBandVox = clampBand(inBand)
	}
	exBandWorld := exBandVox * voxelSize
	inBandWorld := inBandVox * voxelSize

	g := Voxelize(m, cfg)
	if interrupted.WasInterrupted() {
		return &Result{VoxelSize: voxelSize}, interruptedAt("voxelizer")
	}
	if g.SqrDist.ActiveCount() == 0 {
		return &Result{VoxelSize: voxelSize}, nil
	}

	if signed {
		for sweep := 0; sweep < cfg.signSweeps(); sweep++ {
			if interrupted.WasInterrupted() {
				return &Result{VoxelSize: voxelSize}, interruptedAt("contour tracer / sign propagator")
			}
			TraceContours(g, cfg)
			PropagateSign(g, cfg)
		}
		ResolveIntersectingVoxelSign(g, m)
		CleanIntersectingVoxels(g)
		CleanShellVoxels(g)
	}

	SqrtAndScale(g, voxelSize, signed)

	if signed {
		SignedFloodFill(g, -inBandWorld, exBandWorld)
		VoxelSign(g, exBandWorld, inBandWorld)
	} else {
		forceUnsignedBackground(g, exBandWorld)
	}

	ExpandNB(g, m, voxelSize, exBandWorld, inBandWorld, cfg)

	Renormalize(g, voxelSize, 1.0)

	if NeedsTrim(exBandVox, inBandVox) {
		Trim(g, exBandWorld, inBandWorld)
	}
	Prune(g)

	var idx *voxgrid.Tree[int32]
	if cfg.Flags&GenPrimIndexGrid != 0 {
		idx = g.PrimIndex
	}
	return &Result{
		VoxelSize: voxelSize,
		ExBand:    exBandWorld,
		InBand:    inBandWorld,
		Dist:      g.SqrDist,
		PrimIndex: idx,
	}, nil
}

// forceUnsignedBackground assigns the exterior band value to every
// inactive voxel, since UDF mode has no interior side to flood-fill
// towards.
func forceUnsignedBackground(g *Grids, exBandWorld float64) {
	g.SqrDist.ForEachLeaf(func(origin csg.V3i, leaf *voxgrid.Leaf[float64]) {
		for x := 0; x < voxgrid.LeafDim; x++ {
			for y := 0; y < voxgrid.LeafDim; y++ {
				for z := 0; z < voxgrid.LeafDim; z++ {
					ijk := csg.V3i{origin[0] + x, origin[1] + y, origin[2] + z}
					if _, on := g.SqrDist.ProbeValue(ijk); !on {
						g.SqrDist.SetValueOff(ijk, exBandWorld)
					}
				}
			}
		}
	})
	g.SqrDist.SetBackground(exBandWorld)
}

