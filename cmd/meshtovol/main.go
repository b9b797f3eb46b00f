// Command meshtovol converts an STL mesh into a narrow-band distance field
// and writes the resulting voxel shell back out as STL.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/soypat/meshvol/mesh"
	"github.com/soypat/meshvol/meshvol"
	"github.com/soypat/meshvol/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		inPath     = flag.String("in", "", "input STL path")
		outPath    = flag.String("out", "out.stl", "output STL path")
		voxelSize  = flag.Float64("voxel", 1.0, "voxel size in world units")
		exBand     = flag.Float64("exband", 3, "exterior narrow band width, in voxels")
		inBand     = flag.Float64("inband", 3, "interior narrow band width, in voxels (signed mode only)")
		unsigned   = flag.Bool("udf", false, "produce an unsigned distance field instead of a signed one")
		signSweeps = flag.Int("sweeps", 1, "number of contour-tracer/sign-propagator rounds")
		weldTol    = flag.Float64("weld", 1e-6, "vertex welding tolerance when building the shared-vertex mesh")
	)
	flag.Parse()
	if *inPath == "" {
		return fmt.Errorf("meshtovol: -in is required")
	}

	tris, err := render.ReadSTL(*inPath)
	if err != nil {
		return fmt.Errorf("meshtovol: reading %q: %w", *inPath, err)
	}
	m := mesh.FromTriangles(tris, *weldTol)
	if err := m.Validate(); err != nil {
		return fmt.Errorf("meshtovol: %w", err)
	}

	cfg := meshvol.Config{SignSweeps: *signSweeps}

	var res *meshvol.Result
	if *unsigned {
		res, err = meshvol.ConvertToUnsignedDistanceField(m, *voxelSize, *exBand, cfg)
	} else {
		res, err = meshvol.ConvertToLevelSet(m, *voxelSize, *exBand, *inBand, cfg)
	}
	if err != nil {
		return fmt.Errorf("meshtovol: conversion failed: %w", err)
	}
	if res.Dist == nil || res.Dist.ActiveCount() == 0 {
		return fmt.Errorf("meshtovol: conversion produced no active voxels")
	}

	shell := render.NewShellRenderer(res.Dist, res.VoxelSize)
	if err := render.CreateSTL(*outPath, shell); err != nil {
		return fmt.Errorf("meshtovol: writing %q: %w", *outPath, err)
	}
	fmt.Fprintf(os.Stdout, "wrote %d triangles to %s\n", shell.TriangleCount(), *outPath)
	return nil
}
