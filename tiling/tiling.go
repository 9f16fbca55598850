/*
NAME
  tiling.go

DESCRIPTION
  tiling.go drives a stage.Graph one axis at a time, sweeping from the
  image origin to its far edge and recording a transient per-axis tile
  record at every step, then composes the X-pass and Y-pass records into
  the final two-dimensional tile grid (spec.md §4.4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tiling implements the axis-by-axis sweep that drives a
// stage.Graph to emit a grid of Regions: sub-rectangles of the input
// frame, one per branch's crop/downscale/resample/output chain, that
// together honour every stage's alignment, context and minimum-size
// requirements (spec.md §4.4).
//
// tiling knows nothing about hardware register layout, addressing or
// phase arithmetic; it produces pure geometry. backend.Prepare composes
// a Region plus the format descriptors of the relevant planes into the
// hardware-ready Tile record (spec.md §4.5.4).
package tiling

import (
	"github.com/ausocean/pisp/geom"
	"github.com/ausocean/pisp/stage"
	"github.com/pkg/errors"
)

// maxTilesPerAxis bounds the sweep loop so a mis-tiled graph fails fast
// with a diagnosable error instead of spinning. spec.md §5 bounds the
// full grid at 64 tiles; no reference configuration needs more than a
// handful per axis, so this is a generous safety margin, not a tuned
// limit.
const maxTilesPerAxis = 64

// axisStep is the transient per-axis tile record from spec.md §4.4 step
// 2d, captured once per sweep iteration.
type axisStep struct {
	Input    stage.AxisTile
	Branches []branchAxisStep
}

type branchAxisStep struct {
	Crop      stage.AxisTile
	Downscale *stage.AxisTile // nil when the branch has no downscale.
	Resample  *stage.AxisTile // nil when the branch has no resample.
	Output    stage.AxisTile
	Inactive  bool
}

// sweepAxis drives g one axis at a time per spec.md §4.4 step 2: at
// each step it requests up to maxTileSize more input pixels, lets the
// graph reconcile that into a common achievable end, records the
// result, then advances every branch's start to its own achieved end
// for the next step. It stops once every branch has produced its full
// output extent along axis.
func sweepAxis(g *stage.Graph, axis geom.Axis, maxTileSize int32) ([]axisStep, error) {
	if maxTileSize <= 0 {
		return nil, errors.Errorf("tiling: max tile size must be positive, got %d", maxTileSize)
	}

	g.Input.Reset(axis)

	var steps []axisStep
	cursor := int32(0)

	for !g.Split.BranchComplete(axis) {
		if len(steps) >= maxTilesPerAxis {
			return nil, errors.Errorf("tiling: exceeded %d tiles on axis %s; graph is not converging", maxTilesPerAxis, axis)
		}

		want := cursor + maxTileSize
		achieved, err := g.Input.PushEndDown(axis, want)
		if err != nil {
			return nil, errors.Wrapf(err, "tiling: sweep failed on axis %s at step %d", axis, len(steps))
		}

		step := axisStep{Branches: make([]branchAxisStep, len(g.Branches))}
		g.Input.CopyOut(axis, &step.Input)

		for i, br := range g.Branches {
			var bs branchAxisStep
			br.Crop.CopyOut(axis, &bs.Crop)
			bs.Inactive = br.Crop.BranchInactive(axis)

			if br.Downscale != nil {
				var a stage.AxisTile
				br.Downscale.CopyOut(axis, &a)
				bs.Downscale = &a
				bs.Inactive = bs.Inactive || br.Downscale.BranchInactive(axis)
			}
			if br.Resample != nil {
				var a stage.AxisTile
				br.Resample.CopyOut(axis, &a)
				bs.Resample = &a
				bs.Inactive = bs.Inactive || br.Resample.BranchInactive(axis)
			}
			br.Output.CopyOut(axis, &bs.Output)
			bs.Inactive = bs.Inactive || br.Output.BranchInactive(axis) || bs.Output.Output.Empty()

			step.Branches[i] = bs
		}

		steps = append(steps, step)
		cursor = achieved

		for i, br := range g.Branches {
			end := step.Branches[i].Output.Output.End()
			if _, err := br.Output.PushStartUp(axis, end); err != nil {
				return nil, errors.Wrapf(err, "tiling: advancing start on axis %s at step %d", axis, len(steps))
			}
		}
	}

	if len(steps) == 0 {
		return nil, errors.Errorf("tiling: axis %s produced no tiles", axis)
	}
	return steps, nil
}

// Plan sweeps both axes of g and composes the resulting grid of
// Regions, running the full cartesian product of the X-pass and Y-pass
// steps (spec.md §4.4 step 3). maxTileSize bounds the request size per
// sweep step, per axis.
func Plan(g *stage.Graph, maxTileSize geom.Length2) ([]Region, int, int, error) {
	xSteps, err := sweepAxis(g, geom.AxisX, maxTileSize.X)
	if err != nil {
		return nil, 0, 0, err
	}
	ySteps, err := sweepAxis(g, geom.AxisY, maxTileSize.Y)
	if err != nil {
		return nil, 0, 0, err
	}

	nx, ny := len(xSteps), len(ySteps)
	if nx*ny > 64 {
		return nil, 0, 0, errors.Errorf("tiling: %d x-tiles * %d y-tiles = %d exceeds the 64-tile backend limit", nx, ny, nx*ny)
	}

	regions := make([]Region, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			regions = append(regions, compose(i, j, xSteps[i], ySteps[j]))
		}
	}
	return regions, nx, ny, nil
}

func compose(tileX, tileY int, x, y axisStep) Region {
	r := Region{
		TileX: tileX,
		TileY: tileY,
		Input: geom.Interval2{X: x.Input.Input, Y: y.Input.Input},
		Edge: Edges{
			Left:   x.Input.First,
			Right:  x.Input.Last,
			Top:    y.Input.First,
			Bottom: y.Input.Last,
		},
		Branches: make([]BranchRegion, len(x.Branches)),
	}

	for b := range x.Branches {
		xb, yb := x.Branches[b], y.Branches[b]
		br := BranchRegion{
			CropStart: geom.Length2{X: xb.Crop.Crop.Start, Y: yb.Crop.Crop.Start},
			CropEnd:   geom.Length2{X: xb.Crop.Crop.End, Y: yb.Crop.Crop.End},
			CropOut:   geom.Interval2{X: xb.Crop.Output, Y: yb.Crop.Output},
			Output:    geom.Interval2{X: xb.Output.Output, Y: yb.Output.Output},
			Inactive:  xb.Inactive || yb.Inactive,
		}

		if xb.Downscale != nil && yb.Downscale != nil {
			d := geom.Interval2{X: xb.Downscale.Output, Y: yb.Downscale.Output}
			br.Downscale = &d
		}

		switch {
		case xb.Resample != nil && yb.Resample != nil:
			br.ResampleIn = geom.Interval2{X: xb.Resample.Input, Y: yb.Resample.Input}
		case br.Downscale != nil:
			br.ResampleIn = *br.Downscale
		default:
			br.ResampleIn = br.CropOut
		}

		r.Branches[b] = br
	}
	return r
}
