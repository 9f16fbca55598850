/*
NAME
  region.go

DESCRIPTION
  region.go declares the pure-geometry tile record Plan emits: one
  Region per (x-tile, y-tile) pair, carrying the merged X-pass/Y-pass
  intervals for the shared input stage and every output branch (spec.md
  §3, §4.4 step 3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tiling

import "github.com/ausocean/pisp/geom"

// Edges records which sides of the full frame a Region touches, per
// spec.md §3's tile edge flags (top/bottom/left/right).
type Edges struct {
	Top, Bottom, Left, Right bool
}

// BranchRegion is one output branch's geometry for a single Region.
type BranchRegion struct {
	// CropStart/CropEnd are the crop pixels removed from this tile on
	// the leading/trailing side of each axis; both are zero for any
	// tile that doesn't abut the branch's crop edge (spec.md §8
	// boundary behaviour).
	CropStart, CropEnd geom.Length2

	// CropOut is the region remaining after the branch's crop, in the
	// crop stage's own output coordinate frame. It feeds Downscale when
	// present, otherwise ResampleIn/the resample context stage directly.
	CropOut geom.Interval2

	// Downscale is the downscaled region, nil when the branch has no
	// downscale block enabled.
	Downscale *geom.Interval2

	// ResampleIn is the region entering the resample stage's own input
	// coordinate frame (including its context margin) when resample is
	// enabled; otherwise it mirrors Downscale (or CropOut if neither
	// downscale nor resample is enabled), matching the hardware's
	// resample_in_w/h register which is always populated even when the
	// resample block is bypassed (spec.md §3).
	ResampleIn geom.Interval2

	// Output is the final output region in output-image coordinates,
	// before any HFLIP/VFLIP coordinate fix-up (spec.md §4.4).
	Output geom.Interval2

	// Inactive reports that some stage along this branch's chain
	// produced zero-area output for this tile: the branch contributes
	// no output here (spec.md §3, §8).
	Inactive bool
}

// Region is one cell of the tile grid Plan produces: the input
// sub-rectangle the hardware must read for this tile, plus the
// per-branch geometry derived from it.
type Region struct {
	TileX, TileY int

	// Input is the sub-rectangle of the full input image this tile
	// reads, including any context/resample margin every branch asked
	// for (spec.md §3's tile input_offset + width/height).
	Input geom.Interval2

	Edge Edges

	Branches []BranchRegion
}
