/*
NAME
  tile.go

DESCRIPTION
  tile.go declares the finalised per-tile hardware record (spec.md §3,
  §6) and the {config, tiles[], num_tiles} payload handed to the device
  driver.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

// MaxTiles bounds the tile array's fixed capacity (spec.md §3, §6).
const MaxTiles = 64

// Edges records which sides of the full frame a Tile touches (spec.md
// §3).
type Edges struct {
	Top, Bottom, Left, Right bool
}

// BranchTile is one output branch's finalised per-tile fields (spec.md
// §3).
type BranchTile struct {
	CropStartX, CropEndX uint32
	CropStartY, CropEndY uint32

	ResampleInOffsetX, ResampleInOffsetY uint32
	ResampleInW, ResampleInH             uint32

	OutputOffsetX, OutputOffsetY uint32
	OutputW, OutputH             uint32

	OutputAddrOffset  uint32
	OutputAddrOffset2 uint32

	// DownscalePhase/ResamplePhase are per-plane (spec.md §4.5.4): index
	// 0 is luma/R, 1 and 2 are chroma planes (unused entries for
	// single-plane formats are left zero).
	DownscalePhaseX [3]int32
	DownscalePhaseY [3]int32
	ResamplePhaseX  [3]int32
	ResamplePhaseY  [3]int32

	// Inactive reports that this branch contributes no output for this
	// tile (spec.md §3, §8).
	Inactive bool
}

// Tile is the finalised plan for one sub-rectangle of the frame (spec.md
// §3). Its reference counterpart is a fixed 160-byte record; this
// reimplementation keeps the same field set and order but does not
// byte-pack it, since nothing in this repository crosses the
// shared-memory ABI boundary (spec.md §9 notes the exact offsets are
// part of the ABI for implementations that do).
type Tile struct {
	Edge Edges

	InputOffsetX, InputOffsetY uint32
	InputW, InputH             uint32

	InputAddrOffset  uint32
	InputAddrOffset2 uint32

	// TDNInputAddrOffset/TDNOutputAddrOffset and StitchInputAddrOffset/
	// StitchOutputAddrOffset are populated only when the corresponding
	// block is enabled; left zero otherwise (spec.md §4.5.4, scenario 5).
	TDNInputAddrOffset  uint32
	TDNOutputAddrOffset uint32

	StitchInputAddrOffset  uint32
	StitchOutputAddrOffset uint32

	LSCGridOffsetX, LSCGridOffsetY uint32
	CACGridOffsetX, CACGridOffsetY uint32

	HOGAddrOffset uint32

	Branches [NumBranches]BranchTile
}

// TilesConfig is the payload handed to the device driver (spec.md §6):
// the finalised Config plus the tile grid the tiling engine produced.
type TilesConfig struct {
	Config   Config
	Tiles    [MaxTiles]Tile
	NumTiles int
}
