/*
NAME
  compose.go

DESCRIPTION
  compose.go implements spec.md §4.5 step 5 (per-tile composition):
  filling in every Tile's address offsets, LSC/CAC grid offsets, HoG
  address offset and per-plane downscale/resample phases from the pure
  geometry retile already computed. Unlike retile, this runs on every
  Prepare call, since address offsets can change when a non-geometry
  field (a grid step, an initial phase, a stride) is updated without
  triggering a full retile.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"github.com/ausocean/pisp/format"
	"github.com/pkg/errors"
)

// composeTiles fills in every tile's address offsets, grid offsets and
// per-plane phases (spec.md §4.5.4), given the pure geometry retile
// already baked into tiles.Tiles[*] and the finalised block config.
func composeTiles(cfg *Config, tiles *TilesConfig) error {
	for t := 0; t < tiles.NumTiles; t++ {
		tile := &tiles.Tiles[t]

		off0, off1, _, err := format.ComputeAddrOffset(cfg.Input, tile.InputOffsetX, tile.InputOffsetY)
		if err != nil {
			return errors.Wrap(err, "backend: input address offset")
		}
		tile.InputAddrOffset = off0
		tile.InputAddrOffset2 = off1

		if cfg.Enables.Bayer.get(bitTDNInput) || cfg.Enables.Bayer.get(bitTDNOutput) {
			tile.TDNInputAddrOffset = off0
			tile.TDNOutputAddrOffset = off0
		}
		if cfg.Enables.Bayer.get(bitStitch) {
			tile.StitchInputAddrOffset = off0
			tile.StitchOutputAddrOffset = off0
		}

		if cfg.Enables.Bayer.get(bitLSC) {
			tile.LSCGridOffsetX, tile.LSCGridOffsetY = gridOffset(cfg.LSC.Grid, tile.InputOffsetX, tile.InputOffsetY)
		}
		if cfg.Enables.Bayer.get(bitCAC) {
			tile.CACGridOffsetX, tile.CACGridOffsetY = gridOffset(cfg.CAC.Grid, tile.InputOffsetX, tile.InputOffsetY)
		}

		if cfg.Enables.RGB.get(bitHOG) && NumBranches > 0 {
			tile.HOGAddrOffset = hogAddrOffset(cfg, &tile.Branches[0])
		}

		for b := range cfg.Branches {
			if tile.Branches[b].Inactive || !cfg.Branches[b].Enable.Output {
				continue
			}
			if err := composeBranchTile(cfg, b, &tile.Branches[b]); err != nil {
				return errors.Wrapf(err, "backend: tile %d branch %d", t, b)
			}
		}
	}
	return nil
}

// gridOffset implements spec.md §4.5.4's verbatim LSC/CAC grid offset
// formula: grid_offset = (input_offset + grid.offset) * grid_step.
func gridOffset(g GridConfig, x, y uint32) (uint32, uint32) {
	ox := uint32(int32(x) + int32(g.Offset[0])) * g.GridStep[0]
	oy := uint32(int32(y) + int32(g.Offset[1])) * g.GridStep[1]
	return ox, oy
}

// hogAddrOffset computes the HoG feature block's address offset as a
// linear cell index over the given branch's output region, per
// spec.md §3; HoG always runs over branch 0's output geometry.
func hogAddrOffset(cfg *Config, bt *BranchTile) uint32 {
	h := cfg.HOG
	if h.CellSize[0] == 0 || h.CellSize[1] == 0 {
		return 0
	}
	cellsPerRow := (cfg.Branches[0].Output.Image.Width + uint32(h.CellSize[0]) - 1) / uint32(h.CellSize[0])
	cellX := bt.OutputOffsetX / uint32(h.CellSize[0])
	cellY := bt.OutputOffsetY / uint32(h.CellSize[1])
	return (cellY*cellsPerRow + cellX) * 4
}

// composeBranchTile fills in one branch's address offsets and per-plane
// downscale/resample phases for a single tile (spec.md §4.5.4).
func composeBranchTile(cfg *Config, branch int, bt *BranchTile) error {
	br := &cfg.Branches[branch]
	out := br.Output.Image

	off0, off1, _, err := format.ComputeAddrOffset(out, bt.OutputOffsetX, bt.OutputOffsetY)
	if err != nil {
		return err
	}
	bt.OutputAddrOffset = off0
	bt.OutputAddrOffset2 = off1

	desc := out.Format
	numPlanes := desc.NumPlanes()
	if numPlanes > 3 {
		numPlanes = 3
	}

	var phaseX, phaseY [3]int32
	for p := 0; p < numPlanes; p++ {
		divX, divY := chromaDiv(desc, p)

		if br.Enable.Downscale {
			inOff := bt.ResampleInOffsetX / divX
			phaseX[p] = int32(unity) - int32((inOff*br.Downscale.ScaleFactor[0])%unity)

			inOffY := bt.ResampleInOffsetY / divY
			phaseY[p] = int32(unity) - int32((inOffY*br.Downscale.ScaleFactor[1])%unity)
		}
	}
	bt.DownscalePhaseX = phaseX
	bt.DownscalePhaseY = phaseY

	var rPhaseX, rPhaseY [3]int32
	if br.Enable.Resample {
		for p := 0; p < numPlanes; p++ {
			divX, divY := chromaDiv(desc, p)

			x, err := resamplePhase(bt.OutputOffsetX/divX, br.Resample.ScaleFactor[0], br.Resample.InitialPhase[p])
			if err != nil {
				return errors.Wrap(err, "x axis")
			}
			rPhaseX[p] = x

			y, err := resamplePhase(bt.OutputOffsetY/divY, br.Resample.ScaleFactor[1], br.Resample.InitialPhase[p])
			if err != nil {
				return errors.Wrap(err, "y axis")
			}
			rPhaseY[p] = y
		}
		if err := checkPhaseAgreement(rPhaseX[:numPlanes]); err != nil {
			return err
		}
		if err := checkPhaseAgreement(rPhaseY[:numPlanes]); err != nil {
			return err
		}
	}
	bt.ResamplePhaseX = rPhaseX
	bt.ResamplePhaseY = rPhaseY

	return nil
}

// chromaDiv returns the X/Y chroma subsampling divisor for plane p of
// descriptor d: plane 0 (luma/primary) is always 1:1.
func chromaDiv(d format.Descriptor, p int) (uint32, uint32) {
	if p == 0 || d.Chroma444() {
		return 1, 1
	}
	x := uint32(1)
	y := uint32(1)
	if !d.Chroma444() {
		x = 2
	}
	if d.Chroma420() {
		y = 2
	}
	return x, y
}

// resamplePhase implements spec.md §4.5.4's
// resample_phase[p] = ((output_offset * NumPhases * scale_factor) / UnityScale) mod NumPhases,
// scaled back into [0, UnityPhase), plus the caller's per-plane initial
// phase, asserting the result lies within [0, 2*UnityPhase).
func resamplePhase(outputOffset, scaleFactor uint32, initial int32) (int32, error) {
	raw := (uint64(outputOffset) * numPhases * uint64(scaleFactor)) / unity
	phaseStep := int32(raw % numPhases)
	scaled := phaseStep * (unity / numPhases)

	result := scaled + initial
	if result < 0 || result >= 2*unity {
		return 0, errors.Errorf("backend: resample phase %d out of range [0, %d)", result, 2*unity)
	}
	return result, nil
}

// checkPhaseAgreement implements spec.md §4.5.4's cross-plane
// disagreement check: no two planes' resample phases may differ by
// more than half a pixel (half of UnityScale) on the same axis.
func checkPhaseAgreement(phases []int32) error {
	for i := 1; i < len(phases); i++ {
		diff := phases[i] - phases[0]
		if diff < 0 {
			diff = -diff
		}
		if diff > unity/2 {
			return ErrPhaseDisagreement
		}
	}
	return nil
}
