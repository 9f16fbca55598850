/*
NAME
  retile.go

DESCRIPTION
  retile.go implements spec.md §4.5 step 4 (the retile trigger) and the
  stage-graph construction that feeds the tiling engine: mapping a
  finalised Config onto the Input -> [demosaic Context] -> Split ->
  per-branch Crop/Downscale/Context/Resample/Output pipeline of spec.md
  §4.4.

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
	"github.com/ausocean/pisp/geom"
	"github.com/ausocean/pisp/stage"
	"github.com/ausocean/pisp/tiling"
	"github.com/pkg/errors"
)

// demosaicContextPixels is the neighbourhood margin the demosaic block
// needs on every side before the split, when bayer demosaicing is
// enabled (spec.md §4.3 "Context").
const demosaicContextPixels = 2

// maxTileSize bounds how far a single sweep step may advance per axis,
// matching the back-end's internal line-buffer budget (spec.md §1,
// §4.4). It is a fixed implementation constant, not caller-configurable
// state, so it plays no part in the retile trigger.
var maxTileSize = geom.Length2{X: 640, Y: 640}

// branchGeometryKey is the subset of a branch's configuration that
// affects tile geometry, per spec.md §4.5.3's retile trigger list.
type branchGeometryKey struct {
	Crop             CropConfig
	DownscaleEnabled bool
	DownscaleSize    [2]uint32
	ResampleEnabled  bool
	ResampleSize     [2]uint32
	OutputEnabled    bool
	OutputSize       [2]uint32
	OutputFlip       [2]bool
	SmartResize      SmartResizeRequest
}

// geometryKey is compared by == across Prepare calls to decide whether
// to retile (spec.md §4.5.3): input format, any crop, any output
// format, any scale target, smart-resize request, or global enables.
type geometryKey struct {
	Enables  Enables
	Input    format.ImageFormatConfig
	Branches [NumBranches]branchGeometryKey
}

func computeGeometryKey(cfg *Config) geometryKey {
	var k geometryKey
	k.Enables = cfg.Enables
	k.Input = cfg.Input
	for i := range cfg.Branches {
		br := cfg.Branches[i]
		k.Branches[i] = branchGeometryKey{
			Crop:             br.Crop,
			DownscaleEnabled: br.Enable.Downscale,
			DownscaleSize:    [2]uint32{br.Downscale.ScaledWidth, br.Downscale.ScaledHeight},
			ResampleEnabled:  br.Enable.Resample,
			ResampleSize:     [2]uint32{br.Resample.ScaledWidth, br.Resample.ScaledHeight},
			OutputEnabled:    br.Enable.Output,
			OutputSize:       [2]uint32{br.Output.Image.Width, br.Output.Image.Height},
			OutputFlip:       [2]bool{br.Output.HFlip, br.Output.VFlip},
			SmartResize:      br.SmartResize,
		}
	}
	return k
}

// buildGraph constructs the stage.Graph mirroring cfg's enabled output
// branches and returns it along with the mapping from graph branch
// index back to Config branch index: disabled output branches are
// omitted from the graph entirely, since Output is the graph's only
// terminal node and a disabled branch has none.
func buildGraph(cfg *Config) (*stage.Graph, []int, error) {
	inSize := geom.Length2{X: int32(cfg.Input.Width), Y: int32(cfg.Input.Height)}
	inAlign := geom.Length2{X: 1, Y: 1}
	desc := cfg.Input.Format
	if desc.Chroma420() || desc.Chroma422() {
		inAlign.X = 2
	}
	if desc.Chroma420() {
		inAlign.Y = 2
	}

	pad := geom.Length2{}
	if cfg.Enables.Bayer.get(bitDemosaic) {
		pad = geom.Length2{X: demosaicContextPixels, Y: demosaicContextPixels}
	}

	var specs []stage.BranchSpec
	var indices []int
	for i := range cfg.Branches {
		br := cfg.Branches[i]
		if !br.Enable.Output {
			continue
		}
		specs = append(specs, stage.BranchSpec{
			Crop: geom.Crop2{
				X: geom.Crop{Start: int32(br.Crop.Left), End: int32(br.Crop.Right)},
				Y: geom.Crop{Start: int32(br.Crop.Top), End: int32(br.Crop.Bottom)},
			},
			HasDownscale:    br.Enable.Downscale,
			DownscaleSize:   geom.Length2{X: int32(br.Downscale.ScaledWidth), Y: int32(br.Downscale.ScaledHeight)},
			DownscaleFactor: [2]int32{int32(br.Downscale.ScaleFactor[0]), int32(br.Downscale.ScaleFactor[1])},
			HasResample:     br.Enable.Resample,
			ResampleSize:    geom.Length2{X: int32(br.Resample.ScaledWidth), Y: int32(br.Resample.ScaledHeight)},
			ResampleFactor:  [2]int32{int32(br.Resample.ScaleFactor[0]), int32(br.Resample.ScaleFactor[1])},
			ResampleContext: resampleContextPixels,
			OutputSize:      geom.Length2{X: int32(br.Output.Image.Width), Y: int32(br.Output.Image.Height)},
			OutputMaxAlign:  geom.Length2{X: int32(br.Output.MaxAlign[0]), Y: int32(br.Output.MaxAlign[1])},
			OutputMinAlign:  geom.Length2{X: int32(br.Output.MinAlign[0]), Y: int32(br.Output.MinAlign[1])},
			HFlip:           br.Output.HFlip,
			VFlip:           br.Output.VFlip,
		})
		indices = append(indices, i)
	}
	if len(specs) == 0 {
		return nil, nil, errors.New("backend: no enabled output branch to tile")
	}

	return stage.Build(inSize, inAlign, pad, specs), indices, nil
}

// retile rebuilds the stage graph and runs the tiling engine over it
// (spec.md §4.4, §4.5 step 4), filling in every Tile's pure geometry
// (edges, input/output offsets and sizes, active/inactive branches).
// Address offsets, grid offsets and phases are left zero here: they are
// filled in separately by composeTiles so that step can be re-run every
// Prepare call even when geometry (and therefore retile) is skipped.
func retile(cfg *Config) (TilesConfig, error) {
	g, indices, err := buildGraph(cfg)
	if err != nil {
		return TilesConfig{}, err
	}

	regions, nx, ny, err := tiling.Plan(g, maxTileSize)
	if err != nil {
		return TilesConfig{}, err
	}
	if len(regions) > MaxTiles {
		return TilesConfig{}, errors.Errorf("backend: %d tiles (%dx%d) exceeds MaxTiles=%d", len(regions), nx, ny, MaxTiles)
	}

	var tc TilesConfig
	tc.NumTiles = len(regions)
	for t, r := range regions {
		tc.Tiles[t] = tileFromRegion(cfg, r, indices)
	}
	return tc, nil
}

// tileFromRegion converts a pure-geometry tiling.Region into a Tile,
// leaving every addressing/phase field at its zero value for
// composeTiles to fill in.
func tileFromRegion(cfg *Config, r tiling.Region, indices []int) Tile {
	t := Tile{
		Edge: Edges{Top: r.Edge.Top, Bottom: r.Edge.Bottom, Left: r.Edge.Left, Right: r.Edge.Right},
		InputOffsetX: uint32(r.Input.X.Offset), InputOffsetY: uint32(r.Input.Y.Offset),
		InputW: uint32(r.Input.X.Length), InputH: uint32(r.Input.Y.Length),
	}

	for gi, br := range r.Branches {
		branch := indices[gi]
		bt := BranchTile{
			CropStartX: uint32(br.CropStart.X), CropEndX: uint32(br.CropEnd.X),
			CropStartY: uint32(br.CropStart.Y), CropEndY: uint32(br.CropEnd.Y),
			ResampleInOffsetX: uint32(br.ResampleIn.X.Offset), ResampleInOffsetY: uint32(br.ResampleIn.Y.Offset),
			ResampleInW: uint32(br.ResampleIn.X.Length), ResampleInH: uint32(br.ResampleIn.Y.Length),
			OutputOffsetX: uint32(br.Output.X.Offset), OutputOffsetY: uint32(br.Output.Y.Offset),
			OutputW: uint32(br.Output.X.Length), OutputH: uint32(br.Output.Y.Length),
			Inactive: br.Inactive,
		}
		if cfg.Branches[branch].Output.HFlip {
			bt.OutputOffsetX = uint32(cfg.Branches[branch].Output.Image.Width) - uint32(br.Output.X.Offset) - uint32(br.Output.X.Length)
		}
		if cfg.Branches[branch].Output.VFlip {
			// VFLIP is a single-line addressing quirk, unlike HFLIP's
			// width-relative form (spec.md §4.4): offset_y = height -
			// unflipped_offset - 1.
			bt.OutputOffsetY = uint32(cfg.Branches[branch].Output.Image.Height) - uint32(br.Output.Y.Offset) - 1
		}
		t.Branches[branch] = bt
	}
	return t
}
