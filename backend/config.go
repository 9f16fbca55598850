/*
NAME
  config.go

DESCRIPTION
  config.go declares the finalised configuration record (spec.md §3, §6):
  the twenty-odd block structs in a dense, fixed layout, plus the global
  enable bitmasks and per-branch blocks.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package backend implements the back-end configuration preparer
// (spec.md §4.5): the ~twenty hardware block configs, Prepare's six-step
// pipeline, smart-resize, per-block finalisation, the retile trigger and
// per-tile address/phase composition.
package backend

import "github.com/ausocean/pisp/format"

// NumBranches is the number of parallel output branches the back-end
// drives. The reference hardware has two; this is not configurable at
// runtime because the register layout is fixed (spec.md §6).
const NumBranches = 2

// BlockID names one of the back-end's dirty-trackable blocks. Values
// below numSharedBlocks are global (one instance); Crop, Downscale,
// Resample and OutputFormat exist once per branch and are addressed
// through BlockCrop(branch), BlockDownscale(branch), etc.
type BlockID int

const (
	BlockInput BlockID = iota
	BlockDebin
	BlockDecompand
	BlockDPC
	BlockGEQ
	BlockTDN
	BlockSDN
	BlockBLC
	BlockStitch
	BlockWBG
	BlockCDN
	BlockLSC
	BlockCAC
	BlockToneMap
	BlockDemosaic
	BlockCCM
	BlockYCbCr
	BlockSharpen
	BlockGamma
	BlockHOG
	numSharedBlocks
)

// blockCropBase is where the per-branch block IDs begin, laid out after
// the shared blocks: NumBranches copies each of Crop, Downscale,
// Resample, OutputFormat.
const blockCropBase BlockID = numSharedBlocks

// BlockCrop, BlockDownscale, BlockResample and BlockOutputFormat return
// the dirty-bit BlockID for branch b's copy of that block.
func BlockCrop(b int) BlockID         { return blockCropBase + BlockID(b) }
func BlockDownscale(b int) BlockID    { return blockCropBase + BlockID(NumBranches) + BlockID(b) }
func BlockResample(b int) BlockID     { return blockCropBase + BlockID(2*NumBranches) + BlockID(b) }
func BlockOutputFormat(b int) BlockID { return blockCropBase + BlockID(3*NumBranches) + BlockID(b) }

// numBlocks is the total number of independently dirty-trackable
// blocks, shared plus four per-branch kinds times NumBranches.
const numBlocksTail = 4 * NumBranches

func numBlocks() int { return int(numSharedBlocks) + numBlocksTail }

// dirtyMask is a bitmask over BlockID, wide enough for every shared and
// per-branch block (spec.md §3's "a block is dirty iff the caller has
// set it since the last Prepare").
type dirtyMask uint64

func (m *dirtyMask) set(b BlockID)      { *m |= 1 << uint(b) }
func (m dirtyMask) has(b BlockID) bool  { return m&(1<<uint(b)) != 0 }
func (m *dirtyMask) clear()             { *m = 0 }
func (m *dirtyMask) clearBit(b BlockID) { *m &^= 1 << uint(b) }

// enableMask is the "bayer enables" / "rgb enables" global bitmask pair
// from spec.md §3. Only one domain is active per Prepare call (the
// consistency check in step 1 enforces exactly one of bayer/rgb input
// enabled); LSC and CAC enables are always tracked in the Bayer mask,
// whichever input is active.
type enableMask uint32

func (m *enableMask) set(bit uint, v bool) {
	if v {
		*m |= 1 << bit
	} else {
		*m &^= 1 << bit
	}
}
func (m enableMask) get(bit uint) bool { return m&(1<<bit) != 0 }

// Enable bit positions within enableMask, shared across the bayer and
// rgb masks (a given bit only means something in the mask that matches
// the block's domain).
const (
	bitBayerInput = iota
	bitRGBInput
	bitDebin
	bitDecompand
	bitDPC
	bitGEQ
	bitTDNInput
	bitTDNOutput
	bitSDN
	bitBLC
	bitStitch
	bitWBG
	bitCDN
	bitLSC
	bitCAC
	bitToneMap
	bitDemosaic
	bitCCM
	bitYCbCr
	bitSharpen
	bitGamma
	bitHOG
)

// Enables holds the two global enable bitmasks from spec.md §3.
type Enables struct {
	Bayer enableMask
	RGB   enableMask
}

// BranchEnables holds the per-branch enable bits: crop is implicit
// (always applied, possibly as a no-op rect), downscale/resample/output
// are each independently enabled.
type BranchEnables struct {
	Downscale bool
	Resample  bool
	Output    bool
}

// Config is the finalised configuration record consumed by the device
// I/O helpers (out of scope here per spec.md §1) and introspected by
// catalogue.DumpJSON/LoadJSON (spec.md §4.5.5, §6). Field order matches
// the component table in spec.md §2; the two reserved padding regions
// from spec.md §6 are modelled explicitly so the record's overall shape
// is stable even though this reimplementation does not map it across a
// shared-memory ABI byte-for-byte.
type Config struct {
	_ [112]byte // ReservedHead: forward-compatibility padding (spec.md §6).

	Enables Enables

	Input format.ImageFormatConfig

	Debin     DebinConfig
	Decompand DecompandConfig
	DPC       DPCConfig
	GEQ       GEQConfig
	TDN       TDNConfig
	SDN       SDNConfig
	BLC       BLCConfig
	Stitch    StitchConfig
	WBG       WBGConfig
	CDN       CDNConfig
	LSC       LSCConfig
	CAC       CACConfig
	ToneMap   ToneMapConfig
	Demosaic  DemosaicConfig
	CCM       CCMConfig
	YCbCr     YCbCrConfig
	Sharpen   SharpenConfig
	Gamma     GammaConfig

	Branches [NumBranches]BranchConfig

	HOG HOGConfig

	_ [84]byte // ReservedTail: forward-compatibility padding (spec.md §6).
}

// BranchConfig is one output branch's crop/downscale/resample/output
// chain plus its smart-resize request (spec.md §3 "extra per-branch
// state").
type BranchConfig struct {
	Enable BranchEnables

	Crop      CropConfig
	Downscale DownscaleConfig
	Resample  ResampleConfig
	Output    OutputFormatConfig

	SmartResize SmartResizeRequest
}
