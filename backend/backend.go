/*
NAME
  backend.go

DESCRIPTION
  backend.go implements BackEnd: one setter per block (each marking a
  dirty bit) and Prepare, the six-step pipeline of spec.md §4.5.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"sync"

	"github.com/ausocean/pisp/format"
	"github.com/ausocean/pisp/logx"
	"github.com/pkg/errors"
)

// BackEnd owns one configuration record and one tile array, both
// overwritten in place by Prepare (spec.md §3 "Ownership & invariants").
// It is safe to share across goroutines in this process via mu; spec.md
// §5's inter-process mutex is a separate, optional layer added by
// WithProcessMutex for instances mapped into shared memory.
type BackEnd struct {
	mu sync.Mutex

	proc *procMutex // nil unless WithProcessMutex was used.
	log  logx.Logger

	cfg    Config
	dirty  dirtyMask
	tiles  TilesConfig
	lastGeom geometryKey
	everPrepared bool
}

// New constructs a BackEnd with every block at its zero value (callers
// must set at least one input domain and one output branch before the
// first Prepare).
func New(log logx.Logger) *BackEnd {
	if log == nil {
		log = logx.NoOp()
	}
	return &BackEnd{log: log}
}

// WithProcessMutex wires an inter-process flock(2)-based mutex around
// every setter and Prepare call, for a BackEnd instance mapped into
// shared memory visible to multiple processes (spec.md §5).
func (b *BackEnd) WithProcessMutex(lockFilePath string) error {
	pm, err := newProcMutex(lockFilePath)
	if err != nil {
		return errors.Wrap(err, "backend: opening inter-process lock")
	}
	b.proc = pm
	return nil
}

func (b *BackEnd) lock() error {
	b.mu.Lock()
	if b.proc != nil {
		if err := b.proc.Lock(); err != nil {
			b.mu.Unlock()
			return err
		}
	}
	return nil
}

func (b *BackEnd) unlock() {
	if b.proc != nil {
		b.proc.Unlock()
	}
	b.mu.Unlock()
}

// --- Global setters -------------------------------------------------

// SetInputFormat sets the input image format config and marks it dirty.
func (b *BackEnd) SetInputFormat(v format.ImageFormatConfig) error {
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Input = v
	b.dirty.set(BlockInput)
	return nil
}

// SetBayerInputEnabled and SetRGBInputEnabled select the active input
// domain (spec.md §4.5 step 1 requires exactly one to be true).
func (b *BackEnd) SetBayerInputEnabled(v bool) error { return b.setGlobalBit(&b.cfg.Enables.Bayer, bitBayerInput, v) }
func (b *BackEnd) SetRGBInputEnabled(v bool) error   { return b.setGlobalBit(&b.cfg.Enables.RGB, bitRGBInput, v) }

func (b *BackEnd) setGlobalBit(mask *enableMask, bit uint, v bool) error {
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	mask.set(bit, v)
	b.dirty.set(BlockInput)
	return nil
}

// setBlock is the common body for every single-instance block setter:
// copy in the new value, mark its dirty bit, optionally flip its enable
// bit in whichever global mask (bayer or rgb) the caller names.
func setBlock[T any](b *BackEnd, dst *T, id BlockID, v T, mask *enableMask, bit uint, enable bool) error {
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	*dst = v
	b.dirty.set(id)
	if mask != nil {
		mask.set(bit, enable)
	}
	return nil
}

func (b *BackEnd) SetDebin(v DebinConfig, enabled bool) error {
	return setBlock(b, &b.cfg.Debin, BlockDebin, v, &b.cfg.Enables.Bayer, bitDebin, enabled)
}
func (b *BackEnd) SetDecompand(v DecompandConfig, enabled bool) error {
	return setBlock(b, &b.cfg.Decompand, BlockDecompand, v, &b.cfg.Enables.Bayer, bitDecompand, enabled)
}
func (b *BackEnd) SetDPC(v DPCConfig, enabled bool) error {
	return setBlock(b, &b.cfg.DPC, BlockDPC, v, &b.cfg.Enables.Bayer, bitDPC, enabled)
}
func (b *BackEnd) SetGEQ(v GEQConfig, enabled bool) error {
	return setBlock(b, &b.cfg.GEQ, BlockGEQ, v, &b.cfg.Enables.Bayer, bitGEQ, enabled)
}
func (b *BackEnd) SetSDN(v SDNConfig, enabled bool) error {
	return setBlock(b, &b.cfg.SDN, BlockSDN, v, &b.cfg.Enables.Bayer, bitSDN, enabled)
}
func (b *BackEnd) SetBLC(v BLCConfig, enabled bool) error {
	return setBlock(b, &b.cfg.BLC, BlockBLC, v, &b.cfg.Enables.Bayer, bitBLC, enabled)
}
func (b *BackEnd) SetWBG(v WBGConfig, enabled bool) error {
	return setBlock(b, &b.cfg.WBG, BlockWBG, v, &b.cfg.Enables.Bayer, bitWBG, enabled)
}
func (b *BackEnd) SetCDN(v CDNConfig, enabled bool) error {
	return setBlock(b, &b.cfg.CDN, BlockCDN, v, &b.cfg.Enables.RGB, bitCDN, enabled)
}
func (b *BackEnd) SetLSC(v LSCConfig, enabled bool) error {
	return setBlock(b, &b.cfg.LSC, BlockLSC, v, &b.cfg.Enables.Bayer, bitLSC, enabled)
}
func (b *BackEnd) SetCAC(v CACConfig, enabled bool) error {
	return setBlock(b, &b.cfg.CAC, BlockCAC, v, &b.cfg.Enables.Bayer, bitCAC, enabled)
}
func (b *BackEnd) SetToneMap(v ToneMapConfig, enabled bool) error {
	return setBlock(b, &b.cfg.ToneMap, BlockToneMap, v, &b.cfg.Enables.Bayer, bitToneMap, enabled)
}
func (b *BackEnd) SetDemosaic(v DemosaicConfig, enabled bool) error {
	return setBlock(b, &b.cfg.Demosaic, BlockDemosaic, v, &b.cfg.Enables.Bayer, bitDemosaic, enabled)
}
func (b *BackEnd) SetCCM(v CCMConfig, enabled bool) error {
	return setBlock(b, &b.cfg.CCM, BlockCCM, v, &b.cfg.Enables.RGB, bitCCM, enabled)
}
func (b *BackEnd) SetYCbCr(v YCbCrConfig, enabled bool) error {
	return setBlock(b, &b.cfg.YCbCr, BlockYCbCr, v, &b.cfg.Enables.RGB, bitYCbCr, enabled)
}
func (b *BackEnd) SetSharpen(v SharpenConfig, enabled bool) error {
	return setBlock(b, &b.cfg.Sharpen, BlockSharpen, v, &b.cfg.Enables.RGB, bitSharpen, enabled)
}
func (b *BackEnd) SetGamma(v GammaConfig, enabled bool) error {
	return setBlock(b, &b.cfg.Gamma, BlockGamma, v, &b.cfg.Enables.RGB, bitGamma, enabled)
}
func (b *BackEnd) SetHOG(v HOGConfig, enabled bool) error {
	return setBlock(b, &b.cfg.HOG, BlockHOG, v, &b.cfg.Enables.RGB, bitHOG, enabled)
}

// SetTDN sets TDN and, per spec.md §3, its input/output enable bits
// independently since "temporal feedback output enabled but TDN
// disabled" is legal (if useless).
func (b *BackEnd) SetTDN(v TDNConfig) error {
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.TDN = v
	b.dirty.set(BlockTDN)
	b.cfg.Enables.Bayer.set(bitTDNInput, v.InputEnable)
	b.cfg.Enables.Bayer.set(bitTDNOutput, v.OutputEnable)
	return nil
}

// SetStitch sets the stitch block configuration and its input/output
// enable bits.
func (b *BackEnd) SetStitch(v StitchConfig) error {
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Stitch = v
	b.dirty.set(BlockStitch)
	b.cfg.Enables.Bayer.set(bitStitch, v.InputEnable || v.OutputEnable)
	return nil
}

// --- Per-branch setters ----------------------------------------------

func (b *BackEnd) SetBranchCrop(branch int, v CropConfig) error {
	if err := b.checkBranch(branch); err != nil {
		return err
	}
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Branches[branch].Crop = v
	b.dirty.set(BlockCrop(branch))
	return nil
}

func (b *BackEnd) SetBranchDownscale(branch int, v DownscaleConfig, enabled bool) error {
	if err := b.checkBranch(branch); err != nil {
		return err
	}
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Branches[branch].Downscale = v
	b.cfg.Branches[branch].Enable.Downscale = enabled
	b.dirty.set(BlockDownscale(branch))
	return nil
}

func (b *BackEnd) SetBranchResample(branch int, v ResampleConfig, enabled bool) error {
	if err := b.checkBranch(branch); err != nil {
		return err
	}
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Branches[branch].Resample = v
	b.cfg.Branches[branch].Enable.Resample = enabled
	b.dirty.set(BlockResample(branch))
	return nil
}

func (b *BackEnd) SetBranchOutputFormat(branch int, v OutputFormatConfig, enabled bool) error {
	if err := b.checkBranch(branch); err != nil {
		return err
	}
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Branches[branch].Output = v
	b.cfg.Branches[branch].Enable.Output = enabled
	b.dirty.set(BlockOutputFormat(branch))
	return nil
}

// SetBranchSmartResize requests that Prepare resolve {width, height}
// into a downscale/resample split for this branch (spec.md §4.5.1).
func (b *BackEnd) SetBranchSmartResize(branch int, width, height uint32) error {
	if err := b.checkBranch(branch); err != nil {
		return err
	}
	if err := b.lock(); err != nil {
		return err
	}
	defer b.unlock()
	b.cfg.Branches[branch].SmartResize = SmartResizeRequest{Active: true, Width: width, Height: height}
	b.dirty.set(BlockDownscale(branch))
	b.dirty.set(BlockResample(branch))
	return nil
}

func (b *BackEnd) checkBranch(branch int) error {
	if branch < 0 || branch >= NumBranches {
		return errors.Errorf("backend: branch index %d out of range [0,%d)", branch, NumBranches)
	}
	return nil
}

// Config returns a copy of the current configuration record.
func (b *BackEnd) Config() Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Tiles returns a copy of the current tile grid.
func (b *BackEnd) Tiles() TilesConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tiles
}

// Prepare runs the six-step pipeline of spec.md §4.5: consistency check,
// smart-resize resolution, block finalisation, conditional retile,
// per-tile composition, and emission with dirty-bit clearing. On any
// validation failure it returns an error and leaves the record
// indeterminate except for non-destructive auto-fills already applied
// in place (spec.md §5, §7).
func (b *BackEnd) Prepare() (TilesConfig, error) {
	if err := b.lock(); err != nil {
		return TilesConfig{}, err
	}
	defer b.unlock()

	if err := checkConsistency(&b.cfg); err != nil {
		return TilesConfig{}, err
	}

	resolveSmartResize(&b.cfg, b.dirty)

	if err := finaliseBlocks(&b.cfg, b.dirty, b.log); err != nil {
		return TilesConfig{}, err
	}

	key := computeGeometryKey(&b.cfg)
	if !b.everPrepared || key != b.lastGeom {
		tiles, err := retile(&b.cfg)
		if err != nil {
			return TilesConfig{}, errors.Wrap(err, "backend: retile")
		}
		b.tiles = tiles
		b.lastGeom = key
		b.everPrepared = true
	}

	if err := composeTiles(&b.cfg, &b.tiles); err != nil {
		return TilesConfig{}, errors.Wrap(err, "backend: per-tile composition")
	}

	b.dirty.clear()
	b.tiles.Config = b.cfg
	return b.tiles, nil
}
