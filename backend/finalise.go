/*
NAME
  finalise.go

DESCRIPTION
  finalise.go implements spec.md §4.5 step 1 (the consistency check)
  and step 3 (per-block finalisation, §4.5.2): filling in "auto" fields
  left zero by the caller and validating the cross-field invariants that
  make a Prepare call fail fatally.

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
	"github.com/ausocean/pisp/logx"
	"github.com/pkg/errors"
)

// gridStepPrecision is the fixed-point fractional-bit count used for
// LSC/CAC grid steps (spec.md §4.5.2).
const gridStepPrecision = 8

// checkConsistency implements spec.md §4.5 step 1: exactly one input
// domain enabled, at least one output branch enabled.
func checkConsistency(cfg *Config) error {
	bayer := cfg.Enables.Bayer.get(bitBayerInput)
	rgb := cfg.Enables.RGB.get(bitRGBInput)
	if bayer == rgb {
		return ErrInputDomain
	}

	anyOutput := false
	for i := range cfg.Branches {
		if cfg.Branches[i].Enable.Output {
			anyOutput = true
			break
		}
	}
	if !anyOutput {
		return ErrNoOutput
	}
	return nil
}

// finaliseBlocks walks every dirty, enabled block and fills in its
// "auto" (zero-valued) fields, validating the cross-field invariants of
// spec.md §4.5.2. Non-dirty blocks are left untouched: finalisation is
// idempotent (spec.md §8 invariant 5), so re-running it on an
// already-finalised block is harmless but unnecessary.
func finaliseBlocks(cfg *Config, dirty dirtyMask, log logx.Logger) error {
	if err := format.Descriptor(cfg.Input.Format).Validate(cfg.Input.Width, cfg.Input.Height); err != nil {
		return errors.Wrap(err, "backend: input format")
	}
	if cfg.Input.Stride == 0 {
		if err := format.ComputeStrideAlign(&cfg.Input, format.PreferredAlign, false); err != nil {
			return errors.Wrap(err, "backend: input stride")
		}
		log.Debug("auto-filled input stride", "stride", cfg.Input.Stride, "stride2", cfg.Input.Stride2)
	}

	if dirty.has(BlockLSC) && cfg.Enables.Bayer.get(bitLSC) {
		if err := finaliseGrid(&cfg.LSC.Grid, cfg.Input.Width, cfg.Input.Height); err != nil {
			return errors.Wrap(err, "backend: lsc grid")
		}
	}
	if dirty.has(BlockCAC) && cfg.Enables.Bayer.get(bitCAC) {
		if err := finaliseGrid(&cfg.CAC.Grid, cfg.Input.Width, cfg.Input.Height); err != nil {
			return errors.Wrap(err, "backend: cac grid")
		}
	}

	if dirty.has(BlockStitch) {
		finaliseStitch(&cfg.Stitch)
	}
	if dirty.has(BlockTDN) {
		if err := validateTDN(cfg.TDN); err != nil {
			return err
		}
	}

	for i := range cfg.Branches {
		br := &cfg.Branches[i]

		if dirty.has(BlockDownscale(i)) && br.Enable.Downscale {
			if err := finaliseDownscale(cfg, i); err != nil {
				return errors.Wrapf(err, "backend: branch %d downscale", i)
			}
		}
		if dirty.has(BlockResample(i)) && br.Enable.Resample && br.Resample.ScaleFactor == [2]uint32{} {
			if err := finaliseResample(cfg, i); err != nil {
				return errors.Wrapf(err, "backend: branch %d resample", i)
			}
		}
		if dirty.has(BlockOutputFormat(i)) && br.Enable.Output {
			if err := finaliseOutputFormat(cfg, i, log); err != nil {
				return errors.Wrapf(err, "backend: branch %d output format", i)
			}
		}
	}

	return nil
}

// finaliseGrid computes LSC/CAC's grid step and asserts it does not
// overflow the hardware's addressable grid range (spec.md §4.5.2).
func finaliseGrid(g *GridConfig, width, height uint32) error {
	dims := [2]uint32{width, height}
	for axis := 0; axis < 2; axis++ {
		if g.CellSize[axis] == 0 || dims[axis] == 0 {
			continue
		}
		step := (uint32(g.CellSize[axis]) << gridStepPrecision) / dims[axis]
		g.StepPrecision = gridStepPrecision
		g.GridStep[axis] = step

		limit := uint32(g.CellSize[axis]) << gridStepPrecision
		offset := uint32(0)
		if g.Offset[axis] > 0 {
			offset = uint32(g.Offset[axis])
		}
		if dims[axis]+offset > 0 && step*(dims[axis]+offset-1) >= limit {
			return ErrGridOverflow
		}
	}
	return nil
}

// finaliseStitch fills in the stitch block's motion threshold
// reciprocal, rounding up per spec.md §9's explicit Open Question
// decision: (256 + t - 1) / t, not the naive reciprocal, when t > 0.
func finaliseStitch(s *StitchConfig) {
	if s.MotionThresholdRecip != 0 {
		return
	}
	t := s.MotionThreshold
	if t == 0 {
		return
	}
	s.MotionThresholdRecip = uint16((256 + uint32(t) - 1) / uint32(t))
}

// validateTDN implements spec.md §4.5.2's TDN legality rule: TDN
// enabled requires its input enabled or tdn.reset set.
func validateTDN(t TDNConfig) error {
	if !t.InputEnable && !t.Reset {
		return ErrTDNConfig
	}
	return nil
}

// finaliseDownscale computes forward and reciprocal fixed-point scale
// factors and rejects values outside {unity} ∪ [2,8] (spec.md §4.3,
// §4.5.2).
func finaliseDownscale(cfg *Config, branch int) error {
	br := &cfg.Branches[branch]
	srcW, srcH := cropSize(cfg, branch)
	dstW, dstH := br.Downscale.ScaledWidth, br.Downscale.ScaledHeight
	if dstW == 0 || dstH == 0 {
		return errors.New("backend: downscale enabled with zero target size")
	}

	fx := downscaleFactorFixed(srcW, dstW)
	fy := downscaleFactorFixed(srcH, dstH)
	for _, f := range [2]uint32{fx, fy} {
		if f != unity && (f < 2*unity || f > 8*unity) {
			return ErrScaleFactorRange
		}
	}

	br.Downscale.ScaleFactor = [2]uint32{fx, fy}
	br.Downscale.ScaleFactorRecip = [2]uint32{
		(unity*unity + fx/2) / fx,
		(unity*unity + fy/2) / fy,
	}
	return nil
}

// finaliseResample computes the forward scale factors for a manually
// configured (non-smart-resize) resample block and picks its filter,
// mirroring setResampleFilter's cases (spec.md §4.3, §4.5.1, §4.5.2).
func finaliseResample(cfg *Config, branch int) error {
	br := &cfg.Branches[branch]
	srcW, srcH := cropSize(cfg, branch)
	if br.Enable.Downscale {
		srcW, srcH = br.Downscale.ScaledWidth, br.Downscale.ScaledHeight
	}
	dstW, dstH := br.Resample.ScaledWidth, br.Resample.ScaledHeight
	if dstW == 0 || dstH == 0 {
		return errors.New("backend: resample enabled with zero target size")
	}

	fx := resampleFactorFixed(srcW, dstW)
	fy := resampleFactorFixed(srcH, dstH)
	for _, f := range [2]uint32{fx, fy} {
		if f < unity/16 || f >= unity*16 {
			return ErrScaleFactorRange
		}
	}

	setResampleFilter(br, fx, fy)
	return nil
}

// finaliseOutputFormat computes the optimal stride and clamps clip
// bounds, and enforces the compression legality rules of spec.md
// §4.5.2.
func finaliseOutputFormat(cfg *Config, branch int, log logx.Logger) error {
	out := &cfg.Branches[branch].Output

	desc := format.Descriptor(out.Image.Format)
	if desc.Compressed() && desc.BitsPerSample() != 8 {
		return ErrCompressedFormat
	}
	if err := desc.Validate(out.Image.Width, out.Image.Height); err != nil {
		return err
	}

	if out.Image.Stride == 0 {
		if err := format.ComputeStrideAlign(&out.Image, format.PreferredAlign, false); err != nil {
			return err
		}
	}
	for p := 0; p < desc.NumPlanes(); p++ {
		if _, err := format.GetPlaneSize(out.Image, p); err != nil {
			return errors.Wrap(ErrPlaneOverflow, err.Error())
		}
	}
	if out.HighClip == 0 {
		out.HighClip = 65535
		log.Debug("auto-filled output high clip", "branch", branch, "value", out.HighClip)
	}

	if out.MaxAlign == [2]uint16{} {
		out.MaxAlign = [2]uint16{uint16(format.PreferredAlign), uint16(format.PreferredAlign)}
	}
	if out.MinAlign == [2]uint16{} {
		out.MinAlign = [2]uint16{uint16(format.MinAlign), uint16(format.MinAlign)}
	}
	return nil
}
