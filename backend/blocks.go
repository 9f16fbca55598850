/*
NAME
  blocks.go

DESCRIPTION
  blocks.go declares the per-block configuration structs of spec.md §3
  ("roughly twenty named records"). Each mirrors a hardware register
  block: plain data, no behaviour beyond the zero-value meaning "use
  defaults" (spec.md §4.5.2's "if zero fields signal auto").

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import "github.com/ausocean/pisp/format"

// DebinConfig configures the sensor debinning block: four per-tap
// coefficients re-weighting binned bayer samples back towards their
// true spatial position.
type DebinConfig struct {
	Coefs [4]int16
}

// DecompandConfig configures the piecewise-linear decompanding curve
// applied to non-linear sensor data before DPC.
type DecompandConfig struct {
	Points [8]Point
}

// Point is a single (x, y) knot of a piecewise-linear curve, used by
// decompand and gamma.
type Point struct{ X, Y uint16 }

// DPCConfig configures defective-pixel correction.
type DPCConfig struct {
	Strength   uint8
	Threshold  uint16
	LineStrength uint8
}

// GEQConfig configures the green-equalisation block (bayer green-channel
// mismatch correction).
type GEQConfig struct {
	Strength uint8
	Slope    uint16
}

// TDNConfig configures temporal denoise: blending the current bayer
// frame against a previous-frame reference buffer (spec.md §3 "TDN /
// stitch").
type TDNConfig struct {
	InputEnable  bool
	OutputEnable bool
	Reset        bool // when true, TDN input need not be enabled (spec.md §4.5.2).

	Strength       uint16
	ThresholdRecip uint16 // reciprocal of the motion threshold; see MotionThresholdRecip.
}

// SDNConfig configures spatial denoise.
type SDNConfig struct {
	Strength  uint16
	Threshold uint16
}

// BLCConfig configures black-level correction: a per-channel offset
// subtracted before any gain is applied.
type BLCConfig struct {
	BlackLevel [4]uint16 // one per bayer channel (R, Gr, Gb, B).
}

// StitchConfig configures multi-exposure HDR stitching: blending a
// long- and short-exposure bayer frame using a motion-derived blend
// mask (spec.md §3 "TDN / stitch", §9 rounding open question).
type StitchConfig struct {
	InputEnable  bool
	OutputEnable bool

	ExposureRatio        uint16 // long:short ratio, fixed point.
	MotionThreshold      uint16 // 0 => auto-derive MotionThresholdRecip.
	MotionThresholdRecip uint16 // finalised reciprocal (spec.md §9).
}

// WBGConfig configures white-balance gain: per-channel multiplicative
// gain applied after black-level correction.
type WBGConfig struct {
	Gain [4]uint16 // fixed point, UnityScale == 1.0.
}

// CDNConfig configures colour denoise (chroma-domain, post-demosaic).
type CDNConfig struct {
	Strength  uint16
	Threshold uint16
}

// GridConfig is the shared grid-table shape used by LSC and CAC: a
// per-axis grid step (fixed point, spec.md §4.5.2) plus an optional
// pixel offset for the first grid cell.
type GridConfig struct {
	CellSize      [2]uint16 // configured grid cell size in table units (spec.md's GridSize).
	StepPrecision uint8     // fixed-point fractional bits for GridStep.
	GridStep      [2]uint32 // finalised: (CellSize << StepPrecision) / image_dim.
	Offset        [2]int16  // signed pixel offset of the grid's (0,0) cell; 0 is used as is (no image-centre default).
}

// LSCConfig configures lens-shading correction.
type LSCConfig struct {
	Grid GridConfig
}

// CACConfig configures chromatic-aberration correction.
type CACConfig struct {
	Grid GridConfig
}

// ToneMapConfig configures the HDR tone-mapping curve.
type ToneMapConfig struct {
	Curve [16]uint16
}

// DemosaicConfig configures bayer-to-RGB demosaicing.
type DemosaicConfig struct {
	Sharper bool
	FCMode  uint8 // false-colour suppression mode.
}

// CCMConfig configures the 3x3 colour-correction matrix plus offsets.
type CCMConfig struct {
	Coeffs  [9]int16 // fixed point.
	Offsets [3]int16
}

// YCbCrConfig configures the RGB<->YCbCr colour encoding matrix, named
// by the encoding table entry it was derived from (spec.md §6
// "colour_encoding.<name>").
type YCbCrConfig struct {
	Encoding string
	Coeffs   [9]int16
	Offsets  [3]int16
	Inverse  bool
}

// SharpenConfig configures the five-band sharpening filter.
type SharpenConfig struct {
	Filters  [5]SharpenFilter
	Positive SharpenLimit
	Negative SharpenLimit
	Enables  uint8 // bitmask of which filter bands are active.
	White    uint8
	Black    uint8
	Grey     uint8
	ShfcYFactor uint16
}

// SharpenFilter is one band of the sharpen block's kernel bank.
type SharpenFilter struct {
	Kernel        [5]int16
	Offset        int16
	ThresholdSlope uint16
	Scale         uint16
}

// SharpenLimit is the positive/negative gain-limiting curve shared by
// SharpenConfig's two directions.
type SharpenLimit struct {
	Strength uint16
	PreLimit uint16
	Function [9]int16
	Limit    uint16
}

// GammaConfig configures the output gamma curve as piecewise-linear
// points (spec.md §6 "gamma.lut").
type GammaConfig struct {
	LUT [33]Point
}

// HOGConfig configures the histogram-of-gradients feature block.
type HOGConfig struct {
	CellSize    [2]uint8
	NumBins     uint8
	Normalise   bool
}

// CropConfig is a branch's absolute crop rectangle in input-image
// coordinates (spec.md §3).
type CropConfig struct {
	Left, Right, Top, Bottom uint32
}

// DownscaleConfig configures a branch's integer-ratio area reduction.
type DownscaleConfig struct {
	ScaledWidth, ScaledHeight uint32 // 0 => auto/disabled.

	ScaleFactor      [2]uint32 // finalised forward scale, UnityScale fixed point.
	ScaleFactorRecip [2]uint32 // finalised reciprocal.
}

// ResampleConfig configures a branch's six-tap polyphase fractional
// scaler.
type ResampleConfig struct {
	ScaledWidth, ScaledHeight uint32 // 0 => auto/disabled.

	ScaleFactor [2]uint32 // finalised forward scale, UnityScale fixed point.

	FilterName string   // resolved filter table key (spec.md §4.5.1).
	Filter     [96]int16 // six-tap * NumPhases coefficients (spec.md §6).

	// InitialPhase is the caller-supplied per-plane initial phase
	// offset, which may be negative (spec.md §4.5.4).
	InitialPhase [3]int32
}

// OutputFormatConfig is a branch's output image format plus clipping
// bounds and mirror flags.
type OutputFormatConfig struct {
	Image format.ImageFormatConfig

	HighClip uint16 // 0 on input => auto-filled to 65535 (spec.md §4.5.2).
	LowClip  uint16

	HFlip, VFlip bool

	MaxAlign [2]uint16 // preferred tile-boundary alignment, per axis.
	MinAlign [2]uint16 // mandatory tile-boundary alignment, per axis.
}

// SmartResizeRequest is the caller's {width, height} target for a
// branch; Prepare resolves it into a DownscaleConfig/ResampleConfig
// split (spec.md §4.5.1).
type SmartResizeRequest struct {
	Active bool
	Width  uint32
	Height uint32
}
