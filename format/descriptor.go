/*
NAME
  descriptor.go

DESCRIPTION
  descriptor.go defines the packed 32-bit image format descriptor used
  throughout the back-end (spec.md §3, §4.2) and the total predicates
  over it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package format implements the packed image format descriptor and the
// pure calculus over it: byte offsets, plane counts, plane sizes and
// stride alignment, per spec.md §4.2.
package format

import "fmt"

// Descriptor is a packed 32-bit value encoding every aspect of a plane
// layout the back-end needs to reason about: channel count, bit depth,
// planarity, chroma sampling, byte order, compression mode, and the
// wallpaper/integral/HoG flags. It is deliberately a plain integer, not
// a struct, so it round-trips through the hardware register fields and
// the JSON debug interface (spec.md §6) without any packing code.
type Descriptor uint32

// Bit-field layout. Each field is documented with its width and the
// enumerated values it may hold; all accessors below are total over the
// full uint32 range (spec.md §4.2: "Predicates over this descriptor are
// total").
const (
	shiftChannels   = 0  // 1 bit: 0 => 1 channel, 1 => 3 channels.
	shiftBPS        = 1  // 2 bits: bits-per-sample code.
	shiftPlanarity  = 3  // 2 bits: planarity code.
	shiftChroma     = 5  // 2 bits: chroma sampling code.
	shiftByteOrder  = 7  // 1 bit: 0 => little-endian, 1 => big-endian.
	shiftCompressed = 8  // 2 bits: compression mode, 0 = uncompressed.
	shiftWallpaper  = 10 // 1 bit.
	shiftIntegral   = 11 // 1 bit.
	shiftHog        = 12 // 2 bits: HoG flags.
	shiftBayer      = 14 // 1 bit: mosaic (bayer) sensor data.

	maskChannels   = 0x1
	maskBPS        = 0x3
	maskPlanarity  = 0x3
	maskChroma     = 0x3
	maskByteOrder  = 0x1
	maskCompressed = 0x3
	maskWallpaper  = 0x1
	maskIntegral   = 0x1
	maskHog        = 0x3
	maskBayer      = 0x1
)

func field(d Descriptor, shift uint, mask uint32) uint32 {
	return (uint32(d) >> shift) & mask
}

func withField(d Descriptor, shift uint, mask, v uint32) Descriptor {
	cleared := uint32(d) &^ (mask << shift)
	return Descriptor(cleared | ((v & mask) << shift))
}

// BPS codes.
const (
	BPS8 = iota
	BPS10
	BPS12
	BPS16
)

var bpsValues = [4]int{8, 10, 12, 16}

// Planarity codes.
const (
	Interleaved = iota
	SemiPlanar
	Planar
)

// Chroma sampling codes.
const (
	Chroma444 = iota
	Chroma422
	Chroma420
)

// Compression modes. 0 means uncompressed; 1..3 are hardware-specific
// compression schemes, distinguished only by number per spec.md §3.
const (
	CompressNone = iota
	CompressMode1
	CompressMode2
	CompressMode3
)

// NewDescriptor builds a Descriptor from its component fields.
func NewDescriptor(channels3, bayer bool, bps, planarity, chroma int, bigEndian bool, compression int, wallpaper, integral bool, hog int) Descriptor {
	var d Descriptor
	if channels3 {
		d = withField(d, shiftChannels, maskChannels, 1)
	}
	d = withField(d, shiftBPS, maskBPS, uint32(bps))
	d = withField(d, shiftPlanarity, maskPlanarity, uint32(planarity))
	d = withField(d, shiftChroma, maskChroma, uint32(chroma))
	if bigEndian {
		d = withField(d, shiftByteOrder, maskByteOrder, 1)
	}
	d = withField(d, shiftCompressed, maskCompressed, uint32(compression))
	if wallpaper {
		d = withField(d, shiftWallpaper, maskWallpaper, 1)
	}
	if integral {
		d = withField(d, shiftIntegral, maskIntegral, 1)
	}
	d = withField(d, shiftHog, maskHog, uint32(hog))
	if bayer {
		d = withField(d, shiftBayer, maskBayer, 1)
	}
	return d
}

// Channels returns the number of channels the descriptor represents: 1
// or 3.
func (d Descriptor) Channels() int {
	if field(d, shiftChannels, maskChannels) == 1 {
		return 3
	}
	return 1
}

// BPSCode returns the raw bits-per-sample code (BPS8..BPS16).
func (d Descriptor) BPSCode() int { return int(field(d, shiftBPS, maskBPS)) }

// BitsPerSample returns 8, 10, 12 or 16.
func (d Descriptor) BitsPerSample() int { return bpsValues[d.BPSCode()&0x3] }

// PlanarityCode returns Interleaved, SemiPlanar or Planar.
func (d Descriptor) PlanarityCode() int { return int(field(d, shiftPlanarity, maskPlanarity)) }

// Interleaved reports whether samples for all channels share one plane.
func (d Descriptor) Interleaved() bool { return d.PlanarityCode() == Interleaved }

// SemiPlanar reports whether luma is separate but chroma is combined
// into one interleaved plane (e.g. NV12).
func (d Descriptor) SemiPlanar() bool { return d.PlanarityCode() == SemiPlanar }

// FullyPlanar reports whether every channel has its own plane.
func (d Descriptor) FullyPlanar() bool { return d.PlanarityCode() == Planar }

// ChromaCode returns Chroma444, Chroma422 or Chroma420.
func (d Descriptor) ChromaCode() int { return int(field(d, shiftChroma, maskChroma)) }

// Chroma444 reports 4:4:4 sampling (no subsampling).
func (d Descriptor) Chroma444() bool { return d.Channels() == 3 && d.ChromaCode() == Chroma444 }

// Chroma422 reports 4:2:2 horizontal-only subsampling.
func (d Descriptor) Chroma422() bool { return d.Channels() == 3 && d.ChromaCode() == Chroma422 }

// Chroma420 reports 4:2:0 horizontal and vertical subsampling.
func (d Descriptor) Chroma420() bool { return d.Channels() == 3 && d.ChromaCode() == Chroma420 }

// BigEndian reports the descriptor's byte order.
func (d Descriptor) BigEndian() bool { return field(d, shiftByteOrder, maskByteOrder) == 1 }

// CompressionMode returns CompressNone..CompressMode3.
func (d Descriptor) CompressionMode() int { return int(field(d, shiftCompressed, maskCompressed)) }

// Compressed reports whether any compression mode is set.
func (d Descriptor) Compressed() bool { return d.CompressionMode() != CompressNone }

// Wallpaper reports the 128-byte-roll tiled layout flag.
func (d Descriptor) Wallpaper() bool { return field(d, shiftWallpaper, maskWallpaper) == 1 }

// Integral reports the integral-image flag.
func (d Descriptor) Integral() bool { return field(d, shiftIntegral, maskIntegral) == 1 }

// HogFlags returns the raw 2-bit HoG flag field.
func (d Descriptor) HogFlags() int { return int(field(d, shiftHog, maskHog)) }

// Hog reports whether any HoG flag is set.
func (d Descriptor) Hog() bool { return d.HogFlags() != 0 }

// Bayer reports whether the descriptor represents raw mosaic sensor
// data rather than demosaiced RGB/YUV.
func (d Descriptor) Bayer() bool { return field(d, shiftBayer, maskBayer) == 1 }

// YUV reports 3-channel, non-bayer, subsampled-or-444 chroma data.
func (d Descriptor) YUV() bool { return !d.Bayer() && d.Channels() == 3 }

// RGB reports 3-channel, non-bayer 4:4:4 colour data (for RGB the
// chroma-sampling field is meaningless and conventionally left at
// Chroma444). The descriptor has no field that tells RGB from YUV 4:4:4,
// so every descriptor for which RGB is true also reports YUV.
func (d Descriptor) RGB() bool { return d.YUV() && d.ChromaCode() == Chroma444 }

// Validate checks the cross-field invariants from spec.md §3:
// compressed ⇒ 8bps; 4:2:0/4:2:2 ⇒ even width; 4:2:0 ⇒ even height.
// width/height are the image dimensions the descriptor will be paired
// with.
func (d Descriptor) Validate(width, height uint32) error {
	if d.Compressed() && d.BitsPerSample() != 8 {
		return fmt.Errorf("format: compressed descriptor must be 8 bits per sample, got %d", d.BitsPerSample())
	}
	if (d.Chroma420() || d.Chroma422()) && width%2 != 0 {
		return fmt.Errorf("format: 4:2:0/4:2:2 descriptor requires even width, got %d", width)
	}
	if d.Chroma420() && height%2 != 0 {
		return fmt.Errorf("format: 4:2:0 descriptor requires even height, got %d", height)
	}
	return nil
}

// NumPlanes returns the number of distinct memory planes the format
// occupies: 1, 2 or 3.
func (d Descriptor) NumPlanes() int {
	if d.Channels() == 1 {
		return 1
	}
	switch d.PlanarityCode() {
	case Interleaved:
		return 1
	case SemiPlanar:
		return 2
	default: // Planar
		return 3
	}
}
