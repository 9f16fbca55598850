/*
NAME
  calc.go

DESCRIPTION
  calc.go implements the pure byte-offset, stride and plane-size
  calculus over a Descriptor and an ImageFormatConfig (spec.md §4.2).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package format

import (
	"fmt"
	"math"
)

// wallpaperRollBytes is the fixed width of a wallpaper "roll" per
// spec.md §4.2/§9.
const wallpaperRollBytes = 128

// PreferredAlign is the preferred (not mandatory) stride alignment per
// spec.md §3.
const PreferredAlign = 64

// MinAlign is the mandatory minimum stride alignment for non-wallpaper
// formats per spec.md §3.
const MinAlign = 16

// ImageFormatConfig is {width, height, format, stride, stride2} from
// spec.md §3.
type ImageFormatConfig struct {
	Width   uint32
	Height  uint32
	Format  Descriptor
	Stride  uint32
	Stride2 uint32
}

// ComputeXOffset returns the byte offset of column x within a row of
// the given format, branching on HoG, integral, bit depth, and
// interleaved-three-channel sampling exactly as spec.md §4.2 describes.
func ComputeXOffset(f Descriptor, x uint32) uint32 {
	switch {
	case f.Hog():
		// HoG cell descriptors are fixed 32-bit (4 byte) records.
		return x * 4
	case f.Integral():
		// Integral-image accumulators are always 32-bit.
		return x * 4
	}

	bytesPerSample := bytesPerSampleFor(f.BitsPerSample())

	if f.Interleaved() && f.Channels() == 3 {
		switch f.ChromaCode() {
		case Chroma422:
			return x * bytesPerSample * 2
		case Chroma444:
			return x * bytesPerSample * 3
		default:
			// 4:2:0 interleaved three-channel is not a representable
			// layout (4:2:0 requires separate or semi-planar chroma);
			// treat the same as 4:2:2 packing width for safety.
			return x * bytesPerSample * 2
		}
	}

	return x * bytesPerSample
}

// bytesPerSampleFor rounds a bit depth up to whole bytes: 8bps => 1,
// 10/12/16bps => 2.
func bytesPerSampleFor(bps int) uint32 {
	if bps <= 8 {
		return 1
	}
	return 2
}

// minStrideBytes returns the minimum stride in bytes required to hold
// one row of width pixels in format f, before alignment.
func minStrideBytes(f Descriptor, width uint32) uint32 {
	if f.Wallpaper() {
		return wallpaperRollBytes
	}
	return ComputeXOffset(f, width)
}

// ComputeStrideAlign sets c.Stride and c.Stride2 following spec.md
// §4.2: the smallest values >= the computed width-in-bytes and aligned
// to align; wallpaper sets stride = height*128; semi-planar 4:2:0/4:2:2
// sets stride2 = stride; fully planar 4:2:0/4:2:2 sets stride2 =
// stride/2; preserveSubsampleRatio then enforces stride = 2*stride2.
func ComputeStrideAlign(c *ImageFormatConfig, align uint32, preserveSubsampleRatio bool) error {
	if align == 0 {
		return fmt.Errorf("format: alignment must be non-zero")
	}

	f := c.Format
	if f.Wallpaper() {
		if c.Height == 0 {
			return fmt.Errorf("format: wallpaper stride requires non-zero height")
		}
		c.Stride = c.Height * wallpaperRollBytes
	} else {
		min := minStrideBytes(f, c.Width)
		c.Stride = alignUpU32(min, align)
	}

	switch {
	case f.SemiPlanar() && (f.Chroma420() || f.Chroma422()):
		c.Stride2 = c.Stride
	case f.FullyPlanar() && (f.Chroma420() || f.Chroma422()):
		c.Stride2 = c.Stride / 2
	default:
		c.Stride2 = 0
	}

	if preserveSubsampleRatio && c.Stride2 != 0 {
		c.Stride = 2 * c.Stride2
	}

	return nil
}

func alignUpU32(v, align uint32) uint32 {
	r := v % align
	if r == 0 {
		return v
	}
	return v + (align - r)
}

// ComputeAddrOffset returns the byte offsets of the first plane and,
// when applicable, the second and third (chroma) planes for column x,
// row y, handling wallpaper's roll geometry, 4:2:0 vertical subsampling
// and planar-non-444 horizontal subsampling (spec.md §4.2).
func ComputeAddrOffset(c ImageFormatConfig, x, y uint32) (off0, off1, off2 uint32, err error) {
	f := c.Format

	if f.Wallpaper() {
		if f.BitsPerSample() == 10 && (x%3) != 0 {
			return 0, 0, 0, fmt.Errorf("format: wallpaper 10-bit column offset %d must be a multiple of 3", x)
		}
		roll := x / (wallpaperRollBytes / bytesPerSampleFor(f.BitsPerSample()))
		off0 = roll*c.Stride + y*wallpaperRollBytes
		return off0, 0, 0, nil
	}

	off0 = y*c.Stride + ComputeXOffset(f, x)

	if f.Channels() == 1 || f.Interleaved() {
		return off0, 0, 0, nil
	}

	cx, cy := x, y
	if !f.Chroma444() {
		cx = x / 2
	}
	if f.Chroma420() {
		cy = y / 2
	}

	switch {
	case f.SemiPlanar():
		off1 = c.Height*c.Stride + cy*c.Stride2 + ComputeXOffset(f, cx)*2
		return off0, off1, 0, nil
	case f.FullyPlanar():
		chromaPlaneHeight := c.Height
		if f.Chroma420() {
			chromaPlaneHeight = c.Height / 2
		}
		off1 = c.Height*c.Stride + cy*c.Stride2 + ComputeXOffset(f, cx)
		off2 = c.Height*c.Stride + chromaPlaneHeight*c.Stride2 + cy*c.Stride2 + ComputeXOffset(f, cx)
		return off0, off1, off2, nil
	default:
		return off0, 0, 0, nil
	}
}

// GetPlaneSize returns the byte size of the given plane index (0-based)
// of an image described by c: height * stride with 4:2:0 halving for
// chroma, or rolls*stride for wallpaper. An overflow (the computed size
// would be >= 2^32) is returned as an error: the caller must report it,
// not silently accept a wrapped value (spec.md §4.2, §7).
func GetPlaneSize(c ImageFormatConfig, plane int) (uint64, error) {
	f := c.Format
	if plane < 0 || plane >= f.NumPlanes() {
		return 0, fmt.Errorf("format: plane index %d out of range for %d planes", plane, f.NumPlanes())
	}

	var size uint64
	if f.Wallpaper() {
		if c.Stride == 0 {
			return 0, fmt.Errorf("format: wallpaper plane size requires non-zero stride")
		}
		rolls := uint64(c.Width) / (uint64(wallpaperRollBytes) / uint64(bytesPerSampleFor(f.BitsPerSample())))
		if rolls == 0 {
			rolls = 1
		}
		size = rolls * uint64(c.Stride)
	} else if plane == 0 {
		size = uint64(c.Height) * uint64(c.Stride)
	} else {
		h := uint64(c.Height)
		if f.Chroma420() {
			h /= 2
		}
		stride := uint64(c.Stride2)
		if f.SemiPlanar() {
			size = h * stride
		} else { // fully planar: each chroma plane is half-width already
			size = h * stride
		}
	}

	if size >= (uint64(1) << 32) {
		return 0, fmt.Errorf("format: plane %d size %d overflows 32 bits", plane, size)
	}
	return size, nil
}

// clampU32 clips v into [lo, hi].
func clampU32(v, lo, hi uint32) uint32 {
	return uint32(math.Min(math.Max(float64(v), float64(lo)), float64(hi)))
}
