/*
NAME
  table.go

DESCRIPTION
  table.go provides the string <-> Descriptor lookup table from
  spec.md §4.2, covering the named pixel formats the back-end
  front-ends are expected to hand in.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package format

import "fmt"

// Named formats, built with NewDescriptor so that the bit layout stays
// centralised in descriptor.go.
var (
	YUV420P   = NewDescriptor(true, false, BPS8, Planar, Chroma420, false, CompressNone, false, false, 0)
	YUV422P   = NewDescriptor(true, false, BPS8, Planar, Chroma422, false, CompressNone, false, false, 0)
	YUV444P   = NewDescriptor(true, false, BPS8, Planar, Chroma444, false, CompressNone, false, false, 0)
	NV12      = NewDescriptor(true, false, BPS8, SemiPlanar, Chroma420, false, CompressNone, false, false, 0)
	NV21      = NewDescriptor(true, false, BPS8, SemiPlanar, Chroma420, true, CompressNone, false, false, 0)
	YUYV      = NewDescriptor(true, false, BPS8, Interleaved, Chroma422, false, CompressNone, false, false, 0)
	UYVY      = NewDescriptor(true, false, BPS8, Interleaved, Chroma422, true, CompressNone, false, false, 0)
	NV16      = NewDescriptor(true, false, BPS8, SemiPlanar, Chroma422, false, CompressNone, false, false, 0)
	NV61      = NewDescriptor(true, false, BPS8, SemiPlanar, Chroma422, true, CompressNone, false, false, 0)
	RGB888    = NewDescriptor(true, false, BPS8, Interleaved, Chroma444, false, CompressNone, false, false, 0)
	RGBX8888  = NewDescriptor(true, false, BPS8, Interleaved, Chroma444, false, CompressNone, false, false, 0)
	RGB161616 = NewDescriptor(true, false, BPS16, Interleaved, Chroma444, false, CompressNone, false, false, 0)
	BAYER16   = NewDescriptor(false, true, BPS16, Interleaved, Chroma444, false, CompressNone, false, false, 0)

	// Compression-mode sentinels: valid descriptors in their own right
	// (8bps, compressed), used by callers that want a format value that
	// signals "compressed bayer" / "compressed YUV420" without spelling
	// out every other field.
	CompressedBayer = NewDescriptor(false, true, BPS8, Interleaved, Chroma444, false, CompressMode1, false, false, 0)
	CompressedYUV   = NewDescriptor(true, false, BPS8, Planar, Chroma420, false, CompressMode1, false, false, 0)
)

var byName = map[string]Descriptor{
	"YUV420P":         YUV420P,
	"YUV422P":         YUV422P,
	"YUV444P":         YUV444P,
	"NV12":            NV12,
	"NV21":            NV21,
	"YUYV":            YUYV,
	"UYVY":            UYVY,
	"NV16":            NV16,
	"NV61":            NV61,
	"RGB888":          RGB888,
	"RGBX8888":        RGBX8888,
	"RGB161616":       RGB161616,
	"BAYER":           BAYER16,
	"COMPRESSED_BAYER": CompressedBayer,
	"COMPRESSED_YUV":   CompressedYUV,
}

var toName map[Descriptor]string

func init() {
	toName = make(map[Descriptor]string, len(byName))
	for name, d := range byName {
		toName[d] = name
	}
}

// ByName resolves a format name (e.g. "NV12") to its Descriptor.
func ByName(name string) (Descriptor, error) {
	d, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("format: unknown format name %q", name)
	}
	return d, nil
}

// Name returns a table name of a known descriptor, or false if d does
// not match any named entry exactly. Where two names share one
// descriptor value, which of them is returned is not defined.
func Name(d Descriptor) (string, bool) {
	name, ok := toName[d]
	return name, ok
}
