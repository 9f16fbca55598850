/*
NAME
  format_test.go

DESCRIPTION
  format_test.go tests the packed Descriptor predicates and the
  stride/offset/plane size calculus of calc.go and the name table of
  table.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package format

import "testing"

func TestPredicatesNV12(t *testing.T) {
	d := NV12
	if !d.SemiPlanar() {
		t.Fatal("NV12 should be semi-planar")
	}
	if !d.Chroma420() {
		t.Fatal("NV12 should be 4:2:0")
	}
	if d.NumPlanes() != 2 {
		t.Fatalf("NV12 NumPlanes = %d, want 2", d.NumPlanes())
	}
}

func TestPredicatesYUV444P(t *testing.T) {
	d := YUV444P
	if !d.FullyPlanar() || !d.Chroma444() {
		t.Fatal("YUV444P should be fully planar 4:4:4")
	}
	if d.NumPlanes() != 3 {
		t.Fatalf("YUV444P NumPlanes = %d, want 3", d.NumPlanes())
	}
}

func TestPredicatesBayer(t *testing.T) {
	d := BAYER16
	if !d.Bayer() {
		t.Fatal("BAYER16 should be bayer")
	}
	if d.BitsPerSample() != 16 {
		t.Fatalf("BAYER16 bps = %d, want 16", d.BitsPerSample())
	}
}

func TestValidateCompressedRequires8BPS(t *testing.T) {
	d := NewDescriptor(true, false, BPS16, Planar, Chroma420, false, CompressMode1, false, false, 0)
	if err := d.Validate(1920, 1080); err == nil {
		t.Fatal("expected error: compressed format at 16bps")
	}
}

func TestValidateChromaEvenDims(t *testing.T) {
	d := YUV420P
	if err := d.Validate(1921, 1080); err == nil {
		t.Fatal("expected error: odd width for 4:2:0")
	}
	if err := d.Validate(1920, 1081); err == nil {
		t.Fatal("expected error: odd height for 4:2:0")
	}
	if err := d.Validate(1920, 1080); err != nil {
		t.Fatalf("unexpected error for valid 4:2:0 dims: %v", err)
	}
}

func TestComputeStrideAlignYUV420P(t *testing.T) {
	c := ImageFormatConfig{Width: 1920, Height: 1080, Format: YUV420P}
	if err := ComputeStrideAlign(&c, PreferredAlign, false); err != nil {
		t.Fatalf("ComputeStrideAlign: %v", err)
	}
	if c.Stride != 1920 {
		t.Fatalf("Stride = %d, want 1920 (already 64-aligned)", c.Stride)
	}
	if c.Stride2 != c.Stride/2 {
		t.Fatalf("Stride2 = %d, want %d", c.Stride2, c.Stride/2)
	}
}

func TestComputeStrideAlignIdempotent(t *testing.T) {
	c := ImageFormatConfig{Width: 1001, Height: 480, Format: RGB888}
	if err := ComputeStrideAlign(&c, PreferredAlign, false); err != nil {
		t.Fatalf("ComputeStrideAlign: %v", err)
	}
	first := c
	if err := ComputeStrideAlign(&c, PreferredAlign, false); err != nil {
		t.Fatalf("second ComputeStrideAlign: %v", err)
	}
	if c != first {
		t.Fatalf("ComputeStrideAlign not idempotent: %+v != %+v", c, first)
	}
}

func TestComputeStrideAlignWallpaper(t *testing.T) {
	d := NewDescriptor(false, true, BPS16, Interleaved, Chroma444, false, CompressNone, true, false, 0)
	c := ImageFormatConfig{Width: 1920, Height: 1080, Format: d}
	if err := ComputeStrideAlign(&c, PreferredAlign, false); err != nil {
		t.Fatalf("ComputeStrideAlign: %v", err)
	}
	if c.Stride%128 != 0 {
		t.Fatalf("wallpaper stride %d not divisible by 128", c.Stride)
	}
	if c.Stride != c.Height*128 {
		t.Fatalf("wallpaper stride = %d, want height*128 = %d", c.Stride, c.Height*128)
	}
}

func TestGetPlaneSizeOverflow(t *testing.T) {
	c := ImageFormatConfig{Width: 1 << 20, Height: 1 << 20, Format: RGB888, Stride: 1 << 20}
	if _, err := GetPlaneSize(c, 0); err == nil {
		t.Fatal("expected overflow error for huge plane size")
	}
}

func TestComputeAddrOffsetChromaHalfStride(t *testing.T) {
	c := ImageFormatConfig{Width: 1280, Height: 720, Format: YUV420P}
	if err := ComputeStrideAlign(&c, PreferredAlign, false); err != nil {
		t.Fatalf("ComputeStrideAlign: %v", err)
	}
	if c.Stride2 != c.Stride/2 {
		t.Fatalf("chroma Stride2 = %d, want half of Stride %d", c.Stride2, c.Stride)
	}
	_, off1, off2, err := ComputeAddrOffset(c, 0, 0)
	if err != nil {
		t.Fatalf("ComputeAddrOffset: %v", err)
	}
	if off1 == 0 || off2 == 0 {
		t.Fatalf("expected non-zero chroma plane offsets, got off1=%d off2=%d", off1, off2)
	}
}

func TestByNameRoundTrip(t *testing.T) {
	d, err := ByName("NV12")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if d != NV12 {
		t.Fatalf("ByName(\"NV12\") = %v, want NV12", d)
	}
	name, ok := Name(NV12)
	if !ok || name != "NV12" {
		t.Fatalf("Name(NV12) = %q, %v", name, ok)
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("NOT_A_FORMAT"); err == nil {
		t.Fatal("expected error for unknown format name")
	}
}
