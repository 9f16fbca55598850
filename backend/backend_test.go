/*
NAME
  backend_test.go

DESCRIPTION
  backend_test.go tests BackEnd's setters and Prepare's six-step
  pipeline end to end, against the scenarios of spec.md §8.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"testing"

	"github.com/ausocean/pisp/format"
	"github.com/ausocean/pisp/logx"
)

func yuv420Format(w, h uint32) format.ImageFormatConfig {
	return format.ImageFormatConfig{
		Width: w, Height: h,
		Format: format.NewDescriptor(true, false, format.BPS8, format.Planar, format.Chroma420, false, format.CompressNone, false, false, 0),
	}
}

func bayerRawFormat(w, h uint32) format.ImageFormatConfig {
	return format.ImageFormatConfig{
		Width: w, Height: h,
		Format: format.NewDescriptor(false, true, format.BPS8, format.Interleaved, format.Chroma444, false, format.CompressNone, false, false, 0),
	}
}

func newSingleBranchBayer(t *testing.T, inW, inH uint32) *BackEnd {
	t.Helper()
	be := New(logx.NoOp())
	if err := be.SetInputFormat(bayerRawFormat(inW, inH)); err != nil {
		t.Fatalf("SetInputFormat: %v", err)
	}
	if err := be.SetBayerInputEnabled(true); err != nil {
		t.Fatalf("SetBayerInputEnabled: %v", err)
	}
	if err := be.SetBranchOutputFormat(0, OutputFormatConfig{Image: yuv420Format(inW, inH)}, true); err != nil {
		t.Fatalf("SetBranchOutputFormat: %v", err)
	}
	return be
}

// TestPrepareRejectsNoInputDomain covers spec.md §4.5 step 1: neither
// bayer nor rgb input enabled is a fatal consistency error.
func TestPrepareRejectsNoInputDomain(t *testing.T) {
	be := New(logx.NoOp())
	be.SetInputFormat(yuv420Format(64, 64))
	be.SetBranchOutputFormat(0, OutputFormatConfig{Image: yuv420Format(64, 64)}, true)

	if _, err := be.Prepare(); err != ErrInputDomain {
		t.Fatalf("Prepare() error = %v, want ErrInputDomain", err)
	}
}

// TestPrepareRejectsNoOutput covers the "at least one output branch"
// half of the same consistency check.
func TestPrepareRejectsNoOutput(t *testing.T) {
	be := New(logx.NoOp())
	be.SetInputFormat(bayerRawFormat(64, 64))
	be.SetBayerInputEnabled(true)

	if _, err := be.Prepare(); err != ErrNoOutput {
		t.Fatalf("Prepare() error = %v, want ErrNoOutput", err)
	}
}

// TestPrepareExactDownscale covers scenario 2 of spec.md §8: a 4096x2160
// input downscaled exactly 4x to 1024x540 with resample off.
func TestPrepareExactDownscale(t *testing.T) {
	be := newSingleBranchBayer(t, 4096, 2160)
	if err := be.SetBranchDownscale(0, DownscaleConfig{ScaledWidth: 1024, ScaledHeight: 540}, true); err != nil {
		t.Fatalf("SetBranchDownscale: %v", err)
	}

	tiles, err := be.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	ds := tiles.Config.Branches[0].Downscale
	if ds.ScaleFactor[0] != unity*4 || ds.ScaleFactor[1] != unity*4 {
		t.Errorf("ScaleFactor = %v, want {%d,%d}", ds.ScaleFactor, unity*4, unity*4)
	}
	wantRecip := uint32(unity / 4)
	if ds.ScaleFactorRecip[0] != wantRecip || ds.ScaleFactorRecip[1] != wantRecip {
		t.Errorf("ScaleFactorRecip = %v, want {%d,%d}", ds.ScaleFactorRecip, wantRecip, wantRecip)
	}
	if tiles.Config.Branches[0].Output.Image.Stride%64 != 0 {
		t.Errorf("output stride %d not 64-byte aligned", tiles.Config.Branches[0].Output.Image.Stride)
	}
	if tiles.NumTiles == 0 {
		t.Fatal("expected at least one tile")
	}
}

// TestPrepareTDNResetWithoutInput covers scenario 5: tdn.reset true
// permits tdn input disabled, and every tile's tdn_input_addr_offset is
// populated consistently (zero, since no tdn-specific addressing
// beyond the shared input offset is modelled).
func TestPrepareTDNResetWithoutInput(t *testing.T) {
	be := newSingleBranchBayer(t, 640, 480)
	if err := be.SetTDN(TDNConfig{Reset: true}); err != nil {
		t.Fatalf("SetTDN: %v", err)
	}

	tiles, err := be.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if tiles.NumTiles == 0 {
		t.Fatal("expected at least one tile")
	}
	for i := 0; i < tiles.NumTiles; i++ {
		if off := tiles.Tiles[i].TDNInputAddrOffset; off != 0 {
			t.Errorf("tile %d tdn_input_addr_offset = %d, want 0", i, off)
		}
	}
}

// TestPrepareTDNEnabledWithoutInputOrReset covers the TDN legality
// rule's failure path.
func TestPrepareTDNEnabledWithoutInputOrReset(t *testing.T) {
	be := newSingleBranchBayer(t, 640, 480)
	if err := be.SetTDN(TDNConfig{Strength: 10}); err != nil {
		t.Fatalf("SetTDN: %v", err)
	}

	if _, err := be.Prepare(); err != ErrTDNConfig {
		t.Fatalf("Prepare() error = %v, want ErrTDNConfig", err)
	}
}

// TestPrepareIsIdempotentWithoutChanges checks at the BackEnd level that
// calling Prepare twice with no intervening setter calls leaves the
// tile count unchanged.
func TestPrepareIsIdempotentWithoutChanges(t *testing.T) {
	be := newSingleBranchBayer(t, 640, 480)

	first, err := be.Prepare()
	if err != nil {
		t.Fatalf("first Prepare: %v", err)
	}
	second, err := be.Prepare()
	if err != nil {
		t.Fatalf("second Prepare: %v", err)
	}
	if first.NumTiles != second.NumTiles {
		t.Errorf("NumTiles changed across idempotent Prepare calls: %d vs %d", first.NumTiles, second.NumTiles)
	}
}

// TestPrepareHorizontalFlip covers scenario 3 with HFLIP set: every
// active tile's flipped output_offset_x + output_width stays within the
// output image width.
func TestPrepareHorizontalFlip(t *testing.T) {
	be := New(logx.NoOp())
	be.SetInputFormat(bayerRawFormat(1920, 1080))
	be.SetBayerInputEnabled(true)

	out := yuv420Format(960, 540)
	if err := be.SetBranchOutputFormat(0, OutputFormatConfig{Image: out, HFlip: true}, true); err != nil {
		t.Fatalf("SetBranchOutputFormat: %v", err)
	}
	if err := be.SetBranchResample(0, ResampleConfig{ScaledWidth: 960, ScaledHeight: 540}, true); err != nil {
		t.Fatalf("SetBranchResample: %v", err)
	}

	tiles, err := be.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	for i := 0; i < tiles.NumTiles; i++ {
		bt := tiles.Tiles[i].Branches[0]
		if bt.Inactive {
			continue
		}
		if bt.OutputOffsetX+bt.OutputW > 960 {
			t.Errorf("tile %d: flipped offset+width %d exceeds image width 960", i, bt.OutputOffsetX+bt.OutputW)
		}
	}
}

// TestPrepareVerticalFlip covers spec.md §4.4's VFLIP addressing quirk,
// which is deliberately not shaped like HFLIP's width-relative formula:
// output_offset_y = image_height - unflipped_offset_y - 1.
func TestPrepareVerticalFlip(t *testing.T) {
	build := func(vflip bool) TilesConfig {
		be := New(logx.NoOp())
		be.SetInputFormat(bayerRawFormat(1920, 1080))
		be.SetBayerInputEnabled(true)
		out := yuv420Format(960, 540)
		if err := be.SetBranchOutputFormat(0, OutputFormatConfig{Image: out, VFlip: vflip}, true); err != nil {
			t.Fatalf("SetBranchOutputFormat: %v", err)
		}
		if err := be.SetBranchResample(0, ResampleConfig{ScaledWidth: 960, ScaledHeight: 540}, true); err != nil {
			t.Fatalf("SetBranchResample: %v", err)
		}
		tiles, err := be.Prepare()
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		return tiles
	}

	unflipped := build(false)
	flipped := build(true)
	if unflipped.NumTiles != flipped.NumTiles {
		t.Fatalf("NumTiles differ: %d vs %d", unflipped.NumTiles, flipped.NumTiles)
	}
	for i := 0; i < unflipped.NumTiles; i++ {
		u := unflipped.Tiles[i].Branches[0]
		f := flipped.Tiles[i].Branches[0]
		if u.Inactive || f.Inactive {
			continue
		}
		want := uint32(540) - u.OutputOffsetY - 1
		if f.OutputOffsetY != want {
			t.Errorf("tile %d: flipped OutputOffsetY = %d, want %d (height - %d - 1)", i, f.OutputOffsetY, want, u.OutputOffsetY)
		}
	}
}
