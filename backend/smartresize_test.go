/*
NAME
  smartresize_test.go

DESCRIPTION
  smartresize_test.go tests the smart-resize downscale/resample split
  and filter synthesis logic of smartresize.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import "testing"

// TestTrapezoidalFilterPhasesSumToUnity covers spec.md §4.5.1's
// trapezoidal synthesis: every phase's six taps renormalise to sum to
// one (within fixed-point rounding).
func TestTrapezoidalFilterPhasesSumToUnity(t *testing.T) {
	f := trapezoidalFilter(unity * 4) // 4x downscale.
	for p := 0; p < numPhases; p++ {
		var sum int32
		for tap := 0; tap < sixTaps; tap++ {
			sum += int32(f[p*sixTaps+tap])
		}
		if diff := sum - unity; diff < -4 || diff > 4 {
			t.Errorf("phase %d taps sum to %d, want ~%d", p, sum, unity)
		}
	}
}

// TestLanczosFilterCentreTapDominates is a sanity check that a
// near-unity scale factor's bilinear-equivalent kernel peaks at the
// phase-0 centre tap rather than synthesising a degenerate all-zero
// kernel.
func TestLanczosFilterCentreTapDominates(t *testing.T) {
	f := lanczosFilter(1)
	var sum int32
	for tap := 0; tap < sixTaps; tap++ {
		sum += int32(f[tap])
	}
	if diff := sum - unity; diff < -4 || diff > 4 {
		t.Errorf("phase 0 taps sum to %d, want ~%d", sum, unity)
	}
	const centre = 2 // tap at x == 0 for phase 0.
	for tap := 0; tap < sixTaps; tap++ {
		if f[tap] > f[centre] {
			t.Errorf("phase 0 tap %d = %d exceeds centre tap %d = %d", tap, f[tap], centre, f[centre])
		}
	}
}

// TestResolveSmartResizeSplitsLargeReduction covers spec.md §4.5.1's
// >2x split: a branch requesting a roughly 12.7x per-axis reduction
// should enable both downscale (clamped to [2,8]) and a resample
// remainder.
func TestResolveSmartResizeSplitsLargeReduction(t *testing.T) {
	var cfg Config
	cfg.Input.Width = 4056
	cfg.Input.Height = 3040
	cfg.Branches[0].SmartResize = SmartResizeRequest{Active: true, Width: 320, Height: 240}

	resolveSmartResize(&cfg, 0)

	br := cfg.Branches[0]
	if !br.Enable.Downscale {
		t.Fatal("expected downscale enabled for >2x reduction")
	}
	factor := br.Downscale.ScaleFactor[0] / unity
	if factor < 2 || factor > 8 {
		t.Errorf("downscale factor %d outside [2,8]", factor)
	}
	if !br.Enable.Resample {
		t.Fatal("expected resample enabled for the remainder after downscale")
	}
}

// TestResolveSmartResizeNoDownscaleForModestReduction covers the
// <=2x branch: the downscaler should stay disabled and resample alone
// should reach the target.
func TestResolveSmartResizeNoDownscaleForModestReduction(t *testing.T) {
	var cfg Config
	cfg.Input.Width = 1920
	cfg.Input.Height = 1080
	cfg.Branches[0].SmartResize = SmartResizeRequest{Active: true, Width: 1280, Height: 720}

	resolveSmartResize(&cfg, 0)

	br := cfg.Branches[0]
	if br.Enable.Downscale {
		t.Fatal("expected downscale disabled for a <2x reduction")
	}
	if !br.Enable.Resample {
		t.Fatal("expected resample enabled to reach the target size")
	}
}
