/*
NAME
  finalise_test.go

DESCRIPTION
  finalise_test.go tests the consistency check and per-block
  finalisation logic of finalise.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import "testing"

// TestFinaliseGridComputesStepAndRejectsOverflow covers spec.md §4.5.2's
// LSC/CAC grid step formula and its overflow check.
func TestFinaliseGridComputesStepAndRejectsOverflow(t *testing.T) {
	g := GridConfig{CellSize: [2]uint16{32, 32}}
	if err := finaliseGrid(&g, 1920, 1080); err != nil {
		t.Fatalf("finaliseGrid: %v", err)
	}
	if g.GridStep[0] == 0 || g.GridStep[1] == 0 {
		t.Errorf("GridStep = %v, want non-zero", g.GridStep)
	}
	if g.StepPrecision != gridStepPrecision {
		t.Errorf("StepPrecision = %d, want %d", g.StepPrecision, gridStepPrecision)
	}
}

// TestFinaliseStitchRoundsReciprocalUp covers spec.md §9's explicit
// rounding-direction decision: (256 + t - 1) / t, biased up by one unit
// versus the naive reciprocal.
func TestFinaliseStitchRoundsReciprocalUp(t *testing.T) {
	s := StitchConfig{MotionThreshold: 7}
	finaliseStitch(&s)

	naive := uint16(256 / 7)
	if s.MotionThresholdRecip <= naive {
		t.Errorf("MotionThresholdRecip = %d, want > naive reciprocal %d", s.MotionThresholdRecip, naive)
	}
	want := uint16((256 + 7 - 1) / 7)
	if s.MotionThresholdRecip != want {
		t.Errorf("MotionThresholdRecip = %d, want %d", s.MotionThresholdRecip, want)
	}
}

// TestFinaliseStitchLeavesExplicitReciprocalAlone ensures finalisation
// is idempotent when the caller already supplied a reciprocal.
func TestFinaliseStitchLeavesExplicitReciprocalAlone(t *testing.T) {
	s := StitchConfig{MotionThreshold: 7, MotionThresholdRecip: 99}
	finaliseStitch(&s)
	if s.MotionThresholdRecip != 99 {
		t.Errorf("MotionThresholdRecip = %d, want unchanged 99", s.MotionThresholdRecip)
	}
}

// TestValidateTDNRequiresInputOrReset covers the TDN legality rule of
// spec.md §4.5.2.
func TestValidateTDNRequiresInputOrReset(t *testing.T) {
	if err := validateTDN(TDNConfig{}); err != ErrTDNConfig {
		t.Errorf("validateTDN(zero) = %v, want ErrTDNConfig", err)
	}
	if err := validateTDN(TDNConfig{Reset: true}); err != nil {
		t.Errorf("validateTDN(reset) = %v, want nil", err)
	}
	if err := validateTDN(TDNConfig{InputEnable: true}); err != nil {
		t.Errorf("validateTDN(input enabled) = %v, want nil", err)
	}
}

// TestFinaliseDownscaleRejectsOutOfRangeFactor covers spec.md §4.5.2's
// downscale range check: {unity} U [2,8].
func TestFinaliseDownscaleRejectsOutOfRangeFactor(t *testing.T) {
	var cfg Config
	cfg.Input.Width = 1000
	cfg.Input.Height = 1000
	cfg.Branches[0].Downscale = DownscaleConfig{ScaledWidth: 900, ScaledHeight: 900} // ~1.1x, illegal.

	if err := finaliseDownscale(&cfg, 0); err != ErrScaleFactorRange {
		t.Errorf("finaliseDownscale() = %v, want ErrScaleFactorRange", err)
	}
}
