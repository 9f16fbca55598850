/*
NAME
  errors.go

DESCRIPTION
  errors.go declares the sentinel errors for the invariant violations
  spec.md §7 says are fatal for the current Prepare call and never
  retried.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import "github.com/pkg/errors"

var (
	// ErrInputDomain is returned when Prepare's consistency check finds
	// zero or both of bayer/rgb input enabled (spec.md §4.5 step 1).
	ErrInputDomain = errors.New("backend: exactly one of bayer or rgb input must be enabled")

	// ErrNoOutput is returned when no output branch is enabled.
	ErrNoOutput = errors.New("backend: at least one output branch must be enabled")

	// ErrScaleFactorRange is returned when a downscale or resample scale
	// factor falls outside its legal range (spec.md §4.3, §4.5.2).
	ErrScaleFactorRange = errors.New("backend: scale factor out of range")

	// ErrCompressedFormat is returned when an output format requests
	// compression at a bit depth other than 8bps. The back-end models no
	// compression block, so no check pairs a compressed output format
	// with a compression-block enable bit.
	ErrCompressedFormat = errors.New("backend: compressed output requires 8bps")

	// ErrTDNConfig is returned when TDN is enabled but its input is
	// neither enabled nor reset (spec.md §4.5.2).
	ErrTDNConfig = errors.New("backend: tdn enabled requires tdn input enabled or tdn.reset set")

	// ErrGridOverflow is returned when an LSC/CAC grid step configuration
	// would overflow the hardware's grid addressing range (spec.md
	// §4.5.2).
	ErrGridOverflow = errors.New("backend: lsc/cac grid step configuration overflows addressable range")

	// ErrPlaneOverflow is returned (wrapped) when a finalised output
	// image plane would be >= 2^32 bytes (spec.md §4.2, §7).
	ErrPlaneOverflow = errors.New("backend: image plane size overflows 32 bits")

	// ErrPhaseDisagreement is returned when two planes' resample phases
	// for the same branch disagree by more than half a pixel on the
	// output dimension (spec.md §4.5.4).
	ErrPhaseDisagreement = errors.New("backend: per-plane resample phase disagreement exceeds half a pixel")

	// ErrWallpaperColumn names the rule that a 10-bit wallpaper column
	// offset must be a multiple of 3 (spec.md §9). No code path in this
	// package returns it: Prepare reports a violation through the
	// wrapped error of format.ComputeAddrOffset instead.
	ErrWallpaperColumn = errors.New("backend: wallpaper column offset must be a multiple of 3 for 10-bit data")
)
