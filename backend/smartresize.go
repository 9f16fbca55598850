/*
NAME
  smartresize.go

DESCRIPTION
  smartresize.go implements spec.md §4.5.1: resolving a branch's
  caller-supplied {width, height} target into a downscale/resample
  split, and choosing the resample filter — either a synthesised
  trapezoidal low-pass kernel for large uniform downscales, or a named
  Lanczos/cubic kernel looked up by scale factor.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"math"

	"github.com/ausocean/pisp/stage"
)

const (
	unity = stage.UnityScale

	// numPhases is the resample polyphase filter's phase count: spec.md
	// §6 sizes each named filter asset at 96 x int16 (16 phases x six
	// taps), so NumPhases is 16, not UnityScale's 4096.
	numPhases             = 16
	sixTaps               = 6
	resampleContextPixels = 3 // half the six-tap footprint, either side.
)

// namedFilter is one entry of the default Lanczos/cubic filter table
// from spec.md §6 ("resample.filters.<name>"), keyed by the largest
// scale factor it applies to.
type namedFilter struct {
	minScale uint32 // fixed point, UnityScale == 1.0.
	name     string
	lanczosA float64
}

// defaultFilterTable is the named-filter table resolveNamedFilter
// consults; the filters of a loaded defaults asset are not looked up
// here. Entries are in ascending
// minScale order, matching spec.md §4.5.1's "first entry whose key
// scale >= requested scale".
var defaultFilterTable = []namedFilter{
	{minScale: unity / 4, name: "lanczos3_up", lanczosA: 3},
	{minScale: unity, name: "bilinear", lanczosA: 1},
	{minScale: unity * 3 / 2, name: "lanczos2", lanczosA: 2},
	{minScale: unity * 2, name: "lanczos3", lanczosA: 3},
	{minScale: unity * 16, name: "cubic", lanczosA: 3},
}

// resolveSmartResize walks every branch with an active SmartResize
// request and fills in Downscale/Resample's ScaledWidth/Height,
// ScaleFactor and (for Resample) FilterName/Filter (spec.md §4.5.1).
// Branches without an active request are left untouched.
func resolveSmartResize(cfg *Config, dirty dirtyMask) {
	for i := range cfg.Branches {
		br := &cfg.Branches[i]
		if !br.SmartResize.Active {
			continue
		}

		srcW, srcH := cropSize(cfg, i)
		// classifyX/Y use the plain src/dst ratio purely to classify the
		// requested reduction against the ">2x" threshold; the block that
		// ends up enabled computes its own exact scale factor below using
		// its own formula (downscale: plain ratio; resample: the
		// (dim-1)/(scaled-1) formula of spec.md §4.5.2).
		classifyX := downscaleFactorFixed(srcW, br.SmartResize.Width)
		classifyY := downscaleFactorFixed(srcH, br.SmartResize.Height)

		if classifyX > 2*unity || classifyY > 2*unity {
			splitSmartResize(br, srcW, srcH, classifyX, classifyY)
		} else {
			scaleX := resampleFactorFixed(srcW, br.SmartResize.Width)
			scaleY := resampleFactorFixed(srcH, br.SmartResize.Height)

			br.Enable.Downscale = false
			br.Downscale.ScaledWidth, br.Downscale.ScaledHeight = 0, 0
			br.Resample.ScaledWidth = br.SmartResize.Width
			br.Resample.ScaledHeight = br.SmartResize.Height
			br.Enable.Resample = scaleX != unity || scaleY != unity
			setResampleFilter(br, scaleX, scaleY)
		}
	}
}

// splitSmartResize handles the >2x-on-some-axis case: the downscaler
// takes at least 2x and at most 8x (rounded up) of the reduction, and
// the resampler takes the remainder (spec.md §4.5.1).
func splitSmartResize(br *BranchConfig, srcW, srcH uint32, classifyX, classifyY uint32) {
	dsFactorX := clampDownscaleFactor(classifyX)
	dsFactorY := clampDownscaleFactor(classifyY)

	br.Downscale.ScaledWidth = srcW / dsFactorX
	br.Downscale.ScaledHeight = srcH / dsFactorY
	br.Downscale.ScaleFactor = [2]uint32{
		downscaleFactorFixed(srcW, br.Downscale.ScaledWidth),
		downscaleFactorFixed(srcH, br.Downscale.ScaledHeight),
	}
	br.Enable.Downscale = true

	br.Resample.ScaledWidth = br.SmartResize.Width
	br.Resample.ScaledHeight = br.SmartResize.Height

	remX := resampleFactorFixed(br.Downscale.ScaledWidth, br.SmartResize.Width)
	remY := resampleFactorFixed(br.Downscale.ScaledHeight, br.SmartResize.Height)
	br.Enable.Resample = remX != unity || remY != unity
	setResampleFilter(br, remX, remY)
}

// clampDownscaleFactor rounds a fixed-point scale factor up to the
// nearest integer downscale ratio, clamped to the hardware's [2,8]
// range (spec.md §4.3, §4.5.1).
func clampDownscaleFactor(scale uint32) uint32 {
	factor := (scale + unity - 1) / unity
	if factor < 2 {
		factor = 2
	}
	if factor > 8 {
		factor = 8
	}
	return factor
}

// resampleFactorFixed computes the resampler's forward (input-per-
// output) scale factor in UnityScale fixed point, per spec.md §4.5.2's
// ((dim-1)<<12)/(scaled-1); src/dst of 0 or 1 degenerate to unity so
// callers never divide by zero.
func resampleFactorFixed(src, dst uint32) uint32 {
	if dst <= 1 || src <= 1 {
		return unity
	}
	return uint32((uint64(src-1) << 12) / uint64(dst-1))
}

// downscaleFactorFixed computes the downscaler's forward scale factor
// as a plain src/dst ratio in UnityScale fixed point (spec.md §4.5.2
// gives no special-cased formula for downscale, unlike resample's
// pixel-centre-aligned one); dst of 0 degenerates to unity.
func downscaleFactorFixed(src, dst uint32) uint32 {
	if dst == 0 {
		return unity
	}
	return uint32((uint64(src) << 12) / uint64(dst))
}

// setResampleFilter picks between the synthesised trapezoidal low-pass
// filter (for large, near-uniform downscales) and a named table lookup,
// per spec.md §4.5.1's two cases, and records the forward scale factor.
func setResampleFilter(br *BranchConfig, scaleX, scaleY uint32) {
	br.Resample.ScaleFactor = [2]uint32{scaleX, scaleY}

	ratio := float64(scaleX) / float64(scaleY)
	if ratio < 1 {
		ratio = 1 / ratio
	}
	big := scaleX > unity*21/10 && scaleY > unity*21/10 && ratio < 1.1

	if big {
		br.Resample.FilterName = "trapezoidal"
		br.Resample.Filter = trapezoidalFilter(scaleX)
		return
	}

	f := resolveNamedFilter(scaleX)
	br.Resample.FilterName = f.name
	br.Resample.Filter = lanczosFilter(f.lanczosA)
}

func resolveNamedFilter(scale uint32) namedFilter {
	for _, f := range defaultFilterTable {
		if f.minScale >= scale {
			return f
		}
	}
	return defaultFilterTable[len(defaultFilterTable)-1]
}

// trapezoidalFilter synthesises a six-tap, numPhases-phase trapezoidal
// low-pass kernel: per spec.md §9's Open Question, the reference
// computes `scale - 1.0 + p/NumPhases` and iteratively subtracts one
// unit of support per tap, then renormalises so each phase's taps sum
// to one. This repository's fixed-point tables are derived from that
// same float64 formula rather than re-derived in fixed point, per the
// spec's instruction to preserve bit-for-bit behaviour where possible.
func trapezoidalFilter(scaleFixed uint32) [96]int16 {
	scale := float64(scaleFixed) / float64(unity)

	var out [96]int16
	for p := 0; p < numPhases; p++ {
		remaining := scale - 1.0 + float64(p)/float64(numPhases)
		var taps [sixTaps]float64
		sum := 0.0
		for t := 0; t < sixTaps; t++ {
			v := remaining
			if v > 1 {
				v = 1
			}
			if v < 0 {
				v = 0
			}
			taps[t] = v
			sum += v
			remaining -= 1
		}
		if sum > 0 {
			for t := range taps {
				taps[t] /= sum
			}
		}
		for t := 0; t < sixTaps; t++ {
			out[p*sixTaps+t] = floatToQ12(taps[t])
		}
	}
	return out
}

// lanczosFilter synthesises a six-tap, numPhases-phase Lanczos-a
// (a==1 degenerates to linear/bilinear) kernel, used for the "otherwise
// look up a named kernel" branch of spec.md §4.5.1; coefficient tables
// from a defaults asset are not used in its place.
func lanczosFilter(a float64) [96]int16 {
	var out [96]int16
	for p := 0; p < numPhases; p++ {
		phase := float64(p) / float64(numPhases)
		var taps [sixTaps]float64
		sum := 0.0
		for t := 0; t < sixTaps; t++ {
			x := float64(t-sixTaps/2+1) - phase
			taps[t] = lanczosKernel(x, a)
			sum += taps[t]
		}
		if sum != 0 {
			for t := range taps {
				taps[t] /= sum
			}
		}
		for t := 0; t < sixTaps; t++ {
			out[p*sixTaps+t] = floatToQ12(taps[t])
		}
	}
	return out
}

func lanczosKernel(x, a float64) float64 {
	if x == 0 {
		return 1
	}
	if math.Abs(x) >= a {
		return 0
	}
	px := math.Pi * x
	return a * math.Sin(px) * math.Sin(px/a) / (px * px)
}

func floatToQ12(v float64) int16 {
	return int16(math.Round(v * unity))
}

// cropSize returns the branch's input dimensions after its configured
// crop, used as the smart-resize source size (spec.md §4.5.1 computes
// the requested ratio against the post-crop region).
func cropSize(cfg *Config, branch int) (uint32, uint32) {
	c := cfg.Branches[branch].Crop
	w := cfg.Input.Width
	h := cfg.Input.Height
	if c.Left+c.Right < w {
		w -= c.Left + c.Right
	}
	if c.Top+c.Bottom < h {
		h -= c.Top + c.Bottom
	}
	return w, h
}
