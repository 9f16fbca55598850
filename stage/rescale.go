/*
NAME
  rescale.go

DESCRIPTION
  rescale.go implements the Rescale stage, parameterised either by
  integer down/up factors (downscale) or a six-tap polyphase filter
  (resample); it holds per-axis scale factors in fixed point (spec.md
  §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import (
	"github.com/ausocean/pisp/geom"
	"github.com/pkg/errors"
)

// UnityScale is the fixed-point representation of a scale factor of
// 1.0, shared with the backend's phase/scale-factor arithmetic
// (spec.md §3 glossary).
const UnityScale = 1 << 12

// RescaleKind distinguishes the two Rescale flavours.
type RescaleKind int

const (
	KindDownscale RescaleKind = iota
	KindResample
)

// Rescale changes the sample rate of an axis, either by an integer
// downscale factor or a six-tap polyphase resample filter. ScaleFactor
// is the forward (input-per-output) ratio in UnityScale fixed point;
// ContextPixels is the extra upstream margin the filter needs on each
// side (0 for integer downscale, a few taps for resample).
type Rescale struct {
	base

	Kind          RescaleKind
	ScaleFactor   [2]int32 // fixed point, UnityScale == 1.0, indexed by Axis.
	ContextPixels int32
	OutSize       geom.Length2 // authoritative target output size per axis.

	downstream Stage
}

// NewRescale constructs a Rescale stage. outSize is the target output
// size per axis; scaleFactor is precomputed per axis by the caller:
// (inDim<<12)/outDim for a downscale and ((inDim-1)<<12)/(outDim-1) for
// a resample (spec.md §4.5.2).
func NewRescale(kind RescaleKind, outSize geom.Length2, scaleFactor [2]int32, contextPixels int32) *Rescale {
	return &Rescale{
		base:          newBase(rescaleName(kind)),
		Kind:          kind,
		ScaleFactor:   scaleFactor,
		OutSize:       outSize,
		ContextPixels: contextPixels,
	}
}

func rescaleName(k RescaleKind) string {
	if k == KindDownscale {
		return "downscale"
	}
	return "resample"
}

// ValidateScale checks the forward scale factor against spec.md §4.3's
// bounds: resample must be in [1/16, 16); downscale must be unity or in
// [2, 8].
func (n *Rescale) ValidateScale(scaleFactor int32) error {
	switch n.Kind {
	case KindResample:
		if scaleFactor < UnityScale/16 || scaleFactor >= UnityScale*16 {
			return errors.Errorf("stage: resample scale factor %d out of range [1/16, 16)", scaleFactor)
		}
	case KindDownscale:
		if scaleFactor != UnityScale && (scaleFactor < 2*UnityScale || scaleFactor > 8*UnityScale) {
			return errors.Errorf("stage: downscale scale factor %d out of range {1} ∪ [2, 8]", scaleFactor)
		}
	}
	return nil
}

// SetScaleFactor overrides the per-axis scale factor after construction,
// validating it against ValidateScale first.
func (n *Rescale) SetScaleFactor(axis geom.Axis, f int32) error {
	if err := n.ValidateScale(f); err != nil {
		return err
	}
	n.ScaleFactor[axis] = f
	return nil
}

func (n *Rescale) mapForward(axis geom.Axis, count int32) int32 {
	f := n.ScaleFactor[axis]
	if f == 0 {
		return 0
	}
	return int32((int64(count) * UnityScale) / int64(f))
}

func (n *Rescale) mapBackward(axis geom.Axis, count int32) int32 {
	f := n.ScaleFactor[axis]
	if f == 0 {
		return 0
	}
	return int32((int64(count)*int64(f) + UnityScale - 1) / UnityScale)
}

func (n *Rescale) SetDownstream(children ...Stage) {
	if len(children) > 0 {
		n.downstream = children[0]
	}
}

func (n *Rescale) Reset(axis geom.Axis) {
	n.reset(axis)
	if n.downstream != nil {
		n.downstream.Reset(axis)
	}
}

func (n *Rescale) GetOutputImageSize(axis geom.Axis) int32 {
	if s := n.OutSize.Get(axis); s != 0 {
		return s
	}
	if n.downstream != nil {
		return n.downstream.GetOutputImageSize(axis)
	}
	return 0
}

func (n *Rescale) PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval {
	grown := geom.Interval{Offset: in.Offset - n.ContextPixels, Length: in.Length + 2*n.ContextPixels}
	if n.downstream != nil {
		return n.downstream.PushCropDown(axis, grown)
	}
	return grown
}

// PushStartUp maps the downstream output-start back to an input-start,
// accounting for the scaler's context pixels, then calls upstream
// (spec.md §4.3).
func (n *Rescale) PushStartUp(axis geom.Axis, out int32) (int32, error) {
	start := n.mapBackward(axis, out) - n.ContextPixels
	if start < 0 {
		start = 0
	}
	n.output[axis].Offset = out
	n.input[axis].Offset = start
	if n.upstream == nil {
		return start, nil
	}
	return n.upstream.PushStartUp(axis, start)
}

// PushEndDown maps an input-end forward to an output-end, calls
// downstream, then reconciles via PushEndUp (spec.md §4.3).
func (n *Rescale) PushEndDown(axis geom.Axis, in int32) (int32, error) {
	n.input[axis].SetEnd(in)
	mappedOut := n.mapForward(axis, in+n.ContextPixels)
	if full := n.GetOutputImageSize(axis); mappedOut > full {
		mappedOut = full
	}

	if n.downstream == nil {
		n.output[axis].SetEnd(mappedOut)
		return n.input[axis].End(), nil
	}
	achieved, err := n.downstream.PushEndDown(axis, mappedOut)
	if err != nil {
		return 0, err
	}
	n.PushEndUp(axis, in) // reconcile own bookkeeping against what was requested...
	n.output[axis].SetEnd(achieved)
	neededIn := n.mapBackward(axis, achieved) + n.ContextPixels
	return neededIn, nil
}

func (n *Rescale) PushEndUp(axis geom.Axis, in int32) {
	n.input[axis].SetEnd(in)
	mappedOut := n.mapForward(axis, in+n.ContextPixels)
	if full := n.GetOutputImageSize(axis); mappedOut > full {
		mappedOut = full
	}
	n.output[axis].SetEnd(mappedOut)
	if mappedOut >= n.GetOutputImageSize(axis) {
		n.complete[axis] = true
	}
	if n.downstream != nil {
		n.downstream.PushEndUp(axis, mappedOut)
	}
}
