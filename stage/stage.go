/*
NAME
  stage.go

DESCRIPTION
  stage.go declares the Stage capability set shared by every node in the
  back-end's typed stage graph (spec.md §4.3, §9). Concrete stages
  (Input, Crop, Rescale, Context, Split, Output) each embed a base and
  add their own per-axis configuration payload; the polymorphism that
  the reference implementation gets from inheritance is expressed here
  as composition, per spec.md §9's note on translating BasicStage.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stage implements the typed stage graph that the tiling engine
// drives one axis at a time. Each Stage tracks, along the axis it is
// currently being driven on, the input interval it consumed, the crop
// (if any) it applied, and the output interval it produced; the engine
// walks the graph start-to-end and end-to-start to agree on a tile
// boundary every stage can satisfy.
package stage

import (
	"github.com/ausocean/pisp/geom"
	"github.com/pkg/errors"
)

// ErrNoProgress is returned by PushEndDown when a stage (or,
// at a Split, every branch) cannot advance past its current end on the
// requested axis. The tiling engine treats this as fatal unless the
// branch can legally go inactive for the remaining tile (spec.md §4.4).
var ErrNoProgress = errors.New("stage: no progress possible on axis")

// ErrNegativeStart is returned by a Crop's PushStartUp when the mapped
// input start would be negative, signalling a minimum-tile-size
// violation the planner must never produce (spec.md §4.3).
var ErrNegativeStart = errors.New("stage: crop would require negative input start")

// Stage is the capability set every node in the graph implements.
// Methods take an explicit Axis because a single Stage instance is
// reset and reused for both the X and Y sweeps (spec.md §4.4 step 3).
type Stage interface {
	// Name identifies the stage for diagnostics.
	Name() string

	// Reset clears all per-axis sweep state ahead of a fresh sweep.
	Reset(axis geom.Axis)

	// GetOutputImageSize returns the full output extent along axis,
	// i.e. the size the stage will eventually have produced once every
	// tile has been emitted.
	GetOutputImageSize(axis geom.Axis) int32

	// PushStartUp is called with the downstream-agreed output start and
	// propagates the corresponding input start upstream, recording both
	// on this stage. Returns the input start this stage required of its
	// own upstream (which may differ from out by crop offsets/context).
	PushStartUp(axis geom.Axis, out int32) (int32, error)

	// PushEndDown is called with a candidate input end (bounded by
	// max_tile_size) and propagates the corresponding output end
	// downstream, returning the end this stage could actually produce
	// output up to. ErrNoProgress is returned when the stage cannot
	// advance its output past its current end at all.
	PushEndDown(axis geom.Axis, in int32) (int32, error)

	// PushEndUp reconciles a downstream-agreed output end back onto
	// this stage (e.g. after a Split has resolved per-branch maxima
	// into a common end), recording the final interval for this sweep
	// step. It cascades to any downstream neighbour(s) so the whole
	// remaining chain is forced to the same agreed end.
	PushEndUp(axis geom.Axis, end int32)

	// PushCropDown propagates the realised input interval (after any
	// crop already applied upstream) one step further downstream, so
	// that stages which need neighbourhood context (Context) can size
	// their padding against the true available region. It is a
	// configuration-time pass, not a per-tile one; neither tiling.Plan
	// nor backend.Prepare calls it.
	PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval

	// CopyOut copies this stage's recorded {input, crop, output}
	// interval for axis into the transient per-axis tile record.
	CopyOut(axis geom.Axis, t *AxisTile)

	// BranchComplete reports whether this stage (and everything
	// upstream of it) has produced output covering the full image
	// extent along axis.
	BranchComplete(axis geom.Axis) bool

	// BranchInactive reports whether this stage produced zero-area
	// output for the current sweep step (spec.md §3, §8: contributes no
	// output for this tile).
	BranchInactive(axis geom.Axis) bool

	// SetDownstream wires this stage's downstream neighbour(s). Stages
	// with a single downstream (Input, Crop, Context, Rescale) use only
	// children[0]; Split stores the full slice, one per branch.
	SetDownstream(children ...Stage)
}

// AxisTile is the transient, single-axis sweep record the tiling engine
// appends once per PushStartUp/PushEndDown round (spec.md §4.4 step d).
// Both an X-pass and a Y-pass AxisTile exist for every (tileX, tileY)
// pair; tiling.Plan combines them into the final Region.
type AxisTile struct {
	Axis   geom.Axis
	Input  geom.Interval
	Crop   geom.Crop
	Output geom.Interval

	// Edge flags: true when this tile touches the corresponding edge of
	// the full frame along Axis.
	First, Last bool
}

// base holds the state common to every concrete stage: its place in the
// graph and its per-axis sweep bookkeeping. Concrete stages embed base
// by value and add their own config payload (composition, not
// inheritance, per spec.md §9).
type base struct {
	name string

	// structOffset, when >= 0, advertises that this stage writes into a
	// specific slot of the emitted tile record (spec.md §4.3).
	structOffset int

	// upstream is set directly by the graph builder (graph.go) while it
	// still holds concrete pointers, since PushStartUp travels from
	// Output back up to Input — the opposite direction from the
	// downstream links used by PushEndDown/PushEndUp. It is not part of
	// the public Stage interface; spec.md §4.3's capability set has no
	// SetUpstream because the reference graph is built with plain
	// parent pointers rather than a two-pass wiring step.
	upstream Stage

	input  [2]geom.Interval
	crop   [2]geom.Crop
	output [2]geom.Interval

	complete [2]bool
	inactive [2]bool
}

func newBase(name string) base {
	return base{name: name, structOffset: -1}
}

func (b *base) Name() string { return b.name }

func (b *base) reset(axis geom.Axis) {
	b.input[axis] = geom.Interval{}
	b.crop[axis] = geom.Crop{}
	b.output[axis] = geom.Interval{}
	b.complete[axis] = false
	b.inactive[axis] = false
}

func (b *base) CopyOut(axis geom.Axis, t *AxisTile) {
	t.Axis = axis
	t.Input = b.input[axis]
	t.Crop = b.crop[axis]
	t.Output = b.output[axis]
	t.First = b.output[axis].Offset == 0
	t.Last = b.complete[axis]
}

func (b *base) BranchComplete(axis geom.Axis) bool { return b.complete[axis] }
func (b *base) BranchInactive(axis geom.Axis) bool { return b.inactive[axis] }

// passthroughCropDown is the default PushCropDown behaviour: forward
// the interval unchanged. Crop overrides this to intersect with its own
// crop rectangle.
func passthroughCropDown(_ geom.Axis, in geom.Interval) geom.Interval { return in }
