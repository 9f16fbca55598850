/*
NAME
  crop.go

DESCRIPTION
  crop.go implements the Crop stage: parameterised by an absolute crop
  rectangle in input coordinates (spec.md §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import "github.com/ausocean/pisp/geom"

// Crop removes a fixed rectangle of padding from each side of its
// input, expressed as an absolute Crop2 in input coordinates.
type Crop struct {
	base

	Rect geom.Crop2

	downstream Stage
}

// NewCrop constructs a Crop stage with the given absolute crop.
func NewCrop(rect geom.Crop2) *Crop {
	return &Crop{base: newBase("crop"), Rect: rect}
}

func (n *Crop) SetDownstream(children ...Stage) {
	if len(children) > 0 {
		n.downstream = children[0]
	}
}

func (n *Crop) Reset(axis geom.Axis) {
	n.reset(axis)
	if n.downstream != nil {
		n.downstream.Reset(axis)
	}
}

func (n *Crop) GetOutputImageSize(axis geom.Axis) int32 {
	c := n.Rect.Get(axis)
	size := int32(0)
	if n.downstream != nil {
		size = n.downstream.GetOutputImageSize(axis)
	}
	return size + c.Start + c.End
}

// PushCropDown intersects the incoming realised interval with this
// stage's own crop rectangle and forwards the result downstream.
func (n *Crop) PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval {
	out := n.Rect.Get(axis).Apply(in)
	if n.downstream != nil {
		return n.downstream.PushCropDown(axis, out)
	}
	return out
}

// PushStartUp forwards out + crop.Start upstream; fails (per spec.md
// §4.3) if the resulting start would be negative, which signals the
// planner produced a tile smaller than the minimum tile size.
func (n *Crop) PushStartUp(axis geom.Axis, out int32) (int32, error) {
	c := n.Rect.Get(axis)
	start := out + c.Start
	if start < 0 {
		return 0, ErrNegativeStart
	}
	n.output[axis].Offset = out
	n.input[axis].Offset = start
	if n.upstream == nil {
		return start, nil
	}
	return n.upstream.PushStartUp(axis, start)
}

// PushEndDown clamps the requested input end to the crop's end and
// maps it forward; it returns ErrNoProgress (terminating the branch for
// this tile, inactive) when the producible output would be below the
// minimum tile size.
func (n *Crop) PushEndDown(axis geom.Axis, in int32) (int32, error) {
	c := n.Rect.Get(axis)
	croppedImageEnd := c.Start + n.GetOutputImageSizeUncropped(axis) - c.End
	if in > croppedImageEnd {
		in = croppedImageEnd
	}
	n.input[axis].SetEnd(in)

	mapped := in - c.Start
	if mapped < 0 {
		mapped = 0
	}

	isFinalTile := in >= croppedImageEnd
	if mapped-n.output[axis].Offset < geom.MinTileSize && !isFinalTile {
		n.inactive[axis] = true
		return 0, ErrNoProgress
	}

	if n.downstream == nil {
		n.output[axis].SetEnd(mapped)
		return mapped, nil
	}
	achieved, err := n.downstream.PushEndDown(axis, mapped)
	if err != nil {
		n.inactive[axis] = true
		return 0, err
	}
	n.output[axis].SetEnd(achieved)
	if achieved >= n.downstreamSize(axis) {
		n.complete[axis] = true
	}
	return n.output[axis].End() + c.Start, nil
}

// PushEndUp forces this stage, and everything downstream of it, to the
// agreed common end (expressed in this stage's own input coordinate
// frame, matching the `in` PushEndDown used).
func (n *Crop) PushEndUp(axis geom.Axis, in int32) {
	c := n.Rect.Get(axis)
	n.input[axis].SetEnd(in)
	mapped := in - c.Start
	if mapped < 0 {
		mapped = 0
	}
	n.output[axis].SetEnd(mapped)
	if mapped >= n.downstreamSize(axis) {
		n.complete[axis] = true
	}
	if n.downstream != nil {
		n.downstream.PushEndUp(axis, mapped)
	}
}

// CopyOut overrides base.CopyOut to report the crop actually applied to
// *this* tile rather than the zero-valued base.crop field: crop.Start
// only applies to the tile abutting the branch's output start, and
// crop.End only to the tile abutting its output end, per spec.md §3's
// per-tile `crop_start`/`crop_end` fields and §8's boundary behaviour
// (a middle tile contributes zero on both sides).
func (n *Crop) CopyOut(axis geom.Axis, t *AxisTile) {
	n.base.CopyOut(axis, t)
	c := n.Rect.Get(axis)
	out := geom.Crop{}
	if n.output[axis].Offset == 0 {
		out.Start = c.Start
	}
	if n.complete[axis] {
		out.End = c.End
	}
	t.Crop = out
}

func (n *Crop) downstreamSize(axis geom.Axis) int32 {
	if n.downstream == nil {
		return 0
	}
	return n.downstream.GetOutputImageSize(axis)
}

// GetOutputImageSizeUncropped returns the full size available before
// this stage's own crop.End is removed, used internally to bound
// PushEndDown.
func (n *Crop) GetOutputImageSizeUncropped(axis geom.Axis) int32 {
	c := n.Rect.Get(axis)
	return n.GetOutputImageSize(axis) - c.Start
}
