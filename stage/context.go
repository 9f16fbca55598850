/*
NAME
  context.go

DESCRIPTION
  context.go implements the Context stage: symmetric padding added on
  both sides for neighbourhood-dependent filters (sharpening, demosaic,
  stitching), alignment-aware so it grows requested regions to the next
  multiple of the required alignment (spec.md §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import "github.com/ausocean/pisp/geom"

// Context adds Pad pixels of symmetric padding to both sides of its
// input along each axis, growing the requested region up to the next
// multiple of Align when Align > 1.
type Context struct {
	base

	Pad   geom.Length2
	Align geom.Length2 // >= 1; 1 means no alignment requirement.

	downstream Stage
}

// NewContext constructs a Context stage with the given padding and
// alignment requirements per axis.
func NewContext(pad, align geom.Length2) *Context {
	if align.X < 1 {
		align.X = 1
	}
	if align.Y < 1 {
		align.Y = 1
	}
	return &Context{base: newBase("context"), Pad: pad, Align: align}
}

func (n *Context) SetDownstream(children ...Stage) {
	if len(children) > 0 {
		n.downstream = children[0]
	}
}

func (n *Context) Reset(axis geom.Axis) {
	n.reset(axis)
	if n.downstream != nil {
		n.downstream.Reset(axis)
	}
}

func (n *Context) GetOutputImageSize(axis geom.Axis) int32 {
	if n.downstream != nil {
		return n.downstream.GetOutputImageSize(axis)
	}
	return 0
}

func (n *Context) PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval {
	pad := n.Pad.Get(axis)
	grown := geom.Interval{Offset: in.Offset - pad, Length: in.Length + 2*pad}
	if n.downstream != nil {
		return n.downstream.PushCropDown(axis, grown)
	}
	return grown
}

// PushStartUp grows the requested start outward by Pad (clamped at 0)
// and aligns it down to Align, then forwards upstream.
func (n *Context) PushStartUp(axis geom.Axis, out int32) (int32, error) {
	pad := n.Pad.Get(axis)
	align := n.Align.Get(axis)
	start := out - pad
	if start < 0 {
		start = 0
	}
	start = geom.AlignDown(start, align)
	n.output[axis].Offset = out
	n.input[axis].Offset = start
	if n.upstream == nil {
		return start, nil
	}
	return n.upstream.PushStartUp(axis, start)
}

// PushEndDown grows the requested input end by Pad and aligns up to
// Align before forwarding downstream.
func (n *Context) PushEndDown(axis geom.Axis, in int32) (int32, error) {
	n.input[axis].SetEnd(in)
	pad := n.Pad.Get(axis)
	align := n.Align.Get(axis)
	mapped := geom.AlignUp(in+pad, align)

	if n.downstream == nil {
		n.output[axis].SetEnd(mapped)
		return mapped, nil
	}
	achieved, err := n.downstream.PushEndDown(axis, mapped)
	if err != nil {
		return 0, err
	}
	n.output[axis].SetEnd(achieved)
	return achieved + pad, nil
}

func (n *Context) PushEndUp(axis geom.Axis, in int32) {
	n.input[axis].SetEnd(in)
	pad := n.Pad.Get(axis)
	align := n.Align.Get(axis)
	mapped := geom.AlignUp(in+pad, align)
	n.output[axis].SetEnd(mapped)
	if n.downstream != nil {
		n.downstream.PushEndUp(axis, mapped)
	}
}
