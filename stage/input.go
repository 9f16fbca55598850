/*
NAME
  input.go

DESCRIPTION
  input.go implements the Input stage: the single terminal-upstream node
  of the graph, holding the full input image dimensions and alignment
  requirements (spec.md §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import "github.com/ausocean/pisp/geom"

// Input is the graph's single terminal-upstream node. It holds the
// full input image size and, per axis, the minimum alignment the image
// format requires of any offset into it (e.g. 2 for 4:2:0 chroma).
type Input struct {
	base

	Size  geom.Length2
	Align geom.Length2 // minimum alignment per axis, >= 1.

	downstream Stage
}

// NewInput constructs an Input stage for an image of the given size,
// with per-axis alignment requirements.
func NewInput(size, align geom.Length2) *Input {
	if align.X < 1 {
		align.X = 1
	}
	if align.Y < 1 {
		align.Y = 1
	}
	return &Input{base: newBase("input"), Size: size, Align: align}
}

// SetDownstream wires the single downstream neighbour.
func (n *Input) SetDownstream(children ...Stage) {
	if len(children) > 0 {
		n.downstream = children[0]
	}
}

func (n *Input) Reset(axis geom.Axis) {
	n.reset(axis)
	if n.downstream != nil {
		n.downstream.Reset(axis)
	}
}

// PushCropDown forwards the full image extent downstream unchanged;
// Input has no crop of its own.
func (n *Input) PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval {
	out := passthroughCropDown(axis, in)
	if n.downstream != nil {
		return n.downstream.PushCropDown(axis, out)
	}
	return out
}

func (n *Input) GetOutputImageSize(axis geom.Axis) int32 { return n.Size.Get(axis) }

// PushStartUp records the input offset the downstream chain settled on.
// Input is the root of the upward sweep: it has no further upstream to
// call.
func (n *Input) PushStartUp(axis geom.Axis, out int32) (int32, error) {
	n.input[axis].Offset = out
	n.output[axis].Offset = out
	return out, nil
}

// PushEndDown clamps the requested input end to the image edge and
// forwards it downstream.
func (n *Input) PushEndDown(axis geom.Axis, in int32) (int32, error) {
	imageEnd := n.Size.Get(axis)
	if in > imageEnd {
		in = imageEnd
	}
	n.input[axis].SetEnd(in)
	if n.downstream == nil {
		n.output[axis] = n.input[axis]
		if n.output[axis].End() >= imageEnd {
			n.complete[axis] = true
		}
		return in, nil
	}
	achieved, err := n.downstream.PushEndDown(axis, in)
	if err != nil {
		return 0, err
	}
	n.output[axis].SetEnd(achieved)
	if n.output[axis].End() >= imageEnd {
		n.complete[axis] = true
	}
	return achieved, nil
}

// PushEndUp forces the downstream chain to the agreed common end.
func (n *Input) PushEndUp(axis geom.Axis, end int32) {
	n.output[axis].SetEnd(end)
	if end >= n.Size.Get(axis) {
		n.complete[axis] = true
	}
	if n.downstream != nil {
		n.downstream.PushEndUp(axis, end)
	}
}
