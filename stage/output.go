/*
NAME
  output.go

DESCRIPTION
  output.go implements the Output stage: the terminal node of each
  branch, holding the output format's alignment requirements and flip
  flags (spec.md §4.3, §4.4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import "github.com/ausocean/pisp/geom"

// Output is the terminal node of a branch. MaxAlign is the preferred
// tile-boundary alignment (matching the output format's ideal stride
// granularity); MinAlign is the fallback alignment tried when MaxAlign
// cannot advance the tile at all. HFlip/VFlip record the output
// format's mirroring, which the back-end uses when composing the final
// per-tile addressing but which this stage does not itself need to
// remap (spec.md §4.3).
type Output struct {
	base

	Size     geom.Length2
	MaxAlign geom.Length2
	MinAlign geom.Length2
	HFlip    bool
	VFlip    bool
}

// NewOutput constructs an Output stage for the given output image size
// and alignment preferences.
func NewOutput(size, maxAlign, minAlign geom.Length2) *Output {
	if maxAlign.X < 1 {
		maxAlign.X = 1
	}
	if maxAlign.Y < 1 {
		maxAlign.Y = 1
	}
	if minAlign.X < 1 {
		minAlign.X = 1
	}
	if minAlign.Y < 1 {
		minAlign.Y = 1
	}
	return &Output{Size: size, MaxAlign: maxAlign, MinAlign: minAlign, base: newBase("output")}
}

// SetDownstream is a no-op: Output is always the last stage of a
// branch.
func (n *Output) SetDownstream(children ...Stage) {}

func (n *Output) Reset(axis geom.Axis) { n.reset(axis) }

func (n *Output) GetOutputImageSize(axis geom.Axis) int32 { return n.Size.Get(axis) }

func (n *Output) PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval { return in }

// PushStartUp is the entry point the engine calls to open a new tile on
// this branch; Output applies no transform of its own and forwards
// unchanged.
func (n *Output) PushStartUp(axis geom.Axis, out int32) (int32, error) {
	n.output[axis].Offset = out
	n.input[axis].Offset = out
	if n.upstream == nil {
		return out, nil
	}
	return n.upstream.PushStartUp(axis, out)
}

// PushEndDown picks the furthest output end it can align to: MaxAlign
// first, falling back to MinAlign if MaxAlign cannot advance past the
// current tile offset, and finally the unaligned image edge for the
// last tile. Returns ErrNoProgress if neither alignment can advance at
// all (spec.md §4.3's max_alignment/min_alignment fallback).
func (n *Output) PushEndDown(axis geom.Axis, in int32) (int32, error) {
	full := n.Size.Get(axis)
	if in > full {
		in = full
	}
	n.input[axis].SetEnd(in)
	cur := n.output[axis].Offset

	if in >= full {
		n.output[axis].SetEnd(full)
		n.complete[axis] = true
		return full, nil
	}

	end := geom.AlignDown(in, n.MaxAlign.Get(axis))
	if end <= cur {
		end = geom.AlignDown(in, n.MinAlign.Get(axis))
	}
	if end <= cur {
		n.inactive[axis] = true
		return 0, ErrNoProgress
	}

	n.output[axis].SetEnd(end)
	return end, nil
}

// PushEndUp forces this branch's end to the value Split reconciled
// across all branches.
func (n *Output) PushEndUp(axis geom.Axis, in int32) {
	n.input[axis].SetEnd(in)
	n.output[axis].SetEnd(in)
	if in >= n.Size.Get(axis) {
		n.complete[axis] = true
	}
}
