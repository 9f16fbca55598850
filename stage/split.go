/*
NAME
  split.go

DESCRIPTION
  split.go implements the Split stage: the single fan-out point where
  one upstream chain feeds N independent output branches, each with its
  own Crop/Rescale/Context/Output chain (spec.md §4.3, §4.4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import "github.com/ausocean/pisp/geom"

// Split fans out to Branches downstream neighbours. It has no crop or
// scale of its own: its job is reconciling the independent per-branch
// start and end requests into the single upstream value every branch
// must agree on, since they all share one input chain above the split
// (spec.md §4.4).
type Split struct {
	base

	Branches []Stage
	FullSize geom.Length2 // input image size at the split point.

	startReqs [2][]int32
}

// NewSplit constructs a Split stage for an upstream image of the given
// size; branches are wired afterwards via SetDownstream.
func NewSplit(fullSize geom.Length2) *Split {
	return &Split{base: newBase("split"), FullSize: fullSize}
}

func (n *Split) SetDownstream(children ...Stage) { n.Branches = children }

func (n *Split) Reset(axis geom.Axis) {
	n.reset(axis)
	n.startReqs[axis] = n.startReqs[axis][:0]
	for _, br := range n.Branches {
		br.Reset(axis)
	}
}

func (n *Split) GetOutputImageSize(axis geom.Axis) int32 { return n.FullSize.Get(axis) }

// PushCropDown feeds the same realised interval to every branch; each
// branch's own Crop/Context compute their own requirements from it.
func (n *Split) PushCropDown(axis geom.Axis, in geom.Interval) geom.Interval {
	for _, br := range n.Branches {
		br.PushCropDown(axis, in)
	}
	return in
}

// PushStartUp is called once per branch (the branch's first stage
// calls into Split as its upstream). Split buffers requests until every
// branch has reported for this axis, then forwards the earliest
// (smallest) start upstream once, caching the confirmed value for the
// remaining callers in the same round.
//
// This assumes the engine always drives every branch to completion for
// one axis before switching axes, which holds for the sweep order
// tiling.Plan uses.
func (n *Split) PushStartUp(axis geom.Axis, out int32) (int32, error) {
	n.startReqs[axis] = append(n.startReqs[axis], out)
	if len(n.startReqs[axis]) < len(n.Branches) {
		return out, nil
	}

	min := n.startReqs[axis][0]
	for _, v := range n.startReqs[axis][1:] {
		if v < min {
			min = v
		}
	}
	n.startReqs[axis] = n.startReqs[axis][:0]

	n.input[axis].Offset = min
	if n.upstream == nil {
		return min, nil
	}
	return n.upstream.PushStartUp(axis, min)
}

// PushEndDown probes every not-yet-complete branch for its maximum
// achievable end, takes the minimum across them as the common end every
// branch must hit this tile, then forces each branch to that value via
// PushEndUp (spec.md §4.4's description of Split reconciling branch
// maxima into a lockstep common end).
func (n *Split) PushEndDown(axis geom.Axis, in int32) (int32, error) {
	n.input[axis].SetEnd(in)

	anyActive := false
	common := int32(-1)
	achieved := make([]int32, len(n.Branches))
	for i, br := range n.Branches {
		if br.BranchComplete(axis) {
			achieved[i] = -1
			continue
		}
		anyActive = true
		a, err := br.PushEndDown(axis, in)
		if err != nil {
			achieved[i] = -1
			continue
		}
		achieved[i] = a
		if common < 0 || a < common {
			common = a
		}
	}

	if !anyActive {
		n.complete[axis] = true
		n.output[axis].SetEnd(n.FullSize.Get(axis))
		return n.output[axis].End(), nil
	}
	if common < 0 {
		return 0, ErrNoProgress
	}

	allComplete := true
	for _, br := range n.Branches {
		if br.BranchComplete(axis) {
			continue
		}
		br.PushEndUp(axis, common)
		if !br.BranchComplete(axis) {
			allComplete = false
		}
	}

	n.output[axis].SetEnd(common)
	if allComplete {
		n.complete[axis] = true
	}
	return common, nil
}

// PushEndUp forces every branch to the externally agreed end; used when
// a stage upstream of the split (rare, but symmetrical with the rest of
// the interface) needs to force a value rather than probe for one.
func (n *Split) PushEndUp(axis geom.Axis, end int32) {
	n.input[axis].SetEnd(end)
	n.output[axis].SetEnd(end)
	allComplete := true
	for _, br := range n.Branches {
		br.PushEndUp(axis, end)
		if !br.BranchComplete(axis) {
			allComplete = false
		}
	}
	if allComplete {
		n.complete[axis] = true
	}
}

func (n *Split) BranchComplete(axis geom.Axis) bool {
	for _, br := range n.Branches {
		if !br.BranchComplete(axis) {
			return false
		}
	}
	return true
}

func (n *Split) BranchInactive(axis geom.Axis) bool {
	for _, br := range n.Branches {
		if !br.BranchInactive(axis) {
			return false
		}
	}
	return true
}
