/*
NAME
  graph.go

DESCRIPTION
  graph.go builds the typed stage graph used to drive tile planning:
  Input -> Context (demosaic/sharpen neighbourhood) -> Split -> per
  branch Crop -> Downscale -> Context -> Resample -> Output, per
  spec.md §4.4.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import "github.com/ausocean/pisp/geom"

// BranchSpec describes one output branch's chain of per-branch stages.
// Crop is applied first (in input-image coordinates), then an optional
// integer Downscale, then a context pad for the resample filter's taps,
// then an optional Resample, then the terminal Output.
type BranchSpec struct {
	Crop geom.Crop2

	HasDownscale  bool
	DownscaleSize geom.Length2
	DownscaleFactor [2]int32

	HasResample     bool
	ResampleSize    geom.Length2
	ResampleFactor  [2]int32
	ResampleContext int32 // taps of context needed either side, per axis.

	OutputSize     geom.Length2
	OutputMaxAlign geom.Length2
	OutputMinAlign geom.Length2
	HFlip, VFlip   bool
}

// Chain is every concrete stage of one output branch, in upstream-to-
// downstream order, for callers (the tiling engine) that need to
// snapshot intermediate stages rather than just the terminal Output.
type Chain struct {
	Crop      *Crop
	Downscale *Rescale // nil when the branch has no downscale.
	Context2  *Context // nil when the branch has no resample.
	Resample  *Rescale // nil when the branch has no resample.
	Output    *Output
}

// Graph is the fully wired stage graph for one frame's worth of
// branches, rooted at Input.
type Graph struct {
	Input    *Input
	Pre      *Context
	Split    *Split
	Outputs  []*Output
	Branches []Chain
}

// Build constructs and wires a Graph for the given input size/alignment,
// a shared pre-split context pad (e.g. demosaic/sharpen neighbourhood,
// which must be resolved before the split since every branch needs the
// same extra input rows/columns), and one BranchSpec per output branch.
func Build(inputSize, inputAlign geom.Length2, preSplitPad geom.Length2, branches []BranchSpec) *Graph {
	in := NewInput(inputSize, inputAlign)
	pre := NewContext(preSplitPad, geom.Length2{X: 1, Y: 1})
	in.SetDownstream(pre)
	pre.upstream = in

	splitSize := geom.Length2{
		X: inputSize.X + 2*preSplitPad.X,
		Y: inputSize.Y + 2*preSplitPad.Y,
	}
	split := NewSplit(splitSize)
	pre.SetDownstream(split)
	split.upstream = pre

	children := make([]Stage, 0, len(branches))
	outs := make([]*Output, 0, len(branches))
	chains := make([]Chain, 0, len(branches))
	for _, bs := range branches {
		c := buildBranch(bs, split)
		children = append(children, Stage(c.Crop))
		outs = append(outs, c.Output)
		chains = append(chains, c)
	}
	split.SetDownstream(children...)

	return &Graph{Input: in, Pre: pre, Split: split, Outputs: outs, Branches: chains}
}

func buildBranch(bs BranchSpec, upstreamOfHead Stage) Chain {
	crop := NewCrop(bs.Crop)
	crop.upstream = upstreamOfHead
	var tail Stage = crop

	c := Chain{Crop: crop}

	if bs.HasDownscale {
		ds := NewRescale(KindDownscale, bs.DownscaleSize, bs.DownscaleFactor, 0)
		ds.upstream = tail
		tail.SetDownstream(ds)
		tail = ds
		c.Downscale = ds
	}

	if bs.HasResample {
		ctx := NewContext(geom.Length2{X: bs.ResampleContext, Y: bs.ResampleContext}, geom.Length2{X: 1, Y: 1})
		ctx.upstream = tail
		tail.SetDownstream(ctx)
		tail = ctx
		c.Context2 = ctx

		rs := NewRescale(KindResample, bs.ResampleSize, bs.ResampleFactor, bs.ResampleContext)
		rs.upstream = tail
		tail.SetDownstream(rs)
		tail = rs
		c.Resample = rs
	}

	out := NewOutput(bs.OutputSize, bs.OutputMaxAlign, bs.OutputMinAlign)
	out.HFlip, out.VFlip = bs.HFlip, bs.VFlip
	out.upstream = tail
	tail.SetDownstream(out)
	c.Output = out

	return c
}
