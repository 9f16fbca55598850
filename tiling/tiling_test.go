/*
NAME
  tiling_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tiling

import (
	"testing"

	"github.com/ausocean/pisp/geom"
	"github.com/ausocean/pisp/stage"
)

// singleBranchGraph builds a trivial one-branch, no-crop, no-rescale
// graph covering the full frame, for exercising the sweep/compose
// machinery in isolation from the back-end preparer.
func singleBranchGraph(w, h int32) *stage.Graph {
	size := geom.Length2{X: w, Y: h}
	branches := []stage.BranchSpec{
		{
			Crop:           geom.Crop2{},
			OutputSize:     size,
			OutputMaxAlign: geom.Length2{X: 1, Y: 1},
			OutputMinAlign: geom.Length2{X: 1, Y: 1},
		},
	}
	return stage.Build(size, geom.Length2{X: 1, Y: 1}, geom.Length2{}, branches)
}

func TestPlanCoversFullFrame(t *testing.T) {
	g := singleBranchGraph(100, 64)
	regions, nx, ny, err := Plan(g, geom.Length2{X: 32, Y: 32})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(regions) != nx*ny {
		t.Fatalf("got %d regions, want %d*%d=%d", len(regions), nx, ny, nx*ny)
	}

	var maxX, maxY int32
	for _, r := range regions {
		if end := r.Input.X.End(); end > maxX {
			maxX = end
		}
		if end := r.Input.Y.End(); end > maxY {
			maxY = end
		}
		if r.Input.X.Offset < 0 || r.Input.Y.Offset < 0 {
			t.Fatalf("negative input offset in region %+v", r)
		}
	}
	if maxX != 100 {
		t.Errorf("x coverage = %d, want 100", maxX)
	}
	if maxY != 64 {
		t.Errorf("y coverage = %d, want 64", maxY)
	}
}

func TestPlanEdgeFlags(t *testing.T) {
	g := singleBranchGraph(100, 64)
	regions, nx, ny, err := Plan(g, geom.Length2{X: 32, Y: 32})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	for _, r := range regions {
		wantLeft := r.TileX == 0
		wantRight := r.TileX == nx-1
		wantTop := r.TileY == 0
		wantBottom := r.TileY == ny-1
		if r.Edge.Left != wantLeft || r.Edge.Right != wantRight || r.Edge.Top != wantTop || r.Edge.Bottom != wantBottom {
			t.Errorf("tile (%d,%d) edges = %+v, want left=%v right=%v top=%v bottom=%v",
				r.TileX, r.TileY, r.Edge, wantLeft, wantRight, wantTop, wantBottom)
		}
	}
}

func TestPlanCroppedBranch(t *testing.T) {
	size := geom.Length2{X: 64, Y: 64}
	branches := []stage.BranchSpec{
		{
			Crop:           geom.Crop2{X: geom.Crop{Start: 4, End: 4}, Y: geom.Crop{Start: 2, End: 2}},
			OutputSize:     geom.Length2{X: 56, Y: 60},
			OutputMaxAlign: geom.Length2{X: 1, Y: 1},
			OutputMinAlign: geom.Length2{X: 1, Y: 1},
		},
	}
	g := stage.Build(size, geom.Length2{X: 1, Y: 1}, geom.Length2{}, branches)

	regions, _, _, err := Plan(g, geom.Length2{X: 16, Y: 16})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var sawStart, sawEnd bool
	var outputCoverage int32
	for _, r := range regions {
		br := r.Branches[0]
		if br.CropStart.X == 4 {
			sawStart = true
		}
		if br.CropEnd.X == 4 {
			sawEnd = true
		}
		if end := br.Output.X.End(); end > outputCoverage {
			outputCoverage = end
		}
	}
	if !sawStart {
		t.Error("no tile reported the branch's leading crop")
	}
	if !sawEnd {
		t.Error("no tile reported the branch's trailing crop")
	}
	if outputCoverage != 56 {
		t.Errorf("output coverage = %d, want 56", outputCoverage)
	}
}
