/*
NAME
  compose_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import "testing"

// TestGridOffsetAppliesConfiguredOffset covers spec.md §4.5.4's verbatim
// formula, grid_offset = (input_offset + grid.offset) * grid_step,
// including a non-zero Grid.Offset.
func TestGridOffsetAppliesConfiguredOffset(t *testing.T) {
	g := GridConfig{GridStep: [2]uint32{10, 20}, Offset: [2]int16{3, -2}}

	ox, oy := gridOffset(g, 5, 5)
	if want := uint32(5+3) * 10; ox != want {
		t.Errorf("ox = %d, want %d", ox, want)
	}
	if want := uint32(5-2) * 20; oy != want {
		t.Errorf("oy = %d, want %d", oy, want)
	}
}

// TestGridOffsetZeroOffsetIsPlainScale covers the common case of no
// configured offset: grid_offset is simply input_offset * grid_step.
func TestGridOffsetZeroOffsetIsPlainScale(t *testing.T) {
	g := GridConfig{GridStep: [2]uint32{4, 8}}

	ox, oy := gridOffset(g, 12, 6)
	if ox != 48 {
		t.Errorf("ox = %d, want 48", ox)
	}
	if oy != 48 {
		t.Errorf("oy = %d, want 48", oy)
	}
}
