/*
NAME
  geom_test.go

DESCRIPTION
  geom_test.go tests the Interval/Length2/Interval2/Crop arithmetic of
  geom.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package geom

import "testing"

func TestIntervalEnd(t *testing.T) {
	iv := Interval{Offset: 10, Length: 20}
	if got := iv.End(); got != 30 {
		t.Fatalf("End() = %d, want 30", got)
	}
}

func TestIntervalUnion(t *testing.T) {
	iv := Interval{Offset: 10, Length: 5}
	iv.Union(12) // already covered
	if iv.Length != 5 {
		t.Fatalf("Union should not shrink: got length %d", iv.Length)
	}
	iv.Union(20)
	if got, want := iv.Length, int32(11); got != want {
		t.Fatalf("Union(20).Length = %d, want %d", got, want)
	}
}

func TestIntervalSetEndSaturates(t *testing.T) {
	iv := Interval{Offset: 10, Length: 5}
	iv.SetEnd(3) // before offset: should clamp to empty, not negative
	if iv.Length != 0 {
		t.Fatalf("SetEnd before offset should clamp to 0 length, got %d", iv.Length)
	}
	if iv.Offset != 10 {
		t.Fatalf("SetEnd must not move Offset, got %d", iv.Offset)
	}
}

func TestIntervalClamp(t *testing.T) {
	iv := Interval{Offset: -5, Length: 50}
	bound := Interval{Offset: 0, Length: 10}
	got := iv.Clamp(bound)
	want := Interval{Offset: 0, Length: 10}
	if got != want {
		t.Fatalf("Clamp() = %+v, want %+v", got, want)
	}
}

func TestCropApply(t *testing.T) {
	c := Crop{Start: 2, End: 3}
	iv := Interval{Offset: 0, Length: 10}
	got := c.Apply(iv)
	want := Interval{Offset: 2, Length: 5}
	if got != want {
		t.Fatalf("Crop.Apply() = %+v, want %+v", got, want)
	}
}

func TestCropApplyOverCrop(t *testing.T) {
	c := Crop{Start: 8, End: 8}
	iv := Interval{Offset: 0, Length: 10}
	got := c.Apply(iv)
	if got.Length != 0 {
		t.Fatalf("over-crop should yield zero length, got %+v", got)
	}
}

func TestAlignUpDown(t *testing.T) {
	if got := AlignUp(10, 16); got != 16 {
		t.Fatalf("AlignUp(10,16) = %d, want 16", got)
	}
	if got := AlignUp(16, 16); got != 16 {
		t.Fatalf("AlignUp(16,16) = %d, want 16", got)
	}
	if got := AlignDown(31, 16); got != 16 {
		t.Fatalf("AlignDown(31,16) = %d, want 16", got)
	}
}

func TestAxisIndexing(t *testing.T) {
	iv2 := Interval2{X: Interval{Offset: 1, Length: 2}, Y: Interval{Offset: 3, Length: 4}}
	if iv2.Get(AxisX) != iv2.X || iv2.Get(AxisY) != iv2.Y {
		t.Fatalf("Get by axis mismatch")
	}
	var l Length2
	l.Set(AxisX, 5)
	l.Set(AxisY, 7)
	if l.X != 5 || l.Y != 7 {
		t.Fatalf("Set by axis mismatch: %+v", l)
	}
}

func TestUnionPanicsBeforeOffset(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for union point before offset")
		}
	}()
	iv := Interval{Offset: 10, Length: 5}
	iv.Union(2)
}
