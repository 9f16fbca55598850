/*
NAME
  geom.go

DESCRIPTION
  geom.go provides the scalar geometry primitives the stage graph and
  tiling engine build on: one-dimensional Intervals, their Axis-indexed
  pairing into Interval2, and the Crop/Crop2 padding-removed-at-each-side
  types.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package geom implements the one- and two-axis scalar geometry used
// throughout the back-end preparer and tiling engine: intervals along a
// single axis, their pairing across the X and Y axes, and the crop
// rectangles that describe padding removed from each side of an
// interval.
//
// Arithmetic here is deliberately strict: outside of the explicit
// saturating SetEnd/Clamp helpers, an overflow is a programming error
// in the caller (an impossible tile or image size) and is trapped with
// a panic rather than silently wrapping, per spec.md §4.1.
package geom

import "fmt"

// Axis selects one of the two tiling axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// maxCoord bounds valid interval offsets/lengths so that overflow in
// End()/arithmetic below can be trapped before it wraps silently. It is
// far larger than any plausible frame dimension but small enough that
// offset+length never overflows an int.
const maxCoord = 1 << 30

// checkRange panics if v falls outside [0, maxCoord]; this is the
// "overflow is a bug and must be trapped" policy from spec.md §4.1.
func checkRange(v int32, what string) {
	if v < 0 || v > maxCoord {
		panic(fmt.Sprintf("geom: %s out of range: %d", what, v))
	}
}

// Interval describes a half-open range [Offset, Offset+Length) along one
// axis.
type Interval struct {
	Offset int32
	Length int32
}

// End returns Offset + Length.
func (iv Interval) End() int32 {
	checkRange(iv.Offset, "interval offset")
	checkRange(iv.Length, "interval length")
	end := iv.Offset + iv.Length
	checkRange(end, "interval end")
	return end
}

// Empty reports whether the interval covers no pixels.
func (iv Interval) Empty() bool { return iv.Length <= 0 }

// Union widens iv in place so that it covers point p, matching the "|="
// union operator from spec.md §4.1. p must be within [Offset, maxCoord];
// widening only ever grows Length, it never moves Offset downward.
func (iv *Interval) Union(p int32) {
	checkRange(p, "union point")
	if p < iv.Offset {
		panic(fmt.Sprintf("geom: union point %d precedes interval offset %d", p, iv.Offset))
	}
	if need := p - iv.Offset + 1; need > iv.Length {
		iv.Length = need
	}
}

// SetEnd adjusts Length so that End() == end, clamping end to be no
// smaller than Offset (producing an empty, not negative-length,
// interval). This is the one place interval arithmetic saturates rather
// than traps, per spec.md §4.1.
func (iv *Interval) SetEnd(end int32) {
	if end < iv.Offset {
		end = iv.Offset
	}
	iv.Length = end - iv.Offset
}

// Clamp returns iv restricted to lie within bound, saturating rather
// than trapping when iv extends past bound's edges.
func (iv Interval) Clamp(bound Interval) Interval {
	start := iv.Offset
	if start < bound.Offset {
		start = bound.Offset
	}
	checkRange(iv.Length, "interval length")
	end := iv.Offset + iv.Length
	if boundEnd := bound.End(); end > boundEnd {
		end = boundEnd
	}
	if end < start {
		end = start
	}
	return Interval{Offset: start, Length: end - start}
}

// Length2 is a pair of lengths, one per axis.
type Length2 struct {
	X, Y int32
}

// Get returns the length for the given axis.
func (l Length2) Get(a Axis) int32 {
	if a == AxisX {
		return l.X
	}
	return l.Y
}

// Set sets the length for the given axis.
func (l *Length2) Set(a Axis, v int32) {
	if a == AxisX {
		l.X = v
	} else {
		l.Y = v
	}
}

// Interval2 pairs an Interval per axis, indexable by Axis.
type Interval2 struct {
	X, Y Interval
}

// Get returns the interval for the given axis.
func (iv Interval2) Get(a Axis) Interval {
	if a == AxisX {
		return iv.X
	}
	return iv.Y
}

// Set sets the interval for the given axis.
func (iv *Interval2) Set(a Axis, v Interval) {
	if a == AxisX {
		iv.X = v
	} else {
		iv.Y = v
	}
}

// Size returns the {width, height} of the pair as a Length2.
func (iv Interval2) Size() Length2 {
	return Length2{X: iv.X.Length, Y: iv.Y.Length}
}

// Crop describes padding removed from the start and end of an interval,
// expressed as pixel counts (not absolute coordinates).
type Crop struct {
	Start int32
	End   int32
}

// Apply returns the interval remaining after removing c.Start pixels
// from the front and c.End pixels from the back of iv.
func (c Crop) Apply(iv Interval) Interval {
	start := iv.Offset + c.Start
	length := iv.Length - c.Start - c.End
	if length < 0 {
		length = 0
		start = iv.End()
	}
	return Interval{Offset: start, Length: length}
}

// Crop2 pairs a Crop per axis.
type Crop2 struct {
	X, Y Crop
}

// Get returns the crop for the given axis.
func (c Crop2) Get(a Axis) Crop {
	if a == AxisX {
		return c.X
	}
	return c.Y
}

// Set sets the crop for the given axis.
func (c *Crop2) Set(a Axis, v Crop) {
	if a == AxisX {
		c.X = v
	} else {
		c.Y = v
	}
}

// Apply applies the per-axis crop to a pair of intervals.
func (c Crop2) Apply(iv Interval2) Interval2 {
	return Interval2{X: c.X.Apply(iv.X), Y: c.Y.Apply(iv.Y)}
}

// AlignUp rounds v up to the next multiple of align (align must be > 0).
func AlignUp(v, align int32) int32 {
	if align <= 0 {
		panic("geom: AlignUp requires align > 0")
	}
	r := v % align
	if r == 0 {
		return v
	}
	return v + (align - r)
}

// AlignDown rounds v down to the previous multiple of align (align must
// be > 0).
func AlignDown(v, align int32) int32 {
	if align <= 0 {
		panic("geom: AlignDown requires align > 0")
	}
	return v - v%align
}

// MinTileSize is the smallest tile extent the engine will accept along
// either axis, except for the rightmost/bottommost tile of a branch
// which may be smaller (spec.md §4.4, §8 invariant 3).
const MinTileSize = 16
