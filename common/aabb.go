package common

import (
	"math"
)

// AABB is an axis-aligned bounding box in 3D space.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// EmptyAABB returns an inverted box that any point extension will overwrite.
//
// Returns:
//   - AABB: box with +Inf minimums and -Inf maximums
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no volume, either because it was
// never extended or because it collapsed to inverted extents.
//
// Returns:
//   - bool: true if the box has no valid extent on any axis
func (a AABB) IsEmpty() bool {
	return a.Min[0] > a.Max[0] || a.Min[1] > a.Max[1] || a.Min[2] > a.Max[2]
}

// Width returns the extent of the box along the X axis, or 0 for an empty box.
//
// Returns:
//   - float32: max X minus min X
func (a AABB) Width() float32 {
	if a.IsEmpty() {
		return 0
	}
	return a.Max[0] - a.Min[0]
}

// ExtendPoint grows the box to include the given point.
//
// Parameters:
//   - x, y, z: point components
//
// Returns:
//   - AABB: the extended box
func (a AABB) ExtendPoint(x, y, z float32) AABB {
	if x < a.Min[0] {
		a.Min[0] = x
	}
	if y < a.Min[1] {
		a.Min[1] = y
	}
	if z < a.Min[2] {
		a.Min[2] = z
	}
	if x > a.Max[0] {
		a.Max[0] = x
	}
	if y > a.Max[1] {
		a.Max[1] = y
	}
	if z > a.Max[2] {
		a.Max[2] = z
	}
	return a
}

// Union merges two boxes into the smallest box containing both. Empty inputs
// are ignored.
//
// Parameters:
//   - b: box to merge with
//
// Returns:
//   - AABB: the merged box
func (a AABB) Union(b AABB) AABB {
	if b.IsEmpty() {
		return a
	}
	if a.IsEmpty() {
		return b
	}
	a = a.ExtendPoint(b.Min[0], b.Min[1], b.Min[2])
	a = a.ExtendPoint(b.Max[0], b.Max[1], b.Max[2])
	return a
}

// Translate shifts the box by the given offset. Empty boxes pass through
// unchanged.
//
// Parameters:
//   - dx, dy, dz: offset components
//
// Returns:
//   - AABB: the shifted box
func (a AABB) Translate(dx, dy, dz float32) AABB {
	if a.IsEmpty() {
		return a
	}
	a.Min[0] += dx
	a.Min[1] += dy
	a.Min[2] += dz
	a.Max[0] += dx
	a.Max[1] += dy
	a.Max[2] += dz
	return a
}

// InflateY grows the box symmetrically along the Y axis. Used to account for
// vertical motion that is not reflected in the box itself.
//
// Parameters:
//   - amount: distance added above and below
//
// Returns:
//   - AABB: the inflated box
func (a AABB) InflateY(amount float32) AABB {
	if a.IsEmpty() {
		return a
	}
	a.Min[1] -= amount
	a.Max[1] += amount
	return a
}

// Corners returns the eight corner points of the box.
//
// Returns:
//   - [8][3]float32: corner coordinates in no particular order
func (a AABB) Corners() [8][3]float32 {
	return [8][3]float32{
		{a.Min[0], a.Min[1], a.Min[2]},
		{a.Max[0], a.Min[1], a.Min[2]},
		{a.Min[0], a.Max[1], a.Min[2]},
		{a.Max[0], a.Max[1], a.Min[2]},
		{a.Min[0], a.Min[1], a.Max[2]},
		{a.Max[0], a.Min[1], a.Max[2]},
		{a.Min[0], a.Max[1], a.Max[2]},
		{a.Max[0], a.Max[1], a.Max[2]},
	}
}

// TransformAABB maps a box through a 4x4 column-major transform and returns
// the axis-aligned box of the transformed corners. The result over-estimates
// rotated extents, which is the correct direction for containment tests.
//
// Parameters:
//   - m: transform matrix (16 elements, column-major)
//   - a: source box
//
// Returns:
//   - AABB: axis-aligned box containing the transformed source box
func TransformAABB(m []float32, a AABB) AABB {
	if a.IsEmpty() {
		return a
	}
	out := EmptyAABB()
	for _, c := range a.Corners() {
		x, y, z := TransformPoint(m, c[0], c[1], c[2])
		out = out.ExtendPoint(x, y, z)
	}
	return out
}
