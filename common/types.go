// package common contains common types that are used throughout this engine and
// exporter. They are not interface-wrapped structs, just plain structs that
// express commonly used data-types.
package common

import (
	"fmt"
	"strings"
)

// RGB is an 8-bit-per-channel color. It is the unit of the chroma key, the
// style colors, and the exported palette.
type RGB struct {
	R, G, B uint8
}

// Vec3 converts the color to normalized float components for shading.
//
// Returns:
//   - [3]float32: components scaled to [0, 1]
func (c RGB) Vec3() [3]float32 {
	return [3]float32{float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0}
}

// DistSq returns the squared Euclidean distance between two colors in RGB
// space. Used for nearest-palette-entry lookups.
//
// Parameters:
//   - o: color to compare against
//
// Returns:
//   - int: sum of squared per-channel differences
func (c RGB) DistSq(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// WithinTolerance reports whether every channel of the color is within tol of
// the corresponding channel of o.
//
// Parameters:
//   - o: reference color
//   - tol: maximum per-channel absolute difference
//
// Returns:
//   - bool: true if all three channels are within tolerance
func (c RGB) WithinTolerance(o RGB, tol uint8) bool {
	return absDiff(c.R, o.R) <= tol && absDiff(c.G, o.G) <= tol && absDiff(c.B, o.B) <= tol
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// ParseRGB parses a hex color string of the form "#rrggbb" or "rrggbb".
//
// Parameters:
//   - s: hex color string, case-insensitive
//
// Returns:
//   - RGB: parsed color
//   - error: error if the string is not a 6-digit hex color
func ParseRGB(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#rrggbb".
//
// Returns:
//   - string: lowercase hex representation
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Rect is a normalized screen-space rectangle with origin at the top-left.
// All components are expected to stay in [0, 1].
type Rect struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// Width returns the horizontal extent of the rectangle.
//
// Returns:
//   - float32: max X minus min X
func (r Rect) Width() float32 {
	return r.MaxX - r.MinX
}

// Height returns the vertical extent of the rectangle.
//
// Returns:
//   - float32: max Y minus min Y
func (r Rect) Height() float32 {
	return r.MaxY - r.MinY
}

// Clamp01 clamps all four components to [0, 1].
//
// Returns:
//   - Rect: the clamped rectangle
func (r Rect) Clamp01() Rect {
	r.MinX = Clamp(r.MinX, 0, 1)
	r.MinY = Clamp(r.MinY, 0, 1)
	r.MaxX = Clamp(r.MaxX, 0, 1)
	r.MaxY = Clamp(r.MaxY, 0, 1)
	return r
}
