package typeset

import (
	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/model"
)

// PlacedChar is one visible character of a typeset layout: a glyph mesh plus
// its resting position in the lettering group's local space. Repeated
// characters share one Model; the placement is what differs.
type PlacedChar struct {
	// Model is the extruded glyph mesh, with coordinates relative to the
	// character's pen position on its baseline.
	Model model.Model

	// Offset is the pen position in group-local space. Lines are centered on
	// X, the whole block on Y, and the extrusion straddles Z zero.
	Offset [3]float32

	// Ordinal is the character's reading-order index. Spaces consume an
	// ordinal without producing a PlacedChar; newlines consume nothing. The
	// wave animation's per-character offsets are indexed by this value.
	Ordinal int
}

// Layout is the result of typesetting one config's text: every visible
// character with its placement, plus the union of their bounds at rest.
type Layout struct {
	// Chars lists the visible characters in reading order.
	Chars []PlacedChar

	// Bounds is the union of per-character bounds at their offsets, before
	// any animation is applied. Empty when the text has no visible glyphs.
	Bounds common.AABB
}
