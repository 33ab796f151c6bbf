package typeset

import (
	"testing"

	"github.com/Carmen-Shannon/kinetype/engine/config"
)

func typesetText(t *testing.T, text string) *Layout {
	t.Helper()
	ts := NewTypesetter(WithMeshWorkers(2))
	layout, err := ts.Typeset(config.NewConfig(config.WithText(text)))
	if err != nil {
		t.Fatalf("Typeset(%q) failed: %v", text, err)
	}
	return layout
}

func TestTypesetPlacesCharsLeftToRight(t *testing.T) {
	layout := typesetText(t, "AB")

	if len(layout.Chars) != 2 {
		t.Fatalf("placed %d chars, want 2", len(layout.Chars))
	}
	a, b := layout.Chars[0], layout.Chars[1]
	if a.Ordinal != 0 || b.Ordinal != 1 {
		t.Errorf("ordinals = %d, %d, want 0, 1", a.Ordinal, b.Ordinal)
	}
	if a.Offset[0] >= b.Offset[0] {
		t.Errorf("pen did not advance: A at x=%v, B at x=%v", a.Offset[0], b.Offset[0])
	}
	if a.Offset[1] != b.Offset[1] {
		t.Errorf("same-line chars at different baselines: %v vs %v", a.Offset[1], b.Offset[1])
	}
	if a.Model == nil || b.Model == nil {
		t.Fatal("placed char without a mesh")
	}
	if a.Model.IndexCount() == 0 {
		t.Error("glyph mesh has no indices")
	}
}

func TestTypesetSpacesConsumeOrdinals(t *testing.T) {
	layout := typesetText(t, "A B")

	if len(layout.Chars) != 2 {
		t.Fatalf("placed %d chars, want 2 (space places nothing)", len(layout.Chars))
	}
	if layout.Chars[0].Ordinal != 0 || layout.Chars[1].Ordinal != 2 {
		t.Errorf("ordinals = %d, %d, want 0, 2", layout.Chars[0].Ordinal, layout.Chars[1].Ordinal)
	}
}

func TestTypesetMultiline(t *testing.T) {
	layout := typesetText(t, "A\nB")

	if len(layout.Chars) != 2 {
		t.Fatalf("placed %d chars, want 2", len(layout.Chars))
	}
	a, b := layout.Chars[0], layout.Chars[1]

	// Newlines consume no ordinal.
	if a.Ordinal != 0 || b.Ordinal != 1 {
		t.Errorf("ordinals = %d, %d, want 0, 1", a.Ordinal, b.Ordinal)
	}
	if b.Offset[1] >= a.Offset[1] {
		t.Errorf("second line not below the first: %v vs %v", b.Offset[1], a.Offset[1])
	}
	if gap := a.Offset[1] - b.Offset[1]; !approx(gap, lineGapEm) {
		t.Errorf("baseline gap = %v, want %v", gap, float32(lineGapEm))
	}

	// The block is centered on Y.
	if mid := layout.Bounds.Min[1] + layout.Bounds.Max[1]; mid > 1e-5 || mid < -1e-5 {
		t.Errorf("block not centered on Y: bounds [%v, %v]", layout.Bounds.Min[1], layout.Bounds.Max[1])
	}
}

func TestTypesetCentersEachLine(t *testing.T) {
	layout := typesetText(t, "I\nWWW")

	if len(layout.Chars) != 4 {
		t.Fatalf("placed %d chars, want 4", len(layout.Chars))
	}
	// The narrow line starts closer to center than the wide one.
	if layout.Chars[0].Offset[0] <= layout.Chars[1].Offset[0] {
		t.Errorf("narrow line starts at x=%v, wide line at x=%v",
			layout.Chars[0].Offset[0], layout.Chars[1].Offset[0])
	}
}

func TestTypesetSharesRepeatedGlyphs(t *testing.T) {
	layout := typesetText(t, "AA")

	if len(layout.Chars) != 2 {
		t.Fatalf("placed %d chars, want 2", len(layout.Chars))
	}
	if layout.Chars[0].Model != layout.Chars[1].Model {
		t.Error("repeated rune did not share its mesh")
	}
	if layout.Chars[0].Offset == layout.Chars[1].Offset {
		t.Error("repeated rune shares its placement")
	}
}

func TestTypesetEmptyText(t *testing.T) {
	ts := NewTypesetter()
	layout, err := ts.Typeset(config.NewConfig(config.WithText("")))
	if err != nil {
		t.Fatalf("Typeset failed: %v", err)
	}
	if len(layout.Chars) != 0 {
		t.Errorf("empty text placed %d chars", len(layout.Chars))
	}
	if !layout.Bounds.IsEmpty() {
		t.Errorf("empty text produced bounds %+v", layout.Bounds)
	}
}

func TestTypesetMissingFontFile(t *testing.T) {
	ts := NewTypesetter()
	cfg := config.NewConfig(
		config.WithText("HI"),
		config.WithFontPath("testdata/does-not-exist.ttf"),
	)
	if _, err := ts.Typeset(cfg); err == nil {
		t.Fatal("expected an error for a missing font file")
	}
}

func TestTypesetDeterministic(t *testing.T) {
	ts := NewTypesetter(WithMeshWorkers(4))
	cfg := config.NewConfig(config.WithText("LOOP GIF"))

	first, err := ts.Typeset(cfg)
	if err != nil {
		t.Fatalf("Typeset failed: %v", err)
	}
	second, err := ts.Typeset(cfg)
	if err != nil {
		t.Fatalf("Typeset failed: %v", err)
	}

	if len(first.Chars) != len(second.Chars) {
		t.Fatalf("char counts differ: %d vs %d", len(first.Chars), len(second.Chars))
	}
	for i := range first.Chars {
		if first.Chars[i].Offset != second.Chars[i].Offset {
			t.Errorf("char %d offset differs: %v vs %v",
				i, first.Chars[i].Offset, second.Chars[i].Offset)
		}
		if len(first.Chars[i].Model.Vertices()) != len(second.Chars[i].Model.Vertices()) {
			t.Errorf("char %d vertex count differs", i)
		}
	}
	if first.Bounds != second.Bounds {
		t.Errorf("bounds differ: %+v vs %+v", first.Bounds, second.Bounds)
	}
}
