package material

import (
	"testing"

	"github.com/Carmen-Shannon/kinetype/engine/light"
)

func TestShadeFacingLightIsBrightest(t *testing.T) {
	l := light.NewLight(light.WithDirection(0, 0, 1), light.WithAmbient(0.2), light.WithDiffuse(0.8))
	m := NewMaterial(WithRoughness(0.5), WithMetalness(0))

	base := [3]float32{0.5, 0.5, 0.5}
	facing := m.Shade(l, [3]float32{0, 0, 1}, base)
	angled := m.Shade(l, [3]float32{0, 1, 0}, base)
	away := m.Shade(l, [3]float32{0, 0, -1}, base)

	if facing[0] <= angled[0] {
		t.Errorf("facing %v not brighter than perpendicular %v", facing, angled)
	}
	if angled[0] != away[0] {
		t.Errorf("surfaces seeing no light differ: %v vs %v", angled, away)
	}

	// Fully shadowed faces keep the ambient floor.
	want := base[0] * 0.2
	if d := away[0] - want; d > 1e-5 || d < -1e-5 {
		t.Errorf("shadowed channel = %v, want ambient floor %v", away[0], want)
	}
}

func TestShadeClampsToOne(t *testing.T) {
	l := light.NewLight(light.WithDirection(0, 0, 1), light.WithAmbient(1), light.WithDiffuse(1))
	m := NewMaterial(WithMetalness(1))

	out := m.Shade(l, [3]float32{0, 0, 1}, [3]float32{1, 1, 1})
	for i, c := range out {
		if c > 1 {
			t.Errorf("channel %d = %v, want clamped to 1", i, c)
		}
	}
}

func TestRoughnessSharpensFalloff(t *testing.T) {
	l := light.NewLight(light.WithDirection(0, 0, 1), light.WithAmbient(0), light.WithDiffuse(1))
	smooth := NewMaterial(WithRoughness(0), WithMetalness(0))
	rough := NewMaterial(WithRoughness(1), WithMetalness(0))

	// A grazing surface darkens faster on the rougher material.
	grazing := [3]float32{0, 0.9701425, 0.2425356} // unit vector, small z
	base := [3]float32{1, 1, 1}

	if s, r := smooth.Shade(l, grazing, base)[0], rough.Shade(l, grazing, base)[0]; r >= s {
		t.Errorf("rough grazing %v not darker than smooth %v", r, s)
	}
}

func TestGPUMaterialMarshal(t *testing.T) {
	g := FromMaterial(NewMaterial(WithRoughness(0.25), WithMetalness(0.75)))

	if g.Roughness != 0.25 || g.Metalness != 0.75 {
		t.Errorf("copy = %+v, want the material scalars", g)
	}
	buf := g.Marshal()
	if len(buf) != g.Size() || len(buf)%16 != 0 {
		t.Errorf("marshaled %d bytes, struct size %d", len(buf), g.Size())
	}
}
