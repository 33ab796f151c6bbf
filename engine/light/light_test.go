package light

import (
	"math"
	"testing"
)

func length3(v [3]float32) float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()

	if d := length3(l.Direction()); math.Abs(float64(d)-1) > 1e-5 {
		t.Errorf("default direction length = %v, want 1", d)
	}
	if l.Ambient() <= 0 || l.Diffuse() <= 0 {
		t.Errorf("default intensities = %v, %v, want positive", l.Ambient(), l.Diffuse())
	}
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewLight()
	l.SetDirection(0, 10, 0)

	if got := l.Direction(); got != [3]float32{0, 1, 0} {
		t.Errorf("direction = %v, want unit +Y", got)
	}

	// A zero vector keeps the previous direction.
	l.SetDirection(0, 0, 0)
	if got := l.Direction(); got != [3]float32{0, 1, 0} {
		t.Errorf("zero direction overwrote the light: %v", got)
	}
}

func TestLightBuilderOptions(t *testing.T) {
	l := NewLight(
		WithDirection(3, 0, 0),
		WithAmbient(0.2),
		WithDiffuse(0.9),
	)

	if got := l.Direction(); got != [3]float32{1, 0, 0} {
		t.Errorf("direction = %v, want unit +X", got)
	}
	if l.Ambient() != 0.2 {
		t.Errorf("ambient = %v, want 0.2", l.Ambient())
	}
	if l.Diffuse() != 0.9 {
		t.Errorf("diffuse = %v, want 0.9", l.Diffuse())
	}
}

func TestGPULightMarshal(t *testing.T) {
	g := FromLight(NewLight(WithDirection(0, 0, 1), WithAmbient(0.5), WithDiffuse(0.5)))

	buf := g.Marshal()
	if len(buf) != g.Size() {
		t.Fatalf("marshaled %d bytes, struct size %d", len(buf), g.Size())
	}
	if len(buf)%16 != 0 {
		t.Errorf("buffer length %d not 16-byte aligned", len(buf))
	}
}
