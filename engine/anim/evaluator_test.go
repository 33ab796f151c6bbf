package anim

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/config"
)

func animConfig(kind config.AnimationKind, amplitude, tiltX, tiltY float32, text string) config.Config {
	return config.NewConfig(
		config.WithText(text),
		config.WithAnimation(config.Animation{
			Kind:          kind,
			Amplitude:     amplitude,
			CycleDuration: 2.0,
			TiltX:         tiltX,
			TiltY:         tiltY,
		}),
	)
}

// rotateByQuat applies a pose's rotation to a point via the model matrix.
func rotateByQuat(q [4]float32, x, y, z float32) (float32, float32, float32) {
	m := make([]float32, 16)
	common.BuildModelMatrixQ(m, 0, 0, 0, q, 1, 1, 1)
	return common.TransformPoint(m, x, y, z)
}

func quatsEquivalent(a, b [4]float32, tol float32) bool {
	// q and -q describe the same rotation, so compare via |dot|.
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if dot < 0 {
		dot = -dot
	}
	return dot > 1-tol
}

func TestEvaluateLoopSeam(t *testing.T) {
	const tEnd = 1 - 1e-7

	kinds := []struct {
		name string
		kind config.AnimationKind
	}{
		{"spinX", config.AnimSpinX},
		{"spinY", config.AnimSpinY},
		{"swing", config.AnimSwing},
		{"bounce", config.AnimBounce},
		{"pulse", config.AnimPulse},
		{"wave", config.AnimWave},
	}

	for _, tt := range kinds {
		t.Run(string(tt.kind), func(t *testing.T) {
			ev := NewEvaluator(animConfig(tt.kind, 0.4, 0.2, 0.3, "SEAM TEST"))
			start := ev.Evaluate(0)
			end := ev.Evaluate(tEnd)

			if !quatsEquivalent(start.Transform.Rotation, end.Transform.Rotation, 1e-4) {
				t.Errorf("rotation breaks at the seam: %v vs %v",
					start.Transform.Rotation, end.Transform.Rotation)
			}
			for i := 0; i < 3; i++ {
				if d := start.Transform.Translation[i] - end.Transform.Translation[i]; d > 1e-4 || d < -1e-4 {
					t.Errorf("translation axis %d breaks at the seam: %v vs %v",
						i, start.Transform.Translation, end.Transform.Translation)
				}
				if d := start.Transform.Scale[i] - end.Transform.Scale[i]; d > 1e-4 || d < -1e-4 {
					t.Errorf("scale axis %d breaks at the seam: %v vs %v",
						i, start.Transform.Scale, end.Transform.Scale)
				}
			}
			for i := range start.CharOffsets {
				if d := start.CharOffsets[i] - end.CharOffsets[i]; d > 1e-4 || d < -1e-4 {
					t.Errorf("char offset %d breaks at the seam: %v vs %v",
						i, start.CharOffsets[i], end.CharOffsets[i])
				}
			}
		})
	}
}

func TestFlipOffset(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  float64
	}{
		{"zero angle", 0, 0},
		{"just inside lower boundary", math.Pi/2 + 1e-6, math.Pi},
		{"exactly lower boundary", math.Pi / 2, 0},
		{"face fully away", math.Pi, math.Pi},
		{"just inside upper boundary", 3*math.Pi/2 - 1e-6, math.Pi},
		{"exactly upper boundary", 3 * math.Pi / 2, 0},
		{"full turn", 2 * math.Pi, 0},
		{"wraps past full turn", 2*math.Pi + math.Pi, math.Pi},
		{"negative angle normalizes", -math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flipOffset(tt.angle); got != tt.want {
				t.Errorf("flipOffset(%v) = %v, want %v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestSpinFlipThroughCycle(t *testing.T) {
	// With zero tilt the flip must be off at the cycle ends and on while the
	// face points away from the viewer.
	ev := NewEvaluator(animConfig(config.AnimSpinY, 0, 0, 0, "FLIP"))

	for _, tc := range []struct {
		t        float64
		expected float64 // expected extra rotation on the spin axis
	}{
		{0, 0},
		{0.2, 0},
		{0.3, math.Pi},
		{0.5, math.Pi},
		{0.7, math.Pi},
		{0.8, 0},
		{0.999999, 0},
	} {
		pose := ev.Evaluate(tc.t)
		want := common.QuatFromAxisAngle(0, 1, 0, float32(2*math.Pi*tc.t+tc.expected))
		if !quatsEquivalent(pose.Transform.Rotation, want, 1e-4) {
			t.Errorf("t=%v: rotation = %v, want flip %v", tc.t, pose.Transform.Rotation, tc.expected)
		}
	}
}

func TestSpinRunsInsideTiltedFrame(t *testing.T) {
	// A quarter spin about Y under a quarter tilt about X must carry the
	// X axis into the tilted frame's plane: tilt ∘ spin, not spin ∘ tilt.
	ev := NewEvaluator(animConfig(config.AnimSpinY, 0, math.Pi/2, 0, "TILT"))
	pose := ev.Evaluate(0.25)

	x, y, z := rotateByQuat(pose.Transform.Rotation, 1, 0, 0)
	if !approx(x, 0) || !approx(y, 1) || !approx(z, 0) {
		t.Errorf("rotated X axis = (%v, %v, %v), want (0, 1, 0)", x, y, z)
	}
}

func TestBounceAndPulse(t *testing.T) {
	t.Run("bounce lifts at quarter cycle and keeps tilt", func(t *testing.T) {
		ev := NewEvaluator(animConfig(config.AnimBounce, 0.3, 0, 0.4, "UP"))
		pose := ev.Evaluate(0.25)
		if !approx(pose.Transform.Translation[1], 0.3) {
			t.Errorf("bounce height = %v, want 0.3", pose.Transform.Translation[1])
		}
		want := common.QuatFromAxisAngle(0, 1, 0, 0.4)
		if !quatsEquivalent(pose.Transform.Rotation, want, 1e-5) {
			t.Errorf("bounce rotation = %v, want pure tilt", pose.Transform.Rotation)
		}
		if pose.Transform.Scale != [3]float32{1, 1, 1} {
			t.Errorf("bounce scale = %v, want unit", pose.Transform.Scale)
		}
	})

	t.Run("bounce never drops below rest", func(t *testing.T) {
		ev := NewEvaluator(animConfig(config.AnimBounce, 0.3, 0, 0, "UP"))
		for i := 0; i < 32; i++ {
			pose := ev.Evaluate(float64(i) / 32)
			if pose.Transform.Translation[1] < 0 {
				t.Fatalf("t=%v: bounce height %v below rest", float64(i)/32, pose.Transform.Translation[1])
			}
		}
	})

	t.Run("pulse scales uniformly", func(t *testing.T) {
		ev := NewEvaluator(animConfig(config.AnimPulse, 0.2, 0, 0, "PULSE"))
		pose := ev.Evaluate(0.25)
		for i := 0; i < 3; i++ {
			if !approx(pose.Transform.Scale[i], 1.2) {
				t.Errorf("scale axis %d = %v, want 1.2", i, pose.Transform.Scale[i])
			}
		}
		if pose.Transform.Translation != [3]float32{0, 0, 0} {
			t.Errorf("pulse moved the group: %v", pose.Transform.Translation)
		}
	})
}

func TestWaveOffsets(t *testing.T) {
	ev := NewEvaluator(animConfig(config.AnimWave, 0.25, 0, 0, "AB CD\nEF"))

	if ev.CharCount() != 7 {
		t.Fatalf("char count = %d, want 7 (spaces counted, newlines not)", ev.CharCount())
	}

	pose := ev.Evaluate(0.25)
	if len(pose.CharOffsets) != 7 {
		t.Fatalf("offsets length = %d, want 7", len(pose.CharOffsets))
	}

	// First character rides sin(2*pi*t) directly.
	if !approx(pose.CharOffsets[0], 0.25) {
		t.Errorf("offset[0] = %v, want 0.25", pose.CharOffsets[0])
	}

	// The wave travels: each character lags the previous one by the same phase.
	for i := 1; i < len(pose.CharOffsets); i++ {
		phase := 2 * math.Pi * float64(i) / waveCharsPerPeriod
		want := float32(0.25 * math.Sin(2*math.Pi*0.25-phase))
		if !approx(pose.CharOffsets[i], want) {
			t.Errorf("offset[%d] = %v, want %v", i, pose.CharOffsets[i], want)
		}
	}

	// Group transform carries no motion for the wave kind.
	if !quatsEquivalent(pose.Transform.Rotation, common.QuatIdentity(), 1e-6) {
		t.Errorf("wave group rotation = %v, want identity", pose.Transform.Rotation)
	}

	t.Run("offsets stay within amplitude", func(t *testing.T) {
		for i := 0; i < 24; i++ {
			pose := ev.Evaluate(float64(i) / 24)
			for j, off := range pose.CharOffsets {
				if off > 0.25+1e-6 || off < -0.25-1e-6 {
					t.Fatalf("t=%v char %d offset %v exceeds amplitude", float64(i)/24, j, off)
				}
			}
		}
	})

	t.Run("non-wave kinds carry no offsets", func(t *testing.T) {
		ev := NewEvaluator(animConfig(config.AnimSpinY, 0.3, 0, 0, "AB"))
		if pose := ev.Evaluate(0.5); pose.CharOffsets != nil {
			t.Errorf("spin produced char offsets: %v", pose.CharOffsets)
		}
	})
}

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1e-5
}
