// package anim holds the pure animation math: the transform evaluator that
// maps normalized time to a pose, and the frame clock that produces normalized
// time from either wall-clock ticks or explicit stepping.
package anim

import (
	"math"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/model"
)

// waveCharsPerPeriod controls how many characters one full sine period of the
// wave spans across the text.
const waveCharsPerPeriod = 15.0

// Pose is the evaluated state of the lettering group at one normalized time:
// a rigid transform plus scale for the whole group and, for the wave kind
// only, one vertical offset per character.
type Pose struct {
	// Transform is the group-level transform.
	Transform model.Transform

	// CharOffsets holds one vertical offset per character in reading order,
	// including spaces. Nil for every kind except the wave.
	CharOffsets []float32
}

// evaluator is the implementation of the Evaluator interface.
type evaluator struct {
	kind      config.AnimationKind
	amplitude float64
	tiltX     float64
	tiltY     float64
	tilt      [4]float32
	charCount int
}

// Evaluator maps normalized time t in [0, 1) to a Pose for one fixed config.
// The mapping is pure and periodic: poses at t and t+1 describe the same
// orientation, position, and scale, so a cycle loops seamlessly.
type Evaluator interface {
	// Evaluate computes the pose at normalized time t.
	//
	// Parameters:
	//   - t: normalized cycle progress in [0, 1)
	//
	// Returns:
	//   - Pose: the group transform and, for the wave kind, per-character offsets
	Evaluate(t float64) Pose

	// CharCount returns the number of character slots the evaluator animates,
	// spaces included, newlines excluded.
	//
	// Returns:
	//   - int: the character count
	CharCount() int
}

var _ Evaluator = &evaluator{}

// NewEvaluator builds an Evaluator for the given config. The initial tilt is
// folded into a quaternion once; Evaluate is allocation-free for every kind
// except the wave, which returns a fresh offsets slice per call.
//
// Parameters:
//   - cfg: the generation config supplying animation kind, amplitude, cycle
//     tilt angles, and the text (for the wave's character count)
//
// Returns:
//   - Evaluator: an evaluator bound to the config's animation parameters
func NewEvaluator(cfg config.Config) Evaluator {
	anim := cfg.Animation()

	count := 0
	for _, r := range cfg.Text() {
		if r != '\n' {
			count++
		}
	}

	tilt := common.QuatMul(
		common.QuatFromAxisAngle(0, 1, 0, anim.TiltY),
		common.QuatFromAxisAngle(1, 0, 0, anim.TiltX),
	)

	return &evaluator{
		kind:      anim.Kind,
		amplitude: float64(anim.Amplitude),
		tiltX:     float64(anim.TiltX),
		tiltY:     float64(anim.TiltY),
		tilt:      tilt,
		charCount: count,
	}
}

func (e *evaluator) CharCount() int {
	return e.charCount
}

func (e *evaluator) Evaluate(t float64) Pose {
	pose := Pose{Transform: model.IdentityTransform()}
	pose.Transform.Rotation = e.tilt

	switch e.kind {
	case config.AnimSpinX:
		angle := 2*math.Pi*t + flipOffset(2*math.Pi*t+e.tiltX)
		spin := common.QuatFromAxisAngle(1, 0, 0, float32(angle))
		pose.Transform.Rotation = common.QuatMul(e.tilt, spin)

	case config.AnimSpinY:
		angle := 2*math.Pi*t + flipOffset(2*math.Pi*t+e.tiltY)
		spin := common.QuatFromAxisAngle(0, 1, 0, float32(angle))
		pose.Transform.Rotation = common.QuatMul(e.tilt, spin)

	case config.AnimSwing:
		angle := e.amplitude * math.Sin(2*math.Pi*t)
		swing := common.QuatFromAxisAngle(0, 1, 0, float32(angle))
		pose.Transform.Rotation = common.QuatMul(e.tilt, swing)

	case config.AnimBounce:
		pose.Transform.Translation[1] = float32(e.amplitude * math.Abs(math.Sin(2*math.Pi*t)))

	case config.AnimPulse:
		s := float32(1 + e.amplitude*math.Sin(2*math.Pi*t))
		pose.Transform.Scale = [3]float32{s, s, s}

	case config.AnimWave:
		if e.charCount > 0 {
			offsets := make([]float32, e.charCount)
			for i := range offsets {
				phase := 2 * math.Pi * float64(i) / waveCharsPerPeriod
				offsets[i] = float32(e.amplitude * math.Sin(2*math.Pi*t-phase))
			}
			pose.CharOffsets = offsets
		}
	}

	return pose
}

// flipOffset keeps spinning letterforms laterally legible. When the total
// rotation angle puts the face past edge-on, the glyphs would read mirrored;
// adding a half turn re-mirrors them while the silhouette stays identical.
// The offset switches exactly at the edge-on angles, where a half-turn jump
// is invisible. Open-interval comparison: the boundary angles get no flip.
//
// Parameters:
//   - angle: total rotation on the spin axis in radians (animation plus tilt)
//
// Returns:
//   - float64: 0 or pi, the extra rotation to add on the spin axis
func flipOffset(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a > math.Pi/2 && a < 3*math.Pi/2 {
		return math.Pi
	}
	return 0
}
