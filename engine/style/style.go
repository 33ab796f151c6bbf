// Package style generates pleasing random lettering configurations from
// curated tables, for users who want a result without hand-picking colors
// and motion.
package style

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/config"
)

// weighted pairs a table entry with its selection weight.
type weighted[T any] struct {
	item   T
	weight int
}

// colorTriad is one curated face/side/edge combination. Entries stay well
// away from the default chroma key so keying never eats the lettering.
type colorTriad struct {
	face, side, edge common.RGB
}

// amplitudeRange is the curated amplitude span for one animation kind.
type amplitudeRange struct {
	kind     config.AnimationKind
	min, max float32
}

// tiltPreset is one initial orientation, radians around X and Y.
type tiltPreset struct {
	x, y float32
}

var palettes = []weighted[colorTriad]{
	{colorTriad{
		face: common.RGB{R: 0xf5, G: 0xf5, B: 0xf0},
		side: common.RGB{R: 0x8a, G: 0x8a, B: 0x85},
		edge: common.RGB{R: 0xff, G: 0xd7, B: 0x00},
	}, 3},
	{colorTriad{
		face: common.RGB{R: 0xe6, G: 0x39, B: 0x46},
		side: common.RGB{R: 0x7a, G: 0x1c, B: 0x24},
		edge: common.RGB{R: 0xff, G: 0xb4, B: 0xa2},
	}, 2},
	{colorTriad{
		face: common.RGB{R: 0x45, G: 0x7b, B: 0x9d},
		side: common.RGB{R: 0x1d, G: 0x35, B: 0x57},
		edge: common.RGB{R: 0xa8, G: 0xda, B: 0xdc},
	}, 2},
	{colorTriad{
		face: common.RGB{R: 0xf4, G: 0xa2, B: 0x61},
		side: common.RGB{R: 0x9c, G: 0x56, B: 0x1a},
		edge: common.RGB{R: 0xe7, G: 0x6f, B: 0x51},
	}, 2},
	{colorTriad{
		face: common.RGB{R: 0xcd, G: 0xb4, B: 0xdb},
		side: common.RGB{R: 0x5a, G: 0x41, B: 0x8a},
		edge: common.RGB{R: 0xff, G: 0xc8, B: 0xdd},
	}, 2},
	{colorTriad{
		face: common.RGB{R: 0x2a, G: 0x9d, B: 0x8f},
		side: common.RGB{R: 0x16, G: 0x49, B: 0x43},
		edge: common.RGB{R: 0xe9, G: 0xc4, B: 0x6a},
	}, 1},
	{colorTriad{
		face: common.RGB{R: 0x31, G: 0x31, B: 0x38},
		side: common.RGB{R: 0x18, G: 0x18, B: 0x1c},
		edge: common.RGB{R: 0xfc, G: 0xa3, B: 0x11},
	}, 1},
}

var gradients = []weighted[config.GradientKind]{
	{config.GradientNone, 2},
	{config.GradientVertical, 1},
}

var animations = []weighted[amplitudeRange]{
	{amplitudeRange{kind: config.AnimSpinY}, 3},
	{amplitudeRange{kind: config.AnimSwing, min: 0.3, max: 0.9}, 2},
	{amplitudeRange{kind: config.AnimBounce, min: 0.15, max: 0.5}, 2},
	{amplitudeRange{kind: config.AnimWave, min: 0.12, max: 0.35}, 2},
	{amplitudeRange{kind: config.AnimPulse, min: 0.08, max: 0.25}, 1},
	{amplitudeRange{kind: config.AnimSpinX}, 1},
}

var tilts = []weighted[tiltPreset]{
	{tiltPreset{0, 0}, 3},
	{tiltPreset{-0.12, 0.35}, 2},
	{tiltPreset{0.18, -0.4}, 2},
	{tiltPreset{-0.25, 0}, 1},
	{tiltPreset{0.1, 0.6}, 1},
}

// fonts lists the TTF paths the randomizer draws from. The empty path is the
// embedded default face.
var fonts = []weighted[string]{
	{"", 1},
}

// Randomize derives a full visual and motion configuration from the seed.
// Identical seeds produce identical option lists; the draws happen in a
// fixed order, so extending a table changes results only for seeds that
// land on new entries.
//
// Parameters:
//   - seed: the deterministic source of all choices
//
// Returns:
//   - []config.ConfigBuilderOption: style and animation options to apply
func Randomize(seed uint64) []config.ConfigBuilderOption {
	rng := rand.New(rand.NewPCG(seed, seed))

	triad := pick(rng, palettes)
	st := config.NewConfig().Style()
	st.FaceColor = triad.face
	st.SideColor = triad.side
	st.EdgeColor = triad.edge
	st.Gradient = pick(rng, gradients)
	st.FontPath = pick(rng, fonts)

	ar := pick(rng, animations)
	tilt := pick(rng, tilts)
	anim := config.Animation{
		Kind:          ar.kind,
		Amplitude:     ar.min + rng.Float32()*(ar.max-ar.min),
		CycleDuration: 1.5 + rng.Float32()*2,
		TiltX:         tilt.x,
		TiltY:         tilt.y,
	}

	return []config.ConfigBuilderOption{
		config.WithStyle(st),
		config.WithAnimation(anim),
	}
}

// pick selects one entry with probability proportional to its weight.
func pick[T any](rng *rand.Rand, table []weighted[T]) T {
	total := 0
	for _, w := range table {
		total += w.weight
	}
	n := rng.IntN(total)
	for _, w := range table {
		n -= w.weight
		if n < 0 {
			return w.item
		}
	}
	// Unreachable with positive weights.
	return table[len(table)-1].item
}
