package config

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/kinetype/common"
)

// AnimationKind selects the motion applied to the lettering group over one
// cycle.
type AnimationKind string

const (
	// AnimSpinX is a full rotation about the X axis per cycle.
	AnimSpinX AnimationKind = "spinX"
	// AnimSpinY is a full rotation about the Y axis per cycle.
	AnimSpinY AnimationKind = "spinY"
	// AnimSwing oscillates about the Y axis by the configured amplitude (radians).
	AnimSwing AnimationKind = "swing"
	// AnimBounce moves the group vertically by the configured amplitude (world units).
	AnimBounce AnimationKind = "bounce"
	// AnimPulse scales the group uniformly by 1 plus the configured amplitude.
	AnimPulse AnimationKind = "pulse"
	// AnimWave offsets each character vertically by a traveling sine wave of
	// the configured amplitude (world units).
	AnimWave AnimationKind = "wave"
)

// GradientKind selects how the face color is shaded across a glyph.
type GradientKind string

const (
	// GradientNone paints the face color flat.
	GradientNone GradientKind = "none"
	// GradientVertical blends the face color toward the edge color from the
	// bottom of each glyph to the top.
	GradientVertical GradientKind = "vertical"
)

// Style holds the visual parameters of the lettering.
type Style struct {
	// FontPath is the TTF file to typeset with. Empty selects the embedded
	// default face.
	FontPath string

	// FaceColor is the color of the front and back faces of the extrusion.
	FaceColor common.RGB

	// SideColor is the color of the extrusion walls.
	SideColor common.RGB

	// EdgeColor is the color applied within the bevel margin of the glyph
	// silhouette, and the gradient target for GradientVertical.
	EdgeColor common.RGB

	// Gradient selects the face shading mode.
	Gradient GradientKind

	// ChromaKey is the background color that the exporter turns transparent.
	ChromaKey common.RGB

	// Depth is the extrusion depth in world units (1 unit = 1 em).
	Depth float32

	// Bevel is the silhouette margin, in world units, painted with EdgeColor.
	Bevel float32

	// Roughness adjusts how sharply the directional light falls off.
	Roughness float32

	// Metalness scales the face color contribution of the light.
	Metalness float32
}

// Animation holds the motion parameters of the lettering.
type Animation struct {
	// Kind selects the motion.
	Kind AnimationKind

	// Amplitude is the motion strength. Radians for AnimSwing, world units
	// for AnimBounce and AnimWave, a scale delta for AnimPulse, unused for
	// the spin kinds.
	Amplitude float32

	// CycleDuration is the loop length in seconds.
	CycleDuration float32

	// TiltX and TiltY are the initial tilt angles in radians, applied as an
	// outer rotation around the animated motion.
	TiltX float32
	TiltY float32
}

// Camera holds the projection parameters.
type Camera struct {
	// FOV is the vertical field of view in radians.
	FOV float32
}

// Light holds the single directional light of the scene.
type Light struct {
	// Direction points from the scene toward the light. Does not need to be
	// normalized.
	Direction [3]float32

	// Ambient is the base illumination in [0, 1].
	Ambient float32

	// Diffuse is the directional illumination scale in [0, 1].
	Diffuse float32
}

// textConfig is the implementation of the Config interface.
type textConfig struct {
	text        string
	style       Style
	animation   Animation
	camera      Camera
	light       Light
	fingerprint string
}

// Config is one immutable generation configuration: the text, its style, its
// animation, and the camera and light it is rendered with. A Config is created
// once per generate action and never mutated; replacing it invalidates any
// calibration computed for the previous one, which is keyed by Fingerprint.
type Config interface {
	// Text returns the raw, possibly multi-line input text.
	//
	// Returns:
	//   - string: the input text
	Text() string

	// Style returns the visual parameters.
	//
	// Returns:
	//   - Style: the style parameters
	Style() Style

	// Animation returns the motion parameters.
	//
	// Returns:
	//   - Animation: the animation parameters
	Animation() Animation

	// Camera returns the projection parameters.
	//
	// Returns:
	//   - Camera: the camera parameters
	Camera() Camera

	// Light returns the directional light parameters.
	//
	// Returns:
	//   - Light: the light parameters
	Light() Light

	// Fingerprint returns a deterministic structural hash of every field.
	// Two configs with equal fields share a fingerprint; any difference in
	// any field produces a different one. Used as the calibration cache key.
	//
	// Returns:
	//   - string: hex-encoded fingerprint
	Fingerprint() string

	// Validate checks the config for values the pipeline cannot work with.
	//
	// Returns:
	//   - error: nil if the config is usable
	Validate() error
}

var _ Config = &textConfig{}

// NewConfig creates a new Config instance with the specified options applied
// on top of the defaults.
//
// Parameters:
//   - options: a variadic list of ConfigBuilderOption functions to configure the Config
//
// Returns:
//   - Config: a new immutable Config
func NewConfig(options ...ConfigBuilderOption) Config {
	c := &textConfig{
		style: Style{
			FaceColor: common.RGB{R: 0xe8, G: 0xe8, B: 0xe8},
			SideColor: common.RGB{R: 0x6e, G: 0x6e, B: 0x6e},
			EdgeColor: common.RGB{R: 0xff, G: 0xff, B: 0xff},
			Gradient:  GradientNone,
			ChromaKey: common.RGB{G: 0xff},
			Depth:     0.25,
			Bevel:     0.04,
			Roughness: 0.5,
			Metalness: 0.1,
		},
		animation: Animation{
			Kind:          AnimSpinY,
			Amplitude:     0.5,
			CycleDuration: 2.0,
		},
		camera: Camera{
			FOV: 50.0 * math.Pi / 180.0,
		},
		light: Light{
			Direction: [3]float32{-0.4, 0.8, 0.6},
			Ambient:   0.35,
			Diffuse:   0.75,
		},
	}
	for _, opt := range options {
		opt(c)
	}
	c.fingerprint = computeFingerprint(c)
	return c
}

func (c *textConfig) Text() string {
	return c.text
}

func (c *textConfig) Style() Style {
	return c.style
}

func (c *textConfig) Animation() Animation {
	return c.animation
}

func (c *textConfig) Camera() Camera {
	return c.camera
}

func (c *textConfig) Light() Light {
	return c.light
}

func (c *textConfig) Fingerprint() string {
	return c.fingerprint
}

func (c *textConfig) Validate() error {
	if c.text == "" {
		return fmt.Errorf("config: text is empty")
	}
	switch c.animation.Kind {
	case AnimSpinX, AnimSpinY, AnimSwing, AnimBounce, AnimPulse, AnimWave:
	default:
		return fmt.Errorf("config: unknown animation kind %q", c.animation.Kind)
	}
	switch c.style.Gradient {
	case GradientNone, GradientVertical:
	default:
		return fmt.Errorf("config: unknown gradient kind %q", c.style.Gradient)
	}
	if c.animation.CycleDuration <= 0 {
		return fmt.Errorf("config: cycle duration must be positive, got %v", c.animation.CycleDuration)
	}
	if c.animation.Amplitude < 0 {
		return fmt.Errorf("config: amplitude must not be negative, got %v", c.animation.Amplitude)
	}
	if c.style.Depth <= 0 {
		return fmt.Errorf("config: extrusion depth must be positive, got %v", c.style.Depth)
	}
	if c.camera.FOV <= 0 || c.camera.FOV >= math.Pi {
		return fmt.Errorf("config: field of view must be in (0, pi), got %v", c.camera.FOV)
	}
	return nil
}
