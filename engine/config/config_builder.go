package config

// ConfigBuilderOption is a functional option for configuring a Config via NewConfig.
type ConfigBuilderOption func(*textConfig)

// WithText is an option builder that sets the input text of the Config.
//
// Parameters:
//   - text: the raw, possibly multi-line text to typeset
//
// Returns:
//   - ConfigBuilderOption: a function that applies the text option to a config
func WithText(text string) ConfigBuilderOption {
	return func(c *textConfig) {
		c.text = text
	}
}

// WithStyle is an option builder that replaces the whole style block of the Config.
//
// Parameters:
//   - style: the style parameters to set
//
// Returns:
//   - ConfigBuilderOption: a function that applies the style option to a config
func WithStyle(style Style) ConfigBuilderOption {
	return func(c *textConfig) {
		c.style = style
	}
}

// WithAnimation is an option builder that replaces the whole animation block of the Config.
//
// Parameters:
//   - animation: the animation parameters to set
//
// Returns:
//   - ConfigBuilderOption: a function that applies the animation option to a config
func WithAnimation(animation Animation) ConfigBuilderOption {
	return func(c *textConfig) {
		c.animation = animation
	}
}

// WithCamera is an option builder that replaces the camera block of the Config.
//
// Parameters:
//   - camera: the camera parameters to set
//
// Returns:
//   - ConfigBuilderOption: a function that applies the camera option to a config
func WithCamera(camera Camera) ConfigBuilderOption {
	return func(c *textConfig) {
		c.camera = camera
	}
}

// WithLight is an option builder that replaces the light block of the Config.
//
// Parameters:
//   - light: the light parameters to set
//
// Returns:
//   - ConfigBuilderOption: a function that applies the light option to a config
func WithLight(light Light) ConfigBuilderOption {
	return func(c *textConfig) {
		c.light = light
	}
}

// WithAnimationKind is an option builder that sets only the animation kind,
// keeping the other animation parameters.
//
// Parameters:
//   - kind: the animation kind to set
//
// Returns:
//   - ConfigBuilderOption: a function that applies the kind option to a config
func WithAnimationKind(kind AnimationKind) ConfigBuilderOption {
	return func(c *textConfig) {
		c.animation.Kind = kind
	}
}

// WithFontPath is an option builder that sets only the font path, keeping the
// other style parameters.
//
// Parameters:
//   - path: TTF file path, or empty for the embedded default face
//
// Returns:
//   - ConfigBuilderOption: a function that applies the font path option to a config
func WithFontPath(path string) ConfigBuilderOption {
	return func(c *textConfig) {
		c.style.FontPath = path
	}
}
