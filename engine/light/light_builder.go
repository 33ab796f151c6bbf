package light

import "math"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing; a zero vector is ignored.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		if x == 0 && y == 0 && z == 0 {
			return
		}
		l.direction = normalize3(x, y, z)
	}
}

// WithAmbient is an option builder that sets the base illumination term.
//
// Parameters:
//   - ambient: ambient intensity
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(ambient float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = ambient
	}
}

// WithDiffuse is an option builder that sets the directional illumination scale.
//
// Parameters:
//   - diffuse: diffuse intensity
//
// Returns:
//   - LightBuilderOption: a function that applies the diffuse option to a lightImpl
func WithDiffuse(diffuse float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.diffuse = diffuse
	}
}

// normalize3 normalizes a 3-component vector. Returns a zero vector if the input
// has zero length.
func normalize3(x, y, z float32) [3]float32 {
	length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if length == 0 {
		return [3]float32{0, 0, 0}
	}
	inv := 1.0 / length
	return [3]float32{x * inv, y * inv, z * inv}
}
