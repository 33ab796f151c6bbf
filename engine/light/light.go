package light

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction [3]float32
	ambient   float32
	diffuse   float32
}

// Light is the scene's single directional light. It has no position: every
// fragment sees the same direction, like a distant sun. The two intensity
// terms drive a simple Lambert model shared by both renderer backends:
// the ambient term lights everything uniformly and the diffuse term scales
// with the angle between the surface normal and the light direction.
type Light interface {
	// Direction returns the normalized direction pointing from the scene
	// toward the light.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Ambient returns the base illumination applied regardless of surface
	// orientation.
	//
	// Returns:
	//   - float32: ambient intensity in [0, 1]
	Ambient() float32

	// Diffuse returns the directional illumination scale.
	//
	// Returns:
	//   - float32: diffuse intensity in [0, 1]
	Diffuse() float32

	// SetDirection sets the direction of the light and normalizes it.
	// A zero vector is ignored.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetAmbient sets the base illumination term.
	//
	// Parameters:
	//   - ambient: ambient intensity
	SetAmbient(ambient float32)

	// SetDiffuse sets the directional illumination scale.
	//
	// Parameters:
	//   - diffuse: diffuse intensity
	SetDiffuse(diffuse float32)
}

var _ Light = &lightImpl{}

// NewLight creates a directional light with a high three-quarter default
// direction and balanced intensities, then applies the options.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: normalize3(-0.4, 0.8, 0.6),
		ambient:   0.35,
		diffuse:   0.75,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) Diffuse() float32 {
	return l.diffuse
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	if x == 0 && y == 0 && z == 0 {
		return
	}
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.ambient = ambient
}

func (l *lightImpl) SetDiffuse(diffuse float32) {
	l.diffuse = diffuse
}
