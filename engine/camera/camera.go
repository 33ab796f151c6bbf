package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/kinetype/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	distance float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera holds perspective settings and a dolly position on the +Z axis,
// looking at the origin with Y up. The calibrator drives the distance; the
// renderer and bounds prober consume the matrices.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Distance returns the dolly distance from the origin.
	//
	// Returns:
	//   - float32: the distance along +Z
	Distance() float32

	// Position returns the camera's world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Frustum returns the view frustum extracted from the current
	// view-projection matrix, for containment tests.
	//
	// Returns:
	//   - common.Frustum: the six normalized frustum planes
	Frustum() common.Frustum

	// Project maps a world-space point to normalized screen coordinates with
	// the origin at the top-left, so sy grows downward.
	//
	// Parameters:
	//   - x, y, z: world-space point components
	//
	// Returns:
	//   - sx, sy: screen coordinates, inside the viewport when within [0, 1]
	//   - ok: false if the point is on or behind the camera plane
	Project(x, y, z float32) (sx, sy float32, ok bool)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetDistance moves the dolly along +Z and recomputes matrices.
	//
	// Parameters:
	//   - d: distance from the origin
	SetDistance(d float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings, parked at
// a conservative distance until the calibrator takes over.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		distance: 5.0,
		fov:      45.0 * (math.Pi / 180.0), // radians
		aspect:   1.0,
		near:     0.1,
		far:      100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Distance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return 0, 0, c.distance
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustumFromMatrix(c.viewProjectionMatrix[:])
}

func (c *cameraImpl) Project(x, y, z float32) (sx, sy float32, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ndcX, ndcY, _, ok := common.ProjectPoint(c.viewProjectionMatrix[:], x, y, z)
	if !ok {
		return 0, 0, false
	}

	// NDC y grows upward, screen y downward.
	return (ndcX + 1) / 2, (1 - ndcY) / 2, true
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetDistance(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance = d
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, and view-projection
// matrices from the dolly distance and perspective settings.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		0, 0, c.distance,
		0, 0, 0,
		0, 1, 0,
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
