// Package scene assembles the typeset character meshes, the group pose from
// the animation evaluator, and the camera, light, and material into the draw
// list a renderer consumes. The scene is the single place where the group
// transform and per-character placement compose.
package scene

import (
	"sync"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/anim"
	"github.com/Carmen-Shannon/kinetype/engine/camera"
	"github.com/Carmen-Shannon/kinetype/engine/light"
	"github.com/Carmen-Shannon/kinetype/engine/model"
	"github.com/Carmen-Shannon/kinetype/engine/renderer"
	"github.com/Carmen-Shannon/kinetype/engine/renderer/material"
	"github.com/Carmen-Shannon/kinetype/engine/typeset"
)

// Scene holds the typeset lettering plus everything needed to draw it: the
// current group pose, a camera, a directional light, and the shading
// material. Thread-safe for concurrent access.
type Scene interface {
	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the attached camera
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera (nil is ignored)
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	//
	// Returns:
	//   - renderer.Renderer: the attached renderer
	Renderer() renderer.Renderer

	// Light returns the scene's directional light.
	//
	// Returns:
	//   - light.Light: the light
	Light() light.Light

	// Material returns the scene's shading material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Apply stores the pose for subsequent WorldAABB, VisitWorldVertices,
	// and Drawables calls, folding the group transform into a matrix once.
	//
	// Parameters:
	//   - pose: the evaluated pose for the current time
	Apply(pose anim.Pose)

	// Pose returns the most recently applied pose. The CharOffsets slice is
	// shared, not copied; callers must not modify it.
	//
	// Returns:
	//   - anim.Pose: the current pose
	Pose() anim.Pose

	// WorldAABB returns the union of the per-character bounding boxes
	// transformed by the group matrix. Per-character wave offsets are not
	// included; containment checks account for them separately.
	//
	// Returns:
	//   - common.AABB: the world-space bounds of the posed lettering
	WorldAABB() common.AABB

	// VisitWorldVertices calls fn with the world-space position of every
	// stride-th mesh vertex under the current group pose. Wave offsets are
	// not applied. A stride below 1 is treated as 1.
	//
	// Parameters:
	//   - stride: visit every stride-th vertex of each character mesh
	//   - fn: callback receiving world-space x, y, z
	VisitWorldVertices(stride int, fn func(x, y, z float32))

	// Drawables returns the per-character draw list under the current pose,
	// wave offsets applied. The returned slice is reused across calls;
	// callers must consume it before the next Apply or Drawables call.
	//
	// Returns:
	//   - []renderer.Draw: one draw per placed character
	Drawables() []renderer.Draw
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	layout *typeset.Layout
	cam    camera.Camera
	r      renderer.Renderer
	l      light.Light
	mat    material.Material

	pose        anim.Pose
	groupMatrix [16]float32

	// Reused each Drawables call to avoid per-frame allocations.
	draws []renderer.Draw
}

var _ Scene = &scene{}

// NewScene creates a new Scene for a typeset layout. The layout, camera, and
// renderer are required and NewScene panics if any of them is nil. The light
// and material default to the package defaults unless overridden by options.
// The initial pose is the identity.
//
// Parameters:
//   - layout: the typeset character placements (must not be nil)
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(layout *typeset.Layout, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if layout == nil {
		panic("scene: NewScene requires a non-nil Layout")
	}
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:     &sync.RWMutex{},
		layout: layout,
		cam:    cam,
		r:      r,
		l:      light.NewLight(),
		mat:    material.NewMaterial(),
		draws:  make([]renderer.Draw, 0, len(layout.Chars)),
	}
	s.pose.Transform = model.IdentityTransform()
	common.BuildModelMatrixQ(s.groupMatrix[:], 0, 0, 0, common.QuatIdentity(), 1, 1, 1)

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l
}

func (s *scene) Material() material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mat
}

func (s *scene) Apply(pose anim.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pose = pose
	tr := pose.Transform
	common.BuildModelMatrixQ(
		s.groupMatrix[:],
		tr.Translation[0], tr.Translation[1], tr.Translation[2],
		tr.Rotation,
		tr.Scale[0], tr.Scale[1], tr.Scale[2],
	)
}

func (s *scene) Pose() anim.Pose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pose
}

func (s *scene) WorldAABB() common.AABB {
	s.mu.RLock()
	defer s.mu.RUnlock()

	box := common.EmptyAABB()
	for _, pc := range s.layout.Chars {
		world := s.charMatrix(pc, 0)
		box = box.Union(common.TransformAABB(world[:], pc.Model.Bounds()))
	}
	return box
}

func (s *scene) VisitWorldVertices(stride int, fn func(x, y, z float32)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stride < 1 {
		stride = 1
	}
	for _, pc := range s.layout.Chars {
		world := s.charMatrix(pc, 0)
		verts := pc.Model.Vertices()
		for i := 0; i < len(verts); i += stride {
			p := verts[i].Position
			fn(common.TransformPoint(world[:], p[0], p[1], p[2]))
		}
	}
}

func (s *scene) Drawables() []renderer.Draw {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draws = s.draws[:0]
	for _, pc := range s.layout.Chars {
		var waveY float32
		if s.pose.CharOffsets != nil && pc.Ordinal < len(s.pose.CharOffsets) {
			waveY = s.pose.CharOffsets[pc.Ordinal]
		}
		s.draws = append(s.draws, renderer.Draw{
			Model:     pc.Model,
			Transform: s.charMatrix(pc, waveY),
		})
	}
	return s.draws
}

// charMatrix composes the group matrix with a character's placement offset,
// plus the wave offset when one applies. Callers must hold the lock.
func (s *scene) charMatrix(pc typeset.PlacedChar, waveY float32) [16]float32 {
	m := s.groupMatrix
	m[12], m[13], m[14] = common.TransformPoint(
		s.groupMatrix[:],
		pc.Offset[0], pc.Offset[1]+waveY, pc.Offset[2],
	)
	return m
}
