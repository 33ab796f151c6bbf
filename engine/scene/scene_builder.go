package scene

import (
	"github.com/Carmen-Shannon/kinetype/engine/light"
	"github.com/Carmen-Shannon/kinetype/engine/renderer/material"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLight sets the scene's directional light.
//
// Parameters:
//   - l: the light to attach (nil is ignored)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.l = l
		}
	}
}

// WithMaterial sets the scene's shading material.
//
// Parameters:
//   - m: the material to attach (nil is ignored)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterial(m material.Material) SceneBuilderOption {
	return func(s *scene) {
		if m != nil {
			s.mat = m
		}
	}
}
