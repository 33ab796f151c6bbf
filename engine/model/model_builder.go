package model

import (
	"github.com/Carmen-Shannon/kinetype/common"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithRune is an option builder that sets the source character of the Model.
//
// Parameters:
//   - r: the character this mesh renders
//
// Returns:
//   - ModelBuilderOption: a function that applies the rune option to a model
func WithRune(r rune) ModelBuilderOption {
	return func(m *model) {
		m.char = r
	}
}

// WithVertices is an option builder that sets the interleaved vertex slice of
// the Model. The slice is retained, not copied.
//
// Parameters:
//   - vertices: the mesh vertices to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertices option to a model
func WithVertices(vertices []GPUVertex) ModelBuilderOption {
	return func(m *model) {
		m.vertices = vertices
	}
}

// WithIndices is an option builder that sets the triangle index slice of the
// Model. The slice is retained, not copied.
//
// Parameters:
//   - indices: the triangle indices to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the indices option to a model
func WithIndices(indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.indices = indices
	}
}

// WithBounds is an option builder that sets the local bounding box of the
// Model. Use this to override the box computed from the vertices when a
// manually tuned conservative bound is preferred.
//
// Parameters:
//   - bounds: the local-space bounding box to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounds option to a model
func WithBounds(bounds common.AABB) ModelBuilderOption {
	return func(m *model) {
		m.bounds = bounds
	}
}

// WithAdvance is an option builder that sets the pen advance of the Model.
//
// Parameters:
//   - advance: the horizontal advance in world units
//
// Returns:
//   - ModelBuilderOption: a function that applies the advance option to a model
func WithAdvance(advance float32) ModelBuilderOption {
	return func(m *model) {
		m.advance = advance
	}
}
