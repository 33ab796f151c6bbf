package calibrate

import (
	"github.com/Carmen-Shannon/kinetype/common"
)

// frustumContains reports whether every corner of the box lies inside the
// frustum of the given view-projection matrix. An empty box never fits.
//
// Parameters:
//   - box: the world-space bounds to test
//   - viewProj: combined projection * view matrix (16 elements, column-major)
//
// Returns:
//   - bool: true when the box is fully contained
func frustumContains(box common.AABB, viewProj []float32) bool {
	if box.IsEmpty() {
		return false
	}
	f := common.ExtractFrustumFromMatrix(viewProj)
	return f.ContainsAABB(box)
}

// waveInflated grows the box vertically by the wave amplitude. Per-character
// wave offsets are not part of the group-level bounds, so containment checks
// have to account for them here. A non-positive amplitude returns the box
// unchanged.
//
// Parameters:
//   - box: the group-level world bounds
//   - amplitude: the wave amplitude in world units
//
// Returns:
//   - common.AABB: the inflated box
func waveInflated(box common.AABB, amplitude float32) common.AABB {
	if amplitude <= 0 || box.IsEmpty() {
		return box
	}
	return box.InflateY(amplitude)
}
