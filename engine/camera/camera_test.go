package camera

import (
	"testing"

	"github.com/Carmen-Shannon/kinetype/common"
)

func TestProjectCentersOrigin(t *testing.T) {
	c := NewCamera(WithDistance(5))

	sx, sy, ok := c.Project(0, 0, 0)
	if !ok {
		t.Fatal("origin projected as not visible")
	}
	if !approx(sx, 0.5) || !approx(sy, 0.5) {
		t.Errorf("origin projects to (%v, %v), want screen center", sx, sy)
	}
}

func TestProjectScreenAxes(t *testing.T) {
	c := NewCamera(WithDistance(5))

	// Screen origin is top-left: world up means smaller sy.
	_, syUp, ok := c.Project(0, 1, 0)
	if !ok || syUp >= 0.5 {
		t.Errorf("world-up point projects to sy=%v (ok=%v), want above center", syUp, ok)
	}

	sxRight, _, ok := c.Project(1, 0, 0)
	if !ok || sxRight <= 0.5 {
		t.Errorf("world-right point projects to sx=%v (ok=%v), want right of center", sxRight, ok)
	}
}

func TestProjectRejectsPointsBehindCamera(t *testing.T) {
	c := NewCamera(WithDistance(5))

	if _, _, ok := c.Project(0, 0, 10); ok {
		t.Error("point behind the dolly reported as visible")
	}
}

func TestDollyOutShrinksProjection(t *testing.T) {
	c := NewCamera(WithDistance(3))
	sxNear, _, ok := c.Project(1, 0, 0)
	if !ok {
		t.Fatal("probe point not visible at near distance")
	}

	c.SetDistance(6)
	sxFar, _, ok := c.Project(1, 0, 0)
	if !ok {
		t.Fatal("probe point not visible at far distance")
	}

	if sxFar-0.5 >= sxNear-0.5 {
		t.Errorf("dolly out did not pull the point toward center: %v vs %v", sxFar, sxNear)
	}
}

func TestWideAspectCompressesX(t *testing.T) {
	square := NewCamera(WithDistance(5), WithAspect(1))
	wide := NewCamera(WithDistance(5), WithAspect(2))

	sxSquare, _, _ := square.Project(1, 0, 0)
	sxWide, _, _ := wide.Project(1, 0, 0)

	if sxWide-0.5 >= sxSquare-0.5 {
		t.Errorf("wider aspect should compress x: %v vs %v", sxWide, sxSquare)
	}
}

func TestFrustumContainment(t *testing.T) {
	c := NewCamera(WithDistance(10))
	f := c.Frustum()

	small := common.AABB{Min: [3]float32{-1, -1, -0.2}, Max: [3]float32{1, 1, 0.2}}
	if !f.ContainsAABB(small) {
		t.Error("small centered box should fit at distance 10")
	}

	huge := common.AABB{Min: [3]float32{-50, -50, -1}, Max: [3]float32{50, 50, 1}}
	if f.ContainsAABB(huge) {
		t.Error("oversized box reported as contained")
	}
}

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1e-4
}
