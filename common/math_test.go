package common

import (
	"math"
	"testing"
)

const eps = 1e-5

func approxEq(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestQuatFromAxisAngle(t *testing.T) {
	tests := []struct {
		name    string
		axis    [3]float32
		angle   float32
		in      [3]float32
		want    [3]float32
	}{
		{
			name:  "quarter turn about Z maps X to Y",
			axis:  [3]float32{0, 0, 1},
			angle: math.Pi / 2,
			in:    [3]float32{1, 0, 0},
			want:  [3]float32{0, 1, 0},
		},
		{
			name:  "quarter turn about Y maps X to negative Z",
			axis:  [3]float32{0, 1, 0},
			angle: math.Pi / 2,
			in:    [3]float32{1, 0, 0},
			want:  [3]float32{0, 0, -1},
		},
		{
			name:  "zero axis is identity",
			axis:  [3]float32{0, 0, 0},
			angle: math.Pi,
			in:    [3]float32{1, 2, 3},
			want:  [3]float32{1, 2, 3},
		},
		{
			name:  "full turn returns to start",
			axis:  [3]float32{0, 1, 0},
			angle: 2 * math.Pi,
			in:    [3]float32{1, 0, 0},
			want:  [3]float32{1, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromAxisAngle(tt.axis[0], tt.axis[1], tt.axis[2], tt.angle)
			m := make([]float32, 16)
			BuildModelMatrixQ(m, 0, 0, 0, q, 1, 1, 1)
			gx, gy, gz := TransformPoint(m, tt.in[0], tt.in[1], tt.in[2])
			if !approxEq(gx, tt.want[0], eps) || !approxEq(gy, tt.want[1], eps) || !approxEq(gz, tt.want[2], eps) {
				t.Errorf("got (%v, %v, %v), want %v", gx, gy, gz, tt.want)
			}
		})
	}
}

func TestQuatMulMatchesMatrixProduct(t *testing.T) {
	a := QuatFromAxisAngle(0, 1, 0, 0.7)
	b := QuatFromAxisAngle(1, 0, 0, -1.3)

	ma := make([]float32, 16)
	mb := make([]float32, 16)
	mab := make([]float32, 16)
	BuildModelMatrixQ(ma, 0, 0, 0, a, 1, 1, 1)
	BuildModelMatrixQ(mb, 0, 0, 0, b, 1, 1, 1)
	Mul4(mab, ma, mb)

	mq := make([]float32, 16)
	BuildModelMatrixQ(mq, 0, 0, 0, QuatMul(a, b), 1, 1, 1)

	for i := range mab {
		if !approxEq(mab[i], mq[i], eps) {
			t.Fatalf("element %d: matrix product %v, quaternion product %v", i, mab[i], mq[i])
		}
	}
}

func TestQuatNormalize(t *testing.T) {
	q := QuatNormalize([4]float32{2, 0, 0, 2})
	lenSq := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if !approxEq(lenSq, 1, eps) {
		t.Errorf("normalized length squared = %v, want 1", lenSq)
	}
	if q := QuatNormalize([4]float32{0, 0, 0, 0}); q != QuatIdentity() {
		t.Errorf("zero quaternion normalized to %v, want identity", q)
	}
}

func TestBuildModelMatrixQTranslationScale(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrixQ(m, 2, -3, 4, QuatIdentity(), 2, 2, 2)
	x, y, z := TransformPoint(m, 1, 1, 1)
	if !approxEq(x, 4, eps) || !approxEq(y, -1, eps) || !approxEq(z, 6, eps) {
		t.Errorf("got (%v, %v, %v), want (4, -1, 6)", x, y, z)
	}
}

func TestProjectPoint(t *testing.T) {
	proj := make([]float32, 16)
	view := make([]float32, 16)
	vp := make([]float32, 16)
	Perspective(proj, math.Pi/3, 1.0, 0.1, 100.0)
	LookAt(view, 0, 0, 5, 0, 0, 0, 0, 1, 0)
	Mul4(vp, proj, view)

	t.Run("origin projects to screen center", func(t *testing.T) {
		x, y, _, ok := ProjectPoint(vp, 0, 0, 0)
		if !ok {
			t.Fatal("origin not projectable")
		}
		if !approxEq(x, 0, eps) || !approxEq(y, 0, eps) {
			t.Errorf("got ndc (%v, %v), want (0, 0)", x, y)
		}
	})

	t.Run("point above center has positive ndc y", func(t *testing.T) {
		_, y, _, ok := ProjectPoint(vp, 0, 1, 0)
		if !ok || y <= 0 {
			t.Errorf("got ndc y = %v (ok=%v), want > 0", y, ok)
		}
	})

	t.Run("point behind the eye is rejected", func(t *testing.T) {
		if _, _, _, ok := ProjectPoint(vp, 0, 0, 10); ok {
			t.Error("point behind the camera reported as projectable")
		}
	})

	t.Run("depth grows toward the far plane", func(t *testing.T) {
		_, _, zNear, okN := ProjectPoint(vp, 0, 0, 4.9)
		_, _, zFar, okF := ProjectPoint(vp, 0, 0, -50)
		if !okN || !okF {
			t.Fatal("projection failed")
		}
		if zNear < 0 || zFar > 1 || zNear >= zFar {
			t.Errorf("depth out of order: near %v, far %v", zNear, zFar)
		}
	})
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrixQ(m, 1, 2, 3, QuatFromAxisAngle(0, 1, 0, 0.9), 2, 2, 2)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatal("invertible matrix reported singular")
	}

	id := make([]float32, 16)
	Mul4(id, m, inv)
	want := make([]float32, 16)
	Identity(want)
	for i := range id {
		if !approxEq(id[i], want[i], 1e-4) {
			t.Fatalf("element %d of M*inv(M) = %v, want %v", i, id[i], want[i])
		}
	}

	var singular [16]float32
	if Invert4(inv, singular[:]) {
		t.Error("zero matrix reported invertible")
	}
}

func TestTransformDirection(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrixQ(m, 10, 20, 30, QuatFromAxisAngle(0, 0, 1, math.Pi/2), 3, 3, 3)
	x, y, z := TransformDirection(m, 1, 0, 0)
	if !approxEq(x, 0, eps) || !approxEq(y, 1, eps) || !approxEq(z, 0, eps) {
		t.Errorf("got (%v, %v, %v), want (0, 1, 0)", x, y, z)
	}
	lenSq := x*x + y*y + z*z
	if !approxEq(lenSq, 1, eps) {
		t.Errorf("direction not normalized: length squared %v", lenSq)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 7, 9); got != 7 {
		t.Errorf("Coalesce = %d, want 7", got)
	}
	if got := Coalesce("", "a"); got != "a" {
		t.Errorf("Coalesce = %q, want \"a\"", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce = %d, want 0", got)
	}
}

func TestClampLerp(t *testing.T) {
	if got := Clamp(float32(1.5), 0, 1); got != 1 {
		t.Errorf("Clamp = %v, want 1", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp = %v, want 0", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp = %v, want 3", got)
	}
}
