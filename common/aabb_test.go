package common

import (
	"testing"
)

func TestAABBExtendAndUnion(t *testing.T) {
	a := EmptyAABB()
	if !a.IsEmpty() {
		t.Fatal("fresh box should be empty")
	}
	if a.Width() != 0 {
		t.Errorf("empty box width = %v, want 0", a.Width())
	}

	a = a.ExtendPoint(1, 2, 3)
	a = a.ExtendPoint(-1, 0, 5)
	if a.IsEmpty() {
		t.Fatal("extended box should not be empty")
	}
	if a.Min != [3]float32{-1, 0, 3} || a.Max != [3]float32{1, 2, 5} {
		t.Errorf("box = %+v, want min (-1,0,3) max (1,2,5)", a)
	}
	if a.Width() != 2 {
		t.Errorf("width = %v, want 2", a.Width())
	}

	b := AABB{Min: [3]float32{4, 4, 4}, Max: [3]float32{6, 6, 6}}
	u := a.Union(b)
	if u.Min != [3]float32{-1, 0, 3} || u.Max != [3]float32{6, 6, 6} {
		t.Errorf("union = %+v", u)
	}

	if got := a.Union(EmptyAABB()); got != a {
		t.Errorf("union with empty box changed the box: %+v", got)
	}
	if got := EmptyAABB().Union(b); got != b {
		t.Errorf("union of empty with box = %+v, want %+v", got, b)
	}
}

func TestAABBInflateY(t *testing.T) {
	a := AABB{Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1}}
	got := a.InflateY(0.5)
	if got.Min[1] != -0.5 || got.Max[1] != 1.5 {
		t.Errorf("inflated Y range [%v, %v], want [-0.5, 1.5]", got.Min[1], got.Max[1])
	}
	if got.Min[0] != 0 || got.Max[0] != 1 || got.Min[2] != 0 || got.Max[2] != 1 {
		t.Error("inflate touched non-Y axes")
	}
	if got := EmptyAABB().InflateY(1); !got.IsEmpty() {
		t.Error("inflating an empty box should keep it empty")
	}
}

func TestTransformAABB(t *testing.T) {
	a := AABB{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}

	t.Run("translation shifts the box", func(t *testing.T) {
		m := make([]float32, 16)
		BuildModelMatrixQ(m, 10, 0, 0, QuatIdentity(), 1, 1, 1)
		got := TransformAABB(m, a)
		if got.Min != [3]float32{9, -1, -1} || got.Max != [3]float32{11, 1, 1} {
			t.Errorf("translated box = %+v", got)
		}
	})

	t.Run("rotation grows the axis-aligned extent", func(t *testing.T) {
		m := make([]float32, 16)
		BuildModelMatrixQ(m, 0, 0, 0, QuatFromAxisAngle(0, 1, 0, 0.785398), 1, 1, 1)
		got := TransformAABB(m, a)
		if got.Width() <= a.Width() {
			t.Errorf("rotated box width %v, want > %v", got.Width(), a.Width())
		}
	})

	t.Run("empty box stays empty", func(t *testing.T) {
		m := make([]float32, 16)
		Identity(m)
		if got := TransformAABB(m, EmptyAABB()); !got.IsEmpty() {
			t.Errorf("transformed empty box = %+v", got)
		}
	})
}

func TestRGB(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    RGB
		wantErr bool
	}{
		{"with hash", "#ff8000", RGB{255, 128, 0}, false},
		{"without hash", "00ff00", RGB{0, 255, 0}, false},
		{"uppercase", "#FFFFFF", RGB{255, 255, 255}, false},
		{"too short", "#fff", RGB{}, true},
		{"garbage", "#zzzzzz", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRGB(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRGB(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseRGB(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}

	if got := (RGB{255, 128, 0}).Hex(); got != "#ff8000" {
		t.Errorf("Hex = %q, want #ff8000", got)
	}
	if d := (RGB{0, 0, 0}).DistSq(RGB{1, 2, 3}); d != 14 {
		t.Errorf("DistSq = %d, want 14", d)
	}
	if !(RGB{10, 10, 10}).WithinTolerance(RGB{12, 8, 10}, 2) {
		t.Error("colors within tolerance reported outside")
	}
	if (RGB{10, 10, 10}).WithinTolerance(RGB{13, 10, 10}, 2) {
		t.Error("colors outside tolerance reported within")
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{MinX: -0.2, MinY: 0.3, MaxX: 1.4, MaxY: 0.9}.Clamp01()
	if r.MinX != 0 || r.MaxX != 1 || r.MinY != 0.3 || r.MaxY != 0.9 {
		t.Errorf("clamped rect = %+v", r)
	}
	if !approxEq(r.Width(), 1, eps) || !approxEq(r.Height(), 0.6, eps) {
		t.Errorf("width %v height %v", r.Width(), r.Height())
	}
}
