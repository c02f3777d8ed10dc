package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/skinview/pkg/math"
)

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func TestFit(t *testing.T) {
	c := NewOrbitCamera(90)
	c.Fit(math.Vec3{}, math.Vec3{X: 2, Y: 4, Z: 4})

	if c.Offset != (math.Vec3{X: -1, Y: -2, Z: -2}) {
		t.Errorf("Offset = %v, want (-1,-2,-2)", c.Offset)
	}
	// diagonal is 6 and tan(45°) is 1
	if !approx(c.Distance, 3) {
		t.Errorf("Distance = %v, want 3", c.Distance)
	}
	if !approx(c.Near, 0.06) || !approx(c.Far, 600) {
		t.Errorf("clip = %v..%v, want 0.06..600", c.Near, c.Far)
	}
	if !approx(c.GridScale, 1.2) {
		t.Errorf("GridScale = %v, want 1.2", c.GridScale)
	}
}

func TestFitEmptyBox(t *testing.T) {
	c := NewOrbitCamera(35)
	c.Fit(math.Vec3{}, math.Vec3{})
	if c.Near <= 0 || c.Distance <= 0 {
		t.Errorf("empty box gave near %v distance %v", c.Near, c.Distance)
	}
}

func TestViewCentersModel(t *testing.T) {
	c := NewOrbitCamera(35)
	c.Fit(math.Vec3{X: 10, Y: 10, Z: 10}, math.Vec3{X: 12, Y: 14, Z: 16})

	got := c.View().TransformPoint([3]float32{11, 12, 13})
	if !approx(got[0], 0) || !approx(got[1], 0) || !approx(got[2], -c.Distance) {
		t.Errorf("box center in view space = %v, want (0,0,%v)", got, -c.Distance)
	}
	eye := c.Eye()
	if want := (math.Vec3{X: 11, Y: 12, Z: 13 + c.Distance}); eye.Distance(want) > 1e-2 {
		t.Errorf("Eye = %v, want %v", eye, want)
	}
}

func TestVerticalFOV(t *testing.T) {
	c := NewOrbitCamera(90)
	tests := []struct {
		name   string
		aspect float32
		want   float32
	}{
		{"landscape", 1.5, 90},
		{"square", 1, 90},
		// tan(vfov/2) = tan(45°) / 0.5
		{"portrait", 0.5, 126.8699},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.VerticalFOV(tt.aspect); !approx(got, tt.want) {
				t.Errorf("VerticalFOV(%v) = %v, want %v", tt.aspect, got, tt.want)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	c := NewOrbitCamera(35)
	c.Rotate(0, 0)
	if c.Rotation != math.QuatIdentity() {
		t.Error("zero drag should not rotate")
	}

	// a horizontal drag of 100 pixels turns one radian about Y
	c.Rotate(100, 0)
	p := c.Rotation.ToMat4().TransformPoint([3]float32{1, 0, 0})
	want := [3]float32{float32(gomath.Cos(1)), 0, -float32(gomath.Sin(1))}
	for i := range p {
		if !approx(p[i], want[i]) {
			t.Fatalf("rotated x axis = %v, want %v", p, want)
		}
	}
}

func TestZoomClampsToNear(t *testing.T) {
	c := NewOrbitCamera(35)
	c.Zoom(-1e6)
	if c.Distance != c.Near {
		t.Errorf("Distance = %v, want Near %v", c.Distance, c.Near)
	}
	c.Dolly(1e6)
	if c.Distance != c.Near {
		t.Errorf("Distance after dolly = %v, want Near %v", c.Distance, c.Near)
	}
}

func TestPanBy(t *testing.T) {
	c := NewOrbitCamera(35)
	c.PanBy(10, 10)
	if c.Pan.X <= 0 || c.Pan.Y >= 0 {
		t.Errorf("Pan = %v, want +X and -Y for a right-down drag", c.Pan)
	}
}

func TestDragModeFor(t *testing.T) {
	tests := []struct {
		shift, ctrl bool
		want        DragMode
	}{
		{false, false, DragRotate},
		{true, false, DragPan},
		{false, true, DragDolly},
		{true, true, DragPan},
	}
	for _, tt := range tests {
		if got := DragModeFor(tt.shift, tt.ctrl); got != tt.want {
			t.Errorf("DragModeFor(%v, %v) = %v, want %v", tt.shift, tt.ctrl, got, tt.want)
		}
	}
}

func TestDragDolly(t *testing.T) {
	c := NewOrbitCamera(35)
	before := c.Distance
	c.Drag(DragDolly, 0, 10)
	if c.Distance >= before {
		t.Errorf("dragging down should move closer: %v -> %v", before, c.Distance)
	}
	if c.Rotation != math.QuatIdentity() || c.Pan != (math.Vec3{}) {
		t.Error("dolly changed rotation or pan")
	}
}
