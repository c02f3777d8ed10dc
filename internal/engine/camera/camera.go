// Package camera provides the orbit camera of the model viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/skinview/pkg/math"
)

// Input sensitivities, scaled by the visible half height at the model.
const (
	rotateSensitivity = 0.01
	panSensitivity    = 0.004
	dollySensitivity  = 0.008
	zoomSensitivity   = 0.5
)

// OrbitCamera looks at a model that is moved so its bounding box center sits
// at the origin. The view is
//
//	T(0, 0, -Distance) * T(Pan) * R(Rotation) * T(Offset)
type OrbitCamera struct {
	FOV float32 // horizontal field of view in degrees for landscape windows

	Distance float32
	Pan      math.Vec3
	Rotation math.Quat
	Offset   math.Vec3 // negated bounding box center

	Near, Far float32
	GridScale float32 // spacing of the reference grid
}

// NewOrbitCamera creates a camera with the given field of view, fitted to a
// unit box.
func NewOrbitCamera(fov float32) *OrbitCamera {
	c := &OrbitCamera{FOV: fov}
	c.Fit(math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
	return c
}

// Fit frames the box lo..hi so that it fills the view. Rotation and pan
// are reset. Clip planes and grid spacing follow the box diagonal; an empty
// box is framed as a unit box.
func (c *OrbitCamera) Fit(lo, hi math.Vec3) {
	c.Offset = lo.Add(hi).Scale(-0.5)

	size := hi.Sub(lo).Length()
	if size <= 0 {
		size = 1
	}
	c.Distance = (size / 2) / c.tanHalfFOV()
	c.Rotation = math.QuatIdentity()
	c.Pan = math.Vec3{}

	c.Near = size * 0.01
	c.Far = size * 100
	c.GridScale = size / 5
}

func (c *OrbitCamera) tanHalfFOV() float32 {
	return float32(gomath.Tan(float64(c.FOV) * gomath.Pi / 360))
}

// VerticalFOV returns the vertical field of view in degrees. Landscape
// windows use FOV directly; portrait windows widen it so the horizontal
// field of view stays FOV.
func (c *OrbitCamera) VerticalFOV(aspect float32) float32 {
	if aspect >= 1 || aspect <= 0 {
		return c.FOV
	}
	halfH := c.tanHalfFOV() / aspect
	return float32(gomath.Atan(float64(halfH)) * 2 * 180 / gomath.Pi)
}

// Projection returns the perspective matrix for a viewport aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	fovY := c.VerticalFOV(aspect) * gomath.Pi / 180
	return math.Perspective(fovY, aspect, c.Near, c.Far)
}

// View returns the view matrix.
func (c *OrbitCamera) View() math.Mat4 {
	return math.Translate(0, 0, -c.Distance).
		Mul(math.Translate(c.Pan.X, c.Pan.Y, c.Pan.Z)).
		Mul(c.Rotation.ToMat4()).
		Mul(math.Translate(c.Offset.X, c.Offset.Y, c.Offset.Z))
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() math.Vec3 {
	return math.V3(c.View().Inverse().TransformPoint([3]float32{}))
}

// halfHeight is the visible half height at the orbit distance.
func (c *OrbitCamera) halfHeight() float32 {
	return c.tanHalfFOV() * c.Distance
}

// Rotate turns the model by a mouse drag of (dx, dy) pixels. The rotation
// axis is perpendicular to the drag in screen space.
func (c *OrbitCamera) Rotate(dx, dy float32) {
	l := float32(gomath.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	axis := math.Vec3{X: dy / l, Y: dx / l}
	r := math.QuatFromAxisAngle(axis, l*rotateSensitivity)
	c.Rotation = r.Mul(c.Rotation).Normalize()
}

// PanBy moves the model in the screen plane. Screen y points down.
func (c *OrbitCamera) PanBy(dx, dy float32) {
	t := c.halfHeight() * panSensitivity
	c.Pan = c.Pan.Add(math.Vec3{X: dx * t, Y: -dy * t})
}

// Dolly moves the camera along the view axis by a vertical drag.
func (c *OrbitCamera) Dolly(dy float32) {
	c.Distance = max(c.Distance-dy*c.halfHeight()*dollySensitivity, c.Near)
}

// Zoom applies a mouse wheel step. Positive steps move away from the model.
func (c *OrbitCamera) Zoom(wheel float32) {
	c.Distance = max(c.Distance+wheel*c.halfHeight()*zoomSensitivity, c.Near)
}

// DragMode selects what a left-button drag does.
type DragMode int

const (
	DragRotate DragMode = iota
	DragPan
	DragDolly
)

// DragModeFor maps the held modifiers to a drag mode. Shift takes
// precedence over Ctrl.
func DragModeFor(shift, ctrl bool) DragMode {
	switch {
	case shift:
		return DragPan
	case ctrl:
		return DragDolly
	default:
		return DragRotate
	}
}

// Drag applies a mouse drag of (dx, dy) pixels in the given mode.
func (c *OrbitCamera) Drag(mode DragMode, dx, dy float32) {
	switch mode {
	case DragPan:
		c.PanBy(dx, dy)
	case DragDolly:
		c.Dolly(dy)
	default:
		c.Rotate(dx, dy)
	}
}
