package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"
)

// ViewportInput is the mouse activity over a viewport image this frame.
type ViewportInput struct {
	Hovered bool
	Dragged bool
	DX, DY  float32 // drag delta in pixels
	Wheel   float32
}

// Viewport shows a framebuffer texture at size and reports the mouse input
// over it. lastPos carries the mouse position between frames.
func Viewport(texID uint32, size imgui.Vec2, lastPos *imgui.Vec2) ViewportInput {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texID))
	imgui.ImageWithBgV(
		*texRef,
		size,
		imgui.NewVec2(0, 1), // GL textures are bottom-up
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	var in ViewportInput
	mouse := imgui.MousePos()
	if imgui.IsItemHovered() {
		in.Hovered = true
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			in.Dragged = true
			in.DX = mouse.X - lastPos.X
			in.DY = mouse.Y - lastPos.Y
		}
		in.Wheel = imgui.CurrentIO().MouseWheel()
	}
	*lastPos = mouse
	return in
}
