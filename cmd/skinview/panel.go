package main

import (
	"fmt"
	"path/filepath"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/model"
)

// renderPanel draws the model information and the playback controls.
func (a *App) renderPanel() {
	if imgui.Button("Open...") {
		a.openDialog()
	}
	imgui.SameLine()
	imgui.TextDisabled("(or drop a file)")
	imgui.Separator()

	m := a.player.Model()
	if m == nil {
		imgui.Text("No model loaded")
		a.renderHelp()
		return
	}

	imgui.Text(filepath.Base(m.Path))
	vertices, triangles := model.MeshInfo(m)
	imgui.Text(fmt.Sprintf("Nodes: %d", len(m.Nodes)))
	imgui.Text(fmt.Sprintf("Vertices: %d  Triangles: %d", vertices, triangles))
	imgui.Text(fmt.Sprintf("Materials: %d  Textures: %d", len(m.Materials), m.Textures.Len()))
	size := m.Bounds.Size()
	imgui.Text(fmt.Sprintf("Size: %.2f x %.2f x %.2f", size.X, size.Y, size.Z))
	imgui.Separator()

	imgui.Text("Settings: [" + a.player.Settings() + "]")
	a.renderPlayback(m)
	imgui.Separator()

	imgui.Checkbox("Grid (G)", &a.player.ShowGrid)
	imgui.Checkbox("Bounds (B)", &a.player.ShowBounds)
	imgui.Checkbox("Two sided (D)", &a.player.TwoSided)
	reversed := a.player.Reversed
	if imgui.Checkbox("Reverse draw order (F)", &reversed) {
		a.player.ToggleReverse()
	}
	a.renderLight()
	imgui.Separator()

	if imgui.TreeNodeExStrV(fmt.Sprintf("Node Hierarchy (%d)", len(m.Nodes)), imgui.TreeNodeFlagsNone) {
		renderNode(m.Root)
		imgui.TreePop()
	}
	if imgui.TreeNodeExStrV(fmt.Sprintf("Materials (%d)", len(m.Materials)), imgui.TreeNodeFlagsNone) {
		for i, mat := range m.Materials {
			renderMaterial(i, mat)
		}
		imgui.TreePop()
	}
	a.renderHelp()
}

func (a *App) renderPlayback(m *model.Model) {
	if !m.HasAnim() {
		imgui.TextDisabled("No animation")
		return
	}

	label := "Pause (Space)"
	if !a.player.Animate {
		label = "Play (Space)"
	}
	if imgui.Button(label) {
		a.player.TogglePlay()
	}
	imgui.SameLine()
	noAnim := a.player.NoAnim
	if imgui.Checkbox("Rest pose (M)", &noAnim) {
		a.player.ToggleNoAnim()
	}

	speed := float32(a.player.Speed)
	imgui.SetNextItemWidth(-1)
	if imgui.SliderFloatV("##Speed", &speed, config.MinSpeed, config.MaxSpeed, "%.2fx", imgui.SliderFlagsLogarithmic) {
		a.player.SetSpeed(float64(speed))
	}

	clip := m.Animations[a.player.Clip]
	if imgui.BeginCombo("Clip", clipLabel(a.player.Clip, clip)) {
		for i, anim := range m.Animations {
			if imgui.SelectableBoolV(clipLabel(i, anim), i == a.player.Clip, 0, imgui.NewVec2(0, 0)) {
				a.player.SelectClip(i)
			}
		}
		imgui.EndCombo()
	}
	if clip.Duration > 0 {
		t := a.player.Time - float64(int(a.player.Time/clip.Duration))*clip.Duration
		imgui.Text(fmt.Sprintf("Time: %.2f / %.2f s", t, clip.Duration))
	}
}

func (a *App) renderLight() {
	v := &a.cfg.Viewer
	changed := imgui.SliderFloatV("Light yaw", &v.LightAzimuth, -180, 180, "%.0f deg", imgui.SliderFlagsNone)
	if imgui.SliderFloatV("Light pitch", &v.LightElevation, -90, 90, "%.0f deg", imgui.SliderFlagsNone) {
		v.LightElevation = lighting.ClampElevation(v.LightElevation)
		changed = true
	}
	if changed {
		a.renderer.LightDir = lighting.Direction(v.LightAzimuth, v.LightElevation)
	}
}

func clipLabel(i int, anim *model.Animation) string {
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("clip %d", i)
	}
	return fmt.Sprintf("%s (%.2fs)", name, anim.Duration)
}

func renderNode(n *model.Node) {
	flags := imgui.TreeNodeFlagsOpenOnArrow | imgui.TreeNodeFlagsSpanAvailWidth
	if len(n.Children) == 0 {
		flags |= imgui.TreeNodeFlagsLeaf | imgui.TreeNodeFlagsNoTreePushOnOpen
	}
	label := n.Name
	if label == "" {
		label = "(unnamed)"
	}
	if len(n.Meshes) > 0 {
		label = fmt.Sprintf("%s [%d mesh]", label, len(n.Meshes))
	}

	open := imgui.TreeNodeExStrV(label+"##"+fmt.Sprintf("%p", n), flags)
	if imgui.IsItemHovered() {
		p := n.Global.Translation()
		imgui.SetTooltip(fmt.Sprintf("global position %.3f %.3f %.3f", p.X, p.Y, p.Z))
	}
	if open && len(n.Children) > 0 {
		for _, c := range n.Children {
			renderNode(c)
		}
		imgui.TreePop()
	}
}

func renderMaterial(i int, mat *model.Material) {
	name := mat.Name
	if name == "" {
		name = fmt.Sprintf("material %d", i)
	}
	if !imgui.TreeNodeExStrV(fmt.Sprintf("%s##mat%d", name, i), imgui.TreeNodeFlagsNone) {
		return
	}
	d := mat.Diffuse
	imgui.Text(fmt.Sprintf("Diffuse: %.2f %.2f %.2f %.2f", d[0], d[1], d[2], d[3]))
	imgui.Text(fmt.Sprintf("Shininess: %.1f", mat.Shininess))
	if mat.HasTexture {
		imgui.Text(fmt.Sprintf("Texture: %s (%s/%s)", mat.TextureName, mat.WrapS, mat.WrapT))
	} else {
		imgui.TextDisabled("No texture")
	}
	imgui.TreePop()
}

func (a *App) renderHelp() {
	imgui.Separator()
	if imgui.TreeNodeExStrV("Controls", imgui.TreeNodeFlagsNone) {
		imgui.TextDisabled("Drag: rotate  Shift+drag: pan")
		imgui.TextDisabled("Ctrl+drag or wheel: distance")
		imgui.TextDisabled("R reset  Space play/pause  M rest pose")
		imgui.TextDisabled("G grid  B bounds  D two sided  F reverse")
		imgui.TextDisabled(". faster  , slower  O open  F12 screenshot")
		imgui.TreePop()
	}
}
