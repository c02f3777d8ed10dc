// Package render draws a model, the reference grid and the bounding box into
// an offscreen framebuffer with OpenGL 4.1.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/engine/camera"
	"github.com/Faultbox/skinview/internal/engine/debug"
	"github.com/Faultbox/skinview/internal/engine/framebuffer"
	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/model"
	"github.com/Faultbox/skinview/internal/engine/shader"
	"github.com/Faultbox/skinview/internal/engine/shader/glsl"
	"github.com/Faultbox/skinview/internal/logger"
	"github.com/Faultbox/skinview/pkg/math"
)

// Vertex attribute locations shared with the GLSL sources.
const (
	attrPosition = iota
	attrNormal
	attrTexCoord
	attrColor
	attrBoneIndex
	attrBoneWeight
)

// Frame holds the per-frame drawing options.
type Frame struct {
	Camera     *camera.OrbitCamera
	Background [4]float32
	ShowGrid   bool
	ShowBounds bool
	TwoSided   bool
}

// Renderer owns the GPU copies of one model.
type Renderer struct {
	// LightDir is the view-space direction towards the light.
	LightDir [3]float32

	fb       *framebuffer.Framebuffer
	programs *shader.Library
	bonesUBO uint32
	white    uint32
	lines    lineBuffer

	meshes   map[*model.Mesh]*gpuMesh
	textures map[string]uint32
}

// New creates the renderer and its offscreen target. A GL context must be
// current.
func New(width, height int32) (*Renderer, error) {
	fb, err := framebuffer.New(width, height)
	if err != nil {
		return nil, err
	}
	lib, err := shader.NewLibrary()
	if err != nil {
		fb.Destroy()
		return nil, err
	}
	r := &Renderer{
		LightDir: lighting.Direction(lighting.DefaultAzimuth, lighting.DefaultElevation),
		fb:       fb,
		programs: lib,
		meshes:   make(map[*model.Mesh]*gpuMesh),
		textures: make(map[string]uint32),
	}

	size := glsl.MaxBones * int(unsafe.Sizeof(math.Mat4{}))
	gl.GenBuffers(1, &r.bonesUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.bonesUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.STREAM_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferRange(gl.UNIFORM_BUFFER, shader.BonesBinding, r.bonesUBO, 0, size)

	r.white = uploadTexture(1, 1, []byte{255, 255, 255, 255})
	r.lines.init()
	return r, nil
}

// Resize changes the size of the offscreen target.
func (r *Renderer) Resize(width, height int32) {
	r.fb.Resize(width, height)
}

// Framebuffer returns the offscreen target.
func (r *Renderer) Framebuffer() *framebuffer.Framebuffer {
	return r.fb
}

// Upload replaces the GPU data with the meshes and textures of m.
func (r *Renderer) Upload(m *model.Model) {
	r.Release()
	if m == nil {
		return
	}
	for _, n := range m.Nodes {
		for _, mesh := range n.Meshes {
			if mesh.Body.NumIndices() == 0 {
				continue
			}
			r.meshes[mesh] = uploadMesh(mesh)
			if len(mesh.Bones) > glsl.MaxBones {
				logger.Warn("mesh has more bones than the shader supports",
					zap.String("mesh", mesh.Name),
					zap.Int("bones", len(mesh.Bones)),
					zap.Int("max", glsl.MaxBones))
			}
		}
	}
	if m.Textures != nil {
		for _, name := range m.Textures.Names() {
			img, _ := m.Textures.Get(name)
			b := img.RGBA.Bounds()
			r.textures[name] = uploadTexture(int32(b.Dx()), int32(b.Dy()), img.RGBA.Pix)
		}
	}
	logger.Debug("model uploaded", zap.Int("meshes", len(r.meshes)), zap.Int("textures", len(r.textures)))
}

// Release frees the GPU data of the current model.
func (r *Renderer) Release() {
	for mesh, g := range r.meshes {
		g.delete()
		delete(r.meshes, mesh)
	}
	for name, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, name)
	}
}

// Draw renders m into the offscreen target and returns its color texture.
// m may be nil, in which case only the overlays are drawn.
func (r *Renderer) Draw(m *model.Model, f Frame) uint32 {
	restore := r.fb.Begin(f.Background)
	defer restore()

	projection := f.Camera.Projection(r.fb.Aspect())
	view := f.Camera.View()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	if f.TwoSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if m != nil {
		r.drawModel(m, projection, view)
	}

	gl.Disable(gl.CULL_FACE)
	var lines []debug.LineVertex
	if f.ShowGrid {
		lines = append(lines, debug.GridLines(f.Camera.GridScale)...)
	}
	if f.ShowBounds && m != nil {
		lines = append(lines, debug.BoundsLines(m.Bounds.Min, m.Bounds.Max, 0)...)
	}
	if len(lines) > 0 {
		p := r.programs.Line()
		p.Use()
		p.SetMat4("uProjection", projection)
		p.SetMat4("uView", view)
		r.lines.draw(lines)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return r.fb.ColorTexture()
}

func (r *Renderer) drawModel(m *model.Model, projection, view math.Mat4) {
	for _, n := range m.Nodes {
		for _, mesh := range n.Meshes {
			g, ok := r.meshes[mesh]
			if !ok {
				continue
			}
			p := r.programs.Get(mesh.ShaderIndex)
			if p == nil {
				continue
			}
			p.Use()
			p.SetMat4("uProjection", projection)
			p.SetMat4("uView", view)
			p.SetMat4("uModel", n.Global)
			p.SetVec3("uLightDir", r.LightDir)

			mat := m.Materials[mesh.MaterialIndex]
			p.SetVec4("uDiffuse", mat.Diffuse)
			p.SetVec4("uAmbient", mat.Ambient)
			p.SetVec4("uSpecular", mat.Specular)
			p.SetVec4("uEmission", mat.Emission)
			p.SetFloat("uShininess", mat.Shininess)

			if mat.HasTexture {
				r.bindTexture(mat)
				p.SetInt("uTex0", 0)
			}
			if mesh.HasBone() {
				r.uploadBones(mesh.BoneMatrices)
			}

			gl.BindVertexArray(g.vao)
			gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
		}
	}
}

func (r *Renderer) bindTexture(mat *model.Material) {
	tex, ok := r.textures[mat.TextureName]
	if !ok {
		tex = r.white
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(mat.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(mat.WrapT))
}

func wrapMode(w model.WrapMode) int32 {
	if w == model.WrapClamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func (r *Renderer) uploadBones(bones []math.Mat4) {
	if len(bones) > glsl.MaxBones {
		bones = bones[:glsl.MaxBones]
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.bonesUBO)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(bones)*int(unsafe.Sizeof(math.Mat4{})), gl.Ptr(bones))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Destroy releases every GL resource.
func (r *Renderer) Destroy() {
	r.Release()
	r.lines.delete()
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	if r.bonesUBO != 0 {
		gl.DeleteBuffers(1, &r.bonesUBO)
	}
	r.programs.Delete()
	r.fb.Destroy()
}

// gpuMesh is the vertex array of one mesh.
type gpuMesh struct {
	vao     uint32
	buffers []uint32
	count   int32
}

func uploadMesh(mesh *model.Mesh) *gpuMesh {
	body := mesh.Body
	g := &gpuMesh{count: int32(body.NumIndices())}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	g.floatAttrib(attrPosition, 3, len(body.Positions)*12, gl.Ptr(body.Positions))
	if len(body.Normals) > 0 {
		g.floatAttrib(attrNormal, 3, len(body.Normals)*12, gl.Ptr(body.Normals))
	} else {
		gl.VertexAttrib3f(attrNormal, 0, 0, 1)
	}
	if len(body.UVs) > 0 {
		g.floatAttrib(attrTexCoord, 2, len(body.UVs)*8, gl.Ptr(body.UVs))
	}
	if len(body.Colors) > 0 {
		g.floatAttrib(attrColor, 4, len(body.Colors)*16, gl.Ptr(body.Colors))
	} else {
		gl.VertexAttrib4f(attrColor, 1, 1, 1, 1)
	}
	if mesh.HasBone() {
		buf := g.buffer(gl.ARRAY_BUFFER, len(body.BoneIndices)*16, gl.Ptr(body.BoneIndices))
		gl.BindBuffer(gl.ARRAY_BUFFER, buf)
		gl.VertexAttribIPointerWithOffset(attrBoneIndex, model.MaxInfluences, gl.INT, 0, 0)
		gl.EnableVertexAttribArray(attrBoneIndex)
		g.floatAttrib(attrBoneWeight, model.MaxInfluences, len(body.BoneWeights)*16, gl.Ptr(body.BoneWeights))
	}

	g.buffer(gl.ELEMENT_ARRAY_BUFFER, len(body.Indices)*4, gl.Ptr(body.Indices))
	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) buffer(target uint32, size int, data unsafe.Pointer) uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(target, buf)
	gl.BufferData(target, size, data, gl.STATIC_DRAW)
	g.buffers = append(g.buffers, buf)
	return buf
}

func (g *gpuMesh) floatAttrib(loc uint32, components int32, size int, data unsafe.Pointer) {
	g.buffer(gl.ARRAY_BUFFER, size, data)
	gl.VertexAttribPointerWithOffset(loc, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(loc)
}

func (g *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(int32(len(g.buffers)), &g.buffers[0])
}

func uploadTexture(width, height int32, pix []byte) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return tex
}

// lineBuffer streams overlay lines.
type lineBuffer struct {
	vao, vbo uint32
}

func (l *lineBuffer) init() {
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)

	stride := int32(unsafe.Sizeof(debug.LineVertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
}

func (l *lineBuffer) draw(vertices []debug.LineVertex) {
	gl.BindVertexArray(l.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	size := len(vertices) * int(unsafe.Sizeof(debug.LineVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)))
}

func (l *lineBuffer) delete() {
	if l.vao != 0 {
		gl.DeleteVertexArrays(1, &l.vao)
		gl.DeleteBuffers(1, &l.vbo)
	}
}

// String describes the uploaded model for the debug panel.
func (r *Renderer) String() string {
	return fmt.Sprintf("%d meshes, %d textures", len(r.meshes), len(r.textures))
}
