// Package shader provides OpenGL program compilation and the library of
// model shader variants.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/engine/model"
	"github.com/Faultbox/skinview/internal/engine/shader/glsl"
	"github.com/Faultbox/skinview/internal/logger"
	"github.com/Faultbox/skinview/pkg/math"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// Program is a linked program with cached uniform locations.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links a program.
func NewProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{ID: id, uniforms: make(map[string]int32)}, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the location of a uniform, or -1 when the program does
// not use it.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 sets a matrix uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, m.Ptr())
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v [3]float32) {
	gl.Uniform3f(p.Uniform(name), v[0], v[1], v[2])
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v [4]float32) {
	gl.Uniform4f(p.Uniform(name), v[0], v[1], v[2], v[3])
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, f float32) {
	gl.Uniform1f(p.Uniform(name), f)
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, i int32) {
	gl.Uniform1i(p.Uniform(name), i)
}

// BindBlock attaches a uniform block to a binding point. Programs without
// the block are left alone.
func (p *Program) BindBlock(name string, binding uint32) {
	idx := gl.GetUniformBlockIndex(p.ID, gl.Str(name+"\x00"))
	if idx != gl.INVALID_INDEX {
		gl.UniformBlockBinding(p.ID, idx, binding)
	}
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// BonesBinding is the uniform buffer binding point of the bone matrices.
const BonesBinding = 0

// Library compiles model programs on first use, one per shader index.
type Library struct {
	programs [model.NumShaders]*Program
	failed   [model.NumShaders]bool
	line     *Program
}

// NewLibrary compiles the line program used by the overlays. Model
// programs are compiled lazily by Get.
func NewLibrary() (*Library, error) {
	vs, err := glsl.Vertex("line")
	if err != nil {
		return nil, err
	}
	fs, err := glsl.Fragment("line")
	if err != nil {
		return nil, err
	}
	line, err := NewProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	return &Library{line: line}, nil
}

// Line returns the overlay program.
func (l *Library) Line() *Program {
	return l.line
}

// Get returns the program for a shader index, compiling it on first use.
// A variant that failed to compile returns nil and is not retried.
func (l *Library) Get(index int) *Program {
	if index < 0 || index >= model.NumShaders || l.failed[index] {
		return nil
	}
	if p := l.programs[index]; p != nil {
		return p
	}

	pair := model.ShaderTable[index]
	p, err := l.compile(pair)
	if err != nil {
		l.failed[index] = true
		logger.Error("shader variant failed",
			zap.Int("index", index),
			zap.String("vertex", pair.Vertex),
			zap.String("fragment", pair.Fragment),
			zap.Error(err))
		return nil
	}
	p.BindBlock(glsl.BonesBlock, BonesBinding)
	l.programs[index] = p
	logger.Debug("shader variant compiled", zap.Int("index", index), zap.String("vertex", pair.Vertex))
	return p
}

func (l *Library) compile(pair model.ShaderPair) (*Program, error) {
	vs, err := glsl.Vertex(pair.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := glsl.Fragment(pair.Fragment)
	if err != nil {
		return nil, err
	}
	return NewProgram(vs, fs)
}

// Delete releases every compiled program.
func (l *Library) Delete() {
	for i, p := range l.programs {
		if p != nil {
			p.Delete()
			l.programs[i] = nil
		}
	}
	l.failed = [model.NumShaders]bool{}
	if l.line != nil {
		l.line.Delete()
	}
}
