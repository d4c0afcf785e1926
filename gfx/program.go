package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program represents a linked OpenGL program. Uniform locations are looked
// up on first use and cached.
type Program struct {
	ProgramID uint32

	uniforms map[string]int32
}

// NewProgram compiles, attaches and links the given shaders.
func NewProgram(shaders ...*ShaderConfig) (*Program, error) {
	prog := gl.CreateProgram()
	if prog == 0 {
		return nil, fmt.Errorf("no programs available")
	}

	var compiled []*Shader
	defer func() {
		for _, sh := range compiled {
			gl.DetachShader(prog, sh.ShaderID)
			gl.DeleteShader(sh.ShaderID)
		}
	}()
	for _, cfg := range shaders {
		sh, err := NewShader(cfg)
		if err != nil {
			gl.DeleteProgram(prog)
			return nil, err
		}
		compiled = append(compiled, sh)
		gl.AttachShader(prog, sh.ShaderID)
	}

	gl.BindFragDataLocation(prog, 0, gl.Str("fragColor\x00"))
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}

	return &Program{ProgramID: prog, uniforms: make(map[string]int32)}, nil
}

// Use makes p the current program.
func (p *Program) Use() {
	gl.UseProgram(p.ProgramID)
}

// Uniform returns the location of a uniform, -1 if the program has none of
// that name. Setting a uniform at -1 is a no-op in GL.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ProgramID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// Attribute returns the location of a vertex attribute.
func (p *Program) Attribute(name string) (uint32, error) {
	loc := gl.GetAttribLocation(p.ProgramID, gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found", name)
	}
	return uint32(loc), nil
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Uniform(name), v)
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Uniform(name), v)
}

func (p *Program) SetVec2(name string, x, y float32) {
	gl.Uniform2f(p.Uniform(name), x, y)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.Uniform(name), v[0], v[1], v[2])
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(p.Uniform(name), 1, false, &m[0])
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

// Delete frees the program.
func (p *Program) Delete() {
	gl.DeleteProgram(p.ProgramID)
}
