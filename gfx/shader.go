package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Shader is a compiled shader stage.
type Shader struct {
	ShaderID uint32
	Typ      ShaderType
}

// ShaderConfig is used to create new shaders
type ShaderConfig struct {
	Source string
	Typ    ShaderType
}

// ShaderType tells NewShader what type of shader it's creating.
type ShaderType int

// Types of shaders
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
)

func (t ShaderType) String() string {
	if t == VertexShaderType {
		return "vertex"
	}
	return "fragment"
}

// NewShader loads and compiles a new shader, but does not attach it to a program.
func NewShader(cfg *ShaderConfig) (*Shader, error) {
	id, err := compileShader(cfg.Source, cfg.Typ)
	if err != nil {
		return nil, err
	}
	return &Shader{ShaderID: id, Typ: cfg.Typ}, nil
}

func compileShader(src string, typ ShaderType) (uint32, error) {
	var glShaderType uint32
	switch typ {
	case VertexShaderType:
		glShaderType = gl.VERTEX_SHADER
	case FragmentShaderType:
		glShaderType = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unknown shader type %d", typ)
	}

	shaderID := gl.CreateShader(glShaderType)

	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shaderID, 1, csources, nil)
	free()
	gl.CompileShader(shaderID)

	var status int32
	gl.GetShaderiv(shaderID, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shaderID, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shaderID, logLength, nil, gl.Str(log))
		gl.DeleteShader(shaderID)

		return 0, fmt.Errorf("failed to compile %v shader: %v", typ, strings.TrimRight(log, "\x00"))
	}

	return shaderID, nil
}
