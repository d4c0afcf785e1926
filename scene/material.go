package scene

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Material describes how a mesh is shaded.
type Material struct {
	Color     colorful.Color
	Emissive  colorful.Color
	Wireframe bool

	displacementScale float32
}

// NewMaterial creates a material of the given base color.
func NewMaterial(c colorful.Color) *Material {
	return &Material{Color: c}
}

// SetDisplacementScale sets how far the vertex shader pushes the surface
// along its normals.
func (m *Material) SetDisplacementScale(s float32) {
	m.displacementScale = s
}

func (m *Material) DisplacementScale() float32 {
	return m.displacementScale
}
