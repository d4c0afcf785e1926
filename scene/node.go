// Package scene holds the declarative scene graph consumed by the render
// backends: objects, geometry, materials, lights, the camera and its orbit
// controls.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is anything that participates in the scene graph.
type Node interface {
	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)
	Add(children ...Node)
	Children() []Node
}

// Renderable is a node with a geometry buffer.
type Renderable interface {
	Node
	Geometry() *Geometry
	Material() *Material
}

// Object is the embeddable Node implementation.
type Object struct {
	position mgl32.Vec3
	children []Node
}

func (o *Object) Position() mgl32.Vec3 { return o.position }

func (o *Object) SetPosition(p mgl32.Vec3) { o.position = p }

func (o *Object) Add(children ...Node) { o.children = append(o.children, children...) }

func (o *Object) Children() []Node { return o.children }

// Scene is the root of a graph.
type Scene struct {
	Object
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Walk visits n and its descendants depth first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Renderables lists every renderable node of the scene.
func (s *Scene) Renderables() []Renderable {
	var out []Renderable
	Walk(s, func(n Node) {
		if r, ok := n.(Renderable); ok {
			out = append(out, r)
		}
	})
	return out
}

// Lights lists every light of the scene.
func (s *Scene) Lights() []Light {
	var out []Light
	Walk(s, func(n Node) {
		if l, ok := n.(Light); ok {
			out = append(out, l)
		}
	})
	return out
}

// Mesh is a renderable pairing a geometry with a material.
type Mesh struct {
	Object
	geometry *Geometry
	material *Material
}

// NewMesh creates a mesh at the origin.
func NewMesh(g *Geometry, m *Material) *Mesh {
	return &Mesh{geometry: g, material: m}
}

func (m *Mesh) Geometry() *Geometry { return m.geometry }

func (m *Mesh) Material() *Material { return m.material }
