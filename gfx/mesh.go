package gfx

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	ml "github.com/go-gl/mathgl/mgl32"

	"github.com/Arcadia24/voice-interaction-three/scene"
)

// Vertex attribute locations shared by every program.
const (
	positionAttr = 0
	normalAttr   = 1
)

// MeshBuffer mirrors a scene geometry on the GPU. Positions are re-uploaded
// whenever the geometry version changes.
type MeshBuffer struct {
	vao       uint32
	positions uint32
	normals   uint32
	count     int32
	version   uint64
}

// NewMeshBuffer uploads g.
func NewMeshBuffer(g *scene.Geometry) *MeshBuffer {
	m := &MeshBuffer{count: int32(g.Count()), version: g.Version()}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	m.positions = newVertexBuffer(positionAttr, 3, g.Positions(), gl.DYNAMIC_DRAW)
	m.normals = newVertexBuffer(normalAttr, 3, g.Normals(), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

func newVertexBuffer(attr uint32, size int32, data []float32, usage uint32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), ptr, usage)
	gl.EnableVertexAttribArray(attr)
	gl.VertexAttribPointer(attr, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	return vbo
}

// Sync uploads the positions of g if they changed since the last upload.
func (m *MeshBuffer) Sync(g *scene.Geometry) {
	if g.Version() == m.version || g.Count() == 0 {
		return
	}
	pos := g.Positions()
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, 4*len(pos), gl.Ptr(pos))
	m.version = g.Version()
}

// Draw draws the triangles to the current framebuffer.
func (m *MeshBuffer) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func (m *MeshBuffer) Delete() {
	gl.DeleteBuffers(1, &m.positions)
	gl.DeleteBuffers(1, &m.normals)
	gl.DeleteVertexArrays(1, &m.vao)
}

var square = [6]ml.Vec2{
	{-1, 1},
	{-1, -1},
	{1, -1},

	{-1, 1},
	{1, 1},
	{1, -1},
}

// quad is a screen covering rectangle for post processing passes.
type quad struct {
	vao uint32
	vbo uint32
}

func newQuad() *quad {
	q := &quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)
	verts := make([]float32, 0, 2*len(square))
	for _, v := range square {
		verts = append(verts, v[0], v[1])
	}
	q.vbo = newVertexBuffer(positionAttr, 2, verts, gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	return q
}

func (q *quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(square)))
}

func (q *quad) Delete() {
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
}
