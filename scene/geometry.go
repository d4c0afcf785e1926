package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is a non-indexed triangle list. Positions and normals are flat
// xyz triples. Every write bumps the version so backends know to upload.
type Geometry struct {
	positions []float32
	normals   []float32
	version   uint64
}

// NewGeometry copies positions into a new geometry with normals pointing
// away from the origin.
func NewGeometry(positions []float32) *Geometry {
	g := &Geometry{
		positions: make([]float32, len(positions)),
		normals:   make([]float32, len(positions)),
	}
	copy(g.positions, positions)
	for i := 0; i < len(positions)/3; i++ {
		n := g.At(i).Normalize()
		copy(g.normals[3*i:], n[:])
	}
	return g
}

// Count is the number of vertices.
func (g *Geometry) Count() int {
	return len(g.positions) / 3
}

// Positions exposes the position buffer. Callers must not write to it.
func (g *Geometry) Positions() []float32 {
	return g.positions
}

// Normals exposes the normal buffer.
func (g *Geometry) Normals() []float32 {
	return g.normals
}

// At returns vertex i.
func (g *Geometry) At(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.positions[3*i], g.positions[3*i+1], g.positions[3*i+2]}
}

// SetPosition moves vertex i.
func (g *Geometry) SetPosition(i int, x, y, z float32) {
	g.positions[3*i] = x
	g.positions[3*i+1] = y
	g.positions[3*i+2] = z
	g.version++
}

// Version changes whenever a position is written.
func (g *Geometry) Version() uint64 {
	return g.version
}
