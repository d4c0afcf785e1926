// Package deform maps audio spectra onto mesh geometry.
//
// An Engine owns an immutable reference shape captured once from the mesh and
// recomputes the live shape from it every frame, so no error accumulates
// across frames.
package deform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrLength is returned when a live shape does not match its reference.
var ErrLength = errors.New("deform: live shape length differs from reference")

// AggregateUnit is the aggregate amplitude mapped to a displacement scale of 1.
const AggregateUnit = 64

// Positions is a writable vertex position buffer of xyz triples.
type Positions interface {
	Positions() []float32
	SetPosition(i int, x, y, z float32)
}

// DisplacementTarget receives the material level displacement scale.
type DisplacementTarget interface {
	SetDisplacementScale(s float32)
}

// Strategy selects how a spectrum deforms the mesh.
type Strategy int

const (
	// Vertex scales every vertex radially by one spectrum bin.
	Vertex Strategy = iota
	// Aggregate drives the material displacement scale by the mean amplitude.
	Aggregate
)

func (s Strategy) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Aggregate:
		return "aggregate"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses "vertex" or "aggregate".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "vertex":
		return Vertex, nil
	case "aggregate":
		return Aggregate, nil
	}
	return Vertex, fmt.Errorf("deform: unknown strategy %q", s)
}

// Displacement maps a spectrum sample onto [-1, 1].
func Displacement(sample float32) float32 {
	return mgl32.Clamp(sample/256, -1, 1)
}

// ReferenceShape is the undeformed geometry. It is never modified after
// capture and may be shared freely.
type ReferenceShape struct {
	points []mgl32.Vec3
}

// CaptureReference copies the current contents of p.
func CaptureReference(p Positions) *ReferenceShape {
	buf := p.Positions()
	r := &ReferenceShape{points: make([]mgl32.Vec3, len(buf)/3)}
	for i := range r.points {
		r.points[i] = mgl32.Vec3{buf[3*i], buf[3*i+1], buf[3*i+2]}
	}
	return r
}

// Len is the number of points.
func (r *ReferenceShape) Len() int {
	return len(r.points)
}

// At returns point i.
func (r *ReferenceShape) At(i int) mgl32.Vec3 {
	return r.points[i]
}
