package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults.
const (
	DefaultFov  = 75
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// PerspectiveCamera is a pinhole camera looking at a target point. Changes to
// Fov, Aspect, Near or Far take effect after UpdateProjectionMatrix.
type PerspectiveCamera struct {
	Object

	// Fov is the vertical field of view in degrees.
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	target     mgl32.Vec3
	up         mgl32.Vec3
	projection mgl32.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -z.
func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		target: mgl32.Vec3{0, 0, -1},
		up:     mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection from the lens fields.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// Projection is the matrix computed by the last UpdateProjectionMatrix.
func (c *PerspectiveCamera) Projection() mgl32.Mat4 {
	return c.projection
}

// LookAt points the camera at t.
func (c *PerspectiveCamera) LookAt(t mgl32.Vec3) {
	c.target = t
}

// Target is the point the camera looks at.
func (c *PerspectiveCamera) Target() mgl32.Vec3 {
	return c.target
}

// View is the world to camera transform.
func (c *PerspectiveCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.target, c.up)
}

// ViewProjection is Projection * View.
func (c *PerspectiveCamera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}
