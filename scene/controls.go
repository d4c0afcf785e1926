package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-6

// OrbitControls orbits a camera around a target. Input is accumulated by
// Rotate and Zoom and applied by Update once per frame.
type OrbitControls struct {
	Target mgl32.Vec3

	EnableDamping bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32

	camera *PerspectiveCamera

	deltaTheta float32
	deltaPhi   float32
	scale      float32
}

// NewOrbitControls orbits cam around the origin with damping enabled.
func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		EnableDamping: true,
		DampingFactor: 0.05,
		MaxDistance:   math32.Inf(1),
		camera:        cam,
		scale:         1,
	}
}

// Rotate orbits left by theta and up by phi radians.
func (o *OrbitControls) Rotate(theta, phi float32) {
	o.deltaTheta -= theta
	o.deltaPhi -= phi
}

// Zoom scales the camera distance by s: below 1 moves closer.
func (o *OrbitControls) Zoom(s float32) {
	if s > 0 {
		o.scale *= s
	}
}

// Update moves the camera by one step and reports whether it moved.
func (o *OrbitControls) Update() bool {
	offset := o.camera.Position().Sub(o.Target)

	radius := offset.Len()
	theta := math32.Atan2(offset.X(), offset.Z())
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(mgl32.Clamp(offset.Y()/radius, -1, 1))
	}

	damping := float32(1)
	if o.EnableDamping {
		damping = o.DampingFactor
	}
	theta += o.deltaTheta * damping
	phi += o.deltaPhi * damping
	phi = mgl32.Clamp(phi, polarEpsilon, math32.Pi-polarEpsilon)

	radius = mgl32.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	sinPhi := math32.Sin(phi)
	pos := o.Target.Add(mgl32.Vec3{
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
		radius * sinPhi * math32.Cos(theta),
	})

	moved := !pos.ApproxEqualThreshold(o.camera.Position(), 1e-4)
	o.camera.SetPosition(pos)
	o.camera.LookAt(o.Target)

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
	}
	o.scale = 1

	return moved
}
