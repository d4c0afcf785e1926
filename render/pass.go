// Package render wires the scene and camera to a compositing backend and keeps
// them consistent with the viewport.
package render

import (
	"errors"
	"fmt"

	"github.com/Arcadia24/voice-interaction-three/scene"
)

// ErrUnknownPass is returned by composers given a pass they cannot run.
var ErrUnknownPass = errors.New("render: unknown pass")

// Pass describes one stage of a composer. Backends read pass fields at
// render time, so changes apply from the next frame.
type Pass interface {
	Name() string
}

// ScenePass renders the scene through the camera into the composer's buffer.
type ScenePass struct {
	Scene  *scene.Scene
	Camera *scene.PerspectiveCamera
}

func (*ScenePass) Name() string { return "scene" }

// BloomPass extracts pixels brighter than Threshold, blurs them over a
// Radius in [0,1] and adds them back weighted by Strength.
type BloomPass struct {
	Threshold float32
	Strength  float32
	Radius    float32
}

func (*BloomPass) Name() string { return "bloom" }

// OutputPass tone maps and converts to sRGB for display.
type OutputPass struct {
	Exposure float32
}

func (*OutputPass) Name() string { return "output" }

// UnknownPass wraps ErrUnknownPass with the pass name.
func UnknownPass(p Pass) error {
	return fmt.Errorf("%w %q", ErrUnknownPass, p.Name())
}

// Sizer is anything with pixel buffers that follow the viewport.
type Sizer interface {
	SetPixelRatio(r float32)
	SetSize(width, height int)
}

// Composer runs a sequence of passes and presents the result.
type Composer interface {
	Sizer
	AddPass(p Pass) error
	Render() error
}

// BufferSize is the pixel size of a buffer for a logical size and pixel ratio.
func BufferSize(width, height int, ratio float32) (int, int) {
	return int(float32(width) * ratio), int(float32(height) * ratio)
}
