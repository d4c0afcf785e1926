package render

import (
	"github.com/golang/glog"

	"github.com/Arcadia24/voice-interaction-three/scene"
)

// Viewport reports the current logical size of the drawing surface and its
// device pixel ratio.
type Viewport interface {
	Size() (width, height int)
	PixelRatio() float32
}

// ViewportState is the last viewport applied.
type ViewportState struct {
	Width      int
	Height     int
	PixelRatio float32
}

// ResizeHandler applies viewport changes to the camera and then to the
// renderer and composer buffers.
type ResizeHandler struct {
	viewport Viewport
	camera   *scene.PerspectiveCamera
	renderer Sizer
	composer Sizer

	state ViewportState
}

// NewResizeHandler creates a handler. renderer may be nil when the composer
// owns every buffer.
func NewResizeHandler(vp Viewport, cam *scene.PerspectiveCamera, renderer, composer Sizer) *ResizeHandler {
	return &ResizeHandler{
		viewport: vp,
		camera:   cam,
		renderer: renderer,
		composer: composer,
	}
}

// Handle reads the viewport and applies it. Zero-area viewports, such as a
// minimized window, are ignored.
func (h *ResizeHandler) Handle() ViewportState {
	w, ht := h.viewport.Size()
	r := h.viewport.PixelRatio()
	if w <= 0 || ht <= 0 {
		glog.V(2).Infof("render: ignoring %dx%d viewport", w, ht)
		return h.state
	}
	if r <= 0 {
		r = 1
	}

	h.camera.Aspect = float32(w) / float32(ht)
	h.camera.UpdateProjectionMatrix()

	if h.renderer != nil {
		h.renderer.SetPixelRatio(r)
		h.renderer.SetSize(w, ht)
	}
	h.composer.SetPixelRatio(r)
	h.composer.SetSize(w, ht)

	h.state = ViewportState{Width: w, Height: ht, PixelRatio: r}
	if glog.V(2) {
		bw, bh := BufferSize(w, ht, r)
		glog.Infof("render: viewport %dx%d@%v, buffers %dx%d", w, ht, r, bw, bh)
	}
	return h.state
}

// State is the last applied viewport.
func (h *ResizeHandler) State() ViewportState {
	return h.state
}
