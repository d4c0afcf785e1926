package gfx

import (
	"context"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Arcadia24/voice-interaction-three/visualizer"
)

const (
	openglVersionMajor = 4
	openglVersionMinor = 1
)

// Window represents a wrapped glfw window object. It is the viewport, the
// gesture source and the refresh source of the visualizer.
type Window struct {
	Config     *WindowConfig
	GlfwWindow *glfw.Window

	mu       sync.Mutex
	nextID   int
	pointers map[int]func()

	onResize func()
	onDrag   func(dx, dy float64)
	onScroll func(dy float64)

	dragging bool
	lastX    float64
	lastY    float64
}

// WindowConfig contains a new window configuration
type WindowConfig struct {
	Width  int
	Height int
	Title  string
	// VSync waits for the display refresh on every swap.
	VSync bool
}

// NewWindow initializes a new window object with glfw. It must be called
// from the main thread.
func NewWindow(cfg *WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, openglVersionMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, openglVersionMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	}

	w := &Window{Config: cfg, GlfwWindow: window, pointers: make(map[int]func())}
	window.SetFramebufferSizeCallback(w.resized)
	window.SetSizeCallback(w.resized)
	window.SetMouseButtonCallback(w.mouseButton)
	window.SetCursorPosCallback(w.cursorMoved)
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(yoff)
		}
	})
	return w, nil
}

// Size is the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	return w.GlfwWindow.GetSize()
}

// PixelRatio is the number of framebuffer pixels per screen coordinate.
func (w *Window) PixelRatio() float32 {
	sw, _ := w.GlfwWindow.GetSize()
	fw, _ := w.GlfwWindow.GetFramebufferSize()
	if sw == 0 || fw == 0 {
		return 1
	}
	return float32(fw) / float32(sw)
}

// OnResize sets the function called when the window or its framebuffer
// changes size.
func (w *Window) OnResize(fn func()) {
	w.onResize = fn
}

// OnDrag sets the function called with the cursor movement, in screen
// coordinates, while the left button is held.
func (w *Window) OnDrag(fn func(dx, dy float64)) {
	w.onDrag = fn
}

// OnScroll sets the function called with vertical scroll offsets.
func (w *Window) OnScroll(fn func(dy float64)) {
	w.onScroll = fn
}

// OnPointerDown registers fn for mouse button presses.
func (w *Window) OnPointerDown(fn func()) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.pointers[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.pointers, id)
	}
}

func (w *Window) resized(_ *glfw.Window, _, _ int) {
	if w.onResize != nil {
		w.onResize()
	}
}

func (w *Window) mouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if action == glfw.Press {
		w.mu.Lock()
		fns := make([]func(), 0, len(w.pointers))
		for _, fn := range w.pointers {
			fns = append(fns, fn)
		}
		w.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
	if button == glfw.MouseButtonLeft {
		w.dragging = action == glfw.Press
		w.lastX, w.lastY = win.GetCursorPos()
	}
}

func (w *Window) cursorMoved(_ *glfw.Window, x, y float64) {
	if w.dragging && w.onDrag != nil {
		w.onDrag(x-w.lastX, y-w.lastY)
	}
	w.lastX, w.lastY = x, y
}

// Present swaps buffers and processes pending events. It returns
// visualizer.ErrClosed once the window should close.
func (w *Window) Present(ctx context.Context) error {
	w.GlfwWindow.SwapBuffers()
	glfw.PollEvents()
	if w.GlfwWindow.ShouldClose() {
		return visualizer.ErrClosed
	}
	return ctx.Err()
}

// Destroy closes the window and ends the glfw session.
func (w *Window) Destroy() {
	w.GlfwWindow.Destroy()
	glfw.Terminate()
}
