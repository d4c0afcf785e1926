package gfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/golang/glog"
)

// Context is a context for doing opengl graphics
type Context struct {
	Window *Window
}

// NewContext opens a window and loads the GL functions for its context.
func NewContext(cfg *WindowConfig) (*Context, error) {
	window, err := NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("initializing gl: %w", err)
	}
	glog.Infof("gfx: OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	return &Context{Window: window}, nil
}

// CheckError returns the first pending GL error and clears the rest.
func CheckError() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("gl error 0x%x", code)
}

// Terminate ends the glfw session
func (c *Context) Terminate() {
	c.Window.Destroy()
}
