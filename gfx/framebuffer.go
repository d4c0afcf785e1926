package gfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Framebuffer is an offscreen render target with a half float color texture
// and an optional depth buffer.
type Framebuffer struct {
	Width  int32
	Height int32

	fbo   uint32
	tex   uint32
	depth uint32

	withDepth bool
}

// NewFramebuffer allocates a w by h render target.
func NewFramebuffer(w, h int, depth bool) (*Framebuffer, error) {
	f := &Framebuffer{withDepth: depth}
	gl.GenFramebuffers(1, &f.fbo)
	if err := f.Resize(w, h); err != nil {
		f.Delete()
		return nil, err
	}
	return f, nil
}

// Resize reallocates the attachments. Sizes below one pixel are raised to one.
func (f *Framebuffer) Resize(w, h int) error {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if int32(w) == f.Width && int32(h) == f.Height && f.tex != 0 {
		return nil
	}
	f.deleteAttachments()
	f.Width, f.Height = int32(w), int32(h)

	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)

	gl.GenTextures(1, &f.tex)
	gl.BindTexture(gl.TEXTURE_2D, f.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, f.Width, f.Height, 0, gl.RGBA, gl.FLOAT, nil)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, f.tex, 0)

	if f.withDepth {
		gl.GenRenderbuffers(1, &f.depth)
		gl.BindRenderbuffer(gl.RENDERBUFFER, f.depth)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, f.Width, f.Height)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, f.depth)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer %dx%d incomplete: 0x%x", w, h, status)
	}
	return nil
}

// Bind makes f the draw target and sets the viewport to cover it.
func (f *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.Viewport(0, 0, f.Width, f.Height)
}

// BindTexture binds the color attachment to a texture unit.
func (f *Framebuffer) BindTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, f.tex)
}

func (f *Framebuffer) deleteAttachments() {
	if f.tex != 0 {
		gl.DeleteTextures(1, &f.tex)
		f.tex = 0
	}
	if f.depth != 0 {
		gl.DeleteRenderbuffers(1, &f.depth)
		f.depth = 0
	}
}

// Delete frees the framebuffer and its attachments.
func (f *Framebuffer) Delete() {
	f.deleteAttachments()
	gl.DeleteFramebuffers(1, &f.fbo)
}
