package audio

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// State of an audio Context.
type State int32

const (
	// Suspended contexts deliver no audio.
	Suspended State = iota
	// Running contexts deliver captured audio to connected analysers.
	Running
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	}
	return "unknown"
}

// Device is an audio backend that may start suspended.
type Device interface {
	// OpenMicrophone requests the default capture device.
	OpenMicrophone(ctx context.Context) (*Stream, error)
	// Resume starts audio processing.
	Resume(ctx context.Context) error
	// Running reports whether audio processing has started.
	Running() bool
}

// Gestures is a source of user pointer-down events.
type Gestures interface {
	// OnPointerDown registers fn and returns a function removing it.
	OnPointerDown(fn func()) (unsubscribe func())
}

// Context ties a Device to an analyser. On creation it asynchronously opens
// the microphone and connects it to the analyser; failure to do so is logged
// and otherwise ignored. If the device is suspended, the first pointer-down
// gesture makes exactly one attempt to resume it, after which the gesture
// listener is removed whether the attempt succeeded or not.
type Context struct {
	ctx      context.Context
	device   Device
	analyser Connector

	mu          sync.Mutex
	state       State
	consumed    bool
	attempts    int
	removed     bool
	unsubscribe func()
	stream      *Stream
	micErr      error

	micDone      chan struct{}
	listenerDone chan struct{}
}

// NewContext starts acquiring the microphone and listens for the first
// gesture.
func NewContext(ctx context.Context, device Device, analyser Connector, gestures Gestures) *Context {
	c := &Context{
		ctx:          ctx,
		device:       device,
		analyser:     analyser,
		micDone:      make(chan struct{}),
		listenerDone: make(chan struct{}),
	}
	if device.Running() {
		c.state = Running
	}

	go c.acquire()

	unsub := gestures.OnPointerDown(c.pointerDown)
	c.mu.Lock()
	c.unsubscribe = unsub
	removed := c.removed
	c.mu.Unlock()
	if removed {
		unsub()
	}

	return c
}

func (c *Context) acquire() {
	defer close(c.micDone)

	stream, err := c.device.OpenMicrophone(c.ctx)
	if err != nil {
		glog.Warningf("audio: microphone unavailable, continuing without input: %v", err)
		c.mu.Lock()
		c.micErr = err
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.stream = stream
	c.mu.Unlock()

	c.analyser.Connect(NewSourceNode(stream))
	glog.Info("audio: microphone connected")

	if errc := stream.Errors(); errc != nil {
		go func() {
			select {
			case err := <-errc:
				if err != nil {
					glog.Warningf("audio: capture stopped: %v", err)
				}
			case <-c.ctx.Done():
			}
		}()
	}
}

func (c *Context) pointerDown() {
	c.mu.Lock()
	if c.consumed {
		c.mu.Unlock()
		return
	}
	c.consumed = true
	if c.state != Suspended {
		c.mu.Unlock()
		c.removeListener()
		return
	}
	c.attempts++
	c.mu.Unlock()

	go c.resume()
}

func (c *Context) resume() {
	defer c.removeListener()

	if err := c.device.Resume(c.ctx); err != nil {
		glog.Warningf("audio: resume failed, staying suspended: %v", err)
		return
	}
	c.mu.Lock()
	c.state = Running
	c.mu.Unlock()
	glog.Info("audio: context running")
}

func (c *Context) removeListener() {
	c.mu.Lock()
	c.removed = true
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	close(c.listenerDone)
}

// State is the current state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResumeAttempts counts resume attempts made, which is never more than one.
func (c *Context) ResumeAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// MicrophoneReady is closed once microphone acquisition has finished,
// successfully or not.
func (c *Context) MicrophoneReady() <-chan struct{} {
	return c.micDone
}

// MicrophoneErr is the acquisition error, valid after MicrophoneReady.
func (c *Context) MicrophoneErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.micErr
}

// GestureHandled is closed once the gesture listener has been removed.
func (c *Context) GestureHandled() <-chan struct{} {
	return c.listenerDone
}

// Close releases the microphone stream, if one was acquired.
func (c *Context) Close() error {
	c.mu.Lock()
	s := c.stream
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
