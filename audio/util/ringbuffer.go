package util

import (
	"sync"
)

// RingBuffer is a fixed size circular buffer of samples. Writers push whole
// blocks from the capture goroutine, readers take the most recent window.
type RingBuffer struct {
	sync.RWMutex
	buf   []float64
	index int
	count int
}

// NewRingBuffer creates a new ring buffer holding size samples.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]float64, size)}
}

// Size is the capacity of the buffer.
func (r *RingBuffer) Size() int {
	return len(r.buf)
}

// Filled reports how many samples have been written, capped at Size.
func (r *RingBuffer) Filled() int {
	r.RLock()
	defer r.RUnlock()
	return r.count
}

// Push data onto the ring buffer.
func (r *RingBuffer) Push(data []float64) {
	if len(data) > len(r.buf) {
		panic("cant push data longer than size of buffer")
	}

	r.Lock()
	defer r.Unlock()

	n := copy(r.buf[r.index:], data)
	if n < len(data) {
		copy(r.buf, data[n:])
	}
	r.index = (r.index + len(data)) % len(r.buf)
	r.count += len(data)
	if r.count > len(r.buf) {
		r.count = len(r.buf)
	}
}

// Get the most recent N data points from the buffer, oldest first.
func (r *RingBuffer) Get(size int) []float64 {
	return r.GetOffset(size, 0)
}

// GetOffset gets the most recent N data points from the buffer, ending offset
// samples before the write position.
func (r *RingBuffer) GetOffset(size, offset int) []float64 {
	if size > len(r.buf) {
		panic("cant get size greater than size of buffer")
	}

	r.RLock()
	defer r.RUnlock()

	ret := make([]float64, size)
	ln := len(r.buf)
	start := ((r.index-offset-size)%ln + ln) % ln
	n := copy(ret, r.buf[start:])
	if n < size {
		copy(ret[n:], r.buf)
	}
	return ret
}
