package audio

import (
	"github.com/golang/glog"

	"github.com/Arcadia24/voice-interaction-three/audio/util"
)

// Buffer turns every incoming block into an outgoing window holding the latest
// size samples. Windows overlap when blocks are shorter than size and are
// truncated to the newest samples when blocks are longer.
// It also converts the float32 input from a raw audio source to float64 so it's easier
// to work with down the line using go's math package.
func Buffer(done <-chan struct{}, in <-chan []float32, size int) <-chan []float64 {

	out := make(chan []float64, 16)

	go func() {
		defer close(out)
		var (
			y      []float64
			buffer *util.RingBuffer
		)

		for {
			select {
			case <-done:
				return
			case x, ok := <-in:
				if !ok {
					return
				}
				if len(x) == 0 {
					continue
				}
				if buffer == nil {
					n := size
					if len(x) > n {
						n = len(x)
					}
					buffer = util.NewRingBuffer(n)
				}
				if len(y) != len(x) {
					y = make([]float64, len(x))
				}

				for i := range x {
					y[i] = float64(x[i])
				}
				buffer.Push(y)

				select {
				case out <- buffer.Get(size):
				default:
					glog.Warning("audio: input buffer overrun, frame dropped")
				}
			}
		}
	}()

	return out
}
