package util

import (
	"fmt"
	"math"
)

// Scale maps frequencies onto a perceptual axis and back.
type Scale interface {
	To(float64) float64
	From(float64) float64
}

type melScale struct{}

// MelScale spaces buckets evenly on the mel scale.
var MelScale Scale = melScale{}

func (melScale) To(val float64) float64 {
	return 1127 * math.Log(1+val/700)
}

func (melScale) From(val float64) float64 {
	return 700 * (math.Exp(val/1127.0) - 1)
}

type logScale2 struct{}

// LogScale2 spaces buckets evenly in octaves.
var LogScale2 Scale = logScale2{}

func (logScale2) To(val float64) float64 {
	return math.Log2(val)
}

func (logScale2) From(val float64) float64 {
	return math.Exp2(val)
}

// Bucketer folds a magnitude spectrum into N buckets spaced on a Scale.
type Bucketer struct {
	Buckets int
	Size    int
	Scale   Scale

	// N-1 split points into a frame of Size bins
	indices []int
}

// NewBucketer splits frames of frameSize bins covering [0, fMax] Hz into buckets
// whose edges are evenly spaced on scale between fMin and fMax.
func NewBucketer(scale Scale, buckets, frameSize int, fMin, fMax float64) *Bucketer {
	sMin := scale.To(fMin)
	sMax := scale.To(fMax)
	space := (sMax - sMin) / float64(buckets)
	indices := make([]int, buckets-1)
	last := 0
	for i := range indices {
		f := scale.From(sMin + float64(i+1)*space)
		idx := int(math.Ceil(float64(frameSize) * f / fMax))
		// every bucket covers at least one bin
		if idx <= last {
			idx = last + 1
		}
		if idx > frameSize-(buckets-1-i) {
			idx = frameSize - (buckets - 1 - i)
		}
		indices[i] = idx
		last = idx
	}
	return &Bucketer{
		Buckets: buckets,
		Size:    frameSize,
		Scale:   scale,
		indices: indices,
	}
}

func (b *Bucketer) bounds(i int) (int, int) {
	start, stop := 0, b.Size
	if i > 0 {
		start = b.indices[i-1]
	}
	if i < b.Buckets-1 {
		stop = b.indices[i]
	}
	return start, stop
}

func (b *Bucketer) check(frame []float64) error {
	if len(frame) != b.Size {
		return fmt.Errorf("frame size %d does not match bucket size %d", len(frame), b.Size)
	}
	return nil
}

// Bucket sums the bins that fall into each bucket.
func (b *Bucketer) Bucket(frame []float64) ([]float64, error) {
	if err := b.check(frame); err != nil {
		return nil, err
	}
	buckets := make([]float64, b.Buckets)
	for i := range buckets {
		start, stop := b.bounds(i)
		var sum float64
		for j := start; j < stop; j++ {
			sum += frame[j]
		}
		buckets[i] = sum
	}
	return buckets, nil
}

// Average is like Bucket but divides each sum by the bucket width, so wide
// high frequency buckets stay on the same footing as narrow bass buckets.
func (b *Bucketer) Average(frame []float64) ([]float64, error) {
	buckets, err := b.Bucket(frame)
	if err != nil {
		return nil, err
	}
	for i := range buckets {
		start, stop := b.bounds(i)
		buckets[i] /= float64(stop - start)
	}
	return buckets, nil
}
