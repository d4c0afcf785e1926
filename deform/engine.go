package deform

import (
	"github.com/chewxy/math32"
	"github.com/golang/glog"
)

// Engine rewrites a live shape, or a material scale, from audio samples.
// It is driven from a single goroutine.
type Engine struct {
	ref      *ReferenceShape
	live     Positions
	material DisplacementTarget

	strategy Strategy
	bins     BinMapper
	displace func(float32) float32

	// live diverged from ref and must be restored before aggregate mode
	dirty bool
}

// NewEngine captures the reference shape from live.
func NewEngine(live Positions, material DisplacementTarget, strategy Strategy) *Engine {
	return &Engine{
		ref:      CaptureReference(live),
		live:     live,
		material: material,
		strategy: strategy,
		bins:     WrapBins,
		displace: Displacement,
	}
}

// Reference is the captured undeformed shape.
func (e *Engine) Reference() *ReferenceShape {
	return e.ref
}

func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// SetStrategy switches strategy from the next Apply on.
func (e *Engine) SetStrategy(s Strategy) {
	e.strategy = s
}

// SetBinMapper replaces the vertex to bin mapping. nil restores WrapBins.
func (e *Engine) SetBinMapper(m BinMapper) {
	if m == nil {
		m = WrapBins
	}
	e.bins = m
}

// Apply deforms the mesh for one frame from a spectrum and its aggregate.
// Vertices whose new position is not finite keep their previous position.
func (e *Engine) Apply(spectrum []uint8, aggregate float64) error {
	if len(e.live.Positions()) != 3*e.ref.Len() {
		return ErrLength
	}

	switch e.strategy {
	case Aggregate:
		e.applyAggregate(aggregate)
	default:
		e.applyVertex(spectrum)
	}
	return nil
}

func (e *Engine) applyVertex(spectrum []uint8) {
	if e.material != nil {
		e.material.SetDisplacementScale(0)
	}
	n := e.ref.Len()
	if len(spectrum) == 0 {
		e.restore()
		return
	}

	skipped := 0
	for i := 0; i < n; i++ {
		s := spectrum[e.bins(i, n, len(spectrum))]
		p := e.ref.At(i).Mul(1 + e.displace(float32(s)))
		if !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
			skipped++
			if glog.V(2) {
				glog.Infof("deform: vertex %d: non-finite position %v for sample %d", i, p, s)
			}
			continue
		}
		e.live.SetPosition(i, p[0], p[1], p[2])
	}
	e.dirty = true

	if skipped > 0 {
		glog.Warningf("deform: kept %d of %d vertices with non-finite displacement", skipped, n)
	}
}

func (e *Engine) applyAggregate(aggregate float64) {
	if e.dirty {
		e.restore()
	}
	scale := float32(aggregate / AggregateUnit)
	if !finite(scale) {
		glog.Warningf("deform: non-finite aggregate %v, displacement scale unchanged", aggregate)
		return
	}
	if e.material != nil {
		e.material.SetDisplacementScale(scale)
	}
}

// restore copies the reference shape back into the live shape.
func (e *Engine) restore() {
	for i := 0; i < e.ref.Len(); i++ {
		p := e.ref.At(i)
		e.live.SetPosition(i, p[0], p[1], p[2])
	}
	e.dirty = false
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
