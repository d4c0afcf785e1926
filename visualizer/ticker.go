package visualizer

import (
	"context"
	"time"
)

// Ticker is a Display without a window, refreshing at a fixed rate.
type Ticker struct {
	t       *time.Ticker
	present func() error
}

// NewTicker refreshes at rate frames per second. present, if not nil, is
// called with every frame.
func NewTicker(rate float64, present func() error) *Ticker {
	if rate <= 0 {
		rate = 60
	}
	return &Ticker{
		t:       time.NewTicker(time.Duration(float64(time.Second) / rate)),
		present: present,
	}
}

// Present implements Display.
func (t *Ticker) Present(ctx context.Context) error {
	if t.present != nil {
		if err := t.present(); err != nil {
			return err
		}
	}
	select {
	case <-t.t.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Close stops the ticker.
func (t *Ticker) Close() {
	t.t.Stop()
}
