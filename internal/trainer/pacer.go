package trainer

import (
	"context"
	"time"
)

// Pacer spaces ticks to a fixed rate. A nil *Pacer does not wait at all,
// which is how headless training runs as fast as the CPU allows.
type Pacer struct {
	ticker *time.Ticker
}

// NewPacer returns a pacer for the given tick interval, or nil when the
// interval is not positive.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return nil
	}
	return &Pacer{ticker: time.NewTicker(interval)}
}

// Wait blocks until the next tick is due or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

// Stop releases the underlying ticker.
func (p *Pacer) Stop() {
	if p != nil {
		p.ticker.Stop()
	}
}
