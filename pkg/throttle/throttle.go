// Package throttle holds the client-side courtesy pause taken before calls to
// shared public map services.
package throttle

import (
	"context"
	"fmt"
	"time"
)

// Pause blocks for d or until ctx is done. A non-positive d returns immediately.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pause aborted: %w", err)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("pause aborted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Pacer applies the same fixed pause before every upstream call.
type Pacer struct {
	interval time.Duration
}

// NewPacer creates a pacer with the given minimum interval
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait pauses for the configured interval.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return Pause(ctx, p.interval)
}

// Interval returns the configured pause
func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}
