package stream

import (
	"context"
	"time"
)

// Pacer spaces out token emission.
type Pacer interface {
	Wait(ctx context.Context) error
}

// TimerPacer waits a constant delay, returning early with ctx.Err() when
// the stream is cancelled.
type TimerPacer struct {
	Delay time.Duration
}

func (p TimerPacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
