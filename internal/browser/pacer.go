package browser

import (
	"context"
	"math/rand"
	"time"
)

// Window is a closed range for a randomized pause.
type Window struct {
	Min time.Duration
	Max time.Duration
}

// Pacer spaces out navigations with uniformly random pauses. The pauses only
// shape request timing; nothing depends on them for correctness.
type Pacer struct {
	rnd   func() float64
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer returns a Pacer that really sleeps.
func NewPacer() *Pacer {
	return &Pacer{rnd: rand.Float64, sleep: sleepCtx}
}

// NewPacerWith returns a Pacer with injected randomness and sleep, for tests
// and dry runs.
func NewPacerWith(rnd func() float64, sleep func(ctx context.Context, d time.Duration) error) *Pacer {
	return &Pacer{rnd: rnd, sleep: sleep}
}

// NoopPacer never waits.
func NoopPacer() *Pacer {
	return NewPacerWith(func() float64 { return 0 }, func(context.Context, time.Duration) error { return nil })
}

// Duration draws a pause from w.
func (p *Pacer) Duration(w Window) time.Duration {
	if w.Max <= w.Min {
		return w.Min
	}
	return w.Min + time.Duration(p.rnd()*float64(w.Max-w.Min))
}

// Pause sleeps for a random duration in w, returning early with ctx's error
// if it is cancelled.
func (p *Pacer) Pause(ctx context.Context, w Window) error {
	return p.sleep(ctx, p.Duration(w))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
