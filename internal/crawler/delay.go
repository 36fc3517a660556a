package crawler

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer is the politeness strategy applied after each recorded fetch.
type Delayer interface {
	// Wait blocks for the politeness delay or until ctx is done, in which
	// case it returns ctx.Err().
	Wait(ctx context.Context) error
}

// RandomDelay waits for a duration drawn uniformly from [Min, Max].
type RandomDelay struct {
	Min time.Duration
	Max time.Duration

	// rand returns a value in [0, n). It defaults to math/rand/v2.
	rand func(n int64) int64
}

// NewRandomDelay creates a RandomDelay. Inverted bounds are swapped.
func NewRandomDelay(minDelay, maxDelay time.Duration) *RandomDelay {
	if maxDelay < minDelay {
		minDelay, maxDelay = maxDelay, minDelay
	}
	return &RandomDelay{Min: minDelay, Max: maxDelay, rand: rand.Int64N}
}

// Next draws the next delay without waiting.
func (d *RandomDelay) Next() time.Duration {
	span := int64(d.Max - d.Min)
	if span <= 0 {
		return d.Min
	}
	draw := d.rand
	if draw == nil {
		draw = rand.Int64N
	}
	return d.Min + time.Duration(draw(span+1))
}

// Wait implements Delayer.
func (d *RandomDelay) Wait(ctx context.Context) error {
	delay := d.Next()
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay never waits. It is meant for tests and local targets.
type NoDelay struct{}

// Wait implements Delayer.
func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
