package tunables

import (
	"context"
	"math/rand"
	"time"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 30 * time.Second
)

// backoff produces exponentially growing waits with jitter for retrying
// failed registry refreshes.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, limit time.Duration) *backoff {
	return &backoff{
		initial: initial,
		max:     limit,
		current: initial,
	}
}

// next returns the wait before the next attempt: the current step plus up to
// one initial step of jitter. The step doubles each call until it reaches max.
func (b *backoff) next() time.Duration {
	d := b.current + time.Duration(rand.Int63n(int64(b.initial)+1))
	if b.current < b.max {
		b.current *= 2
		if b.current > b.max {
			b.current = b.max
		}
	}
	return d
}

func (b *backoff) reset() {
	b.current = b.initial
}

// wait sleeps for the next backoff step. It returns false if ctx was done
// first.
func (b *backoff) wait(ctx context.Context) bool {
	timer := time.NewTimer(b.next())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
