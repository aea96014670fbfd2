package browser

import (
	"context"
	"math/rand"
	"time"
)

// Jitter draws random pauses from an inclusive [min, max] window so page
// refreshes don't land on a fixed cadence.
type Jitter struct {
	min time.Duration
	max time.Duration
	rnd *rand.Rand
}

func NewJitter(min, max time.Duration) *Jitter {
	return NewJitterWithSource(min, max, rand.NewSource(time.Now().UnixNano()))
}

func NewJitterWithSource(min, max time.Duration, src rand.Source) *Jitter {
	if max < min {
		min, max = max, min
	}
	return &Jitter{min: min, max: max, rnd: rand.New(src)}
}

// Sample returns a duration in [min, max] at millisecond granularity.
func (j *Jitter) Sample() time.Duration {
	span := int64((j.max - j.min) / time.Millisecond)
	if span <= 0 {
		return j.min
	}
	return j.min + time.Duration(j.rnd.Int63n(span+1))*time.Millisecond
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
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
