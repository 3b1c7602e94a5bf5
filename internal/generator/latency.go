package generator

import (
	"context"
	"time"
)

// Latency simulates the response time of an upstream flight provider.
// A zero Latency returns immediately.
type Latency struct {
	Min time.Duration
	Max time.Duration
	rng Rand
}

func NewLatency(min, max time.Duration, rng Rand) Latency {
	if max < min {
		max = min
	}
	return Latency{Min: min, Max: max, rng: rng}
}

// Next picks a delay in [Min, Max]
func (l Latency) Next() time.Duration {
	spread := l.Max - l.Min
	if spread <= 0 || l.rng == nil {
		return l.Min
	}
	return l.Min + time.Duration(l.rng.Float64()*float64(spread))
}

// Wait sleeps for the next delay or until ctx is done
func (l Latency) Wait(ctx context.Context) error {
	delay := l.Next()
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
