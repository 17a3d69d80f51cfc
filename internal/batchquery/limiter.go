// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batchquery

import "time"

// Defaults taken from the pipeline's tuning against the Semantic Scholar
// batch endpoints.
const (
	DefaultBaseDelay       = 100 * time.Millisecond
	DefaultDelayMultiplier = 1.2
	DefaultDumpInterval    = 10
)

// Limiter tracks the adaptive inter-batch delay. The delay grows
// multiplicatively on throttling and decays multiplicatively back toward the
// base on success, never below it. The server's true limit is unknown and may
// vary, so multiplicative increase/decrease converges fast under pressure and
// recovers throughput gradually once pressure subsides. This is the engine's
// sole throttling mechanism; requests are strictly sequential.
type Limiter struct {
	base  time.Duration
	mult  float64
	delay time.Duration
}

// NewLimiter returns a limiter starting at base delay. Non-positive base or a
// multiplier not greater than 1 fall back to the defaults.
func NewLimiter(base time.Duration, mult float64) *Limiter {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if mult <= 1 {
		mult = DefaultDelayMultiplier
	}
	return &Limiter{base: base, mult: mult, delay: base}
}

// Delay returns the current inter-batch pause.
func (l *Limiter) Delay() time.Duration {
	return l.delay
}

// Throttled grows the delay. There is no upper bound; a server that keeps
// throttling keeps pushing the delay up.
func (l *Limiter) Throttled() {
	l.delay = time.Duration(float64(l.delay) * l.mult)
}

// Success shrinks the delay toward the base, never below it, so a sustained
// run of successes geometrically restores throughput.
func (l *Limiter) Success() {
	d := time.Duration(float64(l.delay) / l.mult)
	if d < l.base {
		d = l.base
	}
	l.delay = d
}
