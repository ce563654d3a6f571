package cmd

import "time"

// wallClock satisfies eval.Clock with the real wall clock.
type wallClock struct{}

func (wallClock) NowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// seededClock is a deterministic stand-in for the `test` statement's
// injected clock (spec.md §1 "treat the clock as an injected capability"):
// each call advances by a fixed step, so a `--clock-seed` run reproduces
// the same GUA_TIME/GUA_AVG/GUA_DEVIATION across invocations.
type seededClock struct {
	step float64
	now  float64
}

func newSeededClock(step float64) *seededClock {
	return &seededClock{step: step}
}

func (c *seededClock) NowSeconds() float64 {
	v := c.now
	c.now += c.step
	return v
}
