package snake

import "time"

// SpeedRamp shortens the tick interval as the score grows.
type SpeedRamp struct {
	Enabled   bool
	Threshold int           // Points per step
	Step      time.Duration // Interval reduction per step
	Min       time.Duration // Floor for the interval
}

// Next returns the interval after the score moved from before to after.
// The interval shrinks by one Step whenever a multiple of Threshold is
// crossed in this move, and never drops below Min.
func (r SpeedRamp) Next(current time.Duration, before, after int) time.Duration {
	if !r.Enabled || r.Threshold <= 0 {
		return current
	}
	if after/r.Threshold <= before/r.Threshold {
		return current
	}
	return max(current-r.Step, r.Min)
}
