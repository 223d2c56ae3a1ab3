package core

import "time"

// FixedStep paces simulation steps at a steady rate independent of the frame
// rate of the viewer driving it.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time

	// Now defaults to time.Now; tests substitute a fake clock.
	Now func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given steps
// per second.
func NewFixedStep(sps int) *FixedStep {
	fs := &FixedStep{Now: time.Now}
	fs.SetRate(sps)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. Non-positive rates fall back to 10/s.
func (f *FixedStep) SetRate(sps int) {
	if sps <= 0 {
		sps = 10
	}
	f.step = time.Second / time.Duration(sps)
}

// ShouldStep reports whether the simulation should advance by one step.
func (f *FixedStep) ShouldStep() bool {
	now := f.Now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
