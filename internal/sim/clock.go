package sim

// Clock turns variable frame times into a whole number of fixed steps.
// Leftover time carries into the next frame. At most MaxSteps run per frame
// and the backlog beyond that is dropped, so a stalled window does not make
// the world race to catch up.
type Clock struct {
	Dt       float64
	MaxSteps int

	acc float64
}

func NewClock(dt float64, maxSteps int) *Clock {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Clock{Dt: dt, MaxSteps: maxSteps}
}

// Advance adds frame seconds and returns the number of steps to run.
func (c *Clock) Advance(frame float64) int {
	if c.Dt <= 0 || frame <= 0 {
		return 0
	}
	c.acc += frame
	steps := int(c.acc / c.Dt)
	if steps > c.MaxSteps {
		c.acc = 0
		return c.MaxSteps
	}
	c.acc -= float64(steps) * c.Dt
	return steps
}

// Alpha is the fraction of a step left in the accumulator.
func (c *Clock) Alpha() float64 {
	if c.Dt <= 0 {
		return 0
	}
	return c.acc / c.Dt
}
