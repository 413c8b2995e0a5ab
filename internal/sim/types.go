package sim

import (
	"math"

	"github.com/san-kum/letterfall/internal/menu"
)

// Sample is what metrics and observers see after every tick.
type Sample struct {
	Step   int
	Time   float64
	Frame  menu.Frame
	Energy float64
	// Events holds the events emitted during this tick.
	Events []menu.Event
}

// Valid reports whether every letter pose in the sample is finite.
func (s Sample) Valid() bool {
	for _, l := range s.Frame.Letters {
		if !finite(l.Pos.X()) || !finite(l.Pos.Y()) || !finite(l.Angle) {
			return false
		}
	}
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// Driver feeds scripted input into the menu before each tick.
type Driver interface {
	Drive(m *menu.Menu, t float64) error
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// SampleEvery records one frame every n ticks. Zero records every tick.
	SampleEvery int
	// ValidateState stops the run on a non-finite pose.
	ValidateState bool
}

type Result struct {
	Frames     []menu.Frame
	Events     []menu.Event
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Times returns the simulated time of every recorded frame.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}

// SimError reports a failure at a specific step.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return "sim: " + e.Message
}
