package metrics

import (
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/sim"
)

// EventCount counts menu events of one kind.
type EventCount struct {
	name  string
	kind  menu.EventKind
	count int
}

func NewEventCount(name string, kind menu.EventKind) *EventCount {
	return &EventCount{name: name, kind: kind}
}

func NewResets() *EventCount        { return NewEventCount("resets", menu.EventReset) }
func NewImpulses() *EventCount      { return NewEventCount("impulses", menu.EventImpulse) }
func NewGroundReveals() *EventCount { return NewEventCount("ground_reveals", menu.EventGroundReveal) }
func NewGroundDetaches() *EventCount {
	return NewEventCount("ground_detaches", menu.EventGroundDetach)
}

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) Observe(s sim.Sample) {
	for _, e := range s.Events {
		if e.Kind == c.kind {
			c.count++
		}
	}
}

func (c *EventCount) Value() float64 { return float64(c.count) }

func (c *EventCount) Reset() { c.count = 0 }

// Default returns the metric set recorded for every headless run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewPeakEnergy(),
		NewMinHeight(),
		NewResets(),
		NewImpulses(),
		NewGroundReveals(),
		NewGroundDetaches(),
	}
}
