package sim

import (
	"math"
	"testing"
)

func TestClockAdvance(t *testing.T) {
	tests := []struct {
		name   string
		frames []float64
		want   []int
	}{
		{"exact steps", []float64{0.1, 0.2}, []int{1, 2}},
		{"carry remainder", []float64{0.05, 0.05, 0.05}, []int{0, 1, 0}},
		{"cap backlog", []float64{1.0, 0.1}, []int{3, 1}},
		{"ignore negative", []float64{-1, 0}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(0.1, 3)
			for i, f := range tt.frames {
				if got := c.Advance(f + 1e-12); got != tt.want[i] {
					t.Errorf("frame %d: expected %d steps, got %d", i, tt.want[i], got)
				}
			}
		})
	}
}

func TestClockAlpha(t *testing.T) {
	c := NewClock(0.1, 5)
	c.Advance(0.125)
	if math.Abs(c.Alpha()-0.25) > 1e-9 {
		t.Errorf("expected alpha 0.25, got %f", c.Alpha())
	}
	if NewClock(0, 1).Alpha() != 0 {
		t.Error("expected zero alpha for zero dt")
	}
}
