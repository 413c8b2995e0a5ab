package metrics

import "github.com/san-kum/letterfall/internal/sim"

// MinHeight is the lowest letter position reached during a run. It reads 0
// until a letter has been observed.
type MinHeight struct {
	name string
	min  float64
	seen bool
}

func NewMinHeight() *MinHeight {
	return &MinHeight{name: "min_height"}
}

func (h *MinHeight) Name() string { return h.name }

func (h *MinHeight) Observe(s sim.Sample) {
	for _, l := range s.Frame.Letters {
		y := l.Pos.Y()
		if !h.seen || y < h.min {
			h.min = y
			h.seen = true
		}
	}
}

func (h *MinHeight) Value() float64 {
	return h.min
}

func (h *MinHeight) Reset() {
	h.min = 0
	h.seen = false
}
