// Package palette holds the two-stop color gradients used to tint menu letters.
package palette

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Gradient interpolates linearly in RGB between two endpoints.
type Gradient struct {
	From colorful.Color
	To   colorful.Color
}

// MustGradient parses two hex colors and panics on malformed input. It is
// meant for the built-in tables only.
func MustGradient(from, to string) Gradient {
	g, err := ParseGradient(from, to)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseGradient parses two "#rrggbb" colors.
func ParseGradient(from, to string) (Gradient, error) {
	f, err := colorful.Hex(from)
	if err != nil {
		return Gradient{}, fmt.Errorf("palette: bad color %q: %w", from, err)
	}
	t, err := colorful.Hex(to)
	if err != nil {
		return Gradient{}, fmt.Errorf("palette: bad color %q: %w", to, err)
	}
	return Gradient{From: f, To: t}, nil
}

// At returns the color at progress p. Values outside [0,1] are clamped.
func (g Gradient) At(p float64) colorful.Color {
	return g.From.BlendRgb(g.To, Clamp01(p))
}

// Progress returns the normalized position of character j in a label of n
// characters. A single-character label has progress 0.
func Progress(j, n int) float64 {
	if n <= 1 {
		return 0
	}
	return Clamp01(float64(j) / float64(n-1))
}

func Clamp01(p float64) float64 {
	if p != p || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Mode selects how labels are assigned a gradient.
type Mode int

const (
	// Indexed assigns gradient i (mod len) to label i.
	Indexed Mode = iota
	// Random picks a gradient per label, and again on every reset.
	Random
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "indexed", "":
		return Indexed, nil
	case "random":
		return Random, nil
	default:
		return 0, fmt.Errorf("palette: unknown mode %q", s)
	}
}

func (m Mode) String() string {
	if m == Random {
		return "random"
	}
	return "indexed"
}

// Table is an ordered set of gradients plus the rule for handing them out.
type Table struct {
	Mode      Mode
	Gradients []Gradient
}

// Pick returns the gradient for label index i. rng is only consulted in
// Random mode and may be nil otherwise.
func (t Table) Pick(i int, rng *rand.Rand) Gradient {
	if len(t.Gradients) == 0 {
		return Gradient{From: colorful.Color{R: 1, G: 1, B: 1}, To: colorful.Color{R: 1, G: 1, B: 1}}
	}
	if t.Mode == Random && rng != nil {
		return t.Gradients[rng.Intn(len(t.Gradients))]
	}
	if i < 0 {
		i = -i
	}
	return t.Gradients[i%len(t.Gradients)]
}

// Hex formats c as "#rrggbb".
func Hex(c colorful.Color) string { return c.Clamped().Hex() }
