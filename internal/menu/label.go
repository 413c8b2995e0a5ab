package menu

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/letterfall/internal/palette"
	"github.com/san-kum/letterfall/internal/physics"
	"github.com/san-kum/letterfall/internal/scene"
)

// State tracks a letter through the ground reveal cycle.
type State int

const (
	Falling State = iota
	GroundPending
	GroundRevealed
)

func (s State) String() string {
	switch s {
	case GroundPending:
		return "ground-pending"
	case GroundRevealed:
		return "ground-revealed"
	default:
		return "falling"
	}
}

// Letter pairs one glyph mesh with its rigid body.
type Letter struct {
	Char  rune
	Index int
	Label *Label

	Mesh *scene.Node
	Body *physics.Body

	// Pivot is the static body the letter swings from, if any.
	Pivot *physics.Body

	// Half and Center describe the glyph box in the body frame.
	Half   mgl64.Vec2
	Center mgl64.Vec2

	// Origin is the lane position before the label is left-anchored.
	Origin mgl64.Vec2
	// Start is the left-anchored position the body is seeded at.
	Start mgl64.Vec2

	State State
}

// Label is one menu entry: a chain of letters plus its optional floor and
// anchors.
type Label struct {
	Text string
	// Index is the lane index after ordering; Source is the position in the
	// configured label list.
	Index  int
	Source int

	Letters []*Letter
	Group   *scene.Node

	// Width is the sum of letter half widths.
	Width float64
	Lane  float64

	Gradient palette.Gradient

	Ground      *physics.Body
	GroundY     float64
	GroundShown bool

	Anchors []*physics.Body

	// Chain holds the adjacent-letter constraints, Anchored the constraints
	// tying letters to anchors or pivots.
	Chain    []*physics.Constraint
	Anchored []*physics.Constraint

	detachAt float64
	rebased  bool
}

// FloorLine is the height at or below which a letter reveals the ground.
func (l *Label) FloorLine(revealHeight float64) float64 {
	return l.GroundY + revealHeight
}

func (l *Label) First() *Letter { return l.Letters[0] }
func (l *Label) Last() *Letter  { return l.Letters[len(l.Letters)-1] }

// DetachPending reports whether a ground removal is scheduled.
func (l *Label) DetachPending() bool { return l.detachAt >= 0 }
