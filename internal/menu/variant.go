package menu

import (
	"fmt"
	"sort"

	"github.com/san-kum/letterfall/internal/palette"
	"github.com/san-kum/letterfall/internal/physics"
)

// Order decides whether labels are laid out as given or reversed.
type Order int

const (
	OrderAsGiven Order = iota
	OrderReversed
)

func (o Order) String() string {
	if o == OrderReversed {
		return "reversed"
	}
	return "as-given"
}

func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "as-given":
		return OrderAsGiven, nil
	case "reversed":
		return OrderReversed, nil
	}
	return 0, fmt.Errorf("%w: order %q", ErrInvalidVariant, s)
}

// StartMode is the initial placement strategy for letters.
type StartMode int

const (
	StartRest StartMode = iota
	StartDrop
)

func (s StartMode) String() string {
	if s == StartDrop {
		return "drop"
	}
	return "rest"
}

func ParseStart(s string) (StartMode, error) {
	switch s {
	case "", "rest":
		return StartRest, nil
	case "drop":
		return StartDrop, nil
	}
	return 0, fmt.Errorf("%w: start %q", ErrInvalidVariant, s)
}

// AnchorMode selects the static bodies a label hangs from.
type AnchorMode int

const (
	AnchorsNone AnchorMode = iota
	AnchorsEnds
	AnchorsPerLetter
)

func (a AnchorMode) String() string {
	switch a {
	case AnchorsEnds:
		return "ends"
	case AnchorsPerLetter:
		return "per-letter"
	default:
		return "none"
	}
}

func ParseAnchors(s string) (AnchorMode, error) {
	switch s {
	case "", "none":
		return AnchorsNone, nil
	case "ends":
		return AnchorsEnds, nil
	case "per-letter":
		return AnchorsPerLetter, nil
	}
	return 0, fmt.Errorf("%w: anchors %q", ErrInvalidVariant, s)
}

// GroundMode selects whether labels get a floor that appears on arrival.
type GroundMode int

const (
	GroundNone GroundMode = iota
	GroundReveal
)

func (g GroundMode) String() string {
	if g == GroundReveal {
		return "reveal"
	}
	return "none"
}

func ParseGround(s string) (GroundMode, error) {
	switch s {
	case "", "none":
		return GroundNone, nil
	case "reveal":
		return GroundReveal, nil
	}
	return 0, fmt.Errorf("%w: ground %q", ErrInvalidVariant, s)
}

// Seam places adjacent-letter pivots at (±Inset*hx, Lift*hy) in the left
// letter's frame.
type Seam struct {
	Inset float64
	Lift  float64
}

var (
	CenterSeam = Seam{Inset: 1, Lift: 0}
	TopSeam    = Seam{Inset: 0.7, Lift: 1}
)

// Variant parameterizes one menu behavior.
type Variant struct {
	Name string

	Order        Order
	Start        StartMode
	DropBase     float64
	DropStep     float64
	Jitter       float64
	OffsetAdjust float64

	Adjacent      physics.ConstraintKind
	Seam          Seam
	ConeAngle     float64
	JointMaxForce float64

	Anchors        AnchorMode
	AnchorGapStart float64
	AnchorGapEnd   float64
	AnchorLift     float64
	AnchorRadius   float64
	PivotHeight    float64
	PivotMaxForce  float64

	Force          float64
	TotalMass      float64
	LinearDamping  float64
	AngularDamping float64
	Friction       float64
	Restitution    float64

	Palette     palette.Table
	FadeSeconds float64

	Ground          GroundMode
	GroundHalfWidth float64
	GroundThickness float64
	// RevealHeight is how far above its ground a letter reveals it.
	// Zero means one lane margin.
	RevealHeight       float64
	ContactFriction    float64
	ContactRestitution float64
	DetachOnClick      bool
	DetachDelay        float64

	ResetOnFall bool
	ResetBelowY float64
}

// Validate checks the numeric ranges a menu needs to build.
func (v Variant) Validate() error {
	switch {
	case v.TotalMass <= 0:
		return fmt.Errorf("%w: total mass must be positive", ErrInvalidVariant)
	case v.Force < 0:
		return fmt.Errorf("%w: force must not be negative", ErrInvalidVariant)
	case v.LinearDamping < 0 || v.LinearDamping >= 1:
		return fmt.Errorf("%w: linear damping must be in [0,1)", ErrInvalidVariant)
	case v.AngularDamping < 0 || v.AngularDamping >= 1:
		return fmt.Errorf("%w: angular damping must be in [0,1)", ErrInvalidVariant)
	case v.ConeAngle < 0:
		return fmt.Errorf("%w: cone angle must not be negative", ErrInvalidVariant)
	case v.DetachDelay < 0:
		return fmt.Errorf("%w: detach delay must not be negative", ErrInvalidVariant)
	case v.Ground == GroundReveal && (v.GroundHalfWidth <= 0 || v.GroundThickness <= 0):
		return fmt.Errorf("%w: ground needs a positive size", ErrInvalidVariant)
	case v.Anchors != AnchorsNone && v.AnchorRadius <= 0:
		return fmt.Errorf("%w: anchors need a positive radius", ErrInvalidVariant)
	case len(v.Palette.Gradients) == 0:
		return fmt.Errorf("%w: empty palette", ErrInvalidVariant)
	}
	return nil
}

// Drop letters fall from above into a chain, land on a floor that appears
// under them, and fall through once clicked.
func Drop() Variant {
	return Variant{
		Name:     "drop",
		Order:    OrderReversed,
		Start:    StartDrop,
		DropBase: 30,
		DropStep: 30,
		Jitter:   0.01,

		Adjacent:  physics.ConeTwist,
		Seam:      CenterSeam,
		ConeAngle: 0.25,

		Force:          25,
		TotalMass:      1,
		AngularDamping: 0.99,
		Friction:       0.3,
		Restitution:    0.45,

		Palette:     palette.Table{Mode: palette.Random, Gradients: palette.Drop},
		FadeSeconds: 0.4,

		Ground:             GroundReveal,
		GroundHalfWidth:    50,
		GroundThickness:    0.1,
		ContactFriction:    0.002,
		ContactRestitution: 0.2,
		DetachOnClick:      true,
		DetachDelay:        0.15,

		ResetOnFall: true,
		ResetBelowY: -50,
	}
}

// Sticky labels hang between two anchors and wobble when struck.
func Sticky() Variant {
	return Variant{
		Name:         "sticky",
		OffsetAdjust: -1,

		Adjacent:  physics.ConeTwist,
		Seam:      TopSeam,
		ConeAngle: 0.15,

		Anchors:        AnchorsEnds,
		AnchorGapStart: 2,
		AnchorGapEnd:   2.5,
		AnchorLift:     0.5,
		AnchorRadius:   0.1,

		Force:       30,
		TotalMass:   1,
		Friction:    0.3,
		Restitution: 0,

		Palette:     palette.Table{Mode: palette.Indexed, Gradients: palette.Sticky},
		FadeSeconds: 0.4,
	}
}

// Hinge letters swing from individual pivots and pull on their neighbours
// through distance links.
func Hinge() Variant {
	return Variant{
		Name:         "hinge",
		OffsetAdjust: -1,

		Adjacent:      physics.Distance,
		JointMaxForce: 1e3,

		Anchors:       AnchorsPerLetter,
		AnchorRadius:  0.1,
		PivotHeight:   4,
		PivotMaxForce: 1e3,

		Force:         50,
		TotalMass:     3,
		LinearDamping: 0.5,
		Friction:      0,

		Palette:     palette.Table{Mode: palette.Indexed, Gradients: palette.Hinge},
		FadeSeconds: 0.4,
	}
}

var presets = map[string]func() Variant{
	"drop":   Drop,
	"sticky": Sticky,
	"hinge":  Hinge,
}

// Lookup returns a fresh copy of the named preset.
func Lookup(name string) (Variant, error) {
	fn, ok := presets[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return fn(), nil
}

// Variants lists preset names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
