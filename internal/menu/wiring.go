package menu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/letterfall/internal/physics"
)

// wire links consecutive letters of a label and attaches its anchors.
func (m *Menu) wire(lbl *Label) error {
	v := m.variant

	for k := 0; k+1 < len(lbl.Letters); k++ {
		a, b := lbl.Letters[k], lbl.Letters[k+1]

		opts := physics.JointOptions{
			Angle:            v.ConeAngle,
			MaxForce:         v.JointMaxForce,
			CollideConnected: true,
		}
		if v.Adjacent != physics.Distance {
			opts.PivotA = mgl64.Vec2{v.Seam.Inset * a.Half.X(), v.Seam.Lift * a.Half.Y()}
			opts.PivotB = mgl64.Vec2{-v.Seam.Inset * a.Half.X(), v.Seam.Lift * a.Half.Y()}
		}

		c, err := physics.NewConstraint(v.Adjacent, a.Body, b.Body, opts)
		if err != nil {
			return fmt.Errorf("link %d-%d: %w", k, k+1, err)
		}
		if err := m.world.AddConstraint(c); err != nil {
			return fmt.Errorf("link %d-%d: %w", k, k+1, err)
		}
		lbl.Chain = append(lbl.Chain, c)
	}

	switch v.Anchors {
	case AnchorsEnds:
		return m.anchorEnds(lbl)
	case AnchorsPerLetter:
		return m.anchorLetters(lbl)
	}
	return nil
}

// anchorEnds hangs the label between two static spheres beside its first
// and last letters.
func (m *Menu) anchorEnds(lbl *Label) error {
	v := m.variant
	first, last := lbl.First(), lbl.Last()

	ends := []struct {
		letter *Letter
		pos    mgl64.Vec2
		pivot  mgl64.Vec2
	}{
		{
			letter: first,
			pos:    mgl64.Vec2{first.Start.X() - v.AnchorGapStart, first.Start.Y() + first.Center.Y()},
			pivot:  mgl64.Vec2{v.AnchorGapStart, v.AnchorLift},
		},
		{
			letter: last,
			pos:    mgl64.Vec2{last.Start.X() + last.Half.X() + v.AnchorGapEnd, last.Start.Y() + last.Center.Y()},
			pivot:  mgl64.Vec2{-last.Half.X() - v.AnchorGapEnd, v.AnchorLift},
		},
	}

	for _, end := range ends {
		anchor, err := physics.NewSphere(v.AnchorRadius, physics.BodyOptions{Position: end.pos})
		if err != nil {
			return fmt.Errorf("anchor: %w", err)
		}
		if err := m.world.Add(anchor); err != nil {
			return fmt.Errorf("anchor: %w", err)
		}
		lbl.Anchors = append(lbl.Anchors, anchor)

		c, err := physics.NewConstraint(physics.ConeTwist, anchor, end.letter.Body, physics.JointOptions{
			PivotA:           end.pivot,
			PivotB:           mgl64.Vec2{0, end.letter.Center.Y()},
			Angle:            v.ConeAngle,
			CollideConnected: true,
		})
		if err != nil {
			return fmt.Errorf("anchor: %w", err)
		}
		if err := m.world.AddConstraint(c); err != nil {
			return fmt.Errorf("anchor: %w", err)
		}
		lbl.Anchored = append(lbl.Anchored, c)
	}
	return nil
}

// anchorLetters gives every letter its own static pivot above it, following
// the left-anchored x of the letter.
func (m *Menu) anchorLetters(lbl *Label) error {
	v := m.variant
	for _, l := range lbl.Letters {
		pos := mgl64.Vec2{l.Start.X(), l.Origin.Y() + v.PivotHeight}
		pivot, err := physics.NewSphere(v.AnchorRadius, physics.BodyOptions{Position: pos})
		if err != nil {
			return fmt.Errorf("pivot %d: %w", l.Index, err)
		}
		if err := m.world.Add(pivot); err != nil {
			return fmt.Errorf("pivot %d: %w", l.Index, err)
		}
		l.Pivot = pivot
		lbl.Anchors = append(lbl.Anchors, pivot)

		c, err := physics.NewConstraint(physics.Hinge, l.Body, pivot, physics.JointOptions{
			PivotA:           mgl64.Vec2{0, v.PivotHeight},
			MaxForce:         v.PivotMaxForce,
			CollideConnected: true,
		})
		if err != nil {
			return fmt.Errorf("pivot %d: %w", l.Index, err)
		}
		if err := m.world.AddConstraint(c); err != nil {
			return fmt.Errorf("pivot %d: %w", l.Index, err)
		}
		lbl.Anchored = append(lbl.Anchored, c)
	}
	return nil
}
