package menu

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/palette"
	"github.com/san-kum/letterfall/internal/physics"
	"github.com/san-kum/letterfall/internal/scene"
)

// minHalf keeps degenerate glyph boxes buildable.
const minHalf = 0.05

// build lays out every label once the font is available. Labels that fail are
// logged and skipped; the rest of the menu still builds.
func (m *Menu) build(font *glyph.Font) {
	n := len(m.texts)
	offset := float64(n)*m.margin*0.5 + m.variant.OffsetAdjust

	for i := 0; i < n; i++ {
		src := i
		if m.variant.Order == OrderReversed {
			src = n - 1 - i
		}
		text := m.texts[src]

		lbl, err := m.buildLabel(font, text, i, src, n, offset)
		if err == nil {
			if err = m.wire(lbl); err != nil {
				m.discard(lbl)
			}
		}
		if err != nil {
			lerr := &LabelError{Label: text, Index: src, Err: err}
			m.errs = append(m.errs, lerr)
			m.log.Warn("label skipped", "label", text, "index", src, "err", err)
			m.emit(Event{Kind: EventBuildFailed, Label: i, Letter: -1, Err: lerr})
			continue
		}

		m.labels = append(m.labels, lbl)
		m.scene.Root.Add(lbl.Group)
		m.log.Info("label built", "label", text, "letters", len(lbl.Letters), "width", lbl.Width)
	}

	m.built = true
	m.emit(Event{Kind: EventBuilt, Label: -1, Letter: -1})
}

func (m *Menu) buildLabel(font *glyph.Font, text string, i, src, n int, offset float64) (*Label, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, ErrEmptyLabel
	}

	v := m.variant
	lbl := &Label{
		Text:     text,
		Index:    i,
		Source:   src,
		Group:    scene.NewNode(fmt.Sprintf("label/%d", src)),
		Lane:     float64(n-1-i)*m.margin - offset,
		GroundY:  float64(i)*m.margin - offset,
		Gradient: m.pickGradient(i),
		detachAt: -1,
	}
	mass := v.TotalMass / float64(len(runes))

	for j, r := range runes {
		metrics, err := font.Glyph(r)
		if err != nil {
			m.log.Warn("glyph missing, using placeholder", "label", text, "char", string(r))
			metrics = font.Placeholder(r)
		}

		half := metrics.Size().Mul(0.5)
		half = mgl64.Vec2{math.Max(half.X(), minHalf), math.Max(half.Y(), minHalf)}
		center := metrics.Center()

		origin := mgl64.Vec2{lbl.Width * 2, lbl.Lane}
		start := origin
		if v.Start == StartDrop {
			start[1] += v.DropBase + float64(i+1)*v.DropStep + float64(j)*v.Jitter
		}
		lbl.Width += half.X()

		body, err := physics.NewBox(half, center, physics.BodyOptions{
			Mass:           mass,
			Position:       start,
			Material:       m.letterMat,
			LinearDamping:  v.LinearDamping,
			AngularDamping: v.AngularDamping,
		})
		if err != nil {
			return nil, fmt.Errorf("letter %d: %w", j, err)
		}

		mesh := scene.NewMesh(fmt.Sprintf("label/%d/%d", src, j), &scene.Mesh{
			Rune:   r,
			Half:   half,
			Offset: center,
			Color:  lbl.Gradient.At(palette.Progress(j, len(runes))),
		})
		mesh.Position = start

		letter := &Letter{
			Char:   r,
			Index:  j,
			Label:  lbl,
			Mesh:   mesh,
			Body:   body,
			Half:   half,
			Center: center,
			Origin: origin,
			Start:  start,
		}
		lbl.Letters = append(lbl.Letters, letter)
	}

	m.rebase(lbl)

	if v.Ground == GroundReveal {
		ground, err := physics.NewBox(
			mgl64.Vec2{v.GroundHalfWidth, v.GroundThickness},
			mgl64.Vec2{},
			physics.BodyOptions{Position: mgl64.Vec2{0, lbl.GroundY}, Material: m.groundMat},
		)
		if err != nil {
			return nil, fmt.Errorf("ground: %w", err)
		}
		lbl.Ground = ground
	}

	for _, l := range lbl.Letters {
		if err := m.world.Add(l.Body); err != nil {
			m.discard(lbl)
			return nil, fmt.Errorf("letter %d: %w", l.Index, err)
		}
		lbl.Group.Add(l.Mesh)
		m.letters[l.Mesh] = l
	}

	return lbl, nil
}

// rebase left-anchors a label by shifting every letter by its accumulated
// half width. It runs once per label.
func (m *Menu) rebase(lbl *Label) {
	if lbl.rebased {
		return
	}
	for _, l := range lbl.Letters {
		l.Start[0] -= lbl.Width
		l.Body.SetPosition(l.Start)
		l.Mesh.Position = l.Start
	}
	lbl.rebased = true
}

// discard takes a partially built label back out of the world.
func (m *Menu) discard(lbl *Label) {
	for _, l := range lbl.Letters {
		if m.world.Contains(l.Body) {
			_ = m.world.Remove(l.Body)
		}
		if l.Pivot != nil && m.world.Contains(l.Pivot) {
			_ = m.world.Remove(l.Pivot)
		}
		delete(m.letters, l.Mesh)
	}
	for _, a := range lbl.Anchors {
		if m.world.Contains(a) {
			_ = m.world.Remove(a)
		}
	}
}
