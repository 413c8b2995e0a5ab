package menu

import (
	"github.com/san-kum/letterfall/internal/palette"
)

// Reset reseeds every letter to its left-anchored start, picks fresh colors
// and hides the floors again. Bodies, shapes and constraints are reused.
func (m *Menu) Reset() {
	if !m.built {
		return
	}
	for _, lbl := range m.labels {
		lbl.GroundShown = false
		lbl.detachAt = -1
		if lbl.Ground != nil && m.world.Contains(lbl.Ground) {
			if err := m.world.Remove(lbl.Ground); err != nil {
				m.log.Warn("ground removal failed", "label", lbl.Text, "err", err)
			}
		}

		lbl.Gradient = m.pickGradient(lbl.Index)
		n := len(lbl.Letters)
		for j, l := range lbl.Letters {
			l.Mesh.FadeTo(lbl.Gradient.At(palette.Progress(j, n)), m.variant.FadeSeconds)
			l.Body.Reseed(l.Start)
			l.Mesh.Position = l.Start
			l.Mesh.Rotation = 0
			l.State = Falling
		}
	}
	m.log.Info("menu reset", "labels", len(m.labels))
	m.emit(Event{Kind: EventReset, Label: -1, Letter: -1})
}
