package menu

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/letterfall/internal/scene"
)

// ClickResult describes what a click did.
type ClickResult struct {
	// Hit is true when any mesh was under the pointer.
	Hit     bool
	Letter  *Letter
	Normal  mgl64.Vec2
	Impulse mgl64.Vec2
}

// PointerMove updates and returns the hover state for a pointer at viewport
// pixel coordinates. It has no physics effect.
func (m *Menu) PointerMove(px, py float64) bool {
	m.hover = len(m.pick(px, py)) > 0
	return m.hover
}

// Click strikes the nearest letter under the pointer with the variant force,
// pushing it away from the struck edge. At most one letter is affected.
func (m *Menu) Click(px, py float64) ClickResult {
	hits := m.pick(px, py)
	m.hover = len(hits) > 0
	if len(hits) == 0 {
		return ClickResult{}
	}

	nearest := hits[0]
	res := ClickResult{Hit: true, Normal: nearest.Normal}

	letter, ok := m.letters[nearest.Node]
	if !ok {
		return res
	}

	impulse := nearest.Normal.Mul(-m.variant.Force)
	letter.Body.ApplyLocalImpulse(impulse, mgl64.Vec2{})
	res.Letter = letter
	res.Impulse = impulse

	m.log.Debug("letter struck", "label", letter.Label.Text, "char", string(letter.Char), "impulse", impulse)
	m.emit(Event{Kind: EventImpulse, Label: letter.Label.Index, Letter: letter.Index, Impulse: impulse})

	if m.variant.DetachOnClick {
		m.scheduleDetach()
	}
	return res
}

// scheduleDetach queues every label's ground for removal, staggered by label
// in simulated time. An earlier pending removal is kept.
func (m *Menu) scheduleDetach() {
	now := m.world.Time()
	n := len(m.labels)
	for i, lbl := range m.labels {
		if lbl.Ground == nil {
			continue
		}
		at := now + m.variant.DetachDelay*float64(n+i)
		if lbl.detachAt < 0 || at < lbl.detachAt {
			lbl.detachAt = at
		}
	}
}

func (m *Menu) pick(px, py float64) []scene.Hit {
	if !m.built {
		return nil
	}
	return m.scene.Pick(m.camera.ScreenToWorld(px, py))
}
