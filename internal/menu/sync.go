package menu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Tick advances the menu by one fixed step: it polls the font, fires due
// ground removals, steps the world, copies bodies onto meshes, runs the
// terminal checks and advances color fades.
func (m *Menu) Tick(dt float64) {
	m.ticks++
	m.poll()

	if m.built {
		m.fireDetach()
	}

	m.world.Step(dt)

	if m.built {
		m.copyTransforms()
		m.checkTerminal()
	}

	m.scene.Advance(dt)
}

// Ticks returns the number of Tick calls so far.
func (m *Menu) Ticks() int { return m.ticks }

func (m *Menu) poll() {
	if m.built || m.fontErr != nil {
		return
	}
	font, err, ok := m.font.Result()
	if !ok {
		return
	}
	if err == nil && font == nil {
		err = errors.New("no font")
	}
	if err != nil {
		m.fontErr = errors.Join(ErrFontFailed, err)
		m.log.Error("font unavailable, menu not built", "err", err)
		m.emit(Event{Kind: EventBuildFailed, Label: -1, Letter: -1, Err: m.fontErr})
		return
	}
	m.build(font)
}

func (m *Menu) fireDetach() {
	now := m.world.Time()
	for _, lbl := range m.labels {
		if lbl.detachAt < 0 || now < lbl.detachAt {
			continue
		}
		lbl.detachAt = -1
		if !m.world.Contains(lbl.Ground) {
			continue
		}
		if err := m.world.Remove(lbl.Ground); err != nil {
			m.log.Warn("ground detach failed", "label", lbl.Text, "err", err)
			continue
		}
		m.log.Debug("ground detached", "label", lbl.Text)
		m.emit(Event{Kind: EventGroundDetach, Label: lbl.Index, Letter: -1})
	}
}

func (m *Menu) copyTransforms() {
	for _, lbl := range m.labels {
		for _, l := range lbl.Letters {
			l.Mesh.Position = l.Body.Position()
			l.Mesh.Rotation = l.Body.Angle()
		}
	}
}

func (m *Menu) checkTerminal() {
	v := m.variant
	if len(m.labels) == 0 {
		return
	}

	if v.ResetOnFall {
		last := m.labels[len(m.labels)-1]
		for _, l := range last.Letters {
			if l.Body.Position().Y() <= v.ResetBelowY {
				m.log.Debug("last label fell out of view", "label", last.Text, "y", l.Body.Position().Y())
				m.Reset()
				return
			}
		}
	}

	if v.Ground != GroundReveal {
		return
	}
	for _, lbl := range m.labels {
		if lbl.GroundShown {
			continue
		}
		floor := lbl.FloorLine(m.RevealHeight())
		for _, l := range lbl.Letters {
			if l.Body.Position().Y() > floor {
				continue
			}
			l.State = GroundPending
			m.revealGround(lbl)
			break
		}
	}
}

func (m *Menu) revealGround(lbl *Label) {
	lbl.GroundShown = true
	if !m.world.Contains(lbl.Ground) {
		if err := m.world.Add(lbl.Ground); err != nil {
			m.log.Warn("ground reveal failed", "label", lbl.Text, "err", err)
			return
		}
	}
	for _, l := range lbl.Letters {
		l.State = GroundRevealed
	}
	m.log.Debug("ground revealed", "label", lbl.Text, "y", lbl.GroundY)
	m.emit(Event{Kind: EventGroundReveal, Label: lbl.Index, Letter: -1})
}

// LetterFrame is the rendered state of one letter.
type LetterFrame struct {
	Label  int
	Index  int
	Char   rune
	Pos    mgl64.Vec2
	Angle  float64
	Half   mgl64.Vec2
	Offset mgl64.Vec2
	Color  string
	State  State
}

// GroundFrame is the state of one label floor.
type GroundFrame struct {
	Label   int
	Y       float64
	Present bool
}

// Frame is a snapshot of everything a host needs to draw one tick.
type Frame struct {
	Tick    int
	Time    float64
	Letters []LetterFrame
	Grounds []GroundFrame
	Hover   bool
}

// Snapshot captures the current mesh state.
func (m *Menu) Snapshot() Frame {
	f := Frame{Tick: m.ticks, Time: m.world.Time(), Hover: m.hover}
	for _, lbl := range m.labels {
		for _, l := range lbl.Letters {
			f.Letters = append(f.Letters, LetterFrame{
				Label:  lbl.Index,
				Index:  l.Index,
				Char:   l.Char,
				Pos:    l.Mesh.Position,
				Angle:  l.Mesh.Rotation,
				Half:   l.Half,
				Offset: l.Center,
				Color:  l.Mesh.Mesh.Color.Hex(),
				State:  l.State,
			})
		}
		if lbl.Ground != nil {
			f.Grounds = append(f.Grounds, GroundFrame{
				Label:   lbl.Index,
				Y:       lbl.GroundY,
				Present: m.world.Contains(lbl.Ground),
			})
		}
	}
	return f
}
