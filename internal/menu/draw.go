package menu

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/letterfall/internal/scene"
)

// Quad is one letter box in viewport pixels, y down.
type Quad struct {
	Letter *Letter
	Char   rune
	Center mgl64.Vec2
	// Corners run counter-clockwise on screen starting at the top left.
	Corners [4]mgl64.Vec2
	// Angle is the on-screen rotation in radians, clockwise positive.
	Angle float64
	// Size is the box width and height in pixels.
	Size  mgl64.Vec2
	Color colorful.Color
}

// Quads projects every visible letter box onto the viewport in draw order.
func (m *Menu) Quads() []Quad {
	var out []Quad
	m.scene.Walk(func(n *scene.Node) bool {
		l, ok := m.letters[n]
		if !ok {
			return true
		}
		out = append(out, m.quad(l))
		return true
	})
	return out
}

func (m *Menu) quad(l *Letter) Quad {
	n := l.Mesh
	_, angle, scale := n.WorldPose()
	ppu := m.camera.PixelsPerUnit()

	local := [4]mgl64.Vec2{
		{l.Center.X() - l.Half.X(), l.Center.Y() + l.Half.Y()},
		{l.Center.X() - l.Half.X(), l.Center.Y() - l.Half.Y()},
		{l.Center.X() + l.Half.X(), l.Center.Y() - l.Half.Y()},
		{l.Center.X() + l.Half.X(), l.Center.Y() + l.Half.Y()},
	}
	q := Quad{
		Letter: l,
		Char:   l.Char,
		Center: m.camera.WorldToScreen(n.ToWorld(l.Center)),
		Angle:  -angle,
		Size:   l.Half.Mul(2 * scale * ppu),
		Color:  n.Mesh.Color,
	}
	for i, c := range local {
		q.Corners[i] = m.camera.WorldToScreen(n.ToWorld(c))
	}
	return q
}

// GroundLine returns the viewport pixel row of a label's floor while it is
// in the world.
func (m *Menu) GroundLine(lbl *Label) (float64, bool) {
	if lbl.Ground == nil || !m.world.Contains(lbl.Ground) {
		return 0, false
	}
	world := lbl.Group.ToWorld(mgl64.Vec2{0, lbl.GroundY})
	return m.camera.WorldToScreen(world).Y(), true
}
