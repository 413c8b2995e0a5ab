package scene

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fade animates the three channels of a mesh color.
type fade struct {
	tweens [3]*gween.Tween
	target colorful.Color
}

// FadeTo starts a linear color fade on the node's mesh, replacing any fade in
// progress. A non-positive duration sets the color immediately.
func (n *Node) FadeTo(to colorful.Color, seconds float64) {
	if n.Mesh == nil {
		return
	}
	if seconds <= 0 {
		n.Mesh.Color = to
		n.fade = nil
		return
	}
	from := n.Mesh.Color
	d := float32(seconds)
	n.fade = &fade{
		tweens: [3]*gween.Tween{
			gween.New(float32(from.R), float32(to.R), d, ease.Linear),
			gween.New(float32(from.G), float32(to.G), d, ease.Linear),
			gween.New(float32(from.B), float32(to.B), d, ease.Linear),
		},
		target: to,
	}
}

// Fading reports whether a color fade is still running.
func (n *Node) Fading() bool { return n.fade != nil }

func (n *Node) advanceFade(dt float32) {
	f := n.fade
	if f == nil {
		return
	}
	var ch [3]float64
	done := true
	for i, tw := range f.tweens {
		v, finished := tw.Update(dt)
		ch[i] = float64(v)
		if !finished {
			done = false
		}
	}
	if done {
		n.Mesh.Color = f.target
		n.fade = nil
		return
	}
	n.Mesh.Color = colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Clamped()
}
