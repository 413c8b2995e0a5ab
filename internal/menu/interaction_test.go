package menu

import (
	"github.com/go-gl/mathgl/mgl64"
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// screenAt returns the viewport pixel over the center of a letter's box.
func screenAt(m *Menu, l *Letter) (float64, float64) {
	p := m.Camera().WorldToScreen(l.Mesh.ToWorld(l.Center))
	return p.X(), p.Y()
}

var _ = g.Describe("Interaction", func() {
	var (
		m   *Menu
		rec *recorder
	)

	g.BeforeEach(func() {
		m = built(Sticky(), "Home", "Work")
		rec = &recorder{}
		m.OnEvent(rec.record)
	})

	g.It("reports hover without touching the bodies", func() {
		l := m.Labels()[0].Letters[1]
		Expect(m.PointerMove(screenAt(m, l))).To(BeTrue())
		Expect(m.Hover()).To(BeTrue())
		for _, other := range m.Letters() {
			Expect(other.Body.Velocity()).To(Equal(mgl64.Vec2{}))
		}

		Expect(m.PointerMove(0, 0)).To(BeFalse())
		Expect(m.Hover()).To(BeFalse())
	})

	g.It("strikes exactly one letter, away from the nearest edge", func() {
		target := m.Labels()[1].Letters[2]
		res := m.Click(screenAt(m, target))

		Expect(res.Hit).To(BeTrue())
		Expect(res.Letter).To(Equal(target))
		Expect(res.Normal.Len()).To(BeNumerically("~", 1, 1e-12))
		Expect(res.Impulse.ApproxEqual(res.Normal.Mul(-m.Variant().Force))).To(BeTrue())

		want := res.Impulse.Mul(1 / target.Body.Mass())
		Expect(target.Body.Velocity().ApproxEqualThreshold(want, 1e-9)).To(BeTrue())
		Expect(target.Body.AngularVelocity()).To(BeNumerically("~", 0, 1e-9))

		for _, other := range m.Letters() {
			if other == target {
				continue
			}
			Expect(other.Body.Velocity()).To(Equal(mgl64.Vec2{}))
		}

		Expect(rec.count(EventImpulse)).To(Equal(1))
		e := rec.events[0]
		Expect(e.Label).To(Equal(1))
		Expect(e.Letter).To(Equal(2))
	})

	g.It("does nothing when the pointer misses every mesh", func() {
		m.PointerMove(screenAt(m, m.Letters()[0]))
		res := m.Click(0, 0)

		Expect(res.Hit).To(BeFalse())
		Expect(res.Letter).To(BeNil())
		Expect(m.Hover()).To(BeFalse())
		Expect(rec.events).To(BeEmpty())
		for _, l := range m.Letters() {
			Expect(l.Body.Velocity()).To(Equal(mgl64.Vec2{}))
		}
	})

	g.It("ignores the pointer until the menu is built", func() {
		pending := newMenu(Sticky(), "Home")
		Expect(pending.PointerMove(640, 360)).To(BeFalse())
		Expect(pending.Click(640, 360).Hit).To(BeFalse())
	})

	g.Context("with a drop menu", func() {
		g.BeforeEach(func() {
			m = built(Drop(), "Home", "Work", "About")
			rec = &recorder{}
			m.OnEvent(rec.record)
			for _, lbl := range m.Labels() {
				m.revealGround(lbl)
			}
		})

		g.It("schedules every ground to detach, staggered by lane", func() {
			res := m.Click(screenAt(m, m.Labels()[0].Letters[0]))
			Expect(res.Letter).NotTo(BeNil())

			n := len(m.Labels())
			delay := m.Variant().DetachDelay
			for _, lbl := range m.Labels() {
				Expect(lbl.DetachPending()).To(BeTrue())
				Expect(lbl.detachAt).To(BeNumerically("~", delay*float64(n+lbl.Index), 1e-12))
			}

			steps := int(delay*float64(2*n)/dt) + 2
			for i := 0; i < steps; i++ {
				m.Tick(dt)
			}
			Expect(rec.count(EventGroundDetach)).To(Equal(n))
			for _, lbl := range m.Labels() {
				Expect(m.World().Contains(lbl.Ground)).To(BeFalse())
				Expect(lbl.DetachPending()).To(BeFalse())
			}
		})

		g.It("keeps the earliest pending detach on repeated clicks", func() {
			l := m.Labels()[0].Letters[0]
			m.Click(screenAt(m, l))
			first := m.Labels()[0].detachAt

			m.Tick(dt)
			m.Click(screenAt(m, l))
			Expect(m.Labels()[0].detachAt).To(Equal(first))
		})

		g.It("fires detaches in lane order", func() {
			m.Click(screenAt(m, m.Labels()[0].Letters[0]))
			for i := 0; i < 60; i++ {
				m.Tick(dt)
			}
			var order []int
			for _, e := range rec.events {
				if e.Kind == EventGroundDetach {
					order = append(order, e.Label)
				}
			}
			Expect(order).To(Equal([]int{0, 1, 2}))
		})
	})
})
