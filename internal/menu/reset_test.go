package menu

import (
	"github.com/go-gl/mathgl/mgl64"
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/letterfall/internal/palette"
)

var _ = g.Describe("Reset", func() {
	var (
		m   *Menu
		rec *recorder
	)

	g.BeforeEach(func() {
		m = built(Drop(), "Home", "Work", "About")
		rec = &recorder{}
		m.OnEvent(rec.record)
	})

	expectReseeded := func() {
		for _, lbl := range m.Labels() {
			Expect(lbl.GroundShown).To(BeFalse())
			Expect(lbl.DetachPending()).To(BeFalse())
			Expect(m.World().Contains(lbl.Ground)).To(BeFalse())
			for _, l := range lbl.Letters {
				Expect(l.Body.Position()).To(Equal(l.Start))
				Expect(l.Body.Angle()).To(Equal(0.0))
				Expect(l.Body.Velocity()).To(Equal(mgl64.Vec2{}))
				Expect(l.Body.AngularVelocity()).To(Equal(0.0))
				Expect(l.Mesh.Position).To(Equal(l.Start))
				Expect(l.Mesh.Rotation).To(Equal(0.0))
				Expect(l.State).To(Equal(Falling))
			}
		}
	}

	g.It("reseeds every letter once the last label falls out of view", func() {
		for i := 0; i < 30; i++ {
			m.Tick(dt)
		}
		for _, lbl := range m.Labels() {
			m.revealGround(lbl)
		}
		m.scheduleDetach()

		last := m.Labels()[len(m.Labels())-1]
		drag(last, -60)
		m.Tick(dt)

		Expect(rec.count(EventReset)).To(Equal(1))
		expectReseeded()
	})

	g.It("leaves the world topology untouched", func() {
		bodies := m.World().NumBodies()
		constraints := len(m.World().Constraints())
		meshes := m.Scene().Meshes()

		m.Reset()
		m.Reset()

		Expect(rec.count(EventReset)).To(Equal(2))
		Expect(m.World().NumBodies()).To(Equal(bodies))
		Expect(m.World().Constraints()).To(HaveLen(constraints))
		Expect(m.Scene().Meshes()).To(Equal(meshes))
		expectReseeded()
	})

	g.It("is a no-op before the menu is built", func() {
		pending := newMenu(Drop(), "Home")
		pending.OnEvent(rec.record)
		pending.Reset()
		Expect(rec.events).To(BeEmpty())
	})

	g.It("fades letters to a freshly picked gradient", func() {
		m.Reset()
		for _, l := range m.Letters() {
			Expect(l.Mesh.Fading()).To(BeTrue())
		}

		for i := 0; i < 30; i++ {
			m.Tick(dt)
		}
		for _, lbl := range m.Labels() {
			n := len(lbl.Letters)
			for j, l := range lbl.Letters {
				Expect(l.Mesh.Fading()).To(BeFalse())
				Expect(l.Mesh.Mesh.Color.Hex()).To(Equal(lbl.Gradient.At(palette.Progress(j, n)).Hex()))
			}
		}
	})

	g.It("switches colors at once without a fade duration", func() {
		v := Drop()
		v.FadeSeconds = 0
		m = built(v, "Home", "Work")
		m.Reset()
		for _, lbl := range m.Labels() {
			n := len(lbl.Letters)
			for j, l := range lbl.Letters {
				Expect(l.Mesh.Fading()).To(BeFalse())
				Expect(l.Mesh.Mesh.Color.Hex()).To(Equal(lbl.Gradient.At(palette.Progress(j, n)).Hex()))
			}
		}
	})

	g.It("keeps indexed gradients stable across resets", func() {
		s := built(Sticky(), "Home", "Work")
		before := s.Labels()[1].Gradient
		s.Reset()
		Expect(s.Labels()[1].Gradient).To(Equal(before))
	})
})
