package menu

import (
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = g.Describe("Quads", func() {
	g.It("projects one box per letter onto the letter's screen position", func() {
		m := built(Sticky(), "Home", "Work")
		quads := m.Quads()
		Expect(quads).To(HaveLen(8))

		for _, q := range quads {
			x, y := screenAt(m, q.Letter)
			Expect(q.Center.X()).To(BeNumerically("~", x, 1e-9))
			Expect(q.Center.Y()).To(BeNumerically("~", y, 1e-9))
			Expect(q.Char).To(Equal(q.Letter.Char))

			ppu := m.Camera().PixelsPerUnit()
			Expect(q.Size.X()).To(BeNumerically("~", 2*q.Letter.Half.X()*ppu, 1e-9))
			Expect(q.Corners[0].Y()).To(BeNumerically("<", q.Corners[1].Y()))
			Expect(q.Corners[1].X()).To(BeNumerically("<", q.Corners[2].X()))
		}
	})

	g.It("shrinks with the mobile scene scale", func() {
		m := built(Sticky(), "Home")
		wide := m.Quads()[0].Size.X()
		m.Resize(700, 720)
		Expect(m.Quads()[0].Size.X()).To(BeNumerically("~", wide*0.7, 1e-9))
	})

	g.It("reports ground lines only while the floor is in the world", func() {
		m := built(Drop(), "Home")
		lbl := m.Labels()[0]
		_, ok := m.GroundLine(lbl)
		Expect(ok).To(BeFalse())

		m.revealGround(lbl)
		y, ok := m.GroundLine(lbl)
		Expect(ok).To(BeTrue())
		Expect(y).To(BeNumerically(">", 0))
		Expect(y).To(BeNumerically("<", m.Viewport().H))
	})
})
