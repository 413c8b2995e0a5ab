package menu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/palette"
)

var _ = g.Describe("Builder", func() {
	g.Context("with the label AB", func() {
		var (
			m      *Menu
			lbl    *Label
			ma, mb glyph.Metrics
		)

		g.BeforeEach(func() {
			m = built(Sticky(), "AB")
			Expect(m.Labels()).To(HaveLen(1))
			lbl = m.Labels()[0]

			var err error
			ma, err = testFont.Glyph('A')
			Expect(err).NotTo(HaveOccurred())
			mb, err = testFont.Glyph('B')
			Expect(err).NotTo(HaveOccurred())
		})

		g.It("yields one letter per character in reading order", func() {
			Expect(lbl.Letters).To(HaveLen(2))
			Expect(lbl.Letters[0].Char).To(Equal('A'))
			Expect(lbl.Letters[1].Char).To(Equal('B'))
			Expect(lbl.Letters[0].Index).To(Equal(0))
			Expect(lbl.Letters[1].Index).To(Equal(1))
		})

		g.It("sizes boxes from half the glyph bounds, offset by the glyph center", func() {
			a := lbl.Letters[0]
			Expect(a.Half.ApproxEqual(ma.Size().Mul(0.5))).To(BeTrue())
			Expect(a.Center.ApproxEqual(ma.Center())).To(BeTrue())
			Expect(a.Body.HalfExtents()).To(Equal(a.Half))
			Expect(a.Body.Offset()).To(Equal(a.Center))
			Expect(a.Mesh.Mesh.Half).To(Equal(a.Half))
		})

		g.It("places letters along the doubled running half width before re-basing", func() {
			hxA := ma.Size().X() / 2
			Expect(lbl.Letters[0].Origin.X()).To(Equal(0.0))
			Expect(lbl.Letters[1].Origin.X()).To(BeNumerically("~", hxA*2, 1e-9))
		})

		g.It("shifts every letter left by the accumulated width exactly once", func() {
			width := ma.Size().X()/2 + mb.Size().X()/2
			Expect(lbl.Width).To(BeNumerically("~", width, 1e-9))

			for _, l := range lbl.Letters {
				Expect(l.Start.X()).To(BeNumerically("~", l.Origin.X()-width, 1e-9))
				Expect(l.Body.Position().ApproxEqual(l.Start)).To(BeTrue())
				Expect(l.Mesh.Position).To(Equal(l.Start))
			}
			Expect(lbl.First().Start.X()).To(BeNumerically("~", -width, 1e-9))

			m.rebase(lbl)
			Expect(lbl.First().Start.X()).To(BeNumerically("~", -width, 1e-9))

			for i := 0; i < 30; i++ {
				m.Tick(dt)
			}
			m.Reset()
			Expect(lbl.First().Start.X()).To(BeNumerically("~", -width, 1e-9))
		})

		g.It("splits the total mass across the letters", func() {
			for _, l := range lbl.Letters {
				Expect(l.Body.Mass()).To(BeNumerically("~", 0.5, 1e-12))
			}
		})

		g.It("colors letters along the label gradient", func() {
			grad := lbl.Gradient
			Expect(lbl.Letters[0].Mesh.Mesh.Color.Hex()).To(Equal(grad.At(0).Hex()))
			Expect(lbl.Letters[1].Mesh.Mesh.Color.Hex()).To(Equal(grad.At(1).Hex()))
		})

		g.It("registers every body with the world once and groups meshes per label", func() {
			Expect(m.World().NumBodies()).To(Equal(2 + len(lbl.Anchors)))
			for _, l := range lbl.Letters {
				Expect(m.World().Contains(l.Body)).To(BeTrue())
				Expect(l.Mesh.Parent()).To(Equal(lbl.Group))
				got, ok := m.LetterAt(l.Mesh)
				Expect(ok).To(BeTrue())
				Expect(got).To(Equal(l))
			}
			Expect(lbl.Group.Parent()).To(Equal(m.Scene().Root))
		})
	})

	g.It("lays labels out in lanes around the center", func() {
		m := built(Sticky(), "Home", "Work", "About")
		offset := 3*DefaultMargin*0.5 - 1
		for i, lbl := range m.Labels() {
			Expect(lbl.Lane).To(BeNumerically("~", float64(2-i)*DefaultMargin-offset, 1e-9))
			for _, l := range lbl.Letters {
				Expect(l.Origin.Y()).To(Equal(lbl.Lane))
				Expect(l.Start.Y()).To(Equal(lbl.Lane))
			}
		}
	})

	g.It("reverses labels and raises them for a drop start", func() {
		m := built(Drop(), "Home", "Work")
		Expect(m.Labels()[0].Text).To(Equal("Work"))
		Expect(m.Labels()[0].Source).To(Equal(1))
		Expect(m.Labels()[1].Text).To(Equal("Home"))

		v := m.Variant()
		for i, lbl := range m.Labels() {
			for j, l := range lbl.Letters {
				want := lbl.Lane + v.DropBase + float64(i+1)*v.DropStep + float64(j)*v.Jitter
				Expect(l.Start.Y()).To(BeNumerically("~", want, 1e-9))
			}
		}
		// grounds wait for the reveal
		Expect(m.World().NumBodies()).To(Equal(8))
	})

	g.It("skips empty labels and keeps building the rest", func() {
		m := built(Sticky(), "Home", "", "Work")
		Expect(m.Labels()).To(HaveLen(2))
		Expect(m.LabelErrors()).To(HaveLen(1))

		err := m.LabelErrors()[0]
		Expect(errors.Is(err, ErrEmptyLabel)).To(BeTrue())
		var lerr *LabelError
		Expect(errors.As(err, &lerr)).To(BeTrue())
		Expect(lerr.Index).To(Equal(1))

		// lanes are kept for the missing label
		Expect(m.Labels()[1].Index).To(Equal(2))
	})

	g.It("takes a partially added label back out of the world", func() {
		m := newMenu(Sticky(), "Home")
		lbl, err := m.buildLabel(testFont, "Home", 0, 0, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.World().NumBodies()).To(Equal(4))

		Expect(m.World().Remove(lbl.Last().Body)).To(Succeed())
		m.discard(lbl)
		Expect(m.World().NumBodies()).To(BeZero())
		Expect(m.letters).To(BeEmpty())
	})

	g.It("gives a single letter label the start color of its gradient", func() {
		m := built(Sticky(), "X")
		lbl := m.Labels()[0]
		Expect(lbl.Chain).To(BeEmpty())
		Expect(lbl.Letters[0].Mesh.Mesh.Color.Hex()).To(Equal(lbl.Gradient.From.Hex()))
		Expect(palette.Progress(0, 1)).To(Equal(0.0))
	})

	g.It("builds multi-byte runes as single letters", func() {
		m := built(Sticky(), "Café")
		Expect(m.Labels()[0].Letters).To(HaveLen(4))
		Expect(m.Labels()[0].Last().Char).To(Equal('é'))
		Expect(m.Labels()[0].Last().Half.X()).To(BeNumerically(">", 0))
	})

	g.It("keeps Start consistent with the body after re-basing", func() {
		m := built(Hinge(), "Menu")
		for _, l := range m.Letters() {
			Expect(l.Body.Position().Sub(l.Start).Len()).To(BeNumerically("<", 1e-9))
			Expect(l.Start.Sub(mgl64.Vec2{l.Origin.X() - l.Label.Width, l.Origin.Y()}).Len()).To(BeNumerically("<", 1e-9))
		}
	})
})
