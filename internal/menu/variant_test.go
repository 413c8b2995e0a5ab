package menu

import (
	"context"
	"errors"
	"math/rand"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/physics"
	"github.com/san-kum/letterfall/internal/viewport"
)

var _ = g.Describe("Variants", func() {
	g.It("lists the presets in order", func() {
		Expect(Variants()).To(Equal([]string{"drop", "hinge", "sticky"}))
	})

	g.It("returns fresh copies", func() {
		v, err := Lookup("drop")
		Expect(err).NotTo(HaveOccurred())
		v.Force = 0
		again, _ := Lookup("drop")
		Expect(again.Force).To(Equal(25.0))
	})

	g.It("rejects unknown names", func() {
		_, err := Lookup("bouncy")
		Expect(err).To(MatchError(ErrUnknownVariant))
	})

	g.DescribeTable("validation",
		func(mutate func(*Variant)) {
			v := Sticky()
			mutate(&v)
			Expect(v.Validate()).To(MatchError(ErrInvalidVariant))
		},
		g.Entry("zero mass", func(v *Variant) { v.TotalMass = 0 }),
		g.Entry("negative force", func(v *Variant) { v.Force = -1 }),
		g.Entry("full damping", func(v *Variant) { v.LinearDamping = 1 }),
		g.Entry("negative cone", func(v *Variant) { v.ConeAngle = -0.1 }),
		g.Entry("anchors without radius", func(v *Variant) { v.AnchorRadius = 0 }),
		g.Entry("flat ground", func(v *Variant) {
			v.Ground = GroundReveal
			v.GroundHalfWidth = 0
		}),
		g.Entry("no colors", func(v *Variant) { v.Palette.Gradients = nil }),
	)

	g.It("accepts every preset", func() {
		for _, name := range Variants() {
			v, _ := Lookup(name)
			Expect(v.Validate()).To(Succeed(), name)
		}
	})

	g.It("parses mode names", func() {
		o, err := ParseOrder("reversed")
		Expect(err).NotTo(HaveOccurred())
		Expect(o).To(Equal(OrderReversed))
		a, err := ParseAnchors(AnchorsPerLetter.String())
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(AnchorsPerLetter))
		_, err = ParseGround("lava")
		Expect(err).To(HaveOccurred())
	})

	g.It("requires labels", func() {
		_, err := New(Options{Variant: Sticky()})
		Expect(err).To(MatchError(ErrNoLabels))
	})
})

var _ = g.Describe("Wiring", func() {
	g.DescribeTable("links consecutive letters",
		func(v Variant, kind physics.ConstraintKind) {
			m := built(v, "Menu", "Go")
			for _, lbl := range m.Labels() {
				Expect(lbl.Chain).To(HaveLen(len(lbl.Letters) - 1))
				for k, c := range lbl.Chain {
					Expect(c.Kind()).To(Equal(kind))
					Expect(c.Couples(lbl.Letters[k].Body, lbl.Letters[k+1].Body)).To(BeTrue())
					Expect(c.CollideConnected()).To(BeTrue())
				}
			}
		},
		g.Entry("drop", Drop(), physics.ConeTwist),
		g.Entry("sticky", Sticky(), physics.ConeTwist),
		g.Entry("hinge", Hinge(), physics.Distance),
	)

	g.It("never couples the same pair twice", func() {
		m := built(Hinge(), "Letters")
		seen := map[[2]*physics.Body]bool{}
		for _, c := range m.World().Constraints() {
			key := [2]*physics.Body{c.BodyA(), c.BodyB()}
			Expect(seen[key]).To(BeFalse())
			seen[key] = true
		}
	})

	g.It("joins drop letters at their side centers", func() {
		m := built(Drop(), "AB")
		lbl := m.Labels()[0]
		c := lbl.Chain[0]
		a := lbl.Letters[0]
		Expect(c.PivotA().X()).To(Equal(a.Half.X()))
		Expect(c.PivotA().Y()).To(Equal(0.0))
		Expect(c.PivotB().X()).To(Equal(-a.Half.X()))
	})

	g.It("joins sticky letters near their top corners", func() {
		m := built(Sticky(), "AB")
		lbl := m.Labels()[0]
		c := lbl.Chain[0]
		a := lbl.Letters[0]
		Expect(c.PivotA().X()).To(BeNumerically("~", 0.7*a.Half.X(), 1e-12))
		Expect(c.PivotA().Y()).To(Equal(a.Half.Y()))
		Expect(c.PivotB().X()).To(BeNumerically("~", -0.7*a.Half.X(), 1e-12))
	})

	g.It("hangs sticky labels from two static anchors", func() {
		m := built(Sticky(), "Home")
		lbl := m.Labels()[0]
		Expect(lbl.Anchors).To(HaveLen(2))
		Expect(lbl.Anchored).To(HaveLen(2))

		first, last := lbl.First(), lbl.Last()
		Expect(lbl.Anchors[0].IsDynamic()).To(BeFalse())
		Expect(lbl.Anchors[0].Position().X()).To(BeNumerically("~", first.Start.X()-2, 1e-12))
		Expect(lbl.Anchors[1].Position().X()).To(BeNumerically("~", last.Start.X()+last.Half.X()+2.5, 1e-12))
		Expect(lbl.Anchored[0].Couples(lbl.Anchors[0], first.Body)).To(BeTrue())
		Expect(lbl.Anchored[1].Couples(lbl.Anchors[1], last.Body)).To(BeTrue())
	})

	g.It("gives each hinge letter a pivot above it", func() {
		m := built(Hinge(), "Home")
		lbl := m.Labels()[0]
		Expect(lbl.Anchors).To(HaveLen(4))
		for _, l := range lbl.Letters {
			Expect(l.Pivot).NotTo(BeNil())
			Expect(l.Pivot.Position().X()).To(BeNumerically("~", l.Start.X(), 1e-12))
			Expect(l.Pivot.Position().Y()).To(BeNumerically("~", l.Origin.Y()+4, 1e-12))
		}
		Expect(m.World().NumBodies()).To(Equal(8))
	})
})

var _ = g.Describe("Font loading", func() {
	g.It("stays unbuilt and reports the failure once", func() {
		rec := &recorder{}
		m, err := New(Options{
			Variant: Sticky(),
			Labels:  []string{"Home"},
			Font:    glyph.NewLoader(glyph.DefaultSize, nil).Load(context.Background(), "builtin:missing"),
		})
		Expect(err).NotTo(HaveOccurred())
		m.OnEvent(rec.record)

		Eventually(func() bool {
			m.Tick(dt)
			return m.Err() != nil
		}).Should(BeTrue())

		for i := 0; i < 10; i++ {
			m.Tick(dt)
		}
		Expect(m.Built()).To(BeFalse())
		Expect(errors.Is(m.Err(), ErrFontFailed)).To(BeTrue())
		Expect(errors.Is(m.Err(), glyph.ErrLoadFailed)).To(BeTrue())
		Expect(rec.count(EventBuildFailed)).To(Equal(1))
		Expect(m.World().NumBodies()).To(Equal(0))
		Expect(m.Scene().Meshes()).To(Equal(0))
	})

	g.It("builds as soon as a pending font resolves", func() {
		fu, resolve := glyph.NewPromise()
		m, err := New(Options{
			Variant: Sticky(),
			Labels:  []string{"Home"},
			Font:    fu,
			Rand:    rand.New(rand.NewSource(1)),
		})
		Expect(err).NotTo(HaveOccurred())

		m.Tick(dt)
		m.Tick(dt)
		Expect(m.Built()).To(BeFalse())
		Expect(m.World().Steps()).To(Equal(2))

		resolve(testFont, nil)
		m.Tick(dt)
		Expect(m.Built()).To(BeTrue())
		Expect(m.Letters()).To(HaveLen(4))
	})
})

var _ = g.Describe("Resize", func() {
	g.It("shrinks the scene below the breakpoint", func() {
		m := built(Sticky(), "Home")
		Expect(m.Scene().Root.Scale).To(Equal(1.0))

		m.Resize(600, 800)
		Expect(m.Viewport().IsMobile).To(BeTrue())
		Expect(m.Scene().Root.Scale).To(Equal(viewport.MobileScale))
		Expect(m.Camera().Right).To(BeNumerically("~", viewport.DefaultDistance*600.0/800.0, 1e-12))

		m.Resize(1024, 768)
		Expect(m.Scene().Root.Scale).To(Equal(1.0))
	})

	g.It("still picks letters on a small screen", func() {
		m := built(Sticky(), "Home")
		m.Resize(400, 700)
		l := m.Labels()[0].Letters[0]
		Expect(m.Click(screenAt(m, l)).Letter).To(Equal(l))
	})
})
