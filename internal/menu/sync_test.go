package menu

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/letterfall/internal/glyph"
)

// drag translates every letter of a label so that its highest letter sits
// at top.
func drag(lbl *Label, top float64) {
	high := math.Inf(-1)
	for _, l := range lbl.Letters {
		high = math.Max(high, l.Body.Position().Y())
	}
	shift := mgl64.Vec2{0, top - high}
	for _, l := range lbl.Letters {
		l.Body.SetPosition(l.Body.Position().Add(shift))
	}
}

var _ = g.Describe("Sync", func() {
	g.It("builds on the first tick once the font is ready", func() {
		m := newMenu(Sticky(), "Home")
		Expect(m.Built()).To(BeFalse())
		m.Tick(dt)
		Expect(m.Built()).To(BeTrue())
		Expect(m.Ticks()).To(Equal(1))
		Expect(m.World().Steps()).To(Equal(1))
	})

	g.It("copies body transforms onto meshes every tick", func() {
		m := built(Sticky(), "Home", "Work")
		m.Click(screenAt(m, m.Labels()[0].Letters[1]))
		for i := 0; i < 20; i++ {
			m.Tick(dt)
		}
		for _, l := range m.Letters() {
			Expect(l.Mesh.Position).To(Equal(l.Body.Position()))
			Expect(l.Mesh.Rotation).To(Equal(l.Body.Angle()))
		}
	})

	g.It("keeps hinge letters hanging near their pivots", func() {
		m := built(Hinge(), "Menu")
		for i := 0; i < 240; i++ {
			m.Tick(dt)
		}
		for _, l := range m.Letters() {
			pivot := l.Pivot.Position()
			anchor := l.Body.LocalToWorld(mgl64.Vec2{0, m.Variant().PivotHeight})
			Expect(anchor.Sub(pivot).Len()).To(BeNumerically("<", 0.5))
		}
	})

	g.It("snapshots letters and floors", func() {
		m := built(Drop(), "Home", "Work")
		m.Tick(dt)
		f := m.Snapshot()
		Expect(f.Tick).To(Equal(1))
		Expect(f.Time).To(BeNumerically("~", dt, 1e-12))
		Expect(f.Letters).To(HaveLen(8))
		Expect(f.Grounds).To(HaveLen(2))
		for _, gf := range f.Grounds {
			Expect(gf.Present).To(BeFalse())
		}
		Expect(f.Letters[0].Char).To(Equal('W'))
		Expect(f.Letters[0].Color).To(HavePrefix("#"))
	})

	g.Context("revealing floors", func() {
		var (
			m   *Menu
			rec *recorder
		)

		g.BeforeEach(func() {
			m = built(Drop(), "Home", "Work")
			rec = &recorder{}
			m.OnEvent(rec.record)
		})

		g.It("adds a floor once a letter drops to the floor line", func() {
			lbl := m.Labels()[0]
			drag(lbl, lbl.FloorLine(m.RevealHeight())-1)

			m.Tick(dt)
			Expect(rec.countFor(EventGroundReveal, 0)).To(Equal(1))
			Expect(rec.countFor(EventGroundReveal, 1)).To(Equal(0))
			Expect(lbl.GroundShown).To(BeTrue())
			Expect(m.World().Contains(lbl.Ground)).To(BeTrue())
			for _, l := range lbl.Letters {
				Expect(l.State).To(Equal(GroundRevealed))
			}
			for _, l := range m.Labels()[1].Letters {
				Expect(l.State).To(Equal(Falling))
			}

			for i := 0; i < 10; i++ {
				m.Tick(dt)
			}
			Expect(rec.countFor(EventGroundReveal, 0)).To(Equal(1))
		})

		g.It("places the floor line one margin above the ground", func() {
			wide, err := New(Options{
				Variant: Drop(),
				Labels:  []string{"Home", "Work"},
				Font:    glyph.Resolved(testFont, nil),
				Margin:  10,
				Rand:    rand.New(rand.NewSource(42)),
			})
			Expect(err).NotTo(HaveOccurred())
			wide.poll()
			Expect(wide.RevealHeight()).To(Equal(10.0))

			wrec := &recorder{}
			wide.OnEvent(wrec.record)
			lbl := wide.Labels()[0]
			drag(lbl, lbl.GroundY+8)
			wide.Tick(dt)
			Expect(wrec.countFor(EventGroundReveal, 0)).To(Equal(1))
		})

		g.It("does not bring a detached floor back", func() {
			lbl := m.Labels()[0]
			drag(lbl, lbl.FloorLine(m.RevealHeight())-1)
			m.Tick(dt)

			m.scheduleDetach()
			for i := 0; i < 60; i++ {
				m.Tick(dt)
			}
			Expect(rec.countFor(EventGroundDetach, 0)).To(Equal(1))
			Expect(m.World().Contains(lbl.Ground)).To(BeFalse())
			Expect(rec.countFor(EventGroundReveal, 0)).To(Equal(1))
		})

		g.It("reveals each floor at most once per reset cycle", func() {
			for i := 0; i < 900; i++ {
				if i == 240 {
					m.Click(screenAt(m, m.Labels()[1].Letters[0]))
				}
				m.Tick(dt)
			}

			reveals := map[int]int{}
			for _, e := range rec.events {
				switch e.Kind {
				case EventReset:
					reveals = map[int]int{}
				case EventGroundReveal:
					reveals[e.Label]++
					Expect(reveals[e.Label]).To(Equal(1))
				}
			}
			Expect(rec.count(EventGroundReveal)).To(BeNumerically(">=", 2))
		})
	})
})
