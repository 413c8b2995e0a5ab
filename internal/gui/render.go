package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/physics"
)

func vec(p mgl64.Vec2) rl.Vector2 { return rl.NewVector2(float32(p.X()), float32(p.Y())) }

func glyphSize(f *glyph.Font) float64 {
	if f == nil || f.Size <= 0 {
		return glyph.DefaultSize
	}
	return f.Size
}

// drawLetters draws every glyph rotated about its box center.
func (a *App) drawLetters() {
	if !a.atlasOK {
		return
	}
	f, _, _ := a.font.Result()
	em := glyphSize(f)
	px := float32(em * a.menu.Camera().PixelsPerUnit() * a.menu.Scene().Root.Scale)

	for _, q := range a.menu.Quads() {
		text := string(q.Char)
		size := rl.MeasureTextEx(a.atlas, text, px, 0)
		origin := rl.NewVector2(size.X/2, size.Y/2)
		rl.DrawTextPro(a.atlas, text, vec(q.Center), origin,
			float32(q.Angle*180/math.Pi), px, 0, toRL(q.Color))
	}
}

// drawDebug outlines every collision box, live floor and joint.
func (a *App) drawDebug() {
	w := float32(rl.GetScreenWidth())
	for _, q := range a.menu.Quads() {
		for i := range q.Corners {
			rl.DrawLineV(vec(q.Corners[i]), vec(q.Corners[(i+1)%len(q.Corners)]), ColDebug)
		}
	}

	for _, lbl := range a.menu.Labels() {
		if y, ok := a.menu.GroundLine(lbl); ok {
			rl.DrawLineEx(rl.NewVector2(0, float32(y)), rl.NewVector2(w, float32(y)), 2, ColGround)
		}
		for _, c := range append(append([]*physics.Constraint(nil), lbl.Chain...), lbl.Anchored...) {
			a.drawJoint(lbl, c)
		}
	}
}

func (a *App) drawJoint(lbl *menu.Label, c *physics.Constraint) {
	cam := a.menu.Camera()
	pa := cam.WorldToScreen(lbl.Group.ToWorld(c.BodyA().LocalToWorld(c.PivotA())))
	pb := cam.WorldToScreen(lbl.Group.ToWorld(c.BodyB().LocalToWorld(c.PivotB())))
	rl.DrawLineV(vec(pa), vec(pb), ColJoint)
	rl.DrawCircleV(vec(pa), 3, ColJoint)
	rl.DrawCircleV(vec(pb), 3, ColJoint)
}
