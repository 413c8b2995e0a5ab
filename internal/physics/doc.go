// Package physics wraps a chipmunk space with the small surface the menu
// needs: bodies with one shape each, joints between pairs of bodies, and
// contact materials.
//
// Bodies come in two flavors:
//
//   - dynamic: mass > 0, moved by the solver
//   - static: mass == 0, used for grounds and anchor pivots
//
// Joints are one of [ConeTwist], [Distance] or [Hinge]. Cone-twist is a
// pivot plus a rotary limit, which is the planar reading of a cone-twist
// constraint with a cone angle.
//
// A [World] is driven from a single goroutine:
//
//	w := physics.NewWorld(physics.DefaultConfig())
//	b, _ := physics.NewBox(half, offset, physics.BodyOptions{Mass: 1})
//	_ = w.Add(b)
//	w.Step(1.0 / 60)
package physics
