package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Config holds world-wide simulation settings.
type Config struct {
	Gravity    mgl64.Vec2
	Iterations int
	// SleepTime is the idle time after which bodies fall asleep.
	// Zero disables sleeping.
	SleepTime float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:    mgl64.Vec2{0, -50},
		Iterations: 10,
		SleepTime:  1.0,
	}
}

// ContactMaterial overrides the contact response between two materials.
type ContactMaterial struct {
	A, B        *Material
	Friction    float64
	Restitution float64
}

// World owns bodies and constraints and advances them in fixed steps.
// It is not safe for concurrent use.
type World struct {
	space       *cp.Space
	bodies      map[*Body]struct{}
	constraints []*Constraint
	contacts    []ContactMaterial
	types       map[*Material]cp.CollisionType
	steps       int
	time        float64
}

func NewWorld(cfg Config) *World {
	space := cp.NewSpace()
	space.SetGravity(toCP(cfg.Gravity))
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	}
	if cfg.SleepTime > 0 {
		space.SleepTimeThreshold = cfg.SleepTime
	} else {
		space.SleepTimeThreshold = cp.INFINITY
	}

	return &World{
		space:  space,
		bodies: make(map[*Body]struct{}),
		types:  make(map[*Material]cp.CollisionType),
	}
}

func (w *World) SetGravity(g mgl64.Vec2) { w.space.SetGravity(toCP(g)) }
func (w *World) Gravity() mgl64.Vec2     { return fromCP(w.space.Gravity()) }

// Add registers b with the world. A body may be added only once.
func (w *World) Add(b *Body) error {
	if b.world != nil {
		return ErrAlreadyAdded
	}
	if b.material != nil {
		b.shape.SetCollisionType(w.collisionType(b.material))
	}
	w.space.AddBody(b.body)
	w.space.AddShape(b.shape)
	w.bodies[b] = struct{}{}
	b.world = w
	return nil
}

// Remove takes b out of the world. Constraints attached to it stay registered.
func (w *World) Remove(b *Body) error {
	if b.world != w {
		return ErrNotAdded
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, b)
	b.world = nil
	return nil
}

func (w *World) Contains(b *Body) bool {
	_, ok := w.bodies[b]
	return ok
}

// NumBodies returns the number of registered bodies.
func (w *World) NumBodies() int { return len(w.bodies) }

// Constraints returns the registered constraints in insertion order.
func (w *World) Constraints() []*Constraint { return w.constraints }

// AddConstraint registers c. Both of its bodies must already be in the world.
func (w *World) AddConstraint(c *Constraint) error {
	if !w.Contains(c.a) || !w.Contains(c.b) {
		return ErrDetachedBody
	}
	for _, part := range c.parts {
		w.space.AddConstraint(part)
	}
	w.constraints = append(w.constraints, c)
	return nil
}

// AddContactMaterial installs a collision handler that replaces the
// friction and restitution of every contact between the two materials.
// Each material keeps its own coefficients against everything else.
func (w *World) AddContactMaterial(cm ContactMaterial) error {
	if cm.A == nil || cm.B == nil {
		return ErrNilMaterial
	}
	if !arbiterWritable {
		return ErrContactOverride
	}
	handler := w.space.NewCollisionHandler(w.collisionType(cm.A), w.collisionType(cm.B))
	handler.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		setArbiterResponse(arb, cm.Friction, cm.Restitution)
		return true
	}
	w.contacts = append(w.contacts, cm)
	return nil
}

// ContactMaterials returns the installed overrides in insertion order.
func (w *World) ContactMaterials() []ContactMaterial { return w.contacts }

// Step advances the simulation by dt. It never runs partial steps.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
	w.steps++
	w.time += dt
}

func (w *World) Steps() int       { return w.steps }
func (w *World) Time() float64    { return w.time }
func (w *World) Space() *cp.Space { return w.space }

// Bodies returns the registered bodies in no particular order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	for b := range w.bodies {
		out = append(out, b)
	}
	return out
}
