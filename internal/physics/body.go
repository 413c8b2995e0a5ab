package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Material groups bodies that share a friction/restitution profile.
type Material struct {
	Name        string
	Friction    float64
	Restitution float64
}

func NewMaterial(name string, friction, restitution float64) *Material {
	return &Material{Name: name, Friction: friction, Restitution: restitution}
}

// ShapeKind enumerates the collision shapes used by the menu.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// BodyOptions configures a new body. Mass zero makes the body static.
type BodyOptions struct {
	Mass     float64
	Position mgl64.Vec2
	Angle    float64
	Material *Material

	// LinearDamping and AngularDamping follow cannon semantics:
	// velocity is scaled by (1-d)^dt each step.
	LinearDamping  float64
	AngularDamping float64
}

// Body is a rigid body paired with exactly one collision shape.
type Body struct {
	body  *cp.Body
	shape *cp.Shape

	kind     ShapeKind
	half     mgl64.Vec2
	offset   mgl64.Vec2
	radius   float64
	mass     float64
	material *Material
	world    *World
}

// NewBox creates a body with a box shape of the given half extents,
// centered at offset in the body frame.
func NewBox(half, offset mgl64.Vec2, opts BodyOptions) (*Body, error) {
	if half.X() <= 0 || half.Y() <= 0 {
		return nil, ErrInvalidShape
	}

	bb := cp.BB{
		L: offset.X() - half.X(),
		B: offset.Y() - half.Y(),
		R: offset.X() + half.X(),
		T: offset.Y() + half.Y(),
	}

	var body *cp.Body
	if opts.Mass > 0 {
		body = cp.NewBody(opts.Mass, cp.MomentForBox2(opts.Mass, bb))
	} else {
		body = cp.NewStaticBody()
	}

	b := &Body{
		body:   body,
		shape:  cp.NewBox2(body, bb, 0),
		kind:   ShapeBox,
		half:   half,
		offset: offset,
		mass:   math.Max(opts.Mass, 0),
	}
	b.init(opts)
	return b, nil
}

// NewSphere creates a body with a circular shape centered on its origin.
func NewSphere(radius float64, opts BodyOptions) (*Body, error) {
	if radius <= 0 {
		return nil, ErrInvalidShape
	}

	var body *cp.Body
	if opts.Mass > 0 {
		body = cp.NewBody(opts.Mass, cp.MomentForCircle(opts.Mass, 0, radius, cp.Vector{}))
	} else {
		body = cp.NewStaticBody()
	}

	b := &Body{
		body:   body,
		shape:  cp.NewCircle(body, radius, cp.Vector{}),
		kind:   ShapeSphere,
		half:   mgl64.Vec2{radius, radius},
		radius: radius,
		mass:   math.Max(opts.Mass, 0),
	}
	b.init(opts)
	return b, nil
}

func (b *Body) init(opts BodyOptions) {
	b.body.SetPosition(toCP(opts.Position))
	b.body.SetAngle(opts.Angle)
	b.body.UserData = b
	b.shape.UserData = b

	if opts.Material != nil {
		b.material = opts.Material
		b.shape.SetFriction(opts.Material.Friction)
		b.shape.SetElasticity(opts.Material.Restitution)
	}

	linear, angular := opts.LinearDamping, opts.AngularDamping
	if b.IsDynamic() && (linear > 0 || angular > 0) {
		b.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
			cp.BodyUpdateVelocity(body, gravity, damping, dt)
			if linear > 0 {
				v := body.Velocity().Mult(math.Pow(1-linear, dt))
				body.SetVelocity(v.X, v.Y)
			}
			if angular > 0 {
				body.SetAngularVelocity(body.AngularVelocity() * math.Pow(1-angular, dt))
			}
		})
	}
}

func (b *Body) IsDynamic() bool  { return b.mass > 0 }
func (b *Body) Mass() float64    { return b.mass }
func (b *Body) Shape() ShapeKind { return b.kind }

// HalfExtents returns the box half extents, or the radius on both axes for spheres.
func (b *Body) HalfExtents() mgl64.Vec2 { return b.half }

// Offset returns the shape center in the body frame.
func (b *Body) Offset() mgl64.Vec2 { return b.offset }

func (b *Body) Material() *Material { return b.material }

// InWorld reports whether the body is currently registered with a world.
func (b *Body) InWorld() bool { return b.world != nil }

func (b *Body) Position() mgl64.Vec2 { return fromCP(b.body.Position()) }
func (b *Body) Angle() float64       { return b.body.Angle() }
func (b *Body) Velocity() mgl64.Vec2 { return fromCP(b.body.Velocity()) }

func (b *Body) AngularVelocity() float64 { return b.body.AngularVelocity() }
func (b *Body) Force() mgl64.Vec2        { return fromCP(b.body.Force()) }
func (b *Body) Torque() float64          { return b.body.Torque() }

// SetPosition moves the body. Static bodies already in a world have their
// shape reinserted so the broadphase sees the move.
func (b *Body) SetPosition(p mgl64.Vec2) {
	if b.IsDynamic() || b.world == nil {
		b.body.SetPosition(toCP(p))
		return
	}
	space := b.world.space
	space.RemoveShape(b.shape)
	b.body.SetPosition(toCP(p))
	space.AddShape(b.shape)
}

func (b *Body) SetVelocity(v mgl64.Vec2) {
	if !b.IsDynamic() {
		return
	}
	b.body.SetVelocity(v.X(), v.Y())
}

// IsSleeping reports whether the body is asleep in its world.
func (b *Body) IsSleeping() bool {
	if b.world == nil || !b.IsDynamic() {
		return false
	}
	return b.body.IsSleeping()
}

// Wake activates a sleeping body.
func (b *Body) Wake() {
	if b.world == nil || !b.IsDynamic() {
		return
	}
	b.body.Activate()
}

// Reseed restores the body to pos with identity orientation and cleared
// velocity and force accumulators, then wakes it with a fresh idle timer.
// Call it between steps.
func (b *Body) Reseed(pos mgl64.Vec2) {
	b.body.SetPosition(toCP(pos))
	b.body.SetAngle(0)
	if b.IsDynamic() {
		b.body.SetVelocity(0, 0)
		b.body.SetAngularVelocity(0)
		b.body.SetForce(cp.Vector{})
		b.body.SetTorque(0)
	}

	b.Wake()
}

// ApplyLocalImpulse applies impulse at point, both expressed in the body frame.
func (b *Body) ApplyLocalImpulse(impulse, point mgl64.Vec2) {
	if !b.IsDynamic() {
		return
	}
	b.body.ApplyImpulseAtLocalPoint(toCP(impulse), toCP(point))
}

// LocalToWorld converts a point in the body frame to world coordinates.
func (b *Body) LocalToWorld(p mgl64.Vec2) mgl64.Vec2 {
	return fromCP(b.body.LocalToWorld(toCP(p)))
}

// KineticEnergy returns the translational plus rotational energy of the body.
func (b *Body) KineticEnergy() float64 {
	if !b.IsDynamic() {
		return 0
	}
	v := b.body.Velocity()
	w := b.body.AngularVelocity()
	return 0.5*b.mass*v.Dot(v) + 0.5*b.body.Moment()*w*w
}

func toCP(v mgl64.Vec2) cp.Vector   { return cp.Vector{X: v.X(), Y: v.Y()} }
func fromCP(v cp.Vector) mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }
