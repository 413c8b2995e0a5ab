package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// ConstraintKind identifies the joint family of a constraint.
type ConstraintKind int

const (
	ConeTwist ConstraintKind = iota
	Distance
	Hinge
)

func (k ConstraintKind) String() string {
	switch k {
	case ConeTwist:
		return "cone-twist"
	case Distance:
		return "distance"
	case Hinge:
		return "hinge"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// ParseConstraintKind maps a config name onto a kind.
func ParseConstraintKind(s string) (ConstraintKind, error) {
	switch s {
	case "cone-twist", "conetwist", "cone_twist":
		return ConeTwist, nil
	case "distance":
		return Distance, nil
	case "hinge":
		return Hinge, nil
	default:
		return 0, fmt.Errorf("physics: unknown constraint kind %q", s)
	}
}

// JointOptions describes where a joint attaches. Pivots are in each body's
// local frame.
type JointOptions struct {
	PivotA, PivotB mgl64.Vec2
	// Angle bounds the relative rotation of a cone-twist joint to [-Angle, Angle].
	Angle float64
	// MaxForce caps the joint force; zero leaves it unbounded.
	MaxForce         float64
	CollideConnected bool
}

// Constraint couples exactly two bodies for its whole lifetime.
type Constraint struct {
	kind  ConstraintKind
	a, b  *Body
	parts []*cp.Constraint

	pivotA, pivotB   mgl64.Vec2
	collideConnected bool
}

// NewConstraint builds a joint of the given kind between a and b.
func NewConstraint(kind ConstraintKind, a, b *Body, opts JointOptions) (*Constraint, error) {
	if a == nil || b == nil {
		return nil, ErrDetachedBody
	}
	if a == b {
		return nil, ErrSameBody
	}

	c := &Constraint{
		kind:             kind,
		a:                a,
		b:                b,
		pivotA:           opts.PivotA,
		pivotB:           opts.PivotB,
		collideConnected: opts.CollideConnected,
	}

	switch kind {
	case ConeTwist:
		c.parts = []*cp.Constraint{
			cp.NewPivotJoint2(a.body, b.body, toCP(opts.PivotA), toCP(opts.PivotB)),
			cp.NewRotaryLimitJoint(a.body, b.body, -opts.Angle, opts.Angle),
		}
	case Distance:
		// The pin length is taken from the current separation of the anchors.
		c.parts = []*cp.Constraint{
			cp.NewPinJoint(a.body, b.body, toCP(opts.PivotA), toCP(opts.PivotB)),
		}
	case Hinge:
		c.parts = []*cp.Constraint{
			cp.NewPivotJoint2(a.body, b.body, toCP(opts.PivotA), toCP(opts.PivotB)),
		}
	default:
		return nil, fmt.Errorf("physics: unsupported constraint kind %v", kind)
	}

	for _, part := range c.parts {
		part.SetCollideBodies(opts.CollideConnected)
		if opts.MaxForce > 0 {
			part.SetMaxForce(opts.MaxForce)
		}
	}

	return c, nil
}

func (c *Constraint) Kind() ConstraintKind { return c.kind }
func (c *Constraint) BodyA() *Body         { return c.a }
func (c *Constraint) BodyB() *Body         { return c.b }

func (c *Constraint) PivotA() mgl64.Vec2 { return c.pivotA }
func (c *Constraint) PivotB() mgl64.Vec2 { return c.pivotB }

// CollideConnected reports whether the coupled bodies still collide.
func (c *Constraint) CollideConnected() bool { return c.collideConnected }

// Couples reports whether c joins x and y in either order.
func (c *Constraint) Couples(x, y *Body) bool {
	return (c.a == x && c.b == y) || (c.a == y && c.b == x)
}
