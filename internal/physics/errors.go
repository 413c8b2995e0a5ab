package physics

import "errors"

// Domain errors for world operations.
var (
	// ErrAlreadyAdded indicates a body that is already part of the world.
	ErrAlreadyAdded = errors.New("physics: body already added to world")

	// ErrNotAdded indicates a body that is not part of the world.
	ErrNotAdded = errors.New("physics: body not in world")

	// ErrDetachedBody indicates a constraint referencing a body outside the world.
	ErrDetachedBody = errors.New("physics: constraint references a body outside the world")

	// ErrSameBody indicates a constraint whose two ends are the same body.
	ErrSameBody = errors.New("physics: constraint couples a body to itself")

	// ErrInvalidShape indicates a shape with non-positive extents.
	ErrInvalidShape = errors.New("physics: shape extents must be positive")

	// ErrNilMaterial indicates a contact material missing one of its materials.
	ErrNilMaterial = errors.New("physics: contact material needs two materials")

	// ErrContactOverride indicates the engine no longer exposes contact
	// coefficients for per-pair overrides.
	ErrContactOverride = errors.New("physics: contact overrides unsupported by engine")
)
