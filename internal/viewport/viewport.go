// Package viewport tracks the drawing surface size and the orthographic
// camera that maps it onto world space.
package viewport

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultBreakpoint = 767
	DefaultDistance   = 15.0

	// MobileScale shrinks the scene on narrow viewports.
	MobileScale = 0.7
)

// Viewport is the current surface size plus the mobile breakpoint flag.
type Viewport struct {
	W, H       float64
	Breakpoint float64
	IsMobile   bool
}

func New(w, h, breakpoint float64) *Viewport {
	v := &Viewport{Breakpoint: breakpoint}
	v.Resize(w, h)
	return v
}

// Resize recomputes dimensions and the mobile flag. Non-positive sizes are
// clamped to 1.
func (v *Viewport) Resize(w, h float64) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	v.W, v.H = w, h
	v.IsMobile = v.Breakpoint > 0 && w <= v.Breakpoint
}

func (v *Viewport) Aspect() float64 { return v.W / v.H }

// SceneScale is the uniform scale applied to the scene root.
func (v *Viewport) SceneScale() float64 {
	if v.IsMobile {
		return MobileScale
	}
	return 1
}

// NDC converts viewport-relative pixel coordinates to normalized device
// coordinates, with y pointing up.
func (v *Viewport) NDC(px, py float64) mgl64.Vec2 {
	return mgl64.Vec2{
		px/v.W*2 - 1,
		-(py/v.H)*2 + 1,
	}
}

// Pixel is the inverse of NDC.
func (v *Viewport) Pixel(ndc mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		(ndc.X() + 1) / 2 * v.W,
		(1 - ndc.Y()) / 2 * v.H,
	}
}
