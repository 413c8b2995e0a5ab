package viewport

import "github.com/go-gl/mathgl/mgl64"

// Camera is an orthographic camera centered on the world origin. Distance is
// the half height of the visible region.
type Camera struct {
	Distance float64
	Center   mgl64.Vec2

	Left, Right, Top, Bottom float64

	vp *Viewport
}

func NewCamera(vp *Viewport, distance float64) *Camera {
	if distance <= 0 {
		distance = DefaultDistance
	}
	c := &Camera{Distance: distance, vp: vp}
	c.Update()
	return c
}

// Update recomputes the frustum bounds from the viewport aspect. Call it
// after every viewport resize.
func (c *Camera) Update() {
	aspect := c.vp.Aspect()
	c.Top = c.Distance
	c.Bottom = -c.Distance
	c.Right = c.Distance * aspect
	c.Left = -c.Distance * aspect
}

func (c *Camera) Viewport() *Viewport { return c.vp }

// Unproject maps an NDC point onto the world plane.
func (c *Camera) Unproject(ndc mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		c.Center.X() + (c.Left+c.Right)/2 + ndc.X()*(c.Right-c.Left)/2,
		c.Center.Y() + (c.Top+c.Bottom)/2 + ndc.Y()*(c.Top-c.Bottom)/2,
	}
}

// Project maps a world point to NDC.
func (c *Camera) Project(world mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		(world.X() - c.Center.X() - (c.Left+c.Right)/2) / ((c.Right - c.Left) / 2),
		(world.Y() - c.Center.Y() - (c.Top+c.Bottom)/2) / ((c.Top - c.Bottom) / 2),
	}
}

// ScreenToWorld maps viewport pixels straight to world coordinates.
func (c *Camera) ScreenToWorld(px, py float64) mgl64.Vec2 {
	return c.Unproject(c.vp.NDC(px, py))
}

// WorldToScreen maps a world point to viewport pixels.
func (c *Camera) WorldToScreen(world mgl64.Vec2) mgl64.Vec2 {
	return c.vp.Pixel(c.Project(world))
}

// PixelsPerUnit is the number of viewport pixels per world unit.
func (c *Camera) PixelsPerUnit() float64 {
	return c.vp.H / (c.Top - c.Bottom)
}
