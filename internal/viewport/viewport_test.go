package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestResizeMobileFlag(t *testing.T) {
	tests := []struct {
		w, h   float64
		mobile bool
		scale  float64
	}{
		{1280, 720, false, 1},
		{767, 1000, true, MobileScale},
		{768, 1000, false, 1},
		{320, 640, true, MobileScale},
	}

	vp := New(DefaultWidth, DefaultHeight, DefaultBreakpoint)
	for _, tt := range tests {
		vp.Resize(tt.w, tt.h)
		if vp.IsMobile != tt.mobile {
			t.Errorf("%vx%v: expected mobile=%v", tt.w, tt.h, tt.mobile)
		}
		if vp.SceneScale() != tt.scale {
			t.Errorf("%vx%v: expected scale %v, got %v", tt.w, tt.h, tt.scale, vp.SceneScale())
		}
	}
}

func TestResizeClampsDegenerateSizes(t *testing.T) {
	vp := New(0, -5, DefaultBreakpoint)
	if vp.W != 1 || vp.H != 1 {
		t.Errorf("expected 1x1, got %vx%v", vp.W, vp.H)
	}
}

func TestNDC(t *testing.T) {
	vp := New(800, 600, DefaultBreakpoint)

	tests := []struct {
		px, py float64
		want   mgl64.Vec2
	}{
		{0, 0, mgl64.Vec2{-1, 1}},
		{800, 600, mgl64.Vec2{1, -1}},
		{400, 300, mgl64.Vec2{0, 0}},
	}
	for _, tt := range tests {
		got := vp.NDC(tt.px, tt.py)
		if !got.ApproxEqual(tt.want) {
			t.Errorf("NDC(%v,%v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
		if back := vp.Pixel(got); !back.ApproxEqual(mgl64.Vec2{tt.px, tt.py}) {
			t.Errorf("Pixel(NDC) round trip = %v", back)
		}
	}
}

func TestCameraBounds(t *testing.T) {
	vp := New(1600, 800, DefaultBreakpoint)
	cam := NewCamera(vp, 15)

	if cam.Top != 15 || cam.Bottom != -15 {
		t.Errorf("unexpected vertical bounds %v..%v", cam.Bottom, cam.Top)
	}
	if cam.Right != 30 || cam.Left != -30 {
		t.Errorf("unexpected horizontal bounds %v..%v", cam.Left, cam.Right)
	}

	vp.Resize(800, 800)
	cam.Update()
	if cam.Right != 15 {
		t.Errorf("expected right bound 15 after resize, got %v", cam.Right)
	}
}

func TestCameraProjectionRoundTrip(t *testing.T) {
	vp := New(1280, 720, DefaultBreakpoint)
	cam := NewCamera(vp, DefaultDistance)

	if w := cam.ScreenToWorld(640, 360); !w.ApproxEqual(mgl64.Vec2{0, 0}) {
		t.Errorf("screen center should map to origin, got %v", w)
	}
	if w := cam.ScreenToWorld(640, 0); math.Abs(w.Y()-15) > 1e-9 {
		t.Errorf("top edge should map to y=15, got %v", w)
	}

	p := mgl64.Vec2{-7.5, 3.25}
	s := cam.WorldToScreen(p)
	if back := cam.ScreenToWorld(s.X(), s.Y()); !back.ApproxEqual(p) {
		t.Errorf("round trip %v -> %v -> %v", p, s, back)
	}

	if ppu := cam.PixelsPerUnit(); math.Abs(ppu-24) > 1e-9 {
		t.Errorf("expected 24 px per unit, got %v", ppu)
	}
}
