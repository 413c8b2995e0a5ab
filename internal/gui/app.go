// Package gui hosts the menu in a raylib window.
package gui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/sim"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColDebug   = rl.NewColor(0, 255, 136, 180)
	ColGround  = rl.NewColor(255, 255, 255, 40)
	ColJoint   = rl.NewColor(255, 170, 0, 200)
)

const (
	fontAtlasSize = 96
	maxSteps      = 5
)

type Options struct {
	Menu   *menu.Menu
	Font   *glyph.Future
	Dt     float64
	Width  int
	Height int
	Title  string
	Logger *log.Logger
}

type App struct {
	menu  *menu.Menu
	font  *glyph.Future
	clock *sim.Clock
	log   *log.Logger

	atlas     rl.Font
	atlasOK   bool
	uiFont    rl.Font
	debug     bool
	paused    bool
	hoverShow bool
}

func New(opts Options) *App {
	if opts.Dt <= 0 {
		opts.Dt = 1.0 / 60
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	a := &App{
		menu:  opts.Menu,
		font:  opts.Font,
		clock: sim.NewClock(opts.Dt, maxSteps),
		log:   opts.Logger,
	}
	a.menu.OnEvent(func(e menu.Event) {
		switch e.Kind {
		case menu.EventBuildFailed:
			a.log.Error("menu build failed", "err", e.Err)
		default:
			a.log.Debug("menu event", "kind", e.Kind, "label", e.Label, "letter", e.Letter)
		}
	})
	return a
}

func initWindow(w, h int, title string) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed, q is pressed or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Title == "" {
		opts.Title = "letterfall"
	}
	initWindow(opts.Width, opts.Height, opts.Title)
	defer rl.CloseWindow()

	a := New(opts)
	a.uiFont = rl.GetFontDefault()
	a.menu.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	defer a.unload()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		if !a.Update() {
			return nil
		}
		a.Draw()
	}
	return nil
}

// Update handles input and advances the menu. It returns false when the
// user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsWindowResized() {
		a.menu.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}
	if rl.IsKeyPressed(rl.KeyD) {
		a.debug = !a.debug
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.menu.Reset()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	a.loadAtlas()

	mouse := rl.GetMousePosition()
	px, py := float64(mouse.X), float64(mouse.Y)
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if res := a.menu.Click(px, py); res.Letter != nil {
			a.log.Debug("letter struck", "char", string(res.Letter.Char), "impulse", res.Impulse)
		}
	} else {
		a.menu.PointerMove(px, py)
	}
	a.syncCursor()

	if a.paused {
		return true
	}
	steps := a.clock.Advance(float64(rl.GetFrameTime()))
	for i := 0; i < steps; i++ {
		a.menu.Tick(a.clock.Dt)
	}
	return true
}

func (a *App) syncCursor() {
	hover := a.menu.Hover()
	if hover == a.hoverShow {
		return
	}
	a.hoverShow = hover
	if hover {
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

// loadAtlas rasterizes the menu font once its future resolves.
func (a *App) loadAtlas() {
	if a.atlasOK || a.font == nil {
		return
	}
	f, err, ok := a.font.Result()
	if !ok {
		return
	}
	a.atlasOK = true
	if err != nil || len(f.Data) == 0 {
		a.atlas = rl.GetFontDefault()
		return
	}
	a.atlas = rl.LoadFontFromMemory(".ttf", f.Data, fontAtlasSize, nil)
	rl.SetTextureFilter(a.atlas.Texture, rl.FilterBilinear)
	a.log.Info("font atlas loaded", "font", f.Name, "glyphs", a.atlas.CharsCount)
}

func (a *App) unload() {
	if a.atlasOK && a.atlas.Texture.ID != rl.GetFontDefault().Texture.ID {
		rl.UnloadFont(a.atlas)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(toRL(a.menu.Scene().Background))

	a.drawLetters()
	if a.debug {
		a.drawDebug()
	}
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	h := int32(rl.GetScreenHeight())
	status := "RUNNING"
	switch {
	case a.menu.Err() != nil:
		status = "FONT FAILED"
	case !a.menu.Built():
		status = "LOADING"
	case a.paused:
		status = "PAUSED"
	}
	a.drawText(fmt.Sprintf("letterfall :: %s  %s", a.menu.Variant().Name, status), 20, 20, 16, ColText)
	a.drawText("[CLICK] STRIKE  [R] RESET  [D] DEBUG  [SPACE] PAUSE  [Q] QUIT", 20, h-30, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS  t=%.2fs", rl.GetFPS(), a.menu.World().Time()), 20, h-50, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y, size int32, color rl.Color) {
	rl.DrawTextEx(a.uiFont, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func toRL(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}
