// Package menu builds navigation labels out of physically simulated letters
// and keeps their meshes in step with the simulation.
package menu

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/palette"
	"github.com/san-kum/letterfall/internal/physics"
	"github.com/san-kum/letterfall/internal/scene"
	"github.com/san-kum/letterfall/internal/viewport"
)

const DefaultMargin = 6.0

type EventKind int

const (
	EventBuilt EventKind = iota
	EventBuildFailed
	EventImpulse
	EventGroundReveal
	EventGroundDetach
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventBuilt:
		return "built"
	case EventBuildFailed:
		return "build-failed"
	case EventImpulse:
		return "impulse"
	case EventGroundReveal:
		return "ground-reveal"
	case EventGroundDetach:
		return "ground-detach"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is emitted to observers as the menu changes state. Label and Letter
// are -1 when they do not apply.
type Event struct {
	Kind    EventKind
	Time    float64
	Label   int
	Letter  int
	Impulse mgl64.Vec2
	Err     error
}

type Options struct {
	Variant Variant
	Labels  []string
	Font    *glyph.Future

	// Margin is the vertical distance between label lanes.
	Margin float64

	World    *physics.World
	Scene    *scene.Scene
	Viewport *viewport.Viewport
	Camera   *viewport.Camera

	Rand   *rand.Rand
	Logger *log.Logger
}

// Menu is the simulated navigation menu. It is driven from a single goroutine:
// Tick, PointerMove, Click, Reset and Resize must not be called concurrently.
type Menu struct {
	variant Variant
	texts   []string
	margin  float64

	font    *glyph.Future
	built   bool
	fontErr error

	world  *physics.World
	scene  *scene.Scene
	vp     *viewport.Viewport
	camera *viewport.Camera

	letterMat *physics.Material
	groundMat *physics.Material

	labels  []*Label
	letters map[*scene.Node]*Letter
	errs    []error

	hover     bool
	rng       *rand.Rand
	log       *log.Logger
	observers []func(Event)
	ticks     int
}

func New(opts Options) (*Menu, error) {
	if err := opts.Variant.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Labels) == 0 {
		return nil, ErrNoLabels
	}

	m := &Menu{
		variant: opts.Variant,
		texts:   append([]string(nil), opts.Labels...),
		margin:  opts.Margin,
		font:    opts.Font,
		world:   opts.World,
		scene:   opts.Scene,
		vp:      opts.Viewport,
		camera:  opts.Camera,
		rng:     opts.Rand,
		log:     opts.Logger,
		letters: make(map[*scene.Node]*Letter),
	}

	if m.margin <= 0 {
		m.margin = DefaultMargin
	}
	if m.font == nil {
		m.font = glyph.NewLoader(glyph.DefaultSize, m.log).Load(context.Background(), glyph.DefaultSource)
	}
	if m.world == nil {
		m.world = physics.NewWorld(physics.DefaultConfig())
	}
	if m.scene == nil {
		m.scene = scene.New()
	}
	if m.vp == nil {
		m.vp = viewport.New(viewport.DefaultWidth, viewport.DefaultHeight, viewport.DefaultBreakpoint)
	}
	if m.camera == nil {
		m.camera = viewport.NewCamera(m.vp, viewport.DefaultDistance)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.log == nil {
		m.log = log.New(io.Discard)
	}

	v := m.variant
	m.letterMat = physics.NewMaterial("letter", v.Friction, v.Restitution)
	if v.Ground == GroundReveal {
		m.groundMat = physics.NewMaterial("ground", 0.3, 0)
		err := m.world.AddContactMaterial(physics.ContactMaterial{
			A:           m.letterMat,
			B:           m.groundMat,
			Friction:    v.ContactFriction,
			Restitution: v.ContactRestitution,
		})
		if err != nil {
			return nil, fmt.Errorf("ground contact: %w", err)
		}
	}

	m.scene.Root.Scale = m.vp.SceneScale()
	return m, nil
}

// OnEvent registers an observer. Observers run synchronously inside the
// call that produced the event.
func (m *Menu) OnEvent(fn func(Event)) {
	m.observers = append(m.observers, fn)
}

func (m *Menu) emit(e Event) {
	e.Time = m.world.Time()
	for _, fn := range m.observers {
		fn(e)
	}
}

// Resize updates the viewport, camera bounds and the scene scale.
func (m *Menu) Resize(w, h float64) {
	m.vp.Resize(w, h)
	m.camera.Update()
	m.scene.Root.Scale = m.vp.SceneScale()
}

func (m *Menu) Variant() Variant             { return m.variant }
func (m *Menu) Labels() []*Label             { return m.labels }
func (m *Menu) World() *physics.World        { return m.world }
func (m *Menu) Scene() *scene.Scene          { return m.scene }
func (m *Menu) Camera() *viewport.Camera     { return m.camera }
func (m *Menu) Viewport() *viewport.Viewport { return m.vp }
func (m *Menu) Hover() bool                  { return m.hover }
func (m *Menu) Built() bool                  { return m.built }
func (m *Menu) Margin() float64              { return m.margin }

// RevealHeight is the distance above a label's ground at which a falling
// letter reveals it.
func (m *Menu) RevealHeight() float64 {
	if m.variant.RevealHeight > 0 {
		return m.variant.RevealHeight
	}
	return m.margin
}

// Err returns the font failure, if the font could not be loaded.
func (m *Menu) Err() error { return m.fontErr }

// LabelErrors returns the errors of labels that were skipped during build.
func (m *Menu) LabelErrors() []error { return m.errs }

// LetterAt returns the letter paired with a mesh node.
func (m *Menu) LetterAt(n *scene.Node) (*Letter, bool) {
	l, ok := m.letters[n]
	return l, ok
}

// Letters returns every letter in label then reading order.
func (m *Menu) Letters() []*Letter {
	var out []*Letter
	for _, lbl := range m.labels {
		out = append(out, lbl.Letters...)
	}
	return out
}

func (m *Menu) pickGradient(i int) palette.Gradient {
	return m.variant.Palette.Pick(i, m.rng)
}
