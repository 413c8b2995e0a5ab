// Package experiment turns a configuration into a wired menu and runs it
// headless.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/san-kum/letterfall/internal/automation"
	"github.com/san-kum/letterfall/internal/config"
	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/physics"
	"github.com/san-kum/letterfall/internal/sim"
	"github.com/san-kum/letterfall/internal/storage"
	"github.com/san-kum/letterfall/internal/viewport"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Build validates cfg and creates the menu with its world, viewport and
// camera. The font loads in the background; the returned future is the
// one the menu polls, for hosts that rasterize the same font.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*menu.Menu, *glyph.Future, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	v, err := cfg.GetVariant()
	if err != nil {
		return nil, nil, err
	}

	vp := cfg.GetViewport()
	font := glyph.NewLoader(cfg.GlyphSize, logger).Load(ctx, cfg.Font)
	m, err := menu.New(menu.Options{
		Variant:  v,
		Labels:   cfg.Labels,
		Font:     font,
		Margin:   cfg.Margin,
		World:    physics.NewWorld(cfg.GetWorldConfig()),
		Viewport: vp,
		Camera:   viewport.NewCamera(vp, cfg.Viewport.Distance),
		Rand:     rand.New(rand.NewSource(cfg.Seed)),
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build menu: %w", err)
	}
	logger.Debug("menu created", "variant", v.Name, "labels", len(cfg.Labels), "seed", cfg.Seed)
	return m, font, nil
}

type Experiment struct {
	cfg        *config.Config
	scriptName string
	log        *log.Logger

	menu      *menu.Menu
	font      *glyph.Future
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Experiment{cfg: cfg, log: logger}
}

// Setup builds the menu, waits for its font and attaches the script and
// metrics. script may be nil.
func (e *Experiment) Setup(ctx context.Context, script *automation.Script, metrics []sim.Metric) error {
	m, font, err := Build(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	if _, err := font.Wait(ctx); err != nil {
		e.log.Warn("font unavailable, run will fail on the first tick", "err", err)
	}

	var driver sim.Driver
	if script != nil {
		driver = automation.NewPlayer(script)
		e.scriptName = script.Name
	}

	e.menu, e.font = m, font
	e.simulator = sim.New(m, driver, e.log)
	for _, metric := range metrics {
		e.simulator.AddMetric(metric)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx, sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	})
}

// Info describes the run for storage.
func (e *Experiment) Info() storage.RunInfo {
	return storage.RunInfo{
		Variant:  e.cfg.Variant,
		Labels:   e.cfg.Labels,
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
		Seed:     e.cfg.Seed,
		Script:   e.scriptName,
	}
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Menu() *menu.Menu { return e.menu }
