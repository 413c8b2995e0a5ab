package sim

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/letterfall/internal/menu"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

// Simulator drives one menu with a fixed step, headless.
type Simulator struct {
	menu      *menu.Menu
	driver    Driver
	metrics   []Metric
	observers []Observer
	log       *log.Logger

	pending []menu.Event
}

func New(m *menu.Menu, driver Driver, logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Simulator{
		menu:      m,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logger,
	}
	m.OnEvent(func(e menu.Event) { s.pending = append(s.pending, e) })
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Menu() *menu.Menu       { return s.menu }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}
	result := &Result{
		Frames:  make([]menu.Frame, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		// Events from the driver belong to this step's sample.
		s.pending = s.pending[:0]
		if s.driver != nil {
			if err := s.driver.Drive(s.menu, t); err != nil {
				result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: err.Error()})
			}
		}

		s.menu.Tick(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if err := s.menu.Err(); err != nil {
			s.collect(result)
			return result, fmt.Errorf("sim: menu not built: %w", err)
		}

		sample := Sample{
			Step:   i,
			Time:   t,
			Frame:  s.menu.Snapshot(),
			Energy: KineticEnergy(s.menu),
			Events: append([]menu.Event(nil), s.pending...),
		}
		result.Events = append(result.Events, sample.Events...)

		if cfg.ValidateState && !sample.Valid() {
			err := SimError{Time: t, Step: i, Message: "invalid letter pose (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.log.Error("run aborted", "step", i, "err", err)
			break
		}

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		if s.menu.Built() && i%every == 0 {
			result.Frames = append(result.Frames, sample.Frame)
		}
	}

	s.collect(result)
	s.log.Info("run finished", "steps", result.StepsTaken, "frames", len(result.Frames), "events", len(result.Events))
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

// KineticEnergy sums the kinetic energy of every letter body.
func KineticEnergy(m *menu.Menu) float64 {
	total := 0.0
	for _, l := range m.Letters() {
		total += l.Body.KineticEnergy()
	}
	return total
}

// RunWithCallback ticks the menu until the duration elapses, ctx is done or
// callback returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*menu.Menu, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.pending = s.pending[:0]
		if s.driver != nil {
			if err := s.driver.Drive(s.menu, t); err != nil {
				return err
			}
		}
		s.menu.Tick(cfg.Dt)
		t += cfg.Dt

		if !callback(s.menu, t) {
			return nil
		}
	}
	return nil
}
