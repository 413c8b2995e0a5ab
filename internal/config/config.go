package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/palette"
	"github.com/san-kum/letterfall/internal/physics"
	"github.com/san-kum/letterfall/internal/viewport"
)

const (
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultGravity    = -50.0
	DefaultIterations = 10
	DefaultSleepTime  = 1.0
)

var DefaultLabels = []string{"Home", "About", "Work", "Contact"}

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Variant   string         `yaml:"variant"`
	Labels    []string       `yaml:"labels"`
	Font      string         `yaml:"font"`
	GlyphSize float64        `yaml:"glyph_size"`
	Margin    float64        `yaml:"margin"`
	Dt        float64        `yaml:"dt"`
	Gravity   float64        `yaml:"gravity"`
	Duration  float64        `yaml:"duration"`
	Seed      int64          `yaml:"seed"`
	Viewport  ViewportConfig `yaml:"viewport"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Overrides Overrides      `yaml:"overrides,omitempty"`
}

type ViewportConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Breakpoint float64 `yaml:"breakpoint"`
	Distance   float64 `yaml:"distance"`
}

type PhysicsConfig struct {
	Iterations int     `yaml:"iterations"`
	SleepTime  float64 `yaml:"sleep_time"`
}

// Overrides replace single fields of the selected variant. Unset fields keep
// the preset value.
type Overrides struct {
	Force          *float64 `yaml:"force,omitempty"`
	TotalMass      *float64 `yaml:"total_mass,omitempty"`
	LinearDamping  *float64 `yaml:"linear_damping,omitempty"`
	AngularDamping *float64 `yaml:"angular_damping,omitempty"`
	Friction       *float64 `yaml:"friction,omitempty"`
	ConeAngle      *float64 `yaml:"cone_angle,omitempty"`
	DetachDelay    *float64 `yaml:"detach_delay,omitempty"`
	FadeSeconds    *float64 `yaml:"fade_seconds,omitempty"`
	ResetBelowY    *float64 `yaml:"reset_below_y,omitempty"`
	Palette        string   `yaml:"palette,omitempty"`
	Order          string   `yaml:"order,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:   "drop",
		Labels:    append([]string(nil), DefaultLabels...),
		Font:      glyph.DefaultSource,
		GlyphSize: glyph.DefaultSize,
		Margin:    menu.DefaultMargin,
		Dt:        DefaultDt,
		Gravity:   DefaultGravity,
		Duration:  DefaultDuration,
		Viewport: ViewportConfig{
			Width:      viewport.DefaultWidth,
			Height:     viewport.DefaultHeight,
			Breakpoint: viewport.DefaultBreakpoint,
			Distance:   viewport.DefaultDistance,
		},
		Physics: PhysicsConfig{
			Iterations: DefaultIterations,
			SleepTime:  DefaultSleepTime,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := menu.Lookup(c.Variant); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(c.Labels) == 0 {
		return fmt.Errorf("%w: no labels", ErrInvalidConfig)
	}
	for i, l := range c.Labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("%w: label %d is blank", ErrInvalidConfig, i)
		}
	}
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive", ErrInvalidConfig)
	case c.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidConfig)
	case c.GlyphSize <= 0:
		return fmt.Errorf("%w: glyph size must be positive", ErrInvalidConfig)
	case c.Margin <= 0:
		return fmt.Errorf("%w: margin must be positive", ErrInvalidConfig)
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return fmt.Errorf("%w: viewport must have a positive size", ErrInvalidConfig)
	case c.Viewport.Distance <= 0:
		return fmt.Errorf("%w: camera distance must be positive", ErrInvalidConfig)
	case c.Physics.Iterations < 0:
		return fmt.Errorf("%w: iterations must not be negative", ErrInvalidConfig)
	}
	if _, err := c.GetVariant(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// GetVariant resolves the named preset and applies the overrides.
func (c *Config) GetVariant() (menu.Variant, error) {
	v, err := menu.Lookup(c.Variant)
	if err != nil {
		return menu.Variant{}, err
	}
	o := c.Overrides
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&v.Force, o.Force)
	set(&v.TotalMass, o.TotalMass)
	set(&v.LinearDamping, o.LinearDamping)
	set(&v.AngularDamping, o.AngularDamping)
	set(&v.Friction, o.Friction)
	set(&v.ConeAngle, o.ConeAngle)
	set(&v.DetachDelay, o.DetachDelay)
	set(&v.FadeSeconds, o.FadeSeconds)
	set(&v.ResetBelowY, o.ResetBelowY)

	if o.Palette != "" {
		mode, err := palette.ParseMode(o.Palette)
		if err != nil {
			return menu.Variant{}, err
		}
		v.Palette.Mode = mode
	}
	if o.Order != "" {
		order, err := menu.ParseOrder(o.Order)
		if err != nil {
			return menu.Variant{}, err
		}
		v.Order = order
	}
	return v, v.Validate()
}

func (c *Config) GetWorldConfig() physics.Config {
	return physics.Config{
		Gravity:    mgl64.Vec2{0, c.Gravity},
		Iterations: c.Physics.Iterations,
		SleepTime:  c.Physics.SleepTime,
	}
}

func (c *Config) GetViewport() *viewport.Viewport {
	return viewport.New(c.Viewport.Width, c.Viewport.Height, c.Viewport.Breakpoint)
}

// Steps is the number of fixed steps that cover the configured duration.
func (c *Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(c.Duration/c.Dt + 0.5)
}
