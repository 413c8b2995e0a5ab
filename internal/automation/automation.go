package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/letterfall/internal/menu"
)

var (
	ErrInvalidScript = errors.New("automation: invalid script")
	ErrNoTarget      = errors.New("automation: target letter does not exist")
)

const (
	ActionMove  = "move"
	ActionClick = "click"
	ActionReset = "reset"
	ActionSize  = "resize"
)

// Script is a timed sequence of pointer events.
type Script struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Events      []PointerEvent `yaml:"events"`
}

// PointerEvent targets either viewport pixels (x, y) or a letter by label
// and letter index. For resize, x and y carry the new width and height.
type PointerEvent struct {
	At     float64  `yaml:"at"`
	Action string   `yaml:"action"`
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Label  *int     `yaml:"label,omitempty"`
	Letter *int     `yaml:"letter,omitempty"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(script.Events, func(i, j int) bool { return script.Events[i].At < script.Events[j].At })
	return &script, nil
}

func (s *Script) Validate() error {
	for i, e := range s.Events {
		if e.At < 0 {
			return fmt.Errorf("%w: event %d: negative time", ErrInvalidScript, i)
		}
		switch e.Action {
		case ActionMove, ActionClick:
			byPixel := e.X != nil && e.Y != nil
			byLetter := e.Label != nil && e.Letter != nil
			if byPixel == byLetter {
				return fmt.Errorf("%w: event %d: need either x,y or label,letter", ErrInvalidScript, i)
			}
		case ActionSize:
			if e.X == nil || e.Y == nil || *e.X <= 0 || *e.Y <= 0 {
				return fmt.Errorf("%w: event %d: resize needs a positive x,y", ErrInvalidScript, i)
			}
		case ActionReset:
		default:
			return fmt.Errorf("%w: event %d: unknown action %q", ErrInvalidScript, i, e.Action)
		}
	}
	return nil
}

// Player replays a script against a menu. It implements sim.Driver.
type Player struct {
	script *Script
	next   int
}

func NewPlayer(s *Script) *Player {
	return &Player{script: s}
}

// Drive fires every event due at or before t. Events aimed at letters that
// are not built yet wait until the menu is built.
func (p *Player) Drive(m *menu.Menu, t float64) error {
	var errs []error
	for p.next < len(p.script.Events) {
		e := p.script.Events[p.next]
		if e.At > t {
			break
		}
		if e.Label != nil && !m.Built() {
			break
		}
		p.next++
		if err := apply(m, e); err != nil {
			errs = append(errs, fmt.Errorf("event at %.3fs: %w", e.At, err))
		}
	}
	return errors.Join(errs...)
}

// Done reports whether every event has fired.
func (p *Player) Done() bool { return p.next >= len(p.script.Events) }

func (p *Player) Rewind() { p.next = 0 }

func apply(m *menu.Menu, e PointerEvent) error {
	switch e.Action {
	case ActionReset:
		m.Reset()
		return nil
	case ActionSize:
		m.Resize(*e.X, *e.Y)
		return nil
	}

	px, err := Target(m, e)
	if err != nil {
		return err
	}
	if e.Action == ActionClick {
		m.Click(px.X(), px.Y())
	} else {
		m.PointerMove(px.X(), px.Y())
	}
	return nil
}

// Target resolves the viewport pixel an event points at. Letter targets use
// the letter's current on-screen box center.
func Target(m *menu.Menu, e PointerEvent) (mgl64.Vec2, error) {
	if e.X != nil && e.Y != nil {
		return mgl64.Vec2{*e.X, *e.Y}, nil
	}
	if e.Label == nil || e.Letter == nil {
		return mgl64.Vec2{}, ErrInvalidScript
	}

	var lbl *menu.Label
	for _, l := range m.Labels() {
		if l.Index == *e.Label {
			lbl = l
			break
		}
	}
	if lbl == nil || *e.Letter < 0 || *e.Letter >= len(lbl.Letters) {
		return mgl64.Vec2{}, fmt.Errorf("%w: label %d letter %d", ErrNoTarget, *e.Label, *e.Letter)
	}
	l := lbl.Letters[*e.Letter]
	ndc := m.Camera().Project(l.Mesh.ToWorld(l.Center))
	return m.Viewport().Pixel(ndc), nil
}
