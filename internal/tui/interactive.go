// Package tui hosts the menu in a terminal. Letters are drawn as braille box
// outlines with the glyph in the middle, and the mouse strikes them.
package tui

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/palette"
)

const (
	headerRows = 2
	footerRows = 3
	maxEvents  = 4
)

var titleGradient = palette.MustGradient("#ff6b6b", "#4ecdc4")

type Options struct {
	Menu   *menu.Menu
	Dt     float64
	Logger *log.Logger
}

// Model is the bubbletea model driving one menu.
type Model struct {
	menu *menu.Menu
	dt   float64
	log  *log.Logger

	canvas *Canvas
	width  int
	height int

	paused  bool
	outline bool
	frame   int
	events  []string

	lastFrame time.Time
	fps       float64
}

func New(opts Options) *Model {
	if opts.Dt <= 0 {
		opts.Dt = 1.0 / 60
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := &Model{
		menu:    opts.Menu,
		dt:      opts.Dt,
		log:     opts.Logger,
		outline: true,
	}
	m.resize(80, 24)
	m.menu.OnEvent(m.record)
	return m
}

type tickMsg time.Time

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if d := now.Sub(m.lastFrame).Seconds(); d > 0 {
				m.fps = 1 / d
			}
		}
		m.lastFrame = now
		m.frame++
		if !m.paused {
			m.menu.Tick(m.dt)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.menu.Reset()
	case " ", "p":
		m.paused = !m.paused
	case "d":
		m.outline = !m.outline
	}
	return m, nil
}

// dot maps a terminal cell to the sub-pixel at its center.
func (m *Model) dot(x, y int) (float64, float64) {
	return float64(x*2 + 1), float64((y-headerRows)*4 + 2)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	px, py := m.dot(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		res := m.menu.Click(px, py)
		if res.Letter != nil {
			m.log.Debug("letter struck", "char", string(res.Letter.Char), "impulse", res.Impulse)
		}
	case msg.Action == tea.MouseActionMotion:
		m.menu.PointerMove(px, py)
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw := w
	ch := h - headerRows - footerRows
	if ch < 4 {
		ch = 4
	}
	m.canvas = NewCanvas(cw, ch)
	dw, dh := m.canvas.Dots()
	m.menu.Resize(float64(dw), float64(dh))
}

func (m *Model) record(e menu.Event) {
	m.log.Debug("menu event", "kind", e.Kind, "label", e.Label, "letter", e.Letter, "t", e.Time)
	if e.Kind == menu.EventBuildFailed {
		m.log.Error("menu build failed", "err", e.Err)
	}
	m.events = append(m.events, fmt.Sprintf("%.2fs %s", e.Time, e.Kind))
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	dw, _ := c.Dots()

	for _, lbl := range m.menu.Labels() {
		if y, ok := m.menu.GroundLine(lbl); ok {
			c.DrawLine(0, int(y), dw-1, int(y), groundColor)
		}
	}

	for _, q := range m.menu.Quads() {
		color := palette.Hex(q.Color)
		if m.outline {
			for i := range q.Corners {
				a, b := q.Corners[i], q.Corners[(i+1)%len(q.Corners)]
				c.DrawLine(round(a.X()), round(a.Y()), round(b.X()), round(b.Y()), color)
			}
		}
		c.Text(int(q.Center.X())/2, int(q.Center.Y())/4, q.Char, color)
	}
}

func round(v float64) int { return int(math.Round(v)) }

func (m *Model) View() string {
	m.draw()

	var b strings.Builder
	v := m.menu.Variant()

	status := StatusRunning.Render("● running")
	switch {
	case m.menu.Err() != nil:
		status = StatusError.Render("✕ " + m.menu.Err().Error())
	case !m.menu.Built():
		status = Subtle.Render(AnimatedSpinner(m.frame) + " loading font")
	case m.paused:
		status = StatusPaused.Render("○ paused")
	}
	pointer := ""
	if m.menu.Hover() {
		pointer = MetricValue.Render(" ☛")
	}
	b.WriteString(fmt.Sprintf(" %s  %s  %s %s  %s %s%s\n",
		GradientText("letterfall", titleGradient),
		MetricLabel.Render(v.Name),
		MetricLabel.Render("t"), MetricValue.Render(fmt.Sprintf("%6.2fs", m.menu.World().Time())),
		MetricLabel.Render("fps"), MetricValue.Render(fmt.Sprintf("%3.0f", m.fps)),
		pointer))
	b.WriteString(" " + status + "\n")

	b.WriteString(m.canvas.String())

	b.WriteString(Separator(m.width) + "\n")
	b.WriteString(" " + Subtle.Render(strings.Join(m.events, "  ")) + "\n")
	b.WriteString(KeyHint.Render(" click strike  r reset  space pause  d outlines  q quit"))
	return b.String()
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
