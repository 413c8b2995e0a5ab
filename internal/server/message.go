package server

import (
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/palette"
)

const (
	TypeHello   = "hello"
	TypeFrame   = "frame"
	TypeError   = "error"
	TypePointer = "pointer"
	TypeResize  = "resize"
	TypeReset   = "reset"

	ActionMove  = "move"
	ActionClick = "click"
)

// Hello is the first message on every connection.
type Hello struct {
	Type    string   `json:"type"`
	Variant string   `json:"variant"`
	Labels  []string `json:"labels"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Dt      float64  `json:"dt"`
}

// LetterMessage places one glyph box. X and Y are the box center in
// viewport pixels, W and H its size, Angle the clockwise screen rotation.
type LetterMessage struct {
	Label int     `json:"label"`
	Index int     `json:"index"`
	Char  string  `json:"char"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Angle float64 `json:"angle"`
	Color string  `json:"color"`
	State string  `json:"state"`
}

type GroundMessage struct {
	Label   int     `json:"label"`
	Y       float64 `json:"y"`
	Present bool    `json:"present"`
}

type EventMessage struct {
	Kind   string  `json:"kind"`
	Time   float64 `json:"time"`
	Label  int     `json:"label"`
	Letter int     `json:"letter"`
}

type FrameMessage struct {
	Type    string          `json:"type"`
	Seq     int             `json:"seq"`
	Time    float64         `json:"time"`
	Letters []LetterMessage `json:"letters"`
	Grounds []GroundMessage `json:"grounds"`
	Events  []EventMessage  `json:"events,omitempty"`
	Hover   bool            `json:"hover"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Inbound is any message a client sends. Pointer messages use Action, X and
// Y in viewport pixels. Resize messages use Width and Height.
type Inbound struct {
	Type   string  `json:"type"`
	Action string  `json:"action,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

func (in Inbound) valid() bool {
	switch in.Type {
	case TypePointer:
		return in.Action == ActionMove || in.Action == ActionClick
	case TypeResize:
		return in.Width > 0 && in.Height > 0
	case TypeReset:
		return true
	}
	return false
}

// encodeFrame projects the menu into one frame message.
func encodeFrame(m *menu.Menu, seq int, events []EventMessage) FrameMessage {
	msg := FrameMessage{
		Type:    TypeFrame,
		Seq:     seq,
		Time:    m.World().Time(),
		Letters: []LetterMessage{},
		Grounds: []GroundMessage{},
		Events:  events,
		Hover:   m.Hover(),
	}
	for _, q := range m.Quads() {
		msg.Letters = append(msg.Letters, LetterMessage{
			Label: q.Letter.Label.Index,
			Index: q.Letter.Index,
			Char:  string(q.Char),
			X:     q.Center.X(),
			Y:     q.Center.Y(),
			W:     q.Size.X(),
			H:     q.Size.Y(),
			Angle: q.Angle,
			Color: palette.Hex(q.Color),
			State: q.Letter.State.String(),
		})
	}
	for _, lbl := range m.Labels() {
		if lbl.Ground == nil {
			continue
		}
		y, ok := m.GroundLine(lbl)
		msg.Grounds = append(msg.Grounds, GroundMessage{Label: lbl.Index, Y: y, Present: ok})
	}
	return msg
}
