// Package glyph loads fonts and measures glyph boxes in world units.
package glyph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	ErrLoadFailed   = errors.New("glyph: load failed")
	ErrMissingGlyph = errors.New("glyph: missing glyph")
)

const (
	// DefaultSize is the glyph em size in world units.
	DefaultSize = 3.0

	// pixelSize is the face size glyphs are measured at before scaling.
	pixelSize = 64.0
)

// Metrics is a glyph bounding box in world units, y up, relative to the
// glyph origin on the baseline.
type Metrics struct {
	Rune    rune
	Min     mgl64.Vec2
	Max     mgl64.Vec2
	Advance float64
}

func (m Metrics) Size() mgl64.Vec2   { return m.Max.Sub(m.Min) }
func (m Metrics) Center() mgl64.Vec2 { return m.Min.Add(m.Max).Mul(0.5) }

// Font measures glyphs of one parsed face. It is safe for concurrent use.
type Font struct {
	Name string
	Size float64

	// Data is the raw font file, kept for renderers that rasterize it.
	Data []byte

	mu   sync.Mutex
	face font.Face
}

// Parse builds a Font from TrueType or OpenType data. size is the em size in
// world units.
func Parse(name string, data []byte, size float64) (*Font, error) {
	if size <= 0 {
		size = DefaultSize
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrLoadFailed, name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    pixelSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: face %s: %v", ErrLoadFailed, name, err)
	}
	return &Font{Name: name, Size: size, Data: data, face: face}, nil
}

// Glyph measures r. Glyphs with no outline, like a space, get their advance
// as width and a thin strip of height so they still make a body.
func (f *Font) Glyph(r rune) (Metrics, error) {
	f.mu.Lock()
	bounds, advance, ok := f.face.GlyphBounds(r)
	f.mu.Unlock()
	if !ok {
		return Metrics{Rune: r}, fmt.Errorf("%w: %q in %s", ErrMissingGlyph, r, f.Name)
	}

	scale := f.Size / pixelSize
	m := Metrics{Rune: r, Advance: toFloat(advance) * scale}

	if bounds.Empty() {
		m.Max = mgl64.Vec2{m.Advance, f.Size * 0.1}
		return m, nil
	}

	m.Min = mgl64.Vec2{toFloat(bounds.Min.X) * scale, -toFloat(bounds.Max.Y) * scale}
	m.Max = mgl64.Vec2{toFloat(bounds.Max.X) * scale, -toFloat(bounds.Min.Y) * scale}
	return m, nil
}

// Placeholder is the box used for runes the font cannot draw.
func (f *Font) Placeholder(r rune) Metrics {
	return Metrics{
		Rune:    r,
		Max:     mgl64.Vec2{f.Size * 0.5, f.Size * 0.7},
		Advance: f.Size * 0.6,
	}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
