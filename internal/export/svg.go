// Package export renders menus and recorded runs as SVG.
package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/letterfall/internal/analysis"
	"github.com/san-kum/letterfall/internal/menu"
)

// Snapshot draws the menu as it currently stands: one rotated box and glyph
// per letter, on the scene background, plus every revealed ground line.
func Snapshot(w io.Writer, m *menu.Menu) error {
	vp := m.Viewport()
	width, height := vp.W, vp.H

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, m.Scene().Background.Hex())

	for _, lbl := range m.Labels() {
		y, ok := m.GroundLine(lbl)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%.0f" y2="%.1f" stroke="#5a6275" stroke-dasharray="4 4"/>
`, y, width, y)
	}

	for _, q := range m.Quads() {
		writeQuad(&sb, q)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeQuad(sb *strings.Builder, q menu.Quad) {
	deg := q.Angle * 180 / math.Pi
	fmt.Fprintf(sb, `<g transform="translate(%.1f %.1f) rotate(%.2f)">
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-opacity="0.25"/>
<text font-family="sans-serif" font-weight="bold" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>
</g>
`,
		q.Center.X(), q.Center.Y(), deg,
		-q.Size.X()/2, -q.Size.Y()/2, q.Size.X(), q.Size.Y(), q.Color.Hex(),
		q.Size.Y()*1.3, q.Color.Hex(), html.EscapeString(string(q.Char)))
}

// Series is one named path, in world units with y up.
type Series struct {
	Name   string
	Points []analysis.Point
}

// TrajectoriesToSVG draws every series as a polyline, all sharing one set of
// bounds. Colors are spread evenly around the hue circle.
func TrajectoriesToSVG(w io.Writer, series []Series, width, height int) error {
	var all []analysis.Point
	for _, s := range series {
		all = append(all, s.Points...)
	}
	if len(all) < 2 {
		return fmt.Errorf("export: not enough points")
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#202533"/>
`, width, height, width, height)

	for i, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		hue := 360 * float64(i) / float64(len(series))
		color := colorful.Hsv(hue, 0.55, 0.95).Hex()
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" data-name="%s" d="M`,
			color, html.EscapeString(s.Name))
		for j, p := range s.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
