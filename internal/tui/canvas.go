package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille dots per cell, 2 wide and 4 tall:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid with one foreground color per cell and an
// optional text rune overlaid on top. Dot coordinates are sub-pixels: the
// canvas is Width*2 by Height*4 dots.
type Canvas struct {
	Width, Height int

	grid   [][]rune
	colors [][]string
	text   [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{Width: w, Height: h}
	c.grid = make([][]rune, h)
	c.colors = make([][]string, h)
	c.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		c.grid[i] = make([]rune, w)
		c.colors[i] = make([]string, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	return col, row, col < c.Width && row < c.Height
}

// Set lights the dot at (x, y) and paints its cell with color. An empty
// color leaves the cell color unchanged.
func (c *Canvas) Set(x, y int, color string) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
	if color != "" {
		c.colors[row][col] = color
	}
}

func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.grid[row][col] &^= pixelMap[y%4][x%2]
	if c.grid[row][col] < blank {
		c.grid[row][col] = blank
	}
}

// Text overlays r on the cell at (col, row), hiding its dots.
func (c *Canvas) Text(col, row int, r rune, color string) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.text[row][col] = r
	if color != "" {
		c.colors[row][col] = color
	}
}

// Cell returns what the cell at (col, row) will print and its color.
func (c *Canvas) Cell(col, row int) (rune, string) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0, ""
	}
	if r := c.text[row][col]; r != 0 {
		return r, c.colors[row][col]
	}
	return c.grid[row][col], c.colors[row][col]
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = blank
			c.colors[i][j] = ""
			c.text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the canvas, grouping runs of equally colored cells into
// one styled span.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.Width; col++ {
			r, color := c.Cell(col, row)
			if r == blank {
				color = ""
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
