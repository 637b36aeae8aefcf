package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/snaketype/internal/track"
)

type cell struct {
	s     string
	width int
	style *lipgloss.Style
}

// canvas is a fixed grid of terminal cells onto which track coordinates are
// projected.
type canvas struct {
	cols, rows int
	viewW      float64
	viewH      float64
	cells      [][]cell
}

func newCanvas(cols, rows int, viewW, viewH float64) *canvas {
	cols = max(cols, 1)
	rows = max(rows, 1)
	c := &canvas{cols: cols, rows: rows, viewW: viewW, viewH: viewH}
	c.cells = make([][]cell, rows)
	for r := range c.cells {
		c.cells[r] = make([]cell, cols)
	}
	return c
}

// project maps a point in track space to a grid position.
func (c *canvas) project(x, y float64) (col, row int) {
	if c.viewW <= 0 || c.viewH <= 0 {
		return 0, 0
	}
	col = int(math.Round(x / c.viewW * float64(c.cols-1)))
	row = int(math.Round(y / c.viewH * float64(c.rows-1)))
	return col, row
}

// set places s at the projected point. Wide runes take two columns; a
// glyph that would overflow the right edge is dropped.
func (c *canvas) set(p track.Point, s string, style *lipgloss.Style) {
	col, row := c.project(p.X, p.Y)
	c.put(col, row, s, style)
}

func (c *canvas) put(col, row int, s string, style *lipgloss.Style) {
	if row < 0 || row >= c.rows || col < 0 {
		return
	}
	w := runewidth.StringWidth(s)
	if w == 0 || col+w > c.cols {
		return
	}
	line := c.cells[row]
	// clear a wide glyph that this write would split
	if col > 0 && line[col-1].width == 2 {
		line[col-1] = cell{}
	}
	if end := col + w; end < c.cols && line[end].width == -1 {
		line[end] = cell{}
	}
	line[col] = cell{s: s, width: w, style: style}
	for i := 1; i < w; i++ {
		line[col+i] = cell{width: -1}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for r, line := range c.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range line {
			switch {
			case cl.width == -1:
				continue
			case cl.s == "":
				b.WriteByte(' ')
			case cl.style != nil:
				b.WriteString(cl.style.Render(cl.s))
			default:
				b.WriteString(cl.s)
			}
		}
	}
	return b.String()
}
