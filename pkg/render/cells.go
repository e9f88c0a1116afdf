// Terminal rendering for diagrams.
// Maps canvas units onto character cells of a tcell screen.

package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// Canvas units covered by one terminal cell. A 100x30 node spans 12-13
// columns and two rows.
const (
	CellWidth  = 8.0
	CellHeight = 15.0
)

// Cells is a Surface drawing into a rectangular region of a tcell screen.
type Cells struct {
	screen     tcell.Screen
	left, top  int // screen cell of canvas origin
	cols, rows int
}

// NewCells draws into the cols x rows region whose top-left cell is
// (left, top).
func NewCells(screen tcell.Screen, left, top, cols, rows int) *Cells {
	return &Cells{screen: screen, left: left, top: top, cols: cols, rows: rows}
}

// Resize changes the drawable region, e.g. after a terminal resize.
func (c *Cells) Resize(cols, rows int) {
	c.cols, c.rows = cols, rows
}

func (c *Cells) Size() (float64, float64) {
	return float64(c.cols) * CellWidth, float64(c.rows) * CellHeight
}

// CanvasPoint maps a screen cell to the canvas point at the cell's centre.
// ok is false when the cell lies outside the region.
func (c *Cells) CanvasPoint(col, row int) (p geometry.Point, ok bool) {
	col -= c.left
	row -= c.top
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return geometry.Point{}, false
	}
	return geometry.Point{
		X: (float64(col) + 0.5) * CellWidth,
		Y: (float64(row) + 0.5) * CellHeight,
	}, true
}

// cell maps a canvas point to a region-relative cell.
func cell(p geometry.Point) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

func tcellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func (c *Cells) set(col, row int, ch rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.screen.SetContent(c.left+col, c.top+row, ch, nil, style)
}

// styleAt returns the style currently at a region cell.
func (c *Cells) styleAt(col, row int) tcell.Style {
	_, _, style, _ := c.screen.GetContent(c.left+col, c.top+row)
	return style
}

// recolor keeps the cell's background and replaces the foreground.
func (c *Cells) recolor(col, row int, ch rune, fg color.Color) {
	c.set(col, row, ch, c.styleAt(col, row).Foreground(tcellColor(fg)))
}

func (c *Cells) Clear(bg color.Color) {
	style := tcell.StyleDefault.Background(tcellColor(bg))
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			c.set(col, row, ' ', style)
		}
	}
}

// span returns the cells covered by a rectangle, inclusive.
func span(r geometry.Rect) (c0, r0, c1, r1 int) {
	c0, r0 = cell(geometry.Point{X: r.Left(), Y: r.Top()})
	c1, r1 = cell(geometry.Point{X: r.Right(), Y: r.Bottom()})
	return
}

func (c *Cells) FillRect(r geometry.Rect, fill color.Color) {
	style := tcell.StyleDefault.Background(tcellColor(fill))
	c0, r0, c1, r1 := span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			c.set(col, row, ' ', style)
		}
	}
}

// StrokeRect draws a box-drawing frame. Width is ignored.
func (c *Cells) StrokeRect(r geometry.Rect, fg color.Color, _ float64) {
	c0, r0, c1, r1 := span(r)
	for col := c0 + 1; col < c1; col++ {
		c.recolor(col, r0, '─', fg)
		c.recolor(col, r1, '─', fg)
	}
	for row := r0 + 1; row < r1; row++ {
		c.recolor(c0, row, '│', fg)
		c.recolor(c1, row, '│', fg)
	}
	c.recolor(c0, r0, '┌', fg)
	c.recolor(c1, r0, '┐', fg)
	c.recolor(c0, r1, '└', fg)
	c.recolor(c1, r1, '┘', fg)
}

// DrawText writes text centred on the cell containing at. Size is ignored.
func (c *Cells) DrawText(text string, at geometry.Point, fg color.Color, _ float64) {
	col, row := cell(at)
	x := col - runewidth.StringWidth(text)/2
	for _, ch := range text {
		c.recolor(x, row, ch, fg)
		x += runewidth.RuneWidth(ch)
	}
}

// StrokeCurve plots the flattened path one dot per cell.
func (c *Cells) StrokeCurve(p geometry.Path, fg color.Color, _ float64) {
	for _, pt := range p.Points(geometry.StepsFor(p.From, p.Ctrl1, p.Mid, CellWidth/2)) {
		col, row := cell(pt)
		c.recolor(col, row, '·', fg)
	}
}

// FillTriangle draws an arrow glyph at the tip, facing away from the base.
func (c *Cells) FillTriangle(tip, left, right geometry.Point, fg color.Color) {
	base := left.Add(right).Scale(0.5)
	d := tip.Sub(base)

	glyph := '▶'
	switch {
	case math.Abs(d.X) >= math.Abs(d.Y) && d.X < 0:
		glyph = '◀'
	case math.Abs(d.Y) > math.Abs(d.X) && d.Y > 0:
		glyph = '▼'
	case math.Abs(d.Y) > math.Abs(d.X):
		glyph = '▲'
	}

	// The tip touches the target edge; step back onto the connector side.
	col, row := cell(base)
	c.recolor(col, row, glyph, fg)
}
