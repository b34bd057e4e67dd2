package tui

import (
	"github.com/gdamore/tcell/v2"
)

// Canvas is a braille drawing buffer. Each terminal cell holds a 2x4 grid
// of dots, so lines are drawn on a microgrid with twice the width and four
// times the height of the cell grid.
type Canvas struct {
	w, h   int // in cells
	masks  [][]uint8
	colors [][]tcell.Color
}

// NewCanvas creates an empty canvas of w by h cells.
func NewCanvas(w, h int) *Canvas {
	masks := make([][]uint8, h)
	colors := make([][]tcell.Color, h)
	for i := range masks {
		masks[i] = make([]uint8, w)
		colors[i] = make([]tcell.Color, w)
	}
	return &Canvas{w: w, h: h, masks: masks, colors: colors}
}

// Size returns the canvas dimensions in microgrid pixels.
func (c *Canvas) Size() (w, h int) {
	return c.w * 2, c.h * 4
}

// Clear resets every cell.
func (c *Canvas) Clear() {
	for y := range c.masks {
		for x := range c.masks[y] {
			c.masks[y][x] = 0
			c.colors[y][x] = tcell.ColorDefault
		}
	}
}

// SetPixel turns on one dot at microgrid coordinates. Out-of-range pixels
// are dropped. The cell takes the color of the last pixel set in it.
func (c *Canvas) SetPixel(mx, my int, color tcell.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= c.h || cx >= c.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	c.masks[cy][cx] |= bit
	c.colors[cy][cx] = color
}

// Line draws a straight line between two microgrid points using Bresenham
// stepping.
func (c *Canvas) Line(x0, y0, x1, y1 int, color tcell.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.SetPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Polyline draws connected line segments through microgrid points.
func (c *Canvas) Polyline(points [][2]int, color tcell.Color) {
	for i := 0; i+1 < len(points); i++ {
		c.Line(points[i][0], points[i][1], points[i+1][0], points[i+1][1], color)
	}
}

// Flush writes the canvas onto a screen with its top-left at (originX,
// originY). Empty cells are left untouched.
func (c *Canvas) Flush(s tcell.Screen, originX, originY int) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			mask := c.masks[y][x]
			if mask == 0 {
				continue
			}
			style := tcell.StyleDefault.Foreground(c.colors[y][x])
			s.SetContent(originX+x, originY+y, rune(0x2800+int(mask)), nil, style)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
