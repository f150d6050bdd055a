package cli

// brailleCanvas rasterizes line work into braille cells. Each terminal cell
// carries a 2x4 grid of dots, so a w x h cell canvas has 2w x 4h addressable
// dots. Unicode braille patterns start at U+2800 with one bit per dot.
type brailleCanvas struct {
	w, h  int // in cells
	cells [][]uint8
}

func newBrailleCanvas(w, h int) *brailleCanvas {
	cells := make([][]uint8, h)
	for i := range cells {
		cells[i] = make([]uint8, w)
	}
	return &brailleCanvas{w: w, h: h, cells: cells}
}

// dotWidth and dotHeight are the canvas dimensions in dots.
func (c *brailleCanvas) dotWidth() int  { return c.w * 2 }
func (c *brailleCanvas) dotHeight() int { return c.h * 4 }

// setDot marks one dot. Out-of-range coordinates are ignored.
func (c *brailleCanvas) setDot(dx, dy int) {
	if dx < 0 || dy < 0 {
		return
	}
	cx, col := dx/2, dx%2
	cy, row := dy/4, dy%4
	if cx >= c.w || cy >= c.h {
		return
	}
	// Braille bit layout: dots 1-3 and 7 in the left column, 4-6 and 8 in
	// the right, with the bottom row on the high bits.
	var bit uint8
	if col == 0 {
		switch row {
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
		switch row {
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
	c.cells[cy][cx] |= bit
}

// line draws a dot line with Bresenham's algorithm.
func (c *brailleCanvas) line(x0, y0, x1, y1 int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.setDot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

// rows renders the canvas as one string per cell row.
func (c *brailleCanvas) rows() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			mask := c.cells[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}
