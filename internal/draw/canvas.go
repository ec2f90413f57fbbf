package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// cellStale marks a terminal cell whose on-screen content is unknown, so the
// next Render rewrites it.
const cellStale = 0xFFFF

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Objects draw in logical coordinates which are scaled
// to terminal sub-pixels. Render only emits cells that changed since the
// previous frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int      // termHeight * 2
	pixels         []Ink    // [y * termWidth + x]
	shown          []uint16 // Last rendered (top<<8 | bottom) per terminal cell

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets of the render area when it is centred inside
	// a larger terminal.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas that maps logicalWidth x logicalHeight
// onto termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{}
	c.Resize(termWidth, termHeight, logicalWidth, logicalHeight)
	return c
}

// Resize updates the terminal and logical dimensions. Buffers are only
// reallocated when the terminal size changed.
func (c *Canvas) Resize(termWidth, termHeight int, logicalWidth, logicalHeight float64) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Ink, c.subPixelHeight*termWidth)
		c.shown = make([]uint16, termWidth*termHeight)
		c.ForceRedraw()
	}

	if logicalWidth <= 0 {
		logicalWidth = float64(termWidth)
	}
	if logicalHeight <= 0 {
		logicalHeight = float64(c.subPixelHeight)
	}
	c.logicalWidth = logicalWidth
	c.logicalHeight = logicalHeight
	c.scaleX = float64(termWidth) / logicalWidth
	c.scaleY = float64(c.subPixelHeight) / logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw marks every cell stale. Call after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.shown {
		c.shown[i] = cellStale
	}
}

// MarkTextDirty marks cells overwritten by a text overlay so the next Render
// repaints them. col and row are 1-based render area coordinates.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	y := row - 1
	if y < 0 || y >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < col-1+width && x < c.termWidth; x++ {
		c.shown[y*c.termWidth+x] = cellStale
	}
}

func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

func (c *Canvas) pixel(x, y int) Ink {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return InkNone
	}
	return c.pixels[y*c.termWidth+x]
}

// Plot sets a single pixel at logical coordinates.
func (c *Canvas) Plot(x, y float64, ink Ink) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), ink)
}

// DrawLine draws a line in logical space using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, ink Ink) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		c.setPixel(x1, y1, ink)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon outline, optionally filled.
func (c *Canvas) DrawPolygon(points []Point, ink Ink, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, ink)
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], ink)
	}
}

// fillPolygon fills a polygon with a scanline pass in pixel space.
func (c *Canvas) fillPolygon(points []Point, ink Ink) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = p.Scale(c.scaleX, c.scaleY)
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	n := len(scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, ink)
			}
		}
	}
}

// DrawCircle draws a circle of logical radius r centred on (cx, cy). Because
// the axes may scale differently the result is an ellipse in pixel space.
func (c *Canvas) DrawCircle(cx, cy, r float64, ink Ink, filled bool) {
	pcx := cx * c.scaleX
	pcy := cy * c.scaleY
	rx := r * c.scaleX
	ry := r * c.scaleY
	if rx < 1 || ry < 1 {
		c.setPixel(int(math.Round(pcx)), int(math.Round(pcy)), ink)
		return
	}

	// Outline pixels lie inside the ellipse but outside the one shrunk by a pixel.
	innerX := rx - 1
	innerY := ry - 1
	for y := int(math.Floor(pcy - ry)); y <= int(math.Ceil(pcy+ry)); y++ {
		dy := float64(y) - pcy
		for x := int(math.Floor(pcx - rx)); x <= int(math.Ceil(pcx+rx)); x++ {
			dx := float64(x) - pcx
			outer := (dx*dx)/(rx*rx) + (dy*dy)/(ry*ry)
			if outer > 1 {
				continue
			}
			if !filled && innerX > 0 && innerY > 0 {
				if (dx*dx)/(innerX*innerX)+(dy*dy)/(innerY*innerY) < 1 {
					continue
				}
			}
			c.setPixel(x, y, ink)
		}
	}
}

// cellGlyph picks the half-block rune and colours for a terminal cell.
func cellGlyph(top, bottom Ink) (ch rune, fg, bg Ink) {
	switch {
	case top == InkNone && bottom == InkNone:
		return BlockEmpty, InkNone, InkNone
	case top == bottom:
		return BlockFull, top, InkNone
	case bottom == InkNone:
		return BlockUpperHalf, top, InkNone
	case top == InkNone:
		return BlockLowerHalf, bottom, InkNone
	default:
		return BlockUpperHalf, top, bottom
	}
}

// Render writes every cell that changed since the last Render. A nil theme
// renders without colour.
func (c *Canvas) Render(w io.Writer, theme *Theme) {
	c.renderBuf.Reset()

	var curFg, curBg Ink
	lastRow, lastCol := -1, -1
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			code := uint16(top)<<8 | uint16(bottom)
			idx := row*c.termWidth + col
			if c.shown[idx] == code {
				continue
			}
			c.shown[idx] = code

			if row != lastRow || col != lastCol+1 {
				fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			}
			lastRow, lastCol = row, col

			ch, fg, bg := cellGlyph(top, bottom)
			if theme != nil && (fg != curFg || bg != curBg) {
				if curFg != InkNone || curBg != InkNone {
					c.renderBuf.WriteString(theme.reset())
				}
				if fg != InkNone {
					c.renderBuf.WriteString(theme.fg(fg))
				}
				if bg != InkNone {
					c.renderBuf.WriteString(theme.bg(bg))
				}
				curFg, curBg = fg, bg
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	if theme != nil && (curFg != InkNone || curBg != InkNone) {
		c.renderBuf.WriteString(theme.reset())
	}

	if c.renderBuf.Len() > 0 {
		io.WriteString(w, c.renderBuf.String())
	}
}

// RenderBorder draws a frame around the render area when it is centred
// inside a larger terminal.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based render area
// position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
