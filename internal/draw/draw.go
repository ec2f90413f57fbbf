// Package draw renders the game onto a terminal using half-block characters
// and ANSI escape sequences.
package draw

import "io"

// Point is a position in virtual pixels.
type Point struct {
	X, Y float64
}

// Scale returns p with each axis multiplied by its factor.
func (p Point) Scale(sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Half-block cells: each terminal cell holds two vertical pixels.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// Escape sequences written outside the canvas.
const (
	SeqClearScreen = "\033[H\033[2J"
	SeqHideCursor  = "\033[?25l"
	SeqShowCursor  = "\033[?25h"
)

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, SeqClearScreen)
}

func HideCursor(w io.Writer) {
	io.WriteString(w, SeqHideCursor)
}

func ShowCursor(w io.Writer) {
	io.WriteString(w, SeqShowCursor)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
