// Package object defines the game entities and how they are drawn.
package object

import (
	"time"

	"github.com/tomz197/typesurvivors/internal/draw"
)

// Virtual pixels per terminal cell. Keeping cells at a 1:2 aspect makes
// pixel distances look the same horizontally and vertically.
const (
	PixelsPerCol = 10
	PixelsPerRow = 20
)

// Viewport is the play area in virtual pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// ViewportForTerminal returns the viewport covering cols x rows cells.
func ViewportForTerminal(cols, rows int) Viewport {
	return Viewport{
		Width:  float64(cols * PixelsPerCol),
		Height: float64(rows * PixelsPerRow),
	}
}

// Center returns the centre of the viewport.
func (v Viewport) Center() (x, y float64) {
	return v.Width / 2, v.Height / 2
}

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta    time.Duration
	Viewport Viewport
	Spawner  Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // Shapes; rendered before overlays
	Text   *draw.ChunkWriter // Text overlays, written after the canvas render
	Theme  *draw.Theme       // Nil renders plain text

	Typed         string // Current typing buffer, for label highlighting
	CaseSensitive bool
}

// WriteText writes s at a 1-based render area position and marks the cells
// for repaint on the next frame. Text that would not fit is dropped.
func (ctx DrawContext) WriteText(col, row int, s string) bool {
	width := draw.TextWidth(s)
	if row < 1 || row > ctx.Canvas.TerminalHeight() {
		return false
	}
	if col < 1 || col+width-1 > ctx.Canvas.TerminalWidth() {
		return false
	}
	ctx.Text.WriteAt(col, row, s)
	ctx.Canvas.MarkTextDirty(col, row, width)
	return true
}

// WriteCentered writes s horizontally centred on col.
func (ctx DrawContext) WriteCentered(col, row int, s string) bool {
	return ctx.WriteText(col-draw.TextWidth(s)/2, row, s)
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Overlay is implemented by entities that also draw text above the canvas.
type Overlay interface {
	DrawOverlay(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink reports whether something with remainingTime left on a
// blinking effect is visible this frame. Always true once the time ran out.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
