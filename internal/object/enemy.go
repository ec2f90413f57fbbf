package object

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tomz197/typesurvivors/internal/draw"
	"github.com/tomz197/typesurvivors/internal/physics"
)

// EnemyID identifies an enemy for the lifetime of a director.
type EnemyID uint64

// labelGap is the distance in pixels between an enemy's rim and its label row.
const labelGap = 13.0

// Enemy is a word converging on the player.
type Enemy struct {
	ID    EnemyID
	Word  string
	Asset string

	X, Y             float64
	TargetX, TargetY float64

	Tier  Tier
	Speed float64
	Size  float64
	Style string
	Label physics.LabelPlacement

	Defeated bool
}

// Body returns the footprint the spatial index tracks for e.
func (e *Enemy) Body() physics.Body {
	return physics.Body{
		X:        e.X,
		Y:        e.Y,
		Size:     e.Size,
		Label:    e.Label,
		Defeated: e.Defeated,
	}
}

// Step moves e toward its target by speed*dt without overshooting. Enemies
// within epsilon of the target stay put. It reports whether e moved.
func (e *Enemy) Step(dt, epsilon float64) bool {
	dx := e.TargetX - e.X
	dy := e.TargetY - e.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist <= epsilon || dt <= 0 {
		return false
	}
	step := min(e.Speed*dt, dist)
	e.X += dx / dist * step
	e.Y += dy / dist * step
	return true
}

// Matches reports whether text equals e's word.
func (e *Enemy) Matches(text string, caseSensitive bool) bool {
	if caseSensitive {
		return e.Word == text
	}
	return strings.EqualFold(e.Word, text)
}

// TypedPrefix returns how many leading runes of e's word are matched by typed.
// A buffer that diverges from the word highlights nothing.
func (e *Enemy) TypedPrefix(typed string, caseSensitive bool) int {
	n := utf8.RuneCountInString(typed)
	runes := []rune(e.Word)
	if n == 0 || n > len(runes) {
		return 0
	}
	prefix := string(runes[:n])
	if caseSensitive {
		if prefix != typed {
			return 0
		}
	} else if !strings.EqualFold(prefix, typed) {
		return 0
	}
	return n
}

// Draw draws the enemy body as a circle in its tier colour.
func (e *Enemy) Draw(ctx DrawContext) error {
	ink := draw.InkForStyle(e.Style)
	ctx.Canvas.DrawCircle(e.X, e.Y, e.Size/2, ink, e.Tier == Tier1)
	return nil
}

// DrawOverlay writes the word next to the body, on the side chosen at spawn.
func (e *Enemy) DrawOverlay(ctx DrawContext) error {
	y := e.Y + e.Size/2 + labelGap
	if e.Label == physics.LabelAbove {
		y = e.Y - e.Size/2 - labelGap
	}
	col, row := ctx.Canvas.LogicalToTerminal(e.X, y)

	label := e.Word
	if ctx.Theme != nil {
		label = ctx.Theme.Label(draw.InkForStyle(e.Style), e.Word, e.TypedPrefix(ctx.Typed, ctx.CaseSensitive))
	}
	ctx.WriteCentered(col, row, label)
	return nil
}
