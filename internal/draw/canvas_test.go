package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestDrawCircleFilledAndOutline(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)

	c.DrawCircle(50, 50, 20, InkTier1, true)
	if got := c.pixel(5, 5); got != InkTier1 {
		t.Fatalf("centre pixel = %v, want InkTier1", got)
	}
	if got := c.pixel(5, 3); got != InkTier1 {
		t.Fatalf("rim pixel = %v, want InkTier1", got)
	}
	if got := c.pixel(0, 0); got != InkNone {
		t.Fatalf("far pixel = %v, want InkNone", got)
	}

	c.Clear()
	c.DrawCircle(50, 50, 20, InkTier2, false)
	if got := c.pixel(5, 5); got != InkNone {
		t.Fatalf("outline centre pixel = %v, want InkNone", got)
	}
	if got := c.pixel(5, 3); got != InkTier2 {
		t.Fatalf("outline rim pixel = %v, want InkTier2", got)
	}
}

func TestDrawCircleTinyRadiusPlotsCentre(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.DrawCircle(30, 40, 2, InkBurst, true)
	if got := c.pixel(3, 4); got != InkBurst {
		t.Fatalf("pixel = %v, want InkBurst", got)
	}
}

func TestRenderOnlyEmitsChangedCells(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.Plot(0, 0, InkTier1)

	var buf bytes.Buffer
	c.Render(&buf, nil)
	if got, want := buf.String(), "\033[1;1H▀ "; got != want {
		t.Fatalf("first render = %q, want %q", got, want)
	}

	buf.Reset()
	c.Render(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("unchanged frame rendered %q", buf.String())
	}

	c.Clear()
	buf.Reset()
	c.Render(&buf, nil)
	if got, want := buf.String(), "\033[1;1H "; got != want {
		t.Fatalf("cleared render = %q, want %q", got, want)
	}

	c.MarkTextDirty(2, 1, 1)
	buf.Reset()
	c.Render(&buf, nil)
	if got, want := buf.String(), "\033[1;2H "; got != want {
		t.Fatalf("dirty render = %q, want %q", got, want)
	}
}

func TestRenderWithThemeEmitsColours(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.Plot(0, 0, InkTier3)
	c.Plot(0, 1, InkPlayer)

	var buf bytes.Buffer
	c.Render(&buf, NewTheme(&bytes.Buffer{}))
	out := buf.String()
	if !strings.Contains(out, "38;5;197") {
		t.Errorf("missing foreground sequence in %q", out)
	}
	if !strings.Contains(out, "48;5;51") {
		t.Errorf("missing background sequence in %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Errorf("render does not end with reset: %q", out)
	}
}

func TestCellGlyph(t *testing.T) {
	tests := []struct {
		top, bottom Ink
		ch          rune
		fg, bg      Ink
	}{
		{InkNone, InkNone, BlockEmpty, InkNone, InkNone},
		{InkTier1, InkTier1, BlockFull, InkTier1, InkNone},
		{InkTier1, InkNone, BlockUpperHalf, InkTier1, InkNone},
		{InkNone, InkTier2, BlockLowerHalf, InkTier2, InkNone},
		{InkTier1, InkTier2, BlockUpperHalf, InkTier1, InkTier2},
	}
	for _, tt := range tests {
		ch, fg, bg := cellGlyph(tt.top, tt.bottom)
		if ch != tt.ch || fg != tt.fg || bg != tt.bg {
			t.Errorf("cellGlyph(%v, %v) = %q %v %v, want %q %v %v", tt.top, tt.bottom, ch, fg, bg, tt.ch, tt.fg, tt.bg)
		}
	}
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(80, 24, 800, 480)
	col, row := c.LogicalToTerminal(400, 240)
	if col != 41 || row != 13 {
		t.Fatalf("LogicalToTerminal = (%d, %d), want (41, 13)", col, row)
	}
}
