package draw

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Ink is a canvas pixel colour. The zero value is an unset pixel.
type Ink uint8

const (
	InkNone Ink = iota
	InkPlayer
	InkTier1
	InkTier2
	InkTier3
	InkBurst
	InkDanger
	inkCount
)

// Tier profile style names. Style strings outside this set fall back to
// the tier 1 look.
const (
	StyleMid  = "mid"
	StyleBoss = "boss"
)

// InkForStyle returns the canvas colour for a tier profile style.
func InkForStyle(style string) Ink {
	switch style {
	case StyleMid:
		return InkTier2
	case StyleBoss:
		return InkTier3
	default:
		return InkTier1
	}
}

var inkColors = [inkCount]termenv.ANSI256Color{
	InkPlayer: 51,
	InkTier1:  252,
	InkTier2:  214,
	InkTier3:  197,
	InkBurst:  226,
	InkDanger: 196,
}

var labelColors = map[Ink]string{
	InkTier1: "252",
	InkTier2: "214",
	InkTier3: "197",
}

// Theme renders styled text for one output stream and supplies the SGR
// sequences the canvas uses for its inks.
type Theme struct {
	renderer *lipgloss.Renderer

	title  lipgloss.Style
	hud    lipgloss.Style
	hint   lipgloss.Style
	warn   lipgloss.Style
	typed  lipgloss.Style
	labels map[Ink]lipgloss.Style
}

// NewTheme builds a theme bound to w. The colour profile is pinned to
// ANSI256 because SSH sessions cannot be queried reliably for capabilities.
func NewTheme(w io.Writer) *Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)

	t := &Theme{
		renderer: r,
		title:    r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		hud:      r.NewStyle().Foreground(lipgloss.Color("250")),
		hint:     r.NewStyle().Foreground(lipgloss.Color("244")).Faint(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		typed:    r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true).Underline(true),
		labels:   make(map[Ink]lipgloss.Style, len(labelColors)),
	}
	for ink, color := range labelColors {
		t.labels[ink] = r.NewStyle().Foreground(lipgloss.Color(color))
	}
	return t
}

// Title styles headings.
func (t *Theme) Title(s string) string { return t.title.Render(s) }

// HUD styles in-game status text.
func (t *Theme) HUD(s string) string { return t.hud.Render(s) }

// Hint styles secondary help text.
func (t *Theme) Hint(s string) string { return t.hint.Render(s) }

// Warn styles alerts.
func (t *Theme) Warn(s string) string { return t.warn.Render(s) }

// Label renders an enemy word with its first typed runes highlighted.
func (t *Theme) Label(ink Ink, word string, typed int) string {
	style, ok := t.labels[ink]
	if !ok {
		style = t.labels[InkTier1]
	}
	runes := []rune(word)
	typed = max(0, min(typed, len(runes)))
	if typed == 0 {
		return style.Render(word)
	}
	return t.typed.Render(string(runes[:typed])) + style.Render(string(runes[typed:]))
}

// fg returns the SGR sequence selecting ink as foreground.
func (t *Theme) fg(ink Ink) string {
	return termenv.CSI + inkColors[ink].Sequence(false) + "m"
}

// bg returns the SGR sequence selecting ink as background.
func (t *Theme) bg(ink Ink) string {
	return termenv.CSI + inkColors[ink].Sequence(true) + "m"
}

// reset returns the SGR reset sequence.
func (t *Theme) reset() string {
	return termenv.CSI + termenv.ResetSeq + "m"
}

// TextWidth returns the printable width of s, ignoring escape sequences.
func TextWidth(s string) int {
	return lipgloss.Width(s)
}
