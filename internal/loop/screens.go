package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/typesurvivors/internal/draw"
	"github.com/tomz197/typesurvivors/internal/object"
)

// bufferWidth is the padded width of the typing line, so a shorter buffer
// overwrites a longer one.
const bufferWidth = 32

// drawFrame draws the current frame.
func (s *Session) drawFrame() error {
	st := s.state
	// On screen or inactivity transitions, do a full terminal clear so UI
	// text from the previous screen does not persist.
	if st.GameState != st.prevGameState || st.isInactive != st.wasInactive {
		s.chunkWriter.WriteString(draw.SeqClearScreen)
		s.canvas.ForceRedraw()
		st.prevGameState = st.GameState
		st.wasInactive = st.isInactive
	}

	s.canvas.Clear()

	ctx := object.DrawContext{
		Canvas:        s.canvas,
		Text:          s.chunkWriter,
		Theme:         s.theme,
		Typed:         st.Typed(),
		CaseSensitive: s.director.CaseSensitive(),
	}

	showField := st.GameState == GameStatePlaying || st.GameState == GameStatePaused || st.GameState == GameStateDead
	var live []object.Enemy
	if showField {
		live = s.director.LiveEntities()
		for i := range live {
			if err := live[i].Draw(ctx); err != nil {
				return err
			}
		}
		if st.Player != nil {
			if err := st.Player.Draw(ctx); err != nil {
				return err
			}
		}
		for _, obj := range st.Effects {
			if err := obj.Draw(ctx); err != nil {
				return err
			}
		}
	}

	s.canvas.Render(s.chunkWriter, s.theme)
	s.canvas.RenderBorder(s.chunkWriter)

	// Labels are hidden while paused so the pause cannot be used to read ahead.
	if st.GameState == GameStatePlaying && !st.isInactive {
		for i := range live {
			if err := live[i].DrawOverlay(ctx); err != nil {
				return err
			}
		}
	}

	s.drawUI(ctx)

	return s.chunkWriter.Flush()
}

// drawUI draws the screen text on top of the canvas.
func (s *Session) drawUI(ctx object.DrawContext) {
	centerX := s.canvas.TerminalWidth() / 2
	centerY := s.canvas.TerminalHeight() / 2

	if s.state.GameState == GameStateShutdown {
		s.drawShutdownScreen(ctx, centerX, centerY)
		return
	}
	if s.state.isInactive {
		s.drawInactivityScreen(ctx, centerX, centerY)
		return
	}

	switch s.state.GameState {
	case GameStateStart:
		s.drawStartScreen(ctx, centerX, centerY)
	case GameStatePlaying:
		s.drawPlayingHUD(ctx)
	case GameStatePaused:
		s.drawPausedScreen(ctx, centerX, centerY)
	case GameStateDead:
		s.drawDeadScreen(ctx, centerX, centerY)
	}

	if s.state.Notice != "" {
		ctx.WriteCentered(centerX, 2, s.theme.Warn(s.state.Notice))
	}
}

func blinkOn() bool {
	return time.Now().UnixMilli()/promptBlinkMs%2 == 0
}

// formatDuration renders d as m:ss.
func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(ctx object.DrawContext, centerX, centerY int) {
	ctx.WriteCentered(centerX, centerY-2, s.theme.Warn("INACTIVITY WARNING"))

	left := s.cfg.View.InactivityDisconnect - time.Since(s.lastInput)
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", int(left.Seconds()))
	ctx.WriteCentered(centerX, centerY, msg)
	ctx.WriteCentered(centerX, centerY+2, s.theme.Hint("Press any key to continue"))
}

// drawStartScreen draws the title screen.
func (s *Session) drawStartScreen(ctx object.DrawContext, centerX, centerY int) {
	t := s.theme
	top := centerY - 8

	ctx.WriteCentered(centerX, top, t.Title("T Y P E   S U R V I V O R S"))
	ctx.WriteCentered(centerX, top+2, "~ type the words before they reach you ~")

	ctx.WriteCentered(centerX, top+4, fmt.Sprintf("Mode: %-7s  (W to switch)", s.state.Mode))
	ctx.WriteCentered(centerX, top+5, fmt.Sprintf("Case sensitive: %-3s  (TAB to toggle)", onOff(s.director.CaseSensitive())))

	controls := []string{
		"type a word  . . . . defeat it",
		"ENTER  . . . . clear the input",
		"ESC  . . . . . . . . . . pause",
		"Ctrl-C / Q  . . . . . . . quit",
	}
	ctx.WriteCentered(centerX, top+7, t.Title("Controls"))
	for i, line := range controls {
		ctx.WriteCentered(centerX, top+8+i, line)
	}

	p := s.store.Profile()
	records := fmt.Sprintf("High score %d   Best time %s   Highest wave %d   Collection %d",
		p.HighScore, formatDuration(p.BestTime), p.HighestWave, len(p.Unlocked))
	ctx.WriteCentered(centerX, top+13, t.HUD(records))

	if blinkOn() {
		ctx.WriteCentered(centerX, top+15, t.Title(">>  Press ENTER to Start  <<"))
	}

	s.drawLeaderboard(ctx, centerX, top+17)
}

// drawLeaderboard lists the best scores of the players online.
func (s *Session) drawLeaderboard(ctx object.DrawContext, centerX, row int) {
	top := s.hub.TopScores(leaderboardLines)
	if len(top) == 0 {
		return
	}
	ctx.WriteCentered(centerX, row, s.theme.Title(fmt.Sprintf("Top scores online (%d playing)", s.hub.Count())))
	for i, e := range top {
		ctx.WriteCentered(centerX, row+1+i, fmt.Sprintf("%d. %-16s %8d", i+1, e.Username, e.Score))
	}
}

// drawPlayingHUD draws the in-game HUD. Fields use fixed-width formatting so
// shrinking values do not leave residual characters.
func (s *Session) drawPlayingHUD(ctx object.DrawContext) {
	st := s.state
	t := s.theme
	width := s.canvas.TerminalWidth()
	height := s.canvas.TerminalHeight()

	ctx.WriteText(2, 1, t.HUD(fmt.Sprintf("Score: %-8d", st.Score)))

	timeText := fmt.Sprintf("Time: %-6s", formatDuration(st.Elapsed))
	ctx.WriteText(width-len(timeText), 1, t.HUD(timeText))

	if s.waves != nil {
		waveText := fmt.Sprintf("Wave %-2d", s.waves.Wave())
		if !s.waves.InProgress() {
			waveText = fmt.Sprintf("Next wave in %.0fs", s.waves.PauseRemaining().Seconds()+0.5)
		}
		ctx.WriteCentered(width/2, 1, t.HUD(fmt.Sprintf("%-18s", waveText)))
	}

	line := "> " + st.Typed() + "_"
	if pad := bufferWidth - len([]rune(line)); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	ctx.WriteCentered(width/2, height-1, t.Title(line))

	caseText := fmt.Sprintf("case: %-3s", onOff(s.director.CaseSensitive()))
	ctx.WriteText(width-len(caseText), height, t.Hint(caseText))
	ctx.WriteText(2, height, t.Hint(fmt.Sprintf("Players: %-4d", s.hub.Count())))
}

// drawPausedScreen draws the pause menu over the frozen field.
func (s *Session) drawPausedScreen(ctx object.DrawContext, centerX, centerY int) {
	t := s.theme
	ctx.WriteCentered(centerX, centerY-2, t.Title("P A U S E D"))
	ctx.WriteCentered(centerX, centerY, fmt.Sprintf("Score: %d   Time: %s", s.state.Score, formatDuration(s.state.Elapsed)))
	ctx.WriteCentered(centerX, centerY+2, "ENTER / ESC resume   TAB case   Q give up")
	ctx.WriteCentered(centerX, centerY+3, t.Hint(fmt.Sprintf("case sensitive: %s", onOff(s.director.CaseSensitive()))))
}

// drawDeadScreen draws the game over summary.
func (s *Session) drawDeadScreen(ctx object.DrawContext, centerX, centerY int) {
	t := s.theme
	sum := s.state.Summary
	row := centerY - 7

	ctx.WriteCentered(centerX, row, t.Warn("G A M E   O V E R"))
	row += 2
	if sum.KilledBy == "" {
		ctx.WriteCentered(centerX, row, "You quit")
	} else {
		ctx.WriteCentered(centerX, row, "Killed by: "+t.Warn(sum.KilledBy))
	}
	row += 2

	score := fmt.Sprintf("Score: %d", sum.Score)
	if sum.NewHighScore {
		score += "  " + t.Title("new high score!")
	} else {
		score += fmt.Sprintf("  (best %d)", sum.HighScore)
	}
	ctx.WriteCentered(centerX, row, score)
	ctx.WriteCentered(centerX, row+1, fmt.Sprintf("Enemies defeated: %d", sum.Defeated))
	survived := "Time survived: " + formatDuration(sum.Survived)
	if sum.NewBestTime {
		survived += "  " + t.Title("best!")
	}
	ctx.WriteCentered(centerX, row+2, survived)
	row += 3
	if sum.Wave > 0 {
		ctx.WriteCentered(centerX, row, fmt.Sprintf("Wave reached: %d", sum.Wave))
		row++
	}
	if sum.NewUnlocks > 0 {
		ctx.WriteCentered(centerX, row, fmt.Sprintf("New emotes collected: %d", sum.NewUnlocks))
		row++
	}
	if len(sum.NewGlows) > 0 {
		names := make([]string, len(sum.NewGlows))
		for i, g := range sum.NewGlows {
			names[i] = g.Name
		}
		ctx.WriteCentered(centerX, row, t.Title("Glow unlocked: "+strings.Join(names, ", ")))
		row++
	}

	row++
	if s.state.deadTimer < restartDelay {
		remaining := (restartDelay - s.state.deadTimer).Seconds()
		ctx.WriteCentered(centerX, row, t.Hint(fmt.Sprintf("Restart in %.1f seconds...", remaining)))
	} else if blinkOn() {
		ctx.WriteCentered(centerX, row, t.Title(">>  ENTER play again   ESC title   Q quit  <<"))
	}

	s.drawLeaderboard(ctx, centerX, row+2)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (s *Session) drawShutdownScreen(ctx object.DrawContext, centerX, centerY int) {
	t := s.theme
	ctx.WriteCentered(centerX, centerY-3, t.Warn("SERVER SHUTTING DOWN"))
	ctx.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	ctx.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(s.state.shutdownTimer.Seconds()) + 1
	ctx.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	ctx.WriteCentered(centerX, centerY+4, t.Hint("Press Q to disconnect now"))
}
