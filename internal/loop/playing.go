package loop

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/tomz197/typesurvivors/internal/director"
	"github.com/tomz197/typesurvivors/internal/draw"
	"github.com/tomz197/typesurvivors/internal/input"
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/physics"
)

// updateStartState handles the title screen.
func (s *Session) updateStartState() {
	in := s.state.Input
	switch {
	case in.Tab:
		s.toggleCaseSensitive()
	case in.HasRune('w', 'W'):
		if s.state.Mode == ModeWaves {
			s.state.Mode = ModeEndless
		} else {
			s.state.Mode = ModeWaves
		}
	case in.HasRune('q', 'Q'):
		s.state.Running = false
	case in.Enter || in.HasRune(' '):
		s.startGame()
	}
}

// startGame begins a fresh run in the selected mode.
func (s *Session) startGame() {
	input.ResetKeyInput(s.inputStream)

	st := s.state
	st.Score = 0
	st.Elapsed = 0
	st.NewUnlocks = 0
	st.Buffer = st.Buffer[:0]
	st.Summary = RunSummary{}
	st.ClearEffects()

	s.director.Reset()
	s.director.Start()
	s.waves = nil
	if st.Mode == ModeWaves {
		s.waves = director.NewWaves(s.director, s.cfg.Wave.StartWave, s.cfg.Wave.Pause)
	}

	cx, cy := st.Viewport.Center()
	st.Player = object.NewUser(cx, cy)
	st.Player.HitRadius = s.cfg.Player.HitRadius

	st.GameState = GameStatePlaying
	s.log.Debug("run started", "mode", st.Mode)
}

// updatePlayingState advances a run: typing, enemies, effects, collision.
func (s *Session) updatePlayingState() {
	st := s.state
	if st.Input.Escape {
		st.GameState = GameStatePaused
		return
	}

	for _, k := range st.Input.Keys {
		s.applyKey(k)
	}

	st.Elapsed += st.delta
	if s.waves != nil {
		if s.waves.Update(st.delta) && s.waves.Wave() > 1 {
			st.setNotice("Wave " + strconv.Itoa(s.waves.Wave()))
		}
	} else {
		s.director.Update(st.delta, st.Score)
	}

	ctx := st.UpdateContext()
	st.Player.Update(ctx)
	s.updateEffects(ctx)

	px, py := st.Player.X, st.Player.Y
	if killer, hit := s.director.CheckPlayerCollision(physics.Vec{X: px, Y: py}, st.Player.HitRadius); hit {
		st.Player.Alert()
		object.SpawnBurst(px, py, deathBurstCount, deathBurstSpeed, deathBurstLifetime, draw.InkDanger, s.rng, st)
		st.FlushSpawned()
		s.endRun(killer.Word, killer.Asset)
	}
}

// applyKey edits the typing buffer. Every change is checked against the
// live words, and a match clears the buffer.
func (s *Session) applyKey(k input.Key) {
	st := s.state
	switch k.Kind {
	case input.KeyRune:
		if k.Rune == ' ' {
			// Words never contain spaces; a space discards the attempt.
			st.Buffer = st.Buffer[:0]
			return
		}
		st.Buffer = append(st.Buffer, k.Rune)
	case input.KeyBackspace:
		if len(st.Buffer) == 0 {
			return
		}
		st.Buffer = st.Buffer[:len(st.Buffer)-1]
	case input.KeyEnter, input.KeyClearLine:
		st.Buffer = st.Buffer[:0]
		return
	case input.KeyTab:
		s.toggleCaseSensitive()
		return
	default:
		return
	}
	s.tryDefeat()
}

// tryDefeat defeats the oldest enemy whose word equals the buffer.
func (s *Session) tryDefeat() {
	st := s.state
	if len(st.Buffer) == 0 {
		return
	}
	e, ok := s.director.Defeat(st.Typed())
	if !ok {
		return
	}
	st.Score += s.cfg.Player.ScorePerRune * utf8.RuneCountInString(e.Word)
	st.Buffer = st.Buffer[:0]
	if s.store.Unlock(e.Asset) {
		st.NewUnlocks++
	}
	object.SpawnBurst(e.X, e.Y, burstCount, burstSpeed, burstLifetime, draw.InkForStyle(e.Style), s.rng, st)
}

// toggleCaseSensitive flips word matching and remembers the choice.
func (s *Session) toggleCaseSensitive() {
	on := !s.director.CaseSensitive()
	s.director.SetCaseSensitive(on)
	s.store.SetCaseSensitive(on)
	if on {
		s.state.setNotice("Case sensitive: on")
	} else {
		s.state.setNotice("Case sensitive: off")
	}
}

// updateEffects updates particles and drops the expired ones.
func (s *Session) updateEffects(ctx object.UpdateContext) {
	st := s.state
	kept := st.Effects[:0]
	for _, obj := range st.Effects {
		remove, _ := obj.Update(ctx)
		if remove {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(st.Effects[len(kept):])
	st.Effects = kept
	st.FlushSpawned()
}

// endRun freezes the field, records the run in the profile and on the
// leaderboard and shows the summary. An empty killedBy means the player quit.
func (s *Session) endRun(killedBy, asset string) {
	st := s.state
	s.director.Stop()

	sum := RunSummary{
		KilledBy: killedBy,
		Asset:    asset,
		Score:    st.Score,
		Defeated: s.director.DefeatedCount(),
		Survived: st.Elapsed,
	}
	sum.NewHighScore = s.store.RecordScore(st.Score)
	sum.NewBestTime = s.store.RecordTime(st.Elapsed)
	if s.waves != nil {
		sum.Wave = s.waves.Wave()
		s.store.RecordWave(sum.Wave)
	}
	sum.NewGlows = s.store.UnlockGlows(st.Elapsed)
	sum.NewUnlocks = st.NewUnlocks
	sum.HighScore = s.store.Profile().HighScore
	st.Summary = sum

	if err := s.store.Save(); err != nil {
		s.log.Warn("profile not saved", "err", err)
	}
	s.hub.ReportScore(s.handle.ID, st.Score)
	s.log.Info("run ended", "score", sum.Score, "defeated", sum.Defeated,
		"survived", sum.Survived.Round(time.Second), "killedBy", killedBy)

	st.Buffer = st.Buffer[:0]
	st.deadTimer = 0
	st.GameState = GameStateDead
}

// updatePausedState handles the pause menu: resume or give up.
func (s *Session) updatePausedState() {
	in := s.state.Input
	switch {
	case in.Escape || in.Enter:
		s.state.GameState = GameStatePlaying
	case in.Tab:
		s.toggleCaseSensitive()
	case in.HasRune('q', 'Q'):
		s.endRun("", "")
	}
}

// updateDeadState keeps the last particles moving and waits for a restart.
func (s *Session) updateDeadState() {
	st := s.state
	st.deadTimer += st.delta
	s.updateEffects(st.UpdateContext())

	if st.deadTimer < restartDelay {
		return
	}
	in := st.Input
	switch {
	case in.Enter || in.HasRune(' '):
		s.startGame()
	case in.Escape:
		input.ResetKeyInput(s.inputStream)
		s.director.Reset()
		st.ClearEffects()
		st.Player = nil
		st.GameState = GameStateStart
	case in.HasRune('q', 'Q'):
		st.Running = false
	}
}

// updateShutdownState counts down before disconnecting.
func (s *Session) updateShutdownState() {
	s.state.shutdownTimer -= s.state.delta
	if s.state.shutdownTimer <= 0 || s.state.Input.HasRune('q', 'Q') {
		s.state.Running = false
	}
}
