// Package loop runs one player's game: the input, update and draw cycle
// around a director, from the title screen to game over and back.
package loop

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/typesurvivors/internal/config"
	"github.com/tomz197/typesurvivors/internal/director"
	"github.com/tomz197/typesurvivors/internal/draw"
	"github.com/tomz197/typesurvivors/internal/input"
	"github.com/tomz197/typesurvivors/internal/logging"
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/profile"
	"github.com/tomz197/typesurvivors/internal/session"
)

// Options configures a Session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Config       *config.Config  // Nil uses the defaults
	Words        []object.Word   // Required
	Storage      profile.Storage // Nil keeps the profile in memory
	Logger       *log.Logger
	Rand         *rand.Rand

	// DisconnectIdle ends the session after the configured inactivity
	// timeout. Local games leave it off.
	DisconnectIdle bool
}

// Session handles rendering, input and game state for a single connection.
type Session struct {
	hub    *session.Hub
	handle *session.Handle
	cfg    *config.Config
	store  *profile.Store
	log    *log.Logger
	rng    *rand.Rand

	director *director.Director
	waves    *director.Waves

	state       *State
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	theme       *draw.Theme
	writer      io.Writer
	inputStream *input.Stream

	lastInput      time.Time
	disconnectIdle bool
	termSizeFunc   draw.TermSizeFunc
}

// NewSession registers a session with hub and prepares its screen.
func NewSession(hub *session.Hub, r *bufio.Reader, w io.Writer, opts Options) (*Session, error) {
	if len(opts.Words) == 0 {
		return nil, fmt.Errorf("new session: no words")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := logging.OrDiscard(opts.Logger).With("user", opts.Username)
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	store, err := profile.Open(opts.Storage, opts.Username, logger)
	if err != nil {
		// A broken record must not keep the player out.
		logger.Warn("profile unavailable, starting fresh", "err", err)
	}

	state := NewState()
	if cfg.Wave.Enabled {
		state.Mode = ModeWaves
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitRegion(termWidth, termHeight, cfg.View.MaxCols, cfg.View.MaxRows)
	state.Viewport = object.ViewportForTerminal(renderWidth, renderHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, state.Viewport.Width, state.Viewport.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	dopts := cfg.DirectorOptions()
	dopts.CaseSensitive = store.CaseSensitive(cfg.Player.CaseSensitive)
	dopts.Rand = rng
	dopts.Logger = logger
	pool := object.NewWordPool(opts.Words, dopts.Cutoffs)
	d := director.New(pool, state.Viewport, dopts)

	handle := hub.Register(opts.Username)
	logger.Info("session started", "words", pool.Len(), "cols", renderWidth, "rows", renderHeight)

	return &Session{
		hub:            hub,
		handle:         handle,
		cfg:            cfg,
		store:          store,
		log:            logger,
		rng:            rng,
		director:       d,
		state:          state,
		canvas:         canvas,
		chunkWriter:    draw.NewChunkWriter(w, offsetCol, offsetRow),
		theme:          draw.NewTheme(w),
		writer:         w,
		inputStream:    input.StartStream(r),
		lastInput:      time.Now(),
		disconnectIdle: opts.DisconnectIdle && cfg.View.InactivityDisconnect > 0,
		termSizeFunc:   termSizeFunc,
	}, nil
}

// Run starts the session loop. Blocks until the player quits, the input
// closes or the server shuts down.
func (s *Session) Run() error {
	defer s.hub.Unregister(s.handle.ID)

	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	frameTime := s.cfg.FrameTime()
	lastTime := time.Now()

	for s.state.Running {
		frameStart := time.Now()
		s.step(frameStart.Sub(lastTime))
		lastTime = frameStart

		if err := s.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	if err := s.store.Save(); err != nil {
		s.log.Warn("profile not saved", "err", err)
	}
	draw.ClearScreen(s.writer)
	s.log.Info("session ended", "score", s.state.Score)
	return nil
}

// step runs the input and update phases of one frame.
func (s *Session) step(delta time.Duration) {
	s.state.delta = delta

	s.processInput()
	s.processHubEvents()
	s.updateScreen()

	if s.state.noticeTimer > 0 {
		s.state.noticeTimer -= delta
		if s.state.noticeTimer <= 0 {
			s.state.Notice = ""
		}
	}

	switch s.state.GameState {
	case GameStateStart:
		s.updateStartState()
	case GameStatePlaying:
		s.updatePlayingState()
	case GameStatePaused:
		s.updatePausedState()
	case GameStateDead:
		s.updateDeadState()
	case GameStateShutdown:
		s.updateShutdownState()
	}
}

// processInput reads the frame's keys and tracks inactivity.
func (s *Session) processInput() {
	s.state.Input = input.ReadInput(s.inputStream)

	if len(s.state.Input.Pressed) > 0 {
		s.lastInput = time.Now()
		s.state.isInactive = false
	} else if s.disconnectIdle {
		idle := time.Since(s.lastInput)
		if idle > s.cfg.View.InactivityDisconnect {
			s.log.Info("disconnecting idle session", "idle", idle.Round(time.Second))
			s.state.Running = false
		} else if idle > s.cfg.View.InactivityWarn {
			s.state.isInactive = true
		}
	}

	if s.state.Input.Quit || s.state.Input.Closed {
		s.state.Running = false
	}
}

// processHubEvents handles events from the hub.
func (s *Session) processHubEvents() {
	for {
		select {
		case event, ok := <-s.handle.EventsCh:
			if !ok {
				s.state.Running = false
				return
			}
			switch event.Type {
			case session.EventServerShutdown:
				if s.state.GameState == GameStatePlaying || s.state.GameState == GameStatePaused {
					s.endRun("", "")
				}
				s.state.GameState = GameStateShutdown
				s.state.shutdownTimer = s.cfg.View.ShutdownDisplay
			case session.EventNewTopScore:
				s.state.setNotice(fmt.Sprintf("%s took the top score: %d", event.Username, event.Score))
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes. The viewport tracks the render
// area, so a resize retargets every enemy at the new centre.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitRegion(termWidth, termHeight, s.cfg.View.MaxCols, s.cfg.View.MaxRows)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		s.chunkWriter.WriteString(draw.SeqClearScreen)
		s.canvas.ForceRedraw()
	}

	vp := object.ViewportForTerminal(renderWidth, renderHeight)
	s.canvas.Resize(renderWidth, renderHeight, vp.Width, vp.Height)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)

	if vp != s.state.Viewport {
		s.state.Viewport = vp
		s.director.Resize(vp)
		if s.state.Player != nil {
			s.state.Player.MoveTo(vp.Center())
		}
	}
}

// Run plays a single local session on a private hub.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	hub := session.NewHub(opts.Logger)
	s, err := NewSession(hub, r, w, opts)
	if err != nil {
		return err
	}
	return s.Run()
}
