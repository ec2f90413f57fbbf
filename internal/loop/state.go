package loop

import (
	"time"

	"github.com/tomz197/typesurvivors/internal/input"
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/profile"
)

// GameState represents the current screen of a session.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active run
	GameStatePaused                    // Run frozen behind the pause menu
	GameStateDead                      // Game over summary
	GameStateShutdown                  // Server is shutting down
)

func (g GameState) String() string {
	switch g {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStatePaused:
		return "paused"
	case GameStateDead:
		return "dead"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Mode selects how enemies arrive.
type Mode int

const (
	ModeEndless Mode = iota // Timed spawns, tiers follow the score
	ModeWaves               // Fixed-size waves with a pause between them
)

func (m Mode) String() string {
	if m == ModeWaves {
		return "waves"
	}
	return "endless"
}

// RunSummary is what the game over screen shows.
type RunSummary struct {
	KilledBy     string // Empty when the player quit
	Asset        string
	Score        int
	Defeated     int
	Survived     time.Duration
	Wave         int
	HighScore    int
	NewHighScore bool
	NewBestTime  bool
	NewGlows     []profile.Glow
	NewUnlocks   int
}

// State holds everything a session tracks between frames.
type State struct {
	Input     input.Input
	GameState GameState
	Mode      Mode
	Running   bool

	Viewport object.Viewport
	Player   *object.User
	Effects  []object.Object // Particles
	toSpawn  []object.Object

	Buffer     []rune // Typing buffer
	Score      int
	Elapsed    time.Duration // Survival time of the current run
	NewUnlocks int
	Summary    RunSummary

	Notice      string
	noticeTimer time.Duration

	delta         time.Duration
	deadTimer     time.Duration // Time since the run ended
	shutdownTimer time.Duration
	isInactive    bool

	prevGameState GameState
	wasInactive   bool
}

// NewState creates a session state on the title screen.
func NewState() *State {
	return &State{
		GameState:     GameStateStart,
		Running:       true,
		prevGameState: GameStateStart,
	}
}

// Spawn queues an effect to be added after the current update.
// Implements object.Spawner.
func (s *State) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued effects.
func (s *State) FlushSpawned() {
	s.Effects = append(s.Effects, s.toSpawn...)
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// ClearEffects releases every effect.
func (s *State) ClearEffects() {
	for _, obj := range s.Effects {
		object.ReleaseObject(obj)
	}
	clear(s.Effects)
	s.Effects = s.Effects[:0]
}

// UpdateContext creates an UpdateContext for the current frame.
func (s *State) UpdateContext() object.UpdateContext {
	return object.UpdateContext{
		Delta:    s.delta,
		Viewport: s.Viewport,
		Spawner:  s,
	}
}

// Typed returns the typing buffer as a string.
func (s *State) Typed() string {
	return string(s.Buffer)
}

func (s *State) setNotice(msg string) {
	s.Notice = msg
	s.noticeTimer = noticeDuration
}
