package director

import "time"

const (
	// DefaultWavePause is the break between a cleared wave and the next.
	DefaultWavePause = 3 * time.Second

	// MaxWave caps the starting wave and the recorded highest wave.
	MaxWave = 30
)

// WaveSize returns how many enemies wave n spawns.
func WaveSize(n int) int {
	return 5 + 2*(max(n, 1)-1)
}

// Waves drives a director in wave mode: each wave spawns its enemies at
// once, and the next wave starts a pause after the field is cleared.
// The director's auto-spawn timer is not used.
type Waves struct {
	d     *Director
	pause time.Duration

	wave       int
	inProgress bool
	remaining  time.Duration // Pause left before the next wave
}

// NewWaves creates a wave driver starting at startWave (clamped to 1..MaxWave).
func NewWaves(d *Director, startWave int, pause time.Duration) *Waves {
	if pause <= 0 {
		pause = DefaultWavePause
	}
	w := &Waves{d: d, pause: pause}
	w.Reset(startWave)
	return w
}

// Reset rewinds to startWave without touching the director.
func (w *Waves) Reset(startWave int) {
	w.wave = min(max(startWave, 1), MaxWave)
	w.inProgress = false
	w.remaining = 0
}

// Wave returns the current wave number.
func (w *Waves) Wave() int {
	return w.wave
}

// InProgress reports whether the current wave still has enemies to clear.
func (w *Waves) InProgress() bool {
	return w.inProgress
}

// PauseRemaining returns the time left before the next wave starts.
func (w *Waves) PauseRemaining() time.Duration {
	return w.remaining
}

// Update advances the wave state machine and ticks the director. It reports
// whether a wave started during this call.
func (w *Waves) Update(dt time.Duration) bool {
	if w.d.State() == StateStopped {
		return false
	}

	started := false
	switch {
	case !w.inProgress && w.remaining > 0:
		w.remaining -= dt
		if w.remaining <= 0 {
			w.remaining = 0
			w.wave++
			w.start()
			started = true
		}
	case !w.inProgress:
		w.start()
		started = true
	}

	w.d.Tick(dt)

	if w.inProgress && w.d.LiveCount() == 0 {
		w.inProgress = false
		w.remaining = w.pause
		w.d.log.Debug("wave cleared", "wave", w.wave)
	}
	return started
}

// start spawns the current wave. Wave mode ignores score when rolling tiers.
func (w *Waves) start() {
	w.inProgress = true
	n := WaveSize(w.wave)
	for i := 0; i < n; i++ {
		w.d.Spawn(0)
	}
	w.d.log.Debug("wave started", "wave", w.wave, "enemies", n)
}
