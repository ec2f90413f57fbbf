package loop

import "time"

// Effects
const (
	burstCount         = 14
	burstSpeed         = 220.0 // Pixels per second
	burstLifetime      = 0.6   // Seconds
	deathBurstCount    = 40
	deathBurstSpeed    = 260.0
	deathBurstLifetime = 1.2
)

// Screens
const (
	restartDelay     = time.Second // Ignore restart keys right after dying
	noticeDuration   = 4 * time.Second
	promptBlinkMs    = 600
	leaderboardLines = 5
)
