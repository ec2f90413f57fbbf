package director

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/physics"
)

// Options tunes a Director. Zero values take the defaults from DefaultOptions.
type Options struct {
	Tiers   object.TierTable
	Cutoffs object.TierCutoffs
	Weights object.SpawnWeights
	Spatial physics.SpatialConfig

	MaxPlacementAttempts int     // Edge positions tried before accepting an overlap
	Jitter               float64 // Max offset in pixels per axis of an edge position; negative disables
	LabelAboveFraction   float64 // Enemies spawned below this share of the height get labels above
	MoveEpsilon          float64 // Enemies closer than this to the target stop moving
	CaseSensitive        bool
	SpawnInterval        time.Duration

	// BruteForceLimit is the live count up to which placement tests every
	// enemy directly. Above it the spatial index narrows the candidates.
	// Negative always uses the index.
	BruteForceLimit int

	// Separation pushes overlapping enemies apart after each tick.
	Separation bool

	Rand   *rand.Rand
	Logger *log.Logger
}

// DefaultOptions returns the shipped tuning.
func DefaultOptions() Options {
	return Options{
		Tiers:                object.DefaultTierTable(),
		Cutoffs:              object.DefaultTierCutoffs(),
		Weights:              object.DefaultSpawnWeights(),
		Spatial:              physics.DefaultSpatialConfig(),
		MaxPlacementAttempts: 10,
		Jitter:               12,
		LabelAboveFraction:   0.7,
		MoveEpsilon:          1,
		SpawnInterval:        2 * time.Second,
		BruteForceLimit:      24,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Tiers == (object.TierTable{}) {
		o.Tiers = def.Tiers
	}
	if o.Cutoffs == (object.TierCutoffs{}) {
		o.Cutoffs = def.Cutoffs
	}
	if len(o.Weights) == 0 {
		o.Weights = def.Weights
	}
	if o.Spatial == (physics.SpatialConfig{}) {
		o.Spatial = def.Spatial
	}
	if o.MaxPlacementAttempts <= 0 {
		o.MaxPlacementAttempts = def.MaxPlacementAttempts
	}
	switch {
	case o.Jitter == 0:
		o.Jitter = def.Jitter
	case o.Jitter < 0:
		o.Jitter = 0
	}
	if o.LabelAboveFraction <= 0 {
		o.LabelAboveFraction = def.LabelAboveFraction
	}
	if o.MoveEpsilon <= 0 {
		o.MoveEpsilon = def.MoveEpsilon
	}
	if o.SpawnInterval <= 0 {
		o.SpawnInterval = def.SpawnInterval
	}
	if o.BruteForceLimit == 0 {
		o.BruteForceLimit = def.BruteForceLimit
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
