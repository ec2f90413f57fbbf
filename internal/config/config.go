package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tomz197/typesurvivors/internal/director"
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/physics"
)

// Config is the game tuning file. Every field has a default, so a missing
// file or a partial one is valid.
type Config struct {
	Grid    GridConfig             `toml:"grid"`
	Tiers   TiersConfig            `toml:"tiers"`
	Weights []object.WeightBracket `toml:"weights"`
	Spawn   SpawnConfig            `toml:"spawn"`
	Player  PlayerConfig           `toml:"player"`
	Wave    WaveConfig             `toml:"wave"`
	View    ViewConfig             `toml:"view"`
	Logging LoggingConfig          `toml:"logging"`
}

type GridConfig struct {
	CellSize     float64 `toml:"cell_size"`
	LabelPadding float64 `toml:"label_padding"`
	Clearance    float64 `toml:"clearance"`
}

type TiersConfig struct {
	object.TierCutoffs
	Profiles object.TierTable `toml:"profiles"`
}

type SpawnConfig struct {
	Interval             time.Duration `toml:"interval"`
	MaxPlacementAttempts int           `toml:"max_placement_attempts"`
	Jitter               float64       `toml:"jitter"`
	LabelAboveFraction   float64       `toml:"label_above_fraction"`
	MoveEpsilon          float64       `toml:"move_epsilon"`
	BruteForceLimit      int           `toml:"brute_force_limit"`
	Separation           bool          `toml:"separation"`
}

type PlayerConfig struct {
	HitRadius     float64 `toml:"hit_radius"`
	ScorePerRune  int     `toml:"score_per_rune"`
	CaseSensitive bool    `toml:"case_sensitive"` // Default for players without a saved preference
}

type WaveConfig struct {
	Enabled   bool          `toml:"enabled"`
	StartWave int           `toml:"start_wave"`
	Pause     time.Duration `toml:"pause"`
}

type ViewConfig struct {
	MaxCols              int           `toml:"max_cols"`
	MaxRows              int           `toml:"max_rows"`
	FPS                  int           `toml:"fps"`
	InactivityWarn       time.Duration `toml:"inactivity_warn"`
	InactivityDisconnect time.Duration `toml:"inactivity_disconnect"`
	ShutdownDisplay      time.Duration `toml:"shutdown_display"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // Local game only; the terminal is the screen
}

// Default returns the shipped configuration.
func Default() *Config {
	return defaults()
}

// Load reads the TOML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping the values of keys it does not
// set. A [[weights]] list replaces the existing brackets as a whole.
func Parse(data []byte, cfg *Config) error {
	weights := cfg.Weights
	cfg.Weights = nil
	md, err := toml.Decode(string(data), cfg)
	if cfg.Weights == nil {
		cfg.Weights = weights
	}
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports the first setting the game cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Tiers.Tier1MaxLen < 1 || c.Tiers.Tier2MaxLen <= c.Tiers.Tier1MaxLen {
		errs = append(errs, fmt.Errorf("tiers: need 1 <= tier1_max_len < tier2_max_len, got %d and %d",
			c.Tiers.Tier1MaxLen, c.Tiers.Tier2MaxLen))
	}
	for i, p := range c.Tiers.Profiles {
		if p.Speed < 0 || p.Size <= 0 {
			errs = append(errs, fmt.Errorf("tiers.profiles[%d]: speed must be >= 0 and size > 0", i))
		}
	}
	prev := -1
	for i, b := range c.Weights {
		if b.MinScore <= prev {
			errs = append(errs, fmt.Errorf("weights[%d]: min_score %d not ascending", i, b.MinScore))
		}
		prev = b.MinScore
		var sum float64
		for _, w := range b.Weights {
			if w < 0 {
				errs = append(errs, fmt.Errorf("weights[%d]: negative weight", i))
			}
			sum += w
		}
		if sum <= 0 {
			errs = append(errs, fmt.Errorf("weights[%d]: weights sum to zero", i))
		}
	}
	if c.Spawn.Interval <= 0 {
		errs = append(errs, errors.New("spawn.interval must be positive"))
	}
	if c.Spawn.LabelAboveFraction <= 0 || c.Spawn.LabelAboveFraction > 1 {
		errs = append(errs, fmt.Errorf("spawn.label_above_fraction %v out of (0, 1]", c.Spawn.LabelAboveFraction))
	}
	if c.Player.HitRadius <= 0 {
		errs = append(errs, errors.New("player.hit_radius must be positive"))
	}
	if c.Wave.StartWave < 1 || c.Wave.StartWave > director.MaxWave {
		errs = append(errs, fmt.Errorf("wave.start_wave %d out of 1..%d", c.Wave.StartWave, director.MaxWave))
	}
	if c.View.FPS <= 0 {
		errs = append(errs, errors.New("view.fps must be positive"))
	}
	if c.View.InactivityDisconnect > 0 && c.View.InactivityWarn >= c.View.InactivityDisconnect {
		errs = append(errs, errors.New("view.inactivity_warn must come before inactivity_disconnect"))
	}
	return errors.Join(errs...)
}

// DirectorOptions maps the tuning onto director options. Rand and Logger
// are left for the caller.
func (c *Config) DirectorOptions() director.Options {
	return director.Options{
		Tiers:   c.Tiers.Profiles,
		Cutoffs: c.Tiers.TierCutoffs,
		Weights: object.SpawnWeights(c.Weights),
		Spatial: physics.SpatialConfig{
			CellSize:     c.Grid.CellSize,
			LabelPadding: c.Grid.LabelPadding,
			Clearance:    c.Grid.Clearance,
		},
		MaxPlacementAttempts: c.Spawn.MaxPlacementAttempts,
		Jitter:               c.Spawn.Jitter,
		LabelAboveFraction:   c.Spawn.LabelAboveFraction,
		MoveEpsilon:          c.Spawn.MoveEpsilon,
		CaseSensitive:        c.Player.CaseSensitive,
		SpawnInterval:        c.Spawn.Interval,
		BruteForceLimit:      c.Spawn.BruteForceLimit,
		Separation:           c.Spawn.Separation,
	}
}

// FrameTime returns the duration of one rendered frame.
func (c *Config) FrameTime() time.Duration {
	return time.Second / time.Duration(max(c.View.FPS, 1))
}

func defaults() *Config {
	d := director.DefaultOptions()
	return &Config{
		Grid: GridConfig{
			CellSize:     d.Spatial.CellSize,
			LabelPadding: d.Spatial.LabelPadding,
			Clearance:    d.Spatial.Clearance,
		},
		Tiers: TiersConfig{
			TierCutoffs: d.Cutoffs,
			Profiles:    d.Tiers,
		},
		Weights: d.Weights,
		Spawn: SpawnConfig{
			Interval:             d.SpawnInterval,
			MaxPlacementAttempts: d.MaxPlacementAttempts,
			Jitter:               d.Jitter,
			LabelAboveFraction:   d.LabelAboveFraction,
			MoveEpsilon:          d.MoveEpsilon,
			BruteForceLimit:      d.BruteForceLimit,
		},
		Player: PlayerConfig{
			HitRadius:    object.DefaultHitRadius,
			ScorePerRune: 10,
		},
		Wave: WaveConfig{
			StartWave: 1,
			Pause:     director.DefaultWavePause,
		},
		View: ViewConfig{
			MaxCols:              200,
			MaxRows:              60,
			FPS:                  60,
			InactivityWarn:       90 * time.Second,
			InactivityDisconnect: 120 * time.Second,
			ShutdownDisplay:      10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
