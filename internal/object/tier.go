package object

import "unicode/utf8"

// Tier is the difficulty class of an enemy, derived from its word length.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

// TierCount is the number of tiers.
const TierCount = 3

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t >= Tier1 && t <= Tier3
}

// TierCutoffs holds the inclusive maximum word lengths of tiers 1 and 2.
// Longer words are tier 3.
type TierCutoffs struct {
	Tier1MaxLen int `toml:"tier1_max_len"`
	Tier2MaxLen int `toml:"tier2_max_len"`
}

// DefaultTierCutoffs returns the shipped cutoffs: up to 6 runes is tier 1,
// up to 10 is tier 2.
func DefaultTierCutoffs() TierCutoffs {
	return TierCutoffs{Tier1MaxLen: 6, Tier2MaxLen: 10}
}

// TierOf classifies a word by its rune count.
func (c TierCutoffs) TierOf(word string) Tier {
	n := utf8.RuneCountInString(word)
	switch {
	case n <= c.Tier1MaxLen:
		return Tier1
	case n <= c.Tier2MaxLen:
		return Tier2
	default:
		return Tier3
	}
}

// TierProfile is the movement and look of every enemy of a tier.
type TierProfile struct {
	Speed float64 `toml:"speed"` // Pixels per second
	Size  float64 `toml:"size"`  // Visual diameter in pixels
	Style string  `toml:"style"`
}

// TierTable maps each tier to its profile. Index 0 is tier 1.
type TierTable [TierCount]TierProfile

// DefaultTierTable returns the shipped profiles. Longer words move slower
// and are drawn larger.
func DefaultTierTable() TierTable {
	return TierTable{
		{Speed: 32, Size: 60, Style: ""},
		{Speed: 30, Size: 80, Style: "mid"},
		{Speed: 16, Size: 108, Style: "boss"},
	}
}

// Profile returns the profile for t. Unknown tiers get the tier 1 profile.
func (tt TierTable) Profile(t Tier) TierProfile {
	if !t.Valid() {
		return tt[0]
	}
	return tt[t-1]
}

// WeightBracket is the tier distribution used from MinScore upward.
type WeightBracket struct {
	MinScore int                `toml:"min_score"`
	Weights  [TierCount]float64 `toml:"weights"`
}

// SpawnWeights is a list of brackets sorted by ascending MinScore.
type SpawnWeights []WeightBracket

// DefaultSpawnWeights returns the shipped score brackets. Higher scores shift
// spawns toward longer words.
func DefaultSpawnWeights() SpawnWeights {
	return SpawnWeights{
		{MinScore: 0, Weights: [TierCount]float64{0.85, 0.15, 0}},
		{MinScore: 100, Weights: [TierCount]float64{0.60, 0.35, 0.05}},
		{MinScore: 250, Weights: [TierCount]float64{0.25, 0.45, 0.30}},
	}
}

// Bracket returns the weights in effect at score: the last bracket whose
// MinScore does not exceed it, or the first bracket for lower scores.
func (sw SpawnWeights) Bracket(score int) [TierCount]float64 {
	if len(sw) == 0 {
		return [TierCount]float64{1, 0, 0}
	}
	w := sw[0].Weights
	for _, b := range sw {
		if b.MinScore > score {
			break
		}
		w = b.Weights
	}
	return w
}

// Pick maps a uniform draw r in [0,1) onto a tier using cumulative
// thresholds of the bracket for score. Weights need not sum to one.
func (sw SpawnWeights) Pick(score int, r float64) Tier {
	weights := sw.Bracket(score)

	var total float64
	for _, w := range weights {
		total += max(w, 0)
	}
	if total <= 0 {
		return Tier1
	}

	x := r * total
	var acc float64
	last := Tier1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = Tier(i + 1)
		if x < acc {
			return last
		}
	}
	return last
}
