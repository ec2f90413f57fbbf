package object

import (
	"math/rand"
	"strings"
)

// Word is a typeable word and the asset it was named after.
type Word struct {
	Text  string
	Asset string
}

// WordPool holds the word list bucketed by tier.
type WordPool struct {
	all    []Word
	byTier [TierCount][]Word
}

// NewWordPool classifies words once. Blank words are skipped; duplicates are kept.
func NewWordPool(words []Word, cutoffs TierCutoffs) *WordPool {
	p := &WordPool{}
	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}
		p.all = append(p.all, w)
		tier := cutoffs.TierOf(w.Text)
		p.byTier[tier-1] = append(p.byTier[tier-1], w)
	}
	return p
}

// Len returns the number of words in the pool.
func (p *WordPool) Len() int {
	return len(p.all)
}

// TierLen returns the number of words classified as t.
func (p *WordPool) TierLen(t Tier) int {
	if !t.Valid() {
		return 0
	}
	return len(p.byTier[t-1])
}

// Pick draws a word of tier t. When that tier has no words it draws from the
// whole pool instead. It reports false only for an empty pool.
func (p *WordPool) Pick(t Tier, rng *rand.Rand) (Word, bool) {
	candidates := p.all
	if t.Valid() && len(p.byTier[t-1]) > 0 {
		candidates = p.byTier[t-1]
	}
	if len(candidates) == 0 {
		return Word{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}
