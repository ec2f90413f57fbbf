// Package director owns the live enemy set: it spawns words at the screen
// edges, moves them toward the player and resolves defeats and collisions.
package director

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/typesurvivors/internal/logging"
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/physics"
)

// State is the lifecycle phase of a Director.
type State int

const (
	StateIdle State = iota
	StateActive
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Director manages enemies for a single game session. It is not safe for
// concurrent use; each session owns its own Director.
type Director struct {
	opts     Options
	pool     *object.WordPool
	viewport object.Viewport
	index    *physics.SpatialIndex
	rng      *rand.Rand
	log      *log.Logger

	live   []*object.Enemy // Spawn order
	byID   map[object.EnemyID]*object.Enemy
	nextID object.EnemyID

	defeated   int
	spawnTimer time.Duration
	state      State

	// maxExtent is the farthest any enemy footprint reaches from its centre.
	maxExtent float64
}

// New creates a director drawing words from pool inside viewport.
func New(pool *object.WordPool, viewport object.Viewport, opts Options) *Director {
	opts = opts.withDefaults()
	d := &Director{
		opts:     opts,
		pool:     pool,
		viewport: viewport,
		index:    physics.NewSpatialIndexWithConfig(opts.Spatial),
		rng:      opts.Rand,
		log:      logging.OrDiscard(opts.Logger),
		byID:     make(map[object.EnemyID]*object.Enemy),
	}
	for _, p := range opts.Tiers {
		box := physics.BoundingBoxOf(physics.Body{Size: p.Size, Label: physics.LabelAbove})
		d.maxExtent = max(d.maxExtent, extent(box, 0, 0))
		box = physics.BoundingBoxOf(physics.Body{Size: p.Size, Label: physics.LabelBelow})
		d.maxExtent = max(d.maxExtent, extent(box, 0, 0))
	}
	return d
}

// State returns the lifecycle phase.
func (d *Director) State() State {
	return d.state
}

// Start activates an idle director. A stopped director stays stopped until Reset.
func (d *Director) Start() {
	if d.state == StateIdle {
		d.state = StateActive
	}
}

// Stop freezes the director: spawns are refused and ticks ignored.
func (d *Director) Stop() {
	d.state = StateStopped
}

// Reset clears every enemy, the spawn timer and the defeated counter and
// returns to idle. Enemy ids keep increasing across resets.
func (d *Director) Reset() {
	d.live = nil
	clear(d.byID)
	d.index.Clear()
	d.spawnTimer = 0
	d.defeated = 0
	d.state = StateIdle
}

// Viewport returns the current play area.
func (d *Director) Viewport() object.Viewport {
	return d.viewport
}

// Resize changes the play area and retargets every live enemy at its centre.
func (d *Director) Resize(viewport object.Viewport) {
	d.viewport = viewport
	cx, cy := viewport.Center()
	for _, e := range d.live {
		e.TargetX = cx
		e.TargetY = cy
	}
}

// CaseSensitive reports whether Defeat compares words exactly.
func (d *Director) CaseSensitive() bool {
	return d.opts.CaseSensitive
}

// SetCaseSensitive switches word matching for subsequent Defeat calls.
func (d *Director) SetCaseSensitive(on bool) {
	d.opts.CaseSensitive = on
}

// Spawn creates one enemy at a screen edge. The tier distribution follows
// score. It reports false when the director is stopped or the pool is empty.
func (d *Director) Spawn(score int) (object.Enemy, bool) {
	if d.state == StateStopped {
		return object.Enemy{}, false
	}

	rolled := d.opts.Weights.Pick(score, d.rng.Float64())
	word, ok := d.pool.Pick(rolled, d.rng)
	if !ok {
		d.log.Warn("spawn skipped, word pool is empty")
		return object.Enemy{}, false
	}

	// The tier always follows the word actually drawn, which differs from the
	// rolled tier when that tier's pool was empty.
	tier := d.opts.Cutoffs.TierOf(word.Text)
	profile := d.opts.Tiers.Profile(tier)
	x, y, label, attempts := d.place(profile.Size)
	cx, cy := d.viewport.Center()

	d.nextID++
	e := &object.Enemy{
		ID:      d.nextID,
		Word:    word.Text,
		Asset:   word.Asset,
		X:       x,
		Y:       y,
		TargetX: cx,
		TargetY: cy,
		Tier:    tier,
		Speed:   profile.Speed,
		Size:    profile.Size,
		Style:   profile.Style,
		Label:   label,
	}
	d.live = append(d.live, e)
	d.byID[e.ID] = e
	d.index.Add(int(e.ID), e.Body())
	d.state = StateActive

	d.log.Debug("spawned enemy", "id", e.ID, "word", e.Word, "tier", e.Tier, "x", int(x), "y", int(y), "attempts", attempts)
	return *e, true
}

// Tick moves every live enemy toward its target, refreshes the index and
// prunes defeated enemies.
func (d *Director) Tick(dt time.Duration) {
	if d.state == StateStopped {
		return
	}
	d.state = StateActive

	secs := dt.Seconds()
	for _, e := range d.live {
		if e.Defeated {
			continue
		}
		if e.Step(secs, d.opts.MoveEpsilon) {
			d.index.Update(int(e.ID), e.Body())
		}
	}

	if d.opts.Separation {
		d.separate()
	}
	d.prune()
}

// Update runs the auto-spawn timer and then ticks. A spawn happens each
// time the accumulated time reaches the spawn interval.
func (d *Director) Update(dt time.Duration, score int) {
	if d.state == StateStopped {
		return
	}
	d.spawnTimer += dt
	if d.spawnTimer >= d.opts.SpawnInterval {
		d.spawnTimer = 0
		d.Spawn(score)
	}
	d.Tick(dt)
}

// separate pushes overlapping neighbours apart by half their overlap each.
func (d *Director) separate() {
	for _, e := range d.live {
		if e.Defeated {
			continue
		}
		id := int(e.ID)
		for _, otherID := range d.index.QueryNeighbors(id) {
			// Each pair is resolved once, from its lower id.
			if otherID <= id {
				continue
			}
			push, ok := d.index.CheckCircleOverlap(id, otherID)
			if !ok {
				continue
			}
			other := d.byID[object.EnemyID(otherID)]
			e.X -= push.X
			e.Y -= push.Y
			other.X += push.X
			other.Y += push.Y
			d.index.Update(id, e.Body())
			d.index.Update(otherID, other.Body())
		}
	}
}

// prune drops defeated enemies from the live set.
func (d *Director) prune() {
	kept := d.live[:0]
	for _, e := range d.live {
		if e.Defeated {
			delete(d.byID, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	clear(d.live[len(kept):])
	d.live = kept
}

// Defeat marks the oldest live enemy whose word matches text as defeated and
// removes it from the index. It reports false when nothing matched.
func (d *Director) Defeat(text string) (object.Enemy, bool) {
	if text == "" {
		return object.Enemy{}, false
	}
	for _, e := range d.live {
		if e.Defeated || !e.Matches(text, d.opts.CaseSensitive) {
			continue
		}
		e.Defeated = true
		d.index.Remove(int(e.ID))
		d.defeated++
		d.log.Debug("defeated enemy", "id", e.ID, "word", e.Word, "total", d.defeated)
		return *e, true
	}
	return object.Enemy{}, false
}

// LiveEntities returns copies of the live enemies in spawn order.
func (d *Director) LiveEntities() []object.Enemy {
	out := make([]object.Enemy, 0, len(d.live))
	for _, e := range d.live {
		if !e.Defeated {
			out = append(out, *e)
		}
	}
	return out
}

// LiveCount returns the number of live enemies.
func (d *Director) LiveCount() int {
	n := 0
	for _, e := range d.live {
		if !e.Defeated {
			n++
		}
	}
	return n
}

// CheckPlayerCollision returns the oldest live enemy closer than radius to
// point. The enemy is not removed.
func (d *Director) CheckPlayerCollision(point physics.Vec, radius float64) (object.Enemy, bool) {
	for _, e := range d.live {
		if e.Defeated {
			continue
		}
		if physics.PointInCircle(e.X, e.Y, point.X, point.Y, radius) {
			return *e, true
		}
	}
	return object.Enemy{}, false
}

// DefeatedCount returns the number of defeats since the last Reset.
func (d *Director) DefeatedCount() int {
	return d.defeated
}

// Stats returns the spatial index summary.
func (d *Director) Stats() physics.SpatialStats {
	return d.index.Stats()
}
