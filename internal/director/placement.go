package director

import (
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/physics"
)

// Screen edges an enemy can enter from.
const (
	edgeTop = iota
	edgeBottom
	edgeLeft
	edgeRight
)

// place picks a spawn position for an enemy of the given size. Candidates
// overlapping a live enemy are retried up to MaxPlacementAttempts times;
// the last candidate is accepted regardless.
func (d *Director) place(size float64) (x, y float64, label physics.LabelPlacement, attempts int) {
	for attempts = 1; ; attempts++ {
		x, y = d.edgePosition()
		label = d.labelFor(y)
		body := physics.Body{X: x, Y: y, Size: size, Label: label}
		if !d.overlapsLive(body) || attempts >= d.opts.MaxPlacementAttempts {
			return x, y, label, attempts
		}
	}
}

// edgePosition returns a uniformly random point on one of the four edges,
// offset by up to Jitter on each axis.
func (d *Director) edgePosition() (x, y float64) {
	w := d.viewport.Width
	h := d.viewport.Height

	switch d.rng.Intn(4) {
	case edgeTop:
		x, y = d.rng.Float64()*w, 0
	case edgeBottom:
		x, y = d.rng.Float64()*w, h
	case edgeLeft:
		x, y = 0, d.rng.Float64()*h
	case edgeRight:
		x, y = w, d.rng.Float64()*h
	}

	x += (d.rng.Float64() - 0.5) * 2 * d.opts.Jitter
	y += (d.rng.Float64() - 0.5) * 2 * d.opts.Jitter
	return x, y
}

// labelFor puts labels above enemies entering near the bottom, so the text
// stays on screen.
func (d *Director) labelFor(y float64) physics.LabelPlacement {
	if y > d.viewport.Height*d.opts.LabelAboveFraction {
		return physics.LabelAbove
	}
	return physics.LabelBelow
}

// overlapsLive reports whether body's footprint intersects any live enemy.
func (d *Director) overlapsLive(body physics.Body) bool {
	box := physics.BoundingBoxOf(body)

	if d.opts.BruteForceLimit >= 0 && len(d.live) <= d.opts.BruteForceLimit {
		for _, e := range d.live {
			if !e.Defeated && box.Intersects(physics.BoundingBoxOf(e.Body())) {
				return true
			}
		}
		return false
	}

	// Any intersecting enemy has its centre within this reach on both axes,
	// so its cell is covered by the query square.
	reach := extent(box, body.X, body.Y) + d.maxExtent
	for _, id := range d.index.QueryRadius(body.X, body.Y, reach) {
		e, ok := d.byID[object.EnemyID(id)]
		if !ok || e.Defeated {
			continue
		}
		if box.Intersects(physics.BoundingBoxOf(e.Body())) {
			return true
		}
	}
	return false
}

// extent returns the largest distance from (cx, cy) to any edge of box.
func extent(box physics.Box, cx, cy float64) float64 {
	return max(cx-box.X, box.Right()-cx, cy-box.Y, box.Bottom()-cy)
}
