package physics

import "math"

// LabelPlacement tells which side of an entity its text label is drawn on.
type LabelPlacement int

const (
	LabelBelow LabelPlacement = iota
	LabelAbove
)

// Body is the footprint the index caches for an entity.
type Body struct {
	X, Y     float64
	Size     float64 // Visual diameter in pixels
	Label    LabelPlacement
	Defeated bool
}

const (
	DefaultCellSize     = 120.0
	DefaultLabelPadding = 22.0
	DefaultClearance    = 10.0

	// defaultBodySize is used for bodies that carry no size.
	defaultBodySize = 60.0
)

// SpatialConfig tunes the index. A non-positive CellSize and negative
// paddings take the defaults.
type SpatialConfig struct {
	CellSize     float64
	LabelPadding float64 // Added to the radius when the label sits above
	Clearance    float64 // Added to every radius
}

// SpatialStats is a diagnostic summary of the index.
type SpatialStats struct {
	GridCells             int
	TotalEnemies          int
	AverageEnemiesPerCell float64
}

type cellKey struct {
	X, Y int
}

// spatialEntry is the cached snapshot of one indexed id.
type spatialEntry struct {
	x, y     float64
	radius   float64
	defeated bool
	cell     cellKey
}

// SpatialIndex buckets entities into square cells keyed by integer cell
// coordinates. Unlike a dense grid it has no world bounds: cells exist only
// while they hold at least one id, so negative and off-screen coordinates
// are fine.
//
// The cell size should be at least the diameter of the largest entity
// footprint so that near neighbours land in the 3x3 block QueryNeighbors scans.
type SpatialIndex struct {
	cellSize     float64
	invCellSize  float64
	labelPadding float64
	clearance    float64
	cells        map[cellKey][]int
	entries      map[int]*spatialEntry
}

// NewSpatialIndex creates an index with the given cell size and default paddings.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	cfg := DefaultSpatialConfig()
	cfg.CellSize = cellSize
	return NewSpatialIndexWithConfig(cfg)
}

// NewSpatialIndexWithConfig creates an index from cfg.
func NewSpatialIndexWithConfig(cfg SpatialConfig) *SpatialIndex {
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultCellSize
	}
	if cfg.LabelPadding < 0 {
		cfg.LabelPadding = DefaultLabelPadding
	}
	if cfg.Clearance < 0 {
		cfg.Clearance = DefaultClearance
	}
	return &SpatialIndex{
		cellSize:     cfg.CellSize,
		invCellSize:  1.0 / cfg.CellSize,
		labelPadding: cfg.LabelPadding,
		clearance:    cfg.Clearance,
		cells:        make(map[cellKey][]int),
		entries:      make(map[int]*spatialEntry),
	}
}

// DefaultSpatialConfig returns the paddings the game ships with.
func DefaultSpatialConfig() SpatialConfig {
	return SpatialConfig{
		CellSize:     DefaultCellSize,
		LabelPadding: DefaultLabelPadding,
		Clearance:    DefaultClearance,
	}
}

// CellSize returns the configured cell edge length.
func (s *SpatialIndex) CellSize() float64 {
	return s.cellSize
}

// Radius returns the overlap radius of a body: half its size, the label
// padding when the label extends upward, and the clearance.
func (s *SpatialIndex) Radius(b Body) float64 {
	size := b.Size
	if size <= 0 {
		size = defaultBodySize
	}
	r := size / 2
	if b.Label == LabelAbove {
		r += s.labelPadding
	}
	return r + s.clearance
}

// cellOf uses floor so negative coordinates and exact boundaries bucket
// deterministically (x == cellSize lands in cell 1, x == -0.1 in cell -1).
func (s *SpatialIndex) cellOf(x, y float64) cellKey {
	return cellKey{
		X: int(math.Floor(x * s.invCellSize)),
		Y: int(math.Floor(y * s.invCellSize)),
	}
}

// Add indexes id with the given body. Adding a known id updates it instead.
func (s *SpatialIndex) Add(id int, b Body) {
	if _, ok := s.entries[id]; ok {
		s.Update(id, b)
		return
	}
	cell := s.cellOf(b.X, b.Y)
	s.entries[id] = &spatialEntry{
		x:        b.X,
		y:        b.Y,
		radius:   s.Radius(b),
		defeated: b.Defeated,
		cell:     cell,
	}
	s.cells[cell] = append(s.cells[cell], id)
}

// Update refreshes the cached body of id, moving it between buckets only
// when its cell changed. Unknown ids are added.
func (s *SpatialIndex) Update(id int, b Body) {
	entry, ok := s.entries[id]
	if !ok {
		s.Add(id, b)
		return
	}

	newCell := s.cellOf(b.X, b.Y)
	entry.x = b.X
	entry.y = b.Y
	entry.radius = s.Radius(b)
	entry.defeated = b.Defeated

	if newCell == entry.cell {
		return
	}
	s.removeFromCell(id, entry.cell)
	entry.cell = newCell
	s.cells[newCell] = append(s.cells[newCell], id)
}

// Remove drops id from the index. Unknown ids are ignored.
func (s *SpatialIndex) Remove(id int) {
	entry, ok := s.entries[id]
	if !ok {
		return
	}
	s.removeFromCell(id, entry.cell)
	delete(s.entries, id)
}

func (s *SpatialIndex) removeFromCell(id int, cell cellKey) {
	bucket := s.cells[cell]
	for i, other := range bucket {
		if other != id {
			continue
		}
		// Keep bucket order stable so query results are deterministic.
		bucket = append(bucket[:i], bucket[i+1:]...)
		break
	}
	if len(bucket) == 0 {
		delete(s.cells, cell)
	} else {
		s.cells[cell] = bucket
	}
}

// Contains reports whether id is indexed.
func (s *SpatialIndex) Contains(id int) bool {
	_, ok := s.entries[id]
	return ok
}

// Entry returns the cached position and radius of id.
func (s *SpatialIndex) Entry(id int) (x, y, radius float64, ok bool) {
	entry, ok := s.entries[id]
	if !ok {
		return 0, 0, 0, false
	}
	return entry.x, entry.y, entry.radius, true
}

// QueryNeighbors returns every other known, non-defeated id in the 3x3 block
// of cells around id's cell. The result is approximate: callers must still
// test real overlap before acting on a neighbour.
func (s *SpatialIndex) QueryNeighbors(id int) []int {
	entry, ok := s.entries[id]
	if !ok {
		return nil
	}
	var out []int
	s.visit(entry.cell.X-1, entry.cell.Y-1, entry.cell.X+1, entry.cell.Y+1, func(other int) {
		if other != id {
			out = append(out, other)
		}
	})
	return out
}

// QueryRadius returns every known, non-defeated id bucketed in a cell that
// intersects the square of half-width reach centred on (x, y).
func (s *SpatialIndex) QueryRadius(x, y, reach float64) []int {
	if reach < 0 {
		reach = 0
	}
	lo := s.cellOf(x-reach, y-reach)
	hi := s.cellOf(x+reach, y+reach)
	var out []int
	s.visit(lo.X, lo.Y, hi.X, hi.Y, func(id int) {
		out = append(out, id)
	})
	return out
}

// visit calls fn for every non-defeated id in the inclusive cell range.
func (s *SpatialIndex) visit(minX, minY, maxX, maxY int, fn func(id int)) {
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			for _, id := range s.cells[cellKey{X: cx, Y: cy}] {
				if s.entries[id].defeated {
					continue
				}
				fn(id)
			}
		}
	}
}

// CheckCircleOverlap returns the separation vector between a and b when
// their cached circles overlap. The vector points from a toward b and has
// half the penetration depth as magnitude, so applying -v to a and +v to b
// resolves the overlap. Coincident centres are not actionable.
func (s *SpatialIndex) CheckCircleOverlap(a, b int) (Vec, bool) {
	ea, okA := s.entries[a]
	eb, okB := s.entries[b]
	if !okA || !okB {
		return Vec{}, false
	}

	minDist := ea.radius + eb.radius
	dx := eb.x - ea.x
	dy := eb.y - ea.y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 || dist >= minDist {
		return Vec{}, false
	}

	overlap := (minDist - dist) / 2
	return Vec{X: dx / dist * overlap, Y: dy / dist * overlap}, true
}

// Clear empties all buckets and cached entries.
func (s *SpatialIndex) Clear() {
	clear(s.cells)
	clear(s.entries)
}

// Stats returns bucket and entry counts.
func (s *SpatialIndex) Stats() SpatialStats {
	cells := len(s.cells)
	total := len(s.entries)
	return SpatialStats{
		GridCells:             cells,
		TotalEnemies:          total,
		AverageEnemiesPerCell: float64(total) / float64(max(1, cells)),
	}
}
