package physics

import (
	"math"
	"slices"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCellKeyFloors(t *testing.T) {
	idx := NewSpatialIndex(120)
	tests := []struct {
		x, y float64
		want cellKey
	}{
		{0, 0, cellKey{0, 0}},
		{119.9, 119.9, cellKey{0, 0}},
		{120, 0, cellKey{1, 0}},
		{-0.1, 0, cellKey{-1, 0}},
		{-120, -121, cellKey{-1, -2}},
		{1000, 250, cellKey{8, 2}},
	}
	for _, tt := range tests {
		if got := idx.cellOf(tt.x, tt.y); got != tt.want {
			t.Errorf("cellOf(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRadius(t *testing.T) {
	idx := NewSpatialIndex(120)
	tests := []struct {
		name string
		body Body
		want float64
	}{
		{"below", Body{Size: 60}, 40},
		{"above", Body{Size: 60, Label: LabelAbove}, 62},
		{"default size", Body{}, 40},
		{"boss", Body{Size: 108}, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Radius(tt.body); !approxEqual(got, tt.want) {
				t.Errorf("Radius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpatialIndexAddUpdateRemove(t *testing.T) {
	idx := NewSpatialIndex(120)

	idx.Add(1, Body{X: 10, Y: 10, Size: 60})
	idx.Add(2, Body{X: 200, Y: 10, Size: 60})
	if got := idx.Stats().GridCells; got != 2 {
		t.Fatalf("GridCells = %d, want 2", got)
	}

	// Moving id 1 into id 2's cell must drop the now empty bucket.
	idx.Update(1, Body{X: 130, Y: 10, Size: 60})
	stats := idx.Stats()
	if stats.GridCells != 1 || stats.TotalEnemies != 2 {
		t.Fatalf("after move stats = %+v, want 1 cell 2 enemies", stats)
	}
	if x, _, _, ok := idx.Entry(1); !ok || x != 130 {
		t.Fatalf("Entry(1) x = %v ok=%v, want 130 true", x, ok)
	}

	idx.Remove(2)
	idx.Remove(99)
	stats = idx.Stats()
	if stats.GridCells != 1 || stats.TotalEnemies != 1 {
		t.Fatalf("after remove stats = %+v, want 1 cell 1 enemy", stats)
	}
	if idx.Contains(2) {
		t.Fatal("id 2 still indexed after Remove")
	}

	idx.Remove(1)
	if stats := idx.Stats(); stats.GridCells != 0 || stats.TotalEnemies != 0 {
		t.Fatalf("empty index stats = %+v", stats)
	}
}

func TestSpatialIndexAddTwiceDoesNotDuplicate(t *testing.T) {
	idx := NewSpatialIndex(120)
	idx.Add(7, Body{X: 5, Y: 5})
	idx.Add(7, Body{X: 6, Y: 6})

	if got := len(idx.cells[cellKey{0, 0}]); got != 1 {
		t.Fatalf("bucket holds %d entries, want 1", got)
	}
	if got := idx.Stats().TotalEnemies; got != 1 {
		t.Fatalf("TotalEnemies = %d, want 1", got)
	}
}

func TestUpdateUnknownAdds(t *testing.T) {
	idx := NewSpatialIndex(120)
	idx.Update(3, Body{X: 300, Y: 300})
	if !idx.Contains(3) {
		t.Fatal("Update of unknown id did not add it")
	}
}

func TestQueryNeighbors(t *testing.T) {
	idx := NewSpatialIndex(120)
	idx.Add(1, Body{X: 60, Y: 60})
	idx.Add(2, Body{X: 200, Y: 200})              // diagonal neighbour cell
	idx.Add(3, Body{X: 400, Y: 60})               // three cells away
	idx.Add(4, Body{X: 70, Y: 70, Defeated: true}) // same cell, defeated
	idx.Add(5, Body{X: -10, Y: -10})              // negative neighbour cell

	got := idx.QueryNeighbors(1)
	slices.Sort(got)
	want := []int{2, 5}
	if !slices.Equal(got, want) {
		t.Fatalf("QueryNeighbors(1) = %v, want %v", got, want)
	}

	if got := idx.QueryNeighbors(42); len(got) != 0 {
		t.Fatalf("QueryNeighbors(unknown) = %v, want empty", got)
	}
}

func TestQueryRadius(t *testing.T) {
	idx := NewSpatialIndex(120)
	idx.Add(1, Body{X: 10, Y: 10})
	idx.Add(2, Body{X: 250, Y: 10})
	idx.Add(3, Body{X: 600, Y: 600})

	got := idx.QueryRadius(130, 10, 130)
	slices.Sort(got)
	if want := []int{1, 2}; !slices.Equal(got, want) {
		t.Fatalf("QueryRadius = %v, want %v", got, want)
	}

	if got := idx.QueryRadius(2000, 2000, 10); len(got) != 0 {
		t.Fatalf("QueryRadius far away = %v, want empty", got)
	}
}

func TestCheckCircleOverlap(t *testing.T) {
	idx := NewSpatialIndex(120)
	idx.Add(1, Body{X: 0, Y: 0, Size: 60})
	idx.Add(2, Body{X: 50, Y: 0, Size: 60})
	idx.Add(3, Body{X: 80, Y: 0, Size: 60})
	idx.Add(4, Body{X: 0, Y: 0, Size: 60})

	v, ok := idx.CheckCircleOverlap(1, 2)
	if !ok {
		t.Fatal("expected overlap between 1 and 2")
	}
	if !approxEqual(v.X, 15) || !approxEqual(v.Y, 0) {
		t.Fatalf("separation = %+v, want {15 0}", v)
	}

	// The vector always points from the first argument toward the second.
	v, _ = idx.CheckCircleOverlap(2, 1)
	if !approxEqual(v.X, -15) {
		t.Fatalf("reverse separation = %+v, want {-15 0}", v)
	}

	if _, ok := idx.CheckCircleOverlap(1, 3); ok {
		t.Fatal("touching circles must not overlap")
	}
	if _, ok := idx.CheckCircleOverlap(1, 4); ok {
		t.Fatal("coincident centres must not report an overlap")
	}
	if _, ok := idx.CheckCircleOverlap(1, 99); ok {
		t.Fatal("unknown id must not report an overlap")
	}
}

func TestClearAndStats(t *testing.T) {
	idx := NewSpatialIndex(120)
	idx.Add(1, Body{X: 10, Y: 10})
	idx.Add(2, Body{X: 20, Y: 20})
	idx.Add(3, Body{X: 300, Y: 20})

	stats := idx.Stats()
	if stats.GridCells != 2 || stats.TotalEnemies != 3 || !approxEqual(stats.AverageEnemiesPerCell, 1.5) {
		t.Fatalf("Stats() = %+v", stats)
	}

	idx.Clear()
	stats = idx.Stats()
	if stats.GridCells != 0 || stats.TotalEnemies != 0 || stats.AverageEnemiesPerCell != 0 {
		t.Fatalf("Stats() after Clear = %+v", stats)
	}
}

func TestNewSpatialIndexDefaults(t *testing.T) {
	idx := NewSpatialIndexWithConfig(SpatialConfig{CellSize: -5, LabelPadding: -1, Clearance: -1})
	if idx.CellSize() != DefaultCellSize {
		t.Fatalf("CellSize() = %v, want %v", idx.CellSize(), DefaultCellSize)
	}
	if got := idx.Radius(Body{Size: 60, Label: LabelAbove}); !approxEqual(got, 62) {
		t.Fatalf("Radius() = %v, want 62", got)
	}

	tight := NewSpatialIndexWithConfig(SpatialConfig{CellSize: 50})
	if got := tight.Radius(Body{Size: 60, Label: LabelAbove}); !approxEqual(got, 30) {
		t.Fatalf("zero paddings Radius() = %v, want 30", got)
	}
}
