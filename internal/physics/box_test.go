package physics

import "testing"

func TestBoundingBoxOf(t *testing.T) {
	tests := []struct {
		name string
		body Body
		want Box
	}{
		{"label below", Body{X: 100, Y: 100, Size: 60}, Box{X: 70, Y: 70, W: 60, H: 86}},
		{"label above", Body{X: 100, Y: 100, Size: 60, Label: LabelAbove}, Box{X: 70, Y: 44, W: 60, H: 86}},
		{"default size", Body{X: 0, Y: 0}, Box{X: -30, Y: -30, W: 60, H: 86}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundingBoxOf(tt.body); got != tt.want {
				t.Errorf("BoundingBoxOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxSeparation(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Body
		want   Vec
		wantOK bool
	}{
		{
			name:   "horizontal a left of b",
			a:      Body{X: 100, Y: 100, Size: 60},
			b:      Body{X: 140, Y: 100, Size: 60},
			want:   Vec{X: -10},
			wantOK: true,
		},
		{
			name:   "horizontal a right of b",
			a:      Body{X: 140, Y: 100, Size: 60},
			b:      Body{X: 100, Y: 100, Size: 60},
			want:   Vec{X: 10},
			wantOK: true,
		},
		{
			name:   "vertical a above b",
			a:      Body{X: 100, Y: 100, Size: 60},
			b:      Body{X: 100, Y: 150, Size: 60},
			want:   Vec{Y: -18},
			wantOK: true,
		},
		{
			name: "disjoint",
			a:    Body{X: 0, Y: 0, Size: 60},
			b:    Body{X: 500, Y: 0, Size: 60},
		},
		{
			name: "edges touching",
			a:    Body{X: 0, Y: 0, Size: 60},
			b:    Body{X: 60, Y: 0, Size: 60},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoxSeparation(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !approxEqual(got.X, tt.want.X) || !approxEqual(got.Y, tt.want.Y) {
				t.Fatalf("BoxSeparation() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxIntersects(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	if !a.Intersects(Box{X: 5, Y: 5, W: 10, H: 10}) {
		t.Error("overlapping boxes reported disjoint")
	}
	if a.Intersects(Box{X: 10, Y: 0, W: 10, H: 10}) {
		t.Error("edge-touching boxes reported overlapping")
	}
}

func TestDistanceHelpers(t *testing.T) {
	if got := Distance(0, 0, 3, 4); !approxEqual(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
	if !PointInCircle(520, 500, 500, 500, 44) {
		t.Error("point 20px away should be inside radius 44")
	}
	if PointInCircle(600, 500, 500, 500, 44) {
		t.Error("point 100px away should be outside radius 44")
	}
	if !CirclesOverlap(0, 0, 10, 15, 0, 10) {
		t.Error("circles 15 apart with radii 10 should overlap")
	}
}
