package physics

const (
	labelHeight  = 18.0
	labelPadding = 8.0
	// labelBand is the vertical space a word label occupies next to its body.
	labelBand = labelHeight + labelPadding
)

// Box is an axis-aligned rectangle with its origin at the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Intersects reports whether two boxes overlap with positive area.
func (b Box) Intersects(o Box) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// BoundingBoxOf returns the visual footprint of a body including its label band.
func BoundingBoxOf(body Body) Box {
	size := body.Size
	if size <= 0 {
		size = defaultBodySize
	}
	box := Box{
		X: body.X - size/2,
		Y: body.Y - size/2,
		W: size,
		H: size + labelBand,
	}
	if body.Label == LabelAbove {
		box.Y -= labelBand
	}
	return box
}

// BoxSeparation returns a push for a that halves the overlap of the two
// footprints along the axis of least penetration. The push moves a away
// from b; b would receive the negation.
func BoxSeparation(a, b Body) (Vec, bool) {
	boxA := BoundingBoxOf(a)
	boxB := BoundingBoxOf(b)

	overlapX := min(boxA.Right(), boxB.Right()) - max(boxA.X, boxB.X)
	overlapY := min(boxA.Bottom(), boxB.Bottom()) - max(boxA.Y, boxB.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return Vec{}, false
	}

	if overlapX < overlapY {
		sep := overlapX / 2
		if boxA.X < boxB.X {
			return Vec{X: -sep}, true
		}
		return Vec{X: sep}, true
	}

	sep := overlapY / 2
	if boxA.Y < boxB.Y {
		return Vec{Y: -sep}, true
	}
	return Vec{Y: sep}, true
}
