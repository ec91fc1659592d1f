package planner

import "math"

// Point is a position in the arm's workspace.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the vector from other to p.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Length returns the distance of p from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return other.Sub(p).Length()
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point
}

// Rectangle is an axis-aligned rectangle given by its top-left corner and size.
// Min, Max, Contains and Edges expect a normalized rectangle, as returned by
// NewRectangle and Normalize.
type Rectangle struct {
	Position Point `json:"position"`
	Size     Point `json:"size"`
}

// NewRectangle returns the normalized rectangle spanning position and position+size.
func NewRectangle(position, size Point) Rectangle {
	return Rectangle{Position: position, Size: size}.Normalize()
}

// Normalize returns the same area with non-negative width and height.
// A negative extent moves the position to the opposite corner.
func (r Rectangle) Normalize() Rectangle {
	if r.Size.X < 0 {
		r.Position.X += r.Size.X
		r.Size.X = -r.Size.X
	}
	if r.Size.Y < 0 {
		r.Position.Y += r.Size.Y
		r.Size.Y = -r.Size.Y
	}
	return r
}

// Min returns the corner with the smallest coordinates.
func (r Rectangle) Min() Point {
	return r.Position
}

// Max returns the corner with the largest coordinates.
func (r Rectangle) Max() Point {
	return r.Position.Add(r.Size)
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rectangle) Contains(p Point) bool {
	return r.Position.X <= p.X && p.X <= r.Position.X+r.Size.X &&
		r.Position.Y <= p.Y && p.Y <= r.Position.Y+r.Size.Y
}

// Edges returns the four sides of r, clockwise from the top edge.
func (r Rectangle) Edges() [4]LineSegment {
	lo, hi := r.Min(), r.Max()
	topRight := Point{X: hi.X, Y: lo.Y}
	bottomLeft := Point{X: lo.X, Y: hi.Y}
	return [4]LineSegment{
		{P1: lo, P2: topRight},
		{P1: topRight, P2: hi},
		{P1: hi, P2: bottomLeft},
		{P1: bottomLeft, P2: lo},
	}
}

// SegmentsIntersect checks if segment a1-a2 crosses segment b1-b2.
//
// Both segments are written parametrically, a1 + r·(a2-a1) and b1 + s·(b2-b1),
// and the segments intersect iff the solution has r and s in [0, 1].
// Parallel segments never intersect.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	d := a2.Sub(a1)
	e := b2.Sub(b1)

	denominator := cross(d, e)
	if denominator == 0 {
		return false
	}

	w := b1.Sub(a1)
	r := cross(w, e) / denominator
	s := cross(w, d) / denominator

	return r >= 0 && r <= 1 && s >= 0 && s <= 1
}

// DoSegmentsIntersect is SegmentsIntersect for LineSegment values.
func DoSegmentsIntersect(seg1, seg2 LineSegment) bool {
	return SegmentsIntersect(seg1.P1, seg1.P2, seg2.P1, seg2.P2)
}

// cross returns the z component of the cross product of two vectors
func cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// SegmentIntersectsRectangle checks if the segment p1-p2 crosses any edge of
// the normalized rect or has an endpoint inside it.
func SegmentIntersectsRectangle(p1, p2 Point, rect Rectangle) bool {
	segment := LineSegment{P1: p1, P2: p2}
	for _, edge := range rect.Edges() {
		if DoSegmentsIntersect(segment, edge) {
			return true
		}
	}

	return rect.Contains(p1) || rect.Contains(p2)
}

// SegmentBounds returns the axis-aligned bounding rectangle of a segment.
func SegmentBounds(p1, p2 Point) Rectangle {
	return NewRectangle(p1, p2.Sub(p1))
}
