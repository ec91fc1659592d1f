package planner

// Obstacle is a rectangle the arm must not touch.
type Obstacle struct {
	ID int `json:"id"`
	Rectangle
	// Selected marks the obstacle being edited; planning ignores it.
	Selected bool `json:"selected"`
}

// NewObstacle returns an obstacle with a normalized rectangle.
func NewObstacle(id int, position, size Point) Obstacle {
	return Obstacle{ID: id, Rectangle: NewRectangle(position, size)}
}

// Move translates the obstacle by delta.
func (o *Obstacle) Move(delta Point) {
	o.Position = o.Position.Add(delta)
}

// Resize sets the size measured from the current position. Negative extents
// flip the rectangle around its position.
func (o *Obstacle) Resize(width, height float64) {
	o.Rectangle = Rectangle{Position: o.Position, Size: Point{X: width, Y: height}}.Normalize()
}

// Rectangles returns the rectangles of obstacles, in order.
func Rectangles(obstacles []Obstacle) []Rectangle {
	rects := make([]Rectangle, len(obstacles))
	for i, o := range obstacles {
		rects[i] = o.Rectangle.Normalize()
	}
	return rects
}
