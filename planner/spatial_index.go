package planner

import (
	"github.com/dhconnelly/rtreego"
)

// boundsPadding gives zero-width rectangles and segments a valid R-tree extent.
const boundsPadding = 1e-9

// obstacleEntry wraps a rectangle for R-tree storage
type obstacleEntry struct {
	rect Rectangle
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers which obstacles may touch a segment.
type SpatialIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewSpatialIndex creates a new spatial index
func NewSpatialIndex(rects []Rectangle) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	size := 0
	for _, rect := range rects {
		bbox, err := boundingRect(rect)
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{rect: rect, bbox: bbox})
		size++
	}

	return &SpatialIndex{tree: tree, size: size}
}

// Len returns the number of indexed rectangles.
func (si *SpatialIndex) Len() int {
	return si.size
}

// QuerySegment returns rectangles whose bounds overlap the segment's bounds.
// The result is a superset of the rectangles the segment intersects.
func (si *SpatialIndex) QuerySegment(p1, p2 Point) []Rectangle {
	bbox, err := boundingRect(SegmentBounds(p1, p2))
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(bbox)
	rects := make([]Rectangle, 0, len(results))
	for _, item := range results {
		rects = append(rects, item.(*obstacleEntry).rect)
	}
	return rects
}

// SegmentCollides reports whether the segment intersects any indexed rectangle.
func (si *SpatialIndex) SegmentCollides(p1, p2 Point) bool {
	for _, rect := range si.QuerySegment(p1, p2) {
		if SegmentIntersectsRectangle(p1, p2, rect) {
			return true
		}
	}
	return false
}

// boundingRect converts a rectangle to a padded R-tree rectangle.
func boundingRect(rect Rectangle) (rtreego.Rect, error) {
	lo, hi := rect.Min(), rect.Max()
	return rtreego.NewRect(
		rtreego.Point{lo.X - boundsPadding, lo.Y - boundsPadding},
		[]float64{hi.X - lo.X + 2*boundsPadding, hi.Y - lo.Y + 2*boundsPadding},
	)
}
