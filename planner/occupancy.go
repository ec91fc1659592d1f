package planner

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GridSize is the number of whole degrees along each axis of the grid.
const GridSize = 360

// Cell values of an OccupancySpace below 1.
const (
	Free    = 0
	Blocked = -1
)

// Configuration is one cell of the planning grid, in whole degrees.
type Configuration struct {
	Shoulder int `json:"shoulder"`
	Elbow    int `json:"elbow"`
}

// wrap maps any integer degree into [0, GridSize).
func wrap(degrees int) int {
	return ((degrees % GridSize) + GridSize) % GridSize
}

// Neighbors returns the four toroidal neighbours in search order:
// shoulder+1, elbow+1, shoulder-1, elbow-1.
func (c Configuration) Neighbors() [4]Configuration {
	return [4]Configuration{
		{Shoulder: wrap(c.Shoulder + 1), Elbow: c.Elbow},
		{Shoulder: c.Shoulder, Elbow: wrap(c.Elbow + 1)},
		{Shoulder: wrap(c.Shoulder - 1), Elbow: c.Elbow},
		{Shoulder: c.Shoulder, Elbow: wrap(c.Elbow - 1)},
	}
}

// OccupancySpace is the discretized configuration space. Cells hold Free,
// Blocked, or a flood fill distance label.
type OccupancySpace struct {
	cells []int
}

// NewOccupancySpace returns a grid with every cell free.
func NewOccupancySpace() *OccupancySpace {
	return &OccupancySpace{cells: make([]int, GridSize*GridSize)}
}

func index(c Configuration) int {
	return wrap(c.Shoulder)*GridSize + wrap(c.Elbow)
}

// At returns the value of a cell.
func (s *OccupancySpace) At(c Configuration) int {
	return s.cells[index(c)]
}

// Set overwrites the value of a cell.
func (s *OccupancySpace) Set(c Configuration, value int) {
	s.cells[index(c)] = value
}

// IsBlocked reports whether the arm collides in configuration c.
func (s *OccupancySpace) IsBlocked(c Configuration) bool {
	return s.At(c) == Blocked
}

// Clone returns an independent copy.
func (s *OccupancySpace) Clone() *OccupancySpace {
	cells := make([]int, len(s.cells))
	copy(cells, s.cells)
	return &OccupancySpace{cells: cells}
}

// BlockedCount returns the number of blocked cells.
func (s *OccupancySpace) BlockedCount() int {
	n := 0
	for _, v := range s.cells {
		if v == Blocked {
			n++
		}
	}
	return n
}

// BuildOptions tunes BuildOccupancySpace. The zero value is usable.
type BuildOptions struct {
	// Workers bounds the number of shoulder rows swept at once. Zero means GOMAXPROCS.
	Workers int
	Logger  *zap.SugaredLogger
}

func (o BuildOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o BuildOptions) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop().Sugar()
}

// BuildOccupancySpace marks every configuration in which either link of the
// arm touches an obstacle. The whole grid is swept before returning.
func BuildOccupancySpace(arm Arm, obstacles []Obstacle, opts BuildOptions) *OccupancySpace {
	logger := opts.logger()
	startTime := time.Now()

	rects := Rectangles(obstacles)
	kept := UniqueRectangles(rects)
	obstacleIndex := NewSpatialIndex(kept)
	logger.Debugf("sweeping configuration space: %d obstacles (%d distinct), %d workers",
		len(rects), len(kept), opts.workers())

	space := NewOccupancySpace()
	if obstacleIndex.Len() == 0 {
		logger.Debugf("no obstacles, configuration space is free")
		return space
	}

	// Rows write disjoint cells, so no locking is needed.
	var g errgroup.Group
	g.SetLimit(opts.workers())
	for shoulder := 0; shoulder < GridSize; shoulder++ {
		g.Go(func() error {
			sweepRow(space, arm, obstacleIndex, shoulder)
			return nil
		})
	}
	_ = g.Wait()

	logger.Infof("configuration space built: %d blocked cells in %s",
		space.BlockedCount(), time.Since(startTime))
	return space
}

func sweepRow(space *OccupancySpace, arm Arm, obstacleIndex *SpatialIndex, shoulder int) {
	alpha := Radians(shoulder)
	joint := arm.Joint(alpha)
	firstLinkBlocked := obstacleIndex.SegmentCollides(arm.Base, joint)

	for elbow := 0; elbow < GridSize; elbow++ {
		c := Configuration{Shoulder: shoulder, Elbow: elbow}
		if firstLinkBlocked {
			space.Set(c, Blocked)
			continue
		}
		end := arm.End(joint, alpha, Radians(elbow))
		if obstacleIndex.SegmentCollides(joint, end) {
			space.Set(c, Blocked)
		}
	}
}

// Collides reports whether the arm touches any of the rectangles in the given
// configuration. It tests every rectangle without an index.
func Collides(arm Arm, rects []Rectangle, c Configuration) bool {
	angles := c.Angles()
	joint := arm.Joint(angles.Alpha)
	end := arm.End(joint, angles.Alpha, angles.Beta)
	for _, rect := range rects {
		if SegmentIntersectsRectangle(arm.Base, joint, rect) ||
			SegmentIntersectsRectangle(joint, end, rect) {
			return true
		}
	}
	return false
}
