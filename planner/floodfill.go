package planner

import (
	"github.com/pkg/errors"
)

// DistanceField is an OccupancySpace labelled by one flood fill run.
type DistanceField struct {
	*OccupancySpace
	Start       Configuration
	Destination Configuration
	// Reached is false when the fill exhausted the free region first.
	Reached bool
	// Expanded counts the cells that received a label.
	Expanded int
}

// Distance returns the number of grid steps from the start to c, or -1 when
// c was not reached.
func (f *DistanceField) Distance(c Configuration) int {
	if c == f.Start {
		return 0
	}
	if v := f.At(c); v > 0 {
		return v
	}
	return -1
}

// FloodFill runs a breadth-first search from start over a copy of space. The
// start cell is the seed and keeps its value; its neighbours get label 1,
// theirs label 2, and so on. The fill stops as soon as destination is
// labelled. It returns ErrPathNotFound, together with the partial field, when
// the destination cannot be reached.
func FloodFill(space *OccupancySpace, start, destination Configuration) (*DistanceField, error) {
	field := &DistanceField{
		OccupancySpace: space.Clone(),
		Start:          start,
		Destination:    destination,
	}

	if field.IsBlocked(start) {
		return field, errors.Wrapf(ErrPathNotFound, "start %v is blocked", start)
	}
	if field.IsBlocked(destination) {
		return field, errors.Wrapf(ErrPathNotFound, "destination %v is blocked", destination)
	}
	if start == destination {
		field.Reached = true
		return field, nil
	}

	frontier := []Configuration{start}
	for label := 1; len(frontier) > 0; label++ {
		next := make([]Configuration, 0, len(frontier)*2)
		for _, current := range frontier {
			for _, n := range current.Neighbors() {
				if n == start || field.At(n) != Free {
					continue
				}
				field.Set(n, label)
				field.Expanded++
				if n == destination {
					field.Reached = true
					return field, nil
				}
				next = append(next, n)
			}
		}
		frontier = next
	}

	return field, errors.Wrapf(ErrPathNotFound, "destination %v unreachable from %v", destination, start)
}
