package planner

import (
	"slices"

	"github.com/pkg/errors"
)

// Path is a sequence of adjacent configurations from start to destination.
type Path []Configuration

// ReconstructPath walks field backwards from its destination, each step taking
// the first neighbour whose label is one lower, until the start is reached.
// The field must come from a single successful FloodFill.
func ReconstructPath(field *DistanceField) (Path, error) {
	if !field.Reached {
		return nil, errors.Wrapf(ErrPathNotFound, "destination %v was not reached", field.Destination)
	}

	current := field.Destination
	label := field.Distance(current)
	path := make(Path, 0, label+1)
	path = append(path, current)

	for current != field.Start {
		next, ok := field.previous(current, label)
		if !ok {
			return nil, errors.Errorf("distance field broken at %v (label %d)", current, label)
		}
		path = append(path, next)
		current = next
		label--
	}

	slices.Reverse(path)
	return path, nil
}

// previous returns the first neighbour of c that is one step closer to the start.
func (f *DistanceField) previous(c Configuration, label int) (Configuration, bool) {
	for _, n := range c.Neighbors() {
		if label == 1 {
			if n == f.Start {
				return n, true
			}
			continue
		}
		if f.At(n) == label-1 {
			return n, true
		}
	}
	return Configuration{}, false
}

// FindPath floods space from start and reconstructs the shortest path to
// destination. It returns ErrPathNotFound when no path exists.
func FindPath(space *OccupancySpace, start, destination Configuration) (Path, *DistanceField, error) {
	field, err := FloodFill(space, start, destination)
	if err != nil {
		return nil, field, err
	}
	path, err := ReconstructPath(field)
	if err != nil {
		return nil, field, err
	}
	return path, field, nil
}

// Steps returns the number of moves between the first and last configuration.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Poses runs forward kinematics over every configuration of the path.
func (p Path) Poses(arm Arm) []Pose {
	poses := make([]Pose, len(p))
	for i, c := range p {
		poses[i] = arm.Forward(c.Angles())
	}
	return poses
}
