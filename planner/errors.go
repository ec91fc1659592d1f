package planner

import "github.com/pkg/errors"

var (
	// ErrAngleComputationUndefined is returned when inverse kinematics has no
	// real solution for a target.
	ErrAngleComputationUndefined = errors.New("angle computation undefined: target out of reach")

	// ErrPathNotFound is returned when the flood fill cannot reach the destination.
	ErrPathNotFound = errors.New("no collision-free path found")

	// ErrInvalidArm is returned for arms with degenerate links.
	ErrInvalidArm = errors.New("invalid arm geometry")
)
