// Package planner plans collision-free motion for a two-link planar arm.
//
// Planning sweeps the 360×360 grid of whole-degree joint angles, marks every
// configuration where the arm touches a rectangular obstacle, floods the free
// cells from the arm's current configuration and walks the resulting distance
// field back from the destination. Both inverse kinematics branches are tried.
package planner

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Request is one planning problem. The obstacles must not change while it runs.
type Request struct {
	Arm         Arm
	Obstacles   []Obstacle
	Current     Point
	Destination Point
}

// Plan is the outcome of a planning request.
type Plan struct {
	Arm   Arm
	Space *OccupancySpace
	// Field is the distance field of the last branch searched.
	Field       *DistanceField
	Branch      Branch
	Start       Configuration
	Destination Configuration
	Path        Path
}

// Planner runs planning requests.
type Planner struct {
	logger *zap.SugaredLogger
	opts   BuildOptions
}

// NewPlanner returns a planner sweeping with the given number of workers.
func NewPlanner(logger *zap.SugaredLogger, workers int) *Planner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Planner{
		logger: logger,
		opts:   BuildOptions{Workers: workers, Logger: logger},
	}
}

// Plan builds the configuration space and searches it for each branch in
// turn. The returned plan carries the space even when no path is found. The
// error then matches ErrPathNotFound together with every branch's own cause,
// such as ErrAngleComputationUndefined.
func (p *Planner) Plan(req Request) (*Plan, error) {
	if err := req.Arm.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	p.logger.Infof("planning from (%.2f, %.2f) to (%.2f, %.2f) around %d obstacles",
		req.Current.X, req.Current.Y, req.Destination.X, req.Destination.Y, len(req.Obstacles))

	plan := &Plan{Arm: req.Arm, Space: BuildOccupancySpace(req.Arm, req.Obstacles, p.opts)}

	var failures error
	for _, branch := range Branches() {
		path, field, err := p.searchBranch(plan.Space, req, branch)
		if field != nil {
			plan.Field = field
		}
		if err != nil {
			p.logger.Infof("%s: %v", branch, err)
			failures = multierr.Append(failures, errors.Wrap(err, branch.String()))
			continue
		}

		plan.Branch = branch
		plan.Path = path
		plan.Start = path[0]
		plan.Destination = path[len(path)-1]
		p.logger.Infof("%s: path found with %d steps (%d cells expanded) in %s",
			branch, path.Steps(), field.Expanded, time.Since(startTime))
		return plan, nil
	}

	p.logger.Infof("no path found in %s", time.Since(startTime))
	return plan, multierr.Append(errors.Wrap(ErrPathNotFound, "all branches failed"), failures)
}

func (p *Planner) searchBranch(space *OccupancySpace, req Request, branch Branch) (Path, *DistanceField, error) {
	current, err := req.Arm.Inverse(req.Current.Sub(req.Arm.Base), branch)
	if err != nil {
		return nil, nil, errors.Wrap(err, "current position")
	}
	destination, err := req.Arm.Inverse(req.Destination.Sub(req.Arm.Base), branch)
	if err != nil {
		return nil, nil, errors.Wrap(err, "destination")
	}

	start, goal := ToConfiguration(current), ToConfiguration(destination)
	p.logger.Debugf("%s: searching %v -> %v", branch, start, goal)
	return FindPath(space, start, goal)
}
