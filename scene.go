package main

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"arm-planner/planner"
)

var (
	errNoArm            = errors.New("arm not defined. POST /arm first")
	errNoPlan           = errors.New("no path planned")
	errObstacleNotFound = errors.New("obstacle not found")
)

// Scene is everything the user has placed: the arm, where its end effector
// is, where it should go, and the obstacles. Any edit discards the stored plan.
type Scene struct {
	mu sync.RWMutex

	arm         *planner.Arm
	current     planner.Point
	destination planner.Point
	obstacles   []planner.Obstacle
	nextID      int

	plan *planner.Plan
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// SceneState is a read-only copy of a scene.
type SceneState struct {
	Arm         *planner.Arm       `json:"arm,omitempty"`
	MinReach    float64            `json:"minReach,omitempty"`
	MaxReach    float64            `json:"maxReach,omitempty"`
	Current     planner.Point      `json:"current"`
	Destination planner.Point      `json:"destination"`
	Obstacles   []planner.Obstacle `json:"obstacles"`
	HasPath     bool               `json:"hasPath"`
}

// State returns a copy of the scene.
func (s *Scene) State() SceneState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SceneState{
		Current:     s.current,
		Destination: s.destination,
		Obstacles:   s.obstaclesLocked(),
		HasPath:     s.plan != nil && len(s.plan.Path) > 0,
	}
	if s.arm != nil {
		arm := *s.arm
		state.Arm = &arm
		state.MinReach = arm.MinReach()
		state.MaxReach = arm.MaxReach()
	}
	return state
}

// SetArm defines the arm from the placements of its base, joint and end.
// The end placement becomes both the current and the destination position.
func (s *Scene) SetArm(base, joint, end planner.Point) (planner.Arm, error) {
	arm, err := planner.NewArm(base, joint, end)
	if err != nil {
		return planner.Arm{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.arm = &arm
	s.current = end
	s.destination = end
	s.plan = nil
	return arm, nil
}

// Reach moves the end effector to position if both branches can reach it.
func (s *Scene) Reach(position planner.Point) (down, up planner.Pose, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.arm == nil {
		return planner.Pose{}, planner.Pose{}, errNoArm
	}
	down, up, err = s.arm.Reach(position)
	if err != nil {
		return planner.Pose{}, planner.Pose{}, err
	}
	s.current = position
	s.plan = nil
	return down, up, nil
}

// Reset sends the destination back to the current position and drops the plan.
func (s *Scene) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destination = s.current
	s.plan = nil
}

// Obstacles returns a copy of the obstacle list.
func (s *Scene) Obstacles() []planner.Obstacle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obstaclesLocked()
}

func (s *Scene) obstaclesLocked() []planner.Obstacle {
	out := make([]planner.Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// AddObstacle places a new obstacle and returns it.
func (s *Scene) AddObstacle(position, size planner.Point) planner.Obstacle {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := planner.NewObstacle(s.nextID, position, size)
	s.nextID++
	s.obstacles = append(s.obstacles, o)
	s.plan = nil
	return o
}

// AddObstacles appends obstacles, renumbering them after the existing ones.
func (s *Scene) AddObstacles(obstacles []planner.Obstacle) []planner.Obstacle {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := lo.Map(obstacles, func(o planner.Obstacle, i int) planner.Obstacle {
		o.ID = s.nextID + i
		o.Selected = false
		return o
	})
	s.nextID += len(added)
	s.obstacles = append(s.obstacles, added...)
	s.plan = nil
	return added
}

// UpdateObstacle applies edit to the obstacle with the given ID.
func (s *Scene) UpdateObstacle(id int, edit func(*planner.Obstacle)) (planner.Obstacle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, ok := lo.FindIndexOf(s.obstacles, func(o planner.Obstacle) bool { return o.ID == id })
	if !ok {
		return planner.Obstacle{}, errors.Wrapf(errObstacleNotFound, "id %d", id)
	}
	edit(&s.obstacles[i])
	s.plan = nil
	return s.obstacles[i], nil
}

// SelectObstacle marks one obstacle as selected and clears the others.
func (s *Scene) SelectObstacle(id int) (planner.Obstacle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !lo.ContainsBy(s.obstacles, func(o planner.Obstacle) bool { return o.ID == id }) {
		return planner.Obstacle{}, errors.Wrapf(errObstacleNotFound, "id %d", id)
	}
	var selected planner.Obstacle
	for i := range s.obstacles {
		s.obstacles[i].Selected = s.obstacles[i].ID == id
		if s.obstacles[i].Selected {
			selected = s.obstacles[i]
		}
	}
	return selected, nil
}

// DeleteObstacle removes the obstacle with the given ID.
func (s *Scene) DeleteObstacle(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := lo.Reject(s.obstacles, func(o planner.Obstacle, _ int) bool { return o.ID == id })
	if len(remaining) == len(s.obstacles) {
		return errors.Wrapf(errObstacleNotFound, "id %d", id)
	}
	s.obstacles = remaining
	s.plan = nil
	return nil
}

// Plan sets the destination and plans towards it. The scene stays locked for
// the whole run so obstacles cannot change underneath the planner. A failed
// plan is stored too, so its configuration space can still be drawn.
func (s *Scene) Plan(p *planner.Planner, destination planner.Point) (*planner.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.arm == nil {
		return nil, errNoArm
	}
	s.destination = destination
	s.plan = nil

	plan, err := p.Plan(planner.Request{
		Arm:         *s.arm,
		Obstacles:   s.obstaclesLocked(),
		Current:     s.current,
		Destination: destination,
	})
	s.plan = plan
	return plan, err
}

// LastPlan returns the stored plan and the arm it was made for.
func (s *Scene) LastPlan() (*planner.Plan, planner.Arm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.arm == nil {
		return nil, planner.Arm{}, errNoArm
	}
	if s.plan == nil {
		return nil, *s.arm, errNoPlan
	}
	return s.plan, *s.arm, nil
}

// Path returns the stored path and the arm, or errNoPlan.
func (s *Scene) Path() (planner.Path, planner.Arm, error) {
	plan, arm, err := s.LastPlan()
	if err != nil {
		return nil, arm, err
	}
	if len(plan.Path) == 0 {
		return nil, arm, errNoPlan
	}
	return plan.Path, arm, nil
}
