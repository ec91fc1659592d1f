package planner

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ikTolerance absorbs rounding noise for targets lying on the reachable annulus.
const ikTolerance = 1e-9

// reachTolerance is how far the two branch solutions may disagree on the end point.
const reachTolerance = 1e-5

// Branch selects one of the two inverse kinematics solutions.
type Branch int

const (
	// ElbowDown is the solution with a negative elbow angle.
	ElbowDown Branch = iota
	// ElbowUp is the solution with a positive elbow angle.
	ElbowUp
)

// Branches returns every branch in the order the planner tries them.
func Branches() []Branch {
	return []Branch{ElbowDown, ElbowUp}
}

func (b Branch) String() string {
	switch b {
	case ElbowDown:
		return "elbow-down"
	case ElbowUp:
		return "elbow-up"
	default:
		return fmt.Sprintf("branch(%d)", int(b))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Angles holds the shoulder angle Alpha and the elbow offset Beta in radians.
// The second link points along Alpha-Beta.
type Angles struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Arm is a two-link planar arm anchored at Base.
type Arm struct {
	Base Point   `json:"base"`
	L1   float64 `json:"l1"`
	L2   float64 `json:"l2"`
}

// NewArm derives the link lengths from the placements of the joint and the
// end effector.
func NewArm(base, joint, end Point) (Arm, error) {
	arm := Arm{Base: base, L1: joint.Distance(base), L2: end.Distance(joint)}
	if err := arm.Validate(); err != nil {
		return Arm{}, err
	}
	return arm, nil
}

// Validate checks that both links have a usable length.
func (a Arm) Validate() error {
	var err error
	if !(a.L1 > 0) || math.IsInf(a.L1, 0) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArm, "first link length %v", a.L1))
	}
	if !(a.L2 > 0) || math.IsInf(a.L2, 0) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArm, "second link length %v", a.L2))
	}
	return err
}

// MinReach is the radius of the hole in the reachable annulus.
func (a Arm) MinReach() float64 {
	return math.Abs(a.L1 - a.L2)
}

// MaxReach is the outer radius of the reachable annulus.
func (a Arm) MaxReach() float64 {
	return a.L1 + a.L2
}

// Joint returns the elbow position for shoulder angle alpha.
func (a Arm) Joint(alpha float64) Point {
	return Point{
		X: a.Base.X + a.L1*math.Cos(alpha),
		Y: a.Base.Y + a.L1*math.Sin(alpha),
	}
}

// End returns the end effector position given the elbow position.
func (a Arm) End(joint Point, alpha, beta float64) Point {
	return Point{
		X: joint.X + a.L2*math.Cos(alpha-beta),
		Y: joint.Y + a.L2*math.Sin(alpha-beta),
	}
}

// Forward returns the pose of the arm for the given angles.
func (a Arm) Forward(angles Angles) Pose {
	joint := a.Joint(angles.Alpha)
	return Pose{
		Angles: angles,
		Base:   a.Base,
		Joint:  joint,
		End:    a.End(joint, angles.Alpha, angles.Beta),
	}
}

// Inverse solves for the angles that put the end effector at target, given
// relative to the base. It returns ErrAngleComputationUndefined when the
// target is outside the reachable annulus.
func (a Arm) Inverse(target Point, branch Branch) (Angles, error) {
	x, y := target.X, target.Y
	squared := x*x + y*y
	if squared == 0 {
		return Angles{}, errors.Wrap(ErrAngleComputationUndefined, "target at the base")
	}

	cosBeta := (squared - a.L1*a.L1 - a.L2*a.L2) / (2 * a.L1 * a.L2)
	cosBeta, ok := clampUnit(cosBeta)
	if !ok {
		return Angles{}, errors.Wrapf(ErrAngleComputationUndefined,
			"target (%.3f, %.3f) outside reach [%.3f, %.3f]", x, y, a.MinReach(), a.MaxReach())
	}

	beta := math.Acos(cosBeta)
	if branch == ElbowDown {
		beta = -beta
	}

	// atan2 rather than asin(L2·sinβ/d): the latter folds back when L2 > L1.
	alpha := math.Atan2(y, x) + math.Atan2(a.L2*math.Sin(beta), a.L1+a.L2*math.Cos(beta))

	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return Angles{}, errors.Wrapf(ErrAngleComputationUndefined, "target (%.3f, %.3f)", x, y)
	}
	return Angles{Alpha: alpha, Beta: beta}, nil
}

// Reach solves both branches for a world position and checks they agree on
// where the end effector lands.
func (a Arm) Reach(position Point) (down, up Pose, err error) {
	target := position.Sub(a.Base)

	downAngles, err := a.Inverse(target, ElbowDown)
	if err != nil {
		return Pose{}, Pose{}, err
	}
	upAngles, err := a.Inverse(target, ElbowUp)
	if err != nil {
		return Pose{}, Pose{}, err
	}

	down, up = a.Forward(downAngles), a.Forward(upAngles)
	if down.End.Distance(up.End) > reachTolerance {
		return Pose{}, Pose{}, errors.Wrapf(ErrAngleComputationUndefined,
			"branches disagree at (%.3f, %.3f)", position.X, position.Y)
	}
	return down, up, nil
}

// clampUnit pulls values within ikTolerance of [-1, 1] back inside and
// reports whether the value is usable as a cosine.
func clampUnit(v float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return v, false
	case v > 1 && v <= 1+ikTolerance:
		return 1, true
	case v < -1 && v >= -1-ikTolerance:
		return -1, true
	}
	return v, v >= -1 && v <= 1
}

// Radians converts whole degrees to radians.
func Radians(degrees int) float64 {
	return float64(degrees) * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ToConfiguration rounds angles onto the planning grid.
func ToConfiguration(angles Angles) Configuration {
	return Configuration{
		Shoulder: wrap(int(math.Round(Degrees(angles.Alpha)))),
		Elbow:    wrap(int(math.Round(Degrees(angles.Beta)))),
	}
}

// Angles returns the configuration in radians.
func (c Configuration) Angles() Angles {
	return Angles{Alpha: Radians(c.Shoulder), Beta: Radians(c.Elbow)}
}
