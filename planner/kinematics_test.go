package planner

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestNewArm(t *testing.T) {
	arm, err := NewArm(Point{10, 5}, Point{11, 5}, Point{14, 5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, arm.L1, test.ShouldEqual, 1.)
	test.That(t, arm.L2, test.ShouldEqual, 3.)
	test.That(t, arm.MinReach(), test.ShouldEqual, 2.)
	test.That(t, arm.MaxReach(), test.ShouldEqual, 4.)

	_, err = NewArm(Point{10, 5}, Point{10, 5}, Point{14, 5})
	test.That(t, errors.Is(err, ErrInvalidArm), test.ShouldBeTrue)

	_, err = NewArm(Point{0, 0}, Point{0, 0}, Point{0, 0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "first link")
	test.That(t, err.Error(), test.ShouldContainSubstring, "second link")
}

func TestForwardKinematics(t *testing.T) {
	arm := Arm{Base: Point{1, 1}, L1: 2, L2: 1}

	pose := arm.Forward(Angles{Alpha: math.Pi / 2, Beta: math.Pi / 2})
	test.That(t, pose.Base, test.ShouldResemble, Point{1, 1})
	test.That(t, pose.Joint.X, test.ShouldAlmostEqual, 1.)
	test.That(t, pose.Joint.Y, test.ShouldAlmostEqual, 3.)
	// the second link points along alpha-beta = 0
	test.That(t, pose.End.X, test.ShouldAlmostEqual, 2.)
	test.That(t, pose.End.Y, test.ShouldAlmostEqual, 3.)
}

func TestInverseRoundTrip(t *testing.T) {
	arms := []Arm{
		{L1: 5, L2: 5},
		{L1: 5, L2: 3},
		{L1: 3, L2: 5},
		{Base: Point{-2, 7}, L1: 120, L2: 80},
	}
	for _, arm := range arms {
		for _, branch := range Branches() {
			lo, hi := arm.MinReach(), arm.MaxReach()
			for r := lo + (hi-lo)*0.01; r <= hi; r += (hi - lo) / 7 {
				for theta := -math.Pi; theta < math.Pi; theta += math.Pi / 11 {
					target := Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}

					angles, err := arm.Inverse(target, branch)
					test.That(t, err, test.ShouldBeNil)

					end := arm.Forward(angles).End
					test.That(t, end.Distance(arm.Base.Add(target)), test.ShouldBeLessThan, 1e-5)
				}
			}
		}
	}
}

func TestInverseOnAnnulusBoundary(t *testing.T) {
	arm := Arm{L1: 5, L2: 3}
	for _, target := range []Point{{8, 0}, {0, -8}, {2, 0}, {0, 2}} {
		for _, branch := range Branches() {
			angles, err := arm.Inverse(target, branch)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, arm.Forward(angles).End.Distance(target), test.ShouldBeLessThan, 1e-5)
		}
	}
}

func TestInverseUnreachable(t *testing.T) {
	arm := Arm{L1: 5, L2: 3}
	for _, target := range []Point{{8.01, 0}, {0, 20}, {1.99, 0}, {0, 0}, {-1, 1}} {
		for _, branch := range Branches() {
			angles, err := arm.Inverse(target, branch)
			test.That(t, errors.Is(err, ErrAngleComputationUndefined), test.ShouldBeTrue)
			test.That(t, angles, test.ShouldResemble, Angles{})
		}
	}
}

func TestInverseAtBase(t *testing.T) {
	// equal links fold back onto the base, but the shoulder angle is undefined there
	arm := Arm{L1: 4, L2: 4}
	for _, branch := range Branches() {
		_, err := arm.Inverse(Point{0, 0}, branch)
		test.That(t, errors.Is(err, ErrAngleComputationUndefined), test.ShouldBeTrue)
	}
	_, err := arm.Inverse(Point{0, 1e-3}, ElbowUp)
	test.That(t, err, test.ShouldBeNil)
}

func TestInverseBranches(t *testing.T) {
	arm := Arm{L1: 5, L2: 5}

	down, err := arm.Inverse(Point{5, 5}, ElbowDown)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, down.Beta, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, down.Alpha, test.ShouldAlmostEqual, 0.)

	up, err := arm.Inverse(Point{5, 5}, ElbowUp)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, up.Beta, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, up.Alpha, test.ShouldAlmostEqual, math.Pi/2)
}

func TestStretchedArm(t *testing.T) {
	arm := Arm{L1: 5, L2: 5}

	angles, err := arm.Inverse(Point{10, 0}, ElbowDown)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angles.Alpha, test.ShouldEqual, 0.)
	test.That(t, angles.Beta, test.ShouldAlmostEqual, 0.)

	end := arm.Forward(angles).End
	test.That(t, end.X, test.ShouldEqual, 10.)
	test.That(t, end.Y, test.ShouldEqual, 0.)
	test.That(t, ToConfiguration(angles), test.ShouldResemble, Configuration{0, 0})
}

func TestReach(t *testing.T) {
	arm := Arm{Base: Point{10, 10}, L1: 5, L2: 5}

	down, up, err := arm.Reach(Point{15, 15})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, down.End.Distance(Point{15, 15}), test.ShouldBeLessThan, 1e-9)
	test.That(t, up.End.Distance(Point{15, 15}), test.ShouldBeLessThan, 1e-9)
	test.That(t, down.Joint.Distance(up.Joint), test.ShouldBeGreaterThan, 1.)

	_, _, err = arm.Reach(Point{30, 10})
	test.That(t, errors.Is(err, ErrAngleComputationUndefined), test.ShouldBeTrue)
}

func TestToConfiguration(t *testing.T) {
	test.That(t, ToConfiguration(Angles{Alpha: -math.Pi / 2, Beta: -math.Pi / 4}),
		test.ShouldResemble, Configuration{Shoulder: 270, Elbow: 315})
	test.That(t, ToConfiguration(Angles{Alpha: 2 * math.Pi, Beta: 359.6 * math.Pi / 180}),
		test.ShouldResemble, Configuration{Shoulder: 0, Elbow: 0})
	test.That(t, ToConfiguration(Configuration{Shoulder: 123, Elbow: 7}.Angles()),
		test.ShouldResemble, Configuration{Shoulder: 123, Elbow: 7})
}

func TestBranchString(t *testing.T) {
	test.That(t, ElbowDown.String(), test.ShouldEqual, "elbow-down")
	test.That(t, ElbowUp.String(), test.ShouldEqual, "elbow-up")
	test.That(t, Branches(), test.ShouldResemble, []Branch{ElbowDown, ElbowUp})
}
