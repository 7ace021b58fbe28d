package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/tek2222/jsrob/spatialmath"
)

func newPlanarSolver(t *testing.T) *Solver {
	t.Helper()
	m, err := NewModel(planarTwoJointConfig())
	test.That(t, err, test.ShouldBeNil)
	solver := NewSolver(m)
	test.That(t, solver.SetEndEffector("tip"), test.ShouldBeNil)
	return solver
}

func TestSolverIdle(t *testing.T) {
	solver := newPlanarSolver(t)
	test.That(t, solver.Searching(), test.ShouldBeFalse)
	_, err := solver.Step()
	test.That(t, err, test.ShouldEqual, ErrSolverIdle)
}

func TestSolverUnknownEndEffector(t *testing.T) {
	m, err := NewModel(planarTwoJointConfig())
	test.That(t, err, test.ShouldBeNil)
	solver := NewSolver(m)
	test.That(t, solver.SetEndEffector("phantom"), test.ShouldNotBeNil)
	test.That(t, solver.EndEffector(), test.ShouldEqual, "")
}

func TestSolverConverges(t *testing.T) {
	solver := newPlanarSolver(t)
	solver.Seed(42)
	solver.SetPerturbationDegrees(10)

	// target reachable: the pose of a known configuration
	goal := solver.Transform(Configuration{"shoulder": 0.9, "elbow": -0.5})
	solver.SetTarget(goal)

	startCost := WeightedCost(solver.Transform(solver.Current()), goal, DefaultRotationWeight)

	solver.Start()
	test.That(t, solver.Searching(), test.ShouldBeTrue)

	improved := 0
	for i := 0; i < 2000; i++ {
		result, err := solver.Step()
		test.That(t, err, test.ShouldBeNil)
		if result.Improved {
			improved++
		}
	}
	solver.Stop()
	test.That(t, solver.Searching(), test.ShouldBeFalse)

	test.That(t, improved, test.ShouldBeGreaterThan, 0)
	test.That(t, solver.BestCost(), test.ShouldBeLessThan, startCost)

	// Stop leaves the best configuration active
	test.That(t, solver.Current(), test.ShouldResemble, solver.Best())
}

func TestSolverBestCostMonotonic(t *testing.T) {
	solver := newPlanarSolver(t)
	solver.Seed(7)
	solver.SetTarget(spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5, Y: 1.2}))
	solver.Start()

	last := math.Inf(1)
	for i := 0; i < 500; i++ {
		_, err := solver.Step()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, solver.BestCost(), test.ShouldBeLessThanOrEqualTo, last)
		last = solver.BestCost()
	}
}

func TestSolverRejectRestoresPrevious(t *testing.T) {
	solver := newPlanarSolver(t)
	solver.Seed(3)
	solver.SetTarget(spatialmath.NewPoseFromPoint(r3.Vector{X: 2}))
	solver.Start()

	for i := 0; i < 200; i++ {
		before := solver.Current()
		result, err := solver.Step()
		test.That(t, err, test.ShouldBeNil)
		if result.Improved {
			// accepted candidates become the active assignment
			test.That(t, solver.Current(), test.ShouldResemble, solver.Best())
		} else {
			// rejected candidates are never visible
			test.That(t, solver.Current(), test.ShouldResemble, before)
		}
	}
}

func TestSolverNoTarget(t *testing.T) {
	solver := newPlanarSolver(t)
	solver.Start()

	for i := 0; i < 5; i++ {
		result, err := solver.Step()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, result.Improved, test.ShouldBeFalse)
		test.That(t, math.IsInf(result.Cost, 1), test.ShouldBeTrue)
	}
	test.That(t, math.IsInf(solver.BestCost(), 1), test.ShouldBeTrue)
}

func TestSolverEmptyChain(t *testing.T) {
	m, err := NewModel(planarTwoJointConfig())
	test.That(t, err, test.ShouldBeNil)
	solver := NewSolver(m)
	test.That(t, solver.SetEndEffector("base"), test.ShouldBeNil)
	solver.SetTarget(spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	solver.Start()

	// no movable joints: a legal no-op search. The constant cost is accepted once as the first
	// best, then never improves.
	first, err := solver.Step()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first.Improved, test.ShouldBeTrue)
	test.That(t, first.Cost, test.ShouldAlmostEqual, 1.0, 1e-8)

	for i := 0; i < 5; i++ {
		result, err := solver.Step()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, result.Improved, test.ShouldBeFalse)
		test.That(t, result.Cost, test.ShouldAlmostEqual, 1.0, 1e-8)
	}
}

func TestSolverRespectsLimits(t *testing.T) {
	cfg := planarTwoJointConfig()
	cfg.Joints[0].Limit = &LimitConfig{Lower: -0.5, Upper: 0.5}
	cfg.Joints[1].Limit = &LimitConfig{Lower: -0.25, Upper: 0.25}
	m, err := NewModel(cfg)
	test.That(t, err, test.ShouldBeNil)

	solver := NewSolver(m)
	test.That(t, solver.SetEndEffector("tip"), test.ShouldBeNil)
	solver.Seed(11)
	solver.SetPerturbationDegrees(45)
	solver.SetTarget(spatialmath.NewPoseFromPoint(r3.Vector{X: -2}))
	solver.Start()

	for i := 0; i < 300; i++ {
		result, err := solver.Step()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, result.Configuration["shoulder"], test.ShouldBeBetweenOrEqual, -0.5, 0.5)
		test.That(t, result.Configuration["elbow"], test.ShouldBeBetweenOrEqual, -0.25, 0.25)
	}
}

func TestSolverJog(t *testing.T) {
	cfg := planarTwoJointConfig()
	cfg.Joints[0].Limit = &LimitConfig{Lower: -math.Pi / 2, Upper: math.Pi / 2}
	m, err := NewModel(cfg)
	test.That(t, err, test.ShouldBeNil)
	solver := NewSolver(m)
	test.That(t, solver.SetEndEffector("tip"), test.ShouldBeNil)

	// in range applies as-is
	applied, err := solver.SetJointPosition("shoulder", 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, applied, test.ShouldEqual, 1.0)
	test.That(t, solver.JointPosition("shoulder"), test.ShouldEqual, 1.0)

	// out of range clamps silently; the applied value is the signal
	applied, err = solver.SetJointPosition("shoulder", 2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, applied, test.ShouldEqual, math.Pi/2)

	applied, err = solver.SetJointPosition("shoulder", -2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, applied, test.ShouldEqual, -math.Pi/2)

	// fixed and unknown joints cannot be jogged
	_, err = solver.SetJointPosition("wrist", 0.5)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = solver.SetJointPosition("phantom", 0.5)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolverTransformDoesNotMutate(t *testing.T) {
	solver := newPlanarSolver(t)
	_, err := solver.SetJointPosition("shoulder", 0.5)
	test.That(t, err, test.ShouldBeNil)
	before := solver.Current()

	solver.Transform(Configuration{"shoulder": -3, "elbow": 3})
	test.That(t, solver.Current(), test.ShouldResemble, before)
}
