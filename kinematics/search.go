package kinematics

import (
	"math"
	"math/rand"

	"github.com/tek2222/jsrob/spatialmath"
	"github.com/tek2222/jsrob/utils"
)

// DefaultPerturbationDegrees is the angular range, in degrees, within which each movable joint is
// perturbed per search step when the caller has not configured one.
const DefaultPerturbationDegrees = 5.0

// StepResult reports the outcome of a single search step. Configuration is the active assignment
// after the step: the accepted candidate when the step improved, the restored previous assignment
// otherwise. It is a copy and safe to hold on to.
type StepResult struct {
	Improved      bool
	Cost          float64
	Configuration Configuration
}

// Solver finds joint configurations bringing a chain's end effector toward a target pose by
// randomized local search: perturb every movable joint within a range, keep the result when it
// scores better than the best seen so far, restore the previous assignment when it does not.
//
// A Solver is either idle or searching. Start begins a search and Stop ends it, leaving the best
// found configuration active. The caller drives the search by invoking Step, typically once per
// animation frame; stopping early is simply ceasing to call it. A Solver is not safe for
// concurrent use.
type Solver struct {
	model       *Model
	chain       Chain
	endEffector string
	rootOffset  spatialmath.Pose

	target  spatialmath.Pose
	current Configuration

	searching bool
	best      Configuration
	bestCost  float64

	perturbation   float64 // radians
	rotationWeight float64

	randSrc *rand.Rand
}

// NewSolver returns a solver over the given model with no end effector selected and default
// search parameters.
func NewSolver(model *Model) *Solver {
	return &Solver{
		model:          model,
		current:        Configuration{},
		bestCost:       math.Inf(1),
		perturbation:   utils.DegToRad(DefaultPerturbationDegrees),
		rotationWeight: DefaultRotationWeight,
		//nolint:gosec
		randSrc: rand.New(rand.NewSource(1)),
	}
}

// Seed reseeds the random source used to draw perturbations, for reproducible searches.
func (s *Solver) Seed(seed int64) {
	//nolint:gosec
	s.randSrc = rand.New(rand.NewSource(seed))
}

// SetEndEffector selects the link whose pose is being controlled and rebuilds the kinematic
// chain. Selecting a root link is valid and yields an empty chain. Any running search is reset.
func (s *Solver) SetEndEffector(linkName string) error {
	chain, err := s.model.Chain(linkName)
	if err != nil {
		return err
	}
	s.endEffector = linkName
	s.chain = chain
	s.resetBest()
	return nil
}

// EndEffector returns the name of the currently selected end effector link, or an empty string if
// none has been selected.
func (s *Solver) EndEffector() string {
	return s.endEffector
}

// SetRootOffset places the whole model in world space. It may be nil.
func (s *Solver) SetRootOffset(offset spatialmath.Pose) {
	s.rootOffset = offset
}

// SetTarget replaces the target pose. A nil target is valid; cost evaluates to +Inf and no
// candidate is ever accepted until a target is set. The running best is reset so a search under
// way converges on the new target rather than the old one.
func (s *Solver) SetTarget(target spatialmath.Pose) {
	s.target = target
	s.resetBest()
}

// SetPerturbationDegrees configures the angular range, in degrees, of per-joint perturbations.
func (s *Solver) SetPerturbationDegrees(degrees float64) {
	s.perturbation = utils.DegToRad(degrees)
}

// SetRotationWeight configures the weight of the rotational term in the pose cost.
func (s *Solver) SetRotationWeight(weight float64) {
	s.rotationWeight = weight
}

// Start transitions the solver from idle to searching, seeding the running best with the current
// configuration.
func (s *Solver) Start() {
	s.searching = true
	s.resetBest()
}

// Stop transitions the solver back to idle and makes the best found configuration the active one.
func (s *Solver) Stop() {
	if !s.searching {
		return
	}
	s.searching = false
	if s.best != nil {
		s.current = s.best.Clone()
	}
}

// Searching reports whether a search is under way.
func (s *Solver) Searching() bool {
	return s.searching
}

func (s *Solver) resetBest() {
	s.best = s.current.Clone()
	s.bestCost = math.Inf(1)
}

// Step runs one iteration of the search: perturb, clamp, evaluate, accept or reject. The active
// configuration only ever reflects the previous assignment or an accepted candidate, never a
// rejected one. How many steps to run, and when, is up to the caller.
func (s *Solver) Step() (StepResult, error) {
	if !s.searching {
		return StepResult{}, ErrSolverIdle
	}

	previous := s.current.Clone()
	candidate := previous.Clone()
	for _, joint := range s.chain.MovableJoints() {
		delta := (s.randSrc.Float64()*2 - 1) * s.perturbation
		candidate[joint.name] = joint.ClampToLimits(previous[joint.name] + delta)
	}

	metric := NewPoseCostMetric(s.target, s.rotationWeight)
	cost := metric(s.chain.Transform(candidate, s.rootOffset))

	if cost < s.bestCost {
		s.bestCost = cost
		s.best = candidate.Clone()
		s.current = candidate
		return StepResult{Improved: true, Cost: cost, Configuration: candidate.Clone()}, nil
	}

	s.current = previous
	return StepResult{Improved: false, Cost: cost, Configuration: previous.Clone()}, nil
}

// BestCost returns the lowest cost seen since the search started, +Inf before any candidate has
// been accepted.
func (s *Solver) BestCost() float64 {
	return s.bestCost
}

// Best returns a copy of the best configuration found since the search started.
func (s *Solver) Best() Configuration {
	return s.best.Clone()
}

// Current returns a copy of the active configuration.
func (s *Solver) Current() Configuration {
	return s.current.Clone()
}

// Transform evaluates forward kinematics for an arbitrary configuration over the solver's chain
// without touching search state. Useful for previews and validation.
func (s *Solver) Transform(cfg Configuration) spatialmath.Pose {
	return s.chain.Transform(cfg, s.rootOffset)
}

// SetJointPosition directly sets a single joint's value, clamped into its limits, independent of
// the search loop. The value actually applied is returned so callers can detect clamping without
// an error channel.
func (s *Solver) SetJointPosition(jointName string, value float64) (float64, error) {
	joint, err := s.model.Joint(jointName)
	if err != nil {
		return 0, err
	}
	if !joint.jType.Movable() {
		return 0, NewFixedJointError(jointName)
	}
	applied := joint.ClampToLimits(value)
	s.current[jointName] = applied
	return applied, nil
}

// JointPosition returns the active value of a single joint; joints never set report zero.
func (s *Solver) JointPosition(jointName string) float64 {
	return s.current[jointName]
}
