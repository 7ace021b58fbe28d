package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/tek2222/jsrob/spatialmath"
)

// DefaultRotationWeight scales the rotational term of the combined pose cost. The positional
// weight is fixed at 1; position error dominates.
const DefaultRotationWeight = 0.5

// Metric is a function which scores a pose. Lower is better. The pose search uses metrics to
// converge on a goal pose.
type Metric func(spatialmath.Pose) float64

// PositionCost returns the euclidean distance between two positions.
func PositionCost(a, b r3.Vector) float64 {
	return a.Distance(b)
}

// RotationCost returns the angular distance in radians between two orientations. The quaternion
// dot product is taken in absolute value first, so that antipodal quaternion representations of
// the same rotation cost zero rather than pi.
func RotationCost(a, b spatialmath.Orientation) float64 {
	qa, qb := a.Quaternion(), b.Quaternion()
	dot := math.Abs(qa.Real*qb.Real + qa.Imag*qb.Imag + qa.Jmag*qb.Jmag + qa.Kmag*qb.Kmag)
	acosInput := 2*dot*dot - 1

	// Account for floating point issues
	if acosInput > 1.0 {
		acosInput = 1.0
	}
	if acosInput < -1.0 {
		acosInput = -1.0
	}
	return math.Acos(acosInput)
}

// WeightedCost returns the combined scalar cost of a candidate pose against a target:
// positional distance plus rotationWeight times the angular distance.
func WeightedCost(candidate, target spatialmath.Pose, rotationWeight float64) float64 {
	return PositionCost(candidate.Point(), target.Point()) +
		rotationWeight*RotationCost(candidate.Orientation(), target.Orientation())
}

// NewPoseCostMetric returns a metric scoring poses against the given target. A nil target yields
// a metric that is infinite everywhere, so no candidate is ever accepted while no target is set.
func NewPoseCostMetric(target spatialmath.Pose, rotationWeight float64) Metric {
	if target == nil {
		return func(spatialmath.Pose) float64 { return math.Inf(1) }
	}
	return func(candidate spatialmath.Pose) float64 {
		return WeightedCost(candidate, target, rotationWeight)
	}
}
