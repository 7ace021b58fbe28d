// Package spatialmath defines spatial mathematical operations.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// Units are the native units of the kinematic description, typically meters and radians.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	q := newDualQuaternionFromRotation(o)
	q.SetTranslation(p)
	return q
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in reference to.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// NewPoseFromOrientation takes in an orientation and returns a Pose with the identity translation.
func NewPoseFromOrientation(o Orientation) Pose {
	return newDualQuaternionFromRotation(o)
}

// NewPoseFromAxisAngle takes in an axis and an angle in radians, and returns the pure rotation
// of that angle about that axis. The axis is normalized before use. A zero axis yields the
// identity pose rather than an error, matching the leniency of the kinematic description format.
func NewPoseFromAxisAngle(axis r3.Vector, theta float64) Pose {
	if axis.Norm() == 0 {
		return newDualQuaternion()
	}
	aa := R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
	return newDualQuaternionFromRotation(&aa)
}

// NewPoseAlongAxis returns the pure translation of the given distance along the normalized axis.
// A zero axis yields the identity pose.
func NewPoseAlongAxis(axis r3.Vector, distance float64) Pose {
	if axis.Norm() == 0 {
		return newDualQuaternion()
	}
	return NewPoseFromPoint(axis.Normalize().Mul(distance))
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// The transform of the second pose is applied on the right of the first, which is the ordering
// used when walking a kinematic chain root to tip.
func Compose(a, b Pose) Pose {
	aq := newDualQuaternionFromPose(a)
	result := &dualQuaternion{aq.Transformation(newDualQuaternionFromPose(b).Number)}

	// Normalization prevents rounding errors from accumulating across long chains.
	if vecLen := quat.Abs(result.Real); vecLen != 1 {
		result.Real = quat.Scale(1/vecLen, result.Real)
	}
	return result
}

// PoseBetween returns the difference between two poses, that is, the pose that when composed with a
// yields b.
func PoseBetween(a, b Pose) Pose {
	aq := newDualQuaternionFromPose(a)
	inv := dualquat.ConjQuat(aq.Number)
	result := &dualQuaternion{dualquat.Mul(inv, newDualQuaternionFromPose(b).Number)}
	if vecLen := quat.Abs(result.Real); vecLen != 1 {
		result.Real = quat.Scale(1/vecLen, result.Real)
	}
	return result
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostCoincident(a, b) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same
// cartesian position.
func PoseAlmostCoincident(a, b Pose) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), 1e-8)
}
