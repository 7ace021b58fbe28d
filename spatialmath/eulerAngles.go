package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles used to represent the rotation of an object in 3D Euclidean space.
// The rotations are applied intrinsically: first Roll about the X axis, then Pitch about the
// rotated Y axis, then Yaw about the twice-rotated Z axis. This is the "XYZ" convention used by
// the origin elements of robot description files, and it must not be changed, as joint origin
// semantics depend on it.
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // rotation about the X axis, radians
	Pitch float64 `json:"pitch"` // rotation about the Y axis, radians
	Yaw   float64 `json:"yaw"`   // rotation about the Z axis, radians
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{Roll: 0, Pitch: 0, Yaw: 0}
}

// EulerAngles returns orientation in Euler angle representation.
func (ea *EulerAngles) EulerAngles() *EulerAngles {
	return ea
}

// Quaternion returns the orientation in quaternion representation, composing the three
// rotations in intrinsic X, Y, Z order.
func (ea *EulerAngles) Quaternion() quat.Number {
	qx := quat.Number{Real: math.Cos(ea.Roll / 2), Imag: math.Sin(ea.Roll / 2)}
	qy := quat.Number{Real: math.Cos(ea.Pitch / 2), Jmag: math.Sin(ea.Pitch / 2)}
	qz := quat.Number{Real: math.Cos(ea.Yaw / 2), Kmag: math.Sin(ea.Yaw / 2)}
	return quat.Mul(qx, quat.Mul(qy, qz))
}

// AxisAngles returns the orientation in axis angle representation.
func (ea *EulerAngles) AxisAngles() *R4AA {
	return QuatToR4AA(ea.Quaternion())
}
