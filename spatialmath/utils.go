package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/tek2222/jsrob/utils"
)

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions
// of opposite signs represent the same rotation and compare as equal.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	if quaternionElementsAlmostEqual(a, b, tol) {
		return true
	}
	return quaternionElementsAlmostEqual(a, Flip(b), tol)
}

func quaternionElementsAlmostEqual(a, b quat.Number, tol float64) bool {
	return utils.Float64AlmostEqual(a.Real, b.Real, tol) &&
		utils.Float64AlmostEqual(a.Imag, b.Imag, tol) &&
		utils.Float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		utils.Float64AlmostEqual(a.Kmag, b.Kmag, tol)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences
// are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
