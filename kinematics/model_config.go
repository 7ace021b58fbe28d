package kinematics

import (
	"github.com/golang/geo/r3"

	"github.com/tek2222/jsrob/spatialmath"
)

// ModelConfig represents the parsed contents of a robot description: a flat set of link and joint
// records already extracted from the source format. It is the handoff point between parsers such
// as the urdf package and the kinematic model itself.
type ModelConfig struct {
	Name   string        `json:"name"`
	Links  []LinkConfig  `json:"links"`
	Joints []JointConfig `json:"joints"`
}

// LinkConfig describes a single rigid body of the robot.
type LinkConfig struct {
	ID     string        `json:"id"`
	Visual *VisualConfig `json:"visual,omitempty"`
}

// VisualConfig carries the visual element of a link: a geometry reference, opaque to the
// kinematics, and the local origin transform the geometry is nested under.
type VisualConfig struct {
	Origin *OriginConfig `json:"origin,omitempty"`
	Mesh   string        `json:"mesh,omitempty"`
}

// JointConfig describes a connection between a parent and child link. Origin, axis and limit are
// all optional; missing values fall back to the identity transform, the X axis, and an unbounded
// range respectively.
type JointConfig struct {
	ID     string        `json:"id"`
	Type   JointType     `json:"type"`
	Parent string        `json:"parent"`
	Child  string        `json:"child"`
	Origin *OriginConfig `json:"origin,omitempty"`
	Axis   *AxisConfig   `json:"axis,omitempty"`
	Limit  *LimitConfig  `json:"limit,omitempty"`
}

// OriginConfig is a fixed rigid transform given as a translation plus roll-pitch-yaw angles in
// radians, applied in intrinsic X, Y, Z order.
type OriginConfig struct {
	XYZ r3.Vector  `json:"xyz"`
	RPY [3]float64 `json:"rpy"`
}

// Pose converts the origin into a rigid transform. A nil origin is the identity.
func (o *OriginConfig) Pose() spatialmath.Pose {
	if o == nil {
		return spatialmath.NewZeroPose()
	}
	return spatialmath.NewPose(o.XYZ, &spatialmath.EulerAngles{Roll: o.RPY[0], Pitch: o.RPY[1], Yaw: o.RPY[2]})
}

// AxisConfig is the motion axis of a joint. It need not be normalized.
type AxisConfig [3]float64

// Vector returns the axis as an r3.Vector.
func (a AxisConfig) Vector() r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}

// LimitConfig is the allowed motion range of a joint in its native unit, radians for rotational
// joints and length units for translational ones.
type LimitConfig struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}
