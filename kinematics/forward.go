package kinematics

import (
	"github.com/tek2222/jsrob/spatialmath"
)

// Configuration maps movable joint names to a joint angle in radians, or a displacement in length
// units for translational joints. Joints absent from a configuration contribute no motion.
// Configurations are treated as immutable per evaluation; copy before mutating a shared one.
type Configuration map[string]float64

// Clone returns a copy of the configuration.
func (c Configuration) Clone() Configuration {
	clone := make(Configuration, len(c))
	for name, value := range c {
		clone[name] = value
	}
	return clone
}

// Transform composes the transforms of the chain in root-to-tip order for the given configuration
// and returns the resulting end effector pose. rootOffset places the whole model in world space
// and may be nil. An empty chain yields the root offset, or the identity pose without one.
//
// Each step composes, in order: the joint's declared origin, the joint motion for movable joints
// present in the configuration, and the child link's visual origin if it carries one. The visual
// origin offsets the frame everything further down the chain nests under, which is exactly what a
// renderer computes when meshes are nested inside their link's frame; keeping that equivalence is
// the central correctness property here.
func (c Chain) Transform(cfg Configuration, rootOffset spatialmath.Pose) spatialmath.Pose {
	accumulated := spatialmath.NewZeroPose()
	if rootOffset != nil {
		accumulated = rootOffset
	}

	for _, step := range c {
		joint := step.Joint
		accumulated = spatialmath.Compose(accumulated, joint.origin)

		if value, ok := cfg[joint.name]; ok && joint.jType.Movable() {
			accumulated = spatialmath.Compose(accumulated, jointMotion(joint, value))
		}

		if visual := step.Child.visualOrigin; visual != nil {
			accumulated = spatialmath.Compose(accumulated, visual)
		}
	}
	return accumulated
}

// jointMotion returns the transform contributed by moving the given joint to the given value.
func jointMotion(joint *Joint, value float64) spatialmath.Pose {
	switch joint.jType {
	case JointRevolute, JointContinuous:
		return spatialmath.NewPoseFromAxisAngle(joint.axis, value)
	case JointPrismatic:
		return spatialmath.NewPoseAlongAxis(joint.axis, value)
	case JointFixed:
		return spatialmath.NewZeroPose()
	}
	return spatialmath.NewZeroPose()
}
