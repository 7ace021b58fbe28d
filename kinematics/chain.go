package kinematics

// ChainStep is one traversal step of a kinematic chain: a joint together with the parent and
// child links it connects.
type ChainStep struct {
	Joint  *Joint
	Parent *Link
	Child  *Link
}

// Chain is the ordered root-to-tip sequence of joints connecting a root link to a chosen end
// effector link. It is derived from the model on demand and never persisted.
type Chain []ChainStep

// Chain walks parent links upward from the given end effector until a link with no inbound joint
// is reached, then returns the traversed joints in root-to-tip order. An end effector that is
// itself a root yields an empty chain, which is a valid state, not an error.
func (m *Model) Chain(endEffector string) (Chain, error) {
	if _, ok := m.links[endEffector]; !ok {
		return nil, NewLinkNotFoundError(endEffector)
	}

	var reversed Chain
	current := endEffector
	for {
		joint, ok := m.childToJoint[current]
		if !ok {
			// current is a root
			break
		}
		reversed = append(reversed, ChainStep{
			Joint:  joint,
			Parent: m.links[joint.parent],
			Child:  m.links[joint.child],
		})
		current = joint.parent
	}

	chain := make(Chain, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		chain = append(chain, reversed[i])
	}
	return chain, nil
}

// MovableJoints returns the movable joints of the chain in root-to-tip order.
func (c Chain) MovableJoints() []*Joint {
	var joints []*Joint
	for _, step := range c {
		if step.Joint.jType.Movable() {
			joints = append(joints, step.Joint)
		}
	}
	return joints
}
