// Package kinematics builds in-memory kinematic tree models from parsed robot descriptions and
// does the math of forward kinematics and stochastic inverse kinematics over them.
package kinematics

import (
	"github.com/golang/geo/r3"

	"github.com/tek2222/jsrob/spatialmath"
	"github.com/tek2222/jsrob/utils"
)

// JointType enumerates the joint kinds understood by the model. Anything else in a description is
// treated as malformed and dropped.
type JointType string

// The supported joint types. Continuous joints are revolute joints without limits.
const (
	JointFixed      = JointType("fixed")
	JointRevolute   = JointType("revolute")
	JointContinuous = JointType("continuous")
	JointPrismatic  = JointType("prismatic")
)

// Movable reports whether a joint of this type contributes a degree of freedom.
func (jt JointType) Movable() bool {
	switch jt {
	case JointRevolute, JointContinuous, JointPrismatic:
		return true
	case JointFixed:
		return false
	}
	return false
}

// Rotational reports whether a joint of this type moves by rotating about its axis, as opposed to
// translating along it.
func (jt JointType) Rotational() bool {
	switch jt {
	case JointRevolute, JointContinuous:
		return true
	case JointPrismatic, JointFixed:
		return false
	}
	return false
}

func (jt JointType) supported() bool {
	switch jt {
	case JointFixed, JointRevolute, JointContinuous, JointPrismatic:
		return true
	}
	return false
}

// Limit represents the limits of motion for a joint.
type Limit struct {
	Min float64
	Max float64
}

// Link is a rigid body of the robot, a named frame in the kinematic tree. Links are immutable
// once the model is built.
type Link struct {
	name         string
	visualOrigin spatialmath.Pose // nil when the link has no visual element
	mesh         string
}

// Name returns the name of the link, unique within its model.
func (l *Link) Name() string {
	return l.name
}

// VisualOrigin returns the local origin transform of the link's visual element, or nil if the
// link carries none. A renderer nests the link's mesh under this transform, so forward
// kinematics composes it in as well.
func (l *Link) VisualOrigin() spatialmath.Pose {
	return l.visualOrigin
}

// Mesh returns the geometry reference of the link's visual element. It is opaque to the
// kinematics and only carried through for consumers.
func (l *Link) Mesh() string {
	return l.mesh
}

// Joint connects a parent link to a child link, permitting relative motion of a given kind about
// or along a given axis. Joints are immutable once the model is built; joint angle state lives in
// a Configuration, not here.
type Joint struct {
	name   string
	jType  JointType
	parent string
	child  string
	origin spatialmath.Pose // fixed transform applied before joint motion, never nil
	axis   r3.Vector        // unit vector
	limit  *Limit           // nil means unbounded
}

// Name returns the name of the joint, unique within its model.
func (j *Joint) Name() string {
	return j.name
}

// Type returns the kind of the joint.
func (j *Joint) Type() JointType {
	return j.jType
}

// Parent returns the name of the joint's parent link.
func (j *Joint) Parent() string {
	return j.parent
}

// Child returns the name of the joint's child link.
func (j *Joint) Child() string {
	return j.child
}

// Origin returns the fixed transform declared for the joint, applied before any joint motion.
func (j *Joint) Origin() spatialmath.Pose {
	return j.origin
}

// Axis returns the normalized motion axis of the joint.
func (j *Joint) Axis() r3.Vector {
	return j.axis
}

// Limit returns the joint's limit pair, or nil if the joint is unbounded.
func (j *Joint) Limit() *Limit {
	return j.limit
}

// ClampToLimits returns the given value clamped into the joint's limit range. Unbounded joints
// return the value unchanged.
func (j *Joint) ClampToLimits(value float64) float64 {
	if j.limit == nil {
		return value
	}
	return utils.Clamp(value, j.limit.Min, j.limit.Max)
}

// Model is a kinematic tree: links connected by joints, with parent/child adjacency and root
// identification derived once at construction. The topology is immutable after construction.
type Model struct {
	name   string
	links  map[string]*Link
	joints map[string]*Joint

	// iteration orders preserve declaration order from the description
	linkOrder  []string
	jointOrder []string

	children     map[string][]*Joint // parent link name -> joints, in declaration order
	childToJoint map[string]*Joint   // child link name -> the joint leading to it
	roots        []string            // links that are never a joint's child
}

// NewModel builds a kinematic tree from parsed description data. Joint records missing a name,
// type, parent or child, or carrying an unsupported type, are dropped rather than failing the
// whole model. Joints referencing links absent from the description are an error, as silently
// accepting them would only defer the failure to chain building.
func NewModel(cfg *ModelConfig) (*Model, error) {
	if cfg == nil || (len(cfg.Links) == 0 && len(cfg.Joints) == 0) {
		return nil, ErrNoModelInformation
	}

	m := &Model{
		name:         cfg.Name,
		links:        map[string]*Link{},
		joints:       map[string]*Joint{},
		children:     map[string][]*Joint{},
		childToJoint: map[string]*Joint{},
	}

	for _, lc := range cfg.Links {
		if lc.ID == "" {
			continue
		}
		link := &Link{name: lc.ID}
		if lc.Visual != nil {
			link.visualOrigin = lc.Visual.Origin.Pose()
			link.mesh = lc.Visual.Mesh
		}
		if _, ok := m.links[lc.ID]; !ok {
			m.linkOrder = append(m.linkOrder, lc.ID)
		}
		m.links[lc.ID] = link
	}

	for _, jc := range cfg.Joints {
		if jc.ID == "" || jc.Parent == "" || jc.Child == "" || !jc.Type.supported() {
			// Malformed joints are dropped, not fatal to the whole model.
			continue
		}
		if _, ok := m.links[jc.Parent]; !ok {
			return nil, NewMalformedModelError(jc.ID, jc.Parent)
		}
		if _, ok := m.links[jc.Child]; !ok {
			return nil, NewMalformedModelError(jc.ID, jc.Child)
		}

		axis := r3.Vector{X: 1} // description format default
		if jc.Axis != nil && jc.Axis.Vector().Norm() != 0 {
			axis = jc.Axis.Vector().Normalize()
		}
		joint := &Joint{
			name:   jc.ID,
			jType:  jc.Type,
			parent: jc.Parent,
			child:  jc.Child,
			origin: jc.Origin.Pose(),
			axis:   axis,
		}
		if jc.Limit != nil && jc.Type != JointContinuous {
			joint.limit = &Limit{Min: jc.Limit.Lower, Max: jc.Limit.Upper}
		}

		if _, ok := m.joints[jc.ID]; !ok {
			m.jointOrder = append(m.jointOrder, jc.ID)
		}
		m.joints[jc.ID] = joint
		m.children[jc.Parent] = append(m.children[jc.Parent], joint)
		m.childToJoint[jc.Child] = joint
	}

	for _, name := range m.linkOrder {
		if _, isChild := m.childToJoint[name]; !isChild {
			m.roots = append(m.roots, name)
		}
	}

	return m, nil
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Link looks a link up by name.
func (m *Model) Link(name string) (*Link, error) {
	link, ok := m.links[name]
	if !ok {
		return nil, NewLinkNotFoundError(name)
	}
	return link, nil
}

// Joint looks a joint up by name.
func (m *Model) Joint(name string) (*Joint, error) {
	joint, ok := m.joints[name]
	if !ok {
		return nil, NewJointNotFoundError(name)
	}
	return joint, nil
}

// Links returns all links in declaration order.
func (m *Model) Links() []*Link {
	links := make([]*Link, 0, len(m.linkOrder))
	for _, name := range m.linkOrder {
		links = append(links, m.links[name])
	}
	return links
}

// Joints returns all joints in declaration order.
func (m *Model) Joints() []*Joint {
	joints := make([]*Joint, 0, len(m.jointOrder))
	for _, name := range m.jointOrder {
		joints = append(joints, m.joints[name])
	}
	return joints
}

// MovableJoints returns the joints contributing a degree of freedom, in declaration order.
func (m *Model) MovableJoints() []*Joint {
	var joints []*Joint
	for _, name := range m.jointOrder {
		if joint := m.joints[name]; joint.jType.Movable() {
			joints = append(joints, joint)
		}
	}
	return joints
}

// RootLinks returns the names of links that are never a joint's child. Any valid tree has at
// least one.
func (m *Model) RootLinks() []string {
	return m.roots
}

// Children returns the joints whose parent is the given link, in declaration order.
func (m *Model) Children(linkName string) []*Joint {
	return m.children[linkName]
}
