package kinematics

import (
	"github.com/pkg/errors"
)

// ErrNoModelInformation is returned when a description contains nothing to build a model from.
var ErrNoModelInformation = errors.New("no model information")

// ErrSolverIdle is returned when a search step is requested of a solver that has not been started.
var ErrSolverIdle = errors.New("solver is idle, call Start before stepping")

// NewMalformedModelError returns an error describing a joint that references a link absent from
// the model. This is caught at construction time rather than left to fail silently during chain
// building.
func NewMalformedModelError(jointName, linkName string) error {
	return errors.Errorf("joint %q references unknown link %q", jointName, linkName)
}

// NewLinkNotFoundError returns an error for when a link is looked up by a name not in the model.
func NewLinkNotFoundError(linkName string) error {
	return errors.Errorf("no link with name %q in model", linkName)
}

// NewJointNotFoundError returns an error for when a joint is looked up by a name not in the model.
func NewJointNotFoundError(jointName string) error {
	return errors.Errorf("no joint with name %q in model", jointName)
}

// NewFixedJointError returns an error for an attempt to move a joint with no degrees of freedom.
func NewFixedJointError(jointName string) error {
	return errors.Errorf("joint %q is fixed and cannot be moved", jointName)
}
