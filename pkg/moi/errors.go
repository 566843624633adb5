package moi

import (
	"fmt"

	"github.com/pkg/errors"
)

// UnsupportedConstraintError is returned when a constraint type cannot be
// added, either directly or through bridges.
type UnsupportedConstraintError struct {
	Type    ConstraintType
	Message string
}

func (e *UnsupportedConstraintError) Error() string {
	return withMessage(fmt.Sprintf("unsupported constraint %s", e.Type), e.Message)
}

// UnsupportedAttributeError is returned when an attribute cannot be read or
// written.
type UnsupportedAttributeError struct {
	Attribute fmt.Stringer
	Message   string
}

func (e *UnsupportedAttributeError) Error() string {
	return withMessage(fmt.Sprintf("unsupported attribute %s", e.Attribute), e.Message)
}

// InvalidIndexError is returned for indices that were deleted or never
// belonged to the model.
type InvalidIndexError struct {
	Index fmt.Stringer
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid index %s", e.Index)
}

// AddVariableNotAllowedError is returned by a model that cannot add a
// variable in its current state.
type AddVariableNotAllowedError struct {
	Message string
}

func (e *AddVariableNotAllowedError) Error() string {
	return withMessage("adding variables is not allowed", e.Message)
}

// AddConstraintNotAllowedError is returned by a model that cannot add a
// constraint of Type in its current state.
type AddConstraintNotAllowedError struct {
	Type    ConstraintType
	Message string
}

func (e *AddConstraintNotAllowedError) Error() string {
	return withMessage(fmt.Sprintf("adding %s constraints is not allowed", e.Type), e.Message)
}

// SetAttributeNotAllowedError is returned by a model that cannot set
// Attribute in its current state.
type SetAttributeNotAllowedError struct {
	Attribute fmt.Stringer
	Message   string
}

func (e *SetAttributeNotAllowedError) Error() string {
	return withMessage(fmt.Sprintf("setting %s is not allowed", e.Attribute), e.Message)
}

// ModifyNotAllowedError is returned by a model that cannot apply Change.
type ModifyNotAllowedError struct {
	Change  Change
	Message string
}

func (e *ModifyNotAllowedError) Error() string {
	return withMessage(fmt.Sprintf("modification %s is not allowed", e.Change), e.Message)
}

// DeleteNotAllowedError is returned by a model that cannot delete Index.
type DeleteNotAllowedError struct {
	Index   fmt.Stringer
	Message string
}

func (e *DeleteNotAllowedError) Error() string {
	return withMessage(fmt.Sprintf("deleting %s is not allowed", e.Index), e.Message)
}

func (*AddVariableNotAllowedError) notAllowed()   {}
func (*AddConstraintNotAllowedError) notAllowed() {}
func (*SetAttributeNotAllowedError) notAllowed()  {}
func (*ModifyNotAllowedError) notAllowed()        {}
func (*DeleteNotAllowedError) notAllowed()        {}

type notAllowed interface {
	error
	notAllowed()
}

// DuplicateConstraintError is returned when a SingleVariable constraint of
// the same set type already exists on Variable.
type DuplicateConstraintError struct {
	Variable VariableIndex
	Type     ConstraintType
}

func (e *DuplicateConstraintError) Error() string {
	return fmt.Sprintf("variable %s already has a %s constraint", e.Variable, e.Type)
}

// ScalarFunctionConstantNotZeroError is returned when a scalar constraint is
// given a function with a constant term. The constant belongs in the set.
type ScalarFunctionConstantNotZeroError struct {
	Type     ConstraintType
	Constant float64
}

func (e *ScalarFunctionConstantNotZeroError) Error() string {
	return fmt.Sprintf("constant of %s function must be zero, got %g; move it into the set", e.Type, e.Constant)
}

// PreconditionError is returned when an operation is called on a model in
// a state it does not accept.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func withMessage(s, msg string) string {
	if msg == "" {
		return s
	}
	return s + ": " + msg
}

// IsNotAllowed reports whether err, or an error it wraps, is one of the
// NotAllowed errors.
func IsNotAllowed(err error) bool {
	var target notAllowed
	return errors.As(err, &target)
}

// IsUnsupported reports whether err is an UnsupportedConstraintError or an
// UnsupportedAttributeError.
func IsUnsupported(err error) bool {
	var c *UnsupportedConstraintError
	var a *UnsupportedAttributeError
	return errors.As(err, &c) || errors.As(err, &a)
}

// IsInvalidIndex reports whether err is an InvalidIndexError.
func IsInvalidIndex(err error) bool {
	var target *InvalidIndexError
	return errors.As(err, &target)
}

// IsDuplicate reports whether err is a DuplicateConstraintError.
func IsDuplicate(err error) bool {
	var target *DuplicateConstraintError
	return errors.As(err, &target)
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}
