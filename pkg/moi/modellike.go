package moi

import (
	"fmt"
)

// ModelLike is the contract shared by model storage, optimizers, and every
// layer that wraps them.
type ModelLike interface {
	// IsEmpty reports whether the model has no variables, no constraints,
	// a default objective and no name.
	IsEmpty() bool
	// Empty removes everything IsEmpty checks for. Optimizer attributes
	// are kept.
	Empty() error

	SupportsConstraint(t ConstraintType) bool
	SupportsAddConstrainedVariable(s SetType) bool
	SupportsAddConstrainedVariables(s SetType) bool
	Supports(attr Attribute) bool
	SupportsVariableAttribute(attr VariableAttribute) bool
	SupportsConstraintAttribute(attr ConstraintAttribute, t ConstraintType) bool

	AddVariable() (VariableIndex, error)
	AddVariables(n int) ([]VariableIndex, error)
	// AddConstrainedVariable adds a variable together with the
	// SingleVariable-in-s constraint on it.
	AddConstrainedVariable(s ScalarSet) (VariableIndex, ConstraintIndex, error)
	// AddConstrainedVariables adds s.Dimension() variables together with
	// the VectorOfVariables-in-s constraint on them.
	AddConstrainedVariables(s VectorSet) ([]VariableIndex, ConstraintIndex, error)
	AddConstraint(f Function, s Set) (ConstraintIndex, error)

	Get(attr Attribute) (interface{}, error)
	Set(attr Attribute, value interface{}) error
	GetVariableAttribute(attr VariableAttribute, vi VariableIndex) (interface{}, error)
	SetVariableAttribute(attr VariableAttribute, vi VariableIndex, value interface{}) error
	GetConstraintAttribute(attr ConstraintAttribute, ci ConstraintIndex) (interface{}, error)
	SetConstraintAttribute(attr ConstraintAttribute, ci ConstraintIndex, value interface{}) error

	Modify(ci ConstraintIndex, change Change) error
	// ModifyObjective applies change to the objective of type attr.Type.
	ModifyObjective(attr ObjectiveFunction, change Change) error

	Delete(vi VariableIndex) error
	DeleteVariables(vis []VariableIndex) error
	DeleteConstraint(ci ConstraintIndex) error

	IsValidVariable(vi VariableIndex) bool
	IsValidConstraint(ci ConstraintIndex) bool
}

// Optimizer is a ModelLike that can solve the problem it holds.
type Optimizer interface {
	ModelLike
	Optimize() error
}

// NameIndexer is implemented by models that can look indices up by name.
// An error is returned when more than one index carries the name.
type NameIndexer interface {
	VariableByName(name string) (VariableIndex, bool, error)
	ConstraintByName(name string) (ConstraintIndex, bool, error)
}

// Get reads a model or optimizer attribute as a T.
func Get[T any](m ModelLike, attr Attribute) (T, error) {
	v, err := m.Get(attr)
	return as[T](attr, v, err)
}

// GetVariable reads a variable attribute as a T.
func GetVariable[T any](m ModelLike, attr VariableAttribute, vi VariableIndex) (T, error) {
	v, err := m.GetVariableAttribute(attr, vi)
	return as[T](attr, v, err)
}

// GetConstraint reads a constraint attribute as a T.
func GetConstraint[T any](m ModelLike, attr ConstraintAttribute, ci ConstraintIndex) (T, error) {
	v, err := m.GetConstraintAttribute(attr, ci)
	return as[T](attr, v, err)
}

func as[T any](attr fmt.Stringer, v interface{}, err error) (T, error) {
	var zero T
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("attribute %s has type %T, not %T", attr, v, zero)
	}
	return t, nil
}

// Objective reads the current objective in its own function type.
func Objective(m ModelLike) (ScalarFunction, error) {
	t, err := Get[FunctionType](m, ObjectiveFunctionType{})
	if err != nil {
		return nil, err
	}
	return Get[ScalarFunction](m, ObjectiveFunction{Type: t})
}
