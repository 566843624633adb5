package moi

import (
	"fmt"
)

// Attribute is a property of a whole model or of the optimizer backing it.
// It is either a ModelAttribute or an OptimizerAttribute.
type Attribute interface {
	fmt.Stringer
	attribute()
}

// ModelAttribute is part of the problem description: it is copied when a
// model is copied.
type ModelAttribute interface {
	Attribute
	modelAttribute()
}

// OptimizerAttribute configures the optimizer rather than the problem. It
// survives replacing the problem and is never copied with it.
type OptimizerAttribute interface {
	Attribute
	optimizerAttribute()
}

// VariableAttribute is a property of a single variable.
type VariableAttribute interface {
	fmt.Stringer
	variableAttribute()
}

// ConstraintAttribute is a property of a single constraint.
type ConstraintAttribute interface {
	fmt.Stringer
	constraintAttribute()
}

type setByOptimize interface {
	setByOptimize()
}

// IsSetByOptimize reports whether attr is a result of Optimize rather than
// something a caller sets.
func IsSetByOptimize(attr fmt.Stringer) bool {
	_, ok := attr.(setByOptimize)
	return ok
}

type modelAttr struct{}

func (modelAttr) attribute()      {}
func (modelAttr) modelAttribute() {}

type optimizerAttr struct{}

func (optimizerAttr) attribute()          {}
func (optimizerAttr) optimizerAttribute() {}

type resultAttr struct{}

func (resultAttr) setByOptimize() {}

// OptimizationSense is the direction of the objective.
type OptimizationSense int

const (
	FeasibilitySense OptimizationSense = iota
	MinSense
	MaxSense
)

func (s OptimizationSense) String() string {
	switch s {
	case MinSense:
		return "Min"
	case MaxSense:
		return "Max"
	}
	return "Feasibility"
}

// Name is the name of the model. Value type: string.
type Name struct{ modelAttr }

// ObjectiveSense is the OptimizationSense of the model.
type ObjectiveSense struct{ modelAttr }

// ObjectiveFunction is the objective as a ScalarFunction of type Type.
type ObjectiveFunction struct {
	modelAttr
	Type FunctionType
}

// ObjectiveFunctionType is the FunctionType of the current objective.
type ObjectiveFunctionType struct{ modelAttr }

// NumberOfVariables counts variables visible to the caller. Value type: int.
type NumberOfVariables struct{ modelAttr }

// ListOfVariableIndices lists variables visible to the caller.
// Value type: []VariableIndex.
type ListOfVariableIndices struct{ modelAttr }

// NumberOfConstraints counts constraints of one type. Value type: int.
type NumberOfConstraints struct {
	modelAttr
	Type ConstraintType
}

// ListOfConstraintIndices lists constraints of one type in creation order.
// Value type: []ConstraintIndex.
type ListOfConstraintIndices struct {
	modelAttr
	Type ConstraintType
}

// ListOfConstraints lists the constraint types with at least one
// constraint. Value type: []ConstraintType.
type ListOfConstraints struct{ modelAttr }

// TerminationStatus is why the last Optimize stopped.
// Value type: TerminationStatusCode.
type TerminationStatus struct {
	modelAttr
	resultAttr
}

// PrimalStatus describes the primal result. Value type: ResultStatusCode.
type PrimalStatus struct {
	modelAttr
	resultAttr
}

// DualStatus describes the dual result. Value type: ResultStatusCode.
type DualStatus struct {
	modelAttr
	resultAttr
}

// ResultCount is the number of available results. Value type: int.
type ResultCount struct {
	modelAttr
	resultAttr
}

// ObjectiveValue is the objective of the primal result. Value type: float64.
type ObjectiveValue struct {
	modelAttr
	resultAttr
}

// SolverName identifies the optimizer. Value type: string.
type SolverName struct{ optimizerAttr }

// Silent turns off optimizer output. Value type: bool.
type Silent struct{ optimizerAttr }

// TimeLimit bounds Optimize. Value type: time.Duration, zero for none.
type TimeLimit struct{ optimizerAttr }

func (Name) String() string                    { return "Name" }
func (ObjectiveSense) String() string          { return "ObjectiveSense" }
func (a ObjectiveFunction) String() string     { return fmt.Sprintf("ObjectiveFunction{%s}", a.Type) }
func (ObjectiveFunctionType) String() string   { return "ObjectiveFunctionType" }
func (NumberOfVariables) String() string       { return "NumberOfVariables" }
func (ListOfVariableIndices) String() string   { return "ListOfVariableIndices" }
func (a NumberOfConstraints) String() string   { return fmt.Sprintf("NumberOfConstraints{%s}", a.Type) }
func (a ListOfConstraintIndices) String() string {
	return fmt.Sprintf("ListOfConstraintIndices{%s}", a.Type)
}
func (ListOfConstraints) String() string { return "ListOfConstraints" }
func (TerminationStatus) String() string { return "TerminationStatus" }
func (PrimalStatus) String() string      { return "PrimalStatus" }
func (DualStatus) String() string        { return "DualStatus" }
func (ResultCount) String() string       { return "ResultCount" }
func (ObjectiveValue) String() string    { return "ObjectiveValue" }
func (SolverName) String() string        { return "SolverName" }
func (Silent) String() string            { return "Silent" }
func (TimeLimit) String() string         { return "TimeLimit" }

// VariableName is the name of a variable. Value type: string.
type VariableName struct{}

// VariablePrimalStart is a warm start value. Value type: float64, or nil
// when unset.
type VariablePrimalStart struct{}

// VariablePrimal is the value of a variable in the primal result.
// Value type: float64.
type VariablePrimal struct{ resultAttr }

func (VariableName) variableAttribute()        {}
func (VariablePrimalStart) variableAttribute() {}
func (VariablePrimal) variableAttribute()      {}

func (VariableName) String() string        { return "VariableName" }
func (VariablePrimalStart) String() string { return "VariablePrimalStart" }
func (VariablePrimal) String() string      { return "VariablePrimal" }

// ConstraintName is the name of a constraint. Value type: string.
type ConstraintName struct{}

// ConstraintFunction is the Function of a constraint.
type ConstraintFunction struct{}

// ConstraintSet is the Set of a constraint.
type ConstraintSet struct{}

// ConstraintPrimal is the value of the constraint function in the primal
// result. Value type: float64 for scalar constraints, []float64 otherwise.
type ConstraintPrimal struct{ resultAttr }

// ConstraintDual is the dual value of a constraint. Value type as for
// ConstraintPrimal.
type ConstraintDual struct{ resultAttr }

func (ConstraintName) constraintAttribute()     {}
func (ConstraintFunction) constraintAttribute() {}
func (ConstraintSet) constraintAttribute()      {}
func (ConstraintPrimal) constraintAttribute()   {}
func (ConstraintDual) constraintAttribute()     {}

func (ConstraintName) String() string     { return "ConstraintName" }
func (ConstraintFunction) String() string { return "ConstraintFunction" }
func (ConstraintSet) String() string      { return "ConstraintSet" }
func (ConstraintPrimal) String() string   { return "ConstraintPrimal" }
func (ConstraintDual) String() string     { return "ConstraintDual" }
