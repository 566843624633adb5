package objective

import (
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Bridge realizes an objective function with an objective, and possibly
// variables and constraints, of the model it was created in.
type Bridge interface {
	bridge.Bridge
	// Function reads the bridged objective back, in the function type
	// that was bridged.
	Function(m moi.ModelLike) (moi.ScalarFunction, error)
	// SetSense is called after the sense of the model changed between
	// minimization and maximization.
	SetSense(m moi.ModelLike, sense moi.OptimizationSense) error
	Modify(m moi.ModelLike, change moi.Change) error
}

// Type builds objective bridges for the function types it supports.
type Type interface {
	Name() string
	Supports(f moi.FunctionType) bool
	AddedConstrainedVariableTypes(f moi.FunctionType) []moi.SetType
	AddedConstraintTypes(f moi.FunctionType) []moi.ConstraintType
	// SetObjectiveType is the type of the objective a bridge for f sets.
	SetObjectiveType(f moi.FunctionType) moi.FunctionType
	Bridge(m moi.ModelLike, f moi.ScalarFunction) (Bridge, error)
}
