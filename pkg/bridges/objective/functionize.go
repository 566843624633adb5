package objective

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Functionize sets a SingleVariable objective as a ScalarAffineFunction.
var Functionize Type = functionizeType{}

type functionizeType struct{}

func (functionizeType) Name() string { return "Functionize" }

func (functionizeType) Supports(f moi.FunctionType) bool {
	return f == moi.SingleVariableType
}

func (functionizeType) AddedConstrainedVariableTypes(moi.FunctionType) []moi.SetType { return nil }

func (functionizeType) AddedConstraintTypes(moi.FunctionType) []moi.ConstraintType { return nil }

func (functionizeType) SetObjectiveType(moi.FunctionType) moi.FunctionType {
	return moi.ScalarAffineFunctionType
}

func (functionizeType) Bridge(m moi.ModelLike, f moi.ScalarFunction) (Bridge, error) {
	if err := m.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, moi.ToScalarAffine(f)); err != nil {
		return nil, err
	}
	return functionizeBridge{}, nil
}

type functionizeBridge struct{}

func (functionizeBridge) Variables() []moi.VariableIndex     { return nil }
func (functionizeBridge) Constraints() []moi.ConstraintIndex { return nil }

// Delete has nothing to release: the objective it set is replaced by the
// next one.
func (functionizeBridge) Delete(moi.ModelLike) error { return nil }

func (functionizeBridge) Function(m moi.ModelLike) (moi.ScalarFunction, error) {
	f, err := moi.Get[moi.ScalarAffineFunction](m, moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType})
	if err != nil {
		return nil, err
	}
	sv, ok := moi.AsSingleVariable(f)
	if !ok {
		return nil, &moi.PreconditionError{Message: "objective " + f.String() + " is no longer a single variable"}
	}
	return sv, nil
}

func (functionizeBridge) SetSense(moi.ModelLike, moi.OptimizationSense) error { return nil }

func (functionizeBridge) Modify(_ moi.ModelLike, change moi.Change) error {
	return &moi.ModifyNotAllowedError{Change: change, Message: "SingleVariable objectives cannot be modified"}
}
