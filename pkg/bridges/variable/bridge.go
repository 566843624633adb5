package variable

import (
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Bridge realizes variables constrained to a set that the model beneath
// does not accept, as affine functions of artifact variables.
type Bridge interface {
	bridge.Bridge
	// Function expresses the i-th bridged variable in terms of the
	// artifacts of the bridge.
	Function(i int) moi.ScalarAffineFunction
	// Get reads attr of the constraint that holds the bridged variables in
	// their set.
	Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error)
}

// Inverter is implemented by bridges whose artifacts can be expressed back
// in terms of the bridged variables.
type Inverter interface {
	// Inverse expresses the artifact v as an affine function of keys, the
	// indices of the bridged variables. It reports false when v is not an
	// artifact of the bridge.
	Inverse(v moi.VariableIndex, keys []moi.VariableIndex) (moi.ScalarAffineFunction, bool)
}

// IndexDeleter is implemented by bridges that can give up one of their
// bridged variables while keeping the others.
type IndexDeleter interface {
	DeleteIndex(m moi.ModelLike, i int) error
}

// Starter is implemented by bridges that can translate warm starts.
type Starter interface {
	PrimalStart(m moi.ModelLike, i int) (interface{}, error)
	SetPrimalStart(m moi.ModelLike, i int, value interface{}) error
}

// Type builds variable bridges for the sets it supports.
type Type interface {
	Name() string
	Supports(s moi.SetType) bool
	// AddedConstrainedVariableTypes lists the sets of the constrained
	// variables a bridge for s creates.
	AddedConstrainedVariableTypes(s moi.SetType) []moi.SetType
	// AddedConstraintTypes lists the constraints a bridge for s creates.
	AddedConstraintTypes(s moi.SetType) []moi.ConstraintType
	Bridge(m moi.ModelLike, s moi.Set) (Bridge, error)
}

func childDual(m moi.ModelLike, ci moi.ConstraintIndex) ([]float64, error) {
	dual, err := moi.GetConstraint[[]float64](m, moi.ConstraintDual{}, ci)
	return append([]float64(nil), dual...), err
}

func unsupported(attr moi.ConstraintAttribute, name string) error {
	return &moi.UnsupportedAttributeError{Attribute: attr, Message: "not available through the " + name + " bridge"}
}
