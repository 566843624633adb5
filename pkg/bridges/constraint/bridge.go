package constraint

//go:generate go run github.com/golang/mock/mockgen -destination mock_bridge.go -package constraint . Bridge

import (
	"fmt"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Bridge realizes one constraint with constraints, and possibly variables,
// of the model it was created in.
type Bridge interface {
	bridge.Bridge
	// Get reads attr of the bridged constraint. Names are kept by the
	// caller and never reach the bridge.
	Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error)
	Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error
	Modify(m moi.ModelLike, change moi.Change) error
}

// PositionDeleter is implemented by bridges of vector constraints that can
// drop one output.
type PositionDeleter interface {
	DeletePosition(m moi.ModelLike, i int) error
}

// Type builds constraint bridges for the constraint types it supports.
type Type interface {
	Name() string
	Supports(t moi.ConstraintType) bool
	// AddedConstrainedVariableTypes lists the sets of the constrained
	// variables a bridge for t creates.
	AddedConstrainedVariableTypes(t moi.ConstraintType) []moi.SetType
	// AddedConstraintTypes lists the constraints a bridge for t creates.
	AddedConstraintTypes(t moi.ConstraintType) []moi.ConstraintType
	Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error)
}

// bound returns the constant defining a GreaterThan, LessThan or EqualTo.
func bound(s moi.Set) (float64, error) {
	switch s := s.(type) {
	case moi.GreaterThan:
		return s.Lower, nil
	case moi.LessThan:
		return s.Upper, nil
	case moi.EqualTo:
		return s.Value, nil
	}
	return 0, fmt.Errorf("%s has no single bound", s)
}

// scalarSet builds the GreaterThan, LessThan or EqualTo of type t with
// bound b.
func scalarSet(t moi.SetType, b float64) moi.ScalarSet {
	switch t {
	case moi.GreaterThanType:
		return moi.GreaterThan{Lower: b}
	case moi.LessThanType:
		return moi.LessThan{Upper: b}
	}
	return moi.EqualTo{Value: b}
}

func vectorSet(t moi.SetType, dim int) moi.VectorSet {
	switch t {
	case moi.NonnegativesType:
		return moi.Nonnegatives{Dim: dim}
	case moi.NonpositivesType:
		return moi.Nonpositives{Dim: dim}
	}
	return moi.Zeros{Dim: dim}
}

// Orthants and their scalar counterparts.
var (
	toScalar = map[moi.SetType]moi.SetType{
		moi.NonnegativesType: moi.GreaterThanType,
		moi.NonpositivesType: moi.LessThanType,
		moi.ZerosType:        moi.EqualToType,
	}
	toVector = map[moi.SetType]moi.SetType{
		moi.GreaterThanType: moi.NonnegativesType,
		moi.LessThanType:    moi.NonpositivesType,
		moi.EqualToType:     moi.ZerosType,
	}
)

func unsupported(attr moi.ConstraintAttribute, name string) error {
	return &moi.UnsupportedAttributeError{Attribute: attr, Message: "not available through the " + name + " bridge"}
}

// modifyFunction applies change by rewriting the whole function of a
// bridged constraint.
func modifyFunction(m moi.ModelLike, b Bridge, change moi.Change) error {
	f, err := b.Get(m, moi.ConstraintFunction{})
	if err != nil {
		return err
	}
	g, err := moi.ApplyChange(f.(moi.Function), change)
	if err != nil {
		return err
	}
	return b.Set(m, moi.ConstraintFunction{}, g)
}

func valueAs[T any](attr moi.ConstraintAttribute, value interface{}) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("value of %s must be a %T, got %T", attr, zero, value)
	}
	return v, nil
}
