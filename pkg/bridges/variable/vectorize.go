package variable

import (
	"fmt"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Vectorize realizes x in GreaterThan(c), LessThan(c) or EqualTo(c) as
// y + c with y in the one-dimensional Nonnegatives, Nonpositives or Zeros.
var Vectorize Type = vectorizeType{}

type vectorizeType struct{}

func (vectorizeType) Name() string { return "Vectorize" }

func (vectorizeType) Supports(s moi.SetType) bool {
	_, ok := vectorized[s]
	return ok
}

var vectorized = map[moi.SetType]moi.SetType{
	moi.GreaterThanType: moi.NonnegativesType,
	moi.LessThanType:    moi.NonpositivesType,
	moi.EqualToType:     moi.ZerosType,
}

func (vectorizeType) AddedConstrainedVariableTypes(s moi.SetType) []moi.SetType {
	return []moi.SetType{vectorized[s]}
}

func (vectorizeType) AddedConstraintTypes(moi.SetType) []moi.ConstraintType { return nil }

func (vectorizeType) Bridge(m moi.ModelLike, s moi.Set) (Bridge, error) {
	var (
		constant float64
		set      moi.VectorSet
	)
	switch s := s.(type) {
	case moi.GreaterThan:
		constant, set = s.Lower, moi.Nonnegatives{Dim: 1}
	case moi.LessThan:
		constant, set = s.Upper, moi.Nonpositives{Dim: 1}
	case moi.EqualTo:
		constant, set = s.Value, moi.Zeros{Dim: 1}
	default:
		return nil, fmt.Errorf("cannot vectorize %s", s)
	}
	vis, ci, err := m.AddConstrainedVariables(set)
	if err != nil {
		return nil, err
	}
	return &vectorizeBridge{variable: vis[0], constraint: ci, constant: constant}, nil
}

type vectorizeBridge struct {
	variable   moi.VariableIndex
	constraint moi.ConstraintIndex
	constant   float64
}

func (b *vectorizeBridge) Variables() []moi.VariableIndex {
	return []moi.VariableIndex{b.variable}
}

func (b *vectorizeBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *vectorizeBridge) Delete(m moi.ModelLike) error {
	return m.Delete(b.variable)
}

func (b *vectorizeBridge) Function(int) moi.ScalarAffineFunction {
	return moi.NewScalarAffine(b.constant, moi.Term(1, b.variable))
}

func (b *vectorizeBridge) Inverse(v moi.VariableIndex, keys []moi.VariableIndex) (moi.ScalarAffineFunction, bool) {
	if v != b.variable {
		return moi.ScalarAffineFunction{}, false
	}
	return moi.NewScalarAffine(-b.constant, moi.Term(1, keys[0])), true
}

func (b *vectorizeBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintDual); !ok {
		return nil, unsupported(attr, "Vectorize")
	}
	dual, err := childDual(m, b.constraint)
	if err != nil {
		return nil, err
	}
	return dual[0], nil
}

func (b *vectorizeBridge) PrimalStart(m moi.ModelLike, _ int) (interface{}, error) {
	start, err := m.GetVariableAttribute(moi.VariablePrimalStart{}, b.variable)
	if err != nil || start == nil {
		return nil, err
	}
	return start.(float64) + b.constant, nil
}

func (b *vectorizeBridge) SetPrimalStart(m moi.ModelLike, _ int, value interface{}) error {
	if value == nil {
		return m.SetVariableAttribute(moi.VariablePrimalStart{}, b.variable, nil)
	}
	start, ok := value.(float64)
	if !ok {
		return fmt.Errorf("primal start must be a float64, got %T", value)
	}
	return m.SetVariableAttribute(moi.VariablePrimalStart{}, b.variable, start-b.constant)
}

var (
	_ Inverter = &vectorizeBridge{}
	_ Starter  = &vectorizeBridge{}
)
