package variable

import (
	"math"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// RSOCtoSOC realizes (t, u, x) in RotatedSecondOrderCone through y in
// SecondOrderCone with t = (y0+y1)/sqrt(2), u = (y0-y1)/sqrt(2) and x = y[2:].
// The map is orthogonal and is its own inverse.
var RSOCtoSOC Type = rsocType{}

type rsocType struct{}

func (rsocType) Name() string                { return "RSOCtoSOC" }
func (rsocType) Supports(s moi.SetType) bool { return s == moi.RotatedSecondOrderConeType }

func (rsocType) AddedConstrainedVariableTypes(moi.SetType) []moi.SetType {
	return []moi.SetType{moi.SecondOrderConeType}
}

func (rsocType) AddedConstraintTypes(moi.SetType) []moi.ConstraintType { return nil }

func (rsocType) Bridge(m moi.ModelLike, s moi.Set) (Bridge, error) {
	n := s.(moi.VectorSet).Dimension()
	if n < 2 {
		return nil, &moi.PreconditionError{Message: "a rotated second order cone has dimension at least 2"}
	}
	vis, ci, err := m.AddConstrainedVariables(moi.SecondOrderCone{Dim: n})
	if err != nil {
		return nil, err
	}
	return &rsocBridge{variables: vis, constraint: ci}, nil
}

type rsocBridge struct {
	variables  []moi.VariableIndex
	constraint moi.ConstraintIndex
}

func (b *rsocBridge) Variables() []moi.VariableIndex {
	return append([]moi.VariableIndex(nil), b.variables...)
}

func (b *rsocBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *rsocBridge) Delete(m moi.ModelLike) error {
	return m.DeleteVariables(b.variables)
}

func (b *rsocBridge) Function(i int) moi.ScalarAffineFunction {
	return rotate(b.variables, i)
}

func (b *rsocBridge) Inverse(v moi.VariableIndex, keys []moi.VariableIndex) (moi.ScalarAffineFunction, bool) {
	for i, y := range b.variables {
		if y == v {
			return rotate(keys, i), true
		}
	}
	return moi.ScalarAffineFunction{}, false
}

func (b *rsocBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintDual); !ok {
		return nil, unsupported(attr, "RSOCtoSOC")
	}
	dual, err := childDual(m, b.constraint)
	if err != nil {
		return nil, err
	}
	d0, d1 := dual[0], dual[1]
	dual[0] = (d0 + d1) / math.Sqrt2
	dual[1] = (d0 - d1) / math.Sqrt2
	return dual, nil
}

// rotate returns row i of the rotation applied to vs.
func rotate(vs []moi.VariableIndex, i int) moi.ScalarAffineFunction {
	switch i {
	case 0:
		return moi.NewScalarAffine(0, moi.Term(1/math.Sqrt2, vs[0]), moi.Term(1/math.Sqrt2, vs[1]))
	case 1:
		return moi.NewScalarAffine(0, moi.Term(1/math.Sqrt2, vs[0]), moi.Term(-1/math.Sqrt2, vs[1]))
	}
	return moi.VariableAsAffine(vs[i])
}

// ZeroOne realizes a binary variable as an Integer variable y with the
// constraint y in Interval(0, 1). The interval constraint is created in
// the context of the bridge.
var ZeroOne Type = zeroOneType{}

type zeroOneType struct{}

func (zeroOneType) Name() string                { return "ZeroOne" }
func (zeroOneType) Supports(s moi.SetType) bool { return s == moi.ZeroOneType }

func (zeroOneType) AddedConstrainedVariableTypes(moi.SetType) []moi.SetType {
	return []moi.SetType{moi.IntegerType}
}

func (zeroOneType) AddedConstraintTypes(moi.SetType) []moi.ConstraintType {
	return []moi.ConstraintType{{F: moi.SingleVariableType, S: moi.IntervalType}}
}

func (zeroOneType) Bridge(m moi.ModelLike, _ moi.Set) (Bridge, error) {
	y, integer, err := m.AddConstrainedVariable(moi.Integer{})
	if err != nil {
		return nil, err
	}
	interval, err := m.AddConstraint(moi.SingleVariable{Variable: y}, moi.Interval{Lower: 0, Upper: 1})
	if err != nil {
		if derr := m.Delete(y); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return &zeroOneBridge{variable: y, integer: integer, interval: interval}, nil
}

type zeroOneBridge struct {
	variable          moi.VariableIndex
	integer, interval moi.ConstraintIndex
}

func (b *zeroOneBridge) Variables() []moi.VariableIndex {
	return []moi.VariableIndex{b.variable}
}

func (b *zeroOneBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.integer, b.interval}
}

func (b *zeroOneBridge) Delete(m moi.ModelLike) error {
	if err := m.DeleteConstraint(b.interval); err != nil {
		return err
	}
	return m.Delete(b.variable)
}

func (b *zeroOneBridge) Function(int) moi.ScalarAffineFunction {
	return moi.VariableAsAffine(b.variable)
}

func (b *zeroOneBridge) Inverse(v moi.VariableIndex, keys []moi.VariableIndex) (moi.ScalarAffineFunction, bool) {
	if v != b.variable {
		return moi.ScalarAffineFunction{}, false
	}
	return moi.VariableAsAffine(keys[0]), true
}

func (b *zeroOneBridge) Get(_ moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	return nil, unsupported(attr, "ZeroOne")
}

func (b *zeroOneBridge) PrimalStart(m moi.ModelLike, _ int) (interface{}, error) {
	return m.GetVariableAttribute(moi.VariablePrimalStart{}, b.variable)
}

func (b *zeroOneBridge) SetPrimalStart(m moi.ModelLike, _ int, value interface{}) error {
	return m.SetVariableAttribute(moi.VariablePrimalStart{}, b.variable, value)
}

var (
	_ Inverter = &rsocBridge{}
	_ Inverter = &zeroOneBridge{}
	_ Starter  = &zeroOneBridge{}
)
