package moi

import (
	"fmt"
)

// SetType names a family of sets.
type SetType string

const (
	LessThanType               SetType = "LessThan"
	GreaterThanType            SetType = "GreaterThan"
	EqualToType                SetType = "EqualTo"
	IntervalType               SetType = "Interval"
	ZeroOneType                SetType = "ZeroOne"
	IntegerType                SetType = "Integer"
	RealsType                  SetType = "Reals"
	ZerosType                  SetType = "Zeros"
	NonnegativesType           SetType = "Nonnegatives"
	NonpositivesType           SetType = "Nonpositives"
	SecondOrderConeType        SetType = "SecondOrderCone"
	RotatedSecondOrderConeType SetType = "RotatedSecondOrderCone"
)

var scalarSetTypes = map[SetType]struct{}{
	LessThanType:    {},
	GreaterThanType: {},
	EqualToType:     {},
	IntervalType:    {},
	ZeroOneType:     {},
	IntegerType:     {},
}

// IsScalar reports whether members of sets of type t are scalars.
func (t SetType) IsScalar() bool {
	_, ok := scalarSetTypes[t]
	return ok
}

// VariableFunctionType is the function type of the constraint created by
// adding a variable constrained to a set of type t.
func VariableFunctionType(t SetType) FunctionType {
	if t.IsScalar() {
		return SingleVariableType
	}
	return VectorOfVariablesType
}

// SupportsDimensionUpdate reports whether a vector set of type t can lose
// a dimension and remain the same kind of set.
func SupportsDimensionUpdate(t SetType) bool {
	switch t {
	case RealsType, ZerosType, NonnegativesType, NonpositivesType:
		return true
	}
	return false
}

// Set is implemented by every set of the modeling vocabulary.
type Set interface {
	SetType() SetType
	String() string
	isSet()
}

// ScalarSet is a set of real numbers.
type ScalarSet interface {
	Set
	isScalarSet()
}

// VectorSet is a set of vectors of dimension Dimension().
type VectorSet interface {
	Set
	Dimension() int
	isVectorSet()
}

type LessThan struct{ Upper float64 }
type GreaterThan struct{ Lower float64 }
type EqualTo struct{ Value float64 }
type Interval struct{ Lower, Upper float64 }
type ZeroOne struct{}
type Integer struct{}

func (LessThan) SetType() SetType    { return LessThanType }
func (GreaterThan) SetType() SetType { return GreaterThanType }
func (EqualTo) SetType() SetType     { return EqualToType }
func (Interval) SetType() SetType    { return IntervalType }
func (ZeroOne) SetType() SetType     { return ZeroOneType }
func (Integer) SetType() SetType     { return IntegerType }

func (s LessThan) String() string    { return fmt.Sprintf("LessThan(%g)", s.Upper) }
func (s GreaterThan) String() string { return fmt.Sprintf("GreaterThan(%g)", s.Lower) }
func (s EqualTo) String() string     { return fmt.Sprintf("EqualTo(%g)", s.Value) }
func (s Interval) String() string    { return fmt.Sprintf("Interval(%g, %g)", s.Lower, s.Upper) }
func (ZeroOne) String() string       { return "ZeroOne" }
func (Integer) String() string       { return "Integer" }

func (LessThan) isSet()          {}
func (GreaterThan) isSet()       {}
func (EqualTo) isSet()           {}
func (Interval) isSet()          {}
func (ZeroOne) isSet()           {}
func (Integer) isSet()           {}
func (LessThan) isScalarSet()    {}
func (GreaterThan) isScalarSet() {}
func (EqualTo) isScalarSet()     {}
func (Interval) isScalarSet()    {}
func (ZeroOne) isScalarSet()     {}
func (Integer) isScalarSet()     {}

// Reals is the whole of R^Dim.
type Reals struct{ Dim int }

// Zeros is the singleton {0} in R^Dim.
type Zeros struct{ Dim int }

// Nonnegatives is the nonnegative orthant of R^Dim.
type Nonnegatives struct{ Dim int }

// Nonpositives is the nonpositive orthant of R^Dim.
type Nonpositives struct{ Dim int }

// SecondOrderCone is {(t, x) : t >= ||x||}.
type SecondOrderCone struct{ Dim int }

// RotatedSecondOrderCone is {(t, u, x) : 2tu >= ||x||^2, t, u >= 0}.
type RotatedSecondOrderCone struct{ Dim int }

func (Reals) SetType() SetType                  { return RealsType }
func (Zeros) SetType() SetType                  { return ZerosType }
func (Nonnegatives) SetType() SetType           { return NonnegativesType }
func (Nonpositives) SetType() SetType           { return NonpositivesType }
func (SecondOrderCone) SetType() SetType        { return SecondOrderConeType }
func (RotatedSecondOrderCone) SetType() SetType { return RotatedSecondOrderConeType }

func (s Reals) Dimension() int                  { return s.Dim }
func (s Zeros) Dimension() int                  { return s.Dim }
func (s Nonnegatives) Dimension() int           { return s.Dim }
func (s Nonpositives) Dimension() int           { return s.Dim }
func (s SecondOrderCone) Dimension() int        { return s.Dim }
func (s RotatedSecondOrderCone) Dimension() int { return s.Dim }

func (s Reals) String() string                  { return fmt.Sprintf("Reals(%d)", s.Dim) }
func (s Zeros) String() string                  { return fmt.Sprintf("Zeros(%d)", s.Dim) }
func (s Nonnegatives) String() string           { return fmt.Sprintf("Nonnegatives(%d)", s.Dim) }
func (s Nonpositives) String() string           { return fmt.Sprintf("Nonpositives(%d)", s.Dim) }
func (s SecondOrderCone) String() string        { return fmt.Sprintf("SecondOrderCone(%d)", s.Dim) }
func (s RotatedSecondOrderCone) String() string { return fmt.Sprintf("RotatedSecondOrderCone(%d)", s.Dim) }

func (Reals) isSet()                        {}
func (Zeros) isSet()                        {}
func (Nonnegatives) isSet()                 {}
func (Nonpositives) isSet()                 {}
func (SecondOrderCone) isSet()              {}
func (RotatedSecondOrderCone) isSet()       {}
func (Reals) isVectorSet()                  {}
func (Zeros) isVectorSet()                  {}
func (Nonnegatives) isVectorSet()           {}
func (Nonpositives) isVectorSet()           {}
func (SecondOrderCone) isVectorSet()        {}
func (RotatedSecondOrderCone) isVectorSet() {}

// ShiftConstant returns the set s + offset. Only sets defined by a constant
// can be shifted.
func ShiftConstant(s ScalarSet, offset float64) (ScalarSet, error) {
	switch s := s.(type) {
	case LessThan:
		return LessThan{Upper: s.Upper + offset}, nil
	case GreaterThan:
		return GreaterThan{Lower: s.Lower + offset}, nil
	case EqualTo:
		return EqualTo{Value: s.Value + offset}, nil
	case Interval:
		return Interval{Lower: s.Lower + offset, Upper: s.Upper + offset}, nil
	}
	return nil, &PreconditionError{Message: fmt.Sprintf("cannot shift the constant of %s", s)}
}

// UpdateDimension returns a set of the same type as s with dimension d.
func UpdateDimension(s VectorSet, d int) (VectorSet, error) {
	switch s.(type) {
	case Reals:
		return Reals{Dim: d}, nil
	case Zeros:
		return Zeros{Dim: d}, nil
	case Nonnegatives:
		return Nonnegatives{Dim: d}, nil
	case Nonpositives:
		return Nonpositives{Dim: d}, nil
	}
	return nil, &PreconditionError{Message: fmt.Sprintf("cannot change the dimension of %s", s)}
}

// TypeOf is the ConstraintType of an f-in-s constraint.
func TypeOf(f Function, s Set) ConstraintType {
	return ConstraintType{F: f.FunctionType(), S: s.SetType()}
}

// CheckCompatible reports an error when f and s cannot form a constraint,
// either because one is scalar and the other a vector or because their
// dimensions differ.
func CheckCompatible(f Function, s Set) error {
	switch s := s.(type) {
	case ScalarSet:
		if _, ok := f.(ScalarFunction); !ok {
			return &UnsupportedConstraintError{Type: TypeOf(f, s), Message: "scalar set needs a scalar function"}
		}
	case VectorSet:
		vf, ok := f.(VectorFunction)
		if !ok {
			return &UnsupportedConstraintError{Type: TypeOf(f, s), Message: "vector set needs a vector function"}
		}
		if vf.OutputDimension() != s.Dimension() {
			return &PreconditionError{Message: fmt.Sprintf("function of dimension %d does not match %s", vf.OutputDimension(), s)}
		}
	}
	return nil
}
