package moi

import "fmt"

// VariableIndex identifies a variable within a single model. Indices with a
// negative Value are virtual: they exist only as the key of a variable
// bridge and never reach the wrapped backend.
type VariableIndex struct {
	Value int64
}

// Virtual reports whether the index belongs to the negative range reserved
// for bridge artifacts.
func (v VariableIndex) Virtual() bool {
	return v.Value < 0
}

func (v VariableIndex) String() string {
	return fmt.Sprintf("x[%d]", v.Value)
}

// MustVirtualVariable returns the virtual VariableIndex with the given tag.
// It panics if tag is not strictly negative.
func MustVirtualVariable(tag int64) VariableIndex {
	if tag >= 0 {
		panic(fmt.Sprintf("virtual variable index must be negative, got %d", tag))
	}
	return VariableIndex{Value: tag}
}

// ConstraintType is the (function, set) pair that parameterizes a
// constraint index.
type ConstraintType struct {
	F FunctionType
	S SetType
}

func (t ConstraintType) String() string {
	return fmt.Sprintf("%s-in-%s", t.F, t.S)
}

// ConstraintIndex identifies a constraint within a single model. Two
// constraint indices are equal iff both their Type and Value match.
//
// A negative Value marks a constraint that exists only as a bridge artifact;
// non-negative values are used by backend-resident constraints. The one
// exception is a SingleVariable constraint, whose Value is that of its
// variable: it is bridged when the variable is virtual or its type is
// bridged.
type ConstraintIndex struct {
	Type  ConstraintType
	Value int64
}

// Virtual reports whether the index belongs to the negative range reserved
// for bridge artifacts.
func (c ConstraintIndex) Virtual() bool {
	return c.Value < 0
}

func (c ConstraintIndex) String() string {
	return fmt.Sprintf("c[%s,%d]", c.Type, c.Value)
}

// MustVirtualConstraint returns the virtual ConstraintIndex of type t with
// the given tag. It panics if tag is not strictly negative.
func MustVirtualConstraint(t ConstraintType, tag int64) ConstraintIndex {
	if tag >= 0 {
		panic(fmt.Sprintf("virtual constraint index must be negative, got %d", tag))
	}
	return ConstraintIndex{Type: t, Value: tag}
}

// SingleVariableConstraintIndex returns the index a model assigns to a
// SingleVariable-in-s constraint on vi. By convention its value equals the
// variable's, which is what makes duplicate detection possible.
func SingleVariableConstraintIndex(vi VariableIndex, s SetType) ConstraintIndex {
	return ConstraintIndex{
		Type:  ConstraintType{F: SingleVariableType, S: s},
		Value: vi.Value,
	}
}
