package constraint

import (
	"fmt"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Scalarize turns a VectorAffineFunction in Nonnegatives, Nonpositives or
// Zeros into one ScalarAffineFunction constraint per row, in GreaterThan,
// LessThan or EqualTo respectively. Row constants move into the sets.
var Scalarize Type = scalarizeType{}

type scalarizeType struct{}

func (scalarizeType) Name() string { return "Scalarize" }

func (scalarizeType) Supports(t moi.ConstraintType) bool {
	_, ok := toScalar[t.S]
	return ok && t.F == moi.VectorAffineFunctionType
}

func (scalarizeType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType {
	return nil
}

func (scalarizeType) AddedConstraintTypes(t moi.ConstraintType) []moi.ConstraintType {
	return []moi.ConstraintType{{F: moi.ScalarAffineFunctionType, S: toScalar[t.S]}}
}

func (scalarizeType) Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error) {
	b := &scalarizeBridge{set: s.SetType()}
	for _, row := range f.(moi.VectorAffineFunction).Rows() {
		ci, err := m.AddConstraint(row.WithConstant(0), scalarSet(toScalar[b.set], -row.Constant))
		if err != nil {
			if derr := b.Delete(m); derr != nil {
				return nil, derr
			}
			return nil, err
		}
		b.constraints = append(b.constraints, ci)
	}
	return b, nil
}

type scalarizeBridge struct {
	set         moi.SetType
	constraints []moi.ConstraintIndex
}

func (b *scalarizeBridge) Variables() []moi.VariableIndex { return nil }

func (b *scalarizeBridge) Constraints() []moi.ConstraintIndex {
	return append([]moi.ConstraintIndex(nil), b.constraints...)
}

func (b *scalarizeBridge) Delete(m moi.ModelLike) error {
	for _, ci := range b.constraints {
		if err := m.DeleteConstraint(ci); err != nil {
			return err
		}
	}
	return nil
}

// constants returns the row constants, the opposite of the child bounds.
func (b *scalarizeBridge) constants(m moi.ModelLike) ([]float64, error) {
	out := make([]float64, len(b.constraints))
	for i, ci := range b.constraints {
		s, err := moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, ci)
		if err != nil {
			return nil, err
		}
		v, err := bound(s)
		if err != nil {
			return nil, err
		}
		out[i] = -v
	}
	return out, nil
}

func (b *scalarizeBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	switch attr.(type) {
	case moi.ConstraintFunction:
		constants, err := b.constants(m)
		if err != nil {
			return nil, err
		}
		rows := make([]moi.ScalarAffineFunction, len(b.constraints))
		for i, ci := range b.constraints {
			row, err := moi.GetConstraint[moi.ScalarAffineFunction](m, attr, ci)
			if err != nil {
				return nil, err
			}
			rows[i] = row.WithConstant(constants[i])
		}
		return moi.VectorAffineFromRows(rows), nil
	case moi.ConstraintSet:
		return vectorSet(b.set, len(b.constraints)), nil
	case moi.ConstraintPrimal, moi.ConstraintDual:
		var constants []float64
		if _, ok := attr.(moi.ConstraintPrimal); ok {
			var err error
			if constants, err = b.constants(m); err != nil {
				return nil, err
			}
		}
		out := make([]float64, len(b.constraints))
		for i, ci := range b.constraints {
			v, err := moi.GetConstraint[float64](m, attr, ci)
			if err != nil {
				return nil, err
			}
			out[i] = v
			if constants != nil {
				out[i] += constants[i]
			}
		}
		return out, nil
	}
	return nil, unsupported(attr, "Scalarize")
}

func (b *scalarizeBridge) Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		f, err := valueAs[moi.VectorAffineFunction](attr, value)
		if err != nil {
			return err
		}
		rows := f.Rows()
		if len(rows) != len(b.constraints) {
			return &moi.PreconditionError{Message: fmt.Sprintf("function of dimension %d does not match %d rows", len(rows), len(b.constraints))}
		}
		for i, ci := range b.constraints {
			if err := m.SetConstraintAttribute(attr, ci, rows[i].WithConstant(0)); err != nil {
				return err
			}
			if err := m.SetConstraintAttribute(moi.ConstraintSet{}, ci, scalarSet(toScalar[b.set], -rows[i].Constant)); err != nil {
				return err
			}
		}
		return nil
	case moi.ConstraintSet:
		s, err := valueAs[moi.VectorSet](attr, value)
		if err != nil {
			return err
		}
		if s.Dimension() != len(b.constraints) {
			return &moi.PreconditionError{Message: fmt.Sprintf("%s does not match %d rows", s, len(b.constraints))}
		}
		return nil
	}
	return unsupported(attr, "Scalarize")
}

func (b *scalarizeBridge) Modify(m moi.ModelLike, change moi.Change) error {
	c, ok := change.(moi.VectorConstantChange)
	if !ok {
		return &moi.ModifyNotAllowedError{Change: change}
	}
	if len(c.NewConstants) != len(b.constraints) {
		return &moi.PreconditionError{Message: fmt.Sprintf("%s does not match %d rows", c, len(b.constraints))}
	}
	for i, ci := range b.constraints {
		if err := m.SetConstraintAttribute(moi.ConstraintSet{}, ci, scalarSet(toScalar[b.set], -c.NewConstants[i])); err != nil {
			return err
		}
	}
	return nil
}

func (b *scalarizeBridge) DeletePosition(m moi.ModelLike, i int) error {
	if err := m.DeleteConstraint(b.constraints[i]); err != nil {
		return err
	}
	b.constraints = append(b.constraints[:i:i], b.constraints[i+1:]...)
	return nil
}

// Vectorize turns f-in-GreaterThan(l), LessThan(u) or EqualTo(c) into
// [f - bound] in the one-dimensional Nonnegatives, Nonpositives or Zeros.
var Vectorize Type = vectorizeType{}

type vectorizeType struct{}

func (vectorizeType) Name() string { return "Vectorize" }

func (vectorizeType) Supports(t moi.ConstraintType) bool {
	_, ok := toVector[t.S]
	return ok && t.F == moi.ScalarAffineFunctionType
}

func (vectorizeType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType {
	return nil
}

func (vectorizeType) AddedConstraintTypes(t moi.ConstraintType) []moi.ConstraintType {
	return []moi.ConstraintType{{F: moi.VectorAffineFunctionType, S: toVector[t.S]}}
}

func (vectorizeType) Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error) {
	v, err := bound(s)
	if err != nil {
		return nil, err
	}
	row := f.(moi.ScalarAffineFunction).WithConstant(-v)
	ci, err := m.AddConstraint(moi.VectorAffineFromRows([]moi.ScalarAffineFunction{row}), vectorSet(toVector[s.SetType()], 1))
	if err != nil {
		return nil, err
	}
	return &vectorizeBridge{set: s.SetType(), constraint: ci}, nil
}

type vectorizeBridge struct {
	set        moi.SetType
	constraint moi.ConstraintIndex
}

func (b *vectorizeBridge) Variables() []moi.VariableIndex { return nil }

func (b *vectorizeBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *vectorizeBridge) Delete(m moi.ModelLike) error {
	return m.DeleteConstraint(b.constraint)
}

func (b *vectorizeBridge) row(m moi.ModelLike) (moi.ScalarAffineFunction, error) {
	f, err := moi.GetConstraint[moi.VectorAffineFunction](m, moi.ConstraintFunction{}, b.constraint)
	if err != nil {
		return moi.ScalarAffineFunction{}, err
	}
	rows := f.Rows()
	if len(rows) != 1 {
		return moi.ScalarAffineFunction{}, &moi.PreconditionError{Message: fmt.Sprintf("expected one row, got %d", len(rows))}
	}
	return rows[0], nil
}

func (b *vectorizeBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	switch attr.(type) {
	case moi.ConstraintFunction:
		row, err := b.row(m)
		if err != nil {
			return nil, err
		}
		return row.WithConstant(0), nil
	case moi.ConstraintSet:
		row, err := b.row(m)
		if err != nil {
			return nil, err
		}
		return scalarSet(b.set, -row.Constant), nil
	case moi.ConstraintPrimal, moi.ConstraintDual:
		v, err := moi.GetConstraint[[]float64](m, attr, b.constraint)
		if err != nil {
			return nil, err
		}
		if len(v) != 1 {
			return nil, &moi.PreconditionError{Message: fmt.Sprintf("expected one value, got %d", len(v))}
		}
		if _, ok := attr.(moi.ConstraintDual); ok {
			return v[0], nil
		}
		row, err := b.row(m)
		if err != nil {
			return nil, err
		}
		return v[0] - row.Constant, nil
	}
	return nil, unsupported(attr, "Vectorize")
}

func (b *vectorizeBridge) Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		f, err := valueAs[moi.ScalarAffineFunction](attr, value)
		if err != nil {
			return err
		}
		row, err := b.row(m)
		if err != nil {
			return err
		}
		g := moi.VectorAffineFromRows([]moi.ScalarAffineFunction{f.WithConstant(row.Constant)})
		return m.SetConstraintAttribute(attr, b.constraint, g)
	case moi.ConstraintSet:
		s, err := valueAs[moi.Set](attr, value)
		if err != nil {
			return err
		}
		v, err := bound(s)
		if err != nil {
			return err
		}
		return m.Modify(b.constraint, moi.VectorConstantChange{NewConstants: []float64{-v}})
	}
	return unsupported(attr, "Vectorize")
}

func (b *vectorizeBridge) Modify(m moi.ModelLike, change moi.Change) error {
	return modifyFunction(m, b, change)
}

var _ PositionDeleter = &scalarizeBridge{}
