package constraint

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// SplitInterval turns f-in-Interval(l, u) into f-in-GreaterThan(l) and
// f-in-LessThan(u).
var SplitInterval Type = splitIntervalType{}

type splitIntervalType struct{}

func (splitIntervalType) Name() string { return "SplitInterval" }

func (splitIntervalType) Supports(t moi.ConstraintType) bool {
	return t.S == moi.IntervalType && t.F.IsScalar()
}

func (splitIntervalType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType {
	return nil
}

func (splitIntervalType) AddedConstraintTypes(t moi.ConstraintType) []moi.ConstraintType {
	return []moi.ConstraintType{
		{F: t.F, S: moi.GreaterThanType},
		{F: t.F, S: moi.LessThanType},
	}
}

func (splitIntervalType) Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error) {
	interval := s.(moi.Interval)
	lower, err := m.AddConstraint(f, moi.GreaterThan{Lower: interval.Lower})
	if err != nil {
		return nil, err
	}
	upper, err := m.AddConstraint(f, moi.LessThan{Upper: interval.Upper})
	if err != nil {
		if derr := m.DeleteConstraint(lower); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return &splitIntervalBridge{lower: lower, upper: upper}, nil
}

type splitIntervalBridge struct {
	lower, upper moi.ConstraintIndex
}

func (b *splitIntervalBridge) Variables() []moi.VariableIndex { return nil }

func (b *splitIntervalBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.lower, b.upper}
}

func (b *splitIntervalBridge) Delete(m moi.ModelLike) error {
	if err := m.DeleteConstraint(b.upper); err != nil {
		return err
	}
	return m.DeleteConstraint(b.lower)
}

func (b *splitIntervalBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	switch attr.(type) {
	case moi.ConstraintFunction, moi.ConstraintPrimal:
		return m.GetConstraintAttribute(attr, b.lower)
	case moi.ConstraintSet:
		lower, err := moi.GetConstraint[moi.GreaterThan](m, attr, b.lower)
		if err != nil {
			return nil, err
		}
		upper, err := moi.GetConstraint[moi.LessThan](m, attr, b.upper)
		if err != nil {
			return nil, err
		}
		return moi.Interval{Lower: lower.Lower, Upper: upper.Upper}, nil
	case moi.ConstraintDual:
		lower, err := moi.GetConstraint[float64](m, attr, b.lower)
		if err != nil {
			return nil, err
		}
		upper, err := moi.GetConstraint[float64](m, attr, b.upper)
		if err != nil {
			return nil, err
		}
		return lower + upper, nil
	}
	return nil, unsupported(attr, "SplitInterval")
}

func (b *splitIntervalBridge) Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		if err := m.SetConstraintAttribute(attr, b.lower, value); err != nil {
			return err
		}
		return m.SetConstraintAttribute(attr, b.upper, value)
	case moi.ConstraintSet:
		interval, err := valueAs[moi.Interval](attr, value)
		if err != nil {
			return err
		}
		if err := m.SetConstraintAttribute(attr, b.lower, moi.GreaterThan{Lower: interval.Lower}); err != nil {
			return err
		}
		return m.SetConstraintAttribute(attr, b.upper, moi.LessThan{Upper: interval.Upper})
	}
	return unsupported(attr, "SplitInterval")
}

func (b *splitIntervalBridge) Modify(m moi.ModelLike, change moi.Change) error {
	if err := m.Modify(b.lower, change); err != nil {
		return err
	}
	return m.Modify(b.upper, change)
}

// GreaterToLess turns f-in-GreaterThan(l) into -f-in-LessThan(-l).
var GreaterToLess Type = flipType{name: "GreaterToLess", from: moi.GreaterThanType, to: moi.LessThanType}

// LessToGreater turns f-in-LessThan(u) into -f-in-GreaterThan(-u).
var LessToGreater Type = flipType{name: "LessToGreater", from: moi.LessThanType, to: moi.GreaterThanType}

type flipType struct {
	name     string
	from, to moi.SetType
}

func (t flipType) Name() string { return t.name }

func (t flipType) Supports(ct moi.ConstraintType) bool {
	return ct.F == moi.ScalarAffineFunctionType && ct.S == t.from
}

func (flipType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType {
	return nil
}

func (t flipType) AddedConstraintTypes(moi.ConstraintType) []moi.ConstraintType {
	return []moi.ConstraintType{{F: moi.ScalarAffineFunctionType, S: t.to}}
}

func (t flipType) Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error) {
	ci, err := m.AddConstraint(f.(moi.ScalarAffineFunction).Scale(-1), flip(s))
	if err != nil {
		return nil, err
	}
	return &flipBridge{name: t.name, constraint: ci}, nil
}

func flip(s moi.Set) moi.Set {
	switch s := s.(type) {
	case moi.GreaterThan:
		return moi.LessThan{Upper: -s.Lower}
	case moi.LessThan:
		return moi.GreaterThan{Lower: -s.Upper}
	}
	return s
}

type flipBridge struct {
	name       string
	constraint moi.ConstraintIndex
}

func (b *flipBridge) Variables() []moi.VariableIndex { return nil }

func (b *flipBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *flipBridge) Delete(m moi.ModelLike) error {
	return m.DeleteConstraint(b.constraint)
}

func (b *flipBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	switch attr.(type) {
	case moi.ConstraintFunction:
		f, err := moi.GetConstraint[moi.ScalarAffineFunction](m, attr, b.constraint)
		if err != nil {
			return nil, err
		}
		return f.Scale(-1), nil
	case moi.ConstraintSet:
		s, err := moi.GetConstraint[moi.Set](m, attr, b.constraint)
		if err != nil {
			return nil, err
		}
		return flip(s), nil
	case moi.ConstraintPrimal, moi.ConstraintDual:
		v, err := moi.GetConstraint[float64](m, attr, b.constraint)
		if err != nil {
			return nil, err
		}
		return -v, nil
	}
	return nil, unsupported(attr, b.name)
}

func (b *flipBridge) Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		f, err := valueAs[moi.ScalarAffineFunction](attr, value)
		if err != nil {
			return err
		}
		return m.SetConstraintAttribute(attr, b.constraint, f.Scale(-1))
	case moi.ConstraintSet:
		s, err := valueAs[moi.Set](attr, value)
		if err != nil {
			return err
		}
		return m.SetConstraintAttribute(attr, b.constraint, flip(s))
	}
	return unsupported(attr, b.name)
}

func (b *flipBridge) Modify(m moi.ModelLike, change moi.Change) error {
	return modifyFunction(m, b, change)
}
