package constraint

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// ScalarFunctionize turns SingleVariable-in-S into ScalarAffineFunction-in-S.
// It is also used for constraints forced into bridges because their
// variable is bridged.
var ScalarFunctionize Type = scalarFunctionizeType{}

type scalarFunctionizeType struct{}

func (scalarFunctionizeType) Name() string { return "ScalarFunctionize" }

func (scalarFunctionizeType) Supports(t moi.ConstraintType) bool {
	return t.F == moi.SingleVariableType && t.S.IsScalar()
}

func (scalarFunctionizeType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType {
	return nil
}

func (scalarFunctionizeType) AddedConstraintTypes(t moi.ConstraintType) []moi.ConstraintType {
	return []moi.ConstraintType{{F: moi.ScalarAffineFunctionType, S: t.S}}
}

func (scalarFunctionizeType) Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error) {
	ci, err := m.AddConstraint(moi.ToScalarAffine(f.(moi.ScalarFunction)), s)
	if err != nil {
		return nil, err
	}
	return &scalarFunctionizeBridge{constraint: ci}, nil
}

type scalarFunctionizeBridge struct {
	constraint moi.ConstraintIndex
}

func (b *scalarFunctionizeBridge) Variables() []moi.VariableIndex { return nil }

func (b *scalarFunctionizeBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *scalarFunctionizeBridge) Delete(m moi.ModelLike) error {
	return m.DeleteConstraint(b.constraint)
}

func (b *scalarFunctionizeBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintFunction); ok {
		f, err := moi.GetConstraint[moi.ScalarAffineFunction](m, attr, b.constraint)
		if err != nil {
			return nil, err
		}
		sv, ok := moi.AsSingleVariable(f)
		if !ok {
			return nil, &moi.PreconditionError{Message: "function " + f.String() + " is no longer a single variable"}
		}
		return sv, nil
	}
	return m.GetConstraintAttribute(attr, b.constraint)
}

func (b *scalarFunctionizeBridge) Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		sv, err := valueAs[moi.SingleVariable](attr, value)
		if err != nil {
			return err
		}
		return m.SetConstraintAttribute(attr, b.constraint, moi.VariableAsAffine(sv.Variable))
	case moi.ConstraintSet:
		return m.SetConstraintAttribute(attr, b.constraint, value)
	}
	return unsupported(attr, "ScalarFunctionize")
}

func (b *scalarFunctionizeBridge) Modify(_ moi.ModelLike, change moi.Change) error {
	return &moi.ModifyNotAllowedError{Change: change, Message: "SingleVariable functions cannot be modified"}
}

// VectorFunctionize turns VectorOfVariables-in-S into
// VectorAffineFunction-in-S.
var VectorFunctionize Type = vectorFunctionizeType{}

type vectorFunctionizeType struct{}

func (vectorFunctionizeType) Name() string { return "VectorFunctionize" }

func (vectorFunctionizeType) Supports(t moi.ConstraintType) bool {
	return t.F == moi.VectorOfVariablesType && t.S != "" && !t.S.IsScalar()
}

func (vectorFunctionizeType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType {
	return nil
}

func (vectorFunctionizeType) AddedConstraintTypes(t moi.ConstraintType) []moi.ConstraintType {
	return []moi.ConstraintType{{F: moi.VectorAffineFunctionType, S: t.S}}
}

func (vectorFunctionizeType) Bridge(m moi.ModelLike, f moi.Function, s moi.Set) (Bridge, error) {
	ci, err := m.AddConstraint(moi.ToVectorAffine(f.(moi.VectorFunction)), s)
	if err != nil {
		return nil, err
	}
	return &vectorFunctionizeBridge{constraint: ci}, nil
}

type vectorFunctionizeBridge struct {
	constraint moi.ConstraintIndex
}

func (b *vectorFunctionizeBridge) Variables() []moi.VariableIndex { return nil }

func (b *vectorFunctionizeBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *vectorFunctionizeBridge) Delete(m moi.ModelLike) error {
	return m.DeleteConstraint(b.constraint)
}

func (b *vectorFunctionizeBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintFunction); ok {
		f, err := moi.GetConstraint[moi.VectorAffineFunction](m, attr, b.constraint)
		if err != nil {
			return nil, err
		}
		vov, ok := moi.AsVectorOfVariables(f)
		if !ok {
			return nil, &moi.PreconditionError{Message: "function " + f.String() + " is no longer a vector of variables"}
		}
		return vov, nil
	}
	return m.GetConstraintAttribute(attr, b.constraint)
}

func (b *vectorFunctionizeBridge) Set(m moi.ModelLike, attr moi.ConstraintAttribute, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		vov, err := valueAs[moi.VectorOfVariables](attr, value)
		if err != nil {
			return err
		}
		return m.SetConstraintAttribute(attr, b.constraint, moi.ToVectorAffine(vov))
	case moi.ConstraintSet:
		return m.SetConstraintAttribute(attr, b.constraint, value)
	}
	return unsupported(attr, "VectorFunctionize")
}

func (b *vectorFunctionizeBridge) Modify(_ moi.ModelLike, change moi.Change) error {
	return &moi.ModifyNotAllowedError{Change: change, Message: "VectorOfVariables functions cannot be modified"}
}

// DeletePosition replaces the affine constraint by one without output i.
func (b *vectorFunctionizeBridge) DeletePosition(m moi.ModelLike, i int) error {
	f, err := moi.GetConstraint[moi.VectorAffineFunction](m, moi.ConstraintFunction{}, b.constraint)
	if err != nil {
		return err
	}
	s, err := moi.GetConstraint[moi.VectorSet](m, moi.ConstraintSet{}, b.constraint)
	if err != nil {
		return err
	}
	smaller, err := moi.UpdateDimension(s, s.Dimension()-1)
	if err != nil {
		return err
	}
	if err := m.DeleteConstraint(b.constraint); err != nil {
		return err
	}
	ci, err := m.AddConstraint(f.RemoveOutput(i), smaller)
	if err != nil {
		return err
	}
	b.constraint = ci
	return nil
}

var _ PositionDeleter = &vectorFunctionizeBridge{}
