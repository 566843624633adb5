package objective

import (
	"fmt"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Slack minimizes (maximizes) a new variable t constrained by f - t <= 0
// (f - t >= 0), so that only a SingleVariable objective is needed.
var Slack Type = slackType{}

type slackType struct{}

func (slackType) Name() string { return "Slack" }

func (slackType) Supports(f moi.FunctionType) bool {
	return f == moi.ScalarAffineFunctionType
}

func (slackType) AddedConstrainedVariableTypes(moi.FunctionType) []moi.SetType { return nil }

func (slackType) AddedConstraintTypes(moi.FunctionType) []moi.ConstraintType {
	return []moi.ConstraintType{
		{F: moi.ScalarAffineFunctionType, S: moi.GreaterThanType},
		{F: moi.ScalarAffineFunctionType, S: moi.LessThanType},
	}
}

func (slackType) SetObjectiveType(moi.FunctionType) moi.FunctionType {
	return moi.SingleVariableType
}

func (slackType) Bridge(m moi.ModelLike, f moi.ScalarFunction) (Bridge, error) {
	sense, err := moi.Get[moi.OptimizationSense](m, moi.ObjectiveSense{})
	if err != nil {
		return nil, err
	}
	if sense == moi.FeasibilitySense {
		return nil, &moi.PreconditionError{Message: "set the objective sense before bridging an objective through a slack variable"}
	}
	t, err := m.AddVariable()
	if err != nil {
		return nil, err
	}
	b := &slackBridge{slack: t}
	ci, err := b.addConstraint(m, moi.ToScalarAffine(f), sense)
	if err != nil {
		return nil, b.undo(m, err)
	}
	b.constraint = ci
	if err := m.Set(moi.ObjectiveFunction{Type: moi.SingleVariableType}, moi.SingleVariable{Variable: t}); err != nil {
		if derr := m.DeleteConstraint(ci); derr != nil {
			return nil, derr
		}
		return nil, b.undo(m, err)
	}
	return b, nil
}

type slackBridge struct {
	slack      moi.VariableIndex
	constraint moi.ConstraintIndex
}

func (b *slackBridge) undo(m moi.ModelLike, err error) error {
	if derr := m.Delete(b.slack); derr != nil {
		return derr
	}
	return err
}

// addConstraint adds f - t in LessThan(-c) for minimization and in
// GreaterThan(-c) for maximization, c being the constant of f.
func (b *slackBridge) addConstraint(m moi.ModelLike, f moi.ScalarAffineFunction, sense moi.OptimizationSense) (moi.ConstraintIndex, error) {
	g := f.WithConstant(0).Plus(moi.NewScalarAffine(0, moi.Term(-1, b.slack)))
	var s moi.Set = moi.LessThan{Upper: -f.Constant}
	if sense == moi.MaxSense {
		s = moi.GreaterThan{Lower: -f.Constant}
	}
	return m.AddConstraint(g, s)
}

func (b *slackBridge) Variables() []moi.VariableIndex {
	return []moi.VariableIndex{b.slack}
}

func (b *slackBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *slackBridge) Delete(m moi.ModelLike) error {
	if err := m.DeleteConstraint(b.constraint); err != nil {
		return err
	}
	return m.Delete(b.slack)
}

func (b *slackBridge) Function(m moi.ModelLike) (moi.ScalarFunction, error) {
	g, err := moi.GetConstraint[moi.ScalarAffineFunction](m, moi.ConstraintFunction{}, b.constraint)
	if err != nil {
		return nil, err
	}
	s, err := moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, b.constraint)
	if err != nil {
		return nil, err
	}
	var c float64
	switch s := s.(type) {
	case moi.LessThan:
		c = -s.Upper
	case moi.GreaterThan:
		c = -s.Lower
	default:
		return nil, &moi.PreconditionError{Message: fmt.Sprintf("unexpected slack constraint set %s", s)}
	}
	return g.Plus(moi.VariableAsAffine(b.slack)).WithConstant(c).Canonical(), nil
}

// SetSense re-adds the slack constraint in the other direction when the
// sense flips.
func (b *slackBridge) SetSense(m moi.ModelLike, sense moi.OptimizationSense) error {
	want := moi.LessThanType
	if sense == moi.MaxSense {
		want = moi.GreaterThanType
	}
	if sense == moi.FeasibilitySense || b.constraint.Type.S == want {
		return nil
	}
	f, err := b.Function(m)
	if err != nil {
		return err
	}
	if err := m.DeleteConstraint(b.constraint); err != nil {
		return err
	}
	ci, err := b.addConstraint(m, f.(moi.ScalarAffineFunction), sense)
	if err != nil {
		return err
	}
	b.constraint = ci
	return nil
}

func (b *slackBridge) Modify(m moi.ModelLike, change moi.Change) error {
	switch c := change.(type) {
	case moi.ScalarConstantChange:
		var s moi.Set = moi.LessThan{Upper: -c.NewConstant}
		if b.constraint.Type.S == moi.GreaterThanType {
			s = moi.GreaterThan{Lower: -c.NewConstant}
		}
		return m.SetConstraintAttribute(moi.ConstraintSet{}, b.constraint, s)
	case moi.ScalarCoefficientChange:
		if c.Variable == b.slack {
			return &moi.ModifyNotAllowedError{Change: change, Message: "variable is the objective slack"}
		}
		return m.Modify(b.constraint, change)
	}
	return &moi.ModifyNotAllowedError{Change: change}
}
