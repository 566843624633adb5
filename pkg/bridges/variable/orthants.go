package variable

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Zeros realizes variables in Zeros as the constant zero. It creates no
// artifacts.
var Zeros Type = zerosType{}

type zerosType struct{}

func (zerosType) Name() string                                            { return "Zeros" }
func (zerosType) Supports(s moi.SetType) bool                             { return s == moi.ZerosType }
func (zerosType) AddedConstrainedVariableTypes(moi.SetType) []moi.SetType { return nil }
func (zerosType) AddedConstraintTypes(moi.SetType) []moi.ConstraintType   { return nil }

func (zerosType) Bridge(_ moi.ModelLike, s moi.Set) (Bridge, error) {
	return &zerosBridge{n: s.(moi.VectorSet).Dimension()}, nil
}

type zerosBridge struct {
	n int
}

func (b *zerosBridge) Variables() []moi.VariableIndex     { return nil }
func (b *zerosBridge) Constraints() []moi.ConstraintIndex { return nil }
func (b *zerosBridge) Delete(moi.ModelLike) error         { return nil }

func (b *zerosBridge) Function(int) moi.ScalarAffineFunction {
	return moi.ScalarAffineFunction{}
}

func (b *zerosBridge) Get(_ moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	return nil, unsupported(attr, "Zeros")
}

func (b *zerosBridge) DeleteIndex(moi.ModelLike, int) error {
	b.n--
	return nil
}

// Free realizes free variables in Reals as the difference of two
// nonnegative variables.
var Free Type = freeType{}

type freeType struct{}

func (freeType) Name() string                { return "Free" }
func (freeType) Supports(s moi.SetType) bool { return s == moi.RealsType }

func (freeType) AddedConstrainedVariableTypes(moi.SetType) []moi.SetType {
	return []moi.SetType{moi.NonnegativesType}
}

func (freeType) AddedConstraintTypes(moi.SetType) []moi.ConstraintType { return nil }

func (freeType) Bridge(m moi.ModelLike, s moi.Set) (Bridge, error) {
	n := s.(moi.VectorSet).Dimension()
	vis, ci, err := m.AddConstrainedVariables(moi.Nonnegatives{Dim: 2 * n})
	if err != nil {
		return nil, err
	}
	return &freeBridge{
		plus:       vis[:n:n],
		minus:      append([]moi.VariableIndex(nil), vis[n:]...),
		constraint: ci,
	}, nil
}

type freeBridge struct {
	plus, minus []moi.VariableIndex
	constraint  moi.ConstraintIndex
}

func (b *freeBridge) Variables() []moi.VariableIndex {
	return append(append([]moi.VariableIndex(nil), b.plus...), b.minus...)
}

func (b *freeBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *freeBridge) Delete(m moi.ModelLike) error {
	return m.DeleteVariables(b.Variables())
}

func (b *freeBridge) Function(i int) moi.ScalarAffineFunction {
	return moi.NewScalarAffine(0, moi.Term(1, b.plus[i]), moi.Term(-1, b.minus[i]))
}

func (b *freeBridge) Get(_ moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintDual); ok {
		return make([]float64, len(b.plus)), nil
	}
	return nil, unsupported(attr, "Free")
}

func (b *freeBridge) DeleteIndex(m moi.ModelLike, i int) error {
	if err := m.DeleteVariables([]moi.VariableIndex{b.plus[i], b.minus[i]}); err != nil {
		return err
	}
	b.plus = append(b.plus[:i:i], b.plus[i+1:]...)
	b.minus = append(b.minus[:i:i], b.minus[i+1:]...)
	return nil
}

// NonposToNonneg realizes x in Nonpositives as -y with y in Nonnegatives.
var NonposToNonneg Type = nonposType{}

type nonposType struct{}

func (nonposType) Name() string                { return "NonposToNonneg" }
func (nonposType) Supports(s moi.SetType) bool { return s == moi.NonpositivesType }

func (nonposType) AddedConstrainedVariableTypes(moi.SetType) []moi.SetType {
	return []moi.SetType{moi.NonnegativesType}
}

func (nonposType) AddedConstraintTypes(moi.SetType) []moi.ConstraintType { return nil }

func (nonposType) Bridge(m moi.ModelLike, s moi.Set) (Bridge, error) {
	vis, ci, err := m.AddConstrainedVariables(moi.Nonnegatives{Dim: s.(moi.VectorSet).Dimension()})
	if err != nil {
		return nil, err
	}
	return &nonposBridge{variables: vis, constraint: ci}, nil
}

type nonposBridge struct {
	variables  []moi.VariableIndex
	constraint moi.ConstraintIndex
}

func (b *nonposBridge) Variables() []moi.VariableIndex {
	return append([]moi.VariableIndex(nil), b.variables...)
}

func (b *nonposBridge) Constraints() []moi.ConstraintIndex {
	return []moi.ConstraintIndex{b.constraint}
}

func (b *nonposBridge) Delete(m moi.ModelLike) error {
	return m.DeleteVariables(b.variables)
}

func (b *nonposBridge) Function(i int) moi.ScalarAffineFunction {
	return moi.NewScalarAffine(0, moi.Term(-1, b.variables[i]))
}

func (b *nonposBridge) Inverse(v moi.VariableIndex, keys []moi.VariableIndex) (moi.ScalarAffineFunction, bool) {
	for i, y := range b.variables {
		if y == v {
			return moi.NewScalarAffine(0, moi.Term(-1, keys[i])), true
		}
	}
	return moi.ScalarAffineFunction{}, false
}

func (b *nonposBridge) Get(m moi.ModelLike, attr moi.ConstraintAttribute) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintDual); !ok {
		return nil, unsupported(attr, "NonposToNonneg")
	}
	dual, err := childDual(m, b.constraint)
	if err != nil {
		return nil, err
	}
	for i := range dual {
		dual[i] = -dual[i]
	}
	return dual, nil
}

func (b *nonposBridge) DeleteIndex(m moi.ModelLike, i int) error {
	if err := m.Delete(b.variables[i]); err != nil {
		return err
	}
	b.variables = append(b.variables[:i:i], b.variables[i+1:]...)
	return nil
}

var (
	_ IndexDeleter = &zerosBridge{}
	_ IndexDeleter = &freeBridge{}
	_ IndexDeleter = &nonposBridge{}
	_ Inverter     = &nonposBridge{}
)
