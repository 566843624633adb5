package constraint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func count(t *testing.T, m moi.ModelLike, ct moi.ConstraintType) int {
	t.Helper()
	n, err := moi.Get[int](m, moi.NumberOfConstraints{Type: ct})
	require.NoError(t, err)
	return n
}

var (
	safGT = moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.GreaterThanType}
	safLT = moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.LessThanType}
	safEQ = moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.EqualToType}
)

func TestSplitInterval(t *testing.T) {
	m := model.New()
	vis, _ := m.AddVariables(2)
	f := moi.NewScalarAffine(0, moi.Term(1, vis[0]), moi.Term(2, vis[1]))

	require.True(t, SplitInterval.Supports(moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.IntervalType}))
	require.False(t, SplitInterval.Supports(safGT))

	b, err := SplitInterval.Bridge(m, f, moi.Interval{Lower: 1, Upper: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, m, safGT))
	assert.Equal(t, 1, count(t, m, safLT))
	assert.Len(t, b.Constraints(), 2)

	s, err := b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.Interval{Lower: 1, Upper: 3}, s)

	got, err := b.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("unexpected function (-want +got):\n%s", diff)
	}

	require.NoError(t, b.Set(m, moi.ConstraintSet{}, moi.Interval{Lower: -1, Upper: 5}))
	s, err = b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.Interval{Lower: -1, Upper: 5}, s)

	require.NoError(t, b.Modify(m, moi.ScalarCoefficientChange{Variable: vis[1], NewCoefficient: 4}))
	got, err = b.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.(moi.ScalarAffineFunction).Coefficient(vis[1]))

	require.NoError(t, b.Delete(m))
	assert.Zero(t, count(t, m, safGT))
	assert.Zero(t, count(t, m, safLT))
}

func TestFlip(t *testing.T) {
	m := model.New()
	x, _ := m.AddVariable()
	f := moi.NewScalarAffine(0, moi.Term(3, x))

	b, err := GreaterToLess.Bridge(m, f, moi.GreaterThan{Lower: 2})
	require.NoError(t, err)
	assert.Zero(t, count(t, m, safGT))
	require.Equal(t, 1, count(t, m, safLT))

	child, err := moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, b.Constraints()[0])
	require.NoError(t, err)
	assert.Equal(t, moi.LessThan{Upper: -2}, child)

	s, err := b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.GreaterThan{Lower: 2}, s)

	got, err := b.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.(moi.ScalarAffineFunction).Coefficient(x))

	require.NoError(t, b.Set(m, moi.ConstraintSet{}, moi.GreaterThan{Lower: 7}))
	child, err = moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, b.Constraints()[0])
	require.NoError(t, err)
	assert.Equal(t, moi.LessThan{Upper: -7}, child)

	_, err = LessToGreater.Bridge(m, f, moi.LessThan{Upper: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, m, safGT))
}

func TestScalarize(t *testing.T) {
	m := model.New()
	vis, _ := m.AddVariables(2)
	f := moi.VectorAffineFunction{
		Terms: []moi.VectorAffineTerm{
			{OutputIndex: 0, Term: moi.Term(1, vis[0])},
			{OutputIndex: 1, Term: moi.Term(2, vis[1])},
		},
		Constants: []float64{1, -2},
	}

	b, err := Scalarize.Bridge(m, f, moi.Nonnegatives{Dim: 2})
	require.NoError(t, err)
	require.Equal(t, 2, count(t, m, safGT))

	rows := b.Constraints()
	s0, _ := moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, rows[0])
	s1, _ := moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, rows[1])
	assert.Equal(t, moi.GreaterThan{Lower: -1}, s0)
	assert.Equal(t, moi.GreaterThan{Lower: 2}, s1)

	got, err := b.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("unexpected function (-want +got):\n%s", diff)
	}
	s, err := b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.Nonnegatives{Dim: 2}, s)

	require.NoError(t, b.Modify(m, moi.VectorConstantChange{NewConstants: []float64{5, 6}}))
	s0, _ = moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, rows[0])
	assert.Equal(t, moi.GreaterThan{Lower: -5}, s0)

	err = b.Modify(m, moi.ScalarConstantChange{NewConstant: 1})
	assert.True(t, moi.IsNotAllowed(err))

	require.NoError(t, b.(PositionDeleter).DeletePosition(m, 0))
	assert.Equal(t, 1, count(t, m, safGT))
	s, err = b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.Nonnegatives{Dim: 1}, s)

	require.NoError(t, b.Delete(m))
	assert.Zero(t, count(t, m, safGT))
}

func TestVectorize(t *testing.T) {
	m := model.New()
	x, _ := m.AddVariable()
	f := moi.NewScalarAffine(0, moi.Term(2, x))
	vafNonpos := moi.ConstraintType{F: moi.VectorAffineFunctionType, S: moi.NonpositivesType}

	require.True(t, Vectorize.Supports(safLT))
	require.False(t, Vectorize.Supports(moi.ConstraintType{F: moi.SingleVariableType, S: moi.LessThanType}))

	b, err := Vectorize.Bridge(m, f, moi.LessThan{Upper: 3})
	require.NoError(t, err)
	require.Equal(t, 1, count(t, m, vafNonpos))

	child, err := moi.GetConstraint[moi.VectorAffineFunction](m, moi.ConstraintFunction{}, b.Constraints()[0])
	require.NoError(t, err)
	assert.Equal(t, []float64{-3}, child.Constants)

	s, err := b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.LessThan{Upper: 3}, s)

	got, err := b.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("unexpected function (-want +got):\n%s", diff)
	}

	require.NoError(t, b.Set(m, moi.ConstraintSet{}, moi.LessThan{Upper: 5}))
	s, err = b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.LessThan{Upper: 5}, s)

	require.NoError(t, b.Modify(m, moi.ScalarCoefficientChange{Variable: x, NewCoefficient: 4}))
	got, err = b.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.(moi.ScalarAffineFunction).Coefficient(x))
	s, err = b.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.LessThan{Upper: 5}, s)
}

func TestFunctionize(t *testing.T) {
	m := model.New()
	vis, _ := m.AddVariables(3)

	sb, err := ScalarFunctionize.Bridge(m, moi.SingleVariable{Variable: vis[0]}, moi.EqualTo{Value: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, m, safEQ))
	f, err := sb.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	assert.Equal(t, moi.SingleVariable{Variable: vis[0]}, f)
	assert.True(t, moi.IsNotAllowed(sb.Modify(m, moi.ScalarConstantChange{})))

	vov := moi.VectorOfVariables{Variables: vis}
	vb, err := VectorFunctionize.Bridge(m, vov, moi.Nonnegatives{Dim: 3})
	require.NoError(t, err)
	f, err = vb.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	assert.Equal(t, vov, f)

	require.NoError(t, vb.(PositionDeleter).DeletePosition(m, 1))
	f, err = vb.Get(m, moi.ConstraintFunction{})
	require.NoError(t, err)
	assert.Equal(t, moi.VectorOfVariables{Variables: []moi.VariableIndex{vis[0], vis[2]}}, f)
	s, err := vb.Get(m, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.Nonnegatives{Dim: 2}, s)
}
