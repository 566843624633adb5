package objective

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func TestFunctionize(t *testing.T) {
	m := model.New()
	x, _ := m.AddVariable()

	b, err := Functionize.Bridge(m, moi.SingleVariable{Variable: x})
	require.NoError(t, err)

	ft, err := moi.Get[moi.FunctionType](m, moi.ObjectiveFunctionType{})
	require.NoError(t, err)
	assert.Equal(t, moi.ScalarAffineFunctionType, ft)

	f, err := b.Function(m)
	require.NoError(t, err)
	assert.Equal(t, moi.SingleVariable{Variable: x}, f)
	assert.True(t, moi.IsNotAllowed(b.Modify(m, moi.ScalarConstantChange{NewConstant: 1})))
}

func TestSlack(t *testing.T) {
	m := model.New()
	vis, _ := m.AddVariables(2)
	f := moi.NewScalarAffine(3, moi.Term(1, vis[0]), moi.Term(2, vis[1]))

	_, err := Slack.Bridge(m, f)
	require.True(t, moi.IsPrecondition(err))

	require.NoError(t, m.Set(moi.ObjectiveSense{}, moi.MinSense))
	b, err := Slack.Bridge(m, f)
	require.NoError(t, err)
	require.Len(t, b.Variables(), 1)
	slack := b.Variables()[0]

	obj, err := moi.Objective(m)
	require.NoError(t, err)
	assert.Equal(t, moi.SingleVariable{Variable: slack}, obj)

	ci := b.Constraints()[0]
	assert.Equal(t, moi.LessThanType, ci.Type.S)
	s, err := moi.GetConstraint[moi.Set](m, moi.ConstraintSet{}, ci)
	require.NoError(t, err)
	assert.Equal(t, moi.LessThan{Upper: -3}, s)

	got, err := b.Function(m)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("unexpected objective (-want +got):\n%s", diff)
	}

	require.NoError(t, b.Modify(m, moi.ScalarConstantChange{NewConstant: 5}))
	got, err = b.Function(m)
	require.NoError(t, err)
	assert.Equal(t, 5.0, moi.Constant(got))
	assert.True(t, moi.IsNotAllowed(b.Modify(m, moi.ScalarCoefficientChange{Variable: slack, NewCoefficient: 2})))

	require.NoError(t, m.Set(moi.ObjectiveSense{}, moi.MaxSense))
	require.NoError(t, b.SetSense(m, moi.MaxSense))
	assert.False(t, m.IsValidConstraint(ci))
	ci = b.Constraints()[0]
	assert.Equal(t, moi.GreaterThanType, ci.Type.S)
	got, err = b.Function(m)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.(moi.ScalarAffineFunction).Coefficient(vis[1]))
	assert.Equal(t, 5.0, moi.Constant(got))

	require.NoError(t, m.Set(moi.ObjectiveSense{}, moi.FeasibilitySense))
	require.NoError(t, b.Delete(m))
	n, err := moi.Get[int](m, moi.NumberOfVariables{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, m.IsValidConstraint(ci))
}

type fakeType struct{ Type }

func TestMapRoot(t *testing.T) {
	m := NewMap()
	_, ok := m.Root()
	assert.False(t, ok)

	m.Add(moi.SingleVariableType, Functionize, functionizeBridge{})
	m.Add(moi.ScalarAffineFunctionType, Slack, &slackBridge{})

	root, ok := m.Root()
	require.True(t, ok)
	assert.Equal(t, moi.ScalarAffineFunctionType, root)
	assert.Equal(t, []moi.FunctionType{moi.ScalarAffineFunctionType, moi.SingleVariableType}, m.Types())
	assert.Equal(t, Slack, m.Type(moi.ScalarAffineFunctionType))

	m.Add(moi.SingleVariableType, fakeType{Functionize}, functionizeBridge{})
	root, _ = m.Root()
	assert.Equal(t, moi.SingleVariableType, root)
	assert.Equal(t, 2, m.Len())

	m.Remove(moi.SingleVariableType)
	assert.False(t, m.Has(moi.SingleVariableType))
	m.Clear()
	assert.False(t, m.HasBridges())
}
