package constraint

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// mockType hands out the same mock bridge for every constraint.
type mockType struct {
	b Bridge
}

func (mockType) Name() string                                                   { return "Mock" }
func (mockType) Supports(moi.ConstraintType) bool                               { return true }
func (mockType) AddedConstrainedVariableTypes(moi.ConstraintType) []moi.SetType { return nil }
func (mockType) AddedConstraintTypes(moi.ConstraintType) []moi.ConstraintType   { return nil }

func (t mockType) Bridge(moi.ModelLike, moi.Function, moi.Set) (Bridge, error) {
	return t.b, nil
}

func TestMapKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBridge(ctrl)
	typ := mockType{b: b}

	keys := &bridge.Keys{}
	m := NewMap(keys)
	backend := model.New()
	vis, _ := backend.AddVariables(3)

	sv, err := m.Add(backend, typ, moi.SingleVariable{Variable: vis[1]}, moi.Interval{Lower: 0, Upper: 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, vis[1].Value, sv.Value)
	assert.False(t, sv.Virtual())

	vov, err := m.Add(backend, typ, moi.VectorOfVariables{Variables: vis[:2]}, moi.SecondOrderCone{Dim: 2}, 3)
	require.NoError(t, err)
	assert.True(t, vov.Virtual())
	assert.Equal(t, int64(-1), vov.Value)
	assert.Equal(t, 3, m.Context(vov))
	assert.Equal(t, vis[:2], m.Variables(vov))

	f := moi.NewScalarAffine(0, moi.Term(1, vis[0]))
	first, err := m.Add(backend, typ, f, moi.Interval{Lower: 0, Upper: 1}, 0)
	require.NoError(t, err)
	second, err := m.Add(backend, typ, f, moi.Interval{Lower: 0, Upper: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), first.Value)
	assert.Equal(t, int64(-3), second.Value)
	assert.True(t, first.Virtual())

	interval := moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.IntervalType}
	assert.Equal(t, 2, m.NumberOf(interval))
	assert.Equal(t, []moi.ConstraintIndex{first, second}, m.ListOf(interval))
	assert.Equal(t, []moi.ConstraintIndex{vov}, m.VectorOfVariablesConstraints())
	assert.Equal(t, []moi.ConstraintIndex{sv}, m.SingleVariableConstraints(vis[1]))
	assert.Empty(t, m.SingleVariableConstraints(vis[0]))
	assert.Len(t, m.Types(), 3)

	m.Delete(first)
	assert.False(t, m.Has(first))
	assert.Equal(t, []moi.ConstraintIndex{second}, m.ListOf(interval))
	assert.Equal(t, 3, m.Len())

	m.Clear()
	assert.False(t, m.HasBridges())
}

func TestMapBridgeFailure(t *testing.T) {
	m := NewMap(&bridge.Keys{})
	backend := model.New()

	_, err := m.Add(backend, SplitInterval, moi.SingleVariable{Variable: moi.VariableIndex{Value: 9}}, moi.Interval{Lower: 0, Upper: 1}, 0)
	require.Error(t, err)
	assert.True(t, moi.IsInvalidIndex(err))
	assert.False(t, m.HasBridges())
}

func TestMapDelegatesToBridge(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBridge(ctrl)
	backend := model.New()
	x, _ := backend.AddVariable()

	m := NewMap(&bridge.Keys{})
	ci, err := m.Add(backend, mockType{b: b}, moi.SingleVariable{Variable: x}, moi.ZeroOne{}, 0)
	require.NoError(t, err)

	b.EXPECT().Get(backend, moi.ConstraintSet{}).Return(moi.ZeroOne{}, nil)
	b.EXPECT().Constraints().Return([]moi.ConstraintIndex{{Type: safGT, Value: 1}, {Type: safLT, Value: 1}})

	s, err := m.Bridge(ci).Get(backend, moi.ConstraintSet{})
	require.NoError(t, err)
	assert.Equal(t, moi.ZeroOne{}, s)
	assert.Equal(t, 1, bridge.NumberOf(m.Bridge(ci), safGT))
}
