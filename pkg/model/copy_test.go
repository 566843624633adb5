package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// freeOnly is a destination that cannot create constrained variables.
type freeOnly struct {
	*Model
}

func (freeOnly) SupportsAddConstrainedVariable(moi.SetType) bool  { return false }
func (freeOnly) SupportsAddConstrainedVariables(moi.SetType) bool { return false }

func buildSource(t *testing.T) (*Model, []moi.VariableIndex, moi.ConstraintIndex, moi.ConstraintIndex) {
	src := New()
	vis, cone, err := src.AddConstrainedVariables(moi.Nonnegatives{Dim: 2})
	require.NoError(t, err)
	z, _, err := src.AddConstrainedVariable(moi.ZeroOne{})
	require.NoError(t, err)
	vis = append(vis, z)
	row, err := src.AddConstraint(moi.NewScalarAffine(0, moi.Term(1, vis[0]), moi.Term(-1, z)), moi.LessThan{Upper: 0})
	require.NoError(t, err)

	require.NoError(t, src.SetVariableAttribute(moi.VariableName{}, z, "z"))
	require.NoError(t, src.SetConstraintAttribute(moi.ConstraintName{}, row, "link"))
	require.NoError(t, src.Set(moi.ObjectiveSense{}, moi.MaxSense))
	require.NoError(t, src.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, moi.NewScalarAffine(1, moi.Term(2, z))))
	return src, vis, cone, row
}

func TestCopyTo(t *testing.T) {
	type tc struct {
		Name string
		Dest func() moi.ModelLike
	}

	for _, tt := range []tc{
		{Name: "constrained variables", Dest: func() moi.ModelLike { return New() }},
		{Name: "free variables", Dest: func() moi.ModelLike { return freeOnly{New()} }},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			src, vis, cone, row := buildSource(t)
			dest := tt.Dest()

			idx, err := CopyTo(dest, src)
			require.NoError(t, err)
			assert.Equal(t, 3, idx.NumVariables())
			assert.Equal(t, 3, idx.NumConstraints())

			for _, v := range vis {
				dv, ok := idx.Variable(v)
				require.True(t, ok)
				back, ok := idx.VariableSource(dv)
				require.True(t, ok)
				assert.Equal(t, v, back)
			}

			dcone, ok := idx.Constraint(cone)
			require.True(t, ok)
			f, err := moi.GetConstraint[moi.VectorOfVariables](dest, moi.ConstraintFunction{}, dcone)
			require.NoError(t, err)
			d0, _ := idx.Variable(vis[0])
			d1, _ := idx.Variable(vis[1])
			assert.Equal(t, []moi.VariableIndex{d0, d1}, f.Variables)

			drow, _ := idx.Constraint(row)
			name, err := moi.GetConstraint[string](dest, moi.ConstraintName{}, drow)
			require.NoError(t, err)
			assert.Equal(t, "link", name)

			dz, _ := idx.Variable(vis[2])
			vname, err := moi.GetVariable[string](dest, moi.VariableName{}, dz)
			require.NoError(t, err)
			assert.Equal(t, "z", vname)

			sense, err := moi.Get[moi.OptimizationSense](dest, moi.ObjectiveSense{})
			require.NoError(t, err)
			assert.Equal(t, moi.MaxSense, sense)
			obj, err := moi.Objective(dest)
			require.NoError(t, err)
			assert.Equal(t, moi.NewScalarAffine(1, moi.Term(2, dz)), obj)
		})
	}
}

func TestCopyToNonEmpty(t *testing.T) {
	src, _, _, _ := buildSource(t)
	dest := New()
	_, _ = dest.AddVariable()
	_, err := CopyTo(dest, src)
	assert.True(t, moi.IsPrecondition(err))
}

func TestIndexMap(t *testing.T) {
	m := NewIndexMap()
	a, b := moi.VariableIndex{Value: 1}, moi.VariableIndex{Value: 7}
	m.SetVariable(a, b)
	m.SetVariable(a, moi.VariableIndex{Value: 8})
	_, ok := m.VariableSource(b)
	assert.False(t, ok, "overwritten entries must leave the reverse map")

	ct := moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.LessThanType}
	c1, c2 := moi.ConstraintIndex{Type: ct, Value: 1}, moi.ConstraintIndex{Type: ct, Value: 2}
	m.SetConstraint(c2, c1)
	m.SetConstraint(c1, c2)
	assert.Equal(t, []moi.ConstraintIndex{c2, c1}, m.Constraints())

	m.DeleteConstraint(c2)
	_, ok = m.ConstraintSource(c1)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())

	f, err := m.MapFunction(moi.NewScalarAffine(0, moi.Term(1, a)))
	require.NoError(t, err)
	assert.Equal(t, moi.NewScalarAffine(0, moi.Term(1, moi.VariableIndex{Value: 8})), f)
	_, err = m.MapFunction(moi.SingleVariable{Variable: b})
	assert.True(t, moi.IsInvalidIndex(err))
}
