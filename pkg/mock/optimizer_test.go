package mock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func TestSupportRestrictions(t *testing.T) {
	lt := moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.LessThanType}
	gt := moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.GreaterThanType}
	o := New(WithConstraints(lt), WithObjectives(moi.SingleVariableType))

	assert.True(t, o.SupportsConstraint(lt))
	assert.False(t, o.SupportsConstraint(gt))
	assert.False(t, o.SupportsAddConstrainedVariable(moi.GreaterThanType))
	assert.True(t, o.Supports(moi.ObjectiveFunction{Type: moi.SingleVariableType}))
	assert.False(t, o.Supports(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}))

	x, err := o.AddVariable()
	require.NoError(t, err)
	_, err = o.AddConstraint(moi.NewScalarAffine(0, moi.Term(1, x)), moi.GreaterThan{Lower: 0})
	assert.True(t, moi.IsUnsupported(err))
	err = o.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, moi.NewScalarAffine(0, moi.Term(1, x)))
	assert.True(t, moi.IsUnsupported(err))

	o = New(WithConstraints(lt), WithConstrainedVariables(moi.IntegerType))
	assert.True(t, o.SupportsAddConstrainedVariable(moi.IntegerType))
	assert.False(t, o.SupportsAddConstrainedVariable(moi.LessThanType))
}

func TestNotAllowed(t *testing.T) {
	o := New(WithAddNotAllowed())
	_, err := o.AddVariable()
	assert.True(t, moi.IsNotAllowed(err))

	o = New(WithModifyNotAllowed(), WithDeleteNotAllowed())
	x, err := o.AddVariable()
	require.NoError(t, err)
	ci, err := o.AddConstraint(moi.NewScalarAffine(0, moi.Term(1, x)), moi.LessThan{Upper: 1})
	require.NoError(t, err)
	assert.True(t, moi.IsNotAllowed(o.Modify(ci, moi.ScalarCoefficientChange{Variable: x, NewCoefficient: 2})))
	assert.True(t, moi.IsNotAllowed(o.DeleteConstraint(ci)))
	assert.True(t, moi.IsNotAllowed(o.Delete(x)))
	assert.True(t, o.IsValidVariable(x))
}

func TestOptimizeResults(t *testing.T) {
	var x moi.VariableIndex
	o := New(WithOptimizeFunc(func(*Optimizer) (Results, error) {
		return Results{
			Termination:    moi.Optimal,
			Primal:         moi.FeasiblePoint,
			VariablePrimal: map[moi.VariableIndex]float64{x: 2},
		}, nil
	}))
	var err error
	x, err = o.AddVariable()
	require.NoError(t, err)
	ci, err := o.AddConstraint(moi.NewScalarAffine(0, moi.Term(3, x)), moi.LessThan{Upper: 10})
	require.NoError(t, err)
	require.NoError(t, o.Set(moi.ObjectiveSense{}, moi.MinSense))
	require.NoError(t, o.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, moi.NewScalarAffine(1, moi.Term(4, x))))

	status, err := moi.Get[moi.TerminationStatusCode](o, moi.TerminationStatus{})
	require.NoError(t, err)
	assert.Equal(t, moi.OptimizeNotCalled, status)
	_, err = o.GetVariableAttribute(moi.VariablePrimal{}, x)
	assert.True(t, moi.IsPrecondition(err))

	require.NoError(t, o.Optimize())
	assert.Equal(t, 1, o.Optimized())
	value, err := moi.GetVariable[float64](o, moi.VariablePrimal{}, x)
	require.NoError(t, err)
	assert.Equal(t, 2.0, value)
	primal, err := moi.GetConstraint[float64](o, moi.ConstraintPrimal{}, ci)
	require.NoError(t, err)
	assert.Equal(t, 6.0, primal)
	objective, err := moi.Get[float64](o, moi.ObjectiveValue{})
	require.NoError(t, err)
	assert.Equal(t, 9.0, objective)
	count, err := moi.Get[int](o, moi.ResultCount{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = o.GetConstraintAttribute(moi.ConstraintDual{}, ci)
	assert.True(t, moi.IsPrecondition(err))
	assert.True(t, moi.IsNotAllowed(o.Set(moi.TerminationStatus{}, moi.Optimal)))

	require.NoError(t, o.Empty())
	status, err = moi.Get[moi.TerminationStatusCode](o, moi.TerminationStatus{})
	require.NoError(t, err)
	assert.Equal(t, moi.OptimizeNotCalled, status)
}

func TestOptimizeError(t *testing.T) {
	o := New(WithOptimizeFunc(func(*Optimizer) (Results, error) {
		return Results{}, errors.New("solver crashed")
	}))
	require.Error(t, o.Optimize())
	status, err := moi.Get[moi.TerminationStatusCode](o, moi.TerminationStatus{})
	require.NoError(t, err)
	assert.Equal(t, moi.OtherError, status)
}

func TestOptimizerAttributes(t *testing.T) {
	o := New()
	name, err := moi.Get[string](o, moi.SolverName{})
	require.NoError(t, err)
	assert.Equal(t, "Mock", name)

	require.NoError(t, o.Set(moi.Silent{}, true))
	silent, err := moi.Get[bool](o, moi.Silent{})
	require.NoError(t, err)
	assert.True(t, silent)

	require.NoError(t, o.Set(moi.TimeLimit{}, 5*time.Second))
	limit, err := moi.Get[time.Duration](o, moi.TimeLimit{})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, limit)
	assert.Error(t, o.Set(moi.TimeLimit{}, 5))
}
