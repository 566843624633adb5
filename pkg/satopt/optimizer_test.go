package satopt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func binaries(t *testing.T, o *Optimizer, n int) []moi.VariableIndex {
	t.Helper()
	vis := make([]moi.VariableIndex, n)
	for i := range vis {
		vi, _, err := o.AddConstrainedVariable(moi.ZeroOne{})
		require.NoError(t, err)
		vis[i] = vi
	}
	return vis
}

func affine(vis []moi.VariableIndex, coefficients ...float64) moi.ScalarAffineFunction {
	terms := make([]moi.ScalarAffineTerm, len(coefficients))
	for i, a := range coefficients {
		terms[i] = moi.Term(a, vis[i])
	}
	return moi.NewScalarAffine(0, terms...)
}

func status(t *testing.T, o *Optimizer) moi.TerminationStatusCode {
	t.Helper()
	s, err := moi.Get[moi.TerminationStatusCode](o, moi.TerminationStatus{})
	require.NoError(t, err)
	return s
}

func primal(t *testing.T, o *Optimizer, vi moi.VariableIndex) float64 {
	t.Helper()
	v, err := moi.GetVariable[float64](o, moi.VariablePrimal{}, vi)
	require.NoError(t, err)
	return v
}

func TestKnapsack(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	x := binaries(t, o, 3)
	capacity, err := o.AddConstraint(affine(x, 2, 3, 4), moi.LessThan{Upper: 5})
	require.NoError(t, err)
	require.NoError(t, o.Set(moi.ObjectiveSense{}, moi.MaxSense))
	require.NoError(t, o.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, affine(x, 3, 4, 5)))

	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.Optimal, status(t, o))
	ps, err := moi.Get[moi.ResultStatusCode](o, moi.PrimalStatus{})
	require.NoError(t, err)
	assert.Equal(t, moi.FeasiblePoint, ps)
	value, err := moi.Get[float64](o, moi.ObjectiveValue{})
	require.NoError(t, err)
	assert.Equal(t, 7.0, value)
	assert.Equal(t, 1.0, primal(t, o, x[0]))
	assert.Equal(t, 1.0, primal(t, o, x[1]))
	assert.Equal(t, 0.0, primal(t, o, x[2]))
	used, err := moi.GetConstraint[float64](o, moi.ConstraintPrimal{}, capacity)
	require.NoError(t, err)
	assert.Equal(t, 5.0, used)
}

func TestNegativeCoefficients(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	x := binaries(t, o, 2)
	_, err = o.AddConstraint(affine(x, 1, 1), moi.GreaterThan{Lower: 1})
	require.NoError(t, err)
	require.NoError(t, o.Set(moi.ObjectiveSense{}, moi.MinSense))
	require.NoError(t, o.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, affine(x, 1, -1)))

	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.Optimal, status(t, o))
	value, err := moi.Get[float64](o, moi.ObjectiveValue{})
	require.NoError(t, err)
	assert.Equal(t, -1.0, value)
	assert.Equal(t, 0.0, primal(t, o, x[0]))
	assert.Equal(t, 1.0, primal(t, o, x[1]))
}

func TestEqualTo(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	x := binaries(t, o, 3)
	_, err = o.AddConstraint(affine(x, 1, 1, 1), moi.EqualTo{Value: 2})
	require.NoError(t, err)
	require.NoError(t, o.Set(moi.ObjectiveSense{}, moi.MinSense))
	require.NoError(t, o.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, affine(x, 1, 2, 3)))

	require.NoError(t, o.Optimize())
	value, err := moi.Get[float64](o, moi.ObjectiveValue{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)
}

func TestFeasibility(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	x := binaries(t, o, 2)
	_, err = o.AddConstraint(affine(x, 1, 1), moi.EqualTo{Value: 1})
	require.NoError(t, err)

	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.Optimal, status(t, o))
	assert.Equal(t, 1.0, primal(t, o, x[0])+primal(t, o, x[1]))
	count, err := moi.Get[int](o, moi.ResultCount{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInfeasible(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	x := binaries(t, o, 2)
	atLeast, err := o.AddConstraint(affine(x, 1, 1), moi.GreaterThan{Lower: 2})
	require.NoError(t, err)
	atMost, err := o.AddConstraint(affine(x, 1), moi.LessThan{Upper: 0})
	require.NoError(t, err)
	_, err = o.AddConstraint(affine(x, 1, -1), moi.LessThan{Upper: 1})
	require.NoError(t, err)

	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.Infeasible, status(t, o))
	assert.ElementsMatch(t, []moi.ConstraintIndex{atLeast, atMost}, o.Conflicts())
	_, err = moi.GetVariable[float64](o, moi.VariablePrimal{}, x[0])
	assert.True(t, moi.IsPrecondition(err))
	_, err = moi.Get[float64](o, moi.ObjectiveValue{})
	assert.True(t, moi.IsPrecondition(err))
}

func TestFractionalEqualToIsInfeasible(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	x := binaries(t, o, 1)
	ci, err := o.AddConstraint(affine(x, 1), moi.EqualTo{Value: 0.5})
	require.NoError(t, err)

	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.Infeasible, status(t, o))
	assert.Equal(t, []moi.ConstraintIndex{ci}, o.Conflicts())
}

func TestInvalidModel(t *testing.T) {
	for _, tt := range []struct {
		name  string
		build func(t *testing.T, o *Optimizer)
	}{
		{
			name: "continuous variable",
			build: func(t *testing.T, o *Optimizer) {
				_, err := o.AddVariable()
				require.NoError(t, err)
			},
		},
		{
			name: "fractional coefficient",
			build: func(t *testing.T, o *Optimizer) {
				x := binaries(t, o, 1)
				_, err := o.AddConstraint(affine(x, 0.5), moi.LessThan{Upper: 1})
				require.NoError(t, err)
			},
		},
		{
			name: "fractional objective",
			build: func(t *testing.T, o *Optimizer) {
				x := binaries(t, o, 1)
				require.NoError(t, o.Set(moi.ObjectiveSense{}, moi.MinSense))
				require.NoError(t, o.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, affine(x, 1.5)))
			},
		},
		{
			name: "weight too large",
			build: func(t *testing.T, o *Optimizer) {
				x := binaries(t, o, 1)
				_, err := o.AddConstraint(affine(x, DefaultMaxWeight+1), moi.LessThan{Upper: 1})
				require.NoError(t, err)
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New()
			require.NoError(t, err)
			tt.build(t, o)
			require.NoError(t, o.Optimize())
			assert.Equal(t, moi.InvalidModel, status(t, o))
			assert.Error(t, o.Reason())
		})
	}
}

func TestOptions(t *testing.T) {
	_, err := New(WithMaxWeight(0))
	assert.Error(t, err)

	o, err := New(WithMaxWeight(2))
	require.NoError(t, err)
	x := binaries(t, o, 2)
	_, err = o.AddConstraint(affine(x, 2, 1), moi.LessThan{Upper: 2})
	require.NoError(t, err)
	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.InvalidModel, status(t, o))
}

func TestSupports(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	assert.True(t, o.SupportsAddConstrainedVariable(moi.ZeroOneType))
	assert.False(t, o.SupportsAddConstrainedVariable(moi.IntegerType))
	assert.False(t, o.SupportsAddConstrainedVariables(moi.NonnegativesType))
	assert.False(t, o.SupportsConstraint(moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.IntervalType}))
	assert.False(t, o.Supports(moi.ObjectiveFunction{Type: moi.SingleVariableType}))

	x := binaries(t, o, 1)
	_, err = o.AddConstraint(affine(x, 1), moi.Interval{Lower: 0, Upper: 1})
	assert.True(t, moi.IsUnsupported(err))
	_, _, err = o.AddConstrainedVariable(moi.Integer{})
	assert.True(t, moi.IsUnsupported(err))
	err = o.Set(moi.ObjectiveFunction{Type: moi.SingleVariableType}, moi.SingleVariable{Variable: x[0]})
	assert.True(t, moi.IsUnsupported(err))
}

func TestAttributes(t *testing.T) {
	o, err := New()
	require.NoError(t, err)
	name, err := moi.Get[string](o, moi.SolverName{})
	require.NoError(t, err)
	assert.Equal(t, "gini", name)
	assert.Equal(t, moi.OptimizeNotCalled, status(t, o))

	require.NoError(t, o.Set(moi.TimeLimit{}, time.Minute))
	limit, err := moi.Get[time.Duration](o, moi.TimeLimit{})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, limit)
	require.NoError(t, o.Set(moi.Silent{}, true))
	assert.True(t, moi.IsNotAllowed(o.Set(moi.ResultCount{}, 1)))

	binaries(t, o, 1)
	require.NoError(t, o.Optimize())
	assert.Equal(t, moi.Optimal, status(t, o))
	require.NoError(t, o.Empty())
	assert.Equal(t, moi.OptimizeNotCalled, status(t, o))
	assert.True(t, o.IsEmpty())
}

// pendingSolve never finishes on its own.
type pendingSolve struct {
	stopped bool
}

func (s *pendingSolve) Stop() int {
	s.stopped = true
	return 0
}

func (s *pendingSolve) Try(time.Duration) int { return 0 }
func (s *pendingSolve) Test() (int, bool)     { return 0, false }
func (s *pendingSolve) Pause() (int, bool)    { return 0, true }
func (s *pendingSolve) Unpause()              {}
func (s *pendingSolve) Wait() int             { return 0 }

func TestWaitForSolutionCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	gs := &pendingSolve{}
	assert.Equal(t, 0, waitForSolution(ctx, gs))
	assert.True(t, gs.stopped)
}

func TestLinearSearch(t *testing.T) {
	var tried []int
	found := linearSearch(0, 5, func(w int) bool {
		tried = append(tried, w)
		return w == 3
	})
	assert.True(t, found)
	assert.Equal(t, []int{0, 1, 2, 3}, tried)

	assert.False(t, linearSearch(0, -1, func(int) bool { return true }))
}
