// Package mock provides an Optimizer for tests. It stores the problem in a
// model.Model, accepts only the constraints and objectives it is told to,
// and answers Optimize with results chosen by the test.
package mock

import (
	"fmt"
	"time"

	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Results is what Optimize reports.
type Results struct {
	Termination moi.TerminationStatusCode
	Primal      moi.ResultStatusCode
	Dual        moi.ResultStatusCode
	// ObjectiveValue overrides the value computed from the objective and
	// VariablePrimal.
	ObjectiveValue *float64
	// VariablePrimal defaults to zero for variables not listed.
	VariablePrimal map[moi.VariableIndex]float64
	ConstraintDual map[moi.ConstraintIndex]interface{}
}

// OptimizeFunc computes the results of an Optimize call.
type OptimizeFunc func(o *Optimizer) (Results, error)

type Optimizer struct {
	*model.Model

	constraints          map[moi.ConstraintType]struct{}
	constrainedVariables map[moi.SetType]struct{}
	objectives           map[moi.FunctionType]struct{}

	addNotAllowed    bool
	modifyNotAllowed bool
	deleteNotAllowed bool

	optimize  OptimizeFunc
	optimized int
	results   Results

	silent    bool
	timeLimit time.Duration
}

var (
	_ moi.Optimizer   = &Optimizer{}
	_ moi.NameIndexer = &Optimizer{}
)

type Option func(*Optimizer)

// WithConstraints restricts the supported constraints to ts.
func WithConstraints(ts ...moi.ConstraintType) Option {
	return func(o *Optimizer) {
		o.constraints = make(map[moi.ConstraintType]struct{}, len(ts))
		for _, t := range ts {
			o.constraints[t] = struct{}{}
		}
	}
}

// WithConstrainedVariables restricts the sets variables can be created in
// to ss. Without it, variables can be created in any set whose variable
// constraint is supported.
func WithConstrainedVariables(ss ...moi.SetType) Option {
	return func(o *Optimizer) {
		o.constrainedVariables = make(map[moi.SetType]struct{}, len(ss))
		for _, s := range ss {
			o.constrainedVariables[s] = struct{}{}
		}
	}
}

// WithObjectives restricts the supported objective function types to fs.
func WithObjectives(fs ...moi.FunctionType) Option {
	return func(o *Optimizer) {
		o.objectives = make(map[moi.FunctionType]struct{}, len(fs))
		for _, f := range fs {
			o.objectives[f] = struct{}{}
		}
	}
}

// WithAddNotAllowed makes every addition fail with a NotAllowed error.
func WithAddNotAllowed() Option {
	return func(o *Optimizer) {
		o.addNotAllowed = true
	}
}

func WithModifyNotAllowed() Option {
	return func(o *Optimizer) {
		o.modifyNotAllowed = true
	}
}

func WithDeleteNotAllowed() Option {
	return func(o *Optimizer) {
		o.deleteNotAllowed = true
	}
}

func WithOptimizeFunc(f OptimizeFunc) Option {
	return func(o *Optimizer) {
		o.optimize = f
	}
}

func New(options ...Option) *Optimizer {
	o := &Optimizer{
		Model: model.New(),
		optimize: func(*Optimizer) (Results, error) {
			return Results{Termination: moi.Optimal, Primal: moi.FeasiblePoint}, nil
		},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Optimized returns the number of Optimize calls.
func (o *Optimizer) Optimized() int {
	return o.optimized
}

func (o *Optimizer) Optimize() error {
	o.optimized++
	results, err := o.optimize(o)
	if err != nil {
		o.results = Results{Termination: moi.OtherError}
		return err
	}
	o.results = results
	return nil
}

func (o *Optimizer) Empty() error {
	o.results = Results{}
	return o.Model.Empty()
}

func (o *Optimizer) SupportsConstraint(t moi.ConstraintType) bool {
	if o.constraints == nil {
		return o.Model.SupportsConstraint(t)
	}
	_, ok := o.constraints[t]
	return ok
}

func (o *Optimizer) supportsConstrainedVariables(s moi.SetType) bool {
	if o.constrainedVariables == nil {
		return o.SupportsConstraint(moi.ConstraintType{F: moi.VariableFunctionType(s), S: s})
	}
	_, ok := o.constrainedVariables[s]
	return ok
}

func (o *Optimizer) SupportsAddConstrainedVariable(s moi.SetType) bool {
	return s.IsScalar() && o.supportsConstrainedVariables(s)
}

func (o *Optimizer) SupportsAddConstrainedVariables(s moi.SetType) bool {
	return s != "" && !s.IsScalar() && o.supportsConstrainedVariables(s)
}

func (o *Optimizer) Supports(attr moi.Attribute) bool {
	switch a := attr.(type) {
	case moi.ObjectiveFunction:
		if o.objectives == nil {
			return o.Model.Supports(attr)
		}
		_, ok := o.objectives[a.Type]
		return ok
	case moi.SolverName, moi.Silent, moi.TimeLimit,
		moi.TerminationStatus, moi.PrimalStatus, moi.DualStatus,
		moi.ResultCount, moi.ObjectiveValue:
		return true
	}
	return o.Model.Supports(attr)
}

func (o *Optimizer) SupportsVariableAttribute(attr moi.VariableAttribute) bool {
	if _, ok := attr.(moi.VariablePrimal); ok {
		return true
	}
	return o.Model.SupportsVariableAttribute(attr)
}

func (o *Optimizer) SupportsConstraintAttribute(attr moi.ConstraintAttribute, t moi.ConstraintType) bool {
	switch attr.(type) {
	case moi.ConstraintName, moi.ConstraintFunction, moi.ConstraintSet,
		moi.ConstraintPrimal, moi.ConstraintDual:
		return o.SupportsConstraint(t)
	}
	return false
}

func (o *Optimizer) AddVariable() (moi.VariableIndex, error) {
	if o.addNotAllowed {
		return moi.VariableIndex{}, &moi.AddVariableNotAllowedError{}
	}
	return o.Model.AddVariable()
}

func (o *Optimizer) AddVariables(n int) ([]moi.VariableIndex, error) {
	if o.addNotAllowed {
		return nil, &moi.AddVariableNotAllowedError{}
	}
	return o.Model.AddVariables(n)
}

func (o *Optimizer) AddConstrainedVariable(s moi.ScalarSet) (moi.VariableIndex, moi.ConstraintIndex, error) {
	t := moi.ConstraintType{F: moi.SingleVariableType, S: s.SetType()}
	if !o.SupportsAddConstrainedVariable(s.SetType()) {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{Type: t}
	}
	if o.addNotAllowed {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, &moi.AddConstraintNotAllowedError{Type: t}
	}
	return o.Model.AddConstrainedVariable(s)
}

func (o *Optimizer) AddConstrainedVariables(s moi.VectorSet) ([]moi.VariableIndex, moi.ConstraintIndex, error) {
	t := moi.ConstraintType{F: moi.VectorOfVariablesType, S: s.SetType()}
	if !o.SupportsAddConstrainedVariables(s.SetType()) {
		return nil, moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{Type: t}
	}
	if o.addNotAllowed {
		return nil, moi.ConstraintIndex{}, &moi.AddConstraintNotAllowedError{Type: t}
	}
	return o.Model.AddConstrainedVariables(s)
}

func (o *Optimizer) AddConstraint(f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	t := moi.TypeOf(f, s)
	if !o.SupportsConstraint(t) {
		return moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{Type: t}
	}
	if o.addNotAllowed {
		return moi.ConstraintIndex{}, &moi.AddConstraintNotAllowedError{Type: t}
	}
	return o.Model.AddConstraint(f, s)
}

func (o *Optimizer) Modify(ci moi.ConstraintIndex, change moi.Change) error {
	if o.modifyNotAllowed {
		return &moi.ModifyNotAllowedError{Change: change}
	}
	return o.Model.Modify(ci, change)
}

func (o *Optimizer) ModifyObjective(attr moi.ObjectiveFunction, change moi.Change) error {
	if o.modifyNotAllowed {
		return &moi.ModifyNotAllowedError{Change: change}
	}
	return o.Model.ModifyObjective(attr, change)
}

func (o *Optimizer) Delete(vi moi.VariableIndex) error {
	if o.deleteNotAllowed {
		return &moi.DeleteNotAllowedError{Index: vi}
	}
	return o.Model.Delete(vi)
}

func (o *Optimizer) DeleteVariables(vis []moi.VariableIndex) error {
	if o.deleteNotAllowed && len(vis) > 0 {
		return &moi.DeleteNotAllowedError{Index: vis[0]}
	}
	return o.Model.DeleteVariables(vis)
}

func (o *Optimizer) DeleteConstraint(ci moi.ConstraintIndex) error {
	if o.deleteNotAllowed {
		return &moi.DeleteNotAllowedError{Index: ci}
	}
	return o.Model.DeleteConstraint(ci)
}

func (o *Optimizer) hasResult() bool {
	return o.results.Primal != moi.NoSolution
}

func (o *Optimizer) primal(vi moi.VariableIndex) (float64, error) {
	if !o.hasResult() {
		return 0, &moi.PreconditionError{Message: "no primal result available"}
	}
	if !o.IsValidVariable(vi) {
		return 0, &moi.InvalidIndexError{Index: vi}
	}
	return o.results.VariablePrimal[vi], nil
}

func (o *Optimizer) Get(attr moi.Attribute) (interface{}, error) {
	switch attr.(type) {
	case moi.SolverName:
		return "Mock", nil
	case moi.Silent:
		return o.silent, nil
	case moi.TimeLimit:
		return o.timeLimit, nil
	case moi.TerminationStatus:
		return o.results.Termination, nil
	case moi.PrimalStatus:
		return o.results.Primal, nil
	case moi.DualStatus:
		return o.results.Dual, nil
	case moi.ResultCount:
		if o.hasResult() {
			return 1, nil
		}
		return 0, nil
	case moi.ObjectiveValue:
		if !o.hasResult() {
			return nil, &moi.PreconditionError{Message: "no primal result available"}
		}
		if o.results.ObjectiveValue != nil {
			return *o.results.ObjectiveValue, nil
		}
		f, err := moi.Objective(o.Model)
		if err != nil {
			return nil, err
		}
		return moi.ToScalarAffine(f).Evaluate(o.primal)
	case moi.ObjectiveFunction:
		if !o.Supports(attr) {
			return nil, &moi.UnsupportedAttributeError{Attribute: attr}
		}
	}
	return o.Model.Get(attr)
}

func (o *Optimizer) Set(attr moi.Attribute, value interface{}) error {
	switch attr.(type) {
	case moi.Silent:
		silent, ok := value.(bool)
		if !ok {
			return fmt.Errorf("value of %s must be a bool, got %T", attr, value)
		}
		o.silent = silent
		return nil
	case moi.TimeLimit:
		limit, ok := value.(time.Duration)
		if !ok {
			return fmt.Errorf("value of %s must be a time.Duration, got %T", attr, value)
		}
		o.timeLimit = limit
		return nil
	case moi.ObjectiveFunction:
		if !o.Supports(attr) {
			return &moi.UnsupportedAttributeError{Attribute: attr}
		}
	}
	if moi.IsSetByOptimize(attr) {
		return &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "set by Optimize"}
	}
	return o.Model.Set(attr, value)
}

func (o *Optimizer) GetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex) (interface{}, error) {
	if _, ok := attr.(moi.VariablePrimal); ok {
		return o.primal(vi)
	}
	return o.Model.GetVariableAttribute(attr, vi)
}

func (o *Optimizer) GetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex) (interface{}, error) {
	switch attr.(type) {
	case moi.ConstraintPrimal:
		f, err := moi.GetConstraint[moi.Function](o.Model, moi.ConstraintFunction{}, ci)
		if err != nil {
			return nil, err
		}
		if sf, ok := f.(moi.ScalarFunction); ok {
			return moi.ToScalarAffine(sf).Evaluate(o.primal)
		}
		return moi.ToVectorAffine(f.(moi.VectorFunction)).Evaluate(o.primal)
	case moi.ConstraintDual:
		if !o.IsValidConstraint(ci) {
			return nil, &moi.InvalidIndexError{Index: ci}
		}
		if o.results.Dual == moi.NoSolution {
			return nil, &moi.PreconditionError{Message: "no dual result available"}
		}
		dual, ok := o.results.ConstraintDual[ci]
		if !ok {
			return nil, &moi.PreconditionError{Message: fmt.Sprintf("no dual value for %s", ci)}
		}
		return dual, nil
	}
	return o.Model.GetConstraintAttribute(attr, ci)
}
