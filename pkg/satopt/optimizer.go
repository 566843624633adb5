// Package satopt is a 0-1 optimizer built on the gini SAT solver. It keeps
// the model in a model.Model and compiles it into a boolean circuit on every
// call to Optimize.
//
// Only binary variables (constrained to ZeroOne) and scalar affine rows in
// LessThan, GreaterThan or EqualTo sets with integral coefficients are
// understood. Anything else has to be bridged before it reaches the
// optimizer.
package satopt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-air/gini"
	"github.com/sirupsen/logrus"

	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// DefaultMaxWeight bounds the sum of the absolute coefficients of a row or
// of the objective.
const DefaultMaxWeight = 1 << 12

var supportedConstraints = map[moi.ConstraintType]struct{}{
	{F: moi.SingleVariableType, S: moi.ZeroOneType}:           {},
	{F: moi.ScalarAffineFunctionType, S: moi.LessThanType}:    {},
	{F: moi.ScalarAffineFunctionType, S: moi.GreaterThanType}: {},
	{F: moi.ScalarAffineFunctionType, S: moi.EqualToType}:     {},
}

type Optimizer struct {
	*model.Model

	logger    logrus.FieldLogger
	maxWeight int

	silent    bool
	timeLimit time.Duration

	termination moi.TerminationStatusCode
	primal      moi.ResultStatusCode
	values      map[moi.VariableIndex]float64
	conflicts   []moi.ConstraintIndex
	reason      error
	solveTime   time.Duration
}

var (
	_ moi.Optimizer   = &Optimizer{}
	_ moi.NameIndexer = &Optimizer{}
)

type Option func(o *Optimizer) error

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Optimizer) error {
		o.logger = logger
		return nil
	}
}

// WithMaxWeight changes the largest row or objective weight the optimizer
// agrees to encode.
func WithMaxWeight(n int) Option {
	return func(o *Optimizer) error {
		if n <= 0 {
			return fmt.Errorf("max weight must be positive, got %d", n)
		}
		o.maxWeight = n
		return nil
	}
}

var defaults = []Option{
	func(o *Optimizer) error {
		if o.logger == nil {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			o.logger = logger
		}
		return nil
	},
	func(o *Optimizer) error {
		if o.maxWeight == 0 {
			o.maxWeight = DefaultMaxWeight
		}
		return nil
	},
}

func New(options ...Option) (*Optimizer, error) {
	o := &Optimizer{Model: model.New()}
	for _, option := range append(options, defaults...) {
		if err := option(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Optimizer) Empty() error {
	o.clearResults()
	return o.Model.Empty()
}

func (o *Optimizer) clearResults() {
	o.termination = moi.OptimizeNotCalled
	o.primal = moi.NoSolution
	o.values = nil
	o.conflicts = nil
	o.reason = nil
	o.solveTime = 0
}

func (o *Optimizer) SupportsConstraint(t moi.ConstraintType) bool {
	_, ok := supportedConstraints[t]
	return ok
}

func (o *Optimizer) SupportsAddConstrainedVariable(s moi.SetType) bool {
	return s == moi.ZeroOneType
}

func (o *Optimizer) SupportsAddConstrainedVariables(moi.SetType) bool {
	return false
}

func (o *Optimizer) Supports(attr moi.Attribute) bool {
	switch a := attr.(type) {
	case moi.ObjectiveFunction:
		return a.Type == moi.ScalarAffineFunctionType
	case moi.SolverName, moi.Silent, moi.TimeLimit,
		moi.TerminationStatus, moi.PrimalStatus, moi.DualStatus,
		moi.ResultCount, moi.ObjectiveValue:
		return true
	}
	return o.Model.Supports(attr)
}

func (o *Optimizer) SupportsVariableAttribute(attr moi.VariableAttribute) bool {
	switch attr.(type) {
	case moi.VariableName, moi.VariablePrimal:
		return true
	}
	return false
}

func (o *Optimizer) SupportsConstraintAttribute(attr moi.ConstraintAttribute, t moi.ConstraintType) bool {
	switch attr.(type) {
	case moi.ConstraintName, moi.ConstraintFunction, moi.ConstraintSet, moi.ConstraintPrimal:
		return o.SupportsConstraint(t)
	}
	return false
}

func (o *Optimizer) AddConstrainedVariable(s moi.ScalarSet) (moi.VariableIndex, moi.ConstraintIndex, error) {
	if !o.SupportsAddConstrainedVariable(s.SetType()) {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{
			Type: moi.ConstraintType{F: moi.SingleVariableType, S: s.SetType()},
		}
	}
	return o.Model.AddConstrainedVariable(s)
}

func (o *Optimizer) AddConstrainedVariables(s moi.VectorSet) ([]moi.VariableIndex, moi.ConstraintIndex, error) {
	return nil, moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{
		Type: moi.ConstraintType{F: moi.VectorOfVariablesType, S: s.SetType()},
	}
}

func (o *Optimizer) AddConstraint(f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	t := moi.TypeOf(f, s)
	if !o.SupportsConstraint(t) {
		return moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{Type: t}
	}
	return o.Model.AddConstraint(f, s)
}

func (o *Optimizer) hasResult() bool {
	return o.primal != moi.NoSolution
}

func (o *Optimizer) value(vi moi.VariableIndex) (float64, error) {
	if !o.hasResult() {
		return 0, &moi.PreconditionError{Message: "no primal result available"}
	}
	if !o.IsValidVariable(vi) {
		return 0, &moi.InvalidIndexError{Index: vi}
	}
	return o.values[vi], nil
}

func (o *Optimizer) Get(attr moi.Attribute) (interface{}, error) {
	switch attr.(type) {
	case moi.SolverName:
		return "gini", nil
	case moi.Silent:
		return o.silent, nil
	case moi.TimeLimit:
		return o.timeLimit, nil
	case moi.TerminationStatus:
		return o.termination, nil
	case moi.PrimalStatus:
		return o.primal, nil
	case moi.DualStatus:
		return moi.NoSolution, nil
	case moi.ResultCount:
		if o.hasResult() {
			return 1, nil
		}
		return 0, nil
	case moi.ObjectiveValue:
		if !o.hasResult() {
			return nil, &moi.PreconditionError{Message: "no primal result available"}
		}
		f, err := moi.Objective(o.Model)
		if err != nil {
			return nil, err
		}
		return moi.ToScalarAffine(f).Evaluate(o.value)
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
		return o.value(vi)
	}
	return o.Model.GetVariableAttribute(attr, vi)
}

func (o *Optimizer) GetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex) (interface{}, error) {
	if _, ok := attr.(moi.ConstraintPrimal); ok {
		f, err := moi.GetConstraint[moi.ScalarFunction](o.Model, moi.ConstraintFunction{}, ci)
		if err != nil {
			return nil, err
		}
		return moi.ToScalarAffine(f).Evaluate(o.value)
	}
	return o.Model.GetConstraintAttribute(attr, ci)
}

// Conflicts returns the constraints that together made the last solve
// infeasible.
func (o *Optimizer) Conflicts() []moi.ConstraintIndex {
	return o.conflicts
}

// Reason explains an InvalidModel termination.
func (o *Optimizer) Reason() error {
	return o.reason
}

// SolveTime is the wall time spent by the last Optimize.
func (o *Optimizer) SolveTime() time.Duration {
	return o.solveTime
}

func (o *Optimizer) Optimize() error {
	ctx := context.Background()
	if o.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeLimit)
		defer cancel()
	}
	return o.OptimizeContext(ctx)
}

// OptimizeContext optimizes the model, giving up when ctx is done. A
// cancelled search reports TimeLimitReached together with the best
// solution found so far, if any.
func (o *Optimizer) OptimizeContext(ctx context.Context) error {
	o.clearResults()
	start := time.Now()
	defer func() { o.solveTime = time.Since(start) }()

	logger := o.logger
	if o.silent {
		logger = discard
	}

	d, err := o.compile()
	if err != nil {
		return err
	}
	if cerr := d.Error(); cerr != nil {
		logger.WithError(cerr).Warn("model cannot be encoded")
		o.termination = moi.InvalidModel
		o.reason = cerr
		return nil
	}
	logger.WithFields(logrus.Fields{
		"variables": len(d.vars),
		"rows":      len(d.order),
	}).Debug("model compiled")

	g := gini.New()
	d.AddConstraints(g)
	s := searcher{circuit: d, g: g, logger: logger}
	s.run(ctx)

	o.termination = s.termination
	o.conflicts = s.conflicts
	if s.values != nil {
		o.primal = moi.FeasiblePoint
		o.values = s.values
	}
	logger.WithFields(logrus.Fields{
		"status":    o.termination,
		"conflicts": len(o.conflicts),
	}).Info("optimize finished")
	return nil
}

var discard = func() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}()

// compile builds the circuit for the current model. Problems with the
// model itself are collected in the circuit; the returned error is only
// set when the model cannot be read.
func (o *Optimizer) compile() (*circuit, error) {
	d := newCircuit(o.maxWeight)

	vis, err := moi.Get[[]moi.VariableIndex](o.Model, moi.ListOfVariableIndices{})
	if err != nil {
		return nil, err
	}
	binaries, err := moi.Get[[]moi.ConstraintIndex](o.Model, moi.ListOfConstraintIndices{
		Type: moi.ConstraintType{F: moi.SingleVariableType, S: moi.ZeroOneType},
	})
	if err != nil {
		return nil, err
	}
	binary := make(map[moi.VariableIndex]struct{}, len(binaries))
	for _, ci := range binaries {
		binary[moi.VariableIndex{Value: ci.Value}] = struct{}{}
	}
	for _, vi := range vis {
		if _, ok := binary[vi]; !ok {
			d.invalid("%s is not constrained to ZeroOne", vi)
			continue
		}
		d.addVariable(vi)
	}

	for _, s := range []moi.SetType{moi.LessThanType, moi.GreaterThanType, moi.EqualToType} {
		cis, err := moi.Get[[]moi.ConstraintIndex](o.Model, moi.ListOfConstraintIndices{
			Type: moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: s},
		})
		if err != nil {
			return nil, err
		}
		for _, ci := range cis {
			f, err := moi.GetConstraint[moi.ScalarAffineFunction](o.Model, moi.ConstraintFunction{}, ci)
			if err != nil {
				return nil, err
			}
			set, err := moi.GetConstraint[moi.Set](o.Model, moi.ConstraintSet{}, ci)
			if err != nil {
				return nil, err
			}
			d.addRow(ci, f, set)
		}
	}

	sense, err := moi.Get[moi.OptimizationSense](o.Model, moi.ObjectiveSense{})
	if err != nil {
		return nil, err
	}
	if sense != moi.FeasibilitySense {
		f, err := moi.Objective(o.Model)
		if err != nil {
			return nil, err
		}
		d.setObjective(moi.ToScalarAffine(f), sense == moi.MaxSense)
	}
	return d, nil
}
