// Package bridges provides an Optimizer that realizes the constraints,
// constrained variables and objectives its inner model does not support by
// rewriting them into ones it does. Callers only ever see the indices and
// functions of what they added; the rewritten form stays behind the bridges.
package bridges

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/constraint"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/objective"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/variable"
	"github.com/amburosesekar/mathoptinterface/pkg/metrics"
	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Optimizer bridges whatever its inner model does not support, choosing
// for each construct the chain of bridges that uses the fewest bridges.
type Optimizer struct {
	model moi.ModelLike
	graph *graph

	keys        *bridge.Keys
	variables   *variable.Map
	constraints *constraint.Map
	objectives  *objective.Map
	// objectiveDepth counts the objective bridges being built or read.
	objectiveDepth int

	variableNames   *model.Names[moi.VariableIndex]
	constraintNames *model.Names[moi.ConstraintIndex]

	logger   logrus.FieldLogger
	recorder metrics.Recorder
}

var (
	_ moi.Optimizer   = &Optimizer{}
	_ moi.NameIndexer = &Optimizer{}
)

type Option func(*Optimizer)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}

func WithRecorder(recorder metrics.Recorder) Option {
	return func(o *Optimizer) {
		o.recorder = recorder
	}
}

// New returns an Optimizer over m without any bridge type. Bridge types
// are added with the Add*BridgeType methods.
func New(m moi.ModelLike, options ...Option) *Optimizer {
	keys := &bridge.Keys{}
	o := &Optimizer{
		model:           m,
		graph:           newGraph(m),
		keys:            keys,
		variables:       variable.NewMap(keys),
		constraints:     constraint.NewMap(keys),
		objectives:      objective.NewMap(),
		variableNames:   model.NewNames[moi.VariableIndex](),
		constraintNames: model.NewNames[moi.ConstraintIndex](),
		logger: func() logrus.FieldLogger {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			return logger
		}(),
		recorder: metrics.Discard{},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Full returns an Optimizer over m with every bridge type of this module.
func Full(m moi.ModelLike, options ...Option) *Optimizer {
	o := New(m, options...)
	for _, t := range []variable.Type{
		variable.Zeros,
		variable.Free,
		variable.NonposToNonneg,
		variable.Vectorize,
		variable.RSOCtoSOC,
		variable.ZeroOne,
	} {
		o.AddVariableBridgeType(t)
	}
	for _, t := range []constraint.Type{
		constraint.ScalarFunctionize,
		constraint.VectorFunctionize,
		constraint.SplitInterval,
		constraint.GreaterToLess,
		constraint.LessToGreater,
		constraint.Scalarize,
		constraint.Vectorize,
	} {
		o.AddConstraintBridgeType(t)
	}
	o.AddObjectiveBridgeType(objective.Functionize)
	o.AddObjectiveBridgeType(objective.Slack)
	return o
}

// AddVariableBridgeType makes t available to realize constrained variables.
// Realizations are recomputed on next use.
func (o *Optimizer) AddVariableBridgeType(t variable.Type) {
	o.graph.variables = append(o.graph.variables, t)
	o.graph.invalidate()
}

// AddConstraintBridgeType makes t available to realize constraints.
func (o *Optimizer) AddConstraintBridgeType(t constraint.Type) {
	o.graph.constraints = append(o.graph.constraints, t)
	o.graph.invalidate()
}

// AddObjectiveBridgeType makes t available to realize objective functions.
func (o *Optimizer) AddObjectiveBridgeType(t objective.Type) {
	o.graph.objectives = append(o.graph.objectives, t)
	o.graph.invalidate()
}

// Inner returns the model beneath the bridges.
func (o *Optimizer) Inner() moi.ModelLike {
	return o.model
}

// ConstraintRealization returns the cheapest way of adding constraints of
// type t to the model beneath.
func (o *Optimizer) ConstraintRealization(t moi.ConstraintType) Realization {
	return o.graph.realization(constraintNodeOf(t))
}

// VariableRealization returns the cheapest way of adding variables
// constrained to sets of type s.
func (o *Optimizer) VariableRealization(s moi.SetType) Realization {
	return o.graph.realization(variableNodeOf(s))
}

// ObjectiveRealization returns the cheapest way of setting an objective of
// type f.
func (o *Optimizer) ObjectiveRealization(f moi.FunctionType) Realization {
	return o.graph.realization(objectiveNodeOf(f))
}

// isBridged reports whether constraints of type t are added through
// bridges.
func (o *Optimizer) isBridged(t moi.ConstraintType) bool {
	return !o.model.SupportsConstraint(t)
}

// isVariableBridged reports whether variables constrained to sets of type
// s are added through variable bridges.
func (o *Optimizer) isVariableBridged(s moi.SetType) bool {
	return o.VariableRealization(s).variable != nil
}

func (o *Optimizer) isObjectiveBridged(f moi.FunctionType) bool {
	return !o.model.Supports(moi.ObjectiveFunction{Type: f})
}

// isBridgedConstraint reports whether ci lives in one of the bridge maps.
// Constraints with a non-negative index of a type the model beneath
// supports never do.
func (o *Optimizer) isBridgedConstraint(ci moi.ConstraintIndex) bool {
	if ci.Value >= 0 && !o.isBridged(ci.Type) {
		return false
	}
	return o.constraints.Has(ci) || o.variables.HasConstraint(ci)
}

// inContext runs f with seq as the variable bridge context.
func (o *Optimizer) inContext(seq int, f func() error) error {
	previous := o.variables.SetCurrent(seq)
	defer o.variables.SetCurrent(previous)
	return f()
}

// eachBridge calls f for every live bridge of every kind.
func (o *Optimizer) eachBridge(f func(b bridge.Bridge)) {
	o.variables.Each(func(_ int, b variable.Bridge) { f(b) })
	o.constraints.Each(func(_ moi.ConstraintIndex, b constraint.Bridge) { f(b) })
	o.objectives.Each(func(_ moi.FunctionType, b objective.Bridge) { f(b) })
}

func (o *Optimizer) bridgeAdded(kind, name string, index interface{}) {
	o.logger.WithFields(logrus.Fields{"kind": kind, "bridge": name, "index": index}).Debug("bridge added")
	o.recorder.BridgeAdded(kind, name)
}

func (o *Optimizer) bridgeDeleted(kind, name string, index interface{}) {
	o.logger.WithFields(logrus.Fields{"kind": kind, "bridge": name, "index": index}).Debug("bridge deleted")
	o.recorder.BridgeDeleted(kind, name)
}

func (o *Optimizer) IsEmpty() bool {
	return o.model.IsEmpty() &&
		!o.variables.HasBridges() &&
		!o.constraints.HasBridges() &&
		!o.objectives.HasBridges()
}

func (o *Optimizer) Empty() error {
	if err := o.model.Empty(); err != nil {
		return err
	}
	o.variables.Clear()
	o.constraints.Clear()
	o.objectives.Clear()
	o.variableNames.Clear()
	o.constraintNames.Clear()
	o.keys.Reset()
	o.objectiveDepth = 0
	return nil
}

func (o *Optimizer) Optimize() error {
	opt, ok := o.model.(moi.Optimizer)
	if !ok {
		return &moi.PreconditionError{Message: "the model beneath the bridges cannot optimize"}
	}
	return opt.Optimize()
}

func (o *Optimizer) SupportsConstraint(t moi.ConstraintType) bool {
	return o.ConstraintRealization(t).Supported
}

func (o *Optimizer) SupportsAddConstrainedVariable(s moi.SetType) bool {
	return s.IsScalar() && o.VariableRealization(s).Supported
}

func (o *Optimizer) SupportsAddConstrainedVariables(s moi.SetType) bool {
	return s != "" && !s.IsScalar() && o.VariableRealization(s).Supported
}

func (o *Optimizer) Supports(attr moi.Attribute) bool {
	if a, ok := attr.(moi.ObjectiveFunction); ok {
		return o.ObjectiveRealization(a.Type).Supported
	}
	return o.model.Supports(attr)
}

func (o *Optimizer) SupportsVariableAttribute(attr moi.VariableAttribute) bool {
	if _, ok := attr.(moi.VariableName); ok {
		return true
	}
	return o.model.SupportsVariableAttribute(attr)
}

func (o *Optimizer) SupportsConstraintAttribute(attr moi.ConstraintAttribute, t moi.ConstraintType) bool {
	if !o.isBridged(t) {
		return o.model.SupportsConstraintAttribute(attr, t)
	}
	switch attr.(type) {
	case moi.ConstraintName, moi.ConstraintFunction, moi.ConstraintSet:
		return o.SupportsConstraint(t)
	}
	return false
}

// VariableByName looks name up among the bridged variables and in the
// model beneath.
func (o *Optimizer) VariableByName(name string) (moi.VariableIndex, bool, error) {
	vi, ok, err := o.variableNames.Lookup(name)
	if err != nil {
		return moi.VariableIndex{}, false, err
	}
	if inner, isIndexer := o.model.(moi.NameIndexer); isIndexer {
		ivi, iok, err := inner.VariableByName(name)
		if err != nil {
			return moi.VariableIndex{}, false, err
		}
		if iok && ok {
			return moi.VariableIndex{}, false, &moi.PreconditionError{Message: "name " + name + " is used by more than one variable"}
		}
		if iok {
			return ivi, true, nil
		}
	}
	return vi, ok, nil
}

// ConstraintByName looks name up among the bridged constraints and in the
// model beneath.
func (o *Optimizer) ConstraintByName(name string) (moi.ConstraintIndex, bool, error) {
	ci, ok, err := o.constraintNames.Lookup(name)
	if err != nil {
		return moi.ConstraintIndex{}, false, err
	}
	if inner, isIndexer := o.model.(moi.NameIndexer); isIndexer {
		ici, iok, err := inner.ConstraintByName(name)
		if err != nil {
			return moi.ConstraintIndex{}, false, err
		}
		if iok && ok {
			return moi.ConstraintIndex{}, false, &moi.PreconditionError{Message: "name " + name + " is used by more than one constraint"}
		}
		if iok {
			return ici, true, nil
		}
	}
	return ci, ok, nil
}
