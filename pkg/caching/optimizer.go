// Package caching keeps a complete copy of a problem in memory in front of
// an optimizer. The cache is always the reference: the optimizer may be
// missing, empty, or attached and kept in step with the cache, and it can
// be replaced or rebuilt from the cache at any time.
package caching

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges"
	"github.com/amburosesekar/mathoptinterface/pkg/metrics"
	"github.com/amburosesekar/mathoptinterface/pkg/model"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// BridgeFunc layers bridges over an optimizer that cannot hold part of the
// cache on its own.
type BridgeFunc func(moi.Optimizer) moi.Optimizer

// FullBridges layers every bridge type of the bridges package.
func FullBridges(options ...bridges.Option) BridgeFunc {
	return func(o moi.Optimizer) moi.Optimizer {
		return bridges.Full(o, options...)
	}
}

type optimizerAttribute struct {
	attr  moi.Attribute
	value interface{}
}

type CachingOptimizer struct {
	cache     *model.Model
	optimizer moi.Optimizer
	state     State
	mode      Mode

	bridge  BridgeFunc
	bridged bool

	// idx maps cache indices to optimizer indices while attached.
	idx *model.IndexMap
	// attributes are replayed on every new optimizer.
	attributes []optimizerAttribute

	logger   logrus.FieldLogger
	recorder metrics.Recorder
}

var (
	_ moi.Optimizer   = &CachingOptimizer{}
	_ moi.NameIndexer = &CachingOptimizer{}
)

type Option func(*CachingOptimizer)

func WithMode(mode Mode) Option {
	return func(c *CachingOptimizer) {
		c.mode = mode
	}
}

// WithBridges enables lazy bridging: the first time the optimizer cannot
// hold something, f is layered over it.
func WithBridges(f BridgeFunc) Option {
	return func(c *CachingOptimizer) {
		c.bridge = f
	}
}

// WithOptimizer starts the CachingOptimizer attached to o, which must be
// empty.
func WithOptimizer(o moi.Optimizer) Option {
	return func(c *CachingOptimizer) {
		c.optimizer = o
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *CachingOptimizer) {
		c.logger = logger
	}
}

func WithRecorder(recorder metrics.Recorder) Option {
	return func(c *CachingOptimizer) {
		c.recorder = recorder
	}
}

func New(options ...Option) (*CachingOptimizer, error) {
	c := &CachingOptimizer{
		cache: model.New(),
		logger: func() logrus.FieldLogger {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			return logger
		}(),
		recorder: metrics.Discard{},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.optimizer != nil {
		if !c.optimizer.IsEmpty() {
			return nil, &moi.PreconditionError{Message: "the optimizer of a new CachingOptimizer must be empty"}
		}
		c.state = AttachedOptimizer
		c.idx = model.NewIndexMap()
	}
	return c, nil
}

func (c *CachingOptimizer) State() State {
	return c.state
}

func (c *CachingOptimizer) Mode() Mode {
	return c.mode
}

// Optimizer returns the current optimizer, with bridges layered over it if
// lazy bridging happened, or nil in NoOptimizer.
func (c *CachingOptimizer) Optimizer() moi.Optimizer {
	return c.optimizer
}

func (c *CachingOptimizer) attached() bool {
	return c.state == AttachedOptimizer
}

func (c *CachingOptimizer) setState(s State) {
	if s == c.state {
		return
	}
	c.logger.WithFields(logrus.Fields{"from": c.state, "to": s}).Debug("state transition")
	c.recorder.StateTransition(c.state.String(), s.String())
	c.state = s
}

func solverName(o moi.ModelLike) string {
	name, err := moi.Get[string](o, moi.SolverName{})
	if err != nil {
		return "unknown"
	}
	return name
}

// ResetOptimizer empties o, makes it the optimizer and sets on it the
// optimizer attributes set so far. The state becomes EmptyOptimizer.
func (c *CachingOptimizer) ResetOptimizer(o moi.Optimizer) error {
	if err := o.Empty(); err != nil {
		return errors.Wrap(err, "emptying the new optimizer")
	}
	c.optimizer = o
	c.bridged = false
	c.idx = nil
	c.setState(EmptyOptimizer)
	c.logger.WithField("solver", solverName(o)).Info("optimizer reset")

	var errs []error
	for _, a := range c.attributes {
		if err := o.Set(a.attr, a.value); err != nil {
			errs = append(errs, errors.Wrapf(err, "setting %s", a.attr))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Reset empties the current optimizer. The state becomes EmptyOptimizer.
func (c *CachingOptimizer) Reset() error {
	if c.optimizer == nil {
		return &moi.PreconditionError{Message: "there is no optimizer to reset"}
	}
	if err := c.optimizer.Empty(); err != nil {
		return errors.Wrap(err, "emptying the optimizer")
	}
	c.idx = nil
	c.setState(EmptyOptimizer)
	return nil
}

// DropOptimizer forgets the optimizer. The state becomes NoOptimizer.
func (c *CachingOptimizer) DropOptimizer() {
	c.optimizer = nil
	c.bridged = false
	c.idx = nil
	c.setState(NoOptimizer)
}

// Attach copies the cache into the empty optimizer. If the copy fails the
// optimizer is emptied again and the state stays EmptyOptimizer.
func (c *CachingOptimizer) Attach() error {
	if c.state != EmptyOptimizer {
		return &moi.PreconditionError{Message: fmt.Sprintf("cannot attach an optimizer in state %s", c.state)}
	}
	if err := c.bridgeCache(); err != nil {
		return err
	}
	idx, err := model.CopyTo(c.optimizer, c.cache)
	if err != nil {
		err = errors.Wrap(err, "copying the cache to the optimizer")
		if eerr := c.optimizer.Empty(); eerr != nil {
			return utilerrors.NewAggregate([]error{err, errors.Wrap(eerr, "emptying the optimizer")})
		}
		return err
	}
	c.idx = idx
	c.setState(AttachedOptimizer)
	c.logger.WithFields(logrus.Fields{
		"solver":      solverName(c.optimizer),
		"variables":   idx.NumVariables(),
		"constraints": idx.NumConstraints(),
	}).Info("optimizer attached")
	return nil
}

// bridgeCache asks the optimizer about everything the cache holds, so that
// lazy bridging happens before the copy.
func (c *CachingOptimizer) bridgeCache() error {
	types, err := moi.Get[[]moi.ConstraintType](c.cache, moi.ListOfConstraints{})
	if err != nil {
		return err
	}
	for _, t := range types {
		c.supports(func(m moi.ModelLike) bool { return canAdd(m, t) })
	}
	sense, err := moi.Get[moi.OptimizationSense](c.cache, moi.ObjectiveSense{})
	if err != nil || sense == moi.FeasibilitySense {
		return err
	}
	ft, err := moi.Get[moi.FunctionType](c.cache, moi.ObjectiveFunctionType{})
	if err != nil {
		return err
	}
	c.supports(func(m moi.ModelLike) bool { return m.Supports(moi.ObjectiveFunction{Type: ft}) })
	return nil
}

// canAdd reports whether constraints of type t can be put in m, either as
// constraints or, for variable functions, as constrained variables.
func canAdd(m moi.ModelLike, t moi.ConstraintType) bool {
	switch t.F {
	case moi.SingleVariableType:
		return m.SupportsConstraint(t) || m.SupportsAddConstrainedVariable(t.S)
	case moi.VectorOfVariablesType:
		return m.SupportsConstraint(t) || m.SupportsAddConstrainedVariables(t.S)
	}
	return m.SupportsConstraint(t)
}

// supports runs check against the optimizer. If check fails and lazy
// bridging is enabled, bridges are layered over the optimizer and kept if
// check then passes. Without an optimizer everything is supported.
func (c *CachingOptimizer) supports(check func(moi.ModelLike) bool) bool {
	if c.optimizer == nil || check(c.optimizer) {
		return true
	}
	if c.bridge == nil || c.bridged {
		return false
	}
	bridged := c.bridge(c.optimizer)
	if !check(bridged) {
		return false
	}
	c.logger.WithField("solver", solverName(c.optimizer)).Debug("layering bridges over the optimizer")
	c.optimizer = bridged
	c.bridged = true
	return true
}

// admit is called before adding something the optimizer may not be able
// to hold. In manual mode refused is returned; in automatic mode the
// optimizer is reset if attached and the addition goes to the cache only.
func (c *CachingOptimizer) admit(supported bool, refused error) error {
	if c.optimizer == nil || supported {
		return nil
	}
	if c.mode == Manual {
		return refused
	}
	if c.attached() {
		c.logger.WithError(refused).Warn("optimizer cannot hold the change, resetting it")
		return c.Reset()
	}
	return nil
}

// forward runs f if the optimizer is attached and reports whether it did.
// In automatic mode a NotAllowed error from f resets the optimizer instead
// of being returned.
func (c *CachingOptimizer) forward(f func() error) (bool, error) {
	if !c.attached() {
		return false, nil
	}
	err := f()
	if err == nil {
		return true, nil
	}
	if c.mode == Automatic && moi.IsNotAllowed(err) {
		c.logger.WithError(err).Warn("optimizer refused the change, resetting it")
		return false, c.Reset()
	}
	return false, err
}

// rollback returns err once the cache change has been undone. A failed
// undo is returned along with err.
func rollback(err, undo error) error {
	if undo == nil {
		return err
	}
	return utilerrors.NewAggregate([]error{err, errors.Wrap(undo, "rolling back the cache")})
}

// prune drops the index map entries whose cache index is gone.
func (c *CachingOptimizer) prune(vis ...moi.VariableIndex) {
	if c.idx == nil {
		return
	}
	for _, vi := range vis {
		c.idx.DeleteVariable(vi)
	}
	for _, ci := range c.idx.Constraints() {
		if !c.cache.IsValidConstraint(ci) {
			c.idx.DeleteConstraint(ci)
		}
	}
}

func (c *CachingOptimizer) noResult(attr fmt.Stringer) error {
	return &moi.PreconditionError{Message: fmt.Sprintf("%s is not available in state %s", attr, c.state)}
}

func (c *CachingOptimizer) IsEmpty() bool {
	return c.cache.IsEmpty()
}

func (c *CachingOptimizer) Empty() error {
	if c.optimizer != nil {
		if err := c.optimizer.Empty(); err != nil {
			return err
		}
	}
	if err := c.cache.Empty(); err != nil {
		return err
	}
	if c.attached() {
		c.idx = model.NewIndexMap()
	}
	return nil
}

func (c *CachingOptimizer) Optimize() error {
	if c.mode == Automatic && c.state == EmptyOptimizer {
		if err := c.Attach(); err != nil {
			return err
		}
	}
	if !c.attached() {
		return &moi.PreconditionError{Message: fmt.Sprintf("cannot optimize in state %s", c.state)}
	}
	return c.optimizer.Optimize()
}

func (c *CachingOptimizer) SupportsConstraint(t moi.ConstraintType) bool {
	return c.cache.SupportsConstraint(t) && c.supports(func(m moi.ModelLike) bool { return m.SupportsConstraint(t) })
}

func (c *CachingOptimizer) SupportsAddConstrainedVariable(s moi.SetType) bool {
	t := moi.ConstraintType{F: moi.SingleVariableType, S: s}
	return c.cache.SupportsAddConstrainedVariable(s) && c.supports(func(m moi.ModelLike) bool { return canAdd(m, t) })
}

func (c *CachingOptimizer) SupportsAddConstrainedVariables(s moi.SetType) bool {
	t := moi.ConstraintType{F: moi.VectorOfVariablesType, S: s}
	return c.cache.SupportsAddConstrainedVariables(s) && c.supports(func(m moi.ModelLike) bool { return canAdd(m, t) })
}

func (c *CachingOptimizer) Supports(attr moi.Attribute) bool {
	switch a := attr.(type) {
	case moi.ObjectiveFunction:
		return c.cache.Supports(a) && c.supports(func(m moi.ModelLike) bool { return m.Supports(a) })
	case moi.OptimizerAttribute:
		return c.optimizer != nil && c.optimizer.Supports(attr)
	}
	if moi.IsSetByOptimize(attr) {
		return c.optimizer != nil && c.optimizer.Supports(attr)
	}
	return c.cache.Supports(attr)
}

func (c *CachingOptimizer) SupportsVariableAttribute(attr moi.VariableAttribute) bool {
	if moi.IsSetByOptimize(attr) {
		return c.optimizer != nil && c.optimizer.SupportsVariableAttribute(attr)
	}
	return c.cache.SupportsVariableAttribute(attr)
}

func (c *CachingOptimizer) SupportsConstraintAttribute(attr moi.ConstraintAttribute, t moi.ConstraintType) bool {
	if moi.IsSetByOptimize(attr) {
		return c.optimizer != nil && c.optimizer.SupportsConstraintAttribute(attr, t)
	}
	return c.cache.SupportsConstraintAttribute(attr, t)
}

func (c *CachingOptimizer) AddVariable() (moi.VariableIndex, error) {
	vi, err := c.cache.AddVariable()
	if err != nil {
		return moi.VariableIndex{}, err
	}
	var ovi moi.VariableIndex
	synced, err := c.forward(func() (err error) {
		ovi, err = c.optimizer.AddVariable()
		return err
	})
	if err != nil {
		return moi.VariableIndex{}, rollback(err, c.cache.Delete(vi))
	}
	if synced {
		c.idx.SetVariable(vi, ovi)
	}
	return vi, nil
}

func (c *CachingOptimizer) AddVariables(n int) ([]moi.VariableIndex, error) {
	vis, err := c.cache.AddVariables(n)
	if err != nil {
		return nil, err
	}
	var ovis []moi.VariableIndex
	synced, err := c.forward(func() (err error) {
		ovis, err = c.optimizer.AddVariables(n)
		return err
	})
	if err != nil {
		return nil, rollback(err, c.cache.DeleteVariables(vis))
	}
	if synced {
		for i, vi := range vis {
			c.idx.SetVariable(vi, ovis[i])
		}
	}
	return vis, nil
}

// addConstrainedVariable adds a variable in s to m, as a free variable and
// a SingleVariable constraint if m cannot add it constrained.
func addConstrainedVariable(m moi.ModelLike, s moi.ScalarSet) (moi.VariableIndex, moi.ConstraintIndex, error) {
	if m.SupportsAddConstrainedVariable(s.SetType()) {
		return m.AddConstrainedVariable(s)
	}
	vi, err := m.AddVariable()
	if err != nil {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, err
	}
	ci, err := m.AddConstraint(moi.SingleVariable{Variable: vi}, s)
	if err != nil {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, rollback(err, m.Delete(vi))
	}
	return vi, ci, nil
}

func addConstrainedVariables(m moi.ModelLike, s moi.VectorSet) ([]moi.VariableIndex, moi.ConstraintIndex, error) {
	if m.SupportsAddConstrainedVariables(s.SetType()) {
		return m.AddConstrainedVariables(s)
	}
	vis, err := m.AddVariables(s.Dimension())
	if err != nil {
		return nil, moi.ConstraintIndex{}, err
	}
	ci, err := m.AddConstraint(moi.VectorOfVariables{Variables: vis}, s)
	if err != nil {
		return nil, moi.ConstraintIndex{}, rollback(err, m.DeleteVariables(vis))
	}
	return vis, ci, nil
}

func (c *CachingOptimizer) AddConstrainedVariable(s moi.ScalarSet) (moi.VariableIndex, moi.ConstraintIndex, error) {
	t := moi.ConstraintType{F: moi.SingleVariableType, S: s.SetType()}
	refused := &moi.AddConstraintNotAllowedError{Type: t, Message: "the optimizer cannot hold it"}
	if err := c.admit(c.supports(func(m moi.ModelLike) bool { return canAdd(m, t) }), refused); err != nil {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, err
	}
	vi, ci, err := c.cache.AddConstrainedVariable(s)
	if err != nil {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, err
	}
	var ovi moi.VariableIndex
	var oci moi.ConstraintIndex
	synced, err := c.forward(func() (err error) {
		ovi, oci, err = addConstrainedVariable(c.optimizer, s)
		return err
	})
	if err != nil {
		return moi.VariableIndex{}, moi.ConstraintIndex{}, rollback(err, c.cache.Delete(vi))
	}
	if synced {
		c.idx.SetVariable(vi, ovi)
		c.idx.SetConstraint(ci, oci)
	}
	return vi, ci, nil
}

func (c *CachingOptimizer) AddConstrainedVariables(s moi.VectorSet) ([]moi.VariableIndex, moi.ConstraintIndex, error) {
	t := moi.ConstraintType{F: moi.VectorOfVariablesType, S: s.SetType()}
	refused := &moi.AddConstraintNotAllowedError{Type: t, Message: "the optimizer cannot hold it"}
	if err := c.admit(c.supports(func(m moi.ModelLike) bool { return canAdd(m, t) }), refused); err != nil {
		return nil, moi.ConstraintIndex{}, err
	}
	vis, ci, err := c.cache.AddConstrainedVariables(s)
	if err != nil {
		return nil, moi.ConstraintIndex{}, err
	}
	var ovis []moi.VariableIndex
	var oci moi.ConstraintIndex
	synced, err := c.forward(func() (err error) {
		ovis, oci, err = addConstrainedVariables(c.optimizer, s)
		return err
	})
	if err != nil {
		return nil, moi.ConstraintIndex{}, rollback(err, c.cache.DeleteVariables(vis))
	}
	if synced {
		for i, vi := range vis {
			c.idx.SetVariable(vi, ovis[i])
		}
		c.idx.SetConstraint(ci, oci)
	}
	return vis, ci, nil
}

func (c *CachingOptimizer) AddConstraint(f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	t := moi.TypeOf(f, s)
	refused := &moi.AddConstraintNotAllowedError{Type: t, Message: "the optimizer cannot hold it"}
	if err := c.admit(c.supports(func(m moi.ModelLike) bool { return m.SupportsConstraint(t) }), refused); err != nil {
		return moi.ConstraintIndex{}, err
	}
	ci, err := c.cache.AddConstraint(f, s)
	if err != nil {
		return moi.ConstraintIndex{}, err
	}
	var oci moi.ConstraintIndex
	synced, err := c.forward(func() error {
		of, err := c.idx.MapFunction(f)
		if err != nil {
			return err
		}
		oci, err = c.optimizer.AddConstraint(of, s)
		return err
	})
	if err != nil {
		return moi.ConstraintIndex{}, rollback(err, c.cache.DeleteConstraint(ci))
	}
	if synced {
		c.idx.SetConstraint(ci, oci)
	}
	return ci, nil
}

// optional attributes are only given to optimizers that support them.
func optional(attr fmt.Stringer) bool {
	switch attr.(type) {
	case moi.Name, moi.VariableName, moi.VariablePrimalStart, moi.ConstraintName:
		return true
	}
	return false
}

func (c *CachingOptimizer) mapValue(value interface{}) (interface{}, error) {
	if f, ok := value.(moi.Function); ok {
		return c.idx.MapFunction(f)
	}
	return value, nil
}

func (c *CachingOptimizer) Get(attr moi.Attribute) (interface{}, error) {
	switch attr.(type) {
	case moi.TerminationStatus:
		if !c.attached() {
			return moi.OptimizeNotCalled, nil
		}
	case moi.PrimalStatus, moi.DualStatus:
		if !c.attached() {
			return moi.NoSolution, nil
		}
	case moi.OptimizerAttribute:
		if c.optimizer != nil {
			return c.optimizer.Get(attr)
		}
		for _, a := range c.attributes {
			if a.attr == attr {
				return a.value, nil
			}
		}
		return nil, &moi.PreconditionError{Message: fmt.Sprintf("%s is not set and there is no optimizer", attr)}
	}
	if moi.IsSetByOptimize(attr) {
		if !c.attached() {
			return nil, c.noResult(attr)
		}
		return c.optimizer.Get(attr)
	}
	return c.cache.Get(attr)
}

func (c *CachingOptimizer) Set(attr moi.Attribute, value interface{}) error {
	if moi.IsSetByOptimize(attr) {
		return &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "set by Optimize"}
	}
	if _, ok := attr.(moi.OptimizerAttribute); ok {
		if c.optimizer != nil {
			if err := c.optimizer.Set(attr, value); err != nil {
				return err
			}
		}
		c.remember(attr, value)
		return nil
	}
	if a, ok := attr.(moi.ObjectiveFunction); ok {
		refused := &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "the optimizer cannot hold it"}
		if err := c.admit(c.supports(func(m moi.ModelLike) bool { return m.Supports(a) }), refused); err != nil {
			return err
		}
	}
	_, err := c.forward(func() error {
		if optional(attr) && !c.optimizer.Supports(attr) {
			return nil
		}
		v, err := c.mapValue(value)
		if err != nil {
			return err
		}
		return c.optimizer.Set(attr, v)
	})
	if err != nil {
		return err
	}
	return c.cache.Set(attr, value)
}

func (c *CachingOptimizer) remember(attr moi.Attribute, value interface{}) {
	for i, a := range c.attributes {
		if a.attr == attr {
			c.attributes[i].value = value
			return
		}
	}
	c.attributes = append(c.attributes, optimizerAttribute{attr: attr, value: value})
}

func (c *CachingOptimizer) GetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex) (interface{}, error) {
	if !moi.IsSetByOptimize(attr) {
		return c.cache.GetVariableAttribute(attr, vi)
	}
	if !c.cache.IsValidVariable(vi) {
		return nil, &moi.InvalidIndexError{Index: vi}
	}
	if !c.attached() {
		return nil, c.noResult(attr)
	}
	ovi, _ := c.idx.Variable(vi)
	return c.optimizer.GetVariableAttribute(attr, ovi)
}

func (c *CachingOptimizer) SetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex, value interface{}) error {
	if moi.IsSetByOptimize(attr) {
		return &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "set by Optimize"}
	}
	if !c.cache.IsValidVariable(vi) {
		return &moi.InvalidIndexError{Index: vi}
	}
	_, err := c.forward(func() error {
		if optional(attr) && !c.optimizer.SupportsVariableAttribute(attr) {
			return nil
		}
		ovi, _ := c.idx.Variable(vi)
		return c.optimizer.SetVariableAttribute(attr, ovi, value)
	})
	if err != nil {
		return err
	}
	return c.cache.SetVariableAttribute(attr, vi, value)
}

func (c *CachingOptimizer) GetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex) (interface{}, error) {
	if !moi.IsSetByOptimize(attr) {
		return c.cache.GetConstraintAttribute(attr, ci)
	}
	if !c.cache.IsValidConstraint(ci) {
		return nil, &moi.InvalidIndexError{Index: ci}
	}
	if !c.attached() {
		return nil, c.noResult(attr)
	}
	oci, _ := c.idx.Constraint(ci)
	return c.optimizer.GetConstraintAttribute(attr, oci)
}

func (c *CachingOptimizer) SetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex, value interface{}) error {
	if moi.IsSetByOptimize(attr) {
		return &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "set by Optimize"}
	}
	if !c.cache.IsValidConstraint(ci) {
		return &moi.InvalidIndexError{Index: ci}
	}
	_, err := c.forward(func() error {
		if optional(attr) && !c.optimizer.SupportsConstraintAttribute(attr, ci.Type) {
			return nil
		}
		v, err := c.mapValue(value)
		if err != nil {
			return err
		}
		oci, _ := c.idx.Constraint(ci)
		return c.optimizer.SetConstraintAttribute(attr, oci, v)
	})
	if err != nil {
		return err
	}
	return c.cache.SetConstraintAttribute(attr, ci, value)
}

func (c *CachingOptimizer) Modify(ci moi.ConstraintIndex, change moi.Change) error {
	if !c.cache.IsValidConstraint(ci) {
		return &moi.InvalidIndexError{Index: ci}
	}
	_, err := c.forward(func() error {
		oc, err := c.idx.MapChange(change)
		if err != nil {
			return err
		}
		oci, _ := c.idx.Constraint(ci)
		return c.optimizer.Modify(oci, oc)
	})
	if err != nil {
		return err
	}
	return c.cache.Modify(ci, change)
}

func (c *CachingOptimizer) ModifyObjective(attr moi.ObjectiveFunction, change moi.Change) error {
	_, err := c.forward(func() error {
		oc, err := c.idx.MapChange(change)
		if err != nil {
			return err
		}
		return c.optimizer.ModifyObjective(attr, oc)
	})
	if err != nil {
		return err
	}
	return c.cache.ModifyObjective(attr, change)
}

func (c *CachingOptimizer) Delete(vi moi.VariableIndex) error {
	if !c.cache.IsValidVariable(vi) {
		return &moi.InvalidIndexError{Index: vi}
	}
	_, err := c.forward(func() error {
		ovi, _ := c.idx.Variable(vi)
		return c.optimizer.Delete(ovi)
	})
	if err != nil {
		return err
	}
	if err := c.cache.Delete(vi); err != nil {
		return err
	}
	c.prune(vi)
	return nil
}

func (c *CachingOptimizer) DeleteVariables(vis []moi.VariableIndex) error {
	for _, vi := range vis {
		if !c.cache.IsValidVariable(vi) {
			return &moi.InvalidIndexError{Index: vi}
		}
	}
	_, err := c.forward(func() error {
		ovis := make([]moi.VariableIndex, len(vis))
		for i, vi := range vis {
			ovis[i], _ = c.idx.Variable(vi)
		}
		return c.optimizer.DeleteVariables(ovis)
	})
	if err != nil {
		return err
	}
	if err := c.cache.DeleteVariables(vis); err != nil {
		return err
	}
	c.prune(vis...)
	return nil
}

func (c *CachingOptimizer) DeleteConstraint(ci moi.ConstraintIndex) error {
	if !c.cache.IsValidConstraint(ci) {
		return &moi.InvalidIndexError{Index: ci}
	}
	_, err := c.forward(func() error {
		oci, _ := c.idx.Constraint(ci)
		return c.optimizer.DeleteConstraint(oci)
	})
	if err != nil {
		return err
	}
	if err := c.cache.DeleteConstraint(ci); err != nil {
		return err
	}
	c.prune()
	return nil
}

func (c *CachingOptimizer) IsValidVariable(vi moi.VariableIndex) bool {
	return c.cache.IsValidVariable(vi)
}

func (c *CachingOptimizer) IsValidConstraint(ci moi.ConstraintIndex) bool {
	return c.cache.IsValidConstraint(ci)
}

func (c *CachingOptimizer) VariableByName(name string) (moi.VariableIndex, bool, error) {
	return c.cache.VariableByName(name)
}

func (c *CachingOptimizer) ConstraintByName(name string) (moi.ConstraintIndex, bool, error) {
	return c.cache.ConstraintByName(name)
}
