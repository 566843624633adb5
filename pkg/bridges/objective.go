package bridges

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/objective"
	"github.com/amburosesekar/mathoptinterface/pkg/metrics"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func (o *Optimizer) Get(attr moi.Attribute) (interface{}, error) {
	switch a := attr.(type) {
	case moi.NumberOfVariables:
		return o.numberOfVariables()
	case moi.ListOfVariableIndices:
		return o.listOfVariableIndices()
	case moi.NumberOfConstraints:
		return o.numberOfConstraints(a.Type)
	case moi.ListOfConstraintIndices:
		return o.listOfConstraintIndices(a.Type)
	case moi.ListOfConstraints:
		return o.listOfConstraints()
	case moi.ObjectiveFunctionType:
		if root, ok := o.objectives.Root(); ok {
			return root, nil
		}
	case moi.ObjectiveFunction:
		return o.objectiveFunction(a.Type)
	}
	return o.model.Get(attr)
}

func (o *Optimizer) Set(attr moi.Attribute, value interface{}) error {
	switch a := attr.(type) {
	case moi.ObjectiveFunction:
		f, ok := value.(moi.ScalarFunction)
		if !ok {
			return fmt.Errorf("value of %s must be a scalar function, got %T", attr, value)
		}
		return o.setObjective(a.Type, f)
	case moi.ObjectiveSense:
		sense, ok := value.(moi.OptimizationSense)
		if !ok {
			return fmt.Errorf("value of %s must be an OptimizationSense, got %T", attr, value)
		}
		return o.setSense(sense)
	}
	return o.model.Set(attr, value)
}

func (o *Optimizer) setObjective(ft moi.FunctionType, f moi.ScalarFunction) error {
	if f.FunctionType() != ft {
		return errors.Errorf("cannot set ObjectiveFunction{%s} to a %s", ft, f.FunctionType())
	}
	for _, v := range moi.Variables(f) {
		if !o.IsValidVariable(v) {
			return &moi.InvalidIndexError{Index: v}
		}
	}
	if o.objectiveDepth == 0 && o.objectives.HasBridges() {
		if err := o.clearObjectiveBridges(); err != nil {
			return err
		}
	}
	if o.isObjectiveBridged(ft) {
		r := o.ObjectiveRealization(ft)
		if r.objective == nil {
			return &moi.UnsupportedAttributeError{Attribute: moi.ObjectiveFunction{Type: ft}}
		}
		return o.bridgeObjective(r.objective, ft, f)
	}
	if sv, ok := f.(moi.SingleVariable); ok && sv.Variable.Virtual() {
		return o.bridgeObjective(objective.Functionize, ft, f)
	}
	g, err := o.bridgedFunction(f)
	if err != nil {
		return err
	}
	return o.model.Set(moi.ObjectiveFunction{Type: g.FunctionType()}, g)
}

func (o *Optimizer) bridgeObjective(t objective.Type, ft moi.FunctionType, f moi.ScalarFunction) error {
	o.objectiveDepth++
	b, err := t.Bridge(o, f)
	o.objectiveDepth--
	if err != nil {
		return errors.Wrapf(err, "bridging %s objective with %s", ft, t.Name())
	}
	o.objectives.Add(ft, t, b)
	o.bridgeAdded(metrics.ObjectiveKind, t.Name(), ft)
	return nil
}

// clearObjectiveBridges deletes the objective bridges, root first. The
// model beneath is switched to feasibility meanwhile so that no bridge
// depends on an objective that is being taken apart.
func (o *Optimizer) clearObjectiveBridges() error {
	sense, err := moi.Get[moi.OptimizationSense](o.model, moi.ObjectiveSense{})
	if err != nil {
		return err
	}
	if sense != moi.FeasibilitySense {
		if err := o.model.Set(moi.ObjectiveSense{}, moi.FeasibilitySense); err != nil {
			return err
		}
	}
	if err := o.deleteObjectiveBridges(); err != nil {
		return err
	}
	if sense != moi.FeasibilitySense {
		return o.model.Set(moi.ObjectiveSense{}, sense)
	}
	return nil
}

func (o *Optimizer) deleteObjectiveBridges() error {
	o.objectiveDepth++
	defer func() { o.objectiveDepth-- }()
	for _, ft := range o.objectives.Types() {
		name := o.objectives.Type(ft).Name()
		if err := o.objectives.Bridge(ft).Delete(o); err != nil {
			return err
		}
		o.objectives.Remove(ft)
		o.bridgeDeleted(metrics.ObjectiveKind, name, ft)
	}
	return nil
}

func (o *Optimizer) setSense(sense moi.OptimizationSense) error {
	if err := o.model.Set(moi.ObjectiveSense{}, sense); err != nil {
		return err
	}
	if sense == moi.FeasibilitySense {
		return o.deleteObjectiveBridges()
	}
	o.objectiveDepth++
	defer func() { o.objectiveDepth-- }()
	for _, ft := range o.objectives.Types() {
		if err := o.objectives.Bridge(ft).SetSense(o, sense); err != nil {
			return err
		}
	}
	return nil
}

func (o *Optimizer) objectiveFunction(ft moi.FunctionType) (moi.ScalarFunction, error) {
	var (
		f   moi.Function
		err error
	)
	root, bridged := o.objectives.Root()
	switch {
	case o.objectiveDepth == 0 && bridged:
		f, err = o.bridgedObjective(root)
	case o.objectives.Has(ft):
		f, err = o.bridgedObjective(ft)
	default:
		var g moi.ScalarFunction
		g, err = moi.Get[moi.ScalarFunction](o.model, moi.ObjectiveFunction{Type: ft})
		if err == nil {
			f, err = o.unbridgedFunction(g)
		}
	}
	if err != nil {
		return nil, err
	}
	g, err := asFunctionType(ft, f)
	if err != nil {
		return nil, err
	}
	return g.(moi.ScalarFunction), nil
}

func (o *Optimizer) bridgedObjective(ft moi.FunctionType) (moi.ScalarFunction, error) {
	o.objectiveDepth++
	defer func() { o.objectiveDepth-- }()
	return o.objectives.Bridge(ft).Function(o)
}

func (o *Optimizer) ModifyObjective(attr moi.ObjectiveFunction, change moi.Change) error {
	if root, ok := o.objectives.Root(); ok {
		ft := attr.Type
		if !o.objectives.Has(ft) {
			ft = root
		}
		o.objectiveDepth++
		defer func() { o.objectiveDepth-- }()
		return o.objectives.Bridge(ft).Modify(o, change)
	}
	if !o.variables.HasBridges() {
		return o.model.ModifyObjective(attr, change)
	}

	switch c := change.(type) {
	case moi.ScalarCoefficientChange:
		if !c.Variable.Virtual() {
			break
		}
		f, err := o.objectiveFunction(moi.ScalarAffineFunctionType)
		if err != nil {
			return err
		}
		g, err := moi.ApplyChange(f, change)
		if err != nil {
			return err
		}
		return o.setObjective(moi.ScalarAffineFunctionType, g.(moi.ScalarFunction))
	case moi.ScalarConstantChange:
		g, err := moi.Get[moi.ScalarFunction](o.model, moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType})
		if err != nil {
			return err
		}
		u, err := o.unbridgedFunction(g)
		if err != nil {
			return err
		}
		offset := moi.Constant(g) - moi.Constant(u.(moi.ScalarFunction))
		return o.model.ModifyObjective(attr, moi.ScalarConstantChange{NewConstant: c.NewConstant + offset})
	}
	return o.model.ModifyObjective(attr, change)
}
