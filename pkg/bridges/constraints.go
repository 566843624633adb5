package bridges

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/constraint"
	"github.com/amburosesekar/mathoptinterface/pkg/metrics"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func isVariableFunction(f moi.Function) bool {
	switch f.(type) {
	case moi.SingleVariable, moi.VectorOfVariables:
		return true
	}
	return false
}

func (o *Optimizer) AddConstraint(f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	t := moi.TypeOf(f, s)
	if err := moi.CheckCompatible(f, s); err != nil {
		return moi.ConstraintIndex{}, err
	}
	if sf, ok := f.(moi.ScalarFunction); ok {
		if c := moi.Constant(sf); c != 0 {
			return moi.ConstraintIndex{}, &moi.ScalarFunctionConstantNotZeroError{Type: t, Constant: c}
		}
	}
	for _, v := range moi.Variables(f) {
		if !o.IsValidVariable(v) {
			return moi.ConstraintIndex{}, &moi.InvalidIndexError{Index: v}
		}
	}
	if sv, ok := f.(moi.SingleVariable); ok {
		if o.IsValidConstraint(moi.SingleVariableConstraintIndex(sv.Variable, s.SetType())) {
			return moi.ConstraintIndex{}, &moi.DuplicateConstraintError{Variable: sv.Variable, Type: t}
		}
	}

	if isVariableFunction(f) && moi.AnyVariable(f, isVirtual) {
		// A variable function of bridged variables is affine beneath.
		if o.isBridged(t) {
			return o.addBridgedConstraint(t, f, s)
		}
		if _, ok := f.(moi.SingleVariable); ok {
			return o.addConstraintWith(constraint.ScalarFunctionize, f, s)
		}
		return o.addConstraintWith(constraint.VectorFunctionize, f, s)
	}
	if o.isBridged(t) {
		return o.addBridgedConstraint(t, f, s)
	}

	g, err := o.bridgedFunction(f)
	if err != nil {
		return moi.ConstraintIndex{}, err
	}
	if sg, ok := g.(moi.ScalarAffineFunction); ok && sg.Constant != 0 {
		// Substitution can leave a constant; it moves into the set.
		shifted, err := moi.ShiftConstant(s.(moi.ScalarSet), -sg.Constant)
		if err != nil {
			return moi.ConstraintIndex{}, err
		}
		g, s = sg.WithConstant(0), shifted
	}
	return o.model.AddConstraint(g, s)
}

func (o *Optimizer) addBridgedConstraint(t moi.ConstraintType, f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	r := o.ConstraintRealization(t)
	if r.constraint == nil {
		return moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{Type: t}
	}
	return o.addConstraintWith(r.constraint, f, s)
}

func (o *Optimizer) addConstraintWith(ty constraint.Type, f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	ci, err := o.constraints.Add(o, ty, f, s, o.variables.Current())
	if err != nil {
		return moi.ConstraintIndex{}, errors.Wrapf(err, "bridging %s with %s", moi.TypeOf(f, s), ty.Name())
	}
	o.bridgeAdded(metrics.ConstraintKind, ty.Name(), ci)
	return ci, nil
}

func (o *Optimizer) IsValidConstraint(ci moi.ConstraintIndex) bool {
	if o.variables.HasConstraint(ci) || o.constraints.Has(ci) {
		return true
	}
	if ci.Virtual() {
		return false
	}
	return o.model.IsValidConstraint(ci)
}

func (o *Optimizer) GetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex) (interface{}, error) {
	if !o.IsValidConstraint(ci) {
		return nil, &moi.InvalidIndexError{Index: ci}
	}
	if !o.isBridgedConstraint(ci) {
		return o.backendConstraintAttribute(attr, ci)
	}
	if _, ok := attr.(moi.ConstraintName); ok {
		return o.constraintNames.Get(ci), nil
	}
	if seq, ok := o.variables.ConstraintSeq(ci); ok {
		return o.variableConstraintAttribute(attr, ci, seq)
	}

	b := o.constraints.Bridge(ci)
	var value interface{}
	err := o.inContext(o.constraints.Context(ci), func() error {
		v, err := b.Get(o, attr)
		if err != nil {
			return err
		}
		if f, ok := v.(moi.Function); ok {
			if v, err = o.unbridgedFunction(f); err != nil {
				return err
			}
			if v, err = asFunctionType(ci.Type.F, v.(moi.Function)); err != nil {
				return err
			}
		}
		value = v
		return nil
	})
	return value, err
}

// variableConstraintAttribute reads attr of the constraint holding the
// variables of bridge seq in their set.
func (o *Optimizer) variableConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex, seq int) (interface{}, error) {
	keys := o.variables.Keys(seq)
	switch attr.(type) {
	case moi.ConstraintFunction:
		if ci.Type.F == moi.SingleVariableType {
			return moi.SingleVariable{Variable: keys[0]}, nil
		}
		return moi.VectorOfVariables{Variables: keys}, nil
	case moi.ConstraintSet:
		return o.variables.Set(seq), nil
	case moi.ConstraintPrimal:
		values := make([]float64, len(keys))
		for i, k := range keys {
			v, err := moi.GetVariable[float64](o, moi.VariablePrimal{}, k)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		if ci.Type.F == moi.SingleVariableType {
			return values[0], nil
		}
		return values, nil
	}
	var value interface{}
	err := o.inContext(seq, func() error {
		var err error
		value, err = o.variables.Bridge(seq).Get(o, attr)
		return err
	})
	return value, err
}

// affineOffset returns the user-visible function of a scalar affine
// constraint of the model beneath. Its constant is minus the constant that
// was moved into the set when the constraint was added.
func (o *Optimizer) affineOffset(ci moi.ConstraintIndex) (moi.ScalarAffineFunction, error) {
	g, err := moi.GetConstraint[moi.Function](o.model, moi.ConstraintFunction{}, ci)
	if err != nil {
		return moi.ScalarAffineFunction{}, err
	}
	u, err := o.unbridgedFunction(g)
	if err != nil {
		return moi.ScalarAffineFunction{}, err
	}
	return moi.ToScalarAffine(u.(moi.ScalarFunction)), nil
}

func (o *Optimizer) hasAffineOffset(ci moi.ConstraintIndex) bool {
	return o.variables.HasBridges() && ci.Type.F == moi.ScalarAffineFunctionType
}

func (o *Optimizer) backendConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex) (interface{}, error) {
	if !o.hasAffineOffset(ci) {
		v, err := o.model.GetConstraintAttribute(attr, ci)
		if err != nil {
			return nil, err
		}
		if f, ok := v.(moi.Function); ok && o.variables.HasBridges() {
			u, err := o.unbridgedFunction(f)
			if err != nil {
				return nil, err
			}
			return asFunctionType(ci.Type.F, u)
		}
		return v, nil
	}
	switch attr.(type) {
	case moi.ConstraintFunction:
		u, err := o.affineOffset(ci)
		if err != nil {
			return nil, err
		}
		return u.WithConstant(0), nil
	case moi.ConstraintSet:
		u, err := o.affineOffset(ci)
		if err != nil {
			return nil, err
		}
		s, err := moi.GetConstraint[moi.ScalarSet](o.model, moi.ConstraintSet{}, ci)
		if err != nil {
			return nil, err
		}
		return moi.ShiftConstant(s, -u.Constant)
	case moi.ConstraintPrimal:
		u, err := o.affineOffset(ci)
		if err != nil {
			return nil, err
		}
		p, err := moi.GetConstraint[float64](o.model, moi.ConstraintPrimal{}, ci)
		if err != nil {
			return nil, err
		}
		return p - u.Constant, nil
	}
	return o.model.GetConstraintAttribute(attr, ci)
}

func (o *Optimizer) SetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex, value interface{}) error {
	if !o.IsValidConstraint(ci) {
		return &moi.InvalidIndexError{Index: ci}
	}
	if !o.isBridgedConstraint(ci) {
		return o.setBackendConstraintAttribute(attr, ci, value)
	}
	if _, ok := attr.(moi.ConstraintName); ok {
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("value of %s must be a string, got %T", attr, value)
		}
		o.constraintNames.Set(ci, name)
		return nil
	}
	if o.variables.HasConstraint(ci) {
		switch attr.(type) {
		case moi.ConstraintFunction, moi.ConstraintSet:
			return &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "the constraint holds bridged variables in their set"}
		}
		return &moi.UnsupportedAttributeError{Attribute: attr}
	}
	b := o.constraints.Bridge(ci)
	return o.inContext(o.constraints.Context(ci), func() error {
		return b.Set(o, attr, value)
	})
}

func (o *Optimizer) setBackendConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex, value interface{}) error {
	switch attr.(type) {
	case moi.ConstraintFunction:
		f, ok := value.(moi.Function)
		if !ok {
			return fmt.Errorf("value of %s must be a function, got %T", attr, value)
		}
		if !o.hasAffineOffset(ci) {
			g, err := o.bridgedFunction(f)
			if err != nil {
				return err
			}
			return o.model.SetConstraintAttribute(attr, ci, g)
		}
		if c := moi.Constant(f.(moi.ScalarFunction)); c != 0 {
			return &moi.ScalarFunctionConstantNotZeroError{Type: ci.Type, Constant: c}
		}
		s, err := moi.GetConstraint[moi.ScalarSet](o, moi.ConstraintSet{}, ci)
		if err != nil {
			return err
		}
		g, err := o.bridgedFunction(f)
		if err != nil {
			return err
		}
		sg := moi.ToScalarAffine(g.(moi.ScalarFunction))
		if err := o.model.SetConstraintAttribute(attr, ci, sg.WithConstant(0)); err != nil {
			return err
		}
		shifted, err := moi.ShiftConstant(s, -sg.Constant)
		if err != nil {
			return err
		}
		return o.model.SetConstraintAttribute(moi.ConstraintSet{}, ci, shifted)
	case moi.ConstraintSet:
		if !o.hasAffineOffset(ci) {
			break
		}
		s, ok := value.(moi.ScalarSet)
		if !ok {
			return fmt.Errorf("value of %s must be a scalar set, got %T", attr, value)
		}
		u, err := o.affineOffset(ci)
		if err != nil {
			return err
		}
		shifted, err := moi.ShiftConstant(s, u.Constant)
		if err != nil {
			return err
		}
		return o.model.SetConstraintAttribute(attr, ci, shifted)
	}
	return o.model.SetConstraintAttribute(attr, ci, value)
}

func (o *Optimizer) Modify(ci moi.ConstraintIndex, change moi.Change) error {
	if !o.IsValidConstraint(ci) {
		return &moi.InvalidIndexError{Index: ci}
	}
	if o.variables.HasConstraint(ci) {
		return &moi.ModifyNotAllowedError{Change: change, Message: "the constraint holds bridged variables in their set"}
	}
	if o.constraints.Has(ci) {
		b := o.constraints.Bridge(ci)
		return o.inContext(o.constraints.Context(ci), func() error {
			return b.Modify(o, change)
		})
	}
	if !o.variables.HasBridges() {
		return o.model.Modify(ci, change)
	}

	switch c := change.(type) {
	case moi.ScalarCoefficientChange:
		if !c.Variable.Virtual() {
			break
		}
		f, err := moi.GetConstraint[moi.Function](o, moi.ConstraintFunction{}, ci)
		if err != nil {
			return err
		}
		g, err := moi.ApplyChange(moi.ToScalarAffine(f.(moi.ScalarFunction)), change)
		if err != nil {
			return err
		}
		return o.SetConstraintAttribute(moi.ConstraintFunction{}, ci, g)
	case moi.ScalarConstantChange:
		if c.NewConstant != 0 {
			return &moi.ScalarFunctionConstantNotZeroError{Type: ci.Type, Constant: c.NewConstant}
		}
		return nil
	case moi.VectorConstantChange:
		g, err := moi.GetConstraint[moi.Function](o.model, moi.ConstraintFunction{}, ci)
		if err != nil {
			return err
		}
		u, err := o.unbridgedFunction(g)
		if err != nil {
			return err
		}
		beneath := moi.ToVectorAffine(g.(moi.VectorFunction)).Constants
		visible := moi.ToVectorAffine(u.(moi.VectorFunction)).Constants
		if len(c.NewConstants) != len(beneath) {
			return &moi.PreconditionError{Message: fmt.Sprintf("%s does not match dimension %d", c, len(beneath))}
		}
		shifted := make([]float64, len(beneath))
		for i := range shifted {
			shifted[i] = c.NewConstants[i] + beneath[i] - visible[i]
		}
		return o.model.Modify(ci, moi.VectorConstantChange{NewConstants: shifted})
	}
	return o.model.Modify(ci, change)
}

func (o *Optimizer) DeleteConstraint(ci moi.ConstraintIndex) error {
	if !o.IsValidConstraint(ci) {
		return &moi.InvalidIndexError{Index: ci}
	}
	if o.variables.HasConstraint(ci) {
		return &moi.PreconditionError{Message: fmt.Sprintf("%s holds bridged variables in their set; delete the variables instead", ci)}
	}
	if !o.constraints.Has(ci) {
		return o.model.DeleteConstraint(ci)
	}
	b := o.constraints.Bridge(ci)
	name := o.constraints.Type(ci).Name()
	if err := o.inContext(o.constraints.Context(ci), func() error {
		return b.Delete(o)
	}); err != nil {
		return err
	}
	o.constraints.Delete(ci)
	o.constraintNames.Delete(ci)
	o.bridgeDeleted(metrics.ConstraintKind, name, ci)
	return nil
}

// countsBackend reports whether constraints of type t can be held by the
// model beneath.
func (o *Optimizer) countsBackend(t moi.ConstraintType) bool {
	if !o.isBridged(t) {
		return true
	}
	if t.F != moi.VariableFunctionType(t.S) {
		return false
	}
	if t.S.IsScalar() {
		return o.model.SupportsAddConstrainedVariable(t.S)
	}
	return o.model.SupportsAddConstrainedVariables(t.S)
}

func (o *Optimizer) numberOfConstraints(t moi.ConstraintType) (int, error) {
	n := 0
	if o.countsBackend(t) {
		var err error
		if n, err = moi.Get[int](o.model, moi.NumberOfConstraints{Type: t}); err != nil {
			return 0, err
		}
	}
	n += o.variables.NumberOfConstraints(t) + o.constraints.NumberOf(t)
	o.eachBridge(func(b bridge.Bridge) {
		n -= bridge.NumberOf(b, t)
	})
	return n, nil
}

func (o *Optimizer) listOfConstraintIndices(t moi.ConstraintType) ([]moi.ConstraintIndex, error) {
	var all []moi.ConstraintIndex
	if o.countsBackend(t) {
		cis, err := moi.Get[[]moi.ConstraintIndex](o.model, moi.ListOfConstraintIndices{Type: t})
		if err != nil {
			return nil, err
		}
		all = cis
	}
	all = append(all, o.variables.ListOfConstraintIndices(t)...)
	all = append(all, o.constraints.ListOf(t)...)

	artifacts := make(map[moi.ConstraintIndex]struct{})
	o.eachBridge(func(b bridge.Bridge) {
		for _, ci := range bridge.ListOf(b, t) {
			artifacts[ci] = struct{}{}
		}
	})
	var cis []moi.ConstraintIndex
	for _, ci := range all {
		if _, ok := artifacts[ci]; !ok {
			cis = append(cis, ci)
		}
	}
	return cis, nil
}

func (o *Optimizer) listOfConstraints() ([]moi.ConstraintType, error) {
	candidates, err := moi.Get[[]moi.ConstraintType](o.model, moi.ListOfConstraints{})
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, o.variables.ConstraintTypes()...)
	candidates = append(candidates, o.constraints.Types()...)

	var ts []moi.ConstraintType
	seen := make(map[moi.ConstraintType]struct{})
	for _, t := range candidates {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		n, err := o.numberOfConstraints(t)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			ts = append(ts, t)
		}
	}
	return ts, nil
}
