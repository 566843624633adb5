package bridges

import (
	"fmt"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/variable"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func isVirtual(v moi.VariableIndex) bool {
	return v.Virtual()
}

// variableExpression expresses a bridged variable in terms of variables of
// the model beneath.
func (o *Optimizer) variableExpression(vi moi.VariableIndex) (moi.ScalarAffineFunction, error) {
	seq, ok := o.variables.Seq(vi)
	if !ok {
		return moi.ScalarAffineFunction{}, &moi.InvalidIndexError{Index: vi}
	}
	f := o.variables.Bridge(seq).Function(o.variables.Position(vi))
	if !moi.AnyVariable(f, isVirtual) {
		return f, nil
	}
	// The artifacts are bridged in turn.
	g, err := moi.Substitute(f, o.expression)
	if err != nil {
		return moi.ScalarAffineFunction{}, err
	}
	return g.(moi.ScalarAffineFunction), nil
}

func (o *Optimizer) expression(v moi.VariableIndex) (moi.ScalarAffineFunction, error) {
	if v.Virtual() {
		return o.variableExpression(v)
	}
	return moi.VariableAsAffine(v), nil
}

// bridgedFunction rewrites f in terms of variables of the model beneath.
// f is returned unchanged when it has no bridged variable.
func (o *Optimizer) bridgedFunction(f moi.Function) (moi.Function, error) {
	if !o.variables.HasBridges() || !moi.AnyVariable(f, isVirtual) {
		return f, nil
	}
	return moi.Substitute(f, o.expression)
}

// unbridgedFunction rewrites a function read from the model beneath in
// terms of the variables the caller sees. Inside the context of a variable
// bridge, the artifacts of that bridge and of the ones created after it are
// left alone.
func (o *Optimizer) unbridgedFunction(f moi.Function) (moi.Function, error) {
	if !o.variables.HasBridges() {
		return f, nil
	}
	current := o.variables.Current()
	for {
		changed := false
		g, err := moi.Substitute(f, func(v moi.VariableIndex) (moi.ScalarAffineFunction, error) {
			seq, ok := o.variables.Owner(v)
			if !ok || (current > 0 && seq >= current) {
				return moi.VariableAsAffine(v), nil
			}
			inv, ok := o.variables.Bridge(seq).(variable.Inverter)
			if !ok {
				return moi.ScalarAffineFunction{}, &moi.PreconditionError{
					Message: fmt.Sprintf("cannot express %s in terms of the bridged variables of %s", v, o.variables.Type(seq).Name()),
				}
			}
			e, ok := inv.Inverse(v, o.variables.Keys(seq))
			if !ok {
				return moi.VariableAsAffine(v), nil
			}
			changed = true
			return e, nil
		})
		if err != nil {
			return nil, err
		}
		if !changed {
			return f, nil
		}
		f = g
	}
}

// asFunctionType converts f back to a function of type ft when possible.
func asFunctionType(ft moi.FunctionType, f moi.Function) (moi.Function, error) {
	if f.FunctionType() == ft {
		return f, nil
	}
	switch ft {
	case moi.ScalarAffineFunctionType:
		if sf, ok := f.(moi.ScalarFunction); ok {
			return moi.ToScalarAffine(sf), nil
		}
	case moi.VectorAffineFunctionType:
		if vf, ok := f.(moi.VectorFunction); ok {
			return moi.ToVectorAffine(vf), nil
		}
	case moi.SingleVariableType:
		if g, ok := f.(moi.ScalarAffineFunction); ok {
			if sv, ok := moi.AsSingleVariable(g); ok {
				return sv, nil
			}
		}
	case moi.VectorOfVariablesType:
		if g, ok := f.(moi.VectorAffineFunction); ok {
			if vov, ok := moi.AsVectorOfVariables(g); ok {
				return vov, nil
			}
		}
	}
	return nil, &moi.PreconditionError{Message: fmt.Sprintf("%s cannot be expressed as a %s", f, ft)}
}
