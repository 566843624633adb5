package model

import (
	"github.com/pkg/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// CopyTo copies the problem held by src into the empty model dest and
// returns the correspondence between their indices.
//
// Variables are created as constrained variables wherever dest accepts
// their set, vector sets first, so that a destination which only supports
// bounded variables can still receive the problem. The remaining variables
// are added free and the remaining constraints follow, type by type in the
// order src lists them. Names, primal starts, the model name, the sense and
// the objective come last.
func CopyTo(dest, src moi.ModelLike) (*IndexMap, error) {
	if !dest.IsEmpty() {
		return nil, &moi.PreconditionError{Message: "destination of a copy must be empty"}
	}
	idx := NewIndexMap()

	vis, err := moi.Get[[]moi.VariableIndex](src, moi.ListOfVariableIndices{})
	if err != nil {
		return nil, errors.Wrap(err, "listing variables")
	}
	types, err := moi.Get[[]moi.ConstraintType](src, moi.ListOfConstraints{})
	if err != nil {
		return nil, errors.Wrap(err, "listing constraint types")
	}
	lists := make(map[moi.ConstraintType][]moi.ConstraintIndex, len(types))
	for _, t := range types {
		cis, err := moi.Get[[]moi.ConstraintIndex](src, moi.ListOfConstraintIndices{Type: t})
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s constraints", t)
		}
		lists[t] = cis
	}

	copied := make(map[moi.ConstraintIndex]struct{})
	for _, t := range types {
		if t.F != moi.VectorOfVariablesType || !dest.SupportsAddConstrainedVariables(t.S) {
			continue
		}
		for _, ci := range lists[t] {
			f, err := moi.GetConstraint[moi.VectorOfVariables](src, moi.ConstraintFunction{}, ci)
			if err != nil {
				return nil, err
			}
			if !fresh(idx, f.Variables) {
				continue
			}
			s, err := moi.GetConstraint[moi.VectorSet](src, moi.ConstraintSet{}, ci)
			if err != nil {
				return nil, err
			}
			dvis, dci, err := dest.AddConstrainedVariables(s)
			if err != nil {
				return nil, errors.Wrapf(err, "copying %s", ci)
			}
			for i, v := range f.Variables {
				idx.SetVariable(v, dvis[i])
			}
			idx.SetConstraint(ci, dci)
			copied[ci] = struct{}{}
		}
	}
	for _, t := range types {
		if t.F != moi.SingleVariableType || !dest.SupportsAddConstrainedVariable(t.S) {
			continue
		}
		for _, ci := range lists[t] {
			vi := moi.VariableIndex{Value: ci.Value}
			if _, ok := idx.Variable(vi); ok {
				continue
			}
			s, err := moi.GetConstraint[moi.ScalarSet](src, moi.ConstraintSet{}, ci)
			if err != nil {
				return nil, err
			}
			dvi, dci, err := dest.AddConstrainedVariable(s)
			if err != nil {
				return nil, errors.Wrapf(err, "copying %s", ci)
			}
			idx.SetVariable(vi, dvi)
			idx.SetConstraint(ci, dci)
			copied[ci] = struct{}{}
		}
	}
	for _, vi := range vis {
		if _, ok := idx.Variable(vi); ok {
			continue
		}
		dvi, err := dest.AddVariable()
		if err != nil {
			return nil, errors.Wrapf(err, "copying %s", vi)
		}
		idx.SetVariable(vi, dvi)
	}

	for _, t := range types {
		for _, ci := range lists[t] {
			if _, ok := copied[ci]; ok {
				continue
			}
			f, err := moi.GetConstraint[moi.Function](src, moi.ConstraintFunction{}, ci)
			if err != nil {
				return nil, err
			}
			s, err := moi.GetConstraint[moi.Set](src, moi.ConstraintSet{}, ci)
			if err != nil {
				return nil, err
			}
			df, err := idx.MapFunction(f)
			if err != nil {
				return nil, err
			}
			dci, err := dest.AddConstraint(df, s)
			if err != nil {
				return nil, errors.Wrapf(err, "copying %s", ci)
			}
			idx.SetConstraint(ci, dci)
		}
	}

	if err := copyVariableAttributes(dest, src, vis, idx); err != nil {
		return nil, err
	}
	if err := copyConstraintNames(dest, src, idx); err != nil {
		return nil, err
	}
	if err := copyModelAttributes(dest, src, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func fresh(idx *IndexMap, vis []moi.VariableIndex) bool {
	seen := make(map[moi.VariableIndex]struct{}, len(vis))
	for _, v := range vis {
		if _, ok := idx.Variable(v); ok {
			return false
		}
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

func copyVariableAttributes(dest, src moi.ModelLike, vis []moi.VariableIndex, idx *IndexMap) error {
	names := src.SupportsVariableAttribute(moi.VariableName{}) && dest.SupportsVariableAttribute(moi.VariableName{})
	starts := src.SupportsVariableAttribute(moi.VariablePrimalStart{}) && dest.SupportsVariableAttribute(moi.VariablePrimalStart{})
	for _, vi := range vis {
		dvi, _ := idx.Variable(vi)
		if names {
			name, err := moi.GetVariable[string](src, moi.VariableName{}, vi)
			if err != nil {
				return err
			}
			if name != "" {
				if err := dest.SetVariableAttribute(moi.VariableName{}, dvi, name); err != nil {
					return errors.Wrapf(err, "naming %s", dvi)
				}
			}
		}
		if starts {
			start, err := src.GetVariableAttribute(moi.VariablePrimalStart{}, vi)
			if err != nil {
				return err
			}
			if start != nil {
				if err := dest.SetVariableAttribute(moi.VariablePrimalStart{}, dvi, start); err != nil {
					return errors.Wrapf(err, "setting the start of %s", dvi)
				}
			}
		}
	}
	return nil
}

func copyConstraintNames(dest, src moi.ModelLike, idx *IndexMap) error {
	for _, ci := range idx.Constraints() {
		dci, _ := idx.Constraint(ci)
		if !src.SupportsConstraintAttribute(moi.ConstraintName{}, ci.Type) {
			continue
		}
		name, err := moi.GetConstraint[string](src, moi.ConstraintName{}, ci)
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		if err := dest.SetConstraintAttribute(moi.ConstraintName{}, dci, name); err != nil {
			return errors.Wrapf(err, "naming %s", dci)
		}
	}
	return nil
}

func copyModelAttributes(dest, src moi.ModelLike, idx *IndexMap) error {
	if src.Supports(moi.Name{}) && dest.Supports(moi.Name{}) {
		name, err := moi.Get[string](src, moi.Name{})
		if err != nil {
			return err
		}
		if name != "" {
			if err := dest.Set(moi.Name{}, name); err != nil {
				return err
			}
		}
	}
	sense, err := moi.Get[moi.OptimizationSense](src, moi.ObjectiveSense{})
	if err != nil {
		return err
	}
	if sense == moi.FeasibilitySense {
		return nil
	}
	if err := dest.Set(moi.ObjectiveSense{}, sense); err != nil {
		return errors.Wrap(err, "copying the objective sense")
	}
	f, err := moi.Objective(src)
	if err != nil {
		return err
	}
	df, err := idx.MapFunction(f)
	if err != nil {
		return err
	}
	if err := dest.Set(moi.ObjectiveFunction{Type: df.FunctionType()}, df); err != nil {
		return errors.Wrap(err, "copying the objective")
	}
	return nil
}
