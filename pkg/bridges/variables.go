package bridges

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/constraint"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/variable"
	"github.com/amburosesekar/mathoptinterface/pkg/metrics"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

func (o *Optimizer) AddVariable() (moi.VariableIndex, error) {
	return o.model.AddVariable()
}

func (o *Optimizer) AddVariables(n int) ([]moi.VariableIndex, error) {
	return o.model.AddVariables(n)
}

func (o *Optimizer) AddConstrainedVariable(s moi.ScalarSet) (moi.VariableIndex, moi.ConstraintIndex, error) {
	st := s.SetType()
	r := o.VariableRealization(st)
	switch {
	case r.variable != nil:
		vi, err := o.variables.AddScalar(o, r.variable, s)
		if err != nil {
			return moi.VariableIndex{}, moi.ConstraintIndex{}, err
		}
		seq, _ := o.variables.Seq(vi)
		o.bridgeAdded(metrics.VariableKind, r.Bridge, vi)
		return vi, o.variables.ConstraintIndex(seq), nil
	case r.Native:
		return o.model.AddConstrainedVariable(s)
	case r.ViaConstraint:
		vi, err := o.model.AddVariable()
		if err != nil {
			return moi.VariableIndex{}, moi.ConstraintIndex{}, err
		}
		ci, err := o.AddConstraint(moi.SingleVariable{Variable: vi}, s)
		if err != nil {
			_ = o.model.Delete(vi)
			return moi.VariableIndex{}, moi.ConstraintIndex{}, err
		}
		return vi, ci, nil
	}
	return moi.VariableIndex{}, moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{
		Type: moi.ConstraintType{F: moi.SingleVariableType, S: st},
	}
}

func (o *Optimizer) AddConstrainedVariables(s moi.VectorSet) ([]moi.VariableIndex, moi.ConstraintIndex, error) {
	st := s.SetType()
	r := o.VariableRealization(st)
	switch {
	case r.variable != nil:
		vis, err := o.variables.AddVector(o, r.variable, s)
		if err != nil {
			return nil, moi.ConstraintIndex{}, err
		}
		seq, _ := o.variables.Seq(vis[0])
		o.bridgeAdded(metrics.VariableKind, r.Bridge, vis[0])
		return vis, o.variables.ConstraintIndex(seq), nil
	case r.Native:
		return o.model.AddConstrainedVariables(s)
	case r.ViaConstraint:
		vis, err := o.model.AddVariables(s.Dimension())
		if err != nil {
			return nil, moi.ConstraintIndex{}, err
		}
		ci, err := o.AddConstraint(moi.VectorOfVariables{Variables: vis}, s)
		if err != nil {
			_ = o.model.DeleteVariables(vis)
			return nil, moi.ConstraintIndex{}, err
		}
		return vis, ci, nil
	}
	return nil, moi.ConstraintIndex{}, &moi.UnsupportedConstraintError{
		Type: moi.ConstraintType{F: moi.VectorOfVariablesType, S: st},
	}
}

func (o *Optimizer) IsValidVariable(vi moi.VariableIndex) bool {
	if vi.Virtual() {
		return o.variables.Has(vi)
	}
	return o.model.IsValidVariable(vi)
}

// deleteConstraintsOn deletes the bridged constraints on variables about to
// be deleted. VectorOfVariables constraints that can shrink lose the
// positions of those variables instead.
func (o *Optimizer) deleteConstraintsOn(vis []moi.VariableIndex) error {
	gone := make(map[moi.VariableIndex]struct{}, len(vis))
	for _, vi := range vis {
		gone[vi] = struct{}{}
	}
	for _, ci := range o.constraints.VectorOfVariablesConstraints() {
		if !o.constraints.Has(ci) {
			continue
		}
		vars := o.constraints.Variables(ci)
		var positions []int
		var remaining []moi.VariableIndex
		for i, v := range vars {
			if _, ok := gone[v]; ok {
				positions = append(positions, i)
			} else {
				remaining = append(remaining, v)
			}
		}
		if len(positions) == 0 {
			continue
		}
		pd, ok := o.constraints.Bridge(ci).(constraint.PositionDeleter)
		if !ok || len(remaining) == 0 || !moi.SupportsDimensionUpdate(ci.Type.S) {
			if err := o.DeleteConstraint(ci); err != nil {
				return err
			}
			continue
		}
		if err := o.inContext(o.constraints.Context(ci), func() error {
			for i := len(positions) - 1; i >= 0; i-- {
				if err := pd.DeletePosition(o, positions[i]); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
		o.constraints.SetVariables(ci, remaining)
	}
	for _, vi := range vis {
		for _, ci := range o.constraints.SingleVariableConstraints(vi) {
			if !o.constraints.Has(ci) {
				continue
			}
			if err := o.DeleteConstraint(ci); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Optimizer) Delete(vi moi.VariableIndex) error {
	if !o.IsValidVariable(vi) {
		return &moi.InvalidIndexError{Index: vi}
	}
	seq, _ := o.variables.Seq(vi)
	whole := !vi.Virtual() || len(o.variables.Keys(seq)) == 1
	if !whole {
		if err := o.canDeletePosition(vi, seq); err != nil {
			return err
		}
	}
	if o.constraints.HasBridges() {
		if err := o.deleteConstraintsOn([]moi.VariableIndex{vi}); err != nil {
			return err
		}
	}
	if !vi.Virtual() {
		return o.model.Delete(vi)
	}
	if whole {
		return o.deleteVariableBridge(seq)
	}
	return o.deleteVariablePosition(vi, seq)
}

func (o *Optimizer) deleteVariableBridge(seq int) error {
	b := o.variables.Bridge(seq)
	name := o.variables.Type(seq).Name()
	keys := o.variables.Keys(seq)
	ci := o.variables.ConstraintIndex(seq)
	if err := o.inContext(seq, func() error {
		return b.Delete(o)
	}); err != nil {
		return err
	}
	o.variables.Delete(seq)
	for _, k := range keys {
		o.variableNames.Delete(k)
	}
	o.constraintNames.Delete(ci)
	o.bridgeDeleted(metrics.VariableKind, name, keys[0])
	return nil
}

// deleteVariablePosition deletes one of several variables of the bridge
// seq.
func (o *Optimizer) deleteVariablePosition(vi moi.VariableIndex, seq int) error {
	if err := o.canDeletePosition(vi, seq); err != nil {
		return err
	}
	d := o.variables.Bridge(seq).(variable.IndexDeleter)
	i := o.variables.Position(vi)
	if err := o.inContext(seq, func() error {
		return d.DeleteIndex(o, i)
	}); err != nil {
		return err
	}
	if err := o.variables.DeletePosition(vi); err != nil {
		return err
	}
	o.variableNames.Delete(vi)
	return nil
}

// canDeletePosition reports whether vi alone can leave the bridge seq. It
// is checked before anything is deleted so that a refused deletion leaves the
// model as it was.
func (o *Optimizer) canDeletePosition(vi moi.VariableIndex, seq int) error {
	_, ok := o.variables.Bridge(seq).(variable.IndexDeleter)
	if !ok || !moi.SupportsDimensionUpdate(o.variables.Set(seq).SetType()) {
		return &moi.DeleteNotAllowedError{
			Index:   vi,
			Message: fmt.Sprintf("the %s bridge cannot delete one of its variables", o.variables.Type(seq).Name()),
		}
	}
	return nil
}

// wholeBridge reports whether every variable of the bridge seq is in batch.
func (o *Optimizer) wholeBridge(seq int, batch map[moi.VariableIndex]struct{}) bool {
	for _, k := range o.variables.Keys(seq) {
		if _, ok := batch[k]; !ok {
			return false
		}
	}
	return true
}

func (o *Optimizer) DeleteVariables(vis []moi.VariableIndex) error {
	batch := make(map[moi.VariableIndex]struct{}, len(vis))
	for _, vi := range vis {
		if !o.IsValidVariable(vi) {
			return &moi.InvalidIndexError{Index: vi}
		}
		if _, ok := batch[vi]; ok {
			return &moi.PreconditionError{Message: fmt.Sprintf("%s is listed more than once", vi)}
		}
		batch[vi] = struct{}{}
	}
	for _, vi := range vis {
		if !vi.Virtual() {
			continue
		}
		seq, _ := o.variables.Seq(vi)
		if o.wholeBridge(seq, batch) {
			continue
		}
		if err := o.canDeletePosition(vi, seq); err != nil {
			return err
		}
	}
	if o.constraints.HasBridges() {
		if err := o.deleteConstraintsOn(vis); err != nil {
			return err
		}
	}

	var errs []error
	var beneath []moi.VariableIndex
	for _, vi := range vis {
		if !vi.Virtual() {
			beneath = append(beneath, vi)
			continue
		}
		seq, ok := o.variables.Seq(vi)
		if !ok {
			// Gone with the rest of its bridge.
			continue
		}
		if o.wholeBridge(seq, batch) {
			errs = append(errs, o.deleteVariableBridge(seq))
			continue
		}
		errs = append(errs, o.deleteVariablePosition(vi, seq))
	}
	if len(beneath) > 0 {
		errs = append(errs, o.model.DeleteVariables(beneath))
	}
	return utilerrors.NewAggregate(errs)
}

func (o *Optimizer) GetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex) (interface{}, error) {
	if !vi.Virtual() {
		return o.model.GetVariableAttribute(attr, vi)
	}
	seq, ok := o.variables.Seq(vi)
	if !ok {
		return nil, &moi.InvalidIndexError{Index: vi}
	}
	switch attr.(type) {
	case moi.VariableName:
		return o.variableNames.Get(vi), nil
	case moi.VariablePrimal:
		f, err := o.variableExpression(vi)
		if err != nil {
			return nil, err
		}
		return f.Evaluate(func(v moi.VariableIndex) (float64, error) {
			return moi.GetVariable[float64](o.model, attr, v)
		})
	case moi.VariablePrimalStart:
		starter, ok := o.variables.Bridge(seq).(variable.Starter)
		if !ok {
			break
		}
		var value interface{}
		err := o.inContext(seq, func() error {
			var err error
			value, err = starter.PrimalStart(o, o.variables.Position(vi))
			return err
		})
		return value, err
	}
	return nil, &moi.UnsupportedAttributeError{Attribute: attr, Message: "not available for bridged variables"}
}

func (o *Optimizer) SetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex, value interface{}) error {
	if !vi.Virtual() {
		return o.model.SetVariableAttribute(attr, vi, value)
	}
	seq, ok := o.variables.Seq(vi)
	if !ok {
		return &moi.InvalidIndexError{Index: vi}
	}
	switch attr.(type) {
	case moi.VariableName:
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("value of %s must be a string, got %T", attr, value)
		}
		o.variableNames.Set(vi, name)
		return nil
	case moi.VariablePrimalStart:
		starter, ok := o.variables.Bridge(seq).(variable.Starter)
		if !ok {
			break
		}
		return o.inContext(seq, func() error {
			return starter.SetPrimalStart(o, o.variables.Position(vi), value)
		})
	}
	return &moi.UnsupportedAttributeError{Attribute: attr, Message: "not available for bridged variables"}
}

// artifactVariables collects the variables created by live bridges.
func (o *Optimizer) artifactVariables() map[moi.VariableIndex]struct{} {
	artifacts := make(map[moi.VariableIndex]struct{})
	o.eachBridge(func(b bridge.Bridge) {
		for _, v := range b.Variables() {
			artifacts[v] = struct{}{}
		}
	})
	return artifacts
}

func (o *Optimizer) numberOfVariables() (int, error) {
	n, err := moi.Get[int](o.model, moi.NumberOfVariables{})
	if err != nil {
		return 0, err
	}
	return n + o.variables.NumberOfVariables() - len(o.artifactVariables()), nil
}

func (o *Optimizer) listOfVariableIndices() ([]moi.VariableIndex, error) {
	beneath, err := moi.Get[[]moi.VariableIndex](o.model, moi.ListOfVariableIndices{})
	if err != nil {
		return nil, err
	}
	artifacts := o.artifactVariables()
	var vis []moi.VariableIndex
	for _, v := range append(beneath, o.variables.Variables()...) {
		if _, ok := artifacts[v]; !ok {
			vis = append(vis, v)
		}
	}
	return vis, nil
}
