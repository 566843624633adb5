package model

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

type constraintEntry struct {
	f moi.Function
	s moi.Set
}

type constraintList struct {
	next    int64
	order   []int64
	entries map[int64]*constraintEntry
}

func (l *constraintList) remove(value int64) {
	delete(l.entries, value)
	for i, v := range l.order {
		if v == value {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}

// Model is an in-memory ModelLike that accepts every function and set of
// the vocabulary. It cannot optimize; it is the cache of a caching
// optimizer and the storage behind test backends.
type Model struct {
	name      string
	sense     moi.OptimizationSense
	objective moi.ScalarFunction

	lastVariable int64
	variables    []moi.VariableIndex
	live         map[moi.VariableIndex]struct{}
	starts       map[moi.VariableIndex]*float64

	constraints map[moi.ConstraintType]*constraintList
	types       []moi.ConstraintType

	variableNames   *Names[moi.VariableIndex]
	constraintNames *Names[moi.ConstraintIndex]
}

var (
	_ moi.ModelLike   = &Model{}
	_ moi.NameIndexer = &Model{}
)

func New() *Model {
	m := &Model{}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.name = ""
	m.sense = moi.FeasibilitySense
	m.objective = moi.ScalarAffineFunction{}
	m.lastVariable = 0
	m.variables = nil
	m.live = make(map[moi.VariableIndex]struct{})
	m.starts = make(map[moi.VariableIndex]*float64)
	m.constraints = make(map[moi.ConstraintType]*constraintList)
	m.types = nil
	m.variableNames = NewNames[moi.VariableIndex]()
	m.constraintNames = NewNames[moi.ConstraintIndex]()
}

func (m *Model) IsEmpty() bool {
	if m.name != "" || len(m.variables) > 0 || m.sense != moi.FeasibilitySense {
		return false
	}
	for _, l := range m.constraints {
		if len(l.order) > 0 {
			return false
		}
	}
	f, ok := m.objective.(moi.ScalarAffineFunction)
	return ok && len(f.Terms) == 0 && f.Constant == 0
}

func (m *Model) Empty() error {
	m.reset()
	return nil
}

func (m *Model) SupportsConstraint(t moi.ConstraintType) bool {
	switch t.F {
	case moi.SingleVariableType, moi.ScalarAffineFunctionType:
		return t.S.IsScalar()
	case moi.VectorOfVariablesType, moi.VectorAffineFunctionType:
		return t.S != "" && !t.S.IsScalar()
	}
	return false
}

func (m *Model) SupportsAddConstrainedVariable(s moi.SetType) bool {
	return s.IsScalar()
}

func (m *Model) SupportsAddConstrainedVariables(s moi.SetType) bool {
	return s != "" && !s.IsScalar()
}

func (m *Model) Supports(attr moi.Attribute) bool {
	switch a := attr.(type) {
	case moi.Name, moi.ObjectiveSense, moi.ObjectiveFunctionType,
		moi.NumberOfVariables, moi.ListOfVariableIndices,
		moi.NumberOfConstraints, moi.ListOfConstraintIndices, moi.ListOfConstraints:
		return true
	case moi.ObjectiveFunction:
		return a.Type.IsScalar()
	}
	return false
}

func (m *Model) SupportsVariableAttribute(attr moi.VariableAttribute) bool {
	switch attr.(type) {
	case moi.VariableName, moi.VariablePrimalStart:
		return true
	}
	return false
}

func (m *Model) SupportsConstraintAttribute(attr moi.ConstraintAttribute, t moi.ConstraintType) bool {
	switch attr.(type) {
	case moi.ConstraintName, moi.ConstraintFunction, moi.ConstraintSet:
		return m.SupportsConstraint(t)
	}
	return false
}

func (m *Model) AddVariable() (moi.VariableIndex, error) {
	m.lastVariable++
	vi := moi.VariableIndex{Value: m.lastVariable}
	m.variables = append(m.variables, vi)
	m.live[vi] = struct{}{}
	return vi, nil
}

func (m *Model) AddVariables(n int) ([]moi.VariableIndex, error) {
	vis := make([]moi.VariableIndex, n)
	for i := range vis {
		vis[i], _ = m.AddVariable()
	}
	return vis, nil
}

func (m *Model) AddConstrainedVariable(s moi.ScalarSet) (moi.VariableIndex, moi.ConstraintIndex, error) {
	vi, _ := m.AddVariable()
	ci, err := m.AddConstraint(moi.SingleVariable{Variable: vi}, s)
	return vi, ci, err
}

func (m *Model) AddConstrainedVariables(s moi.VectorSet) ([]moi.VariableIndex, moi.ConstraintIndex, error) {
	vis, _ := m.AddVariables(s.Dimension())
	ci, err := m.AddConstraint(moi.VectorOfVariables{Variables: vis}, s)
	return vis, ci, err
}

func (m *Model) checkVariables(f moi.Function) error {
	for _, v := range moi.Variables(f) {
		if !m.IsValidVariable(v) {
			return &moi.InvalidIndexError{Index: v}
		}
	}
	return nil
}

func (m *Model) AddConstraint(f moi.Function, s moi.Set) (moi.ConstraintIndex, error) {
	t := moi.TypeOf(f, s)
	if err := moi.CheckCompatible(f, s); err != nil {
		return moi.ConstraintIndex{}, err
	}
	if err := m.checkVariables(f); err != nil {
		return moi.ConstraintIndex{}, err
	}
	if c := moi.Constant(scalarOrNil(f)); c != 0 {
		return moi.ConstraintIndex{}, &moi.ScalarFunctionConstantNotZeroError{Type: t, Constant: c}
	}
	l := m.list(t)
	var value int64
	if sv, ok := f.(moi.SingleVariable); ok {
		value = sv.Variable.Value
		if _, ok := l.entries[value]; ok {
			return moi.ConstraintIndex{}, &moi.DuplicateConstraintError{Variable: sv.Variable, Type: t}
		}
	} else {
		l.next++
		value = l.next
	}
	l.entries[value] = &constraintEntry{f: copyFunction(f), s: s}
	l.order = append(l.order, value)
	return moi.ConstraintIndex{Type: t, Value: value}, nil
}

func (m *Model) list(t moi.ConstraintType) *constraintList {
	l, ok := m.constraints[t]
	if !ok {
		l = &constraintList{entries: make(map[int64]*constraintEntry)}
		m.constraints[t] = l
		m.types = append(m.types, t)
	}
	return l
}

func (m *Model) entry(ci moi.ConstraintIndex) (*constraintEntry, error) {
	if l, ok := m.constraints[ci.Type]; ok {
		if e, ok := l.entries[ci.Value]; ok {
			return e, nil
		}
	}
	return nil, &moi.InvalidIndexError{Index: ci}
}

func (m *Model) Get(attr moi.Attribute) (interface{}, error) {
	switch a := attr.(type) {
	case moi.Name:
		return m.name, nil
	case moi.ObjectiveSense:
		return m.sense, nil
	case moi.ObjectiveFunctionType:
		return m.objective.FunctionType(), nil
	case moi.ObjectiveFunction:
		return convertObjective(m.objective, a.Type)
	case moi.NumberOfVariables:
		return len(m.variables), nil
	case moi.ListOfVariableIndices:
		return append([]moi.VariableIndex(nil), m.variables...), nil
	case moi.NumberOfConstraints:
		if l, ok := m.constraints[a.Type]; ok {
			return len(l.order), nil
		}
		return 0, nil
	case moi.ListOfConstraintIndices:
		var cis []moi.ConstraintIndex
		if l, ok := m.constraints[a.Type]; ok {
			for _, v := range l.order {
				cis = append(cis, moi.ConstraintIndex{Type: a.Type, Value: v})
			}
		}
		return cis, nil
	case moi.ListOfConstraints:
		var ts []moi.ConstraintType
		for _, t := range m.types {
			if len(m.constraints[t].order) > 0 {
				ts = append(ts, t)
			}
		}
		return ts, nil
	}
	return nil, &moi.UnsupportedAttributeError{Attribute: attr}
}

func (m *Model) Set(attr moi.Attribute, value interface{}) error {
	switch a := attr.(type) {
	case moi.Name:
		name, err := valueAs[string](attr, value)
		if err != nil {
			return err
		}
		m.name = name
		return nil
	case moi.ObjectiveSense:
		sense, err := valueAs[moi.OptimizationSense](attr, value)
		if err != nil {
			return err
		}
		m.sense = sense
		if sense == moi.FeasibilitySense {
			m.objective = moi.ScalarAffineFunction{}
		}
		return nil
	case moi.ObjectiveFunction:
		f, err := valueAs[moi.ScalarFunction](attr, value)
		if err != nil {
			return err
		}
		if f.FunctionType() != a.Type {
			return errors.Errorf("cannot set %s to a %s", a, f.FunctionType())
		}
		if err := m.checkVariables(f); err != nil {
			return err
		}
		m.objective = copyFunction(f).(moi.ScalarFunction)
		return nil
	}
	if m.Supports(attr) {
		return &moi.SetAttributeNotAllowedError{Attribute: attr}
	}
	return &moi.UnsupportedAttributeError{Attribute: attr}
}

func (m *Model) GetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex) (interface{}, error) {
	if !m.IsValidVariable(vi) {
		return nil, &moi.InvalidIndexError{Index: vi}
	}
	switch attr.(type) {
	case moi.VariableName:
		return m.variableNames.Get(vi), nil
	case moi.VariablePrimalStart:
		if start, ok := m.starts[vi]; ok {
			return *start, nil
		}
		return nil, nil
	}
	return nil, &moi.UnsupportedAttributeError{Attribute: attr}
}

func (m *Model) SetVariableAttribute(attr moi.VariableAttribute, vi moi.VariableIndex, value interface{}) error {
	if !m.IsValidVariable(vi) {
		return &moi.InvalidIndexError{Index: vi}
	}
	switch attr.(type) {
	case moi.VariableName:
		name, err := valueAs[string](attr, value)
		if err != nil {
			return err
		}
		m.variableNames.Set(vi, name)
		return nil
	case moi.VariablePrimalStart:
		if value == nil {
			delete(m.starts, vi)
			return nil
		}
		start, err := valueAs[float64](attr, value)
		if err != nil {
			return err
		}
		m.starts[vi] = &start
		return nil
	}
	return &moi.UnsupportedAttributeError{Attribute: attr}
}

func (m *Model) GetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex) (interface{}, error) {
	e, err := m.entry(ci)
	if err != nil {
		return nil, err
	}
	switch attr.(type) {
	case moi.ConstraintName:
		return m.constraintNames.Get(ci), nil
	case moi.ConstraintFunction:
		return copyFunction(e.f), nil
	case moi.ConstraintSet:
		return e.s, nil
	}
	return nil, &moi.UnsupportedAttributeError{Attribute: attr}
}

func (m *Model) SetConstraintAttribute(attr moi.ConstraintAttribute, ci moi.ConstraintIndex, value interface{}) error {
	e, err := m.entry(ci)
	if err != nil {
		return err
	}
	switch attr.(type) {
	case moi.ConstraintName:
		name, err := valueAs[string](attr, value)
		if err != nil {
			return err
		}
		m.constraintNames.Set(ci, name)
		return nil
	case moi.ConstraintFunction:
		if ci.Type.F == moi.SingleVariableType {
			return &moi.SetAttributeNotAllowedError{Attribute: attr, Message: "the function of a SingleVariable constraint is its index"}
		}
		f, err := valueAs[moi.Function](attr, value)
		if err != nil {
			return err
		}
		if f.FunctionType() != ci.Type.F {
			return errors.Errorf("cannot set the function of %s to a %s", ci, f.FunctionType())
		}
		if err := moi.CheckCompatible(f, e.s); err != nil {
			return err
		}
		if err := m.checkVariables(f); err != nil {
			return err
		}
		if c := moi.Constant(scalarOrNil(f)); c != 0 {
			return &moi.ScalarFunctionConstantNotZeroError{Type: ci.Type, Constant: c}
		}
		e.f = copyFunction(f)
		return nil
	case moi.ConstraintSet:
		s, err := valueAs[moi.Set](attr, value)
		if err != nil {
			return err
		}
		if s.SetType() != ci.Type.S {
			return errors.Errorf("cannot set the set of %s to a %s", ci, s.SetType())
		}
		if err := moi.CheckCompatible(e.f, s); err != nil {
			return err
		}
		e.s = s
		return nil
	}
	return &moi.UnsupportedAttributeError{Attribute: attr}
}

func (m *Model) Modify(ci moi.ConstraintIndex, change moi.Change) error {
	e, err := m.entry(ci)
	if err != nil {
		return err
	}
	if c, ok := change.(moi.ScalarCoefficientChange); ok && !m.IsValidVariable(c.Variable) {
		return &moi.InvalidIndexError{Index: c.Variable}
	}
	f, err := moi.ApplyChange(e.f, change)
	if err != nil {
		return err
	}
	e.f = f
	return nil
}

func (m *Model) ModifyObjective(attr moi.ObjectiveFunction, change moi.Change) error {
	f, err := convertObjective(m.objective, attr.Type)
	if err != nil {
		return err
	}
	if c, ok := change.(moi.ScalarCoefficientChange); ok && !m.IsValidVariable(c.Variable) {
		return &moi.InvalidIndexError{Index: c.Variable}
	}
	g, err := moi.ApplyChange(f, change)
	if err != nil {
		return err
	}
	m.objective = g.(moi.ScalarFunction)
	return nil
}

// Delete removes vi together with every SingleVariable constraint on it.
// Vector-of-variables constraints lose the variable, or are deleted when
// they become empty or their set cannot change dimension. Affine functions
// drop the terms in vi.
func (m *Model) Delete(vi moi.VariableIndex) error {
	if !m.IsValidVariable(vi) {
		return &moi.InvalidIndexError{Index: vi}
	}
	for _, t := range m.types {
		l := m.constraints[t]
		switch t.F {
		case moi.SingleVariableType:
			if _, ok := l.entries[vi.Value]; ok {
				m.deleteConstraint(moi.ConstraintIndex{Type: t, Value: vi.Value})
			}
		case moi.VectorOfVariablesType:
			for _, value := range append([]int64(nil), l.order...) {
				m.removeFromVector(moi.ConstraintIndex{Type: t, Value: value}, l.entries[value], vi)
			}
		case moi.ScalarAffineFunctionType:
			for _, e := range l.entries {
				e.f = e.f.(moi.ScalarAffineFunction).WithoutVariable(vi)
			}
		case moi.VectorAffineFunctionType:
			for _, e := range l.entries {
				e.f = e.f.(moi.VectorAffineFunction).WithoutVariable(vi)
			}
		}
	}
	switch f := m.objective.(type) {
	case moi.SingleVariable:
		if f.Variable == vi {
			m.objective = moi.ScalarAffineFunction{}
		}
	case moi.ScalarAffineFunction:
		m.objective = f.WithoutVariable(vi)
	}
	for i, v := range m.variables {
		if v == vi {
			m.variables = append(m.variables[:i], m.variables[i+1:]...)
			break
		}
	}
	delete(m.live, vi)
	delete(m.starts, vi)
	m.variableNames.Delete(vi)
	return nil
}

func (m *Model) removeFromVector(ci moi.ConstraintIndex, e *constraintEntry, vi moi.VariableIndex) {
	f := e.f.(moi.VectorOfVariables)
	var kept []moi.VariableIndex
	for _, v := range f.Variables {
		if v != vi {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(f.Variables) {
		return
	}
	if len(kept) == 0 || !moi.SupportsDimensionUpdate(ci.Type.S) {
		m.deleteConstraint(ci)
		return
	}
	s, _ := moi.UpdateDimension(e.s.(moi.VectorSet), len(kept))
	e.f = moi.VectorOfVariables{Variables: kept}
	e.s = s
}

func (m *Model) DeleteVariables(vis []moi.VariableIndex) error {
	seen := make(map[moi.VariableIndex]struct{}, len(vis))
	for _, vi := range vis {
		if _, ok := seen[vi]; ok || !m.IsValidVariable(vi) {
			return &moi.InvalidIndexError{Index: vi}
		}
		seen[vi] = struct{}{}
	}
	for _, vi := range vis {
		if err := m.Delete(vi); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) DeleteConstraint(ci moi.ConstraintIndex) error {
	if _, err := m.entry(ci); err != nil {
		return err
	}
	m.deleteConstraint(ci)
	return nil
}

func (m *Model) deleteConstraint(ci moi.ConstraintIndex) {
	m.constraints[ci.Type].remove(ci.Value)
	m.constraintNames.Delete(ci)
}

func (m *Model) IsValidVariable(vi moi.VariableIndex) bool {
	_, ok := m.live[vi]
	return ok
}

func (m *Model) IsValidConstraint(ci moi.ConstraintIndex) bool {
	_, err := m.entry(ci)
	return err == nil
}

func (m *Model) VariableByName(name string) (moi.VariableIndex, bool, error) {
	return m.variableNames.Lookup(name)
}

func (m *Model) ConstraintByName(name string) (moi.ConstraintIndex, bool, error) {
	return m.constraintNames.Lookup(name)
}

func convertObjective(f moi.ScalarFunction, t moi.FunctionType) (moi.ScalarFunction, error) {
	if f.FunctionType() == t {
		return copyFunction(f).(moi.ScalarFunction), nil
	}
	if t == moi.ScalarAffineFunctionType {
		return moi.ToScalarAffine(f), nil
	}
	return nil, &moi.PreconditionError{Message: fmt.Sprintf("objective of type %s cannot be read as %s", f.FunctionType(), t)}
}

func copyFunction(f moi.Function) moi.Function {
	return moi.MapVariables(f, func(v moi.VariableIndex) moi.VariableIndex { return v })
}

func scalarOrNil(f moi.Function) moi.ScalarFunction {
	if s, ok := f.(moi.ScalarFunction); ok {
		return s
	}
	return moi.SingleVariable{}
}

func valueAs[T any](attr fmt.Stringer, value interface{}) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("value of %s must be a %T, got %T", attr, zero, value)
	}
	return v, nil
}
