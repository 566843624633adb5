package model

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// IndexMap is a bidirectional correspondence between the indices of a
// source model and those of a destination model. Every forward entry has
// the matching reverse entry.
type IndexMap struct {
	variables           map[moi.VariableIndex]moi.VariableIndex
	variableSources     map[moi.VariableIndex]moi.VariableIndex
	constraints         map[moi.ConstraintIndex]moi.ConstraintIndex
	constraintSources   map[moi.ConstraintIndex]moi.ConstraintIndex
	constraintInsertion []moi.ConstraintIndex
}

func NewIndexMap() *IndexMap {
	return &IndexMap{
		variables:         make(map[moi.VariableIndex]moi.VariableIndex),
		variableSources:   make(map[moi.VariableIndex]moi.VariableIndex),
		constraints:       make(map[moi.ConstraintIndex]moi.ConstraintIndex),
		constraintSources: make(map[moi.ConstraintIndex]moi.ConstraintIndex),
	}
}

func (m *IndexMap) SetVariable(src, dst moi.VariableIndex) {
	if old, ok := m.variables[src]; ok {
		delete(m.variableSources, old)
	}
	m.variables[src] = dst
	m.variableSources[dst] = src
}

// Variable returns the destination index of src.
func (m *IndexMap) Variable(src moi.VariableIndex) (moi.VariableIndex, bool) {
	dst, ok := m.variables[src]
	return dst, ok
}

// VariableSource returns the source index mapped to dst.
func (m *IndexMap) VariableSource(dst moi.VariableIndex) (moi.VariableIndex, bool) {
	src, ok := m.variableSources[dst]
	return src, ok
}

func (m *IndexMap) DeleteVariable(src moi.VariableIndex) {
	if dst, ok := m.variables[src]; ok {
		delete(m.variableSources, dst)
		delete(m.variables, src)
	}
}

func (m *IndexMap) SetConstraint(src, dst moi.ConstraintIndex) {
	if old, ok := m.constraints[src]; ok {
		delete(m.constraintSources, old)
	} else {
		m.constraintInsertion = append(m.constraintInsertion, src)
	}
	m.constraints[src] = dst
	m.constraintSources[dst] = src
}

func (m *IndexMap) Constraint(src moi.ConstraintIndex) (moi.ConstraintIndex, bool) {
	dst, ok := m.constraints[src]
	return dst, ok
}

func (m *IndexMap) ConstraintSource(dst moi.ConstraintIndex) (moi.ConstraintIndex, bool) {
	src, ok := m.constraintSources[dst]
	return src, ok
}

func (m *IndexMap) DeleteConstraint(src moi.ConstraintIndex) {
	dst, ok := m.constraints[src]
	if !ok {
		return
	}
	delete(m.constraintSources, dst)
	delete(m.constraints, src)
	for i, c := range m.constraintInsertion {
		if c == src {
			m.constraintInsertion = append(m.constraintInsertion[:i], m.constraintInsertion[i+1:]...)
			break
		}
	}
}

// Constraints lists the mapped source constraints in insertion order.
func (m *IndexMap) Constraints() []moi.ConstraintIndex {
	return append([]moi.ConstraintIndex(nil), m.constraintInsertion...)
}

func (m *IndexMap) NumVariables() int {
	return len(m.variables)
}

func (m *IndexMap) NumConstraints() int {
	return len(m.constraints)
}

func (m *IndexMap) Len() int {
	return len(m.variables) + len(m.constraints)
}

// MapFunction rewrites the variables of f from source to destination
// indices. It fails on the first unmapped variable.
func (m *IndexMap) MapFunction(f moi.Function) (moi.Function, error) {
	var missing *moi.VariableIndex
	g := moi.MapVariables(f, func(v moi.VariableIndex) moi.VariableIndex {
		dst, ok := m.variables[v]
		if !ok && missing == nil {
			missing = &v
		}
		return dst
	})
	if missing != nil {
		return nil, &moi.InvalidIndexError{Index: *missing}
	}
	return g, nil
}

// MapSourceFunction is the reverse of MapFunction.
func (m *IndexMap) MapSourceFunction(f moi.Function) (moi.Function, error) {
	var missing *moi.VariableIndex
	g := moi.MapVariables(f, func(v moi.VariableIndex) moi.VariableIndex {
		src, ok := m.variableSources[v]
		if !ok && missing == nil {
			missing = &v
		}
		return src
	})
	if missing != nil {
		return nil, &moi.InvalidIndexError{Index: *missing}
	}
	return g, nil
}

// MapChange rewrites the variable of a coefficient change; other changes
// carry no index.
func (m *IndexMap) MapChange(change moi.Change) (moi.Change, error) {
	if c, ok := change.(moi.ScalarCoefficientChange); ok {
		dst, ok := m.variables[c.Variable]
		if !ok {
			return nil, &moi.InvalidIndexError{Index: c.Variable}
		}
		c.Variable = dst
		return c, nil
	}
	return change, nil
}
