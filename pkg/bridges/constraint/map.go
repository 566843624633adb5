package constraint

import (
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

type entry struct {
	t         Type
	bridge    Bridge
	variables []moi.VariableIndex
	context   int
}

// Map holds the constraint bridges of an optimizer, keyed by the index of
// the constraint they realize.
//
// SingleVariable constraints are keyed by the value of their variable, like
// in any model, so they are virtual exactly when their variable is. Every
// other constraint gets a virtual tag from the shared allocator and never
// collides with a constraint of the model beneath.
type Map struct {
	keys    *bridge.Keys
	entries map[moi.ConstraintIndex]*entry
	order   []moi.ConstraintIndex
}

func NewMap(keys *bridge.Keys) *Map {
	m := &Map{keys: keys}
	m.Clear()
	return m
}

func (m *Map) Clear() {
	m.entries = make(map[moi.ConstraintIndex]*entry)
	m.order = nil
}

// Add builds a bridge of type t for f-in-s and registers it in context.
func (m *Map) Add(model moi.ModelLike, t Type, f moi.Function, s moi.Set, context int) (moi.ConstraintIndex, error) {
	b, err := t.Bridge(model, f, s)
	if err != nil {
		return moi.ConstraintIndex{}, err
	}
	ct := moi.TypeOf(f, s)
	ci := moi.ConstraintIndex{Type: ct}
	e := &entry{t: t, bridge: b, context: context}
	switch f := f.(type) {
	case moi.SingleVariable:
		ci.Value = f.Variable.Value
		e.variables = []moi.VariableIndex{f.Variable}
	case moi.VectorOfVariables:
		ci.Value = m.keys.Next()
		e.variables = append([]moi.VariableIndex(nil), f.Variables...)
	default:
		ci.Value = m.keys.Next()
	}
	m.entries[ci] = e
	m.order = append(m.order, ci)
	return ci, nil
}

func (m *Map) Has(ci moi.ConstraintIndex) bool {
	_, ok := m.entries[ci]
	return ok
}

func (m *Map) Bridge(ci moi.ConstraintIndex) Bridge {
	if e, ok := m.entries[ci]; ok {
		return e.bridge
	}
	return nil
}

func (m *Map) Type(ci moi.ConstraintIndex) Type {
	if e, ok := m.entries[ci]; ok {
		return e.t
	}
	return nil
}

// Context returns the sequence number of the variable bridge that was
// being built when ci was added, zero for none.
func (m *Map) Context(ci moi.ConstraintIndex) int {
	if e, ok := m.entries[ci]; ok {
		return e.context
	}
	return 0
}

// Variables returns the variables of a SingleVariable or VectorOfVariables
// constraint.
func (m *Map) Variables(ci moi.ConstraintIndex) []moi.VariableIndex {
	if e, ok := m.entries[ci]; ok {
		return append([]moi.VariableIndex(nil), e.variables...)
	}
	return nil
}

func (m *Map) SetVariables(ci moi.ConstraintIndex, vis []moi.VariableIndex) {
	if e, ok := m.entries[ci]; ok {
		e.variables = append([]moi.VariableIndex(nil), vis...)
	}
}

// Delete forgets ci. The caller deletes the artifacts of its bridge.
func (m *Map) Delete(ci moi.ConstraintIndex) {
	if _, ok := m.entries[ci]; !ok {
		return
	}
	delete(m.entries, ci)
	for i, c := range m.order {
		if c == ci {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Map) HasBridges() bool {
	return len(m.entries) > 0
}

func (m *Map) Len() int {
	return len(m.entries)
}

func (m *Map) NumberOf(t moi.ConstraintType) int {
	n := 0
	for _, ci := range m.order {
		if ci.Type == t {
			n++
		}
	}
	return n
}

// ListOf lists the bridged constraints of type t in creation order.
func (m *Map) ListOf(t moi.ConstraintType) []moi.ConstraintIndex {
	var cis []moi.ConstraintIndex
	for _, ci := range m.order {
		if ci.Type == t {
			cis = append(cis, ci)
		}
	}
	return cis
}

// Types lists the types of the bridged constraints, each once.
func (m *Map) Types() []moi.ConstraintType {
	var ts []moi.ConstraintType
	seen := make(map[moi.ConstraintType]struct{})
	for _, ci := range m.order {
		if _, ok := seen[ci.Type]; !ok {
			seen[ci.Type] = struct{}{}
			ts = append(ts, ci.Type)
		}
	}
	return ts
}

// Each calls f for every bridge in creation order.
func (m *Map) Each(f func(ci moi.ConstraintIndex, b Bridge)) {
	for _, ci := range append([]moi.ConstraintIndex(nil), m.order...) {
		if e, ok := m.entries[ci]; ok {
			f(ci, e.bridge)
		}
	}
}

// VectorOfVariablesConstraints lists the bridged VectorOfVariables
// constraints, newest first.
func (m *Map) VectorOfVariablesConstraints() []moi.ConstraintIndex {
	var cis []moi.ConstraintIndex
	for i := len(m.order) - 1; i >= 0; i-- {
		if m.order[i].Type.F == moi.VectorOfVariablesType {
			cis = append(cis, m.order[i])
		}
	}
	return cis
}

// SingleVariableConstraints lists the bridged SingleVariable constraints on
// vi, newest first.
func (m *Map) SingleVariableConstraints(vi moi.VariableIndex) []moi.ConstraintIndex {
	var cis []moi.ConstraintIndex
	for i := len(m.order) - 1; i >= 0; i-- {
		ci := m.order[i]
		if ci.Type.F == moi.SingleVariableType && ci.Value == vi.Value {
			cis = append(cis, ci)
		}
	}
	return cis
}
