package variable

import (
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/bridge"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

type entry struct {
	t      Type
	bridge Bridge
	keys   []moi.VariableIndex
	set    moi.Set
	ci     moi.ConstraintIndex
}

// Map holds the variable bridges of an optimizer. Bridges are numbered by
// a sequence starting at 1 in creation order. Each bridge is keyed by the
// virtual indices of the variables it realizes.
//
// While a bridge is being built, Current returns its sequence number; the
// constraints created during that time belong to its context.
type Map struct {
	keys    *bridge.Keys
	entries []*entry

	seqs         map[moi.VariableIndex]int
	owners       map[moi.VariableIndex]int
	byConstraint map[moi.ConstraintIndex]int

	current int
	live    int
}

func NewMap(keys *bridge.Keys) *Map {
	m := &Map{keys: keys}
	m.Clear()
	return m
}

func (m *Map) Clear() {
	m.entries = nil
	m.seqs = make(map[moi.VariableIndex]int)
	m.owners = make(map[moi.VariableIndex]int)
	m.byConstraint = make(map[moi.ConstraintIndex]int)
	m.current = 0
	m.live = 0
}

// AddScalar builds a bridge of type t for a variable in s.
func (m *Map) AddScalar(model moi.ModelLike, t Type, s moi.ScalarSet) (moi.VariableIndex, error) {
	vis, err := m.add(model, t, s, 1)
	if err != nil {
		return moi.VariableIndex{}, err
	}
	return vis[0], nil
}

// AddVector builds a bridge of type t for s.Dimension() variables in s.
func (m *Map) AddVector(model moi.ModelLike, t Type, s moi.VectorSet) ([]moi.VariableIndex, error) {
	if s.Dimension() < 1 {
		return nil, &moi.PreconditionError{Message: "cannot bridge variables in a set of dimension zero"}
	}
	return m.add(model, t, s, s.Dimension())
}

func (m *Map) add(model moi.ModelLike, t Type, s moi.Set, n int) ([]moi.VariableIndex, error) {
	e := &entry{t: t, set: s}
	for _, tag := range m.keys.NextN(n) {
		e.keys = append(e.keys, moi.MustVirtualVariable(tag))
	}
	e.ci = moi.ConstraintIndex{
		Type:  moi.ConstraintType{F: moi.VariableFunctionType(s.SetType()), S: s.SetType()},
		Value: e.keys[0].Value,
	}

	m.entries = append(m.entries, e)
	seq := len(m.entries)
	for _, k := range e.keys {
		m.seqs[k] = seq
	}
	m.byConstraint[e.ci] = seq

	previous := m.current
	m.current = seq
	b, err := t.Bridge(model, s)
	m.current = previous
	if err != nil {
		m.remove(seq)
		return nil, err
	}

	e.bridge = b
	m.refreshOwners(seq)
	m.live++
	return append([]moi.VariableIndex(nil), e.keys...), nil
}

func (m *Map) remove(seq int) {
	e := m.entries[seq-1]
	for _, k := range e.keys {
		delete(m.seqs, k)
	}
	delete(m.byConstraint, e.ci)
	for v, owner := range m.owners {
		if owner == seq {
			delete(m.owners, v)
		}
	}
	m.entries[seq-1] = nil
}

func (m *Map) refreshOwners(seq int) {
	for v, owner := range m.owners {
		if owner == seq {
			delete(m.owners, v)
		}
	}
	for _, v := range m.entries[seq-1].bridge.Variables() {
		m.owners[v] = seq
	}
}

func (m *Map) at(seq int) *entry {
	if seq < 1 || seq > len(m.entries) {
		return nil
	}
	e := m.entries[seq-1]
	if e == nil || e.bridge == nil {
		return nil
	}
	return e
}

// Has reports whether vi is a key of a built bridge.
func (m *Map) Has(vi moi.VariableIndex) bool {
	_, ok := m.Seq(vi)
	return ok
}

// Seq returns the sequence number of the bridge keyed by vi.
func (m *Map) Seq(vi moi.VariableIndex) (int, bool) {
	seq, ok := m.seqs[vi]
	if !ok || m.at(seq) == nil {
		return 0, false
	}
	return seq, true
}

func (m *Map) Bridge(seq int) Bridge {
	if e := m.at(seq); e != nil {
		return e.bridge
	}
	return nil
}

func (m *Map) Type(seq int) Type {
	if e := m.at(seq); e != nil {
		return e.t
	}
	return nil
}

// Keys lists the variables realized by the bridge seq.
func (m *Map) Keys(seq int) []moi.VariableIndex {
	if e := m.at(seq); e != nil {
		return append([]moi.VariableIndex(nil), e.keys...)
	}
	return nil
}

// Position returns the position of vi among the keys of its bridge.
func (m *Map) Position(vi moi.VariableIndex) int {
	seq, ok := m.Seq(vi)
	if !ok {
		return -1
	}
	for i, k := range m.entries[seq-1].keys {
		if k == vi {
			return i
		}
	}
	return -1
}

// Set returns the set the variables of bridge seq are constrained to.
func (m *Map) Set(seq int) moi.Set {
	if e := m.at(seq); e != nil {
		return e.set
	}
	return nil
}

// ConstraintIndex returns the index of the constraint holding the
// variables of bridge seq in their set.
func (m *Map) ConstraintIndex(seq int) moi.ConstraintIndex {
	if e := m.at(seq); e != nil {
		return e.ci
	}
	return moi.ConstraintIndex{}
}

// HasConstraint reports whether ci is the constraint of a variable bridge.
func (m *Map) HasConstraint(ci moi.ConstraintIndex) bool {
	_, ok := m.ConstraintSeq(ci)
	return ok
}

func (m *Map) ConstraintSeq(ci moi.ConstraintIndex) (int, bool) {
	seq, ok := m.byConstraint[ci]
	if !ok || m.at(seq) == nil {
		return 0, false
	}
	return seq, true
}

// Delete forgets the bridge seq. The caller deletes its artifacts.
func (m *Map) Delete(seq int) {
	if m.at(seq) == nil {
		return
	}
	m.remove(seq)
	m.live--
}

// DeletePosition forgets vi, one of several keys of a bridge. The set of
// the bridge loses a dimension.
func (m *Map) DeletePosition(vi moi.VariableIndex) error {
	seq, ok := m.Seq(vi)
	if !ok {
		return &moi.InvalidIndexError{Index: vi}
	}
	e := m.entries[seq-1]
	i := m.Position(vi)
	vs, ok := e.set.(moi.VectorSet)
	if !ok {
		return &moi.PreconditionError{Message: "scalar bridged variables have a single key"}
	}
	s, err := moi.UpdateDimension(vs, vs.Dimension()-1)
	if err != nil {
		return err
	}
	e.set = s
	e.keys = append(e.keys[:i:i], e.keys[i+1:]...)
	delete(m.seqs, vi)
	m.refreshOwners(seq)
	return nil
}

// Owner returns the sequence number of the bridge that created v.
func (m *Map) Owner(v moi.VariableIndex) (int, bool) {
	seq, ok := m.owners[v]
	return seq, ok
}

// Current returns the context, zero when outside of any.
func (m *Map) Current() int {
	return m.current
}

// SetCurrent switches the context and returns the previous one.
func (m *Map) SetCurrent(seq int) int {
	previous := m.current
	m.current = seq
	return previous
}

func (m *Map) HasBridges() bool {
	return m.live > 0
}

func (m *Map) Len() int {
	return m.live
}

// Each calls f for every bridge in creation order.
func (m *Map) Each(f func(seq int, b Bridge)) {
	for i := range m.entries {
		if e := m.at(i + 1); e != nil {
			f(i+1, e.bridge)
		}
	}
}

// Variables lists every bridged variable in creation order.
func (m *Map) Variables() []moi.VariableIndex {
	var vis []moi.VariableIndex
	m.Each(func(seq int, _ Bridge) {
		vis = append(vis, m.entries[seq-1].keys...)
	})
	return vis
}

func (m *Map) NumberOfVariables() int {
	n := 0
	m.Each(func(seq int, _ Bridge) {
		n += len(m.entries[seq-1].keys)
	})
	return n
}

func (m *Map) NumberOfConstraints(t moi.ConstraintType) int {
	return len(m.ListOfConstraintIndices(t))
}

func (m *Map) ListOfConstraintIndices(t moi.ConstraintType) []moi.ConstraintIndex {
	var cis []moi.ConstraintIndex
	m.Each(func(seq int, _ Bridge) {
		if ci := m.entries[seq-1].ci; ci.Type == t {
			cis = append(cis, ci)
		}
	})
	return cis
}

// ConstraintTypes lists the types of the constraints of the bridged
// variables, each once.
func (m *Map) ConstraintTypes() []moi.ConstraintType {
	var ts []moi.ConstraintType
	seen := make(map[moi.ConstraintType]struct{})
	m.Each(func(seq int, _ Bridge) {
		t := m.entries[seq-1].ci.Type
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			ts = append(ts, t)
		}
	})
	return ts
}
