package objective

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

type entry struct {
	f      moi.FunctionType
	t      Type
	bridge Bridge
}

// Map holds the objective bridges of an optimizer, keyed by the function
// type they realize. A bridged objective may set an objective that is
// bridged in turn, so several bridges can be live at once. The inner ones
// finish building first, which makes the last added the root: the one
// realizing the objective the caller set.
type Map struct {
	entries []entry
}

func NewMap() *Map {
	return &Map{}
}

func (m *Map) Clear() {
	m.entries = nil
}

// Add registers b as the bridge of objectives of type f. A previous bridge
// for f is replaced.
func (m *Map) Add(f moi.FunctionType, t Type, b Bridge) {
	m.Remove(f)
	m.entries = append(m.entries, entry{f: f, t: t, bridge: b})
}

func (m *Map) Remove(f moi.FunctionType) {
	for i, e := range m.entries {
		if e.f == f {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			return
		}
	}
}

func (m *Map) Has(f moi.FunctionType) bool {
	return m.Bridge(f) != nil
}

func (m *Map) Bridge(f moi.FunctionType) Bridge {
	for _, e := range m.entries {
		if e.f == f {
			return e.bridge
		}
	}
	return nil
}

func (m *Map) Type(f moi.FunctionType) Type {
	for _, e := range m.entries {
		if e.f == f {
			return e.t
		}
	}
	return nil
}

// Root returns the function type of the objective the caller set.
func (m *Map) Root() (moi.FunctionType, bool) {
	if len(m.entries) == 0 {
		return "", false
	}
	return m.entries[len(m.entries)-1].f, true
}

func (m *Map) HasBridges() bool {
	return len(m.entries) > 0
}

func (m *Map) Len() int {
	return len(m.entries)
}

// Types lists the bridged function types, root first. Deleting in this
// order releases every bridge before the bridges it built on.
func (m *Map) Types() []moi.FunctionType {
	ts := make([]moi.FunctionType, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		ts = append(ts, m.entries[i].f)
	}
	return ts
}

// Each calls f for every bridge, inner ones first.
func (m *Map) Each(f func(ft moi.FunctionType, b Bridge)) {
	for _, e := range append([]entry(nil), m.entries...) {
		f(e.f, e.bridge)
	}
}
