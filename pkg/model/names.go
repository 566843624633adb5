package model

import (
	"github.com/pkg/errors"
)

// Names stores the names of indices of type K together with a reverse
// lookup. The reverse lookup is dropped on every change and rebuilt by the
// next Lookup.
type Names[K comparable] struct {
	names map[K]string
	index map[string][]K
}

func NewNames[K comparable]() *Names[K] {
	return &Names[K]{names: make(map[K]string)}
}

// Set names k. An empty name removes it.
func (n *Names[K]) Set(k K, name string) {
	if name == "" {
		n.Delete(k)
		return
	}
	if old, ok := n.names[k]; ok && old == name {
		return
	}
	n.names[k] = name
	n.index = nil
}

func (n *Names[K]) Get(k K) string {
	return n.names[k]
}

func (n *Names[K]) Delete(k K) {
	if _, ok := n.names[k]; !ok {
		return
	}
	delete(n.names, k)
	n.index = nil
}

func (n *Names[K]) Len() int {
	return len(n.names)
}

// Stale reports whether the next Lookup has to rebuild the reverse lookup.
func (n *Names[K]) Stale() bool {
	return n.index == nil
}

// Lookup returns the index named name. It fails if more than one index has
// that name.
func (n *Names[K]) Lookup(name string) (K, bool, error) {
	var zero K
	if n.index == nil {
		n.index = make(map[string][]K, len(n.names))
		for k, s := range n.names {
			n.index[s] = append(n.index[s], k)
		}
	}
	ks := n.index[name]
	switch len(ks) {
	case 0:
		return zero, false, nil
	case 1:
		return ks[0], true, nil
	}
	return zero, false, errors.Errorf("name %q is used by %d indices", name, len(ks))
}

func (n *Names[K]) Clear() {
	n.names = make(map[K]string)
	n.index = nil
}
